// Package rtm is a thin pass-through over a Real Time Messaging websocket.
//
// A Session reads one event per call and writes outbound text messages with
// incrementing ids. It keeps no history and never reconnects.
package rtm

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/slackwire/internal/codec"
	"github.com/GriffinCanCode/slackwire/internal/infrastructure/logging"
	"github.com/GriffinCanCode/slackwire/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/slackwire/internal/objects"
	"github.com/GriffinCanCode/slackwire/internal/shared/id"
)

// Event types with special handling
const (
	TypeHello   = "hello"
	TypeMessage = "message"
	// TypeReply marks the server's acknowledgement of a sent frame
	TypeReply = "reply"
)

const (
	directionIn  = "in"
	directionOut = "out"
)

// ErrClosed is returned after Close
var ErrClosed = errors.New("rtm: session closed")

// Info describes the websocket endpoint and the connected identity
type Info struct {
	URL  string
	Self id.ObjectID
	Team id.ObjectID
}

// Event is one inbound frame
type Event struct {
	Type string
	// Raw is the whole frame
	Raw codec.Object
	// Message is set for message events
	Message *objects.Message
	// ReplyTo and OK are set for replies
	ReplyTo int64
	OK      bool
}

// Options configures Dial
type Options struct {
	Registry *codec.Registry
	Logger   *zap.Logger
	Metrics  *monitoring.Metrics
	Dialer   *websocket.Dialer
}

// Session is an open RTM connection. ReadEvent must be called from one
// goroutine; SendText may be called concurrently.
type Session struct {
	info    Info
	conn    *websocket.Conn
	decoder *codec.Context
	logger  *zap.Logger
	metrics *monitoring.Metrics

	nextID    atomic.Int64
	writeMu   sync.Mutex
	closeOnce sync.Once
	closed    atomic.Bool
}

// Dial opens the websocket at info.URL
func Dial(ctx context.Context, info Info, opts Options) (*Session, error) {
	if opts.Registry == nil {
		opts.Registry = objects.NewRegistry()
	}
	if opts.Metrics == nil {
		opts.Metrics = monitoring.NewMetrics(nil)
	}
	dialer := opts.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}

	conn, _, err := dialer.DialContext(ctx, info.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("rtm: dial: %w", err)
	}

	s := &Session{
		info:    info,
		conn:    conn,
		decoder: opts.Registry.Context(),
		logger:  logging.OrNop(opts.Logger).Named("rtm").With(zap.Stringer("self", info.Self)),
		metrics: opts.Metrics,
	}
	s.metrics.IncRTMConnections()
	s.logger.Info("rtm session opened", zap.Stringer("team", info.Team))
	return s, nil
}

// Info returns the endpoint and identity the session was opened with
func (s *Session) Info() Info {
	return s.info
}

// ReadEvent blocks for the next frame
func (s *Session) ReadEvent() (*Event, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	_, data, err := s.conn.ReadMessage()
	if err != nil {
		if s.closed.Load() {
			return nil, ErrClosed
		}
		return nil, fmt.Errorf("rtm: read: %w", err)
	}

	frame, err := codec.ParseObject(data)
	if err != nil {
		return nil, fmt.Errorf("rtm: frame: %w", err)
	}
	ev, err := s.decodeEvent(frame)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordRTMMessage(directionIn, ev.Type)
	return ev, nil
}

func (s *Session) decodeEvent(frame codec.Object) (*Event, error) {
	ev := &Event{Raw: frame}

	typ, err := frame.String(codec.TypeKey)
	if err != nil {
		return nil, fmt.Errorf("rtm: frame: %w", err)
	}
	if typ == nil {
		replyTo, err := frame.Int("reply_to")
		if err != nil {
			return nil, fmt.Errorf("rtm: reply: %w", err)
		}
		if replyTo == nil {
			return nil, fmt.Errorf("rtm: frame: %w", codec.MissingField(codec.TypeKey))
		}
		ev.Type = TypeReply
		ev.ReplyTo = *replyTo
		if ev.OK, err = frame.Bool("ok", false); err != nil {
			return nil, fmt.Errorf("rtm: reply: %w", err)
		}
		return ev, nil
	}

	ev.Type = *typ
	if ev.Type == TypeMessage {
		msg, err := codec.DecodeInto[*objects.Message](s.decoder, frame, objects.FamilyMessage)
		if err != nil {
			return nil, fmt.Errorf("rtm: message event: %w", err)
		}
		ev.Message = msg
	}
	return ev, nil
}

// SendText posts text to channel and returns the frame id the server will
// acknowledge with reply_to
func (s *Session) SendText(channel id.ObjectID, text string) (int64, error) {
	if s.closed.Load() {
		return 0, ErrClosed
	}
	frameID := s.nextID.Add(1)
	data, err := codec.Marshal(codec.Object{
		"id":          frameID,
		codec.TypeKey: TypeMessage,
		"channel":     channel.String(),
		"text":        text,
	})
	if err != nil {
		return 0, err
	}

	s.writeMu.Lock()
	err = s.conn.WriteMessage(websocket.TextMessage, data)
	s.writeMu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("rtm: write: %w", err)
	}
	s.metrics.RecordRTMMessage(directionOut, TypeMessage)
	s.logger.Debug("rtm frame sent", zap.Int64("id", frameID), zap.Stringer("channel", channel))
	return frameID, nil
}

// Close sends a close frame and releases the connection. It is safe to call
// more than once.
func (s *Session) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.closed.Store(true)
		s.writeMu.Lock()
		_ = s.conn.WriteMessage(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
		s.writeMu.Unlock()
		err = s.conn.Close()
		s.metrics.DecRTMConnections()
		s.logger.Info("rtm session closed")
	})
	return err
}
