package rtm

import (
	"context"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/slackwire/internal/codec"
	"github.com/GriffinCanCode/slackwire/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/slackwire/internal/objects"
	"github.com/GriffinCanCode/slackwire/internal/slacktest"
)

func dialTest(t *testing.T, srv *slacktest.Server) (*Session, *monitoring.Metrics) {
	t.Helper()
	metrics := monitoring.NewMetrics(nil)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	s, err := Dial(ctx, Info{URL: srv.RTMURL(), Self: "U0BOT", Team: "T0TEAM"}, Options{Metrics: metrics})
	require.NoError(t, err)
	return s, metrics
}

func TestSessionEcho(t *testing.T) {
	srv := slacktest.NewServer()
	defer srv.Close()

	s, metrics := dialTest(t, srv)
	defer s.Close()
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RTMConnections))

	hello, err := s.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, TypeHello, hello.Type)
	assert.Nil(t, hello.Message)

	first, err := s.SendText("C024BE91L", "hello there")
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)

	reply, err := s.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, TypeReply, reply.Type)
	assert.Equal(t, first, reply.ReplyTo)
	assert.True(t, reply.OK)

	ev, err := s.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, TypeMessage, ev.Type)
	require.NotNil(t, ev.Message)
	assert.Equal(t, "hello there", *ev.Message.Text)
	assert.Equal(t, "C024BE91L", ev.Message.Channel.String())
	assert.Equal(t, "U0BOT", ev.Message.User.String())
	assert.Equal(t, int64(1612137600000), ev.Message.Timestamp)
	assert.True(t, ev.Message.AsUser)

	second, err := s.SendText("C024BE91L", "again")
	require.NoError(t, err)
	assert.Equal(t, int64(2), second)

	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.RTMMessages.WithLabelValues("out", TypeMessage)))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.RTMMessages.WithLabelValues("in", TypeHello)))
}

func TestSessionClose(t *testing.T) {
	srv := slacktest.NewServer()
	defer srv.Close()

	s, metrics := dialTest(t, srv)
	require.NoError(t, s.Close())
	assert.NoError(t, s.Close())
	assert.Equal(t, 0.0, testutil.ToFloat64(metrics.RTMConnections))

	_, err := s.ReadEvent()
	assert.ErrorIs(t, err, ErrClosed)
	_, err = s.SendText("C1", "late")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSessionRejectsBadEvents(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  error
	}{
		{"not json", `nope`, codec.ErrMalformed},
		{"no type no reply", `{"ok":true}`, codec.ErrMissingField},
		{"bad timestamp", `{"type":"message","ts":"yesterday"}`, codec.ErrMalformed},
		{"bad edited", `{"type":"message","edited":"x"}`, codec.ErrTypeMismatch},
		{"unknown block", `{"type":"message","blocks":[{"type":"carousel"}]}`, codec.ErrUnknownVariant},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := slacktest.NewServer()
			defer srv.Close()
			srv.OnRTM(func(conn *websocket.Conn) {
				_ = conn.WriteMessage(websocket.TextMessage, []byte(tt.frame))
				_, _, _ = conn.ReadMessage()
			})

			s, _ := dialTest(t, srv)
			defer s.Close()

			_, err := s.ReadEvent()
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSessionPassesOtherEventsRaw(t *testing.T) {
	srv := slacktest.NewServer()
	defer srv.Close()
	srv.OnRTM(func(conn *websocket.Conn) {
		_ = conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"user_typing","channel":"C1","user":"U2"}`))
		_, _, _ = conn.ReadMessage()
	})

	s, _ := dialTest(t, srv)
	defer s.Close()

	ev, err := s.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, "user_typing", ev.Type)
	assert.Nil(t, ev.Message)
	assert.Equal(t, "U2", ev.Raw["user"])
}

func TestDialFailure(t *testing.T) {
	_, err := Dial(context.Background(), Info{URL: "ws://127.0.0.1:1/rtm"}, Options{Registry: objects.NewRegistry()})
	assert.Error(t, err)
}
