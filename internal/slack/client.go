// Package slack is the high-level Web API client. It encodes domain objects
// through the codec registry, calls methods over a transport.Connection and
// decodes the replies.
package slack

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/slackwire/internal/codec"
	"github.com/GriffinCanCode/slackwire/internal/infrastructure/config"
	"github.com/GriffinCanCode/slackwire/internal/infrastructure/logging"
	"github.com/GriffinCanCode/slackwire/internal/objects"
	"github.com/GriffinCanCode/slackwire/internal/rtm"
	"github.com/GriffinCanCode/slackwire/internal/shared/id"
	"github.com/GriffinCanCode/slackwire/internal/transport"
)

// API methods
const (
	MethodAuthTest          = "auth.test"
	MethodChatPost          = "chat.postMessage"
	MethodChatPostEphemeral = "chat.postEphemeral"
	MethodUsersList         = "users.list"
	MethodUsersInfo         = "users.info"
	MethodConversationsList = "conversations.list"
	MethodConversationsHist = "conversations.history"
	MethodRTMConnect        = "rtm.connect"
)

// Errors returned before any call is made
var (
	ErrNoChannel       = errors.New("slack: message has no channel")
	ErrNoUser          = errors.New("slack: ephemeral message has no user")
	ErrNotConversation = errors.New("slack: not a conversation id")
)

// Client calls API methods with one connection
type Client struct {
	conn     *transport.Connection
	registry *codec.Registry
	mapper   *codec.Context
	logger   *zap.Logger
}

// New creates a client over conn. A nil registry uses objects.NewRegistry.
func New(conn *transport.Connection, registry *codec.Registry, logger *zap.Logger) *Client {
	if registry == nil {
		registry = objects.NewRegistry()
	}
	return &Client{
		conn:     conn,
		registry: registry,
		mapper:   registry.Context(),
		logger:   logging.OrNop(logger).Named("slack"),
	}
}

// NewFromConfig builds the connection and client from loaded configuration
func NewFromConfig(cfg *config.Config, logger *zap.Logger) (*Client, error) {
	opts := transport.OptionsFromConfig(cfg)
	opts.Logger = logger
	conn, err := transport.NewConnection(opts)
	if err != nil {
		return nil, err
	}
	return New(conn, nil, logger), nil
}

// Connection returns the underlying connection
func (c *Client) Connection() *transport.Connection {
	return c.conn
}

// Registry returns the codec registry used for every call
func (c *Client) Registry() *codec.Registry {
	return c.registry
}

// AuthInfo is the identity behind the token
type AuthInfo struct {
	URL    string
	Team   string
	User   string
	TeamID id.ObjectID
	UserID id.ObjectID
	BotID  *string
}

// AuthTest checks the token and returns the identity it belongs to
func (c *Client) AuthTest(ctx context.Context) (*AuthInfo, error) {
	env, err := c.conn.CallHandled(ctx, MethodAuthTest, nil)
	if err != nil {
		return nil, err
	}

	info := &AuthInfo{}
	fields := []struct {
		key string
		dst *string
	}{
		{"url", &info.URL},
		{"team", &info.Team},
		{"user", &info.User},
	}
	for _, f := range fields {
		v, err := env.String(f.key)
		if err != nil {
			return nil, responseError(MethodAuthTest, err)
		}
		*f.dst = lo.FromPtr(v)
	}

	teamID, err := env.RequiredString("team_id")
	if err != nil {
		return nil, responseError(MethodAuthTest, err)
	}
	userID, err := env.RequiredString("user_id")
	if err != nil {
		return nil, responseError(MethodAuthTest, err)
	}
	info.TeamID = id.ObjectID(teamID)
	info.UserID = id.ObjectID(userID)
	if info.BotID, err = env.String("bot_id"); err != nil {
		return nil, responseError(MethodAuthTest, err)
	}
	return info, nil
}

// SendMessage posts msg with DefaultMessageOptions
func (c *Client) SendMessage(ctx context.Context, msg *objects.Message) (*objects.Message, error) {
	return c.SendMessageWithOptions(ctx, msg, DefaultMessageOptions())
}

// SendMessageWithOptions posts msg to its channel. The options override
// the message's own as_user. The returned message is the server's copy and
// carries the assigned timestamp.
func (c *Client) SendMessageWithOptions(ctx context.Context, msg *objects.Message, opts MessageOptions) (*objects.Message, error) {
	if msg == nil || msg.Channel == "" {
		return nil, ErrNoChannel
	}
	return c.post(ctx, MethodChatPost, msg, opts)
}

// SendEphemeral posts msg visible only to msg.User in msg.Channel
func (c *Client) SendEphemeral(ctx context.Context, msg *objects.Message, opts MessageOptions) (*objects.Message, error) {
	if msg == nil || msg.Channel == "" {
		return nil, ErrNoChannel
	}
	if msg.User == "" {
		return nil, ErrNoUser
	}
	if !msg.User.IsUser() {
		return nil, fmt.Errorf("slack: ephemeral recipient %q is not a user id: %w", msg.User, ErrNoUser)
	}
	return c.post(ctx, MethodChatPostEphemeral, msg, opts)
}

func (c *Client) post(ctx context.Context, method string, msg *objects.Message, opts MessageOptions) (*objects.Message, error) {
	tree, err := c.mapper.Encode(msg)
	if err != nil {
		return nil, fmt.Errorf("slack: encode message: %w", err)
	}
	// The literal message type is for event payloads, not request params
	delete(tree, codec.TypeKey)

	params, err := transport.ParamsFromObject(tree)
	if err != nil {
		return nil, fmt.Errorf("slack: encode message: %w", err)
	}
	opts.apply(params)

	env, err := c.conn.CallHandled(ctx, method, params)
	if err != nil {
		return nil, err
	}
	sent, err := c.replyMessage(method, env)
	if err != nil {
		return nil, err
	}
	c.logger.Debug("message sent",
		zap.String("method", method),
		zap.Stringer("channel", msg.Channel),
		zap.Stringp("ts", sent.TS))
	return sent, nil
}

// PostText sends plain text to channel the legacy way, with options'
// username, attachments and mrkdwn flag. The result is marked Sent.
//
// Deprecated: use SendMessage.
func (c *Client) PostText(ctx context.Context, text string, channel id.ObjectID, opts MessageOptions) (*objects.Message, error) {
	if channel == "" {
		return nil, ErrNoChannel
	}
	params := transport.NewParams().
		Set("channel", channel.String()).
		Set("text", text)
	if opts.Username != "" {
		params.Set("username", opts.Username)
	}
	opts.apply(params)

	if opts.Attachments != nil {
		attachments, err := codec.EncodeList(c.mapper, opts.Attachments)
		if err != nil {
			return nil, fmt.Errorf("slack: encode attachments: %w", codec.AtPath(err, "attachments"))
		}
		if err := params.SetJSON("attachments", attachments); err != nil {
			return nil, err
		}
	}
	params.SetBool("mrkdwn", opts.Format)

	env, err := c.conn.CallHandled(ctx, MethodChatPost, params)
	if err != nil {
		return nil, err
	}
	sent, err := c.replyMessage(MethodChatPost, env)
	if err != nil {
		return nil, err
	}
	sent.Subtype = objects.SubtypeSent
	return sent, nil
}

// replyMessage decodes the "message" of a chat reply. The channel is taken
// from the envelope when the message itself omits it.
func (c *Client) replyMessage(method string, env codec.Object) (*objects.Message, error) {
	if !env.Has("message") {
		return nil, responseError(method, codec.MissingField("message"))
	}
	msg, err := codec.DecodeInto[*objects.Message](c.mapper, env["message"], objects.FamilyMessage)
	if err != nil {
		return nil, responseError(method, codec.AtPath(err, "message"))
	}
	if msg.Channel == "" {
		channel, err := env.String("channel")
		if err != nil {
			return nil, responseError(method, err)
		}
		msg.Channel = id.ObjectID(lo.FromPtr(channel))
	}
	return msg, nil
}

// Users lists the members of the workspace
func (c *Client) Users(ctx context.Context) ([]*objects.User, error) {
	env, err := c.conn.CallHandled(ctx, MethodUsersList, nil)
	if err != nil {
		return nil, err
	}
	users, err := codec.DecodeList[*objects.User](c.mapper, env, "members", objects.FamilyUser)
	if err != nil {
		return nil, responseError(MethodUsersList, err)
	}
	return users, nil
}

// UserInfo fetches one user
func (c *Client) UserInfo(ctx context.Context, user id.ObjectID) (*objects.User, error) {
	params := transport.NewParams().Set("user", user.String())
	env, err := c.conn.CallHandled(ctx, MethodUsersInfo, params)
	if err != nil {
		return nil, err
	}
	u, ok, err := codec.DecodeField[*objects.User](c.mapper, env, "user", objects.FamilyUser)
	if err != nil {
		return nil, responseError(MethodUsersInfo, err)
	}
	if !ok {
		return nil, responseError(MethodUsersInfo, codec.MissingField("user"))
	}
	return u, nil
}

// Conversations lists the conversations visible to the token
func (c *Client) Conversations(ctx context.Context, excludeArchived bool) ([]*objects.Conversation, error) {
	params := transport.NewParams().SetBool("exclude_archived", excludeArchived)
	env, err := c.conn.CallHandled(ctx, MethodConversationsList, params)
	if err != nil {
		return nil, err
	}
	convs, err := codec.DecodeList[*objects.Conversation](c.mapper, env, "channels", objects.FamilyConversation)
	if err != nil {
		return nil, responseError(MethodConversationsList, err)
	}
	return convs, nil
}

// History returns up to limit messages of channel, newest first. A limit
// of zero leaves the server default.
func (c *Client) History(ctx context.Context, channel id.ObjectID, limit int) ([]*objects.Message, error) {
	if channel == "" {
		return nil, ErrNoChannel
	}
	if !channel.IsConversation() {
		return nil, fmt.Errorf("%w: %q", ErrNotConversation, channel)
	}
	params := transport.NewParams().Set("channel", channel.String())
	if limit > 0 {
		params.SetInt("limit", int64(limit))
	}
	env, err := c.conn.CallHandled(ctx, MethodConversationsHist, params)
	if err != nil {
		return nil, err
	}
	msgs, err := codec.DecodeList[*objects.Message](c.mapper, env, "messages", objects.FamilyMessage)
	if err != nil {
		return nil, responseError(MethodConversationsHist, err)
	}
	// History replies omit the channel on each message
	lo.ForEach(msgs, func(m *objects.Message, _ int) {
		if m.Channel == "" {
			m.Channel = channel
		}
	})
	return msgs, nil
}

// StartRTSession asks for a websocket URL and opens a session on it
func (c *Client) StartRTSession(ctx context.Context) (*rtm.Session, error) {
	env, err := c.conn.CallHandled(ctx, MethodRTMConnect, nil)
	if err != nil {
		return nil, err
	}
	info, err := decodeRTMInfo(env)
	if err != nil {
		return nil, responseError(MethodRTMConnect, err)
	}
	return rtm.Dial(ctx, info, rtm.Options{
		Registry: c.registry,
		Logger:   c.logger,
		Metrics:  c.conn.Metrics(),
	})
}

func decodeRTMInfo(env codec.Object) (rtm.Info, error) {
	url, err := env.RequiredString("url")
	if err != nil {
		return rtm.Info{}, err
	}
	info := rtm.Info{URL: url}

	self, err := env.Child("self")
	if err != nil {
		return rtm.Info{}, err
	}
	if self != nil {
		selfID, err := self.RequiredString("id")
		if err != nil {
			return rtm.Info{}, codec.AtPath(err, "self")
		}
		info.Self = id.ObjectID(selfID)
	}

	team, err := env.Child("team")
	if err != nil {
		return rtm.Info{}, err
	}
	if team != nil {
		teamID, err := team.RequiredString("id")
		if err != nil {
			return rtm.Info{}, codec.AtPath(err, "team")
		}
		info.Team = id.ObjectID(teamID)
	}
	return info, nil
}

func responseError(method string, err error) error {
	return fmt.Errorf("slack: %s response: %w", method, err)
}
