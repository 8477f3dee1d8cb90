package objects

import (
	"fmt"
	"time"

	"github.com/GriffinCanCode/slackwire/internal/codec"
	"github.com/GriffinCanCode/slackwire/internal/shared/id"
)

// Subtype classifies a message. The wire carries it as the "subtype" string.
type Subtype int

const (
	SubtypeNormal Subtype = iota
	// SubtypeSent marks a message built locally for sending; it has no wire form
	SubtypeSent
	SubtypeFromBot
	SubtypeFromMeCommand
	SubtypeEdit
	SubtypeDelete
	SubtypeChannelJoin
	SubtypeChannelLeave
	SubtypeChannelTopic
	SubtypeChannelPurpose
	SubtypeChannelName
	SubtypeChannelArchive
	SubtypeChannelUnarchive
	SubtypeGroupJoin
	SubtypeGroupLeave
	SubtypeGroupTopic
	SubtypeGroupPurpose
	SubtypeGroupName
	SubtypeGroupArchive
	SubtypeGroupUnarchive
	SubtypeFileShare
	SubtypeFileComment
	SubtypeFileMention
)

var subtypeWire = map[Subtype]string{
	SubtypeFromBot:          "bot_message",
	SubtypeFromMeCommand:    "me_message",
	SubtypeEdit:             "message_changed",
	SubtypeDelete:           "message_deleted",
	SubtypeChannelJoin:      "channel_join",
	SubtypeChannelLeave:     "channel_leave",
	SubtypeChannelTopic:     "channel_topic",
	SubtypeChannelPurpose:   "channel_purpose",
	SubtypeChannelName:      "channel_name",
	SubtypeChannelArchive:   "channel_archive",
	SubtypeChannelUnarchive: "channel_unarchive",
	SubtypeGroupJoin:        "group_join",
	SubtypeGroupLeave:       "group_leave",
	SubtypeGroupTopic:       "group_topic",
	SubtypeGroupPurpose:     "group_purpose",
	SubtypeGroupName:        "group_name",
	SubtypeGroupArchive:     "group_archive",
	SubtypeGroupUnarchive:   "group_unarchive",
	SubtypeFileShare:        "file_share",
	SubtypeFileComment:      "file_comment",
	SubtypeFileMention:      "file_mention",
}

var subtypeByWire = func() map[string]Subtype {
	m := make(map[string]Subtype, len(subtypeWire))
	for s, w := range subtypeWire {
		m[w] = s
	}
	return m
}()

// ParseSubtype maps a wire subtype to a Subtype. Unknown values and the
// empty string yield SubtypeNormal.
func ParseSubtype(wire string) Subtype {
	if s, ok := subtypeByWire[wire]; ok {
		return s
	}
	return SubtypeNormal
}

// Wire returns the wire string, empty for Normal and Sent
func (s Subtype) Wire() string {
	return subtypeWire[s]
}

// String returns a readable name
func (s Subtype) String() string {
	switch s {
	case SubtypeNormal:
		return "normal"
	case SubtypeSent:
		return "sent"
	}
	if w, ok := subtypeWire[s]; ok {
		return w
	}
	return fmt.Sprintf("Subtype(%d)", int(s))
}

// Edit records the last edit of a message
type Edit struct {
	User id.ObjectID
	TS   string
	// Timestamp is TS in Unix milliseconds
	Timestamp int64
}

// Message is a message in a conversation, either received or to be sent
type Message struct {
	User    id.ObjectID
	Text    *string
	Channel id.ObjectID

	// TS is the wire timestamp that also identifies the message in its channel
	TS *string
	// Timestamp is TS in Unix milliseconds, zero when TS is absent
	Timestamp int64
	ThreadTS  *string

	Subtype Subtype
	Edited  *Edit

	// AsUser defaults to true on received messages and false on NewChannelMessage
	AsUser bool

	// Deprecated: Attachments is the legacy payload; use Blocks.
	Attachments []*Attachment
	Blocks      []Block

	ClientMsgID *string
	BotID       *string
	Username    *string
}

// NewChannelMessage creates a message to send to channel. It is marked Sent,
// not posted as the authed user, and carries a fresh client message ID.
func NewChannelMessage(text string, channel id.ObjectID) *Message {
	clientMsgID := id.NewClientMsgID()
	return &Message{
		Text:        &text,
		Channel:     channel,
		Subtype:     SubtypeSent,
		AsUser:      false,
		ClientMsgID: &clientMsgID,
	}
}

// AddBlock appends a block to the message
func (m *Message) AddBlock(b Block) {
	m.Blocks = append(m.Blocks, b)
}

// AddAttachment appends a legacy attachment to the message
//
// Deprecated: use AddBlock.
func (m *Message) AddAttachment(a *Attachment) {
	m.Attachments = append(m.Attachments, a)
}

// Time returns the message time, zero when the message has no timestamp
func (m *Message) Time() time.Time {
	if m.TS == nil {
		return time.Time{}
	}
	return codec.Millis(m.Timestamp)
}

// String summarizes the message for logs
func (m *Message) String() string {
	text := ""
	if m.Text != nil {
		text = *m.Text
	}
	return fmt.Sprintf("%s: %q from %s", m.Subtype, text, m.User)
}

func (*Message) Kind() codec.Kind { return codec.Kind{Family: FamilyMessage} }

func decodeMessage(obj codec.Object, c *codec.Context) (*Message, error) {
	m := &Message{}
	var err error
	if m.User, err = loadID(obj, "user"); err != nil {
		return nil, err
	}
	if m.Channel, err = loadID(obj, "channel"); err != nil {
		return nil, err
	}
	if m.Text, err = obj.String("text"); err != nil {
		return nil, err
	}
	if m.ThreadTS, err = obj.String("thread_ts"); err != nil {
		return nil, err
	}
	if m.TS, err = obj.String("ts"); err != nil {
		return nil, err
	}
	if m.TS != nil {
		if m.Timestamp, err = codec.ParseTimestamp(*m.TS); err != nil {
			return nil, codec.AtPath(err, "ts")
		}
	}
	if m.AsUser, err = obj.Bool("as_user", true); err != nil {
		return nil, err
	}

	subtype, err := obj.String("subtype")
	if err != nil {
		return nil, err
	}
	if subtype != nil {
		m.Subtype = ParseSubtype(*subtype)
	}

	edited, err := obj.Child("edited")
	if err != nil {
		return nil, err
	}
	if edited != nil {
		if m.Edited, err = decodeEdit(edited); err != nil {
			return nil, codec.AtPath(err, "edited")
		}
	}

	if m.Attachments, err = codec.DecodeList[*Attachment](c, obj, "attachments", FamilyAttachment); err != nil {
		return nil, err
	}
	if m.Blocks, err = codec.DecodeList[Block](c, obj, "blocks", FamilyBlock); err != nil {
		return nil, err
	}

	if m.ClientMsgID, err = obj.String("client_msg_id"); err != nil {
		return nil, err
	}
	if m.BotID, err = obj.String("bot_id"); err != nil {
		return nil, err
	}
	if m.Username, err = obj.String("username"); err != nil {
		return nil, err
	}
	return m, nil
}

func decodeEdit(obj codec.Object) (*Edit, error) {
	user, err := obj.RequiredString("user")
	if err != nil {
		return nil, err
	}
	ts, err := obj.RequiredString("ts")
	if err != nil {
		return nil, err
	}
	ms, err := codec.ParseTimestamp(ts)
	if err != nil {
		return nil, codec.AtPath(err, "ts")
	}
	return &Edit{User: id.ObjectID(user), TS: ts, Timestamp: ms}, nil
}

func encodeMessage(m *Message, c *codec.Context) (codec.Object, error) {
	// Messages are structural; the literal type marks the payload for event consumers.
	obj := codec.Object{codec.TypeKey: "message", "as_user": m.AsUser}
	putID(obj, "user", m.User)
	putID(obj, "channel", m.Channel)
	obj.PutString("text", m.Text)
	obj.PutString("ts", m.TS)
	obj.PutString("thread_ts", m.ThreadTS)
	if wire := m.Subtype.Wire(); wire != "" {
		obj["subtype"] = wire
	}
	if m.Edited != nil {
		obj["edited"] = codec.Object{"user": string(m.Edited.User), "ts": m.Edited.TS}
	}

	if m.Attachments != nil {
		attachments, err := codec.EncodeList(c, m.Attachments)
		if err != nil {
			return nil, codec.AtPath(err, "attachments")
		}
		obj["attachments"] = attachments
	}
	if m.Blocks != nil {
		blocks, err := codec.EncodeList(c, m.Blocks)
		if err != nil {
			return nil, codec.AtPath(err, "blocks")
		}
		obj["blocks"] = blocks
	}

	obj.PutString("client_msg_id", m.ClientMsgID)
	obj.PutString("bot_id", m.BotID)
	obj.PutString("username", m.Username)
	return obj, nil
}
