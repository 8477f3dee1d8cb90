package objects

import (
	"errors"
	"strings"
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/slackwire/internal/codec"
	"github.com/GriffinCanCode/slackwire/internal/shared/id"
)

// wireTrip encodes v, renders it as JSON, parses it back and decodes it
func wireTrip[T codec.Value](t *testing.T, v T, fam codec.Family) (T, string) {
	t.Helper()
	reg := NewRegistry()

	obj, err := reg.Encode(v)
	require.NoError(t, err)
	data, err := codec.Marshal(obj)
	require.NoError(t, err)
	tree, err := codec.Parse(data)
	require.NoError(t, err)

	out, err := codec.DecodeInto[T](reg.Context(), tree, fam)
	require.NoError(t, err)
	return out, string(data)
}

func decodeJSON[T codec.Value](t *testing.T, raw string, fam codec.Family) (T, error) {
	t.Helper()
	tree, err := codec.Parse([]byte(raw))
	require.NoError(t, err)
	return codec.DecodeInto[T](NewRegistry().Context(), tree, fam)
}

func TestRegisterTwiceFails(t *testing.T) {
	reg := NewRegistry()
	err := Register(reg)
	assert.True(t, errors.Is(err, codec.ErrDuplicate))
}

func TestRoundTripEveryVariant(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		for _, in := range []*TextObject{
			NewPlainText("hi"),
			{Type: Markdown, Text: "*bold*", Verbatim: lo.ToPtr(true)},
			{Type: PlainText, Text: "x", Emoji: lo.ToPtr(false)},
		} {
			out, _ := wireTrip(t, in, FamilyText)
			assert.Equal(t, in, out)
		}
	})

	t.Run("button", func(t *testing.T) {
		in := &Button{ActionID: "approve", Text: NewPlainText("Approve"), Value: lo.ToPtr("42"), Style: lo.ToPtr("primary")}
		out, data := wireTrip[Element](t, in, FamilyElement)
		assert.Equal(t, Element(in), out)
		assert.True(t, strings.HasPrefix(data, `{"type":"button"`), data)
	})

	t.Run("image element", func(t *testing.T) {
		in := &ImageElement{ImageURL: "https://example.com/a.png", AltText: "a"}
		out, _ := wireTrip[Element](t, in, FamilyElement)
		assert.Equal(t, Element(in), out)
	})

	t.Run("static select", func(t *testing.T) {
		in := &StaticSelect{
			ActionID:    "pick",
			Placeholder: NewPlainText("Choose"),
			Options:     []*Option{NewOption("One", "1"), NewOption("Two", "2")},
		}
		out, _ := wireTrip[Element](t, in, FamilyElement)
		assert.Equal(t, Element(in), out)
	})

	t.Run("section", func(t *testing.T) {
		in := &Section{
			BlockBase: BlockBase{BlockID: lo.ToPtr("s1")},
			Text:      NewMarkdown("*hello*"),
			Fields:    []*TextObject{NewPlainText("a"), NewMarkdown("b")},
			Accessory: NewButton("go", "Go"),
		}
		out, data := wireTrip[Block](t, in, FamilyBlock)
		assert.Equal(t, Block(in), out)
		assert.True(t, strings.HasPrefix(data, `{"type":"section"`), data)
	})

	t.Run("divider", func(t *testing.T) {
		in := &Divider{}
		out, data := wireTrip[Block](t, in, FamilyBlock)
		assert.Equal(t, Block(in), out)
		assert.Equal(t, `{"type":"divider"}`, data)
	})

	t.Run("image block", func(t *testing.T) {
		in := &ImageBlock{ImageURL: "https://example.com/b.png", AltText: "b", Title: NewPlainText("B")}
		out, _ := wireTrip[Block](t, in, FamilyBlock)
		assert.Equal(t, Block(in), out)
	})

	t.Run("actions", func(t *testing.T) {
		in := &ActionBlock{
			BlockBase: BlockBase{BlockID: lo.ToPtr("acts")},
			Elements: []Element{
				NewButton("yes", "Yes"),
				&StaticSelect{ActionID: "s", Placeholder: NewPlainText("p"), Options: []*Option{NewOption("o", "v")}},
			},
		}
		out, _ := wireTrip[Block](t, in, FamilyBlock)
		assert.Equal(t, Block(in), out)
	})

	t.Run("context", func(t *testing.T) {
		in := &ContextBlock{Elements: []ContextElement{
			NewMarkdown("by *someone*"),
			&ImageElement{ImageURL: "https://example.com/c.png", AltText: "c"},
		}}
		out, _ := wireTrip[Block](t, in, FamilyBlock)
		assert.Equal(t, Block(in), out)
	})

	t.Run("attachment", func(t *testing.T) {
		in := &Attachment{
			Fallback:      "fb",
			Color:         lo.ToPtr("#36a64f"),
			Pretext:       lo.ToPtr("pre"),
			Text:          lo.ToPtr("body"),
			AuthorName:    lo.ToPtr("author"),
			AuthorLink:    lo.ToPtr("https://example.com/author"),
			AuthorIcon:    lo.ToPtr("https://example.com/icon.png"),
			Title:         lo.ToPtr("title"),
			TitleLink:     lo.ToPtr("https://example.com/title"),
			ImageURL:      lo.ToPtr("https://example.com/img.png"),
			ThumbURL:      lo.ToPtr("https://example.com/thumb.png"),
			Footer:        lo.ToPtr("footer"),
			Fields:        []*AttachmentField{NewAttachmentField("Priority", "High", true)},
			FormatPretext: true,
			FormatFields:  true,
		}
		out, _ := wireTrip(t, in, FamilyAttachment)
		assert.Equal(t, in, out)
	})

	t.Run("message", func(t *testing.T) {
		in := &Message{
			User:        "U012AB3CD",
			Text:        lo.ToPtr("hello"),
			Channel:     "C024BE91L",
			TS:          lo.ToPtr("1612137600.500000"),
			Timestamp:   1612137600500,
			ThreadTS:    lo.ToPtr("1612137500.000100"),
			Subtype:     SubtypeFromBot,
			Edited:      &Edit{User: "U012AB3CD", TS: "1612137700.000000", Timestamp: 1612137700000},
			AsUser:      true,
			Attachments: []*Attachment{NewAttachment("legacy")},
			Blocks:      []Block{NewSection("*hi*"), &Divider{}},
			BotID:       lo.ToPtr("B01"),
		}
		out, _ := wireTrip(t, in, FamilyMessage)
		assert.Equal(t, in, out)
	})

	t.Run("user", func(t *testing.T) {
		in := &User{
			Base:    Base{ID: "U012AB3CD"},
			Name:    "spengler",
			Deleted: false,
			Flags:   &UserFlags{Color: lo.ToPtr("9f69e7"), IsAdmin: true, IsOwner: true},
			Profile: &Profile{
				RealName: lo.ToPtr("Egon Spengler"),
				Email:    lo.ToPtr("spengler@example.com"),
				Images: &ProfileImages{
					Image24:  "https://example.com/24.png",
					Image32:  "https://example.com/32.png",
					Image48:  "https://example.com/48.png",
					Image72:  "https://example.com/72.png",
					Image192: "https://example.com/192.png",
				},
			},
			HasFiles: true,
			TZ:       lo.ToPtr("America/New_York"),
		}
		out, _ := wireTrip(t, in, FamilyUser)
		assert.Equal(t, in, out)
	})

	t.Run("user without flags", func(t *testing.T) {
		in := &User{Base: Base{ID: "U1"}, Name: "x"}
		out, data := wireTrip(t, in, FamilyUser)
		assert.Equal(t, in, out)
		assert.NotContains(t, data, "is_admin")
	})

	t.Run("conversation", func(t *testing.T) {
		in := &Conversation{
			Base:       Base{ID: "C024BE91L"},
			Name:       lo.ToPtr("general"),
			IsChannel:  true,
			Created:    lo.ToPtr(int64(1449252889)),
			Creator:    "U024BE7LH",
			Topic:      &Topic{Value: "Company-wide", Creator: "U024BE7LH", LastSet: 1449709364},
			Purpose:    &Topic{Value: "Announcements", LastSet: 0},
			Members:    []id.ObjectID{"U024BE7LH", "U012AB3CD"},
			NumMembers: lo.ToPtr(int64(2)),
		}
		out, _ := wireTrip(t, in, FamilyConversation)
		assert.Equal(t, in, out)
	})
}

func TestUnknownBlockType(t *testing.T) {
	_, err := decodeJSON[*Message](t, `{"text":"x","blocks":[{"type":"section","text":{"type":"mrkdwn","text":"a"}},{"type":"carousel"}]}`, FamilyMessage)

	var codecErr *codec.Error
	require.True(t, errors.As(err, &codecErr))
	assert.Equal(t, codec.ReasonUnknownVariant, codecErr.Reason)
	assert.Equal(t, "carousel", codecErr.Tag)
	assert.Equal(t, "blocks[1]", codecErr.PathString())
}

func TestAttachmentMissingFallback(t *testing.T) {
	_, err := decodeJSON[*Attachment](t, `{"text":"no fallback here"}`, FamilyAttachment)

	var codecErr *codec.Error
	require.True(t, errors.As(err, &codecErr))
	assert.Equal(t, codec.ReasonMissingField, codecErr.Reason)
	assert.Equal(t, "fallback", codecErr.Field)
}

func TestAttachmentWireFields(t *testing.T) {
	a, err := decodeJSON[*Attachment](t, `{
		"fallback": "fb",
		"author_link": "https://example.com/link",
		"author_icon": "https://example.com/icon.png",
		"mrkdwn_in": ["text", "fields"],
		"fields": [{"title": "T", "value": "V"}]
	}`, FamilyAttachment)
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/icon.png", *a.AuthorIcon)
	assert.Equal(t, "https://example.com/link", *a.AuthorLink)
	assert.False(t, a.FormatPretext)
	assert.True(t, a.FormatText)
	assert.True(t, a.FormatFields)
	require.Len(t, a.Fields, 1)
	assert.False(t, a.Fields[0].Short)

	obj, err := NewRegistry().Encode(NewAttachment("plain"))
	require.NoError(t, err)
	assert.NotContains(t, obj, "mrkdwn_in")
	assert.NotContains(t, obj, "fields")
}

func TestMessageAsUserDefaults(t *testing.T) {
	inbound, err := decodeJSON[*Message](t, `{"user":"U1","text":"hi","ts":"1612137600"}`, FamilyMessage)
	require.NoError(t, err)
	assert.True(t, inbound.AsUser)
	assert.Equal(t, int64(1612137600000), inbound.Timestamp)
	assert.Equal(t, int64(1612137600), inbound.Time().Unix())

	explicit, err := decodeJSON[*Message](t, `{"as_user":false}`, FamilyMessage)
	require.NoError(t, err)
	assert.False(t, explicit.AsUser)

	outbound := NewChannelMessage("hello", "C024BE91L")
	assert.False(t, outbound.AsUser)
	assert.Equal(t, SubtypeSent, outbound.Subtype)
	require.NotNil(t, outbound.ClientMsgID)

	obj, err := NewRegistry().Encode(outbound)
	require.NoError(t, err)
	assert.Equal(t, false, obj["as_user"])
	assert.Equal(t, "C024BE91L", obj["channel"])
	assert.NotContains(t, obj, "subtype")
}

func TestMessageSubtype(t *testing.T) {
	tests := []struct {
		raw  string
		want Subtype
	}{
		{`{}`, SubtypeNormal},
		{`{"subtype":"bot_message"}`, SubtypeFromBot},
		{`{"subtype":"channel_join"}`, SubtypeChannelJoin},
		{`{"subtype":"huddle_thread"}`, SubtypeNormal},
		{`{"subtype":null}`, SubtypeNormal},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			m, err := decodeJSON[*Message](t, tt.raw, FamilyMessage)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Subtype)
		})
	}

	assert.Equal(t, "message_changed", SubtypeEdit.Wire())
	assert.Equal(t, "", SubtypeSent.Wire())
	assert.Equal(t, "sent", SubtypeSent.String())
}

func TestMessageKeepsAttachmentsAndBlocks(t *testing.T) {
	m, err := decodeJSON[*Message](t, `{
		"attachments": [{"fallback": "old"}],
		"blocks": [{"type": "divider"}]
	}`, FamilyMessage)
	require.NoError(t, err)
	assert.Len(t, m.Attachments, 1)
	assert.Len(t, m.Blocks, 1)

	m.AddBlock(NewSection("more"))
	assert.Len(t, m.Blocks, 2)
}

func TestMessageEditedRequiresUser(t *testing.T) {
	_, err := decodeJSON[*Message](t, `{"edited":{"ts":"1612137600.000000"}}`, FamilyMessage)
	var codecErr *codec.Error
	require.True(t, errors.As(err, &codecErr))
	assert.Equal(t, "edited.user", codecErr.PathString())
}

func TestTextTypeConstraints(t *testing.T) {
	t.Run("button label must be plain text", func(t *testing.T) {
		_, err := decodeJSON[Element](t, `{"type":"button","action_id":"a","text":{"type":"mrkdwn","text":"*x*"}}`, FamilyElement)
		assert.True(t, errors.Is(err, codec.ErrInvalidTextType))
	})

	t.Run("image title must be plain text", func(t *testing.T) {
		_, err := decodeJSON[Block](t, `{"type":"image","image_url":"u","alt_text":"a","title":{"type":"mrkdwn","text":"t"}}`, FamilyBlock)
		var codecErr *codec.Error
		require.True(t, errors.As(err, &codecErr))
		assert.Equal(t, codec.ReasonInvalidTextType, codecErr.Reason)
		assert.Equal(t, "title", codecErr.PathString())
	})

	t.Run("encoder rejects markdown placeholder", func(t *testing.T) {
		_, err := NewRegistry().Encode(&StaticSelect{ActionID: "s", Placeholder: NewMarkdown("p")})
		assert.True(t, errors.Is(err, codec.ErrInvalidTextType))
	})

	t.Run("section fields accept both kinds", func(t *testing.T) {
		b, err := decodeJSON[Block](t, `{"type":"section","fields":[{"type":"plain_text","text":"a"},{"type":"mrkdwn","text":"b"}]}`, FamilyBlock)
		require.NoError(t, err)
		section := b.(*Section)
		require.Len(t, section.Fields, 2)
		assert.Nil(t, section.Text)
		assert.Nil(t, section.Accessory)
	})

	t.Run("section field with unknown text type", func(t *testing.T) {
		_, err := decodeJSON[Block](t, `{"type":"section","fields":[{"type":"html","text":"a"}]}`, FamilyBlock)
		assert.True(t, errors.Is(err, codec.ErrUnknownVariant))
	})
}

func TestContextBlockRejectsButtons(t *testing.T) {
	_, err := decodeJSON[Block](t, `{"type":"context","elements":[{"type":"button","action_id":"a","text":{"type":"plain_text","text":"b"}}]}`, FamilyBlock)
	var codecErr *codec.Error
	require.True(t, errors.As(err, &codecErr))
	assert.Equal(t, codec.ReasonTypeMismatch, codecErr.Reason)
	assert.Equal(t, "elements[0]", codecErr.PathString())
}

func TestBlockElementsRequiredOnEncode(t *testing.T) {
	reg := NewRegistry()
	for _, b := range []Block{&ActionBlock{}, &ContextBlock{}} {
		_, err := reg.Encode(b)
		var codecErr *codec.Error
		require.True(t, errors.As(err, &codecErr), "%T", b)
		assert.Equal(t, codec.ReasonMissingField, codecErr.Reason)
		assert.Equal(t, codec.PhaseEncode, codecErr.Phase)
	}

	out, data := wireTrip[Block](t, &ActionBlock{Elements: []Element{}}, FamilyBlock)
	assert.Equal(t, `{"type":"actions","elements":[]}`, data)
	assert.Equal(t, Block(&ActionBlock{Elements: []Element{}}), out)
}

func TestUserDeletedHasNoFlags(t *testing.T) {
	u, err := decodeJSON[*User](t, `{"id":"U1","name":"gone","deleted":true,"is_admin":true}`, FamilyUser)
	require.NoError(t, err)
	assert.True(t, u.Deleted)
	assert.Nil(t, u.Flags)
	assert.Nil(t, u.Profile)

	active, err := decodeJSON[*User](t, `{"id":"U2","name":"here","deleted":false,"is_admin":1,"profile":{"real_name":"Here"}}`, FamilyUser)
	require.NoError(t, err)
	require.NotNil(t, active.Flags)
	assert.True(t, active.Flags.IsAdmin)
	assert.Nil(t, active.Profile.Images)

	plain, err := decodeJSON[*User](t, `{"id":"U3","name":"plain","deleted":false}`, FamilyUser)
	require.NoError(t, err)
	assert.Nil(t, plain.Flags)
}

func TestUserProfileImagesAllOrNothing(t *testing.T) {
	_, err := decodeJSON[*User](t, `{"id":"U1","name":"x","deleted":false,"profile":{"image_24":"a","image_32":"b"}}`, FamilyUser)
	var codecErr *codec.Error
	require.True(t, errors.As(err, &codecErr))
	assert.Equal(t, "profile.image_48", codecErr.PathString())
}

func TestUserRequiredFields(t *testing.T) {
	_, err := decodeJSON[*User](t, `{"id":"U1","name":"x"}`, FamilyUser)
	assert.True(t, errors.Is(err, codec.ErrMissingField))

	_, err = decodeJSON[*User](t, `{"id":"U1","name":{"first":"x"},"deleted":false}`, FamilyUser)
	assert.True(t, errors.Is(err, codec.ErrTypeMismatch))
}
