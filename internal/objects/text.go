package objects

import (
	"github.com/GriffinCanCode/slackwire/internal/codec"
)

// TextType is the sub-kind of a text object
type TextType string

const (
	PlainText TextType = "plain_text"
	Markdown  TextType = "mrkdwn"
)

// TextObject is a composition object carrying formatted or plain text
type TextObject struct {
	Type     TextType
	Text     string
	Emoji    *bool
	Verbatim *bool
}

// NewPlainText creates a plain_text object
func NewPlainText(text string) *TextObject {
	return &TextObject{Type: PlainText, Text: text}
}

// NewMarkdown creates a mrkdwn object
func NewMarkdown(text string) *TextObject {
	return &TextObject{Type: Markdown, Text: text}
}

// Kind implements codec.Value
func (t *TextObject) Kind() codec.Kind {
	return codec.Kind{Family: FamilyText, Tag: string(t.Type)}
}

func (*TextObject) contextElement() {}

func textDecoder(tt TextType) func(codec.Object, *codec.Context) (*TextObject, error) {
	return func(obj codec.Object, _ *codec.Context) (*TextObject, error) {
		t := &TextObject{Type: tt}
		var err error
		if t.Text, err = obj.RequiredString("text"); err != nil {
			return nil, err
		}
		if t.Emoji, err = obj.OptionalBool("emoji"); err != nil {
			return nil, err
		}
		if t.Verbatim, err = obj.OptionalBool("verbatim"); err != nil {
			return nil, err
		}
		return t, nil
	}
}

func encodeText(t *TextObject, _ *codec.Context) (codec.Object, error) {
	obj := codec.Object{"text": t.Text}
	obj.PutBool("emoji", t.Emoji)
	obj.PutBool("verbatim", t.Verbatim)
	return obj, nil
}

// decodeTextField decodes the optional text object at key. A non-empty want
// constrains the sub-kind.
func decodeTextField(c *codec.Context, obj codec.Object, key string, want TextType) (*TextObject, error) {
	t, _, err := codec.DecodeField[*TextObject](c, obj, key, FamilyText)
	if err != nil || t == nil {
		return nil, err
	}
	if want != "" && t.Type != want {
		return nil, codec.AtPath(codec.InvalidTextType(string(t.Type), string(want)), key)
	}
	return t, nil
}

// requireTextField is decodeTextField for non-nullable keys
func requireTextField(c *codec.Context, obj codec.Object, key string, want TextType) (*TextObject, error) {
	if !obj.Has(key) {
		return nil, codec.MissingField(key)
	}
	return decodeTextField(c, obj, key, want)
}

// checkTextType guards encoders against sub-kinds the wire rejects
func checkTextType(t *TextObject, key string, want TextType) error {
	if t != nil && t.Type != want {
		err := codec.InvalidTextType(string(t.Type), string(want))
		err.Phase = codec.PhaseEncode
		return codec.AtPath(err, key)
	}
	return nil
}

func putText(c *codec.Context, obj codec.Object, key string, t *TextObject) error {
	if t == nil {
		return nil
	}
	enc, err := c.Encode(t)
	if err != nil {
		return codec.AtPath(err, key)
	}
	obj[key] = enc
	return nil
}

func missingOnEncode(key string) error {
	err := codec.MissingField(key)
	err.Phase = codec.PhaseEncode
	return err
}
