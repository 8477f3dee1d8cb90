package objects

import (
	"github.com/GriffinCanCode/slackwire/internal/codec"
)

// Element tags
const (
	ElementButton       = "button"
	ElementImage        = "image"
	ElementStaticSelect = "static_select"
)

// Element is an interactive or media component placed inside a block
type Element interface {
	codec.Value
	element()
}

// ContextElement may appear in a context block: text objects and images
type ContextElement interface {
	codec.Value
	contextElement()
}

// ============================================================================
// Button
// ============================================================================

// Button is a clickable element
type Button struct {
	ActionID string
	Text     *TextObject
	Value    *string
	URL      *string
	// Style is "primary" or "danger"; nil renders the default style
	Style *string
}

// NewButton creates a button with a plain text label
func NewButton(actionID, label string) *Button {
	return &Button{ActionID: actionID, Text: NewPlainText(label)}
}

func (*Button) Kind() codec.Kind { return codec.Kind{Family: FamilyElement, Tag: ElementButton} }
func (*Button) element()         {}

func decodeButton(obj codec.Object, c *codec.Context) (*Button, error) {
	b := &Button{}
	var err error
	if b.ActionID, err = obj.RequiredString("action_id"); err != nil {
		return nil, err
	}
	if b.Text, err = requireTextField(c, obj, "text", PlainText); err != nil {
		return nil, err
	}
	if b.Value, err = obj.String("value"); err != nil {
		return nil, err
	}
	if b.URL, err = obj.String("url"); err != nil {
		return nil, err
	}
	if b.Style, err = obj.String("style"); err != nil {
		return nil, err
	}
	return b, nil
}

func encodeButton(b *Button, c *codec.Context) (codec.Object, error) {
	if b.Text == nil {
		return nil, missingOnEncode("text")
	}
	if err := checkTextType(b.Text, "text", PlainText); err != nil {
		return nil, err
	}
	obj := codec.Object{"action_id": b.ActionID}
	if err := putText(c, obj, "text", b.Text); err != nil {
		return nil, err
	}
	obj.PutString("value", b.Value)
	obj.PutString("url", b.URL)
	obj.PutString("style", b.Style)
	return obj, nil
}

// ============================================================================
// Image
// ============================================================================

// ImageElement is a small image shown inside a section or context block
type ImageElement struct {
	ImageURL string
	AltText  string
}

func (*ImageElement) Kind() codec.Kind { return codec.Kind{Family: FamilyElement, Tag: ElementImage} }
func (*ImageElement) element()         {}
func (*ImageElement) contextElement()  {}

func decodeImageElement(obj codec.Object, _ *codec.Context) (*ImageElement, error) {
	img := &ImageElement{}
	var err error
	if img.ImageURL, err = obj.RequiredString("image_url"); err != nil {
		return nil, err
	}
	if img.AltText, err = obj.RequiredString("alt_text"); err != nil {
		return nil, err
	}
	return img, nil
}

func encodeImageElement(img *ImageElement, _ *codec.Context) (codec.Object, error) {
	return codec.Object{"image_url": img.ImageURL, "alt_text": img.AltText}, nil
}

// ============================================================================
// Static select
// ============================================================================

// StaticSelect is a menu with a fixed option list
type StaticSelect struct {
	ActionID    string
	Placeholder *TextObject
	Options     []*Option
}

func (*StaticSelect) Kind() codec.Kind {
	return codec.Kind{Family: FamilyElement, Tag: ElementStaticSelect}
}
func (*StaticSelect) element() {}

func decodeStaticSelect(obj codec.Object, c *codec.Context) (*StaticSelect, error) {
	s := &StaticSelect{}
	var err error
	if s.ActionID, err = obj.RequiredString("action_id"); err != nil {
		return nil, err
	}
	if s.Placeholder, err = requireTextField(c, obj, "placeholder", PlainText); err != nil {
		return nil, err
	}
	if !obj.Has("options") {
		return nil, codec.MissingField("options")
	}
	if s.Options, err = codec.DecodeList[*Option](c, obj, "options", FamilyOption); err != nil {
		return nil, err
	}
	return s, nil
}

func encodeStaticSelect(s *StaticSelect, c *codec.Context) (codec.Object, error) {
	if s.Placeholder == nil {
		return nil, missingOnEncode("placeholder")
	}
	if err := checkTextType(s.Placeholder, "placeholder", PlainText); err != nil {
		return nil, err
	}
	obj := codec.Object{"action_id": s.ActionID}
	if err := putText(c, obj, "placeholder", s.Placeholder); err != nil {
		return nil, err
	}
	options, err := codec.EncodeList(c, s.Options)
	if err != nil {
		return nil, codec.AtPath(err, "options")
	}
	obj["options"] = options
	return obj, nil
}

// ============================================================================
// Option
// ============================================================================

// Option is one entry of a select menu
type Option struct {
	Text  *TextObject
	Value string
}

// NewOption creates an option with a plain text label
func NewOption(label, value string) *Option {
	return &Option{Text: NewPlainText(label), Value: value}
}

func (*Option) Kind() codec.Kind { return codec.Kind{Family: FamilyOption} }

func decodeOption(obj codec.Object, c *codec.Context) (*Option, error) {
	o := &Option{}
	var err error
	if o.Text, err = requireTextField(c, obj, "text", PlainText); err != nil {
		return nil, err
	}
	if o.Value, err = obj.RequiredString("value"); err != nil {
		return nil, err
	}
	return o, nil
}

func encodeOption(o *Option, c *codec.Context) (codec.Object, error) {
	if o.Text == nil {
		return nil, missingOnEncode("text")
	}
	if err := checkTextType(o.Text, "text", PlainText); err != nil {
		return nil, err
	}
	obj := codec.Object{"value": o.Value}
	if err := putText(c, obj, "text", o.Text); err != nil {
		return nil, err
	}
	return obj, nil
}
