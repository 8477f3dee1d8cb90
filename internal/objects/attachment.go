package objects

import (
	"github.com/samber/lo"

	"github.com/GriffinCanCode/slackwire/internal/codec"
)

// mrkdwn_in values
const (
	formatPretext = "pretext"
	formatText    = "text"
	formatFields  = "fields"
)

// Attachment is the legacy rich message payload. New code should use blocks.
type Attachment struct {
	Fallback string
	Color    *string
	Pretext  *string
	Text     *string

	AuthorName *string
	AuthorLink *string
	AuthorIcon *string

	Title     *string
	TitleLink *string

	ImageURL *string
	ThumbURL *string
	Footer   *string

	Fields []*AttachmentField

	// Markdown formatting switches, carried on the wire as mrkdwn_in
	FormatPretext bool
	FormatText    bool
	FormatFields  bool
}

// NewAttachment creates an attachment with the required fallback text
func NewAttachment(fallback string) *Attachment {
	return &Attachment{Fallback: fallback}
}

// AddField appends a field to the attachment
func (a *Attachment) AddField(f *AttachmentField) {
	a.Fields = append(a.Fields, f)
}

func (*Attachment) Kind() codec.Kind { return codec.Kind{Family: FamilyAttachment} }

func decodeAttachment(obj codec.Object, c *codec.Context) (*Attachment, error) {
	a := &Attachment{}
	var err error
	if a.Fallback, err = obj.RequiredString("fallback"); err != nil {
		return nil, err
	}

	optional := []struct {
		key string
		dst **string
	}{
		{"color", &a.Color},
		{"pretext", &a.Pretext},
		{"text", &a.Text},
		{"author_name", &a.AuthorName},
		{"author_link", &a.AuthorLink},
		{"author_icon", &a.AuthorIcon},
		{"title", &a.Title},
		{"title_link", &a.TitleLink},
		{"image_url", &a.ImageURL},
		{"thumb_url", &a.ThumbURL},
		{"footer", &a.Footer},
	}
	for _, f := range optional {
		if *f.dst, err = obj.String(f.key); err != nil {
			return nil, err
		}
	}

	if a.Fields, err = codec.DecodeList[*AttachmentField](c, obj, "fields", FamilyAttachmentField); err != nil {
		return nil, err
	}

	formats, err := obj.StringList("mrkdwn_in")
	if err != nil {
		return nil, err
	}
	a.FormatPretext = lo.Contains(formats, formatPretext)
	a.FormatText = lo.Contains(formats, formatText)
	a.FormatFields = lo.Contains(formats, formatFields)
	return a, nil
}

func encodeAttachment(a *Attachment, c *codec.Context) (codec.Object, error) {
	obj := codec.Object{"fallback": a.Fallback}
	obj.PutString("color", a.Color)
	obj.PutString("pretext", a.Pretext)
	obj.PutString("text", a.Text)
	obj.PutString("author_name", a.AuthorName)
	obj.PutString("author_link", a.AuthorLink)
	obj.PutString("author_icon", a.AuthorIcon)
	obj.PutString("title", a.Title)
	obj.PutString("title_link", a.TitleLink)
	obj.PutString("image_url", a.ImageURL)
	obj.PutString("thumb_url", a.ThumbURL)
	obj.PutString("footer", a.Footer)

	if a.Fields != nil {
		fields, err := codec.EncodeList(c, a.Fields)
		if err != nil {
			return nil, codec.AtPath(err, "fields")
		}
		obj["fields"] = fields
	}

	var formats []string
	if a.FormatPretext {
		formats = append(formats, formatPretext)
	}
	if a.FormatText {
		formats = append(formats, formatText)
	}
	if a.FormatFields {
		formats = append(formats, formatFields)
	}
	putList(obj, "mrkdwn_in", stringsToAny(formats))
	return obj, nil
}

// ============================================================================
// Field
// ============================================================================

// AttachmentField is a titled value shown in an attachment's field table
type AttachmentField struct {
	Title string
	Value string
	// Short fields are laid out side by side
	Short bool
}

// NewAttachmentField creates a field
func NewAttachmentField(title, value string, short bool) *AttachmentField {
	return &AttachmentField{Title: title, Value: value, Short: short}
}

func (*AttachmentField) Kind() codec.Kind { return codec.Kind{Family: FamilyAttachmentField} }

func decodeAttachmentField(obj codec.Object, _ *codec.Context) (*AttachmentField, error) {
	f := &AttachmentField{}
	var err error
	if f.Title, err = obj.RequiredString("title"); err != nil {
		return nil, err
	}
	if f.Value, err = obj.RequiredString("value"); err != nil {
		return nil, err
	}
	if f.Short, err = obj.Bool("short", false); err != nil {
		return nil, err
	}
	return f, nil
}

func encodeAttachmentField(f *AttachmentField, _ *codec.Context) (codec.Object, error) {
	return codec.Object{"title": f.Title, "value": f.Value, "short": f.Short}, nil
}
