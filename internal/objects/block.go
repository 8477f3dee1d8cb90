package objects

import (
	"github.com/GriffinCanCode/slackwire/internal/codec"
)

// Block tags
const (
	BlockSection = "section"
	BlockDivider = "divider"
	BlockImage   = "image"
	BlockActions = "actions"
	BlockContext = "context"
)

// Block is a layout unit of a message
type Block interface {
	codec.Value
	Base() *BlockBase
}

// BlockBase holds the fields every block shares
type BlockBase struct {
	BlockID *string
}

// Base returns the shared block fields
func (b *BlockBase) Base() *BlockBase { return b }

func loadBlockBase(obj codec.Object, b *BlockBase) error {
	var err error
	b.BlockID, err = obj.String("block_id")
	return err
}

func saveBlockBase(obj codec.Object, b *BlockBase) {
	obj.PutString("block_id", b.BlockID)
}

// ============================================================================
// Section
// ============================================================================

// Section shows text, optionally as a two-column field grid, beside an
// optional accessory element
type Section struct {
	BlockBase
	Text      *TextObject
	Fields    []*TextObject
	Accessory Element
}

// NewSection creates a section holding markdown text
func NewSection(text string) *Section {
	return &Section{Text: NewMarkdown(text)}
}

func (*Section) Kind() codec.Kind { return codec.Kind{Family: FamilyBlock, Tag: BlockSection} }

func decodeSection(obj codec.Object, c *codec.Context) (*Section, error) {
	s := &Section{}
	if err := loadBlockBase(obj, &s.BlockBase); err != nil {
		return nil, err
	}
	var err error
	if s.Text, err = decodeTextField(c, obj, "text", ""); err != nil {
		return nil, err
	}
	if s.Fields, err = codec.DecodeList[*TextObject](c, obj, "fields", FamilyText); err != nil {
		return nil, err
	}
	if s.Accessory, _, err = codec.DecodeField[Element](c, obj, "accessory", FamilyElement); err != nil {
		return nil, err
	}
	return s, nil
}

func encodeSection(s *Section, c *codec.Context) (codec.Object, error) {
	obj := codec.Object{}
	saveBlockBase(obj, &s.BlockBase)
	if err := putText(c, obj, "text", s.Text); err != nil {
		return nil, err
	}
	if s.Fields != nil {
		fields, err := codec.EncodeList(c, s.Fields)
		if err != nil {
			return nil, codec.AtPath(err, "fields")
		}
		obj["fields"] = fields
	}
	if s.Accessory != nil {
		acc, err := c.Encode(s.Accessory)
		if err != nil {
			return nil, codec.AtPath(err, "accessory")
		}
		obj["accessory"] = acc
	}
	return obj, nil
}

// ============================================================================
// Divider
// ============================================================================

// Divider is a horizontal rule
type Divider struct {
	BlockBase
}

func (*Divider) Kind() codec.Kind { return codec.Kind{Family: FamilyBlock, Tag: BlockDivider} }

func decodeDivider(obj codec.Object, _ *codec.Context) (*Divider, error) {
	d := &Divider{}
	if err := loadBlockBase(obj, &d.BlockBase); err != nil {
		return nil, err
	}
	return d, nil
}

func encodeDivider(d *Divider, _ *codec.Context) (codec.Object, error) {
	obj := codec.Object{}
	saveBlockBase(obj, &d.BlockBase)
	return obj, nil
}

// ============================================================================
// Image
// ============================================================================

// ImageBlock is a standalone image with an optional plain text title
type ImageBlock struct {
	BlockBase
	ImageURL string
	AltText  string
	Title    *TextObject
}

func (*ImageBlock) Kind() codec.Kind { return codec.Kind{Family: FamilyBlock, Tag: BlockImage} }

func decodeImageBlock(obj codec.Object, c *codec.Context) (*ImageBlock, error) {
	img := &ImageBlock{}
	if err := loadBlockBase(obj, &img.BlockBase); err != nil {
		return nil, err
	}
	var err error
	if img.ImageURL, err = obj.RequiredString("image_url"); err != nil {
		return nil, err
	}
	if img.AltText, err = obj.RequiredString("alt_text"); err != nil {
		return nil, err
	}
	if img.Title, err = decodeTextField(c, obj, "title", PlainText); err != nil {
		return nil, err
	}
	return img, nil
}

func encodeImageBlock(img *ImageBlock, c *codec.Context) (codec.Object, error) {
	if err := checkTextType(img.Title, "title", PlainText); err != nil {
		return nil, err
	}
	obj := codec.Object{"image_url": img.ImageURL, "alt_text": img.AltText}
	saveBlockBase(obj, &img.BlockBase)
	if err := putText(c, obj, "title", img.Title); err != nil {
		return nil, err
	}
	return obj, nil
}

// ============================================================================
// Actions
// ============================================================================

// ActionBlock holds interactive elements
type ActionBlock struct {
	BlockBase
	Elements []Element
}

func (*ActionBlock) Kind() codec.Kind { return codec.Kind{Family: FamilyBlock, Tag: BlockActions} }

func decodeActionBlock(obj codec.Object, c *codec.Context) (*ActionBlock, error) {
	a := &ActionBlock{}
	if err := loadBlockBase(obj, &a.BlockBase); err != nil {
		return nil, err
	}
	if !obj.Has("elements") {
		return nil, codec.MissingField("elements")
	}
	var err error
	if a.Elements, err = codec.DecodeList[Element](c, obj, "elements", FamilyElement); err != nil {
		return nil, err
	}
	return a, nil
}

func encodeActionBlock(a *ActionBlock, c *codec.Context) (codec.Object, error) {
	if a.Elements == nil {
		return nil, missingOnEncode("elements")
	}
	obj := codec.Object{}
	saveBlockBase(obj, &a.BlockBase)
	elements, err := codec.EncodeList(c, a.Elements)
	if err != nil {
		return nil, codec.AtPath(err, "elements")
	}
	obj["elements"] = elements
	return obj, nil
}

// ============================================================================
// Context
// ============================================================================

// ContextBlock shows small text and images
type ContextBlock struct {
	BlockBase
	Elements []ContextElement
}

func (*ContextBlock) Kind() codec.Kind { return codec.Kind{Family: FamilyBlock, Tag: BlockContext} }

func decodeContextBlock(obj codec.Object, c *codec.Context) (*ContextBlock, error) {
	cb := &ContextBlock{}
	if err := loadBlockBase(obj, &cb.BlockBase); err != nil {
		return nil, err
	}
	items, err := obj.List("elements")
	if err != nil {
		return nil, err
	}
	if items == nil {
		return nil, codec.MissingField("elements")
	}

	cb.Elements = make([]ContextElement, 0, len(items))
	for i, item := range items {
		v, err := c.DecodeOneOf(item, FamilyText, FamilyElement)
		if err != nil {
			return nil, codec.AtPath(codec.AtPath(err, codec.Index(i)), "elements")
		}
		el, ok := v.(ContextElement)
		if !ok {
			mismatch := codec.TypeMismatch(codec.PhaseDecode, "%s is not allowed in a context block", v.Kind())
			return nil, codec.AtPath(codec.AtPath(mismatch, codec.Index(i)), "elements")
		}
		cb.Elements = append(cb.Elements, el)
	}
	return cb, nil
}

func encodeContextBlock(cb *ContextBlock, c *codec.Context) (codec.Object, error) {
	if cb.Elements == nil {
		return nil, missingOnEncode("elements")
	}
	obj := codec.Object{}
	saveBlockBase(obj, &cb.BlockBase)
	elements, err := codec.EncodeList(c, cb.Elements)
	if err != nil {
		return nil, codec.AtPath(err, "elements")
	}
	obj["elements"] = elements
	return obj, nil
}
