// Package objects holds the domain objects exchanged with the API and the
// field mappers that move them in and out of the generic JSON tree.
//
// Blocks, elements and text objects are tagged by their "type" key.
// Messages, attachments, users, conversations and options are structural:
// each family has exactly one variant and no discriminator is read.
package objects

import (
	"github.com/GriffinCanCode/slackwire/internal/codec"
	"github.com/GriffinCanCode/slackwire/internal/shared/id"
)

// Families of wire objects
const (
	FamilyMessage         codec.Family = "message"
	FamilyAttachment      codec.Family = "attachment"
	FamilyAttachmentField codec.Family = "attachment_field"
	FamilyBlock           codec.Family = "block"
	FamilyText            codec.Family = "text"
	FamilyElement         codec.Family = "element"
	FamilyOption          codec.Family = "option"
	FamilyUser            codec.Family = "user"
	FamilyConversation    codec.Family = "conversation"
)

// Variants returns every variant this package knows how to map
func Variants() []codec.Variant {
	return []codec.Variant{
		codec.NewVariant(FamilyMessage, "", decodeMessage, encodeMessage),
		codec.NewVariant(FamilyAttachment, "", decodeAttachment, encodeAttachment),
		codec.NewVariant(FamilyAttachmentField, "", decodeAttachmentField, encodeAttachmentField),

		codec.NewVariant(FamilyText, string(PlainText), textDecoder(PlainText), encodeText),
		codec.NewVariant(FamilyText, string(Markdown), textDecoder(Markdown), encodeText),

		codec.NewVariant(FamilyBlock, BlockSection, decodeSection, encodeSection),
		codec.NewVariant(FamilyBlock, BlockDivider, decodeDivider, encodeDivider),
		codec.NewVariant(FamilyBlock, BlockImage, decodeImageBlock, encodeImageBlock),
		codec.NewVariant(FamilyBlock, BlockActions, decodeActionBlock, encodeActionBlock),
		codec.NewVariant(FamilyBlock, BlockContext, decodeContextBlock, encodeContextBlock),

		codec.NewVariant(FamilyElement, ElementButton, decodeButton, encodeButton),
		codec.NewVariant(FamilyElement, ElementImage, decodeImageElement, encodeImageElement),
		codec.NewVariant(FamilyElement, ElementStaticSelect, decodeStaticSelect, encodeStaticSelect),
		codec.NewVariant(FamilyOption, "", decodeOption, encodeOption),

		codec.NewVariant(FamilyUser, "", decodeUser, encodeUser),
		codec.NewVariant(FamilyConversation, "", decodeConversation, encodeConversation),
	}
}

// Register adds every variant to reg
func Register(reg *codec.Registry) error {
	for _, v := range Variants() {
		if err := reg.Register(v); err != nil {
			return err
		}
	}
	return nil
}

// NewRegistry returns a registry with every variant registered
func NewRegistry() *codec.Registry {
	reg := codec.NewRegistry()
	reg.MustRegister(Variants()...)
	return reg
}

// ============================================================================
// Shared mappers
// ============================================================================

// Base carries the wire identity of objects addressed by ID
type Base struct {
	ID id.ObjectID
}

func loadBase(obj codec.Object, b *Base) error {
	raw, err := obj.RequiredString("id")
	if err != nil {
		return err
	}
	b.ID = id.ObjectID(raw)
	return nil
}

func saveBase(obj codec.Object, b *Base) {
	obj["id"] = string(b.ID)
}

// loadID reads an optional object ID. Absent yields the empty ID.
func loadID(obj codec.Object, key string) (id.ObjectID, error) {
	raw, err := obj.String(key)
	if err != nil || raw == nil {
		return "", err
	}
	return id.ObjectID(*raw), nil
}

func putID(obj codec.Object, key string, v id.ObjectID) {
	if v != "" {
		obj[key] = string(v)
	}
}

func putList(obj codec.Object, key string, items []any) {
	if items != nil {
		obj[key] = items
	}
}

func stringsToAny(items []string) []any {
	if items == nil {
		return nil
	}
	out := make([]any, len(items))
	for i, s := range items {
		out[i] = s
	}
	return out
}
