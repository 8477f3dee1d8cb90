package codec

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates which direction of the codec produced an error
type Phase string

const (
	PhaseDecode   Phase = "decode"
	PhaseEncode   Phase = "encode"
	PhaseRegister Phase = "register"
)

// Reason categorizes a codec failure
type Reason string

const (
	ReasonUnknownVariant  Reason = "unknown_variant"
	ReasonTypeMismatch    Reason = "type_mismatch"
	ReasonMissingField    Reason = "missing_field"
	ReasonInvalidTextType Reason = "invalid_text_type"
	ReasonMalformed       Reason = "malformed"
	ReasonDuplicate       Reason = "duplicate_variant"
)

// Sentinels for errors.Is. Matching compares Reason only.
var (
	ErrUnknownVariant  = &Error{Reason: ReasonUnknownVariant}
	ErrTypeMismatch    = &Error{Reason: ReasonTypeMismatch}
	ErrMissingField    = &Error{Reason: ReasonMissingField}
	ErrInvalidTextType = &Error{Reason: ReasonInvalidTextType}
	ErrMalformed       = &Error{Reason: ReasonMalformed}
	ErrDuplicate       = &Error{Reason: ReasonDuplicate}
)

// Error is the structured error returned by every codec operation.
//
// Callers branch on the reason with errors.Is against the package
// sentinels, and use errors.As to read the tag, field or path:
//
//	var codecErr *codec.Error
//	if errors.As(err, &codecErr) && codecErr.Reason == codec.ReasonUnknownVariant {
//	    log.Printf("server sent a %q block", codecErr.Tag)
//	}
type Error struct {
	Phase  Phase
	Reason Reason
	// Path is the field path from the decoded root, e.g. ["blocks", "[2]", "accessory"]
	Path []string
	// Tag is the discriminator value for unknown variants
	Tag string
	// Field is the wire key for missing required fields
	Field  string
	Detail string
	Cause  error
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("codec: ")
	if e.Phase != "" {
		b.WriteString(string(e.Phase))
		b.WriteByte(' ')
	}
	if path := e.PathString(); path != "" {
		b.WriteString(path)
		b.WriteByte(' ')
	}

	switch e.Reason {
	case ReasonUnknownVariant:
		fmt.Fprintf(&b, "unknown variant %q", e.Tag)
	case ReasonMissingField:
		fmt.Fprintf(&b, "missing required field %q", e.Field)
	default:
		b.WriteString(strings.ReplaceAll(string(e.Reason), "_", " "))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}
	return b.String()
}

// PathString renders Path as a dotted field path with index segments attached
func (e *Error) PathString() string {
	var b strings.Builder
	for _, seg := range e.Path {
		if b.Len() > 0 && !strings.HasPrefix(seg, "[") {
			b.WriteByte('.')
		}
		b.WriteString(seg)
	}
	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a codec error with the same reason.
// A target with a phase also has to match the phase.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return t.Reason == e.Reason
}

// UnknownVariant reports a discriminator value with no registered variant
func UnknownVariant(family Family, tag string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Reason: ReasonUnknownVariant,
		Tag:    tag,
		Detail: fmt.Sprintf("no %s variant registered for this tag", family),
	}
}

// TypeMismatch reports a value whose shape or resolved variant differs from the expected one
func TypeMismatch(phase Phase, format string, args ...any) *Error {
	return &Error{
		Phase:  phase,
		Reason: ReasonTypeMismatch,
		Detail: fmt.Sprintf(format, args...),
	}
}

// MissingField reports an absent non-nullable field
func MissingField(name string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Reason: ReasonMissingField,
		Path:   []string{name},
		Field:  name,
	}
}

// InvalidTextType reports a text object whose sub-kind violates a constraint
func InvalidTextType(got, want string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Reason: ReasonInvalidTextType,
		Detail: fmt.Sprintf("got %q, want %q", got, want),
	}
}

// Malformed reports wire data that cannot be parsed at all
func Malformed(cause error, format string, args ...any) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Reason: ReasonMalformed,
		Detail: fmt.Sprintf(format, args...),
		Cause:  cause,
	}
}

// AtPath prefixes the path of a codec error with seg. Other errors pass through.
func AtPath(err error, seg string) error {
	if err == nil {
		return nil
	}
	var codecErr *Error
	if !errors.As(err, &codecErr) {
		return err
	}
	scoped := *codecErr
	scoped.Path = append([]string{seg}, codecErr.Path...)
	return &scoped
}

// Index formats a list index path segment
func Index(i int) string {
	return fmt.Sprintf("[%d]", i)
}
