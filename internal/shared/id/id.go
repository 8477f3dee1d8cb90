// Package id provides the identifier types used by the client.
//
// Two families of IDs live here:
//   - Wire IDs: ObjectID values assigned by the API (users, channels,
//     groups, direct conversations, bots). The first character encodes
//     the object class.
//   - Local IDs: ULID request IDs for correlating log lines of one call,
//     and UUID client message IDs attached to outbound messages.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// ============================================================================
// Wire IDs
// ============================================================================

// ObjectID identifies a user, conversation, bot or team on the wire
type ObjectID string

// Class is the object class encoded in the first character of an ObjectID
type Class byte

const (
	ClassUnknown    Class = 0
	ClassUser       Class = 'U'
	ClassWorkspace  Class = 'W' // enterprise grid user
	ClassChannel    Class = 'C'
	ClassGroup      Class = 'G'
	ClassDirect     Class = 'D'
	ClassBot        Class = 'B'
	ClassTeam       Class = 'T'
	ClassEnterprise Class = 'E'
)

// String returns the raw ID
func (o ObjectID) String() string { return string(o) }

// Class returns the object class of the ID
func (o ObjectID) Class() Class {
	if o == "" {
		return ClassUnknown
	}
	switch c := Class(o[0]); c {
	case ClassUser, ClassWorkspace, ClassChannel, ClassGroup, ClassDirect, ClassBot, ClassTeam, ClassEnterprise:
		return c
	default:
		return ClassUnknown
	}
}

// IsUser reports whether the ID names a user
func (o ObjectID) IsUser() bool {
	c := o.Class()
	return c == ClassUser || c == ClassWorkspace
}

// IsConversation reports whether the ID names a channel, group or direct conversation
func (o ObjectID) IsConversation() bool {
	c := o.Class()
	return c == ClassChannel || c == ClassGroup || c == ClassDirect
}

// ObjectIDs converts raw strings to ObjectIDs
func ObjectIDs(raw []string) []ObjectID {
	if raw == nil {
		return nil
	}
	out := make([]ObjectID, len(raw))
	for i, s := range raw {
		out[i] = ObjectID(s)
	}
	return out
}

// Strings converts ObjectIDs back to raw strings
func Strings(ids []ObjectID) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, o := range ids {
		out[i] = string(o)
	}
	return out
}

// ============================================================================
// Local IDs
// ============================================================================

// RequestID identifies one API call in logs
type RequestID string

// RequestPrefix marks request IDs in logs
const RequestPrefix = "req"

// String returns the raw ID
func (id RequestID) String() string { return string(id) }

// Generator generates ULIDs with optional prefixes
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator
func NewGenerator() *Generator {
	return &Generator{
		entropy: rand.Reader,
	}
}

// Generate creates a new ULID
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewRequestID generates a new request ID
func NewRequestID() RequestID {
	return RequestID(Default().GenerateWithPrefix(RequestPrefix))
}

// IsValidRequestID checks that id is a prefixed ULID
func IsValidRequestID(id string) bool {
	prefix, raw, ok := strings.Cut(id, "_")
	if !ok || prefix != RequestPrefix {
		return false
	}
	_, err := ulid.Parse(raw)
	return err == nil
}

// NewClientMsgID generates the client-side message ID attached to outbound
// messages so the sender can match the echoed message.
func NewClientMsgID() string {
	return uuid.NewString()
}
