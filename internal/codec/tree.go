package codec

import (
	"bytes"
	"sort"

	"github.com/bytedance/sonic"
)

// TypeKey is the discriminator field of tagged wire objects
const TypeKey = "type"

// wire is the JSON configuration shared by parsing and marshalling.
// Numbers decode as json.Number so integer ids and timestamps keep full precision.
var wire = sonic.Config{
	UseNumber:      true,
	EscapeHTML:     false,
	SortMapKeys:    true,
	ValidateString: true,
}.Froze()

// Object is a JSON object in the generic tree. Parsed objects arrive as
// map[string]any; encoders build Object values directly.
type Object map[string]any

// AsObject views a tree node as an Object
func AsObject(node any) (Object, bool) {
	switch o := node.(type) {
	case Object:
		return o, o != nil
	case map[string]any:
		return Object(o), o != nil
	default:
		return nil, false
	}
}

// Parse decodes a JSON document into a generic tree
func Parse(data []byte) (any, error) {
	var tree any
	if err := wire.Unmarshal(data, &tree); err != nil {
		return nil, Malformed(err, "invalid JSON")
	}
	return tree, nil
}

// ParseObject decodes a JSON document whose root must be an object
func ParseObject(data []byte) (Object, error) {
	tree, err := Parse(data)
	if err != nil {
		return nil, err
	}
	obj, ok := AsObject(tree)
	if !ok {
		return nil, Malformed(nil, "expected a JSON object at the document root")
	}
	return obj, nil
}

// Marshal encodes a tree node as JSON
func Marshal(node any) ([]byte, error) {
	data, err := wire.Marshal(node)
	if err != nil {
		return nil, &Error{Phase: PhaseEncode, Reason: ReasonMalformed, Detail: "marshal failed", Cause: err}
	}
	return data, nil
}

// MarshalJSON writes the discriminator first so the payload is tag-identifiable
// from its first key. Remaining keys are sorted.
func (o Object) MarshalJSON() ([]byte, error) {
	keys := make([]string, 0, len(o))
	for k := range o {
		if k != TypeKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	if _, ok := o[TypeKey]; ok {
		keys = append([]string{TypeKey}, keys...)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := wire.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')

		value, err := wire.Marshal(o[k])
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Has reports whether key is present with a non-null value
func (o Object) Has(key string) bool {
	v, ok := o[key]
	return ok && v != nil
}

// Child returns the nested object at key, or nil when absent
func (o Object) Child(key string) (Object, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return nil, nil
	}
	child, ok := AsObject(v)
	if !ok {
		return nil, AtPath(TypeMismatch(PhaseDecode, "expected object, got %s", nodeType(v)), key)
	}
	return child, nil
}

// List returns the array at key. An absent key yields nil; a present
// array always yields a non-nil slice so presence survives decoding.
func (o Object) List(key string) ([]any, error) {
	v, ok := o[key]
	if !ok || v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, AtPath(TypeMismatch(PhaseDecode, "expected array, got %s", nodeType(v)), key)
	}
	if items == nil {
		items = []any{}
	}
	return items, nil
}

// PutString sets key when s is non-nil
func (o Object) PutString(key string, s *string) {
	if s != nil {
		o[key] = *s
	}
}

// PutBool sets key when b is non-nil
func (o Object) PutBool(key string, b *bool) {
	if b != nil {
		o[key] = *b
	}
}

// PutInt sets key when n is non-nil
func (o Object) PutInt(key string, n *int64) {
	if n != nil {
		o[key] = *n
	}
}

// nodeType names the JSON type of a tree node for error details
func nodeType(node any) string {
	switch node.(type) {
	case nil:
		return "null"
	case Object, map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	default:
		if isNumber(node) {
			return "number"
		}
		return "unknown"
	}
}
