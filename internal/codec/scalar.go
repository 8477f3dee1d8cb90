package codec

import (
	"encoding/json"
	"strconv"
)

// ToString coerces a scalar node to a string. Null yields nil. Numbers and
// booleans are rendered in their wire form; objects and arrays are rejected.
func ToString(node any) (*string, error) {
	switch v := node.(type) {
	case nil:
		return nil, nil
	case string:
		return &v, nil
	case json.Number:
		s := v.String()
		return &s, nil
	case bool:
		s := strconv.FormatBool(v)
		return &s, nil
	case int, int64, float64:
		s := formatNumber(v)
		return &s, nil
	default:
		return nil, TypeMismatch(PhaseDecode, "expected string, got %s", nodeType(node))
	}
}

// ToBool coerces a scalar node to a bool. Null yields nil. The wire
// sometimes carries flags as 0/1 or "true"/"false".
func ToBool(node any) (*bool, error) {
	var b bool
	switch v := node.(type) {
	case nil:
		return nil, nil
	case bool:
		b = v
	case string:
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return nil, TypeMismatch(PhaseDecode, "expected boolean, got string %q", v)
		}
		b = parsed
	default:
		n, err := ToInt(node)
		if err != nil || n == nil || (*n != 0 && *n != 1) {
			return nil, TypeMismatch(PhaseDecode, "expected boolean, got %s", nodeType(node))
		}
		b = *n == 1
	}
	return &b, nil
}

// ToInt coerces a numeric node to an int64. Null yields nil. Numeric strings are accepted.
func ToInt(node any) (*int64, error) {
	var n int64
	switch v := node.(type) {
	case nil:
		return nil, nil
	case int:
		n = int64(v)
	case int64:
		n = v
	case float64:
		n = int64(v)
	case json.Number:
		parsed, err := v.Int64()
		if err != nil {
			f, ferr := v.Float64()
			if ferr != nil {
				return nil, TypeMismatch(PhaseDecode, "expected integer, got %q", v.String())
			}
			parsed = int64(f)
		}
		n = parsed
	case string:
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, TypeMismatch(PhaseDecode, "expected integer, got string %q", v)
		}
		n = parsed
	default:
		return nil, TypeMismatch(PhaseDecode, "expected integer, got %s", nodeType(node))
	}
	return &n, nil
}

// String returns the optional string at key
func (o Object) String(key string) (*string, error) {
	s, err := ToString(o[key])
	return s, AtPath(err, key)
}

// RequiredString returns the string at key, failing when it is absent or null
func (o Object) RequiredString(key string) (string, error) {
	s, err := o.String(key)
	if err != nil {
		return "", err
	}
	if s == nil {
		return "", MissingField(key)
	}
	return *s, nil
}

// Bool returns the flag at key, or def when it is absent or null
func (o Object) Bool(key string, def bool) (bool, error) {
	b, err := o.OptionalBool(key)
	if err != nil {
		return def, err
	}
	if b == nil {
		return def, nil
	}
	return *b, nil
}

// OptionalBool returns the flag at key, or nil when it is absent or null
func (o Object) OptionalBool(key string) (*bool, error) {
	b, err := ToBool(o[key])
	return b, AtPath(err, key)
}

// RequiredBool returns the flag at key, failing when it is absent or null
func (o Object) RequiredBool(key string) (bool, error) {
	b, err := o.OptionalBool(key)
	if err != nil {
		return false, err
	}
	if b == nil {
		return false, MissingField(key)
	}
	return *b, nil
}

// Int returns the optional integer at key
func (o Object) Int(key string) (*int64, error) {
	n, err := ToInt(o[key])
	return n, AtPath(err, key)
}

// StringList returns the array of strings at key, nil when absent
func (o Object) StringList(key string) ([]string, error) {
	items, err := o.List(key)
	if err != nil || items == nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for i, item := range items {
		s, err := ToString(item)
		if err != nil {
			return nil, AtPath(AtPath(err, Index(i)), key)
		}
		if s == nil {
			return nil, AtPath(AtPath(TypeMismatch(PhaseDecode, "null in string list"), Index(i)), key)
		}
		out = append(out, *s)
	}
	return out, nil
}

func isNumber(node any) bool {
	switch node.(type) {
	case json.Number, int, int64, float64:
		return true
	}
	return false
}

func formatNumber(node any) string {
	switch v := node.(type) {
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return ""
}
