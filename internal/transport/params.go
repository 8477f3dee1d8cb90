package transport

import (
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/GriffinCanCode/slackwire/internal/codec"
)

// TokenParam is the form key carrying the access token. It is always
// written first and never taken from caller params.
const TokenParam = "token"

// Params are form parameters kept in insertion order
type Params struct {
	keys   []string
	values map[string]string
}

// NewParams creates an empty parameter list
func NewParams() *Params {
	return &Params{values: make(map[string]string)}
}

// Set stores value under key. Replacing a key keeps its original position.
func (p *Params) Set(key, value string) *Params {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
	return p
}

// SetBool stores "true" or "false"
func (p *Params) SetBool(key string, value bool) *Params {
	return p.Set(key, strconv.FormatBool(value))
}

// SetInt stores a decimal integer
func (p *Params) SetInt(key string, value int64) *Params {
	return p.Set(key, strconv.FormatInt(value, 10))
}

// SetJSON stores node rendered as compact JSON
func (p *Params) SetJSON(key string, node any) error {
	data, err := codec.Marshal(node)
	if err != nil {
		return fmt.Errorf("param %s: %w", key, err)
	}
	p.Set(key, string(data))
	return nil
}

// Get returns the value stored under key
func (p *Params) Get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

// Delete removes key
func (p *Params) Delete(key string) {
	if _, ok := p.values[key]; !ok {
		return
	}
	delete(p.values, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order
func (p *Params) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Len returns the number of parameters
func (p *Params) Len() int {
	if p == nil {
		return 0
	}
	return len(p.keys)
}

// ParamsFromObject flattens a wire object into parameters. Keys are added
// in sorted order; nested objects and arrays become JSON strings.
func ParamsFromObject(obj codec.Object) (*Params, error) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := NewParams()
	for _, k := range keys {
		v := obj[k]
		if v == nil {
			continue
		}
		s, err := formatValue(v)
		if err != nil {
			return nil, fmt.Errorf("param %s: %w", k, err)
		}
		p.Set(k, s)
	}
	return p, nil
}

func formatValue(v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case bool:
		return strconv.FormatBool(t), nil
	case int:
		return strconv.Itoa(t), nil
	case int64:
		return strconv.FormatInt(t, 10), nil
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), nil
	case json.Number:
		return t.String(), nil
	default:
		data, err := codec.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
}

// Encode renders the form body with token first, then params in order
func (p *Params) Encode(token string) string {
	var b strings.Builder
	b.WriteString(TokenParam)
	b.WriteByte('=')
	b.WriteString(url.QueryEscape(token))
	if p == nil {
		return b.String()
	}
	for _, k := range p.keys {
		if k == TokenParam {
			continue
		}
		b.WriteByte('&')
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.values[k]))
	}
	return b.String()
}
