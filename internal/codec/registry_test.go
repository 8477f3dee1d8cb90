package codec

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	famShape Family = "shape"
	famBox   Family = "box"
)

type circle struct{ Radius int64 }

func (*circle) Kind() Kind { return Kind{Family: famShape, Tag: "circle"} }

type square struct{ Side int64 }

func (*square) Kind() Kind { return Kind{Family: famShape, Tag: "square"} }

// box is structural and nests a shape
type box struct {
	Label string
	Shape Value
}

func (*box) Kind() Kind { return Kind{Family: famBox} }

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	reg := NewRegistry()
	require.NoError(t, reg.Register(NewVariant(famShape, "circle",
		func(obj Object, _ *Context) (*circle, error) {
			r, err := obj.Int("radius")
			if err != nil {
				return nil, err
			}
			if r == nil {
				return nil, MissingField("radius")
			}
			return &circle{Radius: *r}, nil
		},
		func(c *circle, _ *Context) (Object, error) {
			return Object{"radius": c.Radius}, nil
		})))
	require.NoError(t, reg.Register(NewVariant(famShape, "square",
		func(obj Object, _ *Context) (*square, error) {
			s, err := obj.Int("side")
			if err != nil || s == nil {
				return nil, err
			}
			return &square{Side: *s}, nil
		},
		func(s *square, _ *Context) (Object, error) {
			return Object{"side": s.Side}, nil
		})))
	require.NoError(t, reg.Register(NewVariant(famBox, "",
		func(obj Object, c *Context) (*box, error) {
			label, err := obj.RequiredString("label")
			if err != nil {
				return nil, err
			}
			b := &box{Label: label}
			if obj.Has("shape") {
				if b.Shape, err = c.Decode(obj["shape"], famShape); err != nil {
					return nil, AtPath(err, "shape")
				}
			}
			return b, nil
		},
		func(b *box, c *Context) (Object, error) {
			obj := Object{"label": b.Label}
			if b.Shape != nil {
				shape, err := c.Encode(b.Shape)
				if err != nil {
					return nil, AtPath(err, "shape")
				}
				obj["shape"] = shape
			}
			return obj, nil
		})))
	return reg
}

func TestRegistryRegister(t *testing.T) {
	reg := testRegistry(t)

	t.Run("duplicate tag", func(t *testing.T) {
		err := reg.Register(NewVariant(famShape, "circle",
			func(Object, *Context) (*circle, error) { return &circle{}, nil },
			func(*circle, *Context) (Object, error) { return Object{}, nil }))
		assert.True(t, errors.Is(err, ErrDuplicate))
	})

	t.Run("structural family is closed", func(t *testing.T) {
		err := reg.Register(NewVariant(famBox, "crate",
			func(Object, *Context) (*box, error) { return &box{}, nil },
			func(*box, *Context) (Object, error) { return Object{}, nil }))
		assert.True(t, errors.Is(err, ErrDuplicate))
	})

	t.Run("missing functions", func(t *testing.T) {
		err := reg.Register(Variant{Family: famShape, Tag: "hexagon"})
		require.Error(t, err)
	})

	t.Run("must register panics", func(t *testing.T) {
		assert.Panics(t, func() {
			reg.MustRegister(Variant{Family: "", Tag: "x"})
		})
	})

	assert.Equal(t, []string{"circle", "square"}, reg.Tags(famShape))
	assert.True(t, reg.Has(Kind{Family: famShape, Tag: "square"}))
	assert.True(t, reg.Has(Kind{Family: famBox}))
	assert.False(t, reg.Has(Kind{Family: famShape, Tag: "hexagon"}))
}

func TestRegistryDecode(t *testing.T) {
	reg := testRegistry(t)

	t.Run("tagged", func(t *testing.T) {
		tree, err := Parse([]byte(`{"type":"circle","radius":3}`))
		require.NoError(t, err)

		v, err := reg.Decode(tree, famShape)
		require.NoError(t, err)
		assert.Equal(t, &circle{Radius: 3}, v)
	})

	t.Run("unknown tag", func(t *testing.T) {
		_, err := reg.Decode(Object{"type": "hexagon"}, famShape)
		var codecErr *Error
		require.True(t, errors.As(err, &codecErr))
		assert.Equal(t, ReasonUnknownVariant, codecErr.Reason)
		assert.Equal(t, "hexagon", codecErr.Tag)
		assert.Contains(t, err.Error(), "known: circle, square")
		assert.True(t, errors.Is(err, ErrUnknownVariant))
	})

	t.Run("missing discriminator", func(t *testing.T) {
		_, err := reg.Decode(Object{"radius": 3}, famShape)
		var codecErr *Error
		require.True(t, errors.As(err, &codecErr))
		assert.Equal(t, ReasonMissingField, codecErr.Reason)
		assert.Equal(t, TypeKey, codecErr.Field)
	})

	t.Run("unregistered family", func(t *testing.T) {
		_, err := reg.Decode(Object{"type": "circle"}, "nope")
		assert.True(t, errors.Is(err, ErrUnknownVariant))
	})

	t.Run("not an object", func(t *testing.T) {
		_, err := reg.Decode([]any{}, famShape)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})

	t.Run("nested path", func(t *testing.T) {
		_, err := reg.Decode(Object{"label": "x", "shape": Object{"type": "circle"}}, famBox)
		var codecErr *Error
		require.True(t, errors.As(err, &codecErr))
		assert.Equal(t, "shape.radius", codecErr.PathString())
		assert.Contains(t, err.Error(), `missing required field "radius"`)
	})

	t.Run("decode as mismatch", func(t *testing.T) {
		_, err := reg.DecodeAs(Object{"type": "square", "side": 2}, Kind{Family: famShape, Tag: "circle"})
		assert.True(t, errors.Is(err, ErrTypeMismatch))

		v, err := reg.DecodeAs(Object{"type": "square", "side": 2}, Kind{Family: famShape, Tag: "square"})
		require.NoError(t, err)
		assert.Equal(t, &square{Side: 2}, v)
	})

	t.Run("decode into", func(t *testing.T) {
		sq, err := DecodeInto[*square](reg.Context(), Object{"type": "square", "side": 4}, famShape)
		require.NoError(t, err)
		assert.Equal(t, int64(4), sq.Side)

		_, err = DecodeInto[*circle](reg.Context(), Object{"type": "square", "side": 4}, famShape)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})
}

func TestRegistryEncode(t *testing.T) {
	reg := testRegistry(t)

	t.Run("discriminator written first", func(t *testing.T) {
		obj, err := reg.Encode(&box{Label: "b", Shape: &circle{Radius: 2}})
		require.NoError(t, err)

		data, err := Marshal(obj)
		require.NoError(t, err)
		assert.JSONEq(t, `{"label":"b","shape":{"type":"circle","radius":2}}`, string(data))
		assert.True(t, strings.Contains(string(data), `{"type":"circle"`))
	})

	t.Run("round trip", func(t *testing.T) {
		in := &box{Label: "b", Shape: &square{Side: 9}}
		obj, err := reg.Encode(in)
		require.NoError(t, err)
		data, err := Marshal(obj)
		require.NoError(t, err)
		tree, err := Parse(data)
		require.NoError(t, err)

		out, err := reg.Decode(tree, famBox)
		require.NoError(t, err)
		assert.Equal(t, in, out)
	})

	t.Run("unregistered kind", func(t *testing.T) {
		_, err := NewRegistry().Encode(&circle{})
		var codecErr *Error
		require.True(t, errors.As(err, &codecErr))
		assert.Equal(t, ReasonUnknownVariant, codecErr.Reason)
		assert.Equal(t, PhaseEncode, codecErr.Phase)
	})

	t.Run("nil pointer", func(t *testing.T) {
		var c *circle
		_, err := reg.Encode(c)
		assert.True(t, errors.Is(err, ErrTypeMismatch))
	})

	t.Run("list paths", func(t *testing.T) {
		_, err := EncodeList(reg.Context(), []Value{&circle{}, &box{}})
		require.NoError(t, err)

		_, err = EncodeList(reg.Context(), []Value{&circle{}, &unregistered{}})
		var codecErr *Error
		require.True(t, errors.As(err, &codecErr))
		assert.Equal(t, "[1]", codecErr.PathString())
	})
}

type unregistered struct{}

func (*unregistered) Kind() Kind { return Kind{Family: famShape, Tag: "hexagon"} }

func TestDecodeList(t *testing.T) {
	reg := testRegistry(t)
	obj := Object{
		"shapes": []any{
			Object{"type": "circle", "radius": 1},
			Object{"type": "square", "side": 2},
		},
		"empty": []any{},
	}

	shapes, err := DecodeList[Value](reg.Context(), obj, "shapes", famShape)
	require.NoError(t, err)
	assert.Equal(t, []Value{&circle{Radius: 1}, &square{Side: 2}}, shapes)

	empty, err := DecodeList[Value](reg.Context(), obj, "empty", famShape)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	absent, err := DecodeList[Value](reg.Context(), obj, "absent", famShape)
	require.NoError(t, err)
	assert.Nil(t, absent)

	obj["shapes"] = []any{Object{"type": "circle", "radius": 1}, Object{"type": "oval"}}
	_, err = DecodeList[Value](reg.Context(), obj, "shapes", famShape)
	var codecErr *Error
	require.True(t, errors.As(err, &codecErr))
	assert.Equal(t, "shapes[1]", codecErr.PathString())
	assert.Equal(t, "oval", codecErr.Tag)
}

func TestErrorIsPhase(t *testing.T) {
	err := UnknownVariant(famShape, "x")
	assert.True(t, errors.Is(err, ErrUnknownVariant))
	assert.True(t, errors.Is(err, &Error{Phase: PhaseDecode, Reason: ReasonUnknownVariant}))
	assert.False(t, errors.Is(err, &Error{Phase: PhaseEncode, Reason: ReasonUnknownVariant}))
	assert.False(t, errors.Is(err, ErrMissingField))
}
