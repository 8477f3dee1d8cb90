package codec

import "reflect"

// Context is handed to every mapper so nested polymorphic fields re-enter
// the registry instead of naming concrete variants.
type Context struct {
	registry *Registry
}

// Registry returns the registry backing this context
func (c *Context) Registry() *Registry {
	return c.registry
}

// Decode resolves the variant of tree within fam and invokes its decoder
func (c *Context) Decode(tree any, fam Family) (Value, error) {
	obj, ok := AsObject(tree)
	if !ok {
		return nil, TypeMismatch(PhaseDecode, "expected %s object, got %s", fam, nodeType(tree))
	}
	v, err := c.registry.resolve(obj, fam)
	if err != nil {
		return nil, err
	}
	return v.Decode(obj, c)
}

// DecodeAs decodes tree and fails with a type mismatch when the resolved
// variant is not want. The check runs before the variant decoder.
func (c *Context) DecodeAs(tree any, want Kind) (Value, error) {
	obj, ok := AsObject(tree)
	if !ok {
		return nil, TypeMismatch(PhaseDecode, "expected %s object, got %s", want, nodeType(tree))
	}
	v, err := c.registry.resolve(obj, want.Family)
	if err != nil {
		return nil, err
	}
	if v.Kind() != want {
		return nil, TypeMismatch(PhaseDecode, "expected %s, got %s", want, v.Kind())
	}
	return v.Decode(obj, c)
}

// DecodeOneOf decodes tree in the first family that has a variant for its
// discriminator. Used where the wire mixes tagged families in one list.
func (c *Context) DecodeOneOf(tree any, families ...Family) (Value, error) {
	obj, ok := AsObject(tree)
	if !ok {
		return nil, TypeMismatch(PhaseDecode, "expected object, got %s", nodeType(tree))
	}
	tag, err := obj.String(TypeKey)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, MissingField(TypeKey)
	}
	for _, fam := range families {
		if c.registry.Has(Kind{Family: fam, Tag: *tag}) {
			return c.Decode(obj, fam)
		}
	}
	var fam Family
	if len(families) > 0 {
		fam = families[0]
	}
	return nil, UnknownVariant(fam, *tag)
}

// Encode renders v through the variant registered for v.Kind(). The
// discriminator of tagged variants is always written by the registry.
func (c *Context) Encode(v Value) (Object, error) {
	if isNil(v) {
		return nil, TypeMismatch(PhaseEncode, "cannot encode a nil %T", v)
	}
	kind := v.Kind()
	variant, ok := c.registry.lookup(kind)
	if !ok {
		err := UnknownVariant(kind.Family, kind.Tag)
		err.Phase = PhaseEncode
		return nil, err
	}
	obj, err := variant.Encode(v, c)
	if err != nil {
		return nil, err
	}
	if kind.Tag != "" {
		obj[TypeKey] = kind.Tag
	}
	return obj, nil
}

// DecodeInto decodes tree within fam and asserts the Go type of the result
func DecodeInto[T Value](c *Context, tree any, fam Family) (T, error) {
	var zero T
	v, err := c.Decode(tree, fam)
	if err != nil {
		return zero, err
	}
	typed, ok := v.(T)
	if !ok {
		return zero, TypeMismatch(PhaseDecode, "%s decoded to unexpected %T", v.Kind(), v)
	}
	return typed, nil
}

// DecodeField decodes the optional nested object at key. The second result
// reports whether the key was present.
func DecodeField[T Value](c *Context, obj Object, key string, fam Family) (T, bool, error) {
	var zero T
	if !obj.Has(key) {
		return zero, false, nil
	}
	v, err := DecodeInto[T](c, obj[key], fam)
	if err != nil {
		return zero, true, AtPath(err, key)
	}
	return v, true, nil
}

// DecodeList decodes the optional array at key element by element. An
// absent key yields nil; a present array yields a non-nil slice.
func DecodeList[T Value](c *Context, obj Object, key string, fam Family) ([]T, error) {
	items, err := obj.List(key)
	if err != nil || items == nil {
		return nil, err
	}
	out := make([]T, 0, len(items))
	for i, item := range items {
		v, err := DecodeInto[T](c, item, fam)
		if err != nil {
			return nil, AtPath(AtPath(err, Index(i)), key)
		}
		out = append(out, v)
	}
	return out, nil
}

// EncodeList encodes items in order into a wire array
func EncodeList[T Value](c *Context, items []T) ([]any, error) {
	out := make([]any, 0, len(items))
	for i, item := range items {
		obj, err := c.Encode(item)
		if err != nil {
			return nil, AtPath(err, Index(i))
		}
		out = append(out, obj)
	}
	return out, nil
}

// isNil reports a nil interface or an interface holding a nil pointer
func isNil(v Value) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	return rv.Kind() == reflect.Pointer && rv.IsNil()
}
