package codec

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Family groups the variants that may appear in the same wire position
type Family string

// Kind identifies one registered variant statically
type Kind struct {
	Family Family
	// Tag is the discriminator value; empty for structural families
	Tag string
}

// String returns family/tag, or the family alone for structural kinds
func (k Kind) String() string {
	if k.Tag == "" {
		return string(k.Family)
	}
	return string(k.Family) + "/" + k.Tag
}

// Value is implemented by every domain object the registry can encode
type Value interface {
	Kind() Kind
}

// DecodeFunc populates a domain value from a wire object
type DecodeFunc func(obj Object, ctx *Context) (Value, error)

// EncodeFunc renders a domain value as a wire object
type EncodeFunc func(v Value, ctx *Context) (Object, error)

// Variant pairs a discriminator value with its decode/encode functions
type Variant struct {
	Family Family
	Tag    string
	Decode DecodeFunc
	Encode EncodeFunc
}

// Kind returns the static kind of the variant
func (v *Variant) Kind() Kind {
	return Kind{Family: v.Family, Tag: v.Tag}
}

// NewVariant builds a Variant from typed mapper functions. The encoder side
// rejects values of any other Go type with a type mismatch.
func NewVariant[T Value](family Family, tag string, decode func(Object, *Context) (T, error), encode func(T, *Context) (Object, error)) Variant {
	return Variant{
		Family: family,
		Tag:    tag,
		Decode: func(obj Object, ctx *Context) (Value, error) {
			v, err := decode(obj, ctx)
			if err != nil {
				return nil, err
			}
			return v, nil
		},
		Encode: func(v Value, ctx *Context) (Object, error) {
			typed, ok := v.(T)
			if !ok {
				return nil, TypeMismatch(PhaseEncode, "%s encoder received %T", Kind{family, tag}, v)
			}
			return encode(typed, ctx)
		},
	}
}

type family struct {
	structural *Variant
	tagged     map[string]*Variant
}

// Registry maps (family, tag) pairs to variant codecs. Variants are
// registered once at build time; lookups are safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	families map[Family]*family
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{families: make(map[Family]*family)}
}

// Register adds a variant. A variant with an empty tag makes its family
// structural: the family then holds exactly that one variant.
func (r *Registry) Register(v Variant) error {
	if v.Family == "" {
		return &Error{Phase: PhaseRegister, Reason: ReasonTypeMismatch, Detail: "variant family cannot be empty"}
	}
	if v.Decode == nil || v.Encode == nil {
		return &Error{Phase: PhaseRegister, Reason: ReasonTypeMismatch, Detail: fmt.Sprintf("%s needs both decode and encode functions", v.Kind())}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.families[v.Family]
	if !ok {
		f = &family{tagged: make(map[string]*Variant)}
		r.families[v.Family] = f
	}

	variant := v
	if v.Tag == "" {
		if f.structural != nil || len(f.tagged) > 0 {
			return &Error{Phase: PhaseRegister, Reason: ReasonDuplicate, Detail: fmt.Sprintf("family %s already has variants", v.Family)}
		}
		f.structural = &variant
		return nil
	}

	if f.structural != nil {
		return &Error{Phase: PhaseRegister, Reason: ReasonDuplicate, Detail: fmt.Sprintf("family %s is structural", v.Family)}
	}
	if _, exists := f.tagged[v.Tag]; exists {
		return &Error{Phase: PhaseRegister, Reason: ReasonDuplicate, Tag: v.Tag, Detail: fmt.Sprintf("%s registered twice", v.Kind())}
	}
	f.tagged[v.Tag] = &variant
	return nil
}

// MustRegister registers variants and panics on the first failure
func (r *Registry) MustRegister(variants ...Variant) {
	for _, v := range variants {
		if err := r.Register(v); err != nil {
			panic(err)
		}
	}
}

// Has reports whether a variant is registered for kind
func (r *Registry) Has(kind Kind) bool {
	_, ok := r.lookup(kind)
	return ok
}

// Tags returns the registered discriminator values of a family in sorted order
func (r *Registry) Tags(fam Family) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.families[fam]
	if !ok {
		return nil
	}
	tags := make([]string, 0, len(f.tagged))
	for tag := range f.tagged {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Decode resolves the variant of tree within fam and decodes it
func (r *Registry) Decode(tree any, fam Family) (Value, error) {
	return r.Context().Decode(tree, fam)
}

// DecodeAs decodes tree and requires the resolved variant to be want
func (r *Registry) DecodeAs(tree any, want Kind) (Value, error) {
	return r.Context().DecodeAs(tree, want)
}

// Encode renders v through the variant registered for its kind
func (r *Registry) Encode(v Value) (Object, error) {
	return r.Context().Encode(v)
}

// Context returns a codec context bound to this registry
func (r *Registry) Context() *Context {
	return &Context{registry: r}
}

func (r *Registry) lookup(kind Kind) (*Variant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.families[kind.Family]
	if !ok {
		return nil, false
	}
	if kind.Tag == "" {
		return f.structural, f.structural != nil
	}
	v, ok := f.tagged[kind.Tag]
	return v, ok
}

// resolve finds the variant for obj within fam using its discriminator
func (r *Registry) resolve(obj Object, fam Family) (*Variant, error) {
	r.mu.RLock()
	f, ok := r.families[fam]
	r.mu.RUnlock()
	if !ok {
		return nil, UnknownVariant(fam, "")
	}
	if f.structural != nil {
		return f.structural, nil
	}

	tag, err := obj.String(TypeKey)
	if err != nil {
		return nil, err
	}
	if tag == nil {
		return nil, MissingField(TypeKey)
	}
	v, ok := r.lookup(Kind{Family: fam, Tag: *tag})
	if !ok {
		err := UnknownVariant(fam, *tag)
		if known := r.Tags(fam); len(known) > 0 {
			err.Detail += "; known: " + strings.Join(known, ", ")
		}
		return nil, err
	}
	return v, nil
}
