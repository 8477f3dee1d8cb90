// Package codec maps tagged domain values to and from a generic JSON tree.
//
// A Registry associates each (family, tag) pair with a decode/encode
// function pair. Decoding reads the "type" discriminator of the tree,
// resolves the variant within the requested family and runs its decoder;
// an unregistered tag is an error, never a silent skip. Encoding dispatches
// on the value's Kind and writes the discriminator first. Families
// registered with an empty tag are structural: they have a single variant
// and no discriminator is read.
//
// Nested polymorphic fields go through a Context so errors carry the field
// path from the decoded root:
//
//	reg := codec.NewRegistry()
//	reg.MustRegister(codec.NewVariant(familyShape, "circle", decodeCircle, encodeCircle))
//	v, err := reg.Decode(tree, familyShape)
//	// codec: decode blocks[2].accessory unknown variant "carousel": no element variant registered for this tag
//
// Trees are parsed and marshalled with sonic; numbers stay json.Number so
// integer ids and timestamps keep full precision.
package codec
