package schema

import "strings"

// TypeMask is the set of semantic categories a value slot accepts, plus
// encoding modifier flags.
type TypeMask uint8

const (
	// MaskInteger accepts plain integers (and percentages).
	MaskInteger TypeMask = 1 << iota
	// MaskBitmask accepts integers and bare symbolic flags.
	MaskBitmask
	// MaskString accepts string literals.
	MaskString
	// MaskColor accepts packed color literals.
	MaskColor
	// MaskResourceReference accepts resource ids, file references and
	// symbolic references.
	MaskResourceReference
	// MaskCStr selects fixed-width C-string encoding for string slots;
	// without it strings are length-prefixed.
	MaskCStr
)

// Has reports whether all bits of m2 are set in m.
func (m TypeMask) Has(m2 TypeMask) bool {
	return m&m2 == m2
}

// String returns a pipe-separated list of the set bits.
func (m TypeMask) String() string {
	var names []string
	for _, b := range []struct {
		bit  TypeMask
		name string
	}{
		{MaskInteger, "integer"},
		{MaskBitmask, "bitmask"},
		{MaskString, "string"},
		{MaskColor, "color"},
		{MaskResourceReference, "resource-reference"},
		{MaskCStr, "cstr"},
	} {
		if m.Has(b.bit) {
			names = append(names, b.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}
