package schema

import (
	"github.com/Thunderforge/kestrel-development-kit/pkg/resource"
	"github.com/Thunderforge/kestrel-development-kit/pkg/rsrc"
)

// Symbol maps one identifier literal to its integer encoding.
type Symbol struct {
	Name  string
	Value int64
}

// DefaultValueFunc writes a slot's default into the sink. The cursor is
// already positioned at the slot's offset when it runs.
type DefaultValueFunc func(d *rsrc.Data)

// ValueSchema is one positioned, fixed-width, type-constrained slot within
// a field schema. Construct with Expect and the With* methods; treat as
// immutable afterwards.
type ValueSchema struct {
	name         string
	mask         TypeMask
	offset       int
	size         int
	signed       bool
	symbols      []Symbol
	defaultValue DefaultValueFunc
}

// Expect declares a value slot with the given name, allowed-type mask,
// byte offset and width.
func Expect(name string, mask TypeMask, offset, size int) ValueSchema {
	return ValueSchema{name: name, mask: mask, offset: offset, size: size}
}

// WithSymbols returns a copy of the slot with the given symbol table.
// Symbols resolve by linear scan in the order given.
func (v ValueSchema) WithSymbols(symbols ...Symbol) ValueSchema {
	v.symbols = symbols
	return v
}

// WithDefaultValue returns a copy of the slot with a default generator,
// run when the field is absent from the resource.
func (v ValueSchema) WithDefaultValue(fn DefaultValueFunc) ValueSchema {
	v.defaultValue = fn
	return v
}

// WithSigned returns a copy of the slot that encodes integers as signed.
func (v ValueSchema) WithSigned() ValueSchema {
	v.signed = true
	return v
}

// Name returns the slot name.
func (v ValueSchema) Name() string {
	return v.name
}

// Mask returns the allowed-type mask.
func (v ValueSchema) Mask() TypeMask {
	return v.mask
}

// Offset returns the slot's byte offset within the record.
func (v ValueSchema) Offset() int {
	return v.offset
}

// Size returns the slot's byte width.
func (v ValueSchema) Size() int {
	return v.size
}

// Signed reports whether integer encoding is signed.
func (v ValueSchema) Signed() bool {
	return v.signed
}

// Symbols returns the slot's symbol table in declaration order.
func (v ValueSchema) Symbols() []Symbol {
	return v.symbols
}

// LookupSymbol scans the symbol table for name, in declaration order.
func (v ValueSchema) LookupSymbol(name string) (int64, bool) {
	for _, s := range v.symbols {
		if s.Name == name {
			return s.Value, true
		}
	}
	return 0, false
}

// HasDefaultValue reports whether a default generator is configured.
func (v ValueSchema) HasDefaultValue() bool {
	return v.defaultValue != nil
}

// WriteDefaultValue positions the sink at the slot's offset and runs the
// default generator. Slots with no generator are left as the zero fill
// produced by padding.
func (v ValueSchema) WriteDefaultValue(d *rsrc.Data) {
	if v.defaultValue == nil {
		return
	}
	d.SetInsertionPoint(v.offset)
	v.defaultValue(d)
}

// TypeAllowed reports whether a raw value of the given semantic type may
// occupy this slot.
//
// The mapping is deliberately asymmetric, for schema-author ergonomics:
// percentages ride on the integer bit, and identifiers mean a symbolic
// resource reference when the slot has a symbol table but a plain flag
// value when it does not.
func (v ValueSchema) TypeAllowed(t resource.ValueType) bool {
	switch t {
	case resource.ValueResourceID, resource.ValueFileReference:
		return v.mask.Has(MaskResourceReference)
	case resource.ValueIdentifier:
		if len(v.symbols) > 0 {
			return v.mask.Has(MaskResourceReference)
		}
		return v.mask&(MaskInteger|MaskBitmask) != 0
	case resource.ValueInteger:
		return v.mask&(MaskInteger|MaskBitmask) != 0
	case resource.ValuePercentage:
		return v.mask.Has(MaskInteger)
	case resource.ValueString:
		return v.mask.Has(MaskString)
	case resource.ValueColor:
		return v.mask.Has(MaskColor)
	default:
		return false
	}
}

// FieldSchema is the declarative binary-layout rule set for one named
// field. Construct with Named and the Set* methods; treat as immutable
// afterwards.
type FieldSchema struct {
	name       string
	required   bool
	deprecated bool
	values     []ValueSchema
}

// Named starts a field schema with the given field name.
func Named(name string) FieldSchema {
	return FieldSchema{name: name}
}

// SetRequired returns a copy marked required.
func (f FieldSchema) SetRequired() FieldSchema {
	f.required = true
	return f
}

// SetDeprecated returns a copy marked deprecated.
func (f FieldSchema) SetDeprecated() FieldSchema {
	f.deprecated = true
	return f
}

// SetValues returns a copy with the given value slots, in order.
func (f FieldSchema) SetValues(values ...ValueSchema) FieldSchema {
	f.values = values
	return f
}

// Name returns the field name.
func (f FieldSchema) Name() string {
	return f.name
}

// Required reports whether the field must be present.
func (f FieldSchema) Required() bool {
	return f.required
}

// Deprecated reports whether use of the field should warn.
func (f FieldSchema) Deprecated() bool {
	return f.deprecated
}

// Values returns the value slots in declaration order.
func (f FieldSchema) Values() []ValueSchema {
	return f.values
}

// Offset returns the first slot's offset. Meaningful for single-value
// fields such as primitive integers and references.
func (f FieldSchema) Offset() int {
	if len(f.values) == 0 {
		return 0
	}
	return f.values[0].offset
}

// RequiredDataSize returns the minimum buffer extent the field needs:
// the maximum of offset+size over its slots. Slots need not be
// contiguous; schemas may deliberately skip reserved bytes.
func (f FieldSchema) RequiredDataSize() int {
	max := 0
	for _, v := range f.values {
		if end := v.offset + v.size; end > max {
			max = end
		}
	}
	return max
}
