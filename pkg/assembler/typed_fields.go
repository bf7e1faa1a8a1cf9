package assembler

import (
	"github.com/Thunderforge/kestrel-development-kit/pkg/schema"
)

// Typed-field helpers cover the common fixed shapes (a run of integers, a
// single resource reference, a width/height pair) without a declared
// schema. Each builds the equivalent field schema on the fly and runs it
// through the schema-driven path, so padding, validation and diagnostics
// behave identically.

// IntegerField assembles a field of count integers of the given byte
// width, laid out contiguously from offset. Absent optional fields write
// def into every slot.
func (a *Assembler) IntegerField(name string, offset, count, size int, signed bool, def int64, required bool) error {
	slots := make([]schema.ValueSchema, count)
	for i := range slots {
		mask := schema.MaskInteger | schema.MaskBitmask
		vs := schema.Expect(name, mask, offset+i*size, size).
			WithDefaultValue(schema.IntegerDefault(def, size, signed))
		if signed {
			vs = vs.WithSigned()
		}
		slots[i] = vs
	}
	return a.AssembleField(a.typedSchema(name, required, slots))
}

// ResourceReferenceField assembles a single resource reference: always a
// signed 16-bit id at offset. Absent optional fields write def.
func (a *Assembler) ResourceReferenceField(name string, offset int, def int16, required bool) error {
	vs := schema.Expect(name, schema.MaskResourceReference, offset, 2).
		WithSigned().
		WithDefaultValue(schema.IntegerDefault(int64(def), 2, true))
	return a.AssembleField(a.typedSchema(name, required, []schema.ValueSchema{vs}))
}

// SizeField assembles a width/height pair of signed 16-bit words at
// offset. Absent optional fields write the given defaults.
func (a *Assembler) SizeField(name string, offset int, defWidth, defHeight int16, required bool) error {
	width := schema.Expect("width", schema.MaskInteger, offset, 2).
		WithSigned().
		WithDefaultValue(schema.IntegerDefault(int64(defWidth), 2, true))
	height := schema.Expect("height", schema.MaskInteger, offset+2, 2).
		WithSigned().
		WithDefaultValue(schema.IntegerDefault(int64(defHeight), 2, true))
	return a.AssembleField(a.typedSchema(name, required, []schema.ValueSchema{width, height}))
}

func (a *Assembler) typedSchema(name string, required bool, slots []schema.ValueSchema) schema.FieldSchema {
	fs := schema.Named(name)
	if required {
		fs = fs.SetRequired()
	}
	return fs.SetValues(slots...)
}
