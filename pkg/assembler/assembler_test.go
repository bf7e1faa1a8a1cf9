package assembler

import (
	"bytes"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thunderforge/kestrel-development-kit/pkg/diag"
	"github.com/Thunderforge/kestrel-development-kit/pkg/resource"
	"github.com/Thunderforge/kestrel-development-kit/pkg/schema"
)

func intValue(literal string) resource.Value {
	return resource.Value{Literal: literal, Type: resource.ValueInteger}
}

func newShip(fields ...resource.Field) *resource.Resource {
	r := resource.New("shïp", 128, "Light Freighter")
	for _, f := range fields {
		r.AddField(f)
	}
	return r
}

func TestAssemble_DeterministicLayout(t *testing.T) {
	fields := []schema.FieldSchema{
		schema.Named("flags").SetValues(
			schema.Expect("flags", schema.MaskInteger|schema.MaskBitmask, 0, 2),
		),
		schema.Named("shield").SetValues(
			schema.Expect("strength", schema.MaskInteger, 2, 2).WithSigned(),
		),
	}
	build := func() []byte {
		res := newShip(
			resource.NewField("flags", intValue("3")),
			resource.NewField("shield", intValue("75")),
		)
		blob, err := New(res).Assemble(fields)
		require.NoError(t, err)
		return append([]byte(nil), blob.Bytes()...)
	}

	assert.Equal(t, build(), build(), "same schema and resource must produce identical blobs")
}

func TestAssemble_BlobSizeInvariant(t *testing.T) {
	fields := []schema.FieldSchema{
		schema.Named("a").SetValues(schema.Expect("a", schema.MaskInteger, 0, 2)),
		schema.Named("b").SetValues(schema.Expect("b", schema.MaskInteger, 10, 4)),
		schema.Named("c").SetValues(schema.Expect("c", schema.MaskInteger, 4, 1)),
	}
	res := newShip() // every field absent and optional

	blob, err := New(res).Assemble(fields)
	require.NoError(t, err)

	// Size must cover the largest required_data_size (offset 10 + size 4).
	assert.GreaterOrEqual(t, blob.Size(), 14)
	assert.Equal(t, make([]byte, blob.Size()), blob.Bytes(), "untouched slots stay zero-filled")
}

func TestAssembleField_DefaultFill(t *testing.T) {
	fs := schema.Named("pad").SetValues(
		schema.Expect("pad", schema.MaskInteger, 10, 2).
			WithDefaultValue(schema.IntegerDefault(0xFFFF, 2, false)),
	)
	other := schema.Named("speed").SetValues(
		schema.Expect("speed", schema.MaskInteger, 0, 2),
	)

	res := newShip(resource.NewField("speed", intValue("7")))
	a := New(res)
	require.NoError(t, a.AssembleField(other))
	require.NoError(t, a.AssembleField(fs))

	got := a.Data().Bytes()
	require.GreaterOrEqual(t, len(got), 12)
	assert.Equal(t, []byte{0xFF, 0xFF}, got[10:12], "default generator output at its offset")
	assert.Equal(t, []byte{0x00, 0x07}, got[0:2], "other fields unaffected")
}

func TestAssembleField_ArityMismatch(t *testing.T) {
	fs := schema.Named("bounds").SetValues(
		schema.Expect("width", schema.MaskInteger, 0, 2).
			WithDefaultValue(schema.IntegerDefault(1, 2, false)),
		schema.Expect("height", schema.MaskInteger, 2, 2).
			WithDefaultValue(schema.IntegerDefault(2, 2, false)),
	)
	res := newShip(resource.NewField("bounds", intValue("640")))

	a := New(res)
	require.NoError(t, a.AssembleField(fs))

	c := a.Diagnostics()
	require.True(t, c.HasErrors())
	require.Len(t, c.Errors(), 1)
	assert.Equal(t, diag.KindFieldArityMismatch, c.Errors()[0].Kind)

	// Both declared slots still default-filled; the provided value is
	// not partially encoded.
	assert.Equal(t, []byte{0, 1, 0, 2}, a.Data().Bytes())
}

func TestAssembleField_SymbolResolution(t *testing.T) {
	fs := schema.Named("tint").SetValues(
		schema.Expect("tint", schema.MaskResourceReference, 0, 2).WithSymbols(
			schema.Symbol{Name: "kNone", Value: 0},
			schema.Symbol{Name: "kRed", Value: 1},
		),
	)
	res := newShip(resource.NewField("tint",
		resource.Value{Literal: "kRed", Type: resource.ValueIdentifier}))

	a := New(res)
	require.NoError(t, a.AssembleField(fs))

	assert.False(t, a.Diagnostics().HasErrors())
	assert.Equal(t, []byte{0x00, 0x01}, a.Data().Bytes())
}

func TestAssembleField_UnrecognizedSymbol(t *testing.T) {
	fs := schema.Named("tint").SetValues(
		schema.Expect("tint", schema.MaskResourceReference, 0, 2).WithSymbols(
			schema.Symbol{Name: "kNone", Value: 0},
		),
	)
	res := newShip(resource.NewField("tint",
		resource.Value{Literal: "kWarp", Type: resource.ValueIdentifier}))

	a := New(res)
	require.NoError(t, a.AssembleField(fs))

	c := a.Diagnostics()
	require.Len(t, c.Errors(), 1)
	assert.Equal(t, diag.KindUnrecognizedSymbol, c.Errors()[0].Kind)
	assert.Contains(t, c.Errors()[0].Message, "kWarp")
	assert.Equal(t, []byte{0, 0}, a.Data().Bytes(), "slot stays zero-filled")
}

func TestAssembleField_ResourceReferenceAlwaysTwoBytes(t *testing.T) {
	// Declared size 4 on purpose: references still encode as 2 bytes.
	fs := schema.Named("weapon").SetValues(
		schema.Expect("weapon", schema.MaskResourceReference, 0, 4),
	)
	res := newShip(resource.NewField("weapon",
		resource.Value{Literal: "-1", Type: resource.ValueResourceID}))

	a := New(res)
	require.NoError(t, a.AssembleField(fs))

	got := a.Data().Bytes()
	require.Len(t, got, 4, "padding still honors the declared extent")
	assert.Equal(t, []byte{0xFF, 0xFF, 0x00, 0x00}, got)
}

func TestAssembleField_StringModes(t *testing.T) {
	t.Run("fixed c-string", func(t *testing.T) {
		fs := schema.Named("subtitle").SetValues(
			schema.Expect("subtitle", schema.MaskString|schema.MaskCStr, 0, 8),
		)
		res := newShip(resource.NewField("subtitle",
			resource.Value{Literal: "Hi", Type: resource.ValueString}))

		a := New(res)
		require.NoError(t, a.AssembleField(fs))
		assert.Equal(t, []byte{0x48, 0x69, 0, 0, 0, 0, 0, 0}, a.Data().Bytes())
	})

	t.Run("pascal string", func(t *testing.T) {
		fs := schema.Named("subtitle").SetValues(
			schema.Expect("subtitle", schema.MaskString, 0, 0),
		)
		res := newShip(resource.NewField("subtitle",
			resource.Value{Literal: "Hi", Type: resource.ValueString}))

		a := New(res)
		require.NoError(t, a.AssembleField(fs))
		assert.Equal(t, []byte{0x02, 0x48, 0x69}, a.Data().Bytes())
	})
}

func TestAssembleField_MissingRequired(t *testing.T) {
	fs := schema.Named("speed").SetRequired().SetValues(
		schema.Expect("speed", schema.MaskInteger, 0, 2),
	)

	a := New(newShip())
	require.NoError(t, a.AssembleField(fs))

	c := a.Diagnostics()
	require.Len(t, c.Errors(), 1)
	assert.Equal(t, diag.KindMissingRequiredField, c.Errors()[0].Kind)

	// The record is still emitted well formed at full size.
	assert.Equal(t, []byte{0, 0}, a.Data().Bytes())
}

func TestAssembleField_DeprecatedWarning(t *testing.T) {
	fs := schema.Named("subtitle").SetDeprecated().SetValues(
		schema.Expect("subtitle", schema.MaskString, 0, 0),
	)

	t.Run("present field warns and still encodes", func(t *testing.T) {
		res := newShip(resource.NewField("subtitle",
			resource.Value{Literal: "Hi", Type: resource.ValueString}))
		a := New(res)
		require.NoError(t, a.AssembleField(fs))

		c := a.Diagnostics()
		assert.False(t, c.HasErrors())
		require.Len(t, c.Warnings(), 1)
		assert.Equal(t, diag.KindDeprecatedFieldUsed, c.Warnings()[0].Kind)
		assert.Equal(t, []byte{0x02, 0x48, 0x69}, a.Data().Bytes())
	})

	t.Run("absent field does not warn", func(t *testing.T) {
		a := New(newShip())
		require.NoError(t, a.AssembleField(fs))
		assert.Empty(t, a.Diagnostics().Warnings())
	})
}

func TestAssembleField_TypeMismatchNamesFieldAndIndex(t *testing.T) {
	fs := schema.Named("speed").SetValues(
		schema.Expect("min", schema.MaskInteger, 0, 2),
		schema.Expect("max", schema.MaskInteger, 2, 2),
	)
	res := newShip(resource.NewField("speed",
		intValue("10"),
		resource.Value{Literal: "fast", Type: resource.ValueString},
	))

	a := New(res)
	require.NoError(t, a.AssembleField(fs))

	c := a.Diagnostics()
	require.Len(t, c.Errors(), 1)
	e := c.Errors()[0]
	assert.Equal(t, diag.KindValueTypeMismatch, e.Kind)
	assert.Contains(t, e.Message, "'speed'")
	assert.Contains(t, e.Message, "value 1")

	// The valid value 0 is still encoded; the bad slot stays zero.
	assert.Equal(t, []byte{0, 10, 0, 0}, a.Data().Bytes())
}

func TestAssembleField_IllegalWidthIsFatal(t *testing.T) {
	fs := schema.Named("speed").SetValues(
		schema.Expect("speed", schema.MaskInteger, 0, 3),
	)
	res := newShip(resource.NewField("speed", intValue("7")))

	a := New(res)
	err := a.AssembleField(fs)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIllegalWidth))

	_, err = New(res).Assemble([]schema.FieldSchema{fs})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIllegalWidth))
}

func TestAssembleField_UnsignedTruncation(t *testing.T) {
	fs := schema.Named("count").SetValues(
		schema.Expect("count", schema.MaskInteger, 0, 2),
	)
	res := newShip(resource.NewField("count", intValue("-1")))

	a := New(res)
	require.NoError(t, a.AssembleField(fs))

	// A negative literal in an unsigned slot truncates via two's
	// complement; it is not an error.
	assert.False(t, a.Diagnostics().HasErrors())
	assert.Equal(t, []byte{0xFF, 0xFF}, a.Data().Bytes())
}

func TestAssembleField_Percentage(t *testing.T) {
	fs := schema.Named("armor").SetValues(
		schema.Expect("armor", schema.MaskInteger, 0, 1),
	)
	res := newShip(resource.NewField("armor",
		resource.Value{Literal: "75%", Type: resource.ValuePercentage}))

	a := New(res)
	require.NoError(t, a.AssembleField(fs))
	assert.False(t, a.Diagnostics().HasErrors())
	assert.Equal(t, []byte{75}, a.Data().Bytes())
}

func TestAssembleField_Color(t *testing.T) {
	fs := schema.Named("glow").SetValues(
		schema.Expect("glow", schema.MaskColor, 0, 4),
	)
	res := newShip(resource.NewField("glow",
		resource.Value{Literal: "0xFF8800FF", Type: resource.ValueColor}))

	a := New(res)
	require.NoError(t, a.AssembleField(fs))
	assert.Equal(t, []byte{0xFF, 0x88, 0x00, 0xFF}, a.Data().Bytes())
}

func TestAssembleField_HexAndLargeLiterals(t *testing.T) {
	fs := schema.Named("mask").SetValues(
		schema.Expect("mask", schema.MaskInteger, 0, 8),
	)
	res := newShip(resource.NewField("mask", intValue("0xFFFFFFFFFFFFFFFF")))

	a := New(res)
	require.NoError(t, a.AssembleField(fs))
	assert.False(t, a.Diagnostics().HasErrors())
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, 8), a.Data().Bytes())
}

func TestAssembleField_ValueOrderIndependentOfByteOrder(t *testing.T) {
	// Slots listed high-offset-first; writes still land at each slot's
	// absolute offset.
	fs := schema.Named("bounds").SetValues(
		schema.Expect("height", schema.MaskInteger, 2, 2),
		schema.Expect("width", schema.MaskInteger, 0, 2),
	)
	res := newShip(resource.NewField("bounds", intValue("480"), intValue("640")))

	a := New(res)
	require.NoError(t, a.AssembleField(fs))
	assert.Equal(t, []byte{0x02, 0x80, 0x01, 0xE0}, a.Data().Bytes())
}

func TestAssembleField_UnparseableInteger(t *testing.T) {
	fs := schema.Named("speed").SetValues(
		schema.Expect("speed", schema.MaskInteger, 0, 2).
			WithDefaultValue(schema.IntegerDefault(9, 2, false)),
	)
	res := newShip(resource.NewField("speed", intValue("not-a-number")))

	a := New(res)
	require.NoError(t, a.AssembleField(fs))

	c := a.Diagnostics()
	require.Len(t, c.Errors(), 1)
	assert.Equal(t, diag.KindValueTypeMismatch, c.Errors()[0].Kind)
	assert.Equal(t, []byte{0, 9}, a.Data().Bytes(), "bad value falls back to the default")
}

type mapResolver map[string]int16

func (m mapResolver) Resolve(path string) (int16, error) {
	id, ok := m[path]
	if !ok {
		return 0, fmt.Errorf("no resource for %q", path)
	}
	return id, nil
}

func TestAssembleField_FileReference(t *testing.T) {
	fs := schema.Named("sprite").SetValues(
		schema.Expect("sprite", schema.MaskResourceReference, 0, 2),
	)
	fileRef := func(path string) resource.Field {
		return resource.NewField("sprite",
			resource.Value{Literal: path, Type: resource.ValueFileReference})
	}

	t.Run("unsupported without a resolver", func(t *testing.T) {
		a := New(newShip(fileRef("sprites/freighter.png")))
		require.NoError(t, a.AssembleField(fs))

		c := a.Diagnostics()
		require.Len(t, c.Errors(), 1)
		assert.Equal(t, diag.KindUnsupportedValueKind, c.Errors()[0].Kind)
		assert.Equal(t, []byte{0, 0}, a.Data().Bytes())
	})

	t.Run("resolved to a signed 16-bit id", func(t *testing.T) {
		resolver := mapResolver{"sprites/freighter.png": 300}
		a := New(newShip(fileRef("sprites/freighter.png")), WithFileResolver(resolver))
		require.NoError(t, a.AssembleField(fs))

		assert.False(t, a.Diagnostics().HasErrors())
		assert.Equal(t, []byte{0x01, 0x2C}, a.Data().Bytes())
	})

	t.Run("resolution failure reports", func(t *testing.T) {
		a := New(newShip(fileRef("missing.png")), WithFileResolver(mapResolver{}))
		require.NoError(t, a.AssembleField(fs))

		c := a.Diagnostics()
		require.Len(t, c.Errors(), 1)
		assert.Contains(t, c.Errors()[0].Message, "missing.png")
	})
}

func TestAssemble_FullRecord(t *testing.T) {
	fields := []schema.FieldSchema{
		schema.Named("flags").SetRequired().SetValues(
			schema.Expect("flags", schema.MaskInteger|schema.MaskBitmask, 0, 2),
		),
		schema.Named("shield").SetValues(
			schema.Expect("strength", schema.MaskInteger, 2, 2).WithSigned().
				WithDefaultValue(schema.IntegerDefault(-1, 2, true)),
		),
		schema.Named("weapon").SetValues(
			schema.Expect("weapon", schema.MaskResourceReference, 4, 2),
		),
		schema.Named("subtitle").SetValues(
			schema.Expect("subtitle", schema.MaskString|schema.MaskCStr, 6, 8),
		),
	}
	res := newShip(
		resource.NewField("flags", intValue("3")),
		resource.NewField("weapon",
			resource.Value{Literal: "130", Type: resource.ValueResourceID}),
		resource.NewField("subtitle",
			resource.Value{Literal: "Hi", Type: resource.ValueString}),
	)

	a := New(res)
	blob, err := a.Assemble(fields)
	require.NoError(t, err)
	assert.False(t, a.Diagnostics().HasErrors())

	want := []byte{
		0x00, 0x03, // flags
		0xFF, 0xFF, // shield default -1
		0x00, 0x82, // weapon id 130
		0x48, 0x69, 0, 0, 0, 0, 0, 0, // "Hi" fixed 8
	}
	assert.Equal(t, want, blob.Bytes())
}
