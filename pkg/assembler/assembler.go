package assembler

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Thunderforge/kestrel-development-kit/pkg/diag"
	"github.com/Thunderforge/kestrel-development-kit/pkg/log"
	"github.com/Thunderforge/kestrel-development-kit/pkg/resource"
	"github.com/Thunderforge/kestrel-development-kit/pkg/rsrc"
	"github.com/Thunderforge/kestrel-development-kit/pkg/schema"
)

// ErrIllegalWidth is returned when a schema declares an integer slot width
// outside {1, 2, 4, 8}. No byte-exact encoding exists for such a slot, so
// assembly aborts.
var ErrIllegalWidth = errors.New("illegal encoding width")

// FileResolver resolves a file-reference literal (a path) to a resource id.
// It is the contract of the external resource map; without one configured,
// file references are reported as unsupported.
type FileResolver interface {
	Resolve(path string) (int16, error)
}

// Assembler assembles one resource into a binary record. It is
// single-threaded; assemble each resource with its own Assembler.
type Assembler struct {
	res      *resource.Resource
	blob     *rsrc.Data
	reporter diag.Reporter
	resolver FileResolver
	logger   log.Logger
	runID    string

	errors   int
	warnings int
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithReporter directs diagnostics to r instead of the default collector.
func WithReporter(r diag.Reporter) Option {
	return func(a *Assembler) {
		if r != nil {
			a.reporter = r
		}
	}
}

// WithFileResolver enables file-reference resolution through r.
func WithFileResolver(r FileResolver) Option {
	return func(a *Assembler) {
		a.resolver = r
	}
}

// WithLogger captures assembly events to l.
func WithLogger(l log.Logger) Option {
	return func(a *Assembler) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithRunID stamps logged events with the compilation run id.
func WithRunID(id string) Option {
	return func(a *Assembler) {
		a.runID = id
	}
}

// New creates an assembler for the given resource. With no options,
// diagnostics accumulate in an internal collector (see Diagnostics) and
// event logging is disabled.
func New(res *resource.Resource, opts ...Option) *Assembler {
	a := &Assembler{
		res:      res,
		blob:     rsrc.New(),
		reporter: diag.NewCollector(),
		logger:   log.NoopLogger{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Data returns the record buffer accumulated so far.
func (a *Assembler) Data() *rsrc.Data {
	return a.blob
}

// Diagnostics returns the internal collector, or nil when WithReporter
// replaced it.
func (a *Assembler) Diagnostics() *diag.Collector {
	if c, ok := a.reporter.(*diag.Collector); ok {
		return c
	}
	return nil
}

// Assemble runs every field schema in declaration order and returns the
// finished record. The returned error is non-nil only for fatal schema
// defects; validation failures are reported and leave their slots
// default-filled.
func (a *Assembler) Assemble(fields []schema.FieldSchema) (*rsrc.Data, error) {
	a.logEvent(log.CategoryResourceStart, nil)

	for _, fs := range fields {
		if err := a.AssembleField(fs); err != nil {
			return nil, fmt.Errorf("field %q: %w", fs.Name(), err)
		}
	}

	a.logEvent(log.CategoryRecord, func(e *log.Event) {
		e.Record = &log.RecordEvent{
			Size:     a.blob.Size(),
			Errors:   a.errors,
			Warnings: a.warnings,
		}
	})
	return a.blob, nil
}

// AssembleField assembles one schema field into the record.
func (a *Assembler) AssembleField(fs schema.FieldSchema) error {
	field := a.res.FieldNamed(fs.Name())

	if field == nil && fs.Required() {
		a.report(diag.Diagnostic{
			Severity: diag.SeverityError,
			Kind:     diag.KindMissingRequiredField,
			Context:  a.context(fs.Name()),
			Message:  fmt.Sprintf("missing required field '%s'", fs.Name()),
		})
	}
	if field != nil && fs.Deprecated() {
		a.report(diag.Diagnostic{
			Severity: diag.SeverityWarning,
			Kind:     diag.KindDeprecatedFieldUsed,
			Context:  a.context(fs.Name()),
			Message:  fmt.Sprintf("field '%s' is deprecated", fs.Name()),
		})
	}

	// Extend the record to the field's full extent before any positioned
	// write, so fields writing at higher offsets never corrupt earlier
	// data and omitted slots keep their zero fill.
	a.blob.SetInsertionPoint(a.blob.Size())
	a.blob.PadToSize(fs.RequiredDataSize())

	encode := field != nil
	var values []resource.Value
	if field != nil {
		values = field.Values()
		if len(values) != len(fs.Values()) {
			a.report(diag.Diagnostic{
				Severity: diag.SeverityError,
				Kind:     diag.KindFieldArityMismatch,
				Context:  a.context(fs.Name()),
				Message: fmt.Sprintf("field '%s' expects %d values, %d provided",
					fs.Name(), len(fs.Values()), len(values)),
			})
			// Declared slots still get their default or zero fill.
			encode = false
		}
	}

	if encode {
		for i, vs := range fs.Values() {
			if err := a.encodeValue(fs, i, vs, values[i]); err != nil {
				return err
			}
		}
	} else {
		for _, vs := range fs.Values() {
			vs.WriteDefaultValue(a.blob)
		}
	}

	a.logEvent(log.CategoryField, func(e *log.Event) {
		e.Field = &log.FieldEvent{
			Name:       fs.Name(),
			Present:    field != nil,
			ValueCount: len(values),
			DataSize:   fs.RequiredDataSize(),
		}
	})
	return nil
}

// encodeValue validates and writes a single positioned value. Validation
// failures are reported and leave the slot default/zero-filled; only an
// illegal width is returned as an error.
func (a *Assembler) encodeValue(fs schema.FieldSchema, index int, vs schema.ValueSchema, v resource.Value) error {
	ctx := a.context(fs.Name())

	if !vs.TypeAllowed(v.Type) {
		a.report(diag.Diagnostic{
			Severity: diag.SeverityError,
			Kind:     diag.KindValueTypeMismatch,
			Context:  ctx,
			Message: fmt.Sprintf("field '%s' value %d: %s value not allowed (expects %s)",
				fs.Name(), index, v.Type, vs.Mask()),
		})
		vs.WriteDefaultValue(a.blob)
		return nil
	}

	switch v.Type {
	case resource.ValueInteger, resource.ValuePercentage:
		n, err := parseNumber(strings.TrimSuffix(v.Literal, "%"))
		if err != nil {
			a.reportBadLiteral(fs.Name(), index, v, ctx)
			vs.WriteDefaultValue(a.blob)
			return nil
		}
		return a.writeInteger(vs, n, ctx)

	case resource.ValueIdentifier:
		if len(vs.Symbols()) == 0 {
			// Bare flag identifier on an integer/bitmask slot; the
			// parser guarantees these are numeric.
			n, err := parseNumber(v.Literal)
			if err != nil {
				a.reportBadLiteral(fs.Name(), index, v, ctx)
				vs.WriteDefaultValue(a.blob)
				return nil
			}
			return a.writeInteger(vs, n, ctx)
		}
		n, ok := vs.LookupSymbol(v.Literal)
		if !ok {
			a.report(diag.Diagnostic{
				Severity: diag.SeverityError,
				Kind:     diag.KindUnrecognizedSymbol,
				Context:  ctx,
				Message: fmt.Sprintf("field '%s' value %d: unrecognized symbol '%s'",
					fs.Name(), index, v.Literal),
			})
			vs.WriteDefaultValue(a.blob)
			return nil
		}
		return a.writeInteger(vs, n, ctx)

	case resource.ValueResourceID:
		n, err := parseNumber(v.Literal)
		if err != nil {
			a.reportBadLiteral(fs.Name(), index, v, ctx)
			vs.WriteDefaultValue(a.blob)
			return nil
		}
		// Resource references are always 2 bytes, signed, regardless of
		// the slot's declared size.
		a.blob.SetInsertionPoint(vs.Offset())
		a.blob.WriteSignedWord(int16(n))
		return nil

	case resource.ValueFileReference:
		if a.resolver == nil {
			a.report(diag.Diagnostic{
				Severity: diag.SeverityError,
				Kind:     diag.KindUnsupportedValueKind,
				Context:  ctx,
				Message: fmt.Sprintf("field '%s' value %d: file references are not supported without a resolver",
					fs.Name(), index),
			})
			vs.WriteDefaultValue(a.blob)
			return nil
		}
		id, err := a.resolver.Resolve(v.Literal)
		if err != nil {
			a.report(diag.Diagnostic{
				Severity: diag.SeverityError,
				Kind:     diag.KindUnsupportedValueKind,
				Context:  ctx,
				Message: fmt.Sprintf("field '%s' value %d: cannot resolve file reference '%s': %v",
					fs.Name(), index, v.Literal, err),
			})
			vs.WriteDefaultValue(a.blob)
			return nil
		}
		a.blob.SetInsertionPoint(vs.Offset())
		a.blob.WriteSignedWord(id)
		return nil

	case resource.ValueString:
		a.blob.SetInsertionPoint(vs.Offset())
		if vs.Mask().Has(schema.MaskCStr) {
			a.blob.WriteCStr(v.Literal, vs.Size())
		} else {
			a.blob.WritePStr(v.Literal)
		}
		return nil

	case resource.ValueColor:
		n, err := strconv.ParseUint(v.Literal, 0, 32)
		if err != nil {
			a.reportBadLiteral(fs.Name(), index, v, ctx)
			vs.WriteDefaultValue(a.blob)
			return nil
		}
		a.blob.SetInsertionPoint(vs.Offset())
		a.blob.WriteLong(uint32(n))
		return nil

	default:
		a.report(diag.Diagnostic{
			Severity: diag.SeverityError,
			Kind:     diag.KindUnsupportedValueKind,
			Context:  ctx,
			Message: fmt.Sprintf("field '%s' value %d: cannot encode %s value",
				fs.Name(), index, v.Type),
		})
		vs.WriteDefaultValue(a.blob)
		return nil
	}
}

// writeInteger writes n at the slot's offset using the slot's declared
// width and signedness. The literal's own sign never changes the
// encoding; out-of-range values truncate via two's complement.
func (a *Assembler) writeInteger(vs schema.ValueSchema, n int64, ctx string) error {
	a.blob.SetInsertionPoint(vs.Offset())
	if vs.Signed() {
		switch vs.Size() {
		case 1:
			a.blob.WriteSignedByte(int8(n))
		case 2:
			a.blob.WriteSignedWord(int16(n))
		case 4:
			a.blob.WriteSignedLong(int32(n))
		case 8:
			a.blob.WriteSignedQuad(n)
		default:
			return a.illegalWidth(vs, ctx)
		}
		return nil
	}
	switch vs.Size() {
	case 1:
		a.blob.WriteByte(uint8(n))
	case 2:
		a.blob.WriteWord(uint16(n))
	case 4:
		a.blob.WriteLong(uint32(n))
	case 8:
		a.blob.WriteQuad(uint64(n))
	default:
		return a.illegalWidth(vs, ctx)
	}
	return nil
}

func (a *Assembler) illegalWidth(vs schema.ValueSchema, ctx string) error {
	a.report(diag.Diagnostic{
		Severity: diag.SeverityError,
		Kind:     diag.KindIllegalEncodingWidth,
		Context:  ctx,
		Message:  fmt.Sprintf("slot '%s' declares width %d; must be 1, 2, 4 or 8", vs.Name(), vs.Size()),
	})
	return fmt.Errorf("slot %q: %w (%d)", vs.Name(), ErrIllegalWidth, vs.Size())
}

func (a *Assembler) reportBadLiteral(field string, index int, v resource.Value, ctx string) {
	a.report(diag.Diagnostic{
		Severity: diag.SeverityError,
		Kind:     diag.KindValueTypeMismatch,
		Context:  ctx,
		Message: fmt.Sprintf("field '%s' value %d: cannot parse %s literal '%s'",
			field, index, v.Type, v.Literal),
	})
}

// context names the resource and field for diagnostics.
func (a *Assembler) context(field string) string {
	return fmt.Sprintf("%s #%d '%s'", a.res.Type(), a.res.ID(), field)
}

// report forwards a diagnostic to the reporter, counts it and mirrors it
// into the event log.
func (a *Assembler) report(d diag.Diagnostic) {
	if d.Severity == diag.SeverityError {
		a.errors++
	} else {
		a.warnings++
	}
	a.reporter.Report(d)
	a.logEvent(log.CategoryDiagnostic, func(e *log.Event) {
		e.Diagnostic = &log.DiagnosticEvent{
			Severity: d.Severity.String(),
			Kind:     d.Kind.String(),
			Context:  d.Context,
			Line:     d.Line,
			Message:  d.Message,
		}
	})
}

// logEvent emits an assembly event; fill mutates the prepared event.
func (a *Assembler) logEvent(category log.Category, fill func(*log.Event)) {
	if _, ok := a.logger.(log.NoopLogger); ok {
		return
	}
	e := log.Event{
		Timestamp:    time.Now(),
		RunID:        a.runID,
		Category:     category,
		ResourceType: a.res.Type(),
		ResourceID:   a.res.ID(),
		ResourceName: a.res.Name(),
	}
	if fill != nil {
		fill(&e)
	}
	a.logger.Log(e)
}

// parseNumber decodes an integer literal. Base prefixes (0x, 0o, 0b) are
// honored. Values above MaxInt64 reinterpret as their two's-complement
// bit pattern so unsigned 64-bit literals round-trip.
func parseNumber(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 0, 64)
	if err == nil {
		return n, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		u, uerr := strconv.ParseUint(s, 0, 64)
		if uerr == nil {
			return int64(u), nil
		}
	}
	return 0, err
}
