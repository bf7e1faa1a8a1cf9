package diag

import "fmt"

// Severity classifies a diagnostic.
type Severity uint8

const (
	// SeverityError marks a validation failure. Assembly continues, but
	// the resource should be rejected by the caller.
	SeverityError Severity = 0
	// SeverityWarning marks a non-fatal issue such as use of a
	// deprecated field.
	SeverityWarning Severity = 1
)

// String returns the severity name.
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARNING"
	default:
		return "UNKNOWN"
	}
}

// Kind identifies what went wrong.
type Kind uint8

const (
	// KindMissingRequiredField: a schema-required field is absent from
	// the resource.
	KindMissingRequiredField Kind = iota
	// KindFieldArityMismatch: the value count does not match the schema.
	KindFieldArityMismatch
	// KindValueTypeMismatch: a value's semantic type is not allowed by
	// its slot's type mask.
	KindValueTypeMismatch
	// KindUnrecognizedSymbol: an identifier has no entry in the slot's
	// symbol table.
	KindUnrecognizedSymbol
	// KindIllegalEncodingWidth: a slot width outside {1,2,4,8}. This is
	// a schema-authoring defect and aborts assembly.
	KindIllegalEncodingWidth
	// KindUnsupportedValueKind: a value kind the engine cannot encode,
	// such as an unresolved file reference.
	KindUnsupportedValueKind
	// KindDuplicateResource: two resources share a (type, id) pair.
	KindDuplicateResource
	// KindDeprecatedFieldUsed: a deprecated field is present. Warning only.
	KindDeprecatedFieldUsed
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMissingRequiredField:
		return "MissingRequiredField"
	case KindFieldArityMismatch:
		return "FieldArityMismatch"
	case KindValueTypeMismatch:
		return "ValueTypeMismatch"
	case KindUnrecognizedSymbol:
		return "UnrecognizedSymbol"
	case KindIllegalEncodingWidth:
		return "IllegalEncodingWidth"
	case KindUnsupportedValueKind:
		return "UnsupportedValueKind"
	case KindDuplicateResource:
		return "DuplicateResource"
	case KindDeprecatedFieldUsed:
		return "DeprecatedFieldUsed"
	default:
		return "Unknown"
	}
}

// Diagnostic is one reported problem, with enough context to locate the
// offending source field.
type Diagnostic struct {
	// Severity is error or warning.
	Severity Severity

	// Kind identifies the failure class.
	Kind Kind

	// Context names where the problem was found, typically
	// "type #id 'field'".
	Context string

	// Line is the source line, or 0 when unknown.
	Line int

	// Message is the human-readable description.
	Message string
}

// String formats the diagnostic for terminal output.
func (d Diagnostic) String() string {
	if d.Line > 0 {
		return fmt.Sprintf("%s [%s] %s (line %d): %s", d.Severity, d.Kind, d.Context, d.Line, d.Message)
	}
	return fmt.Sprintf("%s [%s] %s: %s", d.Severity, d.Kind, d.Context, d.Message)
}
