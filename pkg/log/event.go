package log

import "time"

// Event represents one assembly log event. CBOR encoding uses integer
// keys for compactness.
type Event struct {
	// Timestamp when the event occurred (nanosecond precision).
	Timestamp time.Time `cbor:"1,keyasint"`

	// RunID uniquely identifies the compilation run (UUID).
	RunID string `cbor:"2,keyasint"`

	// Category classifies the event type.
	Category Category `cbor:"3,keyasint"`

	// ResourceType is the type tag of the resource being assembled.
	ResourceType string `cbor:"4,keyasint,omitempty"`

	// ResourceID is the numeric id of the resource being assembled.
	ResourceID int64 `cbor:"5,keyasint,omitempty"`

	// ResourceName is the declared name of the resource.
	ResourceName string `cbor:"6,keyasint,omitempty"`

	// Type-specific payload (one of these will be set).
	Field      *FieldEvent      `cbor:"7,keyasint,omitempty"` // Field encoded
	Diagnostic *DiagnosticEvent `cbor:"8,keyasint,omitempty"` // Reported diagnostic
	Record     *RecordEvent     `cbor:"9,keyasint,omitempty"` // Finished record
}

// Category classifies the event type.
type Category uint8

const (
	// CategoryResourceStart indicates assembly of a resource began.
	CategoryResourceStart Category = 0
	// CategoryField indicates one field was assembled.
	CategoryField Category = 1
	// CategoryDiagnostic indicates a diagnostic was reported.
	CategoryDiagnostic Category = 2
	// CategoryRecord indicates a resource record was completed.
	CategoryRecord Category = 3
)

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryResourceStart:
		return "RESOURCE_START"
	case CategoryField:
		return "FIELD"
	case CategoryDiagnostic:
		return "DIAGNOSTIC"
	case CategoryRecord:
		return "RECORD"
	default:
		return "UNKNOWN"
	}
}

// FieldEvent captures one assembled field.
type FieldEvent struct {
	// Name is the schema field name.
	Name string `cbor:"1,keyasint"`

	// Present indicates the resource actually declared the field.
	Present bool `cbor:"2,keyasint"`

	// ValueCount is the number of values provided (0 when absent).
	ValueCount int `cbor:"3,keyasint,omitempty"`

	// DataSize is the field's required data size in bytes.
	DataSize int `cbor:"4,keyasint"`
}

// DiagnosticEvent captures a reported diagnostic.
type DiagnosticEvent struct {
	// Severity is the diagnostic severity name (ERROR, WARNING).
	Severity string `cbor:"1,keyasint"`

	// Kind is the diagnostic kind name.
	Kind string `cbor:"2,keyasint,omitempty"`

	// Context locates the offending source field.
	Context string `cbor:"3,keyasint,omitempty"`

	// Line is the source line, or 0 when unknown.
	Line int `cbor:"4,keyasint,omitempty"`

	// Message is the diagnostic text.
	Message string `cbor:"5,keyasint"`
}

// RecordEvent captures a completed resource record.
type RecordEvent struct {
	// Size is the assembled record size in bytes.
	Size int `cbor:"1,keyasint"`

	// Errors is the number of error diagnostics reported for the resource.
	Errors int `cbor:"2,keyasint,omitempty"`

	// Warnings is the number of warning diagnostics reported.
	Warnings int `cbor:"3,keyasint,omitempty"`
}
