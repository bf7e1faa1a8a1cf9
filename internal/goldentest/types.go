package goldentest

import "fmt"

// Case is one declarative assembly test case: a schema table, a resource
// manifest, and the expected outcome.
type Case struct {
	// ID uniquely identifies the case, e.g. "ASM-INT-001".
	ID string `yaml:"id"`

	// Description says what the case verifies.
	Description string `yaml:"description"`

	// Table is an inline YAML schema table.
	Table string `yaml:"table"`

	// Manifest is an inline YAML resource manifest.
	Manifest string `yaml:"manifest"`

	// Expect lists the expected assembled records.
	Expect []ExpectedRecord `yaml:"expect"`

	// Diagnostics lists diagnostics the run must produce. Cases with an
	// empty list must assemble clean.
	Diagnostics []ExpectedDiagnostic `yaml:"diagnostics"`
}

// ExpectedRecord is the expected binary image of one assembled resource.
type ExpectedRecord struct {
	Type string `yaml:"type"`
	ID   int64  `yaml:"id"`

	// Hex is the record bytes as whitespace-separated hex octets.
	Hex string `yaml:"hex"`
}

// ExpectedDiagnostic matches one reported diagnostic.
type ExpectedDiagnostic struct {
	// Severity is "error" or "warning".
	Severity string `yaml:"severity"`

	// Contains is a substring of the diagnostic message.
	Contains string `yaml:"contains"`
}

// LoadError reports a case file that could not be loaded.
type LoadError struct {
	File    string
	Message string
	Cause   error
}

func (e *LoadError) Error() string {
	msg := e.Message
	if e.File != "" {
		msg = fmt.Sprintf("%s: %s", e.File, msg)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Cause
}
