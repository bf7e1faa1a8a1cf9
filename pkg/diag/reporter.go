package diag

// Reporter receives diagnostics from the assembler. Implementations must
// not panic; reporting is a pure side effect and never unwinds assembly.
type Reporter interface {
	// Report records a structured diagnostic.
	Report(d Diagnostic)

	// Error reports an unclassified error diagnostic.
	Error(context string, line int, message string)

	// Warning reports an unclassified warning diagnostic.
	Warning(context string, line int, message string)
}

// Collector accumulates diagnostics for one compilation run. The zero
// value is ready to use. Collector is not safe for concurrent use; each
// in-flight assembly reports to its own collector (or a locked wrapper).
type Collector struct {
	diags []Diagnostic
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Report records d.
func (c *Collector) Report(d Diagnostic) {
	c.diags = append(c.diags, d)
}

// Error records an error diagnostic with no specific kind.
func (c *Collector) Error(context string, line int, message string) {
	c.Report(Diagnostic{
		Severity: SeverityError,
		Context:  context,
		Line:     line,
		Message:  message,
	})
}

// Warning records a warning diagnostic with no specific kind.
func (c *Collector) Warning(context string, line int, message string) {
	c.Report(Diagnostic{
		Severity: SeverityWarning,
		Context:  context,
		Line:     line,
		Message:  message,
	})
}

// Diagnostics returns everything reported so far, in report order.
func (c *Collector) Diagnostics() []Diagnostic {
	return c.diags
}

// Errors returns only the error-severity diagnostics.
func (c *Collector) Errors() []Diagnostic {
	var out []Diagnostic
	for _, d := range c.diags {
		if d.Severity == SeverityError {
			out = append(out, d)
		}
	}
	return out
}

// Warnings returns only the warning-severity diagnostics.
func (c *Collector) Warnings() []Diagnostic {
	var out []Diagnostic
	for _, d := range c.diags {
		if d.Severity == SeverityWarning {
			out = append(out, d)
		}
	}
	return out
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (c *Collector) HasErrors() bool {
	for _, d := range c.diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Compile-time interface satisfaction check.
var _ Reporter = (*Collector)(nil)
