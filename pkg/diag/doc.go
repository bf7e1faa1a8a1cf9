// Package diag defines the structured diagnostics the assembler reports
// through.
//
// Validation failures are not Go errors: the engine reports them and keeps
// going, so a single pass surfaces every problem in a resource. Callers
// collect diagnostics with a Collector and decide afterwards whether the
// resource (or the whole batch) is rejected.
package diag
