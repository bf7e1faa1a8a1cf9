// Package assembler turns a parsed resource and its field schemas into a
// fixed-layout binary record.
//
// An Assembler owns one rsrc.Data buffer for the resource being assembled.
// Fields are processed in schema declaration order, not resource order;
// every positioned write seeks to the slot's absolute offset first, and the
// buffer is padded ahead of each field so later fields never corrupt
// earlier data.
//
// Validation failures (missing required fields, arity or type mismatches,
// unrecognized symbols) are reported through the diag.Reporter and do not
// stop assembly: the affected slots fall back to their defaults or to the
// zero fill from padding, so the emitted record is always well formed at
// full size. Callers inspect the collector afterwards to decide whether
// the resource is usable. The one fatal condition is an illegal encoding
// width, which is a schema-authoring defect and aborts with ErrIllegalWidth.
package assembler
