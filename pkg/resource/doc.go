// Package resource defines the raw, parsed representation of a declared
// resource: an identified, typed bundle of named fields, each carrying an
// ordered list of semantically typed literal values.
//
// Instances are built once by the front-end parser (or a manifest loader)
// and are read-only during assembly. The assembler never mutates them.
//
// The package also provides Registry, the per-run bookkeeping of assembled
// resources used by the build driver.
package resource
