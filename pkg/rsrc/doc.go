// Package rsrc implements the growable binary buffer that assembled
// resource records are written into.
//
// Data is cursor-addressed: writes happen at the current insertion point,
// which callers position explicitly. All multi-byte values are big-endian,
// matching the resource-fork conventions the Kestrel engine consumes.
//
// The buffer only ever grows. PadToSize zero-extends it, so any byte range
// that is never written stays zero-filled; the assembler relies on this for
// omitted optional fields.
package rsrc
