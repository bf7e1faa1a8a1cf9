package rsrc

import "encoding/binary"

// Data is an expandable binary buffer with a movable insertion point.
// The zero value is an empty buffer with the cursor at offset 0.
//
// Data is not safe for concurrent use; each assembly owns its buffer
// exclusively.
type Data struct {
	buf    []byte
	cursor int
}

// New creates an empty Data buffer.
func New() *Data {
	return &Data{}
}

// Size returns the current buffer size in bytes.
func (d *Data) Size() int {
	return len(d.buf)
}

// Bytes returns the underlying buffer. The returned slice is shared with
// the Data; callers that keep it across further writes should copy it.
func (d *Data) Bytes() []byte {
	return d.buf
}

// InsertionPoint returns the current write cursor.
func (d *Data) InsertionPoint() int {
	return d.cursor
}

// SetInsertionPoint moves the write cursor to offset. Offsets beyond the
// current size are allowed; the buffer grows on the next write.
func (d *Data) SetInsertionPoint(offset int) {
	if offset < 0 {
		offset = 0
	}
	d.cursor = offset
}

// PadToSize zero-extends the buffer to at least n bytes. It never
// truncates, never alters existing bytes and leaves the cursor where
// it was.
func (d *Data) PadToSize(n int) {
	if n <= len(d.buf) {
		return
	}
	d.buf = append(d.buf, make([]byte, n-len(d.buf))...)
}

// write places b at the cursor, growing the buffer as needed, and
// advances the cursor past it.
func (d *Data) write(b []byte) {
	end := d.cursor + len(b)
	d.PadToSize(end)
	copy(d.buf[d.cursor:end], b)
	d.cursor = end
}

// WriteByte writes an unsigned 8-bit value at the cursor.
func (d *Data) WriteByte(v uint8) {
	d.write([]byte{v})
}

// WriteWord writes an unsigned 16-bit big-endian value at the cursor.
func (d *Data) WriteWord(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	d.write(b[:])
}

// WriteLong writes an unsigned 32-bit big-endian value at the cursor.
func (d *Data) WriteLong(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	d.write(b[:])
}

// WriteQuad writes an unsigned 64-bit big-endian value at the cursor.
func (d *Data) WriteQuad(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	d.write(b[:])
}

// WriteSignedByte writes a signed 8-bit value at the cursor.
func (d *Data) WriteSignedByte(v int8) {
	d.WriteByte(uint8(v))
}

// WriteSignedWord writes a signed 16-bit big-endian value at the cursor.
func (d *Data) WriteSignedWord(v int16) {
	d.WriteWord(uint16(v))
}

// WriteSignedLong writes a signed 32-bit big-endian value at the cursor.
func (d *Data) WriteSignedLong(v int32) {
	d.WriteLong(uint32(v))
}

// WriteSignedQuad writes a signed 64-bit big-endian value at the cursor.
func (d *Data) WriteSignedQuad(v int64) {
	d.WriteQuad(uint64(v))
}

// WriteCStr writes s as a fixed-width C string: truncated to width bytes
// and zero-padded up to width. The cursor advances by exactly width.
func (d *Data) WriteCStr(s string, width int) {
	if width <= 0 {
		return
	}
	b := make([]byte, width)
	copy(b, s)
	d.write(b)
}

// WritePStr writes s as a Pascal string: a 1-byte length followed by the
// string bytes. Strings longer than 255 bytes are truncated.
func (d *Data) WritePStr(s string) {
	if len(s) > 255 {
		s = s[:255]
	}
	d.WriteByte(uint8(len(s)))
	d.write([]byte(s))
}
