package resource

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/Thunderforge/kestrel-development-kit/pkg/rsrc"
)

// Container I/O for assembled records. The format is a sequence of
// records, each:
//
//	type tag   4 bytes, zero-padded
//	id         int64, big-endian
//	name       Pascal string
//	data size  uint32, big-endian
//	data       record bytes
//
// There is no index; readers scan sequentially.

// WriteContainer writes every registered record to w in registration
// order.
func WriteContainer(w io.Writer, reg *Registry) error {
	for _, entry := range reg.All() {
		d := rsrc.New()
		d.WriteCStr(entry.Resource.Type(), 4)
		d.WriteSignedQuad(entry.Resource.ID())
		d.WritePStr(entry.Resource.Name())
		d.WriteLong(uint32(len(entry.Data)))
		if _, err := w.Write(d.Bytes()); err != nil {
			return fmt.Errorf("write record header %s #%d: %w", entry.Resource.Type(), entry.Resource.ID(), err)
		}
		if _, err := w.Write(entry.Data); err != nil {
			return fmt.Errorf("write record data %s #%d: %w", entry.Resource.Type(), entry.Resource.ID(), err)
		}
	}
	return nil
}

// ReadContainer reads all records from w into a fresh registry.
func ReadContainer(r io.Reader) (*Registry, error) {
	reg := NewRegistry()
	for {
		var tag [4]byte
		if _, err := io.ReadFull(r, tag[:]); err != nil {
			if err == io.EOF {
				return reg, nil
			}
			return nil, fmt.Errorf("read record type: %w", err)
		}

		var id int64
		if err := binary.Read(r, binary.BigEndian, &id); err != nil {
			return nil, fmt.Errorf("read record id: %w", err)
		}

		name, err := readPStr(r)
		if err != nil {
			return nil, fmt.Errorf("read record name: %w", err)
		}

		var size uint32
		if err := binary.Read(r, binary.BigEndian, &size); err != nil {
			return nil, fmt.Errorf("read record size: %w", err)
		}
		data := make([]byte, size)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, fmt.Errorf("read record data: %w", err)
		}

		res := New(trimTag(tag), id, name)
		if err := reg.Add(res, data); err != nil {
			return nil, err
		}
	}
}

func readPStr(r io.Reader) (string, error) {
	var length [1]byte
	if _, err := io.ReadFull(r, length[:]); err != nil {
		return "", err
	}
	buf := make([]byte, length[0])
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

func trimTag(tag [4]byte) string {
	end := len(tag)
	for end > 0 && tag[end-1] == 0 {
		end--
	}
	return string(tag[:end])
}
