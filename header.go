package brstitch

import (
	"encoding/binary"
	"os"

	. "github.com/stevegt/goadapt"
)

const (
	// HeaderSize is the fixed length of the preamble at the front of
	// every section file.
	HeaderSize = 128
	// nameSize is the space reserved for the original file name; the
	// remaining 8 bytes hold the index and count fields.
	nameSize = HeaderSize - 8
)

// Header describes one section's place within its set.  Name is the
// original file name including extension, NUL-padded on disk.  Index
// and Count are little-endian uint32 values.  Count is written as
// zero while a split is in progress and back-patched into every
// section once the final count is known, so a zero count on read
// means an unfinished split.
type Header struct {
	Name  string
	Index uint32
	Count uint32
}

// Marshal renders the header as exactly HeaderSize bytes.
func (h *Header) Marshal() (buf []byte, err error) {
	name := []byte(h.Name)
	if len(name) > nameSize {
		return nil, &InvalidArgumentError{Reason: Spf("file name longer than %d bytes: %s", nameSize, h.Name)}
	}
	if h.Count > 0 && h.Index >= h.Count {
		return nil, &InvalidArgumentError{Reason: Spf("section index %d out of range for count %d", h.Index, h.Count)}
	}
	buf = make([]byte, HeaderSize)
	copy(buf, name)
	binary.LittleEndian.PutUint32(buf[nameSize:], h.Index)
	binary.LittleEndian.PutUint32(buf[nameSize+4:], h.Count)
	return
}

// UnmarshalHeader parses a HeaderSize-byte buffer.
func UnmarshalHeader(buf []byte) (h *Header, err error) {
	if len(buf) != HeaderSize {
		return nil, &BadSectionError{Reason: Spf("header must be %d bytes, got %d", HeaderSize, len(buf))}
	}
	h = &Header{}
	end := 0
	for end < nameSize && buf[end] != 0 {
		end++
	}
	h.Name = string(buf[:end])
	h.Index = binary.LittleEndian.Uint32(buf[nameSize:])
	h.Count = binary.LittleEndian.Uint32(buf[nameSize+4:])
	if h.Name == "" {
		return nil, &BadSectionError{Reason: "empty file name in header"}
	}
	if h.Count > 0 && h.Index >= h.Count {
		return nil, &BadSectionError{Reason: Spf("section index %d out of range for count %d", h.Index, h.Count)}
	}
	return
}

// UpdateCount back-patches the count field of the section file at
// path in place, leaving the rest of the file untouched.
func UpdateCount(path string, count uint32) (err error) {
	defer Return(&err)
	fh, err := os.OpenFile(path, os.O_WRONLY, 0)
	Ck(err)
	defer fh.Close()
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, count)
	n, err := fh.WriteAt(buf, HeaderSize-4)
	Ck(err)
	Assert(n == len(buf), "short write patching %s", path)
	return
}

// readHeader reads and parses the header of an open section file,
// leaving the read offset at the start of the payload.
func readHeader(fh *os.File) (h *Header, err error) {
	buf := make([]byte, HeaderSize)
	n, err := fh.ReadAt(buf, 0)
	if n != HeaderSize {
		return nil, &BadSectionError{Path: fh.Name(), Reason: "file shorter than header"}
	}
	h, err = UnmarshalHeader(buf)
	if err != nil {
		return nil, err
	}
	_, err = fh.Seek(HeaderSize, 0)
	return
}
