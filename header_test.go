package brstitch

import (
	"io/ioutil"
	"os"
	"strings"
	"testing"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := &Header{Name: "report final.pdf", Index: 2, Count: 7}
	buf, err := h.Marshal()
	tassert(t, err == nil, "Marshal: %v", err)
	tassert(t, len(buf) == HeaderSize, "expected %d bytes, got %d", HeaderSize, len(buf))

	got, err := UnmarshalHeader(buf)
	tassert(t, err == nil, "UnmarshalHeader: %v", err)
	tassert(t, got.Name == h.Name, "name: expected %q got %q", h.Name, got.Name)
	tassert(t, got.Index == h.Index, "index: expected %d got %d", h.Index, got.Index)
	tassert(t, got.Count == h.Count, "count: expected %d got %d", h.Count, got.Count)
}

func TestHeaderNameTooLong(t *testing.T) {
	h := &Header{Name: strings.Repeat("x", nameSize+1)}
	_, err := h.Marshal()
	if _, ok := err.(*InvalidArgumentError); !ok {
		t.Fatalf("expected InvalidArgumentError, got %v", err)
	}

	// exactly nameSize bytes is still fine
	h = &Header{Name: strings.Repeat("x", nameSize)}
	buf, err := h.Marshal()
	tassert(t, err == nil, "Marshal: %v", err)
	got, err := UnmarshalHeader(buf)
	tassert(t, err == nil, "UnmarshalHeader: %v", err)
	tassert(t, got.Name == h.Name, "full-width name mangled")
}

func TestHeaderBadIndex(t *testing.T) {
	h := &Header{Name: "a.bin", Index: 3, Count: 3}
	_, err := h.Marshal()
	if _, ok := err.(*InvalidArgumentError); !ok {
		t.Fatalf("expected InvalidArgumentError, got %v", err)
	}

	// count 0 means in-progress, any index allowed
	h = &Header{Name: "a.bin", Index: 3, Count: 0}
	_, err = h.Marshal()
	tassert(t, err == nil, "Marshal: %v", err)
}

func TestUnmarshalHeaderBad(t *testing.T) {
	_, err := UnmarshalHeader(make([]byte, HeaderSize-1))
	if _, ok := err.(*BadSectionError); !ok {
		t.Fatalf("expected BadSectionError, got %v", err)
	}

	// empty name
	_, err = UnmarshalHeader(make([]byte, HeaderSize))
	if _, ok := err.(*BadSectionError); !ok {
		t.Fatalf("expected BadSectionError, got %v", err)
	}
}

func TestUpdateCount(t *testing.T) {
	dir := setup(t)

	h := &Header{Name: "a.bin", Index: 1, Count: 0}
	hbuf, err := h.Marshal()
	tassert(t, err == nil, "Marshal: %v", err)
	payload := []byte("some payload")
	path := dir + "/a_1" + Ext
	err = ioutil.WriteFile(path, append(hbuf, payload...), 0644)
	tassert(t, err == nil, "WriteFile: %v", err)

	err = UpdateCount(path, 5)
	tassert(t, err == nil, "UpdateCount: %v", err)

	fh, err := os.Open(path)
	tassert(t, err == nil, "Open: %v", err)
	defer fh.Close()
	got, err := readHeader(fh)
	tassert(t, err == nil, "readHeader: %v", err)
	tassert(t, got.Count == 5, "count: expected 5 got %d", got.Count)
	tassert(t, got.Index == 1, "index clobbered: %d", got.Index)

	// payload untouched, and the read offset sits right at it
	rest, err := ioutil.ReadAll(fh)
	tassert(t, err == nil, "ReadAll: %v", err)
	tassert(t, string(rest) == string(payload), "payload: expected %q got %q", payload, rest)
}
