package brstitch

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	. "github.com/stevegt/goadapt"
)

// Splitter writes a source file out as numbered section files.  Each
// section holds exactly Size payload bytes except the last, which
// holds the remainder; a zero-byte source yields one section with an
// empty payload.
type Splitter struct {
	Dir     string    // output directory; "" means the current directory
	Size    int64     // maximum payload bytes per section
	Nest    bool      // place the sections in their own directory
	Replace bool      // delete the source after a successful split
	Ask     Asker     // overwrite policy; nil means always-yes
	Out     io.Writer // progress output; nil means quiet
}

// Split splits the file at path and returns the section paths in
// index order.  On any failure, including a declined overwrite, the
// sections already written for this source are removed.
func (s Splitter) Split(path string) (sections []string, err error) {
	if s.Size <= 0 {
		return nil, &InvalidArgumentError{Reason: Spf("section size must be positive, got %d", s.Size)}
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &NotFoundError{Path: path}
	}
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", path)
	}
	if info.IsDir() {
		return nil, &InvalidArgumentError{Reason: Spf("cannot split a directory: %s", path)}
	}

	filename := filepath.Base(path)
	header := &Header{Name: filename}
	// validate the name length before writing anything
	if _, err = header.Marshal(); err != nil {
		return nil, err
	}

	ask := s.Ask
	if ask == nil {
		ask = YesAsker{}
	}
	outdir := s.Dir
	if outdir == "" {
		outdir = "."
	}

	nested := false
	if s.Nest {
		nest := filepath.Join(outdir, NestDir(filename))
		if exists(nest) {
			if !ask.Ask(Spf("directory %s already exists, overwrite?", esc(nest))) {
				return nil, &AbortedError{Path: nest}
			}
			err = os.RemoveAll(nest)
			if err != nil {
				return nil, errors.Wrapf(err, "removing %s", nest)
			}
		}
		err = os.MkdirAll(nest, 0755)
		if err != nil {
			return nil, errors.Wrapf(err, "creating %s", nest)
		}
		outdir = nest
		nested = true
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer fh.Close()

	if s.Out != nil {
		Fpf(s.Out, "Splitting %s into:\n", esc(path))
	}

	// remove partial output on failure
	defer func() {
		if err != nil {
			removePaths(sections)
			if nested {
				os.Remove(outdir)
			}
			sections = nil
		}
	}()

	rd := bufio.NewReader(fh)
	for {
		name := filepath.Join(outdir, SectionName(filename, header.Index))
		var n int64
		n, err = s.writeSection(name, header, rd, ask)
		if err != nil {
			return
		}
		sections = append(sections, name)
		if s.Out != nil {
			Fpf(s.Out, "  %s\n", esc(name))
		}
		header.Index++
		if n < s.Size {
			break
		}
		// a full section; check whether any bytes remain
		_, err = rd.Peek(1)
		if err == io.EOF {
			err = nil
			break
		}
		if err != nil {
			err = errors.Wrapf(err, "reading %s", path)
			return
		}
	}

	// back-patch the section count now that we know it
	count := header.Index
	log.Debugf("split %s into %d sections", path, count)
	for _, name := range sections {
		err = UpdateCount(name, count)
		if err != nil {
			err = errors.Wrapf(err, "patching count into %s", name)
			return
		}
	}

	if s.Replace {
		// close before removing so this also works on Windows
		fh.Close()
		err = os.Remove(path)
		if err != nil {
			err = errors.Wrapf(err, "removing %s", path)
			return
		}
	}
	return
}

// writeSection writes one section file: header first, then up to
// s.Size payload bytes from rd.  The count field is written as zero
// and back-patched by Split once the final count is known.
func (s Splitter) writeSection(name string, h *Header, rd io.Reader, ask Asker) (n int64, err error) {
	if exists(name) {
		if !ask.Ask(Spf("file %s already exists, overwrite?", esc(name))) {
			return 0, &AbortedError{Path: name}
		}
	}
	buf, err := h.Marshal()
	if err != nil {
		return
	}
	fh, err := os.Create(name)
	if err != nil {
		return 0, errors.Wrapf(err, "creating section %s", name)
	}
	_, err = fh.Write(buf)
	if err == nil {
		n, err = io.CopyN(fh, rd, s.Size)
		if err == io.EOF {
			err = nil
		}
	}
	cerr := fh.Close()
	if err == nil {
		err = cerr
	}
	if err != nil {
		return n, errors.Wrapf(err, "writing section %s", name)
	}
	log.Debugf("section %s index %d payload %d", name, h.Index, n)
	return
}
