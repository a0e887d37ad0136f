package brstitch

import (
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/renameio"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	. "github.com/stevegt/goadapt"
)

// Stitcher reassembles section sets into their original files.
type Stitcher struct {
	Dir  string    // output directory; "" means the current directory
	Keep bool      // keep the section files after stitching
	Ask  Asker     // overwrite policy; nil means always-yes
	Out  io.Writer // progress output; nil means quiet
}

// set tracks the sections found so far for one original file.
type set struct {
	count uint32
	names map[uint32]string // index -> section path
}

// Stitch scans the given paths (directories contribute the section
// files directly inside them), groups sections by the original file
// name in their headers, and reconstructs each complete set.  It
// returns the paths of the reconstructed files.  Output files are
// replaced atomically, so a failed stitch never leaves a partial
// reconstruction behind.
func (s Stitcher) Stitch(paths ...string) (outputs []string, err error) {
	ask := s.Ask
	if ask == nil {
		ask = YesAsker{}
	}

	candidates, err := s.expand(paths)
	if err != nil {
		return
	}
	if len(candidates) == 0 {
		return nil, &NotFoundError{Path: Spf("no %s files under %s", Ext, strings.Join(paths, ", "))}
	}

	sets, err := s.collect(candidates, ask)
	if err != nil {
		return
	}

	// deterministic order
	names := make([]string, 0, len(sets))
	for name := range sets {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		outpath, serr := s.stitchSet(name, sets[name], ask)
		if serr != nil {
			return outputs, serr
		}
		if outpath == "" {
			continue // declined overwrite; skip this set only
		}
		outputs = append(outputs, outpath)
	}
	return
}

// expand resolves the given paths to candidate section files: a
// directory contributes the .brs files directly inside it, a file
// contributes itself if it carries the extension.
func (s Stitcher) expand(paths []string) (candidates []string, err error) {
	for _, path := range paths {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		if err != nil {
			return nil, errors.Wrapf(err, "stat %s", path)
		}
		if info.IsDir() {
			entries, err := ioutil.ReadDir(path)
			if err != nil {
				return nil, errors.Wrapf(err, "reading directory %s", path)
			}
			for _, entry := range entries {
				if entry.IsDir() || !strings.HasSuffix(entry.Name(), Ext) {
					continue
				}
				candidates = append(candidates, filepath.Join(path, entry.Name()))
			}
			continue
		}
		if strings.HasSuffix(path, Ext) {
			candidates = append(candidates, path)
		}
	}
	return
}

// collect reads each candidate's header and groups the sections by
// original file name.  Malformed, unfinished, duplicate, or
// inconsistent sections consult the asker; declining surfaces the
// problem as an error.  Sets with missing indexes likewise consult
// the asker and are dropped when ignored.
func (s Stitcher) collect(candidates []string, ask Asker) (sets map[string]*set, err error) {
	sets = make(map[string]*set)
	for _, path := range candidates {
		h, herr := s.readSection(path)
		if herr != nil {
			if !ask.Ask(Spf("invalid section file %s, ignore?", esc(path))) {
				return nil, herr
			}
			continue
		}
		log.Debugf("section %s name %s index %d count %d", path, h.Name, h.Index, h.Count)
		st, ok := sets[h.Name]
		if !ok {
			sets[h.Name] = &set{count: h.Count, names: map[uint32]string{h.Index: path}}
			continue
		}
		var berr error
		switch {
		case st.count != h.Count:
			berr = &BadSectionError{Path: path, Reason: "inconsistent section count"}
		case st.names[h.Index] != "":
			berr = &BadSectionError{Path: path, Reason: Spf("duplicate of section %d", h.Index)}
		}
		if berr != nil {
			if !ask.Ask(Spf("invalid section file %s, ignore?", esc(path))) {
				return nil, berr
			}
			continue
		}
		st.names[h.Index] = path
	}

	// verify every set is complete
	for name, st := range sets {
		var missing []uint32
		for i := uint32(0); i < st.count; i++ {
			if _, ok := st.names[i]; !ok {
				missing = append(missing, i)
			}
		}
		if len(missing) == 0 {
			continue
		}
		if !ask.Ask(Spf("missing section files for %s, ignore?", esc(name))) {
			return nil, &IncompleteSetError{Name: name, Missing: missing}
		}
		delete(sets, name)
	}
	return
}

// readSection opens one candidate and validates its header.
func (s Stitcher) readSection(path string) (h *Header, err error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening section %s", path)
	}
	defer fh.Close()
	h, err = readHeader(fh)
	if err != nil {
		return
	}
	if h.Count == 0 {
		return nil, &BadSectionError{Path: path, Reason: "unfinished split"}
	}
	// the name becomes the output file name; never let it escape the
	// output directory
	if h.Name != filepath.Base(h.Name) {
		return nil, &BadSectionError{Path: path, Reason: Spf("header name is not a plain file name: %s", h.Name)}
	}
	return
}

// stitchSet reconstructs one original file from a complete set.  An
// empty outpath with a nil error means the user declined to
// overwrite an existing file and the set was skipped.
func (s Stitcher) stitchSet(name string, st *set, ask Asker) (outpath string, err error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	outpath = filepath.Join(dir, name)
	if exists(outpath) {
		if !ask.Ask(Spf("file %s already exists, overwrite?", esc(outpath))) {
			if s.Out != nil {
				Fpf(s.Out, "Skipping %s\n", esc(name))
			}
			return "", nil
		}
	}

	if s.Out != nil {
		Fpf(s.Out, "Stitching %s from:\n", esc(name))
	}

	t, err := renameio.TempFile("", outpath)
	if err != nil {
		return "", errors.Wrapf(err, "creating %s", outpath)
	}
	defer t.Cleanup()

	consumed := make([]string, 0, st.count)
	for i := uint32(0); i < st.count; i++ {
		path := st.names[i]
		if s.Out != nil {
			Fpf(s.Out, "  %s\n", esc(path))
		}
		err = copyPayload(t, path)
		if err != nil {
			return "", err
		}
		consumed = append(consumed, path)
	}

	err = t.CloseAtomicallyReplace()
	if err != nil {
		return "", errors.Wrapf(err, "writing %s", outpath)
	}
	log.Debugf("stitched %s from %d sections", outpath, st.count)

	if !s.Keep {
		err = removePaths(consumed)
		if err != nil {
			return "", errors.Wrapf(err, "removing sections of %s", name)
		}
	}
	return
}

// copyPayload streams one section's payload into w.
func copyPayload(w io.Writer, path string) (err error) {
	fh, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening section %s", path)
	}
	defer fh.Close()
	_, err = readHeader(fh)
	if err != nil {
		return
	}
	_, err = io.Copy(w, fh)
	if err != nil {
		return errors.Wrapf(err, "reading section %s", path)
	}
	return
}
