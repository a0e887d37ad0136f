package brstitch

import (
	"path/filepath"
	"strings"

	. "github.com/stevegt/goadapt"
)

// Ext is the extension shared by all section files.  The stitcher
// only considers files carrying it.
const Ext = ".brs"

// SectionBase derives the common file-name prefix for a source's
// sections: the source name without its extension, spaces mapped to
// underscores.  The full original name (including extension) travels
// in the section headers, not in the section file names.
func SectionBase(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.ReplaceAll(base, " ", "_")
}

// SectionName returns the file name for section index of the source
// called name.
func SectionName(name string, index uint32) string {
	return Spf("%s_%d%s", SectionBase(name), index, Ext)
}

// NestDir returns the name of the per-source directory used when
// nesting is enabled.
func NestDir(name string) string {
	return SectionBase(name) + "_sections"
}
