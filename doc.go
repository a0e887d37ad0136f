/*

Brstitch splits files into numbered section files and stitches them
back together, byte-for-byte.

Vocabulary:

- source: the original file being split
- section: one numbered output file holding a contiguous slice of the
	source's bytes, prefixed by a fixed-size header
- header: 128-byte preamble on every section; carries the original
	file name, the section's index, and the section count
- base: the source file name without its extension, spaces mapped to
	underscores; the common prefix of all section file names
- index: zero-based position of a section within its set
- set: all sections sharing one header name; indexes run 0..count-1
	with no gaps, and concatenating the payloads in index order
	reproduces the source exactly
- nest: optional per-source directory holding that source's sections
- asker: the overwrite policy consulted before any destructive write

*/

package brstitch
