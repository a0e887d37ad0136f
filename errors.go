package brstitch

import (
	"fmt"
	"strings"
)

// NotFoundError means a source file, directory, or section set does
// not exist.
type NotFoundError struct {
	Path string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("not found: %s", e.Path)
}

// InvalidArgumentError means a caller-supplied value (size, path,
// name) is unusable.
type InvalidArgumentError struct {
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	return fmt.Sprintf("invalid argument: %s", e.Reason)
}

// IncompleteSetError means a section set has gaps in its index run.
type IncompleteSetError struct {
	Name    string
	Missing []uint32
}

func (e *IncompleteSetError) Error() string {
	idxs := make([]string, len(e.Missing))
	for i, n := range e.Missing {
		idxs[i] = fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("missing sections for %s: [%s]", e.Name, strings.Join(idxs, ", "))
}

// BadSectionError means a section file is malformed: truncated
// header, unfinished split, duplicate index, or a count disagreeing
// with the rest of its set.
type BadSectionError struct {
	Path   string
	Reason string
}

func (e *BadSectionError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("bad section file: %s", e.Reason)
	}
	return fmt.Sprintf("bad section file %s: %s", e.Path, e.Reason)
}

// AbortedError means the user declined an overwrite prompt; the
// operation on that one target was abandoned.
type AbortedError struct {
	Path string
}

func (e *AbortedError) Error() string {
	return fmt.Sprintf("aborted by user: %s", e.Path)
}
