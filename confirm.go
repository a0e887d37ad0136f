package brstitch

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Asker is the overwrite policy consulted before any destructive
// write.  Implementations return true to proceed.
type Asker interface {
	Ask(query string) bool
}

// TermAsker prompts interactively with a y/n/a question.  Answering
// "a" upgrades the rest of the session to always-yes.
type TermAsker struct {
	In        io.Reader
	Out       io.Writer
	alwaysYes bool
	rd        *bufio.Reader
}

func (a *TermAsker) Ask(query string) bool {
	if a.alwaysYes {
		return true
	}
	if a.rd == nil {
		a.rd = bufio.NewReader(a.In)
	}
	for {
		fmt.Fprintf(a.Out, "%s (y/n/a): ", query)
		line, err := a.rd.ReadString('\n')
		if err != nil && line == "" {
			return false
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			continue
		case "y":
			return true
		case "a":
			a.alwaysYes = true
			return true
		}
		fmt.Fprintln(a.Out, "Canceled.")
		return false
	}
}

// YesAsker answers yes to everything; used for the --yes flag and as
// a test double.
type YesAsker struct{}

func (YesAsker) Ask(string) bool { return true }

// NoAsker answers no to everything.
type NoAsker struct{}

func (NoAsker) Ask(string) bool { return false }

// esc quotes a path for user-facing messages.
func esc(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
