package brstitch

import (
	"bytes"
	"strings"
	"testing"
)

func TestTermAskerYes(t *testing.T) {
	var out bytes.Buffer
	a := &TermAsker{In: strings.NewReader("y\n"), Out: &out}
	tassert(t, a.Ask("overwrite?"), "expected yes")
	tassert(t, strings.Contains(out.String(), "overwrite? (y/n/a): "), "prompt missing: %q", out.String())
}

func TestTermAskerNo(t *testing.T) {
	var out bytes.Buffer
	a := &TermAsker{In: strings.NewReader("n\n"), Out: &out}
	tassert(t, !a.Ask("overwrite?"), "expected no")
	tassert(t, strings.Contains(out.String(), "Canceled."), "cancel notice missing: %q", out.String())
}

func TestTermAskerAlways(t *testing.T) {
	var out bytes.Buffer
	// one "a" upgrades the session; no further input is available
	a := &TermAsker{In: strings.NewReader("a\n"), Out: &out}
	tassert(t, a.Ask("first?"), "expected yes")
	tassert(t, a.Ask("second?"), "expected always-yes")
	tassert(t, a.Ask("third?"), "expected always-yes")
}

func TestTermAskerBlankRepeats(t *testing.T) {
	var out bytes.Buffer
	a := &TermAsker{In: strings.NewReader("\n\ny\n"), Out: &out}
	tassert(t, a.Ask("overwrite?"), "expected yes after blank lines")
}

func TestTermAskerEOF(t *testing.T) {
	var out bytes.Buffer
	a := &TermAsker{In: strings.NewReader(""), Out: &out}
	tassert(t, !a.Ask("overwrite?"), "expected no on EOF")
}

func TestAskerDoubles(t *testing.T) {
	tassert(t, YesAsker{}.Ask("anything"), "YesAsker said no")
	tassert(t, !NoAsker{}.Ask("anything"), "NoAsker said yes")
}
