// Package reporter formats the attribution engine's decisions and
// per-hunk blame tables for verbose output.
//
// The driver passes an explicit verbosity level rather than reaching
// for a package-global, so a Reporter is safe to construct more than
// once in the same process (tests included).
package reporter

import (
	"fmt"
	"strings"

	"github.com/pescuma/gitfixup/internal/attribution"
	"github.com/pescuma/gitfixup/internal/blame"
	"github.com/pescuma/gitfixup/internal/console"
	"github.com/pescuma/gitfixup/internal/diffparse"
)

// Reporter formats decisions and blame tables for one verbosity
// level. Verbosity 0 makes every method a no-op.
type Reporter struct {
	c         console.Console
	Verbosity int
}

func New(c console.Console, verbosity int) *Reporter {
	return &Reporter{c: c, Verbosity: verbosity}
}

// Decision reports a hunk's attribution outcome at verbosity >= 1.
func (r *Reporter) Decision(h diffparse.Hunk, d attribution.Decision) {
	if r.Verbosity < 1 {
		return
	}

	if d.Unassigned {
		r.c.Printf("%s:%d skipped (%s)\n", h.File, h.Start, d.Reason)
	} else {
		r.c.Printf("%s:%d -> fixup! %s\n", h.File, h.Start, d.Target)
	}
}

// BlameTable reports, at verbosity >= 2, one row per body line: its
// pre-image blame sha and HEAD text alongside the staged text the
// hunk itself carries for that line.
func (r *Reporter) BlameTable(h diffparse.Hunk, b blame.Blame) {
	if r.Verbosity < 2 {
		return
	}

	idx := attribution.BuildIndex(h)
	for i, line := range h.Lines {
		if len(line) == 0 || line[0] == '\\' {
			continue
		}

		bi := idx[i]
		var sha, headText string
		if l, ok := b[bi]; ok {
			sha = l.SHA
			headText = l.Text
		}

		workText := strings.TrimRight(line[1:], "\n")

		r.c.Printf("%s\n", formatRow(sha, bi, headText, workText))
	}
}

func formatRow(sha string, lineNum int, headText, workText string) string {
	col := func(s string, width int) string {
		s = strings.ReplaceAll(s, "\t", "^I")
		if len(s) > width {
			s = s[:width]
		}
		return fmt.Sprintf("%-*s", width, s)
	}

	row := col(sha, 8) + col(fmt.Sprintf("%d", lineNum), 4) + col(headText, 30) + col(workText, 30)
	return strings.TrimRight(row, " ")
}
