package reporter

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pescuma/gitfixup/internal/attribution"
	"github.com/pescuma/gitfixup/internal/blame"
	"github.com/pescuma/gitfixup/internal/console"
	"github.com/pescuma/gitfixup/internal/diffparse"
)

func TestDecision_SuppressedBelowVerbosity1(t *testing.T) {
	var buf bytes.Buffer
	r := New(console.New(&buf), 0)
	r.Decision(diffparse.Hunk{File: "f.txt", Start: 1}, attribution.Decision{Target: "abc"})
	assert.Empty(t, buf.String())
}

func TestDecision_PrintsAssignment(t *testing.T) {
	var buf bytes.Buffer
	r := New(console.New(&buf), 1)
	r.Decision(diffparse.Hunk{File: "f.txt", Start: 3}, attribution.Decision{Target: "abc123"})
	assert.Contains(t, buf.String(), "f.txt:3 -> fixup! abc123")
}

func TestDecision_PrintsSkipReason(t *testing.T) {
	var buf bytes.Buffer
	r := New(console.New(&buf), 1)
	r.Decision(diffparse.Hunk{File: "f.txt", Start: 3}, attribution.Decision{Unassigned: true, Reason: "no targets"})
	assert.Contains(t, buf.String(), "f.txt:3 skipped (no targets)")
}

func TestBlameTable_SuppressedBelowVerbosity2(t *testing.T) {
	var buf bytes.Buffer
	r := New(console.New(&buf), 1)
	r.BlameTable(diffparse.Hunk{Start: 1, Lines: []string{" a\n"}}, blame.Blame{1: {SHA: "sha1", Text: "a"}})
	assert.Empty(t, buf.String())
}

func TestBlameTable_StripsTrailingWhitespaceAndTabs(t *testing.T) {
	var buf bytes.Buffer
	r := New(console.New(&buf), 2)
	h := diffparse.Hunk{Start: 1, Lines: []string{" a\tb\n"}}
	r.BlameTable(h, blame.Blame{1: {SHA: "deadbeef", Text: "a\tb"}})

	out := buf.String()
	assert.True(t, strings.Contains(out, "deadbeef"))
	assert.True(t, strings.Contains(out, "a^Ib"))
	assert.False(t, strings.HasSuffix(strings.TrimRight(out, "\n"), " "))
}
