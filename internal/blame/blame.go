// Package blame fetches line-by-line authorship for a hunk's
// pre-image range from `git blame --porcelain` output, rewriting
// authorship through the alias map.
//
// Authorship is read as raw 40-hex shas straight off the porcelain
// stream rather than through a parsed object model, keeping the
// dependency on the `git` subprocess rather than any library's commit
// graph.
package blame

import (
	"bufio"
	"bytes"
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/pescuma/gitfixup/internal/alias"
	"github.com/pescuma/gitfixup/internal/diffparse"
	"github.com/pescuma/gitfixup/internal/vcs"
)

// Line is one pre-image line's authorship: the (alias-rewritten)
// commit that last touched it, and its text with the porcelain tab
// stripped.
type Line struct {
	SHA  string
	Text string
}

// Blame maps pre-image line number to Line, covering exactly
// [start, start+count) of one hunk.
type Blame map[int]Line

// Fetch obtains the Blame for h's pre-image range. A zero-count hunk
// (pure insertion, covering no pre-image lines) yields an empty Blame without
// a subprocess call.
func Fetch(ctx context.Context, v vcs.VCS, aliases alias.Map, h diffparse.Hunk) (Blame, error) {
	if h.Count == 0 {
		return Blame{}, nil
	}

	raw, err := v.BlameRange(ctx, h.File, h.Start, h.Count)
	if err != nil {
		return nil, errors.Wrapf(err, "fetching blame for %s:%d,+%d", h.File, h.Start, h.Count)
	}

	b, err := parse(raw, aliases)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing blame for %s:%d,+%d", h.File, h.Start, h.Count)
	}
	return b, nil
}

// parse reads one `git blame --porcelain` stream. Each line is either
// a header ("<sha> <origLine> <finalLine> [<grp>]"), an ancillary
// metadata header (emitted only the first time a commit is seen, and
// ignored here), or a tab-prefixed content line that closes out the
// most recently seen header.
func parse(raw []byte, aliases alias.Map) (Blame, error) {
	result := make(Blame)

	scanner := bufio.NewScanner(bytes.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 64*1024), 10*1024*1024)

	var curSHA string
	var curFinalLine int
	pending := false

	for scanner.Scan() {
		line := scanner.Text()

		if sha, finalLine, ok := parseHeader(line); ok {
			curSHA = aliases.Canonical(sha)
			curFinalLine = finalLine
			pending = true
			continue
		}

		if rest, ok := strings.CutPrefix(line, "\t"); ok {
			if pending {
				result[curFinalLine] = Line{SHA: curSHA, Text: rest}
				pending = false
			}
			continue
		}

		// ancillary commit metadata (author, committer, summary, ...): ignored
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading blame stream")
	}

	return result, nil
}

func parseHeader(line string) (sha string, finalLine int, ok bool) {
	if len(line) <= 40 || line[40] != ' ' || !isHex40(line[:40]) {
		return "", 0, false
	}

	fields := strings.Fields(line)
	if len(fields) < 3 {
		return "", 0, false
	}

	finalLine, err := strconv.Atoi(fields[2])
	if err != nil {
		return "", 0, false
	}

	return fields[0], finalLine, true
}

func isHex40(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}
