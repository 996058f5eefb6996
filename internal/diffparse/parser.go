// Package diffparse turns the byte stream produced by `git diff` (with
// an explicit context count) into a sequence of Hunk records.
//
// The state machine walks the diff line by line rather than
// regex-matching whole hunks, since a hunk's terminating line may
// itself be the start of the next hunk or file and must be
// re-examined rather than consumed.
package diffparse

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Parse reads a unified diff from r and returns the hunks whose
// pre-image and post-image paths agree (creations, deletions and
// renames are silently discarded). Unrecognized lines are tolerated:
// the diff generator is trusted.
func Parse(r io.Reader) ([]Hunk, error) {
	lr := newLineReader(r)

	var hunks []Hunk
	var preFile, postFile string

	for {
		line, ok := lr.peek()
		if !ok {
			return hunks, nil
		}

		switch {
		case strings.HasPrefix(line, "--- "):
			preFile = stripPrefix(strings.TrimRight(line, "\n"), "--- ")
			lr.consume()

		case strings.HasPrefix(line, "+++ "):
			postFile = stripPrefix(strings.TrimRight(line, "\n"), "+++ ")
			lr.consume()

		case strings.HasPrefix(line, "@@ "):
			h, err := parseHunkHeader(line)
			if err != nil {
				return nil, errors.Wrap(err, "parsing hunk header")
			}
			lr.consume()

			body, err := readBody(lr, h.Count)
			if err != nil {
				return nil, errors.Wrap(err, "reading hunk body")
			}
			h.Lines = body

			if preFile == postFile {
				h.File = preFile
				hunks = append(hunks, h)
			}

		default:
			lr.consume()
		}
	}
}

// readBody reads body lines until a line is reached whose first byte
// is not one of ' ', '+', '-', '\\', or end of stream. Once preCount
// pre-image (' ' or '-') lines have been read, a further ' ' or '-'
// line also ends the body, since it cannot belong to this hunk (it is
// typically the next file's "--- " header). That terminating line is
// left unconsumed for the caller's next peek.
func readBody(lr *lineReader, preCount int) ([]string, error) {
	var lines []string
	remaining := preCount
	for {
		line, ok := lr.peek()
		if !ok {
			return lines, nil
		}
		if len(line) == 0 {
			lr.consume()
			continue
		}
		switch line[0] {
		case ' ', '-':
			if remaining == 0 {
				return lines, nil
			}
			remaining--
			lines = append(lines, line)
			lr.consume()
		case '+', '\\':
			lines = append(lines, line)
			lr.consume()
		default:
			return lines, nil
		}
	}
}

// parseHunkHeader parses "@@ -S[,C] +T[,D] @@..." into a Hunk with
// Start/Count/Header populated; Count defaults to 1 when omitted.
func parseHunkHeader(line string) (Hunk, error) {
	header := strings.TrimRight(line, "\n")

	rest := strings.TrimPrefix(header, "@@ ")
	end := strings.Index(rest, " @@")
	if end < 0 {
		return Hunk{}, errors.Errorf("malformed hunk header: %q", header)
	}
	coords := rest[:end]

	fields := strings.Fields(coords)
	if len(fields) < 1 || !strings.HasPrefix(fields[0], "-") {
		return Hunk{}, errors.Errorf("malformed hunk header: %q", header)
	}

	start, count, err := parseCoord(fields[0][1:])
	if err != nil {
		return Hunk{}, errors.Wrapf(err, "parsing pre-image coordinates of %q", header)
	}

	return Hunk{
		Start:  start,
		Count:  count,
		Header: header,
	}, nil
}

func parseCoord(coord string) (start, count int, err error) {
	parts := strings.SplitN(coord, ",", 2)

	start, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}

	count = 1
	if len(parts) == 2 {
		count, err = strconv.Atoi(parts[1])
		if err != nil {
			return 0, 0, err
		}
	}

	return start, count, nil
}

func stripPrefix(path string, marker string) string {
	path = strings.TrimPrefix(path, marker)
	// tab-separated timestamp suffix, as git sometimes emits
	if i := strings.IndexByte(path, '\t'); i >= 0 {
		path = path[:i]
	}
	switch {
	case strings.HasPrefix(path, "a/"):
		path = path[2:]
	case strings.HasPrefix(path, "b/"):
		path = path[2:]
	}
	return path
}

// lineReader is a one-line-lookahead reader over raw (newline
// preserved) lines, needed because the diff grammar sometimes
// requires re-examining the line that terminated a hunk body.
type lineReader struct {
	r       *bufio.Reader
	pending string
	has     bool
	done    bool
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{r: bufio.NewReader(r)}
}

func (lr *lineReader) peek() (string, bool) {
	if lr.has {
		return lr.pending, true
	}
	if lr.done {
		return "", false
	}
	line, err := lr.r.ReadString('\n')
	if len(line) == 0 && err != nil {
		lr.done = true
		return "", false
	}
	lr.pending = line
	lr.has = true
	if err == io.EOF {
		// this was the stream's last (newline-less) line
		lr.done = true
	}
	return lr.pending, true
}

func (lr *lineReader) consume() {
	lr.has = false
}
