// Package committer turns grouped hunks into actual fixup commits,
// one per target: hunks are reassembled into a synthetic patch per
// file, applied to a private index, then committed with the
// "fixup!" subject convention.
package committer

import (
	"bytes"
	"context"
	"sort"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/pescuma/gitfixup/internal/diffparse"
	"github.com/pescuma/gitfixup/internal/vcs"
)

// Groups maps a target commit id to the ordered hunks attributed to
// it.
type Groups map[string][]diffparse.Hunk

// Commit applies each group's hunks to the index and creates its
// fixup commit. Group order is unspecified: each group becomes an
// independent commit that a later interactive rebase reorders.
func Commit(ctx context.Context, v vcs.VCS, groups Groups) error {
	for target, hunks := range groups {
		patch := buildPatch(hunks)

		if err := v.ApplyToIndex(ctx, patch); err != nil {
			return errors.Wrapf(err, "applying fixup hunks for target %s", target)
		}

		if err := v.CommitFixup(ctx, target); err != nil {
			return errors.Wrapf(err, "creating fixup commit for target %s", target)
		}
	}

	return nil
}

// buildPatch assembles one unified-diff stream covering every hunk,
// grouped by file so each file's "--- a/ +++ b/" pair is emitted once.
func buildPatch(hunks []diffparse.Hunk) []byte {
	var buf bytes.Buffer

	byFile := lo.GroupBy(hunks, func(h diffparse.Hunk) string { return h.File })

	files := lo.Keys(byFile)
	// Deterministic output makes the generated patch reproducible
	// across runs for the same attribution result.
	sort.Strings(files)

	for _, file := range files {
		buf.WriteString("--- a/" + file + "\n")
		buf.WriteString("+++ b/" + file + "\n")
		for _, h := range byFile[file] {
			buf.WriteString(h.String())
		}
	}

	return buf.Bytes()
}
