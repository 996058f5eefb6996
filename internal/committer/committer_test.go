package committer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pescuma/gitfixup/internal/diffparse"
)

type recordingVCS struct {
	applied      [][]byte
	commitTargets []string
	applyErr     error
	commitErr    error
}

func (r *recordingVCS) ResolveRevision(ctx context.Context, rev string) (string, error) { return "", nil }
func (r *recordingVCS) RepoRoot(ctx context.Context) (string, error)                    { return "", nil }
func (r *recordingVCS) TopicCommits(ctx context.Context, rev string) (map[string]string, error) {
	return nil, nil
}
func (r *recordingVCS) StagedDiff(ctx context.Context, contextLines int) ([]byte, error) {
	return nil, nil
}
func (r *recordingVCS) BlameRange(ctx context.Context, file string, start, count int) ([]byte, error) {
	return nil, nil
}
func (r *recordingVCS) ApplyToIndex(ctx context.Context, patch []byte) error {
	r.applied = append(r.applied, patch)
	return r.applyErr
}
func (r *recordingVCS) ReadTreeInto(ctx context.Context, indexFile string) error { return nil }
func (r *recordingVCS) CommitFixup(ctx context.Context, target string) error {
	r.commitTargets = append(r.commitTargets, target)
	return r.commitErr
}

func TestCommit_AppliesAndCommitsEachGroup(t *testing.T) {
	h := diffparse.Hunk{File: "f.txt", Start: 1, Count: 1, Header: "@@ -1 +1,2 @@", Lines: []string{" a\n", "+b\n"}}
	groups := Groups{"target1": {h}}
	v := &recordingVCS{}

	err := Commit(context.Background(), v, groups)
	require.NoError(t, err)
	require.Len(t, v.applied, 1)
	assert.Contains(t, string(v.applied[0]), "--- a/f.txt\n")
	assert.Contains(t, string(v.applied[0]), "+++ b/f.txt\n")
	assert.Contains(t, string(v.applied[0]), "@@ -1 +1,2 @@\n a\n+b\n")
	assert.Equal(t, []string{"target1"}, v.commitTargets)
}

func TestCommit_GroupsMultipleHunksPerFile(t *testing.T) {
	h1 := diffparse.Hunk{File: "f.txt", Start: 1, Count: 1, Header: "@@ -1 +1 @@", Lines: []string{"-a\n"}}
	h2 := diffparse.Hunk{File: "f.txt", Start: 5, Count: 1, Header: "@@ -5 +5 @@", Lines: []string{"-e\n"}}
	groups := Groups{"target1": {h1, h2}}
	v := &recordingVCS{}

	err := Commit(context.Background(), v, groups)
	require.NoError(t, err)
	patch := string(v.applied[0])
	assert.Equal(t, 1, countOccurrences(patch, "--- a/f.txt\n"))
}

func countOccurrences(haystack, needle string) int {
	count := 0
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			count++
			i += len(needle) - 1
		}
	}
	return count
}

func TestCommit_StopsAtFirstApplyError(t *testing.T) {
	h := diffparse.Hunk{File: "f.txt", Start: 1, Count: 1, Header: "@@ -1 +1 @@", Lines: []string{"-a\n"}}
	groups := Groups{"target1": {h}}
	v := &recordingVCS{applyErr: assertError{}}

	err := Commit(context.Background(), v, groups)
	require.Error(t, err)
	assert.Empty(t, v.commitTargets)
}

type assertError struct{}

func (assertError) Error() string { return "boom" }
