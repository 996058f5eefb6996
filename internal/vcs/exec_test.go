package vcs

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initRepo creates a throwaway git repository with one commit on
// "main" and a second commit "topic" ahead of it, returning the repo
// directory and the sha of the base commit.
func initRepo(t *testing.T) (dir string, base string) {
	t.Helper()
	dir = t.TempDir()

	run := func(args ...string) string {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@example.com",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@example.com")
		out, err := cmd.CombinedOutput()
		require.NoErrorf(t, err, "git %v: %s", args, out)
		return strings.TrimSpace(string(out))
	}

	run("init", "-q", "-b", "main")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("line1\nline2\nline3\n"), 0o644))
	run("add", ".")
	run("commit", "-q", "-m", "base")
	base = run("rev-parse", "HEAD")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.txt"), []byte("line1\nCHANGED\nline3\n"), 0o644))
	run("commit", "-q", "-am", "topic: change line2")

	return dir, base
}

func TestExecVCS_ResolveAndRoot(t *testing.T) {
	dir, _ := initRepo(t)
	v := New(dir)
	ctx := context.Background()

	sha, err := v.ResolveRevision(ctx, "HEAD")
	require.NoError(t, err)
	assert.Len(t, sha, 40)

	root, err := v.RepoRoot(ctx)
	require.NoError(t, err)
	realDir, _ := filepath.EvalSymlinks(dir)
	realRoot, _ := filepath.EvalSymlinks(root)
	assert.Equal(t, realDir, realRoot)
}

func TestExecVCS_TopicCommits(t *testing.T) {
	dir, base := initRepo(t)
	v := New(dir)
	ctx := context.Background()

	subjects, err := v.TopicCommits(ctx, base)
	require.NoError(t, err)
	assert.Len(t, subjects, 1)
	for _, s := range subjects {
		assert.Equal(t, "topic: change line2", s)
	}
}

func TestExecVCS_BlameRange(t *testing.T) {
	dir, _ := initRepo(t)
	v := New(dir)
	ctx := context.Background()

	out, err := v.BlameRange(ctx, "file.txt", 1, 3)
	require.NoError(t, err)
	assert.Contains(t, string(out), "line1")
	assert.Contains(t, string(out), "\tCHANGED")
}
