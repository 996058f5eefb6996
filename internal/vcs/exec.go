package vcs

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/abiosoft/lineprefix"
	"github.com/pkg/errors"
)

// execVCS shells out to the git binary for every VCS method, the way
// lib/workspace.Workspace.RunGit and HexmosTech-LiveReview/cmd/lrc's
// runGitCommand do: one exec.Command per call, stderr passed through
// with a prefix so subprocess diagnostics stay attributable.
type execVCS struct {
	dir       string
	indexFile string // when set, GIT_INDEX_FILE is pinned to this path
	stderr    *os.File
}

// New returns a VCS backed by the git binary found on PATH, running
// inside dir.
func New(dir string) VCS {
	return &execVCS{dir: dir, stderr: os.Stderr}
}

// WithIndexFile returns a copy of v that redirects git's index to
// indexFile for every subsequent call, so the driver can build and
// commit fixups against a private index file without touching the
// user's staging area.
func WithIndexFile(v VCS, indexFile string) VCS {
	e := *v.(*execVCS)
	e.indexFile = indexFile
	return &e
}

func (e *execVCS) run(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = e.dir
	if e.indexFile != "" {
		cmd.Env = append(os.Environ(), "GIT_INDEX_FILE="+e.indexFile)
	}

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	prefix := lineprefix.PrefixFunc(func() string { return "git: " })
	cmd.Stderr = lineprefix.New(lineprefix.Writer(e.stderr), prefix)

	err := cmd.Run()
	if err != nil {
		return nil, errors.Wrapf(err, "git %s", strings.Join(args, " "))
	}
	return stdout.Bytes(), nil
}

func (e *execVCS) runStdin(ctx context.Context, stdin []byte, args ...string) error {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = e.dir
	if e.indexFile != "" {
		cmd.Env = append(os.Environ(), "GIT_INDEX_FILE="+e.indexFile)
	}
	cmd.Stdin = bytes.NewReader(stdin)

	prefix := lineprefix.PrefixFunc(func() string { return "git: " })
	cmd.Stderr = lineprefix.New(lineprefix.Writer(e.stderr), prefix)

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "git %s", strings.Join(args, " "))
	}
	return nil
}

func (e *execVCS) ResolveRevision(ctx context.Context, rev string) (string, error) {
	out, err := e.run(ctx, "rev-parse", "--verify", rev)
	if err != nil {
		return "", errors.Wrapf(err, "resolving revision %q", rev)
	}
	return strings.TrimSpace(string(out)), nil
}

func (e *execVCS) RepoRoot(ctx context.Context) (string, error) {
	out, err := e.run(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", errors.Wrap(err, "finding repository root")
	}
	return strings.TrimSpace(string(out)), nil
}

func (e *execVCS) TopicCommits(ctx context.Context, rev string) (map[string]string, error) {
	out, err := e.run(ctx, "log", "--no-merges", "--format=%H:%s", rev+"..HEAD")
	if err != nil {
		return nil, errors.Wrap(err, "enumerating topic commits")
	}

	result := make(map[string]string)
	for _, line := range strings.Split(string(out), "\n") {
		if line == "" {
			continue
		}
		sha, subject, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		result[sha] = subject
	}
	return result, nil
}

func (e *execVCS) StagedDiff(ctx context.Context, contextLines int) ([]byte, error) {
	out, err := e.run(ctx, "diff", "--staged", "--ignore-submodules",
		"--unified="+strconv.Itoa(contextLines), "HEAD")
	if err != nil {
		return nil, errors.Wrap(err, "reading staged diff")
	}
	return out, nil
}

func (e *execVCS) BlameRange(ctx context.Context, file string, start, count int) ([]byte, error) {
	rangeArg := strconv.Itoa(start) + ",+" + strconv.Itoa(count)
	out, err := e.run(ctx, "blame", "--porcelain", "-L", rangeArg, "HEAD", "--", file)
	if err != nil {
		return nil, errors.Wrapf(err, "blaming %s:%d,+%d", file, start, count)
	}
	return out, nil
}

func (e *execVCS) ApplyToIndex(ctx context.Context, patch []byte) error {
	err := e.runStdin(ctx, patch, "apply", "--cached", "--unidiff-zero", "--whitespace=nowarn")
	if err != nil {
		return errors.Wrap(err, "applying patch to index")
	}
	return nil
}

func (e *execVCS) ReadTreeInto(ctx context.Context, indexFile string) error {
	cmd := exec.CommandContext(ctx, "git", "read-tree", "HEAD")
	cmd.Dir = e.dir
	cmd.Env = append(os.Environ(), "GIT_INDEX_FILE="+indexFile)
	cmd.Stderr = e.stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrap(err, "reading HEAD tree into index")
	}
	return nil
}

func (e *execVCS) CommitFixup(ctx context.Context, target string) error {
	err := e.runStdin(ctx, nil, "commit", "--no-verify", "-m", "fixup! "+target)
	if err != nil {
		return errors.Wrapf(err, "creating fixup commit for %s", target)
	}
	return nil
}
