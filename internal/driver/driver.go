// Package driver sequences the pipeline: resolve the upstream
// revision, gather staged hunks, attribute each to a topic commit, and
// emit fixup commits — all behind a private index file so the user's
// staging area is never disturbed.
package driver

import (
	"bytes"
	"context"
	"os"

	"github.com/pkg/errors"

	"github.com/pescuma/gitfixup/internal/alias"
	"github.com/pescuma/gitfixup/internal/attribution"
	"github.com/pescuma/gitfixup/internal/blame"
	"github.com/pescuma/gitfixup/internal/committer"
	"github.com/pescuma/gitfixup/internal/console"
	"github.com/pescuma/gitfixup/internal/diffparse"
	"github.com/pescuma/gitfixup/internal/progress"
	"github.com/pescuma/gitfixup/internal/reporter"
	"github.com/pescuma/gitfixup/internal/topicrange"
	"github.com/pescuma/gitfixup/internal/vcs"
)

// Config is the driver's configuration, built directly from the CLI
// flags.
type Config struct {
	Revision   string // the revision to diff against; defaults to "@{upstream}" in cmd/gitfixup
	Context    int
	Strictness int
	Verbosity  int
}

// Validate checks that context and strictness are non-negative, and
// that strictness above CONTEXT requires a non-zero context count.
func (c Config) Validate() error {
	if c.Context < 0 {
		return errors.New("context count must be >= 0")
	}
	if c.Strictness < 0 {
		return errors.New("strictness must be >= 0")
	}
	if c.Strictness > 0 && c.Context == 0 {
		return errors.New("strictness > 0 requires context > 0")
	}
	return nil
}

// Run executes the full pipeline against the git repository rooted at
// (or above) the process's current working directory.
func Run(ctx context.Context, c console.Console, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}

	wd, err := os.Getwd()
	if err != nil {
		return errors.Wrap(err, "getting working directory")
	}
	v := vcs.New(wd)

	// The CLI layer supplies "@{upstream}" when the user passes no
	// revision argument; Config.Revision is always populated by the
	// time it reaches here.
	resolved, err := v.ResolveRevision(ctx, cfg.Revision)
	if err != nil {
		return errors.Wrapf(err, "resolving revision %q", cfg.Revision)
	}

	root, err := v.RepoRoot(ctx)
	if err != nil {
		return errors.Wrap(err, "finding repository root")
	}
	if err := os.Chdir(root); err != nil {
		return errors.Wrapf(err, "changing directory to repository root %s", root)
	}
	v = vcs.New(root)

	rawDiff, err := v.StagedDiff(ctx, cfg.Context)
	if err != nil {
		return errors.Wrap(err, "reading staged diff")
	}
	hunks, err := diffparse.Parse(bytes.NewReader(rawDiff))
	if err != nil {
		return errors.Wrap(err, "parsing staged diff")
	}

	subjects, err := topicrange.Commits(ctx, v, resolved)
	if err != nil {
		return err
	}
	aliases, err := alias.Resolve(subjects)
	if err != nil {
		return errors.Wrap(err, "resolving fixup aliases")
	}

	rep := reporter.New(c, cfg.Verbosity)
	strictness := attribution.Strictness(cfg.Strictness)

	groups := committer.Groups{}
	bar := progress.New(len(hunks), "blaming hunks")
	for _, h := range hunks {
		b, err := blame.Fetch(ctx, v, aliases, h)
		if err != nil {
			return err
		}
		_ = bar.Add(1)

		rep.BlameTable(h, b)

		decision := attribution.Attribute(h, b, subjects, strictness)
		rep.Decision(h, decision)

		if !decision.Unassigned {
			groups[decision.Target] = append(groups[decision.Target], h)
		}
	}

	indexFile, err := os.CreateTemp("", "gitfixup-index-*")
	if err != nil {
		return errors.Wrap(err, "creating temporary index file")
	}
	indexPath := indexFile.Name()
	_ = indexFile.Close()
	defer os.Remove(indexPath)

	if err := v.ReadTreeInto(ctx, indexPath); err != nil {
		return err
	}
	v = vcs.WithIndexFile(v, indexPath)

	if err := committer.Commit(ctx, v, groups); err != nil {
		return err
	}

	return nil
}
