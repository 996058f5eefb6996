// Package vcs isolates the one impure collaborator in the engine:
// every interaction with the underlying git binary goes through this
// small capability interface, so the rest of the engine can be
// unit-tested against in-memory fakes.
package vcs

import "context"

// VCS is the capability surface the driver and its components need
// from the version-control tool. Every method corresponds to one git
// subprocess invocation.
type VCS interface {
	// ResolveRevision resolves rev (e.g. "@{upstream}") to a full
	// 40-hex commit id.
	ResolveRevision(ctx context.Context, rev string) (string, error)

	// RepoRoot returns the repository's top-level working directory.
	RepoRoot(ctx context.Context) (string, error)

	// TopicCommits lists non-merge commits reachable from HEAD but
	// not from rev, as sha -> subject.
	TopicCommits(ctx context.Context, rev string) (map[string]string, error)

	// StagedDiff returns the unified diff of the index against HEAD,
	// ignoring submodules, with the given context line count.
	StagedDiff(ctx context.Context, contextLines int) ([]byte, error)

	// BlameRange returns porcelain-format blame of HEAD for file,
	// limited to the pre-image line range [start, start+count).
	BlameRange(ctx context.Context, file string, start, count int) ([]byte, error)

	// ApplyToIndex applies patch to the index only, tolerating
	// zero-context hunks.
	ApplyToIndex(ctx context.Context, patch []byte) error

	// ReadTreeInto reads HEAD's tree into the index file at
	// indexFile, without touching the working tree.
	ReadTreeInto(ctx context.Context, indexFile string) error

	// CommitFixup creates a commit against the currently staged index
	// whose message is "fixup! <target>".
	CommitFixup(ctx context.Context, target string) error
}
