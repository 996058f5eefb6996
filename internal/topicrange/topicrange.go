// Package topicrange enumerates the non-merge commits reachable from
// HEAD but not from an upstream revision, as a sha -> subject mapping.
package topicrange

import (
	"context"

	"github.com/pkg/errors"

	"github.com/pescuma/gitfixup/internal/vcs"
)

// CommitSubjects maps a full 40-hex commit id to its subject line. A
// sha is "topic" iff it is a key of this map.
type CommitSubjects map[string]string

// Commits enumerates the topic range rev..HEAD via the VCS
// capability. Enumeration order carries no meaning.
func Commits(ctx context.Context, v vcs.VCS, rev string) (CommitSubjects, error) {
	subjects, err := v.TopicCommits(ctx, rev)
	if err != nil {
		return nil, errors.Wrapf(err, "listing topic commits for %s..HEAD", rev)
	}
	return CommitSubjects(subjects), nil
}
