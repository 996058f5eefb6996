// Package alias collapses fixup!/squash! commits down to the topic
// commit they ultimately target, by matching each one's captured
// subject prefix against the other topic subjects.
package alias

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"github.com/pescuma/gitfixup/internal/topicrange"
)

// Map is a topic commit id -> its canonical target commit id.
type Map map[string]string

const fixupPrefix = "fixup! "
const squashPrefix = "squash! "

// Resolve scans subjects for fixup!/squash! markers and resolves each
// one to a unique other topic commit whose subject starts with the
// captured prefix. Nested fixup-of-fixup, ambiguous prefixes, and
// unmatched prefixes are all fatal.
func Resolve(subjects topicrange.CommitSubjects) (Map, error) {
	result := make(Map)

	for sha, subject := range subjects {
		prefix, ok := stripMarker(subject)
		if !ok {
			continue
		}

		if _, nested := stripMarker(prefix); nested {
			return nil, errors.Errorf("commit %s is a fixup of a fixup (subject %q)", sha, subject)
		}

		candidates := lo.Filter(lo.Keys(subjects), func(other string, _ int) bool {
			return other != sha && strings.HasPrefix(subjects[other], prefix)
		})

		switch len(candidates) {
		case 0:
			return nil, errors.Errorf("no fixup target found for commit %s (prefix %q)", sha, prefix)
		case 1:
			result[sha] = candidates[0]
		default:
			return nil, errors.Errorf("ambiguous fixup target for commit %s (prefix %q matches %d commits)", sha, prefix, len(candidates))
		}
	}

	return result, nil
}

// stripMarker returns the prefix captured by a fixup!/squash! subject,
// and whether the subject matched at all.
func stripMarker(subject string) (string, bool) {
	if rest, ok := strings.CutPrefix(subject, fixupPrefix); ok {
		return rest, true
	}
	if rest, ok := strings.CutPrefix(subject, squashPrefix); ok {
		return rest, true
	}
	return "", false
}

// Canonical rewrites sha through m, if it is an alias, otherwise
// returns sha unchanged. Applied uniformly wherever a sha is observed
// in blame output, so a fixup commit never appears as its own
// attribution target.
func (m Map) Canonical(sha string) string {
	if target, ok := m[sha]; ok {
		return target
	}
	return sha
}
