// Package attribution is the decision core: for one hunk, decide
// which (if any) topic-branch commit it should be folded into.
//
// Modeled as a pure function of its inputs: no package-level
// verbosity globals, no mutable state between calls.
// Decision.Unassigned distinguishes "no target" from "assigned"
// instead of relying on a sentinel sha.
package attribution

import (
	"github.com/hashicorp/go-set/v2"

	"github.com/pescuma/gitfixup/internal/blame"
	"github.com/pescuma/gitfixup/internal/diffparse"
	"github.com/pescuma/gitfixup/internal/topicrange"
)

// Strictness controls how conservative the engine is about assigning
// a hunk. Higher values require stronger agreement among neighboring
// lines before a target is chosen.
type Strictness int

const (
	Context Strictness = iota
	Adjacent
	Surrounded
)

// Decision is the engine's verdict for one hunk.
type Decision struct {
	Target     string // valid iff !Unassigned
	Unassigned bool
	Reason     string // set iff Unassigned
}

// BuildIndex computes, for every body line of h, the pre-image line
// number it corresponds to. Added lines are mapped to the pre-image
// line that would come next.
func BuildIndex(h diffparse.Hunk) []int {
	idx := make([]int, len(h.Lines))
	cursor := h.Start

	for i, line := range h.Lines {
		idx[i] = cursor
		if len(line) == 0 {
			continue
		}
		if line[0] == '-' || line[0] == ' ' {
			cursor++
		}
	}

	return idx
}

// Attribute runs the three-step decision process: gather a candidate
// target set, then narrow it down to a single topic sha or a reason
// the hunk is left unassigned.
func Attribute(h diffparse.Hunk, b blame.Blame, subjects topicrange.CommitSubjects, strictness Strictness) Decision {
	idx := BuildIndex(h)
	isTopic := func(sha string) bool {
		_, ok := subjects[sha]
		return ok
	}

	var target *set.Set[string]

	if strictness == Context {
		ctx := set.New[string](0)
		for _, l := range b {
			ctx.Insert(l.SHA)
		}

		topicCount := 0
		for _, sha := range ctx.Slice() {
			if isTopic(sha) {
				topicCount++
			}
		}

		if topicCount > 1 {
			// Ambiguous under pure context overlap: fall through to
			// the adjacency algorithm as a refinement, still at
			// strictness CONTEXT, so upstream-blamed rejection stays
			// off for this fallback.
			target = blamedSet(h, idx, b, isTopic, strictness)
		} else {
			target = ctx
		}
	} else {
		target = blamedSet(h, idx, b, isTopic, strictness)
	}

	return decide(target, isTopic, strictness)
}

// blamedSet implements the ADJACENT/SURROUNDED candidate-gathering
// algorithm: deleted lines contribute their blamed sha directly, added
// lines contribute the topic sha shared by their surrounding context.
func blamedSet(h diffparse.Hunk, idx []int, b blame.Blame, isTopic func(string) bool, strictness Strictness) *set.Set[string] {
	blamed := set.New[string](0)

	i := 0
	for i < len(h.Lines) {
		line := h.Lines[i]
		if len(line) == 0 {
			i++
			continue
		}

		bi := idx[i]

		switch line[0] {
		case '-':
			if l, ok := b[bi]; ok {
				blamed.Insert(l.SHA)
			}
			i++

		case '+':
			var adjacent []string
			seen := set.New[string](0)
			add := func(n int) {
				if l, ok := b[n]; ok && !seen.Contains(l.SHA) {
					seen.Insert(l.SHA)
					adjacent = append(adjacent, l.SHA)
				}
			}
			if i > 0 {
				add(bi - 1)
			}
			add(bi)

			var targetShas []string
			for _, sha := range adjacent {
				if isTopic(sha) {
					targetShas = append(targetShas, sha)
				}
			}

			isSurrounded := len(targetShas) > 0 &&
				len(targetShas) == len(adjacent) &&
				targetShas[0] == targetShas[len(targetShas)-1]
			isAdjacent := len(targetShas) == 1

			if strictness > Context && len(targetShas) != len(adjacent) {
				// At least one neighbor is blamed on a non-topic
				// (upstream) commit: surface it so decide() rejects
				// the hunk instead of silently adjacency-matching on
				// the topic neighbor alone.
				for _, sha := range adjacent {
					if !isTopic(sha) {
						blamed.Insert(sha)
					}
				}
			}

			if isSurrounded || (strictness < Surrounded && isAdjacent) {
				blamed.Insert(targetShas[0])
			}

			// One insertion run yields one decision, not one per line.
			i++
			for i < len(h.Lines) && len(h.Lines[i]) > 0 && h.Lines[i][0] == '+' {
				i++
			}

		default: // ' ' context or '\' no-newline marker
			i++
		}
	}

	return blamed
}

// decide narrows a candidate target set down to a single topic sha,
// or a reason the hunk can't be assigned.
func decide(target *set.Set[string], isTopic func(string) bool, strictness Strictness) Decision {
	upstreamIsBlamed := false
	var topicTargets []string

	for _, sha := range target.Slice() {
		if isTopic(sha) {
			topicTargets = append(topicTargets, sha)
		} else {
			upstreamIsBlamed = true
		}
	}

	switch {
	case strictness > Context && upstreamIsBlamed:
		return Decision{Unassigned: true, Reason: "changes lines blamed on upstream"}
	case len(topicTargets) > 1:
		return Decision{Unassigned: true, Reason: "multiple targets"}
	case len(topicTargets) == 0:
		return Decision{Unassigned: true, Reason: "no targets"}
	default:
		return Decision{Target: topicTargets[0]}
	}
}
