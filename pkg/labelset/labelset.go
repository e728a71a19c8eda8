// Package labelset implements the compile-time path selector spec.md §3
// describes: a flat Set of up to 128 labels for single-level matching, or a
// NestedSet of up to 32 Sets of up to 128 labels for dotted paths like
// "A.B.C", built from textual patterns.
package labelset

import (
	"strings"

	wserrors "github.com/iamNilotpal/tupleflow/pkg/errors"
	"github.com/iamNilotpal/tupleflow/pkg/label"
)

// MaxFlatLabels bounds a single Set's label count (spec.md §3).
const MaxFlatLabels = 128

// MaxSubsets bounds a NestedSet's Set count (spec.md §3).
const MaxSubsets = 32

// Set is a flat list of up to MaxFlatLabels labels considered together for
// single-level matching — "does this tuple have a member under any of
// these labels".
type Set struct {
	labels []*label.Label
}

// NewSet builds a Set from already-interned labels.
func NewSet(labels ...*label.Label) (*Set, error) {
	if len(labels) > MaxFlatLabels {
		return nil, wserrors.NewFieldRangeError("labels", len(labels), 0, MaxFlatLabels)
	}
	return &Set{labels: append([]*label.Label(nil), labels...)}, nil
}

// Add appends a label to the set, enforcing MaxFlatLabels.
func (s *Set) Add(lbl *label.Label) error {
	if len(s.labels) >= MaxFlatLabels {
		return wserrors.NewFieldRangeError("labels", len(s.labels)+1, 0, MaxFlatLabels)
	}
	s.labels = append(s.labels, lbl)
	return nil
}

// Contains reports whether lbl is a member of the set, by label identity.
func (s *Set) Contains(lbl *label.Label) bool {
	for _, l := range s.labels {
		if l == lbl {
			return true
		}
	}
	return false
}

// Labels returns the set's members in insertion order.
func (s *Set) Labels() []*label.Label {
	return s.labels
}

// Len returns the number of labels in the set.
func (s *Set) Len() int {
	return len(s.labels)
}

// NestedSet is a tree of Sets built from a dotted textual pattern such as
// "A.B.C", used to match nested tuple paths.
type NestedSet struct {
	subsets []*Set
}

// BuildFromPattern parses one or more dot-separated patterns (e.g.
// "A.B.C", "A.B.D") into a NestedSet: each dotted segment position becomes
// one Set in the tree, and every label seen at that position across all
// patterns is added to that position's Set. register is called for every
// segment, repeated names included, to obtain its interned Label.
func BuildFromPattern(patterns []string, register func(name string) *label.Label) (*NestedSet, error) {
	ns := &NestedSet{}

	for _, pattern := range patterns {
		segments := strings.Split(pattern, ".")
		if len(segments) > MaxSubsets {
			return nil, wserrors.NewFieldRangeError("pattern depth", len(segments), 0, MaxSubsets)
		}

		for depth, segment := range segments {
			if segment == "" {
				return nil, wserrors.NewConfigurationError(
					nil, wserrors.ErrorCodeInvalidInput, "empty label-set pattern segment",
				).WithField("pattern").WithProvided(pattern)
			}

			if depth >= len(ns.subsets) {
				set, err := NewSet()
				if err != nil {
					return nil, err
				}
				ns.subsets = append(ns.subsets, set)
			}

			lbl := register(segment)
			if !ns.subsets[depth].Contains(lbl) {
				if err := ns.subsets[depth].Add(lbl); err != nil {
					return nil, err
				}
			}
		}
	}

	return ns, nil
}

// At returns the Set at the given path depth (0-indexed), or nil if depth
// is out of range.
func (ns *NestedSet) At(depth int) *Set {
	if depth < 0 || depth >= len(ns.subsets) {
		return nil
	}
	return ns.subsets[depth]
}

// Depth returns how many dotted path levels this NestedSet covers.
func (ns *NestedSet) Depth() int {
	return len(ns.subsets)
}

// Matches reports whether the given path of labels — one label chosen per
// depth level, e.g. the labels actually found while walking a nested
// tuple — satisfies the pattern: every level's chosen label must belong to
// that level's Set, and the path must be exactly as deep as the pattern.
func (ns *NestedSet) Matches(path []*label.Label) bool {
	if len(path) != len(ns.subsets) {
		return false
	}
	for depth, lbl := range path {
		if !ns.subsets[depth].Contains(lbl) {
			return false
		}
	}
	return true
}
