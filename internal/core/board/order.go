package board

import (
	"cmp"
	"slices"
	"strings"

	"github.com/samirrijal/trmnl-departures/internal/core/domain"
)

// CompareKeys orders group keys for display: numbered lines before named
// ones, then by line, then by platform with absent platforms last, then by
// destination.
func CompareKeys(a, b domain.GroupKey) int {
	if c := a.Line.Compare(b.Line); c != 0 {
		return c
	}
	if c := comparePlatform(a.Platform, b.Platform); c != 0 {
		return c
	}
	return cmp.Compare(a.Destination, b.Destination)
}

func comparePlatform(a, b *string) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	return cmp.Compare(*a, *b)
}

// Sort orders groups in place with CompareKeys. The sort is stable.
func Sort(groups []domain.Group) {
	slices.SortStableFunc(groups, func(a, b domain.Group) int {
		return CompareKeys(a.Key, b.Key)
	})
}

// ExclusionSet holds platform codes hidden from the board.
type ExclusionSet struct {
	platforms map[string]struct{}
	// Unassigned also hides groups that have no platform code.
	Unassigned bool
}

// NewExclusionSet builds a set from explicit platform codes.
func NewExclusionSet(platforms ...string) ExclusionSet {
	s := ExclusionSet{platforms: make(map[string]struct{}, len(platforms))}
	for _, p := range platforms {
		s.platforms[p] = struct{}{}
	}
	return s
}

// ParseExclusions reads a comma separated platform list such as "A,B".
// Entries are trimmed and empty entries dropped; matching stays case-sensitive.
func ParseExclusions(raw string) ExclusionSet {
	var codes []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			codes = append(codes, p)
		}
	}
	return NewExclusionSet(codes...)
}

// Len returns the number of excluded platform codes.
func (s ExclusionSet) Len() int { return len(s.platforms) }

// Excludes reports whether a group key is hidden by the set.
func (s ExclusionSet) Excludes(k domain.GroupKey) bool {
	if k.Platform == nil {
		return s.Unassigned
	}
	_, ok := s.platforms[*k.Platform]
	return ok
}

// Filter returns the groups not hidden by the set, keeping their order. The
// input slice is left untouched.
func (s ExclusionSet) Filter(groups []domain.Group) []domain.Group {
	kept := make([]domain.Group, 0, len(groups))
	for _, g := range groups {
		if !s.Excludes(g.Key) {
			kept = append(kept, g)
		}
	}
	return kept
}
