package physics

import (
	"cmp"
	"slices"
)

// SortAndSweep sorts bodies by the low end of their bounds along Axis and
// pairs each body with the following ones until their intervals stop
// overlapping.
type SortAndSweep struct {
	Axis Axis

	entries []sweepEntry
}

type sweepEntry struct {
	body   *Body
	lo, hi float32
}

func NewSortAndSweep(axis Axis) *SortAndSweep {
	return &SortAndSweep{Axis: axis}
}

func (s *SortAndSweep) Name() string { return "sort_and_sweep" }

func (s *SortAndSweep) FindPairs(bodies []*Body) []CollisionPair {
	s.entries = s.entries[:0]
	for _, b := range bodies {
		if len(b.shapes) == 0 {
			continue
		}
		lo, hi := b.WorldBounds().AxisRange(s.Axis)
		s.entries = append(s.entries, sweepEntry{body: b, lo: lo, hi: hi})
	}
	// Stable so equal bounds keep input order and results stay deterministic.
	slices.SortStableFunc(s.entries, func(x, y sweepEntry) int {
		return cmp.Compare(x.lo, y.lo)
	})

	var pairs []CollisionPair
	for i, cur := range s.entries {
		for _, next := range s.entries[i+1:] {
			if next.lo > cur.hi {
				break
			}
			if canPair(cur.body, next.body) {
				pairs = append(pairs, CollisionPair{A: cur.body, B: next.body})
			}
		}
	}
	return pairs
}
