package wave

import (
	"fmt"
	"math"

	"github.com/Mechazawa/wave-function-collapse/internal/bitset"
	"github.com/Mechazawa/wave-function-collapse/internal/pattern"
)

// SingletonEntropy is reported for cells with at most one possibility.
// Such cells are never chosen by observation.
const SingletonEntropy = 0.0

// noPattern marks a cell that is not collapsed.
const noPattern = -1

// Superstate is the set of patterns still possible for one cell.
//
// The set only ever shrinks. Entropy is kept up to date from the running
// sums of w and w*ln(w) over the remaining patterns, so reading it is O(1)
// and a restriction costs O(removed) instead of O(remaining).
type Superstate struct {
	table     *pattern.Table
	possible  bitset.Set
	count     int
	sumW      float64
	sumWLogW  float64
	collapsed int
}

// NewSuperstate returns a cell that allows every pattern of t.
func NewSuperstate(t *pattern.Table) Superstate {
	s := Superstate{
		table:     t,
		possible:  t.Full(),
		count:     t.Len(),
		collapsed: noPattern,
	}
	for id := range t.Len() {
		s.sumW += t.Weight(id)
		s.sumWLogW += t.WeightLog(id)
	}
	if s.count == 1 {
		s.collapsed = 0
	}
	return s
}

// Len returns the number of remaining possibilities.
func (s *Superstate) Len() int {
	return s.count
}

// Has reports whether id is still possible.
func (s *Superstate) Has(id int) bool {
	return s.possible.Has(id)
}

// IDs returns the remaining pattern ids in ascending order.
func (s *Superstate) IDs() []int {
	return s.possible.AppendTo(make([]int, 0, s.count))
}

// Collapsed returns the pattern the cell is fixed to, if any.
func (s *Superstate) Collapsed() (int, bool) {
	return s.collapsed, s.collapsed != noPattern
}

// Contradicted reports whether no pattern remains.
func (s *Superstate) Contradicted() bool {
	return s.count == 0
}

// Entropy returns the Shannon entropy of the normalised weights of the
// remaining patterns, or SingletonEntropy for zero or one pattern.
func (s *Superstate) Entropy() float64 {
	if s.count <= 1 {
		return SingletonEntropy
	}
	// H = -Σ (w/W) ln(w/W) = ln W - (Σ w ln w) / W
	h := math.Log(s.sumW) - s.sumWLogW/s.sumW
	if h < 0 {
		// Accumulated rounding on near-degenerate weight sets.
		h = 0
	}
	return h
}

// Restrict intersects the possibilities with allowed. It reports whether the
// set changed and whether it is now empty.
//
// A collapsed cell is never modified; it reports empty when its pattern is
// not in allowed, since that means a neighbour can no longer sit next to it.
// A cell narrowed down to a single pattern becomes collapsed.
func (s *Superstate) Restrict(allowed bitset.Set) (changed, empty bool) {
	if s.collapsed != noPattern {
		return false, !allowed.Has(s.collapsed)
	}
	if s.possible.SubsetOf(allowed) {
		return false, s.count == 0
	}

	s.possible.ForEachRemoved(allowed, func(id int) {
		s.sumW -= s.table.Weight(id)
		s.sumWLogW -= s.table.WeightLog(id)
		s.count--
	})
	s.possible.Intersect(allowed)

	switch s.count {
	case 0:
		s.sumW, s.sumWLogW = 0, 0
		return true, true
	case 1:
		s.fix(s.possible.First())
	}
	return true, false
}

// Collapse fixes the cell to id. It fails with ErrInvalidCollapse when id is
// not a remaining possibility.
func (s *Superstate) Collapse(id int) error {
	if !s.possible.Has(id) {
		return fmt.Errorf("%w: pattern %d, %d remaining", ErrInvalidCollapse, id, s.count)
	}
	if s.collapsed == id {
		return nil
	}
	s.possible.Clear()
	s.possible.Add(id)
	s.count = 1
	s.fix(id)
	return nil
}

// fix marks the single remaining pattern as the collapsed value and resets
// the weight sums exactly, dropping any accumulated rounding.
func (s *Superstate) fix(id int) {
	s.collapsed = id
	s.sumW = s.table.Weight(id)
	s.sumWLogW = s.table.WeightLog(id)
}

// resum recomputes the weight sums from the remaining patterns in id order,
// making Entropy a function of the set alone rather than of the order the
// restrictions arrived in.
func (s *Superstate) resum() {
	if s.collapsed != noPattern || s.count == 0 {
		return
	}
	s.sumW, s.sumWLogW = 0, 0
	s.possible.ForEach(func(id int) {
		s.sumW += s.table.Weight(id)
		s.sumWLogW += s.table.WeightLog(id)
	})
}
