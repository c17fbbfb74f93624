// Package pattern holds the immutable catalogue of tile patterns the solver
// draws from: their frequency weights and the directional adjacency relation
// between them.
package pattern

import (
	"github.com/Mechazawa/wave-function-collapse/internal/bitset"
	"github.com/Mechazawa/wave-function-collapse/internal/grid"
)

// Pattern is one entry of a Table.
type Pattern struct {
	ID     int
	Name   string
	Weight float64
}

// Table is a validated pattern catalogue.
//
// Table is immutable after construction. It is safe to share the same
// pointer between any number of concurrently running waves.
type Table struct {
	patterns []Pattern
	byName   map[string]int

	// wlogw[id] caches weight*ln(weight) for incremental entropy updates.
	wlogw []float64

	// support[d][a] holds every b that may sit in direction d of a.
	support [grid.DirectionCount][]bitset.Set
}

// Len returns the number of patterns.
func (t *Table) Len() int {
	return len(t.patterns)
}

// Pattern returns the pattern with the given id.
// It panics if id is out of range.
func (t *Table) Pattern(id int) Pattern {
	return t.patterns[id]
}

// Patterns returns a copy of every pattern in id order.
func (t *Table) Patterns() []Pattern {
	out := make([]Pattern, len(t.patterns))
	copy(out, t.patterns)
	return out
}

// Weight returns the frequency weight of id.
func (t *Table) Weight(id int) float64 {
	return t.patterns[id].Weight
}

// WeightLog returns weight*ln(weight) of id.
func (t *Table) WeightLog(id int) float64 {
	return t.wlogw[id]
}

// Name returns the name of id.
func (t *Table) Name(id int) string {
	return t.patterns[id].Name
}

// Lookup finds a pattern id by name.
func (t *Table) Lookup(name string) (int, bool) {
	id, ok := t.byName[name]
	return id, ok
}

// Contains reports whether id is a pattern of the table.
func (t *Table) Contains(id int) bool {
	return id >= 0 && id < len(t.patterns)
}

// Compatible reports whether b may be placed in direction d of a.
func (t *Table) Compatible(a int, d grid.Direction, b int) bool {
	if !t.Contains(a) || !d.Valid() {
		return false
	}
	return t.support[d][a].Has(b)
}

// Support returns the set of patterns allowed in direction d of id.
// The returned set must not be modified.
func (t *Table) Support(id int, d grid.Direction) bitset.Set {
	return t.support[d][id]
}

// SupportOf overwrites dst with the union of the supports of every id in src,
// i.e. every pattern that can sit in direction d of at least one of src.
func (t *Table) SupportOf(src bitset.Set, d grid.Direction, dst bitset.Set) {
	dst.Clear()
	rows := t.support[d]
	src.ForEach(func(id int) {
		dst.Union(rows[id])
	})
}

// Full returns a fresh set containing every pattern id.
func (t *Table) Full() bitset.Set {
	return bitset.Full(len(t.patterns))
}

// FullySupported reports whether, in every direction, each pattern is allowed
// next to at least one pattern. When it holds, a grid of fully open cells is
// already consistent and needs no initial propagation pass.
func (t *Table) FullySupported() bool {
	n := len(t.patterns)
	reach := bitset.New(n)
	for _, d := range grid.Directions {
		reach.Clear()
		for _, row := range t.support[d] {
			reach.Union(row)
		}
		if reach.Count() != n {
			return false
		}
	}
	return true
}
