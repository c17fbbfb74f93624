package pattern

import (
	"fmt"
	"math"

	"github.com/Mechazawa/wave-function-collapse/internal/bitset"
	"github.com/Mechazawa/wave-function-collapse/internal/grid"
)

type rule struct {
	from int
	dir  grid.Direction
	to   int
}

// Builder accumulates patterns and adjacency rules for a Table.
// Rules are stored as given and checked by Build; nothing is symmetrised
// behind the caller's back.
type Builder struct {
	patterns []Pattern
	rules    []rule
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a pattern and returns its id.
func (b *Builder) Add(name string, weight float64) int {
	id := len(b.patterns)
	b.patterns = append(b.patterns, Pattern{ID: id, Name: name, Weight: weight})
	return id
}

// Allow records that to may sit in direction d of from.
func (b *Builder) Allow(from int, d grid.Direction, to int) *Builder {
	b.rules = append(b.rules, rule{from: from, dir: d, to: to})
	return b
}

// Connect records the rule and its mirror: to in direction d of from, and
// from in the opposite direction of to.
func (b *Builder) Connect(from int, d grid.Direction, to int) *Builder {
	b.Allow(from, d, to)
	b.Allow(to, d.Opposite(), from)
	return b
}

// ConnectAll makes a and b compatible in every direction, both ways.
func (b *Builder) ConnectAll(a, other int) *Builder {
	for _, d := range grid.Directions {
		b.Connect(a, d, other)
	}
	return b
}

// Build validates the collected patterns and rules and returns the Table.
func (b *Builder) Build() (*Table, error) {
	n := len(b.patterns)
	if n == 0 {
		return nil, ErrEmptyTable
	}

	t := &Table{
		patterns: make([]Pattern, n),
		byName:   make(map[string]int, n),
		wlogw:    make([]float64, n),
	}
	copy(t.patterns, b.patterns)

	for _, p := range t.patterns {
		if math.IsNaN(p.Weight) || math.IsInf(p.Weight, 0) || p.Weight <= 0 {
			return nil, fmt.Errorf("%w: pattern %d (%q) has weight %v", ErrInvalidWeight, p.ID, p.Name, p.Weight)
		}
		t.wlogw[p.ID] = p.Weight * math.Log(p.Weight)
		if p.Name == "" {
			continue
		}
		if prev, dup := t.byName[p.Name]; dup {
			return nil, fmt.Errorf("%w: %q used by patterns %d and %d", ErrDuplicateName, p.Name, prev, p.ID)
		}
		t.byName[p.Name] = p.ID
	}

	for _, d := range grid.Directions {
		t.support[d] = make([]bitset.Set, n)
		for id := range n {
			t.support[d][id] = bitset.New(n)
		}
	}

	for _, r := range b.rules {
		if !r.dir.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrInvalidDirection, r.dir)
		}
		if r.from < 0 || r.from >= n || r.to < 0 || r.to >= n {
			return nil, fmt.Errorf("%w: rule %d -%s-> %d references ids outside [0, %d)", ErrUnknownPattern, r.from, r.dir, r.to, n)
		}
		t.support[r.dir][r.from].Add(r.to)
	}

	if err := t.validateConsistency(); err != nil {
		return nil, err
	}
	return t, nil
}
