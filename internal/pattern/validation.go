package pattern

import (
	"errors"
	"fmt"

	"github.com/Mechazawa/wave-function-collapse/internal/grid"
)

var (
	ErrEmptyTable            = errors.New("pattern table has no patterns")
	ErrInvalidWeight         = errors.New("pattern weight must be a positive finite number")
	ErrDuplicateName         = errors.New("duplicate pattern name")
	ErrUnknownPattern        = errors.New("unknown pattern id")
	ErrInvalidDirection      = errors.New("invalid direction")
	ErrInconsistentAdjacency = errors.New("adjacency is not direction-consistent")
)

// validateConsistency checks that every rule has its mirror: if b may sit in
// direction d of a, then a may sit in the opposite direction of b.
func (t *Table) validateConsistency() error {
	for _, d := range grid.Directions {
		back := t.support[d.Opposite()]
		for a, row := range t.support[d] {
			var err error
			row.ForEach(func(b int) {
				if err == nil && !back[b].Has(a) {
					err = fmt.Errorf("%w: %s allows %s %s of it, but %s does not allow %s %s of it",
						ErrInconsistentAdjacency, t.label(a), t.label(b), d, t.label(b), t.label(a), d.Opposite())
				}
			})
			if err != nil {
				return err
			}
		}
	}
	return nil
}

func (t *Table) label(id int) string {
	if name := t.patterns[id].Name; name != "" {
		return fmt.Sprintf("%q", name)
	}
	return fmt.Sprintf("#%d", id)
}

// Isolated returns the ids of patterns that have no allowed neighbour in at
// least one direction. On a bounded grid such a pattern can only ever be
// placed on the matching edge; on a wrapping grid it can never be placed.
func (t *Table) Isolated() []int {
	var out []int
	for id := range t.patterns {
		for _, d := range grid.Directions {
			if t.support[d][id].Empty() {
				out = append(out, id)
				break
			}
		}
	}
	return out
}
