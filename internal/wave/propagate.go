package wave

import (
	"github.com/Mechazawa/wave-function-collapse/internal/bitset"
	"github.com/Mechazawa/wave-function-collapse/internal/grid"
	"github.com/Mechazawa/wave-function-collapse/internal/pattern"
)

// propagator drives the constraint cascade after cells change.
//
// Propagate treats every seed as dirty and restricts neighbours until no
// cell changes (arc consistency) or a cell runs out of patterns. It returns
// how many cells became collapsed by restriction along the way. On a
// contradiction the restrictions already applied stay in place; they are
// monotone and never need undoing.
type propagator interface {
	Propagate(seeds []int) (resolved int, err error)
}

func newPropagator(cells *grid.Grid[Superstate], table *pattern.Table, workers int) propagator {
	if workers > 1 {
		return newParallel(cells, table, workers)
	}
	return newSequential(cells, table)
}

// sequential is the single-threaded engine. It needs no synchronisation.
type sequential struct {
	cells *grid.Grid[Superstate]
	table *pattern.Table

	// queue holds dirty source cells; queued[i] is set while i is waiting.
	queue  []int
	queued []bool

	// skip[i] holds the directions i need not propagate back into: the
	// neighbours whose restriction dirtied it. Restricting a cell by m never
	// removes support for m's own patterns, so re-deriving m is wasted work.
	skip []uint8

	allowed bitset.Set
}

func newSequential(cells *grid.Grid[Superstate], table *pattern.Table) *sequential {
	return &sequential{
		cells:   cells,
		table:   table,
		queue:   make([]int, 0, cells.Len()),
		queued:  make([]bool, cells.Len()),
		skip:    make([]uint8, cells.Len()),
		allowed: bitset.New(table.Len()),
	}
}

func (p *sequential) push(i int, skip uint8) {
	if p.queued[i] {
		// Dirtied again from another side: only directions every dirtying
		// neighbour agrees on may be skipped.
		p.skip[i] &= skip
		return
	}
	p.queued[i] = true
	p.skip[i] = skip
	p.queue = append(p.queue, i)
}

func (p *sequential) Propagate(seeds []int) (int, error) {
	head := 0
	defer func() {
		for _, i := range p.queue[head:] {
			p.queued[i] = false
		}
		p.queue = p.queue[:0]
	}()

	for _, s := range seeds {
		p.push(s, 0)
	}

	resolved := 0
	for ; head < len(p.queue); head++ {
		m := p.queue[head]
		p.queued[m] = false
		skip := p.skip[m]
		src := p.cells.Cell(m)

		for _, d := range grid.Directions {
			if skip&d.Bit() != 0 {
				continue
			}
			n, ok := p.cells.Neighbor(m, d)
			if !ok {
				continue
			}

			allowed := supportOf(p.table, src, d, p.allowed)
			dst := p.cells.Cell(n)
			changed, empty := dst.Restrict(allowed)
			if empty {
				return resolved, p.contradiction(n)
			}
			if changed {
				if _, ok := dst.Collapsed(); ok {
					resolved++
				}
				p.push(n, d.Opposite().Bit())
			}
		}
	}
	return resolved, nil
}

func (p *sequential) contradiction(i int) error {
	x, y := p.cells.Coord(i)
	return &ContradictionError{X: x, Y: y}
}

// supportOf returns the patterns allowed in direction d of src. A collapsed
// source uses the table row directly; otherwise the union is written to buf.
func supportOf(t *pattern.Table, src *Superstate, d grid.Direction, buf bitset.Set) bitset.Set {
	if id, ok := src.Collapsed(); ok {
		return t.Support(id, d)
	}
	t.SupportOf(src.possible, d, buf)
	return buf
}
