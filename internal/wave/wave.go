// Package wave implements the wave function collapse solver: per-cell
// possibility sets, entropy-guided observation, weighted collapse and the
// constraint cascade that keeps the grid consistent after every collapse.
//
// A Wave is single-threaded and step-driven. Step performs one
// observe/collapse/propagate tick and returns; Run loops until the wave is
// done or has hit a contradiction. Only the propagation phase of a tick can
// fan out over worker goroutines (Options.Workers).
package wave

import (
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/Mechazawa/wave-function-collapse/internal/grid"
	"github.com/Mechazawa/wave-function-collapse/internal/pattern"
	"github.com/Mechazawa/wave-function-collapse/internal/rng"
)

// Collapse records one explicit collapse, either chosen by observation or
// requested by the caller. Cells narrowed down by propagation are not listed.
type Collapse struct {
	X, Y    int
	Pattern int
}

// Wave solves one generation attempt over a fixed grid.
type Wave struct {
	table     *pattern.Table
	cells     *grid.Grid[Superstate]
	engine    propagator
	rng       rng.Source
	selection Selection

	status    Status
	remaining int
	steps     int
	history   []Collapse
	conflict  *ContradictionError

	// Scratch buffers reused across ticks.
	seed    [1]int
	ids     []int
	weights []float64
}

// New creates a wave over a width×height grid in which every cell allows
// every pattern of table. Cells in options.Fixed are collapsed and propagated
// before New returns; if they conflict, the wave starts out in
// StatusContradiction and the error is nil. Errors are reserved for invalid
// arguments.
func New(table *pattern.Table, width, height int, options *Options) (*Wave, error) {
	if table == nil {
		return nil, fmt.Errorf("%w: nil pattern table", ErrInvalidArgument)
	}
	if options == nil {
		options = DefaultOptions()
	}

	cells, err := grid.New(width, height, options.Wrap, func(int, int) Superstate {
		return NewSuperstate(table)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	for _, f := range options.Fixed {
		if !cells.InBounds(f.X, f.Y) {
			return nil, fmt.Errorf("%w: fixed cell (%d, %d) outside %dx%d", ErrInvalidArgument, f.X, f.Y, width, height)
		}
		if !table.Contains(f.Pattern) {
			return nil, fmt.Errorf("%w: fixed cell (%d, %d) uses unknown pattern %d", ErrInvalidArgument, f.X, f.Y, f.Pattern)
		}
	}

	src := options.Source
	if src == nil {
		src = rng.New(options.Seed)
	}

	w := &Wave{
		table:     table,
		cells:     cells,
		engine:    newPropagator(cells, table, options.Workers),
		rng:       src,
		selection: options.Selection,
		status:    StatusRunning,
		ids:       make([]int, 0, table.Len()),
		weights:   make([]float64, 0, table.Len()),
	}
	for i := range cells.Len() {
		if _, ok := cells.Cell(i).Collapsed(); !ok {
			w.remaining++
		}
	}

	var seeds []int
	if !table.FullySupported() {
		// Some patterns cannot sit next to anything on at least one side;
		// strip them from every cell that has a neighbour there.
		seeds = make([]int, cells.Len())
		for i := range seeds {
			seeds[i] = i
		}
	}

	for _, f := range options.Fixed {
		i := cells.Index(f.X, f.Y)
		cell := cells.Cell(i)
		_, was := cell.Collapsed()
		if err := cell.Collapse(f.Pattern); err != nil {
			// Two pins on the same cell disagree.
			w.contradict(&ContradictionError{X: f.X, Y: f.Y})
			return w, nil
		}
		if !was {
			w.remaining--
		}
		w.history = append(w.history, Collapse{X: f.X, Y: f.Y, Pattern: f.Pattern})
		seeds = append(seeds, i)
	}

	if len(seeds) > 0 {
		w.propagate(seeds)
	}
	return w, nil
}

// Step performs one tick and returns the resulting status.
//
// When no cell is left undecided the wave becomes StatusDone. Otherwise the
// undecided cell of lowest entropy is collapsed to a weighted random pattern
// and the change is propagated; running out of patterns anywhere ends the
// wave in StatusContradiction. Terminal waves are left untouched.
func (w *Wave) Step() Status {
	if w.status != StatusRunning {
		return w.status
	}
	if w.remaining == 0 {
		w.finish()
		return w.status
	}

	i := w.observe()
	if i < 0 {
		return w.status
	}

	w.steps++
	choice := w.choose(i)
	if err := w.cells.Cell(i).Collapse(choice); err != nil {
		// The choice was drawn from the cell's own possibilities.
		panic(fmt.Sprintf("wave: collapse of own possibility failed: %v", err))
	}
	w.remaining--

	x, y := w.cells.Coord(i)
	w.history = append(w.history, Collapse{X: x, Y: y, Pattern: choice})
	if debugEnabled() {
		Logger().Debug("collapsed cell",
			slog.Int("step", w.steps),
			slog.Int("x", x),
			slog.Int("y", y),
			slog.String("pattern", w.label(choice)),
			slog.Int("remaining", w.remaining))
	}

	w.seed[0] = i
	w.propagate(w.seed[:])
	return w.status
}

// Run steps until the wave reaches a terminal status and returns it.
func (w *Wave) Run() Status {
	for !w.status.Terminal() {
		w.Step()
	}
	return w.status
}

// Collapse forces the cell at (x, y) to pattern id and propagates the change.
// It fails with ErrInvalidCollapse if id is no longer possible there; the
// wave is unchanged in that case.
func (w *Wave) Collapse(x, y, id int) (Status, error) {
	if w.status != StatusRunning {
		return w.status, fmt.Errorf("%w: status is %s", ErrNotRunning, w.status)
	}
	cell, err := w.cells.At(x, y)
	if err != nil {
		return w.status, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	_, was := cell.Collapsed()
	if err := cell.Collapse(id); err != nil {
		return w.status, fmt.Errorf("cell (%d, %d): %w", x, y, err)
	}
	if !was {
		w.remaining--
	}
	w.history = append(w.history, Collapse{X: x, Y: y, Pattern: id})

	w.seed[0] = w.cells.Index(x, y)
	w.propagate(w.seed[:])
	return w.status, nil
}

// observe returns the index of the next cell to collapse, or -1 when the
// wave turned terminal while scanning.
func (w *Wave) observe() int {
	best, bestH := -1, math.Inf(1)
	edge := -1 // first frontier cell at bestH
	frontier := w.selection == SelectFrontier

	cells := w.cells.Cells()
	for i := range cells {
		c := &cells[i]
		if _, ok := c.Collapsed(); ok {
			continue
		}
		if c.Contradicted() {
			x, y := w.cells.Coord(i)
			w.contradict(&ContradictionError{X: x, Y: y})
			return -1
		}

		h := c.Entropy()
		if h < bestH {
			best, bestH, edge = i, h, -1
		}
		if frontier && edge < 0 && h == bestH && w.touchesCollapsed(i) {
			edge = i
		}
	}

	if best < 0 {
		// Every cell is decided even though the counter disagreed.
		w.remaining = 0
		w.finish()
		return -1
	}
	if edge >= 0 {
		return edge
	}
	return best
}

func (w *Wave) touchesCollapsed(i int) bool {
	for _, d := range grid.Directions {
		if n, ok := w.cells.Neighbor(i, d); ok {
			if _, fixed := w.cells.Cell(n).Collapsed(); fixed {
				return true
			}
		}
	}
	return false
}

// choose draws a pattern from cell i weighted by pattern frequency.
func (w *Wave) choose(i int) int {
	cell := w.cells.Cell(i)
	w.ids = cell.possible.AppendTo(w.ids[:0])
	w.weights = w.weights[:0]
	for _, id := range w.ids {
		w.weights = append(w.weights, w.table.Weight(id))
	}
	return rng.WeightedChoice(w.rng, w.ids, w.weights)
}

func (w *Wave) propagate(seeds []int) {
	resolved, err := w.engine.Propagate(seeds)
	w.remaining -= resolved
	if debugEnabled() {
		Logger().Debug("propagated",
			slog.Int("seeds", len(seeds)),
			slog.Int("resolved", resolved),
			slog.Bool("contradiction", err != nil))
	}
	if err == nil {
		return
	}

	var ce *ContradictionError
	if !errors.As(err, &ce) {
		panic(fmt.Sprintf("wave: unexpected propagation error: %v", err))
	}
	w.contradict(ce)
}

func (w *Wave) finish() {
	w.status = StatusDone
	Logger().Info("wave done",
		slog.Int("width", w.cells.Width()),
		slog.Int("height", w.cells.Height()),
		slog.Int("steps", w.steps))
}

func (w *Wave) contradict(ce *ContradictionError) {
	w.status = StatusContradiction
	w.conflict = ce
	Logger().Info("wave contradiction",
		slog.Int("x", ce.X),
		slog.Int("y", ce.Y),
		slog.Int("steps", w.steps),
		slog.Int("remaining", w.remaining))
}

func (w *Wave) label(id int) string {
	if name := w.table.Name(id); name != "" {
		return name
	}
	return fmt.Sprintf("#%d", id)
}

// Status returns the current status.
func (w *Wave) Status() Status { return w.status }

// Remaining returns the number of undecided cells.
func (w *Wave) Remaining() int { return w.remaining }

// Steps returns the number of ticks that collapsed a cell.
func (w *Wave) Steps() int { return w.steps }

// Width returns the grid width.
func (w *Wave) Width() int { return w.cells.Width() }

// Height returns the grid height.
func (w *Wave) Height() int { return w.cells.Height() }

// Table returns the pattern table the wave draws from.
func (w *Wave) Table() *pattern.Table { return w.table }

// History returns the explicit collapses in the order they happened.
func (w *Wave) History() []Collapse {
	out := make([]Collapse, len(w.history))
	copy(out, w.history)
	return out
}

// Contradiction returns the cell that ran out of patterns, if any.
func (w *Wave) Contradiction() (x, y int, ok bool) {
	if w.conflict == nil {
		return 0, 0, false
	}
	return w.conflict.X, w.conflict.Y, true
}

// Possible returns the patterns still allowed at (x, y).
func (w *Wave) Possible(x, y int) ([]int, error) {
	cell, err := w.cells.At(x, y)
	if err != nil {
		return nil, err
	}
	return cell.IDs(), nil
}

// Snapshot copies the visible state of every cell.
func (w *Wave) Snapshot() Snapshot {
	s := Snapshot{
		Width:     w.cells.Width(),
		Height:    w.cells.Height(),
		Status:    w.status,
		Steps:     w.steps,
		Remaining: w.remaining,
		Cells:     make([]CellState, w.cells.Len()),
	}
	for i, c := range w.cells.Cells() {
		id, ok := c.Collapsed()
		if !ok {
			id = noPattern
		}
		s.Cells[i] = CellState{Pattern: id, Count: c.Len(), Entropy: c.Entropy()}
	}
	return s
}

// Validate checks that every pair of adjacent collapsed cells is compatible.
func (w *Wave) Validate() error {
	for i, c := range w.cells.Cells() {
		a, ok := c.Collapsed()
		if !ok {
			continue
		}
		for _, d := range [...]grid.Direction{grid.Right, grid.Down} {
			n, ok := w.cells.Neighbor(i, d)
			if !ok {
				continue
			}
			b, ok := w.cells.Cell(n).Collapsed()
			if !ok || w.table.Compatible(a, d, b) {
				continue
			}
			x, y := w.cells.Coord(i)
			nx, ny := w.cells.Coord(n)
			return fmt.Errorf("%w: %s at (%d, %d) and %s at (%d, %d)",
				ErrAdjacencyViolated, w.label(a), x, y, w.label(b), nx, ny)
		}
	}
	return nil
}
