// Package grid provides a row-major 2-D cell store with bounded or wrapping
// neighbour lookup.
package grid

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds = errors.New("coordinate out of bounds")
	ErrInvalidSize = errors.New("grid dimensions must be positive")
)

// Neighbor is one adjacent cell of a coordinate.
type Neighbor struct {
	Dir  Direction
	X, Y int
}

// Grid stores one T per cell. Cells are addressed either by (x, y) or by
// their row-major index y*width + x.
type Grid[T any] struct {
	width  int
	height int
	wrap   bool
	cells  []T

	// links[i*DirectionCount+d] is the index of the neighbour of i in
	// direction d, or -1 when there is none.
	links []int
}

// New creates a width×height grid and fills it by calling init for each
// coordinate in row-major order. When wrap is set the grid is toroidal.
func New[T any](width, height int, wrap bool, init func(x, y int) T) (*Grid[T], error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, width, height)
	}

	g := &Grid[T]{
		width:  width,
		height: height,
		wrap:   wrap,
		cells:  make([]T, 0, width*height),
		links:  make([]int, width*height*DirectionCount),
	}
	for y := range height {
		for x := range width {
			g.cells = append(g.cells, init(x, y))
		}
	}
	g.buildLinks()
	return g, nil
}

// buildLinks precomputes the neighbour table so lookups in the hot
// propagation loop are a single slice read.
func (g *Grid[T]) buildLinks() {
	for i := range g.cells {
		x, y := g.Coord(i)
		for _, d := range Directions {
			g.links[i*DirectionCount+int(d)] = g.step(i, x, y, d)
		}
	}
}

func (g *Grid[T]) step(i, x, y int, d Direction) int {
	dx, dy := d.Offset()
	nx, ny := x+dx, y+dy
	if g.wrap {
		nx = (nx + g.width) % g.width
		ny = (ny + g.height) % g.height
	}
	if !g.InBounds(nx, ny) {
		return -1
	}
	n := g.Index(nx, ny)
	if n == i {
		// A one-cell wrapping axis would make a cell its own neighbour.
		return -1
	}
	return n
}

// Width returns the number of columns.
func (g *Grid[T]) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid[T]) Height() int { return g.height }

// Len returns the number of cells.
func (g *Grid[T]) Len() int { return len(g.cells) }

// Index transforms a coordinate into a row-major index.
// The coordinate is not bounds checked.
func (g *Grid[T]) Index(x, y int) int {
	return y*g.width + x
}

// Coord is the inverse of Index.
func (g *Grid[T]) Coord(i int) (x, y int) {
	return i % g.width, i / g.width
}

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid[T]) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// At returns the cell at (x, y).
func (g *Grid[T]) At(x, y int) (*T, error) {
	if !g.InBounds(x, y) {
		return nil, fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfBounds, x, y, g.width, g.height)
	}
	return &g.cells[g.Index(x, y)], nil
}

// Cell returns the cell at index i. It panics if i is out of range.
func (g *Grid[T]) Cell(i int) *T {
	return &g.cells[i]
}

// Cells exposes the backing slice in row-major order.
func (g *Grid[T]) Cells() []T {
	return g.cells
}

// Neighbor returns the index of the cell adjacent to i in direction d.
// ok is false at a non-wrapping edge.
func (g *Grid[T]) Neighbor(i int, d Direction) (n int, ok bool) {
	n = g.links[i*DirectionCount+int(d)]
	return n, n >= 0
}

// Neighbors returns every existing neighbour of (x, y) in clockwise order.
// Edge cells simply have fewer entries.
func (g *Grid[T]) Neighbors(x, y int) []Neighbor {
	if !g.InBounds(x, y) {
		return nil
	}
	i := g.Index(x, y)
	out := make([]Neighbor, 0, DirectionCount)
	for _, d := range Directions {
		if n, ok := g.Neighbor(i, d); ok {
			nx, ny := g.Coord(n)
			out = append(out, Neighbor{Dir: d, X: nx, Y: ny})
		}
	}
	return out
}
