package wave

import (
	"testing"

	"github.com/Mechazawa/wave-function-collapse/internal/grid"
	"github.com/Mechazawa/wave-function-collapse/internal/pattern"
	"github.com/stretchr/testify/require"
)

const testSeed = 42

// singleTable has one self-compatible pattern.
func singleTable(t testing.TB) *pattern.Table {
	t.Helper()
	b := pattern.NewBuilder()
	a := b.Add("only", 1)
	b.ConnectAll(a, a)
	tbl, err := b.Build()
	require.NoError(t, err)
	return tbl
}

// pairTable has A and B, each compatible only with itself.
func pairTable(t testing.TB) (*pattern.Table, int, int) {
	t.Helper()
	b := pattern.NewBuilder()
	a := b.Add("A", 1)
	bb := b.Add("B", 1)
	b.ConnectAll(a, a)
	b.ConnectAll(bb, bb)
	tbl, err := b.Build()
	require.NoError(t, err)
	return tbl, a, bb
}

// openTable has n patterns that may all sit next to each other.
func openTable(t testing.TB, weights ...float64) *pattern.Table {
	t.Helper()
	b := pattern.NewBuilder()
	for _, w := range weights {
		b.Add("", w)
	}
	for i := range weights {
		for j := range weights {
			b.ConnectAll(i, j)
		}
	}
	tbl, err := b.Build()
	require.NoError(t, err)
	return tbl
}

// chainTable links patterns 0-1-2-...: each is compatible with itself and
// its direct successor, in every direction.
func chainTable(t testing.TB, n int) *pattern.Table {
	t.Helper()
	b := pattern.NewBuilder()
	for range n {
		b.Add("", 1)
	}
	for i := range n {
		b.ConnectAll(i, i)
		if i+1 < n {
			b.ConnectAll(i, i+1)
		}
	}
	tbl, err := b.Build()
	require.NoError(t, err)
	return tbl
}

// ringTable connects tile i with the next few tiles modulo count, with
// different offsets per direction and varied weights, so waves see
// non-trivial cascades and the occasional contradiction.
func ringTable(t testing.TB, count int) *pattern.Table {
	t.Helper()
	b := pattern.NewBuilder()
	for i := range count {
		b.Add("", float64((i%5+1)*10))
	}
	for i := range count {
		for k := range min(count, 3) {
			b.Connect(i, grid.Up, (i+k)%count)
			b.Connect(i, grid.Right, (i+k+1)%count)
		}
	}
	tbl, err := b.Build()
	require.NoError(t, err)
	return tbl
}

// roadTable is a socket tileset: an edge connects when both sides carry the
// same socket.
func roadTable(t testing.TB) *pattern.Table {
	t.Helper()
	type tile struct {
		name    string
		sockets [grid.DirectionCount]int // up, right, down, left
		weight  float64
	}
	tiles := []tile{
		{"empty", [4]int{0, 0, 0, 0}, 4},
		{"road_ns", [4]int{1, 0, 1, 0}, 2},
		{"road_ew", [4]int{0, 1, 0, 1}, 3},
		{"corner_ne", [4]int{1, 1, 0, 0}, 3},
		{"corner_es", [4]int{0, 1, 1, 0}, 1},
		{"corner_sw", [4]int{0, 0, 1, 1}, 1},
		{"corner_wn", [4]int{1, 0, 0, 1}, 3},
	}

	b := pattern.NewBuilder()
	for _, tl := range tiles {
		b.Add(tl.name, tl.weight)
	}
	for i, a := range tiles {
		for j, c := range tiles {
			for _, d := range grid.Directions {
				if a.sockets[d] == c.sockets[d.Opposite()] {
					b.Allow(i, d, j)
				}
			}
		}
	}
	tbl, err := b.Build()
	require.NoError(t, err)
	return tbl
}

func newWave(t testing.TB, tbl *pattern.Table, w, h int, opts *Options) *Wave {
	t.Helper()
	wv, err := New(tbl, w, h, opts)
	require.NoError(t, err)
	return wv
}

// possibilities copies every cell's remaining ids.
func possibilities(w *Wave) [][]int {
	out := make([][]int, w.cells.Len())
	for i := range out {
		out[i] = w.cells.Cell(i).IDs()
	}
	return out
}
