package tileset

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Mechazawa/wave-function-collapse/internal/grid"
	"github.com/Mechazawa/wave-function-collapse/internal/pattern"
)

// Learn builds a tileset from a text sample. Every distinct character is a
// tile weighted by how often it occurs, and two tiles may touch in a
// direction exactly when they touch that way somewhere in the sample. With
// wrap the sample's opposite edges count as touching.
func Learn(name string, r io.Reader, wrap bool) (*Tileset, error) {
	rows, err := readSample(r)
	if err != nil {
		return nil, err
	}

	cells, err := grid.New(len(rows[0]), len(rows), wrap, func(int, int) int {
		return -1
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTileset, err)
	}

	ids := map[rune]int{}
	var symbols []rune
	var counts []int
	for y, row := range rows {
		for x, ch := range row {
			id, ok := ids[ch]
			if !ok {
				if w := lipgloss.Width(string(ch)); w != 1 {
					return nil, fmt.Errorf("%w: sample character %q at (%d, %d) is %d cells wide", ErrInvalidTileset, ch, x, y, w)
				}
				id = len(symbols)
				ids[ch] = id
				symbols = append(symbols, ch)
				counts = append(counts, 0)
			}
			counts[id]++
			*cells.Cell(cells.Index(x, y)) = id
		}
	}

	b := pattern.NewBuilder()
	for id, ch := range symbols {
		b.Add(string(ch), float64(counts[id]))
	}
	for i := range cells.Len() {
		from := *cells.Cell(i)
		for _, d := range grid.Directions {
			if n, ok := cells.Neighbor(i, d); ok {
				b.Connect(from, d, *cells.Cell(n))
			}
		}
	}

	table, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTileset, err)
	}

	tiles := make([]Tile, len(symbols))
	for id, ch := range symbols {
		tiles[id] = Tile{Name: string(ch), Symbol: string(ch), Weight: float64(counts[id])}
	}
	return &Tileset{Name: name, Tiles: tiles, Table: table}, nil
}

// readSample returns the non-empty lines of r, which must all be the same
// length.
func readSample(r io.Reader) ([][]rune, error) {
	var rows [][]rune
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			continue
		}
		row := []rune(line)
		if len(rows) > 0 && len(row) != len(rows[0]) {
			return nil, fmt.Errorf("%w: sample line %d has %d characters, want %d", ErrInvalidTileset, len(rows)+1, len(row), len(rows[0]))
		}
		rows = append(rows, row)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty sample", ErrInvalidTileset)
	}
	return rows, nil
}
