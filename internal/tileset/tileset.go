// Package tileset turns tile definitions into a pattern table. Tiles are
// described by the sockets on their four edges; two tiles may touch when the
// facing sockets match.
package tileset

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/charmbracelet/lipgloss"

	"github.com/Mechazawa/wave-function-collapse/internal/grid"
	"github.com/Mechazawa/wave-function-collapse/internal/pattern"
	"github.com/Mechazawa/wave-function-collapse/internal/wave"
)

var ErrInvalidTileset = errors.New("invalid tileset")

// Tile is one placeable tile variant.
type Tile struct {
	Name   string
	Symbol string // Symbol is a single terminal cell wide
	Color  string // Color is a lipgloss color, or empty
	Weight float64
	// Sockets are read clockwise around the tile: up, right, down, left.
	Sockets [grid.DirectionCount]string
	// Rotation is the number of clockwise quarter turns applied to the
	// tile it was derived from.
	Rotation int
}

// Rotate returns the tile turned clockwise by one quarter.
func (t Tile) Rotate() Tile {
	r := t
	for _, d := range grid.Directions {
		// What faced left now faces up, and so on round the tile.
		r.Sockets[d] = t.Sockets[(d+grid.DirectionCount-1)%grid.DirectionCount]
	}
	r.Rotation = (t.Rotation + 1) % grid.DirectionCount
	return r
}

// Fits reports whether other may sit in direction d of t. Sockets are read
// clockwise, so the shared edge is read in opposite orders by the two tiles.
func (t Tile) Fits(d grid.Direction, other Tile) bool {
	return t.Sockets[d] == reverse(other.Sockets[d.Opposite()])
}

// Tileset is a list of tiles and the pattern table built from them. Pattern
// ids are indices into Tiles.
type Tileset struct {
	Name  string
	Tiles []Tile
	Table *pattern.Table
}

// New builds the pattern table for tiles by matching sockets.
func New(name string, tiles []Tile) (*Tileset, error) {
	if len(tiles) == 0 {
		return nil, fmt.Errorf("%w: no tiles", ErrInvalidTileset)
	}

	b := pattern.NewBuilder()
	for _, t := range tiles {
		if err := validateTile(t); err != nil {
			return nil, err
		}
		b.Add(t.Name, t.Weight)
	}
	for i, a := range tiles {
		for j, c := range tiles {
			for _, d := range grid.Directions {
				if a.Fits(d, c) {
					b.Allow(i, d, j)
				}
			}
		}
	}

	table, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidTileset, err)
	}

	for _, id := range table.Isolated() {
		wave.Logger().Warn("tile cannot connect on every side",
			slog.String("tileset", name),
			slog.String("tile", tiles[id].Name))
	}

	return &Tileset{Name: name, Tiles: slices.Clone(tiles), Table: table}, nil
}

func validateTile(t Tile) error {
	if t.Name == "" {
		return fmt.Errorf("%w: tile without a name", ErrInvalidTileset)
	}
	if w := lipgloss.Width(t.Symbol); w != 1 {
		return fmt.Errorf("%w: tile %q: symbol %q is %d cells wide, want 1", ErrInvalidTileset, t.Name, t.Symbol, w)
	}
	return nil
}

// Tile returns the tile of pattern id.
func (s *Tileset) Tile(id int) Tile {
	return s.Tiles[id]
}

// Lookup returns the pattern id of the tile called name.
func (s *Tileset) Lookup(name string) (int, bool) {
	return s.Table.Lookup(name)
}

// Symbols returns the symbol of every tile, indexed by pattern id.
func (s *Tileset) Symbols() []string {
	out := make([]string, len(s.Tiles))
	for i, t := range s.Tiles {
		out[i] = t.Symbol
	}
	return out
}

// Colors returns the color of every tile, indexed by pattern id.
func (s *Tileset) Colors() []string {
	out := make([]string, len(s.Tiles))
	for i, t := range s.Tiles {
		out[i] = t.Color
	}
	return out
}

func reverse(s string) string {
	r := []rune(s)
	slices.Reverse(r)
	return string(r)
}
