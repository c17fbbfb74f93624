// Package render draws wave snapshots as terminal text.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Mechazawa/wave-function-collapse/internal/tileset"
	"github.com/Mechazawa/wave-function-collapse/internal/wave"
)

var (
	colorPending       = lipgloss.Color("#6C7A89")
	colorContradiction = lipgloss.Color("#E74C3C")
	colorBorder        = lipgloss.Color("#16858E")
)

// Options configures rendering.
type Options struct {
	Color  bool // Color styles tiles with their configured colors
	Framed bool // Framed draws a rounded border around the grid
	// Renderer overrides the lipgloss default renderer, which picks the
	// color profile of stdout.
	Renderer *lipgloss.Renderer
}

// DefaultOptions returns colored, unframed rendering.
func DefaultOptions() *Options {
	return &Options{Color: true}
}

// Text renders snap one character per cell. Collapsed cells show their tile
// symbol; undecided cells show how many patterns remain in base 36, or "+"
// past 35; cells with no pattern left show "!".
func Text(snap wave.Snapshot, ts *tileset.Tileset, options *Options) string {
	if options == nil {
		options = DefaultOptions()
	}
	p := newPainter(ts, options)

	var sb strings.Builder
	for y := range snap.Height {
		if y > 0 {
			sb.WriteByte('\n')
		}
		for x := range snap.Width {
			sb.WriteString(p.cell(snap.At(x, y)))
		}
	}

	out := sb.String()
	if options.Framed {
		out = p.style().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Render(out)
	}
	return out
}

// Summary describes the progress of snap in one line.
func Summary(snap wave.Snapshot) string {
	total := snap.Width * snap.Height
	return fmt.Sprintf("%s: %d/%d cells collapsed (%.0f%%), %d steps",
		snap.Status, total-snap.Remaining, total, snap.Progress()*100, snap.Steps)
}

// painter caches one symbol and one style per tile.
type painter struct {
	symbols  []string
	color    bool
	renderer *lipgloss.Renderer
	tiles    []lipgloss.Style
	pending  lipgloss.Style
	broken   lipgloss.Style
}

func newPainter(ts *tileset.Tileset, options *Options) *painter {
	p := &painter{symbols: ts.Symbols(), color: options.Color, renderer: options.Renderer}
	if !p.color {
		return p
	}

	colors := ts.Colors()
	p.tiles = make([]lipgloss.Style, len(colors))
	for i, c := range colors {
		s := p.style()
		if c != "" {
			s = s.Foreground(lipgloss.Color(c))
		}
		p.tiles[i] = s
	}
	p.pending = p.style().Foreground(colorPending)
	p.broken = p.style().Foreground(colorContradiction).Bold(true)
	return p
}

func (p *painter) style() lipgloss.Style {
	if p.renderer != nil {
		return p.renderer.NewStyle()
	}
	return lipgloss.NewStyle()
}

func (p *painter) cell(c wave.CellState) string {
	switch {
	case c.Collapsed():
		sym := p.symbols[c.Pattern]
		if p.color {
			return p.tiles[c.Pattern].Render(sym)
		}
		return sym
	case c.Count == 0:
		if p.color {
			return p.broken.Render("!")
		}
		return "!"
	default:
		s := "+"
		if c.Count < 36 {
			s = strconv.FormatInt(int64(c.Count), 36)
		}
		if p.color {
			return p.pending.Render(s)
		}
		return s
	}
}
