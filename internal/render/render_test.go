package render

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mechazawa/wave-function-collapse/internal/tileset"
	"github.com/Mechazawa/wave-function-collapse/internal/wave"
)

func testTileset(t *testing.T) *tileset.Tileset {
	t.Helper()
	ts, err := tileset.New("test", []tileset.Tile{
		{Name: "land", Symbol: "#", Color: "#5f875f", Weight: 1, Sockets: [4]string{"l", "l", "l", "l"}},
		{Name: "water", Symbol: "~", Weight: 1, Sockets: [4]string{"w", "w", "w", "w"}},
	})
	require.NoError(t, err)
	return ts
}

// snapshot is a 3x2 grid: two tiles, three undecided counts and an empty
// cell.
func snapshot() wave.Snapshot {
	return wave.Snapshot{
		Width:     3,
		Height:    2,
		Status:    wave.StatusContradiction,
		Steps:     4,
		Remaining: 4,
		Cells: []wave.CellState{
			{Pattern: 0, Count: 1}, {Pattern: 1, Count: 1}, {Pattern: -1, Count: 7},
			{Pattern: -1, Count: 11}, {Pattern: -1, Count: 40}, {Pattern: -1, Count: 0},
		},
	}
}

func trueColor() *lipgloss.Renderer {
	r := lipgloss.NewRenderer(io.Discard)
	r.SetColorProfile(termenv.TrueColor)
	return r
}

func TestText_Plain(t *testing.T) {
	out := Text(snapshot(), testTileset(t), &Options{})
	assert.Equal(t, "#~7\nb+!", out)
}

func TestText_Color(t *testing.T) {
	ts := testTileset(t)
	out := Text(snapshot(), ts, &Options{Color: true, Renderer: trueColor()})

	assert.Contains(t, out, "\x1b[")
	assert.Contains(t, out, "38;2;95;135;95", "land keeps its configured color")

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 2)
	for _, line := range lines {
		assert.Equal(t, 3, lipgloss.Width(line))
	}
}

func TestText_Framed(t *testing.T) {
	out := Text(snapshot(), testTileset(t), &Options{Framed: true, Renderer: trueColor()})

	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "╭")
	assert.Contains(t, lines[1], "#~7")
	assert.Contains(t, lines[3], "╰")
	assert.Equal(t, 5, lipgloss.Width(lines[1]))
}

func TestText_NilOptions(t *testing.T) {
	out := Text(snapshot(), testTileset(t), nil)
	// Whatever the profile of the test process, the text is the same.
	for _, line := range strings.Split(out, "\n") {
		assert.Equal(t, 3, lipgloss.Width(line))
	}
}

func TestText_Wave(t *testing.T) {
	ts := tileset.Demo()
	w, err := wave.New(ts.Table, 8, 4, &wave.Options{Seed: 1})
	require.NoError(t, err)

	fresh := Text(w.Snapshot(), ts, &Options{})
	assert.Equal(t, strings.Repeat("g", 8), strings.Split(fresh, "\n")[0], "16 patterns print as g")

	require.Equal(t, wave.StatusDone, w.Run())
	done := Text(w.Snapshot(), ts, &Options{})
	assert.NotContains(t, done, "g")
	assert.NotContains(t, done, "!")
	assert.Len(t, strings.Split(done, "\n"), 4)
}

func TestSummary(t *testing.T) {
	assert.Equal(t, "contradiction: 2/6 cells collapsed (33%), 4 steps", Summary(snapshot()))
}
