package tileset

import (
	"os"
	"strings"
	"testing"

	"github.com/Mechazawa/wave-function-collapse/internal/grid"
	"github.com/Mechazawa/wave-function-collapse/internal/wave"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLearn(t *testing.T) {
	f, err := os.Open("testdata/island.txt")
	require.NoError(t, err)
	defer f.Close()

	ts, err := Learn("island", f, false)
	require.NoError(t, err)

	assert.Equal(t, []string{"~", ".", "#"}, ts.Symbols())
	assert.Equal(t, 24.0, ts.Table.Weight(0))
	assert.Equal(t, 8.0, ts.Table.Weight(1))
	assert.Equal(t, 4.0, ts.Table.Weight(2))

	water, _ := ts.Lookup("~")
	beach, _ := ts.Lookup(".")
	land, _ := ts.Lookup("#")
	for _, d := range grid.Directions {
		assert.False(t, ts.Table.Compatible(land, d, water), "land never touches water (%s)", d)
		assert.True(t, ts.Table.Compatible(land, d, beach), "land touches the beach (%s)", d)
		assert.True(t, ts.Table.Compatible(water, d, water))
	}
}

func TestLearn_Generates(t *testing.T) {
	f, err := os.Open("testdata/island.txt")
	require.NoError(t, err)
	defer f.Close()

	ts, err := Learn("island", f, true)
	require.NoError(t, err)

	w, err := wave.New(ts.Table, 16, 16, &wave.Options{Seed: 3})
	require.NoError(t, err)
	if w.Run() == wave.StatusDone {
		assert.NoError(t, w.Validate())
	}
}

func TestLearn_Wrap(t *testing.T) {
	// Unwrapped, nothing is ever left of a.
	sample := "ab\nab\n"
	plain, err := Learn("s", strings.NewReader(sample), false)
	require.NoError(t, err)
	wrapped, err := Learn("s", strings.NewReader(sample), true)
	require.NoError(t, err)

	assert.False(t, plain.Table.Compatible(0, grid.Left, 1))
	assert.True(t, wrapped.Table.Compatible(0, grid.Left, 1))
}

func TestLearn_Invalid(t *testing.T) {
	tests := map[string]string{
		"empty":  "\n\n",
		"ragged": "abc\nab\n",
		"wide":   "a世\nab\n",
	}
	for name, sample := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Learn("bad", strings.NewReader(sample), false)
			assert.ErrorIs(t, err, ErrInvalidTileset)
		})
	}
}
