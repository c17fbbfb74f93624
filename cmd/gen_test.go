package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mechazawa/wave-function-collapse/internal/wave"
)

// resetFlags puts every flag of c and its subcommands back to its default.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execute(t *testing.T, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	resetFlags(rootCmd)
	t.Cleanup(func() { wave.SetLogger(nil) })

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	err = rootCmd.Execute()
	return out.String(), errOut.String(), err
}

// gridLines returns the rendered rows of the first grid in out.
func gridLines(t *testing.T, out string, height int) []string {
	t.Helper()
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), height)
	return lines[1 : height+1]
}

func TestGen_Demo(t *testing.T) {
	out, _, err := execute(t, "gen", "--size", "6x3", "--seed", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "Grid #1 (6x3, tileset roads, seed 1, 1 attempt(s)):")
	for _, line := range gridLines(t, out, 3) {
		assert.Equal(t, 6, lipgloss.Width(line))
		assert.NotContains(t, line, "\x1b[", "buffers get no color")
	}
}

func TestGen_Deterministic(t *testing.T) {
	a, _, err := execute(t, "gen", "-s", "12x6", "--seed", "9", "-n", "2")
	require.NoError(t, err)
	b, _, err := execute(t, "gen", "-s", "12x6", "--seed", "9", "-n", "2")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Contains(t, a, "Grid #2 (12x6, tileset roads, seed 10")
}

func TestGen_Fix(t *testing.T) {
	out, _, err := execute(t, "gen", "-s", "3x3", "--seed", "2", "--fix", "1,1=cross", "--fix", "0,0=corner@90")
	require.NoError(t, err)

	lines := gridLines(t, out, 3)
	assert.Equal(t, "┌", string([]rune(lines[0])[0]))
	assert.Equal(t, "┼", string([]rune(lines[1])[1]))
}

func TestGen_FixErrors(t *testing.T) {
	_, _, err := execute(t, "gen", "--fix", "1,1=bridge")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `has no tile "bridge"`)

	_, _, err = execute(t, "gen", "--fix", "nonsense")
	assert.Error(t, err)

	_, _, err = execute(t, "gen", "-s", "3x3", "--fix", "5,5=cross")
	require.Error(t, err)
	assert.ErrorIs(t, err, wave.ErrInvalidArgument)
}

func TestGen_TilesFile(t *testing.T) {
	out, _, err := execute(t, "gen", "--tiles", "../internal/tileset/testdata/pipes.yaml", "-s", "5x5", "--seed", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "tileset pipes")
}

func TestGen_Sample(t *testing.T) {
	out, _, err := execute(t, "gen", "--sample", "../internal/tileset/testdata/island.txt", "--wrap",
		"-s", "10x4", "--seed", "5", "--attempts", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "tileset island.txt")
	for _, line := range gridLines(t, out, 4) {
		assert.Empty(t, strings.Trim(line, "~.#"), "only sample characters appear")
	}
}

func TestGen_TilesAndSampleExclusive(t *testing.T) {
	_, _, err := execute(t, "gen", "--tiles", "a.yaml", "--sample", "b.txt")
	assert.Error(t, err)
}

func TestGen_InvalidNumber(t *testing.T) {
	_, _, err := execute(t, "gen", "-n", "0")
	assert.Error(t, err)
}

func TestGen_InvalidSize(t *testing.T) {
	_, _, err := execute(t, "gen", "--size", "0x3")
	assert.Error(t, err)
}

func TestGen_GivesUp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alternating.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
name: alternating
tiles:
  - {name: a, sockets: [x, p, x, q]}
  - {name: b, sockets: [x, q, x, p]}
`), 0o644))

	_, stderr, err := execute(t, "gen", "--tiles", path, "-s", "3x1", "--wrap", "--attempts", "4", "--seed", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "grid #1 (seed 1)")
	assert.Contains(t, err.Error(), "after 4 attempt(s)")
	assert.Contains(t, stderr, "generation failed")
}

func TestGen_OutputText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grids.txt")
	out, _, err := execute(t, "gen", "-s", "4x2", "-n", "2", "--seed", "3", "-o", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Generated 2 grid(s) in "+path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	grids := strings.Split(strings.TrimSpace(string(data)), "\n\n")
	require.Len(t, grids, 2)
	for _, g := range grids {
		assert.Len(t, strings.Split(g, "\n"), 2)
	}
}

func TestGen_OutputHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grids.html")
	_, _, err := execute(t, "gen", "-s", "4x2", "-n", "2", "--seed", "3", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	page := string(data)
	assert.True(t, strings.HasPrefix(page, "<!DOCTYPE html>"))
	assert.Contains(t, page, "<title>Tileset roads</title>")
	assert.Contains(t, page, "Grid #2")
	assert.Equal(t, 2, strings.Count(page, "<table>"))
	assert.Equal(t, 16, strings.Count(page, "<td "))
}

func TestGen_Trace(t *testing.T) {
	_, stderr, err := execute(t, "gen", "-s", "3x3", "--seed", "1", "--trace")
	require.NoError(t, err)
	assert.Contains(t, stderr, "running: ")
	assert.Contains(t, stderr, "done: 9/9 cells collapsed (100%)")
}

func TestGen_TraceInterval(t *testing.T) {
	_, stderr, err := execute(t, "gen", "-s", "3x3", "--seed", "1", "--trace", "--trace-interval", "1h")
	require.NoError(t, err)
	// The first step and the terminal one.
	assert.Equal(t, 2, strings.Count(stderr, "cells collapsed"))
	assert.Contains(t, stderr, "done: 9/9 cells collapsed (100%)")
}

func TestGen_Verbose(t *testing.T) {
	_, stderr, err := execute(t, "-v", "gen", "-s", "3x3", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, stderr, "wave done")
	assert.NotContains(t, stderr, "collapsed cell")

	_, stderr, err = execute(t, "-vv", "gen", "-s", "3x3", "--seed", "1")
	require.NoError(t, err)
	assert.Contains(t, stderr, "collapsed cell")
}

func TestGen_Workers(t *testing.T) {
	a, _, err := execute(t, "gen", "-s", "10x10", "--seed", "6", "--workers", "4")
	require.NoError(t, err)
	b, _, err := execute(t, "gen", "-s", "10x10", "--seed", "6", "--workers", "4")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestTiles(t *testing.T) {
	out, _, err := execute(t, "tiles")
	require.NoError(t, err)

	assert.Contains(t, out, "Tileset roads: 16 tiles")
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "corner@270")
	assert.Contains(t, out, "┼")
}

func TestTiles_Sample(t *testing.T) {
	out, _, err := execute(t, "tiles", "--sample", "../internal/tileset/testdata/island.txt")
	require.NoError(t, err)
	assert.Contains(t, out, "Tileset island.txt: 3 tiles")
}
