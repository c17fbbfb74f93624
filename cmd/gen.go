package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/Mechazawa/wave-function-collapse/internal/generator"
	"github.com/Mechazawa/wave-function-collapse/internal/render"
	"github.com/Mechazawa/wave-function-collapse/internal/tileset"
	"github.com/Mechazawa/wave-function-collapse/internal/wave"
)

var (
	numGrids   int
	tilesFile  string
	sampleFile string
	gridSize   = sizeValue{width: generator.DefaultWidth, height: generator.DefaultHeight}
	seed       uint64
	attempts   int
	timeout    time.Duration
	workers    int
	wrap       bool
	frontier   bool
	fixed      []string
	outputFile string
	noColor    bool
	framed     bool
	trace      bool
	traceEvery time.Duration
)

func init() {
	genCmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate tile grids",
		Long: `Generate one or more tile grids from a tileset.

Examples:
  wfc gen --size 40x20
  wfc gen --tiles pipes.yaml --seed 7 --wrap
  wfc gen --sample island.txt -n 3 --output maps.html
  wfc gen --fix 0,0=corner@90 --fix 19,19=corner@270`,
		Args: cobra.NoArgs,
		RunE: runGen,
	}

	addTilesetFlags(genCmd)
	genCmd.Flags().IntVarP(&numGrids, "number", "n", 1, "Number of grids to generate")
	genCmd.Flags().VarP(&gridSize, "size", "s", "Grid size, e.g. 40x20")
	genCmd.Flags().Uint64Var(&seed, "seed", 0, "Seed of the first grid (0 = random)")
	genCmd.Flags().IntVar(&attempts, "attempts", generator.DefaultAttempts, "Attempts per grid before giving up")
	genCmd.Flags().DurationVar(&timeout, "timeout", 30*time.Second, "Generation timeout per grid")
	genCmd.Flags().IntVarP(&workers, "workers", "w", 1, "Propagation workers")
	genCmd.Flags().BoolVar(&frontier, "frontier", false, "Grow the grid outward from collapsed cells")
	genCmd.Flags().StringArrayVar(&fixed, "fix", nil, "Pin a cell to a tile, as x,y=tile (repeatable)")
	genCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (.html for a colored page, anything else for text)")
	genCmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	genCmd.Flags().BoolVar(&framed, "frame", false, "Draw a border around each grid")
	genCmd.Flags().BoolVar(&trace, "trace", false, "Print the grid after every step to stderr")
	genCmd.Flags().DurationVar(&traceEvery, "trace-interval", 0, "Minimum time between traced frames (0 = every step)")

	rootCmd.AddCommand(genCmd)
}

// addTilesetFlags registers the flags that choose a tileset.
func addTilesetFlags(c *cobra.Command) {
	c.Flags().StringVarP(&tilesFile, "tiles", "t", "", "Tileset file (YAML or JSON)")
	c.Flags().StringVar(&sampleFile, "sample", "", "Text sample to learn a tileset from")
	c.Flags().BoolVar(&wrap, "wrap", false, "Wrap the grid (and the sample) around its edges")
	c.MarkFlagsMutuallyExclusive("tiles", "sample")
}

// loadTileset returns the tileset picked by the flags, the built-in demo
// if none was given.
func loadTileset() (*tileset.Tileset, error) {
	switch {
	case tilesFile != "":
		return tileset.Load(tilesFile)
	case sampleFile != "":
		f, err := os.Open(sampleFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		ts, err := tileset.Learn(filepath.Base(sampleFile), f, wrap)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", sampleFile, err)
		}
		return ts, nil
	}
	return tileset.Demo(), nil
}

// resolveFixed turns --fix arguments into pinned cells of ts.
func resolveFixed(ts *tileset.Tileset, args []string) ([]wave.Fixed, error) {
	var out []wave.Fixed
	for _, s := range args {
		p, err := parseFix(s)
		if err != nil {
			return nil, err
		}
		id, ok := ts.Lookup(p.Tile)
		if !ok {
			return nil, fmt.Errorf("fixed cell %q: tileset %q has no tile %q", s, ts.Name, p.Tile)
		}
		out = append(out, wave.Fixed{X: p.X, Y: p.Y, Pattern: id})
	}
	return out, nil
}

// useColor reports whether output to w should be styled.
func useColor(w io.Writer) bool {
	if noColor || os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

func runGen(cmd *cobra.Command, args []string) error {
	if numGrids < 1 {
		return fmt.Errorf("number of grids must be at least 1, got %d", numGrids)
	}

	ts, err := loadTileset()
	if err != nil {
		return err
	}
	pins, err := resolveFixed(ts, fixed)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	textOptions := &render.Options{Color: useColor(out), Framed: framed}

	opts := generator.DefaultOptions()
	opts.Width, opts.Height = gridSize.width, gridSize.height
	opts.Attempts = attempts
	opts.Timeout = timeout
	opts.Workers = workers
	opts.Wrap = wrap
	opts.Fixed = pins
	if frontier {
		opts.Selection = wave.SelectFrontier
	}
	if trace {
		errOut := cmd.ErrOrStderr()
		traceOptions := &render.Options{Color: useColor(errOut), Framed: true}
		frames := &rate.Sometimes{Every: 1}
		if traceEvery > 0 {
			frames = &rate.Sometimes{Interval: traceEvery}
		}
		opts.OnStep = func(s wave.Snapshot) {
			frame := func() {
				fmt.Fprintf(errOut, "%s\n%s\n\n", render.Summary(s), render.Text(s, ts, traceOptions))
			}
			// The final frame of an attempt is never dropped.
			if s.Status.Terminal() {
				frame()
				return
			}
			frames.Do(frame)
		}
	}

	// Grid i starts from the seed after the last attempt of grid i-1, so a
	// fixed --seed reproduces the whole batch.
	var results []*generator.Result
	next := seed
	for i := range numGrids {
		opts.Seed = next
		gen := generator.New(ts.Table, opts)

		res, err := gen.Generate(cmd.Context())
		if err != nil {
			if errors.Is(err, generator.ErrGenerationFailed) {
				return fmt.Errorf("grid #%d (seed %d): %w", i+1, gen.Seed(), err)
			}
			return err
		}
		results = append(results, res)
		next = res.Seed + 1

		if outputFile == "" {
			fmt.Fprintf(out, "Grid #%d (%dx%d, tileset %s, seed %d, %d attempt(s)):\n",
				i+1, opts.Width, opts.Height, ts.Name, res.Seed, res.Attempts)
			fmt.Fprintln(out, render.Text(res.Snapshot, ts, textOptions))
			fmt.Fprintln(out)
		}
	}

	if outputFile == "" {
		return nil
	}

	filename := outputFile
	if strings.EqualFold(filepath.Ext(filename), ".html") {
		err = generateHTML(filename, ts, results)
	} else {
		err = generateText(filename, ts, results)
	}
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	fmt.Fprintf(out, "Generated %d grid(s) in %s\n", numGrids, filename)
	return nil
}

// generateText writes the grids to filename as plain text, separated by
// blank lines.
func generateText(filename string, ts *tileset.Tileset, results []*generator.Result) error {
	var sb strings.Builder
	for i, res := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(render.Text(res.Snapshot, ts, &render.Options{}))
	}
	sb.WriteString("\n")
	return os.WriteFile(filename, []byte(sb.String()), 0o644)
}
