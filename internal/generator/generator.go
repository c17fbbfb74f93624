// Package generator produces complete tile grids by running waves until one
// finishes without a contradiction.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Mechazawa/wave-function-collapse/internal/pattern"
	"github.com/Mechazawa/wave-function-collapse/internal/wave"
)

var (
	ErrGenerationFailed = errors.New("failed to generate a consistent grid")
	ErrInvalidSize      = errors.New("grid size must be positive")
)

// Result is a finished grid and how it was reached.
type Result struct {
	Snapshot wave.Snapshot
	History  []wave.Collapse
	Seed     uint64 // Seed of the successful attempt
	Attempts int    // Attempts used, including the successful one
}

// Patterns returns the row-major pattern ids of the grid.
func (r *Result) Patterns() []int {
	ids, _ := r.Snapshot.Patterns()
	return ids
}

// Generator runs waves over one pattern table.
type Generator struct {
	table   *pattern.Table
	options *Options
	seed    uint64
}

// New creates a generator with the given options.
func New(table *pattern.Table, options *Options) *Generator {
	if options == nil {
		options = DefaultOptions()
	}

	seed := options.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	return &Generator{
		table:   table,
		options: options,
		seed:    seed,
	}
}

// Seed returns the seed of the first attempt.
func (g *Generator) Seed() uint64 {
	return g.seed
}

// Generate runs waves until one reaches StatusDone. Attempt n uses seed
// Seed+n. It gives up with ErrGenerationFailed once the attempts or the
// timeout are used up, when ctx is cancelled, or straight away when the
// fixed cells conflict with each other.
func (g *Generator) Generate(ctx context.Context) (*Result, error) {
	if g.table == nil {
		return nil, fmt.Errorf("%w: nil pattern table", wave.ErrInvalidArgument)
	}
	if g.options.Width <= 0 || g.options.Height <= 0 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrInvalidSize, g.options.Width, g.options.Height)
	}

	if g.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.options.Timeout)
		defer cancel()
	}

	attempts := max(g.options.Attempts, 1)
	var cause error
	tried := 0
	for attempt := range attempts {
		if err := ctx.Err(); err != nil {
			cause = err
			break
		}
		tried++

		seed := g.seed + uint64(attempt)
		w, err := wave.New(g.table, g.options.Width, g.options.Height, &wave.Options{
			Seed:      seed,
			Fixed:     g.options.Fixed,
			Wrap:      g.options.Wrap,
			Workers:   g.options.Workers,
			Selection: g.options.Selection,
		})
		if err != nil {
			return nil, err
		}

		status, err := g.run(ctx, w)
		if err != nil {
			cause = err
			break
		}
		if status == wave.StatusDone {
			if err := w.Validate(); err != nil {
				panic(fmt.Sprintf("generator: finished wave is inconsistent: %v", err))
			}
			return &Result{
				Snapshot: w.Snapshot(),
				History:  w.History(),
				Seed:     seed,
				Attempts: tried,
			}, nil
		}

		x, y, _ := w.Contradiction()
		cause = &wave.ContradictionError{X: x, Y: y}
		wave.Logger().Debug("attempt failed",
			slog.Int("attempt", tried),
			slog.Uint64("seed", seed),
			slog.Int("steps", w.Steps()))

		if w.Steps() == 0 {
			// The contradiction came from the fixed cells alone; no seed
			// changes that.
			break
		}
	}

	wave.Logger().Warn("generation failed",
		slog.Int("attempts", tried),
		slog.String("cause", cause.Error()))
	return nil, fmt.Errorf("%w after %d attempt(s): %w", ErrGenerationFailed, tried, cause)
}

// run steps w to a terminal status, reporting each step to OnStep.
func (g *Generator) run(ctx context.Context, w *wave.Wave) (wave.Status, error) {
	for !w.Status().Terminal() {
		if err := ctx.Err(); err != nil {
			return w.Status(), err
		}
		w.Step()
		if g.options.OnStep != nil {
			g.options.OnStep(w.Snapshot())
		}
	}
	return w.Status(), nil
}

// Generate is a convenience function that builds a width×height grid with
// default options.
func Generate(ctx context.Context, table *pattern.Table, width, height int) (*Result, error) {
	options := DefaultOptions()
	options.Width = width
	options.Height = height
	return New(table, options).Generate(ctx)
}
