package wave

import "github.com/Mechazawa/wave-function-collapse/internal/rng"

// Selection chooses how observation picks the next cell to collapse.
type Selection int

const (
	// SelectMinEntropy picks the undecided cell with the lowest entropy.
	// Ties go to the lowest row-major index.
	SelectMinEntropy Selection = iota
	// SelectFrontier breaks entropy ties in favour of cells touching a
	// collapsed one, so the output grows outward from what is already
	// placed. It never picks a cell above the minimum entropy; when no
	// minimum-entropy cell touches a collapsed one it behaves like
	// SelectMinEntropy.
	SelectFrontier
)

func (s Selection) String() string {
	switch s {
	case SelectMinEntropy:
		return "min-entropy"
	case SelectFrontier:
		return "frontier"
	}
	return "unknown"
}

// Fixed pins one cell to a pattern before the first step.
type Fixed struct {
	X, Y    int
	Pattern int
}

// Options configures a Wave.
type Options struct {
	Seed      uint64     // Seed for the default random source
	Source    rng.Source // Source overrides Seed when non-nil
	Fixed     []Fixed    // Cells collapsed and propagated during New
	Wrap      bool       // Wrap makes the grid toroidal
	Workers   int        // Workers > 1 propagates in parallel
	Selection Selection
}

// DefaultOptions returns single-threaded, bounded, min-entropy options.
func DefaultOptions() *Options {
	return &Options{
		Seed:      0,
		Workers:   1,
		Selection: SelectMinEntropy,
	}
}
