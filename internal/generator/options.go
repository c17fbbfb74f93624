package generator

import (
	"time"

	"github.com/Mechazawa/wave-function-collapse/internal/wave"
)

const (
	DefaultWidth    = 20
	DefaultHeight   = 20
	DefaultAttempts = 10
)

// Options configures generation behavior.
type Options struct {
	Width     int           // Width of the output grid in cells
	Height    int           // Height of the output grid in cells
	Seed      uint64        // Seed of the first attempt (0 = random)
	Attempts  int           // Attempts caps how many waves are tried
	Timeout   time.Duration // Timeout limits total generation time (0 = none)
	Workers   int           // Workers > 1 propagates in parallel
	Wrap      bool          // Wrap makes the output tile seamlessly
	Selection wave.Selection
	// Fixed pins cells before the first step of every attempt.
	Fixed []wave.Fixed
	// OnStep, if set, receives a snapshot after every step.
	OnStep func(wave.Snapshot)
}

// DefaultOptions returns standard generator options.
func DefaultOptions() *Options {
	return &Options{
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Seed:      0,
		Attempts:  DefaultAttempts,
		Timeout:   30 * time.Second,
		Workers:   1,
		Selection: wave.SelectMinEntropy,
	}
}
