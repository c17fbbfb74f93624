// Package rng isolates every source of randomness the solver uses behind a
// seeded, reproducible generator.
package rng

import (
	"math/rand/v2"
)

// Source is the subset of *rand.Rand the solver draws from.
type Source interface {
	Float64() float64
	IntN(n int) int
}

// streamSalt decorrelates the two PCG words derived from one seed.
const streamSalt = 0x9e3779b97f4a7c15

// New returns a PCG generator determined entirely by seed.
// Two generators built from the same seed yield the same sequence.
func New(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^streamSalt))
}

// WeightedChoice picks one of ids with probability proportional to its weight.
// weights[i] belongs to ids[i]; non-positive weights are never chosen.
// It panics if no id has a positive weight, which indicates a caller bug.
func WeightedChoice(src Source, ids []int, weights []float64) int {
	if len(ids) != len(weights) {
		panic("rng: ids and weights differ in length")
	}

	var total float64
	for _, w := range weights {
		if w > 0 {
			total += w
		}
	}
	if total <= 0 {
		panic("rng: weighted choice needs at least one positive weight")
	}

	r := src.Float64() * total
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		last = i
		r -= w
		if r < 0 {
			return ids[i]
		}
	}
	// Floating-point slack can leave r at exactly zero past the final bucket.
	return ids[last]
}
