package rng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type fixed float64

func (f fixed) Float64() float64 { return float64(f) }
func (f fixed) IntN(int) int     { return 0 }

func TestNew_Reproducible(t *testing.T) {
	a, b := New(42), New(42)
	for range 100 {
		assert.Equal(t, a.Uint64(), b.Uint64())
	}

	c := New(43)
	same := true
	for range 10 {
		if a.Uint64() != c.Uint64() {
			same = false
		}
	}
	assert.False(t, same, "different seeds should diverge")
}

func TestWeightedChoice_Buckets(t *testing.T) {
	ids := []int{10, 20, 30}
	weights := []float64{1, 2, 1} // buckets [0,1) [1,3) [3,4) of total 4

	assert.Equal(t, 10, WeightedChoice(fixed(0), ids, weights))
	assert.Equal(t, 10, WeightedChoice(fixed(0.24), ids, weights))
	assert.Equal(t, 20, WeightedChoice(fixed(0.25), ids, weights))
	assert.Equal(t, 20, WeightedChoice(fixed(0.74), ids, weights))
	assert.Equal(t, 30, WeightedChoice(fixed(0.75), ids, weights))
	assert.Equal(t, 30, WeightedChoice(fixed(0.999999), ids, weights))
}

func TestWeightedChoice_SkipsNonPositive(t *testing.T) {
	ids := []int{1, 2, 3}
	weights := []float64{0, 5, -1}
	for _, f := range []float64{0, 0.5, 0.99} {
		assert.Equal(t, 2, WeightedChoice(fixed(f), ids, weights))
	}
}

func TestWeightedChoice_Distribution(t *testing.T) {
	src := New(7)
	ids := []int{0, 1}
	weights := []float64{1000, 1}

	hits := 0
	const trials = 1000
	for range trials {
		if WeightedChoice(src, ids, weights) == 0 {
			hits++
		}
	}
	assert.Greater(t, hits, trials*9/10)
}

func TestWeightedChoice_PanicsWithoutWeight(t *testing.T) {
	assert.Panics(t, func() { WeightedChoice(fixed(0), []int{1}, []float64{0}) })
	assert.Panics(t, func() { WeightedChoice(fixed(0), []int{1}, nil) })
}
