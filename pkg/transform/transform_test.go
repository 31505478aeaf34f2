package transform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeometricAdstock_Impulse(t *testing.T) {
	x := []float64{1, 0, 0, 0}

	got := GeometricAdstock(x, 0.5, 3, false)
	assert.InDeltaSlice(t, []float64{1, 0.5, 0.25, 0}, got, 1e-12,
		"an impulse should decay geometrically over the lag window")
}

func TestGeometricAdstock_Normalized(t *testing.T) {
	x := []float64{1, 0, 0, 0}

	got := GeometricAdstock(x, 0.5, 3, true)
	total := 1 + 0.5 + 0.25
	assert.InDeltaSlice(t, []float64{1 / total, 0.5 / total, 0.25 / total, 0}, got, 1e-12)

	// Normalization preserves total mass of a long-enough series.
	var sum float64
	for _, v := range got {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
}

func TestGeometricAdstock_ZeroDecay(t *testing.T) {
	x := []float64{3, 1, 4, 1, 5}

	// alpha=0 leaves only the contemporaneous weight, so the (normalized)
	// transform is the identity.
	got := GeometricAdstock(x, 0, 4, true)
	assert.InDeltaSlice(t, x, got, 1e-12)
}

func TestGeometricAdstock_WindowClamp(t *testing.T) {
	x := []float64{1, 1}
	got := GeometricAdstock(x, 0.5, 0, false)
	assert.InDeltaSlice(t, x, got, 1e-12, "maxLag below 1 degrades to no carryover")
}

func TestLogisticSaturation(t *testing.T) {
	got := LogisticSaturation([]float64{0}, 2)
	assert.InDelta(t, 0.0, got[0], 1e-12, "no spend saturates to zero effect")

	got = LogisticSaturation([]float64{1e6}, 2)
	assert.InDelta(t, 1.0, got[0], 1e-9, "large spend saturates toward one")

	// Monotone with diminishing returns.
	xs := []float64{0.5, 1, 2, 4, 8}
	ys := LogisticSaturation(xs, 1)
	for i := 1; i < len(ys); i++ {
		assert.Greater(t, ys[i], ys[i-1], "saturation must be increasing")
		gainPrev := ys[i-1] / xs[i-1]
		gain := ys[i] / xs[i]
		assert.Less(t, gain, gainPrev, "marginal effect must shrink")
	}

	// A sharper lam saturates faster.
	soft := LogisticSaturation([]float64{1}, 0.5)[0]
	sharp := LogisticSaturation([]float64{1}, 3)[0]
	assert.Greater(t, sharp, soft)
	assert.False(t, math.IsNaN(sharp))
}
