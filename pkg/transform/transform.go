// Package transform implements the spend transformations used by the
// marketing-mix models: geometric adstock (carryover of past spend into
// future periods) and logistic saturation (diminishing returns).
package transform

import "math"

// GeometricAdstock applies a geometric decay over a sliding window of maxLag
// periods: y[t] = sum_{i=0..maxLag-1} alpha^i * x[t-i]. When normalize is
// set the weights are divided by their sum so the transformation preserves
// total spend mass. alpha in [0,1) is the per-period decay rate.
func GeometricAdstock(x []float64, alpha float64, maxLag int, normalize bool) []float64 {
	if maxLag < 1 {
		maxLag = 1
	}
	weights := make([]float64, maxLag)
	var total float64
	for i := range weights {
		weights[i] = math.Pow(alpha, float64(i))
		total += weights[i]
	}
	if normalize && total > 0 {
		for i := range weights {
			weights[i] /= total
		}
	}

	out := make([]float64, len(x))
	for t := range x {
		var acc float64
		for i := 0; i < maxLag && i <= t; i++ {
			acc += weights[i] * x[t-i]
		}
		out[t] = acc
	}
	return out
}

// LogisticSaturation maps non-negative spend to (0, 1) with diminishing
// returns: (1 - exp(-lam*x)) / (1 + exp(-lam*x)). lam controls how quickly
// the curve saturates.
func LogisticSaturation(x []float64, lam float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		e := math.Exp(-lam * v)
		out[i] = (1 - e) / (1 + e)
	}
	return out
}
