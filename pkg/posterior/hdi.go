package posterior

import (
	"fmt"
	"math"
	"sort"
)

// Interval is a highest-density interval of a sample.
type Interval struct {
	Lower, Upper float64
	Prob         float64
}

// HDI computes the highest-density interval containing prob mass of the
// samples: the narrowest window over the sorted draws covering
// ceil(prob*n) of them. This matches the usual unimodal-sample estimator.
func HDI(samples []float64, prob float64) (Interval, error) {
	n := len(samples)
	if n == 0 {
		return Interval{}, fmt.Errorf("posterior: no samples")
	}
	if prob <= 0 || prob > 1 {
		return Interval{}, fmt.Errorf("posterior: hdi probability %v out of (0, 1]", prob)
	}

	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	window := int(math.Ceil(prob * float64(n)))
	if window < 1 {
		window = 1
	}
	if window >= n {
		return Interval{Lower: sorted[0], Upper: sorted[n-1], Prob: prob}, nil
	}

	best := 0
	bestWidth := math.Inf(1)
	for i := 0; i+window-1 < n; i++ {
		if width := sorted[i+window-1] - sorted[i]; width < bestWidth {
			bestWidth = width
			best = i
		}
	}
	return Interval{Lower: sorted[best], Upper: sorted[best+window-1], Prob: prob}, nil
}

// HDIOf computes the HDI of one component of a named parameter.
func (p *Posterior) HDIOf(name string, component int, prob float64) (Interval, error) {
	param, err := p.Param(name)
	if err != nil {
		return Interval{}, err
	}
	if component < 0 || component >= param.Components() {
		return Interval{}, fmt.Errorf("posterior: parameter %q has no component %d", name, component)
	}
	return HDI(param.Draws[component], prob)
}
