package graph

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// scalarDist is a univariate prior density. central is a support-safe
// starting value for the sampler.
type scalarDist interface {
	logProb(x float64) float64
	central() float64
}

type normalDist struct{ d distuv.Normal }

func (n normalDist) logProb(x float64) float64 { return n.d.LogProb(x) }
func (n normalDist) central() float64          { return n.d.Mu }

type halfNormalDist struct{ d distuv.Normal }

func (h halfNormalDist) logProb(x float64) float64 {
	if x < 0 {
		return math.Inf(-1)
	}
	return math.Ln2 + h.d.LogProb(x)
}
func (h halfNormalDist) central() float64 { return h.d.Sigma / 2 }

type betaDist struct{ d distuv.Beta }

func (b betaDist) logProb(x float64) float64 {
	if x <= 0 || x >= 1 {
		return math.Inf(-1)
	}
	return b.d.LogProb(x)
}
func (b betaDist) central() float64 { return b.d.Alpha / (b.d.Alpha + b.d.Beta) }

type gammaDist struct{ d distuv.Gamma }

func (g gammaDist) logProb(x float64) float64 {
	if x <= 0 {
		return math.Inf(-1)
	}
	return g.d.LogProb(x)
}
func (g gammaDist) central() float64 { return g.d.Alpha / g.d.Beta }

// Normal declares a Normal(mu, sigma) prior. With labels it declares one
// component per label (e.g. one coefficient per channel).
func (g *Graph) Normal(name string, mu, sigma float64, labels ...string) {
	g.addPrior(name, normalDist{distuv.Normal{Mu: mu, Sigma: sigma}}, labels)
}

// HalfNormal declares a HalfNormal(sigma) prior, the conventional choice for
// noise scales.
func (g *Graph) HalfNormal(name string, sigma float64, labels ...string) {
	g.addPrior(name, halfNormalDist{distuv.Normal{Mu: 0, Sigma: sigma}}, labels)
}

// Beta declares a Beta(alpha, beta) prior on (0, 1), used for the adstock
// decay rate.
func (g *Graph) Beta(name string, alpha, beta float64, labels ...string) {
	g.addPrior(name, betaDist{distuv.Beta{Alpha: alpha, Beta: beta}}, labels)
}

// Gamma declares a Gamma(alpha, rate) prior on (0, inf), used for the
// saturation sharpness.
func (g *Graph) Gamma(name string, alpha, rate float64, labels ...string) {
	g.addPrior(name, gammaDist{distuv.Gamma{Alpha: alpha, Beta: rate}}, labels)
}
