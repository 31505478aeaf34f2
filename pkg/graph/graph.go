// Package graph implements the declarative probabilistic model graph that
// the marketing-mix variants build: named priors over a flat parameter
// vector, named deterministic transformations, and Normal likelihood nodes
// tied to observed vectors. The graph exposes the joint log-density of
// parameters given the observed data, which is the only interface the
// sampler needs, plus per-draw evaluation of deterministic nodes for
// posterior-predictive work.
package graph

import (
	"fmt"
	"math"
)

// Graph is a declarative model: priors, deterministics, likelihoods and the
// data vectors they reference. Construction is single-threaded; once built,
// LogProb and Eval are safe for concurrent use.
type Graph struct {
	name string

	vectors  map[string][]float64
	matrices map[string][][]float64

	priors    []*prior
	byName    map[string]*prior
	dets      []*det
	detByName map[string]*det
	likes     []*likelihood

	dim int
}

type prior struct {
	name   string
	dist   scalarDist
	labels []string // nil for scalar parameters
	offset int
	size   int
}

type det struct {
	name string
	fn   func(v *Values) []float64
}

type likelihood struct {
	name     string
	mean     string // deterministic or data vector supplying the per-point mean
	sigma    string // scalar parameter supplying the noise scale
	observed []float64
}

// New creates an empty model graph.
func New(name string) *Graph {
	return &Graph{
		name:      name,
		vectors:   make(map[string][]float64),
		matrices:  make(map[string][][]float64),
		byName:    make(map[string]*prior),
		detByName: make(map[string]*det),
	}
}

// Name returns the graph name.
func (g *Graph) Name() string { return g.name }

// Dim returns the length of the flat parameter vector.
func (g *Graph) Dim() int { return g.dim }

// DataVector registers a named observed/input vector.
func (g *Graph) DataVector(name string, vals []float64) {
	g.checkFresh(name)
	g.vectors[name] = append([]float64(nil), vals...)
}

// DataMatrix registers a named set of input columns (e.g. per-channel spend).
func (g *Graph) DataMatrix(name string, columns [][]float64) {
	g.checkFresh(name)
	copied := make([][]float64, len(columns))
	for i, col := range columns {
		copied[i] = append([]float64(nil), col...)
	}
	g.matrices[name] = copied
}

// Deterministic registers a named transformation computed from parameters,
// data, and previously declared deterministics.
func (g *Graph) Deterministic(name string, fn func(v *Values) []float64) {
	g.checkFresh(name)
	d := &det{name: name, fn: fn}
	g.dets = append(g.dets, d)
	g.detByName[name] = d
}

// NormalLikelihood ties observed data to the graph: observed[i] ~
// Normal(mean[i], sigma) where mean names a deterministic or data vector and
// sigma names a scalar parameter. A graph may carry several likelihood nodes
// (the confounder variant observes both sales and Google spend).
func (g *Graph) NormalLikelihood(name, mean, sigma string, observed []float64) {
	g.checkFresh(name)
	g.likes = append(g.likes, &likelihood{
		name:     name,
		mean:     mean,
		sigma:    sigma,
		observed: append([]float64(nil), observed...),
	})
}

// ParamNames returns the declared prior names in declaration order.
func (g *Graph) ParamNames() []string {
	names := make([]string, len(g.priors))
	for i, p := range g.priors {
		names[i] = p.name
	}
	return names
}

// ComponentNames expands vector parameters into one entry per component,
// e.g. beta[spend_fb], beta[spend_google]. Scalar parameters appear as-is.
func (g *Graph) ComponentNames() []string {
	var names []string
	for _, p := range g.priors {
		if p.labels == nil {
			names = append(names, p.name)
			continue
		}
		for _, label := range p.labels {
			names = append(names, fmt.Sprintf("%s[%s]", p.name, label))
		}
	}
	return names
}

// HasParam reports whether a prior with the given name is declared.
func (g *Graph) HasParam(name string) bool {
	_, ok := g.byName[name]
	return ok
}

// ParamRange returns the offset and size of the named parameter within the
// flat vector.
func (g *Graph) ParamRange(name string) (offset, size int, err error) {
	p, ok := g.byName[name]
	if !ok {
		return 0, 0, fmt.Errorf("graph: unknown parameter %q", name)
	}
	return p.offset, p.size, nil
}

// ParamLabels returns the component labels of the named parameter, or nil
// for scalar parameters.
func (g *Graph) ParamLabels(name string) []string {
	p, ok := g.byName[name]
	if !ok {
		return nil
	}
	return p.labels
}

// InitialPoint returns a parameter vector with every component at its
// prior's central value, a support-safe starting point for the sampler.
func (g *Graph) InitialPoint() []float64 {
	x := make([]float64, g.dim)
	for _, p := range g.priors {
		for i := 0; i < p.size; i++ {
			x[p.offset+i] = p.dist.central()
		}
	}
	return x
}

// LogProb returns the joint log-density of the parameter vector: the sum of
// prior log-densities and likelihood log-densities given the observed data.
// Out-of-support parameters yield -Inf, which the sampler rejects. This
// satisfies gonum's distmv.LogProber, making the graph directly consumable
// by samplemv samplers.
func (g *Graph) LogProb(x []float64) float64 {
	if len(x) != g.dim {
		return math.Inf(-1)
	}

	var total float64
	for _, p := range g.priors {
		for i := 0; i < p.size; i++ {
			lp := p.dist.logProb(x[p.offset+i])
			if math.IsInf(lp, -1) || math.IsNaN(lp) {
				return math.Inf(-1)
			}
			total += lp
		}
	}

	v := newValues(g, x)
	for _, like := range g.likes {
		sigma, err := v.scalarOf(like.sigma)
		if err != nil || sigma <= 0 {
			return math.Inf(-1)
		}
		mean, err := v.vectorOf(like.mean)
		if err != nil || len(mean) != len(like.observed) {
			return math.Inf(-1)
		}
		for i, obs := range like.observed {
			total += normalLogPDF(obs, mean[i], sigma)
		}
	}
	if math.IsNaN(total) {
		return math.Inf(-1)
	}
	return total
}

// Eval evaluates the named deterministic node for one parameter draw.
func (g *Graph) Eval(x []float64, name string) ([]float64, error) {
	if len(x) != g.dim {
		return nil, fmt.Errorf("graph: parameter vector has length %d, want %d", len(x), g.dim)
	}
	if _, ok := g.detByName[name]; !ok {
		return nil, fmt.Errorf("graph: unknown deterministic %q", name)
	}
	return newValues(g, x).Det(name), nil
}

func (g *Graph) addPrior(name string, dist scalarDist, labels []string) {
	g.checkFresh(name)
	size := 1
	if len(labels) > 0 {
		size = len(labels)
	} else {
		labels = nil
	}
	p := &prior{name: name, dist: dist, labels: labels, offset: g.dim, size: size}
	g.priors = append(g.priors, p)
	g.byName[name] = p
	g.dim += size
}

// checkFresh panics on duplicate node names; declaring the same name twice
// is a programming error in the variant's BuildGraph.
func (g *Graph) checkFresh(name string) {
	if _, ok := g.byName[name]; ok {
		panic(fmt.Sprintf("graph: node %q already declared", name))
	}
	if _, ok := g.detByName[name]; ok {
		panic(fmt.Sprintf("graph: node %q already declared", name))
	}
	if _, ok := g.vectors[name]; ok {
		panic(fmt.Sprintf("graph: node %q already declared", name))
	}
	if _, ok := g.matrices[name]; ok {
		panic(fmt.Sprintf("graph: node %q already declared", name))
	}
}

const log2Pi = 1.8378770664093454835606594728112

func normalLogPDF(x, mu, sigma float64) float64 {
	z := (x - mu) / sigma
	return -0.5*log2Pi - math.Log(sigma) - 0.5*z*z
}
