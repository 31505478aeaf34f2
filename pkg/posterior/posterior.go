// Package posterior holds the parameter draws produced by inference: a set
// of independent chains, each with the same number of draws over the model's
// flat parameter vector. It provides summary statistics, highest-density
// intervals, and the per-parameter scaling used to express coefficients in
// original spend/sales units.
package posterior

import (
	"fmt"

	"gonum.org/v1/gonum/stat"
)

// Param is one named parameter's draws. Vector parameters (per-channel
// coefficients) carry one column per component.
type Param struct {
	Name   string
	Labels []string    // component labels; nil for scalars
	Draws  [][]float64 // [component][chain*draw]
}

// Components returns the number of components (1 for scalars).
func (p *Param) Components() int { return len(p.Draws) }

// Posterior is the result of fitting: draws per parameter, plus the raw flat
// draws in graph layout so deterministic nodes can be re-evaluated per draw
// (posterior predictive).
type Posterior struct {
	Chains int
	Draws  int

	params map[string]*Param
	order  []string

	// Raw holds every retained draw as a flat parameter vector in the
	// graph's layout, chains concatenated.
	Raw [][]float64
}

// New creates an empty posterior with the given chain geometry.
func New(chains, draws int) *Posterior {
	return &Posterior{
		Chains: chains,
		Draws:  draws,
		params: make(map[string]*Param),
	}
}

// AddParam registers a parameter's draws. Draws are indexed
// [component][chain*draw].
func (p *Posterior) AddParam(name string, labels []string, draws [][]float64) error {
	if _, ok := p.params[name]; ok {
		return fmt.Errorf("posterior: parameter %q already present", name)
	}
	want := p.Chains * p.Draws
	for c, comp := range draws {
		if len(comp) != want {
			return fmt.Errorf("posterior: parameter %q component %d has %d draws, want %d", name, c, len(comp), want)
		}
	}
	p.params[name] = &Param{Name: name, Labels: labels, Draws: draws}
	p.order = append(p.order, name)
	return nil
}

// Names returns the parameter names in registration order.
func (p *Posterior) Names() []string { return append([]string(nil), p.order...) }

// Has reports whether the named parameter is present.
func (p *Posterior) Has(name string) bool {
	_, ok := p.params[name]
	return ok
}

// Param returns the named parameter's draws.
func (p *Posterior) Param(name string) (*Param, error) {
	param, ok := p.params[name]
	if !ok {
		return nil, fmt.Errorf("posterior: unknown parameter %q", name)
	}
	return param, nil
}

// Mean returns the posterior mean of each component of the named parameter.
func (p *Posterior) Mean(name string) ([]float64, error) {
	param, err := p.Param(name)
	if err != nil {
		return nil, err
	}
	means := make([]float64, param.Components())
	for i, comp := range param.Draws {
		means[i] = stat.Mean(comp, nil)
	}
	return means, nil
}

// StdDev returns the posterior standard deviation of each component.
func (p *Posterior) StdDev(name string) ([]float64, error) {
	param, err := p.Param(name)
	if err != nil {
		return nil, err
	}
	sds := make([]float64, param.Components())
	for i, comp := range param.Draws {
		sds[i] = stat.StdDev(comp, nil)
	}
	return sds, nil
}

// Scale multiplies every draw of the named parameter by factor, in place.
// Back-scaling applies this with the variant's unit conversion factors.
func (p *Posterior) Scale(name string, factor float64) error {
	param, err := p.Param(name)
	if err != nil {
		return err
	}
	for _, comp := range param.Draws {
		for i := range comp {
			comp[i] *= factor
		}
	}
	return nil
}

// Clone returns a deep copy. Back-scaling operates on clones so the fitted
// posterior is never mutated.
func (p *Posterior) Clone() *Posterior {
	out := New(p.Chains, p.Draws)
	for _, name := range p.order {
		src := p.params[name]
		draws := make([][]float64, len(src.Draws))
		for i, comp := range src.Draws {
			draws[i] = append([]float64(nil), comp...)
		}
		out.params[name] = &Param{
			Name:   name,
			Labels: append([]string(nil), src.Labels...),
			Draws:  draws,
		}
		out.order = append(out.order, name)
	}
	out.Raw = make([][]float64, len(p.Raw))
	for i, row := range p.Raw {
		out.Raw[i] = append([]float64(nil), row...)
	}
	return out
}
