package graph

import "fmt"

// Values gives deterministic closures and likelihood evaluation access to
// one parameter draw, the registered data, and other deterministic nodes.
// Deterministic results are cached per draw.
type Values struct {
	g    *Graph
	x    []float64
	dets map[string][]float64
}

func newValues(g *Graph, x []float64) *Values {
	return &Values{g: g, x: x, dets: make(map[string][]float64)}
}

// Param returns the components of the named parameter for this draw.
func (v *Values) Param(name string) []float64 {
	p, ok := v.g.byName[name]
	if !ok {
		panic(fmt.Sprintf("graph: unknown parameter %q", name))
	}
	return v.x[p.offset : p.offset+p.size]
}

// Scalar returns the value of a scalar parameter for this draw.
func (v *Values) Scalar(name string) float64 {
	vals := v.Param(name)
	if len(vals) != 1 {
		panic(fmt.Sprintf("graph: parameter %q is not scalar", name))
	}
	return vals[0]
}

// Data returns a registered data vector.
func (v *Values) Data(name string) []float64 {
	vals, ok := v.g.vectors[name]
	if !ok {
		panic(fmt.Sprintf("graph: unknown data vector %q", name))
	}
	return vals
}

// DataMatrix returns the columns of a registered data matrix.
func (v *Values) DataMatrix(name string) [][]float64 {
	cols, ok := v.g.matrices[name]
	if !ok {
		panic(fmt.Sprintf("graph: unknown data matrix %q", name))
	}
	return cols
}

// Det evaluates the named deterministic node for this draw, caching the
// result so downstream nodes can share it.
func (v *Values) Det(name string) []float64 {
	if cached, ok := v.dets[name]; ok {
		return cached
	}
	d, ok := v.g.detByName[name]
	if !ok {
		panic(fmt.Sprintf("graph: unknown deterministic %q", name))
	}
	out := d.fn(v)
	v.dets[name] = out
	return out
}

// scalarOf resolves a scalar parameter by name without panicking, for use in
// LogProb where malformed references must surface as -Inf, not a crash.
func (v *Values) scalarOf(name string) (float64, error) {
	p, ok := v.g.byName[name]
	if !ok || p.size != 1 {
		return 0, fmt.Errorf("graph: %q is not a scalar parameter", name)
	}
	return v.x[p.offset], nil
}

// vectorOf resolves a deterministic or data vector by name.
func (v *Values) vectorOf(name string) ([]float64, error) {
	if _, ok := v.g.detByName[name]; ok {
		return v.Det(name), nil
	}
	if vals, ok := v.g.vectors[name]; ok {
		return vals, nil
	}
	return nil, fmt.Errorf("graph: %q names neither a deterministic nor a data vector", name)
}
