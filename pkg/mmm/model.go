// Package mmm implements a small family of Bayesian marketing-mix models:
// a shared orchestration skeleton (scaling, fitting, back-scaling, plotting)
// over a capability set supplied by each causal-structure variant.
package mmm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/mkelk/mmm-experiments/pkg/dataset"
	"github.com/mkelk/mmm-experiments/pkg/graph"
	"github.com/mkelk/mmm-experiments/pkg/infer"
	"github.com/mkelk/mmm-experiments/pkg/posterior"
)

// Sentinel errors for the model lifecycle.
var (
	// ErrNotImplemented is returned when an abstract operation is invoked on
	// the base spec rather than a concrete variant.
	ErrNotImplemented = errors.New("mmm: operation not implemented by this spec")
	// ErrNotFitted is returned when posterior-dependent operations run
	// before Fit.
	ErrNotFitted = errors.New("mmm: model has not been fitted")
)

// MuNode is the deterministic node every variant declares for expected
// sales; posterior-predictive plotting evaluates it per draw.
const MuNode = "mu_y"

// BuildInput is what a variant needs to construct its model graph.
type BuildInput struct {
	Scaled      *dataset.Table
	Channels    []string
	SalesColumn string
}

// Spec is the capability set a causal-structure variant supplies: graph
// construction and parameter back-scaling. Everything else is shared.
type Spec interface {
	// Name identifies the variant.
	Name() string
	// ParamNames lists the fitted parameter names. Computed once from the
	// variant's configuration, not mutated during graph construction.
	ParamNames() []string
	// BuildGraph constructs the variant's probabilistic model graph.
	BuildGraph(in BuildInput) (*graph.Graph, error)
	// BackScale applies the variant's unit conversions to a posterior clone
	// so coefficients read in original spend/sales units.
	BackScale(p *posterior.Posterior, s dataset.Scaling) error
}

// BaseSpec is the abstract base: it implements Spec but signals
// ErrNotImplemented for the operations a variant must define. Embedding it
// documents which capabilities a partial spec has not yet supplied.
type BaseSpec struct{}

// Name implements Spec.
func (BaseSpec) Name() string { return "base" }

// ParamNames implements Spec.
func (BaseSpec) ParamNames() []string { return nil }

// BuildGraph implements Spec by reporting the unimplemented operation.
func (BaseSpec) BuildGraph(BuildInput) (*graph.Graph, error) {
	return nil, fmt.Errorf("define model graph: %w", ErrNotImplemented)
}

// BackScale implements Spec by reporting the unimplemented operation.
func (BaseSpec) BackScale(*posterior.Posterior, dataset.Scaling) error {
	return fmt.Errorf("back-scale posterior: %w", ErrNotImplemented)
}

// Model is the shared orchestration skeleton: it owns the raw table, scale
// factors, scaled table, lazily built graph, and fitted posterior for one
// variant instance. Instances share nothing.
type Model struct {
	spec     Spec
	channels []string

	raw     *dataset.Table
	scaled  *dataset.Table
	scaling dataset.Scaling

	graph *graph.Graph
	post  *posterior.Posterior

	logger *slog.Logger
}

// Option configures a Model.
type Option func(*Model)

// WithLogger sets the structured logger; nil discards.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Model) { m.logger = logger }
}

// New stores the raw observation table and channel names and immediately
// computes the scale factors and scaled table. The table must contain the
// date column ordering, the sales column, and every named channel column.
func New(spec Spec, data *dataset.Table, channels []string, opts ...Option) (*Model, error) {
	if spec == nil {
		return nil, fmt.Errorf("mmm: nil spec")
	}
	if data == nil {
		return nil, fmt.Errorf("mmm: nil data")
	}
	if len(channels) == 0 {
		return nil, fmt.Errorf("mmm: no channels named")
	}

	scaling, scaled, err := dataset.Compute(data, channels, dataset.SalesColumn)
	if err != nil {
		return nil, err
	}

	m := &Model{
		spec:     spec,
		channels: append([]string(nil), channels...),
		raw:      data,
		scaled:   scaled,
		scaling:  scaling,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.logger == nil {
		m.logger = slog.New(slog.DiscardHandler)
	}
	return m, nil
}

// Spec returns the variant capability set.
func (m *Model) Spec() Spec { return m.spec }

// Scaling returns the scale factors computed at construction.
func (m *Model) Scaling() dataset.Scaling { return m.scaling }

// RawData returns the raw observation table.
func (m *Model) RawData() *dataset.Table { return m.raw }

// ScaledData returns the scaled observation table.
func (m *Model) ScaledData() *dataset.Table { return m.scaled }

// EnsureGraph builds the model graph on first use and caches it.
func (m *Model) EnsureGraph() (*graph.Graph, error) {
	if m.graph != nil {
		return m.graph, nil
	}
	g, err := m.spec.BuildGraph(BuildInput{
		Scaled:      m.scaled,
		Channels:    m.channels,
		SalesColumn: dataset.SalesColumn,
	})
	if err != nil {
		return nil, err
	}
	m.graph = g
	return g, nil
}

// Fit builds the graph if absent and runs inference, storing the posterior
// on the model. Inference failures propagate unmodified; there is no retry.
func (m *Model) Fit(ctx context.Context, opts infer.Options) error {
	g, err := m.EnsureGraph()
	if err != nil {
		return err
	}

	runID := uuid.NewString()
	if opts.Logger == nil {
		opts.Logger = m.logger
	}
	m.logger.Info("fitting model",
		"model", m.spec.Name(), "run_id", runID,
		"observations", m.scaled.Len(), "parameters", g.Dim())

	post, err := infer.Sample(ctx, g, opts)
	if err != nil {
		return err
	}
	m.post = post
	m.logger.Info("fit complete", "model", m.spec.Name(), "run_id", runID,
		"chains", post.Chains, "draws", post.Draws)
	return nil
}

// Posterior returns the fitted posterior in scaled (fitted) units.
func (m *Model) Posterior() (*posterior.Posterior, error) {
	if m.post == nil {
		return nil, ErrNotFitted
	}
	return m.post, nil
}

// BackScaledPosterior returns a copy of the posterior with the variant's
// unit conversions applied. Recomputed on each call, never cached.
func (m *Model) BackScaledPosterior() (*posterior.Posterior, error) {
	if m.post == nil {
		return nil, ErrNotFitted
	}
	clone := m.post.Clone()
	if err := m.spec.BackScale(clone, m.scaling); err != nil {
		return nil, err
	}
	return clone, nil
}
