package mmm

import (
	"fmt"

	"github.com/mkelk/mmm-experiments/pkg/dataset"
	"github.com/mkelk/mmm-experiments/pkg/graph"
	"github.com/mkelk/mmm-experiments/pkg/posterior"
)

// Default engagement-metric columns for the metrics-driven variant.
const (
	DefaultFacebookMetric = "clicks_fb"
	DefaultGoogleMetric   = "clicks_google"
)

// Metrics models sales from engagement metrics (e.g. click counts) rather
// than raw spend: sales = intercept + beta_fb x fb_metric + beta_google x
// google_metric + noise. Metric columns are not channel-scaled.
type Metrics struct {
	// FacebookMetric and GoogleMetric name the metric columns to fit on.
	FacebookMetric string
	GoogleMetric   string

	paramNames []string
}

// NewMetrics creates the metrics-driven variant. Empty metric names fall
// back to the click-count defaults.
func NewMetrics(facebookMetric, googleMetric string) *Metrics {
	if facebookMetric == "" {
		facebookMetric = DefaultFacebookMetric
	}
	if googleMetric == "" {
		googleMetric = DefaultGoogleMetric
	}
	return &Metrics{
		FacebookMetric: facebookMetric,
		GoogleMetric:   googleMetric,
		paramNames:     []string{"beta_fb", "beta_google", "intercept", "sigma"},
	}
}

// Name implements Spec.
func (m *Metrics) Name() string { return "fb_google_metrics" }

// ParamNames implements Spec.
func (m *Metrics) ParamNames() []string { return append([]string(nil), m.paramNames...) }

// BuildGraph implements Spec.
func (m *Metrics) BuildGraph(in BuildInput) (*graph.Graph, error) {
	if err := in.Scaled.Validate(in.SalesColumn, []string{m.FacebookMetric, m.GoogleMetric}); err != nil {
		return nil, err
	}

	fbIn := in.Scaled.MustColumn(m.FacebookMetric)
	googleIn := in.Scaled.MustColumn(m.GoogleMetric)
	sales := in.Scaled.MustColumn(in.SalesColumn)
	n := in.Scaled.Len()

	g := graph.New(m.Name())
	g.DataVector("fb_in", fbIn)
	g.DataVector("google_in", googleIn)

	g.Normal("intercept", 1, 1)
	g.HalfNormal("sigma", 1)
	g.Normal("beta_fb", 1, 1)
	g.Normal("beta_google", 1, 1)

	g.Deterministic("mu_channels", func(v *graph.Values) []float64 {
		fb := v.Data("fb_in")
		google := v.Data("google_in")
		betaFB := v.Scalar("beta_fb")
		betaGoogle := v.Scalar("beta_google")
		out := make([]float64, n)
		for t := range out {
			out[t] = betaFB*fb[t] + betaGoogle*google[t]
		}
		return out
	})

	g.Deterministic(MuNode, func(v *graph.Values) []float64 {
		mu := v.Det("mu_channels")
		intercept := v.Scalar("intercept")
		out := make([]float64, n)
		for t, x := range mu {
			out[t] = intercept + x
		}
		return out
	})

	g.NormalLikelihood("y", MuNode, "sigma", sales)
	return g, nil
}

// BackScale implements Spec. Metric inputs were never channel-scaled, so the
// intercept and both metric coefficients convert by the sales scale alone.
// The noise scale converts by the channel scale, mirroring the spend-based
// variants' convention even though the inputs here are metrics; the
// asymmetry is inherited from the shared scaling step and kept as-is.
func (m *Metrics) BackScale(p *posterior.Posterior, sc dataset.Scaling) error {
	factors := map[string]float64{
		"intercept":   sc.Sales,
		"sigma":       sc.Channel,
		"beta_fb":     sc.Sales,
		"beta_google": sc.Sales,
	}
	for name, factor := range factors {
		if err := p.Scale(name, factor); err != nil {
			return fmt.Errorf("mmm: back-scale metrics: %w", err)
		}
	}
	return nil
}
