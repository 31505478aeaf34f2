package mmm

import (
	"fmt"

	"github.com/mkelk/mmm-experiments/pkg/dataset"
	"github.com/mkelk/mmm-experiments/pkg/graph"
	"github.com/mkelk/mmm-experiments/pkg/posterior"
)

// Channel column names the confounder variant is defined over. Facebook
// spend is exogenous; Google spend is partly driven by it.
const (
	FacebookChannel = "spend_fb"
	GoogleChannel   = "spend_google"
)

// Confounder models the two-channel case where Google spend is itself a
// noisy linear function of Facebook spend (baseline + slope x spend_fb),
// observed through its own likelihood node, while both channels contribute
// to sales.
type Confounder struct {
	paramNames []string
}

// NewConfounder creates the confounder variant.
func NewConfounder() *Confounder {
	return &Confounder{
		paramNames: []string{
			"beta_fb", "beta_google", "beta_fb_google",
			"spend_google_0", "sigma", "intercept", "sigma_google",
		},
	}
}

// Name implements Spec.
func (c *Confounder) Name() string { return "channels_confounder" }

// ParamNames implements Spec.
func (c *Confounder) ParamNames() []string { return append([]string(nil), c.paramNames...) }

// BuildGraph implements Spec. The graph carries two likelihood nodes: sales,
// and Google spend as a function of Facebook spend.
func (c *Confounder) BuildGraph(in BuildInput) (*graph.Graph, error) {
	if err := in.Scaled.Validate(in.SalesColumn, []string{FacebookChannel, GoogleChannel}); err != nil {
		return nil, err
	}

	spendFB := in.Scaled.MustColumn(FacebookChannel)
	spendGoogle := in.Scaled.MustColumn(GoogleChannel)
	sales := in.Scaled.MustColumn(in.SalesColumn)
	n := in.Scaled.Len()

	g := graph.New(c.Name())
	g.DataVector("spend_fb", spendFB)
	g.DataVector("spend_google_obs", spendGoogle)

	g.HalfNormal("sigma", 1)
	g.Normal("intercept", 1, 1)
	g.Normal("beta_fb", 1, 1)
	g.Normal("beta_google", 1, 1)
	g.Normal("beta_fb_google", 1, 1)
	g.Normal("spend_google_0", 1, 1)
	g.HalfNormal("sigma_google", 1)

	g.Deterministic("mu_fb", func(v *graph.Values) []float64 {
		fb := v.Data("spend_fb")
		beta := v.Scalar("beta_fb")
		out := make([]float64, n)
		for t, x := range fb {
			out[t] = beta * x
		}
		return out
	})

	// Expected Google spend given Facebook spend; observed Google spend is
	// tied to it through the second likelihood.
	g.Deterministic("mu_spend_google", func(v *graph.Values) []float64 {
		fb := v.Data("spend_fb")
		baseline := v.Scalar("spend_google_0")
		slope := v.Scalar("beta_fb_google")
		out := make([]float64, n)
		for t, x := range fb {
			out[t] = baseline + slope*x
		}
		return out
	})

	g.Deterministic("mu_google", func(v *graph.Values) []float64 {
		google := v.Data("spend_google_obs")
		beta := v.Scalar("beta_google")
		out := make([]float64, n)
		for t, x := range google {
			out[t] = beta * x
		}
		return out
	})

	g.Deterministic(MuNode, func(v *graph.Values) []float64 {
		fb := v.Det("mu_fb")
		google := v.Det("mu_google")
		intercept := v.Scalar("intercept")
		out := make([]float64, n)
		for t := range out {
			out[t] = intercept + fb[t] + google[t]
		}
		return out
	})

	g.NormalLikelihood("spend_google", "mu_spend_google", "sigma_google", spendGoogle)
	g.NormalLikelihood("y", MuNode, "sigma", sales)
	return g, nil
}

// BackScale implements Spec. The channel coefficients convert by
// sales/channel, the intercept by the sales scale, the noise scales and the
// Google spend baseline by the channel scale. The cross-channel slope
// beta_fb_google maps spend to spend and needs no conversion.
func (c *Confounder) BackScale(p *posterior.Posterior, sc dataset.Scaling) error {
	factors := map[string]float64{
		"intercept":      sc.Sales,
		"sigma":          sc.Channel,
		"beta_fb":        sc.Sales / sc.Channel,
		"beta_google":    sc.Sales / sc.Channel,
		"spend_google_0": sc.Channel,
		"sigma_google":   sc.Channel,
	}
	for name, factor := range factors {
		if err := p.Scale(name, factor); err != nil {
			return fmt.Errorf("mmm: back-scale confounder: %w", err)
		}
	}
	return nil
}
