package mmm

import (
	"fmt"

	"github.com/mkelk/mmm-experiments/pkg/dataset"
	"github.com/mkelk/mmm-experiments/pkg/graph"
	"github.com/mkelk/mmm-experiments/pkg/posterior"
	"github.com/mkelk/mmm-experiments/pkg/transform"
)

// DefaultAdstockMaxLag is the carryover window used when none is given.
const DefaultAdstockMaxLag = 6

// Straight models sales as an optional intercept plus a sum of per-channel
// effects, each channel optionally passed through geometric adstock and
// logistic saturation before its coefficient applies.
type Straight struct {
	// AllowIntercept adds an intercept term to expected sales.
	AllowIntercept bool
	// AllowAdstockAndSat transforms each channel's spend through geometric
	// adstock and logistic saturation, adding per-channel decay-rate (alpha)
	// and saturation (lam) parameters.
	AllowAdstockAndSat bool
	// AdstockMaxLag is the adstock carryover window in periods.
	AdstockMaxLag int

	paramNames []string
}

// NewStraight creates the straight channel-effects variant. The fitted
// parameter name list is derived from the flags here, once, so it cannot
// drift during graph construction.
func NewStraight(allowIntercept, allowAdstockAndSat bool, adstockMaxLag int) *Straight {
	if adstockMaxLag <= 0 {
		adstockMaxLag = DefaultAdstockMaxLag
	}
	names := []string{"beta", "sigma"}
	if allowIntercept {
		names = append(names, "intercept")
	}
	if allowAdstockAndSat {
		names = append(names, "alpha", "lam")
	}
	return &Straight{
		AllowIntercept:     allowIntercept,
		AllowAdstockAndSat: allowAdstockAndSat,
		AdstockMaxLag:      adstockMaxLag,
		paramNames:         names,
	}
}

// Name implements Spec.
func (s *Straight) Name() string { return "channels_straight" }

// ParamNames implements Spec.
func (s *Straight) ParamNames() []string { return append([]string(nil), s.paramNames...) }

// BuildGraph implements Spec.
func (s *Straight) BuildGraph(in BuildInput) (*graph.Graph, error) {
	if err := in.Scaled.Validate(in.SalesColumn, in.Channels); err != nil {
		return nil, err
	}

	channels := in.Channels
	spend := make([][]float64, len(channels))
	for i, ch := range channels {
		spend[i] = in.Scaled.MustColumn(ch)
	}
	sales := in.Scaled.MustColumn(in.SalesColumn)
	n := in.Scaled.Len()

	g := graph.New(s.Name())
	g.DataMatrix("spend", spend)

	if s.AllowIntercept {
		g.Normal("intercept", 1, 5)
	}
	g.HalfNormal("sigma", 1)
	g.Normal("beta", 1, 5, channels...)
	if s.AllowAdstockAndSat {
		g.Beta("alpha", 1, 3, channels...)
		g.Gamma("lam", 3, 1, channels...)
	}

	maxLag := s.AdstockMaxLag
	adstock := s.AllowAdstockAndSat
	g.Deterministic("mu_channels", func(v *graph.Values) []float64 {
		cols := v.DataMatrix("spend")
		beta := v.Param("beta")
		mu := make([]float64, n)
		for c := range cols {
			col := cols[c]
			if adstock {
				col = transform.GeometricAdstock(col, v.Param("alpha")[c], maxLag, true)
				col = transform.LogisticSaturation(col, v.Param("lam")[c])
			}
			for t, x := range col {
				mu[t] += beta[c] * x
			}
		}
		return mu
	})

	withIntercept := s.AllowIntercept
	g.Deterministic(MuNode, func(v *graph.Values) []float64 {
		mu := v.Det("mu_channels")
		out := make([]float64, len(mu))
		var intercept float64
		if withIntercept {
			intercept = v.Scalar("intercept")
		}
		for t, x := range mu {
			out[t] = intercept + x
		}
		return out
	})

	g.NormalLikelihood("y", MuNode, "sigma", sales)
	return g, nil
}

// BackScale implements Spec: the intercept converts by the sales scale, the
// noise scale by the channel scale, and the channel coefficients by
// sales/channel since they map channel units to sales units. The adstock
// parameters are dimensionless and stay untouched.
func (s *Straight) BackScale(p *posterior.Posterior, sc dataset.Scaling) error {
	if s.AllowIntercept {
		if err := p.Scale("intercept", sc.Sales); err != nil {
			return fmt.Errorf("mmm: back-scale straight: %w", err)
		}
	}
	if err := p.Scale("sigma", sc.Channel); err != nil {
		return fmt.Errorf("mmm: back-scale straight: %w", err)
	}
	if err := p.Scale("beta", sc.Sales/sc.Channel); err != nil {
		return fmt.Errorf("mmm: back-scale straight: %w", err)
	}
	return nil
}
