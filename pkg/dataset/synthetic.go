package dataset

import (
	"time"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// SyntheticConfig describes the generating process for a synthetic
// observation table: two spend channels with engagement-metric columns and a
// linear sales process with Gaussian noise.
type SyntheticConfig struct {
	Days      int
	Start     time.Time
	Seed      uint64
	Intercept float64
	// BetaFacebook and BetaGoogle are the true per-unit sales effects.
	BetaFacebook float64
	BetaGoogle   float64
	// SpendFacebook is the mean daily Facebook spend level. Google spend is
	// generated as GoogleBaseline + GoogleFromFacebook×spend_fb plus noise,
	// so the confounder model has a real cross-channel relationship to find.
	SpendFacebook      float64
	GoogleBaseline     float64
	GoogleFromFacebook float64
	// NoiseSigma is the standard deviation of the sales noise.
	NoiseSigma float64
}

// DefaultSyntheticConfig returns a generating process with known
// coefficients suitable for smoke-testing model recovery.
func DefaultSyntheticConfig() SyntheticConfig {
	return SyntheticConfig{
		Days:               120,
		Start:              time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Seed:               1,
		Intercept:          200,
		BetaFacebook:       2.0,
		BetaGoogle:         1.2,
		SpendFacebook:      100,
		GoogleBaseline:     50,
		GoogleFromFacebook: 0.8,
		NoiseSigma:         25,
	}
}

// Synthetic generates an observation table with columns spend_fb,
// spend_google, clicks_fb, clicks_google and sales driven by the configured
// linear process. Click counts are noisy multiples of spend so the
// metrics-driven model has something to fit.
func Synthetic(cfg SyntheticConfig) (*Table, error) {
	src := rand.NewSource(cfg.Seed)
	spendNoise := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	salesNoise := distuv.Normal{Mu: 0, Sigma: cfg.NoiseSigma, Src: src}

	dates := make([]time.Time, cfg.Days)
	spendFB := make([]float64, cfg.Days)
	spendGoogle := make([]float64, cfg.Days)
	clicksFB := make([]float64, cfg.Days)
	clicksGoogle := make([]float64, cfg.Days)
	sales := make([]float64, cfg.Days)

	for t := 0; t < cfg.Days; t++ {
		dates[t] = cfg.Start.AddDate(0, 0, t)
		spendFB[t] = positive(cfg.SpendFacebook * (1 + 0.3*spendNoise.Rand()))
		spendGoogle[t] = positive(cfg.GoogleBaseline + cfg.GoogleFromFacebook*spendFB[t] + 10*spendNoise.Rand())
		clicksFB[t] = positive(spendFB[t] * (2 + 0.1*spendNoise.Rand()))
		clicksGoogle[t] = positive(spendGoogle[t] * (1.5 + 0.1*spendNoise.Rand()))
		sales[t] = positive(cfg.Intercept +
			cfg.BetaFacebook*spendFB[t] +
			cfg.BetaGoogle*spendGoogle[t] +
			salesNoise.Rand())
	}

	return New(dates, map[string][]float64{
		"spend_fb":      spendFB,
		"spend_google":  spendGoogle,
		"clicks_fb":     clicksFB,
		"clicks_google": clicksGoogle,
		SalesColumn:     sales,
	})
}

func positive(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
