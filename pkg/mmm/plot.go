package mmm

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mkelk/mmm-experiments/pkg/dataset"
	"github.com/mkelk/mmm-experiments/pkg/plotting"
	"github.com/mkelk/mmm-experiments/pkg/posterior"
)

// HDI probabilities shaded on the posterior-predictive chart.
var predictiveHDIProbs = []float64{0.94, 0.50}

// PredictiveSeries computes the posterior-predictive chart inputs: the
// expected-sales node evaluated per posterior draw, reduced to a mean and
// HDI bands per time period, next to the observed sales. With originalScale
// both are expressed in original sales units.
func (m *Model) PredictiveSeries(originalScale bool) (plotting.PredictiveSeries, error) {
	if m.post == nil {
		return plotting.PredictiveSeries{}, ErrNotFitted
	}
	g, err := m.EnsureGraph()
	if err != nil {
		return plotting.PredictiveSeries{}, err
	}

	scale := 1.0
	observed := m.scaled
	yLabel := "sales (scaled)"
	if originalScale {
		scale = m.scaling.Sales
		observed = m.raw
		yLabel = "sales"
	}

	n := m.scaled.Len()
	draws := make([][]float64, 0, len(m.post.Raw))
	for _, row := range m.post.Raw {
		mu, err := g.Eval(row, MuNode)
		if err != nil {
			return plotting.PredictiveSeries{}, err
		}
		scaled := make([]float64, n)
		for t, v := range mu {
			scaled[t] = v * scale
		}
		draws = append(draws, scaled)
	}
	if len(draws) == 0 {
		return plotting.PredictiveSeries{}, fmt.Errorf("mmm: posterior holds no draws")
	}

	mean := make([]float64, n)
	for _, draw := range draws {
		for t, v := range draw {
			mean[t] += v
		}
	}
	for t := range mean {
		mean[t] /= float64(len(draws))
	}

	bands := make([]plotting.Band, 0, len(predictiveHDIProbs))
	column := make([]float64, len(draws))
	for _, prob := range predictiveHDIProbs {
		band := plotting.Band{
			Prob:  prob,
			Lower: make([]float64, n),
			Upper: make([]float64, n),
		}
		for t := 0; t < n; t++ {
			for d, draw := range draws {
				column[d] = draw[t]
			}
			interval, err := posterior.HDI(column, prob)
			if err != nil {
				return plotting.PredictiveSeries{}, err
			}
			band.Lower[t] = interval.Lower
			band.Upper[t] = interval.Upper
		}
		bands = append(bands, band)
	}

	return plotting.PredictiveSeries{
		Dates:    m.scaled.Dates(),
		Observed: observed.MustColumn(dataset.SalesColumn),
		Mean:     mean,
		Bands:    bands,
		YLabel:   yLabel,
	}, nil
}

// PlotPosteriorPredictive renders the posterior-predictive sales chart to
// path. Pure side effect; the chart file is the only output.
func (m *Model) PlotPosteriorPredictive(path string, originalScale bool) error {
	series, err := m.PredictiveSeries(originalScale)
	if err != nil {
		return err
	}
	return plotting.PosteriorPredictive(path, series)
}

// PlotParameterDistributions renders one marginal histogram per fitted
// parameter component into dir, using back-scaled draws when original-scale
// units are requested. Returns the written file paths.
func (m *Model) PlotParameterDistributions(dir string, originalScale bool) ([]string, error) {
	post, err := m.Posterior()
	if err != nil {
		return nil, err
	}
	if originalScale {
		post, err = m.BackScaledPosterior()
		if err != nil {
			return nil, err
		}
	}

	var paths []string
	for _, name := range m.spec.ParamNames() {
		param, err := post.Param(name)
		if err != nil {
			return nil, err
		}
		for comp := 0; comp < param.Components(); comp++ {
			label := name
			if param.Labels != nil {
				label = fmt.Sprintf("%s[%s]", name, param.Labels[comp])
			}
			path := filepath.Join(dir, fileSafe(label)+".png")
			if err := plotting.Marginal(path, label, param.Draws[comp]); err != nil {
				return nil, err
			}
			paths = append(paths, path)
		}
	}
	return paths, nil
}

func fileSafe(name string) string {
	replacer := strings.NewReplacer("[", "_", "]", "", "/", "_", " ", "_")
	return replacer.Replace(name)
}
