package plotting

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeries(n int) PredictiveSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s := PredictiveSeries{
		Dates:    make([]time.Time, n),
		Observed: make([]float64, n),
		Mean:     make([]float64, n),
		YLabel:   "sales",
	}
	band := Band{Prob: 0.94, Lower: make([]float64, n), Upper: make([]float64, n)}
	for i := 0; i < n; i++ {
		s.Dates[i] = start.AddDate(0, 0, i)
		s.Observed[i] = 100 + float64(i)
		s.Mean[i] = 101 + float64(i)
		band.Lower[i] = s.Mean[i] - 10
		band.Upper[i] = s.Mean[i] + 10
	}
	s.Bands = []Band{band}
	return s
}

func TestPosteriorPredictive_WritesChart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pp.png")

	require.NoError(t, PosteriorPredictive(path, testSeries(30)))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestPosteriorPredictive_LengthMismatch(t *testing.T) {
	s := testSeries(10)
	s.Mean = s.Mean[:5]
	assert.Error(t, PosteriorPredictive(filepath.Join(t.TempDir(), "pp.png"), s))

	s = testSeries(10)
	s.Bands[0].Lower = s.Bands[0].Lower[:3]
	assert.Error(t, PosteriorPredictive(filepath.Join(t.TempDir(), "pp.png"), s))

	assert.Error(t, PosteriorPredictive(filepath.Join(t.TempDir(), "pp.png"), PredictiveSeries{}))
}

func TestMarginal_WritesChart(t *testing.T) {
	samples := make([]float64, 500)
	for i := range samples {
		samples[i] = float64(i%37) / 7
	}
	path := filepath.Join(t.TempDir(), "beta.png")

	require.NoError(t, Marginal(path, "beta[spend_fb]", samples))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestMarginal_NoSamples(t *testing.T) {
	assert.Error(t, Marginal(filepath.Join(t.TempDir(), "x.png"), "x", nil))
}
