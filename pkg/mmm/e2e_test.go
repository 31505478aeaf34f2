package mmm

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/mkelk/mmm-experiments/pkg/dataset"
	"github.com/mkelk/mmm-experiments/pkg/infer"
)

// Recovery tests fit each variant on synthetic data with a known generating
// process and check posterior means land within a wide credible tolerance of
// the truth. They validate graph wiring, not sampler efficiency.

func fitOptions(seed uint64) infer.Options {
	return infer.Options{
		Chains:   2,
		Draws:    1500,
		BurnIn:   1500,
		StepSize: 0.04,
		Seed:     seed,
	}
}

func TestStraight_RecoversCoefficients(t *testing.T) {
	if testing.Short() {
		t.Skip("sampling is slow")
	}

	gen := dataset.DefaultSyntheticConfig()
	gen.Intercept = 0 // the model under test carries no intercept
	gen.NoiseSigma = 10
	gen.Days = 90
	gen.Seed = 42
	table, err := dataset.Synthetic(gen)
	require.NoError(t, err)

	model, err := New(NewStraight(false, false, 0), table, testChannels)
	require.NoError(t, err)
	require.NoError(t, model.Fit(context.Background(), fitOptions(11)))

	post, err := model.BackScaledPosterior()
	require.NoError(t, err)
	means, err := post.Mean("beta")
	require.NoError(t, err)

	assert.InDelta(t, gen.BetaFacebook, means[0], 1.2, "facebook effect within wide tolerance")
	assert.InDelta(t, gen.BetaGoogle, means[1], 1.0, "google effect within wide tolerance")

	// The plotting surface works end to end on a fitted model.
	dir := t.TempDir()
	predictive := filepath.Join(dir, "pp.png")
	require.NoError(t, model.PlotPosteriorPredictive(predictive, true))
	info, err := os.Stat(predictive)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	paths, err := model.PlotParameterDistributions(dir, true)
	require.NoError(t, err)
	assert.Len(t, paths, 3, "beta per channel plus sigma")
}

func TestConfounder_RecoversCrossChannelSlope(t *testing.T) {
	if testing.Short() {
		t.Skip("sampling is slow")
	}

	gen := dataset.DefaultSyntheticConfig()
	gen.Days = 90
	gen.Seed = 7
	table, err := dataset.Synthetic(gen)
	require.NoError(t, err)

	model, err := New(NewConfounder(), table, testChannels)
	require.NoError(t, err)
	require.NoError(t, model.Fit(context.Background(), fitOptions(13)))

	post, err := model.BackScaledPosterior()
	require.NoError(t, err)

	slope, err := post.Mean("beta_fb_google")
	require.NoError(t, err)
	assert.InDelta(t, gen.GoogleFromFacebook, slope[0], 0.5,
		"cross-channel slope within wide tolerance")

	baseline, err := post.Mean("spend_google_0")
	require.NoError(t, err)
	assert.InDelta(t, gen.GoogleBaseline, baseline[0], 40,
		"google baseline back-scaled into spend units")
}

func TestMetrics_PredictiveTracksSales(t *testing.T) {
	if testing.Short() {
		t.Skip("sampling is slow")
	}

	gen := dataset.DefaultSyntheticConfig()
	gen.Days = 90
	gen.Seed = 3
	table, err := dataset.Synthetic(gen)
	require.NoError(t, err)

	model, err := New(NewMetrics("", ""), table, testChannels)
	require.NoError(t, err)
	require.NoError(t, model.Fit(context.Background(), fitOptions(17)))

	series, err := model.PredictiveSeries(true)
	require.NoError(t, err)

	obsMean := stat.Mean(series.Observed, nil)
	fitMean := stat.Mean(series.Mean, nil)
	assert.InEpsilon(t, obsMean, fitMean, 0.5,
		"posterior-predictive mean tracks observed sales level")
	require.Len(t, series.Bands, 2)
	assert.Equal(t, 0.94, series.Bands[0].Prob)
	assert.Equal(t, 0.50, series.Bands[1].Prob)
	for i := range series.Mean {
		assert.LessOrEqual(t, series.Bands[0].Lower[i], series.Mean[i])
		assert.GreaterOrEqual(t, series.Bands[0].Upper[i], series.Mean[i])
	}
}
