package posterior

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPosterior(t *testing.T) *Posterior {
	t.Helper()
	p := New(2, 2)
	require.NoError(t, p.AddParam("beta", []string{"a", "b"}, [][]float64{
		{1, 2, 3, 4},
		{10, 20, 30, 40},
	}))
	require.NoError(t, p.AddParam("sigma", nil, [][]float64{{0.5, 1.5, 1.0, 1.0}}))
	return p
}

func TestAddParam_Validation(t *testing.T) {
	p := New(2, 2)
	require.NoError(t, p.AddParam("x", nil, [][]float64{{1, 2, 3, 4}}))

	assert.Error(t, p.AddParam("x", nil, [][]float64{{1, 2, 3, 4}}), "duplicates rejected")
	assert.Error(t, p.AddParam("y", nil, [][]float64{{1, 2}}), "wrong draw count rejected")
}

func TestMeanStdDev(t *testing.T) {
	p := newTestPosterior(t)

	means, err := p.Mean("beta")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, means[0], 1e-12)
	assert.InDelta(t, 25.0, means[1], 1e-12)

	sds, err := p.StdDev("sigma")
	require.NoError(t, err)
	assert.Greater(t, sds[0], 0.0)

	_, err = p.Mean("nope")
	assert.Error(t, err)
}

func TestScale(t *testing.T) {
	p := newTestPosterior(t)

	require.NoError(t, p.Scale("beta", 10))
	means, err := p.Mean("beta")
	require.NoError(t, err)
	assert.InDelta(t, 25.0, means[0], 1e-12)
	assert.InDelta(t, 250.0, means[1], 1e-12)

	assert.Error(t, p.Scale("nope", 2))
}

func TestClone_Independent(t *testing.T) {
	p := newTestPosterior(t)
	p.Raw = [][]float64{{1, 2, 3}}

	clone := p.Clone()
	require.NoError(t, clone.Scale("beta", 100))
	clone.Raw[0][0] = 99

	means, err := p.Mean("beta")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, means[0], 1e-12, "scaling a clone must not touch the original")
	assert.Equal(t, 1.0, p.Raw[0][0])
	assert.Equal(t, p.Names(), clone.Names())
}

func TestHDI(t *testing.T) {
	// 100 evenly spread samples: any 50-sample window is equally wide, so
	// the first (lowest) window wins.
	samples := make([]float64, 100)
	for i := range samples {
		samples[i] = float64(i)
	}

	interval, err := HDI(samples, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, interval.Lower)
	assert.Equal(t, 49.0, interval.Upper)

	// A tight cluster should dominate the interval.
	clustered := append(append([]float64(nil), 100, 200, 300),
		1.0, 1.1, 1.2, 1.3, 1.4, 1.5, 1.6)
	interval, err = HDI(clustered, 0.7)
	require.NoError(t, err)
	assert.Equal(t, 1.0, interval.Lower)
	assert.Equal(t, 1.6, interval.Upper)
}

func TestHDI_Bounds(t *testing.T) {
	interval, err := HDI([]float64{5, 1, 3}, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, interval.Lower)
	assert.Equal(t, 5.0, interval.Upper)

	_, err = HDI(nil, 0.5)
	assert.Error(t, err)
	_, err = HDI([]float64{1}, 0)
	assert.Error(t, err)
	_, err = HDI([]float64{1}, 1.5)
	assert.Error(t, err)
}

func TestHDIOf(t *testing.T) {
	p := newTestPosterior(t)

	interval, err := p.HDIOf("beta", 0, 1.0)
	require.NoError(t, err)
	assert.Equal(t, 1.0, interval.Lower)
	assert.Equal(t, 4.0, interval.Upper)

	_, err = p.HDIOf("beta", 5, 0.5)
	assert.Error(t, err)
	_, err = p.HDIOf("nope", 0, 0.5)
	assert.Error(t, err)
}
