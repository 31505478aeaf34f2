package report

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkelk/mmm-experiments/pkg/posterior"
)

func TestSummary(t *testing.T) {
	p := posterior.New(1, 4)
	require.NoError(t, p.AddParam("beta", []string{"spend_fb", "spend_google"}, [][]float64{
		{1, 2, 3, 4},
		{2, 4, 6, 8},
	}))
	require.NoError(t, p.AddParam("sigma", nil, [][]float64{{0.5, 0.6, 0.7, 0.8}}))

	var sb strings.Builder
	require.NoError(t, Summary(&sb, p, []string{"beta", "sigma"}))

	out := sb.String()
	assert.Contains(t, out, "beta[spend_fb]")
	assert.Contains(t, out, "beta[spend_google]")
	assert.Contains(t, out, "sigma")
	assert.Contains(t, out, "2.500", "mean of the first beta component")
	assert.Contains(t, out, "5.000", "mean of the second beta component")
}

func TestSummary_UnknownParameter(t *testing.T) {
	p := posterior.New(1, 1)
	require.NoError(t, p.AddParam("x", nil, [][]float64{{1}}))

	var sb strings.Builder
	assert.Error(t, Summary(&sb, p, []string{"y"}))
}
