package stats

import (
	"testing"

	"surveyflow/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Gold values computed with scipy.stats.mannwhitneyu on the same inputs.

func TestMannWhitneyAsymptoticWithTies(t *testing.T) {
	audio := []float64{5, 6, 6, 7}
	silent := []float64{3, 4, 4, 5}

	res, err := MannWhitneyU(audio, silent, AlternativeGreater)
	require.NoError(t, err)

	assert.Equal(t, "asymptotic", res.Method)
	assert.InDelta(t, 15.5, res.Statistic, 1e-9)
	assert.InDelta(t, 0.019804352319879915, res.PValue, 1e-6)
	assert.Equal(t, 4, res.NX)
	assert.Equal(t, 4, res.NY)
}

func TestMannWhitneyExactNoTies(t *testing.T) {
	x := []float64{1.2, 2.4, 3.1, 4.8, 5.5}
	y := []float64{0.5, 1.1, 2.0, 2.2, 3.0}

	res, err := MannWhitneyU(x, y, AlternativeGreater)
	require.NoError(t, err)

	assert.Equal(t, "exact", res.Method)
	assert.InDelta(t, 21, res.Statistic, 1e-9)
	assert.InDelta(t, 0.047619047619047616, res.PValue, 1e-6)
}

func TestMannWhitneySymmetry(t *testing.T) {
	x := []float64{1.2, 2.4, 3.1, 4.8, 5.5}
	y := []float64{0.5, 1.1, 2.0, 2.2, 3.0}

	fwd, err := MannWhitneyU(x, y, AlternativeGreater)
	require.NoError(t, err)
	rev, err := MannWhitneyU(y, x, AlternativeGreater)
	require.NoError(t, err)

	// U1 + U2 = n1*n2 regardless of direction
	assert.InDelta(t, float64(len(x)*len(y)), fwd.Statistic+rev.Statistic, 1e-9)
	assert.Less(t, fwd.PValue, rev.PValue)
}

func TestMannWhitneyTwoSidedExact(t *testing.T) {
	x := []float64{1.2, 2.4, 3.1, 4.8, 5.5}
	y := []float64{0.5, 1.1, 2.0, 2.2, 3.0}

	one, err := MannWhitneyU(x, y, AlternativeGreater)
	require.NoError(t, err)
	two, err := MannWhitneyU(x, y, AlternativeTwoSided)
	require.NoError(t, err)

	assert.InDelta(t, 2*one.PValue, two.PValue, 1e-9)
}

func TestMannWhitneyTiesForceAsymptotic(t *testing.T) {
	x := []float64{1, 2, 3}
	y := []float64{3, 4, 5}

	res, err := MannWhitneyU(x, y, AlternativeGreater)
	require.NoError(t, err)
	assert.Equal(t, "asymptotic", res.Method)
}

func TestMannWhitneyInsufficientSample(t *testing.T) {
	_, err := MannWhitneyU([]float64{1}, []float64{2, 3}, AlternativeGreater)
	require.Error(t, err)
	assert.True(t, core.IsInsufficientSample(err))
}

func TestUCountsTotal(t *testing.T) {
	// distribution over U must account for all C(7,3)=35 arrangements
	counts := uCounts(3, 4)
	total := 0.0
	for _, c := range counts {
		total += c
	}
	assert.InDelta(t, 35, total, 1e-9)
	assert.InDelta(t, counts[0], counts[12], 1e-9)
}

func TestRankDataAverageTies(t *testing.T) {
	ranks := RankData([]float64{3, 4, 4, 5})
	assert.Equal(t, []float64{1, 2.5, 2.5, 4}, ranks)
}

func TestTieTerm(t *testing.T) {
	// three pairs of ties at 4, 5 and 6: 3*(2^3-2) = 18
	assert.InDelta(t, 18, tieTerm([]float64{5, 6, 6, 7, 3, 4, 4, 5}), 1e-9)
}
