package stats

import (
	"math/rand"
	"testing"

	"surveyflow/domain/core"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFitOLSRecoversKnownCoefficients(t *testing.T) {
	// y = 2 + 3*x exactly, no noise
	names := []string{"intercept", "x"}
	var design [][]float64
	var y []float64
	for _, x := range []float64{0, 1, 2, 3, 4, 5} {
		design = append(design, []float64{1, x})
		y = append(y, 2+3*x)
	}

	fit, err := FitOLS("line", names, design, y)
	require.NoError(t, err)

	require.Len(t, fit.Coefficients, 2)
	assert.InDelta(t, 2, fit.Coefficients[0].Estimate, 1e-9)
	assert.InDelta(t, 3, fit.Coefficients[1].Estimate, 1e-9)
	assert.InDelta(t, 1, fit.RSquared, 1e-9)
	assert.Equal(t, 4, fit.ResidualDF)
}

func TestFitOLSNoisyRecovery(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	names := []string{"intercept", "x"}
	var design [][]float64
	var y []float64
	for i := 0; i < 200; i++ {
		x := rng.Float64() * 10
		design = append(design, []float64{1, x})
		y = append(y, 1.5+0.8*x+rng.NormFloat64()*0.1)
	}

	fit, err := FitOLS("noisy", names, design, y)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, fit.Coefficients[0].Estimate, 0.1)
	assert.InDelta(t, 0.8, fit.Coefficients[1].Estimate, 0.05)
	assert.Less(t, fit.Coefficients[1].PValue, 1e-6)
}

func TestFitOLSSingularDesign(t *testing.T) {
	// second column is a copy of the first
	names := []string{"a", "b"}
	design := [][]float64{{1, 1}, {2, 2}, {3, 3}, {4, 4}}
	y := []float64{1, 2, 3, 4}

	_, err := FitOLS("collinear", names, design, y)
	require.Error(t, err)
	assert.True(t, core.IsModelFitError(err))
}

func TestFitOLSTooFewObservations(t *testing.T) {
	names := []string{"intercept", "x"}
	design := [][]float64{{1, 2}, {1, 3}}
	y := []float64{1, 2}

	_, err := FitOLS("thin", names, design, y)
	require.Error(t, err)
	assert.True(t, core.IsModelFitError(err))
}

func TestModeratorContinuousInteraction(t *testing.T) {
	// the condition effect grows by 0.5 per unit of moderator above center
	var condition, moderator, score []float64
	for c := 0; c <= 1; c++ {
		for m := 1.0; m <= 8; m++ {
			condition = append(condition, float64(c))
			moderator = append(moderator, m)
			centered := m - 4.5
			score = append(score, 3+float64(c)*(1+0.5*centered)+0.2*centered)
		}
	}

	fit, err := ModeratorContinuous("condition-x-frequency", condition, moderator, score)
	require.NoError(t, err)

	require.Len(t, fit.Coefficients, 4)
	assert.Equal(t, "condition:moderator", fit.Coefficients[3].Name)
	assert.InDelta(t, 0.5, fit.Coefficients[3].Estimate, 1e-9)
	assert.InDelta(t, 1, fit.Coefficients[1].Estimate, 1e-9)
}

func TestModeratorCategoricalDummyCoding(t *testing.T) {
	condition := []float64{0, 0, 0, 0, 1, 1, 1, 1, 0, 0, 1, 1}
	gender := []string{"1", "2", "1", "2", "1", "2", "1", "2", "1", "2", "1", "2"}
	score := []float64{3, 4, 3.2, 4.1, 5, 4.5, 5.1, 4.4, 3.1, 3.9, 4.9, 4.6}

	fit, err := ModeratorCategorical("condition-x-gender", condition, gender, score)
	require.NoError(t, err)

	require.Len(t, fit.Coefficients, 4)
	assert.Equal(t, "intercept", fit.Coefficients[0].Name)
	assert.Equal(t, "condition", fit.Coefficients[1].Name)
	assert.Equal(t, "level[2]", fit.Coefficients[2].Name)
	assert.Equal(t, "condition:level[2]", fit.Coefficients[3].Name)
}

func TestModeratorCategoricalSingleLevel(t *testing.T) {
	condition := []float64{0, 0, 1, 1}
	gender := []string{"1", "1", "1", "1"}
	score := []float64{3, 3.5, 4, 4.5}

	_, err := ModeratorCategorical("condition-x-gender", condition, gender, score)
	require.Error(t, err)
	assert.True(t, core.IsModelFitError(err))
}

func TestDistinctLevelsSortedSkipEmpty(t *testing.T) {
	levels := distinctLevels([]string{"2", "", "1", "2", "3", "1"})
	assert.Equal(t, []string{"1", "2", "3"}, levels)
}
