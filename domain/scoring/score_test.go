package scoring_test

import (
	"testing"

	"surveyflow/domain/scoring"
	"surveyflow/domain/survey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func responseWithItems(items map[string]survey.Value) survey.Response {
	return survey.Response{Fields: items}
}

func TestFlowScoreMeanOfAllItems(t *testing.T) {
	fields := map[string]survey.Value{}
	values := []float64{5, 6, 4, 7, 5, 6, 5, 4, 6}
	for i, col := range survey.FlowItemColumns() {
		fields[col] = survey.NewNumericValue(values[i])
	}

	score, ok := scoring.FlowScore(responseWithItems(fields), survey.FlowItemColumns()).Float()
	require.True(t, ok)
	assert.InDelta(t, 48.0/9.0, score, 1e-9)
}

func TestFlowScoreSkipsAttentionColumn(t *testing.T) {
	cols := survey.FlowItemColumns()
	assert.NotContains(t, cols, survey.ColAttention)
	assert.Len(t, cols, 9)
}

func TestFlowScoreMeanOfAvailableItems(t *testing.T) {
	fields := map[string]survey.Value{
		"Q2_1": survey.NewNumericValue(4),
		"Q2_2": survey.NewNumericValue(6),
		"Q2_3": survey.NewMissingValue(),
	}

	score, ok := scoring.FlowScore(responseWithItems(fields), survey.FlowItemColumns()).Float()
	require.True(t, ok)
	assert.InDelta(t, 5.0, score, 1e-9)
}

func TestFlowScoreAllMissing(t *testing.T) {
	score := scoring.FlowScore(responseWithItems(nil), survey.FlowItemColumns())
	assert.True(t, score.IsMissing)
}

func TestScoresDropsMissing(t *testing.T) {
	rows := []survey.Response{
		responseWithItems(map[string]survey.Value{"Q2_1": survey.NewNumericValue(3)}),
		responseWithItems(nil),
		responseWithItems(map[string]survey.Value{"Q2_1": survey.NewNumericValue(7)}),
	}

	scored := scoring.ScoreAll(rows, survey.LabelSilent, survey.FlowItemColumns())
	require.Len(t, scored, 3)
	assert.Equal(t, survey.LabelSilent, scored[0].Condition)

	values := scoring.Scores(scored)
	assert.Equal(t, []float64{3, 7}, values)
}
