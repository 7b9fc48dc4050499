// Package scoring derives the composite flow score from the cleaned
// response set.
package scoring

import (
	"surveyflow/domain/survey"
)

// FlowScore is the row-wise mean of the available item values. Missing
// items are skipped; the score itself is missing only when every item is
// missing for the row. This matches the original analysis convention of a
// row mean over available numeric values.
func FlowScore(r survey.Response, itemColumns []string) survey.Value {
	sum := 0.0
	n := 0
	for _, col := range itemColumns {
		if f, ok := r.Field(col).Float(); ok {
			sum += f
			n++
		}
	}
	if n == 0 {
		return survey.NewMissingValue()
	}
	return survey.NewNumericValue(sum / float64(n))
}

// ScoreAll tags every survivor with its condition label and flow score.
func ScoreAll(rows []survey.Response, label survey.Label, itemColumns []string) []survey.ScoredResponse {
	scored := make([]survey.ScoredResponse, 0, len(rows))
	for _, row := range rows {
		scored = append(scored, survey.ScoredResponse{
			Response:  row,
			Condition: label,
			Score:     FlowScore(row, itemColumns),
		})
	}
	return scored
}

// Scores extracts the present score values from a scored set, dropping
// rows whose score is missing.
func Scores(rows []survey.ScoredResponse) []float64 {
	out := make([]float64, 0, len(rows))
	for _, row := range rows {
		if f, ok := row.Score.Float(); ok {
			out = append(out, f)
		}
	}
	return out
}
