package ports

import (
	"surveyflow/adapters/stats"
	"surveyflow/domain/survey"
)

// ChartRenderer produces the visual report. Rendering failures are
// reported but never abort the numeric pipeline.
type ChartRenderer interface {
	// RenderComparison draws the score-distribution comparison between
	// the two conditions.
	RenderComparison(silent, audio []survey.ScoredResponse) error

	// RenderInteractions draws the moderator interaction charts for the
	// extended variant. Models that failed to fit are skipped.
	RenderInteractions(silent, audio []survey.ScoredResponse, fits []stats.ModelFit) error
}
