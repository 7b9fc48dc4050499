package cleaning

import (
	"surveyflow/domain/survey"
)

// Stage names, fixed for reporting. Order is significant: the date filter
// runs first so the reported "original N" matches the registered counting
// convention, and the manipulation check runs last so its drop count
// reflects only otherwise-valid respondents.
const (
	StageDate         = "date_cutoff"
	StageFinished     = "finished"
	StageDuration     = "min_duration"
	StageAttention    = "attention_check"
	StageManipulation = "manipulation_check"
	StageFrequency    = "frequency_bound"
)

// StagesFor assembles the ordered exclusion rules for one condition.
// The frequency bound is appended only in the extended variant.
func StagesFor(cond survey.Condition, spec survey.CleaningSpec) []Stage {
	stages := []Stage{
		{
			Name: StageDate,
			Keep: func(r survey.Response) bool {
				return !r.RecordedAt.IsZero() && !r.RecordedAt.Time().Before(cond.Cutoff.Time())
			},
		},
		{
			Name: StageFinished,
			Keep: func(r survey.Response) bool {
				return r.Field(survey.ColFinished).Equals(1)
			},
		},
		{
			Name: StageDuration,
			Keep: func(r survey.Response) bool {
				return r.Field(survey.ColDuration).AtLeast(spec.MinDurationSeconds)
			},
		},
		{
			Name: StageAttention,
			Keep: func(r survey.Response) bool {
				return r.Field(survey.ColAttention).Equals(spec.AttentionTarget)
			},
		},
		{
			Name: StageManipulation,
			Keep: func(r survey.Response) bool {
				return r.Field(survey.ColManipulation).Equals(cond.ManipulationTarget)
			},
		},
	}

	if spec.Extended && spec.FrequencyBound > 0 {
		stages = append(stages, Stage{
			Name: StageFrequency,
			Keep: func(r survey.Response) bool {
				return r.Field(survey.ColFrequency).AtMost(spec.FrequencyBound)
			},
		})
	}

	return stages
}
