package survey

import (
	"time"

	"surveyflow/domain/core"
)

// Qualtrics column codes for the export this tool targets. The Q2 block is
// the flow scale; Q2_8 is the embedded attention check and Q1 the
// manipulation check ("Did you notice a sound?").
const (
	ColRecordedDate = "RecordedDate"
	ColFinished     = "Finished"
	ColDuration     = "Duration (in seconds)"
	ColManipulation = "Q1"
	ColAttention    = "Q2_8"
	ColGender       = "Q3"
	ColAge          = "Q4"
	ColFrequency    = "Q5"
)

// FlowItemColumns is the fixed, ordered item set the composite flow score
// averages over. Q2_8 is deliberately absent: it is the attention check.
func FlowItemColumns() []string {
	return []string{"Q2_1", "Q2_2", "Q2_3", "Q2_4", "Q2_5", "Q2_6", "Q2_7", "Q2_9", "Q2_10"}
}

// Response is one respondent row after coercion. Fields map are keyed by
// export column code; values are typed with missing propagation.
type Response struct {
	RecordedAt core.Timestamp   `json:"recorded_at"`
	Fields     map[string]Value `json:"fields"`
}

// Field returns the coerced value for a column, missing when absent.
func (r Response) Field(column string) Value {
	if v, ok := r.Fields[column]; ok {
		return v
	}
	return NewMissingValue()
}

// Label names an experimental condition.
type Label string

const (
	LabelSilent   Label = "Silent"
	LabelAuditory Label = "Auditory"
)

// Condition binds one experimental group to its source file, collection
// cutoff, and the manipulation-check answer that validates assignment.
// The two conditions are not symmetric: each has its own correct answer
// to the manipulation question, so the target is carried here explicitly
// rather than selected by a shared flag at call time.
type Condition struct {
	Label              Label         `json:"label"`
	SourcePath         string        `json:"source_path"`
	Cutoff             core.CutoffAt `json:"cutoff"`
	ManipulationTarget float64       `json:"manipulation_target"`
}

// CleaningSpec carries the filter constants shared by both conditions.
// The manipulation targets hinted by the survey export are unverified
// against the live Qualtrics encoding, which is why everything here is
// overridable configuration rather than a baked-in constant.
type CleaningSpec struct {
	AttentionTarget    float64  `json:"attention_target"`
	MinDurationSeconds float64  `json:"min_duration_seconds"`
	ItemColumns        []string `json:"item_columns"`

	// Extended variant: drop respondents above this shopping-frequency
	// value. Zero disables the stage.
	FrequencyBound float64 `json:"frequency_bound"`
	Extended       bool    `json:"extended"`
}

// DefaultCleaningSpec returns the study's registered filter constants.
func DefaultCleaningSpec() CleaningSpec {
	return CleaningSpec{
		AttentionTarget:    5,
		MinDurationSeconds: 90,
		ItemColumns:        FlowItemColumns(),
	}
}

// ScoredResponse is a survivor of the full filter chain with its composite
// flow score and condition tag attached.
type ScoredResponse struct {
	Response  Response `json:"response"`
	Condition Label    `json:"condition"`
	Score     Value    `json:"score"`
}

// ParseCutoff parses a calendar date (YYYY-MM-DD or RFC3339) into a cutoff.
func ParseCutoff(s string) (core.CutoffAt, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return core.NewCutoffAt(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return core.CutoffAt{}, err
	}
	return core.NewCutoffAt(t), nil
}
