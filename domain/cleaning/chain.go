package cleaning

import (
	"surveyflow/domain/survey"
)

// Stage is one exclusion rule. Keep reports whether a row survives; a
// missing value in the filtered column always fails the predicate.
type Stage struct {
	Name string
	Keep func(r survey.Response) bool
}

// StageOutcome records what one stage did. It is purely observational:
// nothing downstream feeds counts back into filtering.
type StageOutcome struct {
	Name    string `json:"name"`
	Before  int    `json:"before"`
	Removed int    `json:"removed"`
}

// After returns the survivor count for the stage.
func (o StageOutcome) After() int { return o.Before - o.Removed }

// Result bundles the survivors of a full chain invocation with the ordered
// per-stage accounting for the cleaning report.
type Result struct {
	Label     survey.Label   `json:"label"`
	OriginalN int            `json:"original_n"`
	Outcomes  []StageOutcome `json:"outcomes"`
	Survivors []survey.Response
}

// FinalN returns the survivor count after the whole chain.
func (r Result) FinalN() int { return len(r.Survivors) }

// Outcome looks up a stage's outcome by name.
func (r Result) Outcome(name string) (StageOutcome, bool) {
	for _, o := range r.Outcomes {
		if o.Name == name {
			return o, true
		}
	}
	return StageOutcome{}, false
}

// Logger is the narrow sink for per-stage drop lines.
type Logger interface {
	Info(format string, args ...interface{})
}

// Chain applies stages in declaration order. Each stage sees only the
// previous stage's survivors, so the row set narrows monotonically.
type Chain struct {
	label  survey.Label
	stages []Stage
	log    Logger
}

// NewChain builds a chain for one condition's cleaning pass.
func NewChain(label survey.Label, stages []Stage, log Logger) *Chain {
	return &Chain{label: label, stages: stages, log: log}
}

// Run applies every stage and returns survivors plus stage outcomes.
func (c *Chain) Run(rows []survey.Response) Result {
	result := Result{
		Label:     c.label,
		OriginalN: len(rows),
		Outcomes:  make([]StageOutcome, 0, len(c.stages)),
	}

	current := rows
	for _, stage := range c.stages {
		before := len(current)
		kept := make([]survey.Response, 0, before)
		for _, row := range current {
			if stage.Keep(row) {
				kept = append(kept, row)
			}
		}

		outcome := StageOutcome{Name: stage.Name, Before: before, Removed: before - len(kept)}
		result.Outcomes = append(result.Outcomes, outcome)
		if c.log != nil {
			c.log.Info("[%s] %s removed %d of %d", c.label, stage.Name, outcome.Removed, outcome.Before)
		}
		current = kept
	}

	result.Survivors = current
	return result
}
