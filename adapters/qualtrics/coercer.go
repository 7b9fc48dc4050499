package qualtrics

import (
	"strconv"
	"strings"
	"time"

	"surveyflow/domain/survey"
)

// timestampFormats are the recorded-date layouts Qualtrics exports use,
// tried in order.
var timestampFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02",
	"01/02/2006 15:04",
	"2006/01/02 15:04:05",
}

// Coercer deterministically converts raw export cells to typed values.
// The precedence is numeric, then timestamp, then string; anything empty
// or unparseable in a numeric context becomes missing rather than failing
// the run.
type Coercer struct{}

// NewCoercer creates a coercer with the export's parsing rules.
func NewCoercer() *Coercer {
	return &Coercer{}
}

// Coerce converts one trimmed cell to a typed value.
func (c *Coercer) Coerce(raw string) survey.Value {
	if raw == "" {
		return survey.NewMissingValue()
	}

	if f, ok := c.tryNumeric(raw); ok {
		return survey.NewNumericValue(f)
	}
	if t, ok := c.tryTimestamp(raw); ok {
		return survey.NewTimestampValue(t)
	}
	return survey.NewStringValue(raw)
}

// CoerceNumeric converts a cell to numeric-or-missing, the behavior every
// filtered column relies on: a value that does not parse is missing, and a
// missing value fails any equality or threshold predicate downstream.
func (c *Coercer) CoerceNumeric(raw string) survey.Value {
	if f, ok := c.tryNumeric(strings.TrimSpace(raw)); ok {
		return survey.NewNumericValue(f)
	}
	return survey.NewMissingValue()
}

func (c *Coercer) tryNumeric(raw string) (float64, bool) {
	clean := strings.ReplaceAll(raw, ",", "")
	f, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (c *Coercer) tryTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
