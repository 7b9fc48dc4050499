package ports

import (
	"surveyflow/domain/survey"
)

// RecordSource loads one condition's raw response table. Implementations
// must fail with a load error when the file is missing or unparseable;
// the caller aborts that condition's pipeline rather than degrading.
type RecordSource interface {
	Read() ([]survey.Response, error)
}

// SourceFactory opens a record source for a condition's export file.
type SourceFactory func(path string) RecordSource
