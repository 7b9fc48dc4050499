package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Load errors
	ErrSourceUnreadable = errors.New("source file unreadable")
	ErrSourceMalformed  = errors.New("source file malformed")
	ErrColumnMissing    = errors.New("required column missing")

	// Analysis errors
	ErrInsufficientSample = errors.New("insufficient sample for statistics")
	ErrModelFit           = errors.New("moderator model fit failed")
	ErrDegenerateSample   = errors.New("degenerate sample")

	// Reporting errors
	ErrRenderFailed = errors.New("chart rendering failed")
)

// NewLoadError wraps a file-level failure for one condition's source.
func NewLoadError(path string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrSourceUnreadable, path, err)
}

// NewColumnError reports a column the export is expected to carry.
func NewColumnError(column string) error {
	return fmt.Errorf("%w: %s", ErrColumnMissing, column)
}

// NewInsufficientSampleError reports a condition whose final N is below the
// floor required to run the hypothesis tests.
func NewInsufficientSampleError(label string, n, minimum int) error {
	return fmt.Errorf("%w: condition %s has n=%d, need at least %d", ErrInsufficientSample, label, n, minimum)
}

// NewModelFitError wraps a failure of one exploratory moderator model.
func NewModelFitError(model string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrModelFit, model, err)
}

// Error checking helpers
func IsLoadError(err error) bool {
	return errors.Is(err, ErrSourceUnreadable) || errors.Is(err, ErrSourceMalformed)
}

func IsInsufficientSample(err error) bool {
	return errors.Is(err, ErrInsufficientSample)
}

func IsModelFitError(err error) bool {
	return errors.Is(err, ErrModelFit)
}

func IsRenderError(err error) bool {
	return errors.Is(err, ErrRenderFailed)
}
