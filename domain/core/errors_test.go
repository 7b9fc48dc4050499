package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadErrorWrapping(t *testing.T) {
	err := NewLoadError("data.csv", errors.New("no such file"))
	assert.True(t, IsLoadError(err))
	assert.ErrorIs(t, err, ErrSourceUnreadable)
	assert.Contains(t, err.Error(), "data.csv")
}

func TestColumnError(t *testing.T) {
	err := NewColumnError("RecordedDate")
	assert.ErrorIs(t, err, ErrColumnMissing)
	assert.Contains(t, err.Error(), "RecordedDate")
}

func TestInsufficientSampleError(t *testing.T) {
	err := NewInsufficientSampleError("Silent", 1, 2)
	assert.True(t, IsInsufficientSample(err))
	assert.Contains(t, err.Error(), "n=1")
}

func TestModelFitError(t *testing.T) {
	err := NewModelFitError("flow ~ condition * gender", errors.New("singular design matrix"))
	assert.True(t, IsModelFitError(err))
	assert.False(t, IsLoadError(err))
}

func TestRenderErrorDetection(t *testing.T) {
	err := fmt.Errorf("%w: save failed", ErrRenderFailed)
	assert.True(t, IsRenderError(err))
}

func TestNewIDUnique(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
