package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_UnwrapAndKind(t *testing.T) {
	err := ValidationError("age must be between 18 and 120 years")
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Equal(t, CodeValidation, Kind(err))
	assert.Contains(t, err.Error(), "VALIDATION_ERROR")

	wrapped := fmt.Errorf("handling request: %w", err)
	assert.Equal(t, CodeValidation, Kind(wrapped))
}

func TestKind_PerConstructor(t *testing.T) {
	assert.Equal(t, CodeUnknownCategory, Kind(UnknownCategoryError("Gender", "Other")))
	assert.Equal(t, CodeUnsupportedFormat, Kind(UnsupportedFormatError("empty file")))
	assert.Equal(t, CodeExtraction, Kind(ExtractionError("boom", errors.New("exit 1"))))
	assert.Equal(t, CodeModelUnavailable, Kind(ModelUnavailableError(errors.New("no file"))))
	assert.Equal(t, CodeTimeout, Kind(TimeoutError()))
	assert.Equal(t, CodeInternal, Kind(errors.New("anything else")))
}

func TestSafeMessage_HidesInternalDetail(t *testing.T) {
	cause := errors.New("open /secret/path: permission denied")
	msg := SafeMessage(ExtractionError("document could not be read", cause))
	assert.Contains(t, msg, "document could not be read")
	assert.NotContains(t, msg, "/secret/path")

	assert.NotContains(t, SafeMessage(errors.New("pq: connection refused")), "connection refused")
}

func TestUnknownCategoryError_NamesFieldAndLabel(t *testing.T) {
	err := UnknownCategoryError("Alcohol Intake", "Sometimes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Alcohol Intake")
	assert.Contains(t, err.Error(), "Sometimes")
}
