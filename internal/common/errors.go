package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Common application errors. These are the only kinds that ever reach a caller;
// everything internal is wrapped into one of them with a safe message.
var (
	ErrValidation        = errors.New("validation failed")
	ErrUnknownCategory   = errors.New("unknown category")
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrExtraction        = errors.New("extraction failed")
	ErrModelUnavailable  = errors.New("model unavailable")
	ErrTimeout           = errors.New("operation timed out")
	ErrInternal          = errors.New("internal error")
)

// Stable error codes (returned verbatim in API responses).
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeUnknownCategory   = "UNKNOWN_CATEGORY"
	CodeUnsupportedFormat = "UNSUPPORTED_FORMAT"
	CodeExtraction        = "EXTRACTION_ERROR"
	CodeModelUnavailable  = "MODEL_UNAVAILABLE"
	CodeTimeout           = "TIMEOUT"
	CodeInternal          = "INTERNAL_ERROR"
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func ValidationError(message string) *AppError {
	return &AppError{Code: CodeValidation, Message: message, Cause: ErrValidation}
}

func UnknownCategoryError(field, label string) *AppError {
	return &AppError{
		Code:    CodeUnknownCategory,
		Message: fmt.Sprintf("unknown value %q for field %q", label, field),
		Cause:   ErrUnknownCategory,
	}
}

func UnsupportedFormatError(message string) *AppError {
	return &AppError{Code: CodeUnsupportedFormat, Message: message, Cause: ErrUnsupportedFormat}
}

func ExtractionError(message string, cause error) *AppError {
	if cause == nil {
		cause = ErrExtraction
	}
	return &AppError{Code: CodeExtraction, Message: message, Cause: cause}
}

func ModelUnavailableError(cause error) *AppError {
	return &AppError{Code: CodeModelUnavailable, Message: "model is not loaded", Cause: cause}
}

func TimeoutError() *AppError {
	return &AppError{Code: CodeTimeout, Message: "request deadline exceeded", Cause: ErrTimeout}
}

// Kind reports the stable code for err, or CodeInternal when the error
// carries no AppError anywhere in its chain.
func Kind(err error) string {
	var app *AppError
	if errors.As(err, &app) {
		return app.Code
	}
	switch {
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrUnknownCategory):
		return CodeUnknownCategory
	case errors.Is(err, ErrUnsupportedFormat):
		return CodeUnsupportedFormat
	case errors.Is(err, ErrExtraction):
		return CodeExtraction
	case errors.Is(err, ErrModelUnavailable):
		return CodeModelUnavailable
	case errors.Is(err, ErrTimeout):
		return CodeTimeout
	default:
		return CodeInternal
	}
}

// SafeMessage returns a message fit for a response body: the AppError message
// when present, a generic line otherwise. Internal detail never leaks.
func SafeMessage(err error) string {
	var app *AppError
	if errors.As(err, &app) {
		return app.Message
	}
	return "an unexpected error occurred"
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
