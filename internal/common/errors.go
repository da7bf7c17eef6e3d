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

// Common application errors
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnsupported        = errors.New("unsupported document")
	ErrUnreadableDocument = errors.New("unreadable document")
	ErrOCR                = errors.New("ocr failed")
	ErrRemote             = errors.New("remote service failed")
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateOutput    = errors.New("output name already taken")
	ErrInternal           = errors.New("internal error")
)

// Error constructors
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// KindError tags err with one of the sentinel kinds above while keeping the
// original cause reachable through errors.Is / errors.As.
func KindError(kind error, message string, err error) error {
	if err == nil {
		return fmt.Errorf("%s: %w", message, kind)
	}
	return fmt.Errorf("%s: %w: %w", message, kind, err)
}

// ErrorCode maps an error to a short stable code for logs and reports.
func ErrorCode(err error) string {
	var app *AppError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &app):
		return app.Code
	case errors.Is(err, ErrUnreadableDocument):
		return "UNREADABLE_DOCUMENT"
	case errors.Is(err, ErrOCR):
		return "OCR_FAILED"
	case errors.Is(err, ErrUnsupported):
		return "UNSUPPORTED"
	case errors.Is(err, ErrValidation):
		return "VALIDATION_FAILED"
	case errors.Is(err, ErrRemote):
		return "REMOTE_FAILED"
	case errors.Is(err, ErrDuplicateOutput):
		return "DUPLICATE_OUTPUT"
	case errors.Is(err, ErrInvalidInput):
		return "INVALID_INPUT"
	default:
		return "INTERNAL"
	}
}
