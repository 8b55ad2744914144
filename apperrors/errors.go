package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnknownPage  = errors.New("unknown page")
	ErrInvalidEmail = errors.New("invalid email")
	ErrNoConsent    = errors.New("consent not given")
	ErrInvalidInput = errors.New("invalid input")
)

// Machine-readable reason codes returned to API clients.
const (
	CodeUnknownPage  = "unknown_page"
	CodeInvalidEmail = "invalid_email"
	CodeNoConsent    = "no_consent"
	CodeInvalidInput = "invalid_input"
	CodeInternal     = "internal_error"
)

type AppError struct {
	Err        error
	Code       string
	Message    string
	StatusCode int
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, statusCode int, message string) *AppError {
	return &AppError{
		Err:        sentinel,
		Code:       codeFor(sentinel),
		Message:    message,
		StatusCode: statusCode,
	}
}

func Newf(sentinel error, statusCode int, format string, args ...any) *AppError {
	return New(sentinel, statusCode, fmt.Sprintf(format, args...))
}

func HTTPStatusCode(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, ErrUnknownPage):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrNoConsent), errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// Code returns the reason code for err, falling back to CodeInternal.
func Code(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Code != "" {
		return appErr.Code
	}
	return codeFor(err)
}

func codeFor(err error) string {
	switch {
	case errors.Is(err, ErrUnknownPage):
		return CodeUnknownPage
	case errors.Is(err, ErrInvalidEmail):
		return CodeInvalidEmail
	case errors.Is(err, ErrNoConsent):
		return CodeNoConsent
	case errors.Is(err, ErrInvalidInput):
		return CodeInvalidInput
	default:
		return CodeInternal
	}
}
