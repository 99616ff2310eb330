package types

import (
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode is a typed string for categorizing application errors.
type ErrorCode string

// Error code constants. Handlers and services use these constants instead
// of hardcoded strings so HTTP status mapping stays consistent.
const (
	// Configuration (the only fatal category: the widget refuses the
	// configuration outright instead of rendering in a broken state)
	ErrCodeConfigMissingEntity ErrorCode = "config_missing_primary_entity"
	ErrCodeConfigInvalid       ErrorCode = "config_invalid"

	// Validation (400)
	ErrCodeValidationInvalidKind ErrorCode = "validation_invalid_forecast_kind"
	ErrCodeValidationInvalidView ErrorCode = "validation_invalid_popup_view"
	ErrCodeValidationBadPayload  ErrorCode = "validation_bad_payload"

	// Non-fatal degraded states
	ErrCodeEntityNotFound     ErrorCode = "not_found_entity"
	ErrCodeSubscriptionFailed ErrorCode = "upstream_subscription_failed"

	// Lifecycle
	ErrCodeWidgetTornDown ErrorCode = "conflict_widget_torn_down"

	// Internal
	ErrCodeInternalUnexpected ErrorCode = "internal_unexpected_error"
)

// HTTPStatus maps an ErrorCode to its corresponding HTTP status code.
// Returns 500 for unrecognized codes as a safe default.
func (c ErrorCode) HTTPStatus() int {
	s := string(c)
	switch {
	case strings.HasPrefix(s, "config_"), strings.HasPrefix(s, "validation_"):
		return http.StatusBadRequest
	case strings.HasPrefix(s, "not_found_"):
		return http.StatusNotFound
	case strings.HasPrefix(s, "conflict_"):
		return http.StatusConflict
	case strings.HasPrefix(s, "upstream_"):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// AppError is the standard application error type. All domain errors are
// expressed as AppError to enable consistent formatting, HTTP status
// mapping, and error chain support.
type AppError struct {
	Code    ErrorCode      `json:"code"`
	Message string         `json:"message"`
	Err     error          `json:"-"`
	Details map[string]any `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/errors.As support.
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code corresponding to this error's code.
func (e *AppError) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// NewAppError creates a new AppError with the given code, message, and
// optional underlying error.
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
