package apperror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes shared by both services.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeNotPermitted     = "OPERATION_NOT_PERMITTED"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeRateLimited      = "RATE_LIMITED"
	CodeInternal         = "INTERNAL_ERROR"
)

// Error standardizes application errors across services. HTTPStatus drives
// the response code and Fields carries per-field validation messages.
type Error struct {
	Code       string
	Message    string
	HTTPStatus int
	Fields     map[string]string
	Err        error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports that a lookup key resolved to no row.
func NotFound(message string) error {
	return &Error{Code: CodeNotFound, Message: message, HTTPStatus: http.StatusNotFound}
}

// Conflict reports a uniqueness violation.
func Conflict(message string) error {
	return &Error{Code: CodeConflict, Message: message, HTTPStatus: http.StatusConflict}
}

// Validation reports a declarative-constraint failure with a field map.
func Validation(message string, fields map[string]string) error {
	return &Error{Code: CodeValidationFailed, Message: message, HTTPStatus: http.StatusBadRequest, Fields: fields}
}

// NotPermitted reports a business-rule veto.
func NotPermitted(message string) error {
	return &Error{Code: CodeNotPermitted, Message: message, HTTPStatus: http.StatusForbidden}
}

// Unauthorized reports failed authentication.
func Unauthorized(message string) error {
	return &Error{Code: CodeUnauthorized, Message: message, HTTPStatus: http.StatusUnauthorized}
}

// RateLimited reports request throttling.
func RateLimited(message string) error {
	return &Error{Code: CodeRateLimited, Message: message, HTTPStatus: http.StatusTooManyRequests}
}

// Internal wraps an unexpected error behind a generic message.
func Internal(err error) error {
	return &Error{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred. Contact support if the problem persists",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// From converts an arbitrary error into an *Error, mapping pgx.ErrNoRows to
// NOT_FOUND and everything unknown to INTERNAL_ERROR.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return NotFound("Resource not found").(*Error)
	}
	return Internal(err).(*Error)
}

// IsCode reports whether err carries the given application code.
func IsCode(err error, code string) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Code == code
}
