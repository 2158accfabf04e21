package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeConflict     = "CONFLICT"
	CodeNotFound     = "RESOURCE_NOT_FOUND"
	CodeStore        = "STORE_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeInternal     = "INTERNAL_ERROR"
)

// Error is the single error type returned across the service boundary.
type Error struct {
	Code       string            `json:"code"`
	Message    string            `json:"message"`
	Details    map[string]string `json:"details,omitempty"`
	HTTPStatus int               `json:"-"`
	Err        error             `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail adds a single detail to the error
func (e *Error) WithDetail(key, value string) *Error {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// Wrap attaches the underlying cause
func (e *Error) Wrap(err error) *Error {
	e.Err = err
	return e
}

func newError(code, message string, httpStatus int) *Error {
	return &Error{Code: code, Message: message, HTTPStatus: httpStatus}
}

// Validation reports malformed or missing input. No state was changed.
func Validation(message string) *Error {
	return newError(CodeValidation, message, http.StatusBadRequest)
}

// ValidationFields reports one message per offending field.
func ValidationFields(message string, fields map[string]string) *Error {
	e := Validation(message)
	e.Details = fields
	return e
}

// Conflict reports a uniqueness violation.
func Conflict(message string) *Error {
	return newError(CodeConflict, message, http.StatusConflict)
}

// NotFound reports that no row matched the given key.
func NotFound(resource, key string) *Error {
	return newError(CodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound).
		WithDetail("key", key)
}

// Store wraps any other failure reported by the backing store.
func Store(op string, err error) *Error {
	return newError(CodeStore, fmt.Sprintf("store %s failed", op), http.StatusServiceUnavailable).Wrap(err)
}

func Unauthorized(message string) *Error {
	if message == "" {
		message = "authentication required"
	}
	return newError(CodeUnauthorized, message, http.StatusUnauthorized)
}

func Forbidden(message string) *Error {
	if message == "" {
		message = "access denied"
	}
	return newError(CodeForbidden, message, http.StatusForbidden)
}

func Internal(err error) *Error {
	return newError(CodeInternal, "an internal error occurred", http.StatusInternalServerError).Wrap(err)
}

// As returns the *Error in err's chain, if any.
func As(err error) (*Error, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// From converts any error into an *Error, treating unknown errors as internal.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if appErr, ok := As(err); ok {
		return appErr
	}
	return Internal(err)
}

func hasCode(err error, code string) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

func IsValidation(err error) bool { return hasCode(err, CodeValidation) }
func IsConflict(err error) bool   { return hasCode(err, CodeConflict) }
func IsNotFound(err error) bool   { return hasCode(err, CodeNotFound) }
func IsStore(err error) bool      { return hasCode(err, CodeStore) }
