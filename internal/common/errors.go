package common

import (
	"errors"
	"net/http"
)

// Error kinds used to classify failures at the HTTP boundary.
var (
	ErrValidation  = errors.New("validation error")
	ErrNotFound    = errors.New("not found")
	ErrPersistence = errors.New("persistence error")
	ErrState       = errors.New("state error")
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Kind       error
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is reports whether target is the kind sentinel of this error.
func (e *AppError) Is(target error) bool {
	if e == nil || e.Kind == nil {
		return false
	}
	return e.Kind == target
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}

// ValidationError reports bad caller input.
func ValidationError(message string, details any) *AppError {
	return &AppError{Code: "VALIDATION_ERROR", Message: message, HTTPStatus: http.StatusBadRequest, Kind: ErrValidation, Details: details}
}

// NotFoundError reports an unresolvable reference.
func NotFoundError(message string, err error) *AppError {
	return &AppError{Code: "NOT_FOUND", Message: message, HTTPStatus: http.StatusNotFound, Kind: ErrNotFound, Err: err}
}

// PersistenceError reports a store that is unavailable or rejected a write.
// Callers may retry.
func PersistenceError(message string, err error) *AppError {
	return &AppError{Code: "PERSISTENCE_ERROR", Message: message, HTTPStatus: http.StatusServiceUnavailable, Kind: ErrPersistence, Err: err}
}

// StateError reports that the requested resource is not available in the current state.
func StateError(message string) *AppError {
	return &AppError{Code: "NO_BILL", Message: message, HTTPStatus: http.StatusBadRequest, Kind: ErrState}
}
