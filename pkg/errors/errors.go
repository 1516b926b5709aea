package errors

import (
	"fmt"
)

// ErrorCode represents an error code
type ErrorCode string

const (
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeInvalidState  ErrorCode = "INVALID_STATE"
	ErrCodeValidation    ErrorCode = "VALIDATION_ERROR"
	ErrCodeForbidden     ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized  ErrorCode = "UNAUTHORIZED"
	ErrCodeStore         ErrorCode = "STORE_ERROR"
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// AppError represents an application error
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with an AppError
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// NotFound creates a NotFound error. Absent entities and entities owned by
// another tenant both map here so callers cannot probe for existence.
func NotFound(message string) *AppError {
	return New(ErrCodeNotFound, message)
}

// InvalidState creates an InvalidState error naming the attempted operation
// and the status that forbids it.
func InvalidState(operation, status string) *AppError {
	return New(ErrCodeInvalidState, fmt.Sprintf("cannot %s signer in status '%s'", operation, status))
}

// Validation creates a ValidationError
func Validation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// Forbidden creates a Forbidden error
func Forbidden(message string) *AppError {
	return New(ErrCodeForbidden, message)
}

// Unauthorized creates an Unauthorized error
func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message)
}

// Store wraps a backing-store failure on a required write or read
func Store(message string, err error) *AppError {
	return Wrap(ErrCodeStore, message, err)
}

// CodeOf returns the error code of err, or ErrCodeInternalError for
// anything that is not an AppError.
func CodeOf(err error) ErrorCode {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return ErrCodeInternalError
}

// IsNotFound checks if error is NotFound
func IsNotFound(err error) bool {
	return CodeOf(err) == ErrCodeNotFound
}

// IsInvalidState checks if error is InvalidState
func IsInvalidState(err error) bool {
	return CodeOf(err) == ErrCodeInvalidState
}

// IsValidation checks if error is ValidationError
func IsValidation(err error) bool {
	return CodeOf(err) == ErrCodeValidation
}

// IsForbidden checks if error is Forbidden
func IsForbidden(err error) bool {
	return CodeOf(err) == ErrCodeForbidden
}

// IsUnauthorized checks if error is Unauthorized
func IsUnauthorized(err error) bool {
	return CodeOf(err) == ErrCodeUnauthorized
}
