package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies an error for the HTTP layer.
type Code string

const (
	CodeValidation         Code = "VALIDATION_ERROR"
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
	CodeInvalidCredentials Code = "INVALID_CREDENTIALS"
	CodeNotFound           Code = "NOT_FOUND"
	CodeConflict           Code = "CONFLICT"
	CodeInternal           Code = "INTERNAL_ERROR"
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the typed failure surfaced by repositories and services.
type Error struct {
	Code    Code
	Message string
	Fields  []FieldError
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on Code so that errors.Is(err, apperrors.ErrNotFound) works
// for any not-found error regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation         = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrUnauthenticated    = &Error{Code: CodeUnauthenticated, Message: "unauthenticated"}
	ErrInvalidCredentials = &Error{Code: CodeInvalidCredentials, Message: "invalid email or password"}
	ErrNotFound           = &Error{Code: CodeNotFound, Message: "not found"}
	ErrConflict           = &Error{Code: CodeConflict, Message: "conflict"}
	ErrInternal           = &Error{Code: CodeInternal, Message: "internal error"}
)

func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func Wrap(err error, code Code, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Cause: err}
}

func NotFound(entity string) *Error {
	return &Error{Code: CodeNotFound, Message: entity + " not found"}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

func Internal(err error, message string) *Error {
	return Wrap(err, CodeInternal, message)
}

// Validation builds a validation error carrying the given field errors.
func Validation(fields ...FieldError) *Error {
	return &Error{Code: CodeValidation, Message: "validation failed", Fields: fields}
}

// InvalidCredentials always carries the same message so callers cannot tell
// which check failed.
func InvalidCredentials() *Error {
	return &Error{Code: CodeInvalidCredentials, Message: ErrInvalidCredentials.Message}
}

// CodeOf returns the code of err, or CodeInternal when err is untyped.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

func HTTPStatus(code Code) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthenticated, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
