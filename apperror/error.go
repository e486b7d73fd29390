package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeInvalidState = "INVALID_STATE"
	CodeRateLimited  = "RATE_LIMITED"

	CodeInternalError      = "INTERNAL_ERROR"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// Wrap returns nil when err is nil.
func Wrap(err error, code, message string, httpStatus int) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus, Err: err}
}

var (
	ErrNotFound     = New(CodeNotFound, "Resource not found", http.StatusNotFound)
	ErrForbidden    = New(CodeForbidden, "You do not have permission to access this resource", http.StatusForbidden)
	ErrUnauthorized = New(CodeUnauthorized, "Authentication is required", http.StatusUnauthorized)
	ErrInvalidInput = New(CodeInvalidInput, "The provided input is invalid", http.StatusBadRequest)
	ErrInternal     = New(CodeInternalError, "An unexpected error occurred", http.StatusInternalServerError)
)

func InvalidField(field string) *AppError {
	return New(CodeInvalidInput, field+" is invalid", http.StatusBadRequest)
}

func RequiredField(field string) *AppError {
	return New(CodeInvalidInput, field+" is required", http.StatusBadRequest)
}

// ToHTTP finds the first AppError in err's chain. Anything else is reported
// as an internal error so wrapped causes never reach the client.
func ToHTTP(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return ErrInternal
}
