// Package apperr defines the business error codes shared by the optimizer,
// the plan service and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeUnknown           Code = "UNKNOWN"
	CodeInternal          Code = "INTERNAL_ERROR"
	CodeInvalidInput      Code = "INVALID_INPUT"
	CodeNotFound          Code = "NOT_FOUND"
	CodeNoCapacity        Code = "NO_CAPACITY"
	CodeInvalidCoordinate Code = "INVALID_COORDINATE"
)

// AppError carries a stable code alongside a human-readable message.
type AppError struct {
	Code       Code   `json:"code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Cause      error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

func New(code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: statusFor(code)}
}

func Wrap(err error, code Code, message string) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: statusFor(code), Cause: err}
}

// NoCapacity reports that there is nothing to optimize: no requests or no vehicles.
func NoCapacity(requests, vehicles int) *AppError {
	return New(CodeNoCapacity, fmt.Sprintf("nothing to optimize: requests=%d vehicles=%d", requests, vehicles))
}

// InvalidCoordinate reports a record whose latitude/longitude cannot be used.
func InvalidCoordinate(resource string, id int64) *AppError {
	return New(CodeInvalidCoordinate, fmt.Sprintf("%s %d has missing or invalid coordinates", resource, id))
}

func InvalidInput(field, reason string) *AppError {
	return New(CodeInvalidInput, fmt.Sprintf("field %q is invalid: %s", field, reason))
}

func NotFound(resource, id string) *AppError {
	return New(CodeNotFound, fmt.Sprintf("%s %q not found", resource, id))
}

func statusFor(code Code) int {
	switch code {
	case CodeInvalidInput, CodeInvalidCoordinate:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeNoCapacity:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Is reports whether any error in err's chain is an AppError with the given code.
func Is(err error, code Code) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

func CodeOf(err error) Code {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeUnknown
}

func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.HTTPStatus
	}
	return http.StatusInternalServerError
}
