package engine

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies engine errors
type Code string

const (
	CodeNotFound         Code = "not_found"
	CodeValidationFailed Code = "validation_failed"
	CodeOutOfBounds      Code = "out_of_bounds"
	CodeInternal         Code = "internal"
)

// Sentinels for errors.Is matching; any *Error with the same code matches.
var (
	ErrNotFound         = &Error{Code: CodeNotFound}
	ErrValidationFailed = &Error{Code: CodeValidationFailed}
	ErrOutOfBounds      = &Error{Code: CodeOutOfBounds}
)

// Error is a coded engine error
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Code)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches on the error code only
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NotFoundf creates a not-found error
func NotFoundf(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

// ValidationFailedf creates a validation error
func ValidationFailedf(format string, args ...any) *Error {
	return &Error{Code: CodeValidationFailed, Message: fmt.Sprintf(format, args...)}
}

// OutOfBoundsf creates an out-of-bounds error
func OutOfBoundsf(format string, args ...any) *Error {
	return &Error{Code: CodeOutOfBounds, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Cause: err}
}

// CodeOf extracts the code of the first *Error in the chain
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeInternal
}

// HTTPStatus maps an error to the status code transports answer with
func HTTPStatus(err error) int {
	switch CodeOf(err) {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidationFailed, CodeOutOfBounds:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
