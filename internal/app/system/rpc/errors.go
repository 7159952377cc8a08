package rpc

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dalemusser/tenanthub/internal/app/system/authz"
	"github.com/dalemusser/tenanthub/internal/domain/models"
)

// Code categorizes a procedure failure for the caller.
type Code string

const (
	CodeBadRequest         Code = "BAD_REQUEST"
	CodeUnauthorized       Code = "UNAUTHORIZED"
	CodeForbidden          Code = "FORBIDDEN"
	CodeNotFound           Code = "NOT_FOUND"
	CodeMethodNotSupported Code = "METHOD_NOT_SUPPORTED"
	CodeConflict           Code = "CONFLICT"
	CodeTooManyRequests    Code = "TOO_MANY_REQUESTS"
	CodeInternal           Code = "INTERNAL_SERVER_ERROR"
)

// HTTPStatus maps a code to its response status.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeBadRequest:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeMethodNotSupported:
		return http.StatusMethodNotAllowed
	case CodeConflict:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	}
	return http.StatusInternalServerError
}

// Error is a categorized procedure failure. Message is shown to the caller.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return string(e.Code) + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Errorf returns an *Error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an *Error that keeps err as its cause for logging.
func Wrap(code Code, msg string, err error) *Error {
	return &Error{Code: code, Message: msg, cause: err}
}

// Shorthands for common failures.
func BadRequest(msg string) *Error   { return &Error{Code: CodeBadRequest, Message: msg} }
func Unauthorized(msg string) *Error { return &Error{Code: CodeUnauthorized, Message: msg} }
func Forbidden(msg string) *Error    { return &Error{Code: CodeForbidden, Message: msg} }
func NotFound(msg string) *Error     { return &Error{Code: CodeNotFound, Message: msg} }
func Conflict(msg string) *Error     { return &Error{Code: CodeConflict, Message: msg} }

var conflicts = []error{
	models.ErrDuplicateSlug,
	models.ErrDuplicateHostname,
	models.ErrDuplicateMember,
	models.ErrDuplicateEmail,
}

// classify turns any error returned by a procedure into an *Error.
// Unknown errors become INTERNAL with a generic message; the caller logs
// the original.
func classify(err error) *Error {
	var re *Error
	if errors.As(err, &re) {
		return re
	}
	var ae *authz.Error
	if errors.As(err, &ae) {
		switch ae.Code {
		case authz.CodeUnauthorized:
			return &Error{Code: CodeUnauthorized, Message: ae.Message}
		default:
			return &Error{Code: CodeForbidden, Message: ae.Message}
		}
	}
	if errors.Is(err, models.ErrNotFound) {
		return &Error{Code: CodeNotFound, Message: "not found", cause: err}
	}
	for _, dup := range conflicts {
		if errors.Is(err, dup) {
			return &Error{Code: CodeConflict, Message: dup.Error(), cause: err}
		}
	}
	return &Error{Code: CodeInternal, Message: "internal server error", cause: err}
}
