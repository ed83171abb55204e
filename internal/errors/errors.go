package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is the stable, machine-readable reason returned to clients.
type Code string

const (
	CodeSelfAction      Code = "self_action"
	CodeDuplicate       Code = "duplicate_action"
	CodeNotFound        Code = "not_found"
	CodePermission      Code = "permission_denied"
	CodeInvalidArgument Code = "invalid_argument"
	CodeUnauthorized    Code = "unauthorized"
	CodeRateLimited     Code = "rate_limited"
	CodeTimeout         Code = "timeout"
	CodeUnavailable     Code = "unavailable"
	CodeInternal        Code = "internal"
)

// Error is a caller-visible failure. Message is safe to show to the client,
// Err keeps the underlying cause for logs.
type Error struct {
	Code    Code
	Message string
	Status  int
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus resolves the response status, honoring an explicit override.
func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Code {
	case CodeSelfAction, CodeDuplicate, CodeInvalidArgument:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodePermission:
		return http.StatusForbidden
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WithStatus returns a copy answering with the given HTTP status.
func (e *Error) WithStatus(status int) *Error {
	c := *e
	c.Status = status
	return &c
}

func newError(code Code, msg string) *Error {
	return &Error{Code: code, Message: msg}
}

func SelfAction(msg string) *Error      { return newError(CodeSelfAction, msg) }
func Duplicate(msg string) *Error       { return newError(CodeDuplicate, msg) }
func NotFound(msg string) *Error        { return newError(CodeNotFound, msg) }
func Permission(msg string) *Error      { return newError(CodePermission, msg) }
func InvalidArgument(msg string) *Error { return newError(CodeInvalidArgument, msg) }
func Unauthorized(msg string) *Error    { return newError(CodeUnauthorized, msg) }
func Unavailable(msg string) *Error     { return newError(CodeUnavailable, msg) }

// Internal hides err behind a generic message.
func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: "Internal server error", Err: err}
}

// HasCode reports whether err carries the given code anywhere in its chain.
func HasCode(err error, code Code) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == code
}

// IsDomain reports whether err is a caller-visible, non-internal failure.
// Those are expected outcomes and are not logged as faults.
func IsDomain(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code != CodeInternal
}
