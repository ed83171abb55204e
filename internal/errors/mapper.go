// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Map converts repo/infra errors into caller-visible service errors.
// Keeps service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}
	return From(err)
}

// From is Map with a concrete return type. From(nil) is nil.
func From(err error) *Error {
	if err == nil {
		return nil
	}

	var svc *Error
	switch {
	case errors.As(err, &svc):
		return svc

	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Code: CodeNotFound, Message: "Record not found", Err: err}

	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Code: CodeDuplicate, Message: "Record already exists", Err: err}

	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Code: CodeTimeout, Message: "Request timed out", Err: err}

	case errors.Is(err, context.Canceled):
		return &Error{Code: CodeTimeout, Message: "Request was canceled", Err: err}

	default:
		// never leak driver text to clients; Err keeps it for the logs
		return Internal(err)
	}
}
