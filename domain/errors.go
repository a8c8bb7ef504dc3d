package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeInvalid         ErrorCode = "INVALID"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	ErrCodeNoStaffRecord   ErrorCode = "NO_STAFF_RECORD"
	ErrCodeDataAccess      ErrorCode = "DATA_ACCESS"
	ErrCodeInternal        ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WrapDataAccess marks a storage failure as retryable. Reports abort on
// the first such failure instead of returning partial aggregates.
func WrapDataAccess(message string, err error) *Error {
	return WrapError(ErrCodeDataAccess, message, err)
}

// Common domain errors.
var (
	ErrTaskNotFound         = NewError(ErrCodeNotFound, "task not found")
	ErrProjectNotFound      = NewError(ErrCodeNotFound, "project not found")
	ErrStaffNotFound        = NewError(ErrCodeNotFound, "staff member not found")
	ErrNotificationNotFound = NewError(ErrCodeNotFound, "notification not found")
	ErrSessionNotFound      = NewError(ErrCodeNotFound, "session not found")
	ErrUnauthenticated      = NewError(ErrCodeUnauthenticated, "authentication required")
	ErrNoStaffRecord        = NewError(ErrCodeNoStaffRecord, "no staff record linked to identity")
	ErrForbidden            = NewError(ErrCodeForbidden, "insufficient role")
	ErrSelfDemotion         = NewError(ErrCodeForbidden, "admins cannot demote themselves")
	ErrAssigneeLimit        = NewError(ErrCodeConflict, "task already has the maximum number of assignees")
	ErrInvalidPayload       = NewError(ErrCodeInvalid, "invalid payload")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}
