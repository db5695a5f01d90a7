package models

import (
	"fmt"

	"github.com/pkg/errors"
)

// Lifecycle errors are returned typed so controllers and dashboards can map
// them to responses without parsing messages. They remain compatible with
// errors.Is/errors.As through wrapping.

type LifecycleErrorCode string

const (
	ErrCodeValidation           LifecycleErrorCode = "VALIDATION"
	ErrCodeRoleNotFound         LifecycleErrorCode = "ROLE_NOT_FOUND"
	ErrCodeNotFound             LifecycleErrorCode = "NOT_FOUND"
	ErrCodeRequestNotOpen       LifecycleErrorCode = "REQUEST_NOT_OPEN"
	ErrCodeAppNotPending        LifecycleErrorCode = "APPLICATION_NOT_PENDING"
	ErrCodeInvoiceTransition    LifecycleErrorCode = "INVOICE_INVALID_TRANSITION"
	ErrCodeForbidden            LifecycleErrorCode = "FORBIDDEN"
	ErrCodeDuplicateApplication LifecycleErrorCode = "DUPLICATE_APPLICATION"
	ErrCodeConflict             LifecycleErrorCode = "CONFLICT"
)

type LifecycleError struct {
	Code    LifecycleErrorCode
	Message string
}

func (e *LifecycleError) Error() string {
	return e.Message
}

func newLifecycleError(code LifecycleErrorCode, format string, args ...interface{}) *LifecycleError {
	return &LifecycleError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func NewValidationError(format string, args ...interface{}) error {
	return newLifecycleError(ErrCodeValidation, format, args...)
}

func NewRoleNotFoundError(accountID string) error {
	return newLifecycleError(ErrCodeRoleNotFound, "no role record for account %v", accountID)
}

func NewNotFoundError(what string) error {
	return newLifecycleError(ErrCodeNotFound, "%v not found", what)
}

func NewRequestNotOpenError(status RequestStatus) error {
	return newLifecycleError(ErrCodeRequestNotOpen, "request does not accept applications in status %v", status)
}

func NewApplicationNotPendingError(status ApplicationStatus) error {
	return newLifecycleError(ErrCodeAppNotPending, "application already %v", status)
}

func NewInvoiceInvalidTransitionError(from, to InvoiceStatus) error {
	return newLifecycleError(ErrCodeInvoiceTransition, "invoice transition %v -> %v is not allowed", from, to)
}

func NewForbiddenError(format string, args ...interface{}) error {
	return newLifecycleError(ErrCodeForbidden, format, args...)
}

func NewDuplicateApplicationError(requestID string) error {
	return newLifecycleError(ErrCodeDuplicateApplication, "active application already exists on request %v", requestID)
}

func NewConflictError(what string) error {
	return newLifecycleError(ErrCodeConflict, "%v was changed concurrently, retry with fresh state", what)
}

// AsLifecycleError unwraps err down to its lifecycle error, nil for plain errors.
func AsLifecycleError(err error) *LifecycleError {
	var le *LifecycleError
	if errors.As(err, &le) {
		return le
	}
	return nil
}

// ErrorCode extracts the lifecycle code of err, walking wrap chains.
// Returns empty code for plain errors.
func ErrorCode(err error) LifecycleErrorCode {
	var le *LifecycleError
	if errors.As(err, &le) {
		return le.Code
	}
	return ""
}

func IsLifecycleCode(err error, code LifecycleErrorCode) bool {
	return ErrorCode(err) == code
}

func IsForbidden(err error) bool { return IsLifecycleCode(err, ErrCodeForbidden) }

func IsConflict(err error) bool { return IsLifecycleCode(err, ErrCodeConflict) }

func IsNotFound(err error) bool {
	code := ErrorCode(err)
	return code == ErrCodeNotFound || code == ErrCodeRoleNotFound
}
