package domain

import (
	"errors"
	"fmt"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is reports whether target carries the same code and message, so sentinel
// errors still match after being re-wrapped with a cause.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// CodeOf returns the code of the first DomainError in err's chain, or an empty string.
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Common domain error codes
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeAlreadyExists      = "ALREADY_EXISTS"
	ErrCodeBackendUnavailable = "BACKEND_UNAVAILABLE"
	ErrCodeIntakeUnavailable  = "INTAKE_UNAVAILABLE"
	ErrCodeStorageUnavailable = "STORAGE_UNAVAILABLE"
	ErrCodeInternalError      = "INTERNAL_ERROR"
)

// Validation errors
var (
	ErrEmptyMessage        = NewDomainError(ErrCodeValidation, "user_message is required")
	ErrMessageTooLong      = NewDomainError(ErrCodeValidation, fmt.Sprintf("user_message must be at most %d characters", MaxMessageLength))
	ErrInvalidPriority     = NewDomainError(ErrCodeValidation, "invalid priority: must be low, medium, high or urgent")
	ErrInvalidTicketStatus = NewDomainError(ErrCodeValidation, "invalid status: must be open, in_progress or resolved")
	ErrInvalidEmail        = NewDomainError(ErrCodeValidation, "invalid user_email")
	ErrInvalidDocumentType = NewDomainError(ErrCodeValidation, "invalid document type")
	ErrDuplicateDocumentID = NewDomainError(ErrCodeValidation, "duplicate document id")
)

// Not found errors
var (
	ErrDocumentNotFound = NewDomainError(ErrCodeNotFound, "document not found")
	ErrTicketNotFound   = NewDomainError(ErrCodeNotFound, "ticket not found")
)

// Already exists errors
var (
	ErrTicketAlreadyExists = NewDomainError(ErrCodeAlreadyExists, "ticket already exists")
)

// Availability errors
var (
	ErrBackendUnavailable   = NewDomainError(ErrCodeBackendUnavailable, "assistant backend unavailable")
	ErrIntakeUnavailable    = NewDomainError(ErrCodeIntakeUnavailable, "ticket intake unavailable")
	ErrStorageNotConfigured = NewDomainError(ErrCodeStorageUnavailable, "upload storage not configured")
)
