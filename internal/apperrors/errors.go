package apperrors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrPeriodClosed indicates that no open fiscal period exists for the requested date.
var ErrPeriodClosed = errors.New("no open fiscal period for date")

// ErrEntryState indicates an operation that is not legal for the entry's
// current lifecycle state (e.g. updating a posted entry).
var ErrEntryState = errors.New("operation not permitted in current entry state")

// ErrInternal indicates an unexpected infrastructure failure (persistence,
// sequence issuer). Callers surface it as a generic failure.
var ErrInternal = errors.New("internal error")

// AppError wraps an infrastructure failure with a status code and context
// message. It is reserved for unexpected failures; expected validation
// outcomes use the sentinel errors above or ValidationErrors.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrInternal
}

// NewAppError creates a new AppError wrapping the given cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates an AppError that unwraps to ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: 404, Message: message, Err: ErrNotFound}
}

// ValidationErrors accumulates every validation failure found in a request so
// the caller sees all problems at once instead of fixing them one at a time.
// It unwraps to ErrValidation.
type ValidationErrors struct {
	Messages []string
}

func (e *ValidationErrors) Error() string {
	return fmt.Sprintf("%v: %s", ErrValidation, strings.Join(e.Messages, "; "))
}

func (e *ValidationErrors) Unwrap() error {
	return ErrValidation
}

// Add appends a formatted message to the list.
func (e *ValidationErrors) Add(format string, args ...any) {
	e.Messages = append(e.Messages, fmt.Sprintf(format, args...))
}

// HasErrors reports whether any message was collected.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Messages) > 0
}

// MessagesOf extracts the human-readable message list from err. Validation
// failures return their accumulated messages; everything else returns the
// single error string.
func MessagesOf(err error) []string {
	var ve *ValidationErrors
	if errors.As(err, &ve) {
		return ve.Messages
	}
	return []string{err.Error()}
}
