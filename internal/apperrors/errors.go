package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the caller's role does not allow the action.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidAccountData indicates an account record is missing or has unusable accrual fields
// (e.g. no registration timestamp).
var ErrInvalidAccountData = errors.New("invalid account data")

// ErrPersistence indicates the account store failed to durably write a change.
// In-memory mutations made before the failed write must not be assumed durable.
var ErrPersistence = errors.New("persistence failure")

// ErrConcurrentModification indicates the store detected a lost-update race
// (the row version changed between read and write).
var ErrConcurrentModification = errors.New("concurrent modification")

// ErrSweepInProgress indicates another sweep holds the sweep lease.
var ErrSweepInProgress = errors.New("sweep already in progress")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
// Used for infrastructure failures (transaction begin/commit) that have no domain sentinel.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
