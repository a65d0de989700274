package domain

import (
	"errors"
	"fmt"
)

// Named failures returned by core operations. Each maps to a distinct
// externally-visible status at the boundary; none of them leave partial state
// behind.
var (
	ErrSelfReferral         = errors.New("self referral is not allowed")
	ErrAlreadyReferred      = errors.New("account already referred")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrInsufficientPoints   = errors.New("insufficient points for withdrawal")
	ErrNotFound             = errors.New("not found")
	ErrNotPending           = errors.New("withdrawal is not pending")
	ErrRateLimitExceeded    = errors.New("daily ad view limit reached")
	ErrDrawAlreadyConducted = errors.New("draw already conducted for this period")
	ErrNoParticipants       = errors.New("no lottery participants for this period")
	ErrTaskAlreadyCompleted = errors.New("task already completed")
	ErrTransactionFailure   = errors.New("transaction failure")
)

// ValidationError reports malformed or out-of-range input, caught before any
// mutation is attempted.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidationError creates a ValidationError for a named input field
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err is a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
