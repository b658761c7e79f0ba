package accounts

import (
	"errors"
	"fmt"
)

var (
	ErrAccountExists   = errors.New("account already exists")
	ErrNotFound        = errors.New("account not found")
	ErrNotAuthorized   = errors.New("not authorized")
	ErrInvalidCode     = errors.New("verification code invalid")
	ErrTooManyAttempts = errors.New("too many failed verification attempts")
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// PartialFailureError reports that the identity provider accepted a change
// but the local profile store did not follow. The account is live at the
// provider with no profile behind it, operators find the affected record
// through the correlation id.
type PartialFailureError struct {
	Email         string
	Step          string
	CorrelationID string
	Err           error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("partial failure at %s for %s (correlation id %s): %v", e.Step, e.Email, e.CorrelationID, e.Err)
}

func (e *PartialFailureError) Unwrap() error {
	return e.Err
}
