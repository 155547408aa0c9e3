// Package calc implements the finance calculators: retirement projection,
// budget balance, and the expense category tracker.
package calc

import (
	"errors"
	"fmt"
)

// Validation reasons shared by the calculators.
const (
	ReasonNonNumeric  = "non-numeric field"
	ReasonInvalidAge  = "invalid age range"
	ReasonEmpty       = "empty field"
	ReasonNotPositive = "amount must be positive"
	ReasonOutOfRange  = "result out of range"
)

// ValidationError reports user input that cannot be calculated on.
// Field is empty when the failure is not tied to a single input.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func invalid(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err (or anything it wraps) is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// AsValidation extracts the ValidationError from err, if any.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
