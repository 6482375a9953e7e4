package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Data completeness errors (record-scoped, recovered by exclusion)
	ErrDataIncomplete      = errors.New("data completeness violation")
	ErrMissingReferee      = fmt.Errorf("%w: match has no referee assignment", ErrDataIncomplete)
	ErrAmbiguousMainRole   = fmt.Errorf("%w: match must carry exactly one main referee", ErrDataIncomplete)
	ErrUnknownMatch        = fmt.Errorf("%w: penalty references unknown match", ErrDataIncomplete)
	ErrUnattributedPenalty = fmt.Errorf("%w: penalty referee is not assigned to the match", ErrDataIncomplete)

	// Validation errors
	ErrInvalidPeriod       = errors.New("period outside allowed range")
	ErrTimestampOutOfRange = errors.New("in-period timestamp exceeds period duration")
	ErrInsufficientSample  = errors.New("insufficient sample for significance analysis")

	// Determinism errors
	ErrFingerprintMismatch = errors.New("run fingerprint mismatch")
)

// NewValidationError builds a field-scoped validation error
func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// IsDataCompleteness reports whether err stems from a data completeness violation
func IsDataCompleteness(err error) bool {
	return errors.Is(err, ErrDataIncomplete)
}
