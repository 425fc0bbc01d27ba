package masonry

import (
	"errors"
	"fmt"
)

var (
	// ErrWallNotFound is returned when a single-item operation references a
	// wall absent from the store.
	ErrWallNotFound = errors.New("wall not found")
	// ErrHoleNotFound is returned when editing a hole that does not exist.
	ErrHoleNotFound = errors.New("hole not found")
	// ErrProcessingNotFound is returned when editing a processing entry that
	// does not exist.
	ErrProcessingNotFound = errors.New("processing not found")
	// ErrInvestmentNotFound is returned when the owning scope is missing.
	ErrInvestmentNotFound = errors.New("investment not found")
)

// ValidationError reports one field that failed type coercion or a domain
// check. Single-item mutations surface it directly; bulk import records the
// row key instead and moves on.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("value of %q %s", e.Field, e.Reason)
}

func typeError(field, want string) *ValidationError {
	return &ValidationError{Field: field, Reason: fmt.Sprintf("must be %q", want)}
}

func domainError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}
