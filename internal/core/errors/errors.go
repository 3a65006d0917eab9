// Package errors provides centralized error definitions for the application.
//
// Naming conventions:
//   - Exported errors (Err*): Use for errors that callers need to check with errors.Is
//   - All sentinel errors should be defined as variables, not inline errors.New calls
//   - Use fmt.Errorf with %w to wrap sentinel errors with context
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Selection errors.
var (
	// ErrEmptyCatalog indicates the recipe catalog contains no entries.
	ErrEmptyCatalog = errors.New("recipe catalog is empty")
)

// Retrieval errors.
var (
	// ErrNoResults indicates a corpus operation found nothing to work on.
	ErrNoResults = errors.New("no results")
)

// Validation errors.
var (
	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = errors.New("invalid input")
)

// StructuralError reports a structural defect in a generated plan.
// Day is zero-based; it is -1 when the defect is not tied to a single day.
type StructuralError struct {
	Day   int
	Field string
	Names []string
}

func (e *StructuralError) Error() string {
	if len(e.Names) > 0 {
		return fmt.Sprintf("plan day %d: duplicate names in %s: %s", e.Day+1, e.Field, strings.Join(e.Names, ", "))
	}

	if e.Day < 0 {
		return fmt.Sprintf("plan: missing or invalid %s", e.Field)
	}

	return fmt.Sprintf("plan day %d: missing or invalid %s", e.Day+1, e.Field)
}

// Is is a convenience wrapper around errors.Is.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is a convenience wrapper around errors.As.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
