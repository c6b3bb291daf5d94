package strtmpl

import (
	"errors"
	"fmt"
)

// Sentinel errors for substitution.
var (
	// ErrVariableNotFound matches every *VariableNotFoundError via errors.Is.
	ErrVariableNotFound = errors.New("variable not found")

	// ErrMaxExpansions indicates a call replaced more references than
	// WithMaxExpansions allows, usually because of a self-referencing value.
	ErrMaxExpansions = errors.New("maximum expansions exceeded")

	// ErrPlaceholderCollision indicates input containing one of the reserved
	// placeholder runes while WithPlaceholderCheck is enabled.
	ErrPlaceholderCollision = errors.New("input contains reserved placeholder character")

	// ErrInvalidNamePattern indicates a name pattern that does not compile.
	ErrInvalidNamePattern = errors.New("invalid name pattern")
)

// VariableNotFoundError is returned by unsafe templates when a referenced
// variable has neither a resolved value nor an inline default.
type VariableNotFoundError struct {
	Name string
}

// Error implements the error interface.
func (e *VariableNotFoundError) Error() string {
	return fmt.Sprintf("variable not found: %s", e.Name)
}

// Is reports whether target is ErrVariableNotFound.
func (e *VariableNotFoundError) Is(target error) bool {
	return target == ErrVariableNotFound
}

// ExpansionLimitError is returned when a call exceeds its expansion budget.
type ExpansionLimitError struct {
	Limit int
	// Name is the variable whose expansion would have crossed the limit.
	Name string
}

// Error implements the error interface.
func (e *ExpansionLimitError) Error() string {
	return fmt.Sprintf("maximum expansions exceeded (%d) at variable %s", e.Limit, e.Name)
}

// Unwrap returns ErrMaxExpansions.
func (e *ExpansionLimitError) Unwrap() error {
	return ErrMaxExpansions
}
