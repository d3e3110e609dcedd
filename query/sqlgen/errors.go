package sqlgen

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidIdentifier is matched by every *InvalidIdentifierError.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrPrecondition is matched by every *PreconditionError.
	ErrPrecondition = errors.New("statement precondition violated")
)

// InvalidIdentifierError is returned when a table, column or alias name does
// not match the identifier grammar. It always indicates a definition bug.
type InvalidIdentifierError struct {
	Name string
}

// Error implements the error interface.
func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier %q: must match %s", e.Name, identifierPattern.String())
}

// Is reports whether target is ErrInvalidIdentifier.
func (e *InvalidIdentifierError) Is(target error) bool {
	return target == ErrInvalidIdentifier
}

// PreconditionError is returned by a statement builder whose required
// clause is missing.
type PreconditionError struct {
	Statement string
	Clause    string
}

// Error implements the error interface.
func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s requires at least one %s", e.Statement, e.Clause)
}

// Is reports whether target is ErrPrecondition.
func (e *PreconditionError) Is(target error) bool {
	return target == ErrPrecondition
}

// IsInvalidIdentifier reports whether err is or wraps an identifier error.
func IsInvalidIdentifier(err error) bool {
	return errors.Is(err, ErrInvalidIdentifier)
}

// IsPrecondition reports whether err is or wraps a precondition error.
func IsPrecondition(err error) bool {
	return errors.Is(err, ErrPrecondition)
}
