package resource

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidDefinition is wrapped by every definition error.
	ErrInvalidDefinition = errors.New("invalid resource definition")

	// ErrCreateOnly is wrapped by the validation error Modify returns for a
	// create-only attribute.
	ErrCreateOnly = errors.New("attribute is create-only and cannot be modified")
)

// ValidationError reports input or output that does not fit a resource.
// Field is the attribute or reference name, empty when the error concerns
// the input as a whole.
type ValidationError struct {
	Resource string
	Field    string
	Err      error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Resource, e.Err)
	}
	return fmt.Sprintf("%s.%s: %v", e.Resource, e.Field, e.Err)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// IsValidation reports whether err is or wraps a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
