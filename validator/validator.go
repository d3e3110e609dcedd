// Package validator coerces loosely typed input values (decoded JSON,
// driver values, CLI strings) into the Go types the resource layer stores.
//
// Every validator lets nil through unless wrapped in NotNull, so optional
// columns need no special handling.
package validator

import (
	"errors"
	"fmt"
)

// Validator coerces a value or reports why it cannot.
type Validator interface {
	Validate(value any) (any, error)
	TypeName() string
}

// FieldError reports a failure of a nested object member or array element.
type FieldError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FieldError) Unwrap() error {
	return e.Err
}

// nest prefixes the path of err, or wraps err as a new FieldError.
func nest(path string, err error) error {
	var fe *FieldError
	if errors.As(err, &fe) {
		return &FieldError{Path: path + "." + fe.Path, Err: fe.Err}
	}
	return &FieldError{Path: path, Err: err}
}

// Parse validates value and asserts the result to T. A nil result yields
// the zero value of T.
func Parse[T any](v Validator, value any) (T, error) {
	var zero T

	out, err := v.Validate(value)
	if err != nil {
		return zero, err
	}
	if out == nil {
		return zero, nil
	}

	typed, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("%s validator produced %T, not %T", v.TypeName(), out, zero)
	}
	return typed, nil
}

type notNullValidator struct {
	wrapped Validator
}

// NotNull rejects nil input and inputs the wrapped validator maps to nil,
// such as blank strings.
func NotNull(v Validator) Validator {
	return &notNullValidator{wrapped: v}
}

// IsNotNull reports whether v was created by NotNull, looking through
// Optional.
func IsNotNull(v Validator) bool {
	if o, ok := v.(*optionalValidator); ok {
		v = o.wrapped
	}
	_, ok := v.(*notNullValidator)
	return ok
}

func (v *notNullValidator) Validate(value any) (any, error) {
	if value == nil {
		return nil, errors.New("value is required")
	}

	out, err := v.wrapped.Validate(value)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errors.New("value is required, got an empty value")
	}
	return out, nil
}

func (v *notNullValidator) TypeName() string {
	return v.wrapped.TypeName() + "!"
}

type optionalValidator struct {
	wrapped Validator
}

// Optional marks an object member that may be absent. It does not make the
// value nullable; absence and null are different things.
func Optional(v Validator) Validator {
	if _, ok := v.(*optionalValidator); ok {
		return v
	}
	return &optionalValidator{wrapped: v}
}

// IsOptional reports whether v was created by Optional.
func IsOptional(v Validator) bool {
	_, ok := v.(*optionalValidator)
	return ok
}

func (v *optionalValidator) Validate(value any) (any, error) {
	return v.wrapped.Validate(value)
}

func (v *optionalValidator) TypeName() string {
	return v.wrapped.TypeName() + "?"
}

type transformValidator struct {
	wrapped   Validator
	transform func(any) (any, error)
}

// Transform applies fn to the output of v.
func Transform(v Validator, fn func(any) (any, error)) Validator {
	return &transformValidator{wrapped: v, transform: fn}
}

func (v *transformValidator) Validate(value any) (any, error) {
	out, err := v.wrapped.Validate(value)
	if err != nil {
		return nil, err
	}
	return v.transform(out)
}

func (v *transformValidator) TypeName() string {
	return v.wrapped.TypeName()
}
