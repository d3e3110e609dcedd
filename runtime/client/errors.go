package client

import (
	"errors"
	"fmt"
)

// ErrExecution is matched by every *ExecutionError.
var ErrExecution = errors.New("statement execution failed")

// ExecutionError carries a failure reported by the database. The driver
// error is preserved and reachable through errors.As / errors.Is.
type ExecutionError struct {
	SQL string
	Err error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execute %q: %v", e.SQL, e.Err)
}

// Unwrap returns the driver error.
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrExecution.
func (e *ExecutionError) Is(target error) bool {
	return target == ErrExecution
}

// IsExecution reports whether err is or wraps an execution error.
func IsExecution(err error) bool {
	return errors.Is(err, ErrExecution)
}
