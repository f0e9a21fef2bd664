// Package apperr defines the error kinds shared across the service so the
// HTTP layer can map failures to client-visible signals without inspecting
// component internals.
package apperr

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a record or session identifier does not resolve.
var ErrNotFound = errors.New("not found")

// ValidationError indicates malformed caller input: a bad identifier shape,
// a wrong answer count, an empty required field.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validation builds a ValidationError from a format string.
func Validation(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// InvalidStepError indicates a workflow operation was invoked while the
// session is not in the required state.
type InvalidStepError struct {
	Expected string
	Actual   string
}

func (e *InvalidStepError) Error() string {
	return fmt.Sprintf("invalid step: expected %q, got %q", e.Expected, e.Actual)
}

// GatewayError wraps a failure of an external collaborator (text completion,
// record store, job search, persistence) after its own retries are exhausted.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// Gateway wraps err as a GatewayError for the named operation. A nil err
// returns nil.
func Gateway(op string, err error) error {
	if err == nil {
		return nil
	}
	return &GatewayError{Op: op, Err: err}
}
