package field

import (
	"errors"
	"fmt"
)

var (
	// ErrShapeMismatch indicates grids that should share a shape do not.
	ErrShapeMismatch = errors.New("field: grid shape mismatch")

	// ErrInvalidState indicates a grid containing NaN or Inf.
	ErrInvalidState = errors.New("field: invalid state (NaN or Inf detected)")
)

// StepError wraps an error with the step at which it happened.
type StepError struct {
	Step    int
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d: %v", e.Step, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
