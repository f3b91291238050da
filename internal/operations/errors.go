package operations

import (
	"fmt"
)

// StepError reports which Step of a pipeline failed
type StepError struct {
	StepID string
	Err    error
}

// Error implements the error interface
func (e *StepError) Error() string {
	if e == nil {
		return "unknown step error"
	}
	return fmt.Sprintf("step %q failed: %v", e.StepID, e.Err)
}

// Unwrap returns the underlying error
func (e *StepError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewStepError wraps err with the failing Step ID
func NewStepError(stepID string, err error) *StepError {
	return &StepError{StepID: stepID, Err: err}
}

// NewCancellationError creates the error returned when a run is cancelled before a Step
func NewCancellationError(stepID string, cause error) *StepError {
	return NewStepError(stepID, fmt.Errorf("operation cancelled: %w", cause))
}
