package ode

import (
	"errors"
	"fmt"
)

// Domain errors for integration runs.
var (
	// ErrInvalidState indicates a state vector with NaN or Inf components.
	ErrInvalidState = errors.New("ode: invalid state (NaN or Inf detected)")

	// ErrStepTooSmall indicates the adaptive step size fell below the
	// minimum while still violating the error tolerance.
	ErrStepTooSmall = errors.New("ode: adaptive step below minimum without meeting tolerance")

	// ErrBudgetExceeded indicates the run consumed its step budget before
	// reaching the end of the requested time grid.
	ErrBudgetExceeded = errors.New("ode: step budget exceeded")

	// ErrTimeGrid indicates an empty, non-finite, or non-increasing
	// sequence of output times.
	ErrTimeGrid = errors.New("ode: output times must be finite and strictly increasing")
)

// StepError reports how far an integration progressed before failing.
type StepError struct {
	// Time is the internal solver time at which the failure occurred.
	Time float64
	// LastCheckpoint is the latest requested output time that was
	// successfully computed before the failure.
	LastCheckpoint float64
	// Steps is the number of accepted internal steps taken.
	Steps int
	// Wrapped classifies the failure (ErrStepTooSmall, ErrBudgetExceeded, ...).
	Wrapped error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("%v (t=%.6g, last checkpoint t=%.6g, %d steps)",
		e.Wrapped, e.Time, e.LastCheckpoint, e.Steps)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
