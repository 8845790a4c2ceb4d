package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/episim/internal/ode"
)

// SolveFixed integrates sys through the checkpoint grid with a constant
// internal step, clamped so every checkpoint is hit exactly. There is no
// error control; it exists for fixed-step baselines (euler, rk4) and for
// comparing methods at an identical step size.
func SolveFixed(ctx context.Context, sys ode.System, x0 ode.State, times []float64, integ ode.Integrator, dt float64) (*Trajectory, error) {
	if err := validateInputs(sys, x0, times); err != nil {
		return nil, err
	}
	if dt <= 0 || math.IsNaN(dt) || math.IsInf(dt, 0) {
		return nil, fmt.Errorf("sim: fixed step must be positive and finite, got %v", dt)
	}

	states := make([]ode.State, 0, len(times))
	states = append(states, x0.Clone())

	x := x0.Clone()
	t := times[0]
	lastCheckpoint := times[0]
	steps := 0

	for k := 1; k < len(times); k++ {
		target := times[k]

		for t < target {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}

			h := dt
			landed := false
			if t+h >= target {
				h = target - t
				landed = true
			}

			x = integ.Step(sys, x, t, h)
			steps++

			if !x.IsValid() {
				return nil, &ode.StepError{Time: t, LastCheckpoint: lastCheckpoint, Steps: steps, Wrapped: ode.ErrInvalidState}
			}

			if landed {
				t = target
			} else {
				t += h
			}
		}

		states = append(states, x.Clone())
		lastCheckpoint = target
	}

	return NewTrajectory(times, states)
}
