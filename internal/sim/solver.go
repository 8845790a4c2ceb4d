package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/episim/internal/ode"
)

// Options bound a single solve.
type Options struct {
	Tolerance ode.Tolerance
	// MinStep is the smallest internal step the solver will attempt;
	// needing a smaller one is reported as ode.ErrStepTooSmall.
	MinStep float64
	// MaxStep caps the internal step. Zero means unbounded (the
	// checkpoint spacing still caps each landing step).
	MaxStep float64
	// InitialStep seeds the controller. Zero picks a tenth of the first
	// checkpoint interval.
	InitialStep float64
	// MaxSteps bounds attempted (accepted plus rejected) internal steps;
	// exceeding it is reported as ode.ErrBudgetExceeded.
	MaxSteps int
}

func DefaultOptions() Options {
	return Options{
		Tolerance: ode.DefaultTolerance(),
		MinStep:   1e-10,
		MaxStep:   0,
		MaxSteps:  1_000_000,
	}
}

// Solver advances a system through a caller-supplied checkpoint grid
// using adaptive internal stepping. Internal step times strictly
// increase and the solver lands exactly on every checkpoint, so the
// returned states are never nearest-neighbor internal steps.
type Solver struct {
	integ ode.AdaptiveIntegrator
}

func New(integ ode.AdaptiveIntegrator) *Solver {
	return &Solver{integ: integ}
}

// Solve integrates sys from times[0] through the full grid and returns
// one state per checkpoint, times[0] holding x0 verbatim. On any failure
// the trajectory is nil; numerical and budget failures carry an
// *ode.StepError describing how far the run progressed.
func (s *Solver) Solve(ctx context.Context, sys ode.System, x0 ode.State, times []float64, opts Options) (*Trajectory, error) {
	if err := validate(sys, x0, times, opts); err != nil {
		return nil, err
	}

	maxStep := opts.MaxStep
	if maxStep <= 0 {
		maxStep = math.Inf(1)
	}

	states := make([]ode.State, 0, len(times))
	states = append(states, x0.Clone())

	x := x0.Clone()
	t := times[0]
	lastCheckpoint := times[0]
	attempts := 0

	dt := opts.InitialStep
	if dt <= 0 && len(times) > 1 {
		dt = (times[1] - times[0]) / 10
	}
	dt = math.Max(dt, opts.MinStep)

	for k := 1; k < len(times); k++ {
		target := times[k]

		for t < target {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}

			if attempts >= opts.MaxSteps {
				return nil, &ode.StepError{Time: t, LastCheckpoint: lastCheckpoint, Steps: attempts, Wrapped: ode.ErrBudgetExceeded}
			}
			attempts++

			h := math.Min(dt, maxStep)
			landed := false
			if t+h >= target {
				h = target - t
				landed = true
			}

			next, errNorm, dtNext := s.integ.StepAdaptive(sys, x, t, h, opts.Tolerance)

			if errNorm > 1 {
				if dtNext < opts.MinStep {
					return nil, &ode.StepError{Time: t, LastCheckpoint: lastCheckpoint, Steps: attempts, Wrapped: ode.ErrStepTooSmall}
				}
				dt = dtNext
				continue
			}

			if !next.IsValid() {
				return nil, &ode.StepError{Time: t, LastCheckpoint: lastCheckpoint, Steps: attempts, Wrapped: ode.ErrInvalidState}
			}

			x = next
			if landed {
				t = target
			} else {
				t += h
			}
			dt = math.Max(dtNext, opts.MinStep)
		}

		states = append(states, x.Clone())
		lastCheckpoint = target
	}

	return NewTrajectory(times, states)
}

func validateInputs(sys ode.System, x0 ode.State, times []float64) error {
	if len(x0) != sys.Dim() {
		return fmt.Errorf("sim: state has %d components, system wants %d", len(x0), sys.Dim())
	}
	if !x0.IsValid() {
		return fmt.Errorf("sim: initial state: %w", ode.ErrInvalidState)
	}
	if len(times) == 0 {
		return fmt.Errorf("sim: empty time grid: %w", ode.ErrTimeGrid)
	}
	for i, t := range times {
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("sim: times[%d]=%v: %w", i, t, ode.ErrTimeGrid)
		}
		if i > 0 && t <= times[i-1] {
			return fmt.Errorf("sim: times[%d]=%v <= times[%d]=%v: %w", i, t, i-1, times[i-1], ode.ErrTimeGrid)
		}
	}
	return nil
}

func validate(sys ode.System, x0 ode.State, times []float64, opts Options) error {
	if err := validateInputs(sys, x0, times); err != nil {
		return err
	}
	if !opts.Tolerance.IsValid() {
		return fmt.Errorf("sim: invalid tolerance %+v", opts.Tolerance)
	}
	if opts.MinStep <= 0 {
		return fmt.Errorf("sim: min step must be positive, got %v", opts.MinStep)
	}
	if opts.MaxStep > 0 && opts.MaxStep < opts.MinStep {
		return fmt.Errorf("sim: max step %v below min step %v", opts.MaxStep, opts.MinStep)
	}
	if opts.MaxSteps <= 0 {
		return fmt.Errorf("sim: step budget must be positive, got %d", opts.MaxSteps)
	}
	return nil
}
