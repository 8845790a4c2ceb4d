package sim

import (
	"context"
	"sync"

	"github.com/san-kum/episim/internal/ode"
)

// Run is one independent scenario inside an ensemble.
type Run struct {
	Name  string
	Sys   ode.System
	X0    ode.State
	Times []float64
}

// RunResult pairs a scenario with its outcome.
type RunResult struct {
	Name       string
	Trajectory *Trajectory
	Err        error
}

// Ensemble solves independent scenarios concurrently. Each goroutine
// gets its own integrator from the factory, so no state is shared
// between runs.
type Ensemble struct {
	newIntegrator func() ode.AdaptiveIntegrator
	opts          Options
}

func NewEnsemble(newIntegrator func() ode.AdaptiveIntegrator, opts Options) *Ensemble {
	return &Ensemble{newIntegrator: newIntegrator, opts: opts}
}

func (e *Ensemble) Solve(ctx context.Context, runs []Run) []RunResult {
	results := make([]RunResult, len(runs))

	var wg sync.WaitGroup
	for i, run := range runs {
		wg.Add(1)
		go func(idx int, r Run) {
			defer wg.Done()

			solver := New(e.newIntegrator())
			tr, err := solver.Solve(ctx, r.Sys, r.X0, r.Times, e.opts)
			results[idx] = RunResult{Name: r.Name, Trajectory: tr, Err: err}
		}(i, run)
	}

	wg.Wait()
	return results
}
