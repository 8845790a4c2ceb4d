package sim

import (
	"context"
	"fmt"
	"testing"

	"github.com/san-kum/episim/internal/epi"
	"github.com/san-kum/episim/internal/integrators"
	"github.com/san-kum/episim/internal/ode"
)

func TestEnsemble_MatchesSequential(t *testing.T) {
	x0 := ode.State{999990, 10, 0}
	times := dailyGrid(60)
	betas := []float64{0.15, 0.3, 0.6}

	runs := make([]Run, len(betas))
	for i, b := range betas {
		runs[i] = Run{
			Name:  fmt.Sprintf("beta=%.2f", b),
			Sys:   epi.NewSIR(b, 0.1),
			X0:    x0.Clone(),
			Times: times,
		}
	}

	ensemble := NewEnsemble(func() ode.AdaptiveIntegrator {
		return integrators.NewRK45()
	}, DefaultOptions())

	results := ensemble.Solve(context.Background(), runs)

	for i, res := range results {
		if res.Err != nil {
			t.Fatalf("run %s failed: %v", res.Name, res.Err)
		}

		solver := New(integrators.NewRK45())
		want, err := solver.Solve(context.Background(), epi.NewSIR(betas[i], 0.1), x0, times, DefaultOptions())
		if err != nil {
			t.Fatalf("sequential solve failed: %v", err)
		}

		for k := 0; k < want.Len(); k++ {
			got, expect := res.Trajectory.State(k), want.State(k)
			for c := range expect {
				if got[c] != expect[c] {
					t.Fatalf("run %s diverges from sequential at t=%.0f", res.Name, want.Time(k))
				}
			}
		}
	}
}

func TestEnsemble_IsolatesFailures(t *testing.T) {
	times := dailyGrid(10)
	runs := []Run{
		{Name: "good", Sys: epi.NewSIR(0.3, 0.1), X0: ode.State{990, 10, 0}, Times: times},
		{Name: "bad", Sys: epi.NewSIR(0.3, 0.1), X0: ode.State{990, 10}, Times: times},
	}

	ensemble := NewEnsemble(func() ode.AdaptiveIntegrator {
		return integrators.NewRK45()
	}, DefaultOptions())

	results := ensemble.Solve(context.Background(), runs)

	if results[0].Err != nil {
		t.Errorf("good run failed: %v", results[0].Err)
	}
	if results[1].Err == nil {
		t.Error("bad run should fail validation")
	}
	if results[1].Trajectory != nil {
		t.Error("failed run should carry no trajectory")
	}
}
