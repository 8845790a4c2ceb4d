package sim

import (
	"testing"

	"github.com/san-kum/episim/internal/ode"
)

func sampleTrajectory(t *testing.T) *Trajectory {
	t.Helper()

	tr, err := NewTrajectory(
		[]float64{0, 1, 2},
		[]ode.State{{90, 10, 0}, {80, 15, 5}, {70, 18, 12}},
	)
	if err != nil {
		t.Fatalf("NewTrajectory failed: %v", err)
	}
	return tr
}

func TestNewTrajectory_Validation(t *testing.T) {
	if _, err := NewTrajectory(nil, nil); err == nil {
		t.Error("expected error for empty trajectory")
	}

	if _, err := NewTrajectory([]float64{0, 1}, []ode.State{{1, 2, 3}}); err == nil {
		t.Error("expected error for mismatched lengths")
	}
}

func TestTrajectory_Series(t *testing.T) {
	tr := sampleTrajectory(t)

	infected := tr.Series(1)
	want := []float64{10, 15, 18}
	for i, v := range want {
		if infected[i] != v {
			t.Errorf("series[%d]: expected %v, got %v", i, v, infected[i])
		}
	}
}

func TestTrajectory_At(t *testing.T) {
	tr := sampleTrajectory(t)

	state, ok := tr.At(1)
	if !ok {
		t.Fatal("expected checkpoint at t=1")
	}
	if state[0] != 80 {
		t.Errorf("expected S=80 at t=1, got %v", state[0])
	}

	if _, ok := tr.At(1.5); ok {
		t.Error("t=1.5 is not a checkpoint")
	}
}

func TestTrajectory_Immutable(t *testing.T) {
	times := []float64{0, 1}
	states := []ode.State{{1, 0, 0}, {0.5, 0.3, 0.2}}

	tr, err := NewTrajectory(times, states)
	if err != nil {
		t.Fatalf("NewTrajectory failed: %v", err)
	}

	// Mutating inputs or accessor results must not leak in.
	times[0] = 99
	states[0][0] = 99
	tr.State(0)[0] = 99
	tr.Times()[0] = 99
	tr.Series(0)[0] = 99

	if tr.Time(0) != 0 {
		t.Errorf("time mutated: %v", tr.Time(0))
	}
	if tr.State(0)[0] != 1 {
		t.Errorf("state mutated: %v", tr.State(0)[0])
	}
}
