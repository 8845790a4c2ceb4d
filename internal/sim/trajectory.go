package sim

import (
	"fmt"

	"github.com/san-kum/episim/internal/ode"
)

// Trajectory is the checkpoint-aligned output of a solve: one state per
// requested output time. It is immutable after construction; accessors
// return copies where mutation could leak back in.
type Trajectory struct {
	times  []float64
	states []ode.State
}

// NewTrajectory builds a trajectory from parallel time/state slices.
// Both slices are copied.
func NewTrajectory(times []float64, states []ode.State) (*Trajectory, error) {
	if len(times) == 0 {
		return nil, fmt.Errorf("sim: empty trajectory: %w", ode.ErrTimeGrid)
	}
	if len(times) != len(states) {
		return nil, fmt.Errorf("sim: %d times but %d states", len(times), len(states))
	}
	tr := &Trajectory{
		times:  make([]float64, len(times)),
		states: make([]ode.State, len(states)),
	}
	copy(tr.times, times)
	for i, s := range states {
		tr.states[i] = s.Clone()
	}
	return tr, nil
}

func (tr *Trajectory) Len() int { return len(tr.times) }

func (tr *Trajectory) Time(i int) float64 { return tr.times[i] }

func (tr *Trajectory) State(i int) ode.State { return tr.states[i].Clone() }

// Times returns a copy of the checkpoint grid.
func (tr *Trajectory) Times() []float64 {
	out := make([]float64, len(tr.times))
	copy(out, tr.times)
	return out
}

// Series extracts one state component across all checkpoints, the long
// per-variable format consumed by charts and exports.
func (tr *Trajectory) Series(idx int) []float64 {
	out := make([]float64, len(tr.states))
	for i, s := range tr.states {
		out[i] = s[idx]
	}
	return out
}

// At returns the state recorded at checkpoint time t, or false when t is
// not one of the requested output times.
func (tr *Trajectory) At(t float64) (ode.State, bool) {
	for i, tt := range tr.times {
		if tt == t {
			return tr.states[i].Clone(), true
		}
	}
	return nil, false
}
