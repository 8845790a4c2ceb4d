package analysis

import (
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/episim/internal/epi"
	"github.com/san-kum/episim/internal/ode"
	"github.com/san-kum/episim/internal/sim"
)

var ErrEmptyTrajectory = errors.New("analysis: empty trajectory")

// PeakPoint is the checkpoint at which a compartment is maximal.
type PeakPoint struct {
	Time  float64
	Value float64
	State ode.State
	Index int
}

// Peak locates the maximum of one state component over the checkpoint
// grid. Ties break toward the earliest time, and a series that only
// decreases from the first checkpoint legitimately peaks there.
func Peak(tr *sim.Trajectory, component int) (PeakPoint, error) {
	if tr == nil || tr.Len() == 0 {
		return PeakPoint{}, ErrEmptyTrajectory
	}
	if component < 0 || component >= len(tr.State(0)) {
		return PeakPoint{}, fmt.Errorf("analysis: component %d out of range for %d-dim state", component, len(tr.State(0)))
	}

	best := PeakPoint{Time: tr.Time(0), Value: tr.State(0)[component], State: tr.State(0), Index: 0}
	for i := 1; i < tr.Len(); i++ {
		if v := tr.State(i)[component]; v > best.Value {
			best = PeakPoint{Time: tr.Time(i), Value: v, State: tr.State(i), Index: i}
		}
	}
	return best, nil
}

// InfectedPeak is Peak over the infected compartment.
func InfectedPeak(tr *sim.Trajectory) (PeakPoint, error) {
	return Peak(tr, epi.I)
}

// FinalSize is the recovered count at the last checkpoint: the total
// number of individuals the epidemic reached over the horizon.
func FinalSize(tr *sim.Trajectory) (float64, error) {
	if tr == nil || tr.Len() == 0 {
		return 0, ErrEmptyTrajectory
	}
	return tr.State(tr.Len() - 1)[epi.R], nil
}

// AttackRate is the final size as a fraction of the population.
func AttackRate(tr *sim.Trajectory) (float64, error) {
	if tr == nil || tr.Len() == 0 {
		return 0, ErrEmptyTrajectory
	}
	n := tr.State(0).Sum()
	if n <= 0 {
		return 0, errors.New("analysis: non-positive population")
	}
	final, err := FinalSize(tr)
	if err != nil {
		return 0, err
	}
	return final / n, nil
}

// ConservationDrift is the worst relative deviation of the total
// population from its initial value, a sanity check on solver error.
func ConservationDrift(tr *sim.Trajectory) (float64, error) {
	if tr == nil || tr.Len() == 0 {
		return 0, ErrEmptyTrajectory
	}
	n0 := tr.State(0).Sum()
	if n0 == 0 {
		return 0, errors.New("analysis: zero initial population")
	}
	drift := 0.0
	for i := 0; i < tr.Len(); i++ {
		drift = math.Max(drift, math.Abs(tr.State(i).Sum()-n0)/math.Abs(n0))
	}
	return drift, nil
}

// NonDecreasing reports whether a series never drops by more than eps
// between consecutive checkpoints.
func NonDecreasing(series []float64, eps float64) bool {
	for i := 1; i < len(series); i++ {
		if series[i] < series[i-1]-eps {
			return false
		}
	}
	return true
}
