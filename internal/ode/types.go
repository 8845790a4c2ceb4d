package ode

import "math"

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sum() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v
	}
	return sum
}

// System is an ODE right-hand side: dX/dt = Derive(X, t).
type System interface {
	Derive(x State, t float64) State
	Dim() int
}

type Integrator interface {
	Step(sys System, x State, t, dt float64) State
}

// AdaptiveIntegrator computes one trial step together with a scaled local
// error estimate. errNorm <= 1 means the step satisfies tol; the caller
// decides acceptance and retries rejected steps with dtNext.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, t, dt float64, tol Tolerance) (next State, errNorm, dtNext float64)
}

// Tolerance controls per-step local error: a component error e_i passes
// when |e_i| <= Abs + Rel*scale_i.
type Tolerance struct {
	Abs float64
	Rel float64
}

func DefaultTolerance() Tolerance {
	return Tolerance{Abs: 1e-9, Rel: 1e-6}
}

func (t Tolerance) IsValid() bool {
	return t.Abs >= 0 && t.Rel >= 0 && (t.Abs > 0 || t.Rel > 0) &&
		!math.IsNaN(t.Abs) && !math.IsNaN(t.Rel) &&
		!math.IsInf(t.Abs, 0) && !math.IsInf(t.Rel, 0)
}

// Configurable exposes named parameters for interactive tuning.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}
