package epi

import (
	"fmt"
	"math"

	"github.com/san-kum/episim/internal/ode"
)

// State layout for the SIR model.
const (
	S = 0 // susceptible
	I = 1 // infected
	R = 2 // recovered
)

// SIR implements the closed-population susceptible-infected-recovered
// model. State: [S, I, R].
// Equations:
//
//	N     = S + I + R
//	force = beta * I / N
//	dS/dt = -force * S
//	dI/dt =  force * S - gamma * I
//	dR/dt =  gamma * I
type SIR struct {
	beta  float64 // transmission rate
	gamma float64 // recovery rate
}

func NewSIR(beta, gamma float64) *SIR {
	return &SIR{beta: beta, gamma: gamma}
}

func (m *SIR) Dim() int { return 3 }

func (m *SIR) Derive(x ode.State, _ float64) ode.State {
	s, i := x[S], x[I]
	// N from the current state so the force term self-corrects against
	// rounding drift in the compartments.
	n := x[S] + x[I] + x[R]
	force := m.beta * i / n

	return ode.State{-force * s, force*s - m.gamma*i, m.gamma * i}
}

// R0 is the basic reproduction number beta/gamma.
func (m *SIR) R0() float64 { return m.beta / m.gamma }

func (m *SIR) DefaultState() ode.State { return ode.State{999999, 1, 0} }

// Validate rejects parameter and initial-state combinations the model is
// undefined for, before any integration work happens.
func (m *SIR) Validate(x0 ode.State) error {
	if math.IsNaN(m.beta) || math.IsInf(m.beta, 0) || m.beta <= 0 {
		return fmt.Errorf("epi: transmission rate must be positive and finite, got %v", m.beta)
	}
	if math.IsNaN(m.gamma) || math.IsInf(m.gamma, 0) || m.gamma <= 0 {
		return fmt.Errorf("epi: recovery rate must be positive and finite, got %v", m.gamma)
	}
	if len(x0) != m.Dim() {
		return fmt.Errorf("epi: state must be [S, I, R], got %d components", len(x0))
	}
	if !x0.IsValid() {
		return fmt.Errorf("epi: initial state: %w", ode.ErrInvalidState)
	}
	for c, v := range x0 {
		if v < 0 {
			return fmt.Errorf("epi: compartment %d is negative (%v)", c, v)
		}
	}
	if x0.Sum() <= 0 {
		return fmt.Errorf("epi: total population must be positive, got %v", x0.Sum())
	}
	return nil
}

// GetParams implements ode.Configurable
func (m *SIR) GetParams() map[string]float64 {
	return map[string]float64{"beta": m.beta, "gamma": m.gamma}
}

// SetParam implements ode.Configurable
func (m *SIR) SetParam(name string, value float64) error {
	switch name {
	case "beta":
		m.beta = value
	case "gamma":
		m.gamma = value
	default:
		return fmt.Errorf("epi: unknown parameter %q", name)
	}
	return nil
}
