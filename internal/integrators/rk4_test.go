package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/episim/internal/ode"
)

func TestRK4Accuracy(t *testing.T) {
	sys := &harmonicOscillator{}
	integ := NewRK4()

	x := ode.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestEulerConverges(t *testing.T) {
	sys := &expDecay{}
	integ := NewEuler()

	x := ode.State{1.0}
	dt := 0.001
	steps := 1000

	for i := 0; i < steps; i++ {
		x = integ.Step(sys, x, float64(i)*dt, dt)
	}

	expected := math.Exp(-1.0)
	if math.Abs(x[0]-expected) > 1e-3 {
		t.Errorf("expected ~%.6f, got %.6f", expected, x[0])
	}
}

func BenchmarkRK45Step(b *testing.B) {
	integ := NewRK45()
	sys := &harmonicOscillator{}
	x := ode.State{1.0, 0.0}
	tol := ode.DefaultTolerance()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.StepAdaptive(sys, x, 0, 0.01, tol)
	}
}

func BenchmarkRK4Step(b *testing.B) {
	integ := NewRK4()
	sys := &harmonicOscillator{}
	x := ode.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		integ.Step(sys, x, 0, 0.01)
	}
}
