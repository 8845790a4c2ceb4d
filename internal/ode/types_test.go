package ode

import (
	"math"
	"testing"
)

func TestState_Clone(t *testing.T) {
	s := State{1, 2, 3}
	c := s.Clone()

	c[0] = 99
	if s[0] != 1 {
		t.Errorf("clone aliases the original: %v", s)
	}
}

func TestState_IsValid(t *testing.T) {
	if !(State{1, 2, 3}).IsValid() {
		t.Error("finite state reported invalid")
	}
	if (State{1, math.NaN(), 3}).IsValid() {
		t.Error("NaN state reported valid")
	}
	if (State{1, math.Inf(-1), 3}).IsValid() {
		t.Error("Inf state reported valid")
	}
}

func TestState_Norm(t *testing.T) {
	if got := (State{3, 4}).Norm(); got != 5 {
		t.Errorf("expected norm 5, got %v", got)
	}
	if got := (State{}).Norm(); got != 0 {
		t.Errorf("expected zero norm for empty state, got %v", got)
	}
}

func TestState_Sum(t *testing.T) {
	if got := (State{999999, 1, 0}).Sum(); got != 1e6 {
		t.Errorf("expected sum 1e6, got %v", got)
	}
}

func TestTolerance_IsValid(t *testing.T) {
	tests := []struct {
		name string
		tol  Tolerance
		ok   bool
	}{
		{"default", DefaultTolerance(), true},
		{"abs only", Tolerance{Abs: 1e-9}, true},
		{"rel only", Tolerance{Rel: 1e-6}, true},
		{"both zero", Tolerance{}, false},
		{"negative", Tolerance{Abs: -1, Rel: 1e-6}, false},
		{"NaN", Tolerance{Abs: math.NaN(), Rel: 1e-6}, false},
		{"Inf", Tolerance{Abs: 1e-9, Rel: math.Inf(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tol.IsValid(); got != tt.ok {
				t.Errorf("IsValid() = %v, want %v", got, tt.ok)
			}
		})
	}
}
