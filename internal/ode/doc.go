// Package ode provides the core primitives for numerical integration of
// ordinary differential equations:
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE right-hand sides (dX/dt = f(X, t))
//   - [Integrator] / [AdaptiveIntegrator]: stepping contracts
//   - [Tolerance]: per-step local error control
//
// The package defines contracts only; concrete methods live in the
// integrators package and the checkpoint-driving loop lives in sim.
package ode
