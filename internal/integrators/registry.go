package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/episim/internal/ode"
)

var factories = map[string]func() ode.Integrator{
	"euler": func() ode.Integrator { return NewEuler() },
	"rk4":   func() ode.Integrator { return NewRK4() },
	"rk45":  func() ode.Integrator { return NewRK45() },
}

// New builds an integrator by name. rk45 is adaptive; euler and rk4 are
// fixed-step baselines.
func New(name string) (ode.Integrator, error) {
	fn, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
