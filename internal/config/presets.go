package config

import "sort"

var Presets = map[string]*Config{
	// Single index case in a million people, R0 = 10. Peaks near day 19.
	"reference": {
		Beta: 1.0, Gamma: 0.1, Days: 60.0, Step: 1.0,
		InitState: InitStateConfig{Susceptible: 999999, Infected: 1},
	},
	// Seasonal-influenza-like outbreak, R0 = 3.
	"flu": {
		Beta: 0.3, Gamma: 0.1, Days: 180.0, Step: 1.0,
		InitState: InitStateConfig{Susceptible: 999990, Infected: 10},
	},
	// Barely supercritical spread, R0 = 1.5.
	"mild": {
		Beta: 0.15, Gamma: 0.1, Days: 365.0, Step: 1.0,
		InitState: InitStateConfig{Susceptible: 99990, Infected: 10},
	},
	// Highly transmissible pathogen, R0 = 15.
	"measles": {
		Beta: 1.5, Gamma: 0.1, Days: 60.0, Step: 0.5,
		InitState: InitStateConfig{Susceptible: 99999, Infected: 1},
	},
}

func GetPreset(name string) *Config {
	p, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	cfg.Beta = p.Beta
	cfg.Gamma = p.Gamma
	cfg.Days = p.Days
	cfg.Step = p.Step
	cfg.InitState = p.InitState
	if p.Integrator != "" {
		cfg.Integrator = p.Integrator
	}
	if p.Dt > 0 {
		cfg.Dt = p.Dt
	}
	if p.Solver != (SolverConfig{}) {
		cfg.Solver = p.Solver
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
