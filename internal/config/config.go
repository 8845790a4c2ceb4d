package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/episim/internal/ode"
	"github.com/san-kum/episim/internal/sim"
)

const (
	DefaultBeta        = 0.3
	DefaultGamma       = 0.1
	DefaultSusceptible = 999990.0
	DefaultInfected    = 10.0
	DefaultDays        = 120.0
	DefaultStep        = 1.0
	DefaultIntegrator  = "rk45"
	DefaultDt          = 0.01
)

type Config struct {
	Beta       float64         `yaml:"beta"`
	Gamma      float64         `yaml:"gamma"`
	Days       float64         `yaml:"days"`
	Step       float64         `yaml:"step"`
	Integrator string          `yaml:"integrator"`
	Dt         float64         `yaml:"dt"`
	InitState  InitStateConfig `yaml:"init_state"`
	Solver     SolverConfig    `yaml:"solver"`
}

type InitStateConfig struct {
	Susceptible float64 `yaml:"susceptible"`
	Infected    float64 `yaml:"infected"`
	Recovered   float64 `yaml:"recovered"`
}

type SolverConfig struct {
	RelTol   float64 `yaml:"rel_tol"`
	AbsTol   float64 `yaml:"abs_tol"`
	MinStep  float64 `yaml:"min_step"`
	MaxStep  float64 `yaml:"max_step"`
	MaxSteps int     `yaml:"max_steps"`
}

func DefaultConfig() *Config {
	def := sim.DefaultOptions()
	return &Config{
		Beta:       DefaultBeta,
		Gamma:      DefaultGamma,
		Days:       DefaultDays,
		Step:       DefaultStep,
		Integrator: DefaultIntegrator,
		Dt:         DefaultDt,
		InitState: InitStateConfig{
			Susceptible: DefaultSusceptible,
			Infected:    DefaultInfected,
		},
		Solver: SolverConfig{
			RelTol:   def.Tolerance.Rel,
			AbsTol:   def.Tolerance.Abs,
			MinStep:  def.MinStep,
			MaxSteps: def.MaxSteps,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Days <= 0 {
		return fmt.Errorf("config: days must be positive, got %v", c.Days)
	}
	if c.Step <= 0 || c.Step > c.Days {
		return fmt.Errorf("config: step must be in (0, days], got %v", c.Step)
	}
	if c.Dt <= 0 {
		return fmt.Errorf("config: dt must be positive, got %v", c.Dt)
	}
	return nil
}

func (c *Config) GetInitState() ode.State {
	return ode.State{c.InitState.Susceptible, c.InitState.Infected, c.InitState.Recovered}
}

// Times builds the checkpoint grid 0, step, 2*step, ... up to days.
// The count tolerates rounding in days/step so a fractional step never
// drops the final checkpoint, and the last checkpoint is clamped onto
// the horizon exactly.
func (c *Config) Times() []float64 {
	n := int(math.Floor(c.Days/c.Step+1e-9)) + 1
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * c.Step
	}
	if times[n-1] > c.Days {
		times[n-1] = c.Days
	}
	return times
}

func (c *Config) SolverOptions() sim.Options {
	opts := sim.DefaultOptions()
	if c.Solver.RelTol > 0 {
		opts.Tolerance.Rel = c.Solver.RelTol
	}
	if c.Solver.AbsTol > 0 {
		opts.Tolerance.Abs = c.Solver.AbsTol
	}
	if c.Solver.MinStep > 0 {
		opts.MinStep = c.Solver.MinStep
	}
	if c.Solver.MaxStep > 0 {
		opts.MaxStep = c.Solver.MaxStep
	}
	if c.Solver.MaxSteps > 0 {
		opts.MaxSteps = c.Solver.MaxSteps
	}
	return opts
}
