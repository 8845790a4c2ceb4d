package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/episim/internal/analysis"
	"github.com/san-kum/episim/internal/config"
	"github.com/san-kum/episim/internal/epi"
	"github.com/san-kum/episim/internal/integrators"
	"github.com/san-kum/episim/internal/ode"
	"github.com/san-kum/episim/internal/sim"
	"github.com/san-kum/episim/internal/storage"
	"github.com/san-kum/episim/internal/viz"
)

var (
	dataDir string

	beta  float64
	gamma float64
	s0    float64
	i0    float64
	r0    float64
	days  float64
	step  float64

	integrator string
	dt         float64

	relTol   float64
	absTol   float64
	maxSteps int

	configFile string
	preset     string
	noChart    bool
	frameRate  int

	sweepParam  string
	sweepFrom   float64
	sweepTo     float64
	sweepPoints int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "episim",
		Short: "SIR epidemic simulation lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".episim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation",
		RunE:  runSimulation,
	}
	addScenarioFlags(runCmd)
	runCmd.Flags().BoolVar(&noChart, "no-chart", false, "skip the inline chart")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	peakCmd := &cobra.Command{
		Use:   "peak [run_id]",
		Short: "report the infected peak of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  peakRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run a simulation with live visualization",
		RunE:  runLive,
	}
	addScenarioFlags(liveCmd)
	liveCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep a parameter across a range, one concurrent run per value",
		RunE:  runSweep,
	}
	addScenarioFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "beta", "parameter to sweep (beta or gamma)")
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0.1, "first value")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 1.0, "last value")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 10, "number of values")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "run the same scenario under several integrators and compare",
		RunE:  compareIntegrators,
	}
	addScenarioFlags(compareCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available scenario presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tBETA\tGAMMA\tR0\tPOPULATION\tDAYS")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%.1f\t%.0f\t%.0f\n",
					name, p.Beta, p.Gamma, p.Beta/p.Gamma, p.GetInitState().Sum(), p.Days)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, peakCmd, exportJSONCmd, exportCSVCmd, liveCmd, sweepCmd, compareCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addScenarioFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&beta, "beta", config.DefaultBeta, "transmission rate")
	cmd.Flags().Float64Var(&gamma, "gamma", config.DefaultGamma, "recovery rate")
	cmd.Flags().Float64Var(&s0, "s0", config.DefaultSusceptible, "initial susceptible")
	cmd.Flags().Float64Var(&i0, "i0", config.DefaultInfected, "initial infected")
	cmd.Flags().Float64Var(&r0, "r0", 0, "initial recovered")
	cmd.Flags().Float64Var(&days, "days", config.DefaultDays, "horizon in days")
	cmd.Flags().Float64Var(&step, "step", config.DefaultStep, "output interval in days")
	cmd.Flags().StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator (rk45, rk4, euler)")
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "internal step for fixed-step integrators")
	cmd.Flags().Float64Var(&relTol, "rtol", 0, "relative tolerance (0 = default)")
	cmd.Flags().Float64Var(&absTol, "atol", 0, "absolute tolerance (0 = default)")
	cmd.Flags().IntVar(&maxSteps, "max-steps", 0, "internal step budget (0 = default)")
	cmd.Flags().StringVar(&configFile, "config", "", "scenario file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use a named preset scenario")
}

// buildConfig layers preset < config file < explicit flags, the same
// precedence the flags help implies.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("beta") {
		cfg.Beta = beta
	}
	if cmd.Flags().Changed("gamma") {
		cfg.Gamma = gamma
	}
	if cmd.Flags().Changed("s0") {
		cfg.InitState.Susceptible = s0
	}
	if cmd.Flags().Changed("i0") {
		cfg.InitState.Infected = i0
	}
	if cmd.Flags().Changed("r0") {
		cfg.InitState.Recovered = r0
	}
	if cmd.Flags().Changed("days") {
		cfg.Days = days
	}
	if cmd.Flags().Changed("step") {
		cfg.Step = step
	}
	if cmd.Flags().Changed("integrator") {
		cfg.Integrator = integrator
	}
	if cmd.Flags().Changed("dt") {
		cfg.Dt = dt
	}
	if cmd.Flags().Changed("rtol") {
		cfg.Solver.RelTol = relTol
	}
	if cmd.Flags().Changed("atol") {
		cfg.Solver.AbsTol = absTol
	}
	if cmd.Flags().Changed("max-steps") {
		cfg.Solver.MaxSteps = maxSteps
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func solve(cfg *config.Config) (*epi.SIR, *sim.Trajectory, error) {
	model := epi.NewSIR(cfg.Beta, cfg.Gamma)
	x0 := cfg.GetInitState()
	if err := model.Validate(x0); err != nil {
		return nil, nil, err
	}

	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return nil, nil, err
	}

	var tr *sim.Trajectory
	if adaptive, ok := integ.(ode.AdaptiveIntegrator); ok {
		tr, err = sim.New(adaptive).Solve(context.Background(), model, x0, cfg.Times(), cfg.SolverOptions())
	} else {
		tr, err = sim.SolveFixed(context.Background(), model, x0, cfg.Times(), integ, cfg.Dt)
	}
	if err != nil {
		return nil, nil, err
	}
	return model, tr, nil
}

func summarize(model *epi.SIR, tr *sim.Trajectory) (map[string]float64, error) {
	peak, err := analysis.InfectedPeak(tr)
	if err != nil {
		return nil, err
	}
	attack, err := analysis.AttackRate(tr)
	if err != nil {
		return nil, err
	}
	final, err := analysis.FinalSize(tr)
	if err != nil {
		return nil, err
	}
	drift, err := analysis.ConservationDrift(tr)
	if err != nil {
		return nil, err
	}

	return map[string]float64{
		"r0":            model.R0(),
		"peak_day":      peak.Time,
		"peak_infected": peak.Value,
		"final_size":    final,
		"attack_rate":   attack,
		"drift":         drift,
	}, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Println("running SIR simulation...")
	start := time.Now()

	model, tr, err := solve(cfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	summary, err := summarize(model, tr)
	if err != nil {
		return err
	}

	opts := cfg.SolverOptions()
	runID, err := st.Save(storage.RunMetadata{
		Beta:    cfg.Beta,
		Gamma:   cfg.Gamma,
		Days:    cfg.Days,
		Step:    cfg.Step,
		RelTol:  opts.Tolerance.Rel,
		AbsTol:  opts.Tolerance.Abs,
		Summary: summary,
	}, tr)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("checkpoints: %d\n\n", tr.Len())

	peak, _ := analysis.InfectedPeak(tr)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "R0\t%.2f\n", summary["r0"])
	fmt.Fprintf(w, "peak day\t%.1f\n", peak.Time)
	fmt.Fprintf(w, "peak infected\t%.0f\n", peak.Value)
	fmt.Fprintf(w, "susceptible at peak\t%.0f\n", peak.State[epi.S])
	fmt.Fprintf(w, "recovered at peak\t%.0f\n", peak.State[epi.R])
	fmt.Fprintf(w, "final size\t%.0f\n", summary["final_size"])
	fmt.Fprintf(w, "attack rate\t%.1f%%\n", summary["attack_rate"]*100)
	if err := w.Flush(); err != nil {
		return err
	}

	if !noChart {
		fmt.Println()
		fmt.Println(viz.Chart(tr, epi.I, 80, 12))
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tBETA\tGAMMA\tDAYS\tPEAK DAY\tPEAK INFECTED")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%.2f\t%.2f\t%.0f\t%.1f\t%.0f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Beta,
			run.Gamma,
			run.Days,
			run.Summary["peak_day"],
			run.Summary["peak_infected"],
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("beta: %.3f  gamma: %.3f\n", meta.Beta, meta.Gamma)
	fmt.Printf("checkpoints: %d\n\n", tr.Len())

	fmt.Println(viz.CompartmentCharts(tr, 80, 10))
	return nil
}

func peakRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}

	peak, err := analysis.InfectedPeak(tr)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "peak day\t%.1f\n", peak.Time)
	fmt.Fprintf(w, "infected\t%.0f\n", peak.Value)
	fmt.Fprintf(w, "susceptible\t%.0f\n", peak.State[epi.S])
	fmt.Fprintf(w, "recovered\t%.0f\n", peak.State[epi.R])
	return w.Flush()
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, tr)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	tr, err := st.LoadTrajectory(args[0])
	if err != nil {
		return err
	}
	return storage.WriteCSV(os.Stdout, tr)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	model, tr, err := solve(cfg)
	if err != nil {
		return err
	}

	caption := fmt.Sprintf("SIR  beta=%.2f gamma=%.2f R0=%.1f", cfg.Beta, cfg.Gamma, model.R0())
	return viz.RunLive(tr, caption, frameRate)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if sweepParam != "beta" && sweepParam != "gamma" {
		return fmt.Errorf("unknown sweep parameter %q (want beta or gamma)", sweepParam)
	}
	if sweepPoints < 2 {
		return fmt.Errorf("sweep needs at least 2 points, got %d", sweepPoints)
	}
	if sweepTo <= sweepFrom {
		return fmt.Errorf("sweep range [%v, %v] is not increasing", sweepFrom, sweepTo)
	}

	x0 := cfg.GetInitState()
	times := cfg.Times()
	runs := make([]sim.Run, sweepPoints)
	for i := 0; i < sweepPoints; i++ {
		val := sweepFrom + float64(i)*(sweepTo-sweepFrom)/float64(sweepPoints-1)
		b, g := cfg.Beta, cfg.Gamma
		if sweepParam == "beta" {
			b = val
		} else {
			g = val
		}
		model := epi.NewSIR(b, g)
		if err := model.Validate(x0); err != nil {
			return err
		}
		runs[i] = sim.Run{
			Name:  fmt.Sprintf("%s=%.4f", sweepParam, val),
			Sys:   model,
			X0:    x0.Clone(),
			Times: times,
		}
	}

	integ, err := integrators.New(cfg.Integrator)
	if err != nil {
		return err
	}
	if _, ok := integ.(ode.AdaptiveIntegrator); !ok {
		return fmt.Errorf("sweep requires an adaptive integrator, got %s", cfg.Integrator)
	}

	ensemble := sim.NewEnsemble(func() ode.AdaptiveIntegrator {
		i, _ := integrators.New(cfg.Integrator)
		return i.(ode.AdaptiveIntegrator)
	}, cfg.SolverOptions())

	results := ensemble.Solve(context.Background(), runs)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tPEAK DAY\tPEAK INFECTED\tATTACK RATE")
	for _, res := range results {
		if res.Err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", res.Name, res.Err)
			continue
		}
		peak, err := analysis.InfectedPeak(res.Trajectory)
		if err != nil {
			return err
		}
		attack, err := analysis.AttackRate(res.Trajectory)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.1f\t%.0f\t%.1f%%\n", res.Name, peak.Time, peak.Value, attack*100)
	}
	return w.Flush()
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}

	model := epi.NewSIR(cfg.Beta, cfg.Gamma)
	x0 := cfg.GetInitState()
	if err := model.Validate(x0); err != nil {
		return err
	}
	times := cfg.Times()

	fmt.Printf("comparing integrators (dt=%.4f, days=%.1f)\n\n", cfg.Dt, cfg.Days)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tPEAK DAY\tPEAK INFECTED\tFINAL SIZE\tDRIFT\tTIME MS")
	for _, name := range names {
		integ, err := integrators.New(name)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		start := time.Now()
		var tr *sim.Trajectory
		if adaptive, ok := integ.(ode.AdaptiveIntegrator); ok {
			tr, err = sim.New(adaptive).Solve(context.Background(), model, x0.Clone(), times, cfg.SolverOptions())
		} else {
			tr, err = sim.SolveFixed(context.Background(), model, x0.Clone(), times, integ, cfg.Dt)
		}
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		peak, err := analysis.InfectedPeak(tr)
		if err != nil {
			return err
		}
		final, err := analysis.FinalSize(tr)
		if err != nil {
			return err
		}
		drift, err := analysis.ConservationDrift(tr)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%.1f\t%.0f\t%.0f\t%.2e\t%.2f\n",
			name, peak.Time, peak.Value, final, drift,
			float64(elapsed.Microseconds())/1000)
	}
	return w.Flush()
}
