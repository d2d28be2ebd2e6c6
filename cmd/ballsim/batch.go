package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ballsim/internal/automation"
	"github.com/san-kum/ballsim/internal/metrics"
	"github.com/san-kum/ballsim/internal/optim"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/storage"
	"github.com/spf13/cobra"
)

var (
	sweepParam   string
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	sweepMetric  string
	optMetric    string
	ensMetrics   []string
	numRuns      int
	parallel     int
	gridSpecs    []string
	trials       int
	perturbFrac  float64
	perturbNames []string
)

func batchCommands() []*cobra.Command {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a scenario file",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep one parameter and report a metric",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	simFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "gravity", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1600, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 9, "number of values")
	sweepCmd.Flags().StringVar(&sweepMetric, "metric", "collision_rate", "metric to report")

	ensembleCmd := &cobra.Command{
		Use:   "ensemble",
		Short: "run consecutive seeds concurrently",
		Args:  cobra.NoArgs,
		RunE:  runEnsemble,
	}
	simFlags(ensembleCmd)
	ensembleCmd.Flags().IntVar(&numRuns, "runs", 8, "number of seeds")
	ensembleCmd.Flags().IntVar(&parallel, "parallel", runtime.NumCPU(), "runs in flight")
	ensembleCmd.Flags().StringSliceVar(&ensMetrics, "metrics", []string{"energy", "collision_rate", "escapes"}, "metrics to collect")

	optimizeCmd := &cobra.Command{
		Use:   "optimize",
		Short: "grid search parameters minimizing a metric",
		Args:  cobra.NoArgs,
		RunE:  runOptimize,
	}
	simFlags(optimizeCmd)
	optimizeCmd.Flags().StringArrayVar(&gridSpecs, "grid", nil, "name=v1,v2,... (repeatable)")
	optimizeCmd.Flags().StringVar(&optMetric, "metric", "substep_margin", "metric to minimize")

	montecarloCmd := &cobra.Command{
		Use:   "montecarlo",
		Short: "random seeds and perturbed parameters, counting unstable trials",
		Args:  cobra.NoArgs,
		RunE:  runMonteCarlo,
	}
	simFlags(montecarloCmd)
	montecarloCmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	montecarloCmd.Flags().Float64Var(&perturbFrac, "perturb", 0.2, "relative perturbation")
	montecarloCmd.Flags().StringSliceVar(&perturbNames, "params", []string{"gravity", "rotation_speed"}, "parameters to perturb")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark frame throughput",
		Args:  cobra.NoArgs,
		RunE:  benchSimulation,
	}
	simFlags(benchCmd)

	return []*cobra.Command{scenarioCmd, sweepCmd, ensembleCmd, optimizeCmd, montecarloCmd, benchCmd}
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	st := storage.New(dataDir).WithLogger(logger)
	if err := st.Init(); err != nil {
		return err
	}

	logger.Info("scenario", "name", sc.Name, "steps", len(sc.Steps))
	results, err := automation.NewRunner(st, logger).RunScenario(context.Background(), sc)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tCONFIG\tSEED\tIMPACTS\tRUN")
	for _, r := range results {
		id := r.RunID
		if id == "" {
			id = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%d\t%s\n", r.Step, r.Name, r.Result.Seed, r.Result.Stats.Impacts(), id)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	sweep := &automation.ParameterSweep{
		Base:      base,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Metrics:   []string{sweepMetric},
	}
	results, err := automation.NewRunner(nil, logger).RunSweep(context.Background(), sweep)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\t%s\tMIN E\tMAX E\tESCAPED\n", strings.ToUpper(sweepParam), strings.ToUpper(sweepMetric))
	values := make([]float64, len(results))
	for i, r := range results {
		values[i] = r.Metrics[sweepMetric]
		fmt.Fprintf(w, "%g\t%.4f\t%.0f\t%.0f\t%d\n", r.ParamValue, values[i], r.MinEnergy, r.MaxEnergy, r.Escaped)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(values) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(values,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("%s vs %s", sweepMetric, sweepParam)),
		))
	}
	return nil
}

func runEnsemble(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := cfg.ToSim()
	if err != nil {
		return err
	}
	if _, err := metrics.New(sc, ensMetrics...); err != nil {
		return err
	}

	ens := sim.NewEnsemble(sc, numRuns, cfg.Seed, func() []sim.Metric {
		ms, _ := metrics.New(sc, ensMetrics...)
		return ms
	})
	ens.SetLimit(parallel)

	start := time.Now()
	results, err := ens.Run(context.Background(), sim.RunConfig{Dt: cfg.Run.Dt, Duration: cfg.Run.Duration, Every: cfg.Run.Every})
	if err != nil {
		return err
	}
	logger.Info("ensemble done", "runs", len(results), "elapsed", time.Since(start))

	names := append([]string(nil), ensMetrics...)
	sort.Strings(names)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "SEED\t%s\n", strings.ToUpper(strings.Join(names, "\t")))
	mean := make([]float64, len(names))
	for _, r := range results {
		row := []string{strconv.FormatInt(r.Seed, 10)}
		for i, name := range names {
			v := r.Metrics[name]
			mean[i] += v / float64(len(results))
			row = append(row, strconv.FormatFloat(v, 'f', 4, 64))
		}
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	row := []string{"mean"}
	for _, v := range mean {
		row = append(row, strconv.FormatFloat(v, 'f', 4, 64))
	}
	fmt.Fprintln(w, strings.Join(row, "\t"))
	return w.Flush()
}

// parseGrid reads "name=v1,v2,..." specs.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	names := make([]string, 0, len(specs))
	ranges := make([][]float64, 0, len(specs))
	for _, spec := range specs {
		name, list, ok := strings.Cut(spec, "=")
		if !ok || list == "" {
			return nil, nil, fmt.Errorf("--grid %q: want name=v1,v2,...", spec)
		}
		var values []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("--grid %s: %w", name, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	return names, ranges, nil
}

func runOptimize(cmd *cobra.Command, args []string) error {
	if len(gridSpecs) == 0 {
		return fmt.Errorf("at least one --grid is required")
	}
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(gridSpecs)
	if err != nil {
		return err
	}

	points := 1
	for _, r := range ranges {
		points *= len(r)
	}
	logger.Info("grid search", "points", points, "metric", optMetric)

	best, value, err := optim.NewGridSearch(names, ranges).Search(context.Background(), base, optMetric)
	if err != nil {
		return err
	}
	fmt.Printf("best %s: %.6f\n", optMetric, value)
	for _, name := range names {
		fmt.Printf("  %s = %g\n", name, best[name])
	}
	return nil
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	mc := &automation.MonteCarloConfig{
		Base:         base,
		Params:       perturbNames,
		Perturbation: perturbFrac,
		NumTrials:    trials,
		Seed:         base.Seed,
	}
	results, err := automation.NewRunner(nil, logger).RunMonteCarlo(context.Background(), mc)
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	for _, r := range results {
		if !r.Stable {
			logger.Warn("unstable trial", "trial", r.TrialID, "seed", r.Seed, "escaped", r.Escaped, "params", r.Params)
		}
	}
	fmt.Printf("stable: %d  unstable: %d  (%.1f%%)\n", stable, unstable, 100*float64(stable)/float64(max(len(results), 1)))
	return nil
}

func benchSimulation(cmd *cobra.Command, args []string) error {
	base, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	durations := []float64{1.0, 5.0, 10.0}
	substeps := []int{1, 4, 8, 16}

	fmt.Printf("benchmarking %s\n\n", base.Name)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DURATION\tSUBSTEPS\tBALLS\tFRAMES\tTIME\tFRAMES/SEC")

	for _, dur := range durations {
		for _, n := range substeps {
			cfg := base.Clone()
			cfg.Substeps = n
			sc, err := cfg.ToSim()
			if err != nil {
				return err
			}
			s, err := sim.New(sc)
			if err != nil {
				return err
			}

			start := time.Now()
			result, err := s.Run(context.Background(), sim.RunConfig{Dt: cfg.Run.Dt, Duration: dur, Every: 1 << 20})
			if err != nil {
				return err
			}
			elapsed := time.Since(start)

			fmt.Fprintf(w, "%.1fs\t%d\t%d\t%d\t%v\t%.0f\n",
				dur, n, len(s.Balls()), result.Stats.Frames, elapsed, float64(result.Stats.Frames)/elapsed.Seconds())
		}
	}

	return w.Flush()
}
