package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/experiment"
	"github.com/san-kum/ballsim/internal/export"
	"github.com/san-kum/ballsim/internal/gui"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/storage"
	"github.com/san-kum/ballsim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	seed       int64
	duration   float64
	frameRate  int
	every      int
	overrides  []string
	metricList []string
	debug      bool
	braille    bool
	mute       bool
	outFile    string

	logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, TimeFormat: time.Kitchen})
)

// main registers the commands and runs the interactive terminal menu when
// no subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:   "ballsim",
		Short: "balls in rotating polygons",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			logger.SetLevel(lvl)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return viz.RunInteractive()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ballsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a headless simulation and store it",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	simFlags(runCmd)
	runCmd.Flags().IntVar(&every, "every", 0, "record one sample every N frames")
	runCmd.Flags().StringSliceVar(&metricList, "metrics", nil, "metrics to collect (default all)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run simulation in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	simFlags(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run simulation in a window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}
	simFlags(guiCmd)
	guiCmd.Flags().BoolVar(&mute, "mute", false, "disable collision sound")

	svgCmd := &cobra.Command{
		Use:   "svg",
		Short: "advance a simulation and write the last frame as SVG",
		Args:  cobra.NoArgs,
		RunE:  writeSVG,
	}
	simFlags(svgCmd)
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "frame.svg", "output file")
	svgCmd.Flags().BoolVar(&debug, "debug", false, "draw velocity vectors")
	svgCmd.Flags().BoolVar(&braille, "braille", false, "render the terminal braille view instead")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-10s %d-%d balls, %d layers, substeps %d\n",
					name, p.Balls.Min, p.Balls.Max, len(p.Arena.Layers), p.Substeps)
			}
			return nil
		},
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "configuration files",
	}
	configInitCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a configuration file",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	simFlags(configInitCmd)
	configCmd.AddCommand(configInitCmd)

	paramsCmd := &cobra.Command{
		Use:   "params",
		Short: "list parameters accepted by --set, sweep and optimize",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := buildConfig(cmd)
			if err != nil {
				return err
			}
			values := cfg.GetParams()
			for _, name := range config.ParamNames() {
				if v, ok := values[name]; ok {
					fmt.Printf("  %-20s %g\n", name, v)
				} else {
					fmt.Printf("  %s\n", name)
				}
			}
			return nil
		},
	}
	simFlags(paramsCmd)

	rootCmd.AddCommand(runCmd, liveCmd, guiCmd, svgCmd, presetsCmd, configCmd, paramsCmd)
	rootCmd.AddCommand(inspectCommands()...)
	rootCmd.AddCommand(batchCommands()...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// simFlags adds the flags that pick and adjust a configuration.
func simFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration in seconds")
	cmd.Flags().IntVar(&frameRate, "fps", 60, "frames per second")
	cmd.Flags().StringArrayVar(&overrides, "set", nil, "override a parameter, name=value")
}

// buildConfig starts from the default, a preset or a file, then applies the
// flags the user actually set.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	var err error
	if preset != "" {
		if cfg, err = config.Preset(preset); err != nil {
			return nil, err
		}
	}
	if configFile != "" {
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	if cmd.Flags().Changed("seed") {
		cfg.Seed = seed
	}
	if cmd.Flags().Changed("time") {
		cfg.Run.Duration = duration
	}
	if cmd.Flags().Changed("fps") {
		if frameRate <= 0 {
			return nil, fmt.Errorf("fps must be positive, got %d", frameRate)
		}
		cfg.Run.Dt = 1.0 / float64(frameRate)
	}
	if f := cmd.Flags().Lookup("every"); f != nil && f.Changed {
		cfg.Run.Every = every
	}
	for _, kv := range overrides {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--set %q: want name=value", kv)
		}
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("--set %s: %w", name, err)
		}
		if err := cfg.SetParam(name, v); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func newSimulation(cmd *cobra.Command) (*config.Config, *sim.Simulation, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	sc, err := cfg.ToSim()
	if err != nil {
		return nil, nil, err
	}
	s, err := sim.New(sc)
	if err != nil {
		return nil, nil, err
	}
	return cfg, s, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir).WithLogger(logger)
	if err := st.Init(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg, metricList...)
	if err != nil {
		return err
	}

	logger.Info("running simulation", "config", cfg.Name, "seed", cfg.Seed, "balls", len(exp.Simulation().Balls()))
	start := time.Now()

	result, err := exp.Run(context.Background())
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(cfg, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("frames: %d  wall impacts: %d  ball impacts: %d\n",
		result.Stats.Frames, result.Stats.WallImpacts, result.Stats.BallImpacts)
	if n := exp.Simulation().Escaped(); n > 0 {
		logger.Warn("balls left the arena", "count", n)
	}
	var maxSpeed float64
	for _, smp := range result.Samples {
		maxSpeed = math.Max(maxSpeed, smp.MaxSpeed)
	}
	if margin := exp.Simulation().Config().SubstepMargin(maxSpeed, cfg.Run.Dt); margin >= 1 {
		logger.Warn("substeps too coarse for the fastest ball", "margin", margin, "substeps", cfg.Substeps)
	}
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, s, err := newSimulation(cmd)
	if err != nil {
		return err
	}
	return viz.Run(s, cfg.Name, cfg.Run.Dt)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, s, err := newSimulation(cmd)
	if err != nil {
		return err
	}
	gui.Run(s, cfg.Name, !mute, logger)
	return nil
}

func writeSVG(cmd *cobra.Command, args []string) error {
	cfg, s, err := newSimulation(cmd)
	if err != nil {
		return err
	}
	s.SetDebugVisible(debug)
	if frames := int(cfg.Run.Duration / cfg.Run.Dt); frames > 0 {
		n := 0
		err := s.RunWithCallback(context.Background(), cfg.Run.Dt, func(*sim.Simulation) bool {
			n++
			return n < frames
		})
		if err != nil {
			return err
		}
	}

	frame := s.Snapshot()
	var svg string
	if braille {
		canvas := viz.NewCanvas(120, 45)
		viz.DrawFrame(canvas, &frame, s.Config())
		svg = export.CanvasToSVG(canvas, 4)
	} else {
		svg = export.FrameToSVG(&frame, export.DefaultFrameOptions(s.Config()))
	}
	if err := os.WriteFile(outFile, []byte(svg), 0644); err != nil {
		return err
	}
	logger.Info("wrote frame", "file", outFile, "time", frame.Time, "balls", len(frame.Balls))
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "ballsim.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
