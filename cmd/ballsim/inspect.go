package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ballsim/internal/analysis"
	"github.com/san-kum/ballsim/internal/export"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/storage"
	"github.com/spf13/cobra"
)

var (
	ballIndex    int
	perturbation float64
	svgOut       string
)

func inspectCommands() []*cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and collisions of a run (default latest)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "power spectrum of the total energy",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}

	phaseCmd := &cobra.Command{
		Use:   "phase",
		Short: "trajectory and speed/spin portrait of one ball",
		Args:  cobra.NoArgs,
		RunE:  phasePlot,
	}
	simFlags(phaseCmd)
	phaseCmd.Flags().IntVar(&ballIndex, "ball", 0, "ball index")
	phaseCmd.Flags().StringVar(&svgOut, "svg", "", "also write the trajectory as SVG")

	divergenceCmd := &cobra.Command{
		Use:   "divergence",
		Short: "separation of two runs that start a perturbation apart",
		Args:  cobra.NoArgs,
		RunE:  divergence,
	}
	simFlags(divergenceCmd)
	divergenceCmd.Flags().Float64Var(&perturbation, "eps", 1e-3, "initial offset of ball 0 in pixels")

	return []*cobra.Command{listCmd, plotCmd, exportJSONCmd, exportCSVCmd, analyzeCmd, phaseCmd, divergenceCmd}
}

// loadRun resolves an optional run id argument, defaulting to the latest run.
func loadRun(args []string) (*storage.RunMetadata, []sim.Sample, error) {
	st := storage.New(dataDir).WithLogger(logger)
	var runID string
	if len(args) > 0 && args[0] != "latest" {
		runID = args[0]
	} else {
		id, err := st.Latest()
		if err != nil {
			return nil, nil, err
		}
		runID = id
	}

	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", runID)
	}
	return meta, samples, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir).WithLogger(logger)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tSEED\tBALLS\tIMPACTS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2fs\t%d\t%d\t%d\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Seed,
			run.Balls,
			run.Stats.Impacts(),
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(samples))

	series := []struct {
		caption string
		value   func(sim.Sample) float64
	}{
		{"total energy", func(s sim.Sample) float64 { return s.Total }},
		{"kinetic energy", func(s sim.Sample) float64 { return s.Linear + s.Rotational }},
		{"collisions per frame", func(s sim.Sample) float64 { return float64(s.Collisions) }},
		{"mean temperature", func(s sim.Sample) float64 { return s.MeanTemp }},
	}

	for _, ser := range series {
		data := make([]float64, len(samples))
		for i, s := range samples {
			data[i] = ser.value(s)
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(ser.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args)
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, samples)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(args)
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, samples)
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args)
	if err != nil {
		return err
	}
	if len(samples) < 4 {
		return fmt.Errorf("need at least 4 samples, have %d", len(samples))
	}

	fmt.Printf("frequency analysis: %s\n\n", meta.ID)

	data := make([]float64, len(samples))
	for i, s := range samples {
		data[i] = s.Total
	}
	interval := samples[1].Time - samples[0].Time
	if !(interval > 0) {
		return fmt.Errorf("run %s has no usable sample interval", meta.ID)
	}

	ps := analysis.PowerSpectrum(data, 1/interval)
	db := ps.Decibels()
	plotData := db[:len(db)/4+1]

	graph := asciigraph.Plot(plotData,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("power spectrum of total energy (dB)"),
	)
	fmt.Println(graph)
	fmt.Println()

	freq, power := ps.Dominant()
	fmt.Printf("dominant frequency: %.3f hz (amplitude %.3g)\n", freq, power)
	if freq > 0 {
		fmt.Printf("period: %.3f s\n", 1.0/freq)
	}
	return nil
}

func phasePlot(cmd *cobra.Command, args []string) error {
	cfg, s, err := newSimulation(cmd)
	if err != nil {
		return err
	}
	traj, portrait, err := analysis.TrackBall(s, ballIndex, cfg.Run.Dt, cfg.Run.Duration)
	if err != nil {
		return err
	}

	fmt.Printf("ball %d trajectory (%d frames)\n", ballIndex, len(traj.Points))
	fmt.Println(analysis.ToASCII(traj.Points, 70, 24, false))
	fmt.Printf("\nspeed (x) against spin (y)\n")
	fmt.Println(analysis.ToASCII(portrait.Points, 70, 20, true))

	if svgOut != "" {
		w, h := int(2*s.Config().CenterX), int(2*s.Config().CenterY)
		svg := export.TrajectoryToSVG(traj.Points, w, h, "#f0a030", false)
		if err := os.WriteFile(svgOut, []byte(svg), 0644); err != nil {
			return err
		}
		logger.Info("wrote trajectory", "file", svgOut)
	}
	return nil
}

func divergence(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := cfg.ToSim()
	if err != nil {
		return err
	}

	res, err := analysis.Divergence(sc, cfg.Run.Dt, cfg.Run.Duration, perturbation)
	if err != nil {
		return err
	}
	if len(res.Separation) == 0 {
		return fmt.Errorf("no frames recorded")
	}

	graph := asciigraph.Plot(res.Separation,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption("mean ball separation (px)"),
	)
	fmt.Println(graph)
	fmt.Printf("\ngrowth rate: %.3f /s\n", res.Rate)
	return nil
}
