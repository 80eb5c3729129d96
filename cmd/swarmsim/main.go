package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/swarmsim/internal/config"
	"github.com/san-kum/swarmsim/internal/export"
	"github.com/san-kum/swarmsim/internal/metrics"
	"github.com/san-kum/swarmsim/internal/parity"
	"github.com/san-kum/swarmsim/internal/schedule"
	"github.com/san-kum/swarmsim/internal/sim"
	"github.com/san-kum/swarmsim/internal/storage"
	"github.com/san-kum/swarmsim/internal/swarm"
	"github.com/san-kum/swarmsim/internal/sweep"
	"github.com/san-kum/swarmsim/internal/trace"
	"github.com/san-kum/swarmsim/internal/viz"
)

var (
	dataDir    string
	verbose    bool
	configFile string
	preset     string
	seed       int64
	steps      int
	workers    int
	precision  string
	ensemble   int
	outFile    string
	// parity
	csvFile        string
	baselineFile   string
	updateBaseline bool
	tolerance      float64
	// sweep
	axisSpecs   []string
	concurrency int
	// svg
	frameIdx  int
	svgWidth  int
	withTrail bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "swarmsim",
		Short:        "swarmalator simulation with hold actions",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a preset or config over its action schedule and store it",
		RunE:  runSimulation,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().IntVar(&ensemble, "ensemble", 0, "also run this many consecutive seeds and print mean metrics")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot hero trajectory and order parameters",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	traceCmd := &cobra.Command{
		Use:   "trace",
		Short: "write a trace.json for a seed and schedule",
		RunE:  writeTrace,
	}
	addConfigFlags(traceCmd)
	traceCmd.Flags().StringVarP(&outFile, "out", "o", "trace.json", "output file")

	parityCmd := &cobra.Command{
		Use:   "parity [trace.json]",
		Short: "replay a reference trace and report drift",
		Args:  cobra.ExactArgs(1),
		RunE:  runParity,
	}
	addConfigFlags(parityCmd)
	parityCmd.Flags().StringVar(&csvFile, "csv", "", "write per-frame errors to this csv file")
	parityCmd.Flags().StringVar(&baselineFile, "baseline", "", "error baseline json to check against")
	parityCmd.Flags().BoolVar(&updateBaseline, "update-baseline", false, "overwrite the baseline with this run")
	parityCmd.Flags().Float64Var(&tolerance, "tolerance", parity.DefaultTolerance, "absolute max position error without a baseline")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "interactive view; keys 0-3 apply hold actions",
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "export a frame of a run as svg",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	svgCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (default <run_id>.svg)")
	svgCmd.Flags().IntVar(&frameIdx, "frame", -1, "frame to draw (-1 for last)")
	svgCmd.Flags().IntVar(&svgWidth, "size", 600, "image size in pixels")
	svgCmd.Flags().BoolVar(&withTrail, "trail", false, "draw the hero path up to the frame")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "map order parameters over a grid of coupling values",
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().StringSliceVar(&axisSpecs, "axis", []string{"k=-1:1:9"}, "swept parameter as name=lo:hi:n (repeatable)")
	sweepCmd.Flags().IntVar(&concurrency, "concurrency", 4, "grid points evaluated at once")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tN\tJ\tK\tSTEPS")
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%.2f\t%.2f\t%d\n", name, cfg.Params.N, cfg.Params.J, cfg.Params.K, cfg.TotalSteps())
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, traceCmd, parityCmd, liveCmd, sweepCmd, svgCmd, exportCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "stage1", "preset configuration")
	cmd.Flags().Int64Var(&seed, "seed", config.DefaultSeed, "random seed")
	cmd.Flags().IntVar(&steps, "steps", 0, "steps to run (0 for the schedule length)")
	cmd.Flags().IntVar(&workers, "workers", 0, "kernel goroutines (0 or 1 for serial)")
	cmd.Flags().StringVar(&precision, "precision", "", "float64 or float32")
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig resolves preset, then config file, then explicitly set flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("steps") {
		cfg.Steps = steps
	}
	if flags.Changed("workers") {
		cfg.Params.Workers = workers
	}
	if flags.Changed("precision") {
		cfg.Params.Precision = swarm.Precision(precision)
	}
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger()

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	eng, err := swarm.New(cfg.Seed, cfg.Params)
	if err != nil {
		return err
	}

	s := sim.New(eng, log)
	for _, m := range metrics.Defaults(cfg.Params) {
		s.AddMetric(m)
	}

	ctx, cancel := signalContext()
	defer cancel()

	simCfg := sim.Config{Steps: cfg.TotalSteps(), Dt: cfg.Dt, Schedule: cfg.Schedule}

	fmt.Printf("running %s (n=%d, seed=%d, steps=%d)...\n", cfg.Name, cfg.Params.N, cfg.Seed, simCfg.Steps)
	start := time.Now()

	result, err := s.Run(ctx, simCfg)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Name:   cfg.Name,
		Seed:   cfg.Seed,
		Dt:     cfg.StepDt(),
		Params: cfg.Params,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	printMetrics(result.Metrics)

	if ensemble > 0 {
		fmt.Printf("\nensemble of %d seeds from %d...\n", ensemble, cfg.Seed)
		results, err := sim.NewEnsemble(cfg.Params, ensemble, cfg.Seed, log).Run(ctx, simCfg)
		if err != nil {
			return err
		}
		printMetrics(sim.MeanMetrics(results))
	}

	return nil
}

func printMetrics(m map[string]float64) {
	fmt.Println("\nmetrics:")
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, name := range sortedKeys(m) {
		fmt.Fprintf(w, "  %s\t%.6f\n", name, m[name])
	}
	w.Flush()
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
	fmt.Fprintln(w, "ID\tNAME\tTIME\tN\tSEED\tSTEPS\tDT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.3f\n",
			run.ID,
			run.Name,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Params.N,
			run.Seed,
			run.Steps,
			run.Dt,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}

	if len(frames) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("name: %s\n", meta.Name)
	fmt.Printf("frames: %d\n\n", len(frames))

	cx, cy := meta.Params.Width/2, meta.Params.Height/2
	heroX := make([]float64, len(frames))
	heroY := make([]float64, len(frames))
	coherence := make([]float64, len(frames))
	sPlus := make([]float64, len(frames))
	sMinus := make([]float64, len(frames))
	for i, f := range frames {
		snap := swarm.Snapshot{Positions: f.Positions(), Phases: f.AgentsPhase}
		h := f.Hero()
		heroX[i], heroY[i] = h[0], h[1]
		coherence[i] = metrics.Coherence(f.AgentsPhase)
		sPlus[i] = metrics.SwarmOrder(snap, 1, cx, cy)
		sMinus[i] = metrics.SwarmOrder(snap, -1, cx, cy)
	}

	series := []struct {
		data    []float64
		caption string
	}{
		{heroX, "hero x"},
		{heroY, "hero y"},
		{coherence, "phase coherence R"},
		{sPlus, "S+"},
		{sMinus, "S-"},
	}

	for _, s := range series {
		graph := asciigraph.Plot(s.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(s.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func writeTrace(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := swarm.New(cfg.Seed, cfg.Params)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := sim.New(eng, newLogger()).Run(ctx, sim.Config{Steps: cfg.TotalSteps(), Dt: cfg.Dt, Schedule: cfg.Schedule})
	if err != nil {
		return err
	}

	if err := trace.Save(outFile, result.Frames); err != nil {
		return err
	}
	fmt.Printf("wrote %d frames to %s\n", len(result.Frames), outFile)
	return nil
}

func runParity(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log := newLogger()

	ref, err := trace.Load(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	sched := cfg.Schedule
	if len(sched) == 0 {
		sched = schedule.Parity()
	}

	report, err := parity.Compare(ctx, ref, parity.Options{
		Seed:     cfg.Seed,
		Params:   cfg.Params,
		Dt:       cfg.Dt,
		Schedule: sched,
		Logger:   log,
	})
	if err != nil {
		return err
	}

	printReport(report)

	if len(report.HeroErrors) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(report.HeroErrors,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption("hero position error per frame"),
		))
	}

	if csvFile != "" {
		f, err := os.Create(csvFile)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := parity.WriteFrameCSV(f, report); err != nil {
			return err
		}
		fmt.Printf("\nframe errors written to %s\n", csvFile)
	}

	if baselineFile == "" {
		if !report.Within(tolerance) {
			return fmt.Errorf("max error %.2e exceeds threshold %.2e", report.MaxError, tolerance)
		}
		fmt.Println("\nparity passed (absolute threshold)")
		return nil
	}

	if updateBaseline {
		if err := parity.SaveBaseline(baselineFile, report); err != nil {
			return err
		}
		fmt.Printf("\nbaseline written to %s\n", baselineFile)
		return nil
	}

	baseline, err := parity.LoadBaseline(baselineFile)
	if errors.Is(err, os.ErrNotExist) {
		if err := parity.SaveBaseline(baselineFile, report); err != nil {
			return err
		}
		fmt.Printf("\nno baseline found; wrote %s\n", baselineFile)
		return nil
	}
	if err != nil {
		return err
	}

	fmt.Printf("\nbaseline max error:      %.2e\n", baseline.MaxError)
	fmt.Printf("baseline max hero error: %.2e\n", baseline.MaxHeroError)
	if err := parity.CompareBaseline(report, baseline, parity.DefaultBaselineTolerance); err != nil {
		return err
	}
	fmt.Println("parity passed (baseline)")
	return nil
}

func printReport(r *parity.Report) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "frames\t%d\n", len(r.FrameErrors))
	fmt.Fprintf(w, "max error\t%.2e\n", r.MaxError)
	fmt.Fprintf(w, "mean error\t%.2e\n", r.MeanError)
	fmt.Fprintf(w, "std error\t%.2e\n", r.StdError)
	fmt.Fprintf(w, "max hero error\t%.2e\n", r.MaxHeroError)
	fmt.Fprintf(w, "mean hero error\t%.2e\n", r.MeanHeroError)
	fmt.Fprintf(w, "frame with max\t%d\n", r.MaxErrorFrame)
	fmt.Fprintf(w, "agent with max\t%d\n", r.MaxErrorAgent)
	if worst, ok := r.WorstFrame(); ok {
		fmt.Fprintf(w, "worst mean frame\t%d (mean %.2e, max phase %.2e)\n", worst.Frame, worst.MeanPosError, worst.MaxPhaseError)
	}
	w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	eng, err := swarm.New(cfg.Seed, cfg.Params)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewModel(eng), tea.WithAltScreen())
	_, err = p.Run()
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	axes := make([]sweep.Axis, 0, len(axisSpecs))
	for _, spec := range axisSpecs {
		axis, err := parseAxis(spec)
		if err != nil {
			return err
		}
		axes = append(axes, axis)
	}

	ctx, cancel := signalContext()
	defer cancel()

	g := sweep.NewGridSearch(cfg.Params, axes, concurrency, newLogger())
	fmt.Printf("sweeping %d grid points (n=%d, seed=%d, steps=%d)...\n", len(g.Points()), cfg.Params.N, cfg.Seed, cfg.TotalSteps())

	start := time.Now()
	points, err := g.Run(ctx, cfg.Seed, cfg.TotalSteps())
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, a := range axes {
		fmt.Fprintf(w, "%s\t", strings.ToUpper(a.Name))
	}
	fmt.Fprintln(w, "S+\tS-\tR")
	for _, pt := range points {
		for _, a := range axes {
			fmt.Fprintf(w, "%.3f\t", pt.Params[a.Name])
		}
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\n", pt.Metrics["s_plus"], pt.Metrics["s_minus"], pt.Metrics["phase_coherence"])
	}
	if err := w.Flush(); err != nil {
		return err
	}

	first := axes[0].Name
	for _, metric := range []string{"s_plus", "s_minus", "phase_coherence"} {
		_, ys := sweep.Series(points, first, metric)
		if len(ys) < 2 {
			continue
		}
		fmt.Println()
		fmt.Println(asciigraph.Plot(ys,
			asciigraph.Height(8),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("%s vs %s", metric, first)),
		))
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	frames, err := st.LoadTrace(runID)
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("run %s has no frames", runID)
	}

	idx := frameIdx
	if idx < 0 || idx >= len(frames) {
		idx = len(frames) - 1
	}
	f := frames[idx]
	snap := swarm.Snapshot{Positions: f.Positions(), Phases: f.AgentsPhase}
	snap.HeroPosition = snap.Positions[swarm.Hero]

	opts := export.SVGOptions{
		Width:   svgWidth,
		Height:  int(float64(svgWidth) * meta.Params.Height / meta.Params.Width),
		DomainW: meta.Params.Width,
		DomainH: meta.Params.Height,
		Targets: meta.Params.NumTargets(),
	}
	if withTrail {
		for _, fr := range frames[:idx+1] {
			h := fr.Hero()
			opts.Trail = append(opts.Trail, swarm.Vec2{X: h[0], Y: h[1]})
		}
	}

	path := outFile
	if path == "" {
		path = runID + ".svg"
	}
	if err := os.WriteFile(path, []byte(export.SnapshotToSVG(snap, opts)), 0644); err != nil {
		return err
	}
	fmt.Printf("frame %d written to %s\n", idx, path)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}
