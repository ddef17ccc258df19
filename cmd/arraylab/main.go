package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/arraylab/internal/analysis"
	"github.com/san-kum/arraylab/internal/array"
	"github.com/san-kum/arraylab/internal/capture"
	"github.com/san-kum/arraylab/internal/config"
	"github.com/san-kum/arraylab/internal/export"
	"github.com/san-kum/arraylab/internal/gui"
	"github.com/san-kum/arraylab/internal/metrics"
	"github.com/san-kum/arraylab/internal/sim"
	"github.com/san-kum/arraylab/internal/storage"
	"github.com/san-kum/arraylab/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	growth     float64
	hardLimit  int
	ticks      int
	graceTicks int
	frameRate  int
	gridWidth  int
	gridHeight int
	themeName  string
	configFile string
	preset     string
	// Export/render output
	outPath string
	cellPx  int
	delay   int
	// Sweep range
	sweepFrom float64
	sweepTo   float64
	sweepStep float64
	// List page size
	listLimit int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "arraylab",
		Short: "growable array resizing lab",
		RunE: func(cmd *cobra.Command, args []string) error {
			// Default to the interactive launcher when no command given
			return viz.RunLauncher()
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "live terminal visualization",
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&gridWidth, "width", config.DefaultGridWidth, "grid width (cells)")
	liveCmd.Flags().IntVar(&gridHeight, "height", config.DefaultGridHeight, "grid height (cells)")
	liveCmd.Flags().StringVar(&themeName, "theme", config.DefaultTheme, "color theme")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "native window visualization",
		RunE:  runGUI,
	}
	addSimFlags(guiCmd)
	guiCmd.Flags().StringVar(&outPath, "record", "", "record to GIF from the first frame")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "headless simulation run",
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}
	listCmd.Flags().IntVar(&listLimit, "limit", 20, "max runs to show")

	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "aggregate statistics across runs",
		RunE:  showStats,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "amortized cost analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")
	exportSVGCmd.Flags().IntVar(&gridWidth, "width", config.DefaultGridWidth, "grid width (cells)")
	exportSVGCmd.Flags().IntVar(&gridHeight, "height", config.DefaultGridHeight, "grid height (cells)")
	exportSVGCmd.Flags().IntVar(&cellPx, "cell", 8, "cell size in pixels")

	renderCmd := &cobra.Command{
		Use:   "render [run_id]",
		Short: "render a recorded run to GIF",
		Args:  cobra.ExactArgs(1),
		RunE:  renderRun,
	}
	renderCmd.Flags().StringVar(&outPath, "out", "run.gif", "output file")
	renderCmd.Flags().IntVar(&gridWidth, "width", config.DefaultGridWidth, "grid width (cells)")
	renderCmd.Flags().IntVar(&gridHeight, "height", config.DefaultGridHeight, "grid height (cells)")
	renderCmd.Flags().IntVar(&cellPx, "cell", 4, "cell size in pixels")
	renderCmd.Flags().IntVar(&delay, "delay", 2, "frame delay (1/100s)")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "compare growth factors",
		RunE:  sweepGrowth,
	}
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 1.25, "first growth factor")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 3.0, "last growth factor")
	sweepCmd.Flags().Float64Var(&sweepStep, "step", 0.25, "growth factor step")
	sweepCmd.Flags().IntVar(&hardLimit, "limit", 0, "hard capacity limit (0 = unbounded)")
	sweepCmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "ticks per factor")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tGROWTH\tLIMIT\tTICKS\tGRID")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%g\t%d\t%d\t%dx%d\n",
					name, p.GrowthFactor, p.HardLimit, p.Ticks, p.GridWidth, p.GridHeight)
			}
			return w.Flush()
		},
	}

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the tick driver",
		RunE:  benchDriver,
	}
	benchCmd.Flags().Float64Var(&growth, "growth", config.DefaultGrowthFactor, "growth factor")

	rootCmd.AddCommand(liveCmd, guiCmd, runCmd, listCmd, statsCmd, plotCmd, analyzeCmd,
		exportCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, renderCmd, sweepCmd, presetsCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&growth, "growth", config.DefaultGrowthFactor, "growth factor")
	cmd.Flags().IntVar(&hardLimit, "limit", config.DefaultHardLimit, "hard capacity limit (0 = unbounded)")
	cmd.Flags().IntVar(&ticks, "ticks", config.DefaultTicks, "max ticks")
	cmd.Flags().IntVar(&graceTicks, "grace", config.DefaultGraceTicks, "extra ticks after the hard limit")
	cmd.Flags().IntVar(&frameRate, "fps", config.DefaultFPS, "frame rate")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

// buildConfig resolves preset, config file and flags in that order: a
// preset is the base, a config file replaces it, and explicitly set
// flags override either.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if cmd.Flags().Changed("growth") {
		cfg.GrowthFactor = growth
	}
	if cmd.Flags().Changed("limit") {
		cfg.HardLimit = hardLimit
	}
	if cmd.Flags().Changed("ticks") {
		cfg.Ticks = ticks
	}
	if cmd.Flags().Changed("grace") {
		cfg.GraceTicks = graceTicks
	}
	if cmd.Flags().Changed("fps") {
		cfg.FPS = frameRate
	}
	if cmd.Flags().Lookup("width") != nil && cmd.Flags().Changed("width") {
		cfg.GridWidth = gridWidth
	}
	if cmd.Flags().Lookup("height") != nil && cmd.Flags().Changed("height") {
		cfg.GridHeight = gridHeight
	}
	if cmd.Flags().Lookup("theme") != nil && cmd.Flags().Changed("theme") {
		cfg.Theme = themeName
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	return viz.Run(*cfg)
}

func runGUI(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}
	gui.Run(*cfg, outPath)
	return nil
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

	driver := sim.NewDriver(array.New(cfg.GrowthFactor, cfg.HardLimit))
	driver.AddMetric(metrics.NewEfficiencyMean())
	driver.AddMetric(metrics.NewEfficiencyMin())
	driver.AddMetric(metrics.NewOpsPerAppend())
	driver.AddMetric(metrics.NewResizes())

	log.Info("running simulation", "growth", cfg.GrowthFactor, "limit", cfg.HardLimit, "ticks", cfg.Ticks)
	start := time.Now()

	result, err := driver.Run(context.Background(), sim.Config{MaxTicks: cfg.Ticks, GraceTicks: cfg.GraceTicks})
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(result)
	if err != nil {
		return err
	}

	// The index is a convenience catalog; a failed write loses only the
	// list/stats entry, not the run itself.
	if idx, err := storage.OpenIndex(filepath.Join(dataDir, "index.db")); err != nil {
		log.Warn("run not indexed", "err", err)
	} else {
		meta, err := st.Load(runID)
		if err == nil {
			err = idx.Record(*meta)
		}
		if err != nil {
			log.Warn("run not indexed", "err", err)
		}
		idx.Close()
	}

	log.Info("run saved", "id", runID, "elapsed", elapsed)

	last := result.History[len(result.History)-1]
	fmt.Printf("ticks: %d\n", result.TicksRun)
	fmt.Printf("capacity: %d\n", last.Capacity)
	fmt.Printf("size: %d\n", last.Size)
	fmt.Printf("resizes: %d\n", last.Resizes)
	if result.LimitReachedTick > 0 {
		fmt.Printf("limit reached at tick %d\n", result.LimitReachedTick)
	}

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, result.Metrics[name])
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	idx, err := storage.OpenIndex(filepath.Join(dataDir, "index.db"))
	if err != nil {
		return err
	}
	defer idx.Close()

	runs, err := idx.Runs(listLimit)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tGROWTH\tLIMIT\tTICKS\tCAPACITY\tRESIZES\tOPS/APPEND")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%g\t%d\t%d\t%d\t%d\t%.3f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.GrowthFactor,
			run.HardLimit,
			run.Ticks,
			run.FinalCapacity,
			run.Resizes,
			run.Metrics["ops_per_append"],
		)
	}

	return w.Flush()
}

func showStats(cmd *cobra.Command, args []string) error {
	idx, err := storage.OpenIndex(filepath.Join(dataDir, "index.db"))
	if err != nil {
		return err
	}
	defer idx.Close()

	stats, err := idx.Stats()
	if err != nil {
		return err
	}

	if stats.Runs == 0 {
		fmt.Println("no runs found")
		return nil
	}

	fmt.Printf("runs: %d\n", stats.Runs)
	fmt.Printf("runs that hit the limit: %d\n", stats.LimitedRuns)
	fmt.Printf("mean ops per append: %.3f\n", stats.AvgOpsPerAppend)
	fmt.Printf("mean efficiency: %.1f%%\n", stats.AvgEfficiency*100)
	if stats.BestGrowth > 0 {
		fmt.Printf("cheapest growth factor: %g\n", stats.BestGrowth)
	}

	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	history, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	if len(history) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("growth: %g, limit: %d\n", meta.GrowthFactor, meta.HardLimit)
	fmt.Printf("samples: %d\n\n", len(history))

	capSeries := make([]float64, len(history))
	sizeSeries := make([]float64, len(history))
	for i, s := range history {
		capSeries[i] = float64(s.Capacity)
		sizeSeries[i] = float64(s.Size)
	}

	plots := []struct {
		data    []float64
		caption string
	}{
		{capSeries, "capacity vs tick"},
		{sizeSeries, "size vs tick"},
		{analysis.EfficiencySeries(history), "efficiency vs tick"},
		{analysis.AmortizedSeries(history), "ops per append vs tick"},
	}

	for _, p := range plots {
		graph := asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	history, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		return fmt.Errorf("no data")
	}

	rep := analysis.Analyze(history)

	fmt.Printf("amortized analysis: %s\n", meta.ID)
	fmt.Printf("growth: %g, limit: %d\n\n", meta.GrowthFactor, meta.HardLimit)

	fmt.Printf("ticks: %d\n", rep.Ticks)
	fmt.Printf("appends: %d\n", rep.Appends)
	fmt.Printf("total ops: %d\n", rep.TotalOps)
	fmt.Printf("ops per append: %.3f (asymptote %.3f)\n",
		rep.OpsPerAppend, 1+1/(meta.GrowthFactor-1))
	fmt.Printf("efficiency mean/min/final: %.1f%% / %.1f%% / %.1f%%\n",
		rep.MeanEfficiency*100, rep.MinEfficiency*100, rep.FinalEfficiency*100)
	fmt.Printf("final capacity: %d\n", rep.FinalCapacity)
	if rep.LimitReachedTick > 0 {
		fmt.Printf("limit reached at tick %d\n", rep.LimitReachedTick)
	}

	if len(rep.Expansions) == 0 {
		return nil
	}

	fmt.Printf("\nexpansions (mean interval %.1f ticks):\n", rep.MeanInterval)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TICK\tFROM\tTO\tINTERVAL")
	for _, e := range rep.Expansions {
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\n", e.Tick, e.FromCapacity, e.ToCapacity, e.Interval)
	}
	return w.Flush()
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	history, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		return fmt.Errorf("no data to export")
	}

	return storage.WriteCSV(os.Stdout, history)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	history, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	return storage.WriteJSON(os.Stdout, *meta, history)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	history, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		return fmt.Errorf("no data to export")
	}

	svg := export.RunToSVG(history, gridWidth, gridHeight, cellPx)

	if outPath == "" {
		fmt.Print(svg)
		return nil
	}
	return os.WriteFile(outPath, []byte(svg), 0644)
}

func renderRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	history, err := st.LoadHistory(runID)
	if err != nil {
		return err
	}

	if len(history) == 0 {
		return fmt.Errorf("no data to render")
	}

	rec := capture.NewRecorder(outPath, delay)
	for _, s := range history {
		rec.Capture(s, gridWidth, gridHeight, cellPx)
	}
	if err := rec.Close(); err != nil {
		return err
	}

	fmt.Printf("wrote %d frames to %s\n", rec.Frames(), outPath)
	return nil
}

func sweepGrowth(cmd *cobra.Command, args []string) error {
	if sweepStep <= 0 {
		return fmt.Errorf("step must be positive, got %g", sweepStep)
	}
	if sweepFrom <= 1 {
		return fmt.Errorf("growth factors must be greater than 1, got %g", sweepFrom)
	}

	factors := make([]float64, 0)
	for g := sweepFrom; g <= sweepTo+1e-9; g += sweepStep {
		factors = append(factors, g)
	}
	if len(factors) == 0 {
		return fmt.Errorf("empty sweep range %g..%g", sweepFrom, sweepTo)
	}

	fmt.Printf("sweeping %d growth factors over %d ticks each\n\n", len(factors), ticks)

	points, err := analysis.SweepGrowth(context.Background(), factors, hardLimit, ticks)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "GROWTH\tRESIZES\tCAPACITY\tEFF_MEAN\tEFF_MIN\tOPS/APPEND")
	for _, p := range points {
		fmt.Fprintf(w, "%.3f\t%d\t%d\t%.1f%%\t%.1f%%\t%.3f\n",
			p.GrowthFactor, p.Resizes, p.FinalCapacity,
			p.MeanEfficiency*100, p.MinEfficiency*100, p.OpsPerAppend)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if best, ok := analysis.BestByOps(points); ok {
		fmt.Printf("\ncheapest: growth %.3f at %.3f ops per append\n", best.GrowthFactor, best.OpsPerAppend)
	}
	if best, ok := analysis.BestByEfficiency(points); ok {
		fmt.Printf("densest: growth %.3f at %.1f%% mean efficiency\n", best.GrowthFactor, best.MeanEfficiency*100)
	}

	return nil
}

func benchDriver(cmd *cobra.Command, args []string) error {
	tickCounts := []int{10_000, 100_000, 1_000_000}

	fmt.Printf("benchmarking driver at growth %g\n\n", growth)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TICKS\tTIME\tTICKS/SEC\tRESIZES")

	for _, n := range tickCounts {
		driver := sim.NewDriver(array.New(growth, 0))

		resizes := 0
		start := time.Now()
		err := driver.RunWithCallback(context.Background(), sim.Config{MaxTicks: n}, func(s sim.Snapshot) bool {
			resizes = s.Resizes
			return true
		})
		elapsed := time.Since(start)
		if err != nil {
			return err
		}

		fmt.Fprintf(w, "%d\t%v\t%.0f\t%d\n", n, elapsed, float64(n)/elapsed.Seconds(), resizes)
	}

	return w.Flush()
}
