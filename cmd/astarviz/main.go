package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/astarviz/internal/config"
	"github.com/san-kum/astarviz/internal/export"
	"github.com/san-kum/astarviz/internal/maze"
	"github.com/san-kum/astarviz/internal/sink"
	"github.com/san-kum/astarviz/internal/solver"
	"github.com/san-kum/astarviz/internal/storage"
	"github.com/san-kum/astarviz/internal/trace"
	"github.com/san-kum/astarviz/internal/viz"
)

var (
	dataDir string
	debug   bool
	logger  *log.Logger

	configFile string
	preset     string
	threads    int
	runs       int
	algo       string
	speed      float64
	output     string
	frameRate  int
	retries    int
	perSecond  float64
	// Simulated time for export-svg; negative means the end of the render.
	at float64
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "astarviz",
		Short:         "side-by-side A* search animations from solver traces",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logger = log.NewWithOptions(os.Stderr, log.Options{
				ReportTimestamp: true,
				TimeFormat:      time.Kitchen,
				Prefix:          "astarviz",
			})
			if debug {
				logger.SetLevel(log.DebugLevel)
			}
			log.SetDefault(logger)
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug messages")

	renderCmd := &cobra.Command{
		Use:   "render [problem] [instance]",
		Short: "run the solvers and render their traces",
		Args:  cobra.ExactArgs(2),
		RunE:  renderRun,
	}
	addConfigFlags(renderCmd)
	addRenderFlags(renderCmd)
	renderCmd.Flags().IntVarP(&threads, "threads", "t", config.DefaultThreads, "number of workers for parallel solvers")
	renderCmd.Flags().IntVarP(&runs, "runs", "r", config.DefaultRuns, "successful executions per algorithm")
	renderCmd.Flags().StringVarP(&algo, "algo", "a", config.DefaultAlgo, "algorithm: seq, par-ex, par-p or all")
	renderCmd.Flags().IntVar(&retries, "retries", config.DefaultMaxFailures, "failed executions tolerated per algorithm (0 retries forever)")
	renderCmd.Flags().Float64Var(&perSecond, "rate", 0, "max solver executions per second (0 unlimited)")

	replayCmd := &cobra.Command{
		Use:   "replay [run_id]",
		Short: "render a stored run again",
		Args:  cobra.ExactArgs(1),
		RunE:  replayRun,
	}
	addConfigFlags(replayCmd)
	addRenderFlags(replayCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	previewCmd := &cobra.Command{
		Use:   "preview [run_id]",
		Short: "play a stored run in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  previewRun,
	}
	addConfigFlags(previewCmd)
	previewCmd.Flags().Float64VarP(&speed, "speed", "s", 1.0, "playback speed")
	previewCmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot markers drawn per frame",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	addConfigFlags(plotCmd)
	plotCmd.Flags().Float64VarP(&speed, "speed", "s", 1.0, "playback speed")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export trace events to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	addConfigFlags(exportCSVCmd)
	exportCSVCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	exportCSVCmd.Flags().Float64VarP(&speed, "speed", "s", 1.0, "playback speed")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and traces to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export lane state at a point in time as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	addConfigFlags(exportSVGCmd)
	exportSVGCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().Float64VarP(&speed, "speed", "s", 1.0, "playback speed")
	exportSVGCmd.Flags().Float64Var(&at, "at", -1, "simulated time in seconds (default: end)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tALGO\tRUNS\tFPS\tCELL\tSPEED")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%.2f\n",
					name, p.Algo, p.Runs, p.Render.FrameRate, p.Render.CellPixelSize, p.Render.PlaybackSpeed)
			}
			return w.Flush()
		},
	}

	rootCmd.AddCommand(renderCmd, replayCmd, listCmd, previewCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		if logger == nil {
			logger = log.Default()
		}
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func addRenderFlags(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&speed, "speed", "s", 1.0, "playback speed")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default reports/<problem>-<instance>.mp4; .gif or a directory also work)")
	cmd.Flags().IntVar(&frameRate, "fps", 30, "frame rate")
}

// resolveConfig layers defaults, preset, config file and the flags the user
// actually set, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("threads") {
		cfg.Threads = threads
	}
	if flags.Changed("runs") {
		cfg.Runs = runs
	}
	if flags.Changed("algo") {
		cfg.Algo = algo
	}
	if flags.Changed("speed") {
		cfg.Render.PlaybackSpeed = speed
	}
	if flags.Changed("output") {
		cfg.Output = output
	}
	if flags.Changed("fps") {
		cfg.Render.FrameRate = frameRate
	}
	if flags.Changed("retries") {
		cfg.Retry.MaxFailures = retries
	}
	if flags.Changed("rate") {
		cfg.Retry.PerSecond = perSecond
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

func renderRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	cfg.Problem, cfg.Instance = args[0], args[1]

	mazePath := maze.InstancePath(cfg.Instance)
	m, err := maze.Load(mazePath)
	if err != nil {
		return err
	}

	algos, err := solver.ParseSelection(cfg.Algo)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	runner := solver.NewRunner(cfg.Runs, cfg.RetryPolicy())
	runner.Logger = logger

	logger.Info("measuring", "problem", cfg.Problem, "instance", cfg.Instance, "algo", cfg.Algo, "runs", cfg.Runs)
	start := time.Now()
	set, err := runner.Collect(ctx, cfg.Problem, cfg.Instance, algos, cfg.Threads)
	if err != nil {
		return err
	}
	logger.Info("measured", "elapsed", time.Since(start).Round(time.Millisecond))

	st := storage.New(cfg.DataDir)
	runID, err := st.Save(storage.RunMetadata{
		Problem:  cfg.Problem,
		Instance: cfg.Instance,
		MazePath: mazePath,
		Runs:     cfg.Runs,
		Threads:  cfg.Threads,
	}, set)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)

	res, err := renderToFile(ctx, cfg, m, set, cfg.OutputPath())
	if err != nil {
		return err
	}
	fmt.Println(viz.Summary(res))
	fmt.Printf("written to %s\n", cfg.OutputPath())
	return nil
}

// loadRun reads a stored run and its maze.
func loadRun(cfg *config.Config, runID string) (*storage.RunMetadata, *maze.Maze, trace.Set, error) {
	st := storage.New(cfg.DataDir)
	meta, set, err := st.LoadTraces(runID)
	if err != nil {
		return nil, nil, set, err
	}

	mazePath := meta.MazePath
	if mazePath == "" {
		mazePath = maze.InstancePath(meta.Instance)
	}
	m, err := maze.Load(mazePath)
	if err != nil {
		return nil, nil, set, err
	}
	return meta, m, set, nil
}

func replayRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	meta, m, set, err := loadRun(cfg, args[0])
	if err != nil {
		return err
	}
	cfg.Problem, cfg.Instance = meta.Problem, meta.Instance

	ctx, cancel := signalContext()
	defer cancel()

	res, err := renderToFile(ctx, cfg, m, set, cfg.OutputPath())
	if err != nil {
		return err
	}
	fmt.Println(viz.Summary(res))
	fmt.Printf("written to %s\n", cfg.OutputPath())
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
	fmt.Fprintln(w, "ID\tPROBLEM\tINSTANCE\tTIME\tALGOS\tRUNS\tTHREADS")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%v\t%d\t%d\n",
			run.ID,
			run.Problem,
			run.Instance,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Algorithms,
			run.Runs,
			run.Threads,
		)
	}

	return w.Flush()
}

func previewRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	meta, m, set, err := loadRun(cfg, args[0])
	if err != nil {
		return err
	}

	r, err := newRenderer(cfg, m, set)
	if err != nil {
		return err
	}

	p := tea.NewProgram(viz.NewPreview(r, meta.Problem+" "+meta.Instance))
	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	_, m, set, err := loadRun(cfg, args[0])
	if err != nil {
		return err
	}

	r, err := newRenderer(cfg, m, set)
	if err != nil {
		return err
	}
	rec := viz.NewProgressRecorder()
	r.AddObserver(rec)

	ctx, cancel := signalContext()
	defer cancel()
	if _, err := r.Run(ctx, &sink.Discard{}); err != nil {
		return err
	}

	graph := viz.Plot(rec, 80, 15)
	if graph == "" {
		fmt.Println("not enough frames to plot")
		return nil
	}
	fmt.Println(graph)
	return nil
}

// outputWriter opens path, or stdout when path is empty.
func outputWriter(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportCSV(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	st := storage.New(cfg.DataDir)
	_, set, err := st.LoadTraces(args[0])
	if err != nil {
		return err
	}

	w, err := outputWriter(output)
	if err != nil {
		return err
	}
	if err := storage.ExportCSV(w, set, cfg.RenderParams().Modifier()); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	if output != "" {
		fmt.Printf("exported to %s\n", output)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, set, err := st.LoadTraces(args[0])
	if err != nil {
		return err
	}

	w, err := outputWriter(output)
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(w, meta, set); err != nil {
		w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	if output != "" {
		fmt.Printf("exported to %s\n", output)
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	_, m, set, err := loadRun(cfg, args[0])
	if err != nil {
		return err
	}

	r, err := newRenderer(cfg, m, set)
	if err != nil {
		return err
	}
	t := at
	if t < 0 {
		t = r.Duration()
	}
	if err := r.Step(t); err != nil {
		return err
	}

	path := output
	if path == "" {
		path = args[0] + ".svg"
	}
	params := cfg.RenderParams()
	svg := export.LanesToSVG(m, r.Lanes(), params.CellSize, params.Spacing)
	if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", path)
	return nil
}
