package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Fuatnow/planets-3d/internal/config"
	"github.com/Fuatnow/planets-3d/internal/scenario"
	"github.com/Fuatnow/planets-3d/internal/universe"
	"github.com/Fuatnow/planets-3d/internal/viz"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	configFile string
	logLevel   string
	logFile    string
	preset     string
	themeName  string

	// Simulation overrides
	seed          uint64
	speed         float64
	integrator    string
	solver        string
	stepSize      float64
	trailLength   int
	trailDistance float64

	// Headless runs
	frames      int
	frameDelay  int64
	sampleEvery int
	radius      float64
	noSave      bool
	runs        int

	// Analysis
	bodyIndex int
	refIndex  int

	// Output
	outFile string
	width   int
	height  int

	// Generation
	count   int
	orbital bool
	sunMass float64

	// Server
	addr      string
	frameRate float64
	trails    bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "planets",
		Short:         "interactive 3D gravity simulator",
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runView,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".planets", "data directory")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
	pf.StringVar(&preset, "preset", "", "use preset configuration")
	pf.StringVar(&themeName, "theme", viz.CurrentTheme.Name, "color theme ("+strings.Join(viz.ThemeNames(), ", ")+")")

	viewCmd := &cobra.Command{
		Use:   "view [scenario]",
		Short: "open the terminal viewer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runView,
	}

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "run a headless simulation and save it",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	runCmd.Flags().IntVar(&frames, "frames", 600, "number of frames")
	runCmd.Flags().Int64Var(&frameDelay, "delay", 16_667, "wall-clock microseconds per frame")
	runCmd.Flags().IntVar(&sampleEvery, "sample", 10, "record every n-th frame")
	runCmd.Flags().Float64Var(&radius, "radius", 1000, "stability radius around the centre of mass")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	runCmd.Flags().IntVar(&runs, "runs", 1, "independent runs from consecutive seeds, in parallel")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot energy and body count of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "orbital analysis of one body around another",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&bodyIndex, "body", 1, "index of the orbiting body")
	analyzeCmd.Flags().IntVar(&refIndex, "ref", 0, "index of the reference body")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run positions to CSV, one column per body axis",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "draw the recorded paths of a run, seen from above",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	addOutputFlags(exportSVGCmd)

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [scenario]",
		Short: "render a scenario through the camera to SVG",
		Args:  cobra.MaximumNArgs(1),
		RunE:  snapshot,
	}
	snapshotCmd.Flags().IntVar(&frames, "frames", 300, "frames to simulate first")
	snapshotCmd.Flags().Int64Var(&frameDelay, "delay", 16_667, "wall-clock microseconds per frame")
	addOutputFlags(snapshotCmd)

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list configuration and scenario presets",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println("configuration presets:")
			for _, p := range config.ListPresets() {
				fmt.Printf("  %s\n", p)
			}
			fmt.Println("scenarios:")
			for _, p := range scenario.PresetNames() {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "write a random scenario document",
		RunE:  generate,
	}
	generateCmd.Flags().IntVar(&count, "count", 10, "number of random bodies")
	generateCmd.Flags().BoolVar(&orbital, "orbital", false, "put bodies on circular orbits around a central sun")
	generateCmd.Flags().Float64Var(&sunMass, "sun", 1e6, "mass of the central sun (with --orbital)")
	generateCmd.Flags().StringVarP(&outFile, "out", "o", "", "output file (.yaml or .xml), stdout when empty")

	serveCmd := &cobra.Command{
		Use:   "serve [scenario]",
		Short: "stream the simulation over websocket",
		Args:  cobra.MaximumNArgs(1),
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	serveCmd.Flags().Float64Var(&frameRate, "fps", 30, "frames per second sent to each client")
	serveCmd.Flags().BoolVar(&trails, "trails", false, "include trails in frames")

	benchCmd := &cobra.Command{
		Use:   "bench [scenario]",
		Short: "benchmark integrators and force solvers",
		Args:  cobra.MaximumNArgs(1),
		RunE:  bench,
	}
	benchCmd.Flags().IntVar(&frames, "frames", 200, "frames per measurement")
	benchCmd.Flags().Int64Var(&frameDelay, "delay", 16_667, "wall-clock microseconds per frame")

	for _, c := range []*cobra.Command{rootCmd, viewCmd, runCmd, snapshotCmd, serveCmd, benchCmd} {
		addSimFlags(c)
	}
	rootCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the viewer runs")
	viewCmd.Flags().StringVar(&logFile, "log-file", "", "write logs to this file while the viewer runs")

	rootCmd.AddCommand(viewCmd, runCmd, listCmd, plotCmd, analyzeCmd, exportJSONCmd, exportCSVCmd, exportSVGCmd,
		snapshotCmd, presetsCmd, generateCmd, serveCmd, benchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Uint64Var(&seed, "seed", config.DefaultSeed, "random seed")
	f.Float64Var(&speed, "speed", config.DefaultSpeed, "speed dial")
	f.StringVar(&integrator, "integrator", "", "integrator")
	f.StringVar(&solver, "solver", "", "force solver (direct, barneshut)")
	f.Float64Var(&stepSize, "step", universe.DefaultStepSize, "largest simulated substep")
	f.IntVar(&trailLength, "trail-length", universe.DefaultTrailLength, "samples kept per trail")
	f.Float64Var(&trailDistance, "trail-distance", universe.DefaultTrailDistance, "minimum travel between trail samples")
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&outFile, "out", "o", "", "output file, stdout when empty")
	cmd.Flags().IntVar(&width, "width", 800, "image width")
	cmd.Flags().IntVar(&height, "height", 600, "image height")
}

// loadConfig layers the preset, the config file and explicitly set flags,
// in that order.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOnto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("speed") {
		cfg.Speed = speed
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("solver") {
		cfg.Solver = solver
	}
	if flags.Changed("step") {
		cfg.StepSize = stepSize
	}
	if flags.Changed("trail-length") {
		cfg.TrailLength = trailLength
	}
	if flags.Changed("trail-distance") {
		cfg.TrailDistance = trailDistance
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "planets",
	})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	logger.SetLevel(level)
	return logger
}

// buildUniverse applies cfg to a new universe and loads the scenario named
// by args, the config, or the default preset. A name with a scenario file
// extension is read from disk.
func buildUniverse(cfg *config.Config, args []string) (*universe.Universe, string, error) {
	u := universe.New(cfg.Seed)
	if err := cfg.Apply(u); err != nil {
		return nil, "", err
	}

	name := cfg.Scenario
	if len(args) > 0 {
		name = args[0]
	}
	if name == "" {
		name = config.DefaultScenario
	}

	if _, err := scenario.FormatFromPath(name); err == nil {
		if _, err := scenario.LoadFile(u, name); err != nil {
			return nil, "", err
		}
		return u, strings.TrimSuffix(filepath.Base(name), filepath.Ext(name)), nil
	}

	doc, err := scenario.Preset(name)
	if err != nil {
		return nil, "", fmt.Errorf("%w (available: %v)", err, scenario.PresetNames())
	}
	if _, err := scenario.Load(u, doc); err != nil {
		return nil, "", err
	}
	return u, name, nil
}

func theme() (viz.Theme, error) {
	t, ok := viz.GetTheme(themeName)
	if !ok {
		return viz.Theme{}, fmt.Errorf("unknown theme: %s (available: %v)", themeName, viz.ThemeNames())
	}
	return t, nil
}

// output opens outFile, or stdout when it is empty.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
