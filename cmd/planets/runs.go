package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/Fuatnow/planets-3d/internal/analysis"
	"github.com/Fuatnow/planets-3d/internal/config"
	"github.com/Fuatnow/planets-3d/internal/dynamo"
	"github.com/Fuatnow/planets-3d/internal/export"
	"github.com/Fuatnow/planets-3d/internal/handles"
	"github.com/Fuatnow/planets-3d/internal/metrics"
	"github.com/Fuatnow/planets-3d/internal/physics"
	"github.com/Fuatnow/planets-3d/internal/sim"
	"github.com/Fuatnow/planets-3d/internal/storage"
	"github.com/Fuatnow/planets-3d/internal/universe"
	"github.com/Fuatnow/planets-3d/internal/viz"
	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
)

// progress logs every tenth of a run.
type progress struct {
	logger *log.Logger
	every  int
}

func (p *progress) OnFrame(u *universe.Universe, frame int) {
	if p.every > 0 && (frame+1)%p.every == 0 {
		p.logger.Debug("progress", "frame", frame+1, "time", u.Time(), "bodies", u.Size())
	}
}

func runMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewEnergyDrift(),
		metrics.NewMomentumDrift(),
		metrics.NewBodyCount(),
		metrics.NewTrailSamples(),
		metrics.NewStability(radius),
	}
}

func runConfig() sim.Config {
	return sim.Config{
		FrameDelay:  frameDelay,
		Frames:      frames,
		SampleEvery: sampleEvery,
		StopOnError: true,
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if runs > 1 {
		return runEnsemble(ctx, cfg, args)
	}

	u, name, err := buildUniverse(cfg, args)
	if err != nil {
		return err
	}

	runner := sim.NewRunner()
	runner.SetLogger(logger)
	for _, m := range runMetrics() {
		runner.AddMetric(m)
	}
	runner.AddObserver(&progress{logger: logger, every: frames / 10})

	fmt.Printf("running %s with %d bodies...\n", name, u.Size())
	start := time.Now()
	result, err := runner.Run(ctx, u, runConfig())
	if err != nil && result == nil {
		return err
	}
	if err != nil {
		logger.Warn("run interrupted", "err", err)
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("frames: %d\n", result.Frames)
	fmt.Printf("simulated time: %.2f\n", u.Time())
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}

	names := make([]string, 0, len(result.Metrics))
	for n := range result.Metrics {
		names = append(names, n)
	}
	sort.Strings(names)
	fmt.Println("metrics:")
	for _, n := range names {
		fmt.Printf("  %s: %.6g\n", n, result.Metrics[n])
	}

	if noSave {
		return nil
	}
	runID, err := saveRun(cfg, name, cfg.Seed, result)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func saveRun(cfg *config.Config, name string, seed uint64, result *sim.Result) (string, error) {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return "", err
	}
	return st.Save(storage.RunMetadata{
		Scenario:   name,
		Seed:       seed,
		FrameDelay: frameDelay,
		Integrator: cfg.Integrator,
		Solver:     cfg.Solver,
	}, result)
}

// runEnsemble repeats the scenario with seeds cfg.Seed, cfg.Seed+1, ...
// Only randomly generated scenarios differ between seeds.
func runEnsemble(ctx context.Context, cfg *config.Config, args []string) error {
	_, name, err := buildUniverse(cfg, args)
	if err != nil {
		return err
	}
	ens := &sim.Ensemble{
		Runs:      runs,
		SeedStart: cfg.Seed,
		Metrics:   runMetrics,
		Build: func(seed uint64) (*universe.Universe, error) {
			c := *cfg
			c.Seed = seed
			u, _, err := buildUniverse(&c, args)
			return u, err
		},
	}

	fmt.Printf("running %d seeds...\n", runs)
	start := time.Now()
	results, err := ens.Run(ctx, runConfig())
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SEED\tFRAMES\tDRIFT\tSTABILITY\tRUN")
	for i, res := range results {
		seed := cfg.Seed + uint64(i)
		runID := "-"
		if !noSave {
			if runID, err = saveRun(cfg, name, seed, res); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%d\t%d\t%.3e\t%.3g\t%s\n", seed, res.Frames, res.EnergyDrift, res.Metrics["stability"], runID)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	stored, err := st.List()
	if err != nil {
		return err
	}

	if len(stored) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSCENARIO\tTIME\tFRAMES\tBODIES\tINTEG\tSOLVER\tDRIFT")

	for _, run := range stored {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%.2e\n",
			run.ID,
			run.Scenario,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Frames,
			run.Bodies,
			run.Integrator,
			run.Solver,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

// loadRun reads the metadata and samples of a stored run.
func loadRun(runID string) (*storage.RunMetadata, []storage.Sample, error) {
	st := storage.New(dataDir)
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

// frameEnergy is the total energy of one recorded frame.
func frameEnergy(f storage.Frame) float64 {
	n := len(f.Samples)
	masses := make([]float64, n)
	x := dynamo.NewState(n)
	for i, smp := range f.Samples {
		masses[i] = smp.Mass
		copy(x[i*3:], smp.Position[:])
		copy(x[n*3+i*3:], smp.Velocity[:])
	}
	e, err := dynamo.Energy(physics.NewGravity(masses), x)
	if err != nil {
		return math.NaN()
	}
	return e
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	fs := storage.Frames(samples)
	energy := make([]float64, len(fs))
	bodies := make([]float64, len(fs))
	for i, f := range fs {
		energy[i] = frameEnergy(f)
		bodies[i] = float64(len(f.Samples))
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("scenario: %s\n", meta.Scenario)
	fmt.Printf("samples: %d\n\n", len(fs))

	for _, p := range []struct {
		data    []float64
		caption string
	}{
		{energy, "total energy"},
		{bodies, "bodies"},
	} {
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

// bodyPath returns the times and positions of the index-th body of a run,
// counting in order of first appearance.
func bodyPath(keys []handles.Key, tracks map[handles.Key][]storage.Sample, index int) ([]float64, []mgl64.Vec3, error) {
	if index < 0 || index >= len(keys) {
		return nil, nil, fmt.Errorf("body index %d out of range [0, %d)", index, len(keys))
	}
	track := tracks[keys[index]]
	times := make([]float64, len(track))
	path := make([]mgl64.Vec3, len(track))
	for i, smp := range track {
		times[i] = smp.Time
		path[i] = smp.Position
	}
	return times, path, nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	keys, tracks := storage.Tracks(samples)
	times, path, err := bodyPath(keys, tracks, bodyIndex)
	if err != nil {
		return err
	}
	_, ref, err := bodyPath(keys, tracks, refIndex)
	if err != nil {
		return err
	}
	if len(ref) != len(path) {
		return fmt.Errorf("bodies %d and %d were not recorded over the same frames", bodyIndex, refIndex)
	}
	if len(times) < 2 {
		return fmt.Errorf("not enough samples")
	}

	rel := make([]mgl64.Vec3, len(path))
	for i := range path {
		rel[i] = path[i].Sub(ref[i])
	}
	dist := analysis.Distances(path, ref)

	fmt.Printf("orbit analysis: %s\n", meta.ID)
	fmt.Printf("body %s around %s\n\n", keys[bodyIndex], keys[refIndex])

	graph := asciigraph.Plot(dist,
		asciigraph.Height(15),
		asciigraph.Width(80),
		asciigraph.Caption("separation"),
	)
	fmt.Println(graph)
	fmt.Println()
	fmt.Println(analysis.PlotXY(rel, 60, 20))
	fmt.Println()

	peri, apo := analysis.Apsides(times, dist)
	fmt.Printf("eccentricity: %.4f\n", analysis.Eccentricity(dist))
	fmt.Printf("periapses: %d, apoapses: %d\n", len(peri), len(apo))

	dt := times[1] - times[0]
	period, err := analysis.OrbitalPeriod(dist, dt)
	if err != nil {
		fmt.Printf("period: %v\n", err)
		return nil
	}
	fmt.Printf("period: %.3f\n", period)
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, meta, samples)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}
	return storage.ExportCSV(os.Stdout, samples)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	th, err := theme()
	if err != nil {
		return err
	}
	_, samples, err := loadRun(args[0])
	if err != nil {
		return err
	}

	keys, tracks := storage.Tracks(samples)
	out := make([]export.Track, 0, len(keys))
	for _, k := range keys {
		track := tracks[k]
		t := export.Track{
			Points: make([]mgl64.Vec3, len(track)),
			Color:  viz.BodyColor(th, track[len(track)-1].Mass),
			Radius: physics.RadiusFromMass(track[len(track)-1].Mass),
		}
		for i, smp := range track {
			t.Points[i] = smp.Position
		}
		out = append(out, t)
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	_, err = fmt.Fprint(w, export.TracksToSVG(out, width, height))
	return err
}
