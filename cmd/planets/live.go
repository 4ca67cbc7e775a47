package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/Fuatnow/planets-3d/internal/camera"
	"github.com/Fuatnow/planets-3d/internal/export"
	"github.com/Fuatnow/planets-3d/internal/integrators"
	"github.com/Fuatnow/planets-3d/internal/interaction"
	"github.com/Fuatnow/planets-3d/internal/physics"
	"github.com/Fuatnow/planets-3d/internal/scenario"
	"github.com/Fuatnow/planets-3d/internal/server"
	"github.com/Fuatnow/planets-3d/internal/sim"
	"github.com/Fuatnow/planets-3d/internal/universe"
	"github.com/Fuatnow/planets-3d/internal/viz"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/spf13/cobra"
)

// snapshotScale is the SVG size of one braille dot.
const snapshotScale = 2

func runView(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The terminal belongs to the viewer, so logs go to a file or nowhere.
	var logOut io.Writer = io.Discard
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(cfg, logOut)

	th, err := theme()
	if err != nil {
		return err
	}
	u, name, err := buildUniverse(cfg, args)
	if err != nil {
		return err
	}
	cam := camera.New(u)
	cfg.ApplyCamera(cam)
	ctl := interaction.New(u, cam)
	cfg.ApplyController(ctl)

	logger.Info("viewer started", "scenario", name, "bodies", u.Size(), "integrator", cfg.Integrator)

	m := viz.NewModel(ctl, sim.NewClock(cfg.MaxFrameDelay()), name).WithTheme(th)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	if _, err := p.Run(); err != nil {
		return err
	}

	logger.Info("viewer closed", "bodies", u.Size(), "time", u.Time())
	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)

	th, err := theme()
	if err != nil {
		return err
	}
	u, name, err := buildUniverse(cfg, args)
	if err != nil {
		return err
	}

	opts := server.DefaultOptions()
	opts.Theme = th
	opts.FrameRate = frameRate
	opts.Trails = trails
	opts.MaxDelay = cfg.MaxFrameDelay()
	opts.Random = server.RandomDefaults{
		Count: cfg.Random.Count,
		Range: cfg.Random.Range,
		Speed: cfg.Random.Speed,
		Mass:  cfg.Random.Mass,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("serving", "scenario", name, "bodies", u.Size())
	return server.New(u, opts, logger).ListenAndServe(ctx, addr)
}

func snapshot(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger := newLogger(cfg, os.Stderr)
	th, err := theme()
	if err != nil {
		return err
	}

	u, _, err := buildUniverse(cfg, args)
	if err != nil {
		return err
	}
	for i := 0; i < frames; i++ {
		if err := u.Advance(frameDelay); err != nil {
			logger.Warn("advance failed", "frame", i, "err", err)
			break
		}
	}

	canvas := viz.NewCanvas(max(width/(2*snapshotScale), 1), max(height/(4*snapshotScale), 1))
	cam := camera.New(u)
	cfg.ApplyCamera(cam)
	cam.ResizeViewport(canvas.SubSize())
	cam.Setup()
	viz.Scene{Universe: u, Camera: cam, Theme: th}.Draw(canvas)

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	_, err = fmt.Fprint(w, export.CanvasToSVG(canvas, snapshotScale))
	return err
}

func generate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	u := universe.New(cfg.Seed)
	if err := cfg.Apply(u); err != nil {
		return err
	}

	if orbital {
		sun, err := u.AddPlanet(mgl64.Vec3{}, mgl64.Vec3{}, sunMass)
		if err != nil {
			return err
		}
		if _, err := u.GenerateRandomOrbital(count, sun); err != nil {
			return err
		}
	} else {
		r := cfg.Random
		u.GenerateRandom(count, r.Range, r.Speed*u.VelocityFactor, r.Mass)
	}

	doc := scenario.Snapshot(u)
	if outFile != "" {
		if err := scenario.WriteFile(outFile, doc); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %d bodies to %s\n", len(doc.Planets), outFile)
		return nil
	}
	return scenario.Encode(os.Stdout, doc, scenario.FormatYAML)
}

func bench(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %d frames of %dus\n\n", frames, frameDelay)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEG\tSOLVER\tBODIES\tTIME\tFRAMES/SEC\tDRIFT")

	for _, integ := range integrators.Names() {
		for _, solv := range []physics.Solver{physics.SolverDirect, physics.SolverBarnesHut} {
			c := *cfg
			c.Integrator = integ
			c.Solver = string(solv)
			u, _, err := buildUniverse(&c, args)
			if err != nil {
				return err
			}

			e0 := u.Energy()
			start := time.Now()
			n := 0
			for ; n < frames; n++ {
				if err := u.Advance(frameDelay); err != nil {
					break
				}
			}
			elapsed := time.Since(start)

			drift := math.NaN()
			if e0 != 0 {
				drift = math.Abs(u.Energy()-e0) / math.Abs(e0)
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%v\t%.0f\t%.2e\n",
				integ, solv, u.Size(), elapsed.Round(time.Microsecond), float64(n)/elapsed.Seconds(), drift)
		}
	}

	return w.Flush()
}
