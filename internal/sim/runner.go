package sim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/Fuatnow/planets-3d/internal/dynamo"
	"github.com/Fuatnow/planets-3d/internal/universe"
	"github.com/charmbracelet/log"
)

// Runner drives a universe without a display, one fixed frame delay at a
// time.
type Runner struct {
	metrics   []Metric
	observers []Observer
	logger    *log.Logger
}

func NewRunner() *Runner {
	return &Runner{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    log.Default(),
	}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) SetLogger(l *log.Logger) {
	if l != nil {
		r.logger = l
	}
}

func (r *Runner) Run(ctx context.Context, u *universe.Universe, cfg Config) (*Result, error) {
	if err := r.validateConfig(u, cfg); err != nil {
		return nil, err
	}
	every := cfg.SampleEvery
	if every <= 0 {
		every = 1
	}

	result := &Result{
		Times:     make([]float64, 0, cfg.Frames/every+1),
		Snapshots: make([]Snapshot, 0, cfg.Frames/every+1),
		Metrics:   make(map[string]float64),
		Errors:    make([]error, 0),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	result.Snapshots = append(result.Snapshots, Capture(u))
	result.Times = append(result.Times, u.Time())
	initialEnergy := u.Energy()

	for i := 0; i < cfg.Frames; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if err := u.Advance(cfg.FrameDelay); err != nil {
			result.Errors = append(result.Errors, err)
			r.logger.Warn("advance failed", "frame", i, "err", err)
			if cfg.StopOnError && errors.Is(err, dynamo.ErrUnstable) {
				break
			}
		}
		result.Frames++

		for _, m := range r.metrics {
			m.Observe(u, u.Time())
		}
		for _, obs := range r.observers {
			obs.OnFrame(u, i)
		}

		if result.Frames%every == 0 {
			result.Snapshots = append(result.Snapshots, Capture(u))
			result.Times = append(result.Times, u.Time())
		}
	}

	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(u.Energy()-initialEnergy) / math.Abs(initialEnergy)
	}
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	r.logger.Debug("run finished", "frames", result.Frames, "time", u.Time(), "drift", result.EnergyDrift)
	return result, nil
}

func (r *Runner) validateConfig(u *universe.Universe, cfg Config) error {
	if cfg.FrameDelay <= 0 {
		return fmt.Errorf("frame delay must be positive, got %d", cfg.FrameDelay)
	}
	if cfg.Frames <= 0 {
		return fmt.Errorf("frames must be positive, got %d", cfg.Frames)
	}
	if !(u.Speed > 0) {
		return fmt.Errorf("universe is paused")
	}
	if u.IsEmpty() {
		return fmt.Errorf("universe has no bodies")
	}
	return nil
}
