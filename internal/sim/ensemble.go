package sim

import (
	"context"
	"sync"

	"github.com/Fuatnow/planets-3d/internal/universe"
)

// Ensemble runs independent universes built from consecutive seeds in
// parallel. Every run gets fresh metrics from the Metrics factory since
// metrics carry state.
type Ensemble struct {
	Build     func(seed uint64) (*universe.Universe, error)
	Metrics   func() []Metric
	Runs      int
	SeedStart uint64
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.Runs)
	errs := make([]error, e.Runs)

	var wg sync.WaitGroup
	for i := 0; i < e.Runs; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			u, err := e.Build(e.SeedStart + uint64(idx))
			if err != nil {
				errs[idx] = err
				return
			}

			r := NewRunner()
			if e.Metrics != nil {
				for _, m := range e.Metrics() {
					r.AddMetric(m)
				}
			}
			results[idx], errs[idx] = r.Run(ctx, u, cfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
