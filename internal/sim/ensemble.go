package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Ensemble runs the same configuration under consecutive seeds. Each run
// owns its own Simulation, so runs share nothing.
type Ensemble struct {
	cfg       Config
	numRuns   int
	seedStart int64
	metrics   func() []Metric
	limit     int
}

// NewEnsemble prepares numRuns runs seeded seedStart, seedStart+1, ...
// metrics, if non-nil, builds a fresh metric set per run.
func NewEnsemble(cfg Config, numRuns int, seedStart int64, metrics func() []Metric) *Ensemble {
	return &Ensemble{cfg: cfg, numRuns: numRuns, seedStart: seedStart, metrics: metrics}
}

// SetLimit bounds the number of runs in flight; zero or less is unbounded.
func (e *Ensemble) SetLimit(n int) { e.limit = n }

func (e *Ensemble) Run(ctx context.Context, rc RunConfig) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}

	for i := 0; i < e.numRuns; i++ {
		i := i
		g.Go(func() error {
			cfg := e.cfg
			cfg.Seed = e.seedStart + int64(i)

			s, err := New(cfg)
			if err != nil {
				return err
			}
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}
			res, err := s.Run(ctx, rc)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
