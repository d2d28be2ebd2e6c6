// Package experiment builds a Simulation and its metrics from a file
// configuration and runs it headless.
package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/metrics"
	"github.com/san-kum/ballsim/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	simulator *sim.Simulation
	metrics   []sim.Metric
}

// New resolves cfg, builds the simulation and attaches the named metrics,
// or all of them when none are named.
func New(cfg *config.Config, metricNames ...string) (*Experiment, error) {
	sc, err := cfg.ToSim()
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", cfg.Name, err)
	}
	s, err := sim.New(sc)
	if err != nil {
		return nil, err
	}
	ms, err := metrics.New(sc, metricNames...)
	if err != nil {
		return nil, err
	}
	for _, m := range ms {
		s.AddMetric(m)
	}
	return &Experiment{cfg: cfg, simulator: s, metrics: ms}, nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	return e.simulator.Run(ctx, sim.RunConfig{
		Dt:       e.cfg.Run.Dt,
		Duration: e.cfg.Run.Duration,
		Every:    e.cfg.Run.Every,
	})
}

// Simulation returns the underlying simulation for adding observers.
func (e *Experiment) Simulation() *sim.Simulation {
	return e.simulator
}

func (e *Experiment) Config() *config.Config { return e.cfg }
