package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/sim"
)

func TestExperimentRun(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Run.Duration = 0.5
	exp, err := New(cfg, "energy", "escapes")
	if err != nil {
		t.Fatal(err)
	}
	res, err := exp.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Metrics) != 2 {
		t.Errorf("expected 2 metrics, got %v", res.Metrics)
	}
	if res.Metrics["escapes"] != 0 {
		t.Errorf("balls escaped: %f", res.Metrics["escapes"])
	}
	if res.Stats.Frames != 30 {
		t.Errorf("expected 30 frames, got %d", res.Stats.Frames)
	}
}

func TestExperimentInvalid(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Substeps = 0
	if _, err := New(cfg); !errors.Is(err, sim.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := New(config.DefaultConfig(), "bogus"); err == nil {
		t.Error("expected error for unknown metric")
	}
}
