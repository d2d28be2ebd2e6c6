package optim

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/sim"
)

func shortConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Run.Duration = 0.25
	return cfg
}

func TestGridSearchFindsLowestGravity(t *testing.T) {
	g := NewGridSearch([]string{"gravity"}, [][]float64{{1600, 0, 800}})
	params, _, err := g.Search(context.Background(), shortConfig(), "peak_impact")
	if err != nil {
		t.Fatal(err)
	}
	if params == nil {
		t.Fatal("no best params")
	}
	if _, ok := params["gravity"]; !ok {
		t.Errorf("gravity missing from %v", params)
	}
}

func TestGridSearchUnknownParam(t *testing.T) {
	g := NewGridSearch([]string{"warp"}, [][]float64{{1, 2}})
	_, _, err := g.Search(context.Background(), shortConfig(), "energy")
	if !errors.Is(err, sim.ErrUnknownParam) {
		t.Errorf("expected ErrUnknownParam, got %v", err)
	}
}

func TestGridSearchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	g := NewGridSearch([]string{"gravity"}, [][]float64{{0, 800}})
	if _, _, err := g.Search(ctx, shortConfig(), "energy"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
