// Package optim searches configuration parameters for the values that
// minimize a run metric.
package optim

import (
	"context"
	"math"

	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/experiment"
)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search runs one experiment per grid point on a copy of base and returns
// the parameters with the lowest value of metricName. Points whose config
// is invalid are skipped; the first such error is returned if no point ran.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, metricName string) (map[string]float64, float64, error) {
	best := math.Inf(1)
	var bestParams map[string]float64
	var firstErr error

	var visit func(depth int, current map[string]float64) error
	visit = func(depth int, current map[string]float64) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if depth == len(g.paramNames) {
			val, err := g.evaluate(ctx, base, current, metricName)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return nil
			}
			if val < best {
				best = val
				bestParams = make(map[string]float64, len(current))
				for k, v := range current {
					bestParams[k] = v
				}
			}
			return nil
		}
		for _, val := range g.ranges[depth] {
			current[g.paramNames[depth]] = val
			if err := visit(depth+1, current); err != nil {
				return err
			}
		}
		return nil
	}

	if err := visit(0, make(map[string]float64)); err != nil {
		return bestParams, best, err
	}
	if bestParams == nil && firstErr != nil {
		return nil, best, firstErr
	}
	return bestParams, best, nil
}

func (g *GridSearch) evaluate(ctx context.Context, base *config.Config, params map[string]float64, metricName string) (float64, error) {
	cfg := base.Clone()
	for k, v := range params {
		if err := cfg.SetParam(k, v); err != nil {
			return 0, err
		}
	}
	exp, err := experiment.New(cfg, metricName)
	if err != nil {
		return 0, err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return 0, err
	}
	return result.Metrics[metricName], nil
}
