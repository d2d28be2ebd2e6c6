package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/ballsim/internal/sim"
)

var constructors = map[string]func(cfg sim.Config) sim.Metric{
	"energy":           func(sim.Config) sim.Metric { return NewEnergy() },
	"energy_gain":      func(sim.Config) sim.Metric { return NewEnergyGain() },
	"dissipation":      func(sim.Config) sim.Metric { return NewDissipation() },
	"collision_rate":   func(sim.Config) sim.Metric { return NewCollisionRate() },
	"wall_rate":        func(sim.Config) sim.Metric { return NewWallRate() },
	"ball_rate":        func(sim.Config) sim.Metric { return NewBallRate() },
	"peak_impact":      func(sim.Config) sim.Metric { return NewPeakImpact() },
	"peak_temperature": func(sim.Config) sim.Metric { return NewPeakTemperature() },
	"substep_margin":   func(c sim.Config) sim.Metric { return NewSubstepMargin(c.Substeps) },
	"escapes":          func(sim.Config) sim.Metric { return NewEscapes() },
	"stability": func(c sim.Config) sim.Metric {
		return NewStability(c.Ambient, c.MaxTemperature)
	},
}

func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the named metrics for cfg. An empty list builds all of them.
func New(cfg sim.Config, names ...string) ([]sim.Metric, error) {
	if len(names) == 0 {
		names = Names()
	}
	out := make([]sim.Metric, 0, len(names))
	for _, name := range names {
		ctor, ok := constructors[name]
		if !ok {
			return nil, fmt.Errorf("unknown metric %q", name)
		}
		out = append(out, ctor(cfg))
	}
	return out, nil
}
