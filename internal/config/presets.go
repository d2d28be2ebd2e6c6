package config

import (
	"errors"
	"fmt"
	"sort"

	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

// Presets are named starting points. GetPreset hands out copies.
var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"calm": build("calm", func(c *sim.Config) {
		c.Gravity = 300
		c.MinBalls, c.MaxBalls = 3, 4
		c.Layers = c.Layers[:1]
		c.Layers[0].AngularSpeed = 0.15
		c.LaunchX = sim.Range{Min: -150, Max: 150}
		c.LaunchY = sim.Range{Min: -150, Max: -50}
	}),
	"storm": build("storm", func(c *sim.Config) {
		c.MinBalls, c.MaxBalls = 20, 30
		c.RandomizeLayers = true
		for i := range c.Layers {
			c.Layers[i].AngularSpeed *= 3
		}
		c.Layers = append(c.Layers, sim.LayerConfig{Sides: 10, Radius: 70, AngularSpeed: 1.2, Gaps: 3})
	}),
	"zero-g": build("zero-g", func(c *sim.Config) {
		c.Gravity = 0
		c.AirDensity = 0
		c.CoolingRate = 0
		c.MinBalls, c.MaxBalls = 8, 8
		c.SpinDamping = 1
	}),
	"fast": build("fast", func(c *sim.Config) {
		c.Substeps = 16
		c.LaunchX = sim.Range{Min: -1200, Max: 1200}
		c.LaunchY = sim.Range{Min: -1000, Max: -400}
	}),
	"hexagon": build("hexagon", func(c *sim.Config) {
		c.Layers = []sim.LayerConfig{
			{Sides: 6, Radius: 280, AngularSpeed: 0.5},
			{Sides: 3, Radius: 90, AngularSpeed: -0.8, Facing: physics.Outward},
		}
		c.MinBalls, c.MaxBalls = 6, 12
	}),
}

func build(name string, mod func(*sim.Config)) *Config {
	sc := sim.DefaultConfig()
	mod(&sc)
	cfg := FromSim(sc)
	cfg.Name = name
	return cfg
}

// ErrUnknownPreset is returned by Preset for names not in Presets.
var ErrUnknownPreset = errors.New("config: unknown preset")

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Preset is GetPreset with an error for unknown names.
func Preset(name string) (*Config, error) {
	if cfg := GetPreset(name); cfg != nil {
		return cfg, nil
	}
	return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownPreset, name, ListPresets())
}
