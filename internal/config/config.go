// Package config reads and writes YAML simulation setups and holds the
// named presets.
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/san-kum/ballsim/internal/material"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
	"gopkg.in/yaml.v3"
)

const (
	DefaultDt       = 1.0 / 60
	DefaultDuration = 10.0
)

var ErrUnknownMaterial = errors.New("config: unknown material")

type Config struct {
	Name       string  `yaml:"name,omitempty"`
	Seed       int64   `yaml:"seed"`
	Substeps   int     `yaml:"substeps"`
	Gravity    float64 `yaml:"gravity"`
	AirDensity float64 `yaml:"air_density"`

	Balls   BallsConfig   `yaml:"balls"`
	Arena   ArenaConfig   `yaml:"arena"`
	Thermal ThermalConfig `yaml:"thermal"`
	Spin    SpinConfig    `yaml:"spin"`

	Wall            string              `yaml:"wall"`
	CustomMaterials []material.Material `yaml:"custom_materials,omitempty"`

	MaxFrameTime      float64 `yaml:"max_frame_time"`
	PlacementAttempts int     `yaml:"placement_attempts"`

	Run RunConfig `yaml:"run"`
}

type BallsConfig struct {
	Min       int       `yaml:"min"`
	Max       int       `yaml:"max"`
	Radius    sim.Range `yaml:"radius"`
	Materials []string  `yaml:"materials"`
	LaunchX   sim.Range `yaml:"launch_x"`
	LaunchY   sim.Range `yaml:"launch_y"`
	Spin      sim.Range `yaml:"spin"`
}

type ArenaConfig struct {
	CenterX   float64       `yaml:"center_x"`
	CenterY   float64       `yaml:"center_y"`
	Randomize bool          `yaml:"randomize"`
	Layers    []LayerConfig `yaml:"layers"`
}

type LayerConfig struct {
	Sides  int     `yaml:"sides"`
	Radius float64 `yaml:"radius"`
	Speed  float64 `yaml:"speed"`
	Facing string  `yaml:"facing,omitempty"`
	Gaps   int     `yaml:"gaps"`
}

type ThermalConfig struct {
	Ambient        float64 `yaml:"ambient"`
	CoolingRate    float64 `yaml:"cooling_rate"`
	HeatGain       float64 `yaml:"heat_gain"`
	MaxTemperature float64 `yaml:"max_temperature"`
}

type SpinConfig struct {
	Damping  float64 `yaml:"damping"`
	Transfer float64 `yaml:"transfer"`
}

type RunConfig struct {
	Dt       float64 `yaml:"dt"`
	Duration float64 `yaml:"duration"`
	Every    int     `yaml:"every,omitempty"`
}

func DefaultConfig() *Config {
	cfg := FromSim(sim.DefaultConfig())
	cfg.Name = "classic"
	return cfg
}

// FromSim converts an engine configuration into its file form.
func FromSim(sc sim.Config) *Config {
	names := make([]string, len(sc.Materials))
	for i, m := range sc.Materials {
		names[i] = m.Name
	}
	layers := make([]LayerConfig, len(sc.Layers))
	for i, l := range sc.Layers {
		layers[i] = LayerConfig{Sides: l.Sides, Radius: l.Radius, Speed: l.AngularSpeed, Facing: l.Facing.String(), Gaps: l.Gaps}
	}
	return &Config{
		Seed:       sc.Seed,
		Substeps:   sc.Substeps,
		Gravity:    sc.Gravity,
		AirDensity: sc.AirDensity,
		Balls: BallsConfig{
			Min: sc.MinBalls, Max: sc.MaxBalls, Radius: sc.Radius, Materials: names,
			LaunchX: sc.LaunchX, LaunchY: sc.LaunchY, Spin: sc.Spin,
		},
		Arena: ArenaConfig{CenterX: sc.CenterX, CenterY: sc.CenterY, Randomize: sc.RandomizeLayers, Layers: layers},
		Thermal: ThermalConfig{
			Ambient: sc.Ambient, CoolingRate: sc.CoolingRate,
			HeatGain: sc.HeatGain, MaxTemperature: sc.MaxTemperature,
		},
		Spin:              SpinConfig{Damping: sc.SpinDamping, Transfer: sc.SpinTransfer},
		Wall:              sc.Wall.Name,
		MaxFrameTime:      sc.MaxFrameTime,
		PlacementAttempts: sc.PlacementAttempts,
		Run:               RunConfig{Dt: DefaultDt, Duration: DefaultDuration},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) material(name string) (material.Material, error) {
	for _, m := range c.CustomMaterials {
		if m.Name == name {
			return m, nil
		}
	}
	if m, ok := material.ByName(name); ok {
		return m, nil
	}
	return material.Material{}, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
}

// ToSim resolves material names and builds the engine configuration. The
// result still has to pass sim.Config.Validate.
func (c *Config) ToSim() (sim.Config, error) {
	sc := sim.Config{
		Seed:              c.Seed,
		Substeps:          c.Substeps,
		Gravity:           c.Gravity,
		AirDensity:        c.AirDensity,
		MinBalls:          c.Balls.Min,
		MaxBalls:          c.Balls.Max,
		Radius:            c.Balls.Radius,
		CenterX:           c.Arena.CenterX,
		CenterY:           c.Arena.CenterY,
		RandomizeLayers:   c.Arena.Randomize,
		LaunchX:           c.Balls.LaunchX,
		LaunchY:           c.Balls.LaunchY,
		Spin:              c.Balls.Spin,
		Ambient:           c.Thermal.Ambient,
		CoolingRate:       c.Thermal.CoolingRate,
		HeatGain:          c.Thermal.HeatGain,
		MaxTemperature:    c.Thermal.MaxTemperature,
		SpinDamping:       c.Spin.Damping,
		SpinTransfer:      c.Spin.Transfer,
		MaxFrameTime:      c.MaxFrameTime,
		PlacementAttempts: c.PlacementAttempts,
	}
	for _, name := range c.Balls.Materials {
		m, err := c.material(name)
		if err != nil {
			return sc, err
		}
		sc.Materials = append(sc.Materials, m)
	}
	wall, err := c.material(c.Wall)
	if err != nil {
		return sc, err
	}
	sc.Wall = wall
	for i, l := range c.Arena.Layers {
		facing, err := physics.ParseFacing(l.Facing)
		if err != nil {
			return sc, fmt.Errorf("layer %d: %w", i, err)
		}
		sc.Layers = append(sc.Layers, sim.LayerConfig{
			Sides: l.Sides, Radius: l.Radius, AngularSpeed: l.Speed, Facing: facing, Gaps: l.Gaps,
		})
	}
	return sc, nil
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Balls.Materials = append([]string(nil), c.Balls.Materials...)
	out.Arena.Layers = append([]LayerConfig(nil), c.Arena.Layers...)
	out.CustomMaterials = append([]material.Material(nil), c.CustomMaterials...)
	return &out
}

// GetParams exposes the scalar knobs by name for sweeps.
func (c *Config) GetParams() map[string]float64 {
	p := map[string]float64{
		"seed":               float64(c.Seed),
		"substeps":           float64(c.Substeps),
		"gravity":            c.Gravity,
		"air_density":        c.AirDensity,
		"min_balls":          float64(c.Balls.Min),
		"max_balls":          float64(c.Balls.Max),
		"radius_min":         c.Balls.Radius.Min,
		"radius_max":         c.Balls.Radius.Max,
		"ambient":            c.Thermal.Ambient,
		"cooling_rate":       c.Thermal.CoolingRate,
		"heat_gain":          c.Thermal.HeatGain,
		"max_temperature":    c.Thermal.MaxTemperature,
		"spin_damping":       c.Spin.Damping,
		"spin_transfer":      c.Spin.Transfer,
		"max_frame_time":     c.MaxFrameTime,
		"dt":                 c.Run.Dt,
		"duration":           c.Run.Duration,
		"launch_speed_scale": 1,
	}
	return p
}

// ParamNames lists the names accepted by SetParam.
func ParamNames() []string {
	names := make([]string, 0, 20)
	for k := range DefaultConfig().GetParams() {
		names = append(names, k)
	}
	names = append(names, "rotation_speed")
	sort.Strings(names)
	return names
}

// SetParam sets a named knob. rotation_speed sets the speed of every layer
// keeping its direction; launch_speed_scale multiplies the launch ranges.
func (c *Config) SetParam(name string, v float64) error {
	switch name {
	case "seed":
		c.Seed = int64(v)
	case "substeps":
		c.Substeps = int(v)
	case "gravity":
		c.Gravity = v
	case "air_density":
		c.AirDensity = v
	case "min_balls":
		c.Balls.Min = int(v)
	case "max_balls":
		c.Balls.Max = int(v)
	case "radius_min":
		c.Balls.Radius.Min = v
	case "radius_max":
		c.Balls.Radius.Max = v
	case "ambient":
		c.Thermal.Ambient = v
	case "cooling_rate":
		c.Thermal.CoolingRate = v
	case "heat_gain":
		c.Thermal.HeatGain = v
	case "max_temperature":
		c.Thermal.MaxTemperature = v
	case "spin_damping":
		c.Spin.Damping = v
	case "spin_transfer":
		c.Spin.Transfer = v
	case "max_frame_time":
		c.MaxFrameTime = v
	case "dt":
		c.Run.Dt = v
	case "duration":
		c.Run.Duration = v
	case "rotation_speed":
		for i := range c.Arena.Layers {
			if c.Arena.Layers[i].Speed < 0 {
				c.Arena.Layers[i].Speed = -v
			} else {
				c.Arena.Layers[i].Speed = v
			}
		}
	case "launch_speed_scale":
		scale := func(r sim.Range) sim.Range { return sim.Range{Min: r.Min * v, Max: r.Max * v} }
		c.Balls.LaunchX = scale(c.Balls.LaunchX)
		c.Balls.LaunchY = scale(c.Balls.LaunchY)
	default:
		return fmt.Errorf("%w: %s", sim.ErrUnknownParam, name)
	}
	return nil
}
