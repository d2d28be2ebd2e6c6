package sim

import (
	"math"

	"github.com/san-kum/ballsim/internal/material"
	"github.com/san-kum/ballsim/internal/physics"
)

// Range is a closed interval.
type Range struct {
	Min float64 `yaml:"min" json:"min"`
	Max float64 `yaml:"max" json:"max"`
}

func (r Range) Valid() bool { return r.Min <= r.Max && !math.IsNaN(r.Min) && !math.IsNaN(r.Max) }

func (r Range) Sample(u float64) float64 { return r.Min + (r.Max-r.Min)*u }

// LayerConfig describes one polygon boundary.
type LayerConfig struct {
	Sides        int
	Radius       float64
	AngularSpeed float64
	Facing       physics.Facing
	// Gaps is the number of edges removed at random on regeneration.
	Gaps int
}

// Config is everything a Simulation needs at construction.
type Config struct {
	Seed     int64
	Substeps int

	Gravity    float64
	AirDensity float64

	MinBalls, MaxBalls int
	Radius             Range
	Materials          []material.Material
	Wall               material.Material

	CenterX, CenterY float64
	Layers           []LayerConfig
	RandomizeLayers  bool

	LaunchX Range
	LaunchY Range
	Spin    Range

	Ambient        float64
	CoolingRate    float64
	HeatGain       float64
	MaxTemperature float64
	SpinDamping    float64
	SpinTransfer   float64

	// MaxFrameTime clamps the dt passed to Advance; zero disables it.
	MaxFrameTime      float64
	PlacementAttempts int
}

const (
	DefaultSubsteps    = 8
	DefaultGravity     = 800.0
	DefaultAirDensity  = 0.001
	DefaultLayerRadius = 280.0
	DefaultSpacing     = 70.0
	DefaultSides       = 10
	DefaultRotation    = 0.3
)

// DefaultConfig is three concentric decagons in a 1280x720 arena with
// three to ten balls.
func DefaultConfig() Config {
	layers := make([]LayerConfig, 3)
	for i := range layers {
		dir := 1.0
		if i%2 == 1 {
			dir = -1
		}
		gaps := 0
		if i > 0 {
			gaps = 2
		}
		layers[i] = LayerConfig{
			Sides:        DefaultSides,
			Radius:       DefaultLayerRadius - float64(i)*DefaultSpacing,
			AngularSpeed: dir * DefaultRotation * (1 + 0.25*float64(i)),
			Gaps:         gaps,
		}
	}
	return Config{
		Seed:              1,
		Substeps:          DefaultSubsteps,
		Gravity:           DefaultGravity,
		AirDensity:        DefaultAirDensity,
		MinBalls:          3,
		MaxBalls:          10,
		Radius:            Range{4, 10},
		Materials:         material.Catalog(),
		Wall:              material.Wall,
		CenterX:           640,
		CenterY:           360,
		Layers:            layers,
		LaunchX:           Range{-400, 400},
		LaunchY:           Range{-300, -100},
		Spin:              Range{-5, 5},
		Ambient:           1,
		CoolingRate:       0.2,
		HeatGain:          2e-7,
		MaxTemperature:    3,
		SpinDamping:       0.998,
		SpinTransfer:      1,
		MaxFrameTime:      1.0 / 30,
		PlacementAttempts: 100,
	}
}

// Frame is a read-only copy of the simulation after an Advance.
type Frame struct {
	Index         int                             `json:"index"`
	Time          float64                         `json:"time"`
	Balls         []physics.Ball                  `json:"balls"`
	Layers        []LayerState                    `json:"layers"`
	Energy        physics.Energy                  `json:"energy"`
	Notifications []physics.CollisionNotification `json:"-"`
	Debug         bool                            `json:"debug"`
}

// LayerState is a layer's rotation and its vertices in world space.
type LayerState struct {
	Angle    float64        `json:"angle"`
	Vertices []physics.Vec2 `json:"vertices"`
	Active   []bool         `json:"active"`
}

type Stats struct {
	Frames        int     `json:"frames"`
	Elapsed       float64 `json:"elapsed"`
	Regenerations int     `json:"regenerations"`
	WallImpacts   int     `json:"wall_impacts"`
	BallImpacts   int     `json:"ball_impacts"`
	Dissipated    float64 `json:"dissipated"`
}

func (s Stats) Impacts() int { return s.WallImpacts + s.BallImpacts }

// Metric accumulates a scalar over the frames of a run.
type Metric interface {
	Name() string
	Observe(f *Frame)
	Value() float64
	Reset()
}

type Observer interface {
	OnFrame(f *Frame)
}

// Sample is one row of a recorded run.
type Sample struct {
	Time        float64 `json:"time"`
	Balls       int     `json:"balls"`
	Linear      float64 `json:"linear"`
	Rotational  float64 `json:"rotational"`
	Thermal     float64 `json:"thermal"`
	Potential   float64 `json:"potential"`
	Total       float64 `json:"total"`
	Collisions  int     `json:"collisions"`
	MaxSpeed    float64 `json:"max_speed"`
	MeanTemp    float64 `json:"mean_temp"`
	MeanSpinAbs float64 `json:"mean_spin"`
}

type Result struct {
	Samples []Sample           `json:"samples"`
	Metrics map[string]float64 `json:"metrics"`
	Stats   Stats              `json:"stats"`
	Seed    int64              `json:"seed"`
	Final   *Frame             `json:"final,omitempty"`
}
