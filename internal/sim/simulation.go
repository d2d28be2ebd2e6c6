package sim

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/ballsim/internal/physics"
)

// Simulation owns the balls and layers and advances them in fixed
// substeps. It is not safe for concurrent use.
type Simulation struct {
	cfg   Config
	rng   *rand.Rand
	world *physics.World

	debug     bool
	stats     Stats
	notes     []physics.CollisionNotification
	metrics   []Metric
	observers []Observer
}

// New validates cfg and builds the first generation of balls.
func New(cfg Config) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Simulation{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
	s.world = physics.NewWorld(nil, nil, s.params())
	if err := s.Regenerate(); err != nil {
		return nil, err
	}
	s.stats.Regenerations = 0
	return s, nil
}

func (s *Simulation) params() physics.Params {
	c := s.cfg
	return physics.Params{
		Gravity:     physics.Vec2{0, c.Gravity},
		SpinDamping: c.SpinDamping,
		Drag:        physics.Drag{AirDensity: c.AirDensity},
		Resolver: physics.Resolver{
			Wall:         c.Wall,
			SpinTransfer: c.SpinTransfer,
			Thermal: physics.Thermal{
				Ambient:        c.Ambient,
				CoolingRate:    c.CoolingRate,
				HeatGain:       c.HeatGain,
				MaxTemperature: c.MaxTemperature,
			},
		},
	}
}

func (s *Simulation) Config() Config { return s.cfg }

func (s *Simulation) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Advance runs one frame of length dt split into Substeps equal steps and
// returns the collision notifications of the frame. The returned slice is
// reused by the next call. Non-positive or non-finite dt is a no-op.
func (s *Simulation) Advance(dt float64) []physics.CollisionNotification {
	s.notes = s.notes[:0]
	if !(dt > 0) || math.IsInf(dt, 0) {
		return s.notes
	}
	if s.cfg.MaxFrameTime > 0 && dt > s.cfg.MaxFrameTime {
		dt = s.cfg.MaxFrameTime
	}

	h := dt / float64(s.cfg.Substeps)
	for i := 0; i < s.cfg.Substeps; i++ {
		s.notes = s.world.Substep(h, s.notes)
	}

	s.stats.Frames++
	s.stats.Elapsed += dt
	c := s.world.Counters
	s.stats.WallImpacts, s.stats.BallImpacts, s.stats.Dissipated = c.WallImpacts, c.BallImpacts, c.Dissipated

	if len(s.metrics) > 0 || len(s.observers) > 0 {
		f := s.Snapshot()
		for _, m := range s.metrics {
			m.Observe(&f)
		}
		for _, o := range s.observers {
			o.OnFrame(&f)
		}
	}
	return s.notes
}

// SetDebugVisible toggles the debug overlay flag. It has no physical effect.
func (s *Simulation) SetDebugVisible(v bool) { s.debug = v }

func (s *Simulation) DebugVisible() bool { return s.debug }

// Balls returns a copy of the current balls.
func (s *Simulation) Balls() []physics.Ball {
	return append([]physics.Ball(nil), s.world.Balls...)
}

// Layers returns a copy of the current layers.
func (s *Simulation) Layers() []physics.PolygonLayer {
	out := make([]physics.PolygonLayer, len(s.world.Layers))
	for i, l := range s.world.Layers {
		out[i] = l.Clone()
	}
	return out
}

// PerturbBall shifts ball i by d. It is meant for sensitivity studies
// and does not check the new position against walls.
func (s *Simulation) PerturbBall(i int, d physics.Vec2) error {
	if i < 0 || i >= len(s.world.Balls) {
		return fmt.Errorf("ball %d out of range [0, %d)", i, len(s.world.Balls))
	}
	s.world.Balls[i].Position = s.world.Balls[i].Position.Add(d)
	return nil
}

func (s *Simulation) Energy() physics.Energy { return s.world.Energy() }

func (s *Simulation) Stats() Stats { return s.stats }

func (s *Simulation) Time() float64 { return s.stats.Elapsed }

// Snapshot copies the current state into a Frame.
func (s *Simulation) Snapshot() Frame {
	layers := make([]LayerState, len(s.world.Layers))
	for i := range s.world.Layers {
		l := &s.world.Layers[i]
		active := make([]bool, l.Sides)
		for e := range active {
			active[e] = l.EdgeActive(e)
		}
		layers[i] = LayerState{Angle: l.Angle, Vertices: l.Vertices(), Active: active}
	}
	return Frame{
		Index:         s.stats.Frames,
		Time:          s.stats.Elapsed,
		Balls:         s.Balls(),
		Layers:        layers,
		Energy:        s.world.Energy(),
		Notifications: append([]physics.CollisionNotification(nil), s.notes...),
		Debug:         s.debug,
	}
}

// Escaped counts balls outside the outermost layer's outline.
func (s *Simulation) Escaped() int {
	outer := s.outerLayer()
	if outer < 0 {
		return 0
	}
	n := 0
	for i := range s.world.Balls {
		if !s.world.Layers[outer].Contains(s.world.Balls[i].Position) {
			n++
		}
	}
	return n
}

func (s *Simulation) outerLayer() int {
	idx, best := -1, 0.0
	for i := range s.world.Layers {
		if r := s.world.Layers[i].Radius; r > best {
			idx, best = i, r
		}
	}
	return idx
}
