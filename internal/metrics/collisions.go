package metrics

import (
	"math"

	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

// CollisionRate counts collision notifications per simulated second.
type CollisionRate struct {
	name  string
	kind  physics.ContactKind
	all   bool
	count int
	start float64
	end   float64
	seen  bool
}

func NewCollisionRate() *CollisionRate {
	return &CollisionRate{name: "collision_rate", all: true}
}

// NewWallRate and NewBallRate count only one kind of contact.
func NewWallRate() *CollisionRate {
	return &CollisionRate{name: "wall_rate", kind: physics.WallContact}
}

func NewBallRate() *CollisionRate {
	return &CollisionRate{name: "ball_rate", kind: physics.BallContact}
}

func (c *CollisionRate) Name() string { return c.name }

func (c *CollisionRate) Observe(f *sim.Frame) {
	if !c.seen {
		c.start = f.Time
		c.seen = true
	}
	c.end = f.Time
	for _, n := range f.Notifications {
		if c.all || n.Kind == c.kind {
			c.count++
		}
	}
}

func (c *CollisionRate) Value() float64 {
	if span := c.end - c.start; span > 0 {
		return float64(c.count) / span
	}
	return float64(c.count)
}

func (c *CollisionRate) Reset() {
	c.count = 0
	c.start, c.end = 0, 0
	c.seen = false
}

// PeakImpact is the largest impact speed seen in any notification.
type PeakImpact struct {
	name string
	peak float64
}

func NewPeakImpact() *PeakImpact { return &PeakImpact{name: "peak_impact"} }

func (p *PeakImpact) Name() string { return p.name }

func (p *PeakImpact) Observe(f *sim.Frame) {
	for _, n := range f.Notifications {
		p.peak = math.Max(p.peak, n.ImpactSpeed)
	}
}

func (p *PeakImpact) Value() float64 { return p.peak }
func (p *PeakImpact) Reset()         { p.peak = 0 }

// PeakTemperature is the hottest ball seen.
type PeakTemperature struct {
	name string
	peak float64
}

func NewPeakTemperature() *PeakTemperature { return &PeakTemperature{name: "peak_temperature"} }

func (p *PeakTemperature) Name() string { return p.name }

func (p *PeakTemperature) Observe(f *sim.Frame) {
	for i := range f.Balls {
		p.peak = math.Max(p.peak, f.Balls[i].Temperature)
	}
}

func (p *PeakTemperature) Value() float64 { return p.peak }
func (p *PeakTemperature) Reset()         { p.peak = 0 }

// SubstepMargin tracks the worst per-substep travel as a fraction of the
// smallest ball radius. Values at or above 1 mean a ball could pass a wall
// thinner than itself in a single substep.
type SubstepMargin struct {
	name     string
	substeps int
	lastTime float64
	worst    float64
}

func NewSubstepMargin(substeps int) *SubstepMargin {
	if substeps < 1 {
		substeps = 1
	}
	return &SubstepMargin{name: "substep_margin", substeps: substeps}
}

func (s *SubstepMargin) Name() string { return s.name }

func (s *SubstepMargin) Observe(f *sim.Frame) {
	dt := f.Time - s.lastTime
	s.lastTime = f.Time
	if dt <= 0 {
		return
	}
	h := dt / float64(s.substeps)
	for i := range f.Balls {
		b := &f.Balls[i]
		if b.Radius > 0 {
			s.worst = math.Max(s.worst, b.Speed()*h/b.Radius)
		}
	}
}

func (s *SubstepMargin) Value() float64 { return s.worst }

func (s *SubstepMargin) Reset() {
	s.lastTime = 0
	s.worst = 0
}
