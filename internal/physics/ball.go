package physics

import (
	"math"

	"github.com/san-kum/ballsim/internal/material"
	"github.com/san-kum/ballsim/internal/vecmath"
)

type Vec2 = vecmath.Vec2

// Ball is a solid disc. Mass and Inertia are derived from Radius and
// Material at construction and never change afterwards. Angle is the
// integrated rotation in [0, 2π); it only matters for drawing.
type Ball struct {
	Position    Vec2
	Velocity    Vec2
	Spin        float64
	Angle       float64
	Radius      float64
	Material    material.Material
	Mass        float64
	Inertia     float64
	Temperature float64
}

// NewBall builds a ball at the given temperature. Mass is density times
// the disc area.
func NewBall(pos, vel Vec2, spin, radius float64, m material.Material, temperature float64) Ball {
	mass := m.Density * math.Pi * radius * radius
	return Ball{
		Position:    pos,
		Velocity:    vel,
		Spin:        spin,
		Radius:      radius,
		Material:    m,
		Mass:        mass,
		Inertia:     0.5 * mass * radius * radius,
		Temperature: temperature,
	}
}

func (b *Ball) Speed() float64 { return b.Velocity.Len() }

func (b *Ball) Momentum() Vec2 { return b.Velocity.Mul(b.Mass) }

func (b *Ball) LinearEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.LenSqr()
}

func (b *Ball) RotationalEnergy() float64 {
	return 0.5 * b.Inertia * b.Spin * b.Spin
}

func (b *Ball) KineticEnergy() float64 {
	return b.LinearEnergy() + b.RotationalEnergy()
}

// Overlaps reports whether the two discs interpenetrate.
func (b *Ball) Overlaps(o *Ball) bool {
	r := b.Radius + o.Radius
	return b.Position.Sub(o.Position).LenSqr() < r*r
}

// Valid checks the per-ball invariants for the given ambient temperature.
func (b *Ball) Valid(ambient float64) bool {
	return b.Radius > 0 && b.Mass > 0 &&
		b.Temperature >= ambient &&
		vecmath.IsFinite(b.Position) && vecmath.IsFinite(b.Velocity) &&
		!math.IsNaN(b.Spin) && !math.IsInf(b.Spin, 0) &&
		b.Angle >= 0 && b.Angle < 2*math.Pi
}

// integrate advances one semi-implicit Euler step. dv is the velocity
// change from gravity and drag over h.
func (b *Ball) integrate(dv Vec2, h, spinDamping float64) {
	b.Velocity = b.Velocity.Add(dv)
	b.Position = b.Position.Add(b.Velocity.Mul(h))
	b.Angle = vecmath.NormalizeAngle(b.Angle + b.Spin*h)
	b.Spin *= spinDamping
}
