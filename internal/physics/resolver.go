package physics

import (
	"math"

	"github.com/san-kum/ballsim/internal/material"
	"github.com/san-kum/ballsim/internal/vecmath"
)

// Resolver applies contact responses: positional correction, a
// restitution impulse along the normal and a friction impulse that turns
// tangential slip into spin.
type Resolver struct {
	Wall material.Material
	// SpinTransfer scales the blended friction into the fraction of slip
	// removed per contact. The product is clamped to [0,1].
	SpinTransfer float64
	Thermal      Thermal
}

// Outcome reports what a resolved contact did. Impulse is false when the
// bodies were already separating and only the overlap was corrected.
type Outcome struct {
	Impulse     bool
	ImpactSpeed float64
	EnergyLost  float64
	Color       material.Color
}

func (r *Resolver) slipFraction(friction float64) float64 {
	return math.Max(0, math.Min(1, friction*r.SpinTransfer))
}

// ResolveWall pushes b out of the wall and, if it is approaching, reflects
// the normal velocity and applies friction.
func (r *Resolver) ResolveWall(b *Ball, c ContactEvent) Outcome {
	n := c.Normal
	b.Position = b.Position.Add(n.Mul(c.Penetration))

	vn := b.Velocity.Dot(n)
	if vn >= 0 {
		return Outcome{}
	}
	blend := material.Combine(b.Material, r.Wall)
	before := b.KineticEnergy()

	b.Velocity = b.Velocity.Sub(n.Mul((1 + blend.Restitution) * vn))

	t := vecmath.Perp(n)
	slip := b.Velocity.Dot(t) - b.Spin*b.Radius
	effMass := 1 / (1/b.Mass + b.Radius*b.Radius/b.Inertia)
	jt := -r.slipFraction(blend.Friction) * slip * effMass
	b.Velocity = b.Velocity.Add(t.Mul(jt / b.Mass))
	b.Spin -= b.Radius * jt / b.Inertia

	lost := math.Max(0, before-b.KineticEnergy())
	r.Thermal.Heat(b, lost)
	return Outcome{Impulse: true, ImpactSpeed: -vn, EnergyLost: lost, Color: blend.Color}
}

// ResolvePair separates balls c.A and c.B in inverse proportion to their
// mass and, if they approach, applies the two-body impulse.
func (r *Resolver) ResolvePair(balls []Ball, c ContactEvent) Outcome {
	a, b := &balls[c.A], &balls[c.B]
	n := c.Normal

	total := a.Mass + b.Mass
	a.Position = a.Position.Add(n.Mul(c.Penetration * b.Mass / total))
	b.Position = b.Position.Sub(n.Mul(c.Penetration * a.Mass / total))

	vn := a.Velocity.Sub(b.Velocity).Dot(n)
	if vn >= 0 {
		return Outcome{}
	}
	blend := material.Combine(a.Material, b.Material)
	before := a.KineticEnergy() + b.KineticEnergy()

	invA, invB := 1/a.Mass, 1/b.Mass
	j := -(1 + blend.Restitution) * vn / (invA + invB)
	a.Velocity = a.Velocity.Add(n.Mul(j * invA))
	b.Velocity = b.Velocity.Sub(n.Mul(j * invB))

	t := vecmath.Perp(n)
	slip := a.Velocity.Sub(b.Velocity).Dot(t) - a.Spin*a.Radius - b.Spin*b.Radius
	k := invA + invB + a.Radius*a.Radius/a.Inertia + b.Radius*b.Radius/b.Inertia
	jt := -r.slipFraction(blend.Friction) * slip / k
	a.Velocity = a.Velocity.Add(t.Mul(jt * invA))
	b.Velocity = b.Velocity.Sub(t.Mul(jt * invB))
	// Opposite arms and opposite impulses: both spins change with the same
	// sign. Angular momentum about the contact point holds.
	a.Spin -= a.Radius * jt / a.Inertia
	b.Spin -= b.Radius * jt / b.Inertia

	lost := math.Max(0, before-a.KineticEnergy()-b.KineticEnergy())
	r.Thermal.Heat(a, lost/2)
	r.Thermal.Heat(b, lost/2)
	return Outcome{Impulse: true, ImpactSpeed: -vn, EnergyLost: lost, Color: blend.Color}
}
