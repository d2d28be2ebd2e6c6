package physics

import "github.com/san-kum/ballsim/internal/material"

// CollisionNotification is emitted once for every contact that received
// an impulse during a substep.
type CollisionNotification struct {
	Kind        ContactKind
	Position    Vec2
	ImpactSpeed float64
	Color       material.Color
}

type Params struct {
	Gravity     Vec2
	SpinDamping float64
	Drag        Drag
	Resolver    Resolver
}

// Counters accumulate over the life of a World.
type Counters struct {
	WallContacts int
	BallContacts int
	WallImpacts  int
	BallImpacts  int
	Dissipated   float64
}

func (c Counters) Impacts() int { return c.WallImpacts + c.BallImpacts }

// World owns the balls and layers stepped by Substep.
type World struct {
	Balls    []Ball
	Layers   []PolygonLayer
	Params   Params
	Counters Counters

	contacts []ContactEvent
}

func NewWorld(balls []Ball, layers []PolygonLayer, p Params) *World {
	return &World{Balls: balls, Layers: layers, Params: p}
}

// Substep advances the world by h and appends a notification to notes for
// every contact that exchanged an impulse.
func (w *World) Substep(h float64, notes []CollisionNotification) []CollisionNotification {
	p := &w.Params

	for i := range w.Layers {
		w.Layers[i].Advance(h)
	}

	gdv := p.Gravity.Mul(h)
	for i := range w.Balls {
		b := &w.Balls[i]
		b.integrate(gdv.Add(p.Drag.VelocityChange(b, h)), h, p.SpinDamping)
	}

	w.contacts = DetectWalls(w.Balls, w.Layers, w.contacts[:0])
	for _, c := range w.contacts {
		w.Counters.WallContacts++
		out := p.Resolver.ResolveWall(&w.Balls[c.A], c)
		if out.Impulse {
			w.Counters.WallImpacts++
			w.Counters.Dissipated += out.EnergyLost
			notes = append(notes, CollisionNotification{WallContact, c.Point, out.ImpactSpeed, out.Color})
		}
	}

	w.contacts = DetectPairs(w.Balls, w.contacts[:0])
	for _, c := range w.contacts {
		w.Counters.BallContacts++
		out := p.Resolver.ResolvePair(w.Balls, c)
		if out.Impulse {
			w.Counters.BallImpacts++
			w.Counters.Dissipated += out.EnergyLost
			notes = append(notes, CollisionNotification{BallContact, c.Point, out.ImpactSpeed, out.Color})
		}
	}

	for i := range w.Balls {
		p.Resolver.Thermal.Cool(&w.Balls[i], h)
	}
	return notes
}

// Energy is the system energy split by form. Potential is measured
// against the first layer's center and is not part of Total.
type Energy struct {
	Linear     float64 `json:"linear"`
	Rotational float64 `json:"rotational"`
	Thermal    float64 `json:"thermal"`
	Potential  float64 `json:"potential"`
}

func (e Energy) Total() float64 { return e.Linear + e.Rotational + e.Thermal }

func (e Energy) Mechanical() float64 { return e.Linear + e.Rotational + e.Potential }

func (w *World) Energy() Energy {
	var origin Vec2
	if len(w.Layers) > 0 {
		origin = w.Layers[0].Center
	}
	return MeasureEnergy(w.Balls, w.Params.Resolver.Thermal, w.Params.Gravity, origin)
}

// MeasureEnergy sums the energy of balls. Potential is -m g·(p - origin).
func MeasureEnergy(balls []Ball, th Thermal, gravity, origin Vec2) Energy {
	var e Energy
	for i := range balls {
		b := &balls[i]
		e.Linear += b.LinearEnergy()
		e.Rotational += b.RotationalEnergy()
		e.Thermal += th.Energy(b)
		e.Potential -= b.Mass * gravity.Dot(b.Position.Sub(origin))
	}
	return e
}

// TotalEnergy is the linear, rotational and thermal energy of balls.
func TotalEnergy(balls []Ball, th Thermal) float64 {
	return MeasureEnergy(balls, th, Vec2{}, Vec2{}).Total()
}
