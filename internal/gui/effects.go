package gui

import (
	"github.com/san-kum/ballsim/internal/material"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

const (
	rippleLife      = 0.5
	rippleMaxRadius = 30.0
	telemetrySize   = 240

	trailLength = 15

	waveSpeed     = 340.0
	waveMaxRadius = 400.0
	waveMinImpact = 200.0
)

// Ripple is an expanding ring left by a collision.
type Ripple struct {
	Position physics.Vec2
	Color    material.Color
	Strength float64
	Age      float64
}

// Radius and Alpha follow the ripple's age linearly.
func (r Ripple) Radius() float64 {
	return 2 + (rippleMaxRadius-2)*r.Age/rippleLife*r.Strength
}

func (r Ripple) Alpha() float64 {
	return (1 - r.Age/rippleLife) * r.Strength
}

// Wave is the sound ring of a hard impact. It travels at waveSpeed and
// fades out at waveMaxRadius.
type Wave struct {
	Origin    physics.Vec2
	Radius    float64
	Intensity float64
}

func (w Wave) Alpha() float64 {
	return (1 - w.Radius/waveMaxRadius) * w.Intensity * 0.3
}

// Effects holds the presentation state that lives outside the simulation.
// It observes the simulation frame by frame.
type Effects struct {
	Ripples   []Ripple
	Waves     []Wave
	Trails    [][]physics.Vec2
	Telemetry []float64
}

// OnFrame feeds one simulated frame into the effects.
func (e *Effects) OnFrame(f *sim.Frame) {
	e.Add(f.Notifications)
	e.Track(f.Balls)
	e.Record(f.Energy.Total())
}

// Add starts one ripple per notification, scaled by impact speed, and a
// sound wave for the hard ones.
func (e *Effects) Add(notes []physics.CollisionNotification) {
	for _, n := range notes {
		if n.ImpactSpeed > waveMinImpact {
			e.Waves = append(e.Waves, Wave{Origin: n.Position, Intensity: min(n.ImpactSpeed/1000, 1)})
		}
		strength := n.ImpactSpeed / 600
		if strength < 0.1 {
			continue
		}
		if strength > 1 {
			strength = 1
		}
		e.Ripples = append(e.Ripples, Ripple{Position: n.Position, Color: n.Color, Strength: strength})
	}
}

// Track appends each ball's position to its trail. Trails restart when
// the ball count changes.
func (e *Effects) Track(balls []physics.Ball) {
	if len(e.Trails) != len(balls) {
		e.Trails = make([][]physics.Vec2, len(balls))
	}
	for i := range balls {
		t := append(e.Trails[i], balls[i].Position)
		if len(t) > trailLength {
			t = t[1:]
		}
		e.Trails[i] = t
	}
}

// Step ages ripples and waves by dt and drops the expired ones.
func (e *Effects) Step(dt float64) {
	kept := e.Ripples[:0]
	for _, r := range e.Ripples {
		r.Age += dt
		if r.Age < rippleLife {
			kept = append(kept, r)
		}
	}
	e.Ripples = kept

	waves := e.Waves[:0]
	for _, w := range e.Waves {
		w.Radius += waveSpeed * dt
		if w.Radius < waveMaxRadius {
			waves = append(waves, w)
		}
	}
	e.Waves = waves
}

func (e *Effects) Record(v float64) {
	e.Telemetry = append(e.Telemetry, v)
	if len(e.Telemetry) > telemetrySize {
		e.Telemetry = e.Telemetry[1:]
	}
}

func (e *Effects) Reset() {
	e.Ripples = e.Ripples[:0]
	e.Waves = e.Waves[:0]
	e.Trails = nil
	e.Telemetry = e.Telemetry[:0]
}
