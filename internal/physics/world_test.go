package physics

import (
	"math"
	"testing"

	"github.com/san-kum/ballsim/internal/material"
)

func quietParams() Params {
	return Params{
		SpinDamping: 1,
		Resolver: Resolver{
			Wall:         material.Wall,
			SpinTransfer: 1,
			Thermal:      Thermal{Ambient: 1, CoolingRate: 0.2, HeatGain: 1e-6},
		},
	}
}

func runFrames(w *World, frames, substeps int, dt float64) []CollisionNotification {
	var notes []CollisionNotification
	h := dt / float64(substeps)
	for f := 0; f < frames; f++ {
		for s := 0; s < substeps; s++ {
			notes = w.Substep(h, notes)
		}
	}
	return notes
}

func TestTunnelingGuard(t *testing.T) {
	const dt = 1.0 / 60

	tests := []struct {
		name     string
		substeps int
		escapes  bool
	}{
		{"single step misses the wall", 1, true},
		{"eight substeps catch it", 8, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWorld(
				[]Ball{NewBall(Vec2{78, 0}, Vec2{1000, 0}, 0, 5, material.Rubber, 1)},
				[]PolygonLayer{squareLayer(100)},
				quietParams(),
			)
			displacement := 1000 * dt / float64(tt.substeps)
			if (displacement > 5) != tt.escapes {
				t.Fatalf("per-substep displacement %.2f vs radius 5", displacement)
			}
			notes := runFrames(w, 2, tt.substeps, dt)
			b := w.Balls[0]
			if tt.escapes {
				if b.Position[0] <= 100 || len(notes) != 0 {
					t.Errorf("expected a missed contact, x=%.2f notes=%d", b.Position[0], len(notes))
				}
				return
			}
			if len(notes) == 0 {
				t.Fatal("expected a wall contact")
			}
			if b.Position[0] >= 100 || b.Velocity[0] >= 0 {
				t.Errorf("ball not contained: x=%.2f vx=%.2f", b.Position[0], b.Velocity[0])
			}
			if !w.Layers[0].Contains(b.Position) {
				t.Error("ball left the container")
			}
		})
	}
}

func TestSubstepGravityFall(t *testing.T) {
	p := quietParams()
	p.Gravity = Vec2{0, 800}
	w := NewWorld([]Ball{NewBall(Vec2{}, Vec2{}, 0, 5, material.Steel, 1)}, nil, p)
	h := 1.0 / 480
	for i := 0; i < 480; i++ {
		w.Substep(h, nil)
	}
	b := w.Balls[0]
	if math.Abs(b.Velocity[1]-800) > 1e-6 {
		t.Errorf("vy = %f, want 800", b.Velocity[1])
	}
	// semi-implicit Euler overshoots the exact 400 by g*h/2.
	if want := 400 + 800*h/2; math.Abs(b.Position[1]-want) > 1e-6 {
		t.Errorf("y = %f, want %f", b.Position[1], want)
	}
}

func TestSubstepSpinDamping(t *testing.T) {
	p := quietParams()
	p.SpinDamping = 0.5
	w := NewWorld([]Ball{NewBall(Vec2{}, Vec2{}, 8, 5, material.Glass, 1)}, nil, p)
	w.Substep(0.01, nil)
	w.Substep(0.01, nil)
	if w.Balls[0].Spin != 2 {
		t.Errorf("spin = %f, want 2", w.Balls[0].Spin)
	}
}

func TestSubstepIntegratesAngle(t *testing.T) {
	w := NewWorld([]Ball{NewBall(Vec2{}, Vec2{}, 2, 5, material.Glass, 1)}, nil, quietParams())
	for i := 0; i < 100; i++ {
		w.Substep(0.01, nil)
	}
	if got := w.Balls[0].Angle; math.Abs(got-2) > 1e-9 {
		t.Errorf("angle = %f, want 2", got)
	}

	// the angle follows the spin history, not spin*t
	w.Balls[0].Spin = -50
	before := w.Balls[0].Angle
	w.Substep(0.01, nil)
	want := math.Mod(before-0.5+2*math.Pi, 2*math.Pi)
	if got := w.Balls[0].Angle; math.Abs(got-want) > 1e-9 {
		t.Errorf("angle after spin change = %f, want %f", got, want)
	}

	w.Balls[0].Spin = 1000
	for i := 0; i < 50; i++ {
		w.Substep(0.01, nil)
		if a := w.Balls[0].Angle; a < 0 || a >= 2*math.Pi {
			t.Fatalf("angle %f outside [0, 2π)", a)
		}
	}
}

func TestSeparatingContactsAreSilent(t *testing.T) {
	balls := []Ball{
		NewBall(Vec2{97, 0}, Vec2{-30, 0}, 0, 5, material.Rubber, 1),
		NewBall(Vec2{-10, 0}, Vec2{-20, 0}, 0, 5, material.Steel, 1),
		NewBall(Vec2{-3, 0}, Vec2{20, 0}, 0, 5, material.Steel, 1),
	}
	w := NewWorld(balls, []PolygonLayer{squareLayer(100)}, quietParams())
	notes := w.Substep(0.001, nil)

	if len(notes) != 0 {
		t.Errorf("separating contacts emitted %d notifications", len(notes))
	}
	if w.Counters.WallContacts == 0 || w.Counters.BallContacts == 0 {
		t.Fatalf("contacts not detected: %+v", w.Counters)
	}
	if w.Counters.Impacts() != 0 {
		t.Errorf("separating contacts counted as impacts: %+v", w.Counters)
	}
	if x := w.Balls[0].Position[0]; x > 95+1e-9 {
		t.Errorf("ball left overlapping the wall at x=%f", x)
	}
	if d := w.Balls[1].Position.Sub(w.Balls[2].Position).Len(); d < 10-1e-9 {
		t.Errorf("pair still overlapping, distance %f", d)
	}
}

func TestBouncingInvariants(t *testing.T) {
	p := quietParams()
	p.Gravity = Vec2{0, 800}
	p.Drag = Drag{AirDensity: 0.001}
	p.SpinDamping = 0.998
	layer := NewPolygonLayer(Vec2{}, 200, 10, 0.3)
	inner := NewPolygonLayer(Vec2{}, 120, 10, -0.4)
	inner.Missing = []bool{true, false, false, true, false, false, false, false, false, false}

	var balls []Ball
	mats := material.Catalog()
	for i := 0; i < 9; i++ {
		x := -60 + float64(i%3)*60
		y := -60 + float64(i/3)*60
		balls = append(balls, NewBall(Vec2{x, y}, Vec2{float64(i*37%200 - 100), -150}, 0, 4+float64(i%4), mats[i%3], 1))
	}
	w := NewWorld(balls, []PolygonLayer{layer, inner}, p)

	ambient := p.Resolver.Thermal.Ambient
	for f := 0; f < 600; f++ {
		for s := 0; s < 8; s++ {
			w.Substep(1.0/480, nil)
		}
		for i := range w.Balls {
			if !w.Balls[i].Valid(ambient) {
				t.Fatalf("frame %d: ball %d invalid: %+v", f, i, w.Balls[i])
			}
		}
	}
	if w.Counters.Impacts() == 0 {
		t.Error("expected collisions over ten seconds")
	}
}

func BenchmarkSubstep(b *testing.B) {
	p := quietParams()
	p.Gravity = Vec2{0, 800}
	balls := make([]Ball, 0, 32)
	for i := 0; i < 32; i++ {
		balls = append(balls, NewBall(Vec2{float64(i%6)*20 - 60, float64(i/6)*20 - 60}, Vec2{50, -20}, 0, 6, material.Rubber, 1))
	}
	w := NewWorld(balls, []PolygonLayer{NewPolygonLayer(Vec2{}, 200, 10, 0.3)}, p)
	var notes []CollisionNotification
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		notes = w.Substep(1.0/480, notes[:0])
	}
}
