package physics

import (
	"math"
	"testing"

	"github.com/san-kum/ballsim/internal/material"
	"github.com/san-kum/ballsim/internal/vecmath"
)

func coefficients(e, f float64) material.Material {
	return material.Material{
		Name: "test", Density: 1, Restitution: e, Friction: f,
		DragCoefficient: 0.4, ThermalConductivity: 0.5,
	}
}

func testResolver(wall material.Material) *Resolver {
	return &Resolver{
		Wall:         wall,
		SpinTransfer: 1,
		Thermal:      Thermal{Ambient: 1, CoolingRate: 0.2, HeatGain: 1e-6},
	}
}

func TestWallRestitutionBound(t *testing.T) {
	for _, e := range []float64{0, 0.25, 0.5, 0.8, 1} {
		m := coefficients(e, 0.7)
		r := testResolver(m)
		b := NewBall(Vec2{0, -2}, Vec2{0, -300}, 0, 5, m, 1)
		c := ContactEvent{Kind: WallContact, A: 0, B: -1, Normal: Vec2{0, 1}, Penetration: 3}

		out := r.ResolveWall(&b, c)
		if !out.Impulse {
			t.Fatalf("e=%.2f: expected impulse", e)
		}
		if math.Abs(out.ImpactSpeed-300) > 1e-9 {
			t.Errorf("e=%.2f: impact speed %f, want 300", e, out.ImpactSpeed)
		}
		if math.Abs(b.Velocity[1]-e*300) > 1e-9 || math.Abs(b.Velocity[0]) > 1e-9 {
			t.Errorf("e=%.2f: velocity %v, want (0,%f)", e, b.Velocity, e*300)
		}
		if math.Abs(b.Position[1]-1) > 1e-12 {
			t.Errorf("e=%.2f: position %v not pushed out", e, b.Position)
		}
		if b.Spin != 0 {
			t.Errorf("e=%.2f: head-on bounce produced spin %f", e, b.Spin)
		}
	}
}

func TestWallSeparatingOnlyCorrects(t *testing.T) {
	r := testResolver(material.Wall)
	b := NewBall(Vec2{0, 0}, Vec2{10, 40}, 0, 5, material.Glass, 1)
	out := r.ResolveWall(&b, ContactEvent{Normal: Vec2{0, 1}, Penetration: 1})
	if out.Impulse {
		t.Error("separating contact should not exchange an impulse")
	}
	if b.Velocity != (Vec2{10, 40}) {
		t.Errorf("velocity changed to %v", b.Velocity)
	}
	if b.Position[1] != 1 {
		t.Errorf("position %v not corrected", b.Position)
	}
}

func TestWallFrictionMakesSpin(t *testing.T) {
	r := testResolver(material.Wall)
	r.SpinTransfer = 2
	b := NewBall(Vec2{}, Vec2{200, -100}, 0, 5, material.Rubber, 1)
	before := b.KineticEnergy()
	r.ResolveWall(&b, ContactEvent{Normal: Vec2{0, 1}, Penetration: 0.5})
	if b.Spin == 0 {
		t.Fatal("expected spin from tangential slip")
	}
	if b.Velocity[0] >= 200 {
		t.Errorf("tangential speed %f not reduced", b.Velocity[0])
	}
	if after := b.KineticEnergy(); after > before {
		t.Errorf("kinetic energy rose: %f -> %f", before, after)
	}
	slip := b.Velocity.Dot(Vec2{-1, 0}) - b.Spin*b.Radius
	if math.Abs(slip) > 1e-9 {
		t.Errorf("full transfer should leave no slip, got %f", slip)
	}
}

func TestElasticEqualMassSwap(t *testing.T) {
	m := coefficients(1, 0)
	r := testResolver(m)
	balls := []Ball{
		NewBall(Vec2{-4, 0}, Vec2{250, 0}, 0, 5, m, 1),
		NewBall(Vec2{4, 0}, Vec2{-250, 0}, 0, 5, m, 1),
	}
	c, ok := DetectPair(balls, 0, 1)
	if !ok {
		t.Fatal("expected contact")
	}
	r.ResolvePair(balls, c)
	if math.Abs(balls[0].Velocity[0]+250) > 1e-9 || math.Abs(balls[1].Velocity[0]-250) > 1e-9 {
		t.Errorf("velocities %v %v, want swap", balls[0].Velocity, balls[1].Velocity)
	}
	if balls[0].Spin != 0 || balls[1].Spin != 0 {
		t.Errorf("frictionless contact produced spin")
	}
}

func TestPairMomentumConservation(t *testing.T) {
	for _, e := range []float64{0, 0.3, 0.6, 0.85, 1} {
		for _, f := range []float64{0, 0.5, 1} {
			m1, m2 := coefficients(e, f), coefficients(e, f)
			m2.Density = 3
			r := testResolver(m1)
			balls := []Ball{
				NewBall(Vec2{0, 0}, Vec2{120, 35}, 2, 6, m1, 1),
				NewBall(Vec2{9, 4}, Vec2{-60, 80}, -4, 9, m2, 1),
			}
			p0 := balls[0].Momentum().Add(balls[1].Momentum())
			c, ok := DetectPair(balls, 0, 1)
			if !ok {
				t.Fatal("expected contact")
			}
			r.ResolvePair(balls, c)
			p1 := balls[0].Momentum().Add(balls[1].Momentum())
			if p0.Sub(p1).Len() > 1e-9*p0.Len() {
				t.Errorf("e=%.2f f=%.1f: momentum %v -> %v", e, f, p0, p1)
			}
		}
	}
}

func TestPairAngularMomentumAboutContact(t *testing.T) {
	m := coefficients(0.8, 0.6)
	r := testResolver(m)
	balls := []Ball{
		NewBall(Vec2{0, 0}, Vec2{10, 3}, 1, 5, m, 1),
		NewBall(Vec2{10, 0}, Vec2{-10, -4}, -2, 5, m, 1),
	}
	p := Vec2{5, 0}
	angular := func() float64 {
		var l float64
		for i := range balls {
			b := &balls[i]
			l += b.Mass*vecmath.Cross(b.Position.Sub(p), b.Velocity) + b.Inertia*b.Spin
		}
		return l
	}
	l0 := angular()
	s0 := []float64{balls[0].Spin, balls[1].Spin}

	c := ContactEvent{Kind: BallContact, A: 0, B: 1, Point: p, Normal: Vec2{-1, 0}}
	if out := r.ResolvePair(balls, c); !out.Impulse {
		t.Fatal("approaching pair not resolved")
	}

	if l1 := angular(); math.Abs(l1-l0) > 1e-9*math.Abs(l0) {
		t.Errorf("angular momentum about contact %f -> %f", l0, l1)
	}
	da, db := balls[0].Spin-s0[0], balls[1].Spin-s0[1]
	if da == 0 || da*db <= 0 {
		t.Errorf("spin changes %f and %f should share a sign", da, db)
	}
}

func TestPairEnergyNonIncrease(t *testing.T) {
	th := Thermal{Ambient: 1, HeatGain: 1e-6}
	tests := []struct {
		name      string
		e, f      float64
		wantEqual bool
	}{
		{"elastic frictionless", 1, 0, true},
		{"elastic with friction", 1, 0.8, false},
		{"inelastic frictionless", 0.5, 0, false},
		{"inelastic with friction", 0.3, 1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := coefficients(tt.e, tt.f)
			r := testResolver(m)
			r.Thermal = th
			balls := []Ball{
				NewBall(Vec2{0, 0}, Vec2{300, -50}, 1, 5, m, 1),
				NewBall(Vec2{8, 3}, Vec2{-100, 120}, 0, 7, m, 1),
			}
			before := TotalEnergy(balls, th)
			c, _ := DetectPair(balls, 0, 1)
			r.ResolvePair(balls, c)
			after := TotalEnergy(balls, th)
			if after > before*(1+1e-12) {
				t.Fatalf("energy rose: %f -> %f", before, after)
			}
			equal := math.Abs(after-before) <= 1e-9*before
			if equal != tt.wantEqual {
				t.Errorf("equal=%v, want %v (before %f after %f)", equal, tt.wantEqual, before, after)
			}
		})
	}
}

func TestPairPositionalCorrection(t *testing.T) {
	light, heavy := coefficients(1, 0), coefficients(1, 0)
	heavy.Density = 3
	r := testResolver(light)
	balls := []Ball{
		NewBall(Vec2{0, 0}, Vec2{}, 0, 5, light, 1),
		NewBall(Vec2{8, 0}, Vec2{}, 0, 5, heavy, 1),
	}
	c, _ := DetectPair(balls, 0, 1)
	out := r.ResolvePair(balls, c)
	if out.Impulse {
		t.Error("resting pair should not exchange an impulse")
	}
	if d := balls[1].Position.Sub(balls[0].Position).Len(); math.Abs(d-10) > 1e-12 {
		t.Errorf("separation %f, want 10", d)
	}
	moved0 := -balls[0].Position[0]
	moved1 := balls[1].Position[0] - 8
	if math.Abs(moved0-1.5) > 1e-12 || math.Abs(moved1-0.5) > 1e-12 {
		t.Errorf("moved %f and %f, want 1.5 and 0.5", moved0, moved1)
	}
}

func TestPairHeatsBoth(t *testing.T) {
	m := coefficients(0.5, 0.5)
	r := testResolver(m)
	balls := []Ball{
		NewBall(Vec2{0, 0}, Vec2{400, 0}, 0, 5, m, 1),
		NewBall(Vec2{9, 0}, Vec2{-400, 0}, 0, 5, m, 1),
	}
	c, _ := DetectPair(balls, 0, 1)
	out := r.ResolvePair(balls, c)
	if out.EnergyLost <= 0 {
		t.Fatal("expected dissipation")
	}
	for i, b := range balls {
		if b.Temperature <= 1 {
			t.Errorf("ball %d not heated: %f", i, b.Temperature)
		}
	}
}
