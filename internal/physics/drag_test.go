package physics

import (
	"testing"

	"github.com/san-kum/ballsim/internal/material"
)

func TestDragOpposesVelocity(t *testing.T) {
	d := Drag{AirDensity: 0.001}
	b := NewBall(Vec2{}, Vec2{300, -400}, 0, 5, material.Rubber, 1)
	a := d.Acceleration(&b)
	if a.Dot(b.Velocity) >= 0 {
		t.Errorf("drag %v does not oppose velocity %v", a, b.Velocity)
	}
	want := 0.5 * 0.001 * 500 * 500 * 0.47 * 10 / b.Mass
	if got := a.Len(); got < want*0.999999 || got > want*1.000001 {
		t.Errorf("drag magnitude %f, want %f", got, want)
	}
}

func TestDragNeverReverses(t *testing.T) {
	tests := []struct {
		name    string
		density float64
		h       float64
	}{
		{"thin air", 0.001, 1.0 / 480},
		{"thick air", 50, 1.0 / 60},
		{"absurd", 1e6, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Drag{AirDensity: tt.density}
			b := NewBall(Vec2{}, Vec2{120, 80}, 0, 4, material.Glass, 1)
			v := b.Velocity.Add(d.VelocityChange(&b, tt.h))
			if v.Dot(b.Velocity) < 0 {
				t.Errorf("velocity reversed: %v -> %v", b.Velocity, v)
			}
			if v.Len() > b.Velocity.Len() {
				t.Errorf("drag sped the ball up: %v -> %v", b.Velocity, v)
			}
		})
	}
}

func TestDragClampStopsExactly(t *testing.T) {
	d := Drag{AirDensity: 50}
	b := NewBall(Vec2{}, Vec2{120, 80}, 0, 4, material.Glass, 1)
	v := b.Velocity.Add(d.VelocityChange(&b, 1.0/60))
	if v != (Vec2{}) {
		t.Errorf("clamped drag left velocity %v, want exactly zero", v)
	}
}

func TestDragAtRest(t *testing.T) {
	d := Drag{AirDensity: 1}
	b := NewBall(Vec2{}, Vec2{}, 0, 4, material.Steel, 1)
	if dv := d.VelocityChange(&b, 0.1); dv != (Vec2{}) {
		t.Errorf("resting ball got drag %v", dv)
	}
}
