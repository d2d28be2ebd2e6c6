package physics

import "github.com/san-kum/ballsim/internal/vecmath"

// Drag is quadratic air resistance. The cross-section of a ball is taken
// as its diameter.
type Drag struct {
	AirDensity float64
}

// Acceleration returns the drag acceleration on b, opposing its velocity.
func (d Drag) Acceleration(b *Ball) Vec2 {
	dir, ok := vecmath.Normalize(b.Velocity)
	if !ok || d.AirDensity == 0 || b.Material.DragCoefficient == 0 {
		return vecmath.Zero
	}
	speed := b.Velocity.Len()
	area := 2 * b.Radius
	mag := 0.5 * d.AirDensity * speed * speed * b.Material.DragCoefficient * area / b.Mass
	return dir.Mul(-mag)
}

// VelocityChange returns the drag contribution to the velocity over h.
// Its magnitude never exceeds the current speed, so drag alone can stop a
// ball but never reverse it. A clamped change cancels the velocity exactly.
func (d Drag) VelocityChange(b *Ball, h float64) Vec2 {
	dv := d.Acceleration(b).Mul(h)
	if l := dv.Len(); l > 0 && l >= b.Velocity.Len() {
		return b.Velocity.Mul(-1)
	}
	return dv
}
