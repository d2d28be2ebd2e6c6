// Package vecmath holds the 2D vector and rotation helpers shared by the
// physics core and the drivers. Vectors are mgl64.Vec2 values.
package vecmath

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Vec2 = mgl64.Vec2

const epsilon = 1e-12

var Zero = Vec2{0, 0}

func New(x, y float64) Vec2 { return Vec2{x, y} }

// Rotate turns v counter-clockwise (in a y-up frame) by angle radians.
func Rotate(v Vec2, angle float64) Vec2 {
	return mgl64.Rotate2D(angle).Mul2x1(v)
}

// RotateAbout rotates p about pivot by angle radians.
func RotateAbout(p, pivot Vec2, angle float64) Vec2 {
	return Rotate(p.Sub(pivot), angle).Add(pivot)
}

// Normalize returns the unit vector of v. ok is false for (near) zero
// vectors, in which case the zero vector is returned.
func Normalize(v Vec2) (Vec2, bool) {
	l := v.Len()
	if l < epsilon {
		return Zero, false
	}
	return v.Mul(1 / l), true
}

// Perp returns v rotated by +90 degrees: (-y, x).
func Perp(v Vec2) Vec2 { return Vec2{-v[1], v[0]} }

// Cross is the z component of the 3D cross product of a and b.
func Cross(a, b Vec2) float64 { return a[0]*b[1] - a[1]*b[0] }

func Dist(a, b Vec2) float64 { return a.Sub(b).Len() }

// NormalizeAngle maps a into [0, 2π).
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	if a >= 2*math.Pi {
		a = 0
	}
	return a
}

// ClosestPointOnSegment returns the point of segment ab nearest to p.
func ClosestPointOnSegment(p, a, b Vec2) Vec2 {
	ab := b.Sub(a)
	lenSq := ab.LenSqr()
	if lenSq < epsilon {
		return a
	}
	t := p.Sub(a).Dot(ab) / lenSq
	t = mgl64.Clamp(t, 0, 1)
	return a.Add(ab.Mul(t))
}

func IsFinite(v Vec2) bool {
	return !math.IsNaN(v[0]) && !math.IsNaN(v[1]) && !math.IsInf(v[0], 0) && !math.IsInf(v[1], 0)
}
