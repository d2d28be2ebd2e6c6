package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/ballsim/internal/vecmath"
)

// Facing selects which side of a layer's edges is treated as free space
// when a ball center lies exactly on an edge.
type Facing int

const (
	// Inward layers contain balls; fallback normals point at the center.
	Inward Facing = iota
	// Outward layers are obstacles; fallback normals point away from it.
	Outward
)

func (f Facing) String() string {
	if f == Outward {
		return "outward"
	}
	return "inward"
}

func ParseFacing(s string) (Facing, error) {
	switch s {
	case "", "inward":
		return Inward, nil
	case "outward":
		return Outward, nil
	}
	return Inward, fmt.Errorf("unknown facing %q", s)
}

// Edge is one active side of a layer at the current rotation.
type Edge struct {
	A, B Vec2
	// Normal is the unit normal on the free-space side given the layer's Facing.
	Normal Vec2
	Index  int
}

// PolygonLayer is a regular polygon rotating about Center. Its vertices and
// edges are derived from Angle on demand.
type PolygonLayer struct {
	Center       Vec2
	Radius       float64
	Sides        int
	Angle        float64
	AngularSpeed float64
	// Phase offsets vertex 0 from the +x axis.
	Phase  float64
	Facing Facing
	// Missing marks gap edges; nil means every edge is present.
	Missing []bool
}

func NewPolygonLayer(center Vec2, radius float64, sides int, angularSpeed float64) PolygonLayer {
	return PolygonLayer{
		Center:       center,
		Radius:       radius,
		Sides:        sides,
		AngularSpeed: angularSpeed,
	}
}

// Advance rotates the layer by AngularSpeed*h, keeping Angle in [0, 2π).
func (l *PolygonLayer) Advance(h float64) {
	l.Angle = vecmath.NormalizeAngle(l.Angle + l.AngularSpeed*h)
}

// Vertices returns the polygon corners at the current angle.
func (l *PolygonLayer) Vertices() []Vec2 {
	verts := make([]Vec2, l.Sides)
	base := l.Center.Add(Vec2{l.Radius, 0})
	step := 2 * math.Pi / float64(l.Sides)
	for i := range verts {
		verts[i] = vecmath.RotateAbout(base, l.Center, l.Angle+l.Phase+float64(i)*step)
	}
	return verts
}

func (l *PolygonLayer) EdgeActive(i int) bool {
	return i >= len(l.Missing) || !l.Missing[i]
}

func (l *PolygonLayer) ActiveEdgeCount() int {
	n := 0
	for i := 0; i < l.Sides; i++ {
		if l.EdgeActive(i) {
			n++
		}
	}
	return n
}

// Edges returns the active edges at the current angle.
func (l *PolygonLayer) Edges() []Edge {
	return l.appendEdges(nil)
}

func (l *PolygonLayer) appendEdges(dst []Edge) []Edge {
	verts := l.Vertices()
	for i := range verts {
		if !l.EdgeActive(i) {
			continue
		}
		a, b := verts[i], verts[(i+1)%len(verts)]
		mid := a.Add(b).Mul(0.5)
		n, _ := vecmath.Normalize(l.Center.Sub(mid))
		if l.Facing == Outward {
			n = n.Mul(-1)
		}
		dst = append(dst, Edge{A: a, B: b, Normal: n, Index: i})
	}
	return dst
}

// Inradius is the distance from the center to the middle of each edge.
func (l *PolygonLayer) Inradius() float64 {
	return l.Radius * math.Cos(math.Pi/float64(l.Sides))
}

// Contains reports whether p lies inside the full polygon outline,
// ignoring gaps.
func (l *PolygonLayer) Contains(p Vec2) bool {
	return PointInPolygon(p, l.Vertices())
}

// PointInPolygon is the even-odd crossing test.
func PointInPolygon(p Vec2, verts []Vec2) bool {
	inside := false
	for i, j := 0, len(verts)-1; i < len(verts); j, i = i, i+1 {
		a, b := verts[i], verts[j]
		if (a[1] > p[1]) != (b[1] > p[1]) {
			x := (b[0]-a[0])*(p[1]-a[1])/(b[1]-a[1]) + a[0]
			if p[0] < x {
				inside = !inside
			}
		}
	}
	return inside
}

// Clone returns a copy that shares no slices with l.
func (l PolygonLayer) Clone() PolygonLayer {
	if l.Missing != nil {
		l.Missing = append([]bool(nil), l.Missing...)
	}
	return l
}
