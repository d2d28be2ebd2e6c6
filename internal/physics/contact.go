package physics

import "github.com/san-kum/ballsim/internal/vecmath"

type ContactKind int

const (
	WallContact ContactKind = iota
	BallContact
)

func (k ContactKind) String() string {
	if k == BallContact {
		return "ball"
	}
	return "wall"
}

// ContactEvent describes one overlap found during a substep. Balls are
// referenced by index into the slice passed to the detector.
//
// For wall contacts Normal points from the wall toward the ball center.
// For ball contacts Normal points from B toward A.
type ContactEvent struct {
	Kind        ContactKind
	A, B        int
	Layer, Edge int
	Point       Vec2
	Normal      Vec2
	Penetration float64
}

// fallbackNormal is used for coincident ball centers.
var fallbackNormal = Vec2{0, 1}

// DetectWall tests one ball against one edge.
func DetectWall(b *Ball, e Edge) (ContactEvent, bool) {
	closest := vecmath.ClosestPointOnSegment(b.Position, e.A, e.B)
	d := b.Position.Sub(closest)
	dist := d.Len()
	if dist >= b.Radius {
		return ContactEvent{}, false
	}
	n, ok := vecmath.Normalize(d)
	if !ok {
		n = e.Normal
	}
	return ContactEvent{
		Kind:        WallContact,
		B:           -1,
		Edge:        e.Index,
		Point:       closest,
		Normal:      n,
		Penetration: b.Radius - dist,
	}, true
}

// DetectWalls appends a contact to dst for every ball that overlaps an
// active edge of any layer.
func DetectWalls(balls []Ball, layers []PolygonLayer, dst []ContactEvent) []ContactEvent {
	var edges []Edge
	for li := range layers {
		edges = layers[li].appendEdges(edges[:0])
		for _, e := range edges {
			for i := range balls {
				if c, ok := DetectWall(&balls[i], e); ok {
					c.A = i
					c.Layer = li
					dst = append(dst, c)
				}
			}
		}
	}
	return dst
}

// DetectPair tests balls i and j.
func DetectPair(balls []Ball, i, j int) (ContactEvent, bool) {
	a, b := &balls[i], &balls[j]
	d := a.Position.Sub(b.Position)
	r := a.Radius + b.Radius
	distSq := d.LenSqr()
	if distSq >= r*r {
		return ContactEvent{}, false
	}
	n, ok := vecmath.Normalize(d)
	if !ok {
		n = fallbackNormal
	}
	dist := d.Len()
	return ContactEvent{
		Kind:        BallContact,
		A:           i,
		B:           j,
		Layer:       -1,
		Edge:        -1,
		Point:       b.Position.Add(n.Mul(b.Radius - (r-dist)/2)),
		Normal:      n,
		Penetration: r - dist,
	}, true
}

// DetectPairs scans every unordered pair and appends overlaps to dst.
func DetectPairs(balls []Ball, dst []ContactEvent) []ContactEvent {
	for i := 0; i < len(balls); i++ {
		for j := i + 1; j < len(balls); j++ {
			if c, ok := DetectPair(balls, i, j); ok {
				dst = append(dst, c)
			}
		}
	}
	return dst
}
