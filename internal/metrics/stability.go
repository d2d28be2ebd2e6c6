package metrics

import (
	"math"

	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

// Escapes is the largest number of balls seen outside the outermost
// layer's outline in a single frame.
type Escapes struct {
	name  string
	worst int
}

func NewEscapes() *Escapes { return &Escapes{name: "escapes"} }

func (e *Escapes) Name() string { return e.name }

func (e *Escapes) Observe(f *sim.Frame) {
	outer := OuterLayer(f.Layers)
	if outer < 0 {
		return
	}
	verts := f.Layers[outer].Vertices
	n := 0
	for i := range f.Balls {
		if !physics.PointInPolygon(f.Balls[i].Position, verts) {
			n++
		}
	}
	if n > e.worst {
		e.worst = n
	}
}

func (e *Escapes) Value() float64 { return float64(e.worst) }
func (e *Escapes) Reset()         { e.worst = 0 }

// OuterLayer returns the index of the layer with the largest area, or -1.
func OuterLayer(layers []sim.LayerState) int {
	idx, best := -1, 0.0
	for i := range layers {
		if a := area(layers[i].Vertices); a > best {
			idx, best = i, a
		}
	}
	return idx
}

func area(verts []physics.Vec2) float64 {
	sum := 0.0
	for i := range verts {
		a, b := verts[i], verts[(i+1)%len(verts)]
		sum += a[0]*b[1] - b[0]*a[1]
	}
	return math.Abs(sum) / 2
}

// Stability is the fraction of frames in which every ball is valid:
// finite state, positive mass and a temperature within [ambient, cap].
type Stability struct {
	name       string
	ambient    float64
	maxTemp    float64
	violations int
	samples    int
}

func NewStability(ambient, maxTemp float64) *Stability {
	return &Stability{
		name:    "stability",
		ambient: ambient,
		maxTemp: maxTemp,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f *sim.Frame) {
	s.samples++
	for i := range f.Balls {
		b := &f.Balls[i]
		if !b.Valid(s.ambient) || (s.maxTemp > 0 && b.Temperature > s.maxTemp+1e-9) {
			s.violations++
			break
		}
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
