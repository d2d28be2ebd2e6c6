package sim

import (
	"math"

	"github.com/san-kum/ballsim/internal/physics"
)

// Regenerate discards every ball, rebuilds the layers and places a new
// random set of balls. On failure the previous state is left untouched.
func (s *Simulation) Regenerate() error {
	layers := s.buildLayers()
	balls, err := s.placeBalls(layers)
	if err != nil {
		return err
	}
	s.world.Balls = balls
	s.world.Layers = layers
	s.notes = s.notes[:0]
	s.stats.Regenerations++
	return nil
}

func (s *Simulation) buildLayers() []physics.PolygonLayer {
	center := physics.Vec2{s.cfg.CenterX, s.cfg.CenterY}
	layers := make([]physics.PolygonLayer, len(s.cfg.Layers))
	for i, lc := range s.cfg.Layers {
		l := physics.NewPolygonLayer(center, lc.Radius, lc.Sides, lc.AngularSpeed)
		l.Facing = lc.Facing
		if s.cfg.RandomizeLayers {
			l.Angle = s.rng.Float64() * 2 * math.Pi
			l.AngularSpeed *= 0.5 + s.rng.Float64()
			if s.rng.Intn(2) == 0 {
				l.AngularSpeed = -l.AngularSpeed
			}
		}
		if lc.Gaps > 0 {
			l.Missing = make([]bool, lc.Sides)
			for _, e := range s.rng.Perm(lc.Sides)[:lc.Gaps] {
				l.Missing[e] = true
			}
		}
		layers[i] = l
	}
	return layers
}

func (s *Simulation) placeBalls(layers []physics.PolygonLayer) ([]physics.Ball, error) {
	c := s.cfg
	count := c.MinBalls
	if c.MaxBalls > c.MinBalls {
		count += s.rng.Intn(c.MaxBalls - c.MinBalls + 1)
	}

	var outer *physics.PolygonLayer
	var edges []physics.Edge
	for i := range layers {
		if outer == nil || layers[i].Radius > outer.Radius {
			outer = &layers[i]
		}
		edges = append(edges, layers[i].Edges()...)
	}
	reach := outer.Inradius()

	balls := make([]physics.Ball, 0, count)
	for n := 0; n < count; n++ {
		radius := c.Radius.Sample(s.rng.Float64())
		mat := c.Materials[s.rng.Intn(len(c.Materials))]

		placed := false
		for attempt := 0; attempt < c.PlacementAttempts && !placed; attempt++ {
			span := reach - radius
			if span <= 0 {
				break
			}
			angle := s.rng.Float64() * 2 * math.Pi
			dist := math.Sqrt(s.rng.Float64()) * span
			pos := outer.Center.Add(physics.Vec2{math.Cos(angle), math.Sin(angle)}.Mul(dist))

			cand := physics.NewBall(pos, physics.Vec2{}, 0, radius, mat, c.Ambient)
			if !s.fits(&cand, balls, edges) || insideObstacle(pos, layers) {
				continue
			}
			cand.Velocity = physics.Vec2{c.LaunchX.Sample(s.rng.Float64()), c.LaunchY.Sample(s.rng.Float64())}
			cand.Spin = c.Spin.Sample(s.rng.Float64())
			balls = append(balls, cand)
			placed = true
		}
		if !placed {
			return nil, &PlacementError{Ball: n, Count: count, Attempts: c.PlacementAttempts}
		}
	}
	return balls, nil
}

func (s *Simulation) fits(b *physics.Ball, placed []physics.Ball, edges []physics.Edge) bool {
	for i := range placed {
		if b.Overlaps(&placed[i]) {
			return false
		}
	}
	for _, e := range edges {
		if _, hit := physics.DetectWall(b, e); hit {
			return false
		}
	}
	return true
}

func insideObstacle(p physics.Vec2, layers []physics.PolygonLayer) bool {
	for i := range layers {
		if layers[i].Facing == physics.Outward && layers[i].Contains(p) {
			return true
		}
	}
	return false
}
