package analysis

import (
	"fmt"
	"strings"

	"github.com/san-kum/ballsim/internal/sim"
)

type Point struct{ X, Y float64 }

// Trajectory is the path of one ball through the arena.
type Trajectory struct {
	Ball   int
	Points []Point
}

// PhasePortrait plots a ball's speed against its spin.
type PhasePortrait struct {
	Ball   int
	Points []Point
}

// TrackBall advances s for duration at dt and records ball idx's position
// and its speed/spin pair after every frame.
func TrackBall(s *sim.Simulation, idx int, dt, duration float64) (*Trajectory, *PhasePortrait, error) {
	if idx < 0 || idx >= len(s.Balls()) {
		return nil, nil, fmt.Errorf("ball %d out of range [0, %d)", idx, len(s.Balls()))
	}
	if !(dt > 0) {
		return nil, nil, fmt.Errorf("dt must be positive, got %f", dt)
	}
	frames := int(duration / dt)
	traj := &Trajectory{Ball: idx, Points: make([]Point, 0, frames)}
	portrait := &PhasePortrait{Ball: idx, Points: make([]Point, 0, frames)}

	for i := 0; i < frames; i++ {
		s.Advance(dt)
		b := s.Balls()[idx]
		traj.Points = append(traj.Points, Point{b.Position[0], b.Position[1]})
		portrait.Points = append(portrait.Points, Point{b.Speed(), b.Spin})
	}
	return traj, portrait, nil
}

// ToASCII draws points on a width x height grid. flipY puts larger Y at
// the top, which suits phase portraits; screen-space trajectories pass false.
func ToASCII(points []Point, width, height int, flipY bool) string {
	if len(points) == 0 || width < 2 || height < 2 {
		return ""
	}

	minX, maxX := points[0].X, points[0].X
	minY, maxY := points[0].Y, points[0].Y
	for _, p := range points {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}

	rangeX := maxX - minX
	rangeY := maxY - minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	minX -= rangeX * 0.1
	minY -= rangeY * 0.1
	rangeX *= 1.2
	rangeY *= 1.2

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", width))
	}

	for _, p := range points {
		col := int((p.X - minX) / rangeX * float64(width-1))
		row := int((p.Y - minY) / rangeY * float64(height-1))
		if flipY {
			row = height - 1 - row
		}
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}

	// zero axis for signed quantities such as spin
	if flipY && minY <= 0 && minY+rangeY >= 0 {
		row := height - 1 - int((0-minY)/rangeY*float64(height-1))
		for col := 0; col < width; col++ {
			if row >= 0 && row < height && canvas[row][col] == ' ' {
				canvas[row][col] = '─'
			}
		}
	}

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(string(row))
		sb.WriteRune('\n')
	}
	return sb.String()
}
