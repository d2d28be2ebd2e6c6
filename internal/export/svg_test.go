package export

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/ballsim/internal/analysis"
	"github.com/san-kum/ballsim/internal/material"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/viz"
)

func testFrame() *sim.Frame {
	return &sim.Frame{
		Time: 1,
		Layers: []sim.LayerState{{
			Vertices: []physics.Vec2{{0, 0}, {100, 0}, {50, 80}},
			Active:   []bool{true, false, true},
		}},
		Balls: []physics.Ball{
			{Position: physics.Vec2{50, 30}, Velocity: physics.Vec2{10, 0}, Radius: 5, Material: material.Rubber, Temperature: 1},
			{Position: physics.Vec2{30, 20}, Radius: 4, Material: material.Steel, Temperature: 3},
		},
	}
}

func TestFrameToSVG(t *testing.T) {
	opts := FrameOptions{Width: 200, Height: 100, Ambient: 1, MaxTemp: 3, WallColor: material.Color{R: 1, G: 1, B: 1}}
	svg := FrameToSVG(testFrame(), opts)

	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("not a complete svg document")
	}
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected 2 balls, got %d", got)
	}
	// two active edges plus one spin tick per ball
	if got := strings.Count(svg, "<line"); got != 4 {
		t.Errorf("expected 4 lines, got %d", got)
	}
	if !strings.Contains(svg, material.Rubber.BaseColor.Hex()) {
		t.Error("cold ball should keep its base color")
	}
	if !strings.Contains(svg, material.Hot.Hex()) {
		t.Error("ball at the cap should be drawn hot")
	}
	if strings.Contains(svg, "<text") {
		t.Error("debug text on a normal frame")
	}
}

func TestFrameToSVGSpinTick(t *testing.T) {
	f := testFrame()
	f.Balls = f.Balls[:1]
	f.Balls[0].Angle = math.Pi / 2
	svg := FrameToSVG(f, FrameOptions{Width: 200, Height: 100})
	if !strings.Contains(svg, `x1="50.0" y1="30.0" x2="50.0" y2="34.0"`) {
		t.Errorf("spin tick should follow the ball angle:\n%s", svg)
	}
}

func TestFrameToSVGDebug(t *testing.T) {
	f := testFrame()
	f.Debug = true
	svg := FrameToSVG(f, FrameOptions{Width: 200, Height: 100})
	if got := strings.Count(svg, "<line"); got != 6 {
		t.Errorf("expected velocity lines, got %d lines", got)
	}
	if !strings.Contains(svg, "balls=2") {
		t.Error("debug text missing")
	}
}

func TestDefaultFrameOptions(t *testing.T) {
	cfg := sim.DefaultConfig()
	opts := DefaultFrameOptions(cfg)
	if opts.Width != int(2*cfg.CenterX) || opts.Height != int(2*cfg.CenterY) {
		t.Errorf("unexpected size %dx%d", opts.Width, opts.Height)
	}
}

func TestCanvasToSVG(t *testing.T) {
	if CanvasToSVG(nil, 1) != "" {
		t.Error("nil canvas should give empty output")
	}
	c := viz.NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	svg := CanvasToSVG(c, 2)
	if got := strings.Count(svg, "<circle"); got != 2 {
		t.Errorf("expected 2 dots, got %d", got)
	}
}

func TestTrajectoryToSVG(t *testing.T) {
	if TrajectoryToSVG([]analysis.Point{{X: 1, Y: 1}}, 10, 10, "#fff", false) != "" {
		t.Error("single point should give empty output")
	}
	pts := []analysis.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}}
	svg := TrajectoryToSVG(pts, 100, 50, "#f0a030", true)
	if !strings.Contains(svg, `stroke="#f0a030"`) {
		t.Error("stroke color missing")
	}
	if got := strings.Count(svg, " L"); got != 2 {
		t.Errorf("expected 2 segments, got %d", got)
	}
}
