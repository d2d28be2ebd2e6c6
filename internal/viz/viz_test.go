package viz

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(3, 5)
	if !c.IsSet(3, 5) {
		t.Fatal("dot not set")
	}
	if c.Grid[1][1] == 0x2800 {
		t.Error("cell rune unchanged")
	}
	c.Unset(3, 5)
	if c.IsSet(3, 5) || c.Grid[1][1] != 0x2800 {
		t.Error("dot not cleared")
	}

	// out of range is ignored
	c.Set(-1, 0)
	c.Set(100, 100)
	if c.IsSet(-1, 0) || c.IsSet(100, 100) {
		t.Error("out of range dots reported set")
	}
}

func TestCanvasShapes(t *testing.T) {
	c := NewCanvas(20, 10)
	c.DrawLine(0, 0, 39, 39)
	if !c.IsSet(0, 0) || !c.IsSet(39, 39) || !c.IsSet(20, 20) {
		t.Error("diagonal line missing dots")
	}

	c.Clear()
	c.DrawCircle(20, 20, 5)
	for _, p := range [][2]int{{25, 20}, {15, 20}, {20, 25}, {20, 15}} {
		if !c.IsSet(p[0], p[1]) {
			t.Errorf("circle missing %v", p)
		}
	}
	if c.IsSet(20, 20) {
		t.Error("outline should not fill the center")
	}

	c.FillCircle(20, 20, 3)
	if !c.IsSet(20, 20) || !c.IsSet(22, 21) {
		t.Error("filled circle has holes")
	}

	if lines := strings.Count(c.String(), "\n"); lines != 10 {
		t.Errorf("expected 10 rows, got %d", lines)
	}
}

func TestModelKeys(t *testing.T) {
	s, err := sim.New(sim.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	var m tea.Model = NewModel(s, "classic", 1.0/60)

	m, _ = m.Update(TickMsg{})
	if s.Stats().Frames != 1 {
		t.Errorf("expected 1 frame, got %d", s.Stats().Frames)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
	m, _ = m.Update(TickMsg{})
	if s.Stats().Frames != 1 {
		t.Error("paused model advanced")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'d'}})
	if !s.DebugVisible() {
		t.Error("debug not toggled")
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'r'}})
	if s.Stats().Regenerations != 1 {
		t.Errorf("expected 1 regeneration, got %d", s.Stats().Regenerations)
	}

	view := m.View()
	if !strings.Contains(view, "CLASSIC") || !strings.Contains(view, "PAUSED") {
		t.Error("view missing title or status")
	}
}

func TestSparkline(t *testing.T) {
	if got := SparklineChart(nil, 5); got != "─────" {
		t.Errorf("empty sparkline = %q", got)
	}
	if got := SparklineChart([]float64{1, 2, 3}, 10); !strings.Contains(got, "█") {
		t.Error("sparkline missing peak")
	}
}

func TestNextTheme(t *testing.T) {
	seen := map[string]bool{}
	th := Themes[0]
	for range Themes {
		seen[th.Name] = true
		th = NextTheme(th)
	}
	if len(seen) != len(Themes) || th.Name != Themes[0].Name {
		t.Error("themes do not cycle")
	}
}

func TestDrawFrame(t *testing.T) {
	cfg := sim.DefaultConfig()
	f := &sim.Frame{
		Layers: []sim.LayerState{{
			Vertices: []physics.Vec2{{cfg.CenterX - 100, cfg.CenterY}, {cfg.CenterX + 100, cfg.CenterY}},
			Active:   []bool{true, false},
		}},
		Balls: []physics.Ball{{Position: physics.Vec2{cfg.CenterX, cfg.CenterY - 200}, Radius: 20}},
	}
	c := NewCanvas(64, 36)
	DrawFrame(c, f, cfg)

	w, h := c.Size()
	if !c.IsSet(w/2, h/2) {
		t.Error("edge through the center not drawn")
	}
	p := newProjection(c, cfg)
	x, y := p.point(f.Balls[0].Position)
	if !c.IsSet(x, y) {
		t.Error("ball center not filled")
	}
}
