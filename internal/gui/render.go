package gui

import (
	"fmt"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/ballsim/internal/material"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
	"github.com/san-kum/ballsim/internal/vecmath"
)

func toRL(c material.Color, alpha float64) rl.Color {
	r, g, b := c.RGBA8()
	return rl.NewColor(r, g, b, uint8(255*clamp01(alpha)))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func vec(p physics.Vec2) rl.Vector2 {
	return rl.NewVector2(float32(p[0]), float32(p[1]))
}

func (a *App) drawLayers(f *sim.Frame) {
	wall := toRL(a.Sim.Config().Wall.BaseColor, 1)
	for _, l := range f.Layers {
		n := len(l.Vertices)
		for i := 0; i < n; i++ {
			if !l.Active[i] {
				continue
			}
			rl.DrawLineEx(vec(l.Vertices[i]), vec(l.Vertices[(i+1)%n]), 3, wall)
		}
	}
}

// heat maps a temperature onto [0,1] between ambient and the cap.
func (a *App) heat(t float64) float64 {
	cfg := a.Sim.Config()
	if span := cfg.MaxTemperature - cfg.Ambient; span > 0 {
		return clamp01((t - cfg.Ambient) / span)
	}
	return 0
}

func (a *App) drawBalls(f *sim.Frame) {
	for i := range f.Balls {
		b := &f.Balls[i]
		h := a.heat(b.Temperature)
		color := b.Material.BaseColor.Heated(h)
		pos := vec(b.Position)

		if h > 0.05 {
			size := float32(b.Radius * (3 + 3*h))
			src := rl.NewRectangle(0, 0, float32(a.glow.Width), float32(a.glow.Height))
			dst := rl.NewRectangle(pos.X-size/2, pos.Y-size/2, size, size)
			rl.DrawTexturePro(a.glow, src, dst, rl.NewVector2(0, 0), 0, toRL(material.Hot, 0.6*h))
		}

		rl.DrawCircleV(pos, float32(b.Radius), toRL(color, 1))

		// spin indicator
		tip := b.Position.Add(vecmath.Rotate(physics.Vec2{b.Radius * 0.8, 0}, b.Angle))
		rl.DrawLineV(pos, vec(tip), ColBg)
	}
}

func (a *App) drawRipples() {
	for _, r := range a.Effects.Ripples {
		rl.DrawCircleLines(int32(r.Position[0]), int32(r.Position[1]), float32(r.Radius()), toRL(r.Color, r.Alpha()))
	}
}

func (a *App) drawWaves() {
	for _, w := range a.Effects.Waves {
		rl.DrawCircleLines(int32(w.Origin[0]), int32(w.Origin[1]), float32(w.Radius), toRL(material.Color{R: 1, G: 1, B: 1}, w.Alpha()))
	}
}

// drawTrails fades each trail in from its oldest point.
func (a *App) drawTrails(f *sim.Frame) {
	for i, t := range a.Effects.Trails {
		if i >= len(f.Balls) {
			break
		}
		b := &f.Balls[i]
		color := b.Material.BaseColor.Heated(a.heat(b.Temperature))
		for j, p := range t {
			alpha := float64(j) / float64(len(t)) * 0.3
			rl.DrawCircleV(vec(p), float32(b.Radius*0.5), toRL(color, alpha))
		}
	}
}

func (a *App) drawDebug(f *sim.Frame) {
	for i := range f.Balls {
		b := &f.Balls[i]
		end := b.Position.Add(b.Velocity.Mul(0.1))
		rl.DrawLineV(vec(b.Position), vec(end), rl.Green)
	}
	for _, l := range f.Layers {
		for _, v := range l.Vertices {
			rl.DrawCircleV(vec(v), 2, rl.Red)
		}
	}
}

func (a *App) drawInfo(f *sim.Frame) {
	stats := a.Sim.Stats()
	y := int32(20)
	line := func(text string, col rl.Color) {
		a.drawText(text, 20, y, 16, col)
		y += 20
	}

	line("ballsim :: "+a.Name, ColSelect)
	if !a.Running {
		line("PAUSED", ColTextDim)
	}
	if a.status != "" {
		line(a.status, rl.Red)
	}
	line(fmt.Sprintf("balls      %d", len(f.Balls)), ColText)
	line(fmt.Sprintf("time       %.1fs", f.Time), ColText)
	line(fmt.Sprintf("collisions %d (wall %d, ball %d)", stats.Impacts(), stats.WallImpacts, stats.BallImpacts), ColText)
	line(fmt.Sprintf("energy     %.3g", f.Energy.Total()), ColText)
	line(fmt.Sprintf("  heat     %.3g", f.Energy.Thermal), ColText)

	counts := make(map[string]int)
	colors := make(map[string]material.Color)
	for i := range f.Balls {
		m := f.Balls[i].Material
		counts[m.Name]++
		colors[m.Name] = m.BaseColor
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)
	y += 6
	for _, name := range names {
		rl.DrawCircle(28, y+7, 6, toRL(colors[name], 1))
		a.drawText(fmt.Sprintf("%-8s %d", name, counts[name]), 42, y, 16, ColText)
		y += 20
	}

	a.DrawTelemetry(20, a.height-90, 300, 50)

	audioState := "audio off"
	if a.Audio != nil {
		audioState = "audio on"
		if a.Audio.Muted() {
			audioState = "audio muted"
		}
	}
	a.drawText(fmt.Sprintf("%d FPS  %s", rl.GetFPS(), audioState), 20, a.height-30, 14, ColTextDim)
	a.drawText("[SPACE] INFO  [R] REGEN  [P] PAUSE  [D] DEBUG  [M] MUTE  [Q] QUIT", a.width-560, a.height-30, 14, ColTextDim)
}
