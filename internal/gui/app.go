// Package gui is the raylib window for a running simulation.
package gui

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/ballsim/internal/audio"
	"github.com/san-kum/ballsim/internal/sim"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
)

type App struct {
	Sim     *sim.Simulation
	Name    string
	Running bool
	// ShowInfo toggles the info overlay.
	ShowInfo bool
	Effects  Effects
	Audio    *audio.Processor

	width, height int32
	glow          rl.Texture2D
	log           *log.Logger
	status        string
}

func initWindow(w, h int32, title string) {
	rl.SetConfigFlags(rl.FlagMsaa4xHint)
	rl.InitWindow(w, h, title)
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// NewApp must be called after the window exists. Audio failures are
// logged and the app runs silently.
func NewApp(s *sim.Simulation, name string, withAudio bool, logger *log.Logger) *App {
	cfg := s.Config()
	a := &App{
		Sim:      s,
		Name:     name,
		Running:  true,
		ShowInfo: true,
		width:    int32(2 * cfg.CenterX),
		height:   int32(2 * cfg.CenterY),
		log:      logger,
	}
	s.AddObserver(&a.Effects)

	img := rl.GenImageGradientRadial(64, 64, 0.0, rl.White, rl.NewColor(0, 0, 0, 0))
	a.glow = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)

	if withAudio {
		a.Audio = audio.NewProcessor(cfg.CenterX*2, logger)
		if err := a.Audio.Start(); err != nil {
			a.Audio = nil
		}
	}
	return a
}

// Run opens a window sized to the arena and blocks until it is closed.
func Run(s *sim.Simulation, name string, withAudio bool, logger *log.Logger) {
	cfg := s.Config()
	initWindow(int32(2*cfg.CenterX), int32(2*cfg.CenterY), "ballsim :: "+name)
	defer rl.CloseWindow()

	app := NewApp(s, name, withAudio, logger)
	defer app.Close()
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update(float64(rl.GetFrameTime())) {
			return
		}
		a.Draw()
	}
}

func (a *App) Close() {
	rl.UnloadTexture(a.glow)
	if a.Audio != nil {
		a.Audio.Stop()
	}
}

// Update handles input and advances the simulation by the frame time.
// It returns false when the user quits.
func (a *App) Update(frameTime float64) bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return false
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.ShowInfo = !a.ShowInfo
	}
	if rl.IsKeyPressed(rl.KeyP) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyD) {
		a.Sim.SetDebugVisible(!a.Sim.DebugVisible())
	}
	if rl.IsKeyPressed(rl.KeyM) && a.Audio != nil {
		a.Audio.SetMuted(!a.Audio.Muted())
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := a.Sim.Regenerate(); err != nil {
			a.log.Warn("regenerate failed", "err", err)
			a.status = err.Error()
		} else {
			a.status = ""
			a.Effects.Reset()
		}
	}

	a.Effects.Step(frameTime)
	if !a.Running {
		return true
	}

	notes := a.Sim.Advance(frameTime)
	if a.Audio != nil {
		a.Audio.Trigger(notes)
		a.Audio.SetEnergy(a.Sim.Energy().Total())
	}
	return true
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	f := a.Sim.Snapshot()
	a.drawLayers(&f)
	a.drawWaves()
	a.drawTrails(&f)
	a.drawRipples()
	a.drawBalls(&f)
	if f.Debug {
		a.drawDebug(&f)
	}
	if a.ShowInfo {
		a.drawInfo(&f)
	}

	rl.EndDrawing()
}

func (a *App) drawText(text string, x, y int32, size int32, color rl.Color) {
	rl.DrawText(text, x, y, size, color)
}

func (a *App) DrawTelemetry(x, y, width, height int32) {
	t := a.Effects.Telemetry
	if len(t) < 2 {
		return
	}

	lo, hi := t[0], t[0]
	for _, v := range t {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	if hi == lo {
		hi = lo + 1
	}

	points := make([]rl.Vector2, len(t))
	for i, val := range t {
		px := float32(x) + float32(i)/float32(len(t))*float32(width)
		py := float32(y+height) - float32((val-lo)/(hi-lo))*float32(height)
		points[i] = rl.NewVector2(px, py)
	}
	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("E %.3g", t[len(t)-1]), x+width+10, y+height-10, 14, ColText)
}
