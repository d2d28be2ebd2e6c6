package viz

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ballsim/internal/physics"
	"github.com/san-kum/ballsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 300
	rippleFrames    = 12
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(46)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

type TickMsg time.Time

type ripple struct {
	pos physics.Vec2
	age int
}

// Model drives a Simulation from bubbletea ticks and draws it on a
// braille canvas.
type Model struct {
	sim           *sim.Simulation
	name          string
	dt, speed     float64
	width, height int
	canvas        *Canvas
	theme         Theme
	running       bool
	showHelp      bool
	status        string
	energyHistory []float64
	hitHistory    []float64
	ripples       []ripple
}

func NewModel(s *sim.Simulation, name string, dt float64) Model {
	return Model{
		sim:           s,
		name:          name,
		dt:            dt,
		speed:         1,
		width:         width,
		height:        height,
		canvas:        NewCanvas(width, height),
		theme:         ThemeCyberpunk,
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
		hitHistory:    make([]float64, 0, historyCapacity),
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case ".":
			if !m.running {
				m.step()
			}
		case "r":
			m.regenerate()
		case "d":
			m.sim.SetDebugVisible(!m.sim.DebugVisible())
		case "t":
			m.theme = NextTheme(m.theme)
		case "+", "=":
			m.speed = math.Min(4, m.speed*2)
		case "-", "_":
			m.speed = math.Max(0.125, m.speed/2)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		w := max(20, msg.Width-52)
		h := max(8, msg.Height-4)
		if w != m.width || h != m.height {
			m.width, m.height = w, h
			m.canvas = NewCanvas(w, h)
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		m.age()
		return m, tick()
	}
	return m, nil
}

func (m *Model) step() {
	notes := m.sim.Advance(m.dt * m.speed)
	for _, n := range notes {
		m.ripples = append(m.ripples, ripple{pos: n.Position})
	}
	m.energyHistory = appendCapped(m.energyHistory, m.sim.Energy().Total())
	m.hitHistory = appendCapped(m.hitHistory, float64(len(notes)))
}

func (m *Model) age() {
	kept := m.ripples[:0]
	for _, r := range m.ripples {
		r.age++
		if r.age < rippleFrames {
			kept = append(kept, r)
		}
	}
	m.ripples = kept
}

func (m *Model) regenerate() {
	if err := m.sim.Regenerate(); err != nil {
		m.status = err.Error()
		return
	}
	m.status = ""
	m.ripples = m.ripples[:0]
	m.energyHistory = m.energyHistory[:0]
	m.hitHistory = m.hitHistory[:0]
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

// projection maps arena coordinates to canvas dots, fitting an arena
// centered on (cx, cy) to the canvas and keeping its aspect ratio.
type projection struct {
	cx, cy, scale float64
	w, h          int
}

func newProjection(c *Canvas, cfg sim.Config) projection {
	w, h := c.Size()
	return projection{
		cx:    cfg.CenterX,
		cy:    cfg.CenterY,
		scale: math.Min(float64(w)/(2*cfg.CenterX), float64(h)/(2*cfg.CenterY)),
		w:     w,
		h:     h,
	}
}

func (p projection) point(v physics.Vec2) (int, int) {
	x := float64(p.w)/2 + (v[0]-p.cx)*p.scale
	y := float64(p.h)/2 + (v[1]-p.cy)*p.scale
	return int(math.Round(x)), int(math.Round(y))
}

// DrawFrame draws the active edges and the balls of f on c. Debug frames
// also get velocity lines.
func DrawFrame(c *Canvas, f *sim.Frame, cfg sim.Config) {
	p := newProjection(c, cfg)
	for _, l := range f.Layers {
		n := len(l.Vertices)
		for i := 0; i < n; i++ {
			if !l.Active[i] {
				continue
			}
			x0, y0 := p.point(l.Vertices[i])
			x1, y1 := p.point(l.Vertices[(i+1)%n])
			c.DrawLine(x0, y0, x1, y1)
		}
	}

	for i := range f.Balls {
		b := &f.Balls[i]
		x, y := p.point(b.Position)
		c.FillCircle(x, y, int(math.Max(1, b.Radius*p.scale)))
		if f.Debug {
			ex, ey := p.point(b.Position.Add(b.Velocity.Mul(0.05)))
			c.DrawLine(x, y, ex, ey)
		}
	}
}

func (m *Model) draw() {
	m.canvas.Clear()
	f := m.sim.Snapshot()
	DrawFrame(m.canvas, &f, m.sim.Config())

	p := newProjection(m.canvas, m.sim.Config())
	for _, r := range m.ripples {
		x, y := p.point(r.pos)
		m.canvas.DrawCircle(x, y, 1+r.age/3)
	}
}

func (m Model) View() string {
	m.draw()
	f := m.sim.Snapshot()
	cfg := m.sim.Config()
	stats := m.sim.Stats()
	title := lipgloss.NewStyle().Foreground(m.theme.Primary).Bold(true)
	accent := lipgloss.NewStyle().Foreground(m.theme.Accent)

	var s strings.Builder
	s.WriteString(title.Render(strings.ToUpper(m.name)) + "\n")
	status := StatusRunning.Render("RUNNING")
	if !m.running {
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString(fmt.Sprintf("%s  x%.3g\n", status, m.speed))
	if m.status != "" {
		s.WriteString(SparkHigh.Render(m.status) + "\n")
	}
	s.WriteString("\n")

	row := func(label, value string) {
		s.WriteString(MetricLabel.Render(label) + MetricValue.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", f.Time))
	row("Balls", fmt.Sprintf("%d", len(f.Balls)))
	row("Energy", fmt.Sprintf("%.3g", f.Energy.Total()))
	row("  linear", fmt.Sprintf("%.3g", f.Energy.Linear))
	row("  spin", fmt.Sprintf("%.3g", f.Energy.Rotational))
	row("  heat", fmt.Sprintf("%.3g", f.Energy.Thermal))
	row("Impacts", fmt.Sprintf("%d wall / %d ball", stats.WallImpacts, stats.BallImpacts))

	mean := 0.0
	for i := range f.Balls {
		mean += f.Balls[i].Temperature
	}
	if len(f.Balls) > 0 {
		mean /= float64(len(f.Balls))
	}
	frac := 0.0
	if span := cfg.MaxTemperature - cfg.Ambient; span > 0 {
		frac = (mean - cfg.Ambient) / span
	}
	s.WriteString(MetricLabel.Render("Heat") + HeatBar(frac, 20) + "\n")

	s.WriteString("\n" + materialLegend(f.Balls) + "\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(32), asciigraph.Caption("energy"))
		s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Graph).Render(chart) + "\n")
	}
	s.WriteString(accent.Render("hits ") + SparklineChart(m.hitHistory, 32) + "\n")

	if f.Debug {
		s.WriteString("\n" + Subtle.Render(fmt.Sprintf("substeps %d  frames %d  regen %d", cfg.Substeps, stats.Frames, stats.Regenerations)) + "\n")
	}

	s.WriteString(helpStyle.Render(Separator(30) + "\nSPC:pause R:regen D:debug\nT:theme +/-:speed ?:help Q:quit"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasStyle.Render(m.canvas.String()), statsStyle.Render(s.String()))
	if m.showHelp {
		return KeyHint.Render(`
  Space  pause / resume
  .      single frame while paused
  R      regenerate balls and layers
  D      debug overlay (velocity vectors)
  T      cycle theme
  + / -  simulation speed
  Q      quit
`) + "\n" + mainView
	}
	return mainView
}

func materialLegend(balls []physics.Ball) string {
	counts := make(map[string]int)
	colors := make(map[string]string)
	for i := range balls {
		name := balls[i].Material.Name
		counts[name]++
		colors[name] = Swatch(balls[i].Material.BaseColor)
	}
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s %s %d", colors[name], name, counts[name])
	}
	return strings.Join(parts, "  ")
}

// Run opens the live view full-screen until the user quits.
func Run(s *sim.Simulation, name string, dt float64) error {
	_, err := tea.NewProgram(NewModel(s, name, dt), tea.WithAltScreen()).Run()
	return err
}
