package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/sim"
)

var (
	menuTitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSub    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursor = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuActive = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuValue  = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuIdle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

// tunable lists the knobs offered on the config screen.
var tunable = []string{"seed", "gravity", "min_balls", "max_balls", "rotation_speed", "air_density", "substeps", "spin_transfer"}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

type menuModel struct {
	state, cursor int
	presets       []string
	cfg           *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	err           string
	width, height int
	liveModel     Model
}

func NewInteractiveApp() *menuModel {
	return &menuModel{state: stateMenu, presets: config.ListPresets(), width: 80, height: 24}
}

func (m menuModel) Init() tea.Cmd { return nil }

func (m menuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	}
	if m.state == stateSim {
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m menuModel) handleKey(msg tea.KeyMsg) (menuModel, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.liveModel.Update(msg)
		m.liveModel = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m menuModel) menuKey(msg tea.KeyMsg) (menuModel, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.cfg = config.GetPreset(m.presets[m.cursor])
		m.state, m.paramCursor, m.err = stateConfig, 0, ""
	}
	return m, nil
}

func (m menuModel) configKey(msg tea.KeyMsg) (menuModel, tea.Cmd) {
	name := tunable[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			var val float64
			if _, err := fmt.Sscanf(m.editBuf, "%f", &val); err == nil {
				m.setParam(name, val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if len(msg.String()) == 1 {
				c := msg.String()[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += string(c)
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(tunable)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, fmt.Sprintf("%g", m.param(name))
	case "left", "h":
		m.setParam(name, m.param(name)*0.9)
	case "right", "l":
		m.setParam(name, m.param(name)*1.1)
	case "s":
		cmd := m.start()
		return m, cmd
	}
	return m, nil
}

func (m *menuModel) param(name string) float64 {
	if name == "rotation_speed" {
		if len(m.cfg.Arena.Layers) == 0 {
			return 0
		}
		v := m.cfg.Arena.Layers[0].Speed
		if v < 0 {
			v = -v
		}
		return v
	}
	return m.cfg.GetParams()[name]
}

func (m *menuModel) setParam(name string, v float64) {
	if err := m.cfg.SetParam(name, v); err != nil {
		m.err = err.Error()
	}
}

func (m *menuModel) start() tea.Cmd {
	sc, err := m.cfg.ToSim()
	if err == nil {
		var s *sim.Simulation
		if s, err = sim.New(sc); err == nil {
			m.liveModel = NewModel(s, m.cfg.Name, m.cfg.Run.Dt)
			m.state, m.err = stateSim, ""
			return m.liveModel.Init()
		}
	}
	m.err = err.Error()
	return nil
}

func (m menuModel) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.liveModel.View()
	}
	return ""
}

func header(title, sub string) string {
	return "\n\n    " + menuTitle.Render(title) + "\n    " + menuSub.Render(sub) + "\n    " + menuSub.Render("─────────────────────────") + "\n\n"
}

func hints(pairs ...string) string {
	var b strings.Builder
	b.WriteString("\n    ")
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(menuKey.Render(pairs[i]) + menuIdle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String() + "\n"
}

func (m menuModel) viewMenu() string {
	var b strings.Builder
	b.WriteString(header("BALLSIM", "balls in rotating polygons"))
	for i, name := range m.presets {
		p := config.Presets[name]
		desc := fmt.Sprintf("%d layers, %d-%d balls", len(p.Arena.Layers), p.Balls.Min, p.Balls.Max)
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-10s", name)), menuValue.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("      %s  %s\n", menuIdle.Render(fmt.Sprintf("%-10s", name)), menuIdle.Render(desc)))
		}
	}
	b.WriteString(hints("j/k", "navigate", "enter", "select", "q", "quit"))
	return b.String()
}

func (m menuModel) viewConfig() string {
	var b strings.Builder
	b.WriteString(header(strings.ToUpper(m.cfg.Name), "tune and press s to start"))
	for i, name := range tunable {
		valStr := fmt.Sprintf("%10.4g", m.param(name))
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%10s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", menuCursor.Render("▸"), menuActive.Render(fmt.Sprintf("%-15s", name)), menuValue.Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("      %s %s\n", menuIdle.Render(fmt.Sprintf("%-15s", name)), menuIdle.Render(valStr)))
		}
	}
	if m.err != "" {
		b.WriteString("\n    " + SparkHigh.Render(m.err) + "\n")
	}
	b.WriteString(hints("j/k", "select", "h/l", "adjust", "enter", "edit", "s", "start", "esc", "back"))
	return b.String()
}

func RunInteractive() error {
	_, err := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen()).Run()
	return err
}
