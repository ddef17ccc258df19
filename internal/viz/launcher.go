package viz

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/arraylab/internal/config"
)

var (
	menuTitleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	menuSubStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	menuCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	menuItemStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	menuDimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	menuFaintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444455"))
	menuDescStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	menuKeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	menuErrStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

var presetInfo = map[string]string{
	"aggressive": "growth 3.0, sparse resizes",
	"bounded":    "doubling into a 256k ceiling",
	"crawl":      "growth 1.1, resize churn",
	"doubling":   "classic factor 2 growth",
	"gentle":     "growth 1.25, steady migration",
	"golden":     "golden ratio growth",
}

var paramSteps = map[string]float64{
	"growth factor": 0.05,
	"hard limit":    1024,
	"ticks":         1000,
	"fps":           5,
}

const (
	stateMenu = iota
	stateConfig
	stateSim
)

type launcher struct {
	state, cursor int
	presets       []string
	selected      string
	params        map[string]float64
	paramNames    []string
	paramCursor   int
	editing       bool
	editBuf       string
	errMsg        string
	live          Model
}

func NewLauncher() *launcher {
	return &launcher{
		state:      stateMenu,
		presets:    config.ListPresets(),
		paramNames: []string{"growth factor", "hard limit", "ticks", "fps"},
	}
}

func (m launcher) Init() tea.Cmd { return nil }

func (m launcher) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			newLive, cmd := m.live.Update(msg)
			m.live = newLive.(Model)
			return m, cmd
		}
	}
	return m, nil
}

func (m launcher) handleKey(msg tea.KeyMsg) (launcher, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		newLive, cmd := m.live.Update(msg)
		m.live = newLive.(Model)
		return m, cmd
	}
	return m, nil
}

func (m launcher) menuKey(msg tea.KeyMsg) (launcher, tea.Cmd) {
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
		m.selected = m.presets[m.cursor]
		m.loadPreset()
		m.state, m.paramCursor = stateConfig, 0
	}
	return m, nil
}

func (m launcher) configKey(msg tea.KeyMsg) (launcher, tea.Cmd) {
	if m.editing {
		switch msg.String() {
		case "enter":
			if val, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				m.params[m.paramNames[m.paramCursor]] = val
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
		m.state, m.errMsg = stateMenu, ""
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(m.paramNames)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		name := m.paramNames[m.paramCursor]
		m.editing, m.editBuf = true, strings.TrimSpace(formatParam(name, m.params[name]))
	case "s":
		cmd := m.start()
		return m, cmd
	case "left", "h":
		name := m.paramNames[m.paramCursor]
		m.params[name] -= paramSteps[name]
	case "right", "l":
		name := m.paramNames[m.paramCursor]
		m.params[name] += paramSteps[name]
	}
	return m, nil
}

func (m *launcher) loadPreset() {
	cfg := config.GetPreset(m.selected)
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	m.params = map[string]float64{
		"growth factor": cfg.GrowthFactor,
		"hard limit":    float64(cfg.HardLimit),
		"ticks":         float64(cfg.Ticks),
		"fps":           float64(cfg.FPS),
	}
	m.errMsg = ""
}

func (m *launcher) start() tea.Cmd {
	cfg := config.GetPreset(m.selected)
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	cfg.GrowthFactor = m.params["growth factor"]
	cfg.HardLimit = int(m.params["hard limit"])
	cfg.Ticks = int(m.params["ticks"])
	cfg.FPS = int(m.params["fps"])
	if err := cfg.Validate(); err != nil {
		m.errMsg = err.Error()
		return nil
	}
	m.errMsg = ""
	m.live = NewModel(*cfg)
	m.state = stateSim
	return m.live.Init()
}

func formatParam(name string, val float64) string {
	if name == "growth factor" {
		return fmt.Sprintf("%8.3f", val)
	}
	return fmt.Sprintf("%8.0f", val)
}

func (m launcher) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View()
	}
	return ""
}

func (m launcher) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitleStyle.Render("ARRAYLAB") + "\n    " + menuSubStyle.Render("growable array simulator") + "\n    " + menuSubStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.presets {
		desc := presetInfo[name]
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s\n", menuCursorStyle.Render("▸"), menuItemStyle.Render(fmt.Sprintf("%-12s", name)), menuDescStyle.Render(desc)))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", menuDimStyle.Render(fmt.Sprintf("  %-12s", name)), menuFaintStyle.Render(desc)))
		}
	}
	b.WriteString("\n    " + menuKeyStyle.Render("j/k") + menuDimStyle.Render(" navigate  ") + menuKeyStyle.Render("enter") + menuDimStyle.Render(" select  ") + menuKeyStyle.Render("q") + menuDimStyle.Render(" quit") + "\n")
	return b.String()
}

func (m launcher) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + menuTitleStyle.Render(strings.ToUpper(m.selected)) + "\n    " + menuSubStyle.Render(presetInfo[m.selected]) + "\n    " + menuSubStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range m.paramNames {
		valStr := formatParam(name, m.params[name])
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", menuCursorStyle.Render("▸"), menuItemStyle.Render(fmt.Sprintf("%-14s", name)), menuDescStyle.Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", menuDimStyle.Render(fmt.Sprintf("  %-14s", name)), menuFaintStyle.Render(valStr)))
		}
	}
	if m.errMsg != "" {
		b.WriteString("\n    " + menuErrStyle.Render(m.errMsg) + "\n")
	}
	b.WriteString("\n    " + menuKeyStyle.Render("j/k") + menuDimStyle.Render(" select  ") + menuKeyStyle.Render("h/l") + menuDimStyle.Render(" adjust  ") + menuKeyStyle.Render("enter") + menuDimStyle.Render(" edit  ") + menuKeyStyle.Render("s") + menuDimStyle.Render(" start  ") + menuKeyStyle.Render("esc") + menuDimStyle.Render(" back") + "\n")
	return b.String()
}

// RunLauncher opens the preset picker and hands off to the live view.
func RunLauncher() error {
	_, err := tea.NewProgram(NewLauncher(), tea.WithAltScreen()).Run()
	return err
}
