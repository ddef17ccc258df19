package viz

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/arraylab/internal/array"
	"github.com/san-kum/arraylab/internal/capture"
	"github.com/san-kum/arraylab/internal/config"
	"github.com/san-kum/arraylab/internal/grid"
	"github.com/san-kum/arraylab/internal/metrics"
	"github.com/san-kum/arraylab/internal/sim"
)

const (
	historyCapacity = 600
	recordPath      = "arraylab.gif"
	recordCellPx    = 4
)

var cellGlyphs = [grid.NumClasses]string{
	grid.ClassMigratedOld: "█",
	grid.ClassOld:         "█",
	grid.ClassNew:         "█",
	grid.ClassFree:        "░",
	grid.ClassUnallocated: "·",
}

type TickMsg time.Time

// KeyMap defines the key bindings for the live view.
type KeyMap struct {
	Pause   key.Binding
	Reset   key.Binding
	Rewind  key.Binding
	Forward key.Binding
	Record  key.Binding
	Theme   key.Binding
	Help    key.Binding
	Quit    key.Binding
}

// ShortHelp returns key bindings for the one-line help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pause, k.Reset, k.Rewind, k.Record, k.Help, k.Quit}
}

// FullHelp returns key bindings for the expanded help view.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pause, k.Reset, k.Record},
		{k.Rewind, k.Forward, k.Theme},
		{k.Help, k.Quit},
	}
}

// DefaultKeyMap returns default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Pause: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "pause/resume"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Rewind: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "rewind"),
		),
		Forward: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "forward"),
		),
		Record: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "record gif"),
		),
		Theme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "cycle theme"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Model drives one growth simulation per tick and renders its memory
// grid, stats and efficiency history.
type Model struct {
	cfg       config.Config
	hardLimit int
	driver    *sim.Driver
	current   sim.Snapshot
	ops       *metrics.OpsPerAppend
	fps       *metrics.FPSTracker

	history  []sim.Snapshot
	effHist  []float64
	playHead int

	running  bool
	recorder *capture.Recorder

	progress progress.Model
	help     help.Model
	keys     KeyMap
	cells    [grid.NumClasses]lipgloss.Style
}

// NewModel initializes the simulation and view state. The live grid
// shows exactly GridCells slots, so a config without a hard limit gets
// one pinned to the cell count.
func NewModel(cfg config.Config) Model {
	hardLimit := cfg.HardLimit
	if hardLimit == 0 {
		hardLimit = cfg.GridCells()
	}

	driver := sim.NewDriver(array.New(cfg.GrowthFactor, hardLimit))

	m := Model{
		cfg:       cfg,
		hardLimit: hardLimit,
		driver:    driver,
		current:   driver.Snapshot(),
		ops:       metrics.NewOpsPerAppend(),
		fps:       metrics.NewFPSTracker(),
		history:   make([]sim.Snapshot, 0, historyCapacity),
		effHist:   make([]float64, 0, historyCapacity),
		playHead:  -1,
		running:   true,
		progress:  progress.New(progress.WithDefaultGradient(), progress.WithWidth(24)),
		help:      help.New(),
		keys:      DefaultKeyMap(),
	}
	m.applyTheme(cfg.Theme)
	return m
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.cfg.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Update handles input events and steps the simulation.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			if m.recorder != nil {
				m.recorder.Close()
			}
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.running = !m.running
		case key.Matches(msg, m.keys.Reset):
			m.reset()
		case key.Matches(msg, m.keys.Rewind):
			m.scrub(-1)
		case key.Matches(msg, m.keys.Forward):
			m.scrub(1)
		case key.Matches(msg, m.keys.Record):
			if m.recorder != nil {
				m.recorder.Close()
				m.recorder = nil
			} else {
				m.recorder = capture.NewRecorder(recordPath, 100/m.cfg.FPS)
			}
		case key.Matches(msg, m.keys.Theme):
			names := ThemeNames()
			for i, name := range names {
				if name == CurrentTheme.Name {
					m.applyTheme(names[(i+1)%len(names)])
					break
				}
			}
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
	case TickMsg:
		if m.running {
			if m.playHead == -1 {
				m.step()
			} else {
				m.playHead++
				if m.playHead >= len(m.history) {
					m.playHead = -1
				}
			}
		}
		m.fps.Frame()
		if m.recorder != nil {
			m.recorder.Capture(m.displayed(), m.cfg.GridWidth, m.cfg.GridHeight, recordCellPx)
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances the simulation by one tick.
func (m *Model) step() {
	m.current = m.driver.Step()
	m.ops.Observe(m.current)

	m.history = append(m.history, m.current)
	if len(m.history) > historyCapacity {
		m.history = m.history[1:]
	}
	m.effHist = append(m.effHist, m.current.Efficiency)
	if len(m.effHist) > historyCapacity {
		m.effHist = m.effHist[1:]
	}
}

// scrub changes the playback position in history.
func (m *Model) scrub(dir int) {
	if m.playHead == -1 {
		if len(m.history) == 0 {
			return
		}
		m.playHead = len(m.history) - 1
		m.running = false
	}
	m.playHead += dir
	if m.playHead < 0 {
		m.playHead = 0
	}
	if m.playHead >= len(m.history) {
		m.playHead = -1
	}
}

// reset rebuilds the array and driver from the config.
func (m *Model) reset() {
	m.driver = sim.NewDriver(array.New(m.cfg.GrowthFactor, m.hardLimit))
	m.current = m.driver.Snapshot()
	m.ops = metrics.NewOpsPerAppend()
	m.history = m.history[:0]
	m.effHist = m.effHist[:0]
	m.playHead = -1
	m.running = true
}

func (m *Model) applyTheme(name string) {
	SetTheme(name)
	for c := grid.Class(0); c < grid.NumClasses; c++ {
		m.cells[c] = lipgloss.NewStyle().Foreground(CurrentTheme.Cells[c])
	}
}

// displayed returns the snapshot the view should render, which is the
// replay position while scrubbing.
func (m Model) displayed() sim.Snapshot {
	if m.playHead >= 0 && m.playHead < len(m.history) {
		return m.history[m.playHead]
	}
	return m.current
}

func (m Model) status() string {
	var s string
	switch {
	case m.playHead >= 0:
		s = statusReplay.Render(fmt.Sprintf("REPLAY %d/%d", m.playHead+1, len(m.history)))
	case m.current.Terminal():
		s = statusLimit.Render("LIMIT REACHED")
	case !m.running:
		s = statusPaused.Render("PAUSED")
	default:
		s = statusRunning.Render("RUNNING")
	}
	if m.recorder != nil {
		s += "  " + statusRecording.Render(fmt.Sprintf("● REC %d", m.recorder.Frames()))
	}
	return s
}

// renderGrid draws the memory grid row by row as colored spans.
func (m Model) renderGrid(s sim.Snapshot) string {
	var sb strings.Builder
	for row := 0; row < m.cfg.GridHeight; row++ {
		if row > 0 {
			sb.WriteByte('\n')
		}
		for _, span := range grid.RowSpans(s, row*m.cfg.GridWidth, m.cfg.GridWidth) {
			sb.WriteString(m.cells[span.Class].Render(strings.Repeat(cellGlyphs[span.Class], span.Count)))
		}
	}
	return sb.String()
}

// View renders the TUI interface.
func (m Model) View() string {
	snap := m.displayed()
	gridView := gridStyle.Render(m.renderGrid(snap))

	var s strings.Builder
	s.WriteString(headerStyle.Render("ARRAYLAB") + "\n")
	s.WriteString(m.status() + "\n\n")

	s.WriteString(labelStyle.Render("Tick") + valueStyle.Render(fmt.Sprintf("%d", snap.Tick)) + "\n")
	s.WriteString(labelStyle.Render("Phase") + valueStyle.Render(string(snap.Phase)) + "\n")
	s.WriteString(labelStyle.Render("Growth factor") + valueStyle.Render(fmt.Sprintf("%g", snap.GrowthFactor)) + "\n")
	s.WriteString(labelStyle.Render("Capacity") + valueStyle.Render(fmt.Sprintf("%d / %d", snap.Capacity, snap.HardLimit)) + "\n")
	s.WriteString(labelStyle.Render("Size") + valueStyle.Render(fmt.Sprintf("%d", snap.Size)) + "\n")
	s.WriteString(labelStyle.Render("Old generation") + valueStyle.Render(fmt.Sprintf("%d", snap.OldGenerationSize)) + "\n")
	s.WriteString(labelStyle.Render("Resizes") + valueStyle.Render(fmt.Sprintf("%d", snap.Resizes)) + "\n")
	s.WriteString(labelStyle.Render("Migration ops") + valueStyle.Render(fmt.Sprintf("%d", snap.MigrationOps)) + "\n")

	frac := 1.0
	if snap.OldGenerationSize > 0 {
		frac = float64(snap.Migrated) / float64(snap.OldGenerationSize)
	}
	s.WriteString(labelStyle.Render("Migration") + m.progress.ViewAs(frac) + "\n")

	s.WriteString("\n" + Separator(40) + "\n\n")
	s.WriteString(labelStyle.Render("Efficiency") + valueStyle.Render(fmt.Sprintf("%.1f%%", snap.Efficiency*100)) + "\n")
	s.WriteString(labelStyle.Render("Ops per append") + valueStyle.Render(fmt.Sprintf("%.3f", m.ops.Value())) + "\n")
	s.WriteString(labelStyle.Render("FPS cur/min/max") + valueStyle.Render(fmt.Sprintf("%.0f / %.0f / %.0f", m.fps.Current(), m.fps.Min(), m.fps.Max())) + "\n")

	if len(m.effHist) > 1 {
		chart := asciigraph.Plot(m.effHist, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Efficiency"))
		chartStyle := lipgloss.NewStyle().Foreground(CurrentTheme.Graph).Padding(1, 0)
		s.WriteString(chartStyle.Render(chart) + "\n")
	}

	statsView := statsStyle.Render(s.String())
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, gridView, statsView)
	return mainView + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// Run starts the live view with the alternate screen enabled.
func Run(cfg config.Config) error {
	p := tea.NewProgram(NewModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
