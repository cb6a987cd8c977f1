package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/fieldsim/internal/metrics"
	"github.com/san-kum/fieldsim/internal/physics"
	"github.com/san-kum/fieldsim/internal/sim"
)

const (
	viewWidth       = 64
	viewHeight      = 28
	historyCapacity = 600
)

type TickMsg time.Time

// Model is the bubbletea model behind `fieldsim watch`. It owns one session
// and advances it by a fixed number of steps per frame.
type Model struct {
	sim       *sim.Simulator
	session   *sim.Session
	every     int
	fps       int
	running   bool
	nodal     bool
	showHelp  bool
	theme     Theme
	canvas    *Canvas
	energy    []float64
	coherence []float64
	last      metrics.Row
	sampled   bool
	frame     int
	err       error
}

// NewModel starts a session on s. every is the number of steps per frame.
func NewModel(s *sim.Simulator, every, fps int) Model {
	return Model{
		sim:       s,
		session:   s.Start(),
		every:     max(1, every),
		fps:       max(1, fps),
		running:   true,
		theme:     Themes[0],
		canvas:    NewCanvas(viewWidth/2, viewHeight/2),
		energy:    make([]float64, 0, historyCapacity),
		coherence: make([]float64, 0, historyCapacity),
	}
}

func (m Model) Session() *sim.Session { return m.session }

func (m Model) Err() error { return m.err }

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "m":
			m.nodal = !m.nodal
		case "t":
			m.theme = nextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		m.frame++
		if m.running && !m.session.Done() && m.err == nil {
			m.advance()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) advance() {
	rows, err := m.session.Advance(m.every)
	for _, r := range rows {
		m.record(r)
	}
	if err != nil {
		m.err = err
		m.running = false
	}
}

func (m *Model) record(r metrics.Row) {
	m.last, m.sampled = r, true
	m.energy = appendCapped(m.energy, r.Energy)
	m.coherence = appendCapped(m.coherence, r.Coherence)
}

func appendCapped(hist []float64, v float64) []float64 {
	hist = append(hist, v)
	if len(hist) > historyCapacity {
		hist = hist[1:]
	}
	return hist
}

// reset discards the session and starts again from a zero field.
func (m *Model) reset() {
	m.session = m.sim.Start()
	m.energy = m.energy[:0]
	m.coherence = m.coherence[:0]
	m.last, m.sampled = metrics.Row{}, false
	m.err = nil
	m.running = true
}

func (m Model) status() string {
	switch {
	case m.err != nil:
		return errorStyle.Render("FAILED")
	case m.session.Done():
		return statusPaused.Render("DONE")
	case !m.running:
		return statusPaused.Render("PAUSED")
	}
	return statusRunning.Render(spinner(m.frame) + " RUNNING")
}

func (m Model) View() string {
	u := m.session.State().U
	var fieldView string
	if m.nodal {
		m.canvas.DrawNodal(u)
		fieldView = m.canvas.String()
	} else {
		fieldView = Heatmap(u, viewWidth, viewHeight, 0, m.theme)
	}

	p := m.sim.Params()
	var s strings.Builder
	s.WriteString(headerStyle.Render(fmt.Sprintf("FIELD %dx%d", p.NY, p.NX)) + "\n")
	s.WriteString(m.status() + "\n\n")
	s.WriteString(ProgressBar(float64(m.session.Step())/float64(p.Steps), 30) + "\n\n")

	if len(m.energy) > 1 {
		chart := asciigraph.Plot(m.energy, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("energy_like"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(labelStyle.Render("Coherence") + Sparkline(m.coherence, 30) + "\n\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Step", fmt.Sprintf("%d/%d", m.session.Step(), p.Steps))
	row("Time", fmt.Sprintf("%.4f", float64(m.session.Step())*p.Dt))
	if m.sampled {
		row("Energy", fmt.Sprintf("%.6g", m.last.Energy))
		row("Coherence", fmt.Sprintf("%.6g", m.last.Coherence))
	}
	row("Courant", fmt.Sprintf("%.4f (max %.4f)", physics.Courant(p.C, p.Dt, p.Dx), physics.MaxCourant))
	row("Source", p.Source)
	row("Theme", m.theme.Name)
	if m.err != nil {
		s.WriteString("\n" + errorStyle.Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────────\nSP:Pause R:Reset Q:Quit\nM:Nodal  T:Theme  ?:Help"))

	main := lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(fieldView), statsStyle.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + main
	}
	return main
}

const helpText = `
  Space  pause or resume
  R      restart from a zero field
  M      toggle heatmap / nodal lines
  T      cycle colour themes
  Q      quit
  ?      toggle this help
`
