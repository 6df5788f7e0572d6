package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/ballsim/internal/config"
	"github.com/san-kum/ballsim/internal/sim"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 300
	// eventsPerTick bounds how many events are dispatched between redraws,
	// so a burst of near-simultaneous collisions doesn't stall the canvas
	// at a single frame for visible wall-clock time.
	eventsPerTick = 25
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2).Width(40)
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(2)
	endedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

type TickMsg time.Time

// Factory builds a fresh Driver for a run, used both to start the model
// and to rebuild state on reset.
type Factory func() (*sim.Driver, error)

// Model drives a sim.Driver one batch of events at a time on each tick,
// rendering ball positions onto a braille canvas alongside a lipgloss
// status panel.
type Model struct {
	cfg     *config.Config
	factory Factory

	driver *sim.Driver
	err    error

	canvas  *Canvas
	running bool
	ended   bool

	energyHistory []float64
}

// NewModel constructs the initial Model from a driver factory.
func NewModel(cfg *config.Config, factory Factory) (Model, error) {
	d, err := factory()
	if err != nil {
		return Model{}, err
	}
	return Model{
		cfg:           cfg,
		factory:       factory,
		driver:        d,
		canvas:        NewCanvas(width, height),
		running:       true,
		energyHistory: make([]float64, 0, historyCapacity),
	}, nil
}

func (m Model) Init() tea.Cmd {
	return tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
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
		}
	case TickMsg:
		if m.running && !m.ended {
			m.step()
		}
		m.draw()
		return m, tea.Tick(time.Second/30, func(t time.Time) tea.Msg { return TickMsg(t) })
	}
	return m, nil
}

func (m *Model) step() {
	for i := 0; i < eventsPerTick; i++ {
		_, empty, ended, err := m.driver.Step()
		if err != nil {
			m.err = err
			m.running = false
			return
		}
		if ended || empty {
			m.ended = true
			m.running = false
			break
		}
	}
	m.energyHistory = append(m.energyHistory, m.driver.KineticEnergy())
	if len(m.energyHistory) > historyCapacity {
		m.energyHistory = m.energyHistory[1:]
	}
}

func (m *Model) reset() {
	d, err := m.factory()
	if err != nil {
		m.err = err
		return
	}
	m.driver = d
	m.err = nil
	m.ended = false
	m.running = true
	m.energyHistory = m.energyHistory[:0]
	m.canvas.Clear()
}

// domainToCanvas maps a ball's physical position to sub-pixel canvas coordinates.
func (m *Model) domainToCanvas(x, y float64) (int, int) {
	cw, ch := m.cfg.DomainSize[0], m.cfg.DomainSize[1]
	subW, subH := float64(m.canvas.Width*2), float64(m.canvas.Height*4)
	px := int((x / cw) * subW)
	py := int(subH - (y/ch)*subH)
	return px, py
}

func (m *Model) draw() {
	m.canvas.Clear()
	for _, b := range m.driver.Balls {
		px, py := m.domainToCanvas(b.Position[0], b.Position[1])
		radiusSub := int((b.Radius / m.cfg.DomainSize[0]) * float64(m.canvas.Width*2))
		m.canvas.DrawDisc(px, py, radiusSub)
	}
}

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(headerStyle.Render("BALLSIM") + "\n")

	status := "RUNNING"
	if m.err != nil {
		status = "ERROR"
	} else if m.ended {
		status = "ENDED"
	} else if !m.running {
		status = "PAUSED"
	}
	s.WriteString(status + "\n\n")

	if len(m.energyHistory) > 1 {
		chart := asciigraph.Plot(m.energyHistory, asciigraph.Height(4), asciigraph.Width(26), asciigraph.Caption("Kinetic energy"))
		s.WriteString(graphStyle.Render(chart) + "\n\n")
	}

	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.3fs", m.driver.Time())) + "\n")
	s.WriteString(labelStyle.Render("Events") + valueStyle.Render(fmt.Sprintf("%d", m.driver.EventsProcessed())) + "\n")
	s.WriteString(labelStyle.Render("Discarded") + valueStyle.Render(fmt.Sprintf("%d", m.driver.Queue.Discarded())) + "\n")
	s.WriteString(labelStyle.Render("Balls") + valueStyle.Render(fmt.Sprintf("%d", len(m.driver.Balls))) + "\n")
	s.WriteString(labelStyle.Render("Energy") + valueStyle.Render(fmt.Sprintf("%.3f", m.driver.KineticEnergy())) + "\n")

	if m.err != nil {
		s.WriteString("\n" + endedStyle.Render(m.err.Error()) + "\n")
	}

	s.WriteString(helpStyle.Render("\n─────────────────\nSPACE:Pause  R:Reset  Q:Quit"))
	statsView := statsStyle.Render(s.String())

	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
