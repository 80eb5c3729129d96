package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/swarmsim/internal/metrics"
	"github.com/san-kum/swarmsim/internal/swarm"
)

const (
	width           = 60
	height          = 24
	historyCapacity = 300
	trailCapacity   = 120
)

const (
	heroGlyph   = '●'
	targetGlyph = '○'
	pinnedGlyph = '■'
)

type TickMsg time.Time

// Model runs an engine in real time. Keys 0-3 choose the action applied on
// every tick.
type Model struct {
	eng      *swarm.Engine
	action   swarm.Action
	frame    int
	running  bool
	canvas   *Canvas
	trail    [][2]int
	theme    Theme
	styles   styles
	sPlus    float64
	sMinus   float64
	coherent []float64
	err      error
	fps      time.Duration
}

func NewModel(eng *swarm.Engine) Model {
	m := Model{
		eng:      eng,
		action:   swarm.NoOp,
		running:  true,
		canvas:   NewCanvas(width, height),
		trail:    make([][2]int, 0, trailCapacity),
		theme:    Themes[0],
		styles:   newStyles(Themes[0]),
		coherent: make([]float64, 0, historyCapacity),
		fps:      time.Second / 30,
	}
	m.observe()
	return m
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Action is the action applied on the next tick.
func (m Model) Action() swarm.Action { return m.action }

// Frame is the number of steps taken since the last reset.
func (m Model) Frame() int { return m.frame }

func (m Model) Running() bool { return m.running }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch k := msg.String(); k {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.reset()
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "0", "1", "2", "3":
			a, _ := swarm.ParseAction(k)
			m.action = a
		case "n":
			if !m.running {
				m.step()
			}
		}
	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

func (m *Model) step() {
	if err := m.eng.Step(m.action); err != nil {
		m.err = err
		m.running = false
		return
	}
	m.frame++
	m.observe()
}

func (m *Model) reset() {
	m.eng.Reset()
	m.frame = 0
	m.action = swarm.NoOp
	m.err = nil
	m.trail = m.trail[:0]
	m.coherent = m.coherent[:0]
	m.observe()
}

func (m *Model) observe() {
	s := m.eng.State()
	p := m.eng.Params()
	cx, cy := p.Width/2, p.Height/2
	m.sPlus = metrics.SwarmOrder(s, 1, cx, cy)
	m.sMinus = metrics.SwarmOrder(s, -1, cx, cy)

	m.coherent = append(m.coherent, metrics.Coherence(s.Phases))
	if len(m.coherent) > historyCapacity {
		m.coherent = m.coherent[1:]
	}

	hx, hy := m.canvas.Project(wrapView(s.HeroPosition.X, p.Width), wrapView(s.HeroPosition.Y, p.Height), p.Width, p.Height)
	m.trail = append(m.trail, [2]int{hx, hy})
	if len(m.trail) > trailCapacity {
		m.trail = m.trail[1:]
	}
}

// draw renders agents as dots, the hero trail as lines, and the hero and
// targets as glyphs.
func (m *Model) draw() {
	m.canvas.Clear()
	s := m.eng.State()
	p := m.eng.Params()

	for _, pos := range s.Positions {
		x, y := m.canvas.Project(wrapView(pos.X, p.Width), wrapView(pos.Y, p.Height), p.Width, p.Height)
		m.canvas.Set(x, y)
	}

	dw, dh := m.canvas.Dots()
	for i := 1; i < len(m.trail); i++ {
		a, b := m.trail[i-1], m.trail[i]
		// skip segments that cross a periodic boundary
		if absInt(a[0]-b[0]) > dw/2 || absInt(a[1]-b[1]) > dh/2 {
			continue
		}
		m.canvas.DrawLine(a[0], a[1], b[0], b[1])
	}

	for i := 1; i <= p.NumTargets(); i++ {
		pos := s.Positions[i]
		x, y := m.canvas.Project(wrapView(pos.X, p.Width), wrapView(pos.Y, p.Height), p.Width, p.Height)
		g := targetGlyph
		if m.eng.Pinned(i) {
			g = pinnedGlyph
		}
		m.canvas.Mark(x, y, g)
	}

	hx, hy := m.canvas.Project(wrapView(s.HeroPosition.X, p.Width), wrapView(s.HeroPosition.Y, p.Height), p.Width, p.Height)
	m.canvas.Mark(hx, hy, heroGlyph)
}

// wrapView folds freshly reset positions, which may sit just outside the
// domain, back onto the canvas.
func wrapView(v, size float64) float64 {
	v = math.Mod(v, size)
	if v < 0 {
		v += size
	}
	return v
}

func (m Model) View() string {
	m.draw()
	canvasView := m.styles.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(m.styles.header.Render("SWARMALATORS") + "\n")

	status := "RUNNING"
	if !m.running {
		status = "PAUSED"
	}
	if m.err != nil {
		status = "ERROR: " + m.err.Error()
	}
	s.WriteString(status + "\n\n")

	if len(m.coherent) > 1 {
		chart := asciigraph.Plot(m.coherent, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Phase coherence"))
		s.WriteString(m.styles.graph.Render(chart) + "\n\n")
	}

	s.WriteString(m.styles.label.Render("Frame") + m.styles.value.Render(fmt.Sprintf("%d", m.frame)) + "\n")
	s.WriteString(m.styles.label.Render("Seed") + m.styles.value.Render(fmt.Sprintf("%d", m.eng.Seed())) + "\n")

	act := m.styles.value.Render(m.action.String())
	if m.action != swarm.NoOp {
		act = m.styles.hold.Render(m.action.String())
	}
	s.WriteString(m.styles.label.Render("Action") + act + "\n")
	s.WriteString(m.styles.label.Render("S+") + m.styles.value.Render(fmt.Sprintf("%.3f", m.sPlus)) + "\n")
	s.WriteString(m.styles.label.Render("S-") + m.styles.value.Render(fmt.Sprintf("%.3f", m.sMinus)) + "\n")

	r := 0.0
	if len(m.coherent) > 0 {
		r = m.coherent[len(m.coherent)-1]
	}
	s.WriteString(m.styles.label.Render("R") + m.styles.value.Render(fmt.Sprintf("%.3f", r)) + "\n")

	s.WriteString(m.styles.help.Render("\n─────────────────────\n0:Free 1:Hero 2:Targets 3:Both\nSP:Pause N:Step R:Reset\nT:Theme Q:Quit"))

	statsView := m.styles.stats.Render(s.String())
	return lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsView)
}
