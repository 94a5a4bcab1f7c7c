package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/astarviz/internal/reel"
)

type TickMsg time.Time

// Preview steps a renderer's frame clock in real time. It shares the
// renderer's lanes, so nothing is composited: each lane is drawn from its
// logical marks.
type Preview struct {
	r        *reel.Renderer
	title    string
	frame    int
	frames   int
	running  bool
	theme    int
	interval time.Duration
	markers  []float64
	err      error
}

func NewPreview(r *reel.Renderer, title string) Preview {
	return Preview{
		r:        r,
		title:    title,
		frames:   r.FrameCount(),
		running:  true,
		interval: time.Second / time.Duration(r.Config().FrameRate),
		markers:  make([]float64, 0, r.FrameCount()),
	}
}

func (m Preview) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Preview) Init() tea.Cmd {
	return m.tick()
}

func (m Preview) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "right", "l":
			if !m.running {
				m.step()
			}
		case "r":
			m.reset()
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
		}
		return m, nil

	case TickMsg:
		if m.running {
			m.step()
		}
		return m, m.tick()
	}
	return m, nil
}

// step advances the clock by one frame.
func (m *Preview) step() {
	if m.err != nil || m.Done() {
		return
	}
	if err := m.r.Step(m.r.FrameTime(m.frame)); err != nil {
		m.err = err
		return
	}
	m.frame++

	total := 0
	for _, l := range m.r.Lanes() {
		total += l.Stats().Markers()
	}
	m.markers = append(m.markers, float64(total))
}

func (m *Preview) reset() {
	if err := m.r.Reset(); err != nil {
		m.err = err
		return
	}
	m.frame = 0
	m.markers = m.markers[:0]
	m.err = nil
}

// Done reports whether every frame has been shown.
func (m Preview) Done() bool { return m.frame >= m.frames }

func (m Preview) Frame() int { return m.frame }

func (m Preview) Running() bool { return m.running }

func (m Preview) View() string {
	th := Themes[m.theme]

	var s strings.Builder
	s.WriteString(headerStyle.Render(strings.ToUpper(m.title)) + "\n")

	status := StatusRunning.Render("RUNNING")
	switch {
	case m.err != nil:
		status = SparkLow.Render("ERROR: " + m.err.Error())
	case m.Done():
		status = StatusDone.Render("DONE")
	case !m.running:
		status = StatusPaused.Render("PAUSED")
	}
	s.WriteString(status + "\n\n")

	s.WriteString(Lanes(m.r.Lanes(), m.r.Maze(), th) + "\n\n")

	t := 0.0
	if m.frame > 0 {
		t = m.r.FrameTime(m.frame - 1)
	}
	progress := 1.0
	if m.frames > 0 {
		progress = float64(m.frame) / float64(m.frames)
	}
	s.WriteString(labelStyle.Render("Frame") + valueStyle.Render(fmt.Sprintf("%d/%d", m.frame, m.frames)) + "\n")
	s.WriteString(labelStyle.Render("Time") + valueStyle.Render(fmt.Sprintf("%.2fs / %.2fs", t, m.r.Duration())) + "\n")
	s.WriteString(labelStyle.Render("Progress") + ProgressBar(progress, 30) + "\n")
	s.WriteString(labelStyle.Render("Theme") + valueStyle.Render(th.Name) + "\n")

	if len(m.markers) > 1 {
		chart := asciigraph.Plot(m.markers, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Markers"))
		s.WriteString("\n" + chart + "\n")
	}

	s.WriteString(helpStyle.Render("SP:Pause →:Step R:Rewind T:Theme Q:Quit"))
	return s.String()
}
