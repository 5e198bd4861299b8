// Package tui is a terminal front-end for playing a level.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"wireworld/internal/core"
	"wireworld/internal/exercise"
	"wireworld/internal/session"
	"wireworld/internal/sims/wireworld"
)

// FrameInterval is how often the model polls the session clock.
const FrameInterval = 50 * time.Millisecond

type frameMsg time.Time

var (
	headerStyle   = lipgloss.NewStyle().Bold(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	messageStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
	outputStyle   = lipgloss.NewStyle().Underline(true)
	emptyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("34"))
	wireStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	electronStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	tailStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyles  = map[exercise.Status]lipgloss.Style{
		exercise.Inactive: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		exercise.Waiting:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		exercise.Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		exercise.Fail:     lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
	}
)

// Model drives one session from the keyboard.
type Model struct {
	s        *session.Session
	cursor   core.Point
	last     time.Time
	message  string
	quitting bool
}

// New returns a model positioned at the top-left cell.
func New(s *session.Session) Model {
	return Model{s: s}
}

// Session returns the driven session.
func (m Model) Session() *session.Session { return m.s }

// Cursor returns the highlighted cell.
func (m Model) Cursor() core.Point { return m.cursor }

func frame() tea.Cmd {
	return tea.Tick(FrameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return frame()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		now := time.Time(msg)
		var delta time.Duration
		if !m.last.IsZero() {
			delta = now.Sub(m.last)
		}
		m.last = now
		if r, ok := m.s.Advance(delta); ok {
			m.report(r)
		}
		return m, frame()
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	size := m.s.Size()
	switch msg.String() {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit
	case "left", "h":
		m.cursor.X = (m.cursor.X - 1 + size.W) % size.W
	case "right", "l":
		m.cursor.X = (m.cursor.X + 1) % size.W
	case "up", "k":
		m.cursor.Y = (m.cursor.Y - 1 + size.H) % size.H
	case "down", "j":
		m.cursor.Y = (m.cursor.Y + 1) % size.H
	case "w", "enter":
		m.click(session.ButtonLeft)
	case "e":
		m.click(session.ButtonRight)
	case "x", "backspace":
		m.click(session.ButtonMiddle)
	case " ", "p":
		if m.s.Paused() {
			m.s.Play(m.s.Speed())
			m.message = "playing"
		} else {
			m.s.Pause()
			m.message = "paused"
		}
	case "1", "2", "3":
		preset := core.SpeedPresets[int(msg.String()[0]-'1')]
		m.s.Play(preset)
		m.message = fmt.Sprintf("playing at %s per tick", preset)
	case ".":
		if m.s.Paused() {
			m.report(m.s.Tick())
		}
	case "r":
		m.s.Restart()
		m.message = "restarted"
	case "R":
		if err := m.s.Reload(); err != nil {
			m.message = err.Error()
		} else {
			m.message = "reloaded"
		}
	}
	return m, nil
}

func (m *Model) click(b session.Button) {
	if _, err := m.s.Edit(m.cursor, b.Kind()); err != nil {
		m.message = "edit rejected: " + err.Error()
		return
	}
	m.message = ""
}

func (m *Model) report(r session.Report) {
	switch r.Outcome {
	case session.OutcomeFailed:
		m.message = fmt.Sprintf("exercise %d failed at tick %d", r.Exercise+1, r.Tick)
	case session.OutcomeAdvanced:
		m.message = fmt.Sprintf("exercise %d passed", r.Exercise+1)
	case session.OutcomeLevelComplete:
		m.message = "level complete"
	}
}

// Message returns the last feedback line.
func (m Model) Message() string { return m.message }

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	st := m.s.Status()
	var b strings.Builder

	header := fmt.Sprintf("%s  %dx%d", st.Level, st.Width, st.Height)
	if st.Exercise >= 0 {
		header += fmt.Sprintf("  exercise %d/%d  tick %d/%d", st.Exercise+1, st.Exercises, st.Ticks, st.Timeout)
	} else if st.Complete {
		header += "  complete"
	}
	state := "running"
	if st.Paused {
		state = "paused"
	}
	if st.Locked {
		state += ", locked"
	}
	header += fmt.Sprintf("  [%s, %s/tick]", state, m.s.Speed())
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n\n")

	outputs := map[core.Point]exercise.Status{}
	for _, o := range st.Outputs {
		outputs[o.Pos] = o.Status
	}
	world := m.s.World()
	for y := 0; y < st.Height; y++ {
		for x := 0; x < st.Width; x++ {
			p := core.Point{X: x, Y: y}
			glyph := renderCell(world.Cell(p))
			if _, ok := outputs[p]; ok {
				glyph = outputStyle.Render(glyph)
			}
			if p == m.cursor {
				glyph = cursorStyle.Render(glyph)
			}
			b.WriteString(glyph)
		}
		b.WriteByte('\n')
	}

	if st.Description != "" {
		b.WriteString("\n" + st.Description + "\n")
	}
	if len(st.Outputs) > 0 {
		b.WriteString("\n")
		for i, o := range st.Outputs {
			b.WriteString(statusStyles[o.Status].Render(fmt.Sprintf("output %d (%d,%d) %d..%d %s", i+1, o.Pos.X, o.Pos.Y, o.From, o.Until, o.Status)))
			b.WriteByte('\n')
		}
	}
	if m.message != "" {
		b.WriteString("\n" + messageStyle.Render(m.message) + "\n")
	}
	b.WriteString("\n" + helpStyle.Render("arrows move · w wire · e electron · x erase · space play/pause · 1-3 speed · . step · r restart · R reload · q quit"))
	return b.String()
}

func renderCell(c wireworld.Cell) string {
	switch c.Kind {
	case wireworld.KindWire:
		return wireStyle.Render("=")
	case wireworld.KindElectron:
		return electronStyle.Render("@")
	case wireworld.KindTail:
		return tailStyle.Render("~")
	default:
		if c.Fixed {
			return emptyStyle.Render("#")
		}
		return emptyStyle.Render(".")
	}
}
