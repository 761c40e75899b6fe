// Package tui provides a live terminal monitor for running routes
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/james-see/miditoolbox/pkg/router"
)

// Acid-inspired color scheme
var (
	acidGreen  = lipgloss.Color("#39FF14")
	acidYellow = lipgloss.Color("#FFFF00")
	silverGray = lipgloss.Color("#C0C0C0")
	darkGray   = lipgloss.Color("#333333")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(acidGreen).
			Background(darkGray).
			Padding(0, 2)

	routeStyle = lipgloss.NewStyle().
			Foreground(silverGray).
			PaddingLeft(2)

	tempoStyle = lipgloss.NewStyle().
			Foreground(acidYellow).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF0000")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(acidGreen)
)

const (
	statsInterval = 500 * time.Millisecond
	maxLines      = 1000
)

// StatsSource exposes per-route statistics
type StatsSource interface {
	Stats() []router.Stats
}

// Model is the monitor screen
type Model struct {
	lines    *LineBuffer
	source   StatsSource
	viewport viewport.Model
	spinner  spinner.Model

	log    []string
	stats  []router.Stats
	paused bool
	closed bool
	ready  bool
	width  int
	height int
}

type lineMsg string

type linesClosedMsg struct{}

type statsTickMsg time.Time

// New creates the monitor model reading lines from buf
func New(buf *LineBuffer, source StatsSource) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(acidGreen)

	return Model{
		lines:    buf,
		source:   source,
		spinner:  s,
		viewport: viewport.New(80, 20),
		stats:    source.Stats(),
	}
}

// Init starts the spinner, the line reader and the stats refresh
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForLine(m.lines), tickStats())
}

func waitForLine(buf *LineBuffer) tea.Cmd {
	return func() tea.Msg {
		line, ok := <-buf.Lines()
		if !ok {
			return linesClosedMsg{}
		}
		return lineMsg(line)
	}
}

func tickStats() tea.Cmd {
	return tea.Tick(statsInterval, func(t time.Time) tea.Msg {
		return statsTickMsg(t)
	})
}

// Update handles TUI updates
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "p", " ":
			m.paused = !m.paused
			return m, nil
		case "c":
			m.log = nil
			m.viewport.SetContent("")
			return m, nil
		}
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case lineMsg:
		if !m.paused {
			m.appendLine(string(msg))
		}
		return m, waitForLine(m.lines)

	case linesClosedMsg:
		m.closed = true
		return m, nil

	case statsTickMsg:
		m.stats = m.source.Stats()
		return m, tickStats()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) appendLine(line string) {
	m.log = append(m.log, line)
	if len(m.log) > maxLines {
		m.log = m.log[len(m.log)-maxLines:]
	}
	follow := m.viewport.AtBottom()
	m.viewport.SetContent(strings.Join(m.log, "\n"))
	if follow {
		m.viewport.GotoBottom()
	}
}

func (m *Model) resize() {
	header := lipgloss.Height(m.header())
	footer := lipgloss.Height(m.footer())
	h := m.height - header - footer - 2 // box border
	if h < 1 {
		h = 1
	}
	w := m.width - 2
	if w < 1 {
		w = 1
	}
	m.viewport.Width = w
	m.viewport.Height = h
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return fmt.Sprintf("%s starting monitor...", m.spinner.View())
	}
	var s strings.Builder
	s.WriteString(m.header())
	s.WriteString("\n")
	s.WriteString(boxStyle.Render(m.viewport.View()))
	s.WriteString("\n")
	s.WriteString(m.footer())
	return s.String()
}

func (m Model) header() string {
	var s strings.Builder

	state := m.spinner.View() + " LIVE"
	switch {
	case m.closed:
		state = "STOPPED"
	case m.paused:
		state = "PAUSED"
	}
	s.WriteString(titleStyle.Render(" MIDI MONITOR " + state + " "))
	s.WriteString("\n")

	for _, st := range m.stats {
		s.WriteString(routeStyle.Render(formatStats(st)))
		if st.Tempo > 0 {
			s.WriteString(" ")
			s.WriteString(tempoStyle.Render(fmt.Sprintf("%.1f BPM", st.Tempo)))
		}
		if n := st.ForwardErrors + st.LogErrors + st.DecodeErrors; n > 0 {
			s.WriteString(" ")
			s.WriteString(errorStyle.Render(fmt.Sprintf("%d errors", n)))
		}
		s.WriteString("\n")
	}
	return strings.TrimSuffix(s.String(), "\n")
}

func (m Model) footer() string {
	help := "↑/↓: scroll • p: pause • c: clear • q: quit"
	if n := m.lines.Dropped(); n > 0 {
		help += fmt.Sprintf(" • %d lines dropped", n)
	}
	return helpStyle.Render(help)
}

func formatStats(st router.Stats) string {
	return fmt.Sprintf("#%d %s  rx %d fwd %d sup %d shown %d",
		st.ID, st.Route, st.Received, st.Forwarded, st.Suppressed, st.Displayed)
}

// Run starts the monitor and blocks until the user quits or ctx is done
func Run(ctx context.Context, buf *LineBuffer, source StatsSource) error {
	p := tea.NewProgram(New(buf, source), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
