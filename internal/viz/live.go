package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/episim/internal/epi"
	"github.com/san-kum/episim/internal/sim"
)

const (
	liveWidth  = 78
	liveHeight = 14
)

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)

type TickMsg time.Time

// Model replays a solved trajectory checkpoint by checkpoint.
type Model struct {
	tr      *sim.Trajectory
	caption string
	fps     int
	head    int
	paused  bool
}

func NewModel(tr *sim.Trajectory, caption string, fps int) Model {
	if fps <= 0 {
		fps = 30
	}
	return Model{tr: tr, caption: caption, fps: fps, head: 1}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
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
			m.paused = !m.paused
			if !m.paused {
				return m, m.tick()
			}
			return m, nil
		case "r":
			m.head = 1
			m.paused = false
			return m, m.tick()
		}
	case TickMsg:
		if m.paused {
			return m, nil
		}
		if m.head < m.tr.Len() {
			m.head++
			return m, m.tick()
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder

	sb.WriteString(Header(m.caption))
	sb.WriteString("\n\n")

	infected := m.tr.Series(epi.I)[:m.head]
	if len(infected) >= 2 {
		sb.WriteString(asciigraph.Plot(infected,
			asciigraph.Height(liveHeight),
			asciigraph.Width(liveWidth),
			asciigraph.Caption("infected"),
		))
	}
	sb.WriteString("\n\n")

	i := m.head - 1
	state := m.tr.State(i)
	sb.WriteString(StatLine("day", fmt.Sprintf("%.1f", m.tr.Time(i))) + "\n")
	sb.WriteString(StatLine("susceptible", fmt.Sprintf("%.0f", state[epi.S])) + "\n")
	sb.WriteString(StatLine("infected", fmt.Sprintf("%.0f", state[epi.I])) + "\n")
	sb.WriteString(StatLine("recovered", fmt.Sprintf("%.0f", state[epi.R])) + "\n")

	status := "playing"
	if m.paused {
		status = "paused"
	} else if m.head >= m.tr.Len() {
		status = "done"
	}
	sb.WriteString(helpStyle.Render(fmt.Sprintf("[%s]  space pause · r restart · q quit", status)))

	return sb.String()
}

// RunLive animates a trajectory in the terminal.
func RunLive(tr *sim.Trajectory, caption string, fps int) error {
	p := tea.NewProgram(NewModel(tr, caption, fps))
	_, err := p.Run()
	return err
}
