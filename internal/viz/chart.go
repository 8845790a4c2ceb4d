package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/episim/internal/epi"
	"github.com/san-kum/episim/internal/sim"
)

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	captionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

var compartmentNames = map[int]string{
	epi.S: "susceptible",
	epi.I: "infected",
	epi.R: "recovered",
}

// Chart renders one compartment series as an ASCII plot.
func Chart(tr *sim.Trajectory, component, width, height int) string {
	data := tr.Series(component)
	if len(data) < 2 {
		return captionStyle.Render("not enough checkpoints to plot")
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("%s vs time", compartmentNames[component])),
	)
}

// CompartmentCharts stacks the three compartment plots.
func CompartmentCharts(tr *sim.Trajectory, width, height int) string {
	var sb strings.Builder
	for _, c := range []int{epi.S, epi.I, epi.R} {
		sb.WriteString(Chart(tr, c, width, height))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// StatLine renders an aligned label/value pair for terminal summaries.
func StatLine(label string, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func Header(text string) string {
	return headerStyle.Render(text)
}
