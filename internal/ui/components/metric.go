package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/koraenergy/kora-control/internal/theme"
)

// Metric is a headline figure: the value (with an optional muted unit) over
// a caption, centred in a cell Width columns wide.
type Metric struct {
	Value string
	Unit  string
	Label string
	Color lipgloss.Color // defaults to bright text
	Width int
}

func (m Metric) String() string {
	color := m.Color
	if color == "" {
		color = theme.ColorBrightText
	}
	value := lipgloss.NewStyle().Foreground(color).Bold(true).Render(m.Value)
	if m.Unit != "" {
		value += " " + theme.MutedStyle.Render(m.Unit)
	}
	return lipgloss.NewStyle().
		Width(max(m.Width, 8)).
		Align(lipgloss.Center).
		Render(value + "\n" + theme.MutedStyle.Render(m.Label))
}

// MetricRow lays metrics out left to right, gap columns apart.
func MetricRow(gap int, metrics ...Metric) string {
	cells := make([]string, 0, 2*len(metrics))
	for i, m := range metrics {
		if i > 0 {
			cells = append(cells, strings.Repeat(" ", gap))
		}
		cells = append(cells, m.String())
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}
