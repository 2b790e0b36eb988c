package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/koraenergy/kora-control/internal/i18n"
	"github.com/koraenergy/kora-control/internal/theme"
)

// eighths holds the partial block glyphs, indexed by fill in eighths.
var eighths = []string{" ", "▁", "▂", "▃", "▄", "▅", "▆", "▇", "█"}

// BarChart renders a series as vertical bars, tallest bar scaled to
// Height rows. Bars are colored along the progress gradient by value.
type BarChart struct {
	Labels []string
	Values []float64
	Width  int // maximum character width
	Height int // rows of bars
}

// Render returns the chart lines followed by an axis label line naming the
// first and last samples.
func (b BarChart) Render() []string {
	if len(b.Values) == 0 {
		return []string{theme.MutedStyle.Render(i18n.T("overview_no_data"))}
	}
	height := b.Height
	if height < 1 {
		height = 1
	}

	n := len(b.Values)
	gap := 1
	barW := (b.Width - gap*(n-1)) / n
	if barW < 1 {
		barW, gap = 1, 0
	}
	if barW > 5 {
		barW = 5
	}

	peak := 0.0
	for _, v := range b.Values {
		if v > peak {
			peak = v
		}
	}

	styles := make([]lipgloss.Style, n)
	fills := make([]int, n)
	for i, v := range b.Values {
		t := 0.0
		if peak > 0 && v > 0 {
			t = v / peak
		}
		fills[i] = int(t*float64(height*8) + 0.5)
		styles[i] = lipgloss.NewStyle().Foreground(theme.Ramp(t))
	}

	spacer := strings.Repeat(" ", gap)
	lines := make([]string, 0, height+1)
	for row := height - 1; row >= 0; row-- {
		var sb strings.Builder
		for i := range b.Values {
			if i > 0 {
				sb.WriteString(spacer)
			}
			cell := fills[i] - row*8
			if cell < 0 {
				cell = 0
			}
			if cell > 8 {
				cell = 8
			}
			sb.WriteString(styles[i].Render(strings.Repeat(eighths[cell], barW)))
		}
		lines = append(lines, sb.String())
	}

	chartW := n*barW + (n-1)*gap
	lines = append(lines, theme.MutedStyle.Render(axisLabels(b.Labels, chartW)))
	return lines
}

func axisLabels(labels []string, width int) string {
	if len(labels) == 0 {
		return ""
	}
	first, last := labels[0], labels[len(labels)-1]
	if len(labels) == 1 || lipgloss.Width(first)+lipgloss.Width(last)+1 > width {
		return first
	}
	return first + strings.Repeat(" ", width-lipgloss.Width(first)-lipgloss.Width(last)) + last
}
