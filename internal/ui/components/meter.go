package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/koraenergy/kora-control/internal/theme"
)

var meterTrackStyle = lipgloss.NewStyle().Foreground(theme.ColorElevatedBg)

// Meter shows a ratio such as bills paid out of bills issued: a caption, a
// horizontal bar colored along the energy ramp, and the percentage.
type Meter struct {
	Label  string
	Ratio  float64 // 0..1, clamped for drawing
	Detail string  // optional, e.g. "3 / 4"
	Width  int
}

func (m Meter) String() string {
	w := max(m.Width, 10)
	ratio := min(max(m.Ratio, 0), 1)
	filled := int(ratio*float64(w) + 0.5)

	var bar strings.Builder
	for i := 0; i < filled; i++ {
		c := theme.Ramp(float64(i) / float64(w-1))
		bar.WriteString(lipgloss.NewStyle().Foreground(c).Render("█"))
	}
	bar.WriteString(meterTrackStyle.Render(strings.Repeat("█", w-filled)))

	pct := lipgloss.NewStyle().Foreground(theme.Ramp(ratio)).Bold(true).
		Render(fmt.Sprintf("%.0f%%", ratio*100))
	lines := []string{
		CenterText(theme.BodyStyle.Render(m.Label), w),
		bar.String(),
		CenterText(pct, w),
	}
	if m.Detail != "" {
		lines = append(lines, CenterText(theme.MutedStyle.Render(m.Detail), w))
	}
	return strings.Join(lines, "\n")
}
