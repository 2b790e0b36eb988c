package components

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/koraenergy/kora-control/internal/theme"
)

var (
	tabOnStyle = lipgloss.NewStyle().
			Foreground(theme.ColorGold).
			Background(theme.ColorElevatedBg).
			Bold(true).
			Padding(0, 1)
	tabOffStyle = lipgloss.NewStyle().Foreground(theme.ColorMutedText).Padding(0, 1)
	tabUser     = lipgloss.NewStyle().Foreground(theme.ColorMauve)
)

// Tabs is the page switcher across the top of the dashboard. Each name is
// prefixed with the digit that selects it.
type Tabs struct {
	Names  []string
	Active int
	Width  int
	User   string // right-aligned when it fits
}

func (t Tabs) String() string {
	cells := make([]string, len(t.Names))
	for i, name := range t.Names {
		style := tabOffStyle
		if i == t.Active {
			style = tabOnStyle
		}
		cells[i] = style.Render(strconv.Itoa(i+1) + " " + name)
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, cells...)

	inner := t.Width - 2
	if t.User != "" {
		user := tabUser.Render(t.User)
		if gap := inner - lipgloss.Width(line) - lipgloss.Width(user); gap > 1 {
			line += strings.Repeat(" ", gap) + user
		}
	}
	return " " + PadRight(line, inner) + " \n" + theme.MutedStyle.Render(strings.Repeat("─", t.Width))
}
