package components

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/koraenergy/kora-control/internal/theme"
)

var (
	stripeStyle = lipgloss.NewStyle().Background(theme.ColorElevatedBg)
	markerStyle = lipgloss.NewStyle().Foreground(theme.ColorGold)
)

// ListRow renders one line of a selectable list: a ▶ marker on the
// selected row, odd rows striped, the whole line padded to width.
func ListRow(index int, selected bool, line string, width int) string {
	marker := "  "
	if selected {
		marker = markerStyle.Render("▶ ")
	}
	row := PadRight(marker+line, width)
	if index%2 == 1 {
		return stripeStyle.Render(row)
	}
	return row
}

// Hint renders a page's key reminder line.
func Hint(text string) string {
	return theme.MutedStyle.Render("  " + text)
}
