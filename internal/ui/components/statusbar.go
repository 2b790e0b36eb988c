package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/koraenergy/kora-control/internal/theme"
)

// StatusBar is the bottom line of the dashboard: a rule and the short help
// for Keys.
type StatusBar struct {
	Width int
	Keys  []key.Binding
}

// HelpModel returns a help.Model styled for the dark theme.
func HelpModel(width int) help.Model {
	h := help.New()
	h.Width = width
	h.ShortSeparator = "  "
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(theme.ColorGold).Bold(true)
	h.Styles.ShortDesc = theme.MutedStyle
	h.Styles.ShortSeparator = theme.MutedStyle
	h.Styles.FullKey = h.Styles.ShortKey
	h.Styles.FullDesc = theme.BodyStyle
	h.Styles.FullSeparator = theme.MutedStyle
	h.Styles.Ellipsis = theme.MutedStyle
	return h
}

func (s StatusBar) Render() string {
	rule := theme.MutedStyle.Render(strings.Repeat("─", s.Width))
	return rule + "\n  " + HelpModel(s.Width-2).ShortHelpView(s.Keys)
}
