package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/koraenergy/kora-control/internal/theme"
)

var edgeStyle = lipgloss.NewStyle().Foreground(theme.ColorBorder)

// Panel frames one dashboard section. A framed panel sets its title into
// the top edge of a rounded border; a flat panel, used on short terminals,
// underlines the title and gives the body the full width.
type Panel struct {
	Title string // may be pre-styled
	Body  string
	Width int // outer width, border included
	Flat  bool
}

// ContentWidth is the number of columns Body may use.
func (p Panel) ContentWidth() int {
	if p.Flat {
		return p.Width - 2
	}
	return p.Width - 4
}

func (p Panel) String() string {
	if p.Flat {
		rule := theme.MutedStyle.Render("  " + strings.Repeat("─", max(p.Width-4, 1)))
		parts := []string{p.Title, rule}
		if p.Body != "" {
			parts = append(parts, p.Body)
		}
		return strings.Join(parts, "\n")
	}

	body := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder(), false, true, true, true).
		BorderForeground(theme.ColorBorder).
		Padding(0, 1).
		Width(max(p.Width-2, 2)).
		Render(p.Body)
	return p.topEdge() + "\n" + body
}

// topEdge draws ╭─ Title ───╮ exactly Width columns wide, dropping the
// trailing run when the title does not fit.
func (p Panel) topEdge() string {
	var title string
	if p.Title != "" {
		title = " " + p.Title + " "
	}
	run := max(p.Width-3-lipgloss.Width(title), 0)
	return edgeStyle.Render("╭─") + title + edgeStyle.Render(strings.Repeat("─", run)+"╮")
}
