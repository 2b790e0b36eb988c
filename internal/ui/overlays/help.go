package overlays

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/koraenergy/kora-control/internal/i18n"
	"github.com/koraenergy/kora-control/internal/theme"
	"github.com/koraenergy/kora-control/internal/ui/components"
)

// PageKeys lists the bindings the dashboard pages handle themselves. They
// are shown in the help overlay only; each page matches its own keys.
func PageKeys() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("j", "k"), key.WithHelp("j/k", i18n.T("help_navigate"))),
		key.NewBinding(key.WithKeys("u", "c"), key.WithHelp("u/c", i18n.T("help_ranges"))),
		key.NewBinding(key.WithKeys("enter", "p"), key.WithHelp("enter/p", i18n.T("help_pay"))),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", i18n.T("help_new_complaint"))),
		key.NewBinding(key.WithKeys("f"), key.WithHelp("f", i18n.T("help_filter"))),
		key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", i18n.T("help_submit"))),
	}
}

// HelpOverlay lists the keyboard shortcuts, one block per binding group
// with the page keys placed after the first group.
type HelpOverlay struct {
	AnimTick uint
	groups   [][]key.Binding
}

func NewHelpOverlay(global [][]key.Binding) *HelpOverlay {
	h := &HelpOverlay{}
	h.SetKeys(global)
	return h
}

// SetKeys replaces the global groups, e.g. after a language change.
func (h *HelpOverlay) SetKeys(global [][]key.Binding) {
	h.groups = nil
	for i, g := range global {
		h.groups = append(h.groups, g)
		if i == 0 {
			h.groups = append(h.groups, PageKeys())
		}
	}
	if len(global) == 0 {
		h.groups = [][]key.Binding{PageKeys()}
	}
}

func (h *HelpOverlay) Render(width, height int) string {
	boxWidth := min(65, width-4)
	hm := components.HelpModel(boxWidth - 4)

	blocks := make([]string, 0, len(h.groups))
	for _, g := range h.groups {
		blocks = append(blocks, hm.FullHelpView([][]key.Binding{g}))
	}

	title := theme.Shimmer(i18n.T("keyboard_shortcuts"), h.AnimTick, theme.ColorCardBg)
	footer := lipgloss.NewStyle().Foreground(theme.ColorMutedText).Render(i18n.T("help_close"))
	content := title + "\n\n" + strings.Join(blocks, "\n\n") + "\n\n" + footer
	return theme.PanelStyle.Width(boxWidth).Render(content)
}
