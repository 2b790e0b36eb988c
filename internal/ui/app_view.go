package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/koraenergy/kora-control/internal/i18n"
	"github.com/koraenergy/kora-control/internal/theme"
	"github.com/koraenergy/kora-control/internal/ui/components"
)

const (
	minWidth  = 80
	minHeight = 24
	// Below this height panels drop their borders.
	compactHeight = 30
	// Tab bar and status bar take two rows each.
	chromeRows = 4
)

func (a App) View() string {
	switch {
	case !a.ready:
		return i18n.T("initializing")
	case a.width < minWidth || a.height < minHeight:
		notice := i18n.T("terminal_too_small") + "\n" + i18n.Tf("current_size", a.width, a.height)
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
			theme.WarningStyle.UnsetBold().Render(notice))
	case !a.loggedIn:
		return a.loginView.Render(a.width, a.height)
	case a.overlay != OverlayNone:
		return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center,
			a.renderOverlay(),
			lipgloss.WithWhitespaceBackground(theme.ColorOverlayBg))
	}

	rows := max(a.height-chromeRows, 5)
	page := lipgloss.NewStyle().Width(a.width).Height(rows).MaxHeight(rows).
		Render(a.renderPage(rows, a.height < compactHeight))

	bottom := a.banner.View(a.width)
	if bottom == "" {
		bottom = components.StatusBar{Width: a.width, Keys: a.keys.ShortHelp()}.Render()
	}
	return lipgloss.JoinVertical(lipgloss.Left, a.renderTabs(), page, bottom)
}

func (a App) renderTabs() string {
	return components.Tabs{
		Names: []string{
			i18n.T("tab_overview"),
			i18n.T("tab_billing"),
			i18n.T("tab_complaints"),
			i18n.T("tab_chat"),
		},
		Active: int(a.activeView),
		Width:  a.width,
		User:   a.userLabel(),
	}.String()
}

func (a App) renderPage(rows int, compact bool) string {
	switch a.activeView {
	case ViewBilling:
		return a.billingView.Render(a.width, rows, compact)
	case ViewComplaints:
		return a.complaintsView.Render(a.width, rows, compact)
	case ViewChat:
		return a.chatView.Render(a.width, rows, compact)
	}
	return a.overviewView.Render(a.width, rows, compact)
}

func (a App) renderOverlay() string {
	if a.overlay == OverlaySettings && a.settingsOverlay != nil {
		return a.settingsOverlay.Render(a.width, a.height)
	}
	return a.helpOverlay.Render(a.width, a.height)
}
