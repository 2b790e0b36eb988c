package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/koraenergy/kora-control/internal/api"
	"github.com/koraenergy/kora-control/internal/i18n"
	"github.com/koraenergy/kora-control/internal/session"
	"github.com/koraenergy/kora-control/internal/ui/overlays"
	"github.com/koraenergy/kora-control/internal/ui/views"
)

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		return a, nil

	case tea.KeyMsg:
		if key.Matches(msg, a.keys.ForceQuit) {
			return a, tea.Quit
		}
		if !a.loggedIn {
			return a, a.loginView.Update(msg)
		}
		if a.overlay != OverlayNone {
			return a.updateOverlay(msg)
		}
		return a.handleGlobalKey(msg)

	case BlinkMsg:
		a.animTick++
		a.propagateAnimTick()
		a.banner.Sweep()
		return a, doBlink()

	case LoginRequiredMsg:
		return a, tea.Batch(a.bridge.listen(), a.toLogin(i18n.T("session_expired")))

	case SessionMsg:
		cmd := a.bridge.listen()
		switch msg.Event.Kind {
		case session.EventLogout:
			notice := i18n.T("session_expired")
			if msg.Event.External || a.loggingOut {
				notice = i18n.T("signed_out")
			}
			return a, tea.Batch(cmd, a.toLogin(notice))
		case session.EventLogin:
			// A login from another terminal lands here before (or
			// instead of) LoginResultMsg.
			return a, tea.Batch(cmd, a.enterDashboard())
		}
		return a, cmd

	case PaymentReturnedMsg:
		return a, tea.Batch(a.bridge.listen(), a.billingView.Reconciled())

	case OverviewMsg:
		// The next render reads the page state; the message only wakes
		// the loop.
		return a, a.bridge.listen()

	case views.LoginResultMsg:
		a.loginView.Done(msg.Err)
		if msg.Err != nil {
			return a, nil
		}
		return a, a.enterDashboard()

	case views.ResultMsg:
		a.report(msg.Info, msg.Err)
		return a, nil

	case views.SubmitResultMsg:
		a.complaintsView.Submitted(msg.Err)
		a.report("", msg.Err)
		return a, nil

	case overlays.ConfigChangedMsg:
		a.applyConfig(msg.Config)
		return a, nil
	}

	if !a.loggedIn {
		// Cursor blink and other widget messages.
		return a, a.loginView.Update(msg)
	}
	return a, nil
}

func (a App) handleGlobalKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case ViewOverview:
		cmd = a.overviewView.Update(msg)
	case ViewBilling:
		cmd = a.billingView.Update(msg)
	case ViewComplaints:
		cmd = a.complaintsView.Update(msg)
	case ViewChat:
		cmd = a.chatView.Update(msg)
	}
	if cmd != nil {
		return a, cmd
	}

	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Overview):
		return a, a.switchTo(ViewOverview)
	case key.Matches(msg, a.keys.Billing):
		return a, a.switchTo(ViewBilling)
	case key.Matches(msg, a.keys.Complaint):
		return a, a.switchTo(ViewComplaints)
	case key.Matches(msg, a.keys.Chat):
		return a, a.switchTo(ViewChat)
	case key.Matches(msg, a.keys.Next):
		return a, a.switchTo((a.activeView + 1) % ViewCount)
	case key.Matches(msg, a.keys.Prev):
		return a, a.switchTo((a.activeView + ViewCount - 1) % ViewCount)
	case key.Matches(msg, a.keys.Help):
		a.overlay = OverlayHelp
	case key.Matches(msg, a.keys.Settings):
		a.settingsOverlay = overlays.NewSettingsOverlay(a.Config, a.configPath, a.log)
		a.overlay = OverlaySettings
	case key.Matches(msg, a.keys.Reload):
		return a, a.reloadActive()
	case key.Matches(msg, a.keys.Logout):
		a.loggingOut = true
		return a, a.logout()
	}
	return a, nil
}

// switchTo changes the active page. Entering Billing reloads the bills,
// which is how a payment made in an external browser shows up.
func (a *App) switchTo(v ViewType) tea.Cmd {
	prev := a.activeView
	a.activeView = v
	if v == prev {
		return nil
	}
	switch v {
	case ViewBilling:
		return a.billingView.Reload()
	case ViewChat:
		return a.chatView.Focus()
	}
	return nil
}

func (a App) reloadActive() tea.Cmd {
	switch a.activeView {
	case ViewOverview:
		return a.overviewView.Reload()
	case ViewBilling:
		return a.billingView.Reload()
	case ViewComplaints:
		return a.complaintsView.Reload()
	}
	return nil
}

func (a App) logout() tea.Cmd {
	auth := a.auth
	return func() tea.Msg {
		return views.ResultMsg{Err: auth.Logout()}
	}
}

func (a *App) report(info string, err error) {
	if err != nil {
		if views.Quiet(err) {
			return
		}
		a.log.Warn("page action failed", zap.Stringer("kind", api.Classify(err)), zap.Error(err))
		a.banner.Error(i18n.Tf("error_banner", err))
		return
	}
	if info != "" {
		a.banner.Info(info)
	}
}

func (a App) updateOverlay(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch a.overlay {
	case OverlayHelp:
		if key.Matches(msg, a.keys.Close) {
			a.overlay = OverlayNone
		}
	case OverlaySettings:
		if a.settingsOverlay != nil {
			closed, cmd := a.settingsOverlay.Update(msg)
			if closed {
				a.overlay = OverlayNone
			}
			return a, cmd
		}
	}
	return a, nil
}

func (a *App) propagateAnimTick() {
	a.loginView.AnimTick = a.animTick
	a.overviewView.AnimTick = a.animTick
	a.billingView.AnimTick = a.animTick
	a.complaintsView.AnimTick = a.animTick
	a.chatView.AnimTick = a.animTick
	a.helpOverlay.AnimTick = a.animTick
	if a.settingsOverlay != nil {
		a.settingsOverlay.SetAnimTick(a.animTick)
	}
}
