// Package ui is the terminal dashboard. It renders the page state
// holders and turns key presses into page operations; all data access
// goes through the pages.
package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/koraenergy/kora-control/internal/config"
	"github.com/koraenergy/kora-control/internal/domain"
	"github.com/koraenergy/kora-control/internal/i18n"
	"github.com/koraenergy/kora-control/internal/pages"
	"github.com/koraenergy/kora-control/internal/session"
	"github.com/koraenergy/kora-control/internal/ui/overlays"
	"github.com/koraenergy/kora-control/internal/ui/views"
)

type ViewType int

const (
	ViewOverview ViewType = iota
	ViewBilling
	ViewComplaints
	ViewChat
	ViewCount // sentinel: number of views
)

type OverlayType int

const (
	OverlayNone OverlayType = iota
	OverlayHelp
	OverlaySettings
)

// BlinkMsg triggers UI-only refresh for smooth animation (250ms).
type BlinkMsg time.Time

// Authenticator signs the user in and out. *api.Client satisfies it.
type Authenticator interface {
	views.Authenticator
	Logout() error
}

// Session reports who is signed in. *session.Manager satisfies it.
type Session interface {
	LoggedIn() bool
	Claims() (session.Claims, bool)
}

// Deps are the collaborators the dashboard drives.
type Deps struct {
	Config     config.Config
	ConfigPath string
	Auth       Authenticator
	Session    Session
	Overview   *pages.Overview
	Billing    *pages.Billing
	Complaints *pages.Complaints
	Chat       *pages.Chat
	Bridge     *Bridge
	Clock      clockwork.Clock
	Log        *zap.Logger
	// Context bounds background polling.
	Context context.Context
}

type App struct {
	activeView ViewType
	overlay    OverlayType
	keys       KeyMap

	// Views
	loginView      *views.LoginView
	overviewView   *views.OverviewView
	billingView    *views.BillingView
	complaintsView *views.ComplaintsView
	chatView       *views.ChatView

	// Overlays
	helpOverlay     *overlays.HelpOverlay
	settingsOverlay *overlays.SettingsOverlay

	// Collaborators
	Config     config.Config
	configPath string
	auth       Authenticator
	session    Session
	overview   *pages.Overview
	bridge     *Bridge
	ctx        context.Context
	log        *zap.Logger

	// Animation state
	animTick uint

	banner *Banner

	// Terminal
	width  int
	height int

	// State
	ready      bool
	loggedIn   bool
	loggingOut bool
}

func NewApp(d Deps) App {
	i18n.SetLanguage(d.Config.General.Language)

	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	if d.Context == nil {
		d.Context = context.Background()
	}
	if d.Bridge == nil {
		d.Bridge = NewBridge()
	}

	keys := NewKeyMap()
	return App{
		activeView:     ViewOverview,
		overlay:        OverlayNone,
		keys:           keys,
		loginView:      views.NewLoginView(d.Auth),
		overviewView:   views.NewOverviewView(d.Overview, d.Clock),
		billingView:    views.NewBillingView(d.Billing),
		complaintsView: views.NewComplaintsView(d.Complaints),
		chatView:       views.NewChatView(d.Chat),
		helpOverlay:    overlays.NewHelpOverlay(keys.FullHelp()),
		Config:         d.Config,
		configPath:     d.ConfigPath,
		auth:           d.Auth,
		session:        d.Session,
		overview:       d.Overview,
		bridge:         d.Bridge,
		ctx:            d.Context,
		log:            d.Log.Named("ui"),
		banner:         NewBanner(d.Clock),
		loggedIn:       d.Session.LoggedIn(),
	}
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("Kora Control"),
		a.bridge.listen(),
		doBlink(),
	}
	if a.loggedIn {
		cmds = append(cmds, a.startPages())
	} else {
		cmds = append(cmds, a.loginView.Reset(""))
	}
	return tea.Batch(cmds...)
}

func doBlink() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return BlinkMsg(t)
	})
}

// startPages begins live polling and loads the request/response pages.
func (a App) startPages() tea.Cmd {
	a.overview.Start(a.ctx)
	return tea.Batch(a.billingView.Reload(), a.complaintsView.Reload())
}

// stopPages ends polling off the update loop: Stop waits for in-flight
// fetches, which may themselves be waiting to post to the bridge.
func (a App) stopPages() tea.Cmd {
	overview := a.overview
	return func() tea.Msg {
		overview.Stop()
		return nil
	}
}

func (a *App) enterDashboard() tea.Cmd {
	if a.loggedIn {
		return nil
	}
	a.loggedIn = true
	a.loggingOut = false
	a.activeView = ViewOverview
	return a.startPages()
}

func (a *App) toLogin(notice string) tea.Cmd {
	if !a.loggedIn {
		return nil
	}
	a.loggedIn = false
	a.loggingOut = false
	a.overlay = OverlayNone
	return tea.Batch(a.loginView.Reset(notice), a.stopPages())
}

func (a App) userLabel() string {
	c, ok := a.session.Claims()
	if !ok || c.Username == "" {
		return ""
	}
	return i18n.Tf("signed_in_as", c.Username)
}

// applyConfig applies settings that take effect without a restart.
func (a *App) applyConfig(cfg config.Config) {
	a.Config = cfg
	i18n.SetLanguage(cfg.General.Language)
	a.keys = NewKeyMap()
	a.helpOverlay.SetKeys(a.keys.FullHelp())
	if r := domain.TimeRange(cfg.General.TimeRange); r.Valid() {
		if err := a.overview.SetUsageRange(r); err != nil {
			a.log.Warn("apply usage range", zap.Error(err))
		}
	}
}
