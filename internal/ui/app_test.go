package ui

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jonboulle/clockwork"

	"github.com/koraenergy/kora-control/internal/api"
	"github.com/koraenergy/kora-control/internal/config"
	"github.com/koraenergy/kora-control/internal/domain"
	"github.com/koraenergy/kora-control/internal/pages"
	"github.com/koraenergy/kora-control/internal/session"
	"github.com/koraenergy/kora-control/internal/ui/views"
)

type fakeBackend struct {
	mu        sync.Mutex
	billCalls int
	logouts   int
}

func (f *fakeBackend) Stats(context.Context) (domain.DashboardStats, error) {
	return domain.DashboardStats{CurrentUsageKWh: 120, PendingBillETB: 45, ActiveTickets: 1}, nil
}

func (f *fakeBackend) UsageSeries(_ context.Context, r domain.TimeRange) (domain.UsageSeries, error) {
	return domain.UsageSeries{TimeRange: r, Data: []domain.UsagePoint{{Name: "Mon", Usage: 4}}}, nil
}

func (f *fakeBackend) CostSeries(_ context.Context, r domain.TimeRange) (domain.CostSeries, error) {
	return domain.CostSeries{TimeRange: r, Data: []domain.CostPoint{{Name: "Jan", Cost: 40}}}, nil
}

func (f *fakeBackend) Activity(context.Context) ([]domain.Activity, error) {
	return nil, nil
}

func (f *fakeBackend) Bills(context.Context) ([]domain.Bill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.billCalls++
	return []domain.Bill{{ID: 1, Amount: "45.00", UsageKWh: 120, BillingDate: "2024-05-01"}}, nil
}

func (f *fakeBackend) InitiatePayment(context.Context, int64) (api.Checkout, error) {
	return api.Checkout{URL: "https://checkout.example/pay"}, nil
}

func (f *fakeBackend) Complaints(context.Context) ([]domain.Complaint, error) {
	return nil, nil
}

func (f *fakeBackend) CreateComplaint(_ context.Context, nc domain.NewComplaint) (domain.Complaint, error) {
	return domain.Complaint{ID: 1, Subject: nc.Subject, Status: domain.StatusPending}, nil
}

func (f *fakeBackend) Chat(context.Context, string) (string, error) {
	return "ok", nil
}

func (f *fakeBackend) Login(context.Context, domain.Credentials) error {
	return nil
}

func (f *fakeBackend) Logout() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logouts++
	return nil
}

func (f *fakeBackend) bills() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.billCalls
}

type fakeSession struct {
	loggedIn bool
}

func (s fakeSession) LoggedIn() bool { return s.loggedIn }

// Claims is static: the app reads it only while the dashboard shows.
func (s fakeSession) Claims() (session.Claims, bool) {
	return session.Claims{Username: "abebe"}, true
}

func newTestApp(t *testing.T, loggedIn bool) (App, *fakeBackend) {
	t.Helper()
	be := &fakeBackend{}
	clock := clockwork.NewFakeClock()
	overview := pages.NewOverview(be, pages.WithClock(clock))
	bridge := NewBridge()
	t.Cleanup(func() {
		overview.Close()
		bridge.Close()
	})

	a := NewApp(Deps{
		Config:     config.DefaultConfig(),
		ConfigPath: t.TempDir() + "/config.toml",
		Auth:       be,
		Session:    fakeSession{loggedIn: loggedIn},
		Overview:   overview,
		Billing:    pages.NewBilling(be, api.NopNavigator{}, pages.WithClock(clock)),
		Complaints: pages.NewComplaints(be, pages.WithClock(clock)),
		Chat:       pages.NewChat(be, pages.WithClock(clock)),
		Bridge:     bridge,
		Clock:      clock,
	})
	m, _ := a.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m.(App), be
}

func update(t *testing.T, a App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := a.Update(msg)
	return m.(App), cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// collect runs cmd and any batch it expands to, returning every message.
// The bridge must be closed so its listener returns at once.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}

func TestApp_LoggedOutShowsLogin(t *testing.T) {
	a, _ := newTestApp(t, false)
	if out := a.View(); !strings.Contains(out, "Sign in to Kora") {
		t.Errorf("logged-out view should be the login screen:\n%s", out)
	}

	a, _ = update(t, a, views.LoginResultMsg{})
	if !a.loggedIn {
		t.Fatal("successful login should enter the dashboard")
	}
	out := a.View()
	if !strings.Contains(out, "Overview") || !strings.Contains(out, "signed in as abebe") {
		t.Errorf("dashboard not shown after login:\n%s", out)
	}
}

func TestApp_FailedLoginStaysOnLogin(t *testing.T) {
	a, _ := newTestApp(t, false)
	a, _ = update(t, a, views.LoginResultMsg{Err: api.ErrSessionExpired})
	if a.loggedIn {
		t.Fatal("failed login must not enter the dashboard")
	}
	if out := a.View(); !strings.Contains(out, "Invalid username or password") {
		t.Errorf("login error not shown:\n%s", out)
	}
}

func TestApp_LoginRequiredReturnsToLogin(t *testing.T) {
	a, _ := newTestApp(t, true)
	a, _ = update(t, a, LoginRequiredMsg{})
	if a.loggedIn {
		t.Fatal("LoginRequiredMsg should leave the dashboard")
	}
	if out := a.View(); !strings.Contains(out, "session has expired") {
		t.Errorf("expiry notice not shown:\n%s", out)
	}

	// A second eviction while already on the login screen changes nothing.
	a, cmd := update(t, a, LoginRequiredMsg{})
	if a.loggedIn || cmd == nil {
		t.Error("second LoginRequiredMsg should only re-arm the bridge")
	}
}

func TestApp_LogoutKey(t *testing.T) {
	a, be := newTestApp(t, true)
	a, cmd := update(t, a, keyRunes("L"))
	if !a.loggingOut {
		t.Fatal("L should start a logout")
	}
	if msg, ok := cmd().(views.ResultMsg); !ok || msg.Err != nil {
		t.Fatalf("logout cmd = %#v", msg)
	}
	if be.logouts != 1 {
		t.Errorf("logouts = %d, want 1", be.logouts)
	}

	a, _ = update(t, a, SessionMsg{Event: session.Event{Kind: session.EventLogout}})
	if a.loggedIn {
		t.Fatal("logout event should return to login")
	}
	if out := a.View(); !strings.Contains(out, "Signed out") {
		t.Errorf("signed-out notice not shown:\n%s", out)
	}
}

func TestApp_ExternalLoginEntersDashboard(t *testing.T) {
	a, _ := newTestApp(t, false)
	a, _ = update(t, a, SessionMsg{Event: session.Event{Kind: session.EventLogin, External: true}})
	if !a.loggedIn {
		t.Fatal("login in another process should enter the dashboard")
	}
	if a.activeView != ViewOverview {
		t.Errorf("activeView = %d, want overview", a.activeView)
	}
}

func TestApp_SwitchToBillingReloads(t *testing.T) {
	a, be := newTestApp(t, true)
	before := be.bills()

	a, cmd := update(t, a, keyRunes("2"))
	if a.activeView != ViewBilling {
		t.Fatalf("activeView = %d, want billing", a.activeView)
	}
	if cmd == nil {
		t.Fatal("entering billing should reload bills")
	}
	if msg, ok := cmd().(views.ResultMsg); !ok || msg.Err != nil {
		t.Fatalf("reload = %#v", msg)
	}
	if got := be.bills(); got != before+1 {
		t.Errorf("bill fetches = %d, want %d", got, before+1)
	}

	// Staying on the page does not refetch.
	if _, cmd = update(t, a, keyRunes("2")); cmd != nil {
		t.Error("re-selecting the active page should not reload")
	}
}

func TestApp_PaymentReturnedReconciles(t *testing.T) {
	a, be := newTestApp(t, true)
	a.bridge.Close()
	before := be.bills()

	_, cmd := update(t, a, PaymentReturnedMsg{})
	var info string
	for _, msg := range collect(cmd) {
		if r, ok := msg.(views.ResultMsg); ok {
			info = r.Info
		}
	}
	if info != "Bills reloaded" {
		t.Errorf("reconcile info = %q", info)
	}
	if be.bills() != before+1 {
		t.Error("payment return should refetch bills")
	}
}

func TestApp_TypingSuppressesGlobalKeys(t *testing.T) {
	a, _ := newTestApp(t, true)
	a, _ = update(t, a, keyRunes("4"))
	if a.activeView != ViewChat || !a.chatView.Typing() {
		t.Fatal("chat page should focus its input")
	}
	a, _ = update(t, a, keyRunes("1"))
	if a.activeView != ViewChat {
		t.Error("digits typed into the chat input must not switch pages")
	}
}

func TestApp_ResultBanner(t *testing.T) {
	tests := []struct {
		name string
		msg  views.ResultMsg
		want string
		none bool
	}{
		{name: "error", msg: views.ResultMsg{Err: errors.New("boom")}, want: "Error: boom"},
		{name: "info", msg: views.ResultMsg{Info: "Bills reloaded"}, want: "Bills reloaded"},
		{name: "stale is quiet", msg: views.ResultMsg{Err: pages.ErrStale}, none: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestApp(t, true)
			a, _ = update(t, a, tt.msg)
			text, _, ok := a.banner.Current()
			if tt.none {
				if ok {
					t.Errorf("unexpected banner %q", text)
				}
				return
			}
			if !ok || text != tt.want {
				t.Fatalf("banner = %q, want %q", text, tt.want)
			}
			if !strings.Contains(a.View(), tt.want) {
				t.Error("banner not rendered")
			}
		})
	}
}

func TestApp_TooSmall(t *testing.T) {
	a, _ := newTestApp(t, true)
	a, _ = update(t, a, tea.WindowSizeMsg{Width: 60, Height: 20})
	if out := a.View(); !strings.Contains(out, "Terminal too small") {
		t.Errorf("too-small notice missing:\n%s", out)
	}
}

func TestApp_HelpOverlay(t *testing.T) {
	a, _ := newTestApp(t, true)
	a, _ = update(t, a, keyRunes("?"))
	if a.overlay != OverlayHelp {
		t.Fatal("? should open help")
	}
	out := a.View()
	for _, want := range []string{"next page", "Pay selected bill", "sign out"} {
		if !strings.Contains(out, want) {
			t.Errorf("help overlay missing %q", want)
		}
	}
	a, _ = update(t, a, tea.KeyMsg{Type: tea.KeyEsc})
	if a.overlay != OverlayNone {
		t.Error("esc should close help")
	}
}
