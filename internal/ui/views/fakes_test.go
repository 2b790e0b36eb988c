package views

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/koraenergy/kora-control/internal/api"
	"github.com/koraenergy/kora-control/internal/domain"
)

type fakeBackend struct {
	mu sync.Mutex

	bills    []domain.Bill
	payCalls []int64

	complaints []domain.Complaint
	created    []domain.NewComplaint
	listErr    error

	chatCalls []string

	logins   []domain.Credentials
	loginErr error
}

func (f *fakeBackend) Stats(context.Context) (domain.DashboardStats, error) {
	return domain.DashboardStats{CurrentUsageKWh: 1234.5, PendingBillETB: 450, ActiveTickets: 2}, nil
}

func (f *fakeBackend) UsageSeries(_ context.Context, r domain.TimeRange) (domain.UsageSeries, error) {
	return domain.UsageSeries{TimeRange: r, Data: []domain.UsagePoint{{Name: "Mon", Usage: 10}, {Name: "Sun", Usage: 12}}}, nil
}

func (f *fakeBackend) CostSeries(_ context.Context, r domain.TimeRange) (domain.CostSeries, error) {
	return domain.CostSeries{TimeRange: r, Data: []domain.CostPoint{{Name: "Jan", Cost: 300}, {Name: "Feb", Cost: 450}}}, nil
}

func (f *fakeBackend) Activity(context.Context) ([]domain.Activity, error) {
	return []domain.Activity{{Type: domain.ActivityBill, Description: "Bill generated", Date: "2024-05-01", Status: "unpaid"}}, nil
}

func (f *fakeBackend) Bills(context.Context) ([]domain.Bill, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Bill(nil), f.bills...), nil
}

func (f *fakeBackend) InitiatePayment(_ context.Context, id int64) (api.Checkout, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.payCalls = append(f.payCalls, id)
	return api.Checkout{URL: "https://checkout.example/pay", TxRef: "tx-1"}, nil
}

func (f *fakeBackend) Complaints(context.Context) ([]domain.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]domain.Complaint(nil), f.complaints...), nil
}

func (f *fakeBackend) CreateComplaint(_ context.Context, nc domain.NewComplaint) (domain.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.created = append(f.created, nc)
	c := domain.Complaint{
		ID:          int64(len(f.complaints) + 1),
		Subject:     nc.Subject,
		Description: nc.Description,
		Priority:    nc.Priority,
		Status:      domain.StatusPending,
	}
	f.complaints = append([]domain.Complaint{c}, f.complaints...)
	return c, nil
}

func (f *fakeBackend) Chat(_ context.Context, msg string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.chatCalls = append(f.chatCalls, msg)
	return "Your next bill is due on the 5th.", nil
}

func (f *fakeBackend) Login(_ context.Context, creds domain.Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins = append(f.logins, creds)
	return f.loginErr
}

type fakeNavigator struct {
	mu     sync.Mutex
	opened []string
}

func (n *fakeNavigator) ToLogin() {}

func (n *fakeNavigator) Open(url string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.opened = append(n.opened, url)
	return nil
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

// run executes cmd and returns its message, or nil for a nil cmd.
func run(cmd tea.Cmd) tea.Msg {
	if cmd == nil {
		return nil
	}
	return cmd()
}
