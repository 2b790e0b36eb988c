package pages

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/koraenergy/kora-control/internal/api"
	"github.com/koraenergy/kora-control/internal/domain"
)

// fakeBackend implements every page API in memory.
type fakeBackend struct {
	mu sync.Mutex

	stats      domain.DashboardStats
	usage      []domain.UsagePoint
	cost       []domain.CostPoint
	activity   []domain.Activity
	statsErr   error
	usageCalls []domain.TimeRange
	costCalls  []domain.TimeRange

	bills     []domain.Bill
	billsErr  error
	billCalls int
	checkout  api.Checkout
	payErr    error
	payGate   chan struct{}

	complaints     []domain.Complaint
	complaintsErr  error
	complaintCalls int
	createErr      error
	nextID         int64

	reply     string
	chatErr   error
	chatGate  chan struct{}
	chatCalls []string

	pending *hold
}

// hold parks one list read. The read copies its data, closes entered and
// waits for release, so it returns what the backend held when it began.
type hold struct {
	entered chan struct{}
	release chan struct{}
}

// holdNext arms a hold for the next Stats, Bills or Complaints call.
func (f *fakeBackend) holdNext() *hold {
	h := &hold{entered: make(chan struct{}), release: make(chan struct{})}
	f.mu.Lock()
	f.pending = h
	f.mu.Unlock()
	return h
}

func (f *fakeBackend) takeHoldLocked() *hold {
	h := f.pending
	f.pending = nil
	if h != nil {
		close(h.entered)
	}
	return h
}

func (h *hold) wait() {
	if h != nil {
		<-h.release
	}
}

func (f *fakeBackend) Stats(ctx context.Context) (domain.DashboardStats, error) {
	f.mu.Lock()
	stats, err := f.stats, f.statsErr
	h := f.takeHoldLocked()
	f.mu.Unlock()
	h.wait()
	return stats, err
}

func (f *fakeBackend) UsageSeries(ctx context.Context, r domain.TimeRange) (domain.UsageSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.usageCalls = append(f.usageCalls, r)
	return domain.UsageSeries{TimeRange: r, Data: append([]domain.UsagePoint(nil), f.usage...)}, nil
}

func (f *fakeBackend) CostSeries(ctx context.Context, r domain.TimeRange) (domain.CostSeries, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.costCalls = append(f.costCalls, r)
	return domain.CostSeries{TimeRange: r, Data: append([]domain.CostPoint(nil), f.cost...)}, nil
}

func (f *fakeBackend) Activity(ctx context.Context) ([]domain.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Activity(nil), f.activity...), nil
}

func (f *fakeBackend) Bills(ctx context.Context) ([]domain.Bill, error) {
	f.mu.Lock()
	f.billCalls++
	if f.billsErr != nil {
		f.mu.Unlock()
		return nil, f.billsErr
	}
	bills := append([]domain.Bill(nil), f.bills...)
	h := f.takeHoldLocked()
	f.mu.Unlock()
	h.wait()
	return bills, nil
}

func (f *fakeBackend) InitiatePayment(ctx context.Context, billID int64) (api.Checkout, error) {
	f.mu.Lock()
	gate := f.payGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.checkout, f.payErr
}

func (f *fakeBackend) Complaints(ctx context.Context) ([]domain.Complaint, error) {
	f.mu.Lock()
	f.complaintCalls++
	if f.complaintsErr != nil {
		f.mu.Unlock()
		return nil, f.complaintsErr
	}
	list := append([]domain.Complaint(nil), f.complaints...)
	h := f.takeHoldLocked()
	f.mu.Unlock()
	h.wait()
	return list, nil
}

func (f *fakeBackend) CreateComplaint(ctx context.Context, nc domain.NewComplaint) (domain.Complaint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return domain.Complaint{}, f.createErr
	}
	f.nextID++
	c := domain.Complaint{
		ID:          f.nextID,
		Subject:     nc.Subject,
		Description: nc.Description,
		Priority:    nc.Priority,
		Status:      domain.StatusPending,
	}
	f.complaints = append([]domain.Complaint{c}, f.complaints...)
	return c, nil
}

func (f *fakeBackend) Chat(ctx context.Context, message string) (string, error) {
	f.mu.Lock()
	gate := f.chatGate
	f.chatCalls = append(f.chatCalls, message)
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reply, f.chatErr
}

type fakeNavigator struct {
	mu      sync.Mutex
	opened  []string
	logins  int
	openErr error
}

func (n *fakeNavigator) ToLogin() {
	n.mu.Lock()
	n.logins++
	n.mu.Unlock()
}

func (n *fakeNavigator) Open(url string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.opened = append(n.opened, url)
	return n.openErr
}

func (n *fakeNavigator) Opened() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.opened...)
}

// eventually polls cond until it holds or the deadline passes.
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal(msg)
}
