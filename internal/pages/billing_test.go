package pages

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/koraenergy/kora-control/internal/api"
	"github.com/koraenergy/kora-control/internal/domain"
)

func billingBackend() *fakeBackend {
	return &fakeBackend{
		bills: []domain.Bill{
			{ID: 1, Amount: "120.50", UsageKWh: 80, IsPaid: true, BillingDate: "2026-08-01"},
			{ID: 2, Amount: "99.50", UsageKWh: 60, IsPaid: false, BillingDate: "2026-09-01"},
			{ID: 3, Amount: "10", UsageKWh: 5, IsPaid: false, BillingDate: "2026-10-01"},
		},
		checkout: api.Checkout{URL: "https://checkout.example/pay/abc", TxRef: "tx-abc"},
	}
}

func TestBilling_LoadAndSummary(t *testing.T) {
	b := NewBilling(billingBackend(), nil)
	if err := b.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	st := b.State()
	want := domain.BillSummary{Total: 3, Paid: 1, Unpaid: 2, UnpaidAmount: 109.5, TotalUsage: 145}
	if st.Summary != want {
		t.Errorf("Summary = %+v, want %+v", st.Summary, want)
	}
	if !st.Loaded || st.Loading {
		t.Errorf("Loaded/Loading = %v/%v", st.Loaded, st.Loading)
	}
}

func TestBilling_ReloadIsIdempotent(t *testing.T) {
	b := NewBilling(billingBackend(), nil)
	if err := b.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	first := b.State().Bills
	if err := b.Load(context.Background()); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if second := b.State().Bills; !reflect.DeepEqual(first, second) {
		t.Errorf("reload changed list:\n%v\n%v", first, second)
	}
}

func TestBilling_PayNavigatesToCheckout(t *testing.T) {
	be := billingBackend()
	nav := &fakeNavigator{}
	b := NewBilling(be, nav)
	b.Load(context.Background())

	if err := b.Pay(context.Background(), 2); err != nil {
		t.Fatalf("Pay: %v", err)
	}
	if got := nav.Opened(); len(got) != 1 || got[0] != "https://checkout.example/pay/abc" {
		t.Errorf("opened = %v", got)
	}
	for _, bill := range b.State().Bills {
		if bill.ID == 2 && bill.IsPaid {
			t.Error("Pay must never mark a bill paid locally")
		}
	}
}

func TestBilling_PayWithoutCheckoutURL(t *testing.T) {
	be := billingBackend()
	be.checkout = api.Checkout{}
	nav := &fakeNavigator{}
	b := NewBilling(be, nav)
	b.Load(context.Background())

	err := b.Pay(context.Background(), 2)
	if !errors.Is(err, api.ErrNoCheckoutURL) {
		t.Fatalf("err = %v, want ErrNoCheckoutURL", err)
	}
	if len(nav.Opened()) != 0 {
		t.Error("navigated without a checkout url")
	}
	st := b.State()
	if !errors.Is(st.Err, api.ErrNoCheckoutURL) {
		t.Errorf("state error = %v", st.Err)
	}
	if st.Paying != 0 {
		t.Errorf("Paying = %d after failure, want 0", st.Paying)
	}
	if api.Classify(err) != api.KindDomain {
		t.Errorf("Classify = %v, want domain", api.Classify(err))
	}
}

func TestBilling_PayRejections(t *testing.T) {
	tests := []struct {
		name string
		id   int64
		want error
	}{
		{name: "already paid", id: 1, want: ErrAlreadyPaid},
		{name: "unknown bill", id: 42, want: ErrUnknownBill},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nav := &fakeNavigator{}
			b := NewBilling(billingBackend(), nav)
			b.Load(context.Background())
			if err := b.Pay(context.Background(), tt.id); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
			if len(nav.Opened()) != 0 {
				t.Error("rejected payment navigated")
			}
		})
	}
}

func TestBilling_SinglePaymentInFlight(t *testing.T) {
	be := billingBackend()
	be.payGate = make(chan struct{})
	nav := &fakeNavigator{}
	b := NewBilling(be, nav)
	b.Load(context.Background())

	done := make(chan error, 1)
	go func() { done <- b.Pay(context.Background(), 2) }()

	eventually(t, func() bool { return b.State().Paying == 2 }, "first payment never started")
	if err := b.Pay(context.Background(), 3); !errors.Is(err, ErrBusy) {
		t.Errorf("concurrent Pay = %v, want ErrBusy", err)
	}

	close(be.payGate)
	if err := <-done; err != nil {
		t.Fatalf("first Pay: %v", err)
	}
	if len(nav.Opened()) != 1 {
		t.Errorf("opened %d urls, want 1", len(nav.Opened()))
	}
}

func TestBilling_ReconcileReflectsServer(t *testing.T) {
	be := billingBackend()
	b := NewBilling(be, &fakeNavigator{})
	b.Load(context.Background())
	b.Pay(context.Background(), 2)

	be.mu.Lock()
	be.bills[1].IsPaid = true
	be.mu.Unlock()

	if err := b.Reconcile(context.Background()); err != nil {
		t.Fatalf("Reconcile: %v", err)
	}
	if s := b.State().Summary; s.Paid != 2 || s.Unpaid != 1 {
		t.Errorf("summary after reconcile = %+v", s)
	}
}

func TestBilling_LoadFailureKeepsList(t *testing.T) {
	be := billingBackend()
	b := NewBilling(be, nil)
	b.Load(context.Background())

	be.mu.Lock()
	be.billsErr = &api.StatusError{Method: "GET", Path: "billing/", Status: 503}
	be.mu.Unlock()

	err := b.Load(context.Background())
	if api.Classify(err) != api.KindServer {
		t.Fatalf("Classify = %v, want server", api.Classify(err))
	}
	st := b.State()
	if len(st.Bills) != 3 || st.Err == nil {
		t.Errorf("state after failure = %+v", st)
	}
}

func TestBilling_Closed(t *testing.T) {
	b := NewBilling(billingBackend(), nil)
	b.Close()
	if err := b.Load(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Load = %v, want ErrClosed", err)
	}
	if err := b.Pay(context.Background(), 2); !errors.Is(err, ErrClosed) {
		t.Errorf("Pay = %v, want ErrClosed", err)
	}
}

func TestBilling_SupersededLoadIsDropped(t *testing.T) {
	be := billingBackend()
	b := NewBilling(be, nil)

	h := be.holdNext()
	slow := make(chan error, 1)
	go func() { slow <- b.Load(context.Background()) }()
	<-h.entered

	be.mu.Lock()
	be.bills[1].IsPaid = true
	be.mu.Unlock()
	if err := b.Load(context.Background()); err != nil {
		t.Fatalf("second Load: %v", err)
	}

	close(h.release)
	if err := <-slow; !errors.Is(err, ErrStale) {
		t.Fatalf("superseded Load = %v, want ErrStale", err)
	}
	st := b.State()
	if !st.Bills[1].IsPaid || st.Summary.Paid != 2 {
		t.Errorf("bills = %+v, want bill 2 paid from the newer load", st.Bills)
	}
	if st.Loading {
		t.Error("still loading after both loads returned")
	}
}
