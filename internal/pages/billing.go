package pages

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/koraenergy/kora-control/internal/api"
	"github.com/koraenergy/kora-control/internal/domain"
)

// BillingAPI is the subset of the backend the billing page uses.
type BillingAPI interface {
	Bills(ctx context.Context) ([]domain.Bill, error)
	InitiatePayment(ctx context.Context, billID int64) (api.Checkout, error)
}

// BillingState is a copy of the billing page for rendering. Paying is
// the bill whose payment is being initiated, or 0.
type BillingState struct {
	Bills   []domain.Bill
	Summary domain.BillSummary
	Loaded  bool
	Loading bool
	Paying  int64
	Err     error
}

// Billing holds the authoritative bill list. The client never marks a
// bill paid; payment happens at the gateway and the list is reloaded
// afterwards.
type Billing struct {
	api BillingAPI
	nav api.Navigator
	cfg config

	mu      sync.Mutex
	ep      epoch
	bills   []domain.Bill
	loaded  bool
	loading bool
	paying  int64
	err     error
}

func NewBilling(a BillingAPI, nav api.Navigator, opts ...Option) *Billing {
	if nav == nil {
		nav = api.NopNavigator{}
	}
	return &Billing{api: a, nav: nav, cfg: newConfig(opts)}
}

// Load replaces the bill list with the server's. Reloading with no
// server-side change leaves the list unchanged.
func (b *Billing) Load(ctx context.Context) error {
	b.mu.Lock()
	n, err := b.ep.next()
	if err != nil {
		b.mu.Unlock()
		return err
	}
	b.loading = true
	b.mu.Unlock()

	bills, err := b.api.Bills(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.ep.current(n) {
		return ErrStale
	}
	b.loading = false
	if err != nil {
		b.err = err
		return err
	}
	b.bills = bills
	b.loaded = true
	b.err = nil
	return nil
}

// Reconcile reloads after the user returns from the payment gateway.
func (b *Billing) Reconcile(ctx context.Context) error {
	b.cfg.log.Info("reconciling bills after payment hand-off")
	return b.Load(ctx)
}

// Pay starts a gateway payment and hands control to the navigator. Only
// one initiation may be in flight. A response without a checkout URL is
// reported as api.ErrNoCheckoutURL and nothing navigates.
func (b *Billing) Pay(ctx context.Context, billID int64) error {
	b.mu.Lock()
	if b.ep.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	if b.paying != 0 {
		b.mu.Unlock()
		return ErrBusy
	}
	if b.loaded {
		bill, ok := b.findLocked(billID)
		if !ok {
			b.mu.Unlock()
			return fmt.Errorf("%w: %d", ErrUnknownBill, billID)
		}
		if bill.IsPaid {
			b.mu.Unlock()
			return fmt.Errorf("bill %d: %w", billID, ErrAlreadyPaid)
		}
	}
	b.paying = billID
	b.err = nil
	b.mu.Unlock()

	checkout, err := b.api.InitiatePayment(ctx, billID)
	if err == nil && checkout.URL == "" {
		err = api.ErrNoCheckoutURL
	}

	b.mu.Lock()
	b.paying = 0
	if b.ep.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		b.err = err
		b.mu.Unlock()
		return fmt.Errorf("initiate payment for bill %d: %w", billID, err)
	}
	b.mu.Unlock()

	b.cfg.log.Info("handing off to payment gateway",
		zap.Int64("bill_id", billID),
		zap.String("tx_ref", checkout.TxRef),
	)
	if err := b.nav.Open(checkout.URL); err != nil {
		b.mu.Lock()
		b.err = err
		b.mu.Unlock()
		return fmt.Errorf("open checkout: %w", err)
	}
	return nil
}

func (b *Billing) findLocked(id int64) (domain.Bill, bool) {
	for _, bill := range b.bills {
		if bill.ID == id {
			return bill, true
		}
	}
	return domain.Bill{}, false
}

// Close drops any response still in flight.
func (b *Billing) Close() {
	b.mu.Lock()
	b.ep.close()
	b.mu.Unlock()
}

func (b *Billing) State() BillingState {
	b.mu.Lock()
	defer b.mu.Unlock()
	bills := append([]domain.Bill(nil), b.bills...)
	return BillingState{
		Bills:   bills,
		Summary: domain.SummarizeBills(bills),
		Loaded:  b.loaded,
		Loading: b.loading,
		Paying:  b.paying,
		Err:     b.err,
	}
}
