package pages

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/koraenergy/kora-control/internal/domain"
	"github.com/koraenergy/kora-control/internal/poller"
)

// OverviewAPI is the subset of the backend the overview reads.
type OverviewAPI interface {
	Stats(ctx context.Context) (domain.DashboardStats, error)
	UsageSeries(ctx context.Context, r domain.TimeRange) (domain.UsageSeries, error)
	CostSeries(ctx context.Context, r domain.TimeRange) (domain.CostSeries, error)
	Activity(ctx context.Context) ([]domain.Activity, error)
}

// Snapshot is one complete overview fetch.
type Snapshot struct {
	Stats     domain.DashboardStats `json:"stats"`
	Usage     domain.UsageSeries    `json:"usage"`
	Cost      domain.CostSeries     `json:"cost"`
	Activity  []domain.Activity     `json:"activity"`
	FetchedAt time.Time             `json:"fetched_at"`
}

func (s Snapshot) UsageTrend() float64 { return domain.UsageTrend(s.Usage.Data) }

func (s Snapshot) TotalUsage() float64 { return domain.TotalUsage(s.Usage.Data) }

func (s Snapshot) TotalCost() float64 { return domain.TotalCost(s.Cost.Data) }

// Pairs zips usage with cost by position.
func (s Snapshot) Pairs() []domain.UsageCost {
	return domain.PairUsageCost(s.Usage.Data, s.Cost.Data)
}

// OverviewState is a copy of the overview page for rendering. Snapshot
// is nil until the first fetch or cached seed lands; Stale is true while
// it came from the local cache rather than a live fetch.
type OverviewState struct {
	Snapshot   *Snapshot
	Stale      bool
	Err        error
	UsageRange domain.TimeRange
	CostRange  domain.TimeRange
	Polling    bool
}

// Overview is the live dashboard. While started it re-fetches the whole
// snapshot every period and replaces it wholesale on success. A failed
// fetch keeps the previous snapshot and records the error.
type Overview struct {
	api OverviewAPI
	cfg config
	p   *poller.Poller[Snapshot]

	mu         sync.Mutex
	ep         epoch
	snap       *Snapshot
	stale      bool
	err        error
	usageRange domain.TimeRange
	costRange  domain.TimeRange
	observers  []func(Snapshot)
	onUpdate   func(OverviewState)

	// deliver orders state changes together with their callbacks.
	deliver sync.Mutex
}

func NewOverview(api OverviewAPI, opts ...Option) *Overview {
	o := &Overview{
		api:        api,
		cfg:        newConfig(opts),
		usageRange: domain.RangeWeek,
		costRange:  domain.RangeMonth,
		onUpdate:   func(OverviewState) {},
	}
	o.p = poller.New(o.Fetch,
		poller.WithClock[Snapshot](o.cfg.clock),
		poller.WithPeriod[Snapshot](o.cfg.period),
		poller.WithLogger[Snapshot](o.cfg.log.Named("overview")),
		poller.OnResult(func(s Snapshot) { o.apply(0, s, nil) }),
		poller.OnError[Snapshot](func(err error) { o.apply(0, Snapshot{}, err) }),
	)
	return o
}

// OnSnapshot registers fn for every live snapshot that is applied.
// Register observers before Start.
func (o *Overview) OnSnapshot(fn func(Snapshot)) {
	o.mu.Lock()
	o.observers = append(o.observers, fn)
	o.mu.Unlock()
}

// OnUpdate registers the single callback fired after every state change.
func (o *Overview) OnUpdate(fn func(OverviewState)) {
	o.mu.Lock()
	o.onUpdate = fn
	o.mu.Unlock()
}

// Fetch issues the four overview requests concurrently and returns the
// combined snapshot. Any single failure fails the whole snapshot.
func (o *Overview) Fetch(ctx context.Context) (Snapshot, error) {
	o.mu.Lock()
	usageRange, costRange := o.usageRange, o.costRange
	o.mu.Unlock()

	var s Snapshot
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		s.Stats, err = o.api.Stats(ctx)
		return err
	})
	g.Go(func() error {
		var err error
		s.Usage, err = o.api.UsageSeries(ctx, usageRange)
		return err
	})
	g.Go(func() error {
		var err error
		s.Cost, err = o.api.CostSeries(ctx, costRange)
		return err
	})
	g.Go(func() error {
		var err error
		s.Activity, err = o.api.Activity(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, fmt.Errorf("fetch overview: %w", err)
	}
	s.FetchedAt = o.cfg.clock.Now()
	return s, nil
}

// Load performs one fetch outside the polling loop and applies it if no
// newer request superseded it.
func (o *Overview) Load(ctx context.Context) error {
	o.mu.Lock()
	n, err := o.ep.next()
	o.mu.Unlock()
	if err != nil {
		return err
	}

	s, err := o.Fetch(ctx)
	if !o.apply(n, s, err) {
		return ErrStale
	}
	return err
}

// apply records a fetch outcome and notifies. load is the epoch of a
// Load call, or zero for a poller delivery. It reports false when the
// outcome was dropped as superseded or the page is closed.
func (o *Overview) apply(load uint64, s Snapshot, err error) bool {
	o.deliver.Lock()
	defer o.deliver.Unlock()

	o.mu.Lock()
	if o.ep.closed || (load != 0 && !o.ep.current(load)) {
		o.mu.Unlock()
		return false
	}
	if err != nil {
		o.err = err
	} else {
		o.snap = &s
		o.stale = false
		o.err = nil
	}
	observers := append([]func(Snapshot){}, o.observers...)
	onUpdate := o.onUpdate
	state := o.stateLocked()
	o.mu.Unlock()

	if err == nil {
		for _, fn := range observers {
			fn(s)
		}
	}
	onUpdate(state)
	return true
}

// Seed shows a previously cached snapshot until the first live fetch
// lands. It is ignored once live data is present.
func (o *Overview) Seed(s Snapshot) {
	o.deliver.Lock()
	defer o.deliver.Unlock()

	o.mu.Lock()
	if o.snap != nil || o.ep.closed {
		o.mu.Unlock()
		return
	}
	o.snap = &s
	o.stale = true
	onUpdate := o.onUpdate
	state := o.stateLocked()
	o.mu.Unlock()
	onUpdate(state)
}

// Start begins live polling.
func (o *Overview) Start(ctx context.Context) {
	o.mu.Lock()
	closed := o.ep.closed
	o.mu.Unlock()
	if closed {
		return
	}
	o.cfg.log.Debug("overview polling started", zap.Duration("period", o.p.Period()))
	o.p.Start(ctx)
}

// Stop ends polling. The page keeps its last snapshot.
func (o *Overview) Stop() {
	o.p.Stop()
}

// Close stops polling and drops any response still in flight.
func (o *Overview) Close() {
	o.p.Stop()
	o.mu.Lock()
	o.ep.close()
	o.mu.Unlock()
}

// SetUsageRange changes the usage window and refetches immediately when
// polling.
func (o *Overview) SetUsageRange(r domain.TimeRange) error {
	if !r.Valid() {
		return fmt.Errorf("usage range %q: must be week, month or year", r)
	}
	o.mu.Lock()
	o.usageRange = r
	o.mu.Unlock()
	o.p.Refresh()
	return nil
}

// SetCostRange changes the cost window and refetches immediately when
// polling.
func (o *Overview) SetCostRange(r domain.TimeRange) error {
	if !r.Valid() {
		return fmt.Errorf("cost range %q: must be week, month or year", r)
	}
	o.mu.Lock()
	o.costRange = r
	o.mu.Unlock()
	o.p.Refresh()
	return nil
}

// Refresh issues an immediate fetch when polling.
func (o *Overview) Refresh() {
	o.p.Refresh()
}

func (o *Overview) State() OverviewState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.stateLocked()
}

func (o *Overview) stateLocked() OverviewState {
	st := OverviewState{
		Stale:      o.stale,
		Err:        o.err,
		UsageRange: o.usageRange,
		CostRange:  o.costRange,
		Polling:    o.p.Running(),
	}
	if o.snap != nil {
		cp := *o.snap
		cp.Activity = append([]domain.Activity(nil), o.snap.Activity...)
		st.Snapshot = &cp
	}
	return st
}
