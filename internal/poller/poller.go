// Package poller re-fetches a value on a fixed period while it is
// running. Every fetch is a full, independent request; fetches may
// overlap, but only the most recently issued one may publish its result.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// DefaultPeriod is the dashboard refresh period.
const DefaultPeriod = 5 * time.Second

// FetchFunc performs one full fetch.
type FetchFunc[T any] func(ctx context.Context) (T, error)

// Poller runs a FetchFunc immediately on Start and then once per period
// until Stop. A failed fetch leaves whatever the caller last received in
// place and is reported through OnError.
type Poller[T any] struct {
	fetch    FetchFunc[T]
	period   time.Duration
	clock    clockwork.Clock
	log      *zap.Logger
	onResult func(T)
	onError  func(error)

	mu      sync.Mutex
	epoch   uint64
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	issued  int
	flights sync.WaitGroup

	// deliver serializes the currency check with the callback it guards,
	// so an older fetch can never publish after a newer one.
	deliver sync.Mutex
}

type Option[T any] func(*Poller[T])

// WithPeriod sets the refresh period. Non-positive values are ignored.
func WithPeriod[T any](d time.Duration) Option[T] {
	return func(p *Poller[T]) {
		if d > 0 {
			p.period = d
		}
	}
}

// WithClock injects the time source.
func WithClock[T any](c clockwork.Clock) Option[T] {
	return func(p *Poller[T]) { p.clock = c }
}

func WithLogger[T any](log *zap.Logger) Option[T] {
	return func(p *Poller[T]) { p.log = log }
}

// OnResult is called with every result that is still current when it
// arrives. Calls never overlap and arrive in issue order.
func OnResult[T any](fn func(T)) Option[T] {
	return func(p *Poller[T]) { p.onResult = fn }
}

// OnError is called with every failure that is still current when it
// arrives.
func OnError[T any](fn func(error)) Option[T] {
	return func(p *Poller[T]) { p.onError = fn }
}

func New[T any](fetch FetchFunc[T], opts ...Option[T]) *Poller[T] {
	p := &Poller[T]{
		fetch:    fetch,
		period:   DefaultPeriod,
		clock:    clockwork.NewRealClock(),
		log:      zap.NewNop(),
		onResult: func(T) {},
		onError:  func(error) {},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Period returns the refresh period.
func (p *Poller[T]) Period() time.Duration {
	return p.period
}

// Start issues the first fetch and begins ticking. Starting a running
// poller does nothing.
func (p *Poller[T]) Start(ctx context.Context) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return
	}
	p.ctx, p.cancel = context.WithCancel(ctx)
	p.done = make(chan struct{})
	p.running = true
	ticker := p.clock.NewTicker(p.period)
	runCtx, done := p.ctx, p.done
	p.mu.Unlock()

	p.Refresh()
	go p.loop(runCtx, ticker, done)
}

func (p *Poller[T]) loop(ctx context.Context, ticker clockwork.Ticker, done chan struct{}) {
	defer close(done)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			if ctx.Err() != nil {
				return
			}
			p.Refresh()
		}
	}
}

// Refresh issues a fetch now, superseding any fetch still in flight.
// It does nothing when the poller is stopped.
func (p *Poller[T]) Refresh() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.epoch++
	p.issued++
	p.flights.Add(1)
	epoch, ctx := p.epoch, p.ctx
	p.mu.Unlock()

	go p.run(ctx, epoch)
}

func (p *Poller[T]) run(ctx context.Context, epoch uint64) {
	defer p.flights.Done()
	start := p.clock.Now()
	v, err := p.fetch(ctx)

	p.deliver.Lock()
	defer p.deliver.Unlock()
	p.mu.Lock()
	current := p.running && epoch == p.epoch
	p.mu.Unlock()
	if !current {
		p.log.Debug("discarding stale fetch", zap.Uint64("epoch", epoch))
		return
	}

	if err != nil {
		p.log.Warn("fetch failed", zap.Error(err), zap.Uint64("epoch", epoch))
		p.onError(err)
		return
	}
	p.log.Debug("fetch complete",
		zap.Uint64("epoch", epoch),
		zap.Duration("elapsed", p.clock.Since(start)),
	)
	p.onResult(v)
}

// Stop halts ticking, cancels every fetch still in flight and discards
// their results. It blocks until the tick loop and those fetches have
// returned, so no fetch is issued or delivered after it returns.
func (p *Poller[T]) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	p.epoch++
	p.cancel()
	done := p.done
	p.mu.Unlock()

	<-done
	p.flights.Wait()
}

// Running reports whether the poller is between Start and Stop.
func (p *Poller[T]) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Issued returns how many fetches have been issued since construction.
func (p *Poller[T]) Issued() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.issued
}
