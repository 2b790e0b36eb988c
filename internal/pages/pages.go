// Package pages holds the client-side state of each dashboard page.
// Pages are rendering-agnostic: the TUI and the CLI drive the same
// holders. Every page tags its requests with an epoch so a response that
// lands after a newer request, or after the page was closed, is dropped.
package pages

import (
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/koraenergy/kora-control/internal/api"
)

var (
	// ErrBusy rejects an action while the same action is in flight.
	ErrBusy = api.NewLocalError("another request is already in flight")
	// ErrClosed is returned by pages that have been torn down.
	ErrClosed = api.NewLocalError("page closed")
	// ErrStale marks a response that was superseded before it arrived.
	// Its data was discarded.
	ErrStale = api.NewLocalError("response superseded")

	ErrEmptyMessage = api.NewLocalError("message is empty")
	ErrAlreadyPaid  = api.NewLocalError("bill is already paid")
	ErrUnknownBill  = api.NewLocalError("unknown bill")

	ErrSubjectRequired     = api.NewLocalError("subject is required")
	ErrDescriptionRequired = api.NewLocalError("description is required")
	ErrInvalidPriority     = api.NewLocalError("priority must be low, medium or high")

	// ErrReloadAfterSubmit wraps a list reload that failed after the
	// complaint itself was created. The form has already been reset.
	ErrReloadAfterSubmit = errors.New("complaint created, reload list")
)

type config struct {
	clock  clockwork.Clock
	log    *zap.Logger
	period time.Duration
}

type Option func(*config)

// WithClock injects the time source used for timestamps, flashes and
// polling.
func WithClock(c clockwork.Clock) Option {
	return func(cfg *config) { cfg.clock = c }
}

func WithLogger(log *zap.Logger) Option {
	return func(cfg *config) {
		if log != nil {
			cfg.log = log
		}
	}
}

// WithPeriod sets the overview refresh period.
func WithPeriod(d time.Duration) Option {
	return func(cfg *config) { cfg.period = d }
}

func newConfig(opts []Option) config {
	cfg := config{
		clock: clockwork.NewRealClock(),
		log:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// epoch tags requests. The owning page's mutex guards it.
type epoch struct {
	n      uint64
	closed bool
}

// next starts a new request generation, superseding earlier ones.
func (e *epoch) next() (uint64, error) {
	if e.closed {
		return 0, ErrClosed
	}
	e.n++
	return e.n, nil
}

func (e *epoch) current(n uint64) bool {
	return !e.closed && n == e.n
}

func (e *epoch) close() {
	e.closed = true
	e.n++
}
