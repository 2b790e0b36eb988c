package pages

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/koraenergy/kora-control/internal/domain"
)

// FlashDuration is how long the submit confirmation stays visible.
const FlashDuration = 3 * time.Second

// ComplaintsAPI is the subset of the backend the complaints page uses.
type ComplaintsAPI interface {
	Complaints(ctx context.Context) ([]domain.Complaint, error)
	CreateComplaint(ctx context.Context, nc domain.NewComplaint) (domain.Complaint, error)
}

// Form is the new-complaint form.
type Form struct {
	Subject     string
	Description string
	Priority    domain.Priority
}

// DefaultForm is an empty form with medium priority.
func DefaultForm() Form {
	return Form{Priority: domain.PriorityMedium}
}

// Validate checks the form before anything is sent.
func (f Form) Validate() error {
	if strings.TrimSpace(f.Subject) == "" {
		return ErrSubjectRequired
	}
	if strings.TrimSpace(f.Description) == "" {
		return ErrDescriptionRequired
	}
	if !f.Priority.Valid() {
		return ErrInvalidPriority
	}
	return nil
}

func (f Form) payload() domain.NewComplaint {
	return domain.NewComplaint{
		Subject:     strings.TrimSpace(f.Subject),
		Description: strings.TrimSpace(f.Description),
		Priority:    f.Priority,
	}
}

// ComplaintsState is a copy of the complaints page for rendering.
type ComplaintsState struct {
	All        []domain.Complaint
	Visible    []domain.Complaint
	Counts     domain.StatusCounts
	Filter     domain.StatusFilter
	Form       Form
	Loaded     bool
	Submitting bool
	Submitted  bool
	Err        error
}

// Complaints holds the ticket list and the new-ticket form. A submission
// is a create followed by a full list reload; the list is never patched
// locally.
type Complaints struct {
	api ComplaintsAPI
	cfg config

	mu         sync.Mutex
	ep         epoch
	list       []domain.Complaint
	loaded     bool
	filter     domain.StatusFilter
	form       Form
	submitting bool
	err        error
	flash      clockwork.Timer
	flashGen   uint64
}

func NewComplaints(api ComplaintsAPI, opts ...Option) *Complaints {
	return &Complaints{
		api:    api,
		cfg:    newConfig(opts),
		filter: domain.FilterAll,
		form:   DefaultForm(),
	}
}

// Load replaces the list with the server's.
func (c *Complaints) Load(ctx context.Context) error {
	c.mu.Lock()
	n, err := c.ep.next()
	c.mu.Unlock()
	if err != nil {
		return err
	}

	list, err := c.api.Complaints(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ep.current(n) {
		return ErrStale
	}
	if err != nil {
		c.err = err
		return err
	}
	c.list = list
	c.loaded = true
	c.err = nil
	return nil
}

// SetForm replaces the form contents.
func (c *Complaints) SetForm(f Form) {
	c.mu.Lock()
	c.form = f
	c.mu.Unlock()
}

// Submit validates and creates the complaint from the current form, then
// reloads the list. On a failed create the form and list are kept and the
// error is recorded. On success the form resets to its defaults and a
// confirmation shows for FlashDuration.
func (c *Complaints) Submit(ctx context.Context) error {
	c.mu.Lock()
	if c.ep.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.submitting {
		c.mu.Unlock()
		return ErrBusy
	}
	form := c.form
	if err := form.Validate(); err != nil {
		c.err = err
		c.mu.Unlock()
		return err
	}
	c.submitting = true
	c.err = nil
	c.mu.Unlock()

	created, err := c.api.CreateComplaint(ctx, form.payload())

	c.mu.Lock()
	c.submitting = false
	if c.ep.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if err != nil {
		c.err = err
		c.mu.Unlock()
		return fmt.Errorf("submit complaint: %w", err)
	}
	c.form = DefaultForm()
	c.showFlashLocked()
	c.mu.Unlock()

	c.cfg.log.Info("complaint created", zap.Int64("id", created.ID))

	if err := c.Load(ctx); err != nil && !errors.Is(err, ErrStale) {
		return fmt.Errorf("%w: %w", ErrReloadAfterSubmit, err)
	}
	return nil
}

// Created reports whether a Submit result means the complaint reached
// the server, even if the list reload that follows failed.
func Created(err error) bool {
	return err == nil || errors.Is(err, ErrReloadAfterSubmit)
}

func (c *Complaints) showFlashLocked() {
	if c.flash != nil {
		c.flash.Stop()
	}
	c.flashGen++
	gen := c.flashGen
	c.flash = c.cfg.clock.AfterFunc(FlashDuration, func() {
		c.mu.Lock()
		if c.flashGen == gen {
			c.flash = nil
		}
		c.mu.Unlock()
	})
}

// SetFilter selects which complaints are visible.
func (c *Complaints) SetFilter(f domain.StatusFilter) {
	c.mu.Lock()
	c.filter = f
	c.mu.Unlock()
}

// CycleFilter advances to the next status filter and returns it.
func (c *Complaints) CycleFilter() domain.StatusFilter {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter = c.filter.Next()
	return c.filter
}

// Close drops responses still in flight and cancels the confirmation.
func (c *Complaints) Close() {
	c.mu.Lock()
	c.ep.close()
	if c.flash != nil {
		c.flash.Stop()
		c.flash = nil
	}
	c.mu.Unlock()
}

func (c *Complaints) State() ComplaintsState {
	c.mu.Lock()
	defer c.mu.Unlock()
	all := append([]domain.Complaint(nil), c.list...)
	return ComplaintsState{
		All:        all,
		Visible:    domain.FilterComplaints(all, c.filter),
		Counts:     domain.CountByStatus(all),
		Filter:     c.filter,
		Form:       c.form,
		Loaded:     c.loaded,
		Submitting: c.submitting,
		Submitted:  c.flash != nil,
		Err:        c.err,
	}
}
