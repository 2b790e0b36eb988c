// Package session holds the single bearer credential that marks the user
// as logged in. Every outbound request reads it and any response handler
// may clear it.
package session

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// EventKind describes a session state change.
type EventKind int

const (
	EventLogin EventKind = iota
	EventLogout
)

func (k EventKind) String() string {
	switch k {
	case EventLogin:
		return "login"
	case EventLogout:
		return "logout"
	}
	return "unknown"
}

// Event is delivered to subscribers after the session changes.
type Event struct {
	Kind EventKind
	// External is true when the change was picked up from the store
	// (another process logged in or out) rather than made through this
	// Manager.
	External bool
}

// Manager owns the in-memory credential and mirrors it to a Store.
// It is safe for concurrent use.
type Manager struct {
	mu     sync.Mutex
	token  string
	store  Store
	subs   map[int]func(Event)
	nextID int
	log    *zap.Logger
}

// NewManager loads any persisted token from store.
func NewManager(store Store, log *zap.Logger) (*Manager, error) {
	if log == nil {
		log = zap.NewNop()
	}
	token, err := store.Load()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return &Manager{
		token: token,
		store: store,
		subs:  make(map[int]func(Event)),
		log:   log,
	}, nil
}

// Token returns the current credential and whether one is held.
func (m *Manager) Token() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, m.token != ""
}

// LoggedIn reports whether a credential is held.
func (m *Manager) LoggedIn() bool {
	_, ok := m.Token()
	return ok
}

// Set replaces the credential after a successful login.
func (m *Manager) Set(token string) error {
	if token == "" {
		return fmt.Errorf("set session: empty token")
	}
	m.mu.Lock()
	if err := m.store.Save(token); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("persist session: %w", err)
	}
	m.token = token
	m.mu.Unlock()

	m.log.Info("session established")
	m.notify(Event{Kind: EventLogin})
	return nil
}

// Clear drops the credential. It returns false, and notifies nobody, when
// there was nothing to clear. The in-memory cell is cleared even if the
// store fails, so a rejected token is never sent again.
func (m *Manager) Clear() (bool, error) {
	m.mu.Lock()
	if m.token == "" {
		m.mu.Unlock()
		return false, nil
	}
	m.token = ""
	err := m.store.Delete()
	m.mu.Unlock()

	m.log.Info("session cleared")
	m.notify(Event{Kind: EventLogout})
	if err != nil {
		return true, fmt.Errorf("delete persisted session: %w", err)
	}
	return true, nil
}

// Reload re-reads the store and notifies subscribers if the credential
// changed underneath us. The read happens under the lock so a concurrent
// Set or Clear cannot be overwritten by what the store held before it.
func (m *Manager) Reload() error {
	m.mu.Lock()
	token, err := m.store.Load()
	if err != nil {
		m.mu.Unlock()
		return fmt.Errorf("reload session: %w", err)
	}
	if token == m.token {
		m.mu.Unlock()
		return nil
	}
	m.token = token
	m.mu.Unlock()

	kind := EventLogin
	if token == "" {
		kind = EventLogout
	}
	m.log.Info("session changed externally", zap.Stringer("event", kind))
	m.notify(Event{Kind: kind, External: true})
	return nil
}

// Claims decodes the current token. ok is false when logged out or when
// the token is not a JWT.
func (m *Manager) Claims() (Claims, bool) {
	token, held := m.Token()
	if !held {
		return Claims{}, false
	}
	c, err := ParseClaims(token)
	if err != nil {
		return Claims{}, false
	}
	return c, true
}

// Subscribe registers fn for every future Event. Callbacks run on the
// goroutine that made the change, outside the Manager's lock.
func (m *Manager) Subscribe(fn func(Event)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.subs[id] = fn
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

func (m *Manager) notify(ev Event) {
	m.mu.Lock()
	fns := make([]func(Event), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}
