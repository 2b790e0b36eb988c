package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/koraenergy/kora-control/internal/pages"
	"github.com/koraenergy/kora-control/internal/session"
)

// LoginRequiredMsg is sent when the API client evicted the session.
type LoginRequiredMsg struct{}

// PaymentReturnedMsg is sent when the user comes back from the gateway.
type PaymentReturnedMsg struct{}

// SessionMsg is sent on every session change, including changes made by
// another process.
type SessionMsg struct {
	Event session.Event
}

// OverviewMsg is sent after the overview page applied a poll result.
type OverviewMsg struct {
	State pages.OverviewState
}

// Bridge carries events from background goroutines into the bubbletea
// loop. Session and navigation events are never dropped; overview
// updates are dropped when the loop is behind, since the next render
// reads the page state anyway.
type Bridge struct {
	ch   chan tea.Msg
	done chan struct{}
	once sync.Once
}

func NewBridge() *Bridge {
	return &Bridge{
		ch:   make(chan tea.Msg, 16),
		done: make(chan struct{}),
	}
}

func (b *Bridge) post(msg tea.Msg) {
	select {
	case b.ch <- msg:
	case <-b.done:
	}
}

func (b *Bridge) offer(msg tea.Msg) {
	select {
	case b.ch <- msg:
	default:
	}
}

func (b *Bridge) LoginRequired() { b.post(LoginRequiredMsg{}) }

func (b *Bridge) PaymentReturned() { b.post(PaymentReturnedMsg{}) }

func (b *Bridge) SessionChanged(ev session.Event) { b.post(SessionMsg{Event: ev}) }

func (b *Bridge) OverviewUpdated(st pages.OverviewState) { b.offer(OverviewMsg{State: st}) }

// Close unblocks pending senders. Call it after the program exits.
func (b *Bridge) Close() {
	b.once.Do(func() { close(b.done) })
}

// listen waits for the next event. Update re-arms it after every event.
func (b *Bridge) listen() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-b.ch:
			return msg
		case <-b.done:
			return nil
		}
	}
}
