package pages

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/segmentio/ksuid"

	"github.com/koraenergy/kora-control/internal/domain"
)

const (
	// Greeting seeds every new transcript.
	Greeting = "Hello! I am your Kora Assistant. How can I help with your utilities today?"
	// Apology is appended in place of a reply when the assistant call
	// fails.
	Apology = "Sorry, I had trouble processing your message. Please try again."
)

// ChatAPI is the assistant endpoint.
type ChatAPI interface {
	Chat(ctx context.Context, message string) (string, error)
}

// ChatState is a copy of the chat panel for rendering.
type ChatState struct {
	Messages []domain.ChatMessage
	Busy     bool
	Err      error
}

// Chat is an append-only transcript with at most one message in flight.
// Every accepted send appends exactly two entries: the user's message
// and then either the reply or Apology.
type Chat struct {
	api ChatAPI
	cfg config

	mu       sync.Mutex
	ep       epoch
	messages []domain.ChatMessage
	busy     bool
	err      error
	sinks    []func(domain.ChatMessage)
}

func NewChat(api ChatAPI, opts ...Option) *Chat {
	c := &Chat{api: api, cfg: newConfig(opts)}
	c.messages = []domain.ChatMessage{c.entry(domain.RoleAI, Greeting)}
	return c
}

// OnAppend registers fn for every entry appended after registration.
func (c *Chat) OnAppend(fn func(domain.ChatMessage)) {
	c.mu.Lock()
	c.sinks = append(c.sinks, fn)
	c.mu.Unlock()
}

func (c *Chat) entry(role domain.Role, text string) domain.ChatMessage {
	return domain.ChatMessage{
		ID:        ksuid.New().String(),
		Role:      role,
		Text:      text,
		Timestamp: c.cfg.clock.Now(),
	}
}

// appendLocked adds m and returns the sinks to call once the lock is
// released.
func (c *Chat) appendLocked(m domain.ChatMessage) []func(domain.ChatMessage) {
	c.messages = append(c.messages, m)
	return append([]func(domain.ChatMessage){}, c.sinks...)
}

func deliver(sinks []func(domain.ChatMessage), m domain.ChatMessage) {
	for _, fn := range sinks {
		fn(m)
	}
}

// Send appends text as a user entry, asks the assistant, and appends its
// reply. Blank input and sends while another is in flight are rejected
// without touching the transcript. A failed call appends Apology, records
// the error and returns it.
func (c *Chat) Send(ctx context.Context, text string) (domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ChatMessage{}, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.ep.closed {
		c.mu.Unlock()
		return domain.ChatMessage{}, ErrClosed
	}
	if c.busy {
		c.mu.Unlock()
		return domain.ChatMessage{}, ErrBusy
	}
	n := c.ep.n
	c.busy = true
	c.err = nil
	user := c.entry(domain.RoleUser, text)
	sinks := c.appendLocked(user)
	c.mu.Unlock()
	deliver(sinks, user)

	reply, err := c.api.Chat(ctx, text)

	c.mu.Lock()
	if !c.ep.current(n) {
		c.mu.Unlock()
		return domain.ChatMessage{}, ErrClosed
	}
	c.busy = false
	text = reply
	if err != nil {
		c.err = err
		text = Apology
	}
	ai := c.entry(domain.RoleAI, text)
	sinks = c.appendLocked(ai)
	c.mu.Unlock()
	deliver(sinks, ai)

	if err != nil {
		return ai, fmt.Errorf("chat: %w", err)
	}
	return ai, nil
}

// Close drops a reply still in flight.
func (c *Chat) Close() {
	c.mu.Lock()
	c.ep.close()
	c.mu.Unlock()
}

func (c *Chat) State() ChatState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ChatState{
		Messages: append([]domain.ChatMessage(nil), c.messages...),
		Busy:     c.busy,
		Err:      c.err,
	}
}
