package ui

import (
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"

	"github.com/koraenergy/kora-control/internal/theme"
)

// Errors stay up longer than confirmations.
const (
	infoTTL  = 5 * time.Second
	errorTTL = 8 * time.Second
)

// Banner is the one-line message shown in place of the status bar. It
// holds at most one message; a new one replaces it.
type Banner struct {
	clock   clockwork.Clock
	text    string
	isError bool
	until   time.Time
}

func NewBanner(clock clockwork.Clock) *Banner {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Banner{clock: clock}
}

func (b *Banner) Info(text string) {
	b.show(text, false, infoTTL)
}

func (b *Banner) Error(text string) {
	b.show(text, true, errorTTL)
}

func (b *Banner) show(text string, isError bool, ttl time.Duration) {
	b.text, b.isError, b.until = text, isError, b.clock.Now().Add(ttl)
}

// Current returns the message on display, if any. A message is visible up
// to and including its deadline.
func (b *Banner) Current() (text string, isError, ok bool) {
	if b.text == "" || b.clock.Now().After(b.until) {
		return "", false, false
	}
	return b.text, b.isError, true
}

// Sweep forgets an expired message. Called from Update on every blink.
func (b *Banner) Sweep() {
	if _, _, ok := b.Current(); !ok {
		b.text = ""
	}
}

func (b *Banner) View(width int) string {
	text, isError, ok := b.Current()
	if !ok {
		return ""
	}
	color := theme.ColorMauve
	if isError {
		color = theme.ColorDanger
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(color).
		Render(text)
}
