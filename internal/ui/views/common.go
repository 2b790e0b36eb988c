package views

import (
	"errors"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/koraenergy/kora-control/internal/api"
	"github.com/koraenergy/kora-control/internal/pages"
)

// KeyHandledCmd is returned by view Update methods to signal that a key
// was consumed and should not propagate to app-level scroll or global
// handlers. It is a no-op cmd: bubbletea discards nil messages.
var KeyHandledCmd tea.Cmd = func() tea.Msg { return nil }

// ResultMsg reports the outcome of a page action started by a view.
// Info is shown as a notification when the action succeeded.
type ResultMsg struct {
	Info string
	Err  error
}

// Quiet reports whether err needs no banner: superseded or torn-down
// requests, and session expiry, which the login screen reports itself.
func Quiet(err error) bool {
	return errors.Is(err, pages.ErrStale) ||
		errors.Is(err, pages.ErrClosed) ||
		errors.Is(err, api.ErrSessionExpired)
}

func moveCursor(cursor, delta, n int) int {
	if n == 0 {
		return 0
	}
	cursor += delta
	if cursor < 0 {
		return 0
	}
	if cursor >= n {
		return n - 1
	}
	return cursor
}
