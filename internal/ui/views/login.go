package views

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/koraenergy/kora-control/internal/api"
	"github.com/koraenergy/kora-control/internal/domain"
	"github.com/koraenergy/kora-control/internal/i18n"
	"github.com/koraenergy/kora-control/internal/theme"
)

// Authenticator exchanges credentials for a stored session.
// *api.Client satisfies it.
type Authenticator interface {
	Login(ctx context.Context, creds domain.Credentials) error
}

// LoginResultMsg carries the outcome of a sign-in attempt.
type LoginResultMsg struct {
	Err error
}

// LoginView is the sign-in form shown whenever there is no session.
type LoginView struct {
	auth     Authenticator
	username textinput.Model
	password textinput.Model
	focus    int
	busy     bool
	err      string
	notice   string
	AnimTick uint
}

func NewLoginView(auth Authenticator) *LoginView {
	u := textinput.New()
	u.Placeholder = i18n.T("login_username")
	u.CharLimit = 150
	u.Focus()

	p := textinput.New()
	p.Placeholder = i18n.T("login_password")
	p.EchoMode = textinput.EchoPassword
	p.EchoCharacter = '•'
	p.CharLimit = 128

	return &LoginView{auth: auth, username: u, password: p}
}

// Reset clears the password and any error, and shows notice above the
// form. The username is kept for convenience.
func (v *LoginView) Reset(notice string) tea.Cmd {
	v.password.Reset()
	v.err = ""
	v.busy = false
	v.notice = notice
	return v.setFocus(0)
}

func (v *LoginView) setFocus(i int) tea.Cmd {
	v.focus = i
	if i == 0 {
		v.password.Blur()
		return v.username.Focus()
	}
	v.username.Blur()
	return v.password.Focus()
}

// Busy reports whether a sign-in request is in flight.
func (v *LoginView) Busy() bool { return v.busy }

// Done records the outcome of the request started by Update.
func (v *LoginView) Done(err error) {
	v.busy = false
	if err == nil {
		v.err = ""
		v.notice = ""
		v.password.Reset()
		return
	}
	switch {
	case errors.Is(err, api.ErrSessionExpired):
		v.err = i18n.T("login_invalid")
	default:
		v.err = i18n.Tf("login_failed", err)
	}
}

func (v *LoginView) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v.forward(msg)
	}
	if v.busy {
		return KeyHandledCmd
	}
	switch key.String() {
	case "tab", "down", "shift+tab", "up":
		return v.setFocus(1 - v.focus)
	case "enter":
		if v.focus == 0 {
			return v.setFocus(1)
		}
		return v.submit()
	}
	if cmd := v.forward(msg); cmd != nil {
		return cmd
	}
	return KeyHandledCmd
}

func (v *LoginView) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if v.focus == 0 {
		v.username, cmd = v.username.Update(msg)
	} else {
		v.password, cmd = v.password.Update(msg)
	}
	return cmd
}

func (v *LoginView) submit() tea.Cmd {
	creds := domain.Credentials{
		Username: strings.TrimSpace(v.username.Value()),
		Password: v.password.Value(),
	}
	if creds.Username == "" || creds.Password == "" {
		v.err = i18n.T("login_missing")
		return KeyHandledCmd
	}
	v.busy = true
	v.err = ""
	auth := v.auth
	return func() tea.Msg {
		return LoginResultMsg{Err: auth.Login(context.Background(), creds)}
	}
}

func (v *LoginView) Render(width, height int) string {
	bg := theme.ColorCardBg
	title := theme.Shimmer(i18n.T("login_title"), v.AnimTick, bg)
	labelStyle := lipgloss.NewStyle().Foreground(theme.ColorBodyText).Background(bg)

	var rows []string
	rows = append(rows, title, "")
	if v.notice != "" {
		rows = append(rows, theme.WarningStyle.Render(v.notice), "")
	}
	rows = append(rows,
		labelStyle.Render(i18n.T("login_username")),
		v.username.View(),
		"",
		labelStyle.Render(i18n.T("login_password")),
		v.password.View(),
		"",
	)
	switch {
	case v.busy:
		rows = append(rows, theme.AccentStyle.Render(i18n.T("login_in_progress")))
	case v.err != "":
		rows = append(rows, theme.ErrorStyle.Render(v.err))
	default:
		rows = append(rows, "")
	}
	rows = append(rows,
		"",
		theme.MutedStyle.Render(i18n.T("login_help")),
		theme.MutedStyle.Render(i18n.T("login_register_hint")),
	)

	boxWidth := 56
	if width < 60 {
		boxWidth = width - 4
	}
	box := theme.PanelStyle.Width(boxWidth).Render(strings.Join(rows, "\n"))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
