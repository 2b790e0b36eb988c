package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/koraenergy/kora-control/internal/i18n"
)

// KeyMap holds the global key bindings. Pages bind their own keys first;
// these only apply to keys a page did not consume. KeyMap satisfies
// help.KeyMap, so the status bar and help overlay render from it.
type KeyMap struct {
	Quit      key.Binding
	ForceQuit key.Binding
	Overview  key.Binding
	Billing   key.Binding
	Complaint key.Binding
	Chat      key.Binding
	Next      key.Binding
	Prev      key.Binding
	Help      key.Binding
	Settings  key.Binding
	Reload    key.Binding
	Logout    key.Binding
	Close     key.Binding
}

func bind(desc string, keys ...string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(keys[0], desc))
}

// NewKeyMap builds the global bindings with help text in the active
// language. Rebuild it after a language change.
func NewKeyMap() KeyMap {
	return KeyMap{
		Quit:      bind(i18n.T("status_quit"), "q"),
		ForceQuit: bind(i18n.T("status_quit"), "ctrl+c"),
		Overview:  bind(i18n.T("tab_overview"), "1"),
		Billing:   bind(i18n.T("tab_billing"), "2"),
		Complaint: bind(i18n.T("tab_complaints"), "3"),
		Chat:      bind(i18n.T("tab_chat"), "4"),
		Next:      bind(i18n.T("key_next_page"), "tab"),
		Prev:      bind(i18n.T("key_prev_page"), "shift+tab"),
		Help:      bind(i18n.T("status_help"), "?"),
		Settings:  bind(i18n.T("status_settings"), "s"),
		Reload:    bind(i18n.T("status_refresh"), "r"),
		Logout:    bind(i18n.T("status_logout"), "L"),
		Close:     bind(i18n.T("key_close"), "esc", "?"),
	}
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Help, k.Settings, k.Reload, k.Logout, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Overview, k.Billing, k.Complaint, k.Chat, k.Next, k.Prev},
		{k.Help, k.Settings, k.Reload, k.Logout, k.Quit},
	}
}
