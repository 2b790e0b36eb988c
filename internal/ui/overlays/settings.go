package overlays

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/koraenergy/kora-control/internal/config"
	"github.com/koraenergy/kora-control/internal/domain"
	"github.com/koraenergy/kora-control/internal/i18n"
	"github.com/koraenergy/kora-control/internal/theme"
)

// ConfigChangedMsg carries the config saved when the settings overlay
// closes with changes.
type ConfigChangedMsg struct {
	Config config.Config
}

// setting is one editable config value with a closed set of choices.
type setting struct {
	label   string
	choices []string
	get     func(config.Config) string
	set     func(*config.Config, string)
}

func settings() []setting {
	langs := make([]string, 0, 1)
	for _, l := range i18n.Languages() {
		langs = append(langs, string(l))
	}
	return []setting{
		{
			label:   i18n.T("setting_refresh"),
			choices: []string{"5", "10", "15", "30", "60"},
			get:     func(c config.Config) string { return strconv.Itoa(c.General.Interval) },
			set: func(c *config.Config, v string) {
				if n, err := strconv.Atoi(v); err == nil {
					c.General.Interval = n
				}
			},
		},
		{
			label:   i18n.T("setting_time_range"),
			choices: []string{string(domain.RangeWeek), string(domain.RangeMonth), string(domain.RangeYear)},
			get:     func(c config.Config) string { return c.General.TimeRange },
			set:     func(c *config.Config, v string) { c.General.TimeRange = v },
		},
		{
			label:   i18n.T("setting_open_browser"),
			choices: []string{"on", "off"},
			get: func(c config.Config) string {
				if c.Payment.OpenBrowser {
					return "on"
				}
				return "off"
			},
			set: func(c *config.Config, v string) { c.Payment.OpenBrowser = v == "on" },
		},
		{
			label:   i18n.T("setting_language"),
			choices: langs,
			get:     func(c config.Config) string { return c.General.Language },
			set:     func(c *config.Config, v string) { c.General.Language = v },
		},
	}
}

// SettingsOverlay edits the user-facing part of the config file. The file
// is written once, when the overlay closes with changes.
type SettingsOverlay struct {
	cfg      config.Config
	cfgPath  string
	items    []setting
	cursor   int
	dirty    bool
	animTick uint
	log      *zap.Logger
}

func NewSettingsOverlay(cfg config.Config, cfgPath string, log *zap.Logger) *SettingsOverlay {
	if log == nil {
		log = zap.NewNop()
	}
	return &SettingsOverlay{cfg: cfg, cfgPath: cfgPath, items: settings(), log: log}
}

func (s *SettingsOverlay) SetAnimTick(tick uint) {
	s.animTick = tick
}

// Update handles a key and reports whether the overlay closed.
func (s *SettingsOverlay) Update(msg tea.KeyMsg) (bool, tea.Cmd) {
	switch msg.String() {
	case "j", "down":
		s.cursor = min(s.cursor+1, len(s.items)-1)
	case "k", "up":
		s.cursor = max(s.cursor-1, 0)
	case "enter", " ", "l", "right":
		s.step(1)
	case "h", "left":
		s.step(-1)
	case "esc", "s":
		return true, s.save()
	}
	return false, nil
}

// step moves the selected setting to the neighbouring choice. A value not
// among the choices steps from the first one.
func (s *SettingsOverlay) step(dir int) {
	it := s.items[s.cursor]
	n := len(it.choices)
	i := max(slices.Index(it.choices, it.get(s.cfg)), 0)
	it.set(&s.cfg, it.choices[(i+dir+n)%n])
	s.dirty = true
}

func (s *SettingsOverlay) save() tea.Cmd {
	if !s.dirty {
		return nil
	}
	if err := config.Save(s.cfg, s.cfgPath); err != nil {
		s.log.Warn("save settings", zap.String("path", s.cfgPath), zap.Error(err))
	}
	cfg := s.cfg
	return func() tea.Msg { return ConfigChangedMsg{Config: cfg} }
}

func (s *SettingsOverlay) Render(width, height int) string {
	bg := theme.ColorCardBg
	label := lipgloss.NewStyle().Foreground(theme.ColorBodyText).Background(bg).Width(18)
	value := lipgloss.NewStyle().Foreground(theme.ColorSkyBlue).Background(bg)
	focused := lipgloss.NewStyle().Foreground(theme.ColorGold).Bold(true).Background(bg)

	rows := make([]string, len(s.items))
	for i, it := range s.items {
		v := it.get(s.cfg)
		if i == s.cursor {
			rows[i] = focused.Render(fmt.Sprintf("▶ %-16s ‹ %s ›", it.label, v))
			continue
		}
		rows[i] = "  " + label.Render(it.label) + value.Render(v)
	}

	title := theme.Shimmer(i18n.T("settings"), s.animTick, bg)
	footer := lipgloss.NewStyle().Foreground(theme.ColorMutedText).Background(bg).Render(i18n.T("settings_help"))
	content := title + "\n\n" + strings.Join(rows, "\n") + "\n\n" + footer
	return theme.PanelStyle.Width(min(50, width-4)).Render(content)
}
