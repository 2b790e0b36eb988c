package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/koraenergy/kora-control/internal/domain"
	"github.com/koraenergy/kora-control/internal/i18n"
	"github.com/koraenergy/kora-control/internal/pages"
	"github.com/koraenergy/kora-control/internal/theme"
	"github.com/koraenergy/kora-control/internal/ui/components"
)

var (
	chatUserStyle = lipgloss.NewStyle().Foreground(theme.ColorGold).Bold(true)
	chatAIStyle   = lipgloss.NewStyle().Foreground(theme.ColorSkyBlue).Bold(true)
	chatTimeStyle = lipgloss.NewStyle().Foreground(theme.ColorMutedText)
)

// ChatView shows the assistant transcript above a single-line input.
// While the input is focused every key except tab goes to it.
type ChatView struct {
	page     *pages.Chat
	input    textinput.Model
	viewport viewport.Model
	typing   bool
	seen     int
	AnimTick uint
}

func NewChatView(page *pages.Chat) *ChatView {
	in := textinput.New()
	in.Placeholder = i18n.T("chat_placeholder")
	in.CharLimit = 2000
	in.Prompt = "› "
	return &ChatView{page: page, input: in}
}

// Typing reports whether the input has focus.
func (v *ChatView) Typing() bool { return v.typing }

// Focus gives the input focus.
func (v *ChatView) Focus() tea.Cmd {
	v.typing = true
	return v.input.Focus()
}

func (v *ChatView) Update(msg tea.KeyMsg) tea.Cmd {
	if !v.typing {
		switch msg.String() {
		case "i", "enter":
			return v.Focus()
		case "j", "down":
			v.viewport.SetYOffset(v.viewport.YOffset + 1)
			return KeyHandledCmd
		case "k", "up":
			v.viewport.SetYOffset(v.viewport.YOffset - 1)
			return KeyHandledCmd
		}
		return nil
	}

	switch msg.Type {
	case tea.KeyTab, tea.KeyShiftTab:
		return nil
	case tea.KeyEsc:
		v.typing = false
		v.input.Blur()
		return KeyHandledCmd
	case tea.KeyEnter:
		return v.send()
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	if cmd != nil {
		return cmd
	}
	return KeyHandledCmd
}

func (v *ChatView) send() tea.Cmd {
	text := v.input.Value()
	if strings.TrimSpace(text) == "" || v.page.State().Busy {
		return KeyHandledCmd
	}
	v.input.Reset()
	page := v.page
	return func() tea.Msg {
		_, err := page.Send(context.Background(), text)
		return ResultMsg{Err: err}
	}
}

func (v *ChatView) Render(width, height int, compact bool) string {
	st := v.page.State()
	cardWidth := width - 4
	bubbleW := cardWidth - 8

	var body []string
	for _, m := range st.Messages {
		body = append(body, renderChatMessage(m, bubbleW), "")
	}
	if st.Busy {
		dots := strings.Repeat(".", int(v.AnimTick%4))
		body = append(body, chatAIStyle.Render(i18n.T("chat_ai"))+" "+theme.MutedStyle.Render(strings.TrimRight(i18n.T("chat_thinking"), ".")+dots))
	}

	v.viewport.Width = cardWidth - 4
	v.viewport.Height = height - 8
	if v.viewport.Height < 3 {
		v.viewport.Height = 3
	}
	v.viewport.SetContent(strings.Join(body, "\n"))
	// Follow the conversation when something new arrives.
	if n := len(st.Messages); n != v.seen || st.Busy {
		v.seen = n
		v.viewport.GotoBottom()
	}

	var sections []string
	sections = append(sections, components.Panel{
		Title: theme.Shimmer(i18n.T("chat_title"), v.AnimTick),
		Width: cardWidth,
		Body:  v.viewport.View(),
		Flat:  compact,
	}.String())
	if st.Err != nil && !Quiet(st.Err) {
		sections = append(sections, "  "+theme.ErrorStyle.Render(i18n.Tf("error_banner", st.Err)))
	}
	v.input.Width = cardWidth - 4
	sections = append(sections, "  "+v.input.View())
	sections = append(sections, components.Hint(i18n.T("chat_help")))
	return strings.Join(sections, "\n")
}

func renderChatMessage(m domain.ChatMessage, width int) string {
	who := chatAIStyle.Render(i18n.T("chat_ai"))
	if m.Role == domain.RoleUser {
		who = chatUserStyle.Render(i18n.T("chat_you"))
	}
	header := who + " " + chatTimeStyle.Render(m.Timestamp.Format("15:04"))
	text := lipgloss.NewStyle().Width(width).Foreground(theme.ColorBodyText).Render(m.Text)
	return header + "\n" + text
}
