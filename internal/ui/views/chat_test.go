package views

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/koraenergy/kora-control/internal/domain"
	"github.com/koraenergy/kora-control/internal/pages"
)

func newChat(t *testing.T) (*ChatView, *pages.Chat, *fakeBackend) {
	t.Helper()
	be := &fakeBackend{}
	page := pages.NewChat(be)
	t.Cleanup(page.Close)
	return NewChatView(page), page, be
}

func TestChatView_SendAppendsExchange(t *testing.T) {
	v, page, be := newChat(t)
	v.Focus()

	for _, r := range "When is my bill due?" {
		v.Update(keyRunes(string(r)))
	}
	msg := run(v.Update(key(tea.KeyEnter)))
	if res, ok := msg.(ResultMsg); !ok || res.Err != nil {
		t.Fatalf("send msg = %#v", msg)
	}

	msgs := page.State().Messages
	if len(msgs) != 3 {
		t.Fatalf("transcript has %d entries, want greeting + user + reply", len(msgs))
	}
	if msgs[1].Role != domain.RoleUser || msgs[1].Text != "When is my bill due?" {
		t.Errorf("user entry = %+v", msgs[1])
	}
	if len(be.chatCalls) != 1 {
		t.Errorf("chat calls = %v", be.chatCalls)
	}
	if v.input.Value() != "" {
		t.Errorf("input not cleared: %q", v.input.Value())
	}

	out := v.Render(100, 40, false)
	if !strings.Contains(out, "Your next bill is due on the 5th.") {
		t.Errorf("reply not rendered:\n%s", out)
	}
}

func TestChatView_BlankInputIsIgnored(t *testing.T) {
	v, page, be := newChat(t)
	v.Focus()
	v.Update(keyRunes(" "))
	if msg := run(v.Update(key(tea.KeyEnter))); msg != nil {
		t.Fatalf("blank send produced %#v", msg)
	}
	if len(be.chatCalls) != 0 || len(page.State().Messages) != 1 {
		t.Error("blank input reached the page")
	}
}

func TestChatView_FocusHandling(t *testing.T) {
	v, _, _ := newChat(t)

	if cmd := v.Update(keyRunes("q")); cmd != nil {
		t.Error("q should fall through while the input is not focused")
	}
	v.Update(keyRunes("i"))
	if !v.Typing() {
		t.Fatal("i should focus the input")
	}
	if cmd := v.Update(keyRunes("q")); cmd == nil {
		t.Error("q should be typed while focused")
	}
	if cmd := v.Update(key(tea.KeyTab)); cmd != nil {
		t.Error("tab should still switch pages while typing")
	}
	v.Update(key(tea.KeyEsc))
	if v.Typing() {
		t.Error("esc should leave the input")
	}
}
