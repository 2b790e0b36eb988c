package views

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/koraenergy/kora-control/internal/domain"
	"github.com/koraenergy/kora-control/internal/pages"
)

func newComplaints(t *testing.T, existing ...domain.Complaint) (*ComplaintsView, *pages.Complaints, *fakeBackend) {
	t.Helper()
	be := &fakeBackend{complaints: existing}
	page := pages.NewComplaints(be)
	t.Cleanup(page.Close)
	if err := page.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return NewComplaintsView(page), page, be
}

func typeKeys(v *ComplaintsView, s string) {
	for _, r := range s {
		v.Update(keyRunes(string(r)))
	}
}

func TestComplaintsView_SubmitRoundTrip(t *testing.T) {
	v, page, be := newComplaints(t)

	v.Update(keyRunes("n"))
	if !v.FormOpen() {
		t.Fatal("n should open the form")
	}
	typeKeys(v, "No power")
	v.Update(key(tea.KeyTab))
	typeKeys(v, "Outage since 9am")
	v.Update(key(tea.KeyTab))
	v.Update(key(tea.KeyRight))

	msg := run(v.Update(key(tea.KeyCtrlD)))
	res, ok := msg.(SubmitResultMsg)
	if !ok {
		t.Fatalf("ctrl+d produced %T", msg)
	}
	if res.Err != nil {
		t.Fatalf("submit: %v", res.Err)
	}
	if len(be.created) != 1 {
		t.Fatalf("created = %d, want 1", len(be.created))
	}
	got := be.created[0]
	if got.Subject != "No power" || got.Description != "Outage since 9am" || got.Priority != domain.PriorityHigh {
		t.Errorf("created = %+v", got)
	}

	v.Submitted(res.Err)
	if v.FormOpen() {
		t.Error("form should close after a successful submit")
	}
	if v.subject.Value() != "" || v.priority != domain.PriorityMedium {
		t.Errorf("form not reset: subject=%q priority=%q", v.subject.Value(), v.priority)
	}
	if n := len(page.State().All); n != 1 {
		t.Errorf("list has %d complaints after reload, want 1", n)
	}
	if out := v.Render(100, 40, false); !strings.Contains(out, "Complaint submitted successfully!") {
		t.Errorf("success flash missing:\n%s", out)
	}
}

func TestComplaintsView_ReloadFailureStillClosesForm(t *testing.T) {
	v, page, be := newComplaints(t)
	be.mu.Lock()
	be.listErr = errors.New("list unavailable")
	be.mu.Unlock()

	v.Update(keyRunes("n"))
	typeKeys(v, "No power")
	v.Update(key(tea.KeyTab))
	typeKeys(v, "Since noon")

	res := run(v.Update(key(tea.KeyCtrlD))).(SubmitResultMsg)
	if !errors.Is(res.Err, pages.ErrReloadAfterSubmit) {
		t.Fatalf("submit = %v, want a reload failure", res.Err)
	}
	v.Submitted(res.Err)
	if v.FormOpen() {
		t.Fatal("form must close once the complaint was created")
	}
	if v.subject.Value() != "" || page.State().Form != pages.DefaultForm() {
		t.Errorf("form not reset: subject=%q form=%+v", v.subject.Value(), page.State().Form)
	}

	// A second ctrl+d lands on the list, not on a stale form.
	if msg := run(v.Update(key(tea.KeyCtrlD))); msg != nil {
		t.Errorf("ctrl+d after close produced %T", msg)
	}
	be.mu.Lock()
	defer be.mu.Unlock()
	if len(be.created) != 1 {
		t.Errorf("created = %d, want exactly 1", len(be.created))
	}
}

func TestComplaintsView_InvalidFormStaysOpen(t *testing.T) {
	v, _, be := newComplaints(t)

	v.Update(keyRunes("n"))
	typeKeys(v, "Only a subject")
	res := run(v.Update(key(tea.KeyCtrlD))).(SubmitResultMsg)
	if res.Err == nil {
		t.Fatal("missing description should fail")
	}
	v.Submitted(res.Err)
	if !v.FormOpen() {
		t.Error("form should stay open on failure")
	}
	if v.subject.Value() != "Only a subject" {
		t.Errorf("subject lost: %q", v.subject.Value())
	}
	if len(be.created) != 0 {
		t.Error("invalid form reached the backend")
	}
}

func TestComplaintsView_FormCapturesGlobalKeys(t *testing.T) {
	v, _, _ := newComplaints(t)
	v.Update(keyRunes("n"))
	if cmd := v.Update(keyRunes("q")); cmd == nil {
		t.Error("typing q into the form must not fall through")
	}
	if v.subject.Value() != "q" {
		t.Errorf("subject = %q", v.subject.Value())
	}
}

func TestComplaintsView_EscKeepsDraft(t *testing.T) {
	v, page, _ := newComplaints(t)
	v.Update(keyRunes("n"))
	typeKeys(v, "Draft")
	v.Update(key(tea.KeyEsc))

	if v.FormOpen() {
		t.Error("esc should close the form")
	}
	if got := page.State().Form.Subject; got != "Draft" {
		t.Errorf("draft subject = %q", got)
	}
	v.Update(keyRunes("n"))
	if v.subject.Value() != "Draft" {
		t.Errorf("reopened form lost the draft: %q", v.subject.Value())
	}
}

func TestComplaintsView_FilterCycles(t *testing.T) {
	v, page, _ := newComplaints(t,
		domain.Complaint{ID: 1, Subject: "Meter", Status: domain.StatusPending, Priority: domain.PriorityLow},
		domain.Complaint{ID: 2, Subject: "Outage", Status: domain.StatusResolved, Priority: domain.PriorityHigh},
	)

	v.Update(keyRunes("f"))
	st := page.State()
	if st.Filter != domain.StatusFilter(domain.StatusPending) {
		t.Errorf("filter = %q, want pending", st.Filter)
	}
	if len(st.Visible) != 1 || st.Visible[0].ID != 1 {
		t.Errorf("visible = %+v", st.Visible)
	}

	out := v.Render(100, 40, false)
	if !strings.Contains(out, "2 total · 1 pending · 0 investigating · 1 resolved") {
		t.Errorf("counts missing:\n%s", out)
	}
}

func TestCyclePriority(t *testing.T) {
	tests := []struct {
		from domain.Priority
		dir  int
		want domain.Priority
	}{
		{domain.PriorityMedium, 1, domain.PriorityHigh},
		{domain.PriorityHigh, 1, domain.PriorityLow},
		{domain.PriorityLow, -1, domain.PriorityHigh},
		{"bogus", 1, domain.PriorityMedium},
	}
	for _, tt := range tests {
		if got := cyclePriority(tt.from, tt.dir); got != tt.want {
			t.Errorf("cyclePriority(%q, %d) = %q, want %q", tt.from, tt.dir, got, tt.want)
		}
	}
}
