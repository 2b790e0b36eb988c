package views

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/koraenergy/kora-control/internal/domain"
	"github.com/koraenergy/kora-control/internal/pages"
)

func newOverview(t *testing.T) (*OverviewView, *pages.Overview, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	page := pages.NewOverview(&fakeBackend{}, pages.WithClock(clock))
	t.Cleanup(page.Close)
	return NewOverviewView(page, clock), page, clock
}

func TestOverviewView_LoadingThenData(t *testing.T) {
	v, page, _ := newOverview(t)

	if out := v.Render(100, 40, false); !strings.Contains(out, "Loading dashboard") {
		t.Errorf("before first fetch:\n%s", out)
	}

	if err := page.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	out := v.Render(100, 40, false)
	for _, want := range []string{"Current Usage", "1,234.5", "450.00", "+20.0%", "Bill generated", "Total 22 kWh", "Total 750.00 ETB"} {
		if !strings.Contains(out, want) {
			t.Errorf("overview missing %q:\n%s", want, out)
		}
	}
}

func TestOverviewView_StaleSeed(t *testing.T) {
	v, page, clock := newOverview(t)
	page.Seed(pages.Snapshot{FetchedAt: clock.Now().Add(-3 * time.Minute)})

	out := v.Render(100, 40, false)
	if !strings.Contains(out, "Showing cached data from 3 minutes ago") {
		t.Errorf("stale seed not flagged:\n%s", out)
	}
}

func TestOverviewView_RangeKeys(t *testing.T) {
	v, page, _ := newOverview(t)

	v.Update(keyRunes("u"))
	v.Update(keyRunes("c"))

	st := page.State()
	if st.UsageRange != domain.RangeMonth {
		t.Errorf("usage range = %q, want month", st.UsageRange)
	}
	if st.CostRange != domain.RangeYear {
		t.Errorf("cost range = %q, want year", st.CostRange)
	}
	if cmd := v.Update(keyRunes("x")); cmd != nil {
		t.Error("unbound key should fall through to global handling")
	}
}

func TestOverviewView_ReloadWhenNotPolling(t *testing.T) {
	v, page, _ := newOverview(t)

	msg := run(v.Reload())
	res, ok := msg.(ResultMsg)
	if !ok || res.Err != nil {
		t.Fatalf("Reload msg = %#v", msg)
	}
	if page.State().Snapshot == nil {
		t.Error("Reload should load a snapshot when not polling")
	}
}
