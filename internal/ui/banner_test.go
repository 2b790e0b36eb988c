package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestBanner_Expiry(t *testing.T) {
	tests := []struct {
		name string
		show func(*Banner)
		ttl  time.Duration
	}{
		{"info", func(b *Banner) { b.Info("Bills reloaded") }, infoTTL},
		{"error", func(b *Banner) { b.Error("Error: boom") }, errorTTL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := clockwork.NewFakeClock()
			b := NewBanner(clock)
			tt.show(b)

			clock.Advance(tt.ttl)
			if _, _, ok := b.Current(); !ok {
				t.Error("message should still show at its deadline")
			}
			clock.Advance(time.Millisecond)
			if _, _, ok := b.Current(); ok {
				t.Error("message should expire after its deadline")
			}
			b.Sweep()
			if b.text != "" {
				t.Error("Sweep should forget the expired message")
			}
		})
	}
}

func TestBanner_ReplacesAndRenders(t *testing.T) {
	b := NewBanner(clockwork.NewFakeClock())
	b.Info("first")
	b.Error("Error: boom")

	text, isError, ok := b.Current()
	if !ok || !isError || text != "Error: boom" {
		t.Fatalf("Current = %q, %v, %v", text, isError, ok)
	}
	if out := b.View(60); !strings.Contains(out, "Error: boom") {
		t.Errorf("View = %q", out)
	}
}

func TestBanner_Empty(t *testing.T) {
	if out := NewBanner(clockwork.NewFakeClock()).View(60); out != "" {
		t.Errorf("empty banner rendered %q", out)
	}
}
