package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestPanel_ContentWidth(t *testing.T) {
	if got := (Panel{Width: 80}).ContentWidth(); got != 76 {
		t.Errorf("framed ContentWidth() = %d, want 76", got)
	}
	if got := (Panel{Width: 80, Flat: true}).ContentWidth(); got != 78 {
		t.Errorf("flat ContentWidth() = %d, want 78", got)
	}
}

func TestPanel_Framed(t *testing.T) {
	out := Panel{Title: "Bills", Width: 40, Body: "#12  unpaid\n#13  paid"}.String()
	lines := strings.Split(out, "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want top edge + 2 body + bottom edge:\n%s", len(lines), out)
	}
	if !strings.HasPrefix(lines[0], edgeStyle.Render("╭─")) || !strings.Contains(lines[0], "Bills") {
		t.Errorf("top edge = %q", lines[0])
	}
	if !strings.Contains(lines[3], "╯") {
		t.Errorf("bottom edge = %q", lines[3])
	}
	for i, l := range lines {
		if w := lipgloss.Width(l); w != 40 {
			t.Errorf("line %d width = %d, want 40", i, w)
		}
	}
}

func TestPanel_TitleWiderThanPanel(t *testing.T) {
	out := Panel{Title: strings.Repeat("x", 30), Width: 20}.String()
	top := strings.Split(out, "\n")[0]
	if !strings.HasSuffix(top, edgeStyle.Render("╮")) {
		t.Errorf("top edge lost its corner: %q", top)
	}
}

func TestPanel_Flat(t *testing.T) {
	out := Panel{Title: "Usage", Width: 30, Body: "body", Flat: true}.String()
	if strings.ContainsAny(out, "╭╯│") {
		t.Errorf("flat panel drew a border: %q", out)
	}
	if !strings.Contains(out, "─") || !strings.HasSuffix(out, "body") {
		t.Errorf("flat panel = %q", out)
	}
	if empty := (Panel{Title: "Usage", Width: 30, Flat: true}).String(); strings.Count(empty, "\n") != 1 {
		t.Errorf("flat panel without body = %q, want title and rule only", empty)
	}
}

func TestMetricRow(t *testing.T) {
	row := MetricRow(2,
		Metric{Value: "412.5", Unit: "kWh", Label: "Current Usage", Width: 16},
		Metric{Value: "3", Label: "Active Tickets", Width: 16},
	)
	lines := strings.Split(row, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want value + label", len(lines))
	}
	if w := lipgloss.Width(lines[0]); w != 34 {
		t.Errorf("row width = %d, want 16+2+16", w)
	}
	for _, want := range []string{"412.5", "kWh", "Active Tickets"} {
		if !strings.Contains(row, want) {
			t.Errorf("row missing %q", want)
		}
	}
}

func TestMeter(t *testing.T) {
	tests := []struct {
		name  string
		ratio float64
		pct   string
	}{
		{"empty", 0, "0%"},
		{"half", 0.5, "50%"},
		{"overfull clamps", 1.4, "100%"},
		{"negative clamps", -1, "0%"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Meter{Label: "Paid", Ratio: tt.ratio, Width: 20}.String()
			lines := strings.Split(out, "\n")
			if len(lines) != 3 {
				t.Fatalf("got %d lines, want 3", len(lines))
			}
			if w := lipgloss.Width(lines[1]); w != 20 {
				t.Errorf("bar width = %d, want 20", w)
			}
			if !strings.Contains(lines[2], tt.pct) {
				t.Errorf("percentage line = %q, want %s", lines[2], tt.pct)
			}
		})
	}
}

func TestListRow(t *testing.T) {
	sel := ListRow(0, true, "bill #1", 30)
	if !strings.Contains(sel, "▶") || lipgloss.Width(sel) != 30 {
		t.Errorf("selected row = %q", sel)
	}
	if plain := ListRow(2, false, "bill #3", 30); strings.Contains(plain, "▶") {
		t.Errorf("unselected row has marker: %q", plain)
	}
}
