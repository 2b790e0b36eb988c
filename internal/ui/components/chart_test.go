package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestBarChart_Heights(t *testing.T) {
	c := BarChart{
		Labels: []string{"Mon", "Tue", "Wed"},
		Values: []float64{0, 4, 8},
		Width:  20,
		Height: 2,
	}
	lines := c.Render()
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 2 bar rows + axis", len(lines))
	}
	// Tallest bar fills both rows, the half bar only the bottom row.
	top, bottom := strings.Count(lines[0], "█"), strings.Count(lines[1], "█")
	if top != 5 {
		t.Errorf("top row full blocks = %d, want 5 (one bar of width 5)", top)
	}
	if bottom != 10 {
		t.Errorf("bottom row full blocks = %d, want 10 (two bars of width 5)", bottom)
	}
	if !strings.Contains(lines[2], "Mon") || !strings.Contains(lines[2], "Wed") {
		t.Errorf("axis line %q should name first and last samples", lines[2])
	}
}

func TestBarChart_Empty(t *testing.T) {
	lines := BarChart{Width: 20, Height: 4}.Render()
	if len(lines) != 1 || !strings.Contains(lines[0], "No data") {
		t.Errorf("empty chart = %q", lines)
	}
}

func TestBarChart_AllZero(t *testing.T) {
	lines := BarChart{Labels: []string{"a", "b"}, Values: []float64{0, 0}, Width: 10, Height: 3}.Render()
	for _, l := range lines[:3] {
		if strings.ContainsAny(l, "▁▂▃▄▅▆▇█") {
			t.Errorf("zero series drew a bar: %q", l)
		}
	}
}

func TestBarChart_NarrowWidth(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = float64(i + 1)
	}
	lines := BarChart{Values: values, Width: 10, Height: 1}.Render()
	if w := lipgloss.Width(lines[0]); w != 30 {
		t.Errorf("narrow chart width = %d, want one column per sample", w)
	}
}
