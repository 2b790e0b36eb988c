package theme

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/koraenergy/kora-control/internal/domain"
)

// Accent tones, cool to warm.
var (
	ColorSkyBlue  = lipgloss.Color("#86bada")
	ColorLavender = lipgloss.Color("#9f99d1")
	ColorMauve    = lipgloss.Color("#dbaad7")
	ColorPeach    = lipgloss.Color("#f6bcb0")
	ColorGold     = lipgloss.Color("#ffe3b3")
)

// Surfaces and text on the dark background.
var (
	ColorBaseBg     = lipgloss.Color("#1a1b2e")
	ColorCardBg     = lipgloss.Color("#232438")
	ColorElevatedBg = lipgloss.Color("#2a2b42")
	ColorBorder     = lipgloss.Color("#3a3b52")
	ColorMutedText  = lipgloss.Color("#6b6d8a")
	ColorBodyText   = lipgloss.Color("#c8cad8")
	ColorBrightText = lipgloss.Color("#ecedf5")
)

var (
	ColorOverlayBg = lipgloss.Color("#111122")
	ColorSuccess   = lipgloss.Color("#8fd19e")
	ColorDanger    = lipgloss.Color("#f07070")
)

// EnergyRamp colors a reading by magnitude: low usage is cool, high is warm.
var EnergyRamp = []lipgloss.Color{ColorSkyBlue, ColorLavender, ColorMauve, ColorPeach, ColorGold}

func parse(c lipgloss.Color) colorful.Color {
	col, err := colorful.Hex(string(c))
	if err != nil {
		return colorful.Color{}
	}
	return col
}

func clamp01(t float64) float64 {
	return math.Min(math.Max(t, 0), 1)
}

// Blend mixes from and to in RGB space. t is clamped to [0, 1].
func Blend(from, to lipgloss.Color, t float64) lipgloss.Color {
	return lipgloss.Color(parse(from).BlendRgb(parse(to), clamp01(t)).Clamped().Hex())
}

// Ramp returns the color at position t along stops, or along EnergyRamp
// when no stops are given.
func Ramp(t float64, stops ...lipgloss.Color) lipgloss.Color {
	if len(stops) == 0 {
		stops = EnergyRamp
	}
	if len(stops) == 1 {
		return stops[0]
	}
	pos := clamp01(t) * float64(len(stops)-1)
	seg := int(pos)
	if seg == len(stops)-1 {
		return stops[seg]
	}
	return Blend(stops[seg], stops[seg+1], pos-float64(seg))
}

// cycle is Ramp on a loop: past the last stop it blends back into the first.
func cycle(t float64) lipgloss.Color {
	t -= math.Floor(t)
	pos := t * float64(len(EnergyRamp))
	seg := int(pos) % len(EnergyRamp)
	return Blend(EnergyRamp[seg], EnergyRamp[(seg+1)%len(EnergyRamp)], pos-math.Floor(pos))
}

// Shimmer paints text with a slice of EnergyRamp that drifts one step per
// animation tick and wraps every hundred ticks. bg, when given, is applied
// behind every rune.
func Shimmer(text string, tick uint, bg ...lipgloss.Color) string {
	runes := []rune(text)
	if len(runes) == 0 {
		return ""
	}
	base := lipgloss.NewStyle()
	if len(bg) > 0 {
		base = base.Background(bg[0])
	}
	span := 1.5 / float64(len(EnergyRamp))
	offset := float64(tick%100) / 100
	var sb strings.Builder
	for i, r := range runes {
		t := offset + span*float64(i)/float64(max(len(runes)-1, 1))
		sb.WriteString(base.Foreground(cycle(t)).Render(string(r)))
	}
	return sb.String()
}

// StatusColor maps a complaint status to its badge color.
func StatusColor(s domain.Status) lipgloss.Color {
	switch s {
	case domain.StatusPending:
		return ColorGold
	case domain.StatusInvestigating:
		return ColorSkyBlue
	case domain.StatusResolved:
		return ColorSuccess
	}
	return ColorMutedText
}

// PriorityColor maps a complaint priority to its badge color.
func PriorityColor(p domain.Priority) lipgloss.Color {
	switch p {
	case domain.PriorityHigh:
		return ColorDanger
	case domain.PriorityMedium:
		return ColorPeach
	case domain.PriorityLow:
		return ColorLavender
	}
	return ColorMutedText
}

// Badge renders text in c as a bracketed tag.
func Badge(text string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Bold(true).Render("[" + text + "]")
}

var (
	// PanelStyle frames modal content: login box and overlays.
	PanelStyle = lipgloss.NewStyle().
			Background(ColorCardBg).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(1, 2)

	HeaderStyle  = lipgloss.NewStyle().Foreground(ColorBrightText).Bold(true)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMutedText)
	BodyStyle    = lipgloss.NewStyle().Foreground(ColorBodyText)
	AccentStyle  = lipgloss.NewStyle().Foreground(ColorMauve)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorPeach).Bold(true)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorDanger)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
)
