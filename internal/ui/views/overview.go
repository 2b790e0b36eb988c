package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/jonboulle/clockwork"

	"github.com/koraenergy/kora-control/internal/domain"
	"github.com/koraenergy/kora-control/internal/i18n"
	"github.com/koraenergy/kora-control/internal/pages"
	"github.com/koraenergy/kora-control/internal/theme"
	"github.com/koraenergy/kora-control/internal/ui/components"
)

const maxActivityRows = 6

// OverviewView renders the live dashboard from the overview page state.
type OverviewView struct {
	page     *pages.Overview
	clock    clockwork.Clock
	AnimTick uint
}

func NewOverviewView(page *pages.Overview, clock clockwork.Clock) *OverviewView {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &OverviewView{page: page, clock: clock}
}

func (v *OverviewView) Update(msg tea.KeyMsg) tea.Cmd {
	st := v.page.State()
	switch msg.String() {
	case "u":
		return resultCmd(v.page.SetUsageRange(st.UsageRange.Next()))
	case "c":
		return resultCmd(v.page.SetCostRange(st.CostRange.Next()))
	}
	return nil
}

// Reload refetches immediately. While polling this just pulls the next
// tick forward; otherwise it performs a one-off load.
func (v *OverviewView) Reload() tea.Cmd {
	page := v.page
	return func() tea.Msg {
		if page.State().Polling {
			page.Refresh()
			return nil
		}
		return ResultMsg{Err: page.Load(context.Background())}
	}
}

func resultCmd(err error) tea.Cmd {
	if err == nil {
		return KeyHandledCmd
	}
	return func() tea.Msg { return ResultMsg{Err: err} }
}

func (v *OverviewView) Render(width, height int, compact bool) string {
	st := v.page.State()
	cardWidth := width - 4

	if st.Snapshot == nil {
		if st.Err != nil {
			return "\n" + theme.ErrorStyle.Render("  "+i18n.Tf("error_banner", st.Err))
		}
		return "\n" + theme.MutedStyle.Render("  "+i18n.T("overview_loading"))
	}
	s := *st.Snapshot

	var sections []string
	sections = append(sections, v.renderStats(s, cardWidth, compact))
	sections = append(sections, v.renderCharts(s, st, cardWidth, compact))
	sections = append(sections, v.renderActivity(s, cardWidth, compact))
	sections = append(sections, v.renderFreshness(s, st))
	sections = append(sections, components.Hint(i18n.T("overview_help")))

	return strings.Join(sections, "\n")
}

func (v *OverviewView) renderStats(s pages.Snapshot, width int, compact bool) string {
	inner := components.Panel{Width: width, Flat: compact}.ContentWidth()
	cellW := (inner - 3*2) / 4

	trendColor := theme.ColorSuccess
	if s.UsageTrend() > 0 {
		trendColor = theme.ColorPeach
	}

	row := components.MetricRow(2,
		components.Metric{Value: components.FormatKWh(s.Stats.CurrentUsageKWh), Unit: "kWh", Label: i18n.T("overview_current_usage"), Width: cellW, Color: theme.ColorSkyBlue},
		components.Metric{Value: components.FormatETB(s.Stats.PendingBillETB), Unit: "ETB", Label: i18n.T("overview_pending_bill"), Width: cellW, Color: theme.ColorGold},
		components.Metric{Value: components.FormatNumber(s.Stats.ActiveTickets), Label: i18n.T("overview_active_tickets"), Width: cellW, Color: theme.ColorMauve},
		components.Metric{Value: components.FormatTrend(s.UsageTrend()), Label: i18n.T("overview_usage_trend"), Width: cellW, Color: trendColor},
	)

	return components.Panel{
		Title: theme.Shimmer(i18n.T("tab_overview"), v.AnimTick),
		Width: width,
		Body:  row,
		Flat:  compact,
	}.String()
}

func (v *OverviewView) renderCharts(s pages.Snapshot, st pages.OverviewState, width int, compact bool) string {
	chartH := 6
	if compact {
		chartH = 3
	}
	half := (width - 2) / 2

	usageLabels := make([]string, len(s.Usage.Data))
	usageValues := make([]float64, len(s.Usage.Data))
	for i, p := range s.Usage.Data {
		usageLabels[i], usageValues[i] = p.Name, p.Usage
	}
	costLabels := make([]string, len(s.Cost.Data))
	costValues := make([]float64, len(s.Cost.Data))
	for i, p := range s.Cost.Data {
		costLabels[i], costValues[i] = p.Name, p.Cost
	}

	usage := chartCard(
		i18n.Tf("overview_usage_chart", rangeName(st.UsageRange)),
		i18n.Tf("overview_total_usage", components.FormatKWh(s.TotalUsage())),
		components.BarChart{Labels: usageLabels, Values: usageValues, Height: chartH},
		half, compact,
	)
	cost := chartCard(
		i18n.Tf("overview_cost_chart", rangeName(st.CostRange)),
		i18n.Tf("overview_total_cost", components.FormatETB(s.TotalCost())),
		components.BarChart{Labels: costLabels, Values: costValues, Height: chartH},
		width-half-2, compact,
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, usage, "  ", cost)
}

func chartCard(title, total string, chart components.BarChart, width int, compact bool) string {
	panel := components.Panel{
		Title: theme.HeaderStyle.Render(title),
		Width: width,
		Flat:  compact,
	}
	chart.Width = panel.ContentWidth()
	lines := append(chart.Render(), theme.BodyStyle.Render(total))
	panel.Body = strings.Join(lines, "\n")
	return panel.String()
}

func (v *OverviewView) renderActivity(s pages.Snapshot, width int, compact bool) string {
	var lines []string
	if len(s.Activity) == 0 {
		lines = append(lines, theme.MutedStyle.Render(i18n.T("overview_no_activity")))
	}
	limit := maxActivityRows
	if compact {
		limit = 3
	}
	for i, a := range s.Activity {
		if i == limit {
			break
		}
		icon := "⚡"
		if a.Type == domain.ActivityComplaint {
			icon = "✉"
		}
		t, err := a.Time()
		date := components.FormatDate(t, err, a.Date)
		status := theme.Badge(a.Status, theme.StatusColor(domain.Status(a.Status)))
		lines = append(lines, fmt.Sprintf("%s %s  %s  %s",
			icon,
			components.PadRight(theme.BodyStyle.Render(a.Description), width-32),
			theme.MutedStyle.Render(date),
			status,
		))
	}
	return components.Panel{
		Title: theme.HeaderStyle.Render(i18n.T("overview_recent_activity")),
		Width: width,
		Body:  strings.Join(lines, "\n"),
		Flat:  compact,
	}.String()
}

func (v *OverviewView) renderFreshness(s pages.Snapshot, st pages.OverviewState) string {
	age := components.FormatAge(s.FetchedAt, v.clock.Now())
	line := i18n.Tf("overview_updated", age)
	style := theme.MutedStyle
	if st.Stale {
		line = i18n.Tf("overview_stale", age)
		style = theme.WarningStyle
	}
	out := "  " + style.Render(line)
	if st.Err != nil {
		out += "  " + theme.ErrorStyle.Render(i18n.Tf("error_banner", st.Err))
	}
	return out
}

func rangeName(r domain.TimeRange) string {
	return i18n.T("range_" + string(r))
}
