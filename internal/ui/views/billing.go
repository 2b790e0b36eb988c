package views

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/koraenergy/kora-control/internal/domain"
	"github.com/koraenergy/kora-control/internal/i18n"
	"github.com/koraenergy/kora-control/internal/pages"
	"github.com/koraenergy/kora-control/internal/theme"
	"github.com/koraenergy/kora-control/internal/ui/components"
)

// BillingView lists bills and starts payments for the selected one.
type BillingView struct {
	page     *pages.Billing
	cursor   int
	AnimTick uint
}

func NewBillingView(page *pages.Billing) *BillingView {
	return &BillingView{page: page}
}

func (v *BillingView) Update(msg tea.KeyMsg) tea.Cmd {
	st := v.page.State()
	switch msg.String() {
	case "j", "down":
		v.cursor = moveCursor(v.cursor, 1, len(st.Bills))
		return KeyHandledCmd
	case "k", "up":
		v.cursor = moveCursor(v.cursor, -1, len(st.Bills))
		return KeyHandledCmd
	case "g", "home":
		v.cursor = 0
		return KeyHandledCmd
	case "G", "end":
		v.cursor = moveCursor(len(st.Bills), -1, len(st.Bills))
		return KeyHandledCmd
	case "enter", "p":
		bill, ok := v.selected(st)
		if !ok || bill.IsPaid {
			return KeyHandledCmd
		}
		return v.pay(bill.ID)
	}
	return nil
}

func (v *BillingView) selected(st pages.BillingState) (domain.Bill, bool) {
	if v.cursor < 0 || v.cursor >= len(st.Bills) {
		return domain.Bill{}, false
	}
	return st.Bills[v.cursor], true
}

func (v *BillingView) pay(id int64) tea.Cmd {
	page := v.page
	return func() tea.Msg {
		if err := page.Pay(context.Background(), id); err != nil {
			return ResultMsg{Err: err}
		}
		return ResultMsg{Info: i18n.Tf("billing_payment_opened", id)}
	}
}

// Reload reconciles the bill list with the server.
func (v *BillingView) Reload() tea.Cmd {
	page := v.page
	return func() tea.Msg {
		return ResultMsg{Err: page.Reconcile(context.Background())}
	}
}

// Reconciled reloads after the user returns from the payment gateway and
// reports it.
func (v *BillingView) Reconciled() tea.Cmd {
	page := v.page
	return func() tea.Msg {
		if err := page.Reconcile(context.Background()); err != nil {
			return ResultMsg{Err: err}
		}
		return ResultMsg{Info: i18n.T("billing_reconciled")}
	}
}

func (v *BillingView) Render(width, height int, compact bool) string {
	st := v.page.State()
	v.cursor = moveCursor(v.cursor, 0, len(st.Bills))
	cardWidth := width - 4

	var sections []string
	sections = append(sections, v.renderSummary(st, cardWidth, compact))
	sections = append(sections, v.renderTable(st, cardWidth, height-14, compact))
	if st.Err != nil && !Quiet(st.Err) {
		sections = append(sections, "  "+theme.ErrorStyle.Render(i18n.Tf("error_banner", st.Err)))
	}
	sections = append(sections, components.Hint(i18n.T("billing_help")))
	return strings.Join(sections, "\n")
}

func (v *BillingView) renderSummary(st pages.BillingState, width int, compact bool) string {
	s := st.Summary
	inner := components.Panel{Width: width, Flat: compact}.ContentWidth()
	gaugeW := 20
	cellW := (inner - gaugeW - 4*2) / 4

	content := components.MetricRow(2,
		components.Metric{Value: components.FormatNumber(s.Total), Label: i18n.T("billing_total"), Width: cellW},
		components.Metric{Value: components.FormatNumber(s.Unpaid), Label: i18n.T("billing_unpaid"), Width: cellW, Color: theme.ColorPeach},
		components.Metric{Value: components.FormatETB(s.UnpaidAmount), Unit: "ETB", Label: i18n.T("billing_unpaid_amount"), Width: cellW, Color: theme.ColorGold},
		components.Metric{Value: components.FormatKWh(s.TotalUsage), Unit: "kWh", Label: i18n.T("billing_total_usage"), Width: cellW, Color: theme.ColorSkyBlue},
	)
	if !compact {
		ratio := 0.0
		if s.Total > 0 {
			ratio = float64(s.Paid) / float64(s.Total)
		}
		meter := components.Meter{
			Label:  i18n.T("billing_paid_ratio"),
			Ratio:  ratio,
			Detail: fmt.Sprintf("%d / %d", s.Paid, s.Total),
			Width:  gaugeW,
		}
		content = lipgloss.JoinHorizontal(lipgloss.Top, content, "  ", meter.String())
	}

	return components.Panel{
		Title: theme.Shimmer(i18n.T("tab_billing"), v.AnimTick),
		Width: width,
		Body:  content,
		Flat:  compact,
	}.String()
}

func (v *BillingView) renderTable(st pages.BillingState, width, rows int, compact bool) string {
	title := theme.HeaderStyle.Render(i18n.T("billing_title"))

	var lines []string
	switch {
	case !st.Loaded && st.Loading:
		lines = append(lines, theme.MutedStyle.Render(i18n.T("billing_loading")))
	case len(st.Bills) == 0:
		lines = append(lines, theme.MutedStyle.Render(i18n.T("billing_empty")))
	default:
		header := fmt.Sprintf("  %-8s %-12s %12s %16s  %s",
			i18n.T("billing_col_id"),
			i18n.T("billing_col_date"),
			i18n.T("billing_col_usage"),
			i18n.T("billing_col_amount"),
			i18n.T("billing_col_status"),
		)
		lines = append(lines, theme.MutedStyle.Render(header))

		if rows < 3 {
			rows = 3
		}
		start := 0
		if v.cursor >= rows {
			start = v.cursor - rows + 1
		}
		for i := start; i < len(st.Bills) && i < start+rows; i++ {
			lines = append(lines, v.renderRow(i, st.Bills[i], st.Paying, width))
		}
	}

	return components.Panel{
		Title: title,
		Width: width,
		Body:  strings.Join(lines, "\n"),
		Flat:  compact,
	}.String()
}

func (v *BillingView) renderRow(i int, b domain.Bill, paying int64, width int) string {
	t, err := b.Date()
	date := components.FormatDate(t, err, b.BillingDate)
	amount := b.Amount
	if val, err := b.AmountValue(); err == nil {
		amount = components.FormatETB(val)
	}

	var status string
	switch {
	case b.ID == paying:
		status = theme.Badge(i18n.T("billing_status_paying"), theme.ColorSkyBlue)
	case b.IsPaid:
		status = theme.Badge(i18n.T("billing_status_paid"), theme.ColorSuccess)
	default:
		status = theme.Badge(i18n.T("billing_status_unpaid"), theme.ColorPeach)
	}

	text := fmt.Sprintf("%-8s %-12s %12s %16s  ",
		fmt.Sprintf("#%d", b.ID),
		date,
		components.FormatKWh(b.UsageKWh)+" kWh",
		amount+" ETB",
	)
	return components.ListRow(i, i == v.cursor, theme.BodyStyle.Render(text)+status, width-4)
}
