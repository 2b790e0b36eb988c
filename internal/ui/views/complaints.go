package views

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/koraenergy/kora-control/internal/domain"
	"github.com/koraenergy/kora-control/internal/i18n"
	"github.com/koraenergy/kora-control/internal/pages"
	"github.com/koraenergy/kora-control/internal/theme"
	"github.com/koraenergy/kora-control/internal/ui/components"
)

// Form fields, in tab order.
const (
	fieldSubject = iota
	fieldDescription
	fieldPriority
	fieldCount
)

// SubmitResultMsg carries the outcome of a complaint submission.
type SubmitResultMsg struct {
	Err error
}

// ComplaintsView lists tickets and hosts the new-ticket form. The form's
// inputs are mirrored into the page's form before every submission.
type ComplaintsView struct {
	page     *pages.Complaints
	cursor   int
	formOpen bool
	focus    int
	subject  textinput.Model
	desc     textarea.Model
	priority domain.Priority
	AnimTick uint
}

func NewComplaintsView(page *pages.Complaints) *ComplaintsView {
	subject := textinput.New()
	subject.Placeholder = i18n.T("complaints_subject")
	subject.CharLimit = 200

	desc := textarea.New()
	desc.Placeholder = i18n.T("complaints_description")
	desc.ShowLineNumbers = false
	desc.SetHeight(4)

	return &ComplaintsView{
		page:     page,
		subject:  subject,
		desc:     desc,
		priority: pages.DefaultForm().Priority,
	}
}

// FormOpen reports whether keys are going to the form.
func (v *ComplaintsView) FormOpen() bool { return v.formOpen }

func (v *ComplaintsView) Update(msg tea.KeyMsg) tea.Cmd {
	if v.formOpen {
		return v.updateForm(msg)
	}

	st := v.page.State()
	switch msg.String() {
	case "n":
		return v.openForm()
	case "f":
		v.page.CycleFilter()
		v.cursor = 0
		return KeyHandledCmd
	case "j", "down":
		v.cursor = moveCursor(v.cursor, 1, len(st.Visible))
		return KeyHandledCmd
	case "k", "up":
		v.cursor = moveCursor(v.cursor, -1, len(st.Visible))
		return KeyHandledCmd
	}
	return nil
}

func (v *ComplaintsView) openForm() tea.Cmd {
	f := v.page.State().Form
	v.subject.SetValue(f.Subject)
	v.desc.SetValue(f.Description)
	v.priority = f.Priority
	v.formOpen = true
	return v.setFocus(fieldSubject)
}

func (v *ComplaintsView) setFocus(field int) tea.Cmd {
	v.focus = field
	v.subject.Blur()
	v.desc.Blur()
	switch field {
	case fieldSubject:
		return v.subject.Focus()
	case fieldDescription:
		return v.desc.Focus()
	}
	return KeyHandledCmd
}

func (v *ComplaintsView) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		v.syncForm()
		v.formOpen = false
		return KeyHandledCmd
	case tea.KeyCtrlD:
		return v.submit()
	case tea.KeyTab:
		return v.setFocus((v.focus + 1) % fieldCount)
	case tea.KeyShiftTab:
		return v.setFocus((v.focus + fieldCount - 1) % fieldCount)
	}

	var cmd tea.Cmd
	switch v.focus {
	case fieldSubject:
		v.subject, cmd = v.subject.Update(msg)
	case fieldDescription:
		v.desc, cmd = v.desc.Update(msg)
	case fieldPriority:
		switch msg.String() {
		case "left", "h":
			v.priority = cyclePriority(v.priority, -1)
		case "right", "l", " ":
			v.priority = cyclePriority(v.priority, 1)
		}
	}
	if cmd != nil {
		return cmd
	}
	return KeyHandledCmd
}

func cyclePriority(p domain.Priority, dir int) domain.Priority {
	n := len(domain.Priorities)
	for i, q := range domain.Priorities {
		if q == p {
			return domain.Priorities[(i+dir+n)%n]
		}
	}
	return pages.DefaultForm().Priority
}

func (v *ComplaintsView) syncForm() {
	v.page.SetForm(pages.Form{
		Subject:     v.subject.Value(),
		Description: v.desc.Value(),
		Priority:    v.priority,
	})
}

func (v *ComplaintsView) submit() tea.Cmd {
	v.syncForm()
	page := v.page
	return func() tea.Msg {
		return SubmitResultMsg{Err: page.Submit(context.Background())}
	}
}

// Submitted closes and clears the form once the complaint was created,
// including when only the list reload after it failed. If the create
// itself failed the form stays open with the user's input.
func (v *ComplaintsView) Submitted(err error) {
	if !pages.Created(err) {
		return
	}
	f := v.page.State().Form
	v.subject.SetValue(f.Subject)
	v.desc.SetValue(f.Description)
	v.priority = f.Priority
	v.formOpen = false
	v.subject.Blur()
	v.desc.Blur()
	v.cursor = 0
}

// Reload refetches the complaint list.
func (v *ComplaintsView) Reload() tea.Cmd {
	page := v.page
	return func() tea.Msg {
		return ResultMsg{Err: page.Load(context.Background())}
	}
}

func (v *ComplaintsView) Render(width, height int, compact bool) string {
	st := v.page.State()
	v.cursor = moveCursor(v.cursor, 0, len(st.Visible))
	cardWidth := width - 4

	var sections []string
	if st.Submitted {
		sections = append(sections, "  "+theme.SuccessStyle.Render("✓ "+i18n.T("complaints_submitted")))
	}
	if v.formOpen {
		sections = append(sections, v.renderForm(st, cardWidth, compact))
	} else {
		sections = append(sections, v.renderList(st, cardWidth, height-8, compact))
		sections = append(sections, v.renderDetail(st, cardWidth, compact))
	}
	if st.Err != nil && !Quiet(st.Err) {
		sections = append(sections, "  "+theme.ErrorStyle.Render(i18n.Tf("error_banner", st.Err)))
	}
	help := i18n.T("complaints_help")
	if v.formOpen {
		help = i18n.T("complaints_form_help")
	}
	sections = append(sections, components.Hint(help))
	return strings.Join(sections, "\n")
}

func (v *ComplaintsView) renderList(st pages.ComplaintsState, width, rows int, compact bool) string {
	c := st.Counts
	var lines []string
	lines = append(lines, theme.MutedStyle.Render(
		i18n.Tf("complaints_counts", c.Total, c.Pending, c.Investigating, c.Resolved)+
			"   "+i18n.Tf("complaints_filter", st.Filter)))
	lines = append(lines, "")

	switch {
	case !st.Loaded:
		lines = append(lines, theme.MutedStyle.Render(i18n.T("complaints_loading")))
	case len(st.Visible) == 0:
		lines = append(lines, theme.MutedStyle.Render(i18n.T("complaints_empty")))
	default:
		if rows < 3 {
			rows = 3
		}
		start := 0
		if v.cursor >= rows {
			start = v.cursor - rows + 1
		}
		for i := start; i < len(st.Visible) && i < start+rows; i++ {
			lines = append(lines, v.renderRow(i, st.Visible[i], width))
		}
	}

	return components.Panel{
		Title: theme.Shimmer(i18n.T("complaints_title"), v.AnimTick),
		Width: width,
		Body:  strings.Join(lines, "\n"),
		Flat:  compact,
	}.String()
}

func (v *ComplaintsView) renderRow(i int, c domain.Complaint, width int) string {
	subjectW := width - 44
	if subjectW < 10 {
		subjectW = 10
	}
	subject := c.Subject
	if r := []rune(subject); len(r) > subjectW {
		subject = string(r[:subjectW-1]) + "…"
	}
	line := fmt.Sprintf("%s %s %s %s",
		theme.MutedStyle.Render(fmt.Sprintf("#%-5d", c.ID)),
		theme.BodyStyle.Render(components.PadRight(subject, subjectW)),
		components.PadRight(theme.Badge(string(c.Status), theme.StatusColor(c.Status)), 16),
		theme.Badge(string(c.Priority), theme.PriorityColor(c.Priority)),
	)
	return components.ListRow(i, i == v.cursor, line, width-4)
}

func (v *ComplaintsView) renderDetail(st pages.ComplaintsState, width int, compact bool) string {
	if compact || v.cursor >= len(st.Visible) {
		return ""
	}
	c := st.Visible[v.cursor]
	t, err := c.Created()
	created := components.FormatDate(t, err, c.CreatedAt)
	body := lipgloss.NewStyle().Width(width - 4).Foreground(theme.ColorBodyText).Render(c.Description)
	return components.Panel{
		Title: theme.HeaderStyle.Render(c.Subject),
		Width: width,
		Body:  theme.MutedStyle.Render(created) + "\n" + body,
	}.String()
}

func (v *ComplaintsView) renderForm(st pages.ComplaintsState, width int, compact bool) string {
	label := func(field int, text string) string {
		if field == v.focus {
			return lipgloss.NewStyle().Foreground(theme.ColorGold).Bold(true).Render("▶ " + text)
		}
		return theme.BodyStyle.Render("  " + text)
	}

	v.subject.Width = width - 8
	v.desc.SetWidth(width - 6)

	var prio []string
	for _, p := range domain.Priorities {
		text := " " + string(p) + " "
		if p == v.priority {
			prio = append(prio, lipgloss.NewStyle().
				Foreground(theme.ColorBaseBg).
				Background(theme.PriorityColor(p)).
				Bold(true).
				Render(text))
		} else {
			prio = append(prio, theme.MutedStyle.Render(text))
		}
	}

	lines := []string{
		label(fieldSubject, i18n.T("complaints_subject")),
		"  " + v.subject.View(),
		"",
		label(fieldDescription, i18n.T("complaints_description")),
		v.desc.View(),
		"",
		label(fieldPriority, i18n.T("complaints_priority")),
		"  " + strings.Join(prio, " "),
	}
	if st.Submitting {
		lines = append(lines, "", theme.AccentStyle.Render(i18n.T("complaints_submitting")))
	}

	return components.Panel{
		Title: theme.Shimmer(i18n.T("complaints_new"), v.AnimTick),
		Width: width,
		Body:  strings.Join(lines, "\n"),
		Flat:  compact,
	}.String()
}
