package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/ledger/internal/analytics"
	"github.com/Veraticus/ledger/internal/cli"
)

// sparkLevels are the glyphs of the daily expense sparkline, lowest first.
var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// chromeHeight is the number of lines used around the table.
func chromeHeight(fullHelp bool) int {
	const fixed = 11
	if fullHelp {
		return fixed + 5
	}
	return fixed + 1
}

func tableColumns(width int) []table.Column {
	const (
		sel       = 3
		date      = 10
		category  = 14
		amount    = 13
		recurring = 9
		padding   = 12
	)
	description := max(12, width-4-sel-date-category-amount-recurring-padding)
	return []table.Column{
		{Title: " ", Width: sel},
		{Title: "Date", Width: date},
		{Title: "Description", Width: description},
		{Title: "Category", Width: category},
		{Title: "Amount", Width: amount},
		{Title: "Repeats", Width: recurring},
	}
}

func (m Model) buildRows() []table.Row {
	loc := time.Local
	if m.snapshot != nil {
		loc = m.snapshot.LoadedAt.Location()
	}

	rows := make([]table.Row, 0, len(m.view.Rows))
	for _, txn := range m.view.Rows {
		mark := "[ ]"
		if m.selection.IsSelected(txn.ID) {
			mark = "[x]"
		}
		date := "-"
		if !txn.Date.IsZero() {
			date = txn.Date.In(loc).Format(time.DateOnly)
		}
		rows = append(rows, table.Row{
			mark,
			date,
			txn.Description,
			txn.Category,
			m.config.Money.Signed(txn),
			txn.RecurringInterval.Label(),
		})
	}
	return rows
}

// View renders the UI.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		if m.lastError != nil {
			return m.config.Theme.StatusError.Render("Failed to load: "+m.lastError.Error()) + "\n"
		}
		return m.config.Theme.Subtitle.Render("Loading transactions...") + "\n"
	}

	sections := []string{
		m.renderHeader(),
		m.renderFilters(),
	}
	if m.mode == ModeSearch {
		sections = append(sections, m.search.View())
	}
	sections = append(sections,
		m.table.View(),
		m.renderStatus(),
		m.help.View(m.keymap),
	)
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	theme := m.config.Theme
	snap := m.snapshot
	money := m.config.Money

	title := theme.Title.Render(fmt.Sprintf("%s %s", cli.LedgerIcon, snap.Account.Name)) +
		theme.Subtitle.Render("  "+m.rng.Label)

	totals := snap.Overview.Totals
	net := money.Format(totals.Net())
	if totals.Net() >= 0 {
		net = "+" + net
	}
	summary := strings.Join([]string{
		lipgloss.NewStyle().Foreground(theme.Income).Render("Income " + money.Format(totals.Income)),
		lipgloss.NewStyle().Foreground(theme.Expense).Render("Expenses " + money.Format(totals.Expense)),
		theme.Bold.Render("Net " + net),
	}, "   ")

	left := lipgloss.JoinVertical(lipgloss.Left, title, summary, m.renderSparkline(snap.Overview.Buckets))
	budget := theme.RoundedBox.Render(money.FormatBudget(snap.Budget))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", budget)
}

// renderSparkline draws one glyph per day with expense height relative to
// the busiest day.
func (m Model) renderSparkline(buckets []analytics.DayBucket) string {
	if len(buckets) == 0 {
		return m.config.Theme.Subtitle.Render("No activity in range")
	}

	limit := max(10, m.width/2)
	if len(buckets) > limit {
		buckets = buckets[len(buckets)-limit:]
	}

	peak := 0.0
	for _, b := range buckets {
		peak = max(peak, b.Expense)
	}

	var sb strings.Builder
	for _, b := range buckets {
		level := 0
		if peak > 0 {
			level = int(b.Expense / peak * float64(len(sparkLevels)-1))
		}
		sb.WriteRune(sparkLevels[level])
	}
	return lipgloss.NewStyle().Foreground(m.config.Theme.Expense).Render(sb.String())
}

func (m Model) renderFilters() string {
	c := m.state.Criteria
	parts := []string{fmt.Sprintf("Sort %s", m.state.Sort)}
	if c.SearchText != "" {
		parts = append(parts, fmt.Sprintf("Search %q", c.SearchText))
	}
	if c.Type != analytics.TypeAll {
		parts = append(parts, "Type "+string(c.Type))
	}
	if c.Recurring != analytics.RecurringAll {
		parts = append(parts, "Recurring "+string(c.Recurring))
	}

	page := fmt.Sprintf("Page %d/%d (%d matches)", m.view.Page, max(m.view.PageCount, 1), m.view.Matches)
	parts = append(parts, page)

	if n := m.selection.Len(); n > 0 {
		sel := fmt.Sprintf("%d selected", n)
		if m.selection.AllVisibleSelected(m.view.VisibleIDs()) {
			sel += " (page)"
		}
		parts = append(parts, sel)
	}

	return m.config.Theme.Subtitle.Render(strings.Join(parts, " · "))
}

func (m Model) renderStatus() string {
	theme := m.config.Theme
	switch {
	case m.mode == ModeConfirmDelete:
		return theme.StatusWarning.Render(fmt.Sprintf("Delete %d selected transactions? (y/N)", m.selection.Len()))
	case m.lastError != nil:
		return theme.StatusError.Render(m.lastError.Error())
	case m.status != "":
		return theme.StatusInfo.Render(m.status)
	case m.view.Matches == 0 && m.state.HasFilters():
		return theme.Subtitle.Render("No transactions match the filters. Press c to clear.")
	case m.view.Matches == 0:
		return theme.Subtitle.Render("No transactions yet.")
	default:
		return m.renderCursorDetail()
	}
}

// renderCursorDetail describes the highlighted row: its category in the
// category's color and its recurrence, if any.
func (m Model) renderCursorDetail() string {
	c := m.table.Cursor()
	if c < 0 || c >= len(m.view.Rows) {
		return ""
	}
	txn := m.view.Rows[c]
	theme := m.config.Theme

	parts := []string{theme.CategoryStyle(txn.Category).Render(txn.Category)}
	if badge := cli.RecurringBadge(txn); badge != "" {
		parts = append(parts, theme.Subtitle.Render(badge))
	}
	return strings.Join(parts, "  ")
}
