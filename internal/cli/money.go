package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/Veraticus/ledger/internal/analytics"
	"github.com/Veraticus/ledger/internal/model"
)

// MoneyFormatter renders amounts with two decimals and locale digit grouping.
type MoneyFormatter struct {
	printer *message.Printer
	symbol  string
}

// NewMoneyFormatter returns a formatter for tag using a dollar symbol.
func NewMoneyFormatter(tag language.Tag) MoneyFormatter {
	return MoneyFormatter{printer: message.NewPrinter(tag), symbol: "$"}
}

var defaultMoney = NewMoneyFormatter(language.English)

// Format renders amount as "$1,234.50", or "-$40.00" when negative.
func (f MoneyFormatter) Format(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	abs := f.printer.Sprint(number.Decimal(d.Abs().InexactFloat64(), number.Scale(2)))
	if d.IsNegative() {
		return "-" + f.symbol + abs
	}
	return f.symbol + abs
}

// Signed renders a transaction amount with "+" for income and "-" for expenses.
func (f MoneyFormatter) Signed(txn model.Transaction) string {
	amount := f.Format(txn.SafeAmount())
	if txn.IsIncome() {
		return "+" + amount
	}
	return "-" + amount
}

// FormatMoney renders amount using English grouping.
func FormatMoney(amount float64) string {
	return defaultMoney.Format(amount)
}

// FormatSigned renders a transaction amount using English grouping.
func FormatSigned(txn model.Transaction) string {
	return defaultMoney.Signed(txn)
}

// StyleAmount colors a signed amount by transaction type.
func StyleAmount(txn model.Transaction) string {
	if txn.IsIncome() {
		return IncomeStyle.Render(FormatSigned(txn))
	}
	return ExpenseStyle.Render(FormatSigned(txn))
}

// RecurringBadge returns text such as "Recurring (Monthly), next 2024-02-01",
// or "" for one-off transactions.
func RecurringBadge(txn model.Transaction) string {
	if !txn.IsRecurring {
		return ""
	}
	badge := "Recurring"
	if label := txn.RecurringInterval.Label(); label != "" {
		badge = fmt.Sprintf("Recurring (%s)", label)
	}
	if txn.NextRecurringDate != nil {
		badge += ", next " + txn.NextRecurringDate.Format(time.DateOnly)
	}
	return badge
}

// FormatBudget renders the budget summary shown on the overview.
func (f MoneyFormatter) FormatBudget(p analytics.BudgetProgress) string {
	if !p.IsSet() || p.Utilization == nil {
		return SubtleStyle.Render("No Budget set")
	}

	style := SeverityStyle(p.Utilization.Severity)
	lines := []string{
		fmt.Sprintf("%s of %s spent", f.Format(p.Expenses), f.Format(p.Budget.Amount)),
		style.Render(fmt.Sprintf("%s %.2f%% used", BudgetBar(p.Utilization.Percent, 20), p.Utilization.Percent)),
		style.Render(p.Utilization.Severity.Message()),
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// FormatBudget renders a budget summary using English grouping.
func FormatBudget(p analytics.BudgetProgress) string {
	return defaultMoney.FormatBudget(p)
}

// BudgetBar draws a fixed-width bar filled to percent, capped at full.
func BudgetBar(percent float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(percent / 100 * float64(width))
	filled = max(0, min(filled, width))
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
}
