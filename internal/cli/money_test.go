package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"

	"github.com/Veraticus/ledger/internal/analytics"
	"github.com/Veraticus/ledger/internal/model"
)

func TestFormatMoney(t *testing.T) {
	tests := []struct {
		want   string
		amount float64
	}{
		{amount: 0, want: "$0.00"},
		{amount: 40, want: "$40.00"},
		{amount: 1234.5, want: "$1,234.50"},
		{amount: 2.005, want: "$2.01"},
		{amount: -40, want: "-$40.00"},
		{amount: 1250000, want: "$1,250,000.00"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatMoney(tt.amount), "amount %v", tt.amount)
	}
}

func TestMoneyFormatter_Locale(t *testing.T) {
	german := NewMoneyFormatter(language.German)
	assert.Equal(t, "$1.234,50", german.Format(1234.5))
}

func TestFormatSigned(t *testing.T) {
	income := model.Transaction{Type: model.TypeIncome, Amount: 100}
	expense := model.Transaction{Type: model.TypeExpense, Amount: 40}

	assert.Equal(t, "+$100.00", FormatSigned(income))
	assert.Equal(t, "-$40.00", FormatSigned(expense))
	assert.Contains(t, StyleAmount(expense), "-$40.00")
}

func TestRecurringBadge(t *testing.T) {
	assert.Empty(t, RecurringBadge(model.Transaction{}))
	assert.Equal(t, "Recurring (Monthly)", RecurringBadge(model.Transaction{
		IsRecurring:       true,
		RecurringInterval: model.IntervalMonthly,
	}))
	assert.Equal(t, "Recurring", RecurringBadge(model.Transaction{IsRecurring: true}))

	next := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "Recurring (Weekly), next 2024-02-01", RecurringBadge(model.Transaction{
		IsRecurring:       true,
		RecurringInterval: model.IntervalWeekly,
		NextRecurringDate: &next,
	}))
}

func TestFormatBudget(t *testing.T) {
	assert.Contains(t, FormatBudget(analytics.BudgetProgress{}), "No Budget set")

	progress, err := analytics.NewBudgetProgress(&model.Budget{Amount: 500}, 400)
	if err != nil {
		t.Fatalf("NewBudgetProgress() error: %v", err)
	}
	out := FormatBudget(progress)
	assert.Contains(t, out, "$400.00 of $500.00 spent")
	assert.Contains(t, out, "80.00% used")
	assert.Contains(t, out, analytics.SeverityWarning.Message())
}

func TestBudgetBar(t *testing.T) {
	assert.Equal(t, "[██░░]", BudgetBar(50, 4))
	assert.Equal(t, "[████]", BudgetBar(150, 4))
	assert.Equal(t, "[░░░░]", BudgetBar(-5, 4))
	assert.Empty(t, BudgetBar(50, 0))
}

func TestSeverityStyle(t *testing.T) {
	assert.Equal(t, ErrorStyle, SeverityStyle(analytics.SeverityOverBudget))
	assert.Equal(t, WarningStyle, SeverityStyle(analytics.SeverityWarning))
	assert.Equal(t, SuccessStyle, SeverityStyle(analytics.SeverityNormal))
}
