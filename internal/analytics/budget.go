package analytics

import (
	"errors"
	"fmt"
	"math"

	"github.com/Veraticus/ledger/internal/model"
	"github.com/shopspring/decimal"
)

// ErrInvalidBudget is returned for budget amounts that are not finite and positive.
var ErrInvalidBudget = errors.New("budget amount must be a number greater than zero")

// Severity classifies how much of a budget has been used.
type Severity string

// Severity tiers, lowest first.
const (
	SeverityNormal     Severity = "normal"
	SeverityWarning    Severity = "warning"
	SeverityCritical   Severity = "critical"
	SeverityOverBudget Severity = "over-budget"
)

// Severity thresholds in percent. Boundary values belong to the higher tier,
// except over-budget which requires strictly more than the limit.
const (
	WarningThreshold  = 75.0
	CriticalThreshold = 90.0
	OverBudgetLimit   = 100.0
)

// Message returns the status line shown next to a budget bar.
func (s Severity) Message() string {
	switch s {
	case SeverityOverBudget:
		return "You have exceeded your budget!"
	case SeverityCritical, SeverityWarning:
		return "Warning: You are nearing your budget limit."
	default:
		return "Great! You are within your budget."
	}
}

// ClassifySeverity maps a utilization percentage onto a severity tier.
func ClassifySeverity(percent float64) Severity {
	switch {
	case percent > OverBudgetLimit:
		return SeverityOverBudget
	case percent >= CriticalThreshold:
		return SeverityCritical
	case percent >= WarningThreshold:
		return SeverityWarning
	default:
		return SeverityNormal
	}
}

// Utilization is the share of a budget consumed by expenses.
type Utilization struct {
	Severity Severity
	Percent  float64 // Rounded to two decimal places
}

// ValidateBudgetAmount rejects zero, negative and non-finite budget amounts.
func ValidateBudgetAmount(amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount <= 0 {
		return fmt.Errorf("%w: got %v", ErrInvalidBudget, amount)
	}
	return nil
}

// ComputeUtilization returns the percentage of budgetAmount used by
// periodExpenses and its severity.
func ComputeUtilization(budgetAmount, periodExpenses float64) (Utilization, error) {
	if err := ValidateBudgetAmount(budgetAmount); err != nil {
		return Utilization{}, err
	}

	percent := decimal.NewFromFloat(periodExpenses / budgetAmount * 100).Round(2).InexactFloat64()

	return Utilization{
		Percent:  percent,
		Severity: ClassifySeverity(percent),
	}, nil
}

// BudgetProgress pairs a budget with the expenses of its current period.
// Utilization is nil when no budget is set, which is distinct from 0%.
type BudgetProgress struct {
	Budget      *model.Budget
	Utilization *Utilization
	Expenses    float64
}

// NewBudgetProgress computes progress for an optional budget.
func NewBudgetProgress(budget *model.Budget, periodExpenses float64) (BudgetProgress, error) {
	progress := BudgetProgress{Budget: budget, Expenses: periodExpenses}
	if budget == nil {
		return progress, nil
	}

	utilization, err := ComputeUtilization(budget.Amount, periodExpenses)
	if err != nil {
		return progress, err
	}
	progress.Utilization = &utilization

	return progress, nil
}

// IsSet reports whether a budget exists.
func (p BudgetProgress) IsSet() bool {
	return p.Budget != nil
}
