package sheets

import (
	"context"
	"time"

	"github.com/Veraticus/ledger/internal/analytics"
	"github.com/Veraticus/ledger/internal/model"
	"github.com/shopspring/decimal"
)

// ReportWriter publishes an overview report.
type ReportWriter interface {
	Write(ctx context.Context, report Report) error
}

// DailyRow is one day of the overview breakdown.
type DailyRow struct {
	Date    time.Time
	Income  decimal.Decimal
	Expense decimal.Decimal
	Net     decimal.Decimal
}

// TransactionRow is one transaction in the detail section.
type TransactionRow struct {
	Date        time.Time
	Description string
	Category    string
	Type        string
	Recurring   string // Interval label, empty when not recurring
	Amount      decimal.Decimal
}

// BudgetRow summarizes the current month's budget.
type BudgetRow struct {
	Amount  decimal.Decimal
	Spent   decimal.Decimal
	Status  string
	Percent float64
}

// Report holds everything written to the spreadsheet.
type Report struct {
	Period       analytics.Period
	Budget       *BudgetRow
	AccountName  string
	RangeLabel   string
	TotalIncome  decimal.Decimal
	TotalExpense decimal.Decimal
	Net          decimal.Decimal
	Days         []DailyRow
	Transactions []TransactionRow
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// NewReport assembles a report from an overview, the transactions behind it
// and the account's budget progress. Transactions outside the overview's
// period are left out; the rest are listed newest first.
func NewReport(accountName string, overview analytics.Overview, transactions []model.Transaction, progress analytics.BudgetProgress) Report {
	report := Report{
		Period:       overview.Period,
		AccountName:  accountName,
		RangeLabel:   overview.Range.Label,
		TotalIncome:  money(overview.Totals.Income),
		TotalExpense: money(overview.Totals.Expense),
		Net:          money(overview.Totals.Net()),
		Days:         make([]DailyRow, 0, len(overview.Buckets)),
	}

	for _, bucket := range overview.Buckets {
		report.Days = append(report.Days, DailyRow{
			Date:    bucket.Day,
			Income:  money(bucket.Income),
			Expense: money(bucket.Expense),
			Net:     money(bucket.Income - bucket.Expense),
		})
	}

	for _, txn := range analytics.Sort(transactions, analytics.DefaultSortSpec()) {
		if txn.Date.IsZero() || !overview.Period.Contains(txn.Date) {
			continue
		}
		row := TransactionRow{
			Date:        txn.Date,
			Description: txn.Description,
			Category:    txn.Category,
			Type:        string(txn.Type),
			Amount:      money(txn.SignedAmount()),
		}
		if txn.IsRecurring {
			row.Recurring = txn.RecurringInterval.Label()
		}
		report.Transactions = append(report.Transactions, row)
	}

	if progress.IsSet() && progress.Utilization != nil {
		report.Budget = &BudgetRow{
			Amount:  money(progress.Budget.Amount),
			Spent:   money(progress.Expenses),
			Percent: progress.Utilization.Percent,
			Status:  progress.Utilization.Severity.Message(),
		}
	}

	return report
}
