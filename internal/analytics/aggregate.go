package analytics

import (
	"log/slog"
	"slices"
	"time"

	"github.com/Veraticus/ledger/internal/model"
)

// DayBucket holds the income and expense totals of one calendar day.
type DayBucket struct {
	Day     time.Time // Midnight in the period's location
	Income  float64
	Expense float64
}

// Label returns the chart label for the bucket, e.g. "Jan 02".
func (b DayBucket) Label() string {
	return b.Day.Format("Jan 02")
}

// Key returns an unambiguous day key, e.g. "2024-01-02".
func (b DayBucket) Key() string {
	return b.Day.Format(time.DateOnly)
}

// Totals are the income and expense sums over a period.
type Totals struct {
	Income  float64
	Expense float64
}

// Net returns income minus expense. It is negative when spending exceeds income.
func (t Totals) Net() float64 {
	return t.Income - t.Expense
}

// Overview is the chart-ready aggregation of a period.
type Overview struct {
	Period  Period
	Range   DateRange
	Buckets []DayBucket
	Totals  Totals
	// Undated counts transactions skipped because they had no date.
	Undated int
	// MalformedAmounts counts in-range transactions whose amount was
	// not a finite non-negative number and was summed as zero.
	MalformedAmounts int
}

// Aggregate buckets transactions that fall inside rng, resolved against now.
func Aggregate(transactions []model.Transaction, rng DateRange, now time.Time) Overview {
	overview := AggregatePeriod(transactions, rng.Resolve(now))
	overview.Range = rng
	return overview
}

// AggregatePeriod buckets transactions dated within p by calendar day.
// Income adds to a bucket's income; every other type adds to its expense.
// Buckets are sparse and ordered by day ascending.
func AggregatePeriod(transactions []model.Transaction, p Period) Overview {
	overview := Overview{Period: p, Buckets: []DayBucket{}}
	loc := p.Start.Location()
	byDay := make(map[string]*DayBucket)

	for i := range transactions {
		txn := &transactions[i]
		if txn.Date.IsZero() {
			overview.Undated++
			continue
		}
		if !p.Contains(txn.Date) {
			continue
		}
		if !txn.HasValidAmount() {
			overview.MalformedAmounts++
		}

		day := StartOfDay(txn.Date.In(loc))
		key := day.Format(time.DateOnly)
		bucket, ok := byDay[key]
		if !ok {
			bucket = &DayBucket{Day: day}
			byDay[key] = bucket
		}

		amount := txn.SafeAmount()
		if notIncome(txn) {
			bucket.Expense += amount
		} else {
			bucket.Income += amount
		}
	}

	for _, bucket := range byDay {
		overview.Buckets = append(overview.Buckets, *bucket)
	}
	slices.SortFunc(overview.Buckets, func(a, b DayBucket) int {
		return a.Day.Compare(b.Day)
	})

	for _, bucket := range overview.Buckets {
		overview.Totals.Income += bucket.Income
		overview.Totals.Expense += bucket.Expense
	}

	if overview.Undated > 0 || overview.MalformedAmounts > 0 {
		slog.Debug("Aggregated transactions with degraded input",
			"undated", overview.Undated,
			"malformed_amounts", overview.MalformedAmounts)
	}

	return overview
}

// ExpenseTotal sums the expense side of transactions dated within p.
func ExpenseTotal(transactions []model.Transaction, p Period) float64 {
	return AggregatePeriod(transactions, p).Totals.Expense
}
