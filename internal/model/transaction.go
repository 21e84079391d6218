package model

import (
	"crypto/sha256"
	"fmt"
	"math"
	"time"
)

// TransactionType indicates whether money flowed into or out of an account.
type TransactionType string

const (
	// TypeIncome represents money received.
	TypeIncome TransactionType = "INCOME"
	// TypeExpense represents money spent.
	TypeExpense TransactionType = "EXPENSE"
)

// Valid reports whether the type is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// RecurringInterval is the cadence of a recurring transaction.
type RecurringInterval string

// Recurring intervals.
const (
	IntervalDaily   RecurringInterval = "DAILY"
	IntervalWeekly  RecurringInterval = "WEEKLY"
	IntervalMonthly RecurringInterval = "MONTHLY"
	IntervalYearly  RecurringInterval = "YEARLY"
)

// RecurringIntervals lists every interval in display order.
var RecurringIntervals = []RecurringInterval{
	IntervalDaily,
	IntervalWeekly,
	IntervalMonthly,
	IntervalYearly,
}

// Valid reports whether the interval is one of the known intervals.
func (i RecurringInterval) Valid() bool {
	switch i {
	case IntervalDaily, IntervalWeekly, IntervalMonthly, IntervalYearly:
		return true
	default:
		return false
	}
}

// Label returns the human readable name of the interval.
func (i RecurringInterval) Label() string {
	switch i {
	case IntervalDaily:
		return "Daily"
	case IntervalWeekly:
		return "Weekly"
	case IntervalMonthly:
		return "Monthly"
	case IntervalYearly:
		return "Yearly"
	default:
		return ""
	}
}

// Advance returns the occurrence after t. Unknown intervals return t.
func (i RecurringInterval) Advance(t time.Time) time.Time {
	switch i {
	case IntervalDaily:
		return t.AddDate(0, 0, 1)
	case IntervalWeekly:
		return t.AddDate(0, 0, 7)
	case IntervalMonthly:
		return t.AddDate(0, 1, 0)
	case IntervalYearly:
		return t.AddDate(1, 0, 0)
	default:
		return t
	}
}

// Transaction represents a single financial transaction on an account.
type Transaction struct {
	Date              time.Time
	NextRecurringDate *time.Time
	ID                string
	AccountID         string
	Hash              string
	Category          string
	Description       string // Optional free text
	Type              TransactionType
	RecurringInterval RecurringInterval // Set only when IsRecurring
	Amount            float64           // Non-negative magnitude
	IsRecurring       bool
}

// HasValidAmount reports whether the amount is a finite, non-negative number.
func (t *Transaction) HasValidAmount() bool {
	return !math.IsNaN(t.Amount) && !math.IsInf(t.Amount, 0) && t.Amount >= 0
}

// SafeAmount returns the amount, or 0 when the amount is malformed.
func (t *Transaction) SafeAmount() float64 {
	if !t.HasValidAmount() {
		return 0
	}
	return t.Amount
}

// IsIncome reports whether the transaction is income.
func (t *Transaction) IsIncome() bool {
	return t.Type == TypeIncome
}

// SignedAmount returns the amount with the sign implied by its type.
func (t *Transaction) SignedAmount() float64 {
	if t.IsIncome() {
		return t.SafeAmount()
	}
	return -t.SafeAmount()
}

// GenerateHash returns the duplicate-detection key. It is derived from the
// account and the transaction ID, never from the contents: two purchases of
// the same amount on the same day are distinct. Imports get stable IDs from
// the bank's FITID, so the same statement line always maps to the same key.
func (t *Transaction) GenerateHash() string {
	hash := sha256.Sum256([]byte(t.AccountID + ":" + t.ID))
	return fmt.Sprintf("%x", hash)
}
