package testutil

import (
	"fmt"
	"time"

	"github.com/Veraticus/ledger/internal/model"
)

// TransactionBuilder builds transaction fixtures with sequential IDs and dates.
//
//	txns := testutil.NewTransactions("acct-1").
//		StartingAt(time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)).
//		Expense("groceries", 40).
//		Income("salary", 3000).
//		Build()
type TransactionBuilder struct {
	next      time.Time
	accountID string
	txns      []model.Transaction
	step      time.Duration
}

// NewTransactions starts a builder for accountID. Dates begin at
// 2024-01-01 12:00 UTC and advance by a day per transaction.
func NewTransactions(accountID string) *TransactionBuilder {
	return &TransactionBuilder{
		accountID: accountID,
		next:      time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		step:      24 * time.Hour,
	}
}

// StartingAt sets the date of the next transaction.
func (b *TransactionBuilder) StartingAt(t time.Time) *TransactionBuilder {
	b.next = t
	return b
}

// Every sets the gap between consecutive transactions.
func (b *TransactionBuilder) Every(d time.Duration) *TransactionBuilder {
	b.step = d
	return b
}

// Expense appends an expense.
func (b *TransactionBuilder) Expense(category string, amount float64) *TransactionBuilder {
	return b.add(model.TypeExpense, category, amount)
}

// Income appends an income.
func (b *TransactionBuilder) Income(category string, amount float64) *TransactionBuilder {
	return b.add(model.TypeIncome, category, amount)
}

// Recurring marks the most recently added transaction as recurring.
func (b *TransactionBuilder) Recurring(interval model.RecurringInterval) *TransactionBuilder {
	if n := len(b.txns); n > 0 {
		b.txns[n-1].IsRecurring = true
		b.txns[n-1].RecurringInterval = interval
	}
	return b
}

// Described sets the description of the most recently added transaction.
func (b *TransactionBuilder) Described(description string) *TransactionBuilder {
	if n := len(b.txns); n > 0 {
		b.txns[n-1].Description = description
	}
	return b
}

// Expenses appends n expenses of amount each.
func (b *TransactionBuilder) Expenses(n int, category string, amount float64) *TransactionBuilder {
	for range n {
		b.Expense(category, amount)
	}
	return b
}

// Build returns a copy of the accumulated transactions.
func (b *TransactionBuilder) Build() []model.Transaction {
	out := make([]model.Transaction, len(b.txns))
	copy(out, b.txns)
	return out
}

func (b *TransactionBuilder) add(typ model.TransactionType, category string, amount float64) *TransactionBuilder {
	n := len(b.txns) + 1
	b.txns = append(b.txns, model.Transaction{
		ID:          fmt.Sprintf("txn-%03d", n),
		AccountID:   b.accountID,
		Date:        b.next,
		Description: fmt.Sprintf("%s #%d", category, n),
		Category:    category,
		Type:        typ,
		Amount:      amount,
	})
	b.next = b.next.Add(b.step)
	return b
}
