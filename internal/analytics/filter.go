// Package analytics derives table views and chart aggregates from a
// transaction collection. Every function here is pure: callers pass the
// source collection and the current view parameters, and get a fresh
// projection back.
package analytics

import (
	"strings"

	"github.com/Veraticus/ledger/internal/model"
)

// TypeFilter restricts a view to income or expense transactions.
type TypeFilter string

// Type filters.
const (
	TypeAll     TypeFilter = ""
	TypeIncome  TypeFilter = "income"
	TypeExpense TypeFilter = "expense"
)

// RecurringFilter restricts a view by recurrence.
type RecurringFilter string

// Recurring filters.
const (
	RecurringAll     RecurringFilter = ""
	RecurringOnly    RecurringFilter = "recurring"
	NonRecurringOnly RecurringFilter = "non-recurring"
)

// FilterCriteria is the current combination of search, type and recurrence filters.
type FilterCriteria struct {
	SearchText string
	Type       TypeFilter
	Recurring  RecurringFilter
}

// IsEmpty reports whether no filter is active.
func (c FilterCriteria) IsEmpty() bool {
	return c.SearchText == "" && c.Type == TypeAll && c.Recurring == RecurringAll
}

// notIncome is the expense side of every income/expense split. Anything that
// is not income counts as expense, so a future third type lands here too.
func notIncome(txn *model.Transaction) bool {
	return txn.Type != model.TypeIncome
}

func matchesType(txn *model.Transaction, f TypeFilter) bool {
	switch f {
	case TypeIncome:
		return txn.Type == model.TypeIncome
	case TypeExpense:
		return notIncome(txn)
	default:
		return true
	}
}

func matchesRecurring(txn *model.Transaction, f RecurringFilter) bool {
	switch f {
	case RecurringOnly:
		return txn.IsRecurring
	case NonRecurringOnly:
		return !txn.IsRecurring
	default:
		return true
	}
}

// matchesSearch expects searchLower to be lowercased already.
func matchesSearch(txn *model.Transaction, searchLower string) bool {
	if searchLower == "" {
		return true
	}
	if txn.Description == "" {
		return false
	}
	return strings.Contains(strings.ToLower(txn.Description), searchLower)
}

// Filter returns the transactions matching every active criterion, in their
// original relative order. The input slice is not modified.
func Filter(transactions []model.Transaction, criteria FilterCriteria) []model.Transaction {
	searchLower := strings.ToLower(criteria.SearchText)

	filtered := make([]model.Transaction, 0, len(transactions))
	for i := range transactions {
		txn := &transactions[i]
		if !matchesType(txn, criteria.Type) {
			continue
		}
		if !matchesRecurring(txn, criteria.Recurring) {
			continue
		}
		if !matchesSearch(txn, searchLower) {
			continue
		}
		filtered = append(filtered, *txn)
	}

	return filtered
}
