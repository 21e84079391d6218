// Package storage provides the SQLite persistence layer for ledger.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/ledger/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidAccount     = errors.New("invalid account")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i := range transactions {
		if err := validateTransaction(&transactions[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	switch {
	case txn == nil:
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	case txn.ID == "":
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	case txn.Date.IsZero():
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	case txn.AccountID == "":
		return fmt.Errorf("%w: missing account ID", ErrInvalidTransaction)
	case strings.TrimSpace(txn.Category) == "":
		return fmt.Errorf("%w: missing category", ErrInvalidTransaction)
	case !txn.Type.Valid():
		return fmt.Errorf("%w: unknown type %q", ErrInvalidTransaction, txn.Type)
	case !txn.HasValidAmount():
		return fmt.Errorf("%w: amount must be a non-negative number, got %v", ErrInvalidTransaction, txn.Amount)
	case txn.IsRecurring && !txn.RecurringInterval.Valid():
		return fmt.Errorf("%w: recurring transaction needs an interval, got %q", ErrInvalidTransaction, txn.RecurringInterval)
	}
	return nil
}

// validateAccount validates an account before it is stored.
func validateAccount(account *model.Account) error {
	switch {
	case account == nil:
		return fmt.Errorf("%w: account", ErrNilParameter)
	case strings.TrimSpace(account.Name) == "":
		return fmt.Errorf("%w: missing name", ErrInvalidAccount)
	case !account.Type.Valid():
		return fmt.Errorf("%w: unknown type %q", ErrInvalidAccount, account.Type)
	}
	return nil
}
