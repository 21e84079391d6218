// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/ledger/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	AccountID string
	Limit     int
	Offset    int
}

// AccountStore manages accounts.
type AccountStore interface {
	CreateAccount(ctx context.Context, account *model.Account) error
	GetAccount(ctx context.Context, id string) (*model.Account, error)
	GetDefaultAccount(ctx context.Context) (*model.Account, error)
	ListAccounts(ctx context.Context) ([]model.Account, error)
	SetDefaultAccount(ctx context.Context, id string) error
}

// TransactionSource supplies transactions to the analytics layer.
type TransactionSource interface {
	GetTransactions(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	GetTransactionByID(ctx context.Context, id string) (*model.Transaction, error)
}

// BudgetSource supplies and records account budgets.
type BudgetSource interface {
	// GetBudget returns common.ErrNotFound when the account has no budget.
	GetBudget(ctx context.Context, accountID string) (*model.Budget, error)
	SetBudget(ctx context.Context, accountID string, amount float64) (*model.Budget, error)
}

// BulkMutator writes and removes transactions in batches.
type BulkMutator interface {
	// SaveTransactions stores transactions, skipping any whose hash already
	// exists, and returns how many were inserted.
	SaveTransactions(ctx context.Context, transactions []model.Transaction) (int, error)
	// DeleteTransactions removes the given ids and returns how many existed.
	DeleteTransactions(ctx context.Context, ids []string) (int, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	AccountStore
	TransactionSource
	BudgetSource
	BulkMutator

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
