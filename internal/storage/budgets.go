package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/ledger/internal/analytics"
	"github.com/Veraticus/ledger/internal/common"
	"github.com/Veraticus/ledger/internal/model"
	"github.com/google/uuid"
)

// GetBudget returns the account's budget, or common.ErrNotFound.
func (s *SQLiteStorage) GetBudget(ctx context.Context, accountID string) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return nil, err
	}

	var budget model.Budget

	err := s.db.QueryRowContext(ctx, `
		SELECT id, account_id, amount, updated_at
		FROM budgets
		WHERE account_id = ?
	`, accountID).Scan(
		&budget.ID,
		&budget.AccountID,
		&budget.Amount,
		&budget.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get budget: %w", err)
	}

	return &budget, nil
}

// SetBudget creates or replaces the account's monthly budget.
func (s *SQLiteStorage) SetBudget(ctx context.Context, accountID string, amount float64) (*model.Budget, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(accountID, "accountID"); err != nil {
		return nil, err
	}
	if err := analytics.ValidateBudgetAmount(amount); err != nil {
		return nil, err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO budgets (id, account_id, amount, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(account_id) DO UPDATE SET
			amount = excluded.amount,
			updated_at = excluded.updated_at
	`, uuid.NewString(), accountID, amount, time.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to save budget: %w", err)
	}

	return s.GetBudget(ctx, accountID)
}
