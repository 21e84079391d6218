package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/ledger/internal/common"
	"github.com/Veraticus/ledger/internal/model"
	"github.com/google/uuid"
)

const accountColumns = `
	a.id, a.name, a.type, a.balance, a.is_default, a.created_at,
	(SELECT COUNT(*) FROM transactions t WHERE t.account_id = a.id)`

// CreateAccount stores a new account, assigning an ID and creation time when
// they are unset. The first account created becomes the default.
func (s *SQLiteStorage) CreateAccount(ctx context.Context, account *model.Account) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateAccount(account); err != nil {
		return err
	}

	if account.ID == "" {
		account.ID = uuid.NewString()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var existing int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts`).Scan(&existing); err != nil {
			return fmt.Errorf("failed to count accounts: %w", err)
		}
		if existing == 0 {
			account.IsDefault = true
		}

		if account.IsDefault {
			if _, err := tx.ExecContext(ctx, `UPDATE accounts SET is_default = 0`); err != nil {
				return fmt.Errorf("failed to clear default account: %w", err)
			}
		}

		_, err := tx.ExecContext(ctx, `
			INSERT INTO accounts (id, name, type, balance, is_default, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, account.ID, account.Name, string(account.Type), account.Balance, account.IsDefault, account.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to insert account %s: %w", account.ID, err)
		}
		return nil
	})
}

// GetAccount retrieves an account by ID.
func (s *SQLiteStorage) GetAccount(ctx context.Context, id string) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts a WHERE a.id = ?`, id)
	return scanAccount(row)
}

// GetDefaultAccount retrieves the default account.
func (s *SQLiteStorage) GetDefaultAccount(ctx context.Context) (*model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+accountColumns+` FROM accounts a WHERE a.is_default = 1 LIMIT 1`)
	account, err := scanAccount(row)
	if errors.Is(err, common.ErrNotFound) {
		return nil, common.ErrNoAccount
	}
	return account, err
}

// ListAccounts returns all accounts, default first, then by name.
func (s *SQLiteStorage) ListAccounts(ctx context.Context) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts a
		ORDER BY a.is_default DESC, a.name COLLATE NOCASE, a.id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}

	return accounts, rows.Err()
}

// SetDefaultAccount makes id the only default account.
func (s *SQLiteStorage) SetDefaultAccount(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(id, "id"); err != nil {
		return err
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE id = ?)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("failed to look up account: %w", err)
		}
		if !exists {
			return fmt.Errorf("account %s: %w", id, common.ErrNotFound)
		}

		if _, err := tx.ExecContext(ctx, `UPDATE accounts SET is_default = (id = ?)`, id); err != nil {
			return fmt.Errorf("failed to set default account: %w", err)
		}
		return nil
	})
}

func scanAccount(row scanner) (*model.Account, error) {
	var account model.Account
	var accountType string

	err := row.Scan(
		&account.ID,
		&account.Name,
		&accountType,
		&account.Balance,
		&account.IsDefault,
		&account.CreatedAt,
		&account.TransactionCount,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}

	account.Type = model.AccountType(accountType)
	return &account, nil
}
