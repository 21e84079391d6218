// Package testutil provides shared test helpers for ledger packages that
// need a real database or realistic transaction data.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/ledger/internal/model"
	"github.com/Veraticus/ledger/internal/storage"
)

// TestDB is a migrated in-memory database with a seeded default account.
type TestDB struct {
	Storage *storage.SQLiteStorage
	Account *model.Account
	t       *testing.T
}

// TestDBOptions configures SetupTestDBWithOptions.
type TestDBOptions struct {
	CustomSetup  func(context.Context, *storage.SQLiteStorage) error
	AccountName  string
	Transactions []model.Transaction
	Budget       float64
}

// SetupTestDB creates a migrated in-memory database with one default account.
// Cleanup is registered on t.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	db.MustSave(testutil.NewTransactions(db.Account.ID).Expense("groceries", 40).Build())
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// SetupTestDBWithOptions creates a test database seeded according to opts.
// Transactions without an AccountID are assigned to the seeded account.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	name := opts.AccountName
	if name == "" {
		name = "Checking"
	}
	account := &model.Account{Name: name, Type: model.AccountCurrent}
	if err := store.CreateAccount(ctx, account); err != nil {
		t.Fatalf("failed to seed account %q: %v", name, err)
	}

	db := &TestDB{Storage: store, Account: account, t: t}

	if len(opts.Transactions) > 0 {
		db.MustSave(opts.Transactions)
	}
	if opts.Budget > 0 {
		if _, err := store.SetBudget(ctx, account.ID, opts.Budget); err != nil {
			t.Fatalf("failed to seed budget: %v", err)
		}
	}
	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return db
}

// MustSave stores txns against the seeded account or fails the test.
func (db *TestDB) MustSave(txns []model.Transaction) int {
	db.t.Helper()

	for i := range txns {
		if txns[i].AccountID == "" {
			txns[i].AccountID = db.Account.ID
		}
	}
	inserted, err := db.Storage.SaveTransactions(context.Background(), txns)
	if err != nil {
		db.t.Fatalf("failed to save transactions: %v", err)
	}
	return inserted
}
