// Package dashboard loads everything an overview screen needs from storage
// and runs the analytics core over it once.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/ledger/internal/analytics"
	"github.com/Veraticus/ledger/internal/common"
	"github.com/Veraticus/ledger/internal/model"
	"github.com/Veraticus/ledger/internal/service"
)

// Snapshot is the result of one dashboard load.
type Snapshot struct {
	LoadedAt     time.Time
	Account      *model.Account
	Transactions []model.Transaction
	Overview     analytics.Overview
	Budget       analytics.BudgetProgress
}

// Sources groups the collaborators a Loader reads from.
type Sources interface {
	service.AccountStore
	service.TransactionSource
	service.BudgetSource
}

// Loader fetches snapshots.
type Loader struct {
	sources Sources
	clock   func() time.Time
	loc     *time.Location
}

// Option configures a Loader.
type Option func(*Loader)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(l *Loader) { l.clock = clock }
}

// WithLocation sets the location used for calendar days and months.
func WithLocation(loc *time.Location) Option {
	return func(l *Loader) { l.loc = loc }
}

// NewLoader creates a loader over sources using the local time zone.
func NewLoader(sources Sources, opts ...Option) *Loader {
	l := &Loader{sources: sources, clock: time.Now, loc: time.Local}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ResolveAccount returns the account with id, or the default account when id is empty.
func (l *Loader) ResolveAccount(ctx context.Context, id string) (*model.Account, error) {
	if id == "" {
		account, err := l.sources.GetDefaultAccount(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load default account: %w", err)
		}
		return account, nil
	}
	account, err := l.sources.GetAccount(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load account %s: %w", id, err)
	}
	return account, nil
}

// Load reads the account's transactions, budget and current month expenses
// concurrently, then aggregates the overview for rng. The clock is sampled
// once so every figure in the snapshot agrees on "now".
func (l *Loader) Load(ctx context.Context, accountID string, rng analytics.DateRange) (*Snapshot, error) {
	account, err := l.ResolveAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	now := l.clock().In(l.loc)
	month := analytics.CurrentMonth(now)

	var (
		txns     []model.Transaction
		budget   *model.Budget
		expenses float64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		txns, err = l.sources.GetTransactions(gctx, service.TransactionFilter{AccountID: account.ID})
		if err != nil {
			return fmt.Errorf("failed to load transactions: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		b, err := l.sources.GetBudget(gctx, account.ID)
		switch {
		case errors.Is(err, common.ErrNotFound):
			return nil
		case err != nil:
			return fmt.Errorf("failed to load budget: %w", err)
		}
		budget = b
		return nil
	})
	g.Go(func() error {
		monthTxns, err := l.sources.GetTransactions(gctx, service.TransactionFilter{
			AccountID: account.ID,
			StartDate: &month.Start,
			EndDate:   &month.End,
		})
		if err != nil {
			return fmt.Errorf("failed to load current month: %w", err)
		}
		expenses = analytics.ExpenseTotal(monthTxns, month)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	progress, err := analytics.NewBudgetProgress(budget, expenses)
	if err != nil {
		// A stored budget always passed validation; report it and show none.
		slog.Warn("Ignoring invalid budget", "account", account.ID, "error", err)
		progress = analytics.BudgetProgress{Expenses: expenses}
	}

	overview := analytics.Aggregate(txns, rng, now)
	if overview.Undated > 0 || overview.MalformedAmounts > 0 {
		slog.Debug("Overview skipped degraded transactions",
			"undated", overview.Undated,
			"malformed_amounts", overview.MalformedAmounts)
	}

	return &Snapshot{
		LoadedAt:     now,
		Account:      account,
		Transactions: txns,
		Overview:     overview,
		Budget:       progress,
	}, nil
}
