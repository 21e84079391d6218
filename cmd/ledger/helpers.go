package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/ledger/internal/analytics"
	"github.com/Veraticus/ledger/internal/cli"
	"github.com/Veraticus/ledger/internal/config"
	"github.com/Veraticus/ledger/internal/dashboard"
	"github.com/Veraticus/ledger/internal/model"
	"github.com/Veraticus/ledger/internal/storage"
)

// dateLayout is the format accepted and printed for calendar dates.
const dateLayout = time.DateOnly

func loadSettings() (config.Settings, error) {
	settings, err := config.Load(viper.GetViper())
	if err != nil {
		return settings, fmt.Errorf("invalid configuration: %w", err)
	}
	return settings, nil
}

// initStorage opens the configured database and brings its schema up to date.
func initStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	settings, err := loadSettings()
	if err != nil {
		return nil, err
	}

	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func closeStorage(store *storage.SQLiteStorage) {
	if err := store.Close(); err != nil {
		slog.Error("failed to close storage", "error", err)
	}
}

// resolveAccount returns the named account, or the default one when id is empty.
func resolveAccount(ctx context.Context, store dashboard.Sources, id string) (*model.Account, error) {
	return dashboard.NewLoader(store).ResolveAccount(ctx, id)
}

// formatters builds the locale-aware sorter and money formatter from settings.
func formatters(settings config.Settings) (*analytics.Sorter, cli.MoneyFormatter) {
	return analytics.NewSorter(settings.Locale), cli.NewMoneyFormatter(settings.Locale)
}

func parseRange(key string, fallback analytics.DateRange) (analytics.DateRange, error) {
	if strings.TrimSpace(key) == "" {
		return fallback, nil
	}
	return analytics.LookupDateRange(key)
}

func parseTypeFilter(s string) (analytics.TypeFilter, error) {
	switch f := analytics.TypeFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case analytics.TypeAll, analytics.TypeIncome, analytics.TypeExpense:
		return f, nil
	case "all":
		return analytics.TypeAll, nil
	default:
		return analytics.TypeAll, fmt.Errorf("unknown type filter %q: use income, expense or all", s)
	}
}

func parseRecurringFilter(s string) (analytics.RecurringFilter, error) {
	switch f := analytics.RecurringFilter(strings.ToLower(strings.TrimSpace(s))); f {
	case analytics.RecurringAll, analytics.RecurringOnly, analytics.NonRecurringOnly:
		return f, nil
	case "all":
		return analytics.RecurringAll, nil
	default:
		return analytics.RecurringAll, fmt.Errorf("unknown recurring filter %q: use recurring, non-recurring or all", s)
	}
}

func parseInterval(s string) (model.RecurringInterval, error) {
	interval := model.RecurringInterval(strings.ToUpper(strings.TrimSpace(s)))
	if !interval.Valid() {
		return "", fmt.Errorf("unknown interval %q: use daily, weekly, monthly or yearly", s)
	}
	return interval, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(dateLayout)
}
