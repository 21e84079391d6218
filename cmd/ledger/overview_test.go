package main

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/Veraticus/ledger/internal/analytics"
	"github.com/Veraticus/ledger/internal/cli"
	"github.com/Veraticus/ledger/internal/common"
	"github.com/Veraticus/ledger/internal/dashboard"
	"github.com/Veraticus/ledger/internal/model"
	"github.com/Veraticus/ledger/internal/sheets"
	"github.com/Veraticus/ledger/internal/testutil"
)

var overviewNow = time.Date(2024, 1, 20, 12, 0, 0, 0, time.UTC)

func loadTestSnapshot(t *testing.T, db *testutil.TestDB, rng analytics.DateRange) *dashboard.Snapshot {
	t.Helper()
	loader := dashboard.NewLoader(db.Storage,
		dashboard.WithClock(func() time.Time { return overviewNow }),
		dashboard.WithLocation(time.UTC))
	snap, err := loader.Load(context.Background(), "", rng)
	require.NoError(t, err)
	return snap
}

func budgetDB(t *testing.T) *testutil.TestDB {
	t.Helper()
	return testutil.SetupTestDBWithOptions(t, testutil.TestDBOptions{
		Budget: 500,
		Transactions: testutil.NewTransactions("").
			Income("salary", 1000).
			Expense("rent", 300).
			Expense("food", 50).
			Build(),
	})
}

func TestRenderOverview(t *testing.T) {
	db := budgetDB(t)
	snap := loadTestSnapshot(t, db, analytics.RangeMonth)

	var out bytes.Buffer
	require.NoError(t, renderOverview(&out, snap, cli.NewMoneyFormatter(language.English), false))

	text := out.String()
	assert.Contains(t, text, "Checking · Last 1 Month")
	assert.Contains(t, text, "$1,000.00")
	assert.Contains(t, text, "+$650.00", "net")
	assert.Contains(t, text, "2024-01-02")
	assert.NotContains(t, text, "2024-01-10", "quiet days are hidden")
	assert.Contains(t, text, "$350.00 of $500.00 spent")
	assert.Contains(t, text, "70.00% used")
}

func TestRenderOverview_AllDaysAndNoBudget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	snap := loadTestSnapshot(t, db, analytics.RangeWeek)

	var out bytes.Buffer
	require.NoError(t, renderOverview(&out, snap, cli.NewMoneyFormatter(language.English), true))

	text := out.String()
	assert.Contains(t, text, "2024-01-14")
	assert.Contains(t, text, "2024-01-20")
	assert.Contains(t, text, "No Budget set")
}

func TestParseBudgetAmount(t *testing.T) {
	tests := []struct {
		input string
		want  float64
		ok    bool
	}{
		{input: "500", want: 500, ok: true},
		{input: "$1,200.50", want: 1200.5, ok: true},
		{input: "0", ok: false},
		{input: "-20", ok: false},
		{input: "NaN", ok: false},
		{input: "lots", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parseBudgetAmount(tt.input)
			if !tt.ok {
				assert.ErrorIs(t, err, analytics.ErrInvalidBudget)
				var userErr *common.UserError
				assert.True(t, errors.As(err, &userErr))
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 0.001)
		})
	}
}

func TestSetBudget(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, setBudget(ctx, &out, db.Storage, db.Account.ID, 750))
	assert.Contains(t, out.String(), "Monthly budget set to $750.00")

	budget, err := db.Storage.GetBudget(ctx, db.Account.ID)
	require.NoError(t, err)
	assert.InDelta(t, 750, budget.Amount, 0.001)
}

func TestAccounts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	savings, err := addAccount(ctx, db.Storage, " Savings ", model.AccountSavings, 2500, true)
	require.NoError(t, err)
	assert.Equal(t, "Savings", savings.Name)
	assert.True(t, savings.IsDefault)

	_, err = addAccount(ctx, db.Storage, "Wallet", model.AccountType("cash"), 0, false)
	assert.Error(t, err)

	var out bytes.Buffer
	require.NoError(t, listAccounts(ctx, &out, db.Storage, cli.NewMoneyFormatter(language.English)))
	text := out.String()
	assert.Contains(t, text, "Savings")
	assert.Contains(t, text, "$2,500.00")
	assert.Contains(t, text, "Checking")

	account, err := resolveAccount(ctx, db.Storage, "")
	require.NoError(t, err)
	assert.Equal(t, savings.ID, account.ID)
}

type failingWriter struct{}

func (failingWriter) Write(context.Context, sheets.Report) error {
	return errors.New("quota exceeded")
}

func TestExportReport(t *testing.T) {
	db := budgetDB(t)
	snap := loadTestSnapshot(t, db, analytics.RangeMonth)
	report := sheets.NewReport(snap.Account.Name, snap.Overview, snap.Transactions, snap.Budget)

	mock := sheets.NewMockWriter()
	require.NoError(t, exportReport(context.Background(), mock, report))

	written, ok := mock.LastReport()
	require.True(t, ok)
	assert.Equal(t, "Checking", written.AccountName)
	assert.Len(t, written.Transactions, 3)
	require.NotNil(t, written.Budget)

	err := exportReport(context.Background(), failingWriter{}, report)
	assert.ErrorIs(t, err, common.ErrExportFailed)

	var out bytes.Buffer
	printReportSummary(&out, report)
	assert.Contains(t, out.String(), "Income 1000.00   Expenses 350.00   Net 650.00")
	assert.Contains(t, out.String(), "3 transactions")
}

func TestExportReport_EmptyRange(t *testing.T) {
	db := testutil.SetupTestDB(t)
	snap := loadTestSnapshot(t, db, analytics.RangeMonth)
	report := sheets.NewReport(snap.Account.Name, snap.Overview, snap.Transactions, snap.Budget)

	mock := sheets.NewMockWriter()
	err := exportReport(context.Background(), mock, report)
	assert.ErrorIs(t, err, common.ErrNoTransactions)
	assert.Zero(t, mock.Calls(), "nothing is written for an empty range")
}
