package sheets

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/Veraticus/ledger/internal/analytics"
	"github.com/Veraticus/ledger/internal/common"
	"github.com/Veraticus/ledger/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

func reportFixture(t *testing.T) Report {
	t.Helper()
	now := time.Date(2024, 1, 5, 18, 0, 0, 0, time.UTC)
	txns := []model.Transaction{
		{ID: "a", Date: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), Amount: 100, Type: model.TypeIncome, Category: "salary", Description: "Paycheck", IsRecurring: true, RecurringInterval: model.IntervalMonthly},
		{ID: "b", Date: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), Amount: 40, Type: model.TypeExpense, Category: "groceries", Description: "Market"},
		{ID: "c", Date: time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC), Amount: 10.125, Type: model.TypeExpense, Category: "coffee", Description: "Cafe"},
		{ID: "old", Date: time.Date(2023, 6, 1, 8, 0, 0, 0, time.UTC), Amount: 999, Type: model.TypeExpense},
	}

	overview := analytics.Aggregate(txns, analytics.RangeWeek, now)
	progress, err := analytics.NewBudgetProgress(&model.Budget{ID: "bud", Amount: 200}, 50)
	require.NoError(t, err)

	return NewReport("Checking", overview, txns, progress)
}

func TestNewReport(t *testing.T) {
	report := reportFixture(t)

	assert.Equal(t, "Checking", report.AccountName)
	assert.Equal(t, "Last 7 Days", report.RangeLabel)
	assert.Equal(t, "100.00", report.TotalIncome.StringFixed(2))
	assert.Equal(t, "50.13", report.TotalExpense.StringFixed(2))
	assert.Equal(t, "49.88", report.Net.StringFixed(2))

	require.Len(t, report.Days, 2)
	assert.Equal(t, "60.00", report.Days[0].Net.StringFixed(2))

	require.Len(t, report.Transactions, 3, "transactions outside the period are dropped")
	assert.Equal(t, "Cafe", report.Transactions[0].Description)
	assert.Equal(t, "-10.13", report.Transactions[0].Amount.StringFixed(2))
	assert.Equal(t, "Monthly", report.Transactions[2].Recurring)
	assert.Equal(t, "100.00", report.Transactions[2].Amount.StringFixed(2))

	require.NotNil(t, report.Budget)
	assert.Equal(t, 25.0, report.Budget.Percent)
	assert.Equal(t, "50.00", report.Budget.Spent.StringFixed(2))
	assert.Equal(t, "Great! You are within your budget.", report.Budget.Status)
}

func TestNewReport_NoBudget(t *testing.T) {
	overview := analytics.Aggregate(nil, analytics.RangeMonth, time.Now())

	report := NewReport("Savings", overview, nil, analytics.BudgetProgress{})

	assert.Nil(t, report.Budget)
	assert.Empty(t, report.Days)
	assert.Empty(t, report.Transactions)
}

func TestPrepareReportValues(t *testing.T) {
	values := prepareReportValues(reportFixture(t))

	assert.Equal(t, "Ledger Overview", values[0][0])
	assert.Contains(t, values[0][1], "Dec 29, 2023")
	assert.Contains(t, values[0][1], "Jan 5, 2024")

	find := func(label string) int {
		for i, row := range values {
			if len(row) > 0 && row[0] == label {
				return i
			}
		}
		return -1
	}

	net := find("Net")
	require.NotEqual(t, -1, net)
	assert.Equal(t, "49.88", values[net][1])

	status := find("Status")
	require.NotEqual(t, -1, status)
	assert.Equal(t, "Great! You are within your budget.", values[status][1])

	daily := find("Daily Breakdown")
	require.NotEqual(t, -1, daily)
	assert.Equal(t, []any{"2024-01-01", "100.00", "40.00", "60.00"}, values[daily+2])

	details := find("Transaction Details")
	require.NotEqual(t, -1, details)
	assert.Equal(t, []any{"2024-01-03", "Cafe", "-10.13", "coffee", "EXPENSE", ""}, values[details+2])
	assert.Len(t, values, details+2+3)
}

func TestPrepareReportValues_NoBudget(t *testing.T) {
	overview := analytics.Aggregate(nil, analytics.RangeMonth, time.Now())
	values := prepareReportValues(NewReport("Savings", overview, nil, analytics.BudgetProgress{}))

	var found bool
	for _, row := range values {
		if len(row) == 1 && row[0] == "No Budget set" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestMockWriter(t *testing.T) {
	mock := NewMockWriter()
	ctx := context.Background()

	_, ok := mock.LastReport()
	assert.False(t, ok)

	require.NoError(t, mock.Write(ctx, Report{AccountName: "first"}))
	mock.WriteFunc = func(context.Context, Report) error { return errors.New("quota exceeded") }
	assert.Error(t, mock.Write(ctx, Report{AccountName: "second"}))

	assert.Equal(t, 2, mock.Calls())
	last, ok := mock.LastReport()
	require.True(t, ok)
	assert.Equal(t, "second", last.AccountName)
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{AccessToken: "access", RefreshToken: "refresh", TokenType: "Bearer"}

	require.NoError(t, SaveToken(path, token))
	loaded, err := LoadToken(path)
	require.NoError(t, err)

	assert.Equal(t, "refresh", loaded.RefreshToken)
	assert.Equal(t, "access", loaded.AccessToken)
}

func TestClassifyAPIError(t *testing.T) {
	plain := errors.New("connection reset")
	assert.Same(t, plain, classifyAPIError(plain))
	assert.NoError(t, classifyAPIError(nil))

	limited := classifyAPIError(&googleapi.Error{Code: http.StatusTooManyRequests})
	assert.ErrorIs(t, limited, common.ErrRateLimit)
	assert.True(t, common.IsRetryable(limited))

	forbidden := classifyAPIError(&googleapi.Error{Code: http.StatusForbidden})
	assert.False(t, common.IsRetryable(forbidden))

	unavailable := &googleapi.Error{Code: http.StatusServiceUnavailable}
	assert.Equal(t, error(unavailable), classifyAPIError(unavailable))
}
