package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/Veraticus/ledger/internal/analytics"
	"github.com/Veraticus/ledger/internal/cli"
	"github.com/Veraticus/ledger/internal/common"
	"github.com/Veraticus/ledger/internal/model"
	"github.com/Veraticus/ledger/internal/service"
	"github.com/Veraticus/ledger/internal/testutil"
)

func englishFormat(asJSON bool) listFormat {
	return listFormat{
		sorter: analytics.DefaultSorter,
		money:  cli.NewMoneyFormatter(language.English),
		json:   asJSON,
	}
}

func seededDB(t *testing.T) *testutil.TestDB {
	t.Helper()
	db := testutil.SetupTestDB(t)
	db.MustSave(testutil.NewTransactions(db.Account.ID).
		Expense("food", 12.5).Described("Lunch").
		Income("salary", 3000).Described("Paycheck").Recurring(model.IntervalMonthly).
		Expense("rent", 1200).Described("Rent").Recurring(model.IntervalMonthly).
		Expense("food", 40).Described("Groceries").
		Build())
	return db
}

func TestListTransactions_JSON(t *testing.T) {
	db := seededDB(t)

	state := analytics.NewTableState()
	state.Criteria.Type = analytics.TypeExpense
	state.Sort = analytics.SortSpec{Field: analytics.SortByAmount, Direction: analytics.Descending}

	var out bytes.Buffer
	err := listTransactions(context.Background(), &out, db.Storage, db.Account.ID, state, englishFormat(true))
	require.NoError(t, err)

	var page pageJSON
	require.NoError(t, json.Unmarshal(out.Bytes(), &page))

	assert.Equal(t, 3, page.Matches)
	assert.Equal(t, 1, page.PageCount)
	assert.Equal(t, "amount:desc", page.Sort)
	require.Len(t, page.Transactions, 3)
	assert.Equal(t, "Rent", page.Transactions[0].Description)
	assert.Equal(t, "MONTHLY", page.Transactions[0].RecurringInterval)
	assert.InDelta(t, 12.5, page.Transactions[2].Amount, 0.001)
}

func TestListTransactions_Table(t *testing.T) {
	db := seededDB(t)

	state := analytics.NewTableState()
	state.PageSize = 2

	var out bytes.Buffer
	err := listTransactions(context.Background(), &out, db.Storage, db.Account.ID, state, englishFormat(false))
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "Groceries")
	assert.Contains(t, text, "-$40.00")
	assert.NotContains(t, text, "Lunch", "oldest row is on page 2")
	assert.Contains(t, text, "Page 1 of 2")

	state.Page = 3
	err = listTransactions(context.Background(), &out, db.Storage, db.Account.ID, state, englishFormat(false))
	assert.ErrorContains(t, err, "out of range")
}

func TestListTransactions_NoMatches(t *testing.T) {
	db := seededDB(t)

	state := analytics.NewTableState()
	state.Criteria.SearchText = "yacht"

	var out bytes.Buffer
	require.NoError(t, listTransactions(context.Background(), &out, db.Storage, db.Account.ID, state, englishFormat(false)))
	assert.Contains(t, out.String(), "No transactions match")
}

func TestBuildTransaction(t *testing.T) {
	date := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)

	txn, err := buildTransaction(addRequest{
		AccountID: "acct",
		Date:      date,
		Type:      "income",
		Amount:    3000,
		Category:  " salary ",
		Recurring: "monthly",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, txn.ID)
	assert.Equal(t, model.TypeIncome, txn.Type)
	assert.Equal(t, "salary", txn.Category)
	assert.True(t, txn.IsRecurring)
	require.NotNil(t, txn.NextRecurringDate)
	assert.Equal(t, date.AddDate(0, 1, 0), *txn.NextRecurringDate)

	invalid := []addRequest{
		{Type: "transfer", Amount: 1, Category: "x"},
		{Type: "expense", Amount: 0, Category: "x"},
		{Type: "expense", Amount: -5, Category: "x"},
		{Type: "expense", Amount: 5, Category: " "},
		{Type: "expense", Amount: 5, Category: "x", Recurring: "hourly"},
	}
	for _, req := range invalid {
		_, err := buildTransaction(req)
		assert.Error(t, err, "%+v", req)
	}
}

func TestAddTransaction_RepeatedPurchase(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	req := addRequest{
		AccountID:   db.Account.ID,
		Date:        time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Type:        "expense",
		Amount:      5,
		Category:    "coffee",
		Description: "Starbucks",
	}

	first, err := addTransaction(ctx, db.Storage, req)
	require.NoError(t, err)
	second, err := addTransaction(ctx, db.Storage, req)
	require.NoError(t, err, "a second identical purchase is a real transaction")
	assert.NotEqual(t, first.ID, second.ID)

	stored, err := db.Storage.GetTransactions(ctx, service.TransactionFilter{AccountID: db.Account.ID})
	require.NoError(t, err)
	require.Len(t, stored, 2)
	assert.InDelta(t, 10, stored[0].Amount+stored[1].Amount, 0.001)
}

// nothingInserted reports every row as already present.
type nothingInserted struct{ service.BulkMutator }

func (nothingInserted) SaveTransactions(context.Context, []model.Transaction) (int, error) {
	return 0, nil
}

func TestAddTransaction_TakenID(t *testing.T) {
	_, err := addTransaction(context.Background(), nothingInserted{}, addRequest{
		AccountID: "acct",
		Date:      time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Type:      "expense",
		Amount:    9.99,
		Category:  "subscriptions",
	})
	assert.True(t, errors.Is(err, common.ErrDuplicateEntry), "got %v", err)
}

func TestCompleteAddRequest(t *testing.T) {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

	t.Run("prompts for missing fields and the date", func(t *testing.T) {
		p := cli.NewPrompter(strings.NewReader("expense\n12.50\n\n2024-03-05\n"), &bytes.Buffer{})

		var req addRequest
		require.NoError(t, completeAddRequest(context.Background(), p, &req, today))

		assert.Equal(t, "expense", req.Type)
		assert.InDelta(t, 12.5, req.Amount, 0.001)
		assert.Equal(t, "uncategorized", req.Category)
		assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), req.Date)
	})

	t.Run("empty date answer keeps today", func(t *testing.T) {
		p := cli.NewPrompter(strings.NewReader("income\n100\nsalary\n\n"), &bytes.Buffer{})

		var req addRequest
		require.NoError(t, completeAddRequest(context.Background(), p, &req, today))
		assert.Equal(t, today, req.Date)
	})

	t.Run("complete flags never prompt", func(t *testing.T) {
		var out bytes.Buffer
		p := cli.NewPrompter(strings.NewReader(""), &out)

		req := addRequest{Type: "expense", Amount: 4, Category: "coffee"}
		require.NoError(t, completeAddRequest(context.Background(), p, &req, today))
		assert.Equal(t, today, req.Date)
		assert.Empty(t, out.String())
	})

	t.Run("explicit date is kept", func(t *testing.T) {
		p := cli.NewPrompter(strings.NewReader("expense\n"), &bytes.Buffer{})

		date := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
		req := addRequest{Amount: 4, Category: "coffee", Date: date}
		require.NoError(t, completeAddRequest(context.Background(), p, &req, today))
		assert.Equal(t, date, req.Date)
	})
}

func TestDeleteTransactions(t *testing.T) {
	db := seededDB(t)
	ctx := context.Background()

	var out bytes.Buffer
	decline := cli.NewPrompter(strings.NewReader("n\n"), &out)
	require.NoError(t, deleteTransactions(ctx, &out, decline, db.Storage, []string{"txn-001"}, false))
	assert.Contains(t, out.String(), "Operation canceled")

	out.Reset()
	accept := cli.NewPrompter(strings.NewReader("y\n"), &out)
	require.NoError(t, deleteTransactions(ctx, &out, accept, db.Storage, []string{"txn-001", "missing"}, false))
	assert.Contains(t, out.String(), "Deleted 1 transaction(s)")
	assert.Contains(t, out.String(), "1 of the given IDs were not found")

	remaining, err := db.Storage.GetTransactions(ctx, service.TransactionFilter{AccountID: db.Account.ID})
	require.NoError(t, err)
	assert.Len(t, remaining, 3)
}
