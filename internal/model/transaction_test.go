package model

import (
	"math"
	"testing"
	"time"
)

func TestTransaction_SafeAmount(t *testing.T) {
	tests := []struct {
		name   string
		amount float64
		want   float64
		valid  bool
	}{
		{name: "positive", amount: 42.5, want: 42.5, valid: true},
		{name: "zero", amount: 0, want: 0, valid: true},
		{name: "negative", amount: -3, want: 0, valid: false},
		{name: "nan", amount: math.NaN(), want: 0, valid: false},
		{name: "infinite", amount: math.Inf(1), want: 0, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			txn := Transaction{Amount: tt.amount}
			if got := txn.HasValidAmount(); got != tt.valid {
				t.Errorf("HasValidAmount() = %v, want %v", got, tt.valid)
			}
			if got := txn.SafeAmount(); got != tt.want {
				t.Errorf("SafeAmount() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTransaction_SignedAmount(t *testing.T) {
	income := Transaction{Amount: 10, Type: TypeIncome}
	expense := Transaction{Amount: 10, Type: TypeExpense}
	other := Transaction{Amount: 10, Type: TransactionType("TRANSFER")}

	if got := income.SignedAmount(); got != 10 {
		t.Errorf("income SignedAmount() = %v, want 10", got)
	}
	if got := expense.SignedAmount(); got != -10 {
		t.Errorf("expense SignedAmount() = %v, want -10", got)
	}
	if got := other.SignedAmount(); got != -10 {
		t.Errorf("other SignedAmount() = %v, want -10", got)
	}
}

func TestTransaction_GenerateHash(t *testing.T) {
	coffee := Transaction{
		ID:          "txn-1",
		Date:        time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC),
		Amount:      5,
		Type:        TypeExpense,
		Description: "Coffee",
		AccountID:   "acct-1",
	}

	secondCoffee := coffee
	secondCoffee.ID = "txn-2"
	if coffee.GenerateHash() == secondCoffee.GenerateHash() {
		t.Error("identical-looking purchases with different ids must not share a hash")
	}

	edited := coffee
	edited.Amount = 6
	edited.Description = "Latte"
	if coffee.GenerateHash() != edited.GenerateHash() {
		t.Error("hash should depend only on account and id")
	}

	otherAccount := coffee
	otherAccount.AccountID = "acct-2"
	if coffee.GenerateHash() == otherAccount.GenerateHash() {
		t.Error("hash should change with account")
	}
}

func TestRecurringInterval(t *testing.T) {
	for _, interval := range RecurringIntervals {
		if !interval.Valid() {
			t.Errorf("%s should be valid", interval)
		}
		if interval.Label() == "" {
			t.Errorf("%s should have a label", interval)
		}
	}

	if RecurringInterval("FORTNIGHTLY").Valid() {
		t.Error("unknown interval should be invalid")
	}
}

func TestTransactionType_Valid(t *testing.T) {
	if !TypeIncome.Valid() || !TypeExpense.Valid() {
		t.Error("known types should be valid")
	}
	if TransactionType("TRANSFER").Valid() {
		t.Error("unknown type should be invalid")
	}
}

func TestRecurringInterval_Advance(t *testing.T) {
	start := time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		interval RecurringInterval
		want     time.Time
	}{
		{IntervalDaily, time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)},
		{IntervalWeekly, time.Date(2024, 2, 7, 12, 0, 0, 0, time.UTC)},
		{IntervalMonthly, time.Date(2024, 3, 2, 12, 0, 0, 0, time.UTC)},
		{IntervalYearly, time.Date(2025, 1, 31, 12, 0, 0, 0, time.UTC)},
		{RecurringInterval("HOURLY"), start},
	}

	for _, tt := range tests {
		t.Run(string(tt.interval), func(t *testing.T) {
			if got := tt.interval.Advance(start); !got.Equal(tt.want) {
				t.Errorf("Advance() = %v, want %v", got, tt.want)
			}
		})
	}
}
