// Package model defines the core domain models used throughout the application.
package model

import "time"

// AccountType classifies an account.
type AccountType string

// Account types.
const (
	AccountCurrent    AccountType = "current"
	AccountSavings    AccountType = "savings"
	AccountCredit     AccountType = "credit"
	AccountInvestment AccountType = "investment"
)

// Valid reports whether the account type is known.
func (t AccountType) Valid() bool {
	switch t {
	case AccountCurrent, AccountSavings, AccountCredit, AccountInvestment:
		return true
	default:
		return false
	}
}

// Account is a container of transactions, such as a checking account.
type Account struct {
	CreatedAt        time.Time
	ID               string
	Name             string
	Type             AccountType
	Balance          float64
	TransactionCount int
	IsDefault        bool
}

// Budget is a monthly spending limit on an account.
type Budget struct {
	UpdatedAt time.Time
	ID        string
	AccountID string
	Amount    float64
}
