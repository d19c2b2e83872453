package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// IsValid reports whether t is one of the known account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// Account is a chart-of-accounts node. Accounts are never deleted, only
// deactivated, so historical entries always resolve.
type Account struct {
	AccountID          string          `json:"accountID"` // Primary key (UUID)
	Code               string          `json:"code"`      // Unique user-facing code
	Name               string          `json:"name"`
	AccountType        AccountType     `json:"accountType"`
	IsActive           bool            `json:"isActive"`
	OpeningBalance     decimal.Decimal `json:"openingBalance"` // Signed; debit-positive
	OpeningBalanceDate *time.Time      `json:"openingBalanceDate,omitempty"`
	AuditFields
}
