package models

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

// Account is the persistence model for a chart-of-accounts node.
type Account struct {
	AccountID          string          `db:"account_id"`
	Code               string          `db:"code"`
	Name               string          `db:"name"`
	AccountType        AccountType     `db:"account_type"`
	IsActive           bool            `db:"is_active"`
	OpeningBalance     decimal.Decimal `db:"opening_balance"`
	OpeningBalanceDate *time.Time      `db:"opening_balance_date"`
	AuditFields
}
