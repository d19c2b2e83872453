package dto

import (
	"time"

	"github.com/corebooks/corebooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest is the input for creating a chart-of-accounts node.
type CreateAccountRequest struct {
	Code               string             `json:"code" binding:"required"`
	Name               string             `json:"name" binding:"required"`
	AccountType        domain.AccountType `json:"accountType" binding:"required"`
	OpeningBalance     decimal.Decimal    `json:"openingBalance"`
	OpeningBalanceDate *time.Time         `json:"openingBalanceDate,omitempty"`
}

// UpdateAccountRequest updates an account's mutable fields. Nil fields are
// left unchanged.
type UpdateAccountRequest struct {
	Name               *string          `json:"name,omitempty"`
	OpeningBalance     *decimal.Decimal `json:"openingBalance,omitempty"`
	OpeningBalanceDate *time.Time       `json:"openingBalanceDate,omitempty"`
}

// AccountResponse is the outbound shape of an account.
type AccountResponse struct {
	AccountID          string             `json:"accountID"`
	Code               string             `json:"code"`
	Name               string             `json:"name"`
	AccountType        domain.AccountType `json:"accountType"`
	IsActive           bool               `json:"isActive"`
	OpeningBalance     decimal.Decimal    `json:"openingBalance"`
	OpeningBalanceDate *time.Time         `json:"openingBalanceDate,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
}

// BalanceResponse is the outbound shape of a point-in-time balance query.
type BalanceResponse struct {
	AccountID string          `json:"accountID"`
	AsOfDate  time.Time       `json:"asOfDate"`
	Balance   decimal.Decimal `json:"balance"`
}

// PeriodActivityResponse is the outbound shape of a period-activity query.
type PeriodActivityResponse struct {
	AccountID string          `json:"accountID"`
	StartDate time.Time       `json:"startDate"`
	EndDate   time.Time       `json:"endDate"`
	Activity  decimal.Decimal `json:"activity"`
}

// TrialBalanceResponse lists per-account totals for a date range.
type TrialBalanceResponse struct {
	StartDate time.Time                `json:"startDate"`
	EndDate   time.Time                `json:"endDate"`
	Rows      []domain.TrialBalanceRow `json:"rows"`
}

// ToAccountResponse converts a domain account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:          a.AccountID,
		Code:               a.Code,
		Name:               a.Name,
		AccountType:        a.AccountType,
		IsActive:           a.IsActive,
		OpeningBalance:     a.OpeningBalance,
		OpeningBalanceDate: a.OpeningBalanceDate,
		CreatedAt:          a.CreatedAt,
	}
}
