package dto

import (
	"time"

	"github.com/corebooks/corebooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// EntryLineRequest is one line spec within a create/update entry request.
// Amounts are non-negative; a line is either a debit line or a credit line.
type EntryLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	Description  string          `json:"description"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	TaxCode      *string         `json:"taxCode,omitempty"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	Dimension1ID *string         `json:"dimension1ID,omitempty"`
	Dimension2ID *string         `json:"dimension2ID,omitempty"`
}

// EntrySourceRequest tags the originating business document of an entry.
type EntrySourceRequest struct {
	Type domain.SourceType `json:"type" binding:"required"`
	ID   string            `json:"id" binding:"required"`
}

// CreateEntryRequest is the input for creating a draft journal entry.
type CreateEntryRequest struct {
	EntryDate   time.Time           `json:"entryDate" binding:"required"`
	JournalType string              `json:"journalType"`
	Description string              `json:"description"`
	Reference   string              `json:"reference"`
	Source      *EntrySourceRequest `json:"source,omitempty"`
	PatternID   *string             `json:"patternID,omitempty"`
	Lines       []EntryLineRequest  `json:"lines" binding:"required,min=1,dive"`
}

// UpdateEntryRequest replaces a draft entry's header fields and entire line set.
type UpdateEntryRequest struct {
	EntryDate   time.Time          `json:"entryDate" binding:"required"`
	JournalType string             `json:"journalType"`
	Description string             `json:"description"`
	Reference   string             `json:"reference"`
	Lines       []EntryLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// ReverseEntryRequest is the input for reversing a posted entry.
type ReverseEntryRequest struct {
	ReversalDate time.Time `json:"reversalDate" binding:"required"`
	Description  string    `json:"description"`
}

// EntryLineResponse is the outbound shape of one entry line.
type EntryLineResponse struct {
	LineID       string          `json:"lineID"`
	LineNumber   int             `json:"lineNumber"`
	AccountID    string          `json:"accountID"`
	Description  string          `json:"description"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	CurrencyCode string          `json:"currencyCode"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	TaxCode      *string         `json:"taxCode,omitempty"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	Dimension1ID *string         `json:"dimension1ID,omitempty"`
	Dimension2ID *string         `json:"dimension2ID,omitempty"`
}

// EntryResponse is the outbound shape of a journal entry.
type EntryResponse struct {
	EntryID          string              `json:"entryID"`
	EntryNo          string              `json:"entryNo"`
	JournalType      string              `json:"journalType"`
	EntryDate        time.Time           `json:"entryDate"`
	FiscalPeriodID   string              `json:"fiscalPeriodID"`
	Description      string              `json:"description"`
	Reference        string              `json:"reference"`
	IsPosted         bool                `json:"isPosted"`
	IsReversed       bool                `json:"isReversed"`
	ReversingEntryID *string             `json:"reversingEntryID,omitempty"`
	Source           *domain.EntrySource `json:"source,omitempty"`
	Lines            []EntryLineResponse `json:"lines,omitempty"`
	CreatedAt        time.Time           `json:"createdAt"`
	CreatedBy        string              `json:"createdBy"`
}

// ListEntriesParams holds query parameters for listing entries.
type ListEntriesParams struct {
	Limit       int
	NextToken   *string
	IsPosted    *bool
	JournalType *string
	SourceType  *domain.SourceType
	FromDate    *time.Time
	ToDate      *time.Time
}

// ListEntriesResponse carries one page of entries plus the next-page token.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToEntryLineResponse converts a domain line to its response DTO.
func ToEntryLineResponse(l *domain.JournalEntryLine) EntryLineResponse {
	return EntryLineResponse{
		LineID:       l.LineID,
		LineNumber:   l.LineNumber,
		AccountID:    l.AccountID,
		Description:  l.Description,
		DebitAmount:  l.DebitAmount,
		CreditAmount: l.CreditAmount,
		CurrencyCode: l.CurrencyCode,
		ExchangeRate: l.ExchangeRate,
		TaxCode:      l.TaxCode,
		TaxAmount:    l.TaxAmount,
		Dimension1ID: l.Dimension1ID,
		Dimension2ID: l.Dimension2ID,
	}
}

// ToEntryResponse converts a domain entry (with any loaded lines) to its
// response DTO.
func ToEntryResponse(e *domain.JournalEntry) EntryResponse {
	resp := EntryResponse{
		EntryID:          e.EntryID,
		EntryNo:          e.EntryNo,
		JournalType:      e.JournalType,
		EntryDate:        e.EntryDate,
		FiscalPeriodID:   e.FiscalPeriodID,
		Description:      e.Description,
		Reference:        e.Reference,
		IsPosted:         e.IsPosted,
		IsReversed:       e.IsReversed,
		ReversingEntryID: e.ReversingEntryID,
		Source:           e.Source,
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
	}
	if len(e.Lines) > 0 {
		resp.Lines = make([]EntryLineResponse, len(e.Lines))
		for i := range e.Lines {
			resp.Lines[i] = ToEntryLineResponse(&e.Lines[i])
		}
	}
	return resp
}
