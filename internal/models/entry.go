package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// JournalEntry is the persistence model for a journal entry header.
type JournalEntry struct {
	EntryID          string    `db:"entry_id"`
	EntryNo          string    `db:"entry_no"`
	JournalType      string    `db:"journal_type"`
	EntryDate        time.Time `db:"entry_date"`
	FiscalPeriodID   string    `db:"fiscal_period_id"`
	Description      string    `db:"description"`
	Reference        string    `db:"reference"`
	IsPosted         bool      `db:"is_posted"`
	IsReversed       bool      `db:"is_reversed"`
	ReversingEntryID *string   `db:"reversing_entry_id"`
	SourceType       *string   `db:"source_type"`
	SourceID         *string   `db:"source_id"`
	PatternID        *string   `db:"pattern_id"`
	AuditFields
}

// JournalEntryLine is the persistence model for a single entry line.
type JournalEntryLine struct {
	LineID       string          `db:"line_id"`
	EntryID      string          `db:"entry_id"`
	LineNumber   int             `db:"line_number"`
	AccountID    string          `db:"account_id"`
	Description  string          `db:"description"`
	DebitAmount  decimal.Decimal `db:"debit_amount"`
	CreditAmount decimal.Decimal `db:"credit_amount"`
	CurrencyCode string          `db:"currency_code"`
	ExchangeRate decimal.Decimal `db:"exchange_rate"`
	TaxCode      *string         `db:"tax_code"`
	TaxAmount    decimal.Decimal `db:"tax_amount"`
	Dimension1ID *string         `db:"dimension1_id"`
	Dimension2ID *string         `db:"dimension2_id"`
	AuditFields
}
