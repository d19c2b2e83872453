package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// SourceType identifies the kind of business document that originated a
// journal entry. Typed so provenance never degrades into free-form strings.
type SourceType string

const (
	SourceManual    SourceType = "MANUAL"
	SourceInvoice   SourceType = "INVOICE"
	SourcePayment   SourceType = "PAYMENT"
	SourceRecurring SourceType = "RECURRING_PATTERN"
	SourceReversal  SourceType = "REVERSAL"
)

// EntrySource is the provenance tag on a journal entry: what created it and
// the id of that originating document.
type EntrySource struct {
	Type SourceType `json:"type"`
	ID   string     `json:"id"`
}

// JournalEntry is a balanced set of debit/credit lines representing one
// accounting event. Entries start as drafts; posting makes the lines and
// header immutable, after which only reversal linkage may change.
type JournalEntry struct {
	EntryID          string       `json:"entryID"` // Primary key (UUID)
	EntryNo          string       `json:"entryNo"` // Issued by the sequence issuer, unique
	JournalType      string       `json:"journalType"`
	EntryDate        time.Time    `json:"entryDate"`
	FiscalPeriodID   string       `json:"fiscalPeriodID"` // Resolved from EntryDate at creation
	Description      string       `json:"description"`
	Reference        string       `json:"reference"`
	IsPosted         bool         `json:"isPosted"`
	IsReversed       bool         `json:"isReversed"`
	ReversingEntryID *string      `json:"reversingEntryID,omitempty"` // Entry that reverses this one
	Source           *EntrySource `json:"source,omitempty"`
	PatternID        *string      `json:"patternID,omitempty"` // Recurring pattern that generated this entry

	Lines []JournalEntryLine `json:"lines,omitempty"`
	AuditFields
}

// JournalEntryLine is a single debit or credit against one account within an
// entry. A line never carries both a positive debit and a positive credit.
type JournalEntryLine struct {
	LineID       string          `json:"lineID"` // Primary key (UUID)
	EntryID      string          `json:"entryID"`
	LineNumber   int             `json:"lineNumber"` // 1-based, order-significant
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
	AuditFields
}

// TotalDebits sums the debit side of the entry's lines.
func (e JournalEntry) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.DebitAmount)
	}
	return total
}

// TotalCredits sums the credit side of the entry's lines.
func (e JournalEntry) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.CreditAmount)
	}
	return total
}
