package services

import (
	"context"
	"time"

	"github.com/corebooks/corebooks/internal/core/domain"
	"github.com/corebooks/corebooks/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerReaderSvc defines the read side of the ledger engine.
type LedgerReaderSvc interface {
	// GetEntry retrieves an entry with its lines.
	GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// ListEntries retrieves a filtered, paginated list of entries.
	ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error)

	// GetAccountBalance returns opening balance plus posted activity on or
	// before asOf. Draft entries never contribute.
	GetAccountBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error)

	// GetAccountBalanceForPeriod returns posted activity within the range,
	// with no opening-balance contribution.
	GetAccountBalanceForPeriod(ctx context.Context, accountID string, start, end time.Time) (decimal.Decimal, error)

	// GetTrialBalance aggregates posted debit/credit totals per account.
	GetTrialBalance(ctx context.Context, start, end time.Time) ([]domain.TrialBalanceRow, error)
}

// LedgerWriterSvc defines the write side of the ledger engine: the journal
// entry lifecycle Draft -> Posted -> Posted(reversed).
type LedgerWriterSvc interface {
	// CreateEntry validates and persists a new draft entry with an issued
	// entry number. Validation failures carry every problem found.
	CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error)

	// CreateGeneratedEntry runs the full CreateEntry validation path, then
	// persists the entry together with the recurring pattern's schedule
	// advance in one unit of work: either both commit or neither does.
	CreateGeneratedEntry(ctx context.Context, req dto.CreateEntryRequest, pattern domain.RecurringPattern, creatorUserID string) (*domain.JournalEntry, error)

	// UpdateEntry replaces a draft entry's header and full line set. Posted
	// entries fail with ErrEntryState.
	UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error)

	// PostEntry finalizes a draft entry, re-checking its period is still open.
	PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error)

	// ReverseEntry creates the draft entry that negates a posted entry and
	// links the two atomically.
	ReverseEntry(ctx context.Context, entryID string, req dto.ReverseEntryRequest, userID string) (*domain.JournalEntry, error)

	// DeleteEntry removes a draft entry. Posted entries fail with ErrEntryState.
	DeleteEntry(ctx context.Context, entryID string, userID string) error
}

// LedgerSvcFacade combines the ledger engine's read and write surfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
