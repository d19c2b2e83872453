package repositories

import (
	"context"
	"time"

	"github.com/corebooks/corebooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListEntriesFilter narrows entry listing. Nil fields are ignored.
type ListEntriesFilter struct {
	IsPosted    *bool
	JournalType *string
	SourceType  *domain.SourceType
	FromDate    *time.Time
	ToDate      *time.Time
}

// EntryReader defines read operations for journal entries.
type EntryReader interface {
	// FindEntryByID retrieves an entry header by id.
	FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error)

	// FindLinesByEntryID retrieves an entry's lines ordered by line number.
	FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error)

	// ListEntries retrieves a filtered, token-paginated list of entry headers.
	// It returns the entries, a token for the next page, and an error.
	ListEntries(ctx context.Context, filter ListEntriesFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// EntryWriter defines write operations for journal entries. Each method is
// one atomic unit of work: it either fully commits or leaves no trace.
type EntryWriter interface {
	// SaveEntry persists a draft entry header and its lines in one transaction.
	SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error

	// SaveGeneratedEntry persists a pattern-generated draft entry with its
	// lines and the pattern's schedule advance in one transaction, so a
	// generated entry and the moved next_generation_date commit or fail
	// together. A failure leaves the pattern due for a clean retry.
	SaveGeneratedEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine, pattern domain.RecurringPattern) error

	// ReplaceEntry replaces a draft entry's header fields and entire line set
	// (delete-then-insert) in one transaction. The replacement refuses posted
	// entries with ErrEntryState.
	ReplaceEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error

	// MarkEntryPosted flips is_posted on a draft entry. A second call on an
	// already-posted entry fails with ErrEntryState; lines are untouched.
	MarkEntryPosted(ctx context.Context, entryID string, postedBy string, postedAt time.Time) error

	// SaveReversal persists the reversing entry with its lines and marks the
	// original entry reversed with the new entry's id, all in one transaction.
	SaveReversal(ctx context.Context, reversal domain.JournalEntry, lines []domain.JournalEntryLine, originalEntryID string) error

	// DeleteDraftEntry removes a draft entry and its lines. Posted entries
	// fail with ErrEntryState.
	DeleteDraftEntry(ctx context.Context, entryID string) error
}

// BalanceReader defines read-only aggregation over posted entry lines.
// Draft entries never contribute to any of these queries.
type BalanceReader interface {
	// SumPostedLines returns sum(debit - credit) over posted lines for the
	// account, restricted by the optional date bounds (inclusive).
	SumPostedLines(ctx context.Context, accountID string, from, to *time.Time) (decimal.Decimal, error)

	// TrialBalance returns per-account debit/credit totals over posted lines
	// within the date range, ordered by account code.
	TrialBalance(ctx context.Context, from, to time.Time) ([]domain.TrialBalanceRow, error)
}

// EntryRepositoryFacade combines all journal entry repository interfaces.
type EntryRepositoryFacade interface {
	EntryReader
	EntryWriter
	BalanceReader
}
