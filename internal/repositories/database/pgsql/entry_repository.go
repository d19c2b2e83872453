package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/corebooks/corebooks/internal/apperrors"
	"github.com/corebooks/corebooks/internal/core/domain"
	portsrepo "github.com/corebooks/corebooks/internal/core/ports/repositories"
	"github.com/corebooks/corebooks/internal/models"
	"github.com/corebooks/corebooks/internal/utils/mapping"
	"github.com/corebooks/corebooks/internal/utils/pagination"
)

type PgxEntryRepository struct {
	BaseRepository
	patternRepo portsrepo.PatternWriter
}

// newPgxEntryRepository creates a new repository for journal entry data. The
// pattern writer participates in generated-entry transactions.
func newPgxEntryRepository(pool *pgxpool.Pool, patternRepo portsrepo.PatternWriter) portsrepo.EntryRepositoryFacade {
	return &PgxEntryRepository{
		BaseRepository: BaseRepository{Pool: pool},
		patternRepo:    patternRepo,
	}
}

var _ portsrepo.EntryRepositoryFacade = (*PgxEntryRepository)(nil)

const entryColumns = `entry_id, entry_no, journal_type, entry_date, fiscal_period_id, description, reference, is_posted, is_reversed, reversing_entry_id, source_type, source_id, pattern_id, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, line_number, account_id, description, debit_amount, credit_amount, currency_code, exchange_rate, tax_code, tax_amount, dimension1_id, dimension2_id, created_at, created_by, last_updated_at, last_updated_by`

func scanEntry(row pgx.Row) (*models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.EntryNo,
		&m.JournalType,
		&m.EntryDate,
		&m.FiscalPeriodID,
		&m.Description,
		&m.Reference,
		&m.IsPosted,
		&m.IsReversed,
		&m.ReversingEntryID,
		&m.SourceType,
		&m.SourceID,
		&m.PatternID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func scanEntryLine(row pgx.Row) (*models.JournalEntryLine, error) {
	var m models.JournalEntryLine
	err := row.Scan(
		&m.LineID,
		&m.EntryID,
		&m.LineNumber,
		&m.AccountID,
		&m.Description,
		&m.DebitAmount,
		&m.CreditAmount,
		&m.CurrencyCode,
		&m.ExchangeRate,
		&m.TaxCode,
		&m.TaxAmount,
		&m.Dimension1ID,
		&m.Dimension2ID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// insertEntry inserts the entry header within the given transaction.
func insertEntry(ctx context.Context, tx pgx.Tx, m models.JournalEntry) error {
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := tx.Exec(ctx, query,
		m.EntryID,
		m.EntryNo,
		m.JournalType,
		m.EntryDate,
		m.FiscalPeriodID,
		m.Description,
		m.Reference,
		m.IsPosted,
		m.IsReversed,
		m.ReversingEntryID,
		m.SourceType,
		m.SourceID,
		m.PatternID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: entry number %s already exists", apperrors.ErrDuplicate, m.EntryNo)
		}
		return fmt.Errorf("failed to insert entry %s: %w", m.EntryID, err)
	}
	return nil
}

// insertLines batch-inserts the entry lines within the given transaction.
func insertLines(ctx context.Context, tx pgx.Tx, lines []domain.JournalEntryLine) error {
	batch := &pgx.Batch{}
	query := `
		INSERT INTO journal_entry_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	for _, line := range lines {
		m := mapping.ToModelEntryLine(line)
		batch.Queue(query,
			m.LineID,
			m.EntryID,
			m.LineNumber,
			m.AccountID,
			m.Description,
			m.DebitAmount,
			m.CreditAmount,
			m.CurrencyCode,
			m.ExchangeRate,
			m.TaxCode,
			m.TaxAmount,
			m.Dimension1ID,
			m.Dimension2ID,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for i := range lines {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert entry line %d: %w", i+1, err)
		}
	}
	return nil
}

// SaveEntry persists a draft entry header and its lines in one transaction.
func (r *PgxEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertEntry(ctx, tx, mapping.ToModelEntry(entry)); err != nil {
		return err
	}
	if err := insertLines(ctx, tx, lines); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// SaveGeneratedEntry persists a pattern-generated draft entry with its lines
// and the pattern's schedule advance in one transaction. If any part fails,
// nothing commits and the pattern stays due.
func (r *PgxEntryRepository) SaveGeneratedEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine, pattern domain.RecurringPattern) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertEntry(ctx, tx, mapping.ToModelEntry(entry)); err != nil {
		return err
	}
	if err := insertLines(ctx, tx, lines); err != nil {
		return err
	}
	if err := r.patternRepo.UpdatePatternInTx(ctx, tx, pattern); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// ReplaceEntry replaces a draft entry's header fields and entire line set in
// one transaction. The guard on is_posted keeps a concurrently posted entry
// untouched.
func (r *PgxEntryRepository) ReplaceEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	m := mapping.ToModelEntry(entry)
	query := `
		UPDATE journal_entries
		SET journal_type = $2, entry_date = $3, fiscal_period_id = $4, description = $5, reference = $6, last_updated_at = $7, last_updated_by = $8
		WHERE entry_id = $1 AND is_posted = false;
	`
	tag, err := tx.Exec(ctx, query,
		m.EntryID,
		m.JournalType,
		m.EntryDate,
		m.FiscalPeriodID,
		m.Description,
		m.Reference,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update entry %s: %w", m.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is posted or does not exist", apperrors.ErrEntryState, m.EntryID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, m.EntryID); err != nil {
		return fmt.Errorf("failed to delete lines of entry %s: %w", m.EntryID, err)
	}
	if err := insertLines(ctx, tx, lines); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}

// MarkEntryPosted flips is_posted on a draft entry. The is_posted guard makes
// a second post attempt a state error rather than a silent double apply.
func (r *PgxEntryRepository) MarkEntryPosted(ctx context.Context, entryID string, postedBy string, postedAt time.Time) error {
	query := `
		UPDATE journal_entries
		SET is_posted = true, last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1 AND is_posted = false;
	`
	tag, err := r.Pool.Exec(ctx, query, entryID, postedAt, postedBy)
	if err != nil {
		return fmt.Errorf("failed to mark entry %s posted: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is already posted or does not exist", apperrors.ErrEntryState, entryID)
	}
	return nil
}

// SaveReversal persists the reversing entry with its lines and marks the
// original entry reversed, all in one transaction.
func (r *PgxEntryRepository) SaveReversal(ctx context.Context, reversal domain.JournalEntry, lines []domain.JournalEntryLine, originalEntryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if err := insertEntry(ctx, tx, mapping.ToModelEntry(reversal)); err != nil {
		return err
	}
	if err := insertLines(ctx, tx, lines); err != nil {
		return err
	}

	// The guard loses the race if another reversal landed first.
	query := `
		UPDATE journal_entries
		SET is_reversed = true, reversing_entry_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND is_posted = true AND is_reversed = false;
	`
	tag, err := tx.Exec(ctx, query, originalEntryID, reversal.EntryID, reversal.LastUpdatedAt, reversal.LastUpdatedBy)
	if err != nil {
		return fmt.Errorf("failed to mark entry %s reversed: %w", originalEntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is not posted or already reversed", apperrors.ErrEntryState, originalEntryID)
	}
	return r.Commit(ctx, tx)
}

// DeleteDraftEntry removes a draft entry and its lines. The is_posted guard
// protects posted entries.
func (r *PgxEntryRepository) DeleteDraftEntry(ctx context.Context, entryID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, entryID); err != nil {
		return fmt.Errorf("failed to delete lines of entry %s: %w", entryID, err)
	}

	tag, err := tx.Exec(ctx, `DELETE FROM journal_entries WHERE entry_id = $1 AND is_posted = false;`, entryID)
	if err != nil {
		return fmt.Errorf("failed to delete entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: entry %s is posted or does not exist", apperrors.ErrEntryState, entryID)
	}
	return r.Commit(ctx, tx)
}

// FindEntryByID retrieves an entry header by id.
func (r *PgxEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: entry %s", apperrors.ErrNotFound, entryID)
		}
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	entry := mapping.ToDomainEntry(*m)
	return &entry, nil
}

// FindLinesByEntryID retrieves an entry's lines ordered by line number.
func (r *PgxEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_entry_lines WHERE entry_id = $1 ORDER BY line_number;`

	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of entry %s: %w", entryID, err)
	}
	defer rows.Close()

	var lines []domain.JournalEntryLine
	for rows.Next() {
		m, err := scanEntryLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry line row: %w", err)
		}
		lines = append(lines, mapping.ToDomainEntryLine(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading entry line rows: %w", err)
	}
	return lines, nil
}

// ListEntries retrieves a filtered, token-paginated list of entry headers.
// Ordering is newest first by (entry_date, created_at), which the pagination
// token mirrors.
func (r *PgxEntryRepository) ListEntries(ctx context.Context, filter portsrepo.ListEntriesFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE 1=1`
	args := []any{}
	argc := 0
	next := func(v any) string {
		argc++
		args = append(args, v)
		return fmt.Sprintf("$%d", argc)
	}

	if filter.IsPosted != nil {
		query += ` AND is_posted = ` + next(*filter.IsPosted)
	}
	if filter.JournalType != nil {
		query += ` AND journal_type = ` + next(*filter.JournalType)
	}
	if filter.SourceType != nil {
		query += ` AND source_type = ` + next(string(*filter.SourceType))
	}
	if filter.FromDate != nil {
		query += ` AND entry_date >= ` + next(*filter.FromDate)
	}
	if filter.ToDate != nil {
		query += ` AND entry_date <= ` + next(*filter.ToDate)
	}

	if nextToken != nil && *nextToken != "" {
		lastEntryDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, decodeErr.Error())
		}
		query += ` AND (entry_date, created_at) < (` + next(lastEntryDate) + `, ` + next(lastCreatedAt) + `)`
	}

	// Fetch one extra row to know whether another page exists.
	query += ` ORDER BY entry_date DESC, created_at DESC LIMIT ` + next(limit+1) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.JournalEntry
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainEntry(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed reading entry rows: %w", err)
	}

	var newToken *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		newToken = &token
	}
	return entries, newToken, nil
}

// SumPostedLines returns sum(debit - credit) over posted lines for the
// account within the optional inclusive date bounds.
func (r *PgxEntryRepository) SumPostedLines(ctx context.Context, accountID string, from, to *time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(l.debit_amount - l.credit_amount), 0)
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		WHERE e.is_posted = true AND l.account_id = $1
	`
	args := []any{accountID}
	if from != nil {
		args = append(args, *from)
		query += fmt.Sprintf(" AND e.entry_date >= $%d", len(args))
	}
	if to != nil {
		args = append(args, *to)
		query += fmt.Sprintf(" AND e.entry_date <= $%d", len(args))
	}

	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, args...).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum posted lines for account %s: %w", accountID, err)
	}
	return sum, nil
}

// TrialBalance returns per-account debit/credit totals over posted lines
// within the date range, ordered by account code. Accounts with no posted
// activity in the range are omitted.
func (r *PgxEntryRepository) TrialBalance(ctx context.Context, from, to time.Time) ([]domain.TrialBalanceRow, error) {
	query := `
		SELECT a.account_id, a.code, a.name, a.account_type,
		       COALESCE(SUM(l.debit_amount), 0) AS total_debit,
		       COALESCE(SUM(l.credit_amount), 0) AS total_credit
		FROM journal_entry_lines l
		JOIN journal_entries e ON e.entry_id = l.entry_id
		JOIN accounts a ON a.account_id = l.account_id
		WHERE e.is_posted = true AND e.entry_date >= $1 AND e.entry_date <= $2
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code;
	`
	rows, err := r.Pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance: %w", err)
	}
	defer rows.Close()

	var result []domain.TrialBalanceRow
	for rows.Next() {
		var row domain.TrialBalanceRow
		var accountType string
		if err := rows.Scan(&row.AccountID, &row.AccountCode, &row.AccountName, &accountType, &row.TotalDebit, &row.TotalCredit); err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		row.AccountType = domain.AccountType(accountType)
		row.Balance = row.TotalDebit.Sub(row.TotalCredit)
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading trial balance rows: %w", err)
	}
	return result, nil
}
