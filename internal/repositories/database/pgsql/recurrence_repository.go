package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/corebooks/corebooks/internal/apperrors"
	"github.com/corebooks/corebooks/internal/core/domain"
	portsrepo "github.com/corebooks/corebooks/internal/core/ports/repositories"
	"github.com/corebooks/corebooks/internal/models"
	"github.com/corebooks/corebooks/internal/utils/mapping"
)

type PgxRecurrenceRepository struct {
	BaseRepository
}

// newPgxRecurrenceRepository creates a new repository for recurring pattern
// and template data.
func newPgxRecurrenceRepository(pool *pgxpool.Pool) portsrepo.RecurrenceRepositoryFacade {
	return &PgxRecurrenceRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RecurrenceRepositoryFacade = (*PgxRecurrenceRepository)(nil)

const patternColumns = `pattern_id, name, description, frequency, interval_value, day_of_month, day_of_week, start_date, end_date, last_generated_date, next_generation_date, is_active, template_id, created_at, created_by, last_updated_at, last_updated_by`

const templateColumns = `template_id, name, journal_type, description, created_at, created_by, last_updated_at, last_updated_by`

const templateLineColumns = `template_line_id, template_id, line_number, account_id, description, debit_amount, credit_amount, currency_code, exchange_rate, tax_code, tax_amount, dimension1_id, dimension2_id`

func scanPattern(row pgx.Row) (*models.RecurringPattern, error) {
	var m models.RecurringPattern
	err := row.Scan(
		&m.PatternID,
		&m.Name,
		&m.Description,
		&m.Frequency,
		&m.IntervalValue,
		&m.DayOfMonth,
		&m.DayOfWeek,
		&m.StartDate,
		&m.EndDate,
		&m.LastGeneratedDate,
		&m.NextGenerationDate,
		&m.IsActive,
		&m.TemplateID,
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

func scanTemplate(row pgx.Row) (*models.EntryTemplate, error) {
	var m models.EntryTemplate
	err := row.Scan(
		&m.TemplateID,
		&m.Name,
		&m.JournalType,
		&m.Description,
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

func scanTemplateLine(row pgx.Row) (*models.EntryTemplateLine, error) {
	var m models.EntryTemplateLine
	err := row.Scan(
		&m.TemplateLineID,
		&m.TemplateID,
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
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// SavePattern persists a new pattern.
func (r *PgxRecurrenceRepository) SavePattern(ctx context.Context, pattern domain.RecurringPattern) error {
	m := mapping.ToModelPattern(pattern)

	query := `
		INSERT INTO recurring_patterns (` + patternColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.PatternID,
		m.Name,
		m.Description,
		m.Frequency,
		m.IntervalValue,
		m.DayOfMonth,
		m.DayOfWeek,
		m.StartDate,
		m.EndDate,
		m.LastGeneratedDate,
		m.NextGenerationDate,
		m.IsActive,
		m.TemplateID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: pattern %s already exists", apperrors.ErrDuplicate, m.PatternID)
		}
		return fmt.Errorf("failed to save pattern %s: %w", m.PatternID, err)
	}
	return nil
}

// UpdatePattern updates a pattern's schedule fields and active flag.
func (r *PgxRecurrenceRepository) UpdatePattern(ctx context.Context, pattern domain.RecurringPattern) error {
	return updatePatternExec(ctx, r.Pool, pattern)
}

// UpdatePatternInTx updates a pattern's schedule fields within the caller's
// transaction, so an entry generated from the pattern and the pattern's
// advance commit together.
func (r *PgxRecurrenceRepository) UpdatePatternInTx(ctx context.Context, tx pgx.Tx, pattern domain.RecurringPattern) error {
	return updatePatternExec(ctx, tx, pattern)
}

// patternExecer is satisfied by both *pgxpool.Pool and pgx.Tx.
type patternExecer interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

func updatePatternExec(ctx context.Context, db patternExecer, pattern domain.RecurringPattern) error {
	m := mapping.ToModelPattern(pattern)

	query := `
		UPDATE recurring_patterns
		SET last_generated_date = $2, next_generation_date = $3, is_active = $4, last_updated_at = $5, last_updated_by = $6
		WHERE pattern_id = $1;
	`
	tag, err := db.Exec(ctx, query,
		m.PatternID,
		m.LastGeneratedDate,
		m.NextGenerationDate,
		m.IsActive,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update pattern %s: %w", m.PatternID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: pattern %s", apperrors.ErrNotFound, m.PatternID)
	}
	return nil
}

// FindPatternByID retrieves a pattern by id, template not loaded.
func (r *PgxRecurrenceRepository) FindPatternByID(ctx context.Context, patternID string) (*domain.RecurringPattern, error) {
	query := `SELECT ` + patternColumns + ` FROM recurring_patterns WHERE pattern_id = $1;`

	m, err := scanPattern(r.Pool.QueryRow(ctx, query, patternID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: pattern %s", apperrors.ErrNotFound, patternID)
		}
		return nil, fmt.Errorf("failed to find pattern %s: %w", patternID, err)
	}
	pattern := mapping.ToDomainPattern(*m)
	return &pattern, nil
}

// FindDuePatterns returns active patterns with next_generation_date on or
// before asOf, each with its template and template lines loaded.
func (r *PgxRecurrenceRepository) FindDuePatterns(ctx context.Context, asOf time.Time) ([]domain.RecurringPattern, error) {
	query := `
		SELECT ` + patternColumns + `
		FROM recurring_patterns
		WHERE is_active = true
		  AND next_generation_date IS NOT NULL
		  AND next_generation_date <= $1
		  AND (end_date IS NULL OR end_date >= next_generation_date)
		ORDER BY next_generation_date;
	`
	rows, err := r.Pool.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query due patterns: %w", err)
	}
	defer rows.Close()

	var patterns []domain.RecurringPattern
	for rows.Next() {
		m, err := scanPattern(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pattern row: %w", err)
		}
		patterns = append(patterns, mapping.ToDomainPattern(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading pattern rows: %w", err)
	}

	for i := range patterns {
		template, err := r.FindTemplateByID(ctx, patterns[i].TemplateID)
		if err != nil {
			return nil, fmt.Errorf("failed to load template of pattern %s: %w", patterns[i].PatternID, err)
		}
		patterns[i].Template = template
	}
	return patterns, nil
}

// ListPatterns retrieves all patterns ordered by name.
func (r *PgxRecurrenceRepository) ListPatterns(ctx context.Context, activeOnly bool) ([]domain.RecurringPattern, error) {
	query := `SELECT ` + patternColumns + ` FROM recurring_patterns`
	if activeOnly {
		query += ` WHERE is_active = true`
	}
	query += ` ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list patterns: %w", err)
	}
	defer rows.Close()

	var patterns []domain.RecurringPattern
	for rows.Next() {
		m, err := scanPattern(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan pattern row: %w", err)
		}
		patterns = append(patterns, mapping.ToDomainPattern(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading pattern rows: %w", err)
	}
	return patterns, nil
}

// SaveTemplate persists a template and its lines in one transaction.
func (r *PgxRecurrenceRepository) SaveTemplate(ctx context.Context, template domain.EntryTemplate, lines []domain.EntryTemplateLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	mt := mapping.ToModelTemplate(template)
	templateQuery := `
		INSERT INTO entry_templates (` + templateColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err = tx.Exec(ctx, templateQuery,
		mt.TemplateID,
		mt.Name,
		mt.JournalType,
		mt.Description,
		mt.CreatedAt,
		mt.CreatedBy,
		mt.LastUpdatedAt,
		mt.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to insert template %s: %w", mt.TemplateID, err)
	}

	batch := &pgx.Batch{}
	lineQuery := `
		INSERT INTO entry_template_lines (` + templateLineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	for _, line := range lines {
		ml := mapping.ToModelTemplateLine(line)
		batch.Queue(lineQuery,
			ml.TemplateLineID,
			ml.TemplateID,
			ml.LineNumber,
			ml.AccountID,
			ml.Description,
			ml.DebitAmount,
			ml.CreditAmount,
			ml.CurrencyCode,
			ml.ExchangeRate,
			ml.TaxCode,
			ml.TaxAmount,
			ml.Dimension1ID,
			ml.Dimension2ID,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range lines {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert template line %d: %w", i+1, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close template line batch: %w", err)
	}
	return r.Commit(ctx, tx)
}

// FindTemplateByID retrieves a template with its lines.
func (r *PgxRecurrenceRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.EntryTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM entry_templates WHERE template_id = $1;`

	mt, err := scanTemplate(r.Pool.QueryRow(ctx, query, templateID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: template %s", apperrors.ErrNotFound, templateID)
		}
		return nil, fmt.Errorf("failed to find template %s: %w", templateID, err)
	}
	template := mapping.ToDomainTemplate(*mt)

	lineQuery := `SELECT ` + templateLineColumns + ` FROM entry_template_lines WHERE template_id = $1 ORDER BY line_number;`
	rows, err := r.Pool.Query(ctx, lineQuery, templateID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of template %s: %w", templateID, err)
	}
	defer rows.Close()

	for rows.Next() {
		ml, err := scanTemplateLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template line row: %w", err)
		}
		template.Lines = append(template.Lines, mapping.ToDomainTemplateLine(*ml))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading template line rows: %w", err)
	}
	return &template, nil
}

// ListTemplates retrieves all template headers ordered by name.
func (r *PgxRecurrenceRepository) ListTemplates(ctx context.Context) ([]domain.EntryTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM entry_templates ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list templates: %w", err)
	}
	defer rows.Close()

	var templates []domain.EntryTemplate
	for rows.Next() {
		m, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan template row: %w", err)
		}
		templates = append(templates, mapping.ToDomainTemplate(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading template rows: %w", err)
	}
	return templates, nil
}
