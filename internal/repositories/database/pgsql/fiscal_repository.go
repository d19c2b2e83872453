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

type PgxFiscalRepository struct {
	BaseRepository
}

// newPgxFiscalRepository creates a new repository for fiscal calendar data.
func newPgxFiscalRepository(pool *pgxpool.Pool) portsrepo.FiscalRepositoryFacade {
	return &PgxFiscalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.FiscalRepositoryFacade = (*PgxFiscalRepository)(nil)

const yearColumns = `fiscal_year_id, name, start_date, end_date, is_closed, created_at, created_by, last_updated_at, last_updated_by`

const periodColumns = `fiscal_period_id, fiscal_year_id, period_number, period_type, start_date, end_date, status, created_at, created_by, last_updated_at, last_updated_by`

func scanFiscalYear(row pgx.Row) (*models.FiscalYear, error) {
	var m models.FiscalYear
	err := row.Scan(
		&m.FiscalYearID,
		&m.Name,
		&m.StartDate,
		&m.EndDate,
		&m.IsClosed,
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

func scanFiscalPeriod(row pgx.Row) (*models.FiscalPeriod, error) {
	var m models.FiscalPeriod
	err := row.Scan(
		&m.FiscalPeriodID,
		&m.FiscalYearID,
		&m.PeriodNumber,
		&m.PeriodType,
		&m.StartDate,
		&m.EndDate,
		&m.Status,
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

// SaveYearWithPeriods persists a fiscal year and its generated periods in one
// transaction.
func (r *PgxFiscalRepository) SaveYearWithPeriods(ctx context.Context, year domain.FiscalYear, periods []domain.FiscalPeriod) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	my := mapping.ToModelFiscalYear(year)
	yearQuery := `
		INSERT INTO fiscal_years (` + yearColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err = tx.Exec(ctx, yearQuery,
		my.FiscalYearID,
		my.Name,
		my.StartDate,
		my.EndDate,
		my.IsClosed,
		my.CreatedAt,
		my.CreatedBy,
		my.LastUpdatedAt,
		my.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return fmt.Errorf("%w: fiscal year %s already exists", apperrors.ErrDuplicate, my.Name)
		}
		return fmt.Errorf("failed to insert fiscal year %s: %w", my.FiscalYearID, err)
	}

	batch := &pgx.Batch{}
	periodQuery := `
		INSERT INTO fiscal_periods (` + periodColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	for _, p := range periods {
		mp := mapping.ToModelFiscalPeriod(p)
		batch.Queue(periodQuery,
			mp.FiscalPeriodID,
			mp.FiscalYearID,
			mp.PeriodNumber,
			mp.PeriodType,
			mp.StartDate,
			mp.EndDate,
			mp.Status,
			mp.CreatedAt,
			mp.CreatedBy,
			mp.LastUpdatedAt,
			mp.LastUpdatedBy,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for i := range periods {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return fmt.Errorf("failed to insert fiscal period %d: %w", i+1, err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("failed to close period batch: %w", err)
	}
	return r.Commit(ctx, tx)
}

// FindPeriodContaining returns the unique period whose date range contains
// the given date, regardless of status.
func (r *PgxFiscalRepository) FindPeriodContaining(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE start_date <= $1 AND end_date >= $1;`

	m, err := scanFiscalPeriod(r.Pool.QueryRow(ctx, query, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: no fiscal period contains %s", apperrors.ErrNotFound, date.Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to find period containing %s: %w", date.Format("2006-01-02"), err)
	}
	period := mapping.ToDomainFiscalPeriod(*m)
	return &period, nil
}

// FindPeriodByID retrieves a period by id.
func (r *PgxFiscalRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE fiscal_period_id = $1;`

	m, err := scanFiscalPeriod(r.Pool.QueryRow(ctx, query, periodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: fiscal period %s", apperrors.ErrNotFound, periodID)
		}
		return nil, fmt.Errorf("failed to find fiscal period %s: %w", periodID, err)
	}
	period := mapping.ToDomainFiscalPeriod(*m)
	return &period, nil
}

// FindYearByID retrieves a fiscal year by id.
func (r *PgxFiscalRepository) FindYearByID(ctx context.Context, yearID string) (*domain.FiscalYear, error) {
	query := `SELECT ` + yearColumns + ` FROM fiscal_years WHERE fiscal_year_id = $1;`

	m, err := scanFiscalYear(r.Pool.QueryRow(ctx, query, yearID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: fiscal year %s", apperrors.ErrNotFound, yearID)
		}
		return nil, fmt.Errorf("failed to find fiscal year %s: %w", yearID, err)
	}
	year := mapping.ToDomainFiscalYear(*m)
	return &year, nil
}

// ListYears retrieves all fiscal years ordered by start date.
func (r *PgxFiscalRepository) ListYears(ctx context.Context) ([]domain.FiscalYear, error) {
	query := `SELECT ` + yearColumns + ` FROM fiscal_years ORDER BY start_date;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list fiscal years: %w", err)
	}
	defer rows.Close()

	var years []domain.FiscalYear
	for rows.Next() {
		m, err := scanFiscalYear(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal year row: %w", err)
		}
		years = append(years, mapping.ToDomainFiscalYear(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading fiscal year rows: %w", err)
	}
	return years, nil
}

// ListPeriodsByYear retrieves a year's periods ordered by period number.
func (r *PgxFiscalRepository) ListPeriodsByYear(ctx context.Context, yearID string) ([]domain.FiscalPeriod, error) {
	query := `SELECT ` + periodColumns + ` FROM fiscal_periods WHERE fiscal_year_id = $1 ORDER BY period_number;`

	rows, err := r.Pool.Query(ctx, query, yearID)
	if err != nil {
		return nil, fmt.Errorf("failed to list periods of year %s: %w", yearID, err)
	}
	defer rows.Close()

	var periods []domain.FiscalPeriod
	for rows.Next() {
		m, err := scanFiscalPeriod(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fiscal period row: %w", err)
		}
		periods = append(periods, mapping.ToDomainFiscalPeriod(*m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed reading fiscal period rows: %w", err)
	}
	return periods, nil
}

// UpdatePeriodStatus transitions a period's status.
func (r *PgxFiscalRepository) UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE fiscal_periods
		SET status = $2, last_updated_at = $3, last_updated_by = $4
		WHERE fiscal_period_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query, periodID, string(status), updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to update status of period %s: %w", periodID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: fiscal period %s", apperrors.ErrNotFound, periodID)
	}
	return nil
}

// CloseYear marks a fiscal year closed.
func (r *PgxFiscalRepository) CloseYear(ctx context.Context, yearID string, updatedBy string, updatedAt time.Time) error {
	query := `
		UPDATE fiscal_years
		SET is_closed = true, last_updated_at = $2, last_updated_by = $3
		WHERE fiscal_year_id = $1 AND is_closed = false;
	`
	tag, err := r.Pool.Exec(ctx, query, yearID, updatedAt, updatedBy)
	if err != nil {
		return fmt.Errorf("failed to close fiscal year %s: %w", yearID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: fiscal year %s is already closed or does not exist", apperrors.ErrEntryState, yearID)
	}
	return nil
}
