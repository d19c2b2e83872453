package repositories

import (
	"context"
	"time"

	"github.com/corebooks/corebooks/internal/core/domain"
)

// FiscalReader defines read operations for fiscal years and periods.
type FiscalReader interface {
	// FindPeriodContaining returns the unique period whose date range contains
	// the given date, regardless of status. ErrNotFound if no period claims it.
	FindPeriodContaining(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error)

	// FindPeriodByID retrieves a period by id.
	FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error)

	// FindYearByID retrieves a fiscal year by id.
	FindYearByID(ctx context.Context, yearID string) (*domain.FiscalYear, error)

	// ListYears retrieves all fiscal years ordered by start date.
	ListYears(ctx context.Context) ([]domain.FiscalYear, error)

	// ListPeriodsByYear retrieves a year's periods ordered by period number.
	ListPeriodsByYear(ctx context.Context, yearID string) ([]domain.FiscalPeriod, error)
}

// FiscalWriter defines write operations for fiscal years and periods.
type FiscalWriter interface {
	// SaveYearWithPeriods persists a fiscal year and its generated periods in
	// one transaction. Fails with ErrDuplicate on an overlapping year range.
	SaveYearWithPeriods(ctx context.Context, year domain.FiscalYear, periods []domain.FiscalPeriod) error

	// UpdatePeriodStatus transitions a period between Open/Closed/Archived.
	UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, updatedBy string, updatedAt time.Time) error

	// CloseYear marks a fiscal year closed.
	CloseYear(ctx context.Context, yearID string, updatedBy string, updatedAt time.Time) error
}

// FiscalRepositoryFacade combines all fiscal calendar repository interfaces.
type FiscalRepositoryFacade interface {
	FiscalReader
	FiscalWriter
}
