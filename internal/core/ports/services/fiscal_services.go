package services

import (
	"context"
	"time"

	"github.com/corebooks/corebooks/internal/core/domain"
	"github.com/corebooks/corebooks/internal/dto"
)

// FiscalSvcFacade manages the fiscal calendar and answers period lookups.
type FiscalSvcFacade interface {
	// PeriodContaining returns the unique period containing the date,
	// regardless of status. ErrNotFound if no period claims it.
	PeriodContaining(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error)

	// CreateYear creates a fiscal year and auto-generates its periods so they
	// tile the year without overlap.
	CreateYear(ctx context.Context, req dto.CreateFiscalYearRequest, userID string) (*domain.FiscalYear, []domain.FiscalPeriod, error)

	// SetPeriodStatus transitions a period between Open/Closed/Archived.
	SetPeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, userID string) error

	// CloseYear closes a fiscal year; all its periods must already be closed
	// or archived.
	CloseYear(ctx context.Context, yearID string, userID string) error

	// ListYears retrieves all fiscal years.
	ListYears(ctx context.Context) ([]domain.FiscalYear, error)

	// ListPeriods retrieves a year's periods ordered by period number.
	ListPeriods(ctx context.Context, yearID string) ([]domain.FiscalPeriod, error)
}
