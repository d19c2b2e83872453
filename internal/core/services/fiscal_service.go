package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/corebooks/corebooks/internal/apperrors"
	"github.com/corebooks/corebooks/internal/core/domain"
	portsrepo "github.com/corebooks/corebooks/internal/core/ports/repositories"
	portssvc "github.com/corebooks/corebooks/internal/core/ports/services"
	"github.com/corebooks/corebooks/internal/dto"
	"github.com/corebooks/corebooks/internal/middleware"
)

// fiscalService manages the fiscal calendar: years, their generated periods,
// and the open/closed/archived gates the ledger engine consults.
type fiscalService struct {
	fiscalRepo portsrepo.FiscalRepositoryFacade
	now        func() time.Time
}

// NewFiscalService creates the fiscal calendar service.
func NewFiscalService(fiscalRepo portsrepo.FiscalRepositoryFacade) portssvc.FiscalSvcFacade {
	return &fiscalService{
		fiscalRepo: fiscalRepo,
		now:        time.Now,
	}
}

var _ portssvc.FiscalSvcFacade = (*fiscalService)(nil)

// PeriodContaining returns the unique period containing the date, regardless
// of status.
func (s *fiscalService) PeriodContaining(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	return s.fiscalRepo.FindPeriodContaining(ctx, date)
}

// CreateYear creates a fiscal year and auto-generates its periods so they
// tile the year's date range without gaps or overlap. PeriodType defaults
// to monthly.
func (s *fiscalService) CreateYear(ctx context.Context, req dto.CreateFiscalYearRequest, userID string) (*domain.FiscalYear, []domain.FiscalPeriod, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	verrs := &apperrors.ValidationErrors{}
	if !req.EndDate.After(req.StartDate) {
		verrs.Add("end date must be after start date")
	}
	periodType := req.PeriodType
	if periodType == "" {
		periodType = domain.PeriodMonth
	}
	switch periodType {
	case domain.PeriodMonth, domain.PeriodQuarter, domain.PeriodYear:
	default:
		verrs.Add("invalid period type: %s", periodType)
	}
	if verrs.HasErrors() {
		return nil, nil, verrs
	}

	now := s.now().UTC()
	year := domain.FiscalYear{
		FiscalYearID: uuid.NewString(),
		Name:         req.Name,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		IsClosed:     false,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	periods := generatePeriods(year, periodType, userID, now)

	if err := s.fiscalRepo.SaveYearWithPeriods(ctx, year, periods); err != nil {
		logger.Error("Failed to save fiscal year", slog.String("name", req.Name), slog.String("error", err.Error()))
		return nil, nil, err
	}

	logger.Info("Fiscal year created",
		slog.String("fiscal_year_id", year.FiscalYearID),
		slog.Int("periods", len(periods)))
	return &year, periods, nil
}

// generatePeriods tiles the year's range with periods of the requested span.
// The final period is clamped to the year's end date so a short year still
// tiles exactly.
func generatePeriods(year domain.FiscalYear, periodType domain.PeriodType, userID string, now time.Time) []domain.FiscalPeriod {
	monthsPer := 1
	switch periodType {
	case domain.PeriodQuarter:
		monthsPer = 3
	case domain.PeriodYear:
		monthsPer = 12
	}

	var periods []domain.FiscalPeriod
	start := year.StartDate
	for num := 1; !start.After(year.EndDate); num++ {
		end := start.AddDate(0, monthsPer, 0).AddDate(0, 0, -1)
		if end.After(year.EndDate) {
			end = year.EndDate
		}
		periods = append(periods, domain.FiscalPeriod{
			FiscalPeriodID: uuid.NewString(),
			FiscalYearID:   year.FiscalYearID,
			PeriodNumber:   num,
			PeriodType:     periodType,
			StartDate:      start,
			EndDate:        end,
			Status:         domain.PeriodOpen,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		})
		start = end.AddDate(0, 0, 1)
	}
	return periods
}

// SetPeriodStatus transitions a period's gate. Open and Closed flip freely
// in both directions; Archived is terminal.
func (s *fiscalService) SetPeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	period, err := s.fiscalRepo.FindPeriodByID(ctx, periodID)
	if err != nil {
		return err
	}

	switch status {
	case domain.PeriodOpen, domain.PeriodClosed, domain.PeriodArchived:
	default:
		verrs := &apperrors.ValidationErrors{}
		verrs.Add("invalid period status: %s", status)
		return verrs
	}

	if period.Status == domain.PeriodArchived {
		return fmt.Errorf("%w: period %d is archived and cannot change status", apperrors.ErrEntryState, period.PeriodNumber)
	}
	if status == domain.PeriodArchived && period.Status != domain.PeriodClosed {
		return fmt.Errorf("%w: period %d must be closed before archiving", apperrors.ErrEntryState, period.PeriodNumber)
	}

	if err := s.fiscalRepo.UpdatePeriodStatus(ctx, periodID, status, userID, s.now().UTC()); err != nil {
		logger.Error("Failed to update period status", slog.String("period_id", periodID), slog.String("error", err.Error()))
		return err
	}

	logger.Info("Period status updated",
		slog.String("period_id", periodID),
		slog.String("status", string(status)))
	return nil
}

// CloseYear closes a fiscal year once every one of its periods is closed or
// archived.
func (s *fiscalService) CloseYear(ctx context.Context, yearID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	year, err := s.fiscalRepo.FindYearByID(ctx, yearID)
	if err != nil {
		return err
	}
	if year.IsClosed {
		return fmt.Errorf("%w: fiscal year %s is already closed", apperrors.ErrEntryState, year.Name)
	}

	periods, err := s.fiscalRepo.ListPeriodsByYear(ctx, yearID)
	if err != nil {
		return err
	}
	for _, p := range periods {
		if p.Status == domain.PeriodOpen {
			return fmt.Errorf("%w: period %d is still open", apperrors.ErrEntryState, p.PeriodNumber)
		}
	}

	if err := s.fiscalRepo.CloseYear(ctx, yearID, userID, s.now().UTC()); err != nil {
		logger.Error("Failed to close fiscal year", slog.String("fiscal_year_id", yearID), slog.String("error", err.Error()))
		return err
	}

	logger.Info("Fiscal year closed", slog.String("fiscal_year_id", yearID))
	return nil
}

// ListYears retrieves all fiscal years.
func (s *fiscalService) ListYears(ctx context.Context) ([]domain.FiscalYear, error) {
	return s.fiscalRepo.ListYears(ctx)
}

// ListPeriods retrieves a year's periods ordered by period number.
func (s *fiscalService) ListPeriods(ctx context.Context, yearID string) ([]domain.FiscalPeriod, error) {
	if _, err := s.fiscalRepo.FindYearByID(ctx, yearID); err != nil {
		return nil, err
	}
	return s.fiscalRepo.ListPeriodsByYear(ctx, yearID)
}
