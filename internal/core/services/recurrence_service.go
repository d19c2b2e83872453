package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebooks/corebooks/internal/apperrors"
	"github.com/corebooks/corebooks/internal/core/domain"
	portsrepo "github.com/corebooks/corebooks/internal/core/ports/repositories"
	portssvc "github.com/corebooks/corebooks/internal/core/ports/services"
	"github.com/corebooks/corebooks/internal/dto"
	"github.com/corebooks/corebooks/internal/middleware"
	"github.com/corebooks/corebooks/internal/utils/scheduling"
)

// recurrenceService stamps journal entries out of entry templates on the
// schedule each recurring pattern defines.
type recurrenceService struct {
	recurrenceRepo portsrepo.RecurrenceRepositoryFacade
	ledgerSvc      portssvc.LedgerWriterSvc
	now            func() time.Time
}

// NewRecurrenceService creates the recurrence scheduler service.
func NewRecurrenceService(recurrenceRepo portsrepo.RecurrenceRepositoryFacade, ledgerSvc portssvc.LedgerWriterSvc) portssvc.RecurrenceSvcFacade {
	return &recurrenceService{
		recurrenceRepo: recurrenceRepo,
		ledgerSvc:      ledgerSvc,
		now:            time.Now,
	}
}

var _ portssvc.RecurrenceSvcFacade = (*recurrenceService)(nil)

// DueReady returns active patterns due for generation as of the date.
func (s *recurrenceService) DueReady(ctx context.Context, asOf time.Time) ([]domain.RecurringPattern, error) {
	return s.recurrenceRepo.FindDuePatterns(ctx, asOf)
}

// Generate creates one draft entry per due pattern and advances each
// pattern's schedule. Patterns fail independently: one bad pattern is
// reported in its result and the batch moves on.
func (s *recurrenceService) Generate(ctx context.Context, asOf time.Time, userID string) ([]dto.GenerationResultResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	due, err := s.recurrenceRepo.FindDuePatterns(ctx, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to find due patterns: %w", err)
	}

	results := make([]dto.GenerationResultResponse, 0, len(due))
	for i := range due {
		pattern := due[i]
		result := s.generateOne(ctx, &pattern, userID)
		if len(result.Errors) > 0 {
			logger.Warn("Pattern generation failed",
				slog.String("pattern_id", pattern.PatternID),
				slog.Any("errors", result.Errors))
		}
		results = append(results, result)
	}

	logger.Info("Recurrence generation run complete",
		slog.Int("due", len(due)),
		slog.Time("as_of", asOf))
	return results, nil
}

// generateOne stamps one entry from the pattern's template. The pattern's
// schedule advance is computed first and handed to the ledger engine so the
// entry and the advance persist in one unit of work: a failed run leaves the
// pattern due and nothing written, never a committed entry with a stale
// next_generation_date. All failure modes land in the result's Errors.
func (s *recurrenceService) generateOne(ctx context.Context, pattern *domain.RecurringPattern, userID string) dto.GenerationResultResponse {
	result := dto.GenerationResultResponse{
		PatternID:   pattern.PatternID,
		PatternName: pattern.Name,
	}

	if pattern.Template == nil {
		result.Errors = append(result.Errors, fmt.Sprintf("pattern %s has no template loaded", pattern.PatternID))
		return result
	}
	if pattern.NextGenerationDate == nil {
		result.Errors = append(result.Errors, fmt.Sprintf("pattern %s has no next generation date", pattern.PatternID))
		return result
	}
	generationDate := *pattern.NextGenerationDate

	advanced, advanceNote := s.advancedSchedule(*pattern, generationDate, userID)

	req := dto.CreateEntryRequest{
		EntryDate:   generationDate,
		JournalType: pattern.Template.JournalType,
		Description: fmt.Sprintf("%s (auto: %s)", pattern.Template.Description, pattern.Name),
		Source:      &dto.EntrySourceRequest{Type: domain.SourceRecurring, ID: pattern.PatternID},
		PatternID:   &pattern.PatternID,
		Lines:       templateLineSpecs(pattern.Template.Lines),
	}

	entry, err := s.ledgerSvc.CreateGeneratedEntry(ctx, req, advanced, userID)
	if err != nil {
		if msgs := apperrors.MessagesOf(err); len(msgs) > 0 {
			result.Errors = append(result.Errors, msgs...)
		} else {
			result.Errors = append(result.Errors, err.Error())
		}
		return result
	}
	result.EntryID = entry.EntryID
	result.EntryNo = entry.EntryNo
	if advanceNote != "" {
		result.Errors = append(result.Errors, advanceNote)
	}
	return result
}

// advancedSchedule returns a copy of the pattern with its schedule moved past
// the date being generated for, deactivated when the schedule cannot continue
// or runs past its end date. The note reports a deactivation cause worth
// surfacing in the generation result.
func (s *recurrenceService) advancedSchedule(pattern domain.RecurringPattern, generated time.Time, userID string) (domain.RecurringPattern, string) {
	pattern.LastGeneratedDate = &generated
	pattern.LastUpdatedAt = s.now().UTC()
	pattern.LastUpdatedBy = userID

	next, err := scheduling.NextDate(generated, pattern.Frequency, pattern.IntervalValue, pattern.DayOfMonth, pattern.DayOfWeek)
	if err != nil {
		// An unschedulable pattern must not be retried every run.
		pattern.IsActive = false
		pattern.NextGenerationDate = nil
		return pattern, fmt.Sprintf("pattern deactivated: %s", err)
	}

	if pattern.EndDate != nil && next.After(*pattern.EndDate) {
		pattern.IsActive = false
		pattern.NextGenerationDate = nil
	} else {
		pattern.NextGenerationDate = &next
	}
	return pattern, ""
}

// templateLineSpecs converts template lines to entry line specs in line
// number order.
func templateLineSpecs(lines []domain.EntryTemplateLine) []dto.EntryLineRequest {
	specs := make([]dto.EntryLineRequest, len(lines))
	for i, l := range lines {
		specs[i] = dto.EntryLineRequest{
			AccountID:    l.AccountID,
			Description:  l.Description,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			CurrencyCode: l.CurrencyCode,
			ExchangeRate: l.ExchangeRate,
			TaxCode:      l.TaxCode,
			TaxAmount:    l.TaxAmount,
			Dimension1ID: l.Dimension1ID,
			Dimension2ID: l.Dimension2ID,
		}
	}
	return specs
}

// CreateTemplate persists an entry template and its line shapes. Template
// lines follow the same structural and balance rules as entry lines so a
// template can never stamp out an unbalanced entry.
func (s *recurrenceService) CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest, userID string) (*domain.EntryTemplate, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	verrs := &apperrors.ValidationErrors{}
	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for i, line := range req.Lines {
		if line.DebitAmount.IsNegative() || line.CreditAmount.IsNegative() {
			verrs.Add("line %d: amounts cannot be negative", i+1)
		}
		if line.DebitAmount.IsPositive() && line.CreditAmount.IsPositive() {
			verrs.Add("line %d: debit and credit cannot both be set", i+1)
		}
		totalDebits = totalDebits.Add(line.DebitAmount)
		totalCredits = totalCredits.Add(line.CreditAmount)
	}
	if totalDebits.Sub(totalCredits).Abs().GreaterThan(balanceTolerance) {
		verrs.Add("template is not balanced: debits total %s, credits total %s",
			totalDebits.StringFixed(2), totalCredits.StringFixed(2))
	}
	if verrs.HasErrors() {
		return nil, verrs
	}

	now := s.now().UTC()
	template := domain.EntryTemplate{
		TemplateID:  uuid.NewString(),
		Name:        req.Name,
		JournalType: req.JournalType,
		Description: req.Description,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	lines := make([]domain.EntryTemplateLine, len(req.Lines))
	for i, l := range req.Lines {
		rate := l.ExchangeRate
		if rate.IsZero() {
			rate = decimal.NewFromInt(1)
		}
		lines[i] = domain.EntryTemplateLine{
			TemplateLineID: uuid.NewString(),
			TemplateID:     template.TemplateID,
			LineNumber:     i + 1,
			AccountID:      l.AccountID,
			Description:    l.Description,
			DebitAmount:    l.DebitAmount,
			CreditAmount:   l.CreditAmount,
			CurrencyCode:   l.CurrencyCode,
			ExchangeRate:   rate,
			TaxCode:        l.TaxCode,
			TaxAmount:      l.TaxAmount,
			Dimension1ID:   l.Dimension1ID,
			Dimension2ID:   l.Dimension2ID,
		}
	}

	if err := s.recurrenceRepo.SaveTemplate(ctx, template, lines); err != nil {
		logger.Error("Failed to save template", slog.String("name", req.Name), slog.String("error", err.Error()))
		return nil, err
	}
	template.Lines = lines

	logger.Info("Template created", slog.String("template_id", template.TemplateID))
	return &template, nil
}

// GetTemplate retrieves a template with its lines.
func (s *recurrenceService) GetTemplate(ctx context.Context, templateID string) (*domain.EntryTemplate, error) {
	return s.recurrenceRepo.FindTemplateByID(ctx, templateID)
}

// CreatePattern persists a recurrence schedule over an existing template.
// The first generation lands on the pattern's start date.
func (s *recurrenceService) CreatePattern(ctx context.Context, req dto.CreatePatternRequest, userID string) (*domain.RecurringPattern, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	verrs := &apperrors.ValidationErrors{}
	if !req.Frequency.IsValid() {
		verrs.Add("invalid frequency: %s", req.Frequency)
	}
	if req.IntervalValue < 1 {
		verrs.Add("interval must be at least 1")
	}
	if req.EndDate != nil && req.EndDate.Before(req.StartDate) {
		verrs.Add("end date cannot be before start date")
	}
	if verrs.HasErrors() {
		return nil, verrs
	}

	if _, err := s.recurrenceRepo.FindTemplateByID(ctx, req.TemplateID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: template %s", apperrors.ErrNotFound, req.TemplateID)
		}
		return nil, err
	}

	now := s.now().UTC()
	firstGeneration := req.StartDate
	pattern := domain.RecurringPattern{
		PatternID:          uuid.NewString(),
		Name:               req.Name,
		Description:        req.Description,
		Frequency:          req.Frequency,
		IntervalValue:      req.IntervalValue,
		DayOfMonth:         req.DayOfMonth,
		StartDate:          req.StartDate,
		EndDate:            req.EndDate,
		NextGenerationDate: &firstGeneration,
		IsActive:           true,
		TemplateID:         req.TemplateID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if req.DayOfWeek != nil {
		dow := time.Weekday(*req.DayOfWeek)
		pattern.DayOfWeek = &dow
	}

	if err := s.recurrenceRepo.SavePattern(ctx, pattern); err != nil {
		logger.Error("Failed to save pattern", slog.String("name", req.Name), slog.String("error", err.Error()))
		return nil, err
	}

	logger.Info("Pattern created", slog.String("pattern_id", pattern.PatternID))
	return &pattern, nil
}

// ListPatterns retrieves patterns, optionally active only.
func (s *recurrenceService) ListPatterns(ctx context.Context, activeOnly bool) ([]domain.RecurringPattern, error) {
	return s.recurrenceRepo.ListPatterns(ctx, activeOnly)
}

// DeactivatePattern switches a pattern off without deleting it.
func (s *recurrenceService) DeactivatePattern(ctx context.Context, patternID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	pattern, err := s.recurrenceRepo.FindPatternByID(ctx, patternID)
	if err != nil {
		return err
	}
	if !pattern.IsActive {
		return nil
	}

	pattern.IsActive = false
	pattern.NextGenerationDate = nil
	pattern.LastUpdatedAt = s.now().UTC()
	pattern.LastUpdatedBy = userID

	if err := s.recurrenceRepo.UpdatePattern(ctx, *pattern); err != nil {
		logger.Error("Failed to deactivate pattern", slog.String("pattern_id", patternID), slog.String("error", err.Error()))
		return err
	}

	logger.Info("Pattern deactivated", slog.String("pattern_id", patternID))
	return nil
}
