package services

import (
	"context"
	"time"

	"github.com/corebooks/corebooks/internal/core/domain"
	"github.com/corebooks/corebooks/internal/dto"
)

// RecurrenceSvcFacade derives journal entries from recurring patterns and
// manages the patterns and their templates.
type RecurrenceSvcFacade interface {
	// DueReady returns active patterns due for generation as of the date,
	// templates loaded.
	DueReady(ctx context.Context, asOf time.Time) ([]domain.RecurringPattern, error)

	// Generate creates one entry per due pattern and advances each pattern's
	// schedule. Patterns fail independently; the batch always completes.
	Generate(ctx context.Context, asOf time.Time, userID string) ([]dto.GenerationResultResponse, error)

	// CreateTemplate persists an entry template and its line shapes.
	CreateTemplate(ctx context.Context, req dto.CreateTemplateRequest, userID string) (*domain.EntryTemplate, error)

	// GetTemplate retrieves a template with its lines.
	GetTemplate(ctx context.Context, templateID string) (*domain.EntryTemplate, error)

	// CreatePattern persists a recurrence schedule over an existing template.
	CreatePattern(ctx context.Context, req dto.CreatePatternRequest, userID string) (*domain.RecurringPattern, error)

	// ListPatterns retrieves patterns, optionally active only.
	ListPatterns(ctx context.Context, activeOnly bool) ([]domain.RecurringPattern, error)

	// DeactivatePattern switches a pattern off without deleting it.
	DeactivatePattern(ctx context.Context, patternID string, userID string) error
}
