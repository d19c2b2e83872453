package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/corebooks/corebooks/internal/core/domain"
)

// PatternReader defines read operations for recurring patterns.
type PatternReader interface {
	// FindPatternByID retrieves a pattern by id, template not loaded.
	FindPatternByID(ctx context.Context, patternID string) (*domain.RecurringPattern, error)

	// FindDuePatterns returns active patterns with next_generation_date on or
	// before asOf whose end_date (if set) has not passed, each with its
	// template and template lines loaded.
	FindDuePatterns(ctx context.Context, asOf time.Time) ([]domain.RecurringPattern, error)

	// ListPatterns retrieves all patterns, optionally active only.
	ListPatterns(ctx context.Context, activeOnly bool) ([]domain.RecurringPattern, error)
}

// PatternWriter defines write operations for recurring patterns.
type PatternWriter interface {
	// SavePattern persists a new pattern.
	SavePattern(ctx context.Context, pattern domain.RecurringPattern) error

	// UpdatePattern updates a pattern's schedule fields and active flag.
	UpdatePattern(ctx context.Context, pattern domain.RecurringPattern) error

	// UpdatePatternInTx updates a pattern's schedule fields and active flag
	// within the caller's transaction.
	UpdatePatternInTx(ctx context.Context, tx pgx.Tx, pattern domain.RecurringPattern) error
}

// TemplateReader defines read operations for entry templates.
type TemplateReader interface {
	// FindTemplateByID retrieves a template with its lines.
	FindTemplateByID(ctx context.Context, templateID string) (*domain.EntryTemplate, error)

	// ListTemplates retrieves all template headers.
	ListTemplates(ctx context.Context) ([]domain.EntryTemplate, error)
}

// TemplateWriter defines write operations for entry templates.
type TemplateWriter interface {
	// SaveTemplate persists a template and its lines in one transaction.
	SaveTemplate(ctx context.Context, template domain.EntryTemplate, lines []domain.EntryTemplateLine) error
}

// RecurrenceRepositoryFacade combines pattern and template repository interfaces.
type RecurrenceRepositoryFacade interface {
	PatternReader
	PatternWriter
	TemplateReader
	TemplateWriter
}
