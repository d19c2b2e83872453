package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// EntryTemplate is the persistence model for a recurring entry template.
type EntryTemplate struct {
	TemplateID  string `db:"template_id"`
	Name        string `db:"name"`
	JournalType string `db:"journal_type"`
	Description string `db:"description"`
	AuditFields
}

// EntryTemplateLine is the persistence model for a template line shape.
type EntryTemplateLine struct {
	TemplateLineID string          `db:"template_line_id"`
	TemplateID     string          `db:"template_id"`
	LineNumber     int             `db:"line_number"`
	AccountID      string          `db:"account_id"`
	Description    string          `db:"description"`
	DebitAmount    decimal.Decimal `db:"debit_amount"`
	CreditAmount   decimal.Decimal `db:"credit_amount"`
	CurrencyCode   string          `db:"currency_code"`
	ExchangeRate   decimal.Decimal `db:"exchange_rate"`
	TaxCode        *string         `db:"tax_code"`
	TaxAmount      decimal.Decimal `db:"tax_amount"`
	Dimension1ID   *string         `db:"dimension1_id"`
	Dimension2ID   *string         `db:"dimension2_id"`
}

// RecurringPattern is the persistence model for a recurrence schedule.
type RecurringPattern struct {
	PatternID          string     `db:"pattern_id"`
	Name               string     `db:"name"`
	Description        string     `db:"description"`
	Frequency          string     `db:"frequency"`
	IntervalValue      int        `db:"interval_value"`
	DayOfMonth         *int       `db:"day_of_month"`
	DayOfWeek          *int       `db:"day_of_week"`
	StartDate          time.Time  `db:"start_date"`
	EndDate            *time.Time `db:"end_date"`
	LastGeneratedDate  *time.Time `db:"last_generated_date"`
	NextGenerationDate *time.Time `db:"next_generation_date"`
	IsActive           bool       `db:"is_active"`
	TemplateID         string     `db:"template_id"`
	AuditFields
}
