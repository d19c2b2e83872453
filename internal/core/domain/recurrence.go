package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is the repeat unit of a recurring pattern.
type Frequency string

const (
	Daily     Frequency = "DAILY"
	Weekly    Frequency = "WEEKLY"
	Monthly   Frequency = "MONTHLY"
	Quarterly Frequency = "QUARTERLY"
	Yearly    Frequency = "YEARLY"
)

// IsValid reports whether f is one of the known frequencies.
func (f Frequency) IsValid() bool {
	switch f {
	case Daily, Weekly, Monthly, Quarterly, Yearly:
		return true
	}
	return false
}

// EntryTemplate is the line shape a recurring pattern stamps out. Templates
// live outside the journal entry table so they can never be posted.
type EntryTemplate struct {
	TemplateID  string              `json:"templateID"` // Primary key (UUID)
	Name        string              `json:"name"`
	JournalType string              `json:"journalType"`
	Description string              `json:"description"`
	Lines       []EntryTemplateLine `json:"lines,omitempty"`
	AuditFields
}

// EntryTemplateLine mirrors JournalEntryLine minus entry linkage and audit
// state: pure line shape.
type EntryTemplateLine struct {
	TemplateLineID string          `json:"templateLineID"` // Primary key (UUID)
	TemplateID     string          `json:"templateID"`
	LineNumber     int             `json:"lineNumber"`
	AccountID      string          `json:"accountID"`
	Description    string          `json:"description"`
	DebitAmount    decimal.Decimal `json:"debitAmount"`
	CreditAmount   decimal.Decimal `json:"creditAmount"`
	CurrencyCode   string          `json:"currencyCode"`
	ExchangeRate   decimal.Decimal `json:"exchangeRate"`
	TaxCode        *string         `json:"taxCode,omitempty"`
	TaxAmount      decimal.Decimal `json:"taxAmount"`
	Dimension1ID   *string         `json:"dimension1ID,omitempty"`
	Dimension2ID   *string         `json:"dimension2ID,omitempty"`
}

// RecurringPattern schedules auto-generation of journal entries from an
// EntryTemplate. NextGenerationDate advances (or the pattern deactivates)
// every time an entry is generated from it.
type RecurringPattern struct {
	PatternID          string        `json:"patternID"` // Primary key (UUID)
	Name               string        `json:"name"`
	Description        string        `json:"description"`
	Frequency          Frequency     `json:"frequency"`
	IntervalValue      int           `json:"intervalValue"`         // Repeat every N units, >= 1
	DayOfMonth         *int          `json:"dayOfMonth,omitempty"`  // 1..31 anchor
	DayOfWeek          *time.Weekday `json:"dayOfWeek,omitempty"`   // Weekly anchor
	StartDate          time.Time     `json:"startDate"`
	EndDate            *time.Time    `json:"endDate,omitempty"`
	LastGeneratedDate  *time.Time    `json:"lastGeneratedDate,omitempty"`
	NextGenerationDate *time.Time    `json:"nextGenerationDate,omitempty"`
	IsActive           bool          `json:"isActive"`
	TemplateID         string        `json:"templateID"`

	// Template is populated when the pattern is loaded for generation.
	Template *EntryTemplate `json:"template,omitempty"`
	AuditFields
}
