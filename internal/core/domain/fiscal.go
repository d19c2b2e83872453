package domain

import "time"

// PeriodStatus gates whether a fiscal period accepts postings.
type PeriodStatus string

const (
	PeriodOpen     PeriodStatus = "OPEN"
	PeriodClosed   PeriodStatus = "CLOSED"
	PeriodArchived PeriodStatus = "ARCHIVED"
)

// PeriodType classifies the span of a fiscal period.
type PeriodType string

const (
	PeriodMonth   PeriodType = "MONTH"
	PeriodQuarter PeriodType = "QUARTER"
	PeriodYear    PeriodType = "YEAR"
)

// FiscalYear is a named date range subdivided into non-overlapping fiscal
// periods that fully tile it.
type FiscalYear struct {
	FiscalYearID string    `json:"fiscalYearID"` // Primary key (UUID)
	Name         string    `json:"name"`         // Unique
	StartDate    time.Time `json:"startDate"`
	EndDate      time.Time `json:"endDate"`
	IsClosed     bool      `json:"isClosed"`
	AuditFields
}

// FiscalPeriod is one bounded slice of a fiscal year. Only OPEN periods
// accept postings.
type FiscalPeriod struct {
	FiscalPeriodID string       `json:"fiscalPeriodID"` // Primary key (UUID)
	FiscalYearID   string       `json:"fiscalYearID"`
	PeriodNumber   int          `json:"periodNumber"` // 1-based within the year
	PeriodType     PeriodType   `json:"periodType"`
	StartDate      time.Time    `json:"startDate"`
	EndDate        time.Time    `json:"endDate"`
	Status         PeriodStatus `json:"status"`
	AuditFields
}

// Contains reports whether d falls within the period's date range,
// inclusive of both bounds. Comparison is by calendar date.
func (p FiscalPeriod) Contains(d time.Time) bool {
	day := truncateToDay(d)
	return !day.Before(truncateToDay(p.StartDate)) && !day.After(truncateToDay(p.EndDate))
}

// IsOpen reports whether the period accepts postings.
func (p FiscalPeriod) IsOpen() bool {
	return p.Status == PeriodOpen
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
