package models

import "time"

// FiscalYear is the persistence model for a fiscal year.
type FiscalYear struct {
	FiscalYearID string    `db:"fiscal_year_id"`
	Name         string    `db:"name"`
	StartDate    time.Time `db:"start_date"`
	EndDate      time.Time `db:"end_date"`
	IsClosed     bool      `db:"is_closed"`
	AuditFields
}

// FiscalPeriod is the persistence model for a fiscal period.
type FiscalPeriod struct {
	FiscalPeriodID string    `db:"fiscal_period_id"`
	FiscalYearID   string    `db:"fiscal_year_id"`
	PeriodNumber   int       `db:"period_number"`
	PeriodType     string    `db:"period_type"`
	StartDate      time.Time `db:"start_date"`
	EndDate        time.Time `db:"end_date"`
	Status         string    `db:"status"`
	AuditFields
}
