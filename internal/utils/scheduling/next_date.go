// Package scheduling implements the date-advance rules for recurring
// journal entry patterns.
package scheduling

import (
	"fmt"
	"time"

	"github.com/corebooks/corebooks/internal/core/domain"
)

// NextDate computes the next generation date after lastDate for the given
// frequency and interval. dayOfMonth and dayOfWeek are optional anchors;
// day-of-month anchors clamp to the last valid day of the target month.
// An unknown frequency is a configuration error, not a recoverable condition.
func NextDate(lastDate time.Time, frequency domain.Frequency, interval int, dayOfMonth *int, dayOfWeek *time.Weekday) (time.Time, error) {
	if interval < 1 {
		return time.Time{}, fmt.Errorf("interval must be at least 1, got %d", interval)
	}

	switch frequency {
	case domain.Daily:
		return lastDate.AddDate(0, 0, interval), nil

	case domain.Weekly:
		next := lastDate.AddDate(0, 0, 7*interval)
		if dayOfWeek != nil {
			// Advance 0-6 days to land exactly on the anchor weekday.
			offset := (int(*dayOfWeek) - int(next.Weekday()) + 7) % 7
			next = next.AddDate(0, 0, offset)
		}
		return next, nil

	case domain.Monthly:
		return addMonths(lastDate, interval, dayOfMonth), nil

	case domain.Quarterly:
		return addMonths(lastDate, 3*interval, dayOfMonth), nil

	case domain.Yearly:
		next := addMonths(lastDate, 12*interval, nil)
		if dayOfMonth != nil {
			// Re-anchor the day within the original month, clamped.
			next = withDayOfMonth(next, *dayOfMonth)
		}
		return next, nil
	}

	return time.Time{}, fmt.Errorf("unsupported recurrence frequency %q", frequency)
}

// addMonths adds n calendar months to t without Go's AddDate overflow
// normalization: Jan 31 + 1 month is Feb 29/28, never Mar 2. When dayOfMonth
// is set it overrides the source day before clamping.
func addMonths(t time.Time, n int, dayOfMonth *int) time.Time {
	year, month, day := t.Date()
	if dayOfMonth != nil {
		day = *dayOfMonth
	}

	totalMonths := int(month) - 1 + n
	targetYear := year + totalMonths/12
	targetMonth := time.Month(totalMonths%12 + 1)

	if last := daysInMonth(targetYear, targetMonth); day > last {
		day = last
	}
	return time.Date(targetYear, targetMonth, day, 0, 0, 0, 0, t.Location())
}

func withDayOfMonth(t time.Time, day int) time.Time {
	year, month, _ := t.Date()
	if last := daysInMonth(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

func daysInMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
