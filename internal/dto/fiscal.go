package dto

import (
	"time"

	"github.com/corebooks/corebooks/internal/core/domain"
)

// CreateFiscalYearRequest creates a fiscal year and auto-generates its
// periods at the requested granularity.
type CreateFiscalYearRequest struct {
	Name       string            `json:"name" binding:"required"`
	StartDate  time.Time         `json:"startDate" binding:"required"`
	EndDate    time.Time         `json:"endDate" binding:"required"`
	PeriodType domain.PeriodType `json:"periodType"`
}

// UpdatePeriodStatusRequest transitions a fiscal period's gate.
type UpdatePeriodStatusRequest struct {
	Status domain.PeriodStatus `json:"status" binding:"required"`
}

// FiscalPeriodResponse is the outbound shape of a fiscal period.
type FiscalPeriodResponse struct {
	FiscalPeriodID string              `json:"fiscalPeriodID"`
	FiscalYearID   string              `json:"fiscalYearID"`
	PeriodNumber   int                 `json:"periodNumber"`
	PeriodType     domain.PeriodType   `json:"periodType"`
	StartDate      time.Time           `json:"startDate"`
	EndDate        time.Time           `json:"endDate"`
	Status         domain.PeriodStatus `json:"status"`
}

// FiscalYearResponse is the outbound shape of a fiscal year.
type FiscalYearResponse struct {
	FiscalYearID string                 `json:"fiscalYearID"`
	Name         string                 `json:"name"`
	StartDate    time.Time              `json:"startDate"`
	EndDate      time.Time              `json:"endDate"`
	IsClosed     bool                   `json:"isClosed"`
	Periods      []FiscalPeriodResponse `json:"periods,omitempty"`
}

// ToFiscalPeriodResponse converts a domain period to its response DTO.
func ToFiscalPeriodResponse(p *domain.FiscalPeriod) FiscalPeriodResponse {
	return FiscalPeriodResponse{
		FiscalPeriodID: p.FiscalPeriodID,
		FiscalYearID:   p.FiscalYearID,
		PeriodNumber:   p.PeriodNumber,
		PeriodType:     p.PeriodType,
		StartDate:      p.StartDate,
		EndDate:        p.EndDate,
		Status:         p.Status,
	}
}

// ToFiscalYearResponse converts a domain year plus optional periods to its
// response DTO.
func ToFiscalYearResponse(y *domain.FiscalYear, periods []domain.FiscalPeriod) FiscalYearResponse {
	resp := FiscalYearResponse{
		FiscalYearID: y.FiscalYearID,
		Name:         y.Name,
		StartDate:    y.StartDate,
		EndDate:      y.EndDate,
		IsClosed:     y.IsClosed,
	}
	for i := range periods {
		resp.Periods = append(resp.Periods, ToFiscalPeriodResponse(&periods[i]))
	}
	return resp
}
