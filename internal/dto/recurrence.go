package dto

import (
	"time"

	"github.com/corebooks/corebooks/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TemplateLineRequest is one line shape within a template create request.
type TemplateLineRequest struct {
	AccountID    string          `json:"accountID" binding:"required"`
	Description  string          `json:"description"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	CurrencyCode string          `json:"currencyCode" binding:"required,len=3"`
	ExchangeRate decimal.Decimal `json:"exchangeRate"`
	TaxCode      *string         `json:"taxCode,omitempty"`
	TaxAmount    decimal.Decimal `json:"taxAmount"`
	Dimension1ID *string         `json:"dimension1ID,omitempty"`
	Dimension2ID *string         `json:"dimension2ID,omitempty"`
}

// CreateTemplateRequest creates an entry template with its line shapes.
type CreateTemplateRequest struct {
	Name        string                `json:"name" binding:"required"`
	JournalType string                `json:"journalType"`
	Description string                `json:"description"`
	Lines       []TemplateLineRequest `json:"lines" binding:"required,min=1,dive"`
}

// CreatePatternRequest creates a recurrence schedule over a template.
type CreatePatternRequest struct {
	Name          string           `json:"name" binding:"required"`
	Description   string           `json:"description"`
	Frequency     domain.Frequency `json:"frequency" binding:"required"`
	IntervalValue int              `json:"intervalValue" binding:"required,min=1"`
	DayOfMonth    *int             `json:"dayOfMonth,omitempty" binding:"omitempty,min=1,max=31"`
	DayOfWeek     *int             `json:"dayOfWeek,omitempty" binding:"omitempty,min=0,max=6"`
	StartDate     time.Time        `json:"startDate" binding:"required"`
	EndDate       *time.Time       `json:"endDate,omitempty"`
	TemplateID    string           `json:"templateID" binding:"required"`
}

// PatternResponse is the outbound shape of a recurring pattern.
type PatternResponse struct {
	PatternID          string           `json:"patternID"`
	Name               string           `json:"name"`
	Description        string           `json:"description"`
	Frequency          domain.Frequency `json:"frequency"`
	IntervalValue      int              `json:"intervalValue"`
	DayOfMonth         *int             `json:"dayOfMonth,omitempty"`
	DayOfWeek          *int             `json:"dayOfWeek,omitempty"`
	StartDate          time.Time        `json:"startDate"`
	EndDate            *time.Time       `json:"endDate,omitempty"`
	LastGeneratedDate  *time.Time       `json:"lastGeneratedDate,omitempty"`
	NextGenerationDate *time.Time       `json:"nextGenerationDate,omitempty"`
	IsActive           bool             `json:"isActive"`
	TemplateID         string           `json:"templateID"`
}

// TemplateResponse is the outbound shape of an entry template.
type TemplateResponse struct {
	TemplateID  string              `json:"templateID"`
	Name        string              `json:"name"`
	JournalType string              `json:"journalType"`
	Description string              `json:"description"`
	Lines       []EntryLineResponse `json:"lines,omitempty"`
}

// GenerationResultResponse reports the outcome of generating one pattern.
// A failed pattern carries its error messages; others in the batch still run.
type GenerationResultResponse struct {
	PatternID   string   `json:"patternID"`
	PatternName string   `json:"patternName"`
	EntryID     string   `json:"entryID,omitempty"`
	EntryNo     string   `json:"entryNo,omitempty"`
	Errors      []string `json:"errors,omitempty"`
}

// ToPatternResponse converts a domain pattern to its response DTO.
func ToPatternResponse(p *domain.RecurringPattern) PatternResponse {
	resp := PatternResponse{
		PatternID:          p.PatternID,
		Name:               p.Name,
		Description:        p.Description,
		Frequency:          p.Frequency,
		IntervalValue:      p.IntervalValue,
		DayOfMonth:         p.DayOfMonth,
		StartDate:          p.StartDate,
		EndDate:            p.EndDate,
		LastGeneratedDate:  p.LastGeneratedDate,
		NextGenerationDate: p.NextGenerationDate,
		IsActive:           p.IsActive,
		TemplateID:         p.TemplateID,
	}
	if p.DayOfWeek != nil {
		dow := int(*p.DayOfWeek)
		resp.DayOfWeek = &dow
	}
	return resp
}

// ToTemplateResponse converts a domain template to its response DTO.
func ToTemplateResponse(t *domain.EntryTemplate) TemplateResponse {
	resp := TemplateResponse{
		TemplateID:  t.TemplateID,
		Name:        t.Name,
		JournalType: t.JournalType,
		Description: t.Description,
	}
	for _, l := range t.Lines {
		resp.Lines = append(resp.Lines, EntryLineResponse{
			LineID:       l.TemplateLineID,
			LineNumber:   l.LineNumber,
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
		})
	}
	return resp
}
