package mapping

import (
	"time"

	"github.com/corebooks/corebooks/internal/core/domain"
	"github.com/corebooks/corebooks/internal/models"
)

// ToModelPattern converts a domain RecurringPattern to a model RecurringPattern.
func ToModelPattern(d domain.RecurringPattern) models.RecurringPattern {
	m := models.RecurringPattern{
		PatternID:          d.PatternID,
		Name:               d.Name,
		Description:        d.Description,
		Frequency:          string(d.Frequency),
		IntervalValue:      d.IntervalValue,
		DayOfMonth:         d.DayOfMonth,
		StartDate:          d.StartDate,
		EndDate:            d.EndDate,
		LastGeneratedDate:  d.LastGeneratedDate,
		NextGenerationDate: d.NextGenerationDate,
		IsActive:           d.IsActive,
		TemplateID:         d.TemplateID,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
	if d.DayOfWeek != nil {
		dow := int(*d.DayOfWeek)
		m.DayOfWeek = &dow
	}
	return m
}

// ToDomainPattern converts a model RecurringPattern to a domain RecurringPattern.
func ToDomainPattern(m models.RecurringPattern) domain.RecurringPattern {
	d := domain.RecurringPattern{
		PatternID:          m.PatternID,
		Name:               m.Name,
		Description:        m.Description,
		Frequency:          domain.Frequency(m.Frequency),
		IntervalValue:      m.IntervalValue,
		DayOfMonth:         m.DayOfMonth,
		StartDate:          m.StartDate,
		EndDate:            m.EndDate,
		LastGeneratedDate:  m.LastGeneratedDate,
		NextGenerationDate: m.NextGenerationDate,
		IsActive:           m.IsActive,
		TemplateID:         m.TemplateID,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
	if m.DayOfWeek != nil {
		dow := time.Weekday(*m.DayOfWeek)
		d.DayOfWeek = &dow
	}
	return d
}

// ToModelTemplate converts a domain EntryTemplate header to a model EntryTemplate.
func ToModelTemplate(d domain.EntryTemplate) models.EntryTemplate {
	return models.EntryTemplate{
		TemplateID:  d.TemplateID,
		Name:        d.Name,
		JournalType: d.JournalType,
		Description: d.Description,
		AuditFields: ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainTemplate converts a model EntryTemplate to a domain EntryTemplate.
func ToDomainTemplate(m models.EntryTemplate) domain.EntryTemplate {
	return domain.EntryTemplate{
		TemplateID:  m.TemplateID,
		Name:        m.Name,
		JournalType: m.JournalType,
		Description: m.Description,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelTemplateLine converts a domain template line to a model template line.
func ToModelTemplateLine(d domain.EntryTemplateLine) models.EntryTemplateLine {
	return models.EntryTemplateLine{
		TemplateLineID: d.TemplateLineID,
		TemplateID:     d.TemplateID,
		LineNumber:     d.LineNumber,
		AccountID:      d.AccountID,
		Description:    d.Description,
		DebitAmount:    d.DebitAmount,
		CreditAmount:   d.CreditAmount,
		CurrencyCode:   d.CurrencyCode,
		ExchangeRate:   d.ExchangeRate,
		TaxCode:        d.TaxCode,
		TaxAmount:      d.TaxAmount,
		Dimension1ID:   d.Dimension1ID,
		Dimension2ID:   d.Dimension2ID,
	}
}

// ToDomainTemplateLine converts a model template line to a domain template line.
func ToDomainTemplateLine(m models.EntryTemplateLine) domain.EntryTemplateLine {
	return domain.EntryTemplateLine{
		TemplateLineID: m.TemplateLineID,
		TemplateID:     m.TemplateID,
		LineNumber:     m.LineNumber,
		AccountID:      m.AccountID,
		Description:    m.Description,
		DebitAmount:    m.DebitAmount,
		CreditAmount:   m.CreditAmount,
		CurrencyCode:   m.CurrencyCode,
		ExchangeRate:   m.ExchangeRate,
		TaxCode:        m.TaxCode,
		TaxAmount:      m.TaxAmount,
		Dimension1ID:   m.Dimension1ID,
		Dimension2ID:   m.Dimension2ID,
	}
}

// ToDomainTemplateLineSlice converts a slice of model template lines.
func ToDomainTemplateLineSlice(ms []models.EntryTemplateLine) []domain.EntryTemplateLine {
	ds := make([]domain.EntryTemplateLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainTemplateLine(m)
	}
	return ds
}
