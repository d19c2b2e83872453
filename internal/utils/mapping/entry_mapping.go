package mapping

import (
	"github.com/corebooks/corebooks/internal/core/domain"
	"github.com/corebooks/corebooks/internal/models"
)

// ToModelEntry converts a domain JournalEntry header to a model JournalEntry.
func ToModelEntry(d domain.JournalEntry) models.JournalEntry {
	m := models.JournalEntry{
		EntryID:          d.EntryID,
		EntryNo:          d.EntryNo,
		JournalType:      d.JournalType,
		EntryDate:        d.EntryDate,
		FiscalPeriodID:   d.FiscalPeriodID,
		Description:      d.Description,
		Reference:        d.Reference,
		IsPosted:         d.IsPosted,
		IsReversed:       d.IsReversed,
		ReversingEntryID: d.ReversingEntryID,
		PatternID:        d.PatternID,
		AuditFields:      ToModelAuditFields(d.AuditFields),
	}
	if d.Source != nil {
		st := string(d.Source.Type)
		m.SourceType = &st
		m.SourceID = &d.Source.ID
	}
	return m
}

// ToDomainEntry converts a model JournalEntry to a domain JournalEntry.
func ToDomainEntry(m models.JournalEntry) domain.JournalEntry {
	d := domain.JournalEntry{
		EntryID:          m.EntryID,
		EntryNo:          m.EntryNo,
		JournalType:      m.JournalType,
		EntryDate:        m.EntryDate,
		FiscalPeriodID:   m.FiscalPeriodID,
		Description:      m.Description,
		Reference:        m.Reference,
		IsPosted:         m.IsPosted,
		IsReversed:       m.IsReversed,
		ReversingEntryID: m.ReversingEntryID,
		PatternID:        m.PatternID,
		AuditFields:      ToDomainAuditFields(m.AuditFields),
	}
	if m.SourceType != nil && m.SourceID != nil {
		d.Source = &domain.EntrySource{
			Type: domain.SourceType(*m.SourceType),
			ID:   *m.SourceID,
		}
	}
	return d
}

// ToModelEntryLine converts a domain line to a model line.
func ToModelEntryLine(d domain.JournalEntryLine) models.JournalEntryLine {
	return models.JournalEntryLine{
		LineID:       d.LineID,
		EntryID:      d.EntryID,
		LineNumber:   d.LineNumber,
		AccountID:    d.AccountID,
		Description:  d.Description,
		DebitAmount:  d.DebitAmount,
		CreditAmount: d.CreditAmount,
		CurrencyCode: d.CurrencyCode,
		ExchangeRate: d.ExchangeRate,
		TaxCode:      d.TaxCode,
		TaxAmount:    d.TaxAmount,
		Dimension1ID: d.Dimension1ID,
		Dimension2ID: d.Dimension2ID,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainEntryLine converts a model line to a domain line.
func ToDomainEntryLine(m models.JournalEntryLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:       m.LineID,
		EntryID:      m.EntryID,
		LineNumber:   m.LineNumber,
		AccountID:    m.AccountID,
		Description:  m.Description,
		DebitAmount:  m.DebitAmount,
		CreditAmount: m.CreditAmount,
		CurrencyCode: m.CurrencyCode,
		ExchangeRate: m.ExchangeRate,
		TaxCode:      m.TaxCode,
		TaxAmount:    m.TaxAmount,
		Dimension1ID: m.Dimension1ID,
		Dimension2ID: m.Dimension2ID,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainEntryLineSlice converts a slice of model lines to domain lines.
func ToDomainEntryLineSlice(ms []models.JournalEntryLine) []domain.JournalEntryLine {
	ds := make([]domain.JournalEntryLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainEntryLine(m)
	}
	return ds
}
