package mapping

import (
	"github.com/corebooks/corebooks/internal/core/domain"
	"github.com/corebooks/corebooks/internal/models"
)

// ToModelAccount converts a domain Account to a model Account.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:          d.AccountID,
		Code:               d.Code,
		Name:               d.Name,
		AccountType:        models.AccountType(d.AccountType),
		IsActive:           d.IsActive,
		OpeningBalance:     d.OpeningBalance,
		OpeningBalanceDate: d.OpeningBalanceDate,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a model Account to a domain Account.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:          m.AccountID,
		Code:               m.Code,
		Name:               m.Name,
		AccountType:        domain.AccountType(m.AccountType),
		IsActive:           m.IsActive,
		OpeningBalance:     m.OpeningBalance,
		OpeningBalanceDate: m.OpeningBalanceDate,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}
