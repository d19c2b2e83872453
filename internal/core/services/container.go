package services

import (
	portsrepo "github.com/corebooks/corebooks/internal/core/ports/repositories"
	portssvc "github.com/corebooks/corebooks/internal/core/ports/services"
)

// Container holds all service interfaces, wired against a repository
// provider. Handlers pull their dependencies from here.
type Container struct {
	AccountSvc    portssvc.AccountSvcFacade
	FiscalSvc     portssvc.FiscalSvcFacade
	LedgerSvc     portssvc.LedgerSvcFacade
	RecurrenceSvc portssvc.RecurrenceSvcFacade
}

// NewContainer constructs every service with its dependencies. The ledger
// engine sits in the middle: accounts and the fiscal calendar feed into it,
// and the recurrence scheduler drives it.
func NewContainer(repos *portsrepo.RepositoryProvider) *Container {
	accountSvc := NewAccountService(repos.AccountRepo)
	fiscalSvc := NewFiscalService(repos.FiscalRepo)
	ledgerSvc := NewLedgerService(repos.EntryRepo, accountSvc, fiscalSvc, repos.Sequences)
	recurrenceSvc := NewRecurrenceService(repos.RecurrenceRepo, ledgerSvc)

	return &Container{
		AccountSvc:    accountSvc,
		FiscalSvc:     fiscalSvc,
		LedgerSvc:     ledgerSvc,
		RecurrenceSvc: recurrenceSvc,
	}
}
