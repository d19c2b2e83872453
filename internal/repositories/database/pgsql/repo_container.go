package pgsql

import (
	portsrepo "github.com/corebooks/corebooks/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	fiscalRepo := newPgxFiscalRepository(dbPool)
	recurrenceRepo := newPgxRecurrenceRepository(dbPool)
	entryRepo := newPgxEntryRepository(dbPool, recurrenceRepo)
	sequenceRepo := newPgxSequenceRepository(dbPool)

	return portsrepo.RepositoryProvider{
		AccountRepo:    accountRepo,
		FiscalRepo:     fiscalRepo,
		EntryRepo:      entryRepo,
		RecurrenceRepo: recurrenceRepo,
		Sequences:      sequenceRepo,
	}
}
