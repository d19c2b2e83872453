package services

import (
	"context"

	"github.com/corebooks/corebooks/internal/core/domain"
	"github.com/corebooks/corebooks/internal/dto"
)

// AccountReaderSvc is the read-only account directory consumed by the
// ledger engine.
type AccountReaderSvc interface {
	// GetAccountByID retrieves one account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountByCode retrieves one account by its unique code.
	GetAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// GetAccountsByIDs retrieves multiple accounts keyed by id.
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
}

// AccountSvcFacade adds directory management on top of the reader.
type AccountSvcFacade interface {
	AccountReaderSvc

	// CreateAccount adds a chart-of-accounts node.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error)

	// UpdateAccount edits an account's mutable fields.
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount soft-disables an account; history stays intact.
	DeactivateAccount(ctx context.Context, accountID string, userID string) error

	// ListAccounts retrieves accounts, optionally active only.
	ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error)
}
