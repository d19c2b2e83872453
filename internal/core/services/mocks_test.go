package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/corebooks/corebooks/internal/core/domain"
	portsrepo "github.com/corebooks/corebooks/internal/core/ports/repositories"
	portssvc "github.com/corebooks/corebooks/internal/core/ports/services"
	"github.com/corebooks/corebooks/internal/dto"
)

// --- Mock EntryRepository ---

type MockEntryRepository struct {
	mock.Mock
}

var _ portsrepo.EntryRepositoryFacade = (*MockEntryRepository)(nil)

func (m *MockEntryRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockEntryRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalEntryLine, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntryLine), args.Error(1)
}

func (m *MockEntryRepository) ListEntries(ctx context.Context, filter portsrepo.ListEntriesFilter, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedNextToken, args.Error(2)
}

func (m *MockEntryRepository) SaveEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockEntryRepository) SaveGeneratedEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine, pattern domain.RecurringPattern) error {
	args := m.Called(ctx, entry, lines, pattern)
	return args.Error(0)
}

func (m *MockEntryRepository) ReplaceEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalEntryLine) error {
	args := m.Called(ctx, entry, lines)
	return args.Error(0)
}

func (m *MockEntryRepository) MarkEntryPosted(ctx context.Context, entryID string, postedBy string, postedAt time.Time) error {
	args := m.Called(ctx, entryID, postedBy, postedAt)
	return args.Error(0)
}

func (m *MockEntryRepository) SaveReversal(ctx context.Context, reversal domain.JournalEntry, lines []domain.JournalEntryLine, originalEntryID string) error {
	args := m.Called(ctx, reversal, lines, originalEntryID)
	return args.Error(0)
}

func (m *MockEntryRepository) DeleteDraftEntry(ctx context.Context, entryID string) error {
	args := m.Called(ctx, entryID)
	return args.Error(0)
}

func (m *MockEntryRepository) SumPostedLines(ctx context.Context, accountID string, from, to *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID, from, to)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockEntryRepository) TrialBalance(ctx context.Context, from, to time.Time) ([]domain.TrialBalanceRow, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrialBalanceRow), args.Error(1)
}

// --- Mock AccountRepository ---

type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, activeOnly bool) ([]domain.Account, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) SetAccountActive(ctx context.Context, accountID string, active bool, updatedBy string) error {
	args := m.Called(ctx, accountID, active, updatedBy)
	return args.Error(0)
}

// --- Mock FiscalRepository ---

type MockFiscalRepository struct {
	mock.Mock
}

var _ portsrepo.FiscalRepositoryFacade = (*MockFiscalRepository)(nil)

func (m *MockFiscalRepository) FindPeriodContaining(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalRepository) FindPeriodByID(ctx context.Context, periodID string) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, periodID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalRepository) FindYearByID(ctx context.Context, yearID string) (*domain.FiscalYear, error) {
	args := m.Called(ctx, yearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalRepository) ListYears(ctx context.Context) ([]domain.FiscalYear, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalRepository) ListPeriodsByYear(ctx context.Context, yearID string) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, yearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalRepository) SaveYearWithPeriods(ctx context.Context, year domain.FiscalYear, periods []domain.FiscalPeriod) error {
	args := m.Called(ctx, year, periods)
	return args.Error(0)
}

func (m *MockFiscalRepository) UpdatePeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, periodID, status, updatedBy, updatedAt)
	return args.Error(0)
}

func (m *MockFiscalRepository) CloseYear(ctx context.Context, yearID string, updatedBy string, updatedAt time.Time) error {
	args := m.Called(ctx, yearID, updatedBy, updatedAt)
	return args.Error(0)
}

// --- Mock RecurrenceRepository ---

type MockRecurrenceRepository struct {
	mock.Mock
}

var _ portsrepo.RecurrenceRepositoryFacade = (*MockRecurrenceRepository)(nil)

func (m *MockRecurrenceRepository) FindPatternByID(ctx context.Context, patternID string) (*domain.RecurringPattern, error) {
	args := m.Called(ctx, patternID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RecurringPattern), args.Error(1)
}

func (m *MockRecurrenceRepository) FindDuePatterns(ctx context.Context, asOf time.Time) ([]domain.RecurringPattern, error) {
	args := m.Called(ctx, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringPattern), args.Error(1)
}

func (m *MockRecurrenceRepository) ListPatterns(ctx context.Context, activeOnly bool) ([]domain.RecurringPattern, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RecurringPattern), args.Error(1)
}

func (m *MockRecurrenceRepository) SavePattern(ctx context.Context, pattern domain.RecurringPattern) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

func (m *MockRecurrenceRepository) UpdatePattern(ctx context.Context, pattern domain.RecurringPattern) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

func (m *MockRecurrenceRepository) UpdatePatternInTx(ctx context.Context, tx pgx.Tx, pattern domain.RecurringPattern) error {
	args := m.Called(ctx, tx, pattern)
	return args.Error(0)
}

func (m *MockRecurrenceRepository) FindTemplateByID(ctx context.Context, templateID string) (*domain.EntryTemplate, error) {
	args := m.Called(ctx, templateID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EntryTemplate), args.Error(1)
}

func (m *MockRecurrenceRepository) ListTemplates(ctx context.Context) ([]domain.EntryTemplate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.EntryTemplate), args.Error(1)
}

func (m *MockRecurrenceRepository) SaveTemplate(ctx context.Context, template domain.EntryTemplate, lines []domain.EntryTemplateLine) error {
	args := m.Called(ctx, template, lines)
	return args.Error(0)
}

// --- Mock SequenceIssuer ---

type MockSequenceIssuer struct {
	mock.Mock
}

var _ portsrepo.SequenceIssuer = (*MockSequenceIssuer)(nil)

func (m *MockSequenceIssuer) Next(ctx context.Context, sequenceName string) (string, error) {
	args := m.Called(ctx, sequenceName)
	return args.String(0), args.Error(1)
}

// --- Mock AccountService (as consumed by the ledger engine) ---

type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountReaderSvc = (*MockAccountService)(nil)

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByCode(ctx context.Context, code string) (*domain.Account, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

// --- Mock FiscalService (as consumed by the ledger engine) ---

type MockFiscalService struct {
	mock.Mock
}

var _ portssvc.FiscalSvcFacade = (*MockFiscalService)(nil)

func (m *MockFiscalService) PeriodContaining(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FiscalPeriod), args.Error(1)
}

func (m *MockFiscalService) CreateYear(ctx context.Context, req dto.CreateFiscalYearRequest, userID string) (*domain.FiscalYear, []domain.FiscalPeriod, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*domain.FiscalYear), args.Get(1).([]domain.FiscalPeriod), args.Error(2)
}

func (m *MockFiscalService) SetPeriodStatus(ctx context.Context, periodID string, status domain.PeriodStatus, userID string) error {
	args := m.Called(ctx, periodID, status, userID)
	return args.Error(0)
}

func (m *MockFiscalService) CloseYear(ctx context.Context, yearID string, userID string) error {
	args := m.Called(ctx, yearID, userID)
	return args.Error(0)
}

func (m *MockFiscalService) ListYears(ctx context.Context) ([]domain.FiscalYear, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalYear), args.Error(1)
}

func (m *MockFiscalService) ListPeriods(ctx context.Context, yearID string) ([]domain.FiscalPeriod, error) {
	args := m.Called(ctx, yearID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.FiscalPeriod), args.Error(1)
}

// --- Mock LedgerWriter (as consumed by the recurrence scheduler) ---

type MockLedgerWriter struct {
	mock.Mock
}

var _ portssvc.LedgerWriterSvc = (*MockLedgerWriter)(nil)

func (m *MockLedgerWriter) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerWriter) CreateGeneratedEntry(ctx context.Context, req dto.CreateEntryRequest, pattern domain.RecurringPattern, creatorUserID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, req, pattern, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerWriter) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerWriter) PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerWriter) ReverseEntry(ctx context.Context, entryID string, req dto.ReverseEntryRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, entryID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockLedgerWriter) DeleteEntry(ctx context.Context, entryID string, userID string) error {
	args := m.Called(ctx, entryID, userID)
	return args.Error(0)
}
