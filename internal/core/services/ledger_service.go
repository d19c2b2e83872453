package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/corebooks/corebooks/internal/apperrors"
	"github.com/corebooks/corebooks/internal/core/domain"
	portsrepo "github.com/corebooks/corebooks/internal/core/ports/repositories"
	portssvc "github.com/corebooks/corebooks/internal/core/ports/services"
	"github.com/corebooks/corebooks/internal/dto"
	"github.com/corebooks/corebooks/internal/middleware"
)

// EntrySequenceName is the named sequence journal entry numbers are drawn from.
const EntrySequenceName = "journal_entry"

// balanceTolerance is the maximum allowed absolute difference between an
// entry's total debits and total credits: 0.01 currency units, fixed
// regardless of currency.
var balanceTolerance = decimal.New(1, -2)

// ledgerService is the core engine: it validates, persists, posts, and
// reverses journal entries and computes account balances from posted lines.
type ledgerService struct {
	entryRepo  portsrepo.EntryRepositoryFacade
	accountSvc portssvc.AccountReaderSvc
	fiscalSvc  portssvc.FiscalSvcFacade
	sequences  portsrepo.SequenceIssuer
	now        func() time.Time
}

// NewLedgerService creates the ledger engine service.
func NewLedgerService(entryRepo portsrepo.EntryRepositoryFacade, accountSvc portssvc.AccountReaderSvc, fiscalSvc portssvc.FiscalSvcFacade, sequences portsrepo.SequenceIssuer) portssvc.LedgerSvcFacade {
	return &ledgerService{
		entryRepo:  entryRepo,
		accountSvc: accountSvc,
		fiscalSvc:  fiscalSvc,
		sequences:  sequences,
		now:        time.Now,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// validateLineSpecs checks structural line rules: at least one line, no
// negative amounts, and no line carrying both a positive debit and a positive
// credit. All problems are accumulated.
func (s *ledgerService) validateLineSpecs(lines []dto.EntryLineRequest, verrs *apperrors.ValidationErrors) {
	if len(lines) == 0 {
		verrs.Add("entry must have at least one line")
		return
	}
	for i, line := range lines {
		lineNo := i + 1
		if line.DebitAmount.IsNegative() || line.CreditAmount.IsNegative() {
			verrs.Add("line %d: amounts cannot be negative", lineNo)
		}
		if line.DebitAmount.IsPositive() && line.CreditAmount.IsPositive() {
			verrs.Add("line %d: debit and credit cannot both be set", lineNo)
		}
	}
}

// validateBalance checks the double-entry invariant: total debits equal total
// credits within the tolerance.
func (s *ledgerService) validateBalance(lines []dto.EntryLineRequest, verrs *apperrors.ValidationErrors) {
	totalDebits := decimal.Zero
	totalCredits := decimal.Zero
	for _, line := range lines {
		totalDebits = totalDebits.Add(line.DebitAmount)
		totalCredits = totalCredits.Add(line.CreditAmount)
	}
	if totalDebits.Sub(totalCredits).Abs().GreaterThan(balanceTolerance) {
		verrs.Add("entry is not balanced: debits total %s, credits total %s",
			totalDebits.StringFixed(2), totalCredits.StringFixed(2))
	}
}

// validateAccounts resolves every line's account, accumulating one error per
// bad line so the caller sees all problems at once. Returns the resolved
// accounts keyed by id.
func (s *ledgerService) validateAccounts(ctx context.Context, lines []dto.EntryLineRequest, verrs *apperrors.ValidationErrors) (map[string]domain.Account, error) {
	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		if _, ok := seen[line.AccountID]; !ok {
			seen[line.AccountID] = struct{}{}
			accountIDs = append(accountIDs, line.AccountID)
		}
	}

	accountsMap, err := s.accountSvc.GetAccountsByIDs(ctx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch accounts: %w", err)
	}

	for i, line := range lines {
		acc, found := accountsMap[line.AccountID]
		if !found || !acc.IsActive {
			verrs.Add("invalid or inactive account on line %d", i+1)
		}
	}
	return accountsMap, nil
}

// resolveOpenPeriod finds the fiscal period containing the date and requires
// it to be open for postings.
func (s *ledgerService) resolveOpenPeriod(ctx context.Context, date time.Time) (*domain.FiscalPeriod, error) {
	period, err := s.fiscalSvc.PeriodContaining(ctx, date)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrPeriodClosed, date.Format("2006-01-02"))
		}
		return nil, err
	}
	if !period.IsOpen() {
		return nil, fmt.Errorf("%w: period %d (%s to %s) is %s",
			apperrors.ErrPeriodClosed, period.PeriodNumber,
			period.StartDate.Format("2006-01-02"), period.EndDate.Format("2006-01-02"),
			period.Status)
	}
	return period, nil
}

// buildLines materializes domain lines from line specs, assigning 1-based
// line numbers by input position. Exchange rate defaults to 1.
func (s *ledgerService) buildLines(entryID string, specs []dto.EntryLineRequest, userID string, now time.Time) []domain.JournalEntryLine {
	lines := make([]domain.JournalEntryLine, len(specs))
	for i, spec := range specs {
		rate := spec.ExchangeRate
		if rate.IsZero() {
			rate = decimal.NewFromInt(1)
		}
		lines[i] = domain.JournalEntryLine{
			LineID:       uuid.NewString(),
			EntryID:      entryID,
			LineNumber:   i + 1,
			AccountID:    spec.AccountID,
			Description:  spec.Description,
			DebitAmount:  spec.DebitAmount,
			CreditAmount: spec.CreditAmount,
			CurrencyCode: spec.CurrencyCode,
			ExchangeRate: rate,
			TaxCode:      spec.TaxCode,
			TaxAmount:    spec.TaxAmount,
			Dimension1ID: spec.Dimension1ID,
			Dimension2ID: spec.Dimension2ID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}
	return lines
}

// prepareNewEntry is the shared create path: it runs every validation stage
// (line structure, balance, open period, account resolution), issues the
// entry number, and materializes the entry with its lines, without
// persisting anything.
func (s *ledgerService) prepareNewEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (domain.JournalEntry, []domain.JournalEntryLine, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	verrs := &apperrors.ValidationErrors{}
	s.validateLineSpecs(req.Lines, verrs)
	if verrs.HasErrors() {
		return domain.JournalEntry{}, nil, verrs
	}
	s.validateBalance(req.Lines, verrs)
	if verrs.HasErrors() {
		return domain.JournalEntry{}, nil, verrs
	}

	period, err := s.resolveOpenPeriod(ctx, req.EntryDate)
	if err != nil {
		return domain.JournalEntry{}, nil, err
	}

	if _, err := s.validateAccounts(ctx, req.Lines, verrs); err != nil {
		logger.Error("Failed to fetch accounts for entry creation", slog.String("error", err.Error()))
		return domain.JournalEntry{}, nil, err
	}
	if verrs.HasErrors() {
		return domain.JournalEntry{}, nil, verrs
	}

	entryNo, err := s.sequences.Next(ctx, EntrySequenceName)
	if err != nil {
		logger.Error("Sequence issuer failed", slog.String("sequence", EntrySequenceName), slog.String("error", err.Error()))
		return domain.JournalEntry{}, nil, fmt.Errorf("failed to issue entry number: %w", err)
	}

	now := s.now().UTC()
	entryID := uuid.NewString()

	entry := domain.JournalEntry{
		EntryID:        entryID,
		EntryNo:        entryNo,
		JournalType:    req.JournalType,
		EntryDate:      req.EntryDate,
		FiscalPeriodID: period.FiscalPeriodID,
		Description:    req.Description,
		Reference:      req.Reference,
		IsPosted:       false,
		PatternID:      req.PatternID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}
	if req.Source != nil {
		entry.Source = &domain.EntrySource{Type: req.Source.Type, ID: req.Source.ID}
	}

	lines := s.buildLines(entryID, req.Lines, creatorUserID, now)
	return entry, lines, nil
}

// CreateEntry validates and persists a new draft journal entry.
// Implements portssvc.LedgerWriterSvc.
func (s *ledgerService) CreateEntry(ctx context.Context, req dto.CreateEntryRequest, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, lines, err := s.prepareNewEntry(ctx, req, creatorUserID)
	if err != nil {
		return nil, err
	}

	if err := s.entryRepo.SaveEntry(ctx, entry, lines); err != nil {
		logger.Error("Failed to save entry", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save entry: %w", err)
	}

	// Re-load lines so the caller gets exactly what was persisted.
	entry.Lines, err = s.entryRepo.FindLinesByEntryID(ctx, entry.EntryID)
	if err != nil {
		logger.Error("Failed to reload entry lines", slog.String("entry_id", entry.EntryID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to reload entry lines: %w", err)
	}

	logger.Info("Entry created", slog.String("entry_id", entry.EntryID), slog.String("entry_no", entry.EntryNo))
	return &entry, nil
}

// CreateGeneratedEntry runs the full create path, then persists the entry
// together with the recurring pattern's schedule advance in one repository
// transaction. Either the entry exists and the pattern has moved on, or
// neither happened and the pattern stays due for a clean retry.
// Implements portssvc.LedgerWriterSvc.
func (s *ledgerService) CreateGeneratedEntry(ctx context.Context, req dto.CreateEntryRequest, pattern domain.RecurringPattern, creatorUserID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, lines, err := s.prepareNewEntry(ctx, req, creatorUserID)
	if err != nil {
		return nil, err
	}

	if err := s.entryRepo.SaveGeneratedEntry(ctx, entry, lines, pattern); err != nil {
		logger.Error("Failed to save generated entry",
			slog.String("pattern_id", pattern.PatternID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save generated entry: %w", err)
	}

	entry.Lines, err = s.entryRepo.FindLinesByEntryID(ctx, entry.EntryID)
	if err != nil {
		logger.Error("Failed to reload entry lines", slog.String("entry_id", entry.EntryID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to reload entry lines: %w", err)
	}

	logger.Info("Generated entry created",
		slog.String("entry_id", entry.EntryID),
		slog.String("entry_no", entry.EntryNo),
		slog.String("pattern_id", pattern.PatternID))
	return &entry, nil
}

// UpdateEntry replaces a draft entry's header fields and entire line set.
// Implements portssvc.LedgerWriterSvc.
func (s *ledgerService) UpdateEntry(ctx context.Context, entryID string, req dto.UpdateEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if existing.IsPosted {
		return nil, fmt.Errorf("%w: cannot update posted entry %s", apperrors.ErrEntryState, existing.EntryNo)
	}

	verrs := &apperrors.ValidationErrors{}
	s.validateLineSpecs(req.Lines, verrs)
	if verrs.HasErrors() {
		return nil, verrs
	}
	s.validateBalance(req.Lines, verrs)
	if verrs.HasErrors() {
		return nil, verrs
	}

	// The period is re-resolved against the new entry date.
	period, err := s.resolveOpenPeriod(ctx, req.EntryDate)
	if err != nil {
		return nil, err
	}

	if _, err := s.validateAccounts(ctx, req.Lines, verrs); err != nil {
		logger.Error("Failed to fetch accounts for entry update", slog.String("error", err.Error()))
		return nil, err
	}
	if verrs.HasErrors() {
		return nil, verrs
	}

	now := s.now().UTC()
	updated := *existing
	updated.EntryDate = req.EntryDate
	updated.JournalType = req.JournalType
	updated.Description = req.Description
	updated.Reference = req.Reference
	updated.FiscalPeriodID = period.FiscalPeriodID
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = userID

	lines := s.buildLines(entryID, req.Lines, userID, now)

	if err := s.entryRepo.ReplaceEntry(ctx, updated, lines); err != nil {
		logger.Error("Failed to replace entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, err
	}

	updated.Lines, err = s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload entry lines: %w", err)
	}

	logger.Info("Entry updated", slog.String("entry_id", entryID))
	return &updated, nil
}

// PostEntry finalizes a draft entry. The fiscal period is re-checked at the
// moment of posting since it may have closed after the draft was created.
// Implements portssvc.LedgerWriterSvc.
func (s *ledgerService) PostEntry(ctx context.Context, entryID string, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if entry.IsPosted {
		return nil, fmt.Errorf("%w: entry %s is already posted", apperrors.ErrEntryState, entry.EntryNo)
	}

	if _, err := s.resolveOpenPeriod(ctx, entry.EntryDate); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if err := s.entryRepo.MarkEntryPosted(ctx, entryID, userID, now); err != nil {
		// A concurrent poster may have won; the repository reports that as a
		// clean state error rather than double-applying.
		logger.Warn("Failed to mark entry posted", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		return nil, err
	}

	entry.IsPosted = true
	entry.LastUpdatedAt = now
	entry.LastUpdatedBy = userID
	entry.Lines, err = s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload entry lines: %w", err)
	}

	logger.Info("Entry posted", slog.String("entry_id", entryID), slog.String("entry_no", entry.EntryNo))
	return entry, nil
}

// ReverseEntry creates the draft entry that negates a posted entry, swapping
// each line's debit and credit, and links the two atomically. The reversal
// enforces the create path's period gate on the reversal date; it skips the
// balance and account re-checks because the lines mirror an already-posted
// entry, so balance holds by construction and the accounts were valid when
// the original posted. Deactivated accounts keep their history reversible.
// Implements portssvc.LedgerWriterSvc.
func (s *ledgerService) ReverseEntry(ctx context.Context, entryID string, req dto.ReverseEntryRequest, userID string) (*domain.JournalEntry, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	original, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	if !original.IsPosted {
		return nil, fmt.Errorf("%w: entry %s is not posted", apperrors.ErrEntryState, original.EntryNo)
	}
	if original.IsReversed || original.ReversingEntryID != nil {
		return nil, fmt.Errorf("%w: entry %s is already reversed", apperrors.ErrEntryState, original.EntryNo)
	}

	// The reversal lands in whichever open period contains the reversal date,
	// independent of the original entry's period.
	period, err := s.resolveOpenPeriod(ctx, req.ReversalDate)
	if err != nil {
		return nil, err
	}

	originalLines, err := s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines of entry %s: %w", entryID, err)
	}

	description := req.Description
	if description == "" {
		description = original.Description
	}

	entryNo, err := s.sequences.Next(ctx, EntrySequenceName)
	if err != nil {
		logger.Error("Sequence issuer failed for reversal", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to issue entry number: %w", err)
	}

	now := s.now().UTC()
	reversalID := uuid.NewString()

	reversal := domain.JournalEntry{
		EntryID:        reversalID,
		EntryNo:        entryNo,
		JournalType:    original.JournalType,
		EntryDate:      req.ReversalDate,
		FiscalPeriodID: period.FiscalPeriodID,
		Description:    fmt.Sprintf("Reversal: %s", description),
		Reference:      fmt.Sprintf("REV-%s", original.EntryNo),
		IsPosted:       false,
		Source:         &domain.EntrySource{Type: domain.SourceReversal, ID: original.EntryID},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	// Per-line mirror: debit and credit swap, tax negates, order holds.
	reversalLines := make([]domain.JournalEntryLine, len(originalLines))
	for i, orig := range originalLines {
		reversalLines[i] = domain.JournalEntryLine{
			LineID:       uuid.NewString(),
			EntryID:      reversalID,
			LineNumber:   orig.LineNumber,
			AccountID:    orig.AccountID,
			Description:  orig.Description,
			DebitAmount:  orig.CreditAmount,
			CreditAmount: orig.DebitAmount,
			CurrencyCode: orig.CurrencyCode,
			ExchangeRate: orig.ExchangeRate,
			TaxCode:      orig.TaxCode,
			TaxAmount:    orig.TaxAmount.Neg(),
			Dimension1ID: orig.Dimension1ID,
			Dimension2ID: orig.Dimension2ID,
			AuditFields: domain.AuditFields{
				CreatedAt:     now,
				CreatedBy:     userID,
				LastUpdatedAt: now,
				LastUpdatedBy: userID,
			},
		}
	}

	if err := s.entryRepo.SaveReversal(ctx, reversal, reversalLines, original.EntryID); err != nil {
		logger.Error("Failed to save reversal", slog.String("original_entry_id", original.EntryID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to save reversal: %w", err)
	}

	reversal.Lines, err = s.entryRepo.FindLinesByEntryID(ctx, reversalID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload reversal lines: %w", err)
	}

	logger.Info("Entry reversed",
		slog.String("original_entry_id", original.EntryID),
		slog.String("reversing_entry_id", reversalID))
	return &reversal, nil
}

// DeleteEntry removes a draft entry and its lines. Posted entries are
// immutable and cannot be deleted.
func (s *ledgerService) DeleteEntry(ctx context.Context, entryID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return err
	}
	if entry.IsPosted {
		return fmt.Errorf("%w: cannot delete posted entry %s", apperrors.ErrEntryState, entry.EntryNo)
	}

	if err := s.entryRepo.DeleteDraftEntry(ctx, entryID); err != nil {
		return err
	}
	logger.Info("Draft entry deleted", slog.String("entry_id", entryID), slog.String("user_id", userID))
	return nil
}

// GetEntry retrieves an entry with its lines.
// Implements portssvc.LedgerReaderSvc.
func (s *ledgerService) GetEntry(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.entryRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}
	entry.Lines, err = s.entryRepo.FindLinesByEntryID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lines for entry %s: %w", entryID, err)
	}
	return entry, nil
}

// ListEntries retrieves a filtered, token-paginated page of entry headers.
func (s *ledgerService) ListEntries(ctx context.Context, params dto.ListEntriesParams) (*dto.ListEntriesResponse, error) {
	filter := portsrepo.ListEntriesFilter{
		IsPosted:    params.IsPosted,
		JournalType: params.JournalType,
		SourceType:  params.SourceType,
		FromDate:    params.FromDate,
		ToDate:      params.ToDate,
	}
	entries, nextToken, err := s.entryRepo.ListEntries(ctx, filter, params.Limit, params.NextToken)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}

	responses := make([]dto.EntryResponse, len(entries))
	for i := range entries {
		responses[i] = dto.ToEntryResponse(&entries[i])
	}
	return &dto.ListEntriesResponse{Entries: responses, NextToken: nextToken}, nil
}

// GetAccountBalance returns the account's opening balance plus the sum of
// (debit - credit) over posted lines dated on or before asOf. When the
// account carries an opening balance date, only activity on or after that
// date counts, so pre-opening history is not double counted.
func (s *ledgerService) GetAccountBalance(ctx context.Context, accountID string, asOf time.Time) (decimal.Decimal, error) {
	account, err := s.accountSvc.GetAccountByID(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	activity, err := s.entryRepo.SumPostedLines(ctx, accountID, account.OpeningBalanceDate, &asOf)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum posted lines for account %s: %w", accountID, err)
	}
	return account.OpeningBalance.Add(activity), nil
}

// GetAccountBalanceForPeriod returns posted activity within the inclusive
// date range, with no opening-balance contribution.
func (s *ledgerService) GetAccountBalanceForPeriod(ctx context.Context, accountID string, start, end time.Time) (decimal.Decimal, error) {
	if _, err := s.accountSvc.GetAccountByID(ctx, accountID); err != nil {
		return decimal.Zero, err
	}
	activity, err := s.entryRepo.SumPostedLines(ctx, accountID, &start, &end)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum posted lines for account %s: %w", accountID, err)
	}
	return activity, nil
}

// GetTrialBalance aggregates posted debit/credit totals per account over the
// date range.
func (s *ledgerService) GetTrialBalance(ctx context.Context, start, end time.Time) ([]domain.TrialBalanceRow, error) {
	rows, err := s.entryRepo.TrialBalance(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to compute trial balance: %w", err)
	}
	return rows, nil
}
