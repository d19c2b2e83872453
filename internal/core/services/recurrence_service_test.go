package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/corebooks/corebooks/internal/apperrors"
	"github.com/corebooks/corebooks/internal/core/domain"
	portssvc "github.com/corebooks/corebooks/internal/core/ports/services"
	"github.com/corebooks/corebooks/internal/core/services"
	"github.com/corebooks/corebooks/internal/dto"
)

type RecurrenceServiceTestSuite struct {
	suite.Suite
	mockRecurrenceRepo *MockRecurrenceRepository
	mockLedgerSvc      *MockLedgerWriter
	recurrenceService  portssvc.RecurrenceSvcFacade
	ctx                context.Context

	testUserID string
	template   domain.EntryTemplate
	asOf       time.Time
}

func (suite *RecurrenceServiceTestSuite) SetupTest() {
	suite.mockRecurrenceRepo = new(MockRecurrenceRepository)
	suite.mockLedgerSvc = new(MockLedgerWriter)
	suite.recurrenceService = services.NewRecurrenceService(suite.mockRecurrenceRepo, suite.mockLedgerSvc)
	suite.ctx = context.Background()

	suite.testUserID = uuid.NewString()
	suite.asOf = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	templateID := uuid.NewString()
	suite.template = domain.EntryTemplate{
		TemplateID:  templateID,
		Name:        "Monthly rent",
		JournalType: "GENERAL",
		Description: "Office rent",
		Lines: []domain.EntryTemplateLine{
			{
				TemplateLineID: uuid.NewString(), TemplateID: templateID, LineNumber: 1,
				AccountID: uuid.NewString(), DebitAmount: decimal.NewFromInt(900),
				CurrencyCode: "USD", ExchangeRate: decimal.NewFromInt(1),
			},
			{
				TemplateLineID: uuid.NewString(), TemplateID: templateID, LineNumber: 2,
				AccountID: uuid.NewString(), CreditAmount: decimal.NewFromInt(900),
				CurrencyCode: "USD", ExchangeRate: decimal.NewFromInt(1),
			},
		},
	}
}

func (suite *RecurrenceServiceTestSuite) duePattern(nextGeneration time.Time) domain.RecurringPattern {
	return domain.RecurringPattern{
		PatternID:          uuid.NewString(),
		Name:               "Rent",
		Frequency:          domain.Monthly,
		IntervalValue:      1,
		StartDate:          time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		NextGenerationDate: &nextGeneration,
		IsActive:           true,
		TemplateID:         suite.template.TemplateID,
		Template:           &suite.template,
	}
}

func (suite *RecurrenceServiceTestSuite) TestGenerate_Success() {
	generationDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	pattern := suite.duePattern(generationDate)
	createdEntry := &domain.JournalEntry{EntryID: uuid.NewString(), EntryNo: "JE-000100"}

	suite.mockRecurrenceRepo.On("FindDuePatterns", suite.ctx, suite.asOf).
		Return([]domain.RecurringPattern{pattern}, nil).Once()

	var capturedReq dto.CreateEntryRequest
	var capturedPattern domain.RecurringPattern
	suite.mockLedgerSvc.On("CreateGeneratedEntry", suite.ctx,
		mock.AnythingOfType("dto.CreateEntryRequest"), mock.AnythingOfType("domain.RecurringPattern"), suite.testUserID).
		Run(func(args mock.Arguments) {
			capturedReq = args.Get(1).(dto.CreateEntryRequest)
			capturedPattern = args.Get(2).(domain.RecurringPattern)
		}).
		Return(createdEntry, nil).Once()

	results, err := suite.recurrenceService.Generate(suite.ctx, suite.asOf, suite.testUserID)

	suite.Require().NoError(err)
	suite.Require().Len(results, 1)
	suite.Empty(results[0].Errors)
	suite.Equal(createdEntry.EntryID, results[0].EntryID)
	suite.Equal("JE-000100", results[0].EntryNo)

	suite.Equal(generationDate, capturedReq.EntryDate)
	suite.Equal("Office rent (auto: Rent)", capturedReq.Description)
	suite.Require().NotNil(capturedReq.Source)
	suite.Equal(domain.SourceRecurring, capturedReq.Source.Type)
	suite.Equal(pattern.PatternID, capturedReq.Source.ID)
	suite.Require().NotNil(capturedReq.PatternID)
	suite.Equal(pattern.PatternID, *capturedReq.PatternID)
	suite.Require().Len(capturedReq.Lines, 2)
	suite.True(capturedReq.Lines[0].DebitAmount.Equal(decimal.NewFromInt(900)))

	// The advanced schedule rides along with the entry so both commit in one
	// unit of work.
	suite.Require().NotNil(capturedPattern.LastGeneratedDate)
	suite.Equal(generationDate, *capturedPattern.LastGeneratedDate)
	suite.Require().NotNil(capturedPattern.NextGenerationDate)
	suite.Equal(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), *capturedPattern.NextGenerationDate)
	suite.True(capturedPattern.IsActive)
	suite.mockRecurrenceRepo.AssertNotCalled(suite.T(), "UpdatePattern", mock.Anything, mock.Anything)

	suite.mockRecurrenceRepo.AssertExpectations(suite.T())
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *RecurrenceServiceTestSuite) TestGenerate_DeactivatesPastEndDate() {
	generationDate := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	endDate := time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC)
	pattern := suite.duePattern(generationDate)
	pattern.EndDate = &endDate

	suite.mockRecurrenceRepo.On("FindDuePatterns", suite.ctx, suite.asOf).
		Return([]domain.RecurringPattern{pattern}, nil).Once()

	var capturedPattern domain.RecurringPattern
	suite.mockLedgerSvc.On("CreateGeneratedEntry", suite.ctx, mock.Anything, mock.AnythingOfType("domain.RecurringPattern"), suite.testUserID).
		Run(func(args mock.Arguments) {
			capturedPattern = args.Get(2).(domain.RecurringPattern)
		}).
		Return(&domain.JournalEntry{EntryID: uuid.NewString(), EntryNo: "JE-000101"}, nil).Once()

	results, err := suite.recurrenceService.Generate(suite.ctx, suite.asOf, suite.testUserID)

	suite.Require().NoError(err)
	suite.Require().Len(results, 1)
	suite.Empty(results[0].Errors)
	// July 15 is past the June 30 end date.
	suite.False(capturedPattern.IsActive)
	suite.Nil(capturedPattern.NextGenerationDate)
}

func (suite *RecurrenceServiceTestSuite) TestGenerate_DeactivatesUnschedulable() {
	generationDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	pattern := suite.duePattern(generationDate)
	pattern.Frequency = domain.Frequency("FORTNIGHTLY")

	suite.mockRecurrenceRepo.On("FindDuePatterns", suite.ctx, suite.asOf).
		Return([]domain.RecurringPattern{pattern}, nil).Once()

	var capturedPattern domain.RecurringPattern
	suite.mockLedgerSvc.On("CreateGeneratedEntry", suite.ctx, mock.Anything, mock.AnythingOfType("domain.RecurringPattern"), suite.testUserID).
		Run(func(args mock.Arguments) {
			capturedPattern = args.Get(2).(domain.RecurringPattern)
		}).
		Return(&domain.JournalEntry{EntryID: uuid.NewString(), EntryNo: "JE-000102"}, nil).Once()

	results, err := suite.recurrenceService.Generate(suite.ctx, suite.asOf, suite.testUserID)

	suite.Require().NoError(err)
	suite.Require().Len(results, 1)
	// The entry is created and the deactivation commits with it; the result
	// surfaces why the pattern will not fire again.
	suite.NotEmpty(results[0].EntryID)
	suite.Require().Len(results[0].Errors, 1)
	suite.Contains(results[0].Errors[0], "pattern deactivated")
	suite.False(capturedPattern.IsActive)
	suite.Nil(capturedPattern.NextGenerationDate)
}

func (suite *RecurrenceServiceTestSuite) TestGenerate_PatternsFailIndependently() {
	goodDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	good := suite.duePattern(goodDate)
	bad := suite.duePattern(goodDate)
	bad.Name = "Broken"

	suite.mockRecurrenceRepo.On("FindDuePatterns", suite.ctx, suite.asOf).
		Return([]domain.RecurringPattern{bad, good}, nil).Once()

	verrs := &apperrors.ValidationErrors{}
	verrs.Add("invalid or inactive account on line 1")
	suite.mockLedgerSvc.On("CreateGeneratedEntry", suite.ctx, mock.MatchedBy(func(req dto.CreateEntryRequest) bool {
		return req.Source != nil && req.Source.ID == bad.PatternID
	}), mock.Anything, suite.testUserID).Return(nil, verrs).Once()
	suite.mockLedgerSvc.On("CreateGeneratedEntry", suite.ctx, mock.MatchedBy(func(req dto.CreateEntryRequest) bool {
		return req.Source != nil && req.Source.ID == good.PatternID
	}), mock.Anything, suite.testUserID).Return(&domain.JournalEntry{EntryID: uuid.NewString(), EntryNo: "JE-000103"}, nil).Once()

	results, err := suite.recurrenceService.Generate(suite.ctx, suite.asOf, suite.testUserID)

	suite.Require().NoError(err)
	suite.Require().Len(results, 2)
	suite.Require().Len(results[0].Errors, 1)
	suite.Contains(results[0].Errors[0], "invalid or inactive account")
	suite.Empty(results[0].EntryID)
	suite.Empty(results[1].Errors)
	suite.Equal("JE-000103", results[1].EntryNo)
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *RecurrenceServiceTestSuite) TestGenerate_NoDuePatterns() {
	suite.mockRecurrenceRepo.On("FindDuePatterns", suite.ctx, suite.asOf).
		Return([]domain.RecurringPattern{}, nil).Once()

	results, err := suite.recurrenceService.Generate(suite.ctx, suite.asOf, suite.testUserID)

	suite.Require().NoError(err)
	suite.Empty(results)
	suite.mockLedgerSvc.AssertNotCalled(suite.T(), "CreateGeneratedEntry", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RecurrenceServiceTestSuite) TestGenerate_FailedRunLeavesPatternDue() {
	generationDate := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	pattern := suite.duePattern(generationDate)

	suite.mockRecurrenceRepo.On("FindDuePatterns", suite.ctx, suite.asOf).
		Return([]domain.RecurringPattern{pattern}, nil).Twice()
	suite.mockLedgerSvc.On("CreateGeneratedEntry", suite.ctx, mock.Anything, mock.Anything, suite.testUserID).
		Return(nil, errors.New("failed to save generated entry: connection reset")).Once()

	results, err := suite.recurrenceService.Generate(suite.ctx, suite.asOf, suite.testUserID)

	suite.Require().NoError(err)
	suite.Require().Len(results, 1)
	suite.Empty(results[0].EntryID, "a failed run must not report a committed entry")
	suite.Require().Len(results[0].Errors, 1)
	// The schedule never advances outside the entry's unit of work.
	suite.mockRecurrenceRepo.AssertNotCalled(suite.T(), "UpdatePattern", mock.Anything, mock.Anything)

	// The next run sees the same due date exactly once and succeeds without
	// a duplicate: one entry total for the generation date.
	createdEntry := &domain.JournalEntry{EntryID: uuid.NewString(), EntryNo: "JE-000104"}
	var retriedReq dto.CreateEntryRequest
	suite.mockLedgerSvc.On("CreateGeneratedEntry", suite.ctx, mock.Anything, mock.Anything, suite.testUserID).
		Run(func(args mock.Arguments) {
			retriedReq = args.Get(1).(dto.CreateEntryRequest)
		}).
		Return(createdEntry, nil).Once()

	retried, err := suite.recurrenceService.Generate(suite.ctx, suite.asOf, suite.testUserID)

	suite.Require().NoError(err)
	suite.Require().Len(retried, 1)
	suite.Equal("JE-000104", retried[0].EntryNo)
	suite.Equal(generationDate, retriedReq.EntryDate)
	suite.mockLedgerSvc.AssertExpectations(suite.T())
}

func (suite *RecurrenceServiceTestSuite) TestCreateTemplate_Success() {
	req := dto.CreateTemplateRequest{
		Name:        "Payroll",
		JournalType: "GENERAL",
		Description: "Monthly payroll",
		Lines: []dto.TemplateLineRequest{
			{AccountID: uuid.NewString(), DebitAmount: decimal.NewFromInt(5000), CurrencyCode: "USD"},
			{AccountID: uuid.NewString(), CreditAmount: decimal.NewFromInt(5000), CurrencyCode: "USD"},
		},
	}

	var savedLines []domain.EntryTemplateLine
	suite.mockRecurrenceRepo.On("SaveTemplate", suite.ctx,
		mock.AnythingOfType("domain.EntryTemplate"), mock.AnythingOfType("[]domain.EntryTemplateLine")).
		Run(func(args mock.Arguments) {
			savedLines = args.Get(2).([]domain.EntryTemplateLine)
		}).
		Return(nil).Once()

	template, err := suite.recurrenceService.CreateTemplate(suite.ctx, req, suite.testUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(template)
	suite.Equal("Payroll", template.Name)
	suite.Require().Len(savedLines, 2)
	suite.Equal(1, savedLines[0].LineNumber)
	suite.True(savedLines[0].ExchangeRate.Equal(decimal.NewFromInt(1)))
	suite.mockRecurrenceRepo.AssertExpectations(suite.T())
}

func (suite *RecurrenceServiceTestSuite) TestCreateTemplate_Unbalanced() {
	req := dto.CreateTemplateRequest{
		Name: "Broken",
		Lines: []dto.TemplateLineRequest{
			{AccountID: uuid.NewString(), DebitAmount: decimal.NewFromInt(100), CurrencyCode: "USD"},
			{AccountID: uuid.NewString(), CreditAmount: decimal.NewFromInt(90), CurrencyCode: "USD"},
		},
	}

	_, err := suite.recurrenceService.CreateTemplate(suite.ctx, req, suite.testUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Contains(err.Error(), "not balanced")
	suite.mockRecurrenceRepo.AssertNotCalled(suite.T(), "SaveTemplate", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *RecurrenceServiceTestSuite) TestCreatePattern_Success() {
	startDate := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	dow := 1
	req := dto.CreatePatternRequest{
		Name:          "Weekly sweep",
		Frequency:     domain.Weekly,
		IntervalValue: 1,
		DayOfWeek:     &dow,
		StartDate:     startDate,
		TemplateID:    suite.template.TemplateID,
	}

	suite.mockRecurrenceRepo.On("FindTemplateByID", suite.ctx, suite.template.TemplateID).
		Return(&suite.template, nil).Once()

	var savedPattern domain.RecurringPattern
	suite.mockRecurrenceRepo.On("SavePattern", suite.ctx, mock.AnythingOfType("domain.RecurringPattern")).
		Run(func(args mock.Arguments) {
			savedPattern = args.Get(1).(domain.RecurringPattern)
		}).
		Return(nil).Once()

	pattern, err := suite.recurrenceService.CreatePattern(suite.ctx, req, suite.testUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(pattern)
	suite.True(savedPattern.IsActive)
	suite.Require().NotNil(savedPattern.NextGenerationDate)
	suite.Equal(startDate, *savedPattern.NextGenerationDate, "first generation lands on the start date")
	suite.Require().NotNil(savedPattern.DayOfWeek)
	suite.Equal(time.Monday, *savedPattern.DayOfWeek)
	suite.mockRecurrenceRepo.AssertExpectations(suite.T())
}

func (suite *RecurrenceServiceTestSuite) TestCreatePattern_UnknownTemplate() {
	req := dto.CreatePatternRequest{
		Name:          "Orphan",
		Frequency:     domain.Monthly,
		IntervalValue: 1,
		StartDate:     suite.asOf,
		TemplateID:    uuid.NewString(),
	}

	suite.mockRecurrenceRepo.On("FindTemplateByID", suite.ctx, req.TemplateID).
		Return(nil, apperrors.ErrNotFound).Once()

	_, err := suite.recurrenceService.CreatePattern(suite.ctx, req, suite.testUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockRecurrenceRepo.AssertNotCalled(suite.T(), "SavePattern", mock.Anything, mock.Anything)
}

func (suite *RecurrenceServiceTestSuite) TestCreatePattern_InvalidSchedule() {
	endDate := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	req := dto.CreatePatternRequest{
		Name:          "Bad",
		Frequency:     domain.Frequency("SOMETIMES"),
		IntervalValue: 0,
		StartDate:     suite.asOf,
		EndDate:       &endDate,
		TemplateID:    suite.template.TemplateID,
	}

	_, err := suite.recurrenceService.CreatePattern(suite.ctx, req, suite.testUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	msgs := apperrors.MessagesOf(err)
	suite.Len(msgs, 3)
}

func (suite *RecurrenceServiceTestSuite) TestDeactivatePattern_Idempotent() {
	patternID := uuid.NewString()
	inactive := &domain.RecurringPattern{PatternID: patternID, IsActive: false}

	suite.mockRecurrenceRepo.On("FindPatternByID", suite.ctx, patternID).Return(inactive, nil).Once()

	err := suite.recurrenceService.DeactivatePattern(suite.ctx, patternID, suite.testUserID)

	suite.Require().NoError(err)
	suite.mockRecurrenceRepo.AssertNotCalled(suite.T(), "UpdatePattern", mock.Anything, mock.Anything)
}

func (suite *RecurrenceServiceTestSuite) TestDeactivatePattern_Active() {
	patternID := uuid.NewString()
	next := suite.asOf
	active := &domain.RecurringPattern{PatternID: patternID, IsActive: true, NextGenerationDate: &next}

	suite.mockRecurrenceRepo.On("FindPatternByID", suite.ctx, patternID).Return(active, nil).Once()

	var updatedPattern domain.RecurringPattern
	suite.mockRecurrenceRepo.On("UpdatePattern", suite.ctx, mock.AnythingOfType("domain.RecurringPattern")).
		Run(func(args mock.Arguments) {
			updatedPattern = args.Get(1).(domain.RecurringPattern)
		}).
		Return(nil).Once()

	err := suite.recurrenceService.DeactivatePattern(suite.ctx, patternID, suite.testUserID)

	suite.Require().NoError(err)
	suite.False(updatedPattern.IsActive)
	suite.Nil(updatedPattern.NextGenerationDate)
	suite.mockRecurrenceRepo.AssertExpectations(suite.T())
}

func TestRecurrenceService(t *testing.T) {
	suite.Run(t, new(RecurrenceServiceTestSuite))
}
