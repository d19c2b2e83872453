package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/corebooks/corebooks/internal/apperrors"
	"github.com/corebooks/corebooks/internal/core/domain"
	portssvc "github.com/corebooks/corebooks/internal/core/ports/services"
	"github.com/corebooks/corebooks/internal/core/services"
	"github.com/corebooks/corebooks/internal/dto"
)

type FiscalServiceTestSuite struct {
	suite.Suite
	mockFiscalRepo *MockFiscalRepository
	fiscalService  portssvc.FiscalSvcFacade
	ctx            context.Context

	testUserID string
}

func (suite *FiscalServiceTestSuite) SetupTest() {
	suite.mockFiscalRepo = new(MockFiscalRepository)
	suite.fiscalService = services.NewFiscalService(suite.mockFiscalRepo)
	suite.ctx = context.Background()
	suite.testUserID = uuid.NewString()
}

func (suite *FiscalServiceTestSuite) TestCreateYear_MonthlyPeriodsTileTheYear() {
	req := dto.CreateFiscalYearRequest{
		Name:      "FY2025",
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	var savedPeriods []domain.FiscalPeriod
	suite.mockFiscalRepo.On("SaveYearWithPeriods", suite.ctx,
		mock.AnythingOfType("domain.FiscalYear"), mock.AnythingOfType("[]domain.FiscalPeriod")).
		Run(func(args mock.Arguments) {
			savedPeriods = args.Get(2).([]domain.FiscalPeriod)
		}).
		Return(nil).Once()

	year, periods, err := suite.fiscalService.CreateYear(suite.ctx, req, suite.testUserID)

	suite.Require().NoError(err)
	suite.Require().NotNil(year)
	suite.False(year.IsClosed)
	suite.Require().Len(periods, 12)
	suite.Require().Len(savedPeriods, 12)

	// Periods tile the year: each starts the day after the previous ends.
	suite.Equal(req.StartDate, savedPeriods[0].StartDate)
	suite.Equal(time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), savedPeriods[0].EndDate)
	for i := 1; i < len(savedPeriods); i++ {
		suite.Equal(savedPeriods[i-1].EndDate.AddDate(0, 0, 1), savedPeriods[i].StartDate)
		suite.Equal(i+1, savedPeriods[i].PeriodNumber)
		suite.Equal(domain.PeriodOpen, savedPeriods[i].Status)
	}
	suite.Equal(req.EndDate, savedPeriods[11].EndDate)
	suite.mockFiscalRepo.AssertExpectations(suite.T())
}

func (suite *FiscalServiceTestSuite) TestCreateYear_QuarterlyPeriods() {
	req := dto.CreateFiscalYearRequest{
		Name:       "FY2025Q",
		StartDate:  time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		PeriodType: domain.PeriodQuarter,
	}

	var savedPeriods []domain.FiscalPeriod
	suite.mockFiscalRepo.On("SaveYearWithPeriods", suite.ctx, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedPeriods = args.Get(2).([]domain.FiscalPeriod)
		}).
		Return(nil).Once()

	_, periods, err := suite.fiscalService.CreateYear(suite.ctx, req, suite.testUserID)

	suite.Require().NoError(err)
	suite.Require().Len(periods, 4)
	suite.Equal(time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), savedPeriods[0].EndDate)
	suite.Equal(time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC), savedPeriods[3].EndDate)
	suite.Equal(domain.PeriodQuarter, savedPeriods[0].PeriodType)
}

func (suite *FiscalServiceTestSuite) TestCreateYear_ShortYearClampsFinalPeriod() {
	req := dto.CreateFiscalYearRequest{
		Name:      "Stub year",
		StartDate: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC),
	}

	suite.mockFiscalRepo.On("SaveYearWithPeriods", suite.ctx, mock.Anything, mock.Anything).
		Return(nil).Once()

	_, periods, err := suite.fiscalService.CreateYear(suite.ctx, req, suite.testUserID)

	suite.Require().NoError(err)
	suite.Require().Len(periods, 2)
	suite.Equal(time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC), periods[1].EndDate)
}

func (suite *FiscalServiceTestSuite) TestCreateYear_EndBeforeStart() {
	req := dto.CreateFiscalYearRequest{
		Name:      "Backwards",
		StartDate: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	_, _, err := suite.fiscalService.CreateYear(suite.ctx, req, suite.testUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockFiscalRepo.AssertNotCalled(suite.T(), "SaveYearWithPeriods", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FiscalServiceTestSuite) TestSetPeriodStatus_ReopenClosedPeriod() {
	periodID := uuid.NewString()
	period := &domain.FiscalPeriod{
		FiscalPeriodID: periodID,
		PeriodNumber:   4,
		Status:         domain.PeriodClosed,
	}

	suite.mockFiscalRepo.On("FindPeriodByID", suite.ctx, periodID).Return(period, nil).Once()
	suite.mockFiscalRepo.On("UpdatePeriodStatus", suite.ctx, periodID, domain.PeriodOpen, suite.testUserID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	err := suite.fiscalService.SetPeriodStatus(suite.ctx, periodID, domain.PeriodOpen, suite.testUserID)

	suite.Require().NoError(err)
	suite.mockFiscalRepo.AssertExpectations(suite.T())
}

func (suite *FiscalServiceTestSuite) TestSetPeriodStatus_ArchivedIsTerminal() {
	periodID := uuid.NewString()
	period := &domain.FiscalPeriod{
		FiscalPeriodID: periodID,
		PeriodNumber:   1,
		Status:         domain.PeriodArchived,
	}

	suite.mockFiscalRepo.On("FindPeriodByID", suite.ctx, periodID).Return(period, nil).Once()

	err := suite.fiscalService.SetPeriodStatus(suite.ctx, periodID, domain.PeriodOpen, suite.testUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrEntryState)
	suite.mockFiscalRepo.AssertNotCalled(suite.T(), "UpdatePeriodStatus",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FiscalServiceTestSuite) TestSetPeriodStatus_ArchiveRequiresClosed() {
	periodID := uuid.NewString()
	period := &domain.FiscalPeriod{
		FiscalPeriodID: periodID,
		PeriodNumber:   2,
		Status:         domain.PeriodOpen,
	}

	suite.mockFiscalRepo.On("FindPeriodByID", suite.ctx, periodID).Return(period, nil).Once()

	err := suite.fiscalService.SetPeriodStatus(suite.ctx, periodID, domain.PeriodArchived, suite.testUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrEntryState)
}

func (suite *FiscalServiceTestSuite) TestCloseYear_OpenPeriodBlocks() {
	yearID := uuid.NewString()
	year := &domain.FiscalYear{FiscalYearID: yearID, Name: "FY2025"}
	periods := []domain.FiscalPeriod{
		{PeriodNumber: 1, Status: domain.PeriodClosed},
		{PeriodNumber: 2, Status: domain.PeriodOpen},
	}

	suite.mockFiscalRepo.On("FindYearByID", suite.ctx, yearID).Return(year, nil).Once()
	suite.mockFiscalRepo.On("ListPeriodsByYear", suite.ctx, yearID).Return(periods, nil).Once()

	err := suite.fiscalService.CloseYear(suite.ctx, yearID, suite.testUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrEntryState)
	suite.Contains(err.Error(), "period 2")
	suite.mockFiscalRepo.AssertNotCalled(suite.T(), "CloseYear", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *FiscalServiceTestSuite) TestCloseYear_Success() {
	yearID := uuid.NewString()
	year := &domain.FiscalYear{FiscalYearID: yearID, Name: "FY2025"}
	periods := []domain.FiscalPeriod{
		{PeriodNumber: 1, Status: domain.PeriodClosed},
		{PeriodNumber: 2, Status: domain.PeriodArchived},
	}

	suite.mockFiscalRepo.On("FindYearByID", suite.ctx, yearID).Return(year, nil).Once()
	suite.mockFiscalRepo.On("ListPeriodsByYear", suite.ctx, yearID).Return(periods, nil).Once()
	suite.mockFiscalRepo.On("CloseYear", suite.ctx, yearID, suite.testUserID, mock.AnythingOfType("time.Time")).
		Return(nil).Once()

	err := suite.fiscalService.CloseYear(suite.ctx, yearID, suite.testUserID)

	suite.Require().NoError(err)
	suite.mockFiscalRepo.AssertExpectations(suite.T())
}

func (suite *FiscalServiceTestSuite) TestCloseYear_AlreadyClosed() {
	yearID := uuid.NewString()
	year := &domain.FiscalYear{FiscalYearID: yearID, Name: "FY2024", IsClosed: true}

	suite.mockFiscalRepo.On("FindYearByID", suite.ctx, yearID).Return(year, nil).Once()

	err := suite.fiscalService.CloseYear(suite.ctx, yearID, suite.testUserID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrEntryState)
}

func TestFiscalService(t *testing.T) {
	suite.Run(t, new(FiscalServiceTestSuite))
}
