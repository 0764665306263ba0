package services_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/estate_management_app/internal/apperrors"
	"github.com/SscSPs/estate_management_app/internal/core/accrual"
	"github.com/SscSPs/estate_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/estate_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/estate_management_app/internal/core/ports/services"
	"github.com/SscSPs/estate_management_app/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

func firstPage(q portsrepo.AccountPageQuery) bool {
	return q.After == nil && q.NonExemptOnly
}

func pageAfter(id string) func(portsrepo.AccountPageQuery) bool {
	return func(q portsrepo.AccountPageQuery) bool {
		return q.After != nil && q.After.AccountID == id && q.NonExemptOnly
	}
}

func accountWithID(id string) func(domain.Account) bool {
	return func(a domain.Account) bool { return a.AccountID == id }
}

type SweepServiceTestSuite struct {
	suite.Suite
	mockRepo   *MockAccountRepository
	mockRuns   *MockSweepRunRepository
	mockLocker *MockSweepLocker
}

func (suite *SweepServiceTestSuite) SetupTest() {
	suite.mockRepo = new(MockAccountRepository)
	suite.mockRuns = new(MockSweepRunRepository)
	suite.mockLocker = new(MockSweepLocker)
}

func (suite *SweepServiceTestSuite) newService(opts ...services.SweepServiceOption) portssvc.SweepSvc {
	base := []services.SweepServiceOption{
		services.WithSweepClock(accrual.FixedClock{At: testNow}),
		services.WithSweepPageSize(2),
		services.WithSweepWorkers(2),
	}
	return services.NewSweepService(suite.mockRepo, suite.mockRuns, append(base, opts...)...)
}

func (suite *SweepServiceTestSuite) TestRunMonthlyCheck_CountsAcrossPages() {
	ctx := context.Background()

	flipping := resident("a", 1, 1) // owes 2, cached current
	flipping.Accrual.IsCurrent = true
	steady := resident("b", 0, 1) // owes 1, cached current
	steady.Accrual.IsCurrent = true
	failing := resident("c", 0, 0)

	suite.mockRepo.On("FindAccountsPage", mock.Anything, mock.MatchedBy(firstPage)).
		Return([]domain.Account{*flipping, *steady}, nil).Once()
	suite.mockRepo.On("FindAccountsPage", mock.Anything, mock.MatchedBy(pageAfter("b"))).
		Return([]domain.Account{*failing}, nil).Once()

	suite.mockRepo.On("UpdateAccrualCache", mock.Anything, mock.MatchedBy(accountWithID("a"))).Return(nil).Once()
	suite.mockRepo.On("UpdateAccrualCache", mock.Anything, mock.MatchedBy(accountWithID("b"))).Return(nil).Once()
	suite.mockRepo.On("UpdateAccrualCache", mock.Anything, mock.MatchedBy(accountWithID("c"))).Return(assert.AnError).Once()

	suite.mockRuns.On("SaveSweepRun", mock.Anything, mock.MatchedBy(func(r domain.SweepRun) bool {
		return r.Trigger == domain.SweepTriggerManual && r.Checked == 3 && r.Changed == 1 && r.Errors == 1 && r.RunID != ""
	})).Return(nil).Once()

	result, err := suite.newService().RunMonthlyCheck(ctx, domain.SweepTriggerManual)

	suite.Require().NoError(err)
	suite.Equal(3, result.Checked)
	suite.Equal(1, result.Changed)
	suite.Equal(1, result.Errors)
	suite.Equal(testNow, result.StartedAt)
	suite.mockRepo.AssertExpectations(suite.T())
	suite.mockRuns.AssertExpectations(suite.T())
}

func (suite *SweepServiceTestSuite) TestRunMonthlyCheck_OneInstantForWholeSweep() {
	ctx := context.Background()

	// Every read of this clock is one second later than the previous one.
	var ticks atomic.Int64
	ticking := accrual.ClockFunc(func() time.Time {
		return testNow.Add(time.Duration(ticks.Add(1)-1) * time.Second)
	})

	suite.mockRepo.On("FindAccountsPage", mock.Anything, mock.MatchedBy(firstPage)).
		Return([]domain.Account{*resident("a", 1, 1), *resident("b", 0, 1)}, nil).Once()
	suite.mockRepo.On("FindAccountsPage", mock.Anything, mock.MatchedBy(pageAfter("b"))).
		Return([]domain.Account{*resident("c", 2, 0)}, nil).Once()
	suite.mockRepo.On("UpdateAccrualCache", mock.Anything, mock.MatchedBy(func(a domain.Account) bool {
		return a.Accrual.LastCheckedAt != nil && a.Accrual.LastCheckedAt.Equal(testNow)
	})).Return(nil).Times(3)
	suite.mockRuns.On("SaveSweepRun", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.newService(services.WithSweepClock(ticking)).RunMonthlyCheck(ctx, domain.SweepTriggerCron)

	suite.Require().NoError(err)
	suite.Equal(3, result.Checked)
	suite.Zero(result.Errors)
	suite.Equal(testNow, result.StartedAt)
	suite.mockRepo.AssertExpectations(suite.T())
}

func (suite *SweepServiceTestSuite) TestRunMonthlyCheck_InvalidRecordIsSkipped() {
	ctx := context.Background()
	broken := domain.Account{AccountID: "broken", Role: domain.RoleResident}

	suite.mockRepo.On("FindAccountsPage", mock.Anything, mock.MatchedBy(firstPage)).
		Return([]domain.Account{broken}, nil).Once()
	suite.mockRuns.On("SaveSweepRun", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.newService().RunMonthlyCheck(ctx, domain.SweepTriggerCLI)

	suite.Require().NoError(err)
	suite.Equal(1, result.Checked)
	suite.Equal(1, result.Errors)
	suite.mockRepo.AssertNotCalled(suite.T(), "UpdateAccrualCache", mock.Anything, mock.Anything)
}

func (suite *SweepServiceTestSuite) TestRunMonthlyCheck_RecordTimeout() {
	ctx := context.Background()
	slow := resident("slow", 0, 0)

	suite.mockRepo.On("FindAccountsPage", mock.Anything, mock.MatchedBy(firstPage)).
		Return([]domain.Account{*slow}, nil).Once()
	suite.mockRepo.On("UpdateAccrualCache", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(context.DeadlineExceeded).Once()
	suite.mockRuns.On("SaveSweepRun", mock.Anything, mock.Anything).Return(nil).Once()

	svc := suite.newService(services.WithSweepRecordTimeout(20 * time.Millisecond))
	result, err := svc.RunMonthlyCheck(ctx, domain.SweepTriggerCron)

	suite.Require().NoError(err)
	suite.Equal(1, result.Errors)
	suite.Equal(0, result.Changed)
}

func (suite *SweepServiceTestSuite) TestRunMonthlyCheck_CancelledBeforeStart() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	suite.mockRuns.On("SaveSweepRun", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.newService().RunMonthlyCheck(ctx, domain.SweepTriggerCron)

	suite.Require().NoError(err)
	suite.Equal(0, result.Checked)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindAccountsPage", mock.Anything, mock.Anything)
}

func (suite *SweepServiceTestSuite) TestRunMonthlyCheck_PageFetchFailure() {
	suite.mockRepo.On("FindAccountsPage", mock.Anything, mock.Anything).Return(nil, assert.AnError).Once()
	suite.mockRuns.On("SaveSweepRun", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := suite.newService().RunMonthlyCheck(context.Background(), domain.SweepTriggerCron)

	suite.ErrorIs(err, apperrors.ErrPersistence)
	suite.Require().NotNil(result)
	suite.Equal(0, result.Checked)
	suite.mockRuns.AssertExpectations(suite.T())
}

func (suite *SweepServiceTestSuite) TestRunMonthlyCheck_RunRecordFailureIsNotFatal() {
	suite.mockRepo.On("FindAccountsPage", mock.Anything, mock.Anything).Return([]domain.Account{}, nil).Once()
	suite.mockRuns.On("SaveSweepRun", mock.Anything, mock.Anything).Return(assert.AnError).Once()

	result, err := suite.newService().RunMonthlyCheck(context.Background(), domain.SweepTriggerCron)

	suite.Require().NoError(err)
	suite.Equal(0, result.Checked)
}

func (suite *SweepServiceTestSuite) TestRunMonthlyCheck_LeaseHeldElsewhere() {
	suite.mockLocker.On("TryLock", mock.Anything).Return(false, nil).Once()

	result, err := suite.newService(services.WithSweepLocker(suite.mockLocker)).
		RunMonthlyCheck(context.Background(), domain.SweepTriggerCron)

	suite.Nil(result)
	suite.ErrorIs(err, apperrors.ErrSweepInProgress)
	suite.mockRepo.AssertNotCalled(suite.T(), "FindAccountsPage", mock.Anything, mock.Anything)
	suite.mockLocker.AssertNotCalled(suite.T(), "Unlock", mock.Anything)
}

func (suite *SweepServiceTestSuite) TestRunMonthlyCheck_ReleasesLease() {
	suite.mockLocker.On("TryLock", mock.Anything).Return(true, nil).Once()
	suite.mockLocker.On("Unlock", mock.Anything).Return(nil).Once()
	suite.mockRepo.On("FindAccountsPage", mock.Anything, mock.Anything).Return([]domain.Account{}, nil).Once()
	suite.mockRuns.On("SaveSweepRun", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := suite.newService(services.WithSweepLocker(suite.mockLocker)).
		RunMonthlyCheck(context.Background(), domain.SweepTriggerManual)

	suite.Require().NoError(err)
	suite.mockLocker.AssertExpectations(suite.T())
}

func (suite *SweepServiceTestSuite) TestRunMonthlyCheck_LeaseError() {
	suite.mockLocker.On("TryLock", mock.Anything).Return(false, assert.AnError).Once()

	_, err := suite.newService(services.WithSweepLocker(suite.mockLocker)).
		RunMonthlyCheck(context.Background(), domain.SweepTriggerCron)

	suite.ErrorIs(err, assert.AnError)
}

func TestSweepServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SweepServiceTestSuite))
}
