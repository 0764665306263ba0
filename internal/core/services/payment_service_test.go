package services_test

import (
	"context"
	"testing"

	"github.com/SscSPs/estate_management_app/internal/apperrors"
	"github.com/SscSPs/estate_management_app/internal/core/accrual"
	"github.com/SscSPs/estate_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/estate_management_app/internal/core/ports/services"
	"github.com/SscSPs/estate_management_app/internal/core/services"
	"github.com/SscSPs/estate_management_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// MockAccrualService is a mock type for the AccrualSvcFacade interface
type MockAccrualService struct {
	mock.Mock
}

func (m *MockAccrualService) GetPaymentStatus(ctx context.Context, accountID string) (*domain.PaymentStatus, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentStatus), args.Error(1)
}

func (m *MockAccrualService) RecomputeAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccrualService) CreditPayment(ctx context.Context, accountID string, monthsPurchased int) (*domain.Account, error) {
	args := m.Called(ctx, accountID, monthsPurchased)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccrualService) CreditPaymentWithHook(ctx context.Context, accountID string, monthsPurchased int, hook portssvc.CreditHook) (*domain.Account, error) {
	args := m.Called(ctx, accountID, monthsPurchased, hook)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccrualService) CheckEligibility(ctx context.Context, accountID string) (*domain.EligibilityDecision, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EligibilityDecision), args.Error(1)
}

func testCatalog(t require.TestingT) *services.PlanCatalog {
	catalog, err := services.NewPlanCatalog([]domain.PaymentPlan{
		{Code: "MONTHLY", Months: 1, Price: decimal.NewFromInt(5000), Currency: "NGN"},
		{Code: "QUARTERLY", Months: 3, Price: decimal.NewFromInt(14000), Currency: "NGN"},
	})
	require.NoError(t, err)
	return catalog
}

type PaymentServiceTestSuite struct {
	suite.Suite
	mockPayments *MockPaymentRepository
	mockAccrual  *MockAccrualService
	service      portssvc.PaymentSvc
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.mockPayments = new(MockPaymentRepository)
	suite.mockAccrual = new(MockAccrualService)
	suite.service = services.NewPaymentService(
		suite.mockPayments,
		suite.mockAccrual,
		testCatalog(suite.T()),
		services.WithPaymentClock(accrual.FixedClock{At: testNow}),
	)
}

func quarterlyRequest() dto.ConfirmPaymentRequest {
	return dto.ConfirmPaymentRequest{
		AccountID:        "acc-1",
		PlanCode:         "QUARTERLY",
		Amount:           decimal.RequireFromString("14000.00"),
		Currency:         "ngn",
		GatewayReference: "gw-123",
	}
}

func (suite *PaymentServiceTestSuite) TestConfirmPayment_CreditsPlanMonths() {
	ctx := context.Background()
	req := quarterlyRequest()

	credited := resident("acc-1", 2, 3)
	credited.Accrual.IsCurrent = true

	suite.mockPayments.On("FindPaymentByGatewayReference", ctx, "gw-123").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockPayments.On("SavePaymentInTx", ctx, mock.Anything, mock.MatchedBy(func(p domain.Payment) bool {
		return p.AccountID == "acc-1" && p.MonthsPurchased == 3 && p.GatewayReference == "gw-123" &&
			p.Currency == "NGN" && p.ConfirmedAt.Equal(testNow)
	})).Return(nil).Once()
	suite.mockAccrual.On("CreditPaymentWithHook", ctx, "acc-1", 3, mock.Anything).
		Run(func(args mock.Arguments) {
			hook := args.Get(3).(portssvc.CreditHook)
			suite.Require().NoError(hook(ctx, nil, *credited))
		}).
		Return(credited, nil).Once()

	confirmation, err := suite.service.ConfirmPayment(ctx, req)

	suite.Require().NoError(err)
	suite.False(confirmation.Duplicate)
	suite.Equal(3, confirmation.Payment.MonthsPurchased)
	suite.True(confirmation.Status.IsCurrent)
	suite.Equal("exactly up to date", confirmation.Status.Message)
	suite.mockPayments.AssertExpectations(suite.T())
	suite.mockAccrual.AssertExpectations(suite.T())
}

func (suite *PaymentServiceTestSuite) TestConfirmPayment_RedeliveryIsIdempotent() {
	ctx := context.Background()
	existing := &domain.Payment{PaymentID: "pay-1", AccountID: "acc-1", GatewayReference: "gw-123", MonthsPurchased: 3}
	status := &domain.PaymentStatus{AccountID: "acc-1", IsCurrent: true}

	suite.mockPayments.On("FindPaymentByGatewayReference", ctx, "gw-123").Return(existing, nil).Once()
	suite.mockAccrual.On("GetPaymentStatus", ctx, "acc-1").Return(status, nil).Once()

	confirmation, err := suite.service.ConfirmPayment(ctx, quarterlyRequest())

	suite.Require().NoError(err)
	suite.True(confirmation.Duplicate)
	suite.Equal("pay-1", confirmation.Payment.PaymentID)
	suite.mockAccrual.AssertNotCalled(suite.T(), "CreditPaymentWithHook", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *PaymentServiceTestSuite) TestConfirmPayment_LostRaceReturnsOriginal() {
	ctx := context.Background()
	existing := &domain.Payment{PaymentID: "pay-1", AccountID: "acc-1", GatewayReference: "gw-123"}

	suite.mockPayments.On("FindPaymentByGatewayReference", ctx, "gw-123").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccrual.On("CreditPaymentWithHook", ctx, "acc-1", 3, mock.Anything).Return(nil, apperrors.ErrDuplicate).Once()
	suite.mockPayments.On("FindPaymentByGatewayReference", ctx, "gw-123").Return(existing, nil).Once()
	suite.mockAccrual.On("GetPaymentStatus", ctx, "acc-1").Return(nil, apperrors.ErrNotFound).Once()

	confirmation, err := suite.service.ConfirmPayment(ctx, quarterlyRequest())

	suite.Require().NoError(err)
	suite.True(confirmation.Duplicate)
}

func (suite *PaymentServiceTestSuite) TestConfirmPayment_ReferenceOwnedByAnotherAccount() {
	ctx := context.Background()
	existing := &domain.Payment{PaymentID: "pay-9", AccountID: "acc-other", GatewayReference: "gw-123"}
	suite.mockPayments.On("FindPaymentByGatewayReference", ctx, "gw-123").Return(existing, nil).Once()

	confirmation, err := suite.service.ConfirmPayment(ctx, quarterlyRequest())

	suite.Nil(confirmation)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
}

func (suite *PaymentServiceTestSuite) TestConfirmPayment_Rejections() {
	tests := []struct {
		name   string
		mutate func(*dto.ConfirmPaymentRequest)
	}{
		{name: "unknown plan", mutate: func(r *dto.ConfirmPaymentRequest) { r.PlanCode = "LIFETIME" }},
		{name: "underpaid", mutate: func(r *dto.ConfirmPaymentRequest) { r.Amount = decimal.NewFromInt(13999) }},
		{name: "wrong currency", mutate: func(r *dto.ConfirmPaymentRequest) { r.Currency = "USD" }},
	}
	for _, tt := range tests {
		suite.Run(tt.name, func() {
			suite.SetupTest()
			req := quarterlyRequest()
			tt.mutate(&req)

			confirmation, err := suite.service.ConfirmPayment(context.Background(), req)

			suite.Nil(confirmation)
			suite.ErrorIs(err, apperrors.ErrValidation)
			suite.mockPayments.AssertNotCalled(suite.T(), "FindPaymentByGatewayReference", mock.Anything, mock.Anything)
		})
	}
}

func (suite *PaymentServiceTestSuite) TestConfirmPayment_CreditFailure() {
	ctx := context.Background()
	suite.mockPayments.On("FindPaymentByGatewayReference", ctx, "gw-123").Return(nil, apperrors.ErrNotFound).Once()
	suite.mockAccrual.On("CreditPaymentWithHook", ctx, "acc-1", 3, mock.Anything).Return(nil, apperrors.ErrPersistence).Once()

	confirmation, err := suite.service.ConfirmPayment(ctx, quarterlyRequest())

	suite.Nil(confirmation)
	suite.ErrorIs(err, apperrors.ErrPersistence)
}

func (suite *PaymentServiceTestSuite) TestListPayments() {
	ctx := context.Background()
	payments := []domain.Payment{{PaymentID: "p1"}, {PaymentID: "p2"}}
	suite.mockPayments.On("ListPaymentsByAccount", ctx, "acc-1", 10, 0).Return(payments, nil).Once()

	got, err := suite.service.ListPayments(ctx, "acc-1", 10, 0)

	suite.Require().NoError(err)
	suite.Len(got, 2)
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
