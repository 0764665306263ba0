package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"time"

	"github.com/SscSPs/estate_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/estate_management_app/internal/core/ports/services"
	"github.com/SscSPs/estate_management_app/internal/dto"
	"github.com/SscSPs/estate_management_app/internal/handlers"
	"github.com/SscSPs/estate_management_app/internal/middleware"
	"github.com/SscSPs/estate_management_app/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
)

const testJWTSecret = "test-secret-key-that-is-long-enough"

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	args := m.Called(ctx, req, creatorUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ListAccountsResponse), args.Error(1)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock AccrualService ---
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

var _ portssvc.AccrualSvcFacade = (*MockAccrualService)(nil)

// --- Mock PaymentService ---
type MockPaymentService struct {
	mock.Mock
}

func (m *MockPaymentService) ConfirmPayment(ctx context.Context, req dto.ConfirmPaymentRequest) (*domain.PaymentConfirmation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentConfirmation), args.Error(1)
}

func (m *MockPaymentService) ListPayments(ctx context.Context, accountID string, limit int, offset int) ([]domain.Payment, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Payment), args.Error(1)
}

var _ portssvc.PaymentSvc = (*MockPaymentService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) GetAccrualStatistics(ctx context.Context) (*domain.AccrualStatistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AccrualStatistics), args.Error(1)
}

func (m *MockReportingService) GetLatestSweepRun(ctx context.Context) (*domain.SweepRun, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SweepRun), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Mock SweepService ---
type MockSweepService struct {
	mock.Mock
}

func (m *MockSweepService) RunMonthlyCheck(ctx context.Context, trigger domain.SweepTrigger) (*domain.SweepResult, error) {
	args := m.Called(ctx, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SweepResult), args.Error(1)
}

var _ portssvc.SweepSvc = (*MockSweepService)(nil)

// testServices bundles the mocks behind a router wired like the real /api/v1 group.
type testServices struct {
	account   *MockAccountService
	accrual   *MockAccrualService
	payment   *MockPaymentService
	reporting *MockReportingService
	sweep     *MockSweepService
	router    *gin.Engine
}

func newTestServices() *testServices {
	gin.SetMode(gin.TestMode)
	ts := &testServices{
		account:   new(MockAccountService),
		accrual:   new(MockAccrualService),
		payment:   new(MockPaymentService),
		reporting: new(MockReportingService),
		sweep:     new(MockSweepService),
		router:    gin.New(),
	}
	handlers.RegisterValidators()
	v1 := ts.router.Group("/api/v1", middleware.AuthMiddleware(testJWTSecret))
	handlers.RegisterAccountRoutes(v1, ts.account)
	handlers.RegisterAccrualRoutes(v1, ts.accrual)
	handlers.RegisterPaymentRoutes(v1, ts.payment, nil)
	handlers.RegisterReportingRoutes(v1, ts.reporting)
	handlers.RegisterAdminRoutes(v1, ts.sweep)
	return ts
}

// generateTestToken creates a signed JWT for the given account and role.
func generateTestToken(accountID string, role domain.Role) string {
	signed, err := utils.GenerateJWT(accountID, role, testJWTSecret, time.Hour, "estate-test")
	if err != nil {
		panic(err)
	}
	return signed
}

func (ts *testServices) do(method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}
