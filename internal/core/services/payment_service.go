package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/SscSPs/estate_management_app/internal/apperrors"
	"github.com/SscSPs/estate_management_app/internal/core/accrual"
	"github.com/SscSPs/estate_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/estate_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/estate_management_app/internal/core/ports/services"
	"github.com/SscSPs/estate_management_app/internal/dto"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// paymentService turns confirmed gateway payments into credited months.
type paymentService struct {
	BaseService
	paymentRepo portsrepo.PaymentRepositoryFacade
	accrualSvc  portssvc.AccrualSvcFacade
	catalog     *PlanCatalog
}

// PaymentServiceOption is a functional option for configuring the payment service
type PaymentServiceOption func(*paymentService)

// WithPaymentClock sets the clock used to stamp confirmations.
func WithPaymentClock(clock accrual.Clock) PaymentServiceOption {
	return func(s *paymentService) {
		s.Clock = clock
	}
}

// NewPaymentService creates a new payment service with the provided options
func NewPaymentService(paymentRepo portsrepo.PaymentRepositoryFacade, accrualSvc portssvc.AccrualSvcFacade, catalog *PlanCatalog, options ...PaymentServiceOption) portssvc.PaymentSvc {
	svc := &paymentService{
		paymentRepo: paymentRepo,
		accrualSvc:  accrualSvc,
		catalog:     catalog,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.PaymentSvc = (*paymentService)(nil)

// ConfirmPayment credits the plan's months once per gateway reference. A redelivered
// reference returns the original payment with Duplicate set.
func (s *paymentService) ConfirmPayment(ctx context.Context, req dto.ConfirmPaymentRequest) (*domain.PaymentConfirmation, error) {
	plan, err := s.catalog.Lookup(req.PlanCode)
	if err != nil {
		s.LogError(ctx, err, "Payment for unknown plan",
			slog.String("plan_code", req.PlanCode),
			slog.String("gateway_reference", req.GatewayReference))
		return nil, err
	}
	if !req.Amount.Equal(plan.Price) || !strings.EqualFold(req.Currency, plan.Currency) {
		err := fmt.Errorf("%w: paid %s %s does not match plan %q price %s %s", apperrors.ErrValidation,
			req.Amount.String(), req.Currency, plan.Code, plan.Price.String(), plan.Currency)
		s.LogError(ctx, err, "Payment amount mismatch",
			slog.String("account_id", req.AccountID),
			slog.String("gateway_reference", req.GatewayReference))
		return nil, err
	}

	existing, err := s.paymentRepo.FindPaymentByGatewayReference(ctx, req.GatewayReference)
	switch {
	case err == nil:
		return s.duplicateConfirmation(ctx, req, existing)
	case !errors.Is(err, apperrors.ErrNotFound):
		s.LogError(ctx, err, "Failed to check gateway reference", slog.String("gateway_reference", req.GatewayReference))
		return nil, err
	}

	now := s.Now()
	payment := domain.Payment{
		PaymentID:        uuid.NewString(),
		AccountID:        req.AccountID,
		PlanCode:         plan.Code,
		MonthsPurchased:  plan.Months,
		Amount:           req.Amount,
		Currency:         plan.Currency,
		GatewayReference: req.GatewayReference,
		ConfirmedAt:      now,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     req.AccountID,
			LastUpdatedAt: now,
			LastUpdatedBy: req.AccountID,
		},
	}

	recordPayment := func(ctx context.Context, tx pgx.Tx, _ domain.Account) error {
		return s.paymentRepo.SavePaymentInTx(ctx, tx, payment)
	}
	account, err := s.accrualSvc.CreditPaymentWithHook(ctx, req.AccountID, plan.Months, recordPayment)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			// Lost a race with a concurrent delivery of the same reference.
			existing, findErr := s.paymentRepo.FindPaymentByGatewayReference(ctx, req.GatewayReference)
			if findErr == nil {
				return s.duplicateConfirmation(ctx, req, existing)
			}
		}
		s.LogError(ctx, err, "Failed to confirm payment",
			slog.String("account_id", req.AccountID),
			slog.String("gateway_reference", req.GatewayReference))
		return nil, err
	}

	status, err := accrual.Evaluate(*account, s.Now())
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "Payment confirmed",
		slog.String("payment_id", payment.PaymentID),
		slog.String("account_id", payment.AccountID),
		slog.String("plan_code", payment.PlanCode),
		slog.Int("months_purchased", payment.MonthsPurchased))
	return &domain.PaymentConfirmation{Payment: payment, Status: status}, nil
}

func (s *paymentService) duplicateConfirmation(ctx context.Context, req dto.ConfirmPaymentRequest, existing *domain.Payment) (*domain.PaymentConfirmation, error) {
	if existing.AccountID != req.AccountID {
		err := fmt.Errorf("%w: gateway reference %q belongs to another account", apperrors.ErrDuplicate, req.GatewayReference)
		s.LogError(ctx, err, "Gateway reference reused across accounts",
			slog.String("account_id", req.AccountID),
			slog.String("original_account_id", existing.AccountID))
		return nil, err
	}
	s.LogInfo(ctx, "Duplicate payment confirmation ignored",
		slog.String("payment_id", existing.PaymentID),
		slog.String("gateway_reference", existing.GatewayReference))

	confirmation := &domain.PaymentConfirmation{Payment: *existing, Duplicate: true}
	if status, err := s.accrualSvc.GetPaymentStatus(ctx, req.AccountID); err == nil {
		confirmation.Status = *status
	}
	return confirmation, nil
}

func (s *paymentService) ListPayments(ctx context.Context, accountID string, limit int, offset int) ([]domain.Payment, error) {
	payments, err := s.paymentRepo.ListPaymentsByAccount(ctx, accountID, limit, offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list payments", slog.String("account_id", accountID))
		return nil, err
	}
	return payments, nil
}
