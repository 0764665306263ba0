package services

import (
	"context"

	"github.com/SscSPs/estate_management_app/internal/core/domain"
	"github.com/SscSPs/estate_management_app/internal/dto"
)

// PaymentSvc is the payment-confirmation collaborator: it maps a purchased plan to months
// and credits the account exactly once per gateway reference.
type PaymentSvc interface {
	ConfirmPayment(ctx context.Context, req dto.ConfirmPaymentRequest) (*domain.PaymentConfirmation, error)
	ListPayments(ctx context.Context, accountID string, limit int, offset int) ([]domain.Payment, error)
}
