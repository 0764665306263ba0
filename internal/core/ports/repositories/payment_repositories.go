package repositories

import (
	"context"

	"github.com/SscSPs/estate_management_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// PaymentReader defines read operations for confirmed payments
type PaymentReader interface {
	// FindPaymentByGatewayReference returns apperrors.ErrNotFound when no payment carries ref.
	FindPaymentByGatewayReference(ctx context.Context, ref string) (*domain.Payment, error)

	// ListPaymentsByAccount lists an account's payments, most recent first.
	ListPaymentsByAccount(ctx context.Context, accountID string, limit int, offset int) ([]domain.Payment, error)
}

// PaymentWriter defines write operations for confirmed payments
type PaymentWriter interface {
	// SavePaymentInTx records a payment. A reused gateway reference yields apperrors.ErrDuplicate.
	SavePaymentInTx(ctx context.Context, tx pgx.Tx, payment domain.Payment) error
}

// PaymentRepositoryFacade combines all payment-related repository interfaces
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentWriter
}
