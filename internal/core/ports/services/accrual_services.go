package services

import (
	"context"

	"github.com/SscSPs/estate_management_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// CreditHook runs inside a payment credit transaction after the account row is locked
// and credited, before commit. Returning an error rolls the credit back.
type CreditHook func(ctx context.Context, tx pgx.Tx, credited domain.Account) error

// AccrualReaderSvc defines read-only accrual operations
type AccrualReaderSvc interface {
	// GetPaymentStatus evaluates the account's standing as of now without writing anything.
	GetPaymentStatus(ctx context.Context, accountID string) (*domain.PaymentStatus, error)
}

// AccrualWriterSvc defines operations that persist accrual state
type AccrualWriterSvc interface {
	// RecomputeAccount refreshes and persists the cached accrual snapshot.
	RecomputeAccount(ctx context.Context, accountID string) (*domain.Account, error)

	// CreditPayment adds monthsPurchased to the account under a row lock and recomputes.
	CreditPayment(ctx context.Context, accountID string, monthsPurchased int) (*domain.Account, error)

	// CreditPaymentWithHook is CreditPayment with hook run in the same transaction.
	CreditPaymentWithHook(ctx context.Context, accountID string, monthsPurchased int, hook CreditHook) (*domain.Account, error)
}

// EligibilitySvc gates privileged actions (e.g. visitor-token issuance) on payment standing
type EligibilitySvc interface {
	// CheckEligibility recomputes the account before deciding; a stale cache is never used.
	CheckEligibility(ctx context.Context, accountID string) (*domain.EligibilityDecision, error)
}

// AccrualSvcFacade combines all accrual-related service interfaces
type AccrualSvcFacade interface {
	AccrualReaderSvc
	AccrualWriterSvc
	EligibilitySvc
}

// SweepSvc runs the batch accrual check over all non-exempt accounts
type SweepSvc interface {
	RunMonthlyCheck(ctx context.Context, trigger domain.SweepTrigger) (*domain.SweepResult, error)
}
