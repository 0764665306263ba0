package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/SscSPs/estate_management_app/internal/apperrors"
	"github.com/SscSPs/estate_management_app/internal/core/accrual"
	"github.com/SscSPs/estate_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/estate_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/estate_management_app/internal/core/ports/services"
	"github.com/SscSPs/estate_management_app/internal/platform/metrics"
)

const (
	// creditAttempts is how many times a credit transaction runs before a version conflict is reported.
	creditAttempts = 2

	// eligibilityAttempts is how many cache writes an eligibility check makes before giving up.
	eligibilityAttempts = 2
)

// accrualService wraps the accrual engine with persistence.
type accrualService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryWithTx
	publisher   portssvc.AccrualEventPublisher
}

// AccrualServiceOption is a functional option for configuring the accrual service
type AccrualServiceOption func(*accrualService)

// WithAccrualClock sets the clock evaluations run against.
func WithAccrualClock(clock accrual.Clock) AccrualServiceOption {
	return func(s *accrualService) {
		s.Clock = clock
	}
}

// WithAccrualEventPublisher sets where status flips are announced.
func WithAccrualEventPublisher(publisher portssvc.AccrualEventPublisher) AccrualServiceOption {
	return func(s *accrualService) {
		s.publisher = publisher
	}
}

// NewAccrualService creates a new accrual service with the provided options
func NewAccrualService(repo portsrepo.AccountRepositoryWithTx, options ...AccrualServiceOption) portssvc.AccrualSvcFacade {
	svc := &accrualService{accountRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccrualSvcFacade = (*accrualService)(nil)

func (s *accrualService) GetPaymentStatus(ctx context.Context, accountID string) (*domain.PaymentStatus, error) {
	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	status, err := accrual.Evaluate(*account, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to evaluate payment status", slog.String("account_id", accountID))
		return nil, err
	}
	return &status, nil
}

func (s *accrualService) RecomputeAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	updated, _, err := refreshAccrualCache(ctx, &s.BaseService, s.accountRepo, s.publisher, *account, s.Now())
	if err != nil {
		s.LogError(ctx, err, "Failed to recompute accrual", slog.String("account_id", accountID))
		return nil, err
	}
	return &updated, nil
}

func (s *accrualService) CreditPayment(ctx context.Context, accountID string, monthsPurchased int) (*domain.Account, error) {
	return s.CreditPaymentWithHook(ctx, accountID, monthsPurchased, nil)
}

func (s *accrualService) CreditPaymentWithHook(ctx context.Context, accountID string, monthsPurchased int, hook portssvc.CreditHook) (*domain.Account, error) {
	if monthsPurchased <= 0 {
		err := fmt.Errorf("%w: months purchased must be positive, got %d", apperrors.ErrValidation, monthsPurchased)
		s.LogError(ctx, err, "Rejected credit", slog.String("account_id", accountID))
		return nil, err
	}

	var (
		updated domain.Account
		changed bool
		err     error
	)
	for attempt := 1; attempt <= creditAttempts; attempt++ {
		updated, changed, err = s.creditOnce(ctx, accountID, monthsPurchased, hook)
		if !errors.Is(err, apperrors.ErrConcurrentModification) {
			break
		}
		s.LogWarn(ctx, err, "Credit hit a version conflict",
			slog.String("account_id", accountID),
			slog.Int("attempt", attempt))
	}
	if err != nil {
		metrics.CreditsTotal.WithLabelValues("error").Inc()
		s.LogError(ctx, err, "Failed to credit payment",
			slog.String("account_id", accountID),
			slog.Int("months_purchased", monthsPurchased))
		return nil, err
	}

	metrics.CreditsTotal.WithLabelValues("success").Inc()
	s.LogInfo(ctx, "Payment credited",
		slog.String("account_id", accountID),
		slog.Int("months_purchased", monthsPurchased),
		slog.Int("months_credited", updated.PaymentMonthsCredited),
		slog.Bool("is_current", updated.Accrual.IsCurrent))
	if changed {
		publishStatusChanged(ctx, &s.BaseService, s.publisher, updated, s.Now())
	}
	return &updated, nil
}

// creditOnce runs one lock-credit-recompute-save transaction.
func (s *accrualService) creditOnce(ctx context.Context, accountID string, monthsPurchased int, hook portssvc.CreditHook) (domain.Account, bool, error) {
	tx, err := s.accountRepo.Begin(ctx)
	if err != nil {
		return domain.Account{}, false, apperrors.NewAppError(http.StatusInternalServerError, "failed to begin transaction", err)
	}
	defer func() {
		if rbErr := s.accountRepo.Rollback(ctx, tx); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to roll back credit transaction", slog.String("account_id", accountID))
		}
	}()

	locked, err := s.accountRepo.FindAccountByIDForUpdate(ctx, tx, accountID)
	if err != nil {
		return domain.Account{}, false, err
	}
	credited, err := accrual.Credit(*locked, monthsPurchased)
	if err != nil {
		return domain.Account{}, false, err
	}
	now := s.Now()
	updated, changed, err := accrual.Recompute(credited, now)
	if err != nil {
		return domain.Account{}, false, err
	}
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = accountID

	if err := s.accountRepo.UpdateAccountPaymentInTx(ctx, tx, updated); err != nil {
		return domain.Account{}, false, wrapStoreError(err, "saving credited account")
	}
	updated.Version++

	if hook != nil {
		if err := hook(ctx, tx, updated); err != nil {
			return domain.Account{}, false, err
		}
	}

	if err := s.accountRepo.Commit(ctx, tx); err != nil {
		return domain.Account{}, false, fmt.Errorf("%w: committing credit: %w", apperrors.ErrPersistence, err)
	}
	return updated, changed, nil
}

func (s *accrualService) CheckEligibility(ctx context.Context, accountID string) (*domain.EligibilityDecision, error) {
	account, err := s.findAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}
	now := s.Now()

	if account.IsExempt() {
		status, _ := accrual.Evaluate(*account, now)
		metrics.EligibilityDecisionsTotal.WithLabelValues("exempt").Inc()
		return &domain.EligibilityDecision{AccountID: accountID, Allowed: true, Status: status}, nil
	}

	status, err := s.refreshForDecision(ctx, *account, now)
	if err != nil {
		metrics.EligibilityDecisionsTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	decision := &domain.EligibilityDecision{
		AccountID: accountID,
		Allowed:   status.CanAccessPaidFeatures,
		Status:    status,
	}
	if !decision.Allowed {
		decision.Reason = status.Message
		metrics.EligibilityDecisionsTotal.WithLabelValues("denied").Inc()
	} else {
		metrics.EligibilityDecisionsTotal.WithLabelValues("allowed").Inc()
	}
	return decision, nil
}

// refreshForDecision persists a fresh snapshot and evaluates the account it was computed from.
// A version conflict reloads the account and tries once more; any other write failure is returned.
func (s *accrualService) refreshForDecision(ctx context.Context, account domain.Account, now time.Time) (domain.PaymentStatus, error) {
	for attempt := 1; ; attempt++ {
		status, err := accrual.Evaluate(account, now)
		if err != nil {
			s.LogError(ctx, err, "Cannot decide eligibility", slog.String("account_id", account.AccountID))
			return domain.PaymentStatus{}, err
		}

		_, _, err = refreshAccrualCache(ctx, &s.BaseService, s.accountRepo, s.publisher, account, now)
		if err == nil {
			return status, nil
		}
		if !errors.Is(err, apperrors.ErrConcurrentModification) || attempt == eligibilityAttempts {
			if !errors.Is(err, apperrors.ErrPersistence) {
				err = fmt.Errorf("%w: %w", apperrors.ErrPersistence, err)
			}
			s.LogError(ctx, err, "Could not persist accrual cache during eligibility check",
				slog.String("account_id", account.AccountID),
				slog.Int("attempt", attempt))
			return domain.PaymentStatus{}, err
		}

		s.LogWarn(ctx, err, "Eligibility check hit a version conflict, reloading",
			slog.String("account_id", account.AccountID))
		reloaded, err := s.findAccount(ctx, account.AccountID)
		if err != nil {
			return domain.PaymentStatus{}, err
		}
		account = *reloaded
	}
}

func (s *accrualService) findAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load account", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// refreshAccrualCache recomputes account as of now and writes the snapshot under its version guard.
// The returned account carries the bumped version.
func refreshAccrualCache(ctx context.Context, base *BaseService, repo portsrepo.AccountWriter, publisher portssvc.AccrualEventPublisher, account domain.Account, now time.Time) (domain.Account, bool, error) {
	updated, changed, err := accrual.Recompute(account, now)
	if err != nil {
		return account, false, err
	}
	if err := repo.UpdateAccrualCache(ctx, updated); err != nil {
		return account, false, wrapStoreError(err, "updating accrual cache")
	}
	updated.Version++
	if changed {
		publishStatusChanged(ctx, base, publisher, updated, now)
	}
	return updated, changed, nil
}

// publishStatusChanged announces a flip. Failures are logged only.
func publishStatusChanged(ctx context.Context, base *BaseService, publisher portssvc.AccrualEventPublisher, account domain.Account, now time.Time) {
	if publisher == nil {
		return
	}
	event := domain.AccrualStatusChanged{
		AccountID: account.AccountID,
		IsCurrent: account.Accrual.IsCurrent,
		CheckedAt: now,
	}
	if status, err := accrual.Evaluate(account, now); err == nil {
		event.MonthsBehind = status.MonthsBehind
	}
	if err := publisher.PublishStatusChanged(ctx, event); err != nil {
		metrics.StatusEventsTotal.WithLabelValues("error").Inc()
		base.LogWarn(ctx, err, "Failed to publish accrual status change",
			slog.String("account_id", account.AccountID))
		return
	}
	metrics.StatusEventsTotal.WithLabelValues("published").Inc()
}

// wrapStoreError tags store write failures with ErrPersistence, leaving version conflicts
// and not-found distinguishable.
func wrapStoreError(err error, op string) error {
	if errors.Is(err, apperrors.ErrConcurrentModification) || errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", apperrors.ErrPersistence, op, err)
}

