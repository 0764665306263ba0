package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/SscSPs/estate_management_app/internal/apperrors"
	"github.com/SscSPs/estate_management_app/internal/core/accrual"
	"github.com/SscSPs/estate_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/estate_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/estate_management_app/internal/core/ports/services"
	"github.com/SscSPs/estate_management_app/internal/dto"
	"github.com/google/uuid"
)

// accountService registers and looks up estate accounts.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountClock overrides the clock used to stamp registration time.
func WithAccountClock(clock accrual.Clock) AccountServiceOption {
	return func(s *accountService) {
		s.Clock = clock
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{accountRepo: repo}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	if !req.Role.IsValid() {
		err := fmt.Errorf("%w: unknown role %q", apperrors.ErrValidation, req.Role)
		s.LogError(ctx, err, "Rejected account with unknown role", slog.String("role", string(req.Role)))
		return nil, err
	}

	now := s.Now()
	account := domain.Account{
		AccountID:             uuid.NewString(),
		Name:                  req.Name,
		Email:                 req.Email,
		Unit:                  req.Unit,
		Role:                  req.Role,
		RegisteredAt:          now,
		PaymentMonthsCredited: 0,
		Accrual:               domain.AccrualSnapshot{IsCurrent: false},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "Failed to save account",
			slog.String("account_id", account.AccountID),
			slog.String("email", account.Email))
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("role", string(account.Role)))
	return &account, nil
}

func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	return account, nil
}

// ListAccounts returns one page of accounts in registration order.
func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) (*dto.ListAccountsResponse, error) {
	var token *string
	if params.NextToken != "" {
		token = &params.NextToken
	}
	accounts, nextToken, err := s.accountRepo.ListAccounts(ctx, params.Limit, token)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			s.LogWarn(ctx, err, "Rejected account page token")
		} else {
			s.LogError(ctx, err, "Failed to list accounts", slog.Int("limit", params.Limit))
		}
		return nil, err
	}
	return &dto.ListAccountsResponse{
		Accounts:  dto.ToListAccountResponse(accounts),
		NextToken: nextToken,
	}, nil
}
