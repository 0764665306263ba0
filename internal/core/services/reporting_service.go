package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/estate_management_app/internal/apperrors"
	"github.com/SscSPs/estate_management_app/internal/core/accrual"
	"github.com/SscSPs/estate_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/estate_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/estate_management_app/internal/core/ports/services"
	"github.com/shopspring/decimal"
)

const reportingPageSize = 1000

// reportingService implements the ReportingService interface
type reportingService struct {
	BaseService
	accountRepo portsrepo.AccountReader
	sweepRepo   portsrepo.SweepRunRepository
}

// ReportingServiceOption is a functional option for configuring the reporting service
type ReportingServiceOption func(*reportingService)

// WithReportingClock sets the clock evaluations run against.
func WithReportingClock(clock accrual.Clock) ReportingServiceOption {
	return func(s *reportingService) {
		s.Clock = clock
	}
}

// NewReportingService creates a new reporting service with the provided options
func NewReportingService(accountRepo portsrepo.AccountReader, sweepRepo portsrepo.SweepRunRepository, options ...ReportingServiceOption) portssvc.ReportingService {
	svc := &reportingService{
		accountRepo: accountRepo,
		sweepRepo:   sweepRepo,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// GetAccrualStatistics evaluates every account live rather than trusting cached flags.
func (s *reportingService) GetAccrualStatistics(ctx context.Context) (*domain.AccrualStatistics, error) {
	now := s.Now()
	stats := &domain.AccrualStatistics{AverageMonthsCredited: decimal.Zero}
	creditedTotal := 0
	nonExempt := 0

	var cursor *portsrepo.AccountCursor
	for {
		page, err := s.accountRepo.FindAccountsPage(ctx, portsrepo.AccountPageQuery{After: cursor, Limit: reportingPageSize})
		if err != nil {
			s.LogError(ctx, err, "Failed to page accounts for statistics")
			return nil, err
		}
		for _, account := range page {
			stats.TotalAccounts++
			status, err := accrual.Evaluate(account, now)
			if err != nil {
				stats.InvalidCount++
				s.LogDebug(ctx, "Skipping account with invalid accrual data",
					slog.String("account_id", account.AccountID),
					slog.String("error", err.Error()))
				continue
			}
			if status.Exempt {
				stats.ExemptCount++
				stats.CurrentCount++
				continue
			}
			nonExempt++
			creditedTotal += account.PaymentMonthsCredited
			if status.IsCurrent {
				stats.CurrentCount++
			} else {
				stats.BehindCount++
			}
		}
		if len(page) < reportingPageSize {
			break
		}
		last := page[len(page)-1]
		cursor = &portsrepo.AccountCursor{RegisteredAt: last.RegisteredAt, AccountID: last.AccountID}
	}

	if nonExempt > 0 {
		stats.AverageMonthsCredited = decimal.NewFromInt(int64(creditedTotal)).
			Div(decimal.NewFromInt(int64(nonExempt))).
			Round(2)
	}

	s.LogDebug(ctx, "Accrual statistics computed",
		slog.Int("total", stats.TotalAccounts),
		slog.Int("behind", stats.BehindCount),
		slog.Int("invalid", stats.InvalidCount))
	return stats, nil
}

func (s *reportingService) GetLatestSweepRun(ctx context.Context) (*domain.SweepRun, error) {
	run, err := s.sweepRepo.FindLatestSweepRun(ctx)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load latest sweep run")
		}
		return nil, err
	}
	return run, nil
}
