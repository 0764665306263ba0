package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/SscSPs/estate_management_app/internal/apperrors"
	"github.com/SscSPs/estate_management_app/internal/core/accrual"
	"github.com/SscSPs/estate_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/estate_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/estate_management_app/internal/core/ports/services"
	"github.com/SscSPs/estate_management_app/internal/platform/metrics"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	defaultSweepWorkers       = 8
	defaultSweepPageSize      = 500
	defaultSweepRecordTimeout = 5 * time.Second
)

// sweepService walks every non-exempt account and refreshes its accrual cache.
type sweepService struct {
	BaseService
	accountRepo   portsrepo.AccountRepositoryFacade
	sweepRepo     portsrepo.SweepRunRepository
	publisher     portssvc.AccrualEventPublisher
	locker        portssvc.SweepLocker
	workers       int
	pageSize      int
	recordTimeout time.Duration
}

// SweepServiceOption is a functional option for configuring the sweep service
type SweepServiceOption func(*sweepService)

// WithSweepClock sets the clock evaluations run against.
func WithSweepClock(clock accrual.Clock) SweepServiceOption {
	return func(s *sweepService) {
		s.Clock = clock
	}
}

// WithSweepWorkers bounds how many accounts are processed at once.
func WithSweepWorkers(n int) SweepServiceOption {
	return func(s *sweepService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// WithSweepPageSize sets how many accounts are fetched per keyset page.
func WithSweepPageSize(n int) SweepServiceOption {
	return func(s *sweepService) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithSweepRecordTimeout bounds the time spent on a single account.
func WithSweepRecordTimeout(d time.Duration) SweepServiceOption {
	return func(s *sweepService) {
		if d > 0 {
			s.recordTimeout = d
		}
	}
}

// WithSweepLocker makes sweeps take a lease first, so replicas never overlap.
func WithSweepLocker(locker portssvc.SweepLocker) SweepServiceOption {
	return func(s *sweepService) {
		s.locker = locker
	}
}

// WithSweepEventPublisher sets where status flips are announced.
func WithSweepEventPublisher(publisher portssvc.AccrualEventPublisher) SweepServiceOption {
	return func(s *sweepService) {
		s.publisher = publisher
	}
}

// NewSweepService creates a new sweep service with the provided options
func NewSweepService(accountRepo portsrepo.AccountRepositoryFacade, sweepRepo portsrepo.SweepRunRepository, options ...SweepServiceOption) portssvc.SweepSvc {
	svc := &sweepService{
		accountRepo:   accountRepo,
		sweepRepo:     sweepRepo,
		workers:       defaultSweepWorkers,
		pageSize:      defaultSweepPageSize,
		recordTimeout: defaultSweepRecordTimeout,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

var _ portssvc.SweepSvc = (*sweepService)(nil)

type sweepCounters struct {
	checked atomic.Int64
	changed atomic.Int64
	errors  atomic.Int64
}

// RunMonthlyCheck recomputes every non-exempt account. Per-account failures are counted,
// never fatal. Cancelling ctx stops the sweep after the page in flight.
func (s *sweepService) RunMonthlyCheck(ctx context.Context, trigger domain.SweepTrigger) (*domain.SweepResult, error) {
	if s.locker != nil {
		acquired, err := s.locker.TryLock(ctx)
		if err != nil {
			s.LogError(ctx, err, "Failed to acquire sweep lease")
			return nil, fmt.Errorf("acquiring sweep lease: %w", err)
		}
		if !acquired {
			s.LogInfo(ctx, "Sweep skipped, lease held elsewhere", slog.String("trigger", string(trigger)))
			metrics.SweepRunsTotal.WithLabelValues(string(trigger), "skipped").Inc()
			return nil, apperrors.ErrSweepInProgress
		}
		defer func() {
			if err := s.locker.Unlock(context.WithoutCancel(ctx)); err != nil {
				s.LogError(ctx, err, "Failed to release sweep lease")
			}
		}()
	}

	s.LogInfo(ctx, "Accrual sweep started",
		slog.String("trigger", string(trigger)),
		slog.Int("workers", s.workers),
		slog.Int("page_size", s.pageSize))

	startedAt := s.Now()
	var counters sweepCounters
	outcome := "completed"
	var fetchErr error

	var cursor *portsrepo.AccountCursor
	for {
		if ctx.Err() != nil {
			outcome = "interrupted"
			break
		}
		page, err := s.accountRepo.FindAccountsPage(ctx, portsrepo.AccountPageQuery{
			After:         cursor,
			Limit:         s.pageSize,
			NonExemptOnly: true,
		})
		if err != nil {
			if ctx.Err() != nil {
				outcome = "interrupted"
				break
			}
			fetchErr = fmt.Errorf("%w: fetching sweep page: %w", apperrors.ErrPersistence, err)
			outcome = "failed"
			break
		}
		if len(page) == 0 {
			break
		}

		s.processPage(ctx, page, startedAt, &counters)

		last := page[len(page)-1]
		cursor = &portsrepo.AccountCursor{RegisteredAt: last.RegisteredAt, AccountID: last.AccountID}
		if len(page) < s.pageSize {
			break
		}
	}

	result := domain.SweepResult{
		Checked:    int(counters.checked.Load()),
		Changed:    int(counters.changed.Load()),
		Errors:     int(counters.errors.Load()),
		StartedAt:  startedAt,
		FinishedAt: s.Now(),
	}

	run := domain.SweepRun{RunID: uuid.NewString(), Trigger: trigger, SweepResult: result}
	if err := s.sweepRepo.SaveSweepRun(context.WithoutCancel(ctx), run); err != nil {
		s.LogError(ctx, err, "Failed to record sweep run", slog.String("run_id", run.RunID))
	}

	metrics.SweepRunsTotal.WithLabelValues(string(trigger), outcome).Inc()
	metrics.SweepDuration.Observe(result.FinishedAt.Sub(result.StartedAt).Seconds())

	if fetchErr != nil {
		s.LogError(ctx, fetchErr, "Accrual sweep aborted",
			slog.Int("checked", result.Checked),
			slog.Int("errors", result.Errors))
		return &result, fetchErr
	}
	s.LogInfo(ctx, "Accrual sweep finished",
		slog.String("outcome", outcome),
		slog.Int("checked", result.Checked),
		slog.Int("changed", result.Changed),
		slog.Int("errors", result.Errors),
		slog.Duration("duration", result.FinishedAt.Sub(result.StartedAt)))
	return &result, nil
}

// processPage evaluates every record of page as of now.
func (s *sweepService) processPage(ctx context.Context, page []domain.Account, now time.Time, counters *sweepCounters) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, account := range page {
		account := account
		g.Go(func() error {
			s.processRecord(gctx, account, now, counters)
			return nil
		})
	}
	_ = g.Wait()
}

func (s *sweepService) processRecord(ctx context.Context, account domain.Account, now time.Time, counters *sweepCounters) {
	recordCtx, cancel := context.WithTimeout(ctx, s.recordTimeout)
	defer cancel()

	counters.checked.Add(1)
	_, changed, err := refreshAccrualCache(recordCtx, &s.BaseService, s.accountRepo, s.publisher, account, now)
	if err != nil {
		counters.errors.Add(1)
		metrics.SweepRecordsTotal.WithLabelValues("error").Inc()
		attrs := []any{slog.String("account_id", account.AccountID)}
		if errors.Is(err, context.DeadlineExceeded) {
			attrs = append(attrs, slog.Duration("timeout", s.recordTimeout))
		}
		s.LogWarn(ctx, err, "Sweep skipped account", attrs...)
		return
	}
	if changed {
		counters.changed.Add(1)
		metrics.SweepRecordsTotal.WithLabelValues("changed").Inc()
		return
	}
	metrics.SweepRecordsTotal.WithLabelValues("unchanged").Inc()
}
