// Package jobs runs the scheduled accrual work.
package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/SscSPs/estate_management_app/internal/apperrors"
	"github.com/SscSPs/estate_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/estate_management_app/internal/core/ports/services"
	"github.com/SscSPs/estate_management_app/internal/middleware"
)

// Jobs contains the logic for all scheduled tasks.
type Jobs struct {
	baseCtx context.Context
	sweep   portssvc.SweepSvc
	logger  *slog.Logger
}

// NewJobs creates a job runner. Cancelling baseCtx interrupts jobs in flight.
func NewJobs(baseCtx context.Context, sweep portssvc.SweepSvc, logger *slog.Logger) *Jobs {
	return &Jobs{baseCtx: baseCtx, sweep: sweep, logger: logger}
}

// RunAccrualSweep refreshes the accrual cache of every non-exempt account.
func (j *Jobs) RunAccrualSweep() {
	logger := j.logger.With(slog.String("job", "accrual_sweep"))
	ctx := middleware.WithLogger(j.baseCtx, logger)

	logger.Info("starting accrual sweep job")
	result, err := j.sweep.RunMonthlyCheck(ctx, domain.SweepTriggerCron)
	if errors.Is(err, apperrors.ErrSweepInProgress) {
		logger.Info("accrual sweep job skipped, another replica holds the lease")
		return
	}
	if err != nil {
		logger.Error("accrual sweep job failed", slog.String("error", err.Error()))
		return
	}
	logger.Info("accrual sweep job finished",
		slog.Int("checked", result.Checked),
		slog.Int("changed", result.Changed),
		slog.Int("errors", result.Errors))
}
