package repositories

import (
	"context"

	"github.com/SscSPs/estate_management_app/internal/core/domain"
)

// SweepRunRepository stores summaries of accrual sweeps.
type SweepRunRepository interface {
	SaveSweepRun(ctx context.Context, run domain.SweepRun) error

	// FindLatestSweepRun returns apperrors.ErrNotFound when no sweep has run yet.
	FindLatestSweepRun(ctx context.Context) (*domain.SweepRun, error)
}
