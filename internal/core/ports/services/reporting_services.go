package services

import (
	"context"

	"github.com/SscSPs/estate_management_app/internal/core/domain"
)

// ReportingService defines operations for accrual dashboards
type ReportingService interface {
	// GetAccrualStatistics folds a live evaluation over every account.
	GetAccrualStatistics(ctx context.Context) (*domain.AccrualStatistics, error)

	// GetLatestSweepRun returns the summary of the most recent sweep.
	GetLatestSweepRun(ctx context.Context) (*domain.SweepRun, error)
}
