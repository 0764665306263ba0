package services

import (
	"context"

	"github.com/SscSPs/estate_management_app/internal/core/domain"
)

// AccrualEventPublisher announces accrual status flips to downstream consumers
// (notifications, gate devices).
type AccrualEventPublisher interface {
	PublishStatusChanged(ctx context.Context, event domain.AccrualStatusChanged) error
}

// SweepLocker is a lease that keeps concurrent sweeps from overlapping.
type SweepLocker interface {
	// TryLock reports false without error when another holder has the lease.
	TryLock(ctx context.Context) (bool, error)
	Unlock(ctx context.Context) error
}
