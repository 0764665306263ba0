package events

import (
	"context"

	"github.com/SscSPs/estate_management_app/internal/core/domain"
	portssvc "github.com/SscSPs/estate_management_app/internal/core/ports/services"
)

// RoutingKeyStatusChanged is published whenever an account's IsCurrent flips.
const RoutingKeyStatusChanged = "accrual.status_changed"

// AccrualPublisher sends accrual events to one exchange.
type AccrualPublisher struct {
	publisher Publisher
	exchange  string
}

// NewAccrualPublisher creates an accrual publisher on exchange.
func NewAccrualPublisher(publisher Publisher, exchange string) *AccrualPublisher {
	return &AccrualPublisher{publisher: publisher, exchange: exchange}
}

var _ portssvc.AccrualEventPublisher = (*AccrualPublisher)(nil)

func (p *AccrualPublisher) PublishStatusChanged(ctx context.Context, event domain.AccrualStatusChanged) error {
	return p.publisher.Publish(ctx, p.exchange, RoutingKeyStatusChanged, event)
}
