package services

import (
	"github.com/SscSPs/estate_management_app/internal/core/accrual"
	portsrepo "github.com/SscSPs/estate_management_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/estate_management_app/internal/core/ports/services"
	"github.com/SscSPs/estate_management_app/internal/platform/config"
)

// Infrastructure carries the adapters services need beyond repositories.
// Nil fields fall back to no-op behaviour.
type Infrastructure struct {
	Clock     accrual.Clock
	Publisher portssvc.AccrualEventPublisher
	SweepLock portssvc.SweepLocker
	Plans     *PlanCatalog
}

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider, infra Infrastructure) *portssvc.ServiceContainer {
	clock := infra.Clock
	if clock == nil {
		clock = accrual.SystemClock{}
	}

	container := &portssvc.ServiceContainer{}

	container.Account = NewAccountService(repos.AccountRepo, WithAccountClock(clock))

	container.Accrual = NewAccrualService(
		repos.AccountRepo,
		WithAccrualClock(clock),
		WithAccrualEventPublisher(infra.Publisher),
	)

	container.Sweep = NewSweepService(
		repos.AccountRepo,
		repos.SweepRunRepo,
		WithSweepClock(clock),
		WithSweepWorkers(cfg.SweepWorkers),
		WithSweepPageSize(cfg.SweepPageSize),
		WithSweepRecordTimeout(cfg.SweepRecordTimeout),
		WithSweepLocker(infra.SweepLock),
		WithSweepEventPublisher(infra.Publisher),
	)

	container.Payment = NewPaymentService(repos.PaymentRepo, container.Accrual, infra.Plans, WithPaymentClock(clock))

	container.Reporting = NewReportingService(repos.AccountRepo, repos.SweepRunRepo, WithReportingClock(clock))

	return container
}
