package pgsql

import (
	portsrepo "github.com/SscSPs/estate_management_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		AccountRepo:  newPgxAccountRepository(dbPool),
		PaymentRepo:  newPgxPaymentRepository(dbPool),
		SweepRunRepo: newPgxSweepRunRepository(dbPool),
	}
}
