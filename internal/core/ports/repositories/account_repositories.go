package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/estate_management_app/internal/core/domain"
	"github.com/jackc/pgx/v5"
)

// AccountCursor is a keyset position in the (registered_at, account_id) ordering.
type AccountCursor struct {
	RegisteredAt time.Time
	AccountID    string
}

// AccountPageQuery selects one keyset page of accounts ordered by (registered_at, account_id).
type AccountPageQuery struct {
	After         *AccountCursor // nil starts from the beginning
	Limit         int
	NonExemptOnly bool
}

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccounts retrieves one page in registration order. nextToken is nil on the last page.
	ListAccounts(ctx context.Context, limit int, nextToken *string) ([]domain.Account, *string, error)

	// FindAccountsPage retrieves a keyset page. Restartable from any cursor.
	FindAccountsPage(ctx context.Context, query AccountPageQuery) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccrualCache writes the accrual snapshot only, guarded by account.Version.
	// Returns apperrors.ErrConcurrentModification when the stored version differs.
	// On success the stored version is account.Version+1.
	UpdateAccrualCache(ctx context.Context, account domain.Account) error
}

// AccountTransactionSupport defines operations that support account transactions
type AccountTransactionSupport interface {
	// FindAccountByIDForUpdate selects an account and locks its row within a transaction.
	FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error)

	// UpdateAccountPaymentInTx writes credited months and the accrual snapshot, guarded by account.Version.
	UpdateAccountPaymentInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error
}

// AccountRepositoryFacade combines all account-related repository interfaces
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}

// AccountRepositoryWithTx extends AccountRepositoryFacade with transaction capabilities
type AccountRepositoryWithTx interface {
	AccountRepositoryFacade
	TransactionManager
}
