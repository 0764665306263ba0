package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/estate_management_app/internal/apperrors"
	"github.com/SscSPs/estate_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/estate_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/estate_management_app/internal/models"
	"github.com/SscSPs/estate_management_app/internal/utils/mapping"
	"github.com/SscSPs/estate_management_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const accountColumns = `account_id, name, email, unit, role, registered_at, payment_months_credited,
	is_current, last_accrual_check_at, version, created_at, created_by, last_updated_at, last_updated_by`

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AccountRepositoryWithTx = (*PgxAccountRepository)(nil)

func scanAccount(row pgx.Row) (domain.Account, error) {
	var m models.Account
	err := row.Scan(
		&m.AccountID,
		&m.Name,
		&m.Email,
		&m.Unit,
		&m.Role,
		&m.RegisteredAt,
		&m.PaymentMonthsCredited,
		&m.IsCurrent,
		&m.LastAccrualCheckAt,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m), nil
}

func collectAccounts(rows pgx.Rows) ([]domain.Account, error) {
	defer rows.Close()
	accounts := []domain.Account{}
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// SaveAccount inserts a new account.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.AccountID,
		m.Name,
		m.Email,
		m.Unit,
		m.Role,
		m.RegisteredAt,
		m.PaymentMonthsCredited,
		m.IsCurrent,
		m.LastAccrualCheckAt,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account with ID %s or email %s already exists", apperrors.ErrDuplicate, m.AccountID, m.Email)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return findAccount(ctx, r.Pool, accountID, "")
}

// FindAccountByIDForUpdate retrieves an account and holds its row lock until tx ends.
func (r *PgxAccountRepository) FindAccountByIDForUpdate(ctx context.Context, tx pgx.Tx, accountID string) (*domain.Account, error) {
	return findAccount(ctx, tx, accountID, " FOR UPDATE")
}

func findAccount(ctx context.Context, q querier, accountID, lockClause string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = $1` + lockClause + `;`
	account, err := scanAccount(q.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return &account, nil
}

// ListAccounts retrieves one page of accounts in registration order using token-based pagination.
// The returned token is nil on the last page.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context, limit int, nextToken *string) ([]domain.Account, *string, error) {
	q := portsrepo.AccountPageQuery{Limit: limit}
	if nextToken != nil && *nextToken != "" {
		registeredAt, accountID, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %w", apperrors.ErrValidation, err)
		}
		q.After = &portsrepo.AccountCursor{RegisteredAt: registeredAt, AccountID: accountID}
	}

	accounts, err := r.FindAccountsPage(ctx, q)
	if err != nil {
		return nil, nil, err
	}

	var nextTokenVal *string
	if limit > 0 && len(accounts) == limit {
		last := accounts[len(accounts)-1]
		token := pagination.EncodeToken(last.RegisteredAt, last.AccountID)
		nextTokenVal = &token
	}
	return accounts, nextTokenVal, nil
}

// FindAccountsPage retrieves one keyset page ordered by (registered_at, account_id).
func (r *PgxAccountRepository) FindAccountsPage(ctx context.Context, q portsrepo.AccountPageQuery) ([]domain.Account, error) {
	query, args := buildAccountPageQuery(q)
	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query account page: %w", err)
	}
	return collectAccounts(rows)
}

func buildAccountPageQuery(q portsrepo.AccountPageQuery) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	if q.After != nil {
		args = append(args, q.After.RegisteredAt, q.After.AccountID)
		conditions = append(conditions, fmt.Sprintf("(registered_at, account_id) > ($%d, $%d)", len(args)-1, len(args)))
	}
	if q.NonExemptOnly {
		args = append(args, string(domain.RoleSuperAdmin))
		conditions = append(conditions, fmt.Sprintf("role <> $%d", len(args)))
	}

	var sb strings.Builder
	sb.WriteString("SELECT " + accountColumns + " FROM accounts")
	if len(conditions) > 0 {
		sb.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}
	args = append(args, q.Limit)
	sb.WriteString(fmt.Sprintf(" ORDER BY registered_at, account_id LIMIT $%d;", len(args)))
	return sb.String(), args
}

// UpdateAccrualCache writes the accrual snapshot if the stored version still matches.
func (r *PgxAccountRepository) UpdateAccrualCache(ctx context.Context, account domain.Account) error {
	query := `
		UPDATE accounts
		SET is_current = $2, last_accrual_check_at = $3, version = version + 1
		WHERE account_id = $1 AND version = $4;
	`
	tag, err := r.Pool.Exec(ctx, query,
		account.AccountID,
		account.Accrual.IsCurrent,
		account.Accrual.LastCheckedAt,
		account.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update accrual cache for account %s: %w", account.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.versionMismatch(ctx, r.Pool, account)
	}
	return nil
}

// UpdateAccountPaymentInTx writes credited months and the accrual snapshot within tx.
func (r *PgxAccountRepository) UpdateAccountPaymentInTx(ctx context.Context, tx pgx.Tx, account domain.Account) error {
	query := `
		UPDATE accounts
		SET payment_months_credited = $2, is_current = $3, last_accrual_check_at = $4,
			last_updated_at = $5, last_updated_by = $6, version = version + 1
		WHERE account_id = $1 AND version = $7;
	`
	tag, err := tx.Exec(ctx, query,
		account.AccountID,
		account.PaymentMonthsCredited,
		account.Accrual.IsCurrent,
		account.Accrual.LastCheckedAt,
		account.LastUpdatedAt,
		account.LastUpdatedBy,
		account.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update payment for account %s: %w", account.AccountID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.versionMismatch(ctx, tx, account)
	}
	return nil
}

// versionMismatch distinguishes a vanished row from a concurrent writer.
func (r *PgxAccountRepository) versionMismatch(ctx context.Context, q querier, account domain.Account) error {
	var current int64
	err := q.QueryRow(ctx, `SELECT version FROM accounts WHERE account_id = $1;`, account.AccountID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to read version of account %s: %w", account.AccountID, err)
	}
	return fmt.Errorf("%w: account %s is at version %d, expected %d", apperrors.ErrConcurrentModification, account.AccountID, current, account.Version)
}
