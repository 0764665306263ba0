package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/estate_management_app/internal/apperrors"
	"github.com/SscSPs/estate_management_app/internal/core/domain"
	portsrepo "github.com/SscSPs/estate_management_app/internal/core/ports/repositories"
	"github.com/SscSPs/estate_management_app/internal/models"
	"github.com/SscSPs/estate_management_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxSweepRunRepository struct {
	pool *pgxpool.Pool
}

func newPgxSweepRunRepository(pool *pgxpool.Pool) *PgxSweepRunRepository {
	return &PgxSweepRunRepository{pool: pool}
}

var _ portsrepo.SweepRunRepository = (*PgxSweepRunRepository)(nil)

// SaveSweepRun records a finished sweep.
func (r *PgxSweepRunRepository) SaveSweepRun(ctx context.Context, run domain.SweepRun) error {
	m := mapping.ToModelSweepRun(run)
	query := `
		INSERT INTO accrual_sweep_runs (run_id, trigger, checked, changed, errors, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	if _, err := r.pool.Exec(ctx, query, m.RunID, m.Trigger, m.Checked, m.Changed, m.Errors, m.StartedAt, m.FinishedAt); err != nil {
		return fmt.Errorf("failed to save sweep run %s: %w", m.RunID, err)
	}
	return nil
}

// FindLatestSweepRun retrieves the most recently started sweep.
func (r *PgxSweepRunRepository) FindLatestSweepRun(ctx context.Context) (*domain.SweepRun, error) {
	query := `
		SELECT run_id, trigger, checked, changed, errors, started_at, finished_at
		FROM accrual_sweep_runs
		ORDER BY started_at DESC
		LIMIT 1;
	`
	var m models.SweepRun
	err := r.pool.QueryRow(ctx, query).Scan(&m.RunID, &m.Trigger, &m.Checked, &m.Changed, &m.Errors, &m.StartedAt, &m.FinishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find latest sweep run: %w", err)
	}
	run := mapping.ToDomainSweepRun(m)
	return &run, nil
}
