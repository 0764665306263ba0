package main

import (
	"context"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/SscSPs/estate_management_app/internal/core/domain"
	"github.com/SscSPs/estate_management_app/internal/middleware"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the monthly accrual sweep once and exit",
	Long: `Re-evaluates every non-exempt account, persists flipped statuses and records the run.
Exits non-zero if the sweep is aborted or another replica holds the sweep lease.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		cfg, logger, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := bootstrap(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer a.close()

		return runSweepOnce(ctx, a)
	},
}

func runSweepOnce(ctx context.Context, a *app) error {
	logger := a.logger.With(slog.String("job", "accrual_sweep"), slog.String("trigger", string(domain.SweepTriggerCLI)))
	ctx = middleware.WithLogger(ctx, logger)

	result, err := a.services.Sweep.RunMonthlyCheck(ctx, domain.SweepTriggerCLI)
	if err != nil {
		return fmt.Errorf("accrual sweep failed: %w", err)
	}
	logger.Info("Accrual sweep finished",
		slog.Int("checked", result.Checked),
		slog.Int("changed", result.Changed),
		slog.Int("errors", result.Errors),
		slog.Duration("elapsed", result.FinishedAt.Sub(result.StartedAt)))
	return nil
}
