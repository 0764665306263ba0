package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/SscSPs/estate_management_app/internal/core/accrual"
	portssvc "github.com/SscSPs/estate_management_app/internal/core/ports/services"
	"github.com/SscSPs/estate_management_app/internal/core/services"
	"github.com/SscSPs/estate_management_app/internal/platform/config"
	"github.com/SscSPs/estate_management_app/internal/platform/events"
	"github.com/SscSPs/estate_management_app/internal/platform/lock"
	"github.com/SscSPs/estate_management_app/internal/repositories/database/pgsql"
	"github.com/SscSPs/estate_management_app/pkg/database"
	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
)

// app holds the process-wide dependencies shared by every subcommand.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	pool     *pgxpool.Pool
	services *portssvc.ServiceContainer

	redis    *redis.Client
	producer events.Publisher
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newLogger(level string) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLogLevel(level)}))
	slog.SetDefault(logger)
	return logger
}

// loadConfig reads configuration and builds the logger from it.
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, newLogger(cfg.LogLevel), nil
}

// bootstrap connects to the database and optional infrastructure and builds the services.
func bootstrap(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, logger)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, pool: pool}

	plans, err := services.NewPlanCatalog(cfg.PaymentPlans)
	if err != nil {
		a.close()
		return nil, fmt.Errorf("invalid payment plans: %w", err)
	}

	infra := services.Infrastructure{
		Clock: accrual.SystemClock{},
		Plans: plans,
	}

	if cfg.RedisAddr != "" {
		client, err := lock.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			a.close()
			return nil, err
		}
		a.redis = client
		infra.SweepLock = lock.NewRedisLease(client, lock.SweepLockKey, cfg.SweepLockTTL)
		logger.Info("Sweep lease backed by Redis", slog.String("addr", cfg.RedisAddr))
	} else {
		infra.SweepLock = lock.NewLocalLease()
		logger.Info("Redis not configured, sweep lease is process-local")
	}

	if cfg.AMQPURL != "" {
		producer, err := events.NewEventProducer(cfg.AMQPURL)
		if err != nil {
			a.close()
			return nil, err
		}
		a.producer = producer
		logger.Info("Accrual events published to RabbitMQ", slog.String("exchange", cfg.AMQPExchange))
	} else {
		a.producer = &events.EventProducerFallback{Logger: logger}
		logger.Info("AMQP not configured, accrual events are dropped")
	}
	infra.Publisher = events.NewAccrualPublisher(a.producer, cfg.AMQPExchange)

	a.services = services.NewServiceContainer(cfg, pgsql.NewRepositoryProvider(pool), infra)
	return a, nil
}

func (a *app) close() {
	if a.producer != nil {
		a.producer.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("Error closing Redis client", slog.String("error", err.Error()))
		}
	}
	database.ClosePgxPool(a.pool, a.logger)
}
