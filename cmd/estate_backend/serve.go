package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/SscSPs/estate_management_app/internal/handlers"
	"github.com/SscSPs/estate_management_app/internal/jobs"
	"github.com/SscSPs/estate_management_app/internal/middleware"
	"github.com/SscSPs/estate_management_app/internal/platform/config"
	"github.com/SscSPs/estate_management_app/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations, start the HTTP API and the accrual sweep scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	if err := database.RunMigrations(cfg.DatabaseURL, database.DefaultMigrationsPath, logger); err != nil {
		return err
	}

	a, err := bootstrap(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.close()

	router, err := newRouter(a)
	if err != nil {
		return err
	}

	var scheduler *jobs.Scheduler
	if cfg.SweepEnabled {
		scheduler = jobs.NewScheduler(jobs.NewJobs(ctx, a.services.Sweep, logger), logger, cfg.SweepCron)
		if err := scheduler.Start(); err != nil {
			return err
		}
	} else {
		logger.Info("Scheduled accrual sweep disabled")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed to run: %w", err)
		}
	case <-ctx.Done():
		logger.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if scheduler != nil {
		select {
		case <-scheduler.Stop().Done():
		case <-shutdownCtx.Done():
			logger.Warn("Timed out waiting for running sweep to stop")
		}
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Server stopped")
	return nil
}

// newRouter builds the gin engine with global middleware and all routes.
func newRouter(a *app) (*gin.Engine, error) {
	cfg := a.cfg
	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.StructuredLoggingMiddleware(a.logger), gin.Recovery(), middleware.PrometheusMiddleware())
	r.Use(cors.New(corsConfig(cfg)))

	if err := r.SetTrustedProxies(nil); err != nil {
		return nil, fmt.Errorf("failed to set trusted proxies: %w", err)
	}

	if cfg.RateLimit != "" {
		globalLimiter, err := middleware.NewIPRateLimiter(cfg.RateLimit)
		if err != nil {
			return nil, err
		}
		r.Use(middleware.RateLimit(globalLimiter))
	}

	var paymentLimiter gin.HandlerFunc
	if cfg.PaymentRateLimit != "" {
		l, err := middleware.NewIPRateLimiter(cfg.PaymentRateLimit)
		if err != nil {
			return nil, err
		}
		paymentLimiter = middleware.RateLimit(l)
	}

	handlers.RegisterRoutes(r, cfg, a.services, paymentLimiter)
	return r, nil
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-Request-ID")
	corsCfg.ExposeHeaders = []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"}
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
		corsCfg.AllowCredentials = true
	}
	return corsCfg
}
