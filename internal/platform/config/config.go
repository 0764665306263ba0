package config

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/SscSPs/estate_management_app/internal/core/domain"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	defaultJWTSecret    = "a-very-secret-key-should-be-longer-and-random"
	defaultPaymentPlans = `[
		{"code":"MONTHLY","months":1,"price":"5000","currency":"NGN"},
		{"code":"QUARTERLY","months":3,"price":"14000","currency":"NGN"},
		{"code":"YEARLY","months":12,"price":"50000","currency":"NGN"}
	]`
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool
	LogLevel      string
	JWTSecret     string

	CORSAllowedOrigins []string
	RateLimit          string // ulule/limiter format, e.g. "100-M"
	PaymentRateLimit   string

	// Accrual sweep
	SweepEnabled       bool
	SweepCron          string
	SweepWorkers       int
	SweepPageSize      int
	SweepRecordTimeout time.Duration
	SweepLockTTL       time.Duration

	// Optional infrastructure; empty disables it
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	AMQPURL       string
	AMQPExchange  string

	PaymentPlans []domain.PaymentPlan
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("PAYMENT_RATE_LIMIT", "30-M")
	viper.SetDefault("SWEEP_ENABLED", true)
	viper.SetDefault("SWEEP_CRON", "0 2 * * *")
	viper.SetDefault("SWEEP_WORKERS", 8)
	viper.SetDefault("SWEEP_PAGE_SIZE", 500)
	viper.SetDefault("SWEEP_RECORD_TIMEOUT", "5s")
	viper.SetDefault("SWEEP_LOCK_TTL", "30m")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("AMQP_URL", "")
	viper.SetDefault("AMQP_EXCHANGE", "estate.accrual")
	viper.SetDefault("PAYMENT_PLANS", defaultPaymentPlans)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.LogLevel = strings.ToLower(viper.GetString("LOG_LEVEL"))

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" || cfg.JWTSecret == defaultJWTSecret {
		cfg.JWTSecret = defaultJWTSecret // !! CHANGE IN PRODUCTION !!
		if cfg.IsProduction {
			return nil, fmt.Errorf("JWT_SECRET must be set in production")
		}
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	cfg.RateLimit = viper.GetString("RATE_LIMIT")
	cfg.PaymentRateLimit = viper.GetString("PAYMENT_RATE_LIMIT")

	cfg.SweepEnabled = viper.GetBool("SWEEP_ENABLED")
	cfg.SweepCron = viper.GetString("SWEEP_CRON")
	cfg.SweepWorkers = viper.GetInt("SWEEP_WORKERS")
	if cfg.SweepWorkers <= 0 {
		cfg.SweepWorkers = 8
		log.Printf("Warning: Invalid value for SWEEP_WORKERS. Defaulting to %d.\n", cfg.SweepWorkers)
	}
	cfg.SweepPageSize = viper.GetInt("SWEEP_PAGE_SIZE")
	if cfg.SweepPageSize <= 0 {
		cfg.SweepPageSize = 500
		log.Printf("Warning: Invalid value for SWEEP_PAGE_SIZE. Defaulting to %d.\n", cfg.SweepPageSize)
	}
	cfg.SweepRecordTimeout = parseDuration("SWEEP_RECORD_TIMEOUT", 5*time.Second)
	cfg.SweepLockTTL = parseDuration("SWEEP_LOCK_TTL", 30*time.Minute)

	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.RedisPassword = viper.GetString("REDIS_PASSWORD")
	cfg.RedisDB = viper.GetInt("REDIS_DB")
	if cfg.RedisAddr == "" {
		log.Println("Warning: REDIS_ADDR not set. Sweep lease is local to this process.")
	}

	cfg.AMQPURL = viper.GetString("AMQP_URL")
	cfg.AMQPExchange = viper.GetString("AMQP_EXCHANGE")
	if cfg.AMQPURL == "" {
		log.Println("Warning: AMQP_URL not set. Accrual status events will not be published.")
	}

	plans, err := ParsePaymentPlans(viper.GetString("PAYMENT_PLANS"))
	if err != nil {
		return nil, err
	}
	cfg.PaymentPlans = plans

	return cfg, nil
}

// ParsePaymentPlans decodes the PAYMENT_PLANS JSON array.
func ParsePaymentPlans(raw string) ([]domain.PaymentPlan, error) {
	var plans []domain.PaymentPlan
	if err := json.Unmarshal([]byte(raw), &plans); err != nil {
		return nil, fmt.Errorf("invalid PAYMENT_PLANS: %w", err)
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("invalid PAYMENT_PLANS: at least one plan is required")
	}
	return plans, nil
}

func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
