package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Ledger    LedgerConfig
	Provider  ProviderConfig
	Verifier  VerifierConfig
	Scheduler SchedulerConfig
}

type ServerConfig struct {
	Port            string
	Env             string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RateLimit       int           // requests per client IP per window
	RateLimitWindow time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
	Issuer        string
}

// FeeBand charges Fee for withdrawal amounts up to and including Cap.
type FeeBand struct {
	Cap decimal.Decimal
	Fee decimal.Decimal
}

// LedgerConfig drives commission computation and withdrawal settlement.
type LedgerConfig struct {
	ReferralPercent  decimal.Decimal // fraction of a commission paid to the referrer, e.g. 0.10
	RefundWindowDays int             // days before a commission becomes withdrawable
	FeeBands         []FeeBand       // banded withdrawal fees, ascending caps
	FeePercent       decimal.Decimal // fallback fee rate above the last band
	Currency         string
}

// ProviderConfig points at the external bundle fulfillment API.
type ProviderConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// VerifierConfig points at the payment reference lookup service.
type VerifierConfig struct {
	BaseURL       string
	SecretKey     string
	Timeout       time.Duration
	MaxRefAgeDays int
	LaunchDate    time.Time // references paid before this date are never recovered
}

type SchedulerConfig struct {
	MaturationInterval time.Duration
	OrderSyncInterval  time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err == nil {
		log.Printf("[Config] loaded .env")
	}
	launch, _ := time.Parse("2006-01-02", getEnv("RECOVERY_LAUNCH_DATE", "2024-01-01"))
	return &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Env:             getEnv("APP_ENV", "development"),
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    10 * time.Second,
			RateLimit:       getEnvInt("RATE_LIMIT", 100),
			RateLimitWindow: getEnvDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
		Database: DatabaseConfig{
			DSN:             getEnv("DATABASE_DSN", "dataplug:dataplug@tcp(localhost:3306)/dataplug?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		JWT: JWTConfig{
			AccessSecret:  getEnv("JWT_ACCESS_SECRET", "change-me-in-production"),
			RefreshSecret: getEnv("JWT_REFRESH_SECRET", "change-me-refresh"),
			AccessExpiry:  15 * time.Minute,
			RefreshExpiry: 168 * time.Hour,
			Issuer:        "dataplug",
		},
		Ledger: LedgerConfig{
			ReferralPercent:  getEnvDecimal("REFERRAL_PERCENT", "0.10"),
			RefundWindowDays: getEnvInt("REFUND_WINDOW_DAYS", 7),
			FeeBands: []FeeBand{
				{Cap: decimal.NewFromInt(50), Fee: decimal.NewFromInt(1)},
				{Cap: decimal.NewFromInt(200), Fee: decimal.NewFromInt(2)},
				{Cap: decimal.NewFromInt(500), Fee: decimal.NewFromInt(4)},
			},
			FeePercent: getEnvDecimal("WITHDRAWAL_FEE_PERCENT", "0.01"),
			Currency:   getEnv("CURRENCY", "GHS"),
		},
		Provider: ProviderConfig{
			BaseURL: getEnv("PROVIDER_BASE_URL", ""),
			APIKey:  getEnv("PROVIDER_API_KEY", ""),
			Timeout: 30 * time.Second,
		},
		Verifier: VerifierConfig{
			BaseURL:       getEnv("VERIFIER_BASE_URL", ""),
			SecretKey:     getEnv("VERIFIER_SECRET_KEY", ""),
			Timeout:       30 * time.Second,
			MaxRefAgeDays: getEnvInt("RECOVERY_MAX_REF_AGE_DAYS", 30),
			LaunchDate:    launch,
		},
		Scheduler: SchedulerConfig{
			MaturationInterval: getEnvDuration("MATURATION_INTERVAL", time.Hour),
			OrderSyncInterval:  getEnvDuration("ORDER_SYNC_INTERVAL", 5*time.Minute),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvDecimal(key, fallback string) decimal.Decimal {
	if v := os.Getenv(key); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	d, _ := decimal.NewFromString(fallback)
	return d
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// WithdrawalFee returns the fee charged for a requested withdrawal amount.
func (c *LedgerConfig) WithdrawalFee(amount decimal.Decimal) decimal.Decimal {
	for _, band := range c.FeeBands {
		if amount.LessThanOrEqual(band.Cap) {
			return band.Fee
		}
	}
	return amount.Mul(c.FeePercent).Round(2)
}
