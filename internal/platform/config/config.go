package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const devJWTSecret = "dev-secret-change-me"

const (
	StoreBackendPostgres  = "postgres"
	StoreBackendDatastore = "datastore"
)

type Config struct {
	Addr               string        `env:"APP_ADDR" envDefault:":8080"`
	Environment        string        `env:"APP_ENV" envDefault:"development"`
	DatabaseURL        string        `env:"DATABASE_URL"`
	StoreBackend       string        `env:"STORE_BACKEND" envDefault:"postgres"`
	DatastoreProjectID string        `env:"DATASTORE_PROJECT_ID"`
	JWTSecret          string        `env:"JWT_SECRET" envDefault:"dev-secret-change-me"`
	DataEncryptionKey  string        `env:"DATA_ENCRYPTION_KEY"`
	SeedAdminEmail     string        `env:"SEED_ADMIN_EMAIL"`
	SeedAdminPassword  string        `env:"SEED_ADMIN_PASSWORD"`
	RunMigrations      bool          `env:"RUN_MIGRATIONS" envDefault:"true"`
	RunSeed            bool          `env:"RUN_SEED" envDefault:"true"`
	MigrationsDir      string        `env:"MIGRATIONS_DIR" envDefault:"migrations"`
	MaxBodyBytes       int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`
	RateLimitPerMinute int           `env:"RATE_LIMIT_PER_MINUTE" envDefault:"60"`
	FXRateURL          string        `env:"FX_RATE_URL" envDefault:"https://open.er-api.com/v6/latest/USD"`
	FXRateTTL          time.Duration `env:"FX_RATE_TTL" envDefault:"12h"`
	FXRefreshInterval  time.Duration `env:"FX_REFRESH_INTERVAL" envDefault:"6h"`
	FXFallbackUSDCOP   string        `env:"FX_FALLBACK_USD_COP"`
	QuoteStorageDir    string        `env:"QUOTE_STORAGE_DIR" envDefault:"storage/quotes"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFilePath        string        `env:"LOG_FILE_PATH"`
	MetricsEnabled     bool          `env:"METRICS_ENABLED" envDefault:"true"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	switch c.StoreBackend {
	case StoreBackendPostgres:
	case StoreBackendDatastore:
		if strings.TrimSpace(c.DatastoreProjectID) == "" {
			return fmt.Errorf("DATASTORE_PROJECT_ID is required when STORE_BACKEND is datastore")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q", StoreBackendPostgres, StoreBackendDatastore)
	}
	if c.IsProduction() {
		if strings.TrimSpace(c.JWTSecret) == "" || c.JWTSecret == devJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if strings.TrimSpace(c.DataEncryptionKey) == "" {
			return fmt.Errorf("DATA_ENCRYPTION_KEY must be set in production for encryption at rest")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPassword) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be changed or RUN_SEED disabled in production")
		}
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.RateLimitPerMinute <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	if c.FXRateTTL <= 0 {
		return fmt.Errorf("FX_RATE_TTL must be positive")
	}
	return nil
}
