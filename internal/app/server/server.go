package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"cloud.google.com/go/datastore"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"portal/internal/domain/apikeys"
	"portal/internal/domain/audit"
	"portal/internal/domain/auth"
	"portal/internal/domain/currency"
	"portal/internal/domain/quotes"
	"portal/internal/domain/salary"
	"portal/internal/platform/config"
	"portal/internal/platform/crypto"
	"portal/internal/platform/db"
	"portal/internal/platform/jobs"
	"portal/internal/platform/logger"
	"portal/internal/platform/metrics"
	"portal/internal/transport/http/middleware"
)

const shutdownTimeout = 10 * time.Second

// Run loads configuration, wires every service and serves HTTP until ctx is cancelled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.Init(cfg.LogLevel, cfg.LogFilePath)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		applied, err := db.Migrate(ctx, pool, cfg.MigrationsDir)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		if len(applied) > 0 {
			logger.L().Info().Strs("versions", applied).Msg("migrations applied")
		}
	}

	salaryStore, closeStore, err := OpenSalaryStore(ctx, cfg, pool)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, salaryStore, cfg); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}

	collector := metrics.New()

	salarySvc := salary.NewService(salaryStore, collector)

	fallback, err := parseFallback(cfg.FXFallbackUSDCOP)
	if err != nil {
		return err
	}
	rateOpts := []currency.Option{currency.WithRecorder(collector)}
	if !fallback.IsZero() {
		rateOpts = append(rateOpts, currency.WithFallback(fallback))
	}
	rateSvc := currency.NewService(currency.NewStore(pool), currency.NewHTTPFetcher(cfg.FXRateURL, 0), cfg.FXRateTTL, rateOpts...)

	cipher, err := crypto.New(cfg.DataEncryptionKey)
	if err != nil {
		return fmt.Errorf("encryption key: %w", err)
	}
	if !cipher.Configured() {
		logger.L().Warn().Msg("DATA_ENCRYPTION_KEY not set; quote documents are stored unencrypted")
	}

	quoteSvc := quotes.NewService(quotes.NewStore(pool), salarySvc, rateSvc, cipher, cfg.QuoteStorageDir)
	keySvc := apikeys.NewService(apikeys.NewStore(pool))
	authSvc := auth.NewService(auth.NewStore(pool), cfg.JWTSecret, auth.DefaultTokenTTL)
	auditSvc := audit.New(pool)

	jobSvc := jobs.New(jobs.PGRunStore{DB: pool})
	if cfg.FXRefreshInterval > 0 {
		jobSvc.Every(jobs.JobRateRefresh, cfg.FXRefreshInterval, func(ctx context.Context) (any, error) {
			rate, err := rateSvc.Refresh(ctx)
			if err != nil {
				return nil, err
			}
			return map[string]any{"value": rate.Value.String(), "source": rate.Source}, nil
		})
	}
	jobSvc.Start(ctx)

	router := NewRouter(Deps{
		Config:      cfg,
		Auth:        authSvc,
		Salary:      salarySvc,
		Rates:       rateSvc,
		Quotes:      quoteSvc,
		Keys:        keySvc,
		Audit:       auditSvc,
		Idempotency: middleware.NewIdempotencyStore(pool),
		Metrics:     collector,
		Ready: func(ctx context.Context) error {
			if err := pool.Ping(ctx); err != nil {
				return err
			}
			return salarySvc.Ping(ctx)
		},
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info().Str("addr", cfg.Addr).Str("store", cfg.StoreBackend).Msg("salary portal listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.L().Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// OpenSalaryStore returns the configuration store selected by STORE_BACKEND and a
// function releasing its resources.
func OpenSalaryStore(ctx context.Context, cfg config.Config, pool *pgxpool.Pool) (salary.ConfigStore, func(), error) {
	if cfg.StoreBackend != config.StoreBackendDatastore {
		return salary.NewStore(pool), func() {}, nil
	}
	client, err := datastore.NewClient(ctx, cfg.DatastoreProjectID)
	if err != nil {
		return nil, nil, fmt.Errorf("datastore client: %w", err)
	}
	return salary.NewDatastoreStore(client), func() { _ = client.Close() }, nil
}

func parseFallback(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, nil
	}
	value, err := decimal.NewFromString(raw)
	if err != nil || !value.IsPositive() {
		return decimal.Zero, fmt.Errorf("FX_FALLBACK_USD_COP must be a positive number, got %q", raw)
	}
	return value, nil
}
