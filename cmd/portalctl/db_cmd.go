package main

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"portal/internal/app/server"
	"portal/internal/domain/apikeys"
	"portal/internal/platform/config"
	"portal/internal/platform/db"
	"portal/internal/platform/logger"
)

func connect(ctx context.Context) (config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger.Init(cfg.LogLevel, cfg.LogFilePath)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, err
	}
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		return config.Config{}, nil, fmt.Errorf("db connect: %w", err)
	}
	return cfg, pool, nil
}

func newMigrateCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending SQL migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()
			if dir == "" {
				dir = cfg.MigrationsDir
			}

			start := time.Now()
			applied, err := db.Migrate(cmd.Context(), pool, dir)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), commandOutput{
				Command:    "migrate",
				DurationMS: time.Since(start).Milliseconds(),
				Result:     map[string]any{"applied": applied},
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "Migrations directory (defaults to MIGRATIONS_DIR)")
	return cmd
}

func newSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Seed the reference salary configuration and the admin user",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			store, closeStore, err := server.OpenSalaryStore(cmd.Context(), cfg, pool)
			if err != nil {
				return err
			}
			defer closeStore()

			start := time.Now()
			if err := db.Seed(cmd.Context(), pool, store, cfg); err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), commandOutput{
				Command:    "seed",
				DurationMS: time.Since(start).Milliseconds(),
				Result:     map[string]any{"store": cfg.StoreBackend},
			})
		},
	}
}

func newAPIKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage automation API keys",
	}

	var name string
	create := &cobra.Command{
		Use:   "create",
		Short: "Issue a new API key; the token is printed once",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, pool, err := connect(cmd.Context())
			if err != nil {
				return err
			}
			defer pool.Close()

			start := time.Now()
			issued, err := apikeys.NewService(apikeys.NewStore(pool)).Create(cmd.Context(), name, "portalctl")
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), commandOutput{
				Command:    "apikey create",
				DurationMS: time.Since(start).Milliseconds(),
				Result:     issued,
			})
		},
	}
	create.Flags().StringVar(&name, "name", "", "Key name (required)")
	_ = create.MarkFlagRequired("name")

	cmd.AddCommand(create)
	return cmd
}
