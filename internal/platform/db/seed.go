package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"portal/internal/domain/auth"
	"portal/internal/domain/salary"
	"portal/internal/platform/config"
	"portal/internal/platform/logger"
)

func Seed(ctx context.Context, pool *pgxpool.Pool, configs salary.ConfigStore, cfg config.Config) error {
	if err := SeedSalaryConfig(ctx, configs); err != nil {
		return err
	}
	return SeedUsers(ctx, auth.NewStore(pool), cfg)
}

// SeedUsers creates the configured admin account when it does not exist yet.
func SeedUsers(ctx context.Context, users auth.UserStore, cfg config.Config) error {
	svc := auth.NewService(users, cfg.JWTSecret, 0)
	created, err := svc.EnsureUser(ctx, cfg.SeedAdminEmail, cfg.SeedAdminPassword, auth.RoleAdmin)
	if err != nil {
		return err
	}
	if created {
		logger.Ctx(ctx).Info().Str("email", cfg.SeedAdminEmail).Msg("seeded admin user")
	}
	return nil
}

// SeedSalaryConfig stores the reference configuration when the store has none.
func SeedSalaryConfig(ctx context.Context, configs salary.ConfigStore) error {
	if configs == nil {
		return nil
	}
	_, err := configs.LatestYear(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, salary.ErrConfigNotFound) {
		return err
	}
	ref := salary.ReferenceConfig()
	if err := configs.UpsertConfig(ctx, ref); err != nil {
		return err
	}
	logger.Ctx(ctx).Info().Int("year", ref.Year).Msg("seeded salary configuration")
	return nil
}
