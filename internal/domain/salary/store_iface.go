package salary

import (
	"context"

	"github.com/shopspring/decimal"
)

// ConfigStore resolves yearly configurations and multiplier overrides.
type ConfigStore interface {
	GetConfig(ctx context.Context, year int) (Config, error)
	LatestYear(ctx context.Context) (int, error)
	ListConfigs(ctx context.Context) ([]Config, error)
	UpsertConfig(ctx context.Context, cfg Config) error
	Multipliers(ctx context.Context) (Multipliers, error)
	SetMultiplier(ctx context.Context, role Role, value decimal.Decimal) error
	DeleteMultiplier(ctx context.Context, role Role) error
	Ping(ctx context.Context) error
}
