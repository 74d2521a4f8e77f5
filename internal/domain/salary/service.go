package salary

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	OpFull     = "full"
	OpTable    = "table"
	OpNetViews = "net_views"
)

// Recorder observes engine computations; the metrics collector implements it.
type Recorder interface {
	RecordComputation(operation string, err error)
}

type Service struct {
	store    ConfigStore
	recorder Recorder
}

func NewService(store ConfigStore, recorder Recorder) *Service {
	return &Service{store: store, recorder: recorder}
}

// Config resolves the configuration for year, or the latest one when year is 0, and
// validates it before any computation sees it.
func (s *Service) Config(ctx context.Context, year int) (Config, error) {
	if year == 0 {
		latest, err := s.store.LatestYear(ctx)
		if err != nil {
			return Config{}, err
		}
		year = latest
	}
	if year < 0 {
		return Config{}, fmt.Errorf("%w: year must be positive, got %d", ErrInvalidInput, year)
	}
	cfg, err := s.store.GetConfig(ctx, year)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (s *Service) ListConfigs(ctx context.Context) ([]Config, error) {
	return s.store.ListConfigs(ctx)
}

func (s *Service) SaveConfig(ctx context.Context, cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	return s.store.UpsertConfig(ctx, cfg)
}

// Multipliers returns the stored overrides only; defaults are applied by the engine.
func (s *Service) Multipliers(ctx context.Context) (Multipliers, error) {
	return s.store.Multipliers(ctx)
}

// EffectiveMultipliers merges stored overrides over the canonical table.
func (s *Service) EffectiveMultipliers(ctx context.Context) (Multipliers, error) {
	overrides, err := s.store.Multipliers(ctx)
	if err != nil {
		return nil, err
	}
	out := DefaultMultipliers()
	for _, role := range Roles() {
		value, err := ResolveMultiplier(role, overrides)
		if err != nil {
			return nil, err
		}
		out[role] = value
	}
	return out, nil
}

func (s *Service) SetMultiplier(ctx context.Context, roleName string, value decimal.Decimal) (Role, error) {
	role, err := ParseRole(roleName)
	if err != nil {
		return "", err
	}
	if !value.IsPositive() {
		return "", fmt.Errorf("%w: multiplier must be positive, got %s", ErrInvalidInput, value)
	}
	return role, s.store.SetMultiplier(ctx, role, value)
}

func (s *Service) DeleteMultiplier(ctx context.Context, roleName string) (Role, error) {
	role, err := ParseRole(roleName)
	if err != nil {
		return "", err
	}
	return role, s.store.DeleteMultiplier(ctx, role)
}

func (s *Service) Full(ctx context.Context, year int, role string) (FullBreakdown, error) {
	cfg, overrides, err := s.resolve(ctx, year)
	if err != nil {
		return FullBreakdown{}, err
	}
	out, err := ComputeFull(cfg, role, overrides)
	s.record(OpFull, err)
	return out, err
}

func (s *Service) Table(ctx context.Context, year int) ([]FullBreakdown, error) {
	cfg, overrides, err := s.resolve(ctx, year)
	if err != nil {
		return nil, err
	}
	out, err := ComputeTable(cfg, overrides)
	s.record(OpTable, err)
	return out, err
}

func (s *Service) NetViews(ctx context.Context, year int, gross, hours decimal.Decimal, overtime OvertimeHours) (Config, NetViews, error) {
	cfg, err := s.Config(ctx, year)
	if err != nil {
		return Config{}, NetViews{}, err
	}
	out, err := ComputeNetViews(cfg, gross, hours, overtime)
	s.record(OpNetViews, err)
	if err != nil {
		return Config{}, NetViews{}, err
	}
	return cfg, out, nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) resolve(ctx context.Context, year int) (Config, Multipliers, error) {
	cfg, err := s.Config(ctx, year)
	if err != nil {
		return Config{}, nil, err
	}
	overrides, err := s.store.Multipliers(ctx)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, overrides, nil
}

func (s *Service) record(operation string, err error) {
	if s.recorder != nil {
		s.recorder.RecordComputation(operation, err)
	}
}
