package salary

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const configColumns = `year, base_wage::text, transport_subsidy::text, legal_monthly_hours,
           vat_percent::text, profit_margin_percent::text, employer_burden_factor::text`

func (s *Store) GetConfig(ctx context.Context, year int) (Config, error) {
	row := s.DB.QueryRow(ctx, `
    SELECT `+configColumns+`
    FROM salary_configs
    WHERE year = $1
  `, year)
	cfg, err := scanConfig(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Config{}, fmt.Errorf("%w: year %d", ErrConfigNotFound, year)
	}
	return cfg, err
}

func (s *Store) LatestYear(ctx context.Context) (int, error) {
	var year *int
	if err := s.DB.QueryRow(ctx, "SELECT MAX(year) FROM salary_configs").Scan(&year); err != nil {
		return 0, err
	}
	if year == nil {
		return 0, ErrConfigNotFound
	}
	return *year, nil
}

func (s *Store) ListConfigs(ctx context.Context) ([]Config, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+configColumns+`
    FROM salary_configs
    ORDER BY year DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var configs []Config
	for rows.Next() {
		cfg, err := scanConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, rows.Err()
}

func (s *Store) UpsertConfig(ctx context.Context, cfg Config) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO salary_configs (year, base_wage, transport_subsidy, legal_monthly_hours, vat_percent, profit_margin_percent, employer_burden_factor)
    VALUES ($1,$2::numeric,$3::numeric,$4,$5::numeric,$6::numeric,$7::numeric)
    ON CONFLICT (year) DO UPDATE SET
      base_wage = EXCLUDED.base_wage,
      transport_subsidy = EXCLUDED.transport_subsidy,
      legal_monthly_hours = EXCLUDED.legal_monthly_hours,
      vat_percent = EXCLUDED.vat_percent,
      profit_margin_percent = EXCLUDED.profit_margin_percent,
      employer_burden_factor = EXCLUDED.employer_burden_factor,
      updated_at = now()
  `, cfg.Year, cfg.BaseWage.String(), cfg.TransportSubsidy.String(), cfg.LegalMonthlyHours,
		cfg.VATPercent.String(), cfg.ProfitMarginPercent.String(), cfg.EmployerBurdenFactor.String())
	return err
}

func (s *Store) Multipliers(ctx context.Context) (Multipliers, error) {
	rows, err := s.DB.Query(ctx, "SELECT role, multiplier::text FROM role_multipliers")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := Multipliers{}
	for rows.Next() {
		var role, raw string
		if err := rows.Scan(&role, &raw); err != nil {
			return nil, err
		}
		value, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: multiplier for %s: %v", ErrConfiguration, role, err)
		}
		out[Role(role)] = value
	}
	return out, rows.Err()
}

func (s *Store) SetMultiplier(ctx context.Context, role Role, value decimal.Decimal) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO role_multipliers (role, multiplier)
    VALUES ($1,$2::numeric)
    ON CONFLICT (role) DO UPDATE SET multiplier = EXCLUDED.multiplier, updated_at = now()
  `, string(role), value.String())
	return err
}

func (s *Store) DeleteMultiplier(ctx context.Context, role Role) error {
	_, err := s.DB.Exec(ctx, "DELETE FROM role_multipliers WHERE role = $1", string(role))
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.DB.Ping(ctx)
}

func scanConfig(row pgx.Row) (Config, error) {
	var cfg Config
	var baseWage, subsidy, vat, margin, burden string
	if err := row.Scan(&cfg.Year, &baseWage, &subsidy, &cfg.LegalMonthlyHours, &vat, &margin, &burden); err != nil {
		return Config{}, err
	}
	var err error
	if cfg.BaseWage, err = decimal.NewFromString(baseWage); err != nil {
		return Config{}, err
	}
	if cfg.TransportSubsidy, err = decimal.NewFromString(subsidy); err != nil {
		return Config{}, err
	}
	if cfg.VATPercent, err = decimal.NewFromString(vat); err != nil {
		return Config{}, err
	}
	if cfg.ProfitMarginPercent, err = decimal.NewFromString(margin); err != nil {
		return Config{}, err
	}
	if cfg.EmployerBurdenFactor, err = decimal.NewFromString(burden); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
