package salary

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"cloud.google.com/go/datastore"
	"github.com/shopspring/decimal"
)

const (
	kindConfig     = "SalarioConfig"
	kindMultiplier = "RoleMultiplier"
)

// DatastoreStore keeps configurations in Cloud Datastore. Decimals are stored as
// strings since the document store has no exact numeric type.
type DatastoreStore struct {
	client *datastore.Client
}

func NewDatastoreStore(client *datastore.Client) *DatastoreStore {
	return &DatastoreStore{client: client}
}

type configEntity struct {
	Year                 int       `datastore:"year"`
	BaseWage             string    `datastore:"baseWage,noindex"`
	TransportSubsidy     string    `datastore:"transportSubsidy,noindex"`
	LegalMonthlyHours    int       `datastore:"legalMonthlyHours,noindex"`
	VATPercent           string    `datastore:"vatPercent,noindex"`
	ProfitMarginPercent  string    `datastore:"profitMarginPercent,noindex"`
	EmployerBurdenFactor string    `datastore:"employerBurdenFactor,noindex"`
	UpdatedAt            time.Time `datastore:"updatedAt"`
}

type multiplierEntity struct {
	Role       string    `datastore:"role"`
	Multiplier string    `datastore:"multiplier,noindex"`
	UpdatedAt  time.Time `datastore:"updatedAt"`
}

func configKey(year int) *datastore.Key {
	return datastore.NameKey(kindConfig, strconv.Itoa(year), nil)
}

func multiplierKey(role Role) *datastore.Key {
	return datastore.NameKey(kindMultiplier, string(role), nil)
}

func (d *DatastoreStore) GetConfig(ctx context.Context, year int) (Config, error) {
	if d == nil || d.client == nil {
		return Config{}, fmt.Errorf("datastore client is nil")
	}
	var entity configEntity
	err := d.client.Get(ctx, configKey(year), &entity)
	if errors.Is(err, datastore.ErrNoSuchEntity) {
		return Config{}, fmt.Errorf("%w: year %d", ErrConfigNotFound, year)
	}
	if err != nil {
		return Config{}, err
	}
	return entity.toConfig()
}

func (d *DatastoreStore) LatestYear(ctx context.Context) (int, error) {
	if d == nil || d.client == nil {
		return 0, fmt.Errorf("datastore client is nil")
	}
	var entities []configEntity
	query := datastore.NewQuery(kindConfig).Order("-year").Limit(1)
	if _, err := d.client.GetAll(ctx, query, &entities); err != nil {
		return 0, err
	}
	if len(entities) == 0 {
		return 0, ErrConfigNotFound
	}
	return entities[0].Year, nil
}

func (d *DatastoreStore) ListConfigs(ctx context.Context) ([]Config, error) {
	if d == nil || d.client == nil {
		return nil, fmt.Errorf("datastore client is nil")
	}
	var entities []configEntity
	if _, err := d.client.GetAll(ctx, datastore.NewQuery(kindConfig).Order("-year"), &entities); err != nil {
		return nil, err
	}
	configs := make([]Config, 0, len(entities))
	for _, entity := range entities {
		cfg, err := entity.toConfig()
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return configs, nil
}

func (d *DatastoreStore) UpsertConfig(ctx context.Context, cfg Config) error {
	if d == nil || d.client == nil {
		return fmt.Errorf("datastore client is nil")
	}
	entity := configEntity{
		Year:                 cfg.Year,
		BaseWage:             cfg.BaseWage.String(),
		TransportSubsidy:     cfg.TransportSubsidy.String(),
		LegalMonthlyHours:    cfg.LegalMonthlyHours,
		VATPercent:           cfg.VATPercent.String(),
		ProfitMarginPercent:  cfg.ProfitMarginPercent.String(),
		EmployerBurdenFactor: cfg.EmployerBurdenFactor.String(),
		UpdatedAt:            time.Now().UTC(),
	}
	_, err := d.client.Put(ctx, configKey(cfg.Year), &entity)
	return err
}

func (d *DatastoreStore) Multipliers(ctx context.Context) (Multipliers, error) {
	if d == nil || d.client == nil {
		return nil, fmt.Errorf("datastore client is nil")
	}
	var entities []multiplierEntity
	if _, err := d.client.GetAll(ctx, datastore.NewQuery(kindMultiplier), &entities); err != nil {
		return nil, err
	}
	out := Multipliers{}
	for _, entity := range entities {
		value, err := decimal.NewFromString(entity.Multiplier)
		if err != nil {
			return nil, fmt.Errorf("%w: multiplier for %s: %v", ErrConfiguration, entity.Role, err)
		}
		out[Role(entity.Role)] = value
	}
	return out, nil
}

func (d *DatastoreStore) SetMultiplier(ctx context.Context, role Role, value decimal.Decimal) error {
	if d == nil || d.client == nil {
		return fmt.Errorf("datastore client is nil")
	}
	entity := multiplierEntity{Role: string(role), Multiplier: value.String(), UpdatedAt: time.Now().UTC()}
	_, err := d.client.Put(ctx, multiplierKey(role), &entity)
	return err
}

func (d *DatastoreStore) DeleteMultiplier(ctx context.Context, role Role) error {
	if d == nil || d.client == nil {
		return fmt.Errorf("datastore client is nil")
	}
	return d.client.Delete(ctx, multiplierKey(role))
}

func (d *DatastoreStore) Ping(ctx context.Context) error {
	_, err := d.LatestYear(ctx)
	if errors.Is(err, ErrConfigNotFound) {
		return nil
	}
	return err
}

func (e configEntity) toConfig() (Config, error) {
	cfg := Config{Year: e.Year, LegalMonthlyHours: e.LegalMonthlyHours}
	fields := []struct {
		raw  string
		dest *decimal.Decimal
	}{
		{e.BaseWage, &cfg.BaseWage},
		{e.TransportSubsidy, &cfg.TransportSubsidy},
		{e.VATPercent, &cfg.VATPercent},
		{e.ProfitMarginPercent, &cfg.ProfitMarginPercent},
		{e.EmployerBurdenFactor, &cfg.EmployerBurdenFactor},
	}
	for _, field := range fields {
		value, err := decimal.NewFromString(field.raw)
		if err != nil {
			return Config{}, fmt.Errorf("%w: year %d: %v", ErrConfiguration, e.Year, err)
		}
		*field.dest = value
	}
	return cfg, nil
}
