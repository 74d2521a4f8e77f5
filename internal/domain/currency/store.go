package currency

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

func (s *Store) Latest(ctx context.Context) (Rate, error) {
	var out Rate
	var value string
	err := s.DB.QueryRow(ctx, `
    SELECT base, quote, value::text, source, fetched_at
    FROM exchange_rates
    WHERE base = $1 AND quote = $2
    ORDER BY fetched_at DESC
    LIMIT 1
  `, CodeUSD, CodeCOP).Scan(&out.Base, &out.Quote, &value, &out.Source, &out.FetchedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Rate{}, ErrRateNotFound
	}
	if err != nil {
		return Rate{}, err
	}
	out.Value, err = decimal.NewFromString(value)
	if err != nil {
		return Rate{}, fmt.Errorf("parse stored rate: %w", err)
	}
	return out, nil
}

func (s *Store) Save(ctx context.Context, rate Rate) error {
	_, err := s.DB.Exec(ctx, `
    INSERT INTO exchange_rates (base, quote, value, source, fetched_at)
    VALUES ($1, $2, $3::numeric, $4, $5)
  `, rate.Base, rate.Quote, rate.Value.String(), rate.Source, rate.FetchedAt)
	return err
}
