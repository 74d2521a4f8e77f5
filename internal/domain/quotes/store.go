package quotes

import (
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
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

const quoteColumns = `id::text, client_name, COALESCE(client_email, ''), year, lines, COALESCE(notes, ''), total::text, created_by, COALESCE(pdf_path, ''), created_at`

func (s *Store) Create(ctx context.Context, q Quote) error {
	lines, err := json.Marshal(q.Lines)
	if err != nil {
		return err
	}
	_, err = s.DB.Exec(ctx, `
    INSERT INTO quotes (id, client_name, client_email, year, lines, notes, total, created_by, created_at)
    VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7::numeric, $8, $9)
  `, q.ID, q.ClientName, q.ClientEmail, q.Year, lines, q.Notes, q.Total.String(), q.CreatedBy, q.CreatedAt)
	return err
}

func (s *Store) Get(ctx context.Context, id string) (Quote, error) {
	row := s.DB.QueryRow(ctx, `SELECT `+quoteColumns+` FROM quotes WHERE id::text = $1`, id)
	q, err := scanQuote(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Quote{}, ErrQuoteNotFound
	}
	return q, err
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Quote, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT `+quoteColumns+`
    FROM quotes
    ORDER BY created_at DESC
    LIMIT $1 OFFSET $2
  `, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Quote{}
	for rows.Next() {
		q, err := scanQuote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, rows.Err()
}

func (s *Store) SetPDFPath(ctx context.Context, id, path string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE quotes SET pdf_path = $1 WHERE id::text = $2", path, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrQuoteNotFound
	}
	return nil
}

func scanQuote(row pgx.Row) (Quote, error) {
	var q Quote
	var lines []byte
	var total string
	if err := row.Scan(&q.ID, &q.ClientName, &q.ClientEmail, &q.Year, &lines, &q.Notes, &total, &q.CreatedBy, &q.PDFPath, &q.CreatedAt); err != nil {
		return Quote{}, err
	}
	if err := json.Unmarshal(lines, &q.Lines); err != nil {
		return Quote{}, fmt.Errorf("decode quote lines: %w", err)
	}
	parsed, err := decimal.NewFromString(total)
	if err != nil {
		return Quote{}, fmt.Errorf("parse quote total: %w", err)
	}
	q.Total = parsed
	return q, nil
}
