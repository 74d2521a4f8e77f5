package apikeys

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) Create(ctx context.Context, key Key, secretHash string) (Key, error) {
	err := s.DB.QueryRow(ctx, `
    INSERT INTO api_keys (name, prefix, secret_hash, created_by)
    VALUES ($1, $2, $3, NULLIF($4, ''))
    RETURNING id::text, created_at
  `, key.Name, key.Prefix, secretHash, key.CreatedBy).Scan(&key.ID, &key.CreatedAt)
	return key, err
}

func (s *Store) FindByPrefix(ctx context.Context, prefix string) (Key, string, error) {
	var key Key
	var hash string
	err := s.DB.QueryRow(ctx, `
    SELECT id::text, name, prefix, COALESCE(created_by, ''), last_used_at, revoked_at, created_at, secret_hash
    FROM api_keys
    WHERE prefix = $1
  `, prefix).Scan(&key.ID, &key.Name, &key.Prefix, &key.CreatedBy, &key.LastUsedAt, &key.RevokedAt, &key.CreatedAt, &hash)
	if errors.Is(err, pgx.ErrNoRows) {
		return Key{}, "", ErrKeyNotFound
	}
	return key, hash, err
}

func (s *Store) List(ctx context.Context) ([]Key, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT id::text, name, prefix, COALESCE(created_by, ''), last_used_at, revoked_at, created_at
    FROM api_keys
    ORDER BY created_at DESC
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Key{}
	for rows.Next() {
		var key Key
		if err := rows.Scan(&key.ID, &key.Name, &key.Prefix, &key.CreatedBy, &key.LastUsedAt, &key.RevokedAt, &key.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, key)
	}
	return out, rows.Err()
}

func (s *Store) Revoke(ctx context.Context, id string) error {
	tag, err := s.DB.Exec(ctx, "UPDATE api_keys SET revoked_at = COALESCE(revoked_at, now()) WHERE id::text = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrKeyNotFound
	}
	return nil
}

func (s *Store) TouchLastUsed(ctx context.Context, id string) error {
	_, err := s.DB.Exec(ctx, "UPDATE api_keys SET last_used_at = now() WHERE id::text = $1", id)
	return err
}
