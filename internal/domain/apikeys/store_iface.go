package apikeys

import "context"

type KeyStore interface {
	Create(ctx context.Context, key Key, secretHash string) (Key, error)
	FindByPrefix(ctx context.Context, prefix string) (Key, string, error)
	List(ctx context.Context) ([]Key, error)
	Revoke(ctx context.Context, id string) error
	TouchLastUsed(ctx context.Context, id string) error
}
