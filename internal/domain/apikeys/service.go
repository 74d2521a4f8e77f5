package apikeys

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"portal/internal/platform/logger"
)

type Service struct {
	Store KeyStore
}

func NewService(store KeyStore) *Service {
	return &Service{Store: store}
}

// Create issues a key. The plaintext token is returned once and never stored.
func (s *Service) Create(ctx context.Context, name, createdBy string) (Issued, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Issued{}, ErrInvalidName
	}
	prefix, secret, token, err := generateToken()
	if err != nil {
		return Issued{}, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return Issued{}, err
	}
	key, err := s.Store.Create(ctx, Key{Name: name, Prefix: prefix, CreatedBy: createdBy}, string(hash))
	if err != nil {
		return Issued{}, err
	}
	return Issued{Key: key, Token: token}, nil
}

func (s *Service) Authenticate(ctx context.Context, token string) (Key, error) {
	prefix, secret, err := ParseToken(token)
	if err != nil {
		return Key{}, err
	}
	key, hash, err := s.Store.FindByPrefix(ctx, prefix)
	if errors.Is(err, ErrKeyNotFound) {
		return Key{}, ErrInvalidKey
	}
	if err != nil {
		return Key{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) != nil {
		return Key{}, ErrInvalidKey
	}
	if key.Revoked() {
		return Key{}, ErrKeyRevoked
	}
	if err := s.Store.TouchLastUsed(ctx, key.ID); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("keyId", key.ID).Msg("api key last-used update failed")
	}
	return key, nil
}

func (s *Service) List(ctx context.Context) ([]Key, error) {
	return s.Store.List(ctx)
}

func (s *Service) Revoke(ctx context.Context, id string) error {
	return s.Store.Revoke(ctx, id)
}
