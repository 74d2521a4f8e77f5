package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portal/internal/platform/logger"
)

const DefaultTokenTTL = 12 * time.Hour

type Service struct {
	Store    UserStore
	secret   string
	tokenTTL time.Duration
}

func NewService(store UserStore, secret string, tokenTTL time.Duration) *Service {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &Service{Store: store, secret: secret, tokenTTL: tokenTTL}
}

// Login verifies credentials and issues a signed session token. Unknown users and
// wrong passwords are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (Session, error) {
	user, err := s.Store.FindActiveUserByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, ErrUserNotFound) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, err
	}
	if err := CheckPassword(user.PasswordHash, password); err != nil {
		return Session{}, ErrInvalidCredentials
	}

	expires := time.Now().Add(s.tokenTTL)
	token, err := GenerateToken(s.secret, Claims{UserID: user.ID, Email: user.Email, Role: user.Role}, s.tokenTTL)
	if err != nil {
		return Session{}, err
	}
	if err := s.Store.UpdateLastLogin(ctx, user.ID); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("userId", user.ID).Msg("last login update failed")
	}
	return Session{Token: token, ExpiresAt: expires, UserID: user.ID, Email: user.Email, Role: user.Role}, nil
}

// EnsureUser creates the user when no active account exists for email. The boolean
// reports whether a row was inserted.
func (s *Service) EnsureUser(ctx context.Context, email, password, role string) (bool, error) {
	email = strings.TrimSpace(email)
	if email == "" || strings.TrimSpace(password) == "" {
		return false, nil
	}
	if !ValidUserRole(role) {
		return false, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	_, err := s.Store.FindActiveUserByEmail(ctx, email)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return false, err
	}
	hash, err := HashPassword(password)
	if err != nil {
		return false, err
	}
	if _, err := s.Store.CreateUser(ctx, email, hash, role); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Service) ParseToken(token string) (*Claims, error) {
	return ParseToken(s.secret, token)
}
