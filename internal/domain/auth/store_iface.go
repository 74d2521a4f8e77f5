package auth

import "context"

type UserStore interface {
	FindActiveUserByEmail(ctx context.Context, email string) (User, error)
	UpdateLastLogin(ctx context.Context, userID string) error
	CreateUser(ctx context.Context, email, passwordHash, role string) (User, error)
}
