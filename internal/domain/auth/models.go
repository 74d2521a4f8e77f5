package auth

import "time"

const (
	PrincipalUser   = "user"
	PrincipalAPIKey = "apikey"

	UserStatusActive = "active"
)

type User struct {
	ID           string
	Email        string
	PasswordHash string
	Role         string
	Status       string
	LastLogin    *time.Time
	CreatedAt    time.Time
}

// UserContext is the authenticated principal attached to a request.
type UserContext struct {
	UserID string
	Email  string
	Role   string
	Kind   string
}

// Principal identifies the caller for audit trails and idempotency scoping.
func (u UserContext) Principal() string {
	if u.Kind == "" {
		return PrincipalUser + ":" + u.UserID
	}
	return u.Kind + ":" + u.UserID
}

type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
}
