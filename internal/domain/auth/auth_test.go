package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryUsers struct {
	users      map[string]User
	lastLogins int
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: map[string]User{}}
}

func (m *memoryUsers) FindActiveUserByEmail(_ context.Context, email string) (User, error) {
	user, ok := m.users[strings.ToLower(email)]
	if !ok {
		return User{}, ErrUserNotFound
	}
	return user, nil
}

func (m *memoryUsers) UpdateLastLogin(context.Context, string) error {
	m.lastLogins++
	return nil
}

func (m *memoryUsers) CreateUser(_ context.Context, email, hash, role string) (User, error) {
	user := User{ID: "u-" + email, Email: email, PasswordHash: hash, Role: role, Status: UserStatusActive}
	m.users[strings.ToLower(email)] = user
	return user, nil
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("super-secret")
	require.NoError(t, err)
	require.NoError(t, CheckPassword(hash, "super-secret"))
	require.Error(t, CheckPassword(hash, "wrong"))
}

func TestGenerateAndParseToken(t *testing.T) {
	claims := Claims{UserID: "u1", Email: "ops@example.com", Role: RoleStaff}

	token, err := GenerateToken("test-secret", claims, time.Hour)
	require.NoError(t, err)

	parsed, err := ParseToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, claims.UserID, parsed.UserID)
	assert.Equal(t, claims.Email, parsed.Email)
	assert.Equal(t, claims.Role, parsed.Role)

	_, err = ParseToken("other-secret", token)
	require.Error(t, err)
}

func TestParseTokenRejectsExpired(t *testing.T) {
	token, err := GenerateToken("test-secret", Claims{UserID: "u1"}, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken("test-secret", token)
	require.Error(t, err)
}

func TestStaticPermissions(t *testing.T) {
	perms := StaticPermissions{}
	ctx := context.Background()

	tests := []struct {
		role       string
		permission string
		allowed    bool
	}{
		{RoleAdmin, PermAPIKeysManage, true},
		{RoleAdmin, PermSalaryWrite, true},
		{RoleStaff, PermSalaryRead, true},
		{RoleStaff, PermSalaryWrite, false},
		{RoleStaff, PermAPIKeysManage, false},
		{RoleAutomation, PermQuotesWrite, true},
		{RoleAutomation, PermAuditRead, false},
		{"unknown", PermSalaryRead, false},
	}
	for _, tc := range tests {
		allowed, err := perms.HasPermission(ctx, tc.role, tc.permission)
		require.NoError(t, err)
		assert.Equal(t, tc.allowed, allowed, "%s/%s", tc.role, tc.permission)
	}
}

func TestServiceLogin(t *testing.T) {
	store := newMemoryUsers()
	svc := NewService(store, "test-secret", time.Hour)
	ctx := context.Background()

	created, err := svc.EnsureUser(ctx, "admin@example.com", "change-me", RoleAdmin)
	require.NoError(t, err)
	require.True(t, created)

	created, err = svc.EnsureUser(ctx, "admin@example.com", "change-me", RoleAdmin)
	require.NoError(t, err)
	assert.False(t, created)

	session, err := svc.Login(ctx, " ADMIN@example.com ", "change-me")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, session.Role)
	assert.Equal(t, 1, store.lastLogins)

	claims, err := svc.ParseToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, session.UserID, claims.UserID)

	_, err = svc.Login(ctx, "admin@example.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@example.com", "change-me")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestEnsureUserRejectsUnknownRole(t *testing.T) {
	svc := NewService(newMemoryUsers(), "test-secret", 0)
	_, err := svc.EnsureUser(context.Background(), "ops@example.com", "pw", RoleAutomation)
	require.ErrorIs(t, err, ErrInvalidRole)

	created, err := svc.EnsureUser(context.Background(), "", "pw", RoleAdmin)
	require.NoError(t, err)
	assert.False(t, created)
}

func TestUserContextPrincipal(t *testing.T) {
	assert.Equal(t, "user:u1", UserContext{UserID: "u1"}.Principal())
	assert.Equal(t, "apikey:k1", UserContext{UserID: "k1", Kind: PrincipalAPIKey}.Principal())
}
