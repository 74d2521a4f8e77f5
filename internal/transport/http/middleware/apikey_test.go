package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"portal/internal/domain/apikeys"
	"portal/internal/domain/auth"
)

type stubKeys struct {
	token string
	err   error
}

func (s stubKeys) Authenticate(_ context.Context, token string) (apikeys.Key, error) {
	if s.err != nil {
		return apikeys.Key{}, s.err
	}
	if token != s.token {
		return apikeys.Key{}, apikeys.ErrInvalidKey
	}
	return apikeys.Key{ID: "key-1", Name: "n8n"}, nil
}

func TestAPIKeyMiddleware(t *testing.T) {
	keys := stubKeys{token: "pk_0a1b2c3d_secret"}
	handler := APIKey(keys)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := GetUser(r.Context())
		if !ok || user.Role != auth.RoleAutomation || user.Principal() != "apikey:key-1" {
			t.Fatalf("unexpected principal: %+v", user)
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	cases := []struct {
		name   string
		header string
		value  string
		status int
	}{
		{"x-api-key", "X-API-Key", "pk_0a1b2c3d_secret", http.StatusNoContent},
		{"authorization", "Authorization", "ApiKey pk_0a1b2c3d_secret", http.StatusNoContent},
		{"missing", "", "", http.StatusUnauthorized},
		{"wrong", "X-API-Key", "pk_0a1b2c3d_other", http.StatusUnauthorized},
		{"bearer is not a key", "Authorization", "Bearer pk_0a1b2c3d_secret", http.StatusUnauthorized},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/automation/salary/2025/table", nil)
		if tc.header != "" {
			req.Header.Set(tc.header, tc.value)
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != tc.status {
			t.Fatalf("%s: expected %d, got %d", tc.name, tc.status, rec.Code)
		}
	}
}

func TestAPIKeyMiddlewareStoreFailure(t *testing.T) {
	handler := APIKey(stubKeys{err: errors.New("db down")})(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("handler should not run")
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-API-Key", "pk_0a1b2c3d_secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}
