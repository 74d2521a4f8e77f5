package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"portal/internal/domain/apikeys"
	"portal/internal/domain/auth"
	"portal/internal/platform/logger"
	"portal/internal/transport/http/api"
)

type KeyAuthenticator interface {
	Authenticate(ctx context.Context, token string) (apikeys.Key, error)
}

// APIKey requires an automation key in X-API-Key or "Authorization: ApiKey <token>"
// and attaches an automation principal.
func APIKey(keys KeyAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := strings.TrimSpace(r.Header.Get("X-API-Key"))
			if token == "" {
				token, _ = credential(r, "apikey")
			}
			if token == "" {
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "api key required", GetRequestID(r.Context()))
				return
			}

			key, err := keys.Authenticate(r.Context(), token)
			switch {
			case errors.Is(err, apikeys.ErrInvalidKey), errors.Is(err, apikeys.ErrKeyRevoked):
				api.Fail(w, http.StatusUnauthorized, "unauthorized", "invalid api key", GetRequestID(r.Context()))
				return
			case err != nil:
				logger.Ctx(r.Context()).Error().Err(err).Msg("api key lookup failed")
				api.Fail(w, http.StatusInternalServerError, "auth_error", "api key verification failed", GetRequestID(r.Context()))
				return
			}

			ctx := WithUser(r.Context(), auth.UserContext{
				UserID: key.ID,
				Email:  key.Name,
				Role:   auth.RoleAutomation,
				Kind:   auth.PrincipalAPIKey,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
