package middleware

import (
	"net/http"
	"strings"

	"portal/internal/domain/auth"
)

// Auth attaches the user of a valid Bearer token. Requests without one pass through
// anonymous; RequirePermission rejects them where needed.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := credential(r, "bearer")
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, token)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := WithUser(r.Context(), auth.UserContext{
				UserID: claims.UserID,
				Email:  claims.Email,
				Role:   claims.Role,
				Kind:   auth.PrincipalUser,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// credential returns the Authorization value for scheme, compared case-insensitively.
func credential(r *http.Request, scheme string) (string, bool) {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) != 2 || !strings.EqualFold(parts[0], scheme) {
		return "", false
	}
	return parts[1], true
}
