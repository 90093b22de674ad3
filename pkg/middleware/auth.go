package middleware

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

// AuthMiddleware requires a valid bearer access token and stores its claims
// on the request context for downstream handlers.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			response.Error(w, http.StatusUnauthorized, "Provide token")
			return
		}

		claims, err := auth.ValidateToken(token)
		if err != nil {
			response.Error(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
	})
}

// UserIDFromCtx returns the authenticated user id placed by AuthMiddleware.
func UserIDFromCtx(r *http.Request) (uint, bool) {
	c, ok := auth.FromContext(r.Context())
	if !ok {
		return 0, false
	}
	return c.UserID, true
}

// RoleFromCtx returns the authenticated user's role placed by AuthMiddleware.
func RoleFromCtx(r *http.Request) (string, bool) {
	c, ok := auth.FromContext(r.Context())
	if !ok {
		return "", false
	}
	return c.Role, true
}

func bearerToken(r *http.Request) string {
	h := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
