// Package rbac provides role-based access control middleware.
package rbac

import (
	"net/http"

	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/response"
)

const (
	RoleAdmin = "ADMIN"
	RoleUser  = "USER"
)

// HasRole returns middleware that allows access only to users with one of
// the given roles. AuthMiddleware must run first.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := middleware.UserIDFromCtx(r); !ok {
				response.Unauthorized(w)
				return
			}
			role, _ := middleware.RoleFromCtx(r)
			if !allowed[role] {
				response.Error(w, http.StatusForbidden, "Permission denied")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Admin is HasRole(RoleAdmin).
func Admin(next http.Handler) http.Handler {
	return HasRole(RoleAdmin)(next)
}
