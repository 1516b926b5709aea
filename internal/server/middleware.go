package server

import (
	"context"
	"net/http"
	"strings"

	"fundops/internal/domain"
	"fundops/internal/util"
	apperrors "fundops/pkg/errors"

	"gorm.io/gorm"
)

type contextKey string

const userContextKey contextKey = "user"

// jwtAuth validates the bearer token, loads the user and puts it into the
// request context. Inactive accounts are rejected here so no handler needs
// its own check.
func jwtAuth(db *gorm.DB) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeError(w, apperrors.Unauthorized("authorization header required"))
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				writeError(w, apperrors.Unauthorized("invalid authorization header format"))
				return
			}

			claims, err := util.ValidateToken(parts[1])
			if err != nil {
				writeError(w, apperrors.Unauthorized("invalid or expired token"))
				return
			}

			user, err := util.GetUserFromToken(db, claims)
			if err != nil {
				writeError(w, apperrors.Unauthorized("user not found"))
				return
			}

			if !user.IsActive {
				writeError(w, apperrors.Unauthorized("user account is inactive"))
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// requireAdmin gates admin-only routes
func requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userFrom(r.Context())
		if !ok || !user.IsAdmin {
			writeError(w, apperrors.Forbidden("admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userFrom(ctx context.Context) (*domain.User, bool) {
	user, ok := ctx.Value(userContextKey).(*domain.User)
	return user, ok
}

// securityHeaders adds security headers to responses
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		w.Header().Set("Permissions-Policy", "geolocation=(), microphone=(), camera=()")
		next.ServeHTTP(w, r)
	})
}
