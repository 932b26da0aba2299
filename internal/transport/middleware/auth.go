package middleware

import (
	"net/http"

	"github.com/frahmantamala/training-management/internal/auth"
	"github.com/frahmantamala/training-management/pkg/logger"
)

// UserContext tags the request logger with the caller the access gate let through.
func UserContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sub := auth.SubjectFromContext(r.Context())
		if sub.UserID == 0 {
			next.ServeHTTP(w, r)
			return
		}

		ctx := logger.With(r.Context(), "user_id", sub.UserID, "role", sub.RoleName)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
