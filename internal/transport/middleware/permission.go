package middleware

import (
	"net/http"

	"github.com/frahmantamala/training-management/internal"
	"github.com/frahmantamala/training-management/internal/auth"
	"github.com/frahmantamala/training-management/internal/transport"
	"github.com/frahmantamala/training-management/pkg/logger"
)

var errInsufficientRole = internal.NewForbiddenError("This action is limited to specific roles", internal.ErrCodeInsufficientRole)

// RequireRoles runs after the access gate and narrows a route to the named
// roles, on top of whatever permission the gate matched.
func RequireRoles(roles ...string) func(http.Handler) http.Handler {
	base := transport.NewBaseHandler(nil)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub := auth.SubjectFromContext(r.Context())
			if sub.UserID == 0 {
				base.WriteAppError(w, internal.ErrUnauthenticated)
				return
			}

			for _, role := range roles {
				if sub.RoleName == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			logger.From(r.Context()).Warn("access denied: role not allowed",
				"user_id", sub.UserID,
				"role", sub.RoleName,
				"required_roles", roles)
			base.WriteAppError(w, errInsufficientRole)
		})
	}
}
