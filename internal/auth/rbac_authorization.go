package auth

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/training-management/internal"
	"github.com/frahmantamala/training-management/internal/transport"
)

// AccessTokenVerifier decodes bearer tokens for the gate.
type AccessTokenVerifier interface {
	ValidateAccessToken(tokenString string) (*Claims, error)
}

// AccessGate authorizes every protected request against the caller's role
// before the handler runs. A route is reachable only when the role holds a
// live permission whose path equals the route template and whose method
// equals the request method.
type AccessGate struct {
	*transport.BaseHandler
	tokens   AccessTokenVerifier
	resolver PermissionResolver
	basePath string
}

func NewAccessGate(tokens AccessTokenVerifier, resolver PermissionResolver, basePath string, logger *slog.Logger) *AccessGate {
	return &AccessGate{
		BaseHandler: transport.NewBaseHandler(logger),
		tokens:      tokens,
		resolver:    resolver,
		basePath:    basePath,
	}
}

func (g *AccessGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := g.ExtractTokenFromHeader(r)
		if token == "" {
			g.WriteAppError(w, internal.ErrUnauthenticated)
			return
		}

		claims, err := g.tokens.ValidateAccessToken(token)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				g.WriteAppError(w, internal.ErrTokenExpired)
				return
			}
			g.WriteAppError(w, internal.ErrInvalidToken)
			return
		}

		path := RouteTemplate(r, g.basePath)
		role, err := g.resolver.ResolveRole(r.Context(), claims.RoleID, path, r.Method)
		if err != nil {
			if !errors.Is(err, ErrRoleNotFound) {
				g.Logger.ErrorContext(r.Context(), "role resolution failed", "error", err, "role_id", claims.RoleID)
			}
			g.Logger.WarnContext(r.Context(), "access denied: role unavailable",
				"user_id", claims.UserID, "role_id", claims.RoleID)
			g.WriteAppError(w, internal.ErrForbidden)
			return
		}

		if len(role.Permissions) == 0 {
			g.Logger.WarnContext(r.Context(), "access denied: no matching permission",
				"user_id", claims.UserID, "role", role.Name, "method", r.Method, "path", path)
			g.WriteAppError(w, internal.ErrForbidden)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithAccess(r.Context(), claims, role)))
	})
}
