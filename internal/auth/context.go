package auth

import "context"

type ctxKey string

const (
	claimsKey ctxKey = "auth.claims"
	roleKey   ctxKey = "auth.role"
)

// WithAccess attaches what the access gate established about the caller.
func WithAccess(ctx context.Context, claims *Claims, role *RoleWithPermissions) context.Context {
	ctx = context.WithValue(ctx, claimsKey, claims)
	return context.WithValue(ctx, roleKey, role)
}

func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*Claims)
	return claims, ok && claims != nil
}

func RoleFromContext(ctx context.Context) (*RoleWithPermissions, bool) {
	role, ok := ctx.Value(roleKey).(*RoleWithPermissions)
	return role, ok && role != nil
}

// SubjectFromContext returns who the gate let through, or the zero Subject
// on routes outside the gate.
func SubjectFromContext(ctx context.Context) Subject {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return Subject{}
	}
	return Subject{UserID: claims.UserID, RoleID: claims.RoleID, RoleName: claims.RoleName}
}
