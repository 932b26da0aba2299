package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// System role names. Prefixes for employee ids hang off these.
const (
	RoleAdministrator  = "ADMINISTRATOR"
	RoleDepartmentHead = "DEPARTMENT_HEAD"
	RoleAuditor        = "AUDITOR"
	RoleTrainer        = "TRAINER"
	RoleTrainee        = "TRAINEE"
)

// SystemRoles lists the roles the seeder creates, in seed order.
var SystemRoles = []string{RoleAdministrator, RoleDepartmentHead, RoleAuditor, RoleTrainer, RoleTrainee}

// IsReviewer reports whether roleName may see and act on other users'
// requests and reports.
func IsReviewer(roleName string) bool {
	switch roleName {
	case RoleAdministrator, RoleDepartmentHead, RoleAuditor:
		return true
	}
	return false
}

// Claims is the decoded access token payload.
type Claims struct {
	UserID   int64  `json:"userId"`
	RoleID   int64  `json:"roleId"`
	RoleName string `json:"roleName"`
	jwt.RegisteredClaims
}

// Subject identifies who a token is issued for.
type Subject struct {
	UserID   int64
	RoleID   int64
	RoleName string
}

type AuthTokens struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// GrantedPermission is a permission row matched for the current route.
type GrantedPermission struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Module string `json:"module"`
}

// RoleWithPermissions is the caller's role with only the permissions that
// match the route being served.
type RoleWithPermissions struct {
	ID          int64               `json:"id"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Permissions []GrantedPermission `json:"permissions"`
}

func (r *RoleWithPermissions) Allows(method, path string) bool {
	for _, p := range r.Permissions {
		if p.Method == method && p.Path == path {
			return true
		}
	}
	return false
}

// TokenGenerator issues and verifies the three token kinds.
type TokenGenerator interface {
	GenerateAccessToken(sub Subject) (string, error)
	GenerateRefreshToken(sub Subject) (string, error)
	GenerateResetToken(userID int64) (string, time.Time, error)
	ValidateAccessToken(tokenString string) (*Claims, error)
	ValidateRefreshToken(tokenString string) (*Claims, error)
	ValidateResetToken(tokenString string) (int64, error)
}

// PermissionResolver loads a live, active role together with the
// permissions it holds for exactly (path, method).
type PermissionResolver interface {
	ResolveRole(ctx context.Context, roleID int64, path, method string) (*RoleWithPermissions, error)
}

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")
	ErrRoleNotFound = errors.New("role not found or inactive")
	ErrUserNotFound = errors.New("user not found")
)
