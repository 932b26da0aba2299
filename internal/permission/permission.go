package permission

import (
	"strings"
	"time"

	"github.com/frahmantamala/training-management/internal"
	permissionDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/permission"
)

// Methods a permission may name.
var Methods = []string{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"}

var (
	ErrPermissionNotFound = internal.NewNotFoundError("Permission not found", internal.ErrCodePermissionMissing)
	ErrPermissionExists   = internal.NewConflictError("path", "A permission for this path and method already exists", internal.ErrCodePermissionExists)
)

type PermissionResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Method      string     `json:"method"`
	Path        string     `json:"path"`
	Module      string     `json:"module"`
	IsActive    bool       `json:"isActive"`
	DeletedAt   *time.Time `json:"deletedAt"`
	DeletedByID *int64     `json:"deletedById"`
	CreatedByID *int64     `json:"createdById"`
	UpdatedByID *int64     `json:"updatedById"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func ToResponse(p *permissionDatamodel.Permission) PermissionResponse {
	return PermissionResponse{
		ID:          p.ID,
		Name:        p.Name,
		Method:      p.Method,
		Path:        p.Path,
		Module:      p.Module,
		IsActive:    p.IsActive,
		DeletedAt:   p.DeletedAt,
		DeletedByID: p.DeletedByID,
		CreatedByID: p.CreatedByID,
		UpdatedByID: p.UpdatedByID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NormalizePath trims whitespace and a trailing slash. Paths are compared
// literally by the access gate, so "/roles/" and "/roles" must not coexist.
func NormalizePath(path string) string {
	path = strings.TrimSpace(path)
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}

// ModuleOf returns the first path segment, e.g. "roles" for "/roles/:roleId".
func ModuleOf(path string) string {
	segments := strings.SplitN(strings.TrimPrefix(path, "/"), "/", 2)
	return segments[0]
}
