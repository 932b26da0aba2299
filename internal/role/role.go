package role

import (
	"time"

	"github.com/frahmantamala/training-management/internal"
	permissionDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/permission"
	roleDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/role"
)

var (
	ErrRoleNotFound = internal.NewNotFoundError("Role not found", internal.ErrCodeRoleNotFound)
	ErrRoleExists   = internal.NewConflictError("name", "A role with this name already exists", internal.ErrCodeRoleExists)
	ErrRoleInUse    = internal.NewBadRequestError("Role is still assigned to users", internal.ErrCodeRoleInUse)
	ErrOwnRole      = internal.NewBadRequestError("You cannot disable or delete your own role", internal.ErrCodeSelfTarget)
	ErrUnknownPerms = internal.NewValidationFieldError("permissionIds", "One or more permissions do not exist or are disabled", internal.ErrCodePermissionMissing)
)

type RoleResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	IsActive    bool       `json:"isActive"`
	DeletedAt   *time.Time `json:"deletedAt"`
	DeletedByID *int64     `json:"deletedById"`
	CreatedByID *int64     `json:"createdById"`
	UpdatedByID *int64     `json:"updatedById"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type PermissionResponse struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Module string `json:"module"`
}

type RoleDetailResponse struct {
	RoleResponse
	Permissions []PermissionResponse `json:"permissions"`
}

func ToResponse(r *roleDatamodel.Role) RoleResponse {
	return RoleResponse{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		IsActive:    r.IsActive,
		DeletedAt:   r.DeletedAt,
		DeletedByID: r.DeletedByID,
		CreatedByID: r.CreatedByID,
		UpdatedByID: r.UpdatedByID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func ToPermissionResponses(perms []*permissionDatamodel.Permission) []PermissionResponse {
	out := make([]PermissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, PermissionResponse{ID: p.ID, Name: p.Name, Method: p.Method, Path: p.Path, Module: p.Module})
	}
	return out
}
