package department

import (
	"time"

	"github.com/frahmantamala/training-management/internal"
	departmentDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/department"
)

var (
	ErrDepartmentNotFound = internal.NewNotFoundError("Department not found", internal.ErrCodeDepartmentMissing)
	ErrDepartmentExists   = internal.NewConflictError("name", "A department with this name already exists", internal.ErrCodeDepartmentExists)
	ErrUnknownHead        = internal.NewValidationFieldError("headId", "Department head must be an active user", internal.ErrCodeUserNotFound)
)

type DepartmentResponse struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	HeadID      *int64     `json:"headId"`
	IsActive    bool       `json:"isActive"`
	DeletedAt   *time.Time `json:"deletedAt"`
	DeletedByID *int64     `json:"deletedById"`
	CreatedByID *int64     `json:"createdById"`
	UpdatedByID *int64     `json:"updatedById"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func ToResponse(d *departmentDatamodel.Department) DepartmentResponse {
	return DepartmentResponse{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		HeadID:      d.HeadID,
		IsActive:    d.IsActive,
		DeletedAt:   d.DeletedAt,
		DeletedByID: d.DeletedByID,
		CreatedByID: d.CreatedByID,
		UpdatedByID: d.UpdatedByID,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}
