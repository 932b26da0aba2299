package user

import (
	"time"

	"github.com/frahmantamala/training-management/internal"
	userDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/user"
)

const (
	StatusActive   = "ACTIVE"
	StatusDisabled = "DISABLED"

	// generatedPasswordBytes is hex encoded, so passwords are twice as long.
	generatedPasswordBytes = 8
)

var (
	ErrUserNotFound   = internal.NewNotFoundError("User not found", internal.ErrCodeUserNotFound)
	ErrEmailExists    = internal.NewConflictError("email", "A user with this email already exists", internal.ErrCodeEmailExists)
	ErrUnknownRole    = internal.NewValidationFieldError("roleId", "Role does not exist or is disabled", internal.ErrCodeRoleNotFound)
	ErrUnknownDept    = internal.NewValidationFieldError("departmentId", "Department does not exist or is disabled", internal.ErrCodeDepartmentMissing)
	ErrSelfDisable    = internal.NewBadRequestError("You cannot disable your own account", internal.ErrCodeSelfTarget)
	ErrWrongPassword  = internal.NewBadRequestError("Current password is incorrect", internal.ErrCodeWrongPassword)
	ErrDefaultRoleGap = internal.NewInternalError("Default role is not configured", nil)
)

// RoleRef is the subset of a role a user operation needs.
type RoleRef struct {
	ID   int64
	Name string
}

type UserResponse struct {
	ID           int64      `json:"id"`
	EID          string     `json:"eid"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	Email        string     `json:"email"`
	Phone        *string    `json:"phone"`
	AvatarURL    *string    `json:"avatarUrl"`
	RoleID       int64      `json:"roleId"`
	DepartmentID *int64     `json:"departmentId"`
	Status       string     `json:"status"`
	IsActive     bool       `json:"isActive"`
	DeletedAt    *time.Time `json:"deletedAt"`
	DeletedByID  *int64     `json:"deletedById"`
	CreatedByID  *int64     `json:"createdById"`
	UpdatedByID  *int64     `json:"updatedById"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

func ToResponse(u *userDatamodel.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		EID:          u.EID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		Email:        u.Email,
		Phone:        u.Phone,
		AvatarURL:    u.AvatarURL,
		RoleID:       u.RoleID,
		DepartmentID: u.DepartmentID,
		Status:       u.Status,
		IsActive:     u.IsActive,
		DeletedAt:    u.DeletedAt,
		DeletedByID:  u.DeletedByID,
		CreatedByID:  u.CreatedByID,
		UpdatedByID:  u.UpdatedByID,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
