package user

import (
	"fmt"
	"strings"

	"github.com/frahmantamala/training-management/internal"
	"github.com/frahmantamala/training-management/internal/core/common/validation"
)

type CreateUserDTO struct {
	FirstName    string  `json:"firstName"`
	LastName     string  `json:"lastName"`
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Phone        *string `json:"phone"`
	RoleID       *int64  `json:"roleId"`
	DepartmentID *int64  `json:"departmentId"`
}

type BulkCreateUsersDTO struct {
	Users []CreateUserDTO `json:"users"`
}

type UpdateUserDTO struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	AvatarURL    *string `json:"avatarUrl"`
	RoleID       *int64  `json:"roleId"`
	DepartmentID *int64  `json:"departmentId"`
}

type UpdateProfileDTO struct {
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatarUrl"`
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

func (d *CreateUserDTO) Normalize() {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
}

func (d CreateUserDTO) rules(v *validation.ValidationBuilder, prefix string) {
	v.Field(prefix+"firstName", d.FirstName).Required().MaxLength(100)
	v.Field(prefix+"lastName", d.LastName).MaxLength(100)
	v.Field(prefix+"email", d.Email).Required().Email().MaxLength(255)
	if d.Password != "" {
		v.Field(prefix+"password", d.Password).MinLength(8).MaxLength(72)
	}
	v.Field(prefix+"phone", d.Phone).MaxLength(30)
	v.Field(prefix+"roleId", d.RoleID).Positive()
	v.Field(prefix+"departmentId", d.DepartmentID).Positive()
}

func (d CreateUserDTO) Validate() error {
	v := validation.NewValidator()
	d.rules(v, "")
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// MaxBulkUsers caps one bulk request.
const MaxBulkUsers = 500

func (d *BulkCreateUsersDTO) Normalize() {
	for i := range d.Users {
		d.Users[i].Normalize()
	}
}

// Validate reports errors with paths like users[2].email.
func (d BulkCreateUsersDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("users", d.Users).Custom(func(interface{}) *internal.AppError {
		if n := len(d.Users); n == 0 || n > MaxBulkUsers {
			msg := fmt.Sprintf("users must contain between 1 and %d entries", MaxBulkUsers)
			return internal.NewValidationFieldError("users", msg, internal.ErrCodeValidationFailed)
		}
		return nil
	})
	for i, u := range d.Users {
		u.rules(v, fmt.Sprintf("users[%d].", i))
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d UpdateUserDTO) Validate() error {
	v := validation.NewValidator()
	if d.FirstName != nil {
		v.Field("firstName", d.FirstName).Required().MaxLength(100)
	}
	v.Field("lastName", d.LastName).MaxLength(100)
	if d.Email != nil {
		v.Field("email", d.Email).Required().Email().MaxLength(255)
	}
	v.Field("phone", d.Phone).MaxLength(30)
	v.Field("avatarUrl", d.AvatarURL).Prefix("http").MaxLength(2048)
	v.Field("roleId", d.RoleID).Positive()
	v.Field("departmentId", d.DepartmentID).Positive()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d UpdateProfileDTO) Validate() error {
	v := validation.NewValidator()
	if d.FirstName != nil {
		v.Field("firstName", d.FirstName).Required().MaxLength(100)
	}
	v.Field("lastName", d.LastName).MaxLength(100)
	v.Field("phone", d.Phone).MaxLength(30)
	v.Field("avatarUrl", d.AvatarURL).Prefix("http").MaxLength(2048)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d ChangePasswordDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("currentPassword", d.CurrentPassword).Required()
	v.Field("newPassword", d.NewPassword).Required().MinLength(8).MaxLength(72)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func trim(s string) string {
	return strings.TrimSpace(s)
}
