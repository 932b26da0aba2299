package role

import (
	"strings"

	"github.com/frahmantamala/training-management/internal/core/common/validation"
)

type CreateRoleDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// UpdateRoleDTO only touches the fields that are present.
type UpdateRoleDTO struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type PermissionIDsDTO struct {
	PermissionIDs []int64 `json:"permissionIds"`
}

// NormalizeName upper-cases role names and joins words with underscores.
func NormalizeName(name string) string {
	name = strings.ToUpper(strings.TrimSpace(name))
	return strings.Join(strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '-' || r == '_'
	}), "_")
}

func (d CreateRoleDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MinLength(2).MaxLength(100)
	v.Field("description", d.Description).MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d UpdateRoleDTO) Validate() error {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", d.Name).Required().MinLength(2).MaxLength(100)
	}
	v.Field("description", d.Description).MaxLength(500)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate allows an empty list so a replace can clear every grant.
func (d PermissionIDsDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("permissionIds", d.PermissionIDs).Positive()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// ValidateNonEmpty is used by add and remove, where an empty list is a mistake.
func (d PermissionIDsDTO) ValidateNonEmpty() error {
	v := validation.NewValidator()
	v.Field("permissionIds", d.PermissionIDs).Required().Positive()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
