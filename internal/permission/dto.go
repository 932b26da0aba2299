package permission

import (
	"strings"

	"github.com/frahmantamala/training-management/internal/core/common/validation"
)

type CreatePermissionDTO struct {
	Name   string `json:"name"`
	Method string `json:"method"`
	Path   string `json:"path"`
	Module string `json:"module"`
}

type UpdatePermissionDTO struct {
	Name   *string `json:"name"`
	Method *string `json:"method"`
	Path   *string `json:"path"`
	Module *string `json:"module"`
}

func (d *CreatePermissionDTO) Normalize() {
	d.Name = strings.TrimSpace(d.Name)
	d.Method = strings.ToUpper(strings.TrimSpace(d.Method))
	d.Path = NormalizePath(d.Path)
	d.Module = strings.TrimSpace(d.Module)
	if d.Module == "" && d.Path != "" {
		d.Module = ModuleOf(d.Path)
	}
}

func (d CreatePermissionDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MaxLength(150)
	v.Field("method", d.Method).Required().OneOf(Methods...)
	v.Field("path", d.Path).Required().Prefix("/").MaxLength(255)
	v.Field("module", d.Module).MaxLength(100)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d *UpdatePermissionDTO) Normalize() {
	if d.Method != nil {
		m := strings.ToUpper(strings.TrimSpace(*d.Method))
		d.Method = &m
	}
	if d.Path != nil {
		p := NormalizePath(*d.Path)
		d.Path = &p
	}
}

func (d UpdatePermissionDTO) Validate() error {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", d.Name).Required().MaxLength(150)
	}
	if d.Method != nil {
		v.Field("method", d.Method).Required().OneOf(Methods...)
	}
	if d.Path != nil {
		v.Field("path", d.Path).Required().Prefix("/").MaxLength(255)
	}
	if d.Module != nil {
		v.Field("module", d.Module).Required().MaxLength(100)
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
