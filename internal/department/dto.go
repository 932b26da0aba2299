package department

import "github.com/frahmantamala/training-management/internal/core/common/validation"

type CreateDepartmentDTO struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	HeadID      *int64 `json:"headId"`
}

type UpdateDepartmentDTO struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	HeadID      *int64  `json:"headId"`
}

func (d CreateDepartmentDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("name", d.Name).Required().MinLength(2).MaxLength(150)
	v.Field("description", d.Description).MaxLength(1000)
	v.Field("headId", d.HeadID).Positive()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d UpdateDepartmentDTO) Validate() error {
	v := validation.NewValidator()
	if d.Name != nil {
		v.Field("name", d.Name).Required().MinLength(2).MaxLength(150)
	}
	v.Field("description", d.Description).MaxLength(1000)
	v.Field("headId", d.HeadID).Positive()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
