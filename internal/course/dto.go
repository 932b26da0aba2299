package course

import (
	"time"

	"github.com/frahmantamala/training-management/internal/core/common/validation"
)

type CreateCourseDTO struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	DepartmentID *int64     `json:"departmentId"`
	TrainerID    *int64     `json:"trainerId"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
}

type UpdateCourseDTO struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	DepartmentID *int64     `json:"departmentId"`
	TrainerID    *int64     `json:"trainerId"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
}

type CreateSubjectDTO struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Position    *int   `json:"position"`
}

type UpdateSubjectDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Position    *int    `json:"position"`
}

func (d CreateCourseDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MinLength(2).MaxLength(200)
	v.Field("departmentId", d.DepartmentID).Positive()
	v.Field("trainerId", d.TrainerID).Positive()
	v.Field("endDate", d.EndDate).NotBefore(d.StartDate, "startDate")
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d UpdateCourseDTO) Validate() error {
	v := validation.NewValidator()
	if d.Title != nil {
		v.Field("title", d.Title).Required().MinLength(2).MaxLength(200)
	}
	v.Field("departmentId", d.DepartmentID).Positive()
	v.Field("trainerId", d.TrainerID).Positive()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d CreateSubjectDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(200)
	v.Field("position", d.Position).NonNegative()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

func (d UpdateSubjectDTO) Validate() error {
	v := validation.NewValidator()
	if d.Title != nil {
		v.Field("title", d.Title).Required().MaxLength(200)
	}
	v.Field("position", d.Position).NonNegative()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
