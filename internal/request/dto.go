package request

import (
	"strings"

	"github.com/frahmantamala/training-management/internal/core/common/validation"
)

type CreateRequestDTO struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

type ReviewDTO struct {
	Note *string `json:"note"`
}

func (d *CreateRequestDTO) Normalize() {
	d.Type = strings.ToUpper(strings.TrimSpace(d.Type))
	d.Title = strings.TrimSpace(d.Title)
}

func (d CreateRequestDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("type", d.Type).Required().OneOf(Types...)
	v.Field("title", d.Title).Required().MaxLength(200)
	v.Field("description", d.Description).MaxLength(5000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// Validate requires a note when rejecting.
func (d ReviewDTO) Validate(rejecting bool) error {
	v := validation.NewValidator()
	if rejecting {
		v.Field("note", d.Note).Required()
	}
	v.Field("note", d.Note).MaxLength(2000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
