package media

import (
	"github.com/frahmantamala/training-management/internal/core/common/validation"
)

type PresignDTO struct {
	FileName    string `json:"fileName"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

func (d PresignDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("fileName", d.FileName).Required().MaxLength(255)
	v.Field("contentType", d.ContentType).Required().MaxLength(255)
	v.Field("size", d.Size).Required().Positive()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
