package report

import "github.com/frahmantamala/training-management/internal/core/common/validation"

type CreateReportDTO struct {
	Title         string  `json:"title"`
	Content       string  `json:"content"`
	AttachmentURL *string `json:"attachmentUrl"`
	CourseID      *int64  `json:"courseId"`
}

func (d CreateReportDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("title", d.Title).Required().MaxLength(200)
	v.Field("content", d.Content).Required().MaxLength(20000)
	v.Field("attachmentUrl", d.AttachmentURL).Prefix("http").MaxLength(2048)
	v.Field("courseId", d.CourseID).Positive()
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
