package report

import (
	"time"

	"github.com/frahmantamala/training-management/internal/core/softdelete"
)

type Report struct {
	ID            int64   `gorm:"primaryKey"`
	Title         string  `gorm:"column:title;size:200;not null"`
	Content       string  `gorm:"column:content;not null"`
	AttachmentURL *string `gorm:"column:attachment_url"`
	CourseID      *int64  `gorm:"column:course_id;index"`
	AuthorID      int64   `gorm:"column:author_id;not null;index"`
	softdelete.Model
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Report) TableName() string {
	return "reports"
}
