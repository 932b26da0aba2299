package report

import (
	"time"

	"github.com/frahmantamala/training-management/internal"
	reportDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/report"
)

var (
	ErrReportNotFound = internal.NewNotFoundError("Report not found", internal.ErrCodeReportNotFound)
	ErrNotAuthor      = internal.NewForbiddenError("Only the author or an administrator may do this", internal.ErrCodeForbidden)
	ErrUnknownCourse  = internal.NewValidationFieldError("courseId", "Course does not exist or is disabled", internal.ErrCodeCourseNotFound)
)

type ReportResponse struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	AttachmentURL *string    `json:"attachmentUrl"`
	CourseID      *int64     `json:"courseId"`
	AuthorID      int64      `json:"authorId"`
	IsActive      bool       `json:"isActive"`
	DeletedAt     *time.Time `json:"deletedAt"`
	DeletedByID   *int64     `json:"deletedById"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func ToResponse(r *reportDatamodel.Report) ReportResponse {
	return ReportResponse{
		ID:            r.ID,
		Title:         r.Title,
		Content:       r.Content,
		AttachmentURL: r.AttachmentURL,
		CourseID:      r.CourseID,
		AuthorID:      r.AuthorID,
		IsActive:      r.IsActive,
		DeletedAt:     r.DeletedAt,
		DeletedByID:   r.DeletedByID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}
