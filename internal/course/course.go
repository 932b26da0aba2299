package course

import (
	"time"

	"github.com/frahmantamala/training-management/internal"
	courseDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/course"
)

var (
	ErrCourseNotFound  = internal.NewNotFoundError("Course not found", internal.ErrCodeCourseNotFound)
	ErrCourseExists    = internal.NewConflictError("title", "A course with this title already exists", internal.ErrCodeCourseExists)
	ErrSubjectNotFound = internal.NewNotFoundError("Subject not found", internal.ErrCodeSubjectNotFound)
	ErrUnknownDept     = internal.NewValidationFieldError("departmentId", "Department does not exist or is disabled", internal.ErrCodeDepartmentMissing)
	ErrUnknownTrainer  = internal.NewValidationFieldError("trainerId", "Trainer must be an active user", internal.ErrCodeUserNotFound)
)

type CourseResponse struct {
	ID           int64      `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	DepartmentID *int64     `json:"departmentId"`
	TrainerID    *int64     `json:"trainerId"`
	StartDate    *time.Time `json:"startDate"`
	EndDate      *time.Time `json:"endDate"`
	IsActive     bool       `json:"isActive"`
	DeletedAt    *time.Time `json:"deletedAt"`
	DeletedByID  *int64     `json:"deletedById"`
	CreatedByID  *int64     `json:"createdById"`
	UpdatedByID  *int64     `json:"updatedById"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

type SubjectResponse struct {
	ID          int64     `json:"id"`
	CourseID    int64     `json:"courseId"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Position    int       `json:"position"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ToResponse(c *courseDatamodel.Course) CourseResponse {
	return CourseResponse{
		ID:           c.ID,
		Title:        c.Title,
		Description:  c.Description,
		DepartmentID: c.DepartmentID,
		TrainerID:    c.TrainerID,
		StartDate:    c.StartDate,
		EndDate:      c.EndDate,
		IsActive:     c.IsActive,
		DeletedAt:    c.DeletedAt,
		DeletedByID:  c.DeletedByID,
		CreatedByID:  c.CreatedByID,
		UpdatedByID:  c.UpdatedByID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}

func ToSubjectResponse(s *courseDatamodel.Subject) SubjectResponse {
	return SubjectResponse{
		ID:          s.ID,
		CourseID:    s.CourseID,
		Title:       s.Title,
		Description: s.Description,
		Position:    s.Position,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}
