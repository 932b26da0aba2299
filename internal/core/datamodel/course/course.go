package course

import (
	"time"

	"github.com/frahmantamala/training-management/internal/core/softdelete"
)

type Course struct {
	ID           int64      `gorm:"primaryKey"`
	Title        string     `gorm:"column:title;size:200;not null;uniqueIndex:idx_courses_title_live,where:deleted_at IS NULL"`
	Description  string     `gorm:"column:description"`
	DepartmentID *int64     `gorm:"column:department_id;index"`
	TrainerID    *int64     `gorm:"column:trainer_id;index"`
	StartDate    *time.Time `gorm:"column:start_date"`
	EndDate      *time.Time `gorm:"column:end_date"`
	softdelete.Model
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Course) TableName() string {
	return "courses"
}

type Subject struct {
	ID          int64     `gorm:"primaryKey"`
	CourseID    int64     `gorm:"column:course_id;not null;index"`
	Title       string    `gorm:"column:title;size:200;not null"`
	Description string    `gorm:"column:description"`
	Position    int       `gorm:"column:position;not null;default:0"`
	CreatedByID *int64    `gorm:"column:created_by_id"`
	UpdatedByID *int64    `gorm:"column:updated_by_id"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Subject) TableName() string {
	return "subjects"
}
