package department

import (
	"time"

	"github.com/frahmantamala/training-management/internal/core/softdelete"
)

type Department struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"column:name;size:150;not null;uniqueIndex:idx_departments_name_live,where:deleted_at IS NULL"`
	Description string `gorm:"column:description"`
	HeadID      *int64 `gorm:"column:head_id"`
	softdelete.Model
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Department) TableName() string {
	return "departments"
}
