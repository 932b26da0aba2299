package permission

import (
	"time"

	"github.com/frahmantamala/training-management/internal/core/softdelete"
)

type Permission struct {
	ID     int64  `gorm:"primaryKey"`
	Name   string `gorm:"column:name;size:150;not null"`
	Method string `gorm:"column:method;size:10;not null;uniqueIndex:idx_permissions_path_method_live,where:deleted_at IS NULL"`
	Path   string `gorm:"column:path;size:255;not null;uniqueIndex:idx_permissions_path_method_live,where:deleted_at IS NULL"`
	Module string `gorm:"column:module;size:100;not null"`
	softdelete.Model
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Permission) TableName() string {
	return "permissions"
}
