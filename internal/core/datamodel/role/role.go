package role

import (
	"time"

	"github.com/frahmantamala/training-management/internal/core/softdelete"
)

type Role struct {
	ID          int64  `gorm:"primaryKey"`
	Name        string `gorm:"column:name;size:100;not null;uniqueIndex:idx_roles_name_live,where:deleted_at IS NULL"`
	Description string `gorm:"column:description"`
	softdelete.Model
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Role) TableName() string {
	return "roles"
}

// RolePermission is the join row granting a permission to a role.
type RolePermission struct {
	RoleID       int64     `gorm:"column:role_id;primaryKey"`
	PermissionID int64     `gorm:"column:permission_id;primaryKey;index"`
	GrantedByID  *int64    `gorm:"column:granted_by_id"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (RolePermission) TableName() string {
	return "role_permissions"
}
