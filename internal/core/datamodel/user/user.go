package user

import (
	"time"

	"github.com/frahmantamala/training-management/internal/core/softdelete"
)

type User struct {
	ID           int64   `gorm:"primaryKey"`
	EID          string  `gorm:"column:eid;size:8;not null;uniqueIndex"`
	FirstName    string  `gorm:"column:first_name;size:100;not null"`
	LastName     string  `gorm:"column:last_name;size:100"`
	Email        string  `gorm:"column:email;size:255;not null;uniqueIndex"`
	PasswordHash string  `gorm:"column:password_hash;not null"`
	Phone        *string `gorm:"column:phone;size:30"`
	AvatarURL    *string `gorm:"column:avatar_url"`
	RoleID       int64   `gorm:"column:role_id;not null;index"`
	DepartmentID *int64  `gorm:"column:department_id;index"`
	Status       string  `gorm:"column:status;size:20;not null;default:ACTIVE"`
	softdelete.Model
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
