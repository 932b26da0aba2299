package request

import "time"

type Request struct {
	ID          int64      `gorm:"primaryKey"`
	Type        string     `gorm:"column:type;size:30;not null"`
	Title       string     `gorm:"column:title;size:200;not null"`
	Description string     `gorm:"column:description"`
	Status      string     `gorm:"column:status;size:20;not null;default:PENDING;index"`
	RequesterID int64      `gorm:"column:requester_id;not null;index"`
	ReviewerID  *int64     `gorm:"column:reviewer_id"`
	ReviewNote  *string    `gorm:"column:review_note"`
	ReviewedAt  *time.Time `gorm:"column:reviewed_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Request) TableName() string {
	return "requests"
}
