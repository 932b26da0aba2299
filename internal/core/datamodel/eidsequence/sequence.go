package eidsequence

import "time"

// Sequence is the per-prefix high-water mark row locked during EID allocation.
type Sequence struct {
	Prefix    string    `gorm:"column:prefix;primaryKey;size:2"`
	LastValue int64     `gorm:"column:last_value;not null;default:0"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (Sequence) TableName() string {
	return "eid_sequences"
}
