// Package softdelete holds the enable/disable lifecycle shared by roles,
// permissions, users, departments and courses.
package softdelete

import (
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/training-management/internal"
	"gorm.io/gorm"
)

var (
	ErrAlreadyDisabled = errors.New("already disabled")
	ErrAlreadyEnabled  = errors.New("already enabled")
)

// Model is embedded by every gorm row that supports soft deletion.
type Model struct {
	IsActive    bool       `gorm:"column:is_active;not null;default:true"`
	DeletedAt   *time.Time `gorm:"column:deleted_at;index"`
	DeletedByID *int64     `gorm:"column:deleted_by_id"`
	CreatedByID *int64     `gorm:"column:created_by_id"`
	UpdatedByID *int64     `gorm:"column:updated_by_id"`
}

// Disabled reports whether the row is in the DISABLED state.
func (m *Model) Disabled() bool {
	return m.DeletedAt != nil || !m.IsActive
}

// Disable moves ACTIVE -> DISABLED.
func (m *Model) Disable(actorID int64, at time.Time) error {
	if m.Disabled() {
		return ErrAlreadyDisabled
	}
	m.IsActive = false
	m.DeletedAt = &at
	m.DeletedByID = &actorID
	m.UpdatedByID = &actorID
	return nil
}

// Enable moves DISABLED -> ACTIVE.
func (m *Model) Enable(actorID int64) error {
	if !m.Disabled() {
		return ErrAlreadyEnabled
	}
	m.IsActive = true
	m.DeletedAt = nil
	m.DeletedByID = nil
	m.UpdatedByID = &actorID
	return nil
}

// Columns lists the lifecycle columns, for use with Select before Updates.
func Columns() []string {
	return []string{"is_active", "deleted_at", "deleted_by_id", "updated_by_id"}
}

// Filter builds the read scope every repository uses: the optional base
// predicate, plus "<column> IS NULL" unless includeDeleted is set.
func Filter(column string, includeDeleted bool, query interface{}, args ...interface{}) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if query != nil {
			db = db.Where(query, args...)
		}
		if !includeDeleted {
			db = db.Where(fmt.Sprintf("%s IS NULL", column))
		}
		return db
	}
}

// AsAppError turns a lifecycle transition error into a 400 naming entity.
func AsAppError(entity string, err error) error {
	switch {
	case errors.Is(err, ErrAlreadyDisabled):
		return internal.NewBadRequestError(fmt.Sprintf("%s is already disabled", entity), internal.ErrCodeAlreadyDisabled)
	case errors.Is(err, ErrAlreadyEnabled):
		return internal.NewBadRequestError(fmt.Sprintf("%s is already enabled", entity), internal.ErrCodeAlreadyEnabled)
	}
	return err
}
