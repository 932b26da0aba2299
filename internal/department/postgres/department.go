package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/training-management/internal/core/common/listing"
	departmentDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/department"
	userDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/user"
	"github.com/frahmantamala/training-management/internal/core/softdelete"
	"github.com/frahmantamala/training-management/internal/department"
	"gorm.io/gorm"
)

type DepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

func (r *DepartmentRepository) Create(ctx context.Context, row *departmentDatamodel.Department) error {
	return translate(r.db.WithContext(ctx).Create(row).Error)
}

func (r *DepartmentRepository) FindByID(ctx context.Context, id int64, includeDeleted bool) (*departmentDatamodel.Department, error) {
	var row departmentDatamodel.Department
	err := r.db.WithContext(ctx).
		Scopes(softdelete.Filter("deleted_at", includeDeleted, "id = ?", id)).
		First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

// FindByName matches live departments case-insensitively.
func (r *DepartmentRepository) FindByName(ctx context.Context, name string) (*departmentDatamodel.Department, error) {
	var row departmentDatamodel.Department
	err := r.db.WithContext(ctx).
		Scopes(softdelete.Filter("deleted_at", false, "LOWER(name) = LOWER(?)", name)).
		First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (r *DepartmentRepository) List(ctx context.Context, q listing.Query) ([]*departmentDatamodel.Department, int64, error) {
	base := r.db.WithContext(ctx).Model(&departmentDatamodel.Department{}).
		Scopes(softdelete.Filter("deleted_at", q.IncludeDeleted, nil))
	if pattern := q.SearchPattern(); pattern != "" {
		base = base.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*departmentDatamodel.Department
	err := base.Order("name ASC").Limit(q.Limit).Offset(q.Offset()).Find(&rows).Error
	return rows, total, err
}

func (r *DepartmentRepository) Update(ctx context.Context, row *departmentDatamodel.Department) error {
	err := r.db.WithContext(ctx).Model(row).
		Select("name", "description", "head_id", "updated_by_id").
		Updates(row).Error
	return translate(err)
}

func (r *DepartmentRepository) SaveLifecycle(ctx context.Context, row *departmentDatamodel.Department) error {
	return translate(r.db.WithContext(ctx).Model(row).Select(softdelete.Columns()).Updates(row).Error)
}

func (r *DepartmentRepository) UserExists(ctx context.Context, userID int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Scopes(softdelete.Filter("deleted_at", false, "id = ?", userID)).
		Count(&n).Error
	return n > 0, err
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return department.ErrDepartmentNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return department.ErrDepartmentExists
	}
	return err
}
