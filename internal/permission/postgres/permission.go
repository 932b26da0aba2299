package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/training-management/internal/core/common/listing"
	permissionDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/permission"
	roleDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/role"
	"github.com/frahmantamala/training-management/internal/core/softdelete"
	"github.com/frahmantamala/training-management/internal/permission"
	"gorm.io/gorm"
)

type PermissionRepository struct {
	db *gorm.DB
}

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

func (r *PermissionRepository) Create(ctx context.Context, row *permissionDatamodel.Permission) error {
	return translate(r.db.WithContext(ctx).Create(row).Error)
}

func (r *PermissionRepository) FindByID(ctx context.Context, id int64, includeDeleted bool) (*permissionDatamodel.Permission, error) {
	var row permissionDatamodel.Permission
	err := r.db.WithContext(ctx).
		Scopes(softdelete.Filter("deleted_at", includeDeleted, "id = ?", id)).
		First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (r *PermissionRepository) FindByRoute(ctx context.Context, path, method string) (*permissionDatamodel.Permission, error) {
	var row permissionDatamodel.Permission
	err := r.db.WithContext(ctx).
		Scopes(softdelete.Filter("deleted_at", false, "path = ? AND method = ?", path, method)).
		First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (r *PermissionRepository) List(ctx context.Context, q listing.Query) ([]*permissionDatamodel.Permission, int64, error) {
	base := r.db.WithContext(ctx).Model(&permissionDatamodel.Permission{}).
		Scopes(softdelete.Filter("deleted_at", q.IncludeDeleted, nil))
	if pattern := q.SearchPattern(); pattern != "" {
		base = base.Where("LOWER(name) LIKE ? OR LOWER(path) LIKE ? OR LOWER(module) LIKE ?", pattern, pattern, pattern)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*permissionDatamodel.Permission
	err := base.Order("module ASC, path ASC, method ASC").Limit(q.Limit).Offset(q.Offset()).Find(&rows).Error
	return rows, total, err
}

func (r *PermissionRepository) Update(ctx context.Context, row *permissionDatamodel.Permission) error {
	err := r.db.WithContext(ctx).Model(row).
		Select("name", "method", "path", "module", "updated_by_id").
		Updates(row).Error
	return translate(err)
}

func (r *PermissionRepository) SaveLifecycle(ctx context.Context, row *permissionDatamodel.Permission) error {
	return translate(r.db.WithContext(ctx).Model(row).Select(softdelete.Columns()).Updates(row).Error)
}

func (r *PermissionRepository) HardDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("permission_id = ?", id).Delete(&roleDatamodel.RolePermission{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&permissionDatamodel.Permission{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return permission.ErrPermissionNotFound
		}
		return nil
	})
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return permission.ErrPermissionNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return permission.ErrPermissionExists
	}
	return err
}
