package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/training-management/internal/core/common/listing"
	permissionDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/permission"
	roleDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/role"
	"github.com/frahmantamala/training-management/internal/core/softdelete"
	"github.com/frahmantamala/training-management/internal/role"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) *RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) Create(ctx context.Context, row *roleDatamodel.Role) error {
	return translate(r.db.WithContext(ctx).Create(row).Error)
}

func (r *RoleRepository) FindByID(ctx context.Context, id int64, includeDeleted bool) (*roleDatamodel.Role, error) {
	var row roleDatamodel.Role
	err := r.db.WithContext(ctx).
		Scopes(softdelete.Filter("deleted_at", includeDeleted, "id = ?", id)).
		First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*roleDatamodel.Role, error) {
	var row roleDatamodel.Role
	err := r.db.WithContext(ctx).
		Scopes(softdelete.Filter("deleted_at", false, "name = ?", name)).
		First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (r *RoleRepository) List(ctx context.Context, q listing.Query) ([]*roleDatamodel.Role, int64, error) {
	base := r.db.WithContext(ctx).Model(&roleDatamodel.Role{}).
		Scopes(softdelete.Filter("deleted_at", q.IncludeDeleted, nil))
	if pattern := q.SearchPattern(); pattern != "" {
		base = base.Where("LOWER(name) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*roleDatamodel.Role
	err := base.Order("id ASC").Limit(q.Limit).Offset(q.Offset()).Find(&rows).Error
	return rows, total, err
}

func (r *RoleRepository) Update(ctx context.Context, row *roleDatamodel.Role) error {
	err := r.db.WithContext(ctx).Model(row).
		Select("name", "description", "updated_by_id").
		Updates(row).Error
	return translate(err)
}

func (r *RoleRepository) SaveLifecycle(ctx context.Context, row *roleDatamodel.Role) error {
	return translate(r.db.WithContext(ctx).Model(row).Select(softdelete.Columns()).Updates(row).Error)
}

func (r *RoleRepository) HardDelete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&roleDatamodel.RolePermission{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&roleDatamodel.Role{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return role.ErrRoleNotFound
		}
		return nil
	})
}

func (r *RoleRepository) CountUsers(ctx context.Context, roleID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Table("users").Where("role_id = ?", roleID).Count(&n).Error
	return n, err
}

func (r *RoleRepository) CountLivePermissions(ctx context.Context, ids []int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&permissionDatamodel.Permission{}).
		Scopes(softdelete.Filter("deleted_at", false, "id IN ?", ids)).
		Count(&n).Error
	return n, err
}

func (r *RoleRepository) ListPermissions(ctx context.Context, roleID int64) ([]*permissionDatamodel.Permission, error) {
	var perms []*permissionDatamodel.Permission
	err := r.db.WithContext(ctx).
		Joins("JOIN role_permissions rp ON rp.permission_id = permissions.id").
		Where("rp.role_id = ?", roleID).
		Scopes(softdelete.Filter("permissions.deleted_at", false, nil)).
		Order("permissions.module ASC, permissions.path ASC, permissions.method ASC").
		Find(&perms).Error
	return perms, err
}

func (r *RoleRepository) ReplacePermissions(ctx context.Context, roleID int64, permissionIDs []int64, actorID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", roleID).Delete(&roleDatamodel.RolePermission{}).Error; err != nil {
			return err
		}
		return insertGrants(tx, roleID, permissionIDs, actorID)
	})
}

func (r *RoleRepository) AddPermissions(ctx context.Context, roleID int64, permissionIDs []int64, actorID int64) error {
	return insertGrants(r.db.WithContext(ctx), roleID, permissionIDs, actorID)
}

func (r *RoleRepository) RemovePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	return r.db.WithContext(ctx).
		Where("role_id = ? AND permission_id IN ?", roleID, permissionIDs).
		Delete(&roleDatamodel.RolePermission{}).Error
}

// insertGrants skips pairs that already exist.
func insertGrants(tx *gorm.DB, roleID int64, permissionIDs []int64, actorID int64) error {
	if len(permissionIDs) == 0 {
		return nil
	}
	rows := make([]roleDatamodel.RolePermission, 0, len(permissionIDs))
	for _, pid := range permissionIDs {
		rows = append(rows, roleDatamodel.RolePermission{RoleID: roleID, PermissionID: pid, GrantedByID: &actorID})
	}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return role.ErrRoleNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return role.ErrRoleExists
	}
	return err
}
