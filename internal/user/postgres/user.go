package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/training-management/internal/core/common/listing"
	departmentDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/department"
	roleDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/role"
	userDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/user"
	"github.com/frahmantamala/training-management/internal/core/softdelete"
	"github.com/frahmantamala/training-management/internal/eid"
	"github.com/frahmantamala/training-management/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db   *gorm.DB
	eids eid.TxAllocator
}

func NewUserRepository(db *gorm.DB, eids eid.TxAllocator) *UserRepository {
	return &UserRepository{db: db, eids: eids}
}

func (r *UserRepository) CreateWithEIDs(ctx context.Context, users []*userDatamodel.User, roleNames []string) error {
	if len(users) != len(roleNames) {
		return errors.New("users and role names differ in length")
	}

	byRole := make(map[string][]int)
	var order []string
	for i, name := range roleNames {
		if _, seen := byRole[name]; !seen {
			order = append(order, name)
		}
		byRole[name] = append(byRole[name], i)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, name := range order {
			idx := byRole[name]
			ids, err := r.eids.GenerateWithTx(tx, name, len(idx))
			if err != nil {
				return err
			}
			for k, i := range idx {
				users[i].EID = ids[k]
			}
		}
		return translate(tx.Create(&users).Error)
	})
}

func (r *UserRepository) FindByID(ctx context.Context, id int64, includeDeleted bool) (*userDatamodel.User, error) {
	var row userDatamodel.User
	err := r.db.WithContext(ctx).
		Scopes(softdelete.Filter("deleted_at", includeDeleted, "id = ?", id)).
		First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (r *UserRepository) List(ctx context.Context, q listing.Query) ([]*userDatamodel.User, int64, error) {
	base := r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Scopes(softdelete.Filter("deleted_at", q.IncludeDeleted, nil))
	if pattern := q.SearchPattern(); pattern != "" {
		base = base.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(eid) LIKE ?",
			pattern, pattern, pattern, pattern)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*userDatamodel.User
	err := base.Order("id ASC").Limit(q.Limit).Offset(q.Offset()).Find(&rows).Error
	return rows, total, err
}

// TakenEmails looks at disabled users too, since emails stay unique for sign-in.
func (r *UserRepository) TakenEmails(ctx context.Context, emails []string, excludeID int64) ([]string, error) {
	if len(emails) == 0 {
		return nil, nil
	}
	var taken []string
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("email IN ? AND id <> ?", emails, excludeID).
		Order("email ASC").
		Pluck("email", &taken).Error
	return taken, err
}

func (r *UserRepository) Update(ctx context.Context, row *userDatamodel.User) error {
	err := r.db.WithContext(ctx).Model(row).
		Select("first_name", "last_name", "email", "phone", "avatar_url", "role_id", "department_id", "updated_by_id").
		Updates(row).Error
	return translate(err)
}

func (r *UserRepository) SaveLifecycle(ctx context.Context, row *userDatamodel.User) error {
	cols := append(softdelete.Columns(), "status")
	return translate(r.db.WithContext(ctx).Model(row).Select(cols).Updates(row).Error)
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// FindRole returns a live role, or ErrUnknownRole.
func (r *UserRepository) FindRole(ctx context.Context, id int64) (*user.RoleRef, error) {
	var row roleDatamodel.Role
	err := r.db.WithContext(ctx).
		Scopes(softdelete.Filter("deleted_at", false, "id = ? AND is_active = ?", id, true)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUnknownRole
	}
	if err != nil {
		return nil, err
	}
	return &user.RoleRef{ID: row.ID, Name: row.Name}, nil
}

func (r *UserRepository) FindRoleIDByName(ctx context.Context, name string) (int64, error) {
	var row roleDatamodel.Role
	err := r.db.WithContext(ctx).Select("id").
		Scopes(softdelete.Filter("deleted_at", false, "name = ?", name)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, user.ErrUnknownRole
	}
	return row.ID, err
}

func (r *UserRepository) DepartmentExists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&departmentDatamodel.Department{}).
		Scopes(softdelete.Filter("deleted_at", false, "id = ?", id)).
		Count(&n).Error
	return n > 0, err
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return user.ErrUserNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return user.ErrEmailExists
	}
	return err
}
