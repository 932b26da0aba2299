// Package seed installs the system roles, one permission per protected
// route, the default grants and the first administrator. Running it again
// only fills what is missing.
package seed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/frahmantamala/training-management/internal"
	"github.com/frahmantamala/training-management/internal/auth"
	permissionDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/permission"
	roleDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/role"
	userDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/user"
	"github.com/frahmantamala/training-management/internal/core/softdelete"
	"github.com/frahmantamala/training-management/internal/eid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PermissionSpec describes one protected route.
type PermissionSpec struct {
	Method string
	Path   string
	Module string
	Name   string
	Grants []string
}

type Result struct {
	RolesCreated       int
	PermissionsCreated int
	GrantsCreated      int
	AdminEID           string
	AdminCreated       bool
}

type Seeder struct {
	db         *gorm.DB
	eids       eid.TxAllocator
	bcryptCost int
	logger     *slog.Logger
}

func NewSeeder(db *gorm.DB, eids eid.TxAllocator, bcryptCost int, logger *slog.Logger) *Seeder {
	return &Seeder{db: db, eids: eids, bcryptCost: bcryptCost, logger: logger}
}

func (s *Seeder) Run(ctx context.Context, specs []PermissionSpec, admin internal.SeedConfig) (Result, error) {
	var res Result
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		roles, created, err := ensureRoles(tx)
		if err != nil {
			return fmt.Errorf("roles: %w", err)
		}
		res.RolesCreated = created

		for _, spec := range specs {
			perm, created, err := ensurePermission(tx, spec)
			if err != nil {
				return fmt.Errorf("permission %s %s: %w", spec.Method, spec.Path, err)
			}
			if created {
				res.PermissionsCreated++
			}

			holders := append([]string{auth.RoleAdministrator}, spec.Grants...)
			for _, name := range holders {
				roleID, ok := roles[name]
				if !ok {
					return fmt.Errorf("grant to unknown role %s", name)
				}
				n, err := grant(tx, roleID, perm.ID)
				if err != nil {
					return fmt.Errorf("grant %s: %w", name, err)
				}
				res.GrantsCreated += n
			}
		}

		eidValue, adminCreated, err := s.ensureAdmin(tx, roles[auth.RoleAdministrator], admin)
		if err != nil {
			return fmt.Errorf("administrator: %w", err)
		}
		res.AdminEID, res.AdminCreated = eidValue, adminCreated
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	s.logger.Info("seed complete",
		"roles_created", res.RolesCreated,
		"permissions_created", res.PermissionsCreated,
		"grants_created", res.GrantsCreated,
		"admin_eid", res.AdminEID,
		"admin_created", res.AdminCreated)
	return res, nil
}

func ensureRoles(tx *gorm.DB) (map[string]int64, int, error) {
	ids := make(map[string]int64, len(auth.SystemRoles))
	created := 0
	for _, name := range auth.SystemRoles {
		var row roleDatamodel.Role
		err := tx.Scopes(softdelete.Filter("deleted_at", false, "name = ?", name)).First(&row).Error
		switch {
		case err == nil:
		case errors.Is(err, gorm.ErrRecordNotFound):
			row = roleDatamodel.Role{Name: name, Description: roleDescription(name)}
			row.IsActive = true
			if err := tx.Create(&row).Error; err != nil {
				return nil, 0, err
			}
			created++
		default:
			return nil, 0, err
		}
		ids[name] = row.ID
	}
	return ids, created, nil
}

func roleDescription(name string) string {
	return strings.ToUpper(name[:1]) + strings.ToLower(strings.ReplaceAll(name[1:], "_", " "))
}

func ensurePermission(tx *gorm.DB, spec PermissionSpec) (*permissionDatamodel.Permission, bool, error) {
	var row permissionDatamodel.Permission
	err := tx.Scopes(softdelete.Filter("deleted_at", false, "method = ? AND path = ?", spec.Method, spec.Path)).
		First(&row).Error
	if err == nil {
		return &row, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	row = permissionDatamodel.Permission{Name: spec.Name, Method: spec.Method, Path: spec.Path, Module: spec.Module}
	row.IsActive = true
	if err := tx.Create(&row).Error; err != nil {
		return nil, false, err
	}
	return &row, true, nil
}

func grant(tx *gorm.DB, roleID, permissionID int64) (int, error) {
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&roleDatamodel.RolePermission{RoleID: roleID, PermissionID: permissionID})
	return int(res.RowsAffected), res.Error
}

func (s *Seeder) ensureAdmin(tx *gorm.DB, roleID int64, cfg internal.SeedConfig) (string, bool, error) {
	email := strings.ToLower(strings.TrimSpace(cfg.AdminEmail))

	var existing userDatamodel.User
	err := tx.Where("email = ?", email).First(&existing).Error
	if err == nil {
		return existing.EID, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), s.bcryptCost)
	if err != nil {
		return "", false, err
	}
	ids, err := s.eids.GenerateWithTx(tx, auth.RoleAdministrator, 1)
	if err != nil {
		return "", false, err
	}

	row := userDatamodel.User{
		EID:          ids[0],
		FirstName:    cfg.AdminFirstName,
		LastName:     cfg.AdminLastName,
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       roleID,
		Status:       "ACTIVE",
	}
	row.IsActive = true
	if err := tx.Create(&row).Error; err != nil {
		return "", false, err
	}
	return row.EID, true, nil
}
