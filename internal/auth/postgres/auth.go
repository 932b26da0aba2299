package auth

import (
	"context"
	"database/sql"
	"errors"

	"github.com/frahmantamala/training-management/internal/auth"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

const credentialsQuery = `SELECT u.id, u.eid, u.email, u.first_name, u.password_hash, u.status,
	r.id, r.name, r.is_active AND r.deleted_at IS NULL
	FROM users u
	JOIN roles r ON r.id = u.role_id
	WHERE u.deleted_at IS NULL AND `

func (r *Repository) GetCredentialsByEmail(ctx context.Context, email string) (*auth.Credentials, error) {
	return r.scanCredentials(r.db.WithContext(ctx).Raw(credentialsQuery+"u.email = ?", email).Row())
}

func (r *Repository) GetCredentialsByID(ctx context.Context, userID int64) (*auth.Credentials, error) {
	return r.scanCredentials(r.db.WithContext(ctx).Raw(credentialsQuery+"u.id = ?", userID).Row())
}

func (r *Repository) scanCredentials(row *sql.Row) (*auth.Credentials, error) {
	var c auth.Credentials
	err := row.Scan(&c.UserID, &c.EID, &c.Email, &c.FirstName, &c.PasswordHash, &c.Status,
		&c.RoleID, &c.RoleName, &c.RoleActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *Repository) UpdatePasswordHash(ctx context.Context, userID int64, passwordHash string) error {
	res := r.db.WithContext(ctx).
		Table("users").
		Where("id = ? AND deleted_at IS NULL", userID).
		Updates(map[string]interface{}{"password_hash": passwordHash, "updated_by_id": userID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return auth.ErrUserNotFound
	}
	return nil
}

// Resolver answers the access gate with one statement: the role row joined
// to only those live permissions that match the route exactly.
type Resolver struct {
	db *sqlx.DB
}

func NewResolver(db *sqlx.DB) *Resolver {
	return &Resolver{db: db}
}

const resolveRoleQuery = `SELECT r.id AS role_id, r.name AS role_name, r.description AS role_description,
	p.id AS permission_id, p.name AS permission_name, p.method AS permission_method,
	p.path AS permission_path, p.module AS permission_module
	FROM roles r
	LEFT JOIN role_permissions rp ON rp.role_id = r.id
	LEFT JOIN permissions p ON p.id = rp.permission_id
		AND p.path = ? AND p.method = ? AND p.deleted_at IS NULL
	WHERE r.id = ? AND r.deleted_at IS NULL AND r.is_active = ?`

type rolePermissionRow struct {
	RoleID           int64          `db:"role_id"`
	RoleName         string         `db:"role_name"`
	RoleDescription  sql.NullString `db:"role_description"`
	PermissionID     sql.NullInt64  `db:"permission_id"`
	PermissionName   sql.NullString `db:"permission_name"`
	PermissionMethod sql.NullString `db:"permission_method"`
	PermissionPath   sql.NullString `db:"permission_path"`
	PermissionModule sql.NullString `db:"permission_module"`
}

func (r *Resolver) ResolveRole(ctx context.Context, roleID int64, path, method string) (*auth.RoleWithPermissions, error) {
	var rows []rolePermissionRow
	query := r.db.Rebind(resolveRoleQuery)
	if err := r.db.SelectContext(ctx, &rows, query, path, method, roleID, true); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, auth.ErrRoleNotFound
	}

	role := &auth.RoleWithPermissions{
		ID:          rows[0].RoleID,
		Name:        rows[0].RoleName,
		Description: rows[0].RoleDescription.String,
		Permissions: []auth.GrantedPermission{},
	}
	seen := make(map[int64]bool)
	for _, row := range rows {
		if !row.PermissionID.Valid || seen[row.PermissionID.Int64] {
			continue
		}
		seen[row.PermissionID.Int64] = true
		role.Permissions = append(role.Permissions, auth.GrantedPermission{
			ID:     row.PermissionID.Int64,
			Name:   row.PermissionName.String,
			Method: row.PermissionMethod.String,
			Path:   row.PermissionPath.String,
			Module: row.PermissionModule.String,
		})
	}
	return role, nil
}
