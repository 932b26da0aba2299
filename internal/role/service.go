package role

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/training-management/internal/auth"
	"github.com/frahmantamala/training-management/internal/core/cache"
	"github.com/frahmantamala/training-management/internal/core/common/listing"
	permissionDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/permission"
	roleDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/role"
	"github.com/frahmantamala/training-management/internal/core/softdelete"
)

type RepositoryAPI interface {
	Create(ctx context.Context, r *roleDatamodel.Role) error
	FindByID(ctx context.Context, id int64, includeDeleted bool) (*roleDatamodel.Role, error)
	FindByName(ctx context.Context, name string) (*roleDatamodel.Role, error)
	List(ctx context.Context, q listing.Query) ([]*roleDatamodel.Role, int64, error)
	Update(ctx context.Context, r *roleDatamodel.Role) error
	SaveLifecycle(ctx context.Context, r *roleDatamodel.Role) error
	HardDelete(ctx context.Context, id int64) error
	CountUsers(ctx context.Context, roleID int64) (int64, error)
	CountLivePermissions(ctx context.Context, ids []int64) (int64, error)
	ListPermissions(ctx context.Context, roleID int64) ([]*permissionDatamodel.Permission, error)
	ReplacePermissions(ctx context.Context, roleID int64, permissionIDs []int64, actorID int64) error
	AddPermissions(ctx context.Context, roleID int64, permissionIDs []int64, actorID int64) error
	RemovePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error
}

type ServiceAPI interface {
	Create(ctx context.Context, actor auth.Subject, dto CreateRoleDTO) (*RoleResponse, error)
	List(ctx context.Context, q listing.Query) (listing.Page[RoleResponse], error)
	Get(ctx context.Context, id int64, includeDeleted bool) (*RoleDetailResponse, error)
	Update(ctx context.Context, actor auth.Subject, id int64, dto UpdateRoleDTO) (*RoleResponse, error)
	Disable(ctx context.Context, actor auth.Subject, id int64) (*RoleResponse, error)
	Enable(ctx context.Context, actor auth.Subject, id int64) (*RoleResponse, error)
	HardDelete(ctx context.Context, actor auth.Subject, id int64) error
	ListPermissions(ctx context.Context, id int64) ([]PermissionResponse, error)
	ReplacePermissions(ctx context.Context, actor auth.Subject, id int64, dto PermissionIDsDTO) ([]PermissionResponse, error)
	AddPermissions(ctx context.Context, actor auth.Subject, id int64, dto PermissionIDsDTO) ([]PermissionResponse, error)
	RemovePermissions(ctx context.Context, actor auth.Subject, id int64, dto PermissionIDsDTO) ([]PermissionResponse, error)
}

type Service struct {
	repo    RepositoryAPI
	roleIDs cache.RoleIDs
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo RepositoryAPI, roleIDs cache.RoleIDs, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		roleIDs: roleIDs,
		logger:  logger,
		now:     time.Now,
	}
}

func (s *Service) Create(ctx context.Context, actor auth.Subject, dto CreateRoleDTO) (*RoleResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	name := NormalizeName(dto.Name)
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}

	row := &roleDatamodel.Role{Name: name, Description: dto.Description}
	row.IsActive = true
	row.CreatedByID = &actor.UserID
	row.UpdatedByID = &actor.UserID
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("role created", "role_id", row.ID, "name", row.Name, "actor_id", actor.UserID)
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, q listing.Query) (listing.Page[RoleResponse], error) {
	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return listing.Page[RoleResponse]{}, err
	}
	page := listing.NewPage(rows, total, q)
	return listing.Map(page, ToResponse), nil
}

func (s *Service) Get(ctx context.Context, id int64, includeDeleted bool) (*RoleDetailResponse, error) {
	row, err := s.repo.FindByID(ctx, id, includeDeleted)
	if err != nil {
		return nil, err
	}
	perms, err := s.repo.ListPermissions(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RoleDetailResponse{RoleResponse: ToResponse(row), Permissions: ToPermissionResponses(perms)}, nil
}

func (s *Service) Update(ctx context.Context, actor auth.Subject, id int64, dto UpdateRoleDTO) (*RoleResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	oldName := row.Name
	if dto.Name != nil {
		name := NormalizeName(*dto.Name)
		if name != row.Name {
			if err := s.ensureNameFree(ctx, name, row.ID); err != nil {
				return nil, err
			}
			row.Name = name
		}
	}
	if dto.Description != nil {
		row.Description = *dto.Description
	}
	row.UpdatedByID = &actor.UserID

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}
	if oldName != row.Name {
		s.roleIDs.Invalidate(oldName)
		s.roleIDs.Invalidate(row.Name)
	}

	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) Disable(ctx context.Context, actor auth.Subject, id int64) (*RoleResponse, error) {
	if actor.RoleID == id {
		return nil, ErrOwnRole
	}

	row, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := row.Disable(actor.UserID, s.now()); err != nil {
		return nil, softdelete.AsAppError("Role", err)
	}
	if err := s.repo.SaveLifecycle(ctx, row); err != nil {
		return nil, err
	}
	s.roleIDs.Invalidate(row.Name)

	s.logger.Info("role disabled", "role_id", row.ID, "actor_id", actor.UserID)
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) Enable(ctx context.Context, actor auth.Subject, id int64) (*RoleResponse, error) {
	row, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := row.Enable(actor.UserID); err != nil {
		return nil, softdelete.AsAppError("Role", err)
	}
	// another live role may have taken the name meanwhile
	if err := s.ensureNameFree(ctx, row.Name, row.ID); err != nil {
		return nil, err
	}
	if err := s.repo.SaveLifecycle(ctx, row); err != nil {
		return nil, err
	}
	s.roleIDs.Invalidate(row.Name)

	s.logger.Info("role enabled", "role_id", row.ID, "actor_id", actor.UserID)
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) HardDelete(ctx context.Context, actor auth.Subject, id int64) error {
	if actor.RoleID == id {
		return ErrOwnRole
	}

	row, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return err
	}
	users, err := s.repo.CountUsers(ctx, id)
	if err != nil {
		return err
	}
	if users > 0 {
		return ErrRoleInUse
	}
	if err := s.repo.HardDelete(ctx, id); err != nil {
		return err
	}
	s.roleIDs.Invalidate(row.Name)

	s.logger.Warn("role permanently deleted", "role_id", id, "name", row.Name, "actor_id", actor.UserID)
	return nil
}

func (s *Service) ListPermissions(ctx context.Context, id int64) ([]PermissionResponse, error) {
	if _, err := s.repo.FindByID(ctx, id, true); err != nil {
		return nil, err
	}
	perms, err := s.repo.ListPermissions(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToPermissionResponses(perms), nil
}

func (s *Service) ReplacePermissions(ctx context.Context, actor auth.Subject, id int64, dto PermissionIDsDTO) ([]PermissionResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	ids := unique(dto.PermissionIDs)
	if err := s.checkGrantable(ctx, id, ids); err != nil {
		return nil, err
	}
	if err := s.repo.ReplacePermissions(ctx, id, ids, actor.UserID); err != nil {
		return nil, err
	}
	s.logger.Info("role permissions replaced", "role_id", id, "count", len(ids), "actor_id", actor.UserID)
	return s.ListPermissions(ctx, id)
}

func (s *Service) AddPermissions(ctx context.Context, actor auth.Subject, id int64, dto PermissionIDsDTO) ([]PermissionResponse, error) {
	if err := dto.ValidateNonEmpty(); err != nil {
		return nil, err
	}
	ids := unique(dto.PermissionIDs)
	if err := s.checkGrantable(ctx, id, ids); err != nil {
		return nil, err
	}
	if err := s.repo.AddPermissions(ctx, id, ids, actor.UserID); err != nil {
		return nil, err
	}
	return s.ListPermissions(ctx, id)
}

func (s *Service) RemovePermissions(ctx context.Context, actor auth.Subject, id int64, dto PermissionIDsDTO) ([]PermissionResponse, error) {
	if err := dto.ValidateNonEmpty(); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, id, true); err != nil {
		return nil, err
	}
	if err := s.repo.RemovePermissions(ctx, id, unique(dto.PermissionIDs)); err != nil {
		return nil, err
	}
	s.logger.Info("role permissions revoked", "role_id", id, "actor_id", actor.UserID)
	return s.ListPermissions(ctx, id)
}

func (s *Service) checkGrantable(ctx context.Context, roleID int64, ids []int64) error {
	if _, err := s.repo.FindByID(ctx, roleID, true); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	n, err := s.repo.CountLivePermissions(ctx, ids)
	if err != nil {
		return err
	}
	if n != int64(len(ids)) {
		return ErrUnknownPerms
	}
	return nil
}

func (s *Service) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrRoleNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrRoleExists
	}
	return nil
}

func unique(ids []int64) []int64 {
	seen := make(map[int64]bool, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
