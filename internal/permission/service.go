package permission

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/training-management/internal/auth"
	"github.com/frahmantamala/training-management/internal/core/common/listing"
	permissionDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/permission"
	"github.com/frahmantamala/training-management/internal/core/softdelete"
)

type RepositoryAPI interface {
	Create(ctx context.Context, p *permissionDatamodel.Permission) error
	FindByID(ctx context.Context, id int64, includeDeleted bool) (*permissionDatamodel.Permission, error)
	FindByRoute(ctx context.Context, path, method string) (*permissionDatamodel.Permission, error)
	List(ctx context.Context, q listing.Query) ([]*permissionDatamodel.Permission, int64, error)
	Update(ctx context.Context, p *permissionDatamodel.Permission) error
	SaveLifecycle(ctx context.Context, p *permissionDatamodel.Permission) error
	HardDelete(ctx context.Context, id int64) error
}

type ServiceAPI interface {
	Create(ctx context.Context, actor auth.Subject, dto CreatePermissionDTO) (*PermissionResponse, error)
	List(ctx context.Context, q listing.Query) (listing.Page[PermissionResponse], error)
	Get(ctx context.Context, id int64, includeDeleted bool) (*PermissionResponse, error)
	Update(ctx context.Context, actor auth.Subject, id int64, dto UpdatePermissionDTO) (*PermissionResponse, error)
	Disable(ctx context.Context, actor auth.Subject, id int64) (*PermissionResponse, error)
	Enable(ctx context.Context, actor auth.Subject, id int64) (*PermissionResponse, error)
	HardDelete(ctx context.Context, actor auth.Subject, id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) Create(ctx context.Context, actor auth.Subject, dto CreatePermissionDTO) (*PermissionResponse, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if err := s.ensureRouteFree(ctx, dto.Path, dto.Method, 0); err != nil {
		return nil, err
	}

	row := &permissionDatamodel.Permission{
		Name:   dto.Name,
		Method: dto.Method,
		Path:   dto.Path,
		Module: dto.Module,
	}
	row.IsActive = true
	row.CreatedByID = &actor.UserID
	row.UpdatedByID = &actor.UserID
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("permission created", "permission_id", row.ID, "method", row.Method, "path", row.Path)
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, q listing.Query) (listing.Page[PermissionResponse], error) {
	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return listing.Page[PermissionResponse]{}, err
	}
	return listing.Map(listing.NewPage(rows, total, q), ToResponse), nil
}

func (s *Service) Get(ctx context.Context, id int64, includeDeleted bool) (*PermissionResponse, error) {
	row, err := s.repo.FindByID(ctx, id, includeDeleted)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, actor auth.Subject, id int64, dto UpdatePermissionDTO) (*PermissionResponse, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if dto.Name != nil {
		row.Name = *dto.Name
	}
	if dto.Method != nil {
		row.Method = *dto.Method
	}
	if dto.Path != nil {
		row.Path = *dto.Path
	}
	if dto.Module != nil {
		row.Module = *dto.Module
	}
	if err := s.ensureRouteFree(ctx, row.Path, row.Method, row.ID); err != nil {
		return nil, err
	}
	row.UpdatedByID = &actor.UserID

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}
	resp := ToResponse(row)
	return &resp, nil
}

// Disable revokes the permission from every role that holds it: the
// resolver ignores soft-deleted permissions.
func (s *Service) Disable(ctx context.Context, actor auth.Subject, id int64) (*PermissionResponse, error) {
	row, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := row.Disable(actor.UserID, s.now()); err != nil {
		return nil, softdelete.AsAppError("Permission", err)
	}
	if err := s.repo.SaveLifecycle(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("permission disabled", "permission_id", row.ID, "actor_id", actor.UserID)
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) Enable(ctx context.Context, actor auth.Subject, id int64) (*PermissionResponse, error) {
	row, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := row.Enable(actor.UserID); err != nil {
		return nil, softdelete.AsAppError("Permission", err)
	}
	if err := s.ensureRouteFree(ctx, row.Path, row.Method, row.ID); err != nil {
		return nil, err
	}
	if err := s.repo.SaveLifecycle(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("permission enabled", "permission_id", row.ID, "actor_id", actor.UserID)
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) HardDelete(ctx context.Context, actor auth.Subject, id int64) error {
	if _, err := s.repo.FindByID(ctx, id, true); err != nil {
		return err
	}
	if err := s.repo.HardDelete(ctx, id); err != nil {
		return err
	}
	s.logger.Warn("permission permanently deleted", "permission_id", id, "actor_id", actor.UserID)
	return nil
}

func (s *Service) ensureRouteFree(ctx context.Context, path, method string, selfID int64) error {
	existing, err := s.repo.FindByRoute(ctx, path, method)
	if err != nil {
		if errors.Is(err, ErrPermissionNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrPermissionExists
	}
	return nil
}
