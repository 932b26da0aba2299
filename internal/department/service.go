package department

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/training-management/internal/auth"
	"github.com/frahmantamala/training-management/internal/core/common/listing"
	departmentDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/department"
	"github.com/frahmantamala/training-management/internal/core/softdelete"
)

type RepositoryAPI interface {
	Create(ctx context.Context, d *departmentDatamodel.Department) error
	FindByID(ctx context.Context, id int64, includeDeleted bool) (*departmentDatamodel.Department, error)
	FindByName(ctx context.Context, name string) (*departmentDatamodel.Department, error)
	List(ctx context.Context, q listing.Query) ([]*departmentDatamodel.Department, int64, error)
	Update(ctx context.Context, d *departmentDatamodel.Department) error
	SaveLifecycle(ctx context.Context, d *departmentDatamodel.Department) error
	UserExists(ctx context.Context, userID int64) (bool, error)
}

type ServiceAPI interface {
	Create(ctx context.Context, actor auth.Subject, dto CreateDepartmentDTO) (*DepartmentResponse, error)
	List(ctx context.Context, q listing.Query) (listing.Page[DepartmentResponse], error)
	Get(ctx context.Context, id int64, includeDeleted bool) (*DepartmentResponse, error)
	Update(ctx context.Context, actor auth.Subject, id int64, dto UpdateDepartmentDTO) (*DepartmentResponse, error)
	Disable(ctx context.Context, actor auth.Subject, id int64) (*DepartmentResponse, error)
	Enable(ctx context.Context, actor auth.Subject, id int64) (*DepartmentResponse, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) Create(ctx context.Context, actor auth.Subject, dto CreateDepartmentDTO) (*DepartmentResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(dto.Name)
	if err := s.ensureNameFree(ctx, name, 0); err != nil {
		return nil, err
	}
	if err := s.checkHead(ctx, dto.HeadID); err != nil {
		return nil, err
	}

	row := &departmentDatamodel.Department{Name: name, Description: dto.Description, HeadID: dto.HeadID}
	row.IsActive = true
	row.CreatedByID = &actor.UserID
	row.UpdatedByID = &actor.UserID
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("department created", "department_id", row.ID, "actor_id", actor.UserID)
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, q listing.Query) (listing.Page[DepartmentResponse], error) {
	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return listing.Page[DepartmentResponse]{}, err
	}
	return listing.Map(listing.NewPage(rows, total, q), ToResponse), nil
}

func (s *Service) Get(ctx context.Context, id int64, includeDeleted bool) (*DepartmentResponse, error) {
	row, err := s.repo.FindByID(ctx, id, includeDeleted)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, actor auth.Subject, id int64, dto UpdateDepartmentDTO) (*DepartmentResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	row, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	if dto.Name != nil {
		name := strings.TrimSpace(*dto.Name)
		if err := s.ensureNameFree(ctx, name, row.ID); err != nil {
			return nil, err
		}
		row.Name = name
	}
	if dto.Description != nil {
		row.Description = *dto.Description
	}
	if dto.HeadID != nil {
		if err := s.checkHead(ctx, dto.HeadID); err != nil {
			return nil, err
		}
		row.HeadID = dto.HeadID
	}
	row.UpdatedByID = &actor.UserID

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) Disable(ctx context.Context, actor auth.Subject, id int64) (*DepartmentResponse, error) {
	row, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := row.Disable(actor.UserID, s.now()); err != nil {
		return nil, softdelete.AsAppError("Department", err)
	}
	if err := s.repo.SaveLifecycle(ctx, row); err != nil {
		return nil, err
	}
	s.logger.Info("department disabled", "department_id", row.ID, "actor_id", actor.UserID)
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) Enable(ctx context.Context, actor auth.Subject, id int64) (*DepartmentResponse, error) {
	row, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := row.Enable(actor.UserID); err != nil {
		return nil, softdelete.AsAppError("Department", err)
	}
	if err := s.ensureNameFree(ctx, row.Name, row.ID); err != nil {
		return nil, err
	}
	if err := s.repo.SaveLifecycle(ctx, row); err != nil {
		return nil, err
	}
	s.logger.Info("department enabled", "department_id", row.ID, "actor_id", actor.UserID)
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) checkHead(ctx context.Context, headID *int64) error {
	if headID == nil {
		return nil
	}
	ok, err := s.repo.UserExists(ctx, *headID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownHead
	}
	return nil
}

func (s *Service) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := s.repo.FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, ErrDepartmentNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrDepartmentExists
	}
	return nil
}
