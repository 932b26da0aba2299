package report

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/training-management/internal/auth"
	"github.com/frahmantamala/training-management/internal/core/common/listing"
	reportDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/report"
	"github.com/frahmantamala/training-management/internal/core/softdelete"
)

type RepositoryAPI interface {
	Create(ctx context.Context, r *reportDatamodel.Report) error
	FindByID(ctx context.Context, id int64, includeDeleted bool) (*reportDatamodel.Report, error)
	// List restricts to authorID when it is non-zero.
	List(ctx context.Context, q listing.Query, authorID int64) ([]*reportDatamodel.Report, int64, error)
	SaveLifecycle(ctx context.Context, r *reportDatamodel.Report) error
	CourseExists(ctx context.Context, id int64) (bool, error)
}

type ServiceAPI interface {
	Create(ctx context.Context, actor auth.Subject, dto CreateReportDTO) (*ReportResponse, error)
	List(ctx context.Context, actor auth.Subject, q listing.Query) (listing.Page[ReportResponse], error)
	Get(ctx context.Context, actor auth.Subject, id int64, includeDeleted bool) (*ReportResponse, error)
	Delete(ctx context.Context, actor auth.Subject, id int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) Create(ctx context.Context, actor auth.Subject, dto CreateReportDTO) (*ReportResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if dto.CourseID != nil {
		ok, err := s.repo.CourseExists(ctx, *dto.CourseID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrUnknownCourse
		}
	}

	row := &reportDatamodel.Report{
		Title:         strings.TrimSpace(dto.Title),
		Content:       dto.Content,
		AttachmentURL: dto.AttachmentURL,
		CourseID:      dto.CourseID,
		AuthorID:      actor.UserID,
	}
	row.IsActive = true
	row.CreatedByID = &actor.UserID
	row.UpdatedByID = &actor.UserID
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("report submitted", "report_id", row.ID, "author_id", actor.UserID)
	resp := ToResponse(row)
	return &resp, nil
}

// List shows reviewers every report and everyone else their own.
func (s *Service) List(ctx context.Context, actor auth.Subject, q listing.Query) (listing.Page[ReportResponse], error) {
	var authorID int64
	if !auth.IsReviewer(actor.RoleName) {
		authorID = actor.UserID
	}
	rows, total, err := s.repo.List(ctx, q, authorID)
	if err != nil {
		return listing.Page[ReportResponse]{}, err
	}
	return listing.Map(listing.NewPage(rows, total, q), ToResponse), nil
}

func (s *Service) Get(ctx context.Context, actor auth.Subject, id int64, includeDeleted bool) (*ReportResponse, error) {
	row, err := s.repo.FindByID(ctx, id, includeDeleted)
	if err != nil {
		return nil, err
	}
	// hide other people's reports instead of confirming they exist
	if row.AuthorID != actor.UserID && !auth.IsReviewer(actor.RoleName) {
		return nil, ErrReportNotFound
	}
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Subject, id int64) error {
	row, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return err
	}
	if row.AuthorID != actor.UserID && actor.RoleName != auth.RoleAdministrator {
		return ErrNotAuthor
	}
	if err := row.Disable(actor.UserID, s.now()); err != nil {
		return softdelete.AsAppError("Report", err)
	}
	if err := s.repo.SaveLifecycle(ctx, row); err != nil {
		return err
	}
	s.logger.Info("report deleted", "report_id", id, "actor_id", actor.UserID)
	return nil
}
