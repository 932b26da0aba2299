package request

import (
	"context"
	"log/slog"
	"time"

	"github.com/frahmantamala/training-management/internal/auth"
	"github.com/frahmantamala/training-management/internal/core/common/listing"
	requestDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/request"
)

// Filter narrows a request listing.
type Filter struct {
	RequesterID int64
	Status      string
}

type RepositoryAPI interface {
	Create(ctx context.Context, r *requestDatamodel.Request) error
	FindByID(ctx context.Context, id int64) (*requestDatamodel.Request, error)
	List(ctx context.Context, q listing.Query, f Filter) ([]*requestDatamodel.Request, int64, error)
	// Review moves a PENDING request to status and reports false when it
	// was no longer pending.
	Review(ctx context.Context, r *requestDatamodel.Request) (bool, error)
}

type ServiceAPI interface {
	Create(ctx context.Context, actor auth.Subject, dto CreateRequestDTO) (*RequestResponse, error)
	List(ctx context.Context, actor auth.Subject, q listing.Query, status string) (listing.Page[RequestResponse], error)
	Get(ctx context.Context, actor auth.Subject, id int64) (*RequestResponse, error)
	Approve(ctx context.Context, actor auth.Subject, id int64, dto ReviewDTO) (*RequestResponse, error)
	Reject(ctx context.Context, actor auth.Subject, id int64, dto ReviewDTO) (*RequestResponse, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) Create(ctx context.Context, actor auth.Subject, dto CreateRequestDTO) (*RequestResponse, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	row := &requestDatamodel.Request{
		Type:        dto.Type,
		Title:       dto.Title,
		Description: dto.Description,
		Status:      StatusPending,
		RequesterID: actor.UserID,
	}
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("request submitted", "request_id", row.ID, "type", row.Type, "requester_id", actor.UserID)
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, actor auth.Subject, q listing.Query, status string) (listing.Page[RequestResponse], error) {
	f := Filter{Status: status}
	if !auth.IsReviewer(actor.RoleName) {
		f.RequesterID = actor.UserID
	}
	rows, total, err := s.repo.List(ctx, q, f)
	if err != nil {
		return listing.Page[RequestResponse]{}, err
	}
	return listing.Map(listing.NewPage(rows, total, q), ToResponse), nil
}

func (s *Service) Get(ctx context.Context, actor auth.Subject, id int64) (*RequestResponse, error) {
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.RequesterID != actor.UserID && !auth.IsReviewer(actor.RoleName) {
		return nil, ErrRequestNotFound
	}
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) Approve(ctx context.Context, actor auth.Subject, id int64, dto ReviewDTO) (*RequestResponse, error) {
	return s.review(ctx, actor, id, StatusApproved, dto)
}

func (s *Service) Reject(ctx context.Context, actor auth.Subject, id int64, dto ReviewDTO) (*RequestResponse, error) {
	return s.review(ctx, actor, id, StatusRejected, dto)
}

func (s *Service) review(ctx context.Context, actor auth.Subject, id int64, status string, dto ReviewDTO) (*RequestResponse, error) {
	if !auth.IsReviewer(actor.RoleName) {
		return nil, ErrNotReviewer
	}
	if err := dto.Validate(status == StatusRejected); err != nil {
		return nil, err
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if row.RequesterID == actor.UserID {
		return nil, ErrOwnRequest
	}
	if row.Status != StatusPending {
		return nil, ErrNotPending
	}

	at := s.now()
	row.Status = status
	row.ReviewerID = &actor.UserID
	row.ReviewNote = dto.Note
	row.ReviewedAt = &at

	ok, err := s.repo.Review(ctx, row)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotPending
	}

	s.logger.Info("request reviewed", "request_id", id, "status", status, "reviewer_id", actor.UserID)
	resp := ToResponse(row)
	return &resp, nil
}
