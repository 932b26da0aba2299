package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/training-management/internal/core/common/listing"
	requestDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/request"
	"github.com/frahmantamala/training-management/internal/request"
	"gorm.io/gorm"
)

type RequestRepository struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

func (r *RequestRepository) Create(ctx context.Context, row *requestDatamodel.Request) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *RequestRepository) FindByID(ctx context.Context, id int64) (*requestDatamodel.Request, error) {
	var row requestDatamodel.Request
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, request.ErrRequestNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *RequestRepository) List(ctx context.Context, q listing.Query, f request.Filter) ([]*requestDatamodel.Request, int64, error) {
	base := r.db.WithContext(ctx).Model(&requestDatamodel.Request{})
	if f.RequesterID != 0 {
		base = base.Where("requester_id = ?", f.RequesterID)
	}
	if f.Status != "" {
		base = base.Where("status = ?", f.Status)
	}
	if pattern := q.SearchPattern(); pattern != "" {
		base = base.Where("LOWER(title) LIKE ?", pattern)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*requestDatamodel.Request
	err := base.Order("created_at DESC, id DESC").Limit(q.Limit).Offset(q.Offset()).Find(&rows).Error
	return rows, total, err
}

// Review is a compare-and-set on status so two reviewers cannot both win.
func (r *RequestRepository) Review(ctx context.Context, row *requestDatamodel.Request) (bool, error) {
	res := r.db.WithContext(ctx).Model(&requestDatamodel.Request{}).
		Where("id = ? AND status = ?", row.ID, request.StatusPending).
		Updates(map[string]interface{}{
			"status":      row.Status,
			"reviewer_id": row.ReviewerID,
			"review_note": row.ReviewNote,
			"reviewed_at": row.ReviewedAt,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
