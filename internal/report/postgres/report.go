package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/training-management/internal/core/common/listing"
	courseDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/course"
	reportDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/report"
	"github.com/frahmantamala/training-management/internal/core/softdelete"
	"github.com/frahmantamala/training-management/internal/report"
	"gorm.io/gorm"
)

type ReportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Create(ctx context.Context, row *reportDatamodel.Report) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *ReportRepository) FindByID(ctx context.Context, id int64, includeDeleted bool) (*reportDatamodel.Report, error) {
	var row reportDatamodel.Report
	err := r.db.WithContext(ctx).
		Scopes(softdelete.Filter("deleted_at", includeDeleted, "id = ?", id)).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, report.ErrReportNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *ReportRepository) List(ctx context.Context, q listing.Query, authorID int64) ([]*reportDatamodel.Report, int64, error) {
	base := r.db.WithContext(ctx).Model(&reportDatamodel.Report{}).
		Scopes(softdelete.Filter("deleted_at", q.IncludeDeleted, nil))
	if authorID != 0 {
		base = base.Where("author_id = ?", authorID)
	}
	if pattern := q.SearchPattern(); pattern != "" {
		base = base.Where("LOWER(title) LIKE ?", pattern)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*reportDatamodel.Report
	err := base.Order("created_at DESC, id DESC").Limit(q.Limit).Offset(q.Offset()).Find(&rows).Error
	return rows, total, err
}

func (r *ReportRepository) SaveLifecycle(ctx context.Context, row *reportDatamodel.Report) error {
	return r.db.WithContext(ctx).Model(row).Select(softdelete.Columns()).Updates(row).Error
}

func (r *ReportRepository) CourseExists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&courseDatamodel.Course{}).
		Scopes(softdelete.Filter("deleted_at", false, "id = ?", id)).
		Count(&n).Error
	return n > 0, err
}
