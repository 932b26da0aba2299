package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/frahmantamala/training-management/internal/core/common/listing"
	courseDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/course"
	departmentDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/department"
	userDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/user"
	"github.com/frahmantamala/training-management/internal/core/softdelete"
	"github.com/frahmantamala/training-management/internal/course"
	"gorm.io/gorm"
)

type CourseRepository struct {
	db *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

func (r *CourseRepository) Create(ctx context.Context, row *courseDatamodel.Course) error {
	return translate(r.db.WithContext(ctx).Create(row).Error)
}

func (r *CourseRepository) FindByID(ctx context.Context, id int64, includeDeleted bool) (*courseDatamodel.Course, error) {
	var row courseDatamodel.Course
	err := r.db.WithContext(ctx).
		Scopes(softdelete.Filter("deleted_at", includeDeleted, "id = ?", id)).
		First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (r *CourseRepository) FindByTitle(ctx context.Context, title string) (*courseDatamodel.Course, error) {
	var row courseDatamodel.Course
	err := r.db.WithContext(ctx).
		Scopes(softdelete.Filter("deleted_at", false, "LOWER(title) = LOWER(?)", title)).
		First(&row).Error
	if err != nil {
		return nil, translate(err)
	}
	return &row, nil
}

func (r *CourseRepository) List(ctx context.Context, q listing.Query) ([]*courseDatamodel.Course, int64, error) {
	base := r.db.WithContext(ctx).Model(&courseDatamodel.Course{}).
		Scopes(softdelete.Filter("deleted_at", q.IncludeDeleted, nil))
	if pattern := q.SearchPattern(); pattern != "" {
		base = base.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []*courseDatamodel.Course
	err := base.Order("id DESC").Limit(q.Limit).Offset(q.Offset()).Find(&rows).Error
	return rows, total, err
}

func (r *CourseRepository) Update(ctx context.Context, row *courseDatamodel.Course) error {
	err := r.db.WithContext(ctx).Model(row).
		Select("title", "description", "department_id", "trainer_id", "start_date", "end_date", "updated_by_id").
		Updates(row).Error
	return translate(err)
}

func (r *CourseRepository) SaveLifecycle(ctx context.Context, row *courseDatamodel.Course) error {
	return translate(r.db.WithContext(ctx).Model(row).Select(softdelete.Columns()).Updates(row).Error)
}

func (r *CourseRepository) DepartmentExists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&departmentDatamodel.Department{}).
		Scopes(softdelete.Filter("deleted_at", false, "id = ?", id)).
		Count(&n).Error
	return n > 0, err
}

func (r *CourseRepository) UserExists(ctx context.Context, id int64) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&userDatamodel.User{}).
		Scopes(softdelete.Filter("deleted_at", false, "id = ?", id)).
		Count(&n).Error
	return n > 0, err
}

func (r *CourseRepository) ListSubjects(ctx context.Context, courseID int64) ([]*courseDatamodel.Subject, error) {
	var rows []*courseDatamodel.Subject
	err := r.db.WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("position ASC, id ASC").
		Find(&rows).Error
	return rows, err
}

func (r *CourseRepository) FindSubject(ctx context.Context, courseID, subjectID int64) (*courseDatamodel.Subject, error) {
	var row courseDatamodel.Subject
	err := r.db.WithContext(ctx).Where("id = ? AND course_id = ?", subjectID, courseID).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, course.ErrSubjectNotFound
		}
		return nil, err
	}
	return &row, nil
}

func (r *CourseRepository) NextSubjectPosition(ctx context.Context, courseID int64) (int, error) {
	var max sql.NullInt64
	err := r.db.WithContext(ctx).Model(&courseDatamodel.Subject{}).
		Where("course_id = ?", courseID).
		Select("MAX(position)").
		Row().Scan(&max)
	if err != nil {
		return 0, err
	}
	return int(max.Int64) + 1, nil
}

func (r *CourseRepository) CreateSubject(ctx context.Context, row *courseDatamodel.Subject) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *CourseRepository) UpdateSubject(ctx context.Context, row *courseDatamodel.Subject) error {
	return r.db.WithContext(ctx).Model(row).
		Select("title", "description", "position", "updated_by_id").
		Updates(row).Error
}

func (r *CourseRepository) DeleteSubject(ctx context.Context, courseID, subjectID int64) error {
	res := r.db.WithContext(ctx).Where("id = ? AND course_id = ?", subjectID, courseID).Delete(&courseDatamodel.Subject{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return course.ErrSubjectNotFound
	}
	return nil
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return course.ErrCourseNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return course.ErrCourseExists
	}
	return err
}
