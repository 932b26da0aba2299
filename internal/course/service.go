package course

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/frahmantamala/training-management/internal"
	"github.com/frahmantamala/training-management/internal/auth"
	"github.com/frahmantamala/training-management/internal/core/common/listing"
	courseDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/course"
	"github.com/frahmantamala/training-management/internal/core/softdelete"
)

type RepositoryAPI interface {
	Create(ctx context.Context, c *courseDatamodel.Course) error
	FindByID(ctx context.Context, id int64, includeDeleted bool) (*courseDatamodel.Course, error)
	FindByTitle(ctx context.Context, title string) (*courseDatamodel.Course, error)
	List(ctx context.Context, q listing.Query) ([]*courseDatamodel.Course, int64, error)
	Update(ctx context.Context, c *courseDatamodel.Course) error
	SaveLifecycle(ctx context.Context, c *courseDatamodel.Course) error
	DepartmentExists(ctx context.Context, id int64) (bool, error)
	UserExists(ctx context.Context, id int64) (bool, error)

	ListSubjects(ctx context.Context, courseID int64) ([]*courseDatamodel.Subject, error)
	FindSubject(ctx context.Context, courseID, subjectID int64) (*courseDatamodel.Subject, error)
	NextSubjectPosition(ctx context.Context, courseID int64) (int, error)
	CreateSubject(ctx context.Context, s *courseDatamodel.Subject) error
	UpdateSubject(ctx context.Context, s *courseDatamodel.Subject) error
	DeleteSubject(ctx context.Context, courseID, subjectID int64) error
}

type ServiceAPI interface {
	Create(ctx context.Context, actor auth.Subject, dto CreateCourseDTO) (*CourseResponse, error)
	List(ctx context.Context, q listing.Query) (listing.Page[CourseResponse], error)
	Get(ctx context.Context, id int64, includeDeleted bool) (*CourseResponse, error)
	Update(ctx context.Context, actor auth.Subject, id int64, dto UpdateCourseDTO) (*CourseResponse, error)
	Disable(ctx context.Context, actor auth.Subject, id int64) (*CourseResponse, error)
	Enable(ctx context.Context, actor auth.Subject, id int64) (*CourseResponse, error)

	ListSubjects(ctx context.Context, courseID int64) ([]SubjectResponse, error)
	CreateSubject(ctx context.Context, actor auth.Subject, courseID int64, dto CreateSubjectDTO) (*SubjectResponse, error)
	UpdateSubject(ctx context.Context, actor auth.Subject, courseID, subjectID int64, dto UpdateSubjectDTO) (*SubjectResponse, error)
	DeleteSubject(ctx context.Context, actor auth.Subject, courseID, subjectID int64) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

func (s *Service) Create(ctx context.Context, actor auth.Subject, dto CreateCourseDTO) (*CourseResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(dto.Title)
	if err := s.ensureTitleFree(ctx, title, 0); err != nil {
		return nil, err
	}
	if err := s.checkRefs(ctx, dto.DepartmentID, dto.TrainerID); err != nil {
		return nil, err
	}

	row := &courseDatamodel.Course{
		Title:        title,
		Description:  dto.Description,
		DepartmentID: dto.DepartmentID,
		TrainerID:    dto.TrainerID,
		StartDate:    dto.StartDate,
		EndDate:      dto.EndDate,
	}
	row.IsActive = true
	row.CreatedByID = &actor.UserID
	row.UpdatedByID = &actor.UserID
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("course created", "course_id", row.ID, "actor_id", actor.UserID)
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, q listing.Query) (listing.Page[CourseResponse], error) {
	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return listing.Page[CourseResponse]{}, err
	}
	return listing.Map(listing.NewPage(rows, total, q), ToResponse), nil
}

func (s *Service) Get(ctx context.Context, id int64, includeDeleted bool) (*CourseResponse, error) {
	row, err := s.repo.FindByID(ctx, id, includeDeleted)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, actor auth.Subject, id int64, dto UpdateCourseDTO) (*CourseResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	row, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	if dto.Title != nil {
		title := strings.TrimSpace(*dto.Title)
		if err := s.ensureTitleFree(ctx, title, row.ID); err != nil {
			return nil, err
		}
		row.Title = title
	}
	if dto.Description != nil {
		row.Description = *dto.Description
	}
	if err := s.checkRefs(ctx, dto.DepartmentID, dto.TrainerID); err != nil {
		return nil, err
	}
	if dto.DepartmentID != nil {
		row.DepartmentID = dto.DepartmentID
	}
	if dto.TrainerID != nil {
		row.TrainerID = dto.TrainerID
	}
	if dto.StartDate != nil {
		row.StartDate = dto.StartDate
	}
	if dto.EndDate != nil {
		row.EndDate = dto.EndDate
	}
	if row.StartDate != nil && row.EndDate != nil && row.EndDate.Before(*row.StartDate) {
		return nil, internal.NewValidationFieldError("endDate", "endDate cannot be before startDate", internal.ErrCodeValidationFailed)
	}
	row.UpdatedByID = &actor.UserID

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) Disable(ctx context.Context, actor auth.Subject, id int64) (*CourseResponse, error) {
	row, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := row.Disable(actor.UserID, s.now()); err != nil {
		return nil, softdelete.AsAppError("Course", err)
	}
	if err := s.repo.SaveLifecycle(ctx, row); err != nil {
		return nil, err
	}
	s.logger.Info("course disabled", "course_id", row.ID, "actor_id", actor.UserID)
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) Enable(ctx context.Context, actor auth.Subject, id int64) (*CourseResponse, error) {
	row, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := row.Enable(actor.UserID); err != nil {
		return nil, softdelete.AsAppError("Course", err)
	}
	if err := s.ensureTitleFree(ctx, row.Title, row.ID); err != nil {
		return nil, err
	}
	if err := s.repo.SaveLifecycle(ctx, row); err != nil {
		return nil, err
	}
	s.logger.Info("course enabled", "course_id", row.ID, "actor_id", actor.UserID)
	resp := ToResponse(row)
	return &resp, nil
}

// Subjects are only reachable through a live course.

func (s *Service) ListSubjects(ctx context.Context, courseID int64) ([]SubjectResponse, error) {
	if _, err := s.repo.FindByID(ctx, courseID, false); err != nil {
		return nil, err
	}
	rows, err := s.repo.ListSubjects(ctx, courseID)
	if err != nil {
		return nil, err
	}
	out := make([]SubjectResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, ToSubjectResponse(row))
	}
	return out, nil
}

func (s *Service) CreateSubject(ctx context.Context, actor auth.Subject, courseID int64, dto CreateSubjectDTO) (*SubjectResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, courseID, false); err != nil {
		return nil, err
	}

	position := 0
	if dto.Position != nil {
		position = *dto.Position
	} else {
		next, err := s.repo.NextSubjectPosition(ctx, courseID)
		if err != nil {
			return nil, err
		}
		position = next
	}

	row := &courseDatamodel.Subject{
		CourseID:    courseID,
		Title:       strings.TrimSpace(dto.Title),
		Description: dto.Description,
		Position:    position,
		CreatedByID: &actor.UserID,
		UpdatedByID: &actor.UserID,
	}
	if err := s.repo.CreateSubject(ctx, row); err != nil {
		return nil, err
	}
	resp := ToSubjectResponse(row)
	return &resp, nil
}

func (s *Service) UpdateSubject(ctx context.Context, actor auth.Subject, courseID, subjectID int64, dto UpdateSubjectDTO) (*SubjectResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByID(ctx, courseID, false); err != nil {
		return nil, err
	}
	row, err := s.repo.FindSubject(ctx, courseID, subjectID)
	if err != nil {
		return nil, err
	}

	if dto.Title != nil {
		row.Title = strings.TrimSpace(*dto.Title)
	}
	if dto.Description != nil {
		row.Description = *dto.Description
	}
	if dto.Position != nil {
		row.Position = *dto.Position
	}
	row.UpdatedByID = &actor.UserID

	if err := s.repo.UpdateSubject(ctx, row); err != nil {
		return nil, err
	}
	resp := ToSubjectResponse(row)
	return &resp, nil
}

func (s *Service) DeleteSubject(ctx context.Context, actor auth.Subject, courseID, subjectID int64) error {
	if _, err := s.repo.FindByID(ctx, courseID, false); err != nil {
		return err
	}
	if err := s.repo.DeleteSubject(ctx, courseID, subjectID); err != nil {
		return err
	}
	s.logger.Info("subject deleted", "course_id", courseID, "subject_id", subjectID, "actor_id", actor.UserID)
	return nil
}

func (s *Service) checkRefs(ctx context.Context, departmentID, trainerID *int64) error {
	if departmentID != nil {
		ok, err := s.repo.DepartmentExists(ctx, *departmentID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnknownDept
		}
	}
	if trainerID != nil {
		ok, err := s.repo.UserExists(ctx, *trainerID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUnknownTrainer
		}
	}
	return nil
}

func (s *Service) ensureTitleFree(ctx context.Context, title string, selfID int64) error {
	existing, err := s.repo.FindByTitle(ctx, title)
	if err != nil {
		if errors.Is(err, ErrCourseNotFound) {
			return nil
		}
		return err
	}
	if existing.ID != selfID {
		return ErrCourseExists
	}
	return nil
}
