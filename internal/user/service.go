package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/training-management/internal"
	"github.com/frahmantamala/training-management/internal/auth"
	"github.com/frahmantamala/training-management/internal/core/cache"
	"github.com/frahmantamala/training-management/internal/core/common/listing"
	userDatamodel "github.com/frahmantamala/training-management/internal/core/datamodel/user"
	"github.com/frahmantamala/training-management/internal/core/events"
	"github.com/frahmantamala/training-management/internal/core/softdelete"
	"golang.org/x/crypto/bcrypt"
)

type RepositoryAPI interface {
	// CreateWithEIDs allocates an employee id for users[i] from roleNames[i]
	// and inserts every user in one transaction.
	CreateWithEIDs(ctx context.Context, users []*userDatamodel.User, roleNames []string) error
	FindByID(ctx context.Context, id int64, includeDeleted bool) (*userDatamodel.User, error)
	List(ctx context.Context, q listing.Query) ([]*userDatamodel.User, int64, error)
	// TakenEmails returns which of emails already belong to a user other than excludeID.
	TakenEmails(ctx context.Context, emails []string, excludeID int64) ([]string, error)
	Update(ctx context.Context, u *userDatamodel.User) error
	SaveLifecycle(ctx context.Context, u *userDatamodel.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	FindRole(ctx context.Context, id int64) (*RoleRef, error)
	FindRoleIDByName(ctx context.Context, name string) (int64, error)
	DepartmentExists(ctx context.Context, id int64) (bool, error)
}

type ServiceAPI interface {
	Create(ctx context.Context, actor auth.Subject, dto CreateUserDTO) (*UserResponse, error)
	BulkCreate(ctx context.Context, actor auth.Subject, dto BulkCreateUsersDTO) ([]UserResponse, error)
	List(ctx context.Context, q listing.Query) (listing.Page[UserResponse], error)
	Get(ctx context.Context, id int64, includeDeleted bool) (*UserResponse, error)
	Update(ctx context.Context, actor auth.Subject, id int64, dto UpdateUserDTO) (*UserResponse, error)
	Disable(ctx context.Context, actor auth.Subject, id int64) (*UserResponse, error)
	Enable(ctx context.Context, actor auth.Subject, id int64) (*UserResponse, error)

	GetProfile(ctx context.Context, actor auth.Subject) (*UserResponse, error)
	UpdateProfile(ctx context.Context, actor auth.Subject, dto UpdateProfileDTO) (*UserResponse, error)
	ChangePassword(ctx context.Context, actor auth.Subject, dto ChangePasswordDTO) error
}

type Service struct {
	repo       RepositoryAPI
	roleIDs    cache.RoleIDs
	publisher  events.Publisher
	bcryptCost int
	logger     *slog.Logger
	now        func() time.Time
}

func NewService(repo RepositoryAPI, roleIDs cache.RoleIDs, publisher events.Publisher, bcryptCost int, logger *slog.Logger) *Service {
	return &Service{
		repo:       repo,
		roleIDs:    roleIDs,
		publisher:  publisher,
		bcryptCost: bcryptCost,
		logger:     logger,
		now:        time.Now,
	}
}

func (s *Service) Create(ctx context.Context, actor auth.Subject, dto CreateUserDTO) (*UserResponse, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	created, err := s.createMany(ctx, actor, []CreateUserDTO{dto}, func(_ int, field string) string { return field })
	if err != nil {
		return nil, err
	}
	return &created[0], nil
}

// BulkCreate creates every user or none.
func (s *Service) BulkCreate(ctx context.Context, actor auth.Subject, dto BulkCreateUsersDTO) ([]UserResponse, error) {
	dto.Normalize()
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	return s.createMany(ctx, actor, dto.Users, func(i int, field string) string {
		return fmt.Sprintf("users[%d].%s", i, field)
	})
}

type pendingUser struct {
	row       *userDatamodel.User
	generated string
}

func (s *Service) createMany(ctx context.Context, actor auth.Subject, dtos []CreateUserDTO, path func(i int, field string) string) ([]UserResponse, error) {
	emails := make([]string, len(dtos))
	firstIndex := make(map[string]int, len(dtos))
	for i, d := range dtos {
		if j, dup := firstIndex[d.Email]; dup {
			return nil, internal.NewConflictError(path(i, "email"),
				fmt.Sprintf("Email is repeated at %s", path(j, "email")), internal.ErrCodeEmailExists)
		}
		firstIndex[d.Email] = i
		emails[i] = d.Email
	}

	taken, err := s.repo.TakenEmails(ctx, emails, 0)
	if err != nil {
		return nil, err
	}
	if len(taken) > 0 {
		return nil, internal.NewConflictError(path(firstIndex[taken[0]], "email"), ErrEmailExists.Message, internal.ErrCodeEmailExists)
	}

	roles := make(map[int64]*RoleRef)
	pending := make([]pendingUser, len(dtos))
	roleNames := make([]string, len(dtos))
	for i, d := range dtos {
		role, err := s.roleFor(ctx, d.RoleID, roles)
		if err != nil {
			if errors.Is(err, ErrUnknownRole) {
				return nil, internal.NewValidationFieldError(path(i, "roleId"), ErrUnknownRole.Message, internal.ErrCodeRoleNotFound)
			}
			return nil, err
		}
		if err := s.checkDepartment(ctx, d.DepartmentID); err != nil {
			if errors.Is(err, ErrUnknownDept) {
				return nil, internal.NewValidationFieldError(path(i, "departmentId"), ErrUnknownDept.Message, internal.ErrCodeDepartmentMissing)
			}
			return nil, err
		}

		password, generated := d.Password, ""
		if password == "" {
			if generated, err = auth.GenerateRandomToken(generatedPasswordBytes); err != nil {
				return nil, internal.NewInternalError("failed to generate password", err)
			}
			password = generated
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
		if err != nil {
			return nil, internal.NewInternalError("failed to hash password", err)
		}

		row := &userDatamodel.User{
			FirstName:    d.FirstName,
			LastName:     d.LastName,
			Email:        d.Email,
			PasswordHash: string(hash),
			Phone:        d.Phone,
			RoleID:       role.ID,
			DepartmentID: d.DepartmentID,
			Status:       StatusActive,
		}
		row.IsActive = true
		row.CreatedByID = &actor.UserID
		row.UpdatedByID = &actor.UserID

		pending[i] = pendingUser{row: row, generated: generated}
		roleNames[i] = role.Name
	}

	rows := make([]*userDatamodel.User, len(pending))
	for i, p := range pending {
		rows[i] = p.row
	}
	if err := s.repo.CreateWithEIDs(ctx, rows, roleNames); err != nil {
		return nil, err
	}

	out := make([]UserResponse, len(pending))
	for i, p := range pending {
		out[i] = ToResponse(p.row)
		event := events.NewUserCreatedEvent(p.row.ID, p.row.EID, p.row.Email, p.row.FirstName, p.generated)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Error("failed to publish user created event", "user_id", p.row.ID, "error", err)
		}
	}

	s.logger.Info("users created", "count", len(out), "actor_id", actor.UserID)
	return out, nil
}

// roleFor resolves an explicit role, or the trainee role when none is given.
func (s *Service) roleFor(ctx context.Context, roleID *int64, seen map[int64]*RoleRef) (*RoleRef, error) {
	if roleID == nil {
		id, err := s.roleIDs.GetOrLoad(ctx, auth.RoleTrainee, func(ctx context.Context) (int64, error) {
			return s.repo.FindRoleIDByName(ctx, auth.RoleTrainee)
		})
		if err != nil {
			if errors.Is(err, ErrUnknownRole) {
				return nil, ErrDefaultRoleGap
			}
			return nil, err
		}
		role, err := s.lookupRole(ctx, id, seen)
		if errors.Is(err, ErrUnknownRole) {
			s.roleIDs.Invalidate(auth.RoleTrainee)
			return nil, ErrDefaultRoleGap
		}
		return role, err
	}
	return s.lookupRole(ctx, *roleID, seen)
}

func (s *Service) lookupRole(ctx context.Context, id int64, seen map[int64]*RoleRef) (*RoleRef, error) {
	if role, ok := seen[id]; ok {
		return role, nil
	}
	role, err := s.repo.FindRole(ctx, id)
	if err != nil {
		return nil, err
	}
	seen[id] = role
	return role, nil
}

func (s *Service) checkDepartment(ctx context.Context, id *int64) error {
	if id == nil {
		return nil
	}
	ok, err := s.repo.DepartmentExists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownDept
	}
	return nil
}

func (s *Service) List(ctx context.Context, q listing.Query) (listing.Page[UserResponse], error) {
	rows, total, err := s.repo.List(ctx, q)
	if err != nil {
		return listing.Page[UserResponse]{}, err
	}
	return listing.Map(listing.NewPage(rows, total, q), ToResponse), nil
}

func (s *Service) Get(ctx context.Context, id int64, includeDeleted bool) (*UserResponse, error) {
	row, err := s.repo.FindByID(ctx, id, includeDeleted)
	if err != nil {
		return nil, err
	}
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) Update(ctx context.Context, actor auth.Subject, id int64, dto UpdateUserDTO) (*UserResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	row, err := s.repo.FindByID(ctx, id, false)
	if err != nil {
		return nil, err
	}

	if dto.Email != nil {
		email := normalizeEmail(*dto.Email)
		taken, err := s.repo.TakenEmails(ctx, []string{email}, row.ID)
		if err != nil {
			return nil, err
		}
		if len(taken) > 0 {
			return nil, ErrEmailExists
		}
		row.Email = email
	}
	if dto.RoleID != nil {
		role, err := s.repo.FindRole(ctx, *dto.RoleID)
		if err != nil {
			return nil, err
		}
		row.RoleID = role.ID
	}
	if dto.DepartmentID != nil {
		if err := s.checkDepartment(ctx, dto.DepartmentID); err != nil {
			return nil, err
		}
		row.DepartmentID = dto.DepartmentID
	}
	applyProfile(row, UpdateProfileDTO{FirstName: dto.FirstName, LastName: dto.LastName, Phone: dto.Phone, AvatarURL: dto.AvatarURL})
	row.UpdatedByID = &actor.UserID

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) Disable(ctx context.Context, actor auth.Subject, id int64) (*UserResponse, error) {
	if actor.UserID == id {
		return nil, ErrSelfDisable
	}
	row, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := row.Disable(actor.UserID, s.now()); err != nil {
		return nil, softdelete.AsAppError("User", err)
	}
	row.Status = StatusDisabled
	if err := s.repo.SaveLifecycle(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("user disabled", "user_id", row.ID, "actor_id", actor.UserID)
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) Enable(ctx context.Context, actor auth.Subject, id int64) (*UserResponse, error) {
	row, err := s.repo.FindByID(ctx, id, true)
	if err != nil {
		return nil, err
	}
	if err := row.Enable(actor.UserID); err != nil {
		return nil, softdelete.AsAppError("User", err)
	}
	row.Status = StatusActive
	if err := s.repo.SaveLifecycle(ctx, row); err != nil {
		return nil, err
	}

	s.logger.Info("user enabled", "user_id", row.ID, "actor_id", actor.UserID)
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) GetProfile(ctx context.Context, actor auth.Subject) (*UserResponse, error) {
	return s.Get(ctx, actor.UserID, false)
}

func (s *Service) UpdateProfile(ctx context.Context, actor auth.Subject, dto UpdateProfileDTO) (*UserResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}
	row, err := s.repo.FindByID(ctx, actor.UserID, false)
	if err != nil {
		return nil, err
	}
	applyProfile(row, dto)
	row.UpdatedByID = &actor.UserID

	if err := s.repo.Update(ctx, row); err != nil {
		return nil, err
	}
	resp := ToResponse(row)
	return &resp, nil
}

func (s *Service) ChangePassword(ctx context.Context, actor auth.Subject, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}
	row, err := s.repo.FindByID(ctx, actor.UserID, false)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(dto.CurrentPassword)); err != nil {
		return ErrWrongPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.NewPassword), s.bcryptCost)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}
	if err := s.repo.UpdatePassword(ctx, row.ID, string(hash)); err != nil {
		return err
	}
	s.logger.Info("password changed", "user_id", row.ID)
	return nil
}

func applyProfile(row *userDatamodel.User, dto UpdateProfileDTO) {
	if dto.FirstName != nil {
		row.FirstName = trim(*dto.FirstName)
	}
	if dto.LastName != nil {
		row.LastName = trim(*dto.LastName)
	}
	if dto.Phone != nil {
		row.Phone = dto.Phone
	}
	if dto.AvatarURL != nil {
		row.AvatarURL = dto.AvatarURL
	}
}
