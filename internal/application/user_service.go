package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/identity-service/internal/domain/entity"
	"github.com/oksasatya/identity-service/internal/domain/repository"
	"github.com/oksasatya/identity-service/pkg/helpers"
)

// UserIndex is the search-index side of the user store. Indexing is
// best-effort; Search returns matching user IDs.
type UserIndex interface {
	IndexUser(ctx context.Context, u *entity.User) error
	DeleteUser(ctx context.Context, id string) error
	Search(ctx context.Context, keyword string, page, size int) ([]string, error)
}

// UserService implements user management: create/update guarded by the
// uniqueness check, role assignment with set semantics, authenticated
// password change, lookups and search.
type UserService struct {
	Users    repository.UserRepository
	Profiles repository.ProfileRepository
	Roles    repository.RoleRepository
	Index    UserIndex
	Logger   *logrus.Logger
	Now      func() time.Time
}

func NewUserService(users repository.UserRepository, profiles repository.ProfileRepository, roles repository.RoleRepository, index UserIndex, logger *logrus.Logger) *UserService {
	return &UserService{
		Users:    users,
		Profiles: profiles,
		Roles:    roles,
		Index:    index,
		Logger:   logger,
		Now:      time.Now,
	}
}

// CreateUserInput carries the identity and profile fields of a new user.
type CreateUserInput struct {
	Username                     string
	Email                        string
	Password                     string
	Firstname                    string
	Lastname                     string
	PlaceOfBirth                 string
	DateOfBirth                  time.Time
	Nationality                  string
	Gender                       entity.Gender
	PersonalIdentificationNumber string
}

// UpdateUserInput mirrors CreateUserInput without the password; the
// password changes only through the dedicated paths.
type UpdateUserInput struct {
	Username                     string
	Email                        string
	Firstname                    string
	Lastname                     string
	PlaceOfBirth                 string
	DateOfBirth                  time.Time
	Nationality                  string
	Gender                       entity.Gender
	PersonalIdentificationNumber string
}

// Create stores a new user and its profile. The uniqueness guard must
// fully pass first; new accounts start enabled with a password that must
// be changed on first login. actor is the audit identity of the caller.
func (s *UserService) Create(ctx context.Context, actor string, in CreateUserInput) (*entity.User, error) {
	if err := s.checkUniquenessOnCreate(ctx, in.Username, in.Email, in.PersonalIdentificationNumber); err != nil {
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	now := s.Now()
	u := &entity.User{
		ID:                     uuid.NewString(),
		Username:               in.Username,
		Email:                  in.Email,
		Password:               hash,
		Enabled:                true,
		PasswordMustBeModified: true,
		CreatedAt:              now,
		CreatedBy:              actor,
		UpdatedAt:              now,
		UpdatedBy:              actor,
	}
	u.Profile = &entity.Profile{
		ID:                           uuid.NewString(),
		UserID:                       u.ID,
		Firstname:                    in.Firstname,
		Lastname:                     in.Lastname,
		PlaceOfBirth:                 in.PlaceOfBirth,
		DateOfBirth:                  in.DateOfBirth,
		Nationality:                  in.Nationality,
		Gender:                       in.Gender,
		PersonalIdentificationNumber: in.PersonalIdentificationNumber,
		CreatedAt:                    now,
		CreatedBy:                    actor,
		UpdatedAt:                    now,
		UpdatedBy:                    actor,
	}

	if err := s.Users.Create(ctx, u); err != nil {
		return nil, err
	}
	s.indexUser(ctx, u)
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "created_by": actor}).Info("user created")
	return u, nil
}

// Update rewrites the identity and profile fields of an existing user.
// The guard only probes fields whose candidate value differs from the
// current record, so a record never collides with itself.
func (s *UserService) Update(ctx context.Context, actor, id string, in UpdateUserInput) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	if err := s.checkUniquenessOnUpdate(ctx, u, in.Username, in.Email, in.PersonalIdentificationNumber); err != nil {
		return nil, err
	}

	now := s.Now()
	u.Username = in.Username
	u.Email = in.Email
	u.UpdatedAt = now
	u.UpdatedBy = actor
	if u.Profile != nil {
		u.Profile.Firstname = in.Firstname
		u.Profile.Lastname = in.Lastname
		u.Profile.PlaceOfBirth = in.PlaceOfBirth
		u.Profile.DateOfBirth = in.DateOfBirth
		u.Profile.Nationality = in.Nationality
		u.Profile.Gender = in.Gender
		u.Profile.PersonalIdentificationNumber = in.PersonalIdentificationNumber
		u.Profile.UpdatedAt = now
		u.Profile.UpdatedBy = actor
	}

	if err := s.Users.Update(ctx, u); err != nil {
		return nil, err
	}
	s.indexUser(ctx, u)
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "updated_by": actor}).Info("user updated")
	return u, nil
}

// Delete removes a user; the profile and role joins cascade.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.Users.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	if s.Index != nil {
		if err := s.Index.DeleteUser(ctx, id); err != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("search index delete failed")
		}
	}
	s.Logger.WithField("user_id", id).Info("user deleted")
	return nil
}

// AddRoleToUser adds a role to the user's role set. The user is resolved
// before the role; adding a role the user already holds is a no-op.
func (s *UserService) AddRoleToUser(ctx context.Context, userID, roleID string) (*entity.User, error) {
	u, r, err := s.resolveUserAndRole(ctx, userID, roleID)
	if err != nil {
		return nil, err
	}
	if !u.HasRole(r.ID) {
		if err := s.Users.AddRole(ctx, u.ID, r.ID); err != nil {
			return nil, err
		}
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "role": r.Name}).Info("role added to user")
	}
	return s.Users.GetByID(ctx, u.ID)
}

// RemoveRoleFromUser removes a role from the user's role set. Removing a
// role the user does not hold is a no-op.
func (s *UserService) RemoveRoleFromUser(ctx context.Context, userID, roleID string) (*entity.User, error) {
	u, r, err := s.resolveUserAndRole(ctx, userID, roleID)
	if err != nil {
		return nil, err
	}
	if u.HasRole(r.ID) {
		if err := s.Users.RemoveRole(ctx, u.ID, r.ID); err != nil {
			return nil, err
		}
		s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "role": r.Name}).Info("role removed from user")
	}
	return s.Users.GetByID(ctx, u.ID)
}

// UpdatePassword changes the password of an authenticated user after
// verifying the old one. It also clears the must-change flag.
func (s *UserService) UpdatePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	if !helpers.CompareHashAndPassword(u.Password, oldPassword) {
		return ErrIncorrectOldPassword
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.Password = hash
	u.PasswordMustBeModified = false
	u.UpdatedAt = s.Now()
	u.UpdatedBy = username
	if err := s.Users.Update(ctx, u); err != nil {
		return err
	}
	s.Logger.WithField("user_id", u.ID).Info("password updated")
	return nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *UserService) List(ctx context.Context, page, size int) ([]entity.User, error) {
	return s.Users.List(ctx, page, size)
}

// Search matches the keyword against profile names and the personal
// identification number via the search index.
func (s *UserService) Search(ctx context.Context, keyword string, page, size int) ([]entity.User, error) {
	if s.Index == nil {
		return []entity.User{}, nil
	}
	ids, err := s.Index.Search(ctx, keyword, page, size)
	if err != nil {
		return nil, err
	}
	out := make([]entity.User, 0, len(ids))
	for _, id := range ids {
		u, err := s.Users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if u != nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

// checkUniquenessOnCreate probes all three identity-defining fields and
// aggregates every violation, never failing fast on the first.
func (s *UserService) checkUniquenessOnCreate(ctx context.Context, username, email, pin string) error {
	var fields []FieldError
	taken, err := s.Users.ExistsByUsername(ctx, username)
	if err != nil {
		return err
	}
	if taken {
		fields = append(fields, FieldError{Field: "username", Message: "Username is already in use"})
	}
	taken, err = s.Users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if taken {
		fields = append(fields, FieldError{Field: "email", Message: "Email is already in use"})
	}
	taken, err = s.Profiles.ExistsByPersonalIdentificationNumber(ctx, pin)
	if err != nil {
		return err
	}
	if taken {
		fields = append(fields, FieldError{Field: "personalIdentificationNumber", Message: "PersonalIdentificationNumber is already in use"})
	}
	if len(fields) > 0 {
		return &FieldValidationError{Message: "uniqueness violation on username, email or personal identification number", Fields: fields}
	}
	return nil
}

// checkUniquenessOnUpdate is the create check with self-exclusion: a
// field is only probed when its candidate value differs from the current
// record's value.
func (s *UserService) checkUniquenessOnUpdate(ctx context.Context, current *entity.User, username, email, pin string) error {
	var fields []FieldError
	if current.Username != username {
		taken, err := s.Users.ExistsByUsername(ctx, username)
		if err != nil {
			return err
		}
		if taken {
			fields = append(fields, FieldError{Field: "username", Message: "Username is already in use"})
		}
	}
	if current.Email != email {
		taken, err := s.Users.ExistsByEmail(ctx, email)
		if err != nil {
			return err
		}
		if taken {
			fields = append(fields, FieldError{Field: "email", Message: "Email is already in use"})
		}
	}
	if current.Profile == nil || current.Profile.PersonalIdentificationNumber != pin {
		taken, err := s.Profiles.ExistsByPersonalIdentificationNumber(ctx, pin)
		if err != nil {
			return err
		}
		if taken {
			fields = append(fields, FieldError{Field: "personalIdentificationNumber", Message: "PersonalIdentificationNumber is already in use"})
		}
	}
	if len(fields) > 0 {
		return &FieldValidationError{Message: "uniqueness violation on username, email or personal identification number", Fields: fields}
	}
	return nil
}

func (s *UserService) resolveUserAndRole(ctx context.Context, userID, roleID string) (*entity.User, *entity.Role, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if u == nil {
		return nil, nil, ErrUserNotFound
	}
	r, err := s.Roles.GetByID(ctx, roleID)
	if err != nil {
		return nil, nil, err
	}
	if r == nil {
		return nil, nil, ErrRoleNotFound
	}
	return u, r, nil
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexUser(ctx, u); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("search index update failed")
	}
}
