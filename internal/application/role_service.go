package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/identity-service/internal/domain/entity"
	"github.com/oksasatya/identity-service/internal/domain/repository"
)

// RoleService manages roles; role names are globally unique and guarded
// the same way as user identity fields.
type RoleService struct {
	Roles  repository.RoleRepository
	Logger *logrus.Logger
	Now    func() time.Time
}

func NewRoleService(roles repository.RoleRepository, logger *logrus.Logger) *RoleService {
	return &RoleService{Roles: roles, Logger: logger, Now: time.Now}
}

func (s *RoleService) Create(ctx context.Context, actor, name, description string) (*entity.Role, error) {
	taken, err := s.Roles.ExistsByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &FieldValidationError{
			Message: "uniqueness violation on name",
			Fields:  []FieldError{{Field: "name", Message: "Name is already in use"}},
		}
	}
	now := s.Now()
	r := &entity.Role{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		CreatedBy:   actor,
		UpdatedAt:   now,
		UpdatedBy:   actor,
	}
	if err := s.Roles.Create(ctx, r); err != nil {
		return nil, err
	}
	s.Logger.WithFields(logrus.Fields{"role_id": r.ID, "name": r.Name}).Info("role created")
	return r, nil
}

// Update renames a role; the name probe skips the role's own current name.
func (s *RoleService) Update(ctx context.Context, actor, id, name, description string) (*entity.Role, error) {
	r, err := s.Roles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrRoleNotFound
	}
	if r.Name != name {
		taken, err := s.Roles.ExistsByName(ctx, name)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, &FieldValidationError{
				Message: "uniqueness violation on name",
				Fields:  []FieldError{{Field: "name", Message: "Name is already in use"}},
			}
		}
	}
	r.Name = name
	r.Description = description
	r.UpdatedAt = s.Now()
	r.UpdatedBy = actor
	if err := s.Roles.Update(ctx, r); err != nil {
		return nil, err
	}
	s.Logger.WithField("role_id", r.ID).Info("role updated")
	return r, nil
}

func (s *RoleService) GetByID(ctx context.Context, id string) (*entity.Role, error) {
	r, err := s.Roles.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrRoleNotFound
	}
	return r, nil
}

func (s *RoleService) GetByName(ctx context.Context, name string) (*entity.Role, error) {
	r, err := s.Roles.GetByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, ErrRoleNotFound
	}
	return r, nil
}

func (s *RoleService) List(ctx context.Context, page, size int) ([]entity.Role, error) {
	return s.Roles.List(ctx, page, size)
}

func (s *RoleService) Search(ctx context.Context, keyword string, page, size int) ([]entity.Role, error) {
	return s.Roles.Search(ctx, keyword, page, size)
}

func (s *RoleService) Delete(ctx context.Context, id string) error {
	if err := s.Roles.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrRoleNotFound
		}
		return err
	}
	s.Logger.WithField("role_id", id).Info("role deleted")
	return nil
}
