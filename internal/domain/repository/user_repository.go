package repository

import (
	"context"

	"github.com/oksasatya/identity-service/internal/domain/entity"
)

// UserRepository defines storage operations for users and their profiles.
// Lookup methods return (nil, nil) when no record matches; absence is not
// an error at this layer.
type UserRepository interface {
	// Create persists a new user together with its profile in one transaction.
	Create(ctx context.Context, u *entity.User) error
	// Update persists user fields and, when present, profile fields.
	Update(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// Delete removes a user; the profile and role joins go with it.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, size int) ([]entity.User, error)
	// AddRole and RemoveRole mutate the user_roles join with set
	// semantics: adding an existing pair or removing an absent one is
	// a no-op.
	AddRole(ctx context.Context, userID, roleID string) error
	RemoveRole(ctx context.Context, userID, roleID string) error
}
