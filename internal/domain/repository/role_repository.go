package repository

import (
	"context"

	"github.com/oksasatya/identity-service/internal/domain/entity"
)

// RoleRepository defines storage operations for roles. Lookup methods
// return (nil, nil) when no record matches.
type RoleRepository interface {
	Create(ctx context.Context, r *entity.Role) error
	Update(ctx context.Context, r *entity.Role) error
	GetByID(ctx context.Context, id string) (*entity.Role, error)
	GetByName(ctx context.Context, name string) (*entity.Role, error)
	ExistsByName(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, size int) ([]entity.Role, error)
	Search(ctx context.Context, keyword string, page, size int) ([]entity.Role, error)
}
