package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/identity-service/internal/domain/entity"
	"github.com/oksasatya/identity-service/internal/domain/repository"
)

const roleSelect = `
	SELECT id, name, description, created_at, created_by, updated_at, updated_by
	FROM roles
`

type RoleRepository struct {
	pool *pgxpool.Pool
}

func NewRoleRepository(pool *pgxpool.Pool) *RoleRepository {
	return &RoleRepository{pool: pool}
}

func (r *RoleRepository) Create(ctx context.Context, role *entity.Role) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO roles (id, name, description, created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, role.ID, role.Name, role.Description, role.CreatedAt, role.CreatedBy, role.UpdatedAt, role.UpdatedBy)
	return err
}

func (r *RoleRepository) Update(ctx context.Context, role *entity.Role) error {
	res, err := r.pool.Exec(ctx, `
		UPDATE roles
		SET name = $1, description = $2, updated_at = $3, updated_by = $4
		WHERE id = $5
	`, role.Name, role.Description, role.UpdatedAt, role.UpdatedBy, role.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *RoleRepository) GetByID(ctx context.Context, id string) (*entity.Role, error) {
	return r.getOne(ctx, roleSelect+` WHERE id = $1`, id)
}

func (r *RoleRepository) GetByName(ctx context.Context, name string) (*entity.Role, error) {
	return r.getOne(ctx, roleSelect+` WHERE name = $1`, name)
}

func (r *RoleRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM roles WHERE name = $1)`, name).Scan(&exists)
	return exists, err
}

func (r *RoleRepository) Delete(ctx context.Context, id string) error {
	res, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *RoleRepository) List(ctx context.Context, page, size int) ([]entity.Role, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	return r.query(ctx, roleSelect+` ORDER BY name LIMIT $1 OFFSET $2`, size, page*size)
}

func (r *RoleRepository) Search(ctx context.Context, keyword string, page, size int) ([]entity.Role, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	return r.query(ctx, roleSelect+` WHERE name ILIKE $1 OR description ILIKE $1 ORDER BY name LIMIT $2 OFFSET $3`,
		"%"+keyword+"%", size, page*size)
}

func (r *RoleRepository) getOne(ctx context.Context, query string, arg any) (*entity.Role, error) {
	role := &entity.Role{}
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&role.ID, &role.Name, &role.Description,
		&role.CreatedAt, &role.CreatedBy, &role.UpdatedAt, &role.UpdatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return role, nil
}

func (r *RoleRepository) query(ctx context.Context, query string, args ...any) ([]entity.Role, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []entity.Role
	for rows.Next() {
		var role entity.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description,
			&role.CreatedAt, &role.CreatedBy, &role.UpdatedAt, &role.UpdatedBy); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

var _ repository.RoleRepository = (*RoleRepository)(nil)
