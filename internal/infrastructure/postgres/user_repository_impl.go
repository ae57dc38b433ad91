package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/identity-service/internal/domain/entity"
	"github.com/oksasatya/identity-service/internal/domain/repository"
)

const userSelect = `
	SELECT u.id, u.username, u.email, u.password, u.enabled, u.password_must_be_modified,
	       u.created_at, u.created_by, u.updated_at, u.updated_by,
	       p.id, p.firstname, p.lastname, p.place_of_birth, p.date_of_birth,
	       p.nationality, p.gender, p.personal_identification_number
	FROM users u
	LEFT JOIN profiles p ON p.user_id = u.id
`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, u *entity.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `
		INSERT INTO users (id, username, email, password, enabled, password_must_be_modified,
		                   created_at, created_by, updated_at, updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`, u.ID, u.Username, u.Email, u.Password, u.Enabled, u.PasswordMustBeModified,
		u.CreatedAt, u.CreatedBy, u.UpdatedAt, u.UpdatedBy); err != nil {
		return err
	}

	if u.Profile != nil {
		p := u.Profile
		if _, err := tx.Exec(ctx, `
			INSERT INTO profiles (id, user_id, firstname, lastname, place_of_birth, date_of_birth,
			                      nationality, gender, personal_identification_number,
			                      created_at, created_by, updated_at, updated_by)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`, p.ID, u.ID, p.Firstname, p.Lastname, p.PlaceOfBirth, p.DateOfBirth,
			p.Nationality, p.Gender, p.PersonalIdentificationNumber,
			p.CreatedAt, p.CreatedBy, p.UpdatedAt, p.UpdatedBy); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *UserRepository) Update(ctx context.Context, u *entity.User) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	res, err := tx.Exec(ctx, `
		UPDATE users
		SET username = $1, email = $2, password = $3, enabled = $4,
		    password_must_be_modified = $5, updated_at = $6, updated_by = $7
		WHERE id = $8
	`, u.Username, u.Email, u.Password, u.Enabled, u.PasswordMustBeModified,
		u.UpdatedAt, u.UpdatedBy, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}

	if u.Profile != nil {
		p := u.Profile
		if _, err := tx.Exec(ctx, `
			UPDATE profiles
			SET firstname = $1, lastname = $2, place_of_birth = $3, date_of_birth = $4,
			    nationality = $5, gender = $6, personal_identification_number = $7,
			    updated_at = $8, updated_by = $9
			WHERE user_id = $10
		`, p.Firstname, p.Lastname, p.PlaceOfBirth, p.DateOfBirth,
			p.Nationality, p.Gender, p.PersonalIdentificationNumber,
			p.UpdatedAt, p.UpdatedBy, u.ID); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return r.getOne(ctx, userSelect+` WHERE u.id = $1`, id)
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return r.getOne(ctx, userSelect+` WHERE u.username = $1`, username)
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return r.getOne(ctx, userSelect+` WHERE u.email = $1`, email)
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	return exists, err
}

func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email).Scan(&exists)
	return exists, err
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	// Profile and user_roles rows go with the user via ON DELETE CASCADE.
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, page, size int) ([]entity.User, error) {
	if size <= 0 {
		size = 20
	}
	if page < 0 {
		page = 0
	}
	rows, err := r.pool.Query(ctx, userSelect+` ORDER BY u.created_at LIMIT $1 OFFSET $2`, size, page*size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range users {
		roles, err := r.loadRoles(ctx, users[i].ID)
		if err != nil {
			return nil, err
		}
		users[i].Roles = roles
	}
	return users, nil
}

func (r *UserRepository) AddRole(ctx context.Context, userID, roleID string) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_roles (user_id, role_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, role_id) DO NOTHING
	`, userID, roleID)
	return err
}

func (r *UserRepository) RemoveRole(ctx context.Context, userID, roleID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM user_roles WHERE user_id = $1 AND role_id = $2`, userID, roleID)
	return err
}

func (r *UserRepository) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	row := r.pool.QueryRow(ctx, query, arg)
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	roles, err := r.loadRoles(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	u.Roles = roles
	return u, nil
}

func (r *UserRepository) loadRoles(ctx context.Context, userID string) ([]entity.Role, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.id, r.name, r.description
		FROM roles r
		JOIN user_roles ur ON ur.role_id = r.id
		WHERE ur.user_id = $1
		ORDER BY r.name
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var roles []entity.Role
	for rows.Next() {
		var role entity.Role
		if err := rows.Scan(&role.ID, &role.Name, &role.Description); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// scanUser reads a user row from the userSelect projection. The profile
// columns are nullable because of the LEFT JOIN; a user without a
// profile is valid.
func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var (
		profileID    *string
		firstname    *string
		lastname     *string
		placeOfBirth *string
		dateOfBirth  *time.Time
		nationality  *string
		gender       *string
		pin          *string
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Password, &u.Enabled, &u.PasswordMustBeModified,
		&u.CreatedAt, &u.CreatedBy, &u.UpdatedAt, &u.UpdatedBy,
		&profileID, &firstname, &lastname, &placeOfBirth, &dateOfBirth,
		&nationality, &gender, &pin); err != nil {
		return nil, err
	}
	if profileID != nil {
		u.Profile = &entity.Profile{
			ID:                           *profileID,
			UserID:                       u.ID,
			Firstname:                    deref(firstname),
			Lastname:                     deref(lastname),
			PlaceOfBirth:                 deref(placeOfBirth),
			Nationality:                  deref(nationality),
			Gender:                       entity.Gender(deref(gender)),
			PersonalIdentificationNumber: deref(pin),
		}
		if dateOfBirth != nil {
			u.Profile.DateOfBirth = *dateOfBirth
		}
	}
	return u, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

var _ repository.UserRepository = (*UserRepository)(nil)
