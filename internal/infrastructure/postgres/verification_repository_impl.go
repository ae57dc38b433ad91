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

type VerificationRepository struct {
	pool *pgxpool.Pool
}

func NewVerificationRepository(pool *pgxpool.Pool) *VerificationRepository {
	return &VerificationRepository{pool: pool}
}

func (r *VerificationRepository) Save(ctx context.Context, v *entity.Verification) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO verifications (id, code, email, expires)
		VALUES ($1, $2, $3, $4)
	`, v.ID, v.Code, v.Email, v.Expires)
	return err
}

func (r *VerificationRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM verifications WHERE id = $1`, id)
	return err
}

func (r *VerificationRepository) FindByCodeAndEmail(ctx context.Context, code, email string) (*entity.Verification, error) {
	v := &entity.Verification{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, code, email, expires
		FROM verifications
		WHERE code = $1 AND email = $2
	`, code, email).Scan(&v.ID, &v.Code, &v.Email, &v.Expires)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

func (r *VerificationRepository) FindExpired(ctx context.Context, now time.Time) ([]entity.Verification, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, code, email, expires
		FROM verifications
		WHERE expires < $1
	`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []entity.Verification
	for rows.Next() {
		var v entity.Verification
		if err := rows.Scan(&v.ID, &v.Code, &v.Email, &v.Expires); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

var _ repository.VerificationRepository = (*VerificationRepository)(nil)
