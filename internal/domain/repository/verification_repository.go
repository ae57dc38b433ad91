package repository

import (
	"context"
	"time"

	"github.com/oksasatya/identity-service/internal/domain/entity"
)

// VerificationRepository defines storage operations for one-time
// verification codes. FindByCodeAndEmail keys on the exact (code, email)
// pair so stale or duplicate codes for the same email never collide; it
// returns (nil, nil) when no record matches.
type VerificationRepository interface {
	Save(ctx context.Context, v *entity.Verification) error
	Delete(ctx context.Context, id string) error
	FindByCodeAndEmail(ctx context.Context, code, email string) (*entity.Verification, error)
	FindExpired(ctx context.Context, now time.Time) ([]entity.Verification, error)
}
