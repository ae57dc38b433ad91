package application

import (
	"context"

	"github.com/oksasatya/identity-service/internal/domain/entity"
	"github.com/oksasatya/identity-service/internal/domain/repository"
	"github.com/oksasatya/identity-service/pkg/helpers"
)

// CredentialBackend checks a raw (username, password) pair. It performs
// its own principal lookup and answers with the matched user or
// ErrBadCredentials; it never distinguishes "unknown user" from "wrong
// password".
type CredentialBackend interface {
	Authenticate(ctx context.Context, username, password string) (*entity.User, error)
}

// RepositoryCredentialBackend resolves the principal by username, falling
// back to email, and compares the presented password against the stored
// bcrypt hash.
type RepositoryCredentialBackend struct {
	Users repository.UserRepository
}

func NewRepositoryCredentialBackend(users repository.UserRepository) *RepositoryCredentialBackend {
	return &RepositoryCredentialBackend{Users: users}
}

func (b *RepositoryCredentialBackend) Authenticate(ctx context.Context, username, password string) (*entity.User, error) {
	u, err := b.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		u, err = b.Users.GetByEmail(ctx, username)
		if err != nil {
			return nil, err
		}
	}
	if u == nil {
		return nil, ErrBadCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrBadCredentials
	}
	return u, nil
}

var _ CredentialBackend = (*RepositoryCredentialBackend)(nil)
