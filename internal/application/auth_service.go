package application

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/identity-service/internal/domain/repository"
	"github.com/oksasatya/identity-service/pkg/helpers"
)

// AuthService orchestrates login: credential check, enablement check,
// best-effort connection notification, token minting. Single pass, no
// retries; every failure mode maps to one terminal error.
type AuthService struct {
	Backend  CredentialBackend
	Users    repository.UserRepository
	JWT      *helpers.JWTManager
	Notifier Notifier
	Redis    *redis.Client
	Logger   *logrus.Logger
	Now      func() time.Time
}

// LoginResult carries the signed token plus the flag telling the client
// the password must be changed before normal use.
type LoginResult struct {
	Token                  string    `json:"token"`
	ExpiresAt              time.Time `json:"expires_at"`
	PasswordMustBeModified bool      `json:"password_must_be_modified"`
}

func NewAuthService(backend CredentialBackend, users repository.UserRepository, jwt *helpers.JWTManager, notifier Notifier, rdb *redis.Client, logger *logrus.Logger) *AuthService {
	return &AuthService{
		Backend:  backend,
		Users:    users,
		JWT:      jwt,
		Notifier: notifier,
		Redis:    rdb,
		Logger:   logger,
		Now:      time.Now,
	}
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

// Authenticate validates credentials and returns a signed token.
//
// The credential backend does its own lookup-or-reject; its
// ErrBadCredentials is surfaced verbatim. The user is then re-resolved by
// username against the identity store: absence there after a successful
// backend check is an inconsistency between the two stores and reported
// as ErrUserNotFound, never as a credential failure.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*LoginResult, error) {
	if _, err := s.Backend.Authenticate(ctx, username, password); err != nil {
		s.Logger.WithField("username", username).Warn("authentication failed")
		return nil, err
	}

	u, err := s.Users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil {
		s.Logger.WithField("username", username).Error("authenticated principal missing from identity store")
		return nil, ErrUserNotFound
	}
	if !u.Enabled {
		return nil, ErrAccountDisabled
	}

	now := s.Now()
	body := fmt.Sprintf("Hello %s. You have just signed in at %s. If you are not the originator of this connection, please change your password immediately or contact an administrator.",
		u.Username, now.UTC().Format(time.RFC1123))
	s.Notifier.Send(ctx, u.Email, "Connection notification", body)

	token, exp, err := s.JWT.GenerateToken(u.Username, u.FullName(), u.RoleNames())
	if err != nil {
		s.Logger.WithError(err).WithField("username", username).Error("generate token failed")
		return nil, err
	}

	s.cacheSession(ctx, u.ID, u.Username, u.Email, now, exp)

	return &LoginResult{Token: token, ExpiresAt: exp, PasswordMustBeModified: u.PasswordMustBeModified}, nil
}

// cacheSession records the last login in Redis, best-effort. A cache
// failure never affects the login outcome.
func (s *AuthService) cacheSession(ctx context.Context, userID, username, email string, now, exp time.Time) {
	if s.Redis == nil {
		return
	}
	key := sessionKey(userID)
	pipe := s.Redis.Pipeline()
	pipe.HSet(ctx, key, map[string]any{
		"user_id":   userID,
		"username":  username,
		"email":     email,
		"logged_in": true,
		"login_at":  now.UTC().Format(time.RFC3339Nano),
	})
	pipe.Expire(ctx, key, time.Until(exp))
	if _, err := pipe.Exec(ctx); err != nil {
		s.Logger.WithError(err).WithField("key", key).Warn("redis pipeline failed")
	}
}
