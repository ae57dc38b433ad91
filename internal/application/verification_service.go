package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/identity-service/internal/domain/entity"
	"github.com/oksasatya/identity-service/internal/domain/repository"
	"github.com/oksasatya/identity-service/pkg/helpers"
)

// DefaultVerificationTTL is how long a freshly issued code stays valid.
const DefaultVerificationTTL = 30 * time.Minute

// VerificationService issues and redeems one-time password-reset codes.
//
// Issuing does not supersede prior outstanding codes for the same email:
// redemption keys on the exact (code, email) pair, so duplicates coexist
// harmlessly until redeemed or swept.
type VerificationService struct {
	Verifications repository.VerificationRepository
	Users         repository.UserRepository
	Notifier      Notifier
	Logger        *logrus.Logger
	TTL           time.Duration
	Now           func() time.Time
	GenerateCode  func() (string, error)
}

func NewVerificationService(verifications repository.VerificationRepository, users repository.UserRepository, notifier Notifier, logger *logrus.Logger) *VerificationService {
	return &VerificationService{
		Verifications: verifications,
		Users:         users,
		Notifier:      notifier,
		Logger:        logger,
		TTL:           DefaultVerificationTTL,
		Now:           time.Now,
		GenerateCode:  helpers.GenVerificationCode,
	}
}

// RequestCode mints a verification code for the given email and mails it.
func (s *VerificationService) RequestCode(ctx context.Context, email string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}

	code, err := s.GenerateCode()
	if err != nil {
		return err
	}
	v := &entity.Verification{
		ID:      uuid.NewString(),
		Code:    code,
		Email:   u.Email,
		Expires: s.Now().Add(s.TTL),
	}
	if err := s.Verifications.Save(ctx, v); err != nil {
		return err
	}

	body := fmt.Sprintf("Hello, here is your verification code: %s. It expires in %d minutes.", v.Code, int(s.TTL.Minutes()))
	s.Notifier.Send(ctx, v.Email, "Verification code", body)
	s.Logger.WithField("email", v.Email).Info("verification code issued")
	return nil
}

// ResetPassword redeems a code and stores the new credential.
//
// The record is deleted before the password write (single use). An
// expired record is left in place for the sweeper: retrying the same
// expired code keeps answering ErrVerificationExpired until the sweep
// reclaims it.
func (s *VerificationService) ResetPassword(ctx context.Context, code, email, newPassword string) error {
	v, err := s.Verifications.FindByCodeAndEmail(ctx, code, email)
	if err != nil {
		return err
	}
	if v == nil {
		return ErrVerificationNotFound
	}
	if v.ExpiredAt(s.Now()) {
		return ErrVerificationExpired
	}

	if err := s.Verifications.Delete(ctx, v.ID); err != nil {
		return err
	}
	if err := s.updatePassword(ctx, email, newPassword); err != nil {
		return err
	}

	s.Notifier.Send(ctx, email, "Password updated", "Hello, your password has been updated successfully.")
	s.Logger.WithField("email", email).Info("password reset successful")
	return nil
}

func (s *VerificationService) updatePassword(ctx context.Context, email, newPassword string) error {
	u, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if u == nil {
		return ErrUserNotFound
	}
	hash, err := helpers.HashPassword(newPassword)
	if err != nil {
		return err
	}
	u.Password = hash
	u.UpdatedAt = s.Now()
	return s.Users.Update(ctx, u)
}
