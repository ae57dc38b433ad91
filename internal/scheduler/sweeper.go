// Package scheduler runs the periodic reclamation of expired
// verification codes, independent of request traffic.
package scheduler

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/identity-service/internal/domain/repository"
)

// DefaultSweepInterval matches the verification code TTL.
const DefaultSweepInterval = 30 * time.Minute

// Sweeper deletes verification codes whose expiry has passed. Each pass
// is idempotent: a second run over the same data deletes nothing.
type Sweeper struct {
	Verifications repository.VerificationRepository
	Logger        *logrus.Logger
	Interval      time.Duration
	Now           func() time.Time
}

func NewSweeper(verifications repository.VerificationRepository, logger *logrus.Logger, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		Verifications: verifications,
		Logger:        logger,
		Interval:      interval,
		Now:           time.Now,
	}
}

// Run executes Sweep on a fixed schedule until the context is canceled.
func (s *Sweeper) Run(ctx context.Context) {
	s.Logger.WithField("interval", s.Interval.String()).Info("verification sweeper started")
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.Logger.Info("verification sweeper stopped")
			return
		case <-ticker.C:
			s.Sweep(ctx)
		}
	}
}

// Sweep deletes every expired verification code in one pass and returns
// how many were deleted. A failing record is logged and skipped; one bad
// record never fails the whole run.
func (s *Sweeper) Sweep(ctx context.Context) int {
	expired, err := s.Verifications.FindExpired(ctx, s.Now())
	if err != nil {
		s.Logger.WithError(err).Error("sweep: listing expired verifications failed")
		return 0
	}
	deleted := 0
	for i := range expired {
		if err := s.Verifications.Delete(ctx, expired[i].ID); err != nil {
			s.Logger.WithError(err).WithField("verification_id", expired[i].ID).Warn("sweep: delete failed")
			continue
		}
		deleted++
	}
	if deleted > 0 {
		s.Logger.WithField("deleted", deleted).Info("expired verification codes swept")
	}
	return deleted
}
