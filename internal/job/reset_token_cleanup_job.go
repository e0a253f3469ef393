package job

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type resetTokenPurger interface {
	PurgeExpiredResetTokens(ctx context.Context) (int64, error)
}

// ResetTokenCleanupJob clears password reset tokens past their expiry.
type ResetTokenCleanupJob struct {
	purger resetTokenPurger
}

func NewResetTokenCleanupJob(purger resetTokenPurger) *ResetTokenCleanupJob {
	return &ResetTokenCleanupJob{purger: purger}
}

func (j *ResetTokenCleanupJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	n, err := j.purger.PurgeExpiredResetTokens(ctx)
	if err != nil {
		logrus.WithError(err).Warn("reset token cleanup failed")
		return
	}
	if n > 0 {
		logrus.WithField("cleared", n).Info("expired reset tokens cleared")
	}
}
