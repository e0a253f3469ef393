package job

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"givemap/internal/notify"
)

const sentRetention = 30 * 24 * time.Hour

// OutboxJob retries queued emails that were not delivered right away and
// drops old delivered ones.
type OutboxJob struct {
	dispatcher *notify.Dispatcher
	timeout    time.Duration
}

func NewOutboxJob(dispatcher *notify.Dispatcher, timeout time.Duration) *OutboxJob {
	return &OutboxJob{dispatcher: dispatcher, timeout: timeout}
}

func (j *OutboxJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	sent, err := j.dispatcher.Flush(ctx)
	if err != nil {
		logrus.WithError(err).Warn("outbox job: flush failed")
	} else if sent > 0 {
		logrus.WithField("sent", sent).Info("outbox job: delivered queued emails")
	}

	pruned, err := j.dispatcher.Prune(ctx, time.Now().UTC().Add(-sentRetention))
	if err != nil {
		logrus.WithError(err).Warn("outbox job: prune failed")
	} else if pruned > 0 {
		logrus.WithField("pruned", pruned).Debug("outbox job: pruned delivered emails")
	}
}
