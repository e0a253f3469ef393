package job

import (
	"time"

	"github.com/robfig/cron/v3"

	"givemap/internal/notify"
	"givemap/internal/services"
)

// Schedule registers the background jobs on c. The caller starts and
// stops c.
func Schedule(c *cron.Cron, dispatcher *notify.Dispatcher, authService *services.AuthService) error {
	if _, err := c.AddJob("@every 1m", NewOutboxJob(dispatcher, time.Minute)); err != nil {
		return err
	}
	if _, err := c.AddJob("@hourly", NewResetTokenCleanupJob(authService)); err != nil {
		return err
	}
	return nil
}
