package jobs

import (
	"context"

	"campusnet/internal/services"
	"campusnet/pkg/logger"

	"github.com/robfig/cron/v3"
)

// StartTypingCleanupJob sweeps stale typing indicators every 10 seconds,
// matching the cleanup staleness window. Rows past the 5s display window are
// already invisible to readers; this only bounds table growth.
func StartTypingCleanupJob(typingService *services.TypingService, l *logger.Logger) *cron.Cron {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("*/10 * * * * *", func() {
		removed, err := typingService.CleanupStale(context.Background())
		if err != nil {
			l.Errorf("typing cleanup failed: %v", err)
			return
		}
		if removed > 0 {
			l.Infof("typing cleanup removed %d stale indicators", removed)
		}
	})
	if err != nil {
		l.Errorf("failed to schedule typing cleanup: %v", err)
		return c
	}

	c.Start()
	return c
}
