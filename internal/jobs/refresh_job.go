package jobs

import (
	"context"
	"time"

	"github.com/sinanfen/to-dogether-web-sub000/internal/config"
	"github.com/sinanfen/to-dogether-web-sub000/internal/session"
	"go.uber.org/zap"
)

const refreshJobName = "session-refresh"

// refreshJobTimeout bounds one refresh round trip so a hung backend cannot
// pile up skipped runs forever
const refreshJobTimeout = 2 * time.Minute

// RegisterSessionRefresh schedules the periodic session keepalive when it is
// enabled in configuration. Each run re-hydrates the session; RefreshUser is
// best-effort, so a failing backend degrades the session without surfacing
// errors here.
func RegisterSessionRefresh(s *Scheduler, manager *session.Manager, cfg *config.RefreshConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("session refresh job disabled")
		return nil
	}

	return s.AddJob(refreshJobName, cfg.Schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), refreshJobTimeout)
		defer cancel()

		manager.RefreshUser(ctx)

		snap := manager.Snapshot()
		logger.Debug("session refresh completed",
			zap.String("state", string(snap.State)),
		)
	})
}
