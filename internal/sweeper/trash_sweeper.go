package sweeper

import (
	"context"
	"time"

	"notekeeper-be/internal/pkg/logger"
	"notekeeper-be/internal/service"
)

// TrashSweeper periodically purges trashed notes past the retention window.
// Each sweep runs through the note service so the purge carries the same
// audit trail as a user-initiated empty-trash.
type TrashSweeper struct {
	notes     service.INoteService
	interval  time.Duration
	retention time.Duration
	logger    logger.ILogger
}

func NewTrashSweeper(notes service.INoteService, interval, retention time.Duration, log logger.ILogger) *TrashSweeper {
	return &TrashSweeper{
		notes:     notes,
		interval:  interval,
		retention: retention,
		logger:    log,
	}
}

// Start blocks until ctx is cancelled. Run it in its own goroutine.
func (s *TrashSweeper) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("TrashSweeper", "Sweeper started", map[string]interface{}{
		"interval":  s.interval.String(),
		"retention": s.retention.String(),
	})

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("TrashSweeper", "Sweeper stopped", nil)
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *TrashSweeper) sweep(ctx context.Context) {
	purged, err := s.notes.PurgeExpired(ctx, s.retention)
	if err != nil {
		s.logger.Error("TrashSweeper", "Sweep failed", map[string]interface{}{"error": err.Error()})
		return
	}
	if purged > 0 {
		s.logger.Info("TrashSweeper", "Sweep purged expired notes", map[string]interface{}{"count": purged})
	}
}
