package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kaustack/catalog/internal/pkg/logger"
)

// SyncRunner triggers the synchronization phases on startup and on a fixed
// interval. Manual triggers go through the sync endpoints instead; both
// paths share the SyncService and its per-phase transactions.
type SyncRunner struct {
	service      *SyncService
	interval     time.Duration
	runOnStartup bool
}

// NewSyncRunner creates a new periodic sync runner
func NewSyncRunner(service *SyncService, interval time.Duration, runOnStartup bool) *SyncRunner {
	return &SyncRunner{
		service:      service,
		interval:     interval,
		runOnStartup: runOnStartup,
	}
}

// Start launches the runner goroutine. It stops when ctx is cancelled.
func (r *SyncRunner) Start(ctx context.Context) {
	go r.run(ctx)
}

func (r *SyncRunner) run(ctx context.Context) {
	lgr := logger.WithField("component", "sync_runner")

	if r.runOnStartup {
		r.runOnce(ctx, lgr)
	}

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			lgr.Info().Msg("Sync runner stopped")
			return
		case <-ticker.C:
			r.runOnce(ctx, lgr)
		}
	}
}

// runOnce runs the course phase then the instructor phase. A failed course
// phase does not block the instructor phase.
func (r *SyncRunner) runOnce(ctx context.Context, lgr zerolog.Logger) {
	if _, err := r.service.SyncCourses(ctx); err != nil {
		lgr.Error().Err(err).Msg("Scheduled course sync failed")
	}
	if _, err := r.service.SyncInstructors(ctx); err != nil {
		lgr.Error().Err(err).Msg("Scheduled instructor sync failed")
	}
}
