package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/ericfisherdev/passvault/internal/domain/port/driven"
)

// SessionJanitor periodically removes expired browser sessions from the local
// store and drops the views they left behind.
type SessionJanitor struct {
	sessions driven.SessionStore
	views    *ViewRegistry
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time
}

// NewSessionJanitor creates a janitor that sweeps every interval. views may be
// nil.
func NewSessionJanitor(
	sessions driven.SessionStore,
	views *ViewRegistry,
	interval time.Duration,
	logger *slog.Logger,
) *SessionJanitor {
	return &SessionJanitor{
		sessions: sessions,
		views:    views,
		interval: interval,
		logger:   logger,
		now:      time.Now,
	}
}

// Start runs an immediate sweep, then sweeps on the configured interval.
// Start blocks until the context is canceled.
func (j *SessionJanitor) Start(ctx context.Context) {
	j.Sweep(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("session janitor stopped")
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep deletes every expired session once and returns how many were removed.
// Errors are logged, not returned; the next tick retries.
func (j *SessionJanitor) Sweep(ctx context.Context) int64 {
	removed, err := j.sessions.DeleteExpired(ctx, j.now().UTC())
	if err != nil {
		j.logger.Error("session sweep failed", "error", err)
		return 0
	}
	if removed > 0 {
		j.logger.Info("expired sessions removed", "count", removed)
	}

	if j.views != nil {
		pruned := j.views.Prune(func(id string) bool {
			session, err := j.sessions.Get(ctx, id)
			// Keep the view when the store cannot answer.
			return err != nil || session != nil
		})
		if pruned > 0 {
			j.logger.Info("orphaned views closed", "count", pruned, "open", j.views.Len())
		}
	}
	return removed
}
