package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ehs-honor/honor-site-api/pkg/jobs"
)

type sessionPurgeRepository interface {
	PurgeRefreshTokens(ctx context.Context, before time.Time) (int64, error)
}

type sessionMetrics interface {
	RecordSessionsPurged(count int64)
}

// SessionJanitor is the process-wide session lifecycle task: one long-lived
// background worker owned by the application root that periodically removes
// expired and revoked refresh tokens.
type SessionJanitor struct {
	queue    *jobs.Queue
	interval time.Duration
	logger   *zap.Logger
	cancel   context.CancelFunc
}

// NewSessionJanitor constructs the janitor.
func NewSessionJanitor(repo sessionPurgeRepository, metrics sessionMetrics, interval time.Duration, logger *zap.Logger) *SessionJanitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	handler := func(ctx context.Context, job jobs.Job) error {
		purged, err := repo.PurgeRefreshTokens(ctx, time.Now().UTC())
		if err != nil {
			return err
		}
		if purged > 0 {
			if metrics != nil {
				metrics.RecordSessionsPurged(purged)
			}
			logger.Sugar().Infow("purged stale sessions", "count", purged)
		}
		return nil
	}

	queue := jobs.NewQueue("session-janitor", handler, jobs.QueueConfig{Workers: 1, Logger: logger})

	return &SessionJanitor{queue: queue, interval: interval, logger: logger}
}

// Start launches the worker and the tick loop.
func (j *SessionJanitor) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.queue.Start(ctx)

	go func() {
		ticker := time.NewTicker(j.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := j.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: "purge"}); err != nil {
					j.logger.Warn("failed to enqueue session purge", zap.Error(err))
				}
			}
		}
	}()
}

// Stop halts the tick loop and drains the worker.
func (j *SessionJanitor) Stop() {
	if j.cancel != nil {
		j.cancel()
	}
	j.queue.Stop()
}
