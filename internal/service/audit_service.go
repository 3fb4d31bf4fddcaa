package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ehs-honor/honor-site-api/internal/models"
	"github.com/ehs-honor/honor-site-api/pkg/config"
	"github.com/ehs-honor/honor-site-api/pkg/jobs"
)

type auditLogRepository interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// AuditRecorder appends audit trail entries asynchronously so request latency
// is unaffected by the extra write.
type AuditRecorder struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAuditRecorder builds the recorder and its backing queue.
func NewAuditRecorder(repo auditLogRepository, cfg config.AuditConfig, logger *zap.Logger) *AuditRecorder {
	if logger == nil {
		logger = zap.NewNop()
	}

	handler := func(ctx context.Context, job jobs.Job) error {
		entry, ok := job.Payload.(*models.AuditLog)
		if !ok {
			logger.Warn("audit job carried unexpected payload", zap.String("job_id", job.ID))
			return nil
		}
		return repo.CreateAuditLog(ctx, entry)
	}

	queue := jobs.NewQueue("audit", handler, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.BufferSize,
		Logger:     logger,
	})

	return &AuditRecorder{queue: queue, logger: logger}
}

// Start begins background processing.
func (a *AuditRecorder) Start(ctx context.Context) {
	a.queue.Start(ctx)
}

// Stop drains the workers.
func (a *AuditRecorder) Stop() {
	a.queue.Stop()
}

// Record enqueues an audit entry. Loss on overflow is logged, never surfaced.
func (a *AuditRecorder) Record(entry *models.AuditLog) {
	if entry == nil {
		return
	}
	if err := a.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: entry.Action, Payload: entry}); err != nil {
		a.logger.Warn("failed to enqueue audit entry", zap.String("action", entry.Action), zap.Error(err))
	}
}
