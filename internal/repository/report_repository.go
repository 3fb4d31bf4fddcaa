package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ehs-honor/honor-site-api/internal/models"
)

var reportColumns = []string{"id", "user_id", "subject", "details", "status", "created_at"}

// ReportRepository provides scoped access to honor-code reports.
type ReportRepository struct {
	store *RecordStore[models.Report]
}

// NewReportRepository creates a report repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{store: NewRecordStore[models.Report](db, "reports", reportColumns)}
}

// ListOwned returns the caller's own reports, newest first.
func (r *ReportRepository) ListOwned(ctx context.Context, userID string) ([]models.Report, error) {
	return r.store.Select(ctx, ListSpec{Filters: []Filter{Eq("user_id", userID)}})
}

// ListAll returns every report, newest first. Privileged callers only.
func (r *ReportRepository) ListAll(ctx context.Context) ([]models.Report, error) {
	return r.store.Select(ctx, ListSpec{})
}

// FindByID returns a single report.
func (r *ReportRepository) FindByID(ctx context.Context, id string) (*models.Report, error) {
	return r.store.GetByID(ctx, id)
}

// Create inserts a report; status always starts open.
func (r *ReportRepository) Create(ctx context.Context, rep *models.Report) error {
	if rep.ID == "" {
		rep.ID = uuid.NewString()
	}
	if rep.Status == "" {
		rep.Status = models.StatusOpen
	}
	if rep.CreatedAt.IsZero() {
		rep.CreatedAt = time.Now().UTC()
	}
	return r.store.Insert(ctx, rep)
}

// UpdateStatus transitions the triage status.
func (r *ReportRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.store.UpdateByID(ctx, id, map[string]interface{}{"status": status})
}
