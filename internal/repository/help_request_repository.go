package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ehs-honor/honor-site-api/internal/models"
)

var helpRequestColumns = []string{"id", "user_id", "topic", "details", "status", "created_at"}

// HelpRequestRepository provides scoped access to help requests.
type HelpRequestRepository struct {
	store *RecordStore[models.HelpRequest]
}

// NewHelpRequestRepository creates a help request repository.
func NewHelpRequestRepository(db *sqlx.DB) *HelpRequestRepository {
	return &HelpRequestRepository{store: NewRecordStore[models.HelpRequest](db, "help_requests", helpRequestColumns)}
}

// ListOwned returns the caller's own help requests, newest first.
func (r *HelpRequestRepository) ListOwned(ctx context.Context, userID string) ([]models.HelpRequest, error) {
	return r.store.Select(ctx, ListSpec{Filters: []Filter{Eq("user_id", userID)}})
}

// ListAll returns every help request, newest first. Privileged callers only.
func (r *HelpRequestRepository) ListAll(ctx context.Context) ([]models.HelpRequest, error) {
	return r.store.Select(ctx, ListSpec{})
}

// FindByID returns a single help request.
func (r *HelpRequestRepository) FindByID(ctx context.Context, id string) (*models.HelpRequest, error) {
	return r.store.GetByID(ctx, id)
}

// Create inserts a help request; status always starts open.
func (r *HelpRequestRepository) Create(ctx context.Context, h *models.HelpRequest) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	if h.Status == "" {
		h.Status = models.StatusOpen
	}
	if h.CreatedAt.IsZero() {
		h.CreatedAt = time.Now().UTC()
	}
	return r.store.Insert(ctx, h)
}

// UpdateStatus transitions the triage status.
func (r *HelpRequestRepository) UpdateStatus(ctx context.Context, id, status string) error {
	return r.store.UpdateByID(ctx, id, map[string]interface{}{"status": status})
}
