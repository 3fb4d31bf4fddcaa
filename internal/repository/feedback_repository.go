package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ehs-honor/honor-site-api/internal/models"
)

var feedbackColumns = []string{"id", "user_id", "text", "created_at"}

// FeedbackRepository provides scoped access to feedback entries.
type FeedbackRepository struct {
	store *RecordStore[models.Feedback]
}

// NewFeedbackRepository creates a feedback repository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{store: NewRecordStore[models.Feedback](db, "feedback", feedbackColumns)}
}

// ListOwned returns the caller's own feedback, newest first. Feedback is never
// visible to other non-privileged users.
func (r *FeedbackRepository) ListOwned(ctx context.Context, userID string) ([]models.Feedback, error) {
	return r.store.Select(ctx, ListSpec{Filters: []Filter{Eq("user_id", userID)}})
}

// ListAll returns every feedback entry, newest first. Privileged callers only.
func (r *FeedbackRepository) ListAll(ctx context.Context) ([]models.Feedback, error) {
	return r.store.Select(ctx, ListSpec{})
}

// Create inserts a feedback entry owned by the given user.
func (r *FeedbackRepository) Create(ctx context.Context, f *models.Feedback) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now().UTC()
	}
	return r.store.Insert(ctx, f)
}
