package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ehs-honor/honor-site-api/internal/models"
)

var questionColumns = []string{"id", "user_id", "title", "body", "published", "created_at"}

// QuestionRepository provides scoped access to the questions table.
type QuestionRepository struct {
	store *RecordStore[models.Question]
}

// NewQuestionRepository creates a question repository.
func NewQuestionRepository(db *sqlx.DB) *QuestionRepository {
	return &QuestionRepository{store: NewRecordStore[models.Question](db, "questions", questionColumns)}
}

// ListVisible returns the caller's own questions plus published ones, newest
// first. This is the authoritative ownership-or-visibility scope.
func (r *QuestionRepository) ListVisible(ctx context.Context, userID string) ([]models.Question, error) {
	return r.store.Select(ctx, ListSpec{
		Filters: []Filter{AnyOf(
			Predicate{Column: "user_id", Value: userID},
			Predicate{Column: "published", Value: true},
		)},
	})
}

// ListAll returns every question, newest first. Privileged callers only.
func (r *QuestionRepository) ListAll(ctx context.Context) ([]models.Question, error) {
	return r.store.Select(ctx, ListSpec{})
}

// FindByID returns a single question.
func (r *QuestionRepository) FindByID(ctx context.Context, id string) (*models.Question, error) {
	return r.store.GetByID(ctx, id)
}

// Create inserts a new private question owned by the given user.
func (r *QuestionRepository) Create(ctx context.Context, q *models.Question) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now().UTC()
	}
	return r.store.Insert(ctx, q)
}

// SetPublished flips the visibility flag. Answers are never touched here.
func (r *QuestionRepository) SetPublished(ctx context.Context, id string, published bool) error {
	return r.store.UpdateByID(ctx, id, map[string]interface{}{"published": published})
}
