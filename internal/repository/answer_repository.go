package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ehs-honor/honor-site-api/internal/models"
)

var answerColumns = []string{"id", "question_id", "user_id", "body", "created_at"}

// AnswerRepository provides access to committee responses.
type AnswerRepository struct {
	store *RecordStore[models.Answer]
}

// NewAnswerRepository creates an answer repository.
func NewAnswerRepository(db *sqlx.DB) *AnswerRepository {
	return &AnswerRepository{store: NewRecordStore[models.Answer](db, "answers", answerColumns)}
}

// ListForQuestions returns answers for the given questions, oldest first, so
// threads read top-down.
func (r *AnswerRepository) ListForQuestions(ctx context.Context, questionIDs []string) ([]models.Answer, error) {
	if len(questionIDs) == 0 {
		return []models.Answer{}, nil
	}
	return r.store.Select(ctx, ListSpec{
		Filters:   []Filter{In("question_id", questionIDs)},
		Ascending: true,
	})
}

// ListAll returns every answer, oldest first.
func (r *AnswerRepository) ListAll(ctx context.Context) ([]models.Answer, error) {
	return r.store.Select(ctx, ListSpec{Ascending: true})
}

// FindByID returns a single answer.
func (r *AnswerRepository) FindByID(ctx context.Context, id string) (*models.Answer, error) {
	return r.store.GetByID(ctx, id)
}

// Create inserts a committee response.
func (r *AnswerRepository) Create(ctx context.Context, a *models.Answer) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now().UTC()
	}
	return r.store.Insert(ctx, a)
}

// Delete removes a single answer. Answers have no children, so no cascade.
func (r *AnswerRepository) Delete(ctx context.Context, id string) error {
	return r.store.DeleteByID(ctx, id)
}
