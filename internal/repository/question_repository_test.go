package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehs-honor/honor-site-api/internal/models"
)

func TestQuestionListVisibleScopesToOwnerOrPublished(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewQuestionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "user_id", "title", "body", "published", "created_at"}).
		AddRow("q2", "u1", "mine", "private draft", false, now).
		AddRow("q1", "u2", "theirs", "published thread", true, now.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, title, body, published, created_at FROM questions WHERE (user_id = $1 OR published = $2) ORDER BY created_at DESC")).
		WithArgs("u1", true).
		WillReturnRows(rows)

	questions, err := repo.ListVisible(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, "q2", questions[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionCreateFillsIDAndTimestamp(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewQuestionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO questions (id, user_id, title, body, published, created_at) VALUES")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	q := &models.Question{UserID: "u1", Title: "t", Body: "b"}
	require.NoError(t, repo.Create(context.Background(), q))
	assert.NotEmpty(t, q.ID)
	assert.False(t, q.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestQuestionSetPublished(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewQuestionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE questions SET published = $2 WHERE id = $1")).
		WithArgs("q1", true).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetPublished(context.Background(), "q1", true))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAnswerListForQuestionsEmptyInput(t *testing.T) {
	db, _, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnswerRepository(db)

	answers, err := repo.ListForQuestions(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, answers)
}

func TestAnswerListForQuestionsOldestFirst(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewAnswerRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "question_id", "user_id", "body", "created_at"}).
		AddRow("a1", "q1", "c1", "first response", now.Add(-time.Hour)).
		AddRow("a2", "q1", "c1", "second response", now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, question_id, user_id, body, created_at FROM answers WHERE (question_id = $1 OR question_id = $2) ORDER BY created_at ASC")).
		WithArgs("q1", "q2").
		WillReturnRows(rows)

	answers, err := repo.ListForQuestions(context.Background(), []string{"q1", "q2"})
	require.NoError(t, err)
	require.Len(t, answers, 2)
	assert.Equal(t, "a1", answers[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHelpRequestCreateDefaultsStatusOpen(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewHelpRequestRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO help_requests (id, user_id, topic, details, status, created_at) VALUES")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	h := &models.HelpRequest{UserID: "u1", Topic: models.HelpTopicGeneral, Details: "need help"}
	require.NoError(t, repo.Create(context.Background(), h))
	assert.Equal(t, models.StatusOpen, h.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
