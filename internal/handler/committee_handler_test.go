package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehs-honor/honor-site-api/internal/dto"
	"github.com/ehs-honor/honor-site-api/internal/middleware"
	"github.com/ehs-honor/honor-site-api/internal/models"
	"github.com/ehs-honor/honor-site-api/internal/service"
)

type publishRepoStub struct {
	question     *models.Question
	answers      []*models.Answer
	publishCalls int
}

func (s *publishRepoStub) ListVisible(ctx context.Context, userID string) ([]models.Question, error) {
	return nil, nil
}

func (s *publishRepoStub) ListAll(ctx context.Context) ([]models.Question, error) {
	if s.question == nil {
		return nil, nil
	}
	return []models.Question{*s.question}, nil
}

func (s *publishRepoStub) FindByID(ctx context.Context, id string) (*models.Question, error) {
	if s.question == nil || s.question.ID != id {
		return nil, sql.ErrNoRows
	}
	copied := *s.question
	return &copied, nil
}

func (s *publishRepoStub) Create(ctx context.Context, q *models.Question) error { return nil }

func (s *publishRepoStub) SetPublished(ctx context.Context, id string, published bool) error {
	s.publishCalls++
	s.question.Published = published
	return nil
}

type publishAnswerStub struct {
	created []*models.Answer
}

func (s *publishAnswerStub) ListForQuestions(ctx context.Context, questionIDs []string) ([]models.Answer, error) {
	return nil, nil
}

func (s *publishAnswerStub) FindByID(ctx context.Context, id string) (*models.Answer, error) {
	return nil, sql.ErrNoRows
}

func (s *publishAnswerStub) Create(ctx context.Context, a *models.Answer) error {
	a.ID = "a1"
	s.created = append(s.created, a)
	return nil
}

func (s *publishAnswerStub) Delete(ctx context.Context, id string) error { return nil }

func committeeClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "c1", Role: models.RoleCommittee, Email: "chair@episcopalhighschool.org"}
}

func newCommitteeHandler(questions *publishRepoStub, answers *publishAnswerStub) *CommitteeHandler {
	questionSvc := service.NewQuestionService(questions, answers, nil, nil, nil)
	return NewCommitteeHandler(questionSvc, nil, nil, nil, nil)
}

func TestCommitteePublishQuestion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	questions := &publishRepoStub{question: &models.Question{ID: "q1", UserID: "u1", Title: "t"}}
	answers := &publishAnswerStub{}
	h := newCommitteeHandler(questions, answers)

	payload, _ := json.Marshal(dto.PublishQuestionRequest{Answer: "the committee's take"})
	c, w := newGinContext(http.MethodPost, "/committee/questions/q1/publish", payload)
	c.Params = gin.Params{{Key: "id", Value: "q1"}}
	c.Set(middleware.ContextUserKey, committeeClaims())

	h.PublishQuestion(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, questions.question.Published)
	require.Len(t, answers.created, 1)
	assert.Equal(t, "c1", answers.created[0].UserID)
}

func TestCommitteePublishRequiresAnswer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	questions := &publishRepoStub{question: &models.Question{ID: "q1"}}
	answers := &publishAnswerStub{}
	h := newCommitteeHandler(questions, answers)

	payload, _ := json.Marshal(map[string]string{"answer": "  "})
	c, w := newGinContext(http.MethodPost, "/committee/questions/q1/publish", payload)
	c.Params = gin.Params{{Key: "id", Value: "q1"}}
	c.Set(middleware.ContextUserKey, committeeClaims())

	h.PublishQuestion(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Zero(t, questions.publishCalls)
	assert.Empty(t, answers.created)
}

func TestCommitteeUnpublishQuestion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	questions := &publishRepoStub{question: &models.Question{ID: "q1", Published: true}}
	h := newCommitteeHandler(questions, &publishAnswerStub{})

	c, w := newGinContext(http.MethodPost, "/committee/questions/q1/unpublish", nil)
	c.Params = gin.Params{{Key: "id", Value: "q1"}}
	c.Set(middleware.ContextUserKey, committeeClaims())

	h.UnpublishQuestion(c)
	c.Writer.WriteHeaderNow()
	require.Equal(t, http.StatusNoContent, w.Code)
	assert.False(t, questions.question.Published)
}

func TestCommitteePublishUnknownQuestion(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newCommitteeHandler(&publishRepoStub{}, &publishAnswerStub{})

	payload, _ := json.Marshal(dto.PublishQuestionRequest{Answer: "response"})
	c, w := newGinContext(http.MethodPost, "/committee/questions/missing/publish", payload)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	c.Set(middleware.ContextUserKey, committeeClaims())

	h.PublishQuestion(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}
