package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehs-honor/honor-site-api/internal/dto"
	"github.com/ehs-honor/honor-site-api/internal/middleware"
	"github.com/ehs-honor/honor-site-api/internal/models"
	"github.com/ehs-honor/honor-site-api/internal/service"
)

type questionRepoStub struct {
	visible []models.Question
	created *models.Question
}

func (s *questionRepoStub) ListVisible(ctx context.Context, userID string) ([]models.Question, error) {
	return s.visible, nil
}

func (s *questionRepoStub) ListAll(ctx context.Context) ([]models.Question, error) {
	return s.visible, nil
}

func (s *questionRepoStub) FindByID(ctx context.Context, id string) (*models.Question, error) {
	return nil, sql.ErrNoRows
}

func (s *questionRepoStub) Create(ctx context.Context, q *models.Question) error {
	q.ID = "q1"
	s.created = q
	return nil
}

func (s *questionRepoStub) SetPublished(ctx context.Context, id string, published bool) error {
	return nil
}

type answerRepoStub struct{}

func (answerRepoStub) ListForQuestions(ctx context.Context, questionIDs []string) ([]models.Answer, error) {
	return nil, nil
}

func (answerRepoStub) FindByID(ctx context.Context, id string) (*models.Answer, error) {
	return nil, sql.ErrNoRows
}

func (answerRepoStub) Create(ctx context.Context, a *models.Answer) error { return nil }

func (answerRepoStub) Delete(ctx context.Context, id string) error { return nil }

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func studentClaims() *models.JWTClaims {
	return &models.JWTClaims{UserID: "u1", Role: models.RoleStudent, Email: "student@episcopalhighschool.org"}
}

func TestQuestionHandlerListRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := service.NewQuestionService(&questionRepoStub{}, answerRepoStub{}, nil, nil, nil)
	h := NewQuestionHandler(svc)

	c, w := newGinContext(http.MethodGet, "/questions", nil)
	h.List(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestQuestionHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &questionRepoStub{visible: []models.Question{{ID: "q1", UserID: "u1", Title: "t"}}}
	svc := service.NewQuestionService(repo, answerRepoStub{}, nil, nil, nil)
	h := NewQuestionHandler(svc)

	c, w := newGinContext(http.MethodGet, "/questions", nil)
	c.Set(middleware.ContextUserKey, studentClaims())

	h.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "q1")
}

func TestQuestionHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &questionRepoStub{}
	svc := service.NewQuestionService(repo, answerRepoStub{}, nil, nil, nil)
	h := NewQuestionHandler(svc)

	payload, _ := json.Marshal(dto.SubmitQuestionRequest{Title: "My question", Body: "How does this work?"})
	c, w := newGinContext(http.MethodPost, "/questions", payload)
	c.Set(middleware.ContextUserKey, studentClaims())

	h.Create(c)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, repo.created)
	assert.Equal(t, "u1", repo.created.UserID)
	assert.False(t, repo.created.Published)
}

func TestQuestionHandlerCreateRejectsEmptyBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := service.NewQuestionService(&questionRepoStub{}, answerRepoStub{}, nil, nil, nil)
	h := NewQuestionHandler(svc)

	payload, _ := json.Marshal(dto.SubmitQuestionRequest{Title: "only title"})
	c, w := newGinContext(http.MethodPost, "/questions", payload)
	c.Set(middleware.ContextUserKey, studentClaims())

	h.Create(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
