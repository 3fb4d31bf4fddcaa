package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehs-honor/honor-site-api/internal/dto"
	"github.com/ehs-honor/honor-site-api/internal/models"
	appErrors "github.com/ehs-honor/honor-site-api/pkg/errors"
)

type mockQuestionRepo struct {
	questions    map[string]*models.Question
	visible      []models.Question
	all          []models.Question
	createErr    error
	publishErr   error
	publishCalls []string
}

func (m *mockQuestionRepo) ListVisible(ctx context.Context, userID string) ([]models.Question, error) {
	return m.visible, nil
}

func (m *mockQuestionRepo) ListAll(ctx context.Context) ([]models.Question, error) {
	return m.all, nil
}

func (m *mockQuestionRepo) FindByID(ctx context.Context, id string) (*models.Question, error) {
	q, ok := m.questions[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *q
	return &copied, nil
}

func (m *mockQuestionRepo) Create(ctx context.Context, q *models.Question) error {
	if m.createErr != nil {
		return m.createErr
	}
	if q.ID == "" {
		q.ID = "q-generated"
	}
	if m.questions == nil {
		m.questions = make(map[string]*models.Question)
	}
	m.questions[q.ID] = q
	return nil
}

func (m *mockQuestionRepo) SetPublished(ctx context.Context, id string, published bool) error {
	m.publishCalls = append(m.publishCalls, id)
	if m.publishErr != nil {
		return m.publishErr
	}
	if q, ok := m.questions[id]; ok {
		q.Published = published
	}
	return nil
}

type mockAnswerRepo struct {
	answers   map[string]*models.Answer
	byQ       []models.Answer
	created   []*models.Answer
	createErr error
	deleted   []string
}

func (m *mockAnswerRepo) ListForQuestions(ctx context.Context, questionIDs []string) ([]models.Answer, error) {
	return m.byQ, nil
}

func (m *mockAnswerRepo) FindByID(ctx context.Context, id string) (*models.Answer, error) {
	a, ok := m.answers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return a, nil
}

func (m *mockAnswerRepo) Create(ctx context.Context, a *models.Answer) error {
	if m.createErr != nil {
		return m.createErr
	}
	if a.ID == "" {
		a.ID = "a-generated"
	}
	m.created = append(m.created, a)
	return nil
}

func (m *mockAnswerRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func testActor() Actor {
	return Actor{ID: "committee-1", IP: "127.0.0.1", UserAgent: "test"}
}

func TestPublishRejectsEmptyAnswer(t *testing.T) {
	questions := &mockQuestionRepo{questions: map[string]*models.Question{
		"q1": {ID: "q1", UserID: "u1", Title: "t", Body: "b"},
	}}
	answers := &mockAnswerRepo{}
	svc := NewQuestionService(questions, answers, nil, nil, nil)

	_, err := svc.Publish(context.Background(), testActor(), "q1", dto.PublishQuestionRequest{Answer: "   "})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAnswerRequired.Code, appErrors.FromError(err).Code)

	// Nothing may be written when the response is missing.
	assert.Empty(t, answers.created)
	assert.Empty(t, questions.publishCalls)
}

func TestPublishWritesAnswerThenFlag(t *testing.T) {
	questions := &mockQuestionRepo{questions: map[string]*models.Question{
		"q1": {ID: "q1", UserID: "u1", Title: "t", Body: "b"},
	}}
	answers := &mockAnswerRepo{}
	audit := &mockAudit{}
	svc := NewQuestionService(questions, answers, audit, nil, nil)

	thread, err := svc.Publish(context.Background(), testActor(), "q1", dto.PublishQuestionRequest{Answer: "official response"})
	require.NoError(t, err)

	require.Len(t, answers.created, 1)
	assert.Equal(t, "q1", answers.created[0].QuestionID)
	assert.Equal(t, "committee-1", answers.created[0].UserID)
	assert.Equal(t, []string{"q1"}, questions.publishCalls)
	assert.True(t, thread.Question.Published)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionPublish, audit.entries[0].Action)
}

func TestPublishFlagFailureKeepsAnswer(t *testing.T) {
	questions := &mockQuestionRepo{
		questions:  map[string]*models.Question{"q1": {ID: "q1"}},
		publishErr: errors.New("db write failed"),
	}
	answers := &mockAnswerRepo{}
	svc := NewQuestionService(questions, answers, nil, nil, nil)

	_, err := svc.Publish(context.Background(), testActor(), "q1", dto.PublishQuestionRequest{Answer: "response"})
	require.Error(t, err)

	// The answer insert happened before the flip and is not rolled back.
	assert.Len(t, answers.created, 1)
}

func TestPublishUnknownQuestion(t *testing.T) {
	svc := NewQuestionService(&mockQuestionRepo{}, &mockAnswerRepo{}, nil, nil, nil)

	_, err := svc.Publish(context.Background(), testActor(), "missing", dto.PublishQuestionRequest{Answer: "response"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestUnpublishLeavesAnswersIntact(t *testing.T) {
	questions := &mockQuestionRepo{questions: map[string]*models.Question{
		"q1": {ID: "q1", Published: true},
	}}
	answers := &mockAnswerRepo{answers: map[string]*models.Answer{
		"a1": {ID: "a1", QuestionID: "q1"},
	}}
	svc := NewQuestionService(questions, answers, nil, nil, nil)

	require.NoError(t, svc.Unpublish(context.Background(), testActor(), "q1"))
	assert.False(t, questions.questions["q1"].Published)
	assert.Empty(t, answers.deleted)
}

func TestListVisibleAssemblesThreads(t *testing.T) {
	now := time.Now()
	questions := &mockQuestionRepo{visible: []models.Question{
		{ID: "q2", UserID: "u1", Title: "mine", CreatedAt: now},
		{ID: "q1", UserID: "u2", Title: "published", Published: true, CreatedAt: now.Add(-time.Hour)},
	}}
	answers := &mockAnswerRepo{byQ: []models.Answer{
		{ID: "a1", QuestionID: "q1", Body: "first"},
		{ID: "a2", QuestionID: "q1", Body: "second"},
	}}
	svc := NewQuestionService(questions, answers, nil, nil, nil)

	threads, err := svc.ListVisible(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, threads, 2)
	assert.Empty(t, threads[0].Answers)
	require.Len(t, threads[1].Answers, 2)
	assert.Equal(t, "a1", threads[1].Answers[0].ID)
}

func TestSubmitTrimsAndValidates(t *testing.T) {
	questions := &mockQuestionRepo{}
	svc := NewQuestionService(questions, &mockAnswerRepo{}, nil, nil, nil)

	_, err := svc.Submit(context.Background(), "u1", dto.SubmitQuestionRequest{Title: "  ", Body: "body"})
	require.Error(t, err)

	q, err := svc.Submit(context.Background(), "u1", dto.SubmitQuestionRequest{Title: " title ", Body: " body "})
	require.NoError(t, err)
	assert.Equal(t, "title", q.Title)
	assert.Equal(t, "u1", q.UserID)
}

func TestDeleteAnswerAudits(t *testing.T) {
	answers := &mockAnswerRepo{answers: map[string]*models.Answer{
		"a1": {ID: "a1", QuestionID: "q1"},
	}}
	audit := &mockAudit{}
	svc := NewQuestionService(&mockQuestionRepo{}, answers, audit, nil, nil)

	require.NoError(t, svc.DeleteAnswer(context.Background(), testActor(), "a1"))
	assert.Equal(t, []string{"a1"}, answers.deleted)
	require.Len(t, audit.entries, 1)
	assert.Equal(t, models.AuditActionAnswerDelete, audit.entries[0].Action)
}

func TestDeleteAnswerUnknown(t *testing.T) {
	svc := NewQuestionService(&mockQuestionRepo{}, &mockAnswerRepo{}, nil, nil, nil)

	err := svc.DeleteAnswer(context.Background(), testActor(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAddAnswerDoesNotPublish(t *testing.T) {
	questions := &mockQuestionRepo{questions: map[string]*models.Question{
		"q1": {ID: "q1"},
	}}
	answers := &mockAnswerRepo{}
	svc := NewQuestionService(questions, answers, nil, nil, nil)

	answer, err := svc.AddAnswer(context.Background(), testActor(), "q1", dto.AddAnswerRequest{Body: "extra context"})
	require.NoError(t, err)
	assert.Equal(t, "q1", answer.QuestionID)
	assert.Empty(t, questions.publishCalls)
}
