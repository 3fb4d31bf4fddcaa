package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ehs-honor/honor-site-api/internal/dto"
	"github.com/ehs-honor/honor-site-api/internal/models"
	appErrors "github.com/ehs-honor/honor-site-api/pkg/errors"
)

// Actor identifies the caller of a privileged operation for the audit trail.
type Actor struct {
	ID        string
	IP        string
	UserAgent string
}

type questionRepository interface {
	ListVisible(ctx context.Context, userID string) ([]models.Question, error)
	ListAll(ctx context.Context) ([]models.Question, error)
	FindByID(ctx context.Context, id string) (*models.Question, error)
	Create(ctx context.Context, q *models.Question) error
	SetPublished(ctx context.Context, id string, published bool) error
}

type answerRepository interface {
	ListForQuestions(ctx context.Context, questionIDs []string) ([]models.Answer, error)
	FindByID(ctx context.Context, id string) (*models.Answer, error)
	Create(ctx context.Context, a *models.Answer) error
	Delete(ctx context.Context, id string) error
}

// QuestionService implements the Q&A record view and the committee actions on
// questions and answers.
type QuestionService struct {
	questions questionRepository
	answers   answerRepository
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewQuestionService constructs a QuestionService.
func NewQuestionService(questions questionRepository, answers answerRepository, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *QuestionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QuestionService{questions: questions, answers: answers, audit: audit, validator: validate, logger: logger}
}

// ListVisible returns the caller's own questions plus published ones as
// threads, newest question first, answers oldest first.
func (s *QuestionService) ListVisible(ctx context.Context, userID string) ([]dto.QuestionThread, error) {
	questions, err := s.questions.ListVisible(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list questions")
	}
	return s.buildThreads(ctx, questions)
}

// ListAllThreads returns every question as a thread. Privileged callers only;
// RBAC is enforced by the route.
func (s *QuestionService) ListAllThreads(ctx context.Context) ([]dto.QuestionThread, error) {
	questions, err := s.questions.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list questions")
	}
	return s.buildThreads(ctx, questions)
}

// Submit creates a new private question owned by the caller.
func (s *QuestionService) Submit(ctx context.Context, userID string, req dto.SubmitQuestionRequest) (*models.Question, error) {
	req.Title = strings.TrimSpace(req.Title)
	req.Body = strings.TrimSpace(req.Body)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "title and body are required")
	}

	question := &models.Question{
		UserID: userID,
		Title:  req.Title,
		Body:   req.Body,
	}
	if err := s.questions.Create(ctx, question); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create question")
	}
	return question, nil
}

// Publish makes a question visible to everyone. A non-empty committee response
// must accompany publication: the answer insert happens first, then the
// visibility flip. If the flip fails the answer stays attached and the error
// is surfaced.
func (s *QuestionService) Publish(ctx context.Context, actor Actor, questionID string, req dto.PublishQuestionRequest) (*dto.QuestionThread, error) {
	req.Answer = strings.TrimSpace(req.Answer)
	if req.Answer == "" {
		return nil, appErrors.Clone(appErrors.ErrAnswerRequired, "please write a response before publishing")
	}

	question, err := s.findQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	answer := &models.Answer{
		QuestionID: question.ID,
		UserID:     actor.ID,
		Body:       req.Answer,
	}
	if err := s.answers.Create(ctx, answer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to attach response")
	}

	if err := s.questions.SetPublished(ctx, question.ID, true); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "response saved but publishing failed")
	}
	question.Published = true

	s.recordAudit(actor, models.AuditActionPublish, "questions", question.ID, map[string]interface{}{"answer_id": answer.ID})

	return &dto.QuestionThread{Question: *question, Answers: []models.Answer{*answer}}, nil
}

// Unpublish returns a question to owner-only visibility. Answers are left
// intact.
func (s *QuestionService) Unpublish(ctx context.Context, actor Actor, questionID string) error {
	question, err := s.findQuestion(ctx, questionID)
	if err != nil {
		return err
	}

	if err := s.questions.SetPublished(ctx, question.ID, false); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unpublish question")
	}

	s.recordAudit(actor, models.AuditActionUnpublish, "questions", question.ID, nil)
	return nil
}

// AddAnswer attaches an additional committee response without changing
// visibility.
func (s *QuestionService) AddAnswer(ctx context.Context, actor Actor, questionID string, req dto.AddAnswerRequest) (*models.Answer, error) {
	req.Body = strings.TrimSpace(req.Body)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "response body is required")
	}

	question, err := s.findQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}

	answer := &models.Answer{
		QuestionID: question.ID,
		UserID:     actor.ID,
		Body:       req.Body,
	}
	if err := s.answers.Create(ctx, answer); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to attach response")
	}

	s.recordAudit(actor, models.AuditActionAnswerCreate, "answers", answer.ID, nil)
	return answer, nil
}

// DeleteAnswer removes a single committee response. Answers have no children,
// so no cascade is needed.
func (s *QuestionService) DeleteAnswer(ctx context.Context, actor Actor, answerID string) error {
	answer, err := s.answers.FindByID(ctx, answerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "response not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load response")
	}

	if err := s.answers.Delete(ctx, answer.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete response")
	}

	s.recordAudit(actor, models.AuditActionAnswerDelete, "answers", answer.ID, map[string]interface{}{"question_id": answer.QuestionID})
	return nil
}

func (s *QuestionService) findQuestion(ctx context.Context, id string) (*models.Question, error) {
	question, err := s.questions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load question")
	}
	return question, nil
}

func (s *QuestionService) buildThreads(ctx context.Context, questions []models.Question) ([]dto.QuestionThread, error) {
	ids := make([]string, 0, len(questions))
	for _, q := range questions {
		ids = append(ids, q.ID)
	}

	answers, err := s.answers.ListForQuestions(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list responses")
	}

	byQuestion := make(map[string][]models.Answer, len(questions))
	for _, a := range answers {
		byQuestion[a.QuestionID] = append(byQuestion[a.QuestionID], a)
	}

	threads := make([]dto.QuestionThread, 0, len(questions))
	for _, q := range questions {
		answerList := byQuestion[q.ID]
		if answerList == nil {
			answerList = []models.Answer{}
		}
		threads = append(threads, dto.QuestionThread{Question: q, Answers: answerList})
	}
	return threads, nil
}

func (s *QuestionService) recordAudit(actor Actor, action, resource, resourceID string, values map[string]interface{}) {
	if s.audit == nil {
		return
	}
	var payload []byte
	if values != nil {
		payload, _ = json.Marshal(values)
	}
	uid := actor.ID
	rid := resourceID
	s.audit.Record(&models.AuditLog{
		UserID:     &uid,
		Action:     action,
		Resource:   resource,
		ResourceID: &rid,
		NewValues:  payload,
		IPAddress:  actor.IP,
		UserAgent:  actor.UserAgent,
	})
}
