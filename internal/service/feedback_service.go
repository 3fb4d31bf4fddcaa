package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ehs-honor/honor-site-api/internal/dto"
	"github.com/ehs-honor/honor-site-api/internal/models"
	appErrors "github.com/ehs-honor/honor-site-api/pkg/errors"
)

type feedbackRepository interface {
	ListOwned(ctx context.Context, userID string) ([]models.Feedback, error)
	ListAll(ctx context.Context) ([]models.Feedback, error)
	Create(ctx context.Context, f *models.Feedback) error
}

// FeedbackService implements the owner-scoped feedback record view.
type FeedbackService struct {
	repo      feedbackRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewFeedbackService constructs a FeedbackService.
func NewFeedbackService(repo feedbackRepository, validate *validator.Validate, logger *zap.Logger) *FeedbackService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FeedbackService{repo: repo, validator: validate, logger: logger}
}

// ListOwned returns the caller's feedback entries, newest first. Feedback has
// no published state, so nobody else's entries are ever visible here.
func (s *FeedbackService) ListOwned(ctx context.Context, userID string) ([]models.Feedback, error) {
	entries, err := s.repo.ListOwned(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list feedback")
	}
	return entries, nil
}

// ListAll returns every feedback entry for the committee dashboard.
func (s *FeedbackService) ListAll(ctx context.Context) ([]models.Feedback, error) {
	entries, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list feedback")
	}
	return entries, nil
}

// Submit creates a feedback entry owned by the caller.
func (s *FeedbackService) Submit(ctx context.Context, userID string, req dto.SubmitFeedbackRequest) (*models.Feedback, error) {
	req.Text = strings.TrimSpace(req.Text)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "feedback text is required")
	}

	entry := &models.Feedback{
		UserID: userID,
		Text:   req.Text,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create feedback")
	}
	return entry, nil
}
