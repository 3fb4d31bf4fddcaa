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

type helpRequestRepository interface {
	ListOwned(ctx context.Context, userID string) ([]models.HelpRequest, error)
	ListAll(ctx context.Context) ([]models.HelpRequest, error)
	FindByID(ctx context.Context, id string) (*models.HelpRequest, error)
	Create(ctx context.Context, h *models.HelpRequest) error
	UpdateStatus(ctx context.Context, id, status string) error
}

// HelpService implements the owner-scoped help request view and the committee
// triage actions on it.
type HelpService struct {
	repo      helpRequestRepository
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewHelpService constructs a HelpService.
func NewHelpService(repo helpRequestRepository, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *HelpService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HelpService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// ListOwned returns the caller's help requests, newest first.
func (s *HelpService) ListOwned(ctx context.Context, userID string) ([]models.HelpRequest, error) {
	requests, err := s.repo.ListOwned(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list help requests")
	}
	return requests, nil
}

// ListAll returns every help request for the committee dashboard.
func (s *HelpService) ListAll(ctx context.Context) ([]models.HelpRequest, error) {
	requests, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list help requests")
	}
	return requests, nil
}

// Submit creates a help request owned by the caller. New requests open in the
// open status regardless of client input.
func (s *HelpService) Submit(ctx context.Context, userID string, req dto.SubmitHelpRequest) (*models.HelpRequest, error) {
	req.Topic = strings.TrimSpace(req.Topic)
	req.Details = strings.TrimSpace(req.Details)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "topic and details are required")
	}

	request := &models.HelpRequest{
		UserID:  userID,
		Topic:   req.Topic,
		Details: req.Details,
		Status:  models.StatusOpen,
	}
	if err := s.repo.Create(ctx, request); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create help request")
	}
	return request, nil
}

// UpdateStatus transitions a help request between triage states. Any valid
// state may follow any other.
func (s *HelpService) UpdateStatus(ctx context.Context, actor Actor, id string, req dto.UpdateStatusRequest) (*models.HelpRequest, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus, "")
	}

	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "help request not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load help request")
	}

	previous := request.Status
	if err := s.repo.UpdateStatus(ctx, request.ID, req.Status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update status")
	}
	request.Status = req.Status

	s.recordStatusAudit(actor, "help_requests", request.ID, previous, req.Status)
	return request, nil
}

func (s *HelpService) recordStatusAudit(actor Actor, resource, resourceID, from, to string) {
	if s.audit == nil {
		return
	}
	oldValues, _ := json.Marshal(map[string]string{"status": from})
	newValues, _ := json.Marshal(map[string]string{"status": to})
	uid := actor.ID
	rid := resourceID
	s.audit.Record(&models.AuditLog{
		UserID:     &uid,
		Action:     models.AuditActionStatusChange,
		Resource:   resource,
		ResourceID: &rid,
		OldValues:  oldValues,
		NewValues:  newValues,
		IPAddress:  actor.IP,
		UserAgent:  actor.UserAgent,
	})
}
