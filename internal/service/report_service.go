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

type reportRepository interface {
	ListOwned(ctx context.Context, userID string) ([]models.Report, error)
	ListAll(ctx context.Context) ([]models.Report, error)
	FindByID(ctx context.Context, id string) (*models.Report, error)
	Create(ctx context.Context, r *models.Report) error
	UpdateStatus(ctx context.Context, id, status string) error
}

// ReportService implements the owner-scoped report view and the committee
// triage actions on it.
type ReportService struct {
	repo      reportRepository
	audit     auditRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReportService constructs a ReportService.
func NewReportService(repo reportRepository, audit auditRecorder, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{repo: repo, audit: audit, validator: validate, logger: logger}
}

// ListOwned returns the caller's reports, newest first.
func (s *ReportService) ListOwned(ctx context.Context, userID string) ([]models.Report, error) {
	reports, err := s.repo.ListOwned(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reports")
	}
	return reports, nil
}

// ListAll returns every report for the committee dashboard.
func (s *ReportService) ListAll(ctx context.Context) ([]models.Report, error) {
	reports, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reports")
	}
	return reports, nil
}

// Submit creates a report owned by the caller. New reports open in the open
// status regardless of client input.
func (s *ReportService) Submit(ctx context.Context, userID string, req dto.SubmitReportRequest) (*models.Report, error) {
	req.Subject = strings.TrimSpace(req.Subject)
	req.Details = strings.TrimSpace(req.Details)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "subject and details are required")
	}

	report := &models.Report{
		UserID:  userID,
		Subject: req.Subject,
		Details: req.Details,
		Status:  models.StatusOpen,
	}
	if err := s.repo.Create(ctx, report); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report")
	}
	return report, nil
}

// UpdateStatus transitions a report between triage states. Any valid state may
// follow any other.
func (s *ReportService) UpdateStatus(ctx context.Context, actor Actor, id string, req dto.UpdateStatusRequest) (*models.Report, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidStatus, "")
	}

	report, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load report")
	}

	previous := report.Status
	if err := s.repo.UpdateStatus(ctx, report.ID, req.Status); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update status")
	}
	report.Status = req.Status

	s.recordStatusAudit(actor, report.ID, previous, req.Status)
	return report, nil
}

func (s *ReportService) recordStatusAudit(actor Actor, resourceID, from, to string) {
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
		Resource:   "reports",
		ResourceID: &rid,
		OldValues:  oldValues,
		NewValues:  newValues,
		IPAddress:  actor.IP,
		UserAgent:  actor.UserAgent,
	})
}
