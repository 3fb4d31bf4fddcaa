package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehs-honor/honor-site-api/internal/dto"
	"github.com/ehs-honor/honor-site-api/internal/models"
	appErrors "github.com/ehs-honor/honor-site-api/pkg/errors"
)

type staticThreadLister struct {
	threads []dto.QuestionThread
}

func (s *staticThreadLister) ListAllThreads(ctx context.Context) ([]dto.QuestionThread, error) {
	return s.threads, nil
}

type staticFeedbackLister struct {
	entries []models.Feedback
}

func (s *staticFeedbackLister) ListAll(ctx context.Context) ([]models.Feedback, error) {
	return s.entries, nil
}

type staticHelpLister struct {
	requests []models.HelpRequest
}

func (s *staticHelpLister) ListAll(ctx context.Context) ([]models.HelpRequest, error) {
	return s.requests, nil
}

type staticReportLister struct {
	reports []models.Report
}

func (s *staticReportLister) ListAll(ctx context.Context) ([]models.Report, error) {
	return s.reports, nil
}

func newTestExportService(enabled bool) *ExportService {
	now := time.Date(2026, 3, 10, 9, 30, 0, 0, time.UTC)
	return NewExportService(
		&staticThreadLister{threads: []dto.QuestionThread{
			{Question: models.Question{ID: "q1", Title: "Test title", Body: "Body", Published: true, CreatedAt: now}, Answers: []models.Answer{{ID: "a1"}}},
		}},
		&staticFeedbackLister{entries: []models.Feedback{
			{ID: "f1", Text: "good process", CreatedAt: now},
		}},
		&staticHelpLister{requests: []models.HelpRequest{
			{ID: "h1", Topic: models.HelpTopicGeneral, Details: "question", Status: models.StatusOpen, CreatedAt: now},
		}},
		&staticReportLister{reports: []models.Report{
			{ID: "r1", Subject: "incident", Details: "details", Status: models.StatusOpen, CreatedAt: now},
		}},
		enabled,
		nil,
	)
}

func TestExportCSVHelpTab(t *testing.T) {
	svc := newTestExportService(true)

	result, err := svc.Export(context.Background(), dto.TabHelpRequests, dto.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.True(t, strings.HasPrefix(result.Filename, "help-"))

	body := string(result.Data)
	assert.Contains(t, body, "Submitted,Topic,Details,Status")
	assert.Contains(t, body, "general")
	assert.Contains(t, body, "open")
}

func TestExportPDFQuestionsTab(t *testing.T) {
	svc := newTestExportService(true)

	result, err := svc.Export(context.Background(), dto.TabQuestions, dto.FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasSuffix(result.Filename, ".pdf"))
	assert.NotEmpty(t, result.Data)
}

func TestExportRejectsUnknownTab(t *testing.T) {
	svc := newTestExportService(true)

	_, err := svc.Export(context.Background(), "users", dto.FormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportRejectsUnknownFormat(t *testing.T) {
	svc := newTestExportService(true)

	_, err := svc.Export(context.Background(), dto.TabReports, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportDisabled(t *testing.T) {
	svc := newTestExportService(false)

	_, err := svc.Export(context.Background(), dto.TabReports, dto.FormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
