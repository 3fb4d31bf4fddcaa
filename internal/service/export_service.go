package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ehs-honor/honor-site-api/internal/dto"
	"github.com/ehs-honor/honor-site-api/internal/models"
	appErrors "github.com/ehs-honor/honor-site-api/pkg/errors"
	"github.com/ehs-honor/honor-site-api/pkg/export"
)

type questionThreadLister interface {
	ListAllThreads(ctx context.Context) ([]dto.QuestionThread, error)
}

type feedbackLister interface {
	ListAll(ctx context.Context) ([]models.Feedback, error)
}

type helpRequestLister interface {
	ListAll(ctx context.Context) ([]models.HelpRequest, error)
}

type reportLister interface {
	ListAll(ctx context.Context) ([]models.Report, error)
}

// ExportResult carries a rendered export ready to stream to the client.
type ExportResult struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportService renders committee dashboard tabs as downloadable CSV or PDF
// documents.
type ExportService struct {
	questions questionThreadLister
	feedback  feedbackLister
	help      helpRequestLister
	reports   reportLister
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	enabled   bool
	logger    *zap.Logger
}

// NewExportService constructs an ExportService.
func NewExportService(questions questionThreadLister, feedback feedbackLister, help helpRequestLister, reports reportLister, enabled bool, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		questions: questions,
		feedback:  feedback,
		help:      help,
		reports:   reports,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		enabled:   enabled,
		logger:    logger,
	}
}

// Export renders the named dashboard tab in the requested format.
func (s *ExportService) Export(ctx context.Context, tab, format string) (*ExportResult, error) {
	if !s.enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "exports are disabled")
	}
	if !dto.ValidTab(tab) {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown tab %q", tab))
	}
	if format != dto.FormatCSV && format != dto.FormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown format %q", format))
	}

	dataset, title, err := s.buildDataset(ctx, tab)
	if err != nil {
		return nil, err
	}

	stamp := time.Now().UTC().Format("20060102-150405")
	switch format {
	case dto.FormatCSV:
		data, err := s.csv.Render(*dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv export")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("%s-%s.csv", tab, stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	default:
		data, err := s.pdf.Render(*dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf export")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("%s-%s.pdf", tab, stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	}
}

func (s *ExportService) buildDataset(ctx context.Context, tab string) (*export.Dataset, string, error) {
	switch tab {
	case dto.TabQuestions:
		threads, err := s.questions.ListAllThreads(ctx)
		if err != nil {
			return nil, "", err
		}
		ds := &export.Dataset{Headers: []string{"Submitted", "Title", "Question", "Published", "Responses"}}
		for _, t := range threads {
			ds.Rows = append(ds.Rows, map[string]string{
				"Submitted": formatExportTime(t.Question.CreatedAt),
				"Title":     t.Question.Title,
				"Question":  t.Question.Body,
				"Published": strconv.FormatBool(t.Question.Published),
				"Responses": strconv.Itoa(len(t.Answers)),
			})
		}
		return ds, "Questions", nil
	case dto.TabFeedback:
		entries, err := s.feedback.ListAll(ctx)
		if err != nil {
			return nil, "", err
		}
		ds := &export.Dataset{Headers: []string{"Submitted", "Feedback"}}
		for _, f := range entries {
			ds.Rows = append(ds.Rows, map[string]string{
				"Submitted": formatExportTime(f.CreatedAt),
				"Feedback":  f.Text,
			})
		}
		return ds, "Feedback", nil
	case dto.TabHelpRequests:
		requests, err := s.help.ListAll(ctx)
		if err != nil {
			return nil, "", err
		}
		ds := &export.Dataset{Headers: []string{"Submitted", "Topic", "Details", "Status"}}
		for _, h := range requests {
			ds.Rows = append(ds.Rows, map[string]string{
				"Submitted": formatExportTime(h.CreatedAt),
				"Topic":     h.Topic,
				"Details":   h.Details,
				"Status":    h.Status,
			})
		}
		return ds, "Help Requests", nil
	default:
		reports, err := s.reports.ListAll(ctx)
		if err != nil {
			return nil, "", err
		}
		ds := &export.Dataset{Headers: []string{"Submitted", "Subject", "Details", "Status"}}
		for _, r := range reports {
			ds.Rows = append(ds.Rows, map[string]string{
				"Submitted": formatExportTime(r.CreatedAt),
				"Subject":   r.Subject,
				"Details":   r.Details,
				"Status":    r.Status,
			})
		}
		return ds, "Reports", nil
	}
}

func formatExportTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}
