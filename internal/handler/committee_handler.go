package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ehs-honor/honor-site-api/internal/dto"
	"github.com/ehs-honor/honor-site-api/internal/service"
	appErrors "github.com/ehs-honor/honor-site-api/pkg/errors"
	"github.com/ehs-honor/honor-site-api/pkg/response"
)

// CommitteeHandler serves the committee dashboard tabs and the privileged
// actions behind them. Every route here sits behind the committee/admin RBAC
// gate.
type CommitteeHandler struct {
	questions *service.QuestionService
	feedback  *service.FeedbackService
	help      *service.HelpService
	reports   *service.ReportService
	exports   *service.ExportService
}

// NewCommitteeHandler creates a new handler.
func NewCommitteeHandler(questions *service.QuestionService, feedback *service.FeedbackService, help *service.HelpService, reports *service.ReportService, exports *service.ExportService) *CommitteeHandler {
	return &CommitteeHandler{questions: questions, feedback: feedback, help: help, reports: reports, exports: exports}
}

// Questions godoc
// @Summary All question threads
// @Description Return every question with its responses for the dashboard
// @Tags Committee
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /committee/questions [get]
func (h *CommitteeHandler) Questions(c *gin.Context) {
	threads, err := h.questions.ListAllThreads(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, threads, nil)
}

// Feedback godoc
// @Summary All feedback
// @Description Return every feedback entry for the dashboard
// @Tags Committee
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /committee/feedback [get]
func (h *CommitteeHandler) Feedback(c *gin.Context) {
	entries, err := h.feedback.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// HelpRequests godoc
// @Summary All help requests
// @Description Return every help request for the dashboard
// @Tags Committee
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /committee/help-requests [get]
func (h *CommitteeHandler) HelpRequests(c *gin.Context) {
	requests, err := h.help.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, requests, nil)
}

// Reports godoc
// @Summary All reports
// @Description Return every report for the dashboard
// @Tags Committee
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /committee/reports [get]
func (h *CommitteeHandler) Reports(c *gin.Context) {
	reports, err := h.reports.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, nil)
}

// PublishQuestion godoc
// @Summary Publish a question
// @Description Attach a committee response and make the question visible to everyone
// @Tags Committee
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param payload body dto.PublishQuestionRequest true "Committee response"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /committee/questions/{id}/publish [post]
func (h *CommitteeHandler) PublishQuestion(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.PublishQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid publish payload"))
		return
	}

	thread, err := h.questions.Publish(c.Request.Context(), actorFromContext(c, claims), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, thread, nil)
}

// UnpublishQuestion godoc
// @Summary Unpublish a question
// @Description Return a question to owner-only visibility, leaving responses intact
// @Tags Committee
// @Produce json
// @Param id path string true "Question ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /committee/questions/{id}/unpublish [post]
func (h *CommitteeHandler) UnpublishQuestion(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.questions.Unpublish(c.Request.Context(), actorFromContext(c, claims), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// AddAnswer godoc
// @Summary Add a response
// @Description Attach an additional committee response to a question
// @Tags Committee
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param payload body dto.AddAnswerRequest true "Response payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /committee/questions/{id}/answers [post]
func (h *CommitteeHandler) AddAnswer(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.AddAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid response payload"))
		return
	}

	answer, err := h.questions.AddAnswer(c.Request.Context(), actorFromContext(c, claims), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, answer)
}

// DeleteAnswer godoc
// @Summary Delete a response
// @Description Remove a single committee response
// @Tags Committee
// @Produce json
// @Param id path string true "Answer ID"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /committee/answers/{id} [delete]
func (h *CommitteeHandler) DeleteAnswer(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.questions.DeleteAnswer(c.Request.Context(), actorFromContext(c, claims), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// UpdateHelpStatus godoc
// @Summary Update help request status
// @Description Transition a help request between open, in_progress, and closed
// @Tags Committee
// @Accept json
// @Produce json
// @Param id path string true "Help request ID"
// @Param payload body dto.UpdateStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /committee/help-requests/{id}/status [patch]
func (h *CommitteeHandler) UpdateHelpStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidStatus, ""))
		return
	}

	request, err := h.help.UpdateStatus(c.Request.Context(), actorFromContext(c, claims), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, request, nil)
}

// UpdateReportStatus godoc
// @Summary Update report status
// @Description Transition a report between open, in_progress, and closed
// @Tags Committee
// @Accept json
// @Produce json
// @Param id path string true "Report ID"
// @Param payload body dto.UpdateStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /committee/reports/{id}/status [patch]
func (h *CommitteeHandler) UpdateReportStatus(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrInvalidStatus, ""))
		return
	}

	report, err := h.reports.UpdateStatus(c.Request.Context(), actorFromContext(c, claims), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, report, nil)
}

// Export godoc
// @Summary Export a dashboard tab
// @Description Download a tab as CSV or PDF
// @Tags Committee
// @Produce octet-stream
// @Param tab path string true "Tab" Enums(questions, feedback, help, reports)
// @Param format query string false "Format" Enums(csv, pdf) default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /committee/export/{tab} [get]
func (h *CommitteeHandler) Export(c *gin.Context) {
	format := c.DefaultQuery("format", dto.FormatCSV)

	result, err := h.exports.Export(c.Request.Context(), c.Param("tab"), format)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
