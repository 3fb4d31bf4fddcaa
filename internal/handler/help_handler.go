package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ehs-honor/honor-site-api/internal/dto"
	"github.com/ehs-honor/honor-site-api/internal/service"
	appErrors "github.com/ehs-honor/honor-site-api/pkg/errors"
	"github.com/ehs-honor/honor-site-api/pkg/response"
)

// HelpHandler serves the owner-scoped help request record view.
type HelpHandler struct {
	service *service.HelpService
}

// NewHelpHandler creates a new handler.
func NewHelpHandler(svc *service.HelpService) *HelpHandler {
	return &HelpHandler{service: svc}
}

// List godoc
// @Summary List own help requests
// @Description Return the caller's help requests, newest first
// @Tags HelpRequests
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /help-requests [get]
func (h *HelpHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	requests, err := h.service.ListOwned(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, requests, nil)
}

// Create godoc
// @Summary Submit a help request
// @Description Create a help request owned by the caller, opening in the open status
// @Tags HelpRequests
// @Accept json
// @Produce json
// @Param payload body dto.SubmitHelpRequest true "Help request payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /help-requests [post]
func (h *HelpHandler) Create(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SubmitHelpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid help request payload"))
		return
	}

	request, err := h.service.Submit(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, request)
}
