package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ehs-honor/honor-site-api/internal/service"
	"github.com/ehs-honor/honor-site-api/pkg/response"
)

// ContentHandler serves the static informational pages.
type ContentHandler struct {
	service *service.ContentService
}

// NewContentHandler creates a new handler.
func NewContentHandler(svc *service.ContentService) *ContentHandler {
	return &ContentHandler{service: svc}
}

// Page godoc
// @Summary Fetch a static page
// @Description Return page copy; only the landing page is public
// @Tags Content
// @Produce json
// @Param id path string true "Page ID" Enums(landing, rules, caseStudies, resources)
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /pages/{id} [get]
func (h *ContentHandler) Page(c *gin.Context) {
	authenticated := claimsFromContext(c) != nil

	page, err := h.service.Page(c.Param("id"), authenticated)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, page, nil)
}
