package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bomino/newgrader/internal/service"
	"github.com/bomino/newgrader/pkg/response"
)

// GradebookHandler exposes the derived gradebook views. Every request
// recomputes from stored grades under the current grade scale.
type GradebookHandler struct {
	gradebook *service.GradebookService
	settings  *service.SettingsService
}

// NewGradebookHandler constructs a gradebook handler.
func NewGradebookHandler(gradebook *service.GradebookService, settings *service.SettingsService) *GradebookHandler {
	return &GradebookHandler{gradebook: gradebook, settings: settings}
}

// Get godoc
// @Summary Get the class gradebook
// @Tags Gradebook
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Router /classes/{id}/gradebook [get]
func (h *GradebookHandler) Get(c *gin.Context) {
	scale, err := h.settings.GradeScale(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	report, err := h.gradebook.Build(c.Request.Context(), c.Param("id"), scale)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Summary godoc
// @Summary Get the plain-text class summary report
// @Tags Gradebook
// @Produce plain
// @Param id path string true "Class ID"
// @Success 200 {string} string
// @Router /classes/{id}/summary [get]
func (h *GradebookHandler) Summary(c *gin.Context) {
	scale, err := h.settings.GradeScale(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	summary, err := h.gradebook.Summary(c.Request.Context(), c.Param("id"), scale)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.String(http.StatusOK, summary)
}

// Export godoc
// @Summary Download the gradebook as csv, xlsx or pdf
// @Tags Gradebook
// @Produce octet-stream
// @Param id path string true "Class ID"
// @Param format query string false "Export format" Enums(csv, xlsx, pdf) default(csv)
// @Success 200 {file} file
// @Router /classes/{id}/gradebook/export [get]
func (h *GradebookHandler) Export(c *gin.Context) {
	scale, err := h.settings.GradeScale(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	payload, filename, contentType, err := h.gradebook.Export(c.Request.Context(), c.Param("id"), scale, c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
