package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bomino/newgrader/internal/service"
	appErrors "github.com/bomino/newgrader/pkg/errors"
	"github.com/bomino/newgrader/pkg/response"
)

// SettingsHandler exposes the grade scale configuration.
type SettingsHandler struct {
	service *service.SettingsService
}

// NewSettingsHandler constructs a settings handler.
func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: svc}
}

// GetGradeScale godoc
// @Summary Get the letter-grade thresholds
// @Tags Settings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /settings/grade-scale [get]
func (h *SettingsHandler) GetGradeScale(c *gin.Context) {
	scale, err := h.service.GradeScale(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scale, nil)
}

// UpdateGradeScale godoc
// @Summary Replace the letter-grade thresholds
// @Tags Settings
// @Accept json
// @Produce json
// @Param payload body service.UpdateGradeScaleRequest true "Grade scale payload"
// @Success 200 {object} response.Envelope
// @Router /settings/grade-scale [put]
func (h *SettingsHandler) UpdateGradeScale(c *gin.Context) {
	var req service.UpdateGradeScaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	scale, err := h.service.UpdateGradeScale(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scale, nil)
}
