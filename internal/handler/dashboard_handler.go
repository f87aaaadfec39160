package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bomino/newgrader/internal/service"
	"github.com/bomino/newgrader/pkg/response"
)

// DashboardHandler serves the landing-page totals.
type DashboardHandler struct {
	service *service.DashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{service: svc}
}

// Counts godoc
// @Summary Entity totals across the gradebook
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /dashboard/counts [get]
func (h *DashboardHandler) Counts(c *gin.Context) {
	counts, err := h.service.Counts(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, counts, nil)
}
