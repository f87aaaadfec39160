package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bomino/newgrader/internal/service"
	appErrors "github.com/bomino/newgrader/pkg/errors"
	"github.com/bomino/newgrader/pkg/response"
)

// AnswerKeyHandler exposes answer key endpoints nested under assignments.
type AnswerKeyHandler struct {
	service *service.AnswerKeyService
}

// NewAnswerKeyHandler constructs an answer key handler.
func NewAnswerKeyHandler(svc *service.AnswerKeyService) *AnswerKeyHandler {
	return &AnswerKeyHandler{service: svc}
}

// Get godoc
// @Summary Get assignment answer key
// @Tags AnswerKeys
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id}/answer-key [get]
func (h *AnswerKeyHandler) Get(c *gin.Context) {
	entries, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Replace godoc
// @Summary Replace assignment answer key
// @Tags AnswerKeys
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body service.ReplaceAnswerKeyRequest true "Answer key payload"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id}/answer-key [put]
func (h *AnswerKeyHandler) Replace(c *gin.Context) {
	var req service.ReplaceAnswerKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entries, err := h.service.Replace(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}

// Delete godoc
// @Summary Delete assignment answer key
// @Tags AnswerKeys
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 204
// @Router /assignments/{id}/answer-key [delete]
func (h *AnswerKeyHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
