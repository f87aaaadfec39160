package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bomino/newgrader/internal/service"
	appErrors "github.com/bomino/newgrader/pkg/errors"
	"github.com/bomino/newgrader/pkg/response"
)

// AutoGradeHandler exposes the grade-then-save workflow for submission
// uploads.
type AutoGradeHandler struct {
	service     *service.AutoGradeService
	maxFileSize int64
}

// NewAutoGradeHandler constructs an auto-grade handler.
func NewAutoGradeHandler(svc *service.AutoGradeService, maxFileSize int64) *AutoGradeHandler {
	if maxFileSize <= 0 {
		maxFileSize = 5 << 20
	}
	return &AutoGradeHandler{service: svc, maxFileSize: maxFileSize}
}

// Grade godoc
// @Summary Score an uploaded submission file against the answer key
// @Description Returns per-student results for review. Nothing is stored
// @Description until the results are posted back to the save endpoint.
// @Tags AutoGrade
// @Accept multipart/form-data
// @Produce json
// @Param id path string true "Assignment ID"
// @Param file formData file true "Submission file (csv or xlsx)"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id}/autograde [post]
func (h *AutoGradeHandler) Grade(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "file is required"))
		return
	}
	if fileHeader.Size > h.maxFileSize {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "uploaded file too large"))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrUnreadableUpload.Code, appErrors.ErrUnreadableUpload.Status, "failed to open upload"))
		return
	}
	defer file.Close()

	run, err := h.service.Grade(c.Request.Context(), c.Param("id"), fileHeader.Filename, file)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, run, nil)
}

// Save godoc
// @Summary Commit reviewed auto-grade results to the gradebook
// @Tags AutoGrade
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body service.SaveAutoGradeRequest true "Reviewed results"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id}/autograde/save [post]
func (h *AutoGradeHandler) Save(c *gin.Context) {
	var req service.SaveAutoGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.Save(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
