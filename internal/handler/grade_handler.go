package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bomino/newgrader/internal/models"
	"github.com/bomino/newgrader/internal/service"
	appErrors "github.com/bomino/newgrader/pkg/errors"
	"github.com/bomino/newgrader/pkg/response"
)

// GradeHandler exposes manual grade entry endpoints.
type GradeHandler struct {
	service *service.GradeService
}

// NewGradeHandler constructs a grade handler.
func NewGradeHandler(svc *service.GradeService) *GradeHandler {
	return &GradeHandler{service: svc}
}

// List godoc
// @Summary List grades
// @Tags Grades
// @Produce json
// @Param student_id query string false "Filter by student"
// @Param assignment_id query string false "Filter by assignment"
// @Success 200 {object} response.Envelope
// @Router /grades [get]
func (h *GradeHandler) List(c *gin.Context) {
	filter := models.GradeFilter{
		StudentID:    c.Query("student_id"),
		AssignmentID: c.Query("assignment_id"),
	}
	grades, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades, nil)
}

// Upsert godoc
// @Summary Record or overwrite one grade
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body service.UpsertGradeRequest true "Grade payload"
// @Success 200 {object} response.Envelope
// @Router /grades [post]
func (h *GradeHandler) Upsert(c *gin.Context) {
	var req service.UpsertGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	grade, err := h.service.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grade, nil)
}

// BulkUpsert godoc
// @Summary Record many grades, entry by entry
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body service.BulkGradesRequest true "Bulk grade payload"
// @Success 200 {object} response.Envelope
// @Router /grades/bulk [post]
func (h *GradeHandler) BulkUpsert(c *gin.Context) {
	var req service.BulkGradesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.service.BulkUpsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Delete godoc
// @Summary Delete a grade row
// @Tags Grades
// @Produce json
// @Param student_id query string true "Student ID"
// @Param assignment_id query string true "Assignment ID"
// @Success 204
// @Router /grades [delete]
func (h *GradeHandler) Delete(c *gin.Context) {
	studentID := c.Query("student_id")
	assignmentID := c.Query("assignment_id")
	if studentID == "" || assignmentID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "student_id and assignment_id are required"))
		return
	}
	if err := h.service.Delete(c.Request.Context(), studentID, assignmentID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
