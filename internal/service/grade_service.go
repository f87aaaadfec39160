package service

import (
	"context"
	"database/sql"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bomino/newgrader/internal/models"
	appErrors "github.com/bomino/newgrader/pkg/errors"
)

type gradeRepo interface {
	List(ctx context.Context, filter models.GradeFilter) ([]models.GradeDetail, error)
	Get(ctx context.Context, studentID, assignmentID string) (*models.Grade, error)
	Upsert(ctx context.Context, grade *models.Grade) error
	Delete(ctx context.Context, studentID, assignmentID string) error
}

type gradeStudentReader interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// UpsertGradeRequest records or overwrites one student's score for an
// assignment. Points nil clears the score back to ungraded.
type UpsertGradeRequest struct {
	StudentID    string   `json:"student_id" validate:"required"`
	AssignmentID string   `json:"assignment_id" validate:"required"`
	Points       *float64 `json:"points" validate:"omitempty,min=0"`
	Comments     *string  `json:"comments"`
}

// BulkGradesRequest carries many grade entries at once.
type BulkGradesRequest struct {
	Items []UpsertGradeRequest `json:"items" validate:"required,min=1"`
}

// GradeService coordinates manual grade entry.
type GradeService struct {
	grades      gradeRepo
	students    gradeStudentReader
	assignments autoGradeAssignmentReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewGradeService constructs GradeService.
func NewGradeService(grades gradeRepo, students gradeStudentReader, assignments autoGradeAssignmentReader, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{grades: grades, students: students, assignments: assignments, validator: validate, logger: logger}
}

// List returns grade rows with student and assignment context.
func (s *GradeService) List(ctx context.Context, filter models.GradeFilter) ([]models.GradeDetail, error) {
	grades, err := s.grades.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list grades")
	}
	return grades, nil
}

// Upsert stores one grade, inserting or overwriting the existing row for
// the (student, assignment) pair.
func (s *GradeService) Upsert(ctx context.Context, req UpsertGradeRequest) (*models.Grade, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}
	student, err := s.students.FindByID(ctx, req.StudentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	assignment, err := s.assignments.FindByID(ctx, req.AssignmentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	if student.ClassID != assignment.ClassID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "student and assignment belong to different classes")
	}

	grade := &models.Grade{
		StudentID:    req.StudentID,
		AssignmentID: req.AssignmentID,
		Points:       req.Points,
		Comments:     req.Comments,
	}
	if err := s.grades.Upsert(ctx, grade); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save grade")
	}

	stored, err := s.grades.Get(ctx, req.StudentID, req.AssignmentID)
	if err != nil {
		return grade, nil
	}
	return stored, nil
}

// BulkUpsert applies entries one at a time. A failing entry is recorded
// and skipped; entries already saved stay saved.
func (s *GradeService) BulkUpsert(ctx context.Context, req BulkGradesRequest) (*models.BulkGradeResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk grade payload")
	}

	result := &models.BulkGradeResult{}
	for _, item := range req.Items {
		if _, err := s.Upsert(ctx, item); err != nil {
			result.Failures = append(result.Failures, models.BulkGradeFailure{
				StudentID:    item.StudentID,
				AssignmentID: item.AssignmentID,
				Reason:       appErrors.FromError(err).Message,
			})
			continue
		}
		result.SavedCount++
	}

	s.logger.Info("bulk grades applied",
		zap.Int("saved", result.SavedCount),
		zap.Int("failed", len(result.Failures)))
	return result, nil
}

// Delete removes one grade row entirely.
func (s *GradeService) Delete(ctx context.Context, studentID, assignmentID string) error {
	if err := s.grades.Delete(ctx, studentID, assignmentID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "grade not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete grade")
	}
	return nil
}
