package service

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bomino/newgrader/internal/models"
	appErrors "github.com/bomino/newgrader/pkg/errors"
)

type assignmentRepository interface {
	List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error)
	ListByClass(ctx context.Context, classID string) ([]models.Assignment, error)
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
	Create(ctx context.Context, assignment *models.Assignment) error
	Update(ctx context.Context, assignment *models.Assignment) error
	Delete(ctx context.Context, id string) error
}

// CreateAssignmentRequest captures creation payload. MaxPoints defaults to
// 100 and Weight to 1 when omitted so plain averages need no extra setup.
type CreateAssignmentRequest struct {
	ClassID   string   `json:"class_id" validate:"required"`
	Name      string   `json:"name" validate:"required"`
	MaxPoints *float64 `json:"max_points" validate:"omitempty,gt=0"`
	Weight    *float64 `json:"weight" validate:"omitempty,gt=0"`
	DueDate   *string  `json:"due_date"`
}

// UpdateAssignmentRequest modifies assignment fields.
type UpdateAssignmentRequest struct {
	Name      string   `json:"name" validate:"required"`
	MaxPoints float64  `json:"max_points" validate:"required,gt=0"`
	Weight    *float64 `json:"weight" validate:"omitempty,gt=0"`
	DueDate   *string  `json:"due_date"`
}

// AssignmentService coordinates assignment operations.
type AssignmentService struct {
	repo      assignmentRepository
	classes   studentClassReader
	cache     dashboardInvalidator
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAssignmentService constructs AssignmentService.
func NewAssignmentService(repo assignmentRepository, classes studentClassReader, cache dashboardInvalidator, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{repo: repo, classes: classes, cache: cache, validator: validate, logger: logger}
}

// List returns assignments with pagination metadata.
func (s *AssignmentService) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, *models.Pagination, error) {
	assignments, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return assignments, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// ListByClass returns every assignment in a class in creation order.
func (s *AssignmentService) ListByClass(ctx context.Context, classID string) ([]models.Assignment, error) {
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	assignments, err := s.repo.ListByClass(ctx, classID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// Get returns a single assignment.
func (s *AssignmentService) Get(ctx context.Context, id string) (*models.Assignment, error) {
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	return assignment, nil
}

// Create adds an assignment to a class.
func (s *AssignmentService) Create(ctx context.Context, req CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	if _, err := s.classes.FindByID(ctx, req.ClassID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load class")
	}
	due, err := normalizeDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	maxPoints := 100.0
	if req.MaxPoints != nil {
		maxPoints = *req.MaxPoints
	}
	weight := 1.0
	if req.Weight != nil {
		weight = *req.Weight
	}
	assignment := &models.Assignment{
		ClassID:   req.ClassID,
		Name:      strings.TrimSpace(req.Name),
		MaxPoints: maxPoints,
		Weight:    weight,
		DueDate:   due,
	}
	if err := s.repo.Create(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	s.invalidateDashboard(ctx)
	s.logger.Info("assignment created", zap.String("assignment_id", assignment.ID), zap.String("class_id", assignment.ClassID))
	return assignment, nil
}

// Update modifies an assignment. Already-stored grade points are untouched;
// changing max points shifts how they read as percentages.
func (s *AssignmentService) Update(ctx context.Context, id string, req UpdateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	assignment, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	due, err := normalizeDueDate(req.DueDate)
	if err != nil {
		return nil, err
	}

	assignment.Name = strings.TrimSpace(req.Name)
	assignment.MaxPoints = req.MaxPoints
	if req.Weight != nil {
		assignment.Weight = *req.Weight
	}
	assignment.DueDate = due
	if err := s.repo.Update(ctx, assignment); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment")
	}
	return assignment, nil
}

// Delete removes an assignment along with its grades and answer key.
func (s *AssignmentService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	s.invalidateDashboard(ctx)
	return nil
}

func (s *AssignmentService) invalidateDashboard(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateDashboard(ctx); err != nil {
		s.logger.Warn("dashboard cache invalidation failed", zap.Error(err))
	}
}

func normalizeDueDate(raw *string) (*string, error) {
	if raw == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*raw)
	if trimmed == "" {
		return nil, nil
	}
	if _, err := time.Parse("2006-01-02", trimmed); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "due_date must be YYYY-MM-DD")
	}
	return &trimmed, nil
}
