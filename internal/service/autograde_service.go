package service

import (
	"context"
	"database/sql"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bomino/newgrader/internal/models"
	appErrors "github.com/bomino/newgrader/pkg/errors"
	"github.com/bomino/newgrader/pkg/tabular"
)

type autoGradeAssignmentReader interface {
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
}

type autoGradeKeyReader interface {
	GetByAssignment(ctx context.Context, assignmentID string) ([]models.AnswerKeyEntry, error)
}

type autoGradeRosterReader interface {
	ListByClass(ctx context.Context, classID string) ([]models.Student, error)
}

type autoGradeWriter interface {
	Upsert(ctx context.Context, grade *models.Grade) error
}

// SaveAutoGradeItem is one reviewed score from a grading run, keyed by the
// student name found in the upload.
type SaveAutoGradeItem struct {
	StudentName string  `json:"student_name" validate:"required"`
	ScaledScore float64 `json:"scaled_score" validate:"min=0"`
}

// SaveAutoGradeRequest commits reviewed auto-grade results to the gradebook.
type SaveAutoGradeRequest struct {
	Items []SaveAutoGradeItem `json:"items" validate:"required,min=1,dive"`
}

// AutoGradeService runs submission uploads against an assignment's answer
// key and commits reviewed results. Grading itself never touches stored
// grades; only Save writes.
type AutoGradeService struct {
	assignments autoGradeAssignmentReader
	keys        autoGradeKeyReader
	students    autoGradeRosterReader
	grades      autoGradeWriter
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAutoGradeService constructs AutoGradeService.
func NewAutoGradeService(assignments autoGradeAssignmentReader, keys autoGradeKeyReader, students autoGradeRosterReader, grades autoGradeWriter, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AutoGradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AutoGradeService{
		assignments: assignments,
		keys:        keys,
		students:    students,
		grades:      grades,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// Grade scores every row of an uploaded submission table against the
// assignment's answer key and returns the full run with summary statistics.
func (s *AutoGradeService) Grade(ctx context.Context, assignmentID, filename string, file io.Reader) (*models.AutoGradeRun, error) {
	start := time.Now()
	assignment, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	key, err := s.keys.GetByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load answer key")
	}
	if len(key) == 0 {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "assignment has no answer key")
	}

	table, err := tabular.Parse(filename, file)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnreadableUpload.Code, appErrors.ErrUnreadableUpload.Status, "failed to parse upload")
	}
	if len(table.Headers) == 0 {
		return nil, appErrors.Clone(appErrors.ErrUnreadableUpload, "upload has no header row")
	}

	nameIdx, nameCol := resolveNameColumn(table.Headers)

	maxRaw := 0.0
	for _, entry := range key {
		maxRaw += entry.Points
	}

	run := &models.AutoGradeRun{
		AssignmentID: assignmentID,
		NameColumn:   nameCol,
		Results:      make([]models.StudentAutoGradeResult, 0, table.Len()),
	}

	for row := 0; row < table.Len(); row++ {
		name, _ := table.CellAt(row, nameIdx)
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		result := models.StudentAutoGradeResult{
			StudentName: name,
			MaxRaw:      maxRaw,
			Details:     make([]models.GradingDetail, 0, len(key)),
		}
		for _, entry := range key {
			answer := matchAnswer(table, row, entry.QuestionNum)
			detail := scoreAnswer(answer, entry)
			result.RawScore += detail.PointsEarned
			result.Details = append(result.Details, detail)
		}

		if maxRaw > 0 {
			result.ScaledScore = round2(result.RawScore / maxRaw * assignment.MaxPoints)
			result.Percentage = round1(result.RawScore / maxRaw * 100)
		}
		run.Results = append(run.Results, result)
	}

	s.summarize(run)
	s.metrics.ObserveGradingRun(time.Since(start))

	s.logger.Info("auto-grade run completed",
		zap.String("assignment_id", assignmentID),
		zap.String("name_column", nameCol),
		zap.Int("rows", len(run.Results)))
	return run, nil
}

// summarize fills the run statistics. Passing is measured against the
// fixed threshold, not the configurable letter scale.
func (s *AutoGradeService) summarize(run *models.AutoGradeRun) {
	if len(run.Results) == 0 {
		return
	}
	total := 0.0
	run.Highest = run.Results[0].ScaledScore
	run.Lowest = run.Results[0].ScaledScore
	for _, r := range run.Results {
		total += r.ScaledScore
		if r.ScaledScore > run.Highest {
			run.Highest = r.ScaledScore
		}
		if r.ScaledScore < run.Lowest {
			run.Lowest = r.ScaledScore
		}
		if r.Percentage >= passingThreshold {
			run.PassingCount++
		}
	}
	run.Average = round2(total / float64(len(run.Results)))
}

// Save matches reviewed results against the class roster by name and
// upserts a grade per matched student. Names with no roster match are
// reported back instead of silently dropped.
func (s *AutoGradeService) Save(ctx context.Context, assignmentID string, req SaveAutoGradeRequest) (*models.AutoGradeSaveResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid save payload")
	}
	assignment, err := s.assignments.FindByID(ctx, assignmentID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}

	roster, err := s.students.ListByClass(ctx, assignment.ClassID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load roster")
	}
	byName := make(map[string]string, len(roster))
	for _, student := range roster {
		byName[strings.ToLower(strings.TrimSpace(student.Name))] = student.ID
	}

	result := &models.AutoGradeSaveResult{}
	for _, item := range req.Items {
		studentID, ok := byName[strings.ToLower(strings.TrimSpace(item.StudentName))]
		if !ok {
			result.NotFound = append(result.NotFound, item.StudentName)
			continue
		}
		points := item.ScaledScore
		grade := &models.Grade{StudentID: studentID, AssignmentID: assignmentID, Points: &points}
		if err := s.grades.Upsert(ctx, grade); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save grade")
		}
		result.SavedCount++
	}

	s.logger.Info("auto-grade results saved",
		zap.String("assignment_id", assignmentID),
		zap.Int("saved", result.SavedCount),
		zap.Int("unmatched", len(result.NotFound)))
	return result, nil
}
