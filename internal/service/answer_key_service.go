package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bomino/newgrader/internal/models"
	appErrors "github.com/bomino/newgrader/pkg/errors"
)

type answerKeyRepository interface {
	GetByAssignment(ctx context.Context, assignmentID string) ([]models.AnswerKeyEntry, error)
	Replace(ctx context.Context, assignmentID string, entries []models.AnswerKeyEntry) error
	Delete(ctx context.Context, assignmentID string) error
}

// AnswerKeyQuestion is one question in a replace payload.
type AnswerKeyQuestion struct {
	QuestionNum   int                 `json:"question_num" validate:"required,min=1"`
	CorrectAnswer string              `json:"correct_answer"`
	Points        *float64            `json:"points" validate:"omitempty,min=0"`
	QuestionType  models.QuestionType `json:"question_type"`
}

// ReplaceAnswerKeyRequest swaps an assignment's entire answer key. Saving
// is full replacement, there is no per-question patching.
type ReplaceAnswerKeyRequest struct {
	Questions []AnswerKeyQuestion `json:"questions" validate:"required,dive"`
}

// AnswerKeyService manages assignment answer keys.
type AnswerKeyService struct {
	keys        answerKeyRepository
	assignments autoGradeAssignmentReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAnswerKeyService constructs AnswerKeyService.
func NewAnswerKeyService(keys answerKeyRepository, assignments autoGradeAssignmentReader, validate *validator.Validate, logger *zap.Logger) *AnswerKeyService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnswerKeyService{keys: keys, assignments: assignments, validator: validate, logger: logger}
}

// Get returns the answer key ordered by question number.
func (s *AnswerKeyService) Get(ctx context.Context, assignmentID string) ([]models.AnswerKeyEntry, error) {
	if err := s.requireAssignment(ctx, assignmentID); err != nil {
		return nil, err
	}
	entries, err := s.keys.GetByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load answer key")
	}
	return entries, nil
}

// Replace validates and stores a new answer key. Questions with an empty
// answer are dropped rather than rejected; multiple-choice answers are
// uppercased at save so scoring compares like for like.
func (s *AnswerKeyService) Replace(ctx context.Context, assignmentID string, req ReplaceAnswerKeyRequest) ([]models.AnswerKeyEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid answer key payload")
	}
	if err := s.requireAssignment(ctx, assignmentID); err != nil {
		return nil, err
	}

	seen := make(map[int]bool, len(req.Questions))
	entries := make([]models.AnswerKeyEntry, 0, len(req.Questions))
	for _, q := range req.Questions {
		answer := strings.TrimSpace(q.CorrectAnswer)
		if answer == "" {
			continue
		}
		if seen[q.QuestionNum] {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("duplicate question number %d", q.QuestionNum))
		}
		seen[q.QuestionNum] = true

		qType := q.QuestionType
		if qType == "" {
			qType = models.QuestionMultipleChoice
		}
		if !qType.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown question type %q", q.QuestionType))
		}
		if qType == models.QuestionMultipleChoice {
			answer = strings.ToUpper(answer)
		}

		points := 1.0
		if q.Points != nil {
			points = *q.Points
		}
		entries = append(entries, models.AnswerKeyEntry{
			AssignmentID:  assignmentID,
			QuestionNum:   q.QuestionNum,
			CorrectAnswer: answer,
			Points:        points,
			QuestionType:  qType,
		})
	}
	if len(entries) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "answer key needs at least one answered question")
	}

	if err := s.keys.Replace(ctx, assignmentID, entries); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save answer key")
	}
	s.logger.Info("answer key replaced",
		zap.String("assignment_id", assignmentID),
		zap.Int("questions", len(entries)))

	stored, err := s.keys.GetByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load answer key")
	}
	return stored, nil
}

// Delete removes the answer key. Grades already committed stay.
func (s *AnswerKeyService) Delete(ctx context.Context, assignmentID string) error {
	if err := s.requireAssignment(ctx, assignmentID); err != nil {
		return err
	}
	if err := s.keys.Delete(ctx, assignmentID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete answer key")
	}
	return nil
}

func (s *AnswerKeyService) requireAssignment(ctx context.Context, assignmentID string) error {
	if _, err := s.assignments.FindByID(ctx, assignmentID); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assignment")
	}
	return nil
}
