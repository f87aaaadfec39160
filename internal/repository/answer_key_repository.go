package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bomino/newgrader/internal/models"
)

// AnswerKeyRepository manages answer key persistence. Keys are replaced
// whole: saving deletes every prior entry for the assignment.
type AnswerKeyRepository struct {
	db *sqlx.DB
}

// NewAnswerKeyRepository constructs a new answer key repository.
func NewAnswerKeyRepository(db *sqlx.DB) *AnswerKeyRepository {
	return &AnswerKeyRepository{db: db}
}

// GetByAssignment returns the key entries in question-number order.
func (r *AnswerKeyRepository) GetByAssignment(ctx context.Context, assignmentID string) ([]models.AnswerKeyEntry, error) {
	var entries []models.AnswerKeyEntry
	const query = "SELECT id, assignment_id, question_num, correct_answer, points, question_type FROM answer_keys WHERE assignment_id = $1 ORDER BY question_num"
	if err := r.db.SelectContext(ctx, &entries, query, assignmentID); err != nil {
		return nil, fmt.Errorf("get answer key: %w", err)
	}
	return entries, nil
}

// Replace swaps the assignment's answer key for the given entries in one
// transaction.
func (r *AnswerKeyRepository) Replace(ctx context.Context, assignmentID string, entries []models.AnswerKeyEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM answer_keys WHERE assignment_id = $1", assignmentID); err != nil {
		tx.Rollback() //nolint:errcheck
		return fmt.Errorf("clear answer key: %w", err)
	}
	for i := range entries {
		entries[i].AssignmentID = assignmentID
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		const query = `INSERT INTO answer_keys (id, assignment_id, question_num, correct_answer, points, question_type)
                VALUES (:id, :assignment_id, :question_num, :correct_answer, :points, :question_type)`
		if _, err := tx.NamedExecContext(ctx, query, entries[i]); err != nil {
			tx.Rollback() //nolint:errcheck
			return fmt.Errorf("insert answer key entry: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit answer key: %w", err)
	}
	return nil
}

// Delete clears the assignment's answer key.
func (r *AnswerKeyRepository) Delete(ctx context.Context, assignmentID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM answer_keys WHERE assignment_id = $1", assignmentID); err != nil {
		return fmt.Errorf("delete answer key: %w", err)
	}
	return nil
}
