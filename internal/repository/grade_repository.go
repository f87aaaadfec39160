package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bomino/newgrader/internal/models"
)

// GradeRepository handles grade persistence. Rows are keyed by the natural
// key (student_id, assignment_id).
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository creates a new grade repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// List returns grade rows with joined context matching the filter.
func (r *GradeRepository) List(ctx context.Context, filter models.GradeFilter) ([]models.GradeDetail, error) {
	query := `SELECT g.id, g.student_id, g.assignment_id, g.points, g.comments, g.created_at, g.updated_at,
        s.name AS student_name, a.name AS assignment_name, a.max_points, a.weight
        FROM grades g
        JOIN students s ON s.id = g.student_id
        JOIN assignments a ON a.id = g.assignment_id
        WHERE 1=1`
	var args []interface{}
	if filter.StudentID != "" {
		query += fmt.Sprintf(" AND g.student_id = $%d", len(args)+1)
		args = append(args, filter.StudentID)
	}
	if filter.AssignmentID != "" {
		query += fmt.Sprintf(" AND g.assignment_id = $%d", len(args)+1)
		args = append(args, filter.AssignmentID)
	}
	query += " ORDER BY a.due_date NULLS LAST, a.name, s.name"
	var grades []models.GradeDetail
	if err := r.db.SelectContext(ctx, &grades, query, args...); err != nil {
		return nil, fmt.Errorf("list grades: %w", err)
	}
	return grades, nil
}

// Get returns the grade for one (student, assignment) pair.
func (r *GradeRepository) Get(ctx context.Context, studentID, assignmentID string) (*models.Grade, error) {
	var grade models.Grade
	const query = "SELECT id, student_id, assignment_id, points, comments, created_at, updated_at FROM grades WHERE student_id = $1 AND assignment_id = $2"
	if err := r.db.GetContext(ctx, &grade, query, studentID, assignmentID); err != nil {
		return nil, err
	}
	return &grade, nil
}

// Upsert inserts or overwrites the grade for (student_id, assignment_id).
func (r *GradeRepository) Upsert(ctx context.Context, grade *models.Grade) error {
	if grade.ID == "" {
		grade.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if grade.CreatedAt.IsZero() {
		grade.CreatedAt = now
	}
	grade.UpdatedAt = now
	const query = `INSERT INTO grades (id, student_id, assignment_id, points, comments, created_at, updated_at)
        VALUES (:id, :student_id, :assignment_id, :points, :comments, :created_at, :updated_at)
        ON CONFLICT (student_id, assignment_id)
        DO UPDATE SET points = EXCLUDED.points, comments = EXCLUDED.comments, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, grade); err != nil {
		return fmt.Errorf("upsert grade: %w", err)
	}
	return nil
}

// FetchByClass returns every grade row belonging to the class's
// assignments. The gradebook builds its matrix from this single query.
func (r *GradeRepository) FetchByClass(ctx context.Context, classID string) ([]models.Grade, error) {
	const query = `SELECT g.id, g.student_id, g.assignment_id, g.points, g.comments, g.created_at, g.updated_at
        FROM grades g
        JOIN assignments a ON a.id = g.assignment_id
        WHERE a.class_id = $1`
	var grades []models.Grade
	if err := r.db.SelectContext(ctx, &grades, query, classID); err != nil {
		return nil, fmt.Errorf("fetch class grades: %w", err)
	}
	return grades, nil
}

// Delete removes one grade row.
func (r *GradeRepository) Delete(ctx context.Context, studentID, assignmentID string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM grades WHERE student_id = $1 AND assignment_id = $2", studentID, assignmentID)
	if err != nil {
		return fmt.Errorf("delete grade: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
