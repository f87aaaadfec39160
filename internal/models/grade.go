package models

import "time"

// Grade is one student's recorded score for one assignment, unique per
// (student_id, assignment_id). Points nil means ungraded, which is distinct
// from an explicit zero.
type Grade struct {
	ID           string    `db:"id" json:"id"`
	StudentID    string    `db:"student_id" json:"student_id"`
	AssignmentID string    `db:"assignment_id" json:"assignment_id"`
	Points       *float64  `db:"points" json:"points"`
	Comments     *string   `db:"comments" json:"comments,omitempty"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// GradeDetail joins student and assignment context onto a grade row.
type GradeDetail struct {
	Grade
	StudentName    string  `db:"student_name" json:"student_name"`
	AssignmentName string  `db:"assignment_name" json:"assignment_name"`
	MaxPoints      float64 `db:"max_points" json:"max_points"`
	Weight         float64 `db:"weight" json:"weight"`
}

// GradeFilter allows querying of grade rows.
type GradeFilter struct {
	StudentID    string
	AssignmentID string
}

// BulkGradeFailure captures one failed entry within a bulk save.
type BulkGradeFailure struct {
	StudentID    string `json:"student_id"`
	AssignmentID string `json:"assignment_id"`
	Reason       string `json:"reason"`
}

// BulkGradeResult summarises a bulk save. Bulk saves apply per row, so
// earlier rows stay committed when a later row fails.
type BulkGradeResult struct {
	SavedCount int                `json:"saved_count"`
	Failures   []BulkGradeFailure `json:"failures,omitempty"`
}
