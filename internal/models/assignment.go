package models

import "time"

// Assignment is a graded piece of work for a class. MaxPoints is the score
// ceiling auto-graded results are rescaled to; Weight is its share in the
// gradebook weighted average.
type Assignment struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	Name      string    `db:"name" json:"name"`
	MaxPoints float64   `db:"max_points" json:"max_points"`
	Weight    float64   `db:"weight" json:"weight"`
	DueDate   *string   `db:"due_date" json:"due_date,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// AssignmentFilter defines filter criteria for listing assignments.
type AssignmentFilter struct {
	ClassID  string
	Page     int
	PageSize int
}
