package models

import "time"

// Class represents one taught class. Class names are unique.
type Class struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ClassDetail extends Class with roster and assignment counts.
type ClassDetail struct {
	Class
	StudentCount    int `db:"student_count" json:"student_count"`
	AssignmentCount int `db:"assignment_count" json:"assignment_count"`
}

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	Search   string
	Page     int
	PageSize int
}
