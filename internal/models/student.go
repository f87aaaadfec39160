package models

import "time"

// Student belongs to exactly one class.
type Student struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	Name      string    `db:"name" json:"name"`
	Email     *string   `db:"email" json:"email,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// StudentDetail includes the owning class name for list views.
type StudentDetail struct {
	Student
	ClassName string `db:"class_name" json:"class_name"`
}

// StudentFilter defines filter criteria for listing students.
type StudentFilter struct {
	ClassID  string
	Search   string
	Page     int
	PageSize int
}

// StudentImportResult summarises a bulk roster import.
type StudentImportResult struct {
	Added   int      `json:"added"`
	Skipped []string `json:"skipped,omitempty"`
}
