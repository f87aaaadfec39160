package models

// GradebookCell is one student/assignment intersection in the gradebook
// table. Points nil renders as a dash.
type GradebookCell struct {
	AssignmentID string   `json:"assignment_id"`
	Points       *float64 `json:"points"`
}

// GradebookRow is one student's line in the gradebook. WeightedAverage nil
// means the student has no graded assignments yet; such rows are excluded
// from class statistics.
type GradebookRow struct {
	StudentID       string          `json:"student_id"`
	StudentName     string          `json:"student_name"`
	Cells           []GradebookCell `json:"cells"`
	WeightedAverage *float64        `json:"weighted_average"`
	LetterGrade     string          `json:"letter_grade"`
}

// ClassStatistics aggregates weighted averages across the class. Only
// students with a non-nil average contribute; Passing counts averages at or
// above the fixed 60% mark.
type ClassStatistics struct {
	Average      *float64 `json:"average"`
	Highest      *float64 `json:"highest"`
	Lowest       *float64 `json:"lowest"`
	PassingCount int      `json:"passing_count"`
	GradedCount  int      `json:"graded_count"`
}

// GradebookReport is the full derived gradebook for a class. Never
// persisted; recomputed on every read.
type GradebookReport struct {
	ClassID      string          `json:"class_id"`
	ClassName    string          `json:"class_name"`
	Assignments  []Assignment    `json:"assignments"`
	Rows         []GradebookRow  `json:"rows"`
	Statistics   ClassStatistics `json:"statistics"`
	Distribution map[string]int  `json:"distribution"`
	Scale        GradeScale      `json:"scale"`
}
