package models

// GradingDetail records the outcome for one question of one student's
// upload. Held only long enough to review and save.
type GradingDetail struct {
	QuestionNum    int     `json:"question_num"`
	StudentAnswer  string  `json:"student_answer"`
	CorrectAnswer  string  `json:"correct_answer"`
	IsCorrect      bool    `json:"is_correct"`
	PointsEarned   float64 `json:"points_earned"`
	PointsPossible float64 `json:"points_possible"`
}

// StudentAutoGradeResult is the per-student outcome of an auto-grade run.
// ScaledScore is RawScore rescaled to the assignment's max points.
type StudentAutoGradeResult struct {
	StudentName string          `json:"student_name"`
	RawScore    float64         `json:"raw_score"`
	MaxRaw      float64         `json:"max_raw"`
	ScaledScore float64         `json:"scaled_score"`
	Percentage  float64         `json:"percentage"`
	Details     []GradingDetail `json:"details"`
}

// AutoGradeRun bundles the results of one grading pass with the summary
// statistics shown before committing.
type AutoGradeRun struct {
	AssignmentID string                   `json:"assignment_id"`
	NameColumn   string                   `json:"name_column"`
	Results      []StudentAutoGradeResult `json:"results"`
	Average      float64                  `json:"average"`
	Highest      float64                  `json:"highest"`
	Lowest       float64                  `json:"lowest"`
	PassingCount int                      `json:"passing_count"`
}

// AutoGradeSaveResult reports the commit step: matched students were
// upserted, unmatched names are listed rather than silently dropped.
type AutoGradeSaveResult struct {
	SavedCount int      `json:"saved_count"`
	NotFound   []string `json:"not_found,omitempty"`
}
