package models

// QuestionType selects the comparison rule used when scoring an answer.
type QuestionType string

const (
	// QuestionMultipleChoice compares normalized answers for exact equality.
	QuestionMultipleChoice QuestionType = "multiple_choice"
	// QuestionShortText compares answers case-insensitively.
	QuestionShortText QuestionType = "short_text"
	// QuestionNumeric compares parsed values within a fixed tolerance.
	QuestionNumeric QuestionType = "numeric"
)

// Valid reports whether the question type is one of the known kinds.
func (t QuestionType) Valid() bool {
	switch t {
	case QuestionMultipleChoice, QuestionShortText, QuestionNumeric:
		return true
	}
	return false
}

// AnswerKeyEntry is one graded question of an assignment's answer key.
// (assignment_id, question_num) is unique.
type AnswerKeyEntry struct {
	ID            string       `db:"id" json:"id"`
	AssignmentID  string       `db:"assignment_id" json:"assignment_id"`
	QuestionNum   int          `db:"question_num" json:"question_num"`
	CorrectAnswer string       `db:"correct_answer" json:"correct_answer"`
	Points        float64      `db:"points" json:"points"`
	QuestionType  QuestionType `db:"question_type" json:"question_type"`
}
