package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bomino/newgrader/internal/models"
	"github.com/bomino/newgrader/pkg/tabular"
)

// numericTolerance is the absolute difference allowed when comparing
// numeric answers.
const numericTolerance = 0.01

// matchAnswer locates the submitted answer for a question in an upload row.
// Column names are tried in priority order before falling back to the
// question's positional column. A question with no matching column yields
// an empty answer.
func matchAnswer(table *tabular.Table, row, questionNum int) string {
	candidates := []string{
		fmt.Sprintf("q%d", questionNum),
		fmt.Sprintf("Q%d", questionNum),
		fmt.Sprintf("question%d", questionNum),
		fmt.Sprintf("Question %d", questionNum),
	}
	for _, name := range candidates {
		if value, ok := table.Cell(row, name); ok {
			return normalizeAnswer(value)
		}
	}
	if value, ok := table.CellAt(row, questionNum); ok {
		return normalizeAnswer(value)
	}
	return ""
}

// normalizeAnswer trims and uppercases a raw cell value. Spreadsheet
// tools commonly serialize missing cells as "nan"; those normalize to
// an empty answer.
func normalizeAnswer(raw string) string {
	value := strings.TrimSpace(raw)
	if strings.EqualFold(value, "nan") {
		return ""
	}
	return strings.ToUpper(value)
}

// scoreAnswer compares a normalized student answer against one answer key
// entry and returns the per-question grading detail.
func scoreAnswer(studentAnswer string, entry models.AnswerKeyEntry) models.GradingDetail {
	correct := strings.ToUpper(strings.TrimSpace(entry.CorrectAnswer))

	var isCorrect bool
	switch entry.QuestionType {
	case models.QuestionShortText:
		isCorrect = strings.EqualFold(studentAnswer, correct)
	case models.QuestionNumeric:
		got, errGot := strconv.ParseFloat(studentAnswer, 64)
		want, errWant := strconv.ParseFloat(correct, 64)
		isCorrect = errGot == nil && errWant == nil && math.Abs(got-want) < numericTolerance
	default:
		isCorrect = studentAnswer == correct
	}

	earned := 0.0
	if isCorrect {
		earned = entry.Points
	}

	return models.GradingDetail{
		QuestionNum:    entry.QuestionNum,
		StudentAnswer:  studentAnswer,
		CorrectAnswer:  correct,
		IsCorrect:      isCorrect,
		PointsEarned:   earned,
		PointsPossible: entry.Points,
	}
}

// resolveNameColumn picks the header holding student names. The first
// header containing "name" or "student" wins, otherwise the first column
// is used.
func resolveNameColumn(headers []string) (int, string) {
	for i, h := range headers {
		lower := strings.ToLower(h)
		if strings.Contains(lower, "name") || strings.Contains(lower, "student") {
			return i, h
		}
	}
	if len(headers) > 0 {
		return 0, headers[0]
	}
	return 0, ""
}

func round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

func round1(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
