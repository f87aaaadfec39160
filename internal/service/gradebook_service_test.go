package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomino/newgrader/internal/models"
	appErrors "github.com/bomino/newgrader/pkg/errors"
	"github.com/bomino/newgrader/pkg/export"
)

type mockClassReader struct {
	classes map[string]models.Class
}

func (m *mockClassReader) FindByID(ctx context.Context, id string) (*models.Class, error) {
	if c, ok := m.classes[id]; ok {
		return &c, nil
	}
	return nil, sql.ErrNoRows
}

type mockClassAssignmentReader struct {
	assignments map[string][]models.Assignment
}

func (m *mockClassAssignmentReader) ListByClass(ctx context.Context, classID string) ([]models.Assignment, error) {
	return m.assignments[classID], nil
}

type mockClassGradeReader struct {
	grades map[string][]models.Grade
}

func (m *mockClassGradeReader) FetchByClass(ctx context.Context, classID string) ([]models.Grade, error) {
	return m.grades[classID], nil
}

func ptr(v float64) *float64 { return &v }

func newGradebookFixture() *GradebookService {
	classes := &mockClassReader{classes: map[string]models.Class{
		"c1": {ID: "c1", Name: "Biology 101"},
	}}
	roster := &mockRosterReader{students: map[string][]models.Student{
		"c1": {
			{ID: "s1", ClassID: "c1", Name: "Alice"},
			{ID: "s2", ClassID: "c1", Name: "Bob"},
			{ID: "s3", ClassID: "c1", Name: "Carol"},
		},
	}}
	assignments := &mockClassAssignmentReader{assignments: map[string][]models.Assignment{
		"c1": {
			{ID: "a1", ClassID: "c1", Name: "Quiz 1", MaxPoints: 10, Weight: 1},
			{ID: "a2", ClassID: "c1", Name: "Exam 1", MaxPoints: 100, Weight: 3},
		},
	}}
	grades := &mockClassGradeReader{grades: map[string][]models.Grade{
		"c1": {
			{StudentID: "s1", AssignmentID: "a1", Points: ptr(8)},
			{StudentID: "s1", AssignmentID: "a2", Points: ptr(80)},
			{StudentID: "s2", AssignmentID: "a1", Points: ptr(5)},
		},
	}}
	return NewGradebookService(classes, roster, assignments, grades,
		export.NewCSVExporter(), export.NewXLSXExporter(), export.NewPDFExporter(), nil)
}

func TestBuildWeightedAverages(t *testing.T) {
	svc := newGradebookFixture()

	report, err := svc.Build(context.Background(), "c1", models.DefaultGradeScale())
	require.NoError(t, err)
	require.Len(t, report.Rows, 3)

	// Alice: (80*1 + 80*3) / 4 = 80.
	alice := report.Rows[0]
	require.NotNil(t, alice.WeightedAverage)
	assert.InDelta(t, 80.0, *alice.WeightedAverage, 1e-9)
	assert.Equal(t, "B", alice.LetterGrade)

	// Bob has only the quiz, so its percentage stands alone.
	bob := report.Rows[1]
	require.NotNil(t, bob.WeightedAverage)
	assert.InDelta(t, 50.0, *bob.WeightedAverage, 1e-9)
	assert.Equal(t, "F", bob.LetterGrade)

	// Carol is ungraded and must not drag statistics down.
	carol := report.Rows[2]
	assert.Nil(t, carol.WeightedAverage)
	assert.Equal(t, "", carol.LetterGrade)

	require.NotNil(t, report.Statistics.Average)
	assert.InDelta(t, 65.0, *report.Statistics.Average, 1e-9)
	assert.InDelta(t, 80.0, *report.Statistics.Highest, 1e-9)
	assert.InDelta(t, 50.0, *report.Statistics.Lowest, 1e-9)
	assert.Equal(t, 2, report.Statistics.GradedCount)
	assert.Equal(t, 1, report.Statistics.PassingCount)

	assert.Equal(t, 1, report.Distribution["B"])
	assert.Equal(t, 1, report.Distribution["F"])
	assert.Equal(t, 0, report.Distribution["A"])
}

func TestBuildLetterUsesProvidedScale(t *testing.T) {
	svc := newGradebookFixture()

	// With a lenient scale the same 80 percent becomes an A.
	scale := models.GradeScale{AMin: 75, BMin: 65, CMin: 55, DMin: 45}
	report, err := svc.Build(context.Background(), "c1", scale)
	require.NoError(t, err)
	assert.Equal(t, "A", report.Rows[0].LetterGrade)
}

func TestBuildUnknownClass(t *testing.T) {
	svc := newGradebookFixture()

	_, err := svc.Build(context.Background(), "nope", models.DefaultGradeScale())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSummaryReport(t *testing.T) {
	svc := newGradebookFixture()

	summary, err := svc.Summary(context.Background(), "c1", models.DefaultGradeScale())
	require.NoError(t, err)

	assert.Contains(t, summary, "Class: Biology 101")
	assert.Contains(t, summary, "Total Students: 3")
	assert.Contains(t, summary, "Total Assignments: 2")
	assert.Contains(t, summary, "Class Average: 65.0%")
	assert.Contains(t, summary, "Passing Rate: 1/2 (50.0%)")
	assert.Contains(t, summary, "Alice: 80.0% (B)")
	assert.Contains(t, summary, "Carol: -")
}

func TestExportCSV(t *testing.T) {
	svc := newGradebookFixture()

	payload, filename, contentType, err := svc.Export(context.Background(), "c1", models.DefaultGradeScale(), "csv")
	require.NoError(t, err)
	assert.Equal(t, "gradebook_Biology_101.csv", filename)
	assert.Equal(t, "text/csv", contentType)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Student,Quiz 1,Exam 1,Average,Letter", lines[0])
	assert.Equal(t, "Alice,8.0,80.0,80.0%,B", lines[1])
	assert.Equal(t, "Carol,-,-,-,-", lines[3])
}

func TestExportUnknownFormat(t *testing.T) {
	svc := newGradebookFixture()

	_, _, _, err := svc.Export(context.Background(), "c1", models.DefaultGradeScale(), "docx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
