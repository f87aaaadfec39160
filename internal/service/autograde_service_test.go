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
)

type mockAssignmentReader struct {
	assignments map[string]models.Assignment
}

func (m *mockAssignmentReader) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	if a, ok := m.assignments[id]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

type mockKeyReader struct {
	entries map[string][]models.AnswerKeyEntry
}

func (m *mockKeyReader) GetByAssignment(ctx context.Context, assignmentID string) ([]models.AnswerKeyEntry, error) {
	return m.entries[assignmentID], nil
}

type mockRosterReader struct {
	students map[string][]models.Student
}

func (m *mockRosterReader) ListByClass(ctx context.Context, classID string) ([]models.Student, error) {
	return m.students[classID], nil
}

type mockGradeWriter struct {
	saved map[string]models.Grade
	fail  map[string]error
}

func (m *mockGradeWriter) Upsert(ctx context.Context, grade *models.Grade) error {
	if err, ok := m.fail[grade.StudentID]; ok {
		return err
	}
	if m.saved == nil {
		m.saved = make(map[string]models.Grade)
	}
	m.saved[grade.StudentID+"/"+grade.AssignmentID] = *grade
	return nil
}

func newAutoGradeFixture() (*AutoGradeService, *mockGradeWriter) {
	assignments := &mockAssignmentReader{assignments: map[string]models.Assignment{
		"hw1": {ID: "hw1", ClassID: "c1", Name: "Homework 1", MaxPoints: 50, Weight: 1},
	}}
	keys := &mockKeyReader{entries: map[string][]models.AnswerKeyEntry{
		"hw1": {
			{AssignmentID: "hw1", QuestionNum: 1, CorrectAnswer: "A", Points: 4, QuestionType: models.QuestionMultipleChoice},
			{AssignmentID: "hw1", QuestionNum: 2, CorrectAnswer: "photosynthesis", Points: 3, QuestionType: models.QuestionShortText},
			{AssignmentID: "hw1", QuestionNum: 3, CorrectAnswer: "2.5", Points: 3, QuestionType: models.QuestionNumeric},
		},
	}}
	roster := &mockRosterReader{students: map[string][]models.Student{
		"c1": {
			{ID: "s1", ClassID: "c1", Name: "Alice Johnson"},
			{ID: "s2", ClassID: "c1", Name: "Bob Lee"},
		},
	}}
	writer := &mockGradeWriter{}
	return NewAutoGradeService(assignments, keys, roster, writer, nil, nil, nil), writer
}

func TestGradeScalesToAssignmentMaxPoints(t *testing.T) {
	svc, _ := newAutoGradeFixture()

	upload := "Student Name,q1,q2,q3\nAlice Johnson,A,Photosynthesis,2.5\nBob Lee,B,respiration,9\n"
	run, err := svc.Grade(context.Background(), "hw1", "answers.csv", strings.NewReader(upload))
	require.NoError(t, err)

	assert.Equal(t, "Student Name", run.NameColumn)
	require.Len(t, run.Results, 2)

	alice := run.Results[0]
	assert.Equal(t, 10.0, alice.RawScore)
	assert.Equal(t, 10.0, alice.MaxRaw)
	assert.Equal(t, 50.0, alice.ScaledScore)
	assert.Equal(t, 100.0, alice.Percentage)
	require.Len(t, alice.Details, 3)
	assert.True(t, alice.Details[0].IsCorrect)

	bob := run.Results[1]
	assert.Equal(t, 0.0, bob.RawScore)
	assert.Equal(t, 0.0, bob.ScaledScore)

	assert.Equal(t, 25.0, run.Average)
	assert.Equal(t, 50.0, run.Highest)
	assert.Equal(t, 0.0, run.Lowest)
	assert.Equal(t, 1, run.PassingCount)
}

func TestGradePartialCreditRounding(t *testing.T) {
	svc, _ := newAutoGradeFixture()

	// 7 of 10 raw points scaled onto 50 gives 35.00 and 70.0 percent.
	upload := "name,q1,q2,q3\nAlice Johnson,A,photosynthesis,9\n"
	run, err := svc.Grade(context.Background(), "hw1", "answers.csv", strings.NewReader(upload))
	require.NoError(t, err)
	require.Len(t, run.Results, 1)
	assert.Equal(t, 35.0, run.Results[0].ScaledScore)
	assert.Equal(t, 70.0, run.Results[0].Percentage)
}

func TestGradeSkipsBlankNameRows(t *testing.T) {
	svc, _ := newAutoGradeFixture()

	upload := "name,q1,q2,q3\n ,A,x,1\nAlice Johnson,A,photosynthesis,2.5\n"
	run, err := svc.Grade(context.Background(), "hw1", "answers.csv", strings.NewReader(upload))
	require.NoError(t, err)
	require.Len(t, run.Results, 1)
	assert.Equal(t, "Alice Johnson", run.Results[0].StudentName)
}

func TestGradeRequiresAnswerKey(t *testing.T) {
	svc, _ := newAutoGradeFixture()
	svc.keys = &mockKeyReader{entries: map[string][]models.AnswerKeyEntry{}}

	_, err := svc.Grade(context.Background(), "hw1", "answers.csv", strings.NewReader("name,q1\nAlice,A\n"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErrors.FromError(err).Code)
}

func TestGradeUnknownAssignment(t *testing.T) {
	svc, _ := newAutoGradeFixture()

	_, err := svc.Grade(context.Background(), "missing", "answers.csv", strings.NewReader("name,q1\nAlice,A\n"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestGradeUnreadableUpload(t *testing.T) {
	svc, _ := newAutoGradeFixture()

	_, err := svc.Grade(context.Background(), "hw1", "answers.csv", strings.NewReader(""))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnreadableUpload.Code, appErrors.FromError(err).Code)
}

func TestSaveMatchesRosterCaseInsensitively(t *testing.T) {
	svc, writer := newAutoGradeFixture()

	req := SaveAutoGradeRequest{Items: []SaveAutoGradeItem{
		{StudentName: "alice johnson", ScaledScore: 42.5},
		{StudentName: "BOB LEE", ScaledScore: 31},
		{StudentName: "Charlie Noone", ScaledScore: 12},
	}}
	result, err := svc.Save(context.Background(), "hw1", req)
	require.NoError(t, err)

	assert.Equal(t, 2, result.SavedCount)
	assert.Equal(t, []string{"Charlie Noone"}, result.NotFound)

	saved, ok := writer.saved["s1/hw1"]
	require.True(t, ok)
	require.NotNil(t, saved.Points)
	assert.Equal(t, 42.5, *saved.Points)
}

func TestSaveEmptyPayloadRejected(t *testing.T) {
	svc, _ := newAutoGradeFixture()

	_, err := svc.Save(context.Background(), "hw1", SaveAutoGradeRequest{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
