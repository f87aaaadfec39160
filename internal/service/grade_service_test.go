package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomino/newgrader/internal/models"
	appErrors "github.com/bomino/newgrader/pkg/errors"
)

type mockGradeRepo struct {
	stored map[string]models.Grade
}

func (m *mockGradeRepo) key(studentID, assignmentID string) string {
	return studentID + "/" + assignmentID
}

func (m *mockGradeRepo) List(ctx context.Context, filter models.GradeFilter) ([]models.GradeDetail, error) {
	var result []models.GradeDetail
	for _, g := range m.stored {
		if filter.StudentID != "" && filter.StudentID != g.StudentID {
			continue
		}
		if filter.AssignmentID != "" && filter.AssignmentID != g.AssignmentID {
			continue
		}
		result = append(result, models.GradeDetail{Grade: g})
	}
	return result, nil
}

func (m *mockGradeRepo) Get(ctx context.Context, studentID, assignmentID string) (*models.Grade, error) {
	if g, ok := m.stored[m.key(studentID, assignmentID)]; ok {
		return &g, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockGradeRepo) Upsert(ctx context.Context, grade *models.Grade) error {
	if m.stored == nil {
		m.stored = make(map[string]models.Grade)
	}
	m.stored[m.key(grade.StudentID, grade.AssignmentID)] = *grade
	return nil
}

func (m *mockGradeRepo) Delete(ctx context.Context, studentID, assignmentID string) error {
	k := m.key(studentID, assignmentID)
	if _, ok := m.stored[k]; !ok {
		return sql.ErrNoRows
	}
	delete(m.stored, k)
	return nil
}

type mockStudentReader struct {
	students map[string]models.Student
}

func (m *mockStudentReader) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if s, ok := m.students[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func newGradeFixture() (*GradeService, *mockGradeRepo) {
	repo := &mockGradeRepo{}
	students := &mockStudentReader{students: map[string]models.Student{
		"s1": {ID: "s1", ClassID: "c1", Name: "Alice"},
		"s2": {ID: "s2", ClassID: "c2", Name: "Zoe"},
	}}
	assignments := &mockAssignmentReader{assignments: map[string]models.Assignment{
		"hw1": {ID: "hw1", ClassID: "c1", Name: "Homework 1", MaxPoints: 50, Weight: 1},
	}}
	return NewGradeService(repo, students, assignments, nil, nil), repo
}

func TestUpsertOverwritesExistingGrade(t *testing.T) {
	svc, repo := newGradeFixture()

	_, err := svc.Upsert(context.Background(), UpsertGradeRequest{StudentID: "s1", AssignmentID: "hw1", Points: ptr(40)})
	require.NoError(t, err)

	grade, err := svc.Upsert(context.Background(), UpsertGradeRequest{StudentID: "s1", AssignmentID: "hw1", Points: ptr(45)})
	require.NoError(t, err)
	require.NotNil(t, grade.Points)
	assert.Equal(t, 45.0, *grade.Points)
	assert.Len(t, repo.stored, 1)
}

func TestUpsertNilPointsClearsScore(t *testing.T) {
	svc, repo := newGradeFixture()

	_, err := svc.Upsert(context.Background(), UpsertGradeRequest{StudentID: "s1", AssignmentID: "hw1"})
	require.NoError(t, err)
	assert.Nil(t, repo.stored["s1/hw1"].Points)
}

func TestUpsertRejectsCrossClassPair(t *testing.T) {
	svc, _ := newGradeFixture()

	_, err := svc.Upsert(context.Background(), UpsertGradeRequest{StudentID: "s2", AssignmentID: "hw1", Points: ptr(10)})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestUpsertUnknownStudent(t *testing.T) {
	svc, _ := newGradeFixture()

	_, err := svc.Upsert(context.Background(), UpsertGradeRequest{StudentID: "ghost", AssignmentID: "hw1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestBulkUpsertKeepsGoingPastFailures(t *testing.T) {
	svc, repo := newGradeFixture()

	req := BulkGradesRequest{Items: []UpsertGradeRequest{
		{StudentID: "s1", AssignmentID: "hw1", Points: ptr(30)},
		{StudentID: "ghost", AssignmentID: "hw1", Points: ptr(20)},
		{StudentID: "s1", AssignmentID: "hw1", Points: ptr(35)},
	}}
	result, err := svc.BulkUpsert(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 2, result.SavedCount)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "ghost", result.Failures[0].StudentID)
	assert.Equal(t, "student not found", result.Failures[0].Reason)

	// Both successful entries landed, last write wins.
	require.NotNil(t, repo.stored["s1/hw1"].Points)
	assert.Equal(t, 35.0, *repo.stored["s1/hw1"].Points)
}

func TestDeleteMissingGrade(t *testing.T) {
	svc, _ := newGradeFixture()

	err := svc.Delete(context.Background(), "s1", "hw1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
