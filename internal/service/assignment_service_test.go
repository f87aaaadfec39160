package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomino/newgrader/internal/models"
	appErrors "github.com/bomino/newgrader/pkg/errors"
)

type mockAssignmentRepo struct {
	created []models.Assignment
	byClass map[string][]models.Assignment
}

func (m *mockAssignmentRepo) List(ctx context.Context, filter models.AssignmentFilter) ([]models.Assignment, int, error) {
	return nil, 0, nil
}

func (m *mockAssignmentRepo) ListByClass(ctx context.Context, classID string) ([]models.Assignment, error) {
	return m.byClass[classID], nil
}

func (m *mockAssignmentRepo) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	for _, a := range m.created {
		if a.ID == id {
			found := a
			return &found, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockAssignmentRepo) Create(ctx context.Context, assignment *models.Assignment) error {
	assignment.ID = fmt.Sprintf("a%d", len(m.created)+1)
	m.created = append(m.created, *assignment)
	return nil
}

func (m *mockAssignmentRepo) Update(ctx context.Context, assignment *models.Assignment) error {
	return nil
}

func (m *mockAssignmentRepo) Delete(ctx context.Context, id string) error { return nil }

func newAssignmentFixture() (*AssignmentService, *mockAssignmentRepo) {
	repo := &mockAssignmentRepo{byClass: map[string][]models.Assignment{}}
	classes := &mockClassReader{classes: map[string]models.Class{
		"c1": {ID: "c1", Name: "Biology 101"},
	}}
	return NewAssignmentService(repo, classes, nil, nil, nil), repo
}

func TestCreateAssignmentDefaults(t *testing.T) {
	svc, _ := newAssignmentFixture()

	created, err := svc.Create(context.Background(), CreateAssignmentRequest{ClassID: "c1", Name: " Quiz 1 "})
	require.NoError(t, err)

	assert.Equal(t, "Quiz 1", created.Name)
	assert.Equal(t, 100.0, created.MaxPoints)
	assert.Equal(t, 1.0, created.Weight)
	assert.Nil(t, created.DueDate)
}

func TestCreateAssignmentExplicitValues(t *testing.T) {
	svc, _ := newAssignmentFixture()

	due := "2026-01-15"
	created, err := svc.Create(context.Background(), CreateAssignmentRequest{
		ClassID:   "c1",
		Name:      "Midterm",
		MaxPoints: ptr(50),
		Weight:    ptr(3),
		DueDate:   &due,
	})
	require.NoError(t, err)

	assert.Equal(t, 50.0, created.MaxPoints)
	assert.Equal(t, 3.0, created.Weight)
	require.NotNil(t, created.DueDate)
	assert.Equal(t, "2026-01-15", *created.DueDate)
}

func TestCreateAssignmentBadDueDate(t *testing.T) {
	svc, _ := newAssignmentFixture()

	due := "15/01/2026"
	_, err := svc.Create(context.Background(), CreateAssignmentRequest{ClassID: "c1", Name: "Quiz", DueDate: &due})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateAssignmentUnknownClass(t *testing.T) {
	svc, _ := newAssignmentFixture()

	_, err := svc.Create(context.Background(), CreateAssignmentRequest{ClassID: "missing", Name: "Quiz"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestListAssignmentsByClass(t *testing.T) {
	svc, repo := newAssignmentFixture()
	repo.byClass["c1"] = []models.Assignment{
		{ID: "a1", ClassID: "c1", Name: "Quiz 1", MaxPoints: 10, Weight: 1},
		{ID: "a2", ClassID: "c1", Name: "Exam 1", MaxPoints: 100, Weight: 3},
	}

	assignments, err := svc.ListByClass(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, assignments, 2)
	assert.Equal(t, "Quiz 1", assignments[0].Name)

	_, err = svc.ListByClass(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
