package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomino/newgrader/internal/models"
	appErrors "github.com/bomino/newgrader/pkg/errors"
)

type mockStudentRepo struct {
	created []models.Student
	failOn  string
}

func (m *mockStudentRepo) List(ctx context.Context, filter models.StudentFilter) ([]models.StudentDetail, int, error) {
	return nil, 0, nil
}

func (m *mockStudentRepo) ListByClass(ctx context.Context, classID string) ([]models.Student, error) {
	return nil, nil
}

func (m *mockStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	return nil, sql.ErrNoRows
}

func (m *mockStudentRepo) Create(ctx context.Context, student *models.Student) error {
	if m.failOn != "" && student.Name == m.failOn {
		return fmt.Errorf("insert student: boom")
	}
	student.ID = fmt.Sprintf("s%d", len(m.created)+1)
	m.created = append(m.created, *student)
	return nil
}

func (m *mockStudentRepo) Update(ctx context.Context, student *models.Student) error { return nil }

func (m *mockStudentRepo) Delete(ctx context.Context, id string) error { return nil }

func newStudentFixture() (*StudentService, *mockStudentRepo) {
	repo := &mockStudentRepo{}
	classes := &mockClassReader{classes: map[string]models.Class{
		"c1": {ID: "c1", Name: "Biology 101"},
	}}
	return NewStudentService(repo, classes, nil, nil, nil), repo
}

func TestImportRoster(t *testing.T) {
	svc, repo := newStudentFixture()

	roster := "Name,Email\nAlice,alice@school.test\nBob,\n,missing@school.test\n"
	result, err := svc.Import(context.Background(), "c1", "roster.csv", strings.NewReader(roster))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Added)
	require.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0], "empty name")

	require.Len(t, repo.created, 2)
	assert.Equal(t, "Alice", repo.created[0].Name)
	require.NotNil(t, repo.created[0].Email)
	assert.Equal(t, "alice@school.test", *repo.created[0].Email)
	assert.Nil(t, repo.created[1].Email)
}

func TestImportRosterContinuesPastRowFailures(t *testing.T) {
	svc, repo := newStudentFixture()
	repo.failOn = "Bob"

	roster := "name\nAlice\nBob\nCarol\n"
	result, err := svc.Import(context.Background(), "c1", "roster.csv", strings.NewReader(roster))
	require.NoError(t, err)

	assert.Equal(t, 2, result.Added)
	require.Len(t, result.Skipped, 1)
	assert.Contains(t, result.Skipped[0], "Bob")
}

func TestImportRosterRequiresNameColumn(t *testing.T) {
	svc, _ := newStudentFixture()

	_, err := svc.Import(context.Background(), "c1", "roster.csv", strings.NewReader("email\na@b.test\n"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestImportRosterUnknownClass(t *testing.T) {
	svc, _ := newStudentFixture()

	_, err := svc.Import(context.Background(), "nope", "roster.csv", strings.NewReader("name\nAlice\n"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestImportRosterRejectsUnknownExtension(t *testing.T) {
	svc, _ := newStudentFixture()

	_, err := svc.Import(context.Background(), "c1", "roster.pdf", strings.NewReader("name\nAlice\n"))
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnreadableUpload.Code, appErrors.FromError(err).Code)
}
