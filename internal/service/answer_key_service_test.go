package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bomino/newgrader/internal/models"
	appErrors "github.com/bomino/newgrader/pkg/errors"
)

type mockAnswerKeyRepo struct {
	stored map[string][]models.AnswerKeyEntry
}

func (m *mockAnswerKeyRepo) GetByAssignment(ctx context.Context, assignmentID string) ([]models.AnswerKeyEntry, error) {
	return m.stored[assignmentID], nil
}

func (m *mockAnswerKeyRepo) Replace(ctx context.Context, assignmentID string, entries []models.AnswerKeyEntry) error {
	if m.stored == nil {
		m.stored = make(map[string][]models.AnswerKeyEntry)
	}
	m.stored[assignmentID] = entries
	return nil
}

func (m *mockAnswerKeyRepo) Delete(ctx context.Context, assignmentID string) error {
	delete(m.stored, assignmentID)
	return nil
}

func newAnswerKeyFixture() (*AnswerKeyService, *mockAnswerKeyRepo) {
	repo := &mockAnswerKeyRepo{}
	assignments := &mockAssignmentReader{assignments: map[string]models.Assignment{
		"hw1": {ID: "hw1", ClassID: "c1", Name: "Homework 1", MaxPoints: 50, Weight: 1},
	}}
	return NewAnswerKeyService(repo, assignments, nil, nil), repo
}

func TestReplaceDropsEmptyAnswersAndUppercasesChoices(t *testing.T) {
	svc, repo := newAnswerKeyFixture()

	req := ReplaceAnswerKeyRequest{Questions: []AnswerKeyQuestion{
		{QuestionNum: 1, CorrectAnswer: " b ", QuestionType: models.QuestionMultipleChoice},
		{QuestionNum: 2, CorrectAnswer: "", QuestionType: models.QuestionMultipleChoice},
		{QuestionNum: 3, CorrectAnswer: "Mitochondria", QuestionType: models.QuestionShortText},
	}}
	_, err := svc.Replace(context.Background(), "hw1", req)
	require.NoError(t, err)

	stored := repo.stored["hw1"]
	require.Len(t, stored, 2)
	assert.Equal(t, "B", stored[0].CorrectAnswer)
	assert.Equal(t, 1.0, stored[0].Points)
	// Short text keeps its casing; scoring normalizes at compare time.
	assert.Equal(t, "Mitochondria", stored[1].CorrectAnswer)
}

func TestReplaceDefaultsTypeAndPoints(t *testing.T) {
	svc, repo := newAnswerKeyFixture()

	req := ReplaceAnswerKeyRequest{Questions: []AnswerKeyQuestion{
		{QuestionNum: 1, CorrectAnswer: "c", Points: ptr(2.5)},
	}}
	_, err := svc.Replace(context.Background(), "hw1", req)
	require.NoError(t, err)

	stored := repo.stored["hw1"]
	require.Len(t, stored, 1)
	assert.Equal(t, models.QuestionMultipleChoice, stored[0].QuestionType)
	assert.Equal(t, 2.5, stored[0].Points)
}

func TestReplaceRejectsDuplicateQuestionNumbers(t *testing.T) {
	svc, _ := newAnswerKeyFixture()

	req := ReplaceAnswerKeyRequest{Questions: []AnswerKeyQuestion{
		{QuestionNum: 1, CorrectAnswer: "a"},
		{QuestionNum: 1, CorrectAnswer: "b"},
	}}
	_, err := svc.Replace(context.Background(), "hw1", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReplaceRejectsUnknownType(t *testing.T) {
	svc, _ := newAnswerKeyFixture()

	req := ReplaceAnswerKeyRequest{Questions: []AnswerKeyQuestion{
		{QuestionNum: 1, CorrectAnswer: "a", QuestionType: "essay"},
	}}
	_, err := svc.Replace(context.Background(), "hw1", req)
	require.Error(t, err)
}

func TestReplaceRejectsAllEmptyKey(t *testing.T) {
	svc, _ := newAnswerKeyFixture()

	req := ReplaceAnswerKeyRequest{Questions: []AnswerKeyQuestion{
		{QuestionNum: 1, CorrectAnswer: "   "},
	}}
	_, err := svc.Replace(context.Background(), "hw1", req)
	require.Error(t, err)
}

func TestReplaceUnknownAssignment(t *testing.T) {
	svc, _ := newAnswerKeyFixture()

	req := ReplaceAnswerKeyRequest{Questions: []AnswerKeyQuestion{
		{QuestionNum: 1, CorrectAnswer: "a"},
	}}
	_, err := svc.Replace(context.Background(), "missing", req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
