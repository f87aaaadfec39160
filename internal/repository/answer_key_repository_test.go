package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/bomino/newgrader/internal/models"
)

func TestAnswerKeyRepositoryReplace(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAnswerKeyRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM answer_keys")).
		WithArgs("a1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO answer_keys")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO answer_keys")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	entries := []models.AnswerKeyEntry{
		{QuestionNum: 1, CorrectAnswer: "A", Points: 1, QuestionType: models.QuestionMultipleChoice},
		{QuestionNum: 2, CorrectAnswer: "3.5", Points: 2, QuestionType: models.QuestionNumeric},
	}
	require.NoError(t, repo.Replace(context.Background(), "a1", entries))
	require.NotEmpty(t, entries[0].ID)
	require.Equal(t, "a1", entries[0].AssignmentID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnswerKeyRepositoryReplaceRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAnswerKeyRepository(db)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM answer_keys")).
		WithArgs("a1").
		WillReturnError(context.DeadlineExceeded)
	mock.ExpectRollback()

	err := repo.Replace(context.Background(), "a1", []models.AnswerKeyEntry{{QuestionNum: 1, CorrectAnswer: "A"}})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAnswerKeyRepositoryGetOrdered(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAnswerKeyRepository(db)
	rows := sqlmock.NewRows([]string{"id", "assignment_id", "question_num", "correct_answer", "points", "question_type"}).
		AddRow("k1", "a1", 1, "A", 1.0, "multiple_choice").
		AddRow("k2", "a1", 2, "water", 2.0, "short_text")
	mock.ExpectQuery(regexp.QuoteMeta("FROM answer_keys")).
		WithArgs("a1").
		WillReturnRows(rows)

	entries, err := repo.GetByAssignment(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, models.QuestionShortText, entries[1].QuestionType)
	require.NoError(t, mock.ExpectationsWereMet())
}
