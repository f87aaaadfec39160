package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/bomino/newgrader/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestGradeRepositoryUpsertAssignsIDAndTimestamps(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO grades")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	points := 42.5
	grade := &models.Grade{StudentID: "s1", AssignmentID: "a1", Points: &points}
	require.NoError(t, repo.Upsert(context.Background(), grade))
	require.NotEmpty(t, grade.ID)
	require.False(t, grade.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryGetMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, student_id, assignment_id")).
		WithArgs("s1", "a1").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "s1", "a1")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryFetchByClass(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db)
	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "student_id", "assignment_id", "points", "comments", "created_at", "updated_at"}).
		AddRow("g1", "s1", "a1", 10.0, nil, now, now).
		AddRow("g2", "s2", "a1", nil, nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM grades g")).
		WithArgs("c1").
		WillReturnRows(rows)

	grades, err := repo.FetchByClass(context.Background(), "c1")
	require.NoError(t, err)
	require.Len(t, grades, 2)
	require.NotNil(t, grades[0].Points)
	require.Nil(t, grades[1].Points)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGradeRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewGradeRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM grades")).
		WithArgs("s1", "a1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "s1", "a1")
	require.ErrorIs(t, err, sql.ErrNoRows)
	require.NoError(t, mock.ExpectationsWereMet())
}
