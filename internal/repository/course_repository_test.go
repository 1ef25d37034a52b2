package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/faculty-directory-api/internal/models"
)

func newCourseRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestCourseRepositoryList(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	rows := sqlmock.NewRows([]string{"course_code", "course_name"}).
		AddRow("CS101", "Introduction to Programming").
		AddRow("CS201", "Data Structures and Algorithms")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT course_code, course_name FROM courses ORDER BY course_code")).
		WillReturnRows(rows)

	courses, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, courses, 2)
	assert.Equal(t, "CS101", courses[0].Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryExistsByCode(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM courses WHERE course_code = ? LIMIT 1")).
		WithArgs("CS101").
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))

	exists, err := repo.ExistsByCode(context.Background(), "CS101")
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM courses WHERE course_code = ? LIMIT 1")).
		WithArgs("CS999").
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	exists, err = repo.ExistsByCode(context.Background(), "CS999")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryCreateAndRename(t *testing.T) {
	db, mock, cleanup := newCourseRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	mock.ExpectExec("INSERT INTO courses").
		WithArgs("CS301", "Database Systems").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Create(context.Background(), &models.Course{Code: "CS301", Name: "Database Systems"}))

	mock.ExpectExec("UPDATE courses SET course_name").
		WithArgs("Advanced Database Systems", "CS301").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.UpdateName(context.Background(), "CS301", "Advanced Database Systems"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryDeleteCascadesSchedules(t *testing.T) {
	db := newTestDB(t)
	seedDirectory(t, db)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	affected, err := repo.Delete(ctx, "CS101")
	require.NoError(t, err)
	assert.Equal(t, 1, affected)
	assert.Equal(t, 0, countRows(t, db, "professor_sched"))
	assert.Equal(t, 1, countRows(t, db, "courses"))

	// Deleting a course with no schedules reports zero.
	affected, err = repo.Delete(ctx, "CS201")
	require.NoError(t, err)
	assert.Equal(t, 0, affected)
}
