package repository

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/noah-isme/faculty-directory-api/pkg/database"
)

// newTestDB opens an in-memory store with the full schema applied. A
// single connection keeps every query on the same memory database.
func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := sqlx.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec("PRAGMA foreign_keys = ON")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// seedDirectory loads a small fixture set: two departments, two
// professors, two courses, and one Monday 09:00-11:00 entry for
// professor 1.
func seedDirectory(t *testing.T, db *sqlx.DB) {
	t.Helper()
	stmts := []string{
		`INSERT INTO faculty (office_id, office_name, building_num, room_num) VALUES
			(1, 'Computer Engineering', 1, 101),
			(2, 'Software Engineering', 1, 102)`,
		`INSERT INTO professors (faculty_id, f_name, l_name, email, office_id, subject_id) VALUES
			(1, 'John', 'Smith', 'john.smith@university.edu', 1, 'Programming'),
			(2, 'Emily', 'Johnson', 'emily.johnson@university.edu', 2, 'Software Design')`,
		`INSERT INTO courses (course_code, course_name) VALUES
			('CS101', 'Introduction to Programming'),
			('CS201', 'Data Structures and Algorithms')`,
		`INSERT INTO professor_sched
			(schedule_id, faculty_id, day_of_week, start_time, end_time, room_location, academic_year, semester_num, course_code)
			VALUES (1, 1, 'Monday', '09:00', '11:00', 'Room 101', '2023-2024', '1st', 'CS101')`,
	}
	for _, stmt := range stmts {
		_, err := db.Exec(stmt)
		require.NoError(t, err)
	}
}

func countRows(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.GetContext(context.Background(), &n, "SELECT COUNT(*) FROM "+table))
	return n
}
