package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

type seedOffice struct {
	ID       int64
	Name     string
	Building int
	Room     int
}

type seedProfessor struct {
	ID        int64
	First     string
	Last      string
	Email     string
	OfficeID  int64
	Specialty string
}

type seedSchedule struct {
	ID         int64
	ProfID     int64
	Day        string
	Start, End string
	Room       string
	Year       string
	Semester   string
	Course     string
}

var seedOffices = []seedOffice{
	{1, "Computer Engineering", 1, 101},
	{2, "Software Engineering", 1, 102},
	{3, "Network Engineering", 1, 103},
	{4, "Hardware Engineering", 2, 201},
	{5, "Systems Engineering", 2, 202},
}

var seedProfessors = []seedProfessor{
	{1, "John", "Smith", "john.smith@university.edu", 1, "Programming"},
	{2, "Emily", "Johnson", "emily.johnson@university.edu", 2, "Software Design"},
	{3, "Michael", "Williams", "michael.williams@university.edu", 3, "Networking"},
	{4, "Sarah", "Brown", "sarah.brown@university.edu", 4, "Hardware"},
	{5, "David", "Jones", "david.jones@university.edu", 5, "Systems"},
}

var seedCourses = [][2]string{
	{"CS101", "Introduction to Programming"},
	{"CS201", "Data Structures and Algorithms"},
	{"CS301", "Database Systems"},
	{"CS401", "Computer Networks"},
	{"CS501", "Computer Architecture"},
}

var seedSchedules = []seedSchedule{
	{1, 1, "Monday", "08:00", "10:00", "Room 101", "2023-2024", "1st", "CS101"},
	{2, 1, "Wednesday", "10:00", "12:00", "Room 102", "2023-2024", "1st", "CS201"},
	{3, 2, "Tuesday", "09:00", "11:00", "Room 103", "2023-2024", "1st", "CS301"},
	{4, 3, "Thursday", "13:00", "15:00", "Room 201", "2023-2024", "1st", "CS401"},
	{5, 4, "Friday", "14:00", "16:00", "Room 202", "2023-2024", "1st", "CS501"},
	{6, 5, "Monday", "15:00", "17:00", "Room 101", "2023-2024", "1st", "CS101"},
}

// Seed inserts the sample directory data and the default admin account.
// Every insert is skip-if-present, so calling it on each startup leaves
// existing rows untouched. adminHash is the stored hash for the default
// "admin" account.
func Seed(db *sqlx.DB, adminHash string) error {
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("begin seed: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, o := range seedOffices {
		if err := insertIfMissing(tx,
			"SELECT COUNT(*) FROM faculty WHERE office_id = ?",
			[]interface{}{o.ID},
			"INSERT INTO faculty (office_id, office_name, building_num, room_num) VALUES (?, ?, ?, ?)",
			o.ID, o.Name, o.Building, o.Room); err != nil {
			return fmt.Errorf("seed faculty: %w", err)
		}
	}

	for _, p := range seedProfessors {
		if err := insertIfMissing(tx,
			"SELECT COUNT(*) FROM professors WHERE faculty_id = ?",
			[]interface{}{p.ID},
			"INSERT INTO professors (faculty_id, f_name, l_name, email, office_id, subject_id) VALUES (?, ?, ?, ?, ?, ?)",
			p.ID, p.First, p.Last, p.Email, p.OfficeID, p.Specialty); err != nil {
			return fmt.Errorf("seed professors: %w", err)
		}
	}

	for _, c := range seedCourses {
		if err := insertIfMissing(tx,
			"SELECT COUNT(*) FROM courses WHERE course_code = ?",
			[]interface{}{c[0]},
			"INSERT INTO courses (course_code, course_name) VALUES (?, ?)",
			c[0], c[1]); err != nil {
			return fmt.Errorf("seed courses: %w", err)
		}
	}

	for _, s := range seedSchedules {
		if err := insertIfMissing(tx,
			"SELECT COUNT(*) FROM professor_sched WHERE schedule_id = ?",
			[]interface{}{s.ID},
			`INSERT INTO professor_sched (schedule_id, faculty_id, day_of_week, start_time, end_time,
				room_location, academic_year, semester_num, course_code)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			s.ID, s.ProfID, s.Day, s.Start, s.End, s.Room, s.Year, s.Semester, s.Course); err != nil {
			return fmt.Errorf("seed schedules: %w", err)
		}
	}

	if err := insertIfMissing(tx,
		"SELECT COUNT(*) FROM admin_users WHERE username = ?",
		[]interface{}{"admin"},
		"INSERT INTO admin_users (username, password_hash, full_name, email, is_active) VALUES (?, ?, ?, ?, ?)",
		"admin", adminHash, "Administrator", "admin@university.edu", true); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	if db.DriverName() == "postgres" {
		if err := resetSequences(tx); err != nil {
			return fmt.Errorf("reset sequences: %w", err)
		}
	}

	return tx.Commit()
}

func insertIfMissing(tx *sqlx.Tx, checkQuery string, checkArgs []interface{}, insertQuery string, insertArgs ...interface{}) error {
	var count int
	if err := tx.Get(&count, tx.Rebind(checkQuery), checkArgs...); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err := tx.Exec(tx.Rebind(insertQuery), insertArgs...)
	return err
}

// resetSequences realigns serial sequences after inserting rows with
// explicit primary keys. Without this the next auto-assigned id would
// collide with a seeded row.
func resetSequences(tx *sqlx.Tx) error {
	for _, pair := range [][2]string{
		{"faculty", "office_id"},
		{"professors", "faculty_id"},
		{"professor_sched", "schedule_id"},
		{"admin_users", "admin_id"},
	} {
		stmt := fmt.Sprintf(
			"SELECT setval(pg_get_serial_sequence('%s', '%s'), COALESCE(MAX(%s), 1)) FROM %s",
			pair[0], pair[1], pair[1], pair[0])
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
