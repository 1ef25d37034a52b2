package database

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Migration is one idempotent schema step. Steps are applied in version
// order exactly once; schema_migrations records what already ran.
type Migration struct {
	Version int
	Name    string
	Apply   func(tx *sqlx.Tx, driver string) error
}

// Migrations is the ordered schema history of the directory store.
var Migrations = []Migration{
	{Version: 1, Name: "create_directory_tables", Apply: createDirectoryTables},
	{Version: 2, Name: "add_professor_photo_url", Apply: addProfessorPhotoURL},
}

// Migrate brings the store up to the latest schema version. Safe to call on
// every startup; DDL failures abort startup.
func Migrate(db *sqlx.DB) error {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	applied := map[int]bool{}
	var versions []int
	if err := db.Select(&versions, "SELECT version FROM schema_migrations"); err != nil {
		return fmt.Errorf("read schema_migrations: %w", err)
	}
	for _, v := range versions {
		applied[v] = true
	}

	for _, m := range Migrations {
		if applied[m.Version] {
			continue
		}
		tx, err := db.Beginx()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}
		if err := m.Apply(tx, db.DriverName()); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("apply migration %d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := tx.Exec(tx.Rebind("INSERT INTO schema_migrations (version, name) VALUES (?, ?)"), m.Version, m.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

func createDirectoryTables(tx *sqlx.Tx, driver string) error {
	pk := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == "postgres" {
		pk = "SERIAL PRIMARY KEY"
	}

	stmts := []string{
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS faculty (
			office_id %s,
			office_name TEXT NOT NULL UNIQUE,
			building_num INTEGER,
			room_num INTEGER
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS professors (
			faculty_id %s,
			f_name TEXT NOT NULL,
			l_name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			office_id INTEGER REFERENCES faculty(office_id),
			subject_id TEXT
		)`, pk),
		`CREATE TABLE IF NOT EXISTS courses (
			course_code TEXT PRIMARY KEY,
			course_name TEXT
		)`,
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS professor_sched (
			schedule_id %s,
			faculty_id INTEGER NOT NULL REFERENCES professors(faculty_id),
			day_of_week TEXT CHECK(day_of_week IN ('Monday', 'Tuesday', 'Wednesday', 'Thursday', 'Friday', 'Saturday')),
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			room_location TEXT,
			academic_year TEXT NOT NULL,
			semester_num TEXT CHECK(semester_num IN ('1st', '2nd', 'Summer')),
			course_code TEXT NOT NULL REFERENCES courses(course_code)
		)`, pk),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS admin_users (
			admin_id %s,
			username TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			full_name TEXT,
			email TEXT,
			last_login TIMESTAMP,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`, pk),
	}

	for _, stmt := range stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// addProfessorPhotoURL repairs pre-photo installations by adding the column
// without touching existing rows.
func addProfessorPhotoURL(tx *sqlx.Tx, driver string) error {
	exists, err := columnExists(tx, driver, "professors", "photo_url")
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	_, err = tx.Exec("ALTER TABLE professors ADD COLUMN photo_url TEXT")
	return err
}

func columnExists(tx *sqlx.Tx, driver, table, column string) (bool, error) {
	var count int
	switch driver {
	case "postgres":
		err := tx.Get(&count,
			"SELECT COUNT(*) FROM information_schema.columns WHERE table_name = $1 AND column_name = $2",
			table, column)
		return count > 0, err
	default:
		err := tx.Get(&count,
			"SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?",
			table, column)
		return count > 0, err
	}
}
