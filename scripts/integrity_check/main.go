// Command integrity_check audits a directory database file for invariant
// violations: duplicate emails, dangling references, invalid enum values,
// and overlapping schedule entries. Useful after importing data produced
// outside the API.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/noah-isme/faculty-directory-api/internal/models"
)

type scheduleRow struct {
	ID          int64  `db:"schedule_id"`
	ProfessorID int64  `db:"faculty_id"`
	Day         string `db:"day_of_week"`
	Start       string `db:"start_time"`
	End         string `db:"end_time"`
	Semester    string `db:"semester_num"`
}

func main() {
	var dbPath string
	flag.StringVar(&dbPath, "db", "./data/faculty_directory.sqlite", "Path to the SQLite database file")
	flag.Parse()

	db, err := sqlx.Connect("sqlite", dbPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	violations := 0
	violations += report(db, "duplicate professor emails",
		`SELECT email FROM professors GROUP BY email HAVING COUNT(*) > 1`)
	violations += report(db, "professors referencing missing departments",
		`SELECT p.faculty_id FROM professors p
		 LEFT JOIN faculty f ON f.office_id = p.office_id
		 WHERE p.office_id IS NOT NULL AND f.office_id IS NULL`)
	violations += report(db, "schedules referencing missing professors",
		`SELECT s.schedule_id FROM professor_sched s
		 LEFT JOIN professors p ON p.faculty_id = s.faculty_id
		 WHERE p.faculty_id IS NULL`)
	violations += report(db, "schedules referencing missing courses",
		`SELECT s.schedule_id FROM professor_sched s
		 LEFT JOIN courses c ON c.course_code = s.course_code
		 WHERE c.course_code IS NULL`)
	violations += report(db, "schedules with start at or after end",
		`SELECT schedule_id FROM professor_sched WHERE start_time >= end_time`)

	violations += checkEnums(db)
	violations += checkOverlaps(db)

	if violations > 0 {
		fmt.Printf("\n%d violation group(s) found\n", violations)
		os.Exit(1)
	}
	fmt.Println("no violations found")
}

func report(db *sqlx.DB, label, query string) int {
	var values []string
	if err := db.Select(&values, query); err != nil {
		log.Fatalf("query failed (%s): %v", label, err)
	}
	if len(values) == 0 {
		return 0
	}
	fmt.Printf("%s: %v\n", label, values)
	return 1
}

func checkEnums(db *sqlx.DB) int {
	var rows []scheduleRow
	err := db.Select(&rows,
		`SELECT schedule_id, faculty_id, day_of_week, start_time, end_time, semester_num FROM professor_sched`)
	if err != nil {
		log.Fatalf("failed to load schedules: %v", err)
	}

	var bad []int64
	for _, r := range rows {
		if !models.ValidDay(r.Day) || !models.ValidSemester(r.Semester) {
			bad = append(bad, r.ID)
		}
	}
	if len(bad) == 0 {
		return 0
	}
	fmt.Printf("schedules with invalid day or semester: %v\n", bad)
	return 1
}

func checkOverlaps(db *sqlx.DB) int {
	var rows []scheduleRow
	err := db.Select(&rows,
		`SELECT schedule_id, faculty_id, day_of_week, start_time, end_time, semester_num
		 FROM professor_sched ORDER BY faculty_id, day_of_week, start_time`)
	if err != nil {
		log.Fatalf("failed to load schedules: %v", err)
	}

	found := 0
	for i := 0; i < len(rows); i++ {
		for j := i + 1; j < len(rows); j++ {
			a, b := rows[i], rows[j]
			if a.ProfessorID != b.ProfessorID || a.Day != b.Day {
				continue
			}
			if models.Overlaps(a.Start, a.End, b.Start, b.End) {
				fmt.Printf("overlapping schedules: %d and %d (professor %d, %s)\n", a.ID, b.ID, a.ProfessorID, a.Day)
				found = 1
			}
		}
	}
	return found
}
