package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/faculty-directory-api/internal/models"
)

// dayOrdinalCase orders rows by the fixed weekday ordinal; day names do
// not alphabetize correctly.
const dayOrdinalCase = `CASE day_of_week
	WHEN 'Monday' THEN 1
	WHEN 'Tuesday' THEN 2
	WHEN 'Wednesday' THEN 3
	WHEN 'Thursday' THEN 4
	WHEN 'Friday' THEN 5
	WHEN 'Saturday' THEN 6
END`

// ScheduleRepository manages persistence for schedule entries.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// FindByID fetches a schedule entry by id.
func (r *ScheduleRepository) FindByID(ctx context.Context, id int64) (*models.ScheduleEntry, error) {
	query := r.db.Rebind(`SELECT schedule_id, faculty_id, day_of_week, start_time, end_time,
			room_location, academic_year, semester_num, course_code
		FROM professor_sched WHERE schedule_id = ?`)
	var entry models.ScheduleEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// HasConflict reports whether an existing entry for the professor on the
// day overlaps the half-open [start, end) interval. excludeID skips the
// entry being updated; pass 0 for inserts.
func (r *ScheduleRepository) HasConflict(ctx context.Context, professorID int64, day, start, end string, excludeID int64) (bool, error) {
	query := `SELECT COUNT(*) FROM professor_sched
		WHERE faculty_id = ? AND day_of_week = ? AND start_time < ? AND ? < end_time`
	args := []interface{}{professorID, day, end, start}
	if excludeID != 0 {
		query += " AND schedule_id <> ?"
		args = append(args, excludeID)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, r.db.Rebind(query), args...); err != nil {
		return false, fmt.Errorf("check schedule conflict: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new schedule entry and assigns its id. Validation runs
// in the service layer before this is called.
func (r *ScheduleRepository) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	const query = `INSERT INTO professor_sched
		(faculty_id, day_of_week, start_time, end_time, room_location, academic_year, semester_num, course_code)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	id, err := insertReturningID(ctx, r.db, query, "schedule_id",
		entry.ProfessorID, entry.DayOfWeek, entry.StartTime, entry.EndTime,
		entry.RoomLocation, entry.AcademicYear, entry.Semester, entry.CourseCode)
	if err != nil {
		return fmt.Errorf("create schedule entry: %w", err)
	}
	entry.ID = id
	return nil
}

// Update overwrites all fields of an existing schedule entry.
func (r *ScheduleRepository) Update(ctx context.Context, entry *models.ScheduleEntry) error {
	query := r.db.Rebind(`UPDATE professor_sched
		SET faculty_id = ?, day_of_week = ?, start_time = ?, end_time = ?,
			room_location = ?, academic_year = ?, semester_num = ?, course_code = ?
		WHERE schedule_id = ?`)
	if _, err := r.db.ExecContext(ctx, query,
		entry.ProfessorID, entry.DayOfWeek, entry.StartTime, entry.EndTime,
		entry.RoomLocation, entry.AcademicYear, entry.Semester, entry.CourseCode, entry.ID); err != nil {
		return fmt.Errorf("update schedule entry: %w", err)
	}
	return nil
}

// Delete removes a schedule entry. Nothing depends on an entry, so no
// further cascade runs.
func (r *ScheduleRepository) Delete(ctx context.Context, id int64) error {
	query := r.db.Rebind("DELETE FROM professor_sched WHERE schedule_id = ?")
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete schedule entry: %w", err)
	}
	return nil
}

// ListForProfessor returns a professor's entries joined with course names,
// ordered by day ordinal then start time.
func (r *ScheduleRepository) ListForProfessor(ctx context.Context, professorID int64) ([]models.ScheduleDetail, error) {
	query := r.db.Rebind(fmt.Sprintf(`SELECT ps.schedule_id, ps.faculty_id, ps.day_of_week, ps.start_time, ps.end_time,
			ps.room_location, ps.academic_year, ps.semester_num, ps.course_code, c.course_name
		FROM professor_sched ps
		LEFT JOIN courses c ON ps.course_code = c.course_code
		WHERE ps.faculty_id = ?
		ORDER BY %s, ps.start_time`, dayOrdinalCase))
	var entries []models.ScheduleDetail
	if err := r.db.SelectContext(ctx, &entries, query, professorID); err != nil {
		return nil, fmt.Errorf("list professor schedule: %w", err)
	}
	return entries, nil
}

// ListAll returns every entry joined with professor and course names,
// ordered by (professor last, first, day ordinal, start time).
func (r *ScheduleRepository) ListAll(ctx context.Context) ([]models.ScheduleRoster, error) {
	query := fmt.Sprintf(`SELECT ps.schedule_id, ps.faculty_id, ps.day_of_week, ps.start_time, ps.end_time,
			ps.room_location, ps.academic_year, ps.semester_num, ps.course_code, c.course_name,
			p.f_name, p.l_name
		FROM professor_sched ps
		JOIN professors p ON ps.faculty_id = p.faculty_id
		LEFT JOIN courses c ON ps.course_code = c.course_code
		ORDER BY p.l_name, p.f_name, %s, ps.start_time`, dayOrdinalCase)
	var entries []models.ScheduleRoster
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list schedules: %w", err)
	}
	return entries, nil
}
