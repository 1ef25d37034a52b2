package models

// Days of the week a class may be scheduled on, in display order. Sunday is
// intentionally absent. The ordinal (Monday=1 … Saturday=6) drives schedule
// ordering since day names do not alphabetize correctly.
var Days = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

// Semesters a schedule entry may belong to.
var Semesters = []string{"1st", "2nd", "Summer"}

// DayOrdinal maps a day name to its fixed ordinal, or 0 when invalid.
func DayOrdinal(day string) int {
	for i, d := range Days {
		if d == day {
			return i + 1
		}
	}
	return 0
}

// ValidDay reports whether day is one of the six schedulable days.
func ValidDay(day string) bool {
	return DayOrdinal(day) > 0
}

// ValidSemester reports whether semester is one of the three valid labels.
func ValidSemester(semester string) bool {
	for _, s := range Semesters {
		if s == semester {
			return true
		}
	}
	return false
}

// Overlaps applies the half-open interval rule: [s1,e1) and [s2,e2) overlap
// iff s1 < e2 and s2 < e1. Times are zero-padded "HH:MM" wall-clock strings,
// so lexicographic comparison is chronological.
func Overlaps(s1, e1, s2, e2 string) bool {
	return s1 < e2 && s2 < e1
}

// ScheduleEntry is one recurring weekly teaching slot for a professor.
type ScheduleEntry struct {
	ID           int64   `db:"schedule_id" json:"id"`
	ProfessorID  int64   `db:"faculty_id" json:"professor_id"`
	DayOfWeek    string  `db:"day_of_week" json:"day_of_week"`
	StartTime    string  `db:"start_time" json:"start_time"`
	EndTime      string  `db:"end_time" json:"end_time"`
	RoomLocation *string `db:"room_location" json:"room_location,omitempty"`
	AcademicYear string  `db:"academic_year" json:"academic_year"`
	Semester     string  `db:"semester_num" json:"semester"`
	CourseCode   string  `db:"course_code" json:"course_code"`
}

// ScheduleDetail joins an entry with its course name for a professor's
// timetable view.
type ScheduleDetail struct {
	ScheduleEntry
	CourseName *string `db:"course_name" json:"course_name,omitempty"`
}

// ScheduleRoster joins an entry with professor and course names for the
// full listing.
type ScheduleRoster struct {
	ScheduleDetail
	ProfessorFirst string `db:"f_name" json:"professor_first_name"`
	ProfessorLast  string `db:"l_name" json:"professor_last_name"`
}
