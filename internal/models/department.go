package models

// Department is an administrative unit (historically called an office)
// owning zero or more professors.
type Department struct {
	ID          int64  `db:"office_id" json:"id"`
	Name        string `db:"office_name" json:"name"`
	BuildingNum *int   `db:"building_num" json:"building_num,omitempty"`
	RoomNum     *int   `db:"room_num" json:"room_num,omitempty"`
}

// DepartmentWithCount annotates a department with its current professor
// headcount for listings.
type DepartmentWithCount struct {
	Department
	ProfessorCount int `db:"professor_count" json:"professor_count"`
}
