package models

// Professor is a faculty member. Email is globally unique; the department
// reference is nullable so professors survive a detaching department delete.
type Professor struct {
	ID           int64   `db:"faculty_id" json:"id"`
	FirstName    string  `db:"f_name" json:"first_name"`
	LastName     string  `db:"l_name" json:"last_name"`
	Email        string  `db:"email" json:"email"`
	DepartmentID *int64  `db:"office_id" json:"department_id,omitempty"`
	Specialty    *string `db:"subject_id" json:"specialty,omitempty"`
	PhotoURL     *string `db:"photo_url" json:"photo_url,omitempty"`
}

// ProfessorDetail joins a professor with their department info for
// presentation.
type ProfessorDetail struct {
	Professor
	DepartmentName *string `db:"office_name" json:"department_name,omitempty"`
	BuildingNum    *int    `db:"building_num" json:"building_num,omitempty"`
	RoomNum        *int    `db:"room_num" json:"room_num,omitempty"`
}
