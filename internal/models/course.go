package models

// Course is keyed by its user-chosen code. The code is immutable once
// created; only the name can change.
type Course struct {
	Code string `db:"course_code" json:"code"`
	Name string `db:"course_name" json:"name"`
}
