package models

import "time"

// Section is a student cohort attached to a department.
type Section struct {
	ID            string    `db:"id" json:"id"`
	Name          string    `db:"name" json:"name"`
	SectionLetter string    `db:"section_letter" json:"section_letter"`
	DepartmentID  string    `db:"department_id" json:"department_id"`
	FacultyID     *string   `db:"faculty_id" json:"faculty_id,omitempty"`
	MaxStudents   int       `db:"max_students" json:"max_students"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// SectionFilter captures filtering options for listing sections.
type SectionFilter struct {
	DepartmentID string
	Page         int
	PageSize     int
}
