package models

import "time"

// Course represents a taught course. DurationHours drives how many
// contiguous slots a placement must reserve.
type Course struct {
	ID            string    `db:"id" json:"id"`
	Code          string    `db:"code" json:"code"`
	Name          string    `db:"name" json:"name"`
	DepartmentID  *string   `db:"department_id" json:"department_id,omitempty"`
	Credits       int       `db:"credits" json:"credits"`
	Semester      *int      `db:"semester" json:"semester,omitempty"`
	DurationHours int       `db:"duration_hours" json:"duration_hours"`
	IsLab         bool      `db:"is_lab" json:"is_lab"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// CourseFilter captures filtering options for listing courses.
type CourseFilter struct {
	DepartmentID string
	Search       string
	Page         int
	PageSize     int
}
