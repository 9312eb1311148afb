package models

import "time"

// Faculty represents an instructor record.
type Faculty struct {
	ID             string    `db:"id" json:"id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	DepartmentID   *string   `db:"department_id" json:"department_id,omitempty"`
	Designation    *string   `db:"designation" json:"designation,omitempty"`
	Specialization *string   `db:"specialization" json:"specialization,omitempty"`
	IsAvailable    bool      `db:"is_available" json:"is_available"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// FacultyRef is the lightweight shape returned by the substitute resolver.
type FacultyRef struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// FacultyFilter captures filtering options for listing faculty.
type FacultyFilter struct {
	Search       string
	DepartmentID string
	Available    *bool
	Page         int
	PageSize     int
}
