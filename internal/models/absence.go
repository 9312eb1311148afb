package models

import "time"

// FacultyAbsence is a reported absence. It starts pending and becomes
// immutable once processed with a substitute assignment.
type FacultyAbsence struct {
	ID                  string    `db:"id" json:"id"`
	FacultyID           string    `db:"faculty_id" json:"faculty_id"`
	AbsenceDate         string    `db:"absence_date" json:"absence_date"`
	Reason              *string   `db:"reason" json:"reason,omitempty"`
	SubstituteFacultyID *string   `db:"substitute_faculty_id" json:"substitute_faculty_id,omitempty"`
	IsProcessed         bool      `db:"is_processed" json:"is_processed"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}

// FacultyAbsenceDetail joins an absence with faculty display names.
type FacultyAbsenceDetail struct {
	FacultyAbsence
	FacultyName    string  `db:"faculty_name" json:"faculty_name"`
	SubstituteName *string `db:"substitute_name" json:"substitute_name,omitempty"`
}

// AbsenceFilter captures filtering options for listing absences.
type AbsenceFilter struct {
	FacultyID string
	Processed *bool
	Page      int
	PageSize  int
}

// ReallocationLog records one substitution of an original entry for a date.
// It is append-only.
type ReallocationLog struct {
	ID                  string    `db:"id" json:"id"`
	OriginalEntryID     *string   `db:"original_entry_id" json:"original_entry_id,omitempty"`
	OriginalFacultyID   *string   `db:"original_faculty_id" json:"original_faculty_id,omitempty"`
	SubstituteFacultyID *string   `db:"substitute_faculty_id" json:"substitute_faculty_id,omitempty"`
	ReallocationDate    string    `db:"reallocation_date" json:"reallocation_date"`
	Reason              *string   `db:"reason" json:"reason,omitempty"`
	CreatedAt           time.Time `db:"created_at" json:"created_at"`
}
