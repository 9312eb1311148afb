package models

import "time"

// TimetableEntry is one section occupying one slot on one weekday. A
// multi-hour class is stored as several entries sharing everything but the
// time slot.
type TimetableEntry struct {
	ID          string    `db:"id" json:"id"`
	SectionID   string    `db:"section_id" json:"section_id"`
	ClassroomID *string   `db:"classroom_id" json:"classroom_id,omitempty"`
	FacultyID   *string   `db:"faculty_id" json:"faculty_id,omitempty"`
	CourseID    *string   `db:"course_id" json:"course_id,omitempty"`
	TimeSlotID  string    `db:"time_slot_id" json:"time_slot_id"`
	DayOfWeek   int       `db:"day_of_week" json:"day_of_week"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// TimetableEntryDetail joins an entry with the display names the grid and
// the absence workflow need.
type TimetableEntryDetail struct {
	TimetableEntry
	SectionName   string  `db:"section_name" json:"section_name"`
	CourseCode    *string `db:"course_code" json:"course_code,omitempty"`
	CourseName    *string `db:"course_name" json:"course_name,omitempty"`
	FacultyName   *string `db:"faculty_name" json:"faculty_name,omitempty"`
	ClassroomName *string `db:"classroom_name" json:"classroom_name,omitempty"`
	SlotNumber    int     `db:"slot_number" json:"slot_number"`
	StartTime     string  `db:"start_time" json:"start_time"`
	EndTime       string  `db:"end_time" json:"end_time"`
}

// TimetableFilter describes query params for listing entries.
type TimetableFilter struct {
	SectionID string
	FacultyID string
	DayOfWeek *int
	Page      int
	PageSize  int
}

// PlacementConflict names the existing entry blocking a placement and the
// resource dimension it collides on.
type PlacementConflict struct {
	EntryID     string `json:"entry_id"`
	SectionID   string `json:"section_id"`
	SectionName string `json:"section_name,omitempty"`
	TimeSlotID  string `json:"time_slot_id"`
	DayOfWeek   int    `json:"day_of_week"`
	Dimension   string `json:"dimension"`
}

// PlacementConflictError is returned when a proposed placement collides with
// an existing active entry.
type PlacementConflictError struct {
	Dimension string            `json:"dimension"`
	Message   string            `json:"message"`
	Conflict  PlacementConflict `json:"conflict"`
}

// Error implements the error interface for conflict errors.
func (e *PlacementConflictError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}
