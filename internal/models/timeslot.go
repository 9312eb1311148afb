package models

// TimeSlot is the atomic one-hour scheduling unit. Slot numbers are
// contiguous integers ordered with start time.
type TimeSlot struct {
	ID         string `db:"id" json:"id"`
	SlotNumber int    `db:"slot_number" json:"slot_number"`
	StartTime  string `db:"start_time" json:"start_time"`
	EndTime    string `db:"end_time" json:"end_time"`
}
