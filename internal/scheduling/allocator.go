package scheduling

import (
	"fmt"

	"github.com/campusgrid/campusgrid-api/internal/models"
	appErrors "github.com/campusgrid/campusgrid-api/pkg/errors"
)

// Snapshot is the read model one placement or absence decision runs against.
// Entries must already be filtered to is_active and joined with their time
// slot. The allocator never reads or writes outside of it.
type Snapshot struct {
	Slots   []models.TimeSlot
	Entries []models.TimetableEntryDetail
}

// PlacementRequest proposes occupying a weekday slot (or a contiguous run of
// slots) for a section. Faculty and classroom are optional; the section is
// always checked.
type PlacementRequest struct {
	SectionID     string
	CourseID      *string
	FacultyID     *string
	ClassroomID   *string
	DayOfWeek     int
	StartSlotID   string
	DurationHours int // 0 means derive from the course, then default to 1
}

// Allocator validates placements against a snapshot and produces the entry
// batch to persist. It is stateless; the session windows are injected
// configuration.
type Allocator struct {
	sessions SessionWindows
}

// NewAllocator builds an allocator for the given session windows.
func NewAllocator(sessions SessionWindows) *Allocator {
	if sessions.Morning.End < sessions.Morning.Start || sessions.Afternoon.End < sessions.Afternoon.Start {
		sessions = DefaultSessions()
	}
	return &Allocator{sessions: sessions}
}

// Place resolves the occupied slot range, checks session containment and the
// three conflict dimensions, and returns one entry per occupied slot in slot
// order. The first conflict anywhere in the range aborts the whole request;
// partial placement is never produced.
func (a *Allocator) Place(req PlacementRequest, course *models.Course, snap Snapshot) ([]models.TimetableEntry, error) {
	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "day_of_week must be between 0 and 6")
	}

	start, ok := slotByID(snap.Slots, req.StartSlotID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "start time slot not found")
	}

	duration := req.DurationHours
	if duration == 0 && course != nil {
		duration = course.DurationHours
	}
	if duration == 0 {
		duration = 1
	}
	if duration < 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "duration_hours must be a positive integer")
	}

	occupied, err := a.resolveRange(start, duration, snap.Slots)
	if err != nil {
		return nil, err
	}

	for _, slot := range occupied {
		if err := a.scanConflicts(req, slot, snap.Entries); err != nil {
			return nil, err
		}
	}

	entries := make([]models.TimetableEntry, 0, len(occupied))
	for _, slot := range occupied {
		entries = append(entries, models.TimetableEntry{
			SectionID:   req.SectionID,
			ClassroomID: req.ClassroomID,
			FacultyID:   req.FacultyID,
			CourseID:    req.CourseID,
			TimeSlotID:  slot.ID,
			DayOfWeek:   req.DayOfWeek,
			IsActive:    true,
		})
	}
	return entries, nil
}

// resolveRange maps [start, start+duration-1] onto concrete slots and
// applies session containment for multi-hour requests.
func (a *Allocator) resolveRange(start models.TimeSlot, duration int, slots []models.TimeSlot) ([]models.TimeSlot, error) {
	end := start.SlotNumber + duration - 1

	if duration > 1 {
		if !a.sessions.Morning.Contains(start.SlotNumber, end) && !a.sessions.Afternoon.Contains(start.SlotNumber, end) {
			return nil, appErrors.Clone(appErrors.ErrSessionBoundary,
				fmt.Sprintf("a %d-hour placement starting at period %d would cross the session boundary", duration, start.SlotNumber))
		}
	}

	byNumber := make(map[int]models.TimeSlot, len(slots))
	for _, s := range slots {
		byNumber[s.SlotNumber] = s
	}

	occupied := make([]models.TimeSlot, 0, duration)
	for n := start.SlotNumber; n <= end; n++ {
		slot, ok := byNumber[n]
		if !ok {
			return nil, appErrors.Clone(appErrors.ErrInsufficientSlots,
				fmt.Sprintf("no consecutive slot available for period %d", n))
		}
		occupied = append(occupied, slot)
	}
	return occupied, nil
}

// scanConflicts checks one occupied slot against every active entry on the
// same weekday, faculty first, then classroom, then section.
func (a *Allocator) scanConflicts(req PlacementRequest, slot models.TimeSlot, entries []models.TimetableEntryDetail) error {
	for _, entry := range entries {
		if !entry.IsActive || entry.DayOfWeek != req.DayOfWeek || entry.TimeSlotID != slot.ID {
			continue
		}
		if req.FacultyID != nil && entry.FacultyID != nil && *entry.FacultyID == *req.FacultyID {
			return conflictError(appErrors.ErrFacultyConflict, "FACULTY",
				fmt.Sprintf("faculty already teaches %s at this time", entry.SectionName), entry)
		}
		if req.ClassroomID != nil && entry.ClassroomID != nil && *entry.ClassroomID == *req.ClassroomID {
			return conflictError(appErrors.ErrClassroomConflict, "CLASSROOM",
				fmt.Sprintf("classroom is occupied by %s at this time", entry.SectionName), entry)
		}
		if entry.SectionID == req.SectionID {
			return conflictError(appErrors.ErrSectionConflict, "SECTION",
				"section already has a class scheduled at this time", entry)
		}
	}
	return nil
}

func conflictError(base *appErrors.Error, dimension, message string, entry models.TimetableEntryDetail) error {
	domainErr := &models.PlacementConflictError{
		Dimension: dimension,
		Message:   message,
		Conflict: models.PlacementConflict{
			EntryID:     entry.ID,
			SectionID:   entry.SectionID,
			SectionName: entry.SectionName,
			TimeSlotID:  entry.TimeSlotID,
			DayOfWeek:   entry.DayOfWeek,
			Dimension:   dimension,
		},
	}
	return appErrors.Wrap(domainErr, base.Code, base.Status, message)
}

func slotByID(slots []models.TimeSlot, id string) (models.TimeSlot, bool) {
	for _, s := range slots {
		if s.ID == id {
			return s, true
		}
	}
	return models.TimeSlot{}, false
}
