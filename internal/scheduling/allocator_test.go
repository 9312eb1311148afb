package scheduling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/campusgrid-api/internal/models"
	appErrors "github.com/campusgrid/campusgrid-api/pkg/errors"
)

// Six one-hour periods with a lunch gap between slot 3 (12:00) and slot 4
// (14:00).
func daySlots() []models.TimeSlot {
	return []models.TimeSlot{
		{ID: "s1", SlotNumber: 1, StartTime: "10:00", EndTime: "11:00"},
		{ID: "s2", SlotNumber: 2, StartTime: "11:00", EndTime: "12:00"},
		{ID: "s3", SlotNumber: 3, StartTime: "12:00", EndTime: "13:00"},
		{ID: "s4", SlotNumber: 4, StartTime: "14:00", EndTime: "15:00"},
		{ID: "s5", SlotNumber: 5, StartTime: "15:00", EndTime: "16:00"},
		{ID: "s6", SlotNumber: 6, StartTime: "16:00", EndTime: "17:00"},
	}
}

func strPtr(s string) *string { return &s }

func activeEntry(id, sectionID, slotID string, day int, facultyID, classroomID *string) models.TimetableEntryDetail {
	return models.TimetableEntryDetail{
		TimetableEntry: models.TimetableEntry{
			ID:          id,
			SectionID:   sectionID,
			FacultyID:   facultyID,
			ClassroomID: classroomID,
			TimeSlotID:  slotID,
			DayOfWeek:   day,
			IsActive:    true,
		},
		SectionName: "CS-" + sectionID,
	}
}

func TestPlaceSingleHour(t *testing.T) {
	alloc := NewAllocator(DefaultSessions())
	snap := Snapshot{Slots: daySlots()}

	entries, err := alloc.Place(PlacementRequest{
		SectionID:   "sec1",
		FacultyID:   strPtr("f1"),
		ClassroomID: strPtr("r1"),
		DayOfWeek:   1,
		StartSlotID: "s3",
	}, nil, snap)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "s3", entries[0].TimeSlotID)
	assert.True(t, entries[0].IsActive)
}

func TestPlaceTwoHourMorning(t *testing.T) {
	alloc := NewAllocator(DefaultSessions())
	snap := Snapshot{Slots: daySlots()}

	entries, err := alloc.Place(PlacementRequest{
		SectionID:     "sec1",
		FacultyID:     strPtr("f1"),
		DayOfWeek:     2,
		StartSlotID:   "s1",
		DurationHours: 2,
	}, nil, snap)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "s1", entries[0].TimeSlotID)
	assert.Equal(t, "s2", entries[1].TimeSlotID)
	for _, e := range entries {
		assert.Equal(t, "sec1", e.SectionID)
		assert.Equal(t, 2, e.DayOfWeek)
	}
}

func TestPlaceRejectsLunchStraddle(t *testing.T) {
	alloc := NewAllocator(DefaultSessions())
	snap := Snapshot{Slots: daySlots()}

	// A 2-hour lab starting at 12:00 would span periods 3-4 across lunch.
	_, err := alloc.Place(PlacementRequest{
		SectionID:     "sec1",
		DayOfWeek:     1,
		StartSlotID:   "s3",
		DurationHours: 2,
	}, nil, snap)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSessionBoundary.Code, appErrors.FromError(err).Code)
}

func TestPlaceSingleHourSkipsSessionCheck(t *testing.T) {
	alloc := NewAllocator(DefaultSessions())
	snap := Snapshot{Slots: daySlots()}

	for _, slotID := range []string{"s1", "s3", "s4", "s6"} {
		_, err := alloc.Place(PlacementRequest{
			SectionID:   "sec1",
			DayOfWeek:   3,
			StartSlotID: slotID,
		}, nil, snap)
		assert.NoError(t, err, "slot %s", slotID)
	}
}

func TestPlaceInsufficientSlots(t *testing.T) {
	alloc := NewAllocator(DefaultSessions())
	// Day truncated to four periods: a 3-hour afternoon block cannot fit.
	snap := Snapshot{Slots: daySlots()[:4]}

	_, err := alloc.Place(PlacementRequest{
		SectionID:     "sec1",
		DayOfWeek:     1,
		StartSlotID:   "s4",
		DurationHours: 3,
	}, nil, snap)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInsufficientSlots.Code, appErrors.FromError(err).Code)
}

func TestPlaceDurationFromCourse(t *testing.T) {
	alloc := NewAllocator(DefaultSessions())
	snap := Snapshot{Slots: daySlots()}
	lab := &models.Course{ID: "c1", Code: "CS301L", DurationHours: 3, IsLab: true}

	entries, err := alloc.Place(PlacementRequest{
		SectionID:   "sec1",
		CourseID:    strPtr("c1"),
		DayOfWeek:   4,
		StartSlotID: "s4",
	}, lab, snap)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, []string{"s4", "s5", "s6"}, []string{entries[0].TimeSlotID, entries[1].TimeSlotID, entries[2].TimeSlotID})
}

func TestPlaceExplicitDurationOverridesCourse(t *testing.T) {
	alloc := NewAllocator(DefaultSessions())
	snap := Snapshot{Slots: daySlots()}
	course := &models.Course{ID: "c1", DurationHours: 3}

	entries, err := alloc.Place(PlacementRequest{
		SectionID:     "sec1",
		CourseID:      strPtr("c1"),
		DayOfWeek:     4,
		StartSlotID:   "s1",
		DurationHours: 1,
	}, course, snap)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestPlaceFacultyConflict(t *testing.T) {
	alloc := NewAllocator(DefaultSessions())
	snap := Snapshot{
		Slots:   daySlots(),
		Entries: []models.TimetableEntryDetail{activeEntry("e1", "other", "s2", 1, strPtr("f1"), nil)},
	}

	_, err := alloc.Place(PlacementRequest{
		SectionID:   "sec1",
		FacultyID:   strPtr("f1"),
		DayOfWeek:   1,
		StartSlotID: "s2",
	}, nil, snap)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrFacultyConflict.Code, appErrors.FromError(err).Code)

	var conflict *models.PlacementConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "FACULTY", conflict.Dimension)
	assert.Equal(t, "CS-other", conflict.Conflict.SectionName)
}

func TestPlaceClassroomConflict(t *testing.T) {
	alloc := NewAllocator(DefaultSessions())
	snap := Snapshot{
		Slots:   daySlots(),
		Entries: []models.TimetableEntryDetail{activeEntry("e1", "other", "s5", 3, nil, strPtr("r7"))},
	}

	_, err := alloc.Place(PlacementRequest{
		SectionID:   "sec1",
		ClassroomID: strPtr("r7"),
		DayOfWeek:   3,
		StartSlotID: "s5",
	}, nil, snap)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrClassroomConflict.Code, appErrors.FromError(err).Code)
}

func TestPlaceSectionConflictCheckedWithoutFacultyOrRoom(t *testing.T) {
	alloc := NewAllocator(DefaultSessions())
	snap := Snapshot{
		Slots:   daySlots(),
		Entries: []models.TimetableEntryDetail{activeEntry("e1", "sec1", "s1", 5, nil, nil)},
	}

	_, err := alloc.Place(PlacementRequest{
		SectionID:   "sec1",
		DayOfWeek:   5,
		StartSlotID: "s1",
	}, nil, snap)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSectionConflict.Code, appErrors.FromError(err).Code)
}

func TestPlaceConflictInLaterSlotAbortsWholeRequest(t *testing.T) {
	alloc := NewAllocator(DefaultSessions())
	// Occupied at period 2 only; a 3-hour block from period 1 must produce
	// nothing at all.
	snap := Snapshot{
		Slots:   daySlots(),
		Entries: []models.TimetableEntryDetail{activeEntry("e1", "other", "s2", 1, strPtr("f1"), nil)},
	}

	entries, err := alloc.Place(PlacementRequest{
		SectionID:     "sec1",
		FacultyID:     strPtr("f1"),
		DayOfWeek:     1,
		StartSlotID:   "s1",
		DurationHours: 3,
	}, nil, snap)
	require.Error(t, err)
	assert.Nil(t, entries)
}

func TestPlaceIgnoresOtherDaysAndInactiveEntries(t *testing.T) {
	alloc := NewAllocator(DefaultSessions())
	inactive := activeEntry("e1", "sec1", "s1", 1, strPtr("f1"), strPtr("r1"))
	inactive.IsActive = false
	otherDay := activeEntry("e2", "sec1", "s1", 2, strPtr("f1"), strPtr("r1"))
	snap := Snapshot{Slots: daySlots(), Entries: []models.TimetableEntryDetail{inactive, otherDay}}

	_, err := alloc.Place(PlacementRequest{
		SectionID:   "sec1",
		FacultyID:   strPtr("f1"),
		ClassroomID: strPtr("r1"),
		DayOfWeek:   1,
		StartSlotID: "s1",
	}, nil, snap)
	assert.NoError(t, err)
}

func TestPlaceUnknownStartSlot(t *testing.T) {
	alloc := NewAllocator(DefaultSessions())
	snap := Snapshot{Slots: daySlots()}

	_, err := alloc.Place(PlacementRequest{
		SectionID:   "sec1",
		DayOfWeek:   1,
		StartSlotID: "missing",
	}, nil, snap)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPlaceInvalidDay(t *testing.T) {
	alloc := NewAllocator(DefaultSessions())
	snap := Snapshot{Slots: daySlots()}

	for _, day := range []int{-1, 7} {
		_, err := alloc.Place(PlacementRequest{
			SectionID:   "sec1",
			DayOfWeek:   day,
			StartSlotID: "s1",
		}, nil, snap)
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
	}
}

func TestPlaceBatchInvariants(t *testing.T) {
	alloc := NewAllocator(DefaultSessions())
	snap := Snapshot{Slots: daySlots()}

	entries, err := alloc.Place(PlacementRequest{
		SectionID:     "sec1",
		CourseID:      strPtr("c1"),
		FacultyID:     strPtr("f1"),
		ClassroomID:   strPtr("r1"),
		DayOfWeek:     1,
		StartSlotID:   "s1",
		DurationHours: 3,
	}, nil, snap)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	seen := make(map[string]bool)
	for _, e := range entries {
		assert.Equal(t, "sec1", e.SectionID)
		assert.Equal(t, "f1", *e.FacultyID)
		assert.Equal(t, "r1", *e.ClassroomID)
		assert.Equal(t, "c1", *e.CourseID)
		assert.Equal(t, 1, e.DayOfWeek)
		assert.True(t, e.IsActive)
		assert.False(t, seen[e.TimeSlotID], "duplicate slot in batch")
		seen[e.TimeSlotID] = true
	}
}

func TestPlaceCustomSessionWindows(t *testing.T) {
	// An institution with a 2/4 split: lunch after the second period.
	alloc := NewAllocator(SessionWindows{
		Morning:   Window{Start: 1, End: 2},
		Afternoon: Window{Start: 3, End: 6},
	})
	snap := Snapshot{Slots: daySlots()}

	_, err := alloc.Place(PlacementRequest{
		SectionID:     "sec1",
		DayOfWeek:     1,
		StartSlotID:   "s2",
		DurationHours: 2,
	}, nil, snap)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSessionBoundary.Code, appErrors.FromError(err).Code)

	entries, err := alloc.Place(PlacementRequest{
		SectionID:     "sec1",
		DayOfWeek:     1,
		StartSlotID:   "s3",
		DurationHours: 4,
	}, nil, snap)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
}
