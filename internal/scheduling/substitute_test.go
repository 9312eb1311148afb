package scheduling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/campusgrid-api/internal/models"
)

func teachingEntry(id, facultyID, slotID, startTime string, day int) models.TimetableEntryDetail {
	fid := facultyID
	return models.TimetableEntryDetail{
		TimetableEntry: models.TimetableEntry{
			ID:         id,
			SectionID:  "sec-" + id,
			FacultyID:  &fid,
			TimeSlotID: slotID,
			DayOfWeek:  day,
			IsActive:   true,
		},
		SectionName: "CS-" + id,
		StartTime:   startTime,
	}
}

func roster(available ...string) []models.Faculty {
	out := make([]models.Faculty, 0, len(available))
	for _, id := range available {
		out = append(out, models.Faculty{ID: id, Name: "Prof " + id, IsAvailable: true})
	}
	return out
}

// 2026-08-31 is a Monday.
var monday = time.Date(2026, time.August, 31, 0, 0, 0, 0, time.UTC)

func TestResolveSubstitutesBusyFacultyExcluded(t *testing.T) {
	// F teaches Monday 11:00; G teaches a different section at 11:00 too;
	// H is free.
	snap := Snapshot{Entries: []models.TimetableEntryDetail{
		teachingEntry("1", "F", "s2", "11:00", 1),
		teachingEntry("2", "G", "s2", "11:00", 1),
	}}

	impact := ResolveSubstitutes("F", monday, snap, roster("G", "H"))

	require.Len(t, impact.AffectedClasses, 1)
	assert.Equal(t, "s2", impact.AffectedClasses[0].TimeSlotID)
	require.Len(t, impact.AvailableSubstitutes, 1)
	assert.Equal(t, "H", impact.AvailableSubstitutes[0].ID)
}

func TestResolveSubstitutesNoClassesIsNoOp(t *testing.T) {
	// F teaches Tuesday only; a Monday absence affects nothing and the
	// whole roster minus F stays available.
	snap := Snapshot{Entries: []models.TimetableEntryDetail{
		teachingEntry("1", "F", "s2", "11:00", 2),
		teachingEntry("2", "G", "s2", "11:00", 1),
	}}

	impact := ResolveSubstitutes("F", monday, snap, roster("F", "G", "H"))

	assert.Empty(t, impact.AffectedClasses)
	require.Len(t, impact.AvailableSubstitutes, 2)
	assert.Equal(t, "G", impact.AvailableSubstitutes[0].ID)
	assert.Equal(t, "H", impact.AvailableSubstitutes[1].ID)
}

func TestResolveSubstitutesSelfAndUnavailableExcluded(t *testing.T) {
	snap := Snapshot{Entries: []models.TimetableEntryDetail{
		teachingEntry("1", "F", "s1", "10:00", 1),
	}}
	pool := roster("G")
	pool = append(pool, models.Faculty{ID: "U", Name: "Prof U", IsAvailable: false})
	pool = append(pool, models.Faculty{ID: "F", Name: "Prof F", IsAvailable: true})

	impact := ResolveSubstitutes("F", monday, snap, pool)

	require.Len(t, impact.AvailableSubstitutes, 1)
	assert.Equal(t, "G", impact.AvailableSubstitutes[0].ID)
}

func TestResolveSubstitutesMatchesOnStartTimeAcrossSlots(t *testing.T) {
	// G teaches at a different slot id whose start time collides with F's
	// class; start-time matching treats them as the same instant.
	snap := Snapshot{Entries: []models.TimetableEntryDetail{
		teachingEntry("1", "F", "s2", "11:00", 1),
		teachingEntry("2", "G", "s2b", "11:00", 1),
	}}

	impact := ResolveSubstitutes("F", monday, snap, roster("G"))

	assert.Empty(t, impact.AvailableSubstitutes)
}

func TestResolveSubstitutesMultipleAffectedClasses(t *testing.T) {
	// F teaches twice on Monday. G clashes with the second class only, H
	// with neither.
	snap := Snapshot{Entries: []models.TimetableEntryDetail{
		teachingEntry("1", "F", "s1", "10:00", 1),
		teachingEntry("2", "F", "s4", "14:00", 1),
		teachingEntry("3", "G", "s4", "14:00", 1),
	}}

	impact := ResolveSubstitutes("F", monday, snap, roster("G", "H"))

	assert.Len(t, impact.AffectedClasses, 2)
	require.Len(t, impact.AvailableSubstitutes, 1)
	assert.Equal(t, "H", impact.AvailableSubstitutes[0].ID)
}

func TestResolveSubstitutesIgnoresInactiveEntries(t *testing.T) {
	blocked := teachingEntry("2", "G", "s1", "10:00", 1)
	blocked.IsActive = false
	snap := Snapshot{Entries: []models.TimetableEntryDetail{
		teachingEntry("1", "F", "s1", "10:00", 1),
		blocked,
	}}

	impact := ResolveSubstitutes("F", monday, snap, roster("G"))

	require.Len(t, impact.AvailableSubstitutes, 1)
	assert.Equal(t, "G", impact.AvailableSubstitutes[0].ID)
}

func TestResolveSubstitutesWeekdayDomain(t *testing.T) {
	sunday := time.Date(2026, time.August, 30, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, time.September, 5, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, ResolveSubstitutes("F", sunday, Snapshot{}, nil).DayOfWeek)
	assert.Equal(t, 1, ResolveSubstitutes("F", monday, Snapshot{}, nil).DayOfWeek)
	assert.Equal(t, 6, ResolveSubstitutes("F", saturday, Snapshot{}, nil).DayOfWeek)
}
