package scheduling

import (
	"time"

	"github.com/campusgrid/campusgrid-api/internal/models"
)

// AbsenceImpact is the outcome of resolving a faculty absence: the classes
// left uncovered that weekday and everyone free to take them.
type AbsenceImpact struct {
	DayOfWeek            int                           `json:"day_of_week"`
	AffectedClasses      []models.TimetableEntryDetail `json:"affected_classes"`
	AvailableSubstitutes []models.FacultyRef           `json:"available_substitutes"`
}

// ResolveSubstitutes computes the impact of facultyID being absent on the
// given date. Missing affected classes or an empty candidate pool are valid
// outcomes, never errors.
//
// Substitute availability is matched on slot start time rather than slot id,
// mirroring the behaviour this engine replaces. Two slots sharing a start
// time would be treated as the same instant.
func ResolveSubstitutes(facultyID string, absenceDate time.Time, snap Snapshot, roster []models.Faculty) AbsenceImpact {
	day := int(absenceDate.Weekday())

	impact := AbsenceImpact{
		DayOfWeek:            day,
		AffectedClasses:      []models.TimetableEntryDetail{},
		AvailableSubstitutes: []models.FacultyRef{},
	}

	occupied := make(map[string]struct{})
	for _, entry := range snap.Entries {
		if !entry.IsActive || entry.DayOfWeek != day {
			continue
		}
		if entry.FacultyID != nil && *entry.FacultyID == facultyID {
			impact.AffectedClasses = append(impact.AffectedClasses, entry)
			occupied[entry.StartTime] = struct{}{}
		}
	}

	busy := make(map[string]struct{})
	if len(occupied) > 0 {
		for _, entry := range snap.Entries {
			if !entry.IsActive || entry.DayOfWeek != day || entry.FacultyID == nil {
				continue
			}
			if _, clash := occupied[entry.StartTime]; clash {
				busy[*entry.FacultyID] = struct{}{}
			}
		}
	}

	for _, f := range roster {
		if !f.IsAvailable || f.ID == facultyID {
			continue
		}
		if _, taken := busy[f.ID]; taken {
			continue
		}
		impact.AvailableSubstitutes = append(impact.AvailableSubstitutes, models.FacultyRef{ID: f.ID, Name: f.Name})
	}

	return impact
}
