package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/campusgrid-api/internal/models"
	appErrors "github.com/campusgrid/campusgrid-api/pkg/errors"
)

func newExportFixture(entries []models.TimetableEntryDetail) *ExportService {
	sections := &mockSectionReader{sections: map[string]models.Section{
		"sec-1": {ID: "sec-1", Name: "CS 3A"},
	}}
	repo := &mockTimetableRepo{active: entries}
	return NewExportService(sections, repo, &mockSlotLister{slots: serviceSlots()}, nil)
}

func TestSectionTimetableCSVLaysOutWeekGrid(t *testing.T) {
	entries := []models.TimetableEntryDetail{{
		TimetableEntry: models.TimetableEntry{
			ID: "e1", SectionID: "sec-1", TimeSlotID: "s1", DayOfWeek: 1, IsActive: true,
		},
		SectionName:   "CS 3A",
		CourseCode:    strPtr("CS301"),
		FacultyName:   strPtr("Dr. Rao"),
		ClassroomName: strPtr("B-204"),
	}}
	svc := newExportFixture(entries)

	result, err := svc.SectionTimetableCSV(context.Background(), "sec-1")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Equal(t, "timetable-cs-3a.csv", result.Filename)

	lines := strings.Split(strings.TrimSpace(string(result.Content)), "\n")
	require.Len(t, lines, 7) // header plus one row per slot
	assert.Contains(t, lines[0], "Monday")
	assert.Contains(t, lines[1], "CS301 / Dr. Rao / B-204")
}

func TestSectionTimetableCSVUnknownSection(t *testing.T) {
	svc := newExportFixture(nil)

	_, err := svc.SectionTimetableCSV(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestSectionTimetablePDFRenders(t *testing.T) {
	svc := newExportFixture(nil)

	result, err := svc.SectionTimetablePDF(context.Background(), "sec-1")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.Equal(t, "timetable-cs-3a.pdf", result.Filename)
	assert.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}
