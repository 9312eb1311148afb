package service

import (
	"context"
	"database/sql"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/campusgrid-api/internal/models"
	appErrors "github.com/campusgrid/campusgrid-api/pkg/errors"
)

type mockAbsenceRepo struct {
	absences  map[string]models.FacultyAbsence
	created   *models.FacultyAbsence
	processed map[string]string
}

func (m *mockAbsenceRepo) List(ctx context.Context, filter models.AbsenceFilter) ([]models.FacultyAbsenceDetail, int, error) {
	var out []models.FacultyAbsenceDetail
	for _, a := range m.absences {
		out = append(out, models.FacultyAbsenceDetail{FacultyAbsence: a})
	}
	return out, len(out), nil
}

func (m *mockAbsenceRepo) FindByID(ctx context.Context, id string) (*models.FacultyAbsence, error) {
	if a, ok := m.absences[id]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAbsenceRepo) Create(ctx context.Context, absence *models.FacultyAbsence) error {
	if m.absences == nil {
		m.absences = make(map[string]models.FacultyAbsence)
	}
	if absence.ID == "" {
		absence.ID = "abs-new"
	}
	m.absences[absence.ID] = *absence
	m.created = absence
	return nil
}

func (m *mockAbsenceRepo) MarkProcessed(ctx context.Context, exec sqlx.ExtContext, id, substituteFacultyID string) error {
	if m.processed == nil {
		m.processed = make(map[string]string)
	}
	m.processed[id] = substituteFacultyID
	if a, ok := m.absences[id]; ok {
		a.IsProcessed = true
		a.SubstituteFacultyID = &substituteFacultyID
		m.absences[id] = a
	}
	return nil
}

type mockReallocationWriter struct {
	logs []models.ReallocationLog
	err  error
}

func (m *mockReallocationWriter) InsertBatch(ctx context.Context, exec sqlx.ExtContext, logs []models.ReallocationLog) error {
	if m.err != nil {
		return m.err
	}
	m.logs = append(m.logs, logs...)
	return nil
}

type mockFacultyRoster struct {
	faculty map[string]models.Faculty
}

func (m *mockFacultyRoster) FindByID(ctx context.Context, id string) (*models.Faculty, error) {
	if f, ok := m.faculty[id]; ok {
		return &f, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockFacultyRoster) ListRoster(ctx context.Context) ([]models.Faculty, error) {
	out := make([]models.Faculty, 0, len(m.faculty))
	for _, f := range m.faculty {
		out = append(out, f)
	}
	return out, nil
}

type mockEntryLister struct {
	entries []models.TimetableEntryDetail
}

func (m *mockEntryLister) ListActive(ctx context.Context) ([]models.TimetableEntryDetail, error) {
	return m.entries, nil
}

// mondayEntry is a class taught by fac-absent on Monday in slot s1.
func mondayEntry(id, facultyID, slotID, start string) models.TimetableEntryDetail {
	return models.TimetableEntryDetail{
		TimetableEntry: models.TimetableEntry{
			ID: id, SectionID: "sec-1", FacultyID: &facultyID,
			TimeSlotID: slotID, DayOfWeek: 1, IsActive: true,
		},
		SectionName: "CS 3A",
		StartTime:   start,
	}
}

func newAbsenceFixture(t *testing.T, entries []models.TimetableEntryDetail) (*AbsenceService, *mockAbsenceRepo, *mockReallocationWriter, sqlmock.Sqlmock) {
	// 2026-08-31 is a Monday.
	absences := &mockAbsenceRepo{absences: map[string]models.FacultyAbsence{
		"abs-1": {ID: "abs-1", FacultyID: "fac-absent", AbsenceDate: "2026-08-31"},
	}}
	reallocations := &mockReallocationWriter{}
	roster := &mockFacultyRoster{faculty: map[string]models.Faculty{
		"fac-absent": {ID: "fac-absent", Name: "Dr. Rao", IsAvailable: true},
		"fac-free":   {ID: "fac-free", Name: "Dr. Iyer", IsAvailable: true},
		"fac-busy":   {ID: "fac-busy", Name: "Dr. Khan", IsAvailable: true},
	}}
	tx, mock := newTxProviderMock(t)
	svc := NewAbsenceService(absences, reallocations, roster, &mockEntryLister{entries: entries}, tx, nil, nil, nil)
	return svc, absences, reallocations, mock
}

func TestReportAbsenceValidatesDate(t *testing.T) {
	svc, _, _, _ := newAbsenceFixture(t, nil)

	_, err := svc.Report(context.Background(), ReportAbsenceRequest{
		FacultyID:   "fac-absent",
		AbsenceDate: "31-08-2026",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestReportAbsenceRejectsUnknownFaculty(t *testing.T) {
	svc, _, _, _ := newAbsenceFixture(t, nil)

	_, err := svc.Report(context.Background(), ReportAbsenceRequest{
		FacultyID:   "ghost",
		AbsenceDate: "2026-08-31",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestReportAbsenceCreatesPendingRecord(t *testing.T) {
	svc, absences, _, _ := newAbsenceFixture(t, nil)

	created, err := svc.Report(context.Background(), ReportAbsenceRequest{
		FacultyID:   "fac-absent",
		AbsenceDate: "2026-08-31",
	})
	require.NoError(t, err)
	assert.False(t, created.IsProcessed)
	assert.Equal(t, created, absences.created)
}

func TestResolveImpactFindsAffectedClassesAndFreeSubstitutes(t *testing.T) {
	entries := []models.TimetableEntryDetail{
		mondayEntry("e1", "fac-absent", "s1", "10:00"),
		mondayEntry("e2", "fac-busy", "s1", "10:00"),
	}
	svc, _, _, _ := newAbsenceFixture(t, entries)

	impact, err := svc.ResolveImpact(context.Background(), "abs-1")
	require.NoError(t, err)
	assert.Equal(t, 1, impact.DayOfWeek)
	require.Len(t, impact.AffectedClasses, 1)
	assert.Equal(t, "e1", impact.AffectedClasses[0].ID)
	require.Len(t, impact.AvailableSubstitutes, 1)
	assert.Equal(t, "fac-free", impact.AvailableSubstitutes[0].ID)
}

func TestResolveImpactUnknownAbsence(t *testing.T) {
	svc, _, _, _ := newAbsenceFixture(t, nil)

	_, err := svc.ResolveImpact(context.Background(), "ghost")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestProcessAbsenceWritesLogsAndMarksProcessed(t *testing.T) {
	entries := []models.TimetableEntryDetail{
		mondayEntry("e1", "fac-absent", "s1", "10:00"),
		mondayEntry("e2", "fac-absent", "s4", "14:00"),
	}
	svc, absences, reallocations, mock := newAbsenceFixture(t, entries)
	mock.ExpectBegin()
	mock.ExpectCommit()

	impact, err := svc.Process(context.Background(), "abs-1", ProcessAbsenceRequest{SubstituteFacultyID: "fac-free"})
	require.NoError(t, err)
	assert.Len(t, impact.AffectedClasses, 2)
	require.Len(t, reallocations.logs, 2)
	assert.Equal(t, "e1", *reallocations.logs[0].OriginalEntryID)
	assert.Equal(t, "fac-free", *reallocations.logs[0].SubstituteFacultyID)
	assert.Equal(t, "2026-08-31", reallocations.logs[0].ReallocationDate)
	assert.Equal(t, "fac-free", absences.processed["abs-1"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProcessAbsenceRejectsAlreadyProcessed(t *testing.T) {
	svc, absences, _, _ := newAbsenceFixture(t, nil)
	done := absences.absences["abs-1"]
	done.IsProcessed = true
	absences.absences["abs-1"] = done

	_, err := svc.Process(context.Background(), "abs-1", ProcessAbsenceRequest{SubstituteFacultyID: "fac-free"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
}

func TestProcessAbsenceRejectsSelfSubstitution(t *testing.T) {
	svc, _, _, _ := newAbsenceFixture(t, nil)

	_, err := svc.Process(context.Background(), "abs-1", ProcessAbsenceRequest{SubstituteFacultyID: "fac-absent"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestProcessAbsenceRejectsBusySubstitute(t *testing.T) {
	entries := []models.TimetableEntryDetail{
		mondayEntry("e1", "fac-absent", "s1", "10:00"),
		mondayEntry("e2", "fac-busy", "s1", "10:00"),
	}
	svc, _, reallocations, _ := newAbsenceFixture(t, entries)

	_, err := svc.Process(context.Background(), "abs-1", ProcessAbsenceRequest{SubstituteFacultyID: "fac-busy"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)
	assert.Empty(t, reallocations.logs)
}

func TestProcessAbsenceWithNoAffectedClasses(t *testing.T) {
	svc, absences, reallocations, mock := newAbsenceFixture(t, nil)
	mock.ExpectBegin()
	mock.ExpectCommit()

	impact, err := svc.Process(context.Background(), "abs-1", ProcessAbsenceRequest{SubstituteFacultyID: "fac-free"})
	require.NoError(t, err)
	assert.Empty(t, impact.AffectedClasses)
	assert.Empty(t, reallocations.logs)
	assert.Equal(t, "fac-free", absences.processed["abs-1"])
	assert.NoError(t, mock.ExpectationsWereMet())
}
