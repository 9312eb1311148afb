package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/campusgrid-api/internal/models"
	appErrors "github.com/campusgrid/campusgrid-api/pkg/errors"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func detailRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "section_id", "classroom_id", "faculty_id", "course_id", "time_slot_id", "day_of_week", "is_active", "created_at", "updated_at",
		"section_name", "course_code", "course_name", "faculty_name", "classroom_name",
		"slot_number", "start_time", "end_time",
	})
}

func TestTimetableRepositoryListActive(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewTimetableRepository(db)

	now := time.Now()
	rows := detailRows().
		AddRow("e1", "sec-1", nil, "fac-1", "course-1", "s1", 1, true, now, now,
			"CS 3A", "CS301", "Databases", "Dr. Rao", nil, 1, "10:00", "11:00")
	mock.ExpectQuery(`SELECT .+ FROM timetable_entries e\s+JOIN sections s .+ WHERE e\.is_active = TRUE ORDER BY e\.day_of_week, t\.slot_number`).
		WillReturnRows(rows)

	entries, err := repo.ListActive(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "CS 3A", entries[0].SectionName)
	assert.Equal(t, 1, entries[0].SlotNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryListFiltersBySectionAndDay(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewTimetableRepository(db)

	day := 1
	mock.ExpectQuery(`SELECT .+ WHERE e\.is_active = TRUE AND e\.section_id = \$1 AND e\.day_of_week = \$2 ORDER BY`).
		WithArgs("sec-1", 1).
		WillReturnRows(detailRows())
	mock.ExpectQuery(`SELECT COUNT\(\*\) .+ WHERE e\.is_active = TRUE AND e\.section_id = \$1 AND e\.day_of_week = \$2`).
		WithArgs("sec-1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, total, err := repo.List(context.Background(), models.TimetableFilter{SectionID: "sec-1", DayOfWeek: &day})
	require.NoError(t, err)
	assert.Equal(t, 0, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryCreateBatchWritesAllRows(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO timetable_entries`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO timetable_entries`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	entries := []models.TimetableEntry{
		{SectionID: "sec-1", TimeSlotID: "s1", DayOfWeek: 1, IsActive: true},
		{SectionID: "sec-1", TimeSlotID: "s2", DayOfWeek: 1, IsActive: true},
	}
	require.NoError(t, repo.CreateBatch(context.Background(), tx, entries))
	require.NoError(t, tx.Commit())

	assert.NotEmpty(t, entries[0].ID)
	assert.NotEmpty(t, entries[1].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryCreateBatchMapsUniqueViolation(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO timetable_entries`).
		WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)

	err = repo.CreateBatch(context.Background(), tx, []models.TimetableEntry{
		{SectionID: "sec-1", TimeSlotID: "s1", DayOfWeek: 1, IsActive: true},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflictAtCommit.Code, appErrors.FromError(err).Code)
	require.NoError(t, tx.Rollback())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryDeactivateRequiresExistingRow(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewTimetableRepository(db)

	mock.ExpectExec(`UPDATE timetable_entries SET is_active = FALSE`).
		WithArgs("ghost", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Deactivate(context.Background(), "ghost")
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(context.DeadlineExceeded))
}
