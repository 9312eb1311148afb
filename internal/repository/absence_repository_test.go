package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/campusgrid-api/internal/models"
)

func TestAbsenceRepositoryListFiltersPending(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewAbsenceRepository(db)

	pending := false
	rows := sqlmock.NewRows([]string{
		"id", "faculty_id", "absence_date", "reason", "substitute_faculty_id", "is_processed", "created_at",
		"faculty_name", "substitute_name",
	}).AddRow("abs-1", "fac-1", "2026-08-31", nil, nil, false, time.Now(), "Dr. Rao", nil)

	mock.ExpectQuery(`SELECT a\.id, .+ LEFT JOIN faculty s .+ WHERE 1=1 AND a\.is_processed = \$1 ORDER BY a\.absence_date DESC`).
		WithArgs(false).
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM faculty_absences a WHERE 1=1 AND a\.is_processed = \$1`).
		WithArgs(false).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	absences, total, err := repo.List(context.Background(), models.AbsenceFilter{Processed: &pending})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, absences, 1)
	assert.Equal(t, "Dr. Rao", absences[0].FacultyName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAbsenceRepositoryCreateAssignsID(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewAbsenceRepository(db)

	mock.ExpectExec(`INSERT INTO faculty_absences`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	absence := &models.FacultyAbsence{FacultyID: "fac-1", AbsenceDate: "2026-08-31"}
	require.NoError(t, repo.Create(context.Background(), absence))
	assert.NotEmpty(t, absence.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAbsenceRepositoryMarkProcessedUsesCallerExecutor(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewAbsenceRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE faculty_absences SET substitute_faculty_id = \$2, is_processed = TRUE WHERE id = \$1`).
		WithArgs("abs-1", "fac-sub").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	tx, err := db.BeginTxx(context.Background(), nil)
	require.NoError(t, err)
	require.NoError(t, repo.MarkProcessed(context.Background(), tx, "abs-1", "fac-sub"))
	require.NoError(t, tx.Commit())
	require.NoError(t, mock.ExpectationsWereMet())
}
