package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campusgrid/campusgrid-api/internal/models"
)

func facultyRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "department_id", "designation", "specialization", "is_available", "created_at"})
}

func TestFacultyRepositoryListAppliesSearch(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewFacultyRepository(db)

	rows := facultyRows().AddRow("fac-1", "Dr. Rao", "rao@example.edu", nil, nil, nil, true, time.Now())
	mock.ExpectQuery(`SELECT .+ FROM faculty WHERE 1=1 AND \(LOWER\(name\) LIKE \$1 OR LOWER\(email\) LIKE \$1\) ORDER BY name ASC`).
		WithArgs("%rao%").
		WillReturnRows(rows)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM faculty WHERE 1=1 AND \(LOWER\(name\) LIKE \$1 OR LOWER\(email\) LIKE \$1\)`).
		WithArgs("%rao%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	faculty, total, err := repo.List(context.Background(), models.FacultyFilter{Search: "Rao"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, faculty, 1)
	assert.Equal(t, "Dr. Rao", faculty[0].Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryListRoster(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewFacultyRepository(db)

	rows := facultyRows().
		AddRow("fac-1", "Dr. Iyer", "iyer@example.edu", nil, nil, nil, true, time.Now()).
		AddRow("fac-2", "Dr. Rao", "rao@example.edu", nil, nil, nil, false, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, email, department_id, designation, specialization, is_available, created_at FROM faculty ORDER BY name ASC")).
		WillReturnRows(rows)

	roster, err := repo.ListRoster(context.Background())
	require.NoError(t, err)
	require.Len(t, roster, 2)
	assert.False(t, roster[1].IsAvailable)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFacultyRepositoryFindByID(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewFacultyRepository(db)

	mock.ExpectQuery(`SELECT .+ FROM faculty WHERE id = \$1`).
		WithArgs("fac-1").
		WillReturnRows(facultyRows().AddRow("fac-1", "Dr. Rao", "rao@example.edu", nil, nil, nil, true, time.Now()))

	f, err := repo.FindByID(context.Background(), "fac-1")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Rao", f.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}
