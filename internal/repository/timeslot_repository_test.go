package repository

import (
	"context"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeSlotRepositoryListOrdersBySlotNumber(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewTimeSlotRepository(db)

	rows := sqlmock.NewRows([]string{"id", "slot_number", "start_time", "end_time"}).
		AddRow("s1", 1, "10:00", "11:00").
		AddRow("s2", 2, "11:00", "12:00")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, slot_number, start_time, end_time FROM time_slots ORDER BY slot_number")).
		WillReturnRows(rows)

	slots, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, 1, slots[0].SlotNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimeSlotRepositoryFindByID(t *testing.T) {
	db, mock := newRepoMock(t)
	repo := NewTimeSlotRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, slot_number, start_time, end_time FROM time_slots WHERE id = $1")).
		WithArgs("s4").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slot_number", "start_time", "end_time"}).AddRow("s4", 4, "14:00", "15:00"))

	slot, err := repo.FindByID(context.Background(), "s4")
	require.NoError(t, err)
	assert.Equal(t, 4, slot.SlotNumber)
	require.NoError(t, mock.ExpectationsWereMet())
}
