package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusgrid/campusgrid-api/internal/models"
)

// ReallocationRepository appends substitution records. The log is
// append-only; there is no update or delete path.
type ReallocationRepository struct {
	db *sqlx.DB
}

// NewReallocationRepository constructs a ReallocationRepository.
func NewReallocationRepository(db *sqlx.DB) *ReallocationRepository {
	return &ReallocationRepository{db: db}
}

// InsertBatch appends one log row per affected entry through the caller's
// executor.
func (r *ReallocationRepository) InsertBatch(ctx context.Context, exec sqlx.ExtContext, logs []models.ReallocationLog) error {
	const query = `INSERT INTO reallocation_logs (id, original_entry_id, original_faculty_id, substitute_faculty_id, reallocation_date, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	now := time.Now().UTC()
	for i := range logs {
		if logs[i].ID == "" {
			logs[i].ID = uuid.NewString()
		}
		logs[i].CreatedAt = now
		if _, err := exec.ExecContext(ctx, query,
			logs[i].ID,
			logs[i].OriginalEntryID,
			logs[i].OriginalFacultyID,
			logs[i].SubstituteFacultyID,
			logs[i].ReallocationDate,
			logs[i].Reason,
			logs[i].CreatedAt,
		); err != nil {
			return fmt.Errorf("insert reallocation log: %w", err)
		}
	}
	return nil
}

// ListByDate returns the substitutions recorded for a date.
func (r *ReallocationRepository) ListByDate(ctx context.Context, date string) ([]models.ReallocationLog, error) {
	const query = `SELECT id, original_entry_id, original_faculty_id, substitute_faculty_id, reallocation_date::text AS reallocation_date, reason, created_at
		FROM reallocation_logs WHERE reallocation_date = $1 ORDER BY created_at`
	var logs []models.ReallocationLog
	if err := r.db.SelectContext(ctx, &logs, query, date); err != nil {
		return nil, fmt.Errorf("list reallocations: %w", err)
	}
	return logs, nil
}
