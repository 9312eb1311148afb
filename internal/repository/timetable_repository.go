package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/campusgrid/campusgrid-api/internal/models"
	appErrors "github.com/campusgrid/campusgrid-api/pkg/errors"
)

const entryDetailColumns = `e.id, e.section_id, e.classroom_id, e.faculty_id, e.course_id, e.time_slot_id, e.day_of_week, e.is_active, e.created_at, e.updated_at,
	s.name AS section_name, c.code AS course_code, c.name AS course_name, f.name AS faculty_name, r.name AS classroom_name,
	t.slot_number, t.start_time, t.end_time`

const entryDetailJoins = `FROM timetable_entries e
	JOIN sections s ON s.id = e.section_id
	JOIN time_slots t ON t.id = e.time_slot_id
	LEFT JOIN courses c ON c.id = e.course_id
	LEFT JOIN faculty f ON f.id = e.faculty_id
	LEFT JOIN classrooms r ON r.id = e.classroom_id`

// TimetableRepository provides persistence for timetable entries.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository creates a new timetable repository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// ListActive returns the active-entry snapshot the allocator and resolver
// run against, joined with slots for slot_number/start_time.
func (r *TimetableRepository) ListActive(ctx context.Context) ([]models.TimetableEntryDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE e.is_active = TRUE ORDER BY e.day_of_week, t.slot_number", entryDetailColumns, entryDetailJoins)
	var entries []models.TimetableEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list active entries: %w", err)
	}
	return entries, nil
}

// List returns entries with optional filtering and pagination.
func (r *TimetableRepository) List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableEntryDetail, int, error) {
	base := entryDetailJoins + " WHERE e.is_active = TRUE"
	var conditions []string
	var args []interface{}

	if filter.SectionID != "" {
		conditions = append(conditions, fmt.Sprintf("e.section_id = $%d", len(args)+1))
		args = append(args, filter.SectionID)
	}
	if filter.FacultyID != "" {
		conditions = append(conditions, fmt.Sprintf("e.faculty_id = $%d", len(args)+1))
		args = append(args, filter.FacultyID)
	}
	if filter.DayOfWeek != nil {
		conditions = append(conditions, fmt.Sprintf("e.day_of_week = $%d", len(args)+1))
		args = append(args, *filter.DayOfWeek)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT %s %s ORDER BY e.day_of_week, t.slot_number LIMIT %d OFFSET %d", entryDetailColumns, base, size, offset)
	var entries []models.TimetableEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list entries: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count entries: %w", err)
	}

	return entries, total, nil
}

// ListByFaculty returns a faculty member's active entries.
func (r *TimetableRepository) ListByFaculty(ctx context.Context, facultyID string) ([]models.TimetableEntryDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE e.is_active = TRUE AND e.faculty_id = $1 ORDER BY e.day_of_week, t.slot_number", entryDetailColumns, entryDetailJoins)
	var entries []models.TimetableEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, facultyID); err != nil {
		return nil, fmt.Errorf("list faculty entries: %w", err)
	}
	return entries, nil
}

// ListBySection returns a section's active entries.
func (r *TimetableRepository) ListBySection(ctx context.Context, sectionID string) ([]models.TimetableEntryDetail, error) {
	query := fmt.Sprintf("SELECT %s %s WHERE e.is_active = TRUE AND e.section_id = $1 ORDER BY e.day_of_week, t.slot_number", entryDetailColumns, entryDetailJoins)
	var entries []models.TimetableEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, sectionID); err != nil {
		return nil, fmt.Errorf("list section entries: %w", err)
	}
	return entries, nil
}

// FindByID loads one entry.
func (r *TimetableRepository) FindByID(ctx context.Context, id string) (*models.TimetableEntry, error) {
	const query = `SELECT id, section_id, classroom_id, faculty_id, course_id, time_slot_id, day_of_week, is_active, created_at, updated_at FROM timetable_entries WHERE id = $1`
	var entry models.TimetableEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreateBatch inserts all entries through the provided executor, so the
// caller controls the transaction. Rows are written in slot order.
func (r *TimetableRepository) CreateBatch(ctx context.Context, exec sqlx.ExtContext, entries []models.TimetableEntry) error {
	const query = `INSERT INTO timetable_entries (id, section_id, classroom_id, faculty_id, course_id, time_slot_id, day_of_week, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	now := time.Now().UTC()
	for i := range entries {
		if entries[i].ID == "" {
			entries[i].ID = uuid.NewString()
		}
		entries[i].CreatedAt = now
		entries[i].UpdatedAt = now
		if _, err := exec.ExecContext(ctx, query,
			entries[i].ID,
			entries[i].SectionID,
			entries[i].ClassroomID,
			entries[i].FacultyID,
			entries[i].CourseID,
			entries[i].TimeSlotID,
			entries[i].DayOfWeek,
			entries[i].IsActive,
			entries[i].CreatedAt,
			entries[i].UpdatedAt,
		); err != nil {
			if IsUniqueViolation(err) {
				return appErrors.Wrap(err, appErrors.ErrConflictAtCommit.Code, appErrors.ErrConflictAtCommit.Status, appErrors.ErrConflictAtCommit.Message)
			}
			return fmt.Errorf("insert entry: %w", err)
		}
	}
	return nil
}

// Deactivate soft-deletes an entry.
func (r *TimetableRepository) Deactivate(ctx context.Context, id string) error {
	const query = `UPDATE timetable_entries SET is_active = FALSE, updated_at = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("deactivate entry: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("deactivate entry %s: no rows", id)
	}
	return nil
}

// IsUniqueViolation reports whether the error is a Postgres unique-constraint
// rejection, the signal a concurrent request won the slot between the
// snapshot check and the write.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
