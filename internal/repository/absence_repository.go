package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusgrid/campusgrid-api/internal/models"
)

// AbsenceRepository manages persistence for faculty absences.
type AbsenceRepository struct {
	db *sqlx.DB
}

// NewAbsenceRepository constructs an AbsenceRepository.
func NewAbsenceRepository(db *sqlx.DB) *AbsenceRepository {
	return &AbsenceRepository{db: db}
}

const absenceDetailQuery = `SELECT a.id, a.faculty_id, a.absence_date::text AS absence_date, a.reason, a.substitute_faculty_id, a.is_processed, a.created_at,
	f.name AS faculty_name, s.name AS substitute_name
	FROM faculty_absences a
	JOIN faculty f ON f.id = a.faculty_id
	LEFT JOIN faculty s ON s.id = a.substitute_faculty_id`

// List returns absences with faculty names, newest first.
func (r *AbsenceRepository) List(ctx context.Context, filter models.AbsenceFilter) ([]models.FacultyAbsenceDetail, int, error) {
	base := "WHERE 1=1"
	var conditions []string
	var args []interface{}

	if filter.FacultyID != "" {
		conditions = append(conditions, fmt.Sprintf("a.faculty_id = $%d", len(args)+1))
		args = append(args, filter.FacultyID)
	}
	if filter.Processed != nil {
		conditions = append(conditions, fmt.Sprintf("a.is_processed = $%d", len(args)+1))
		args = append(args, *filter.Processed)
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
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("%s %s ORDER BY a.absence_date DESC LIMIT %d OFFSET %d", absenceDetailQuery, base, size, offset)
	var absences []models.FacultyAbsenceDetail
	if err := r.db.SelectContext(ctx, &absences, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list absences: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM faculty_absences a %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count absences: %w", err)
	}

	return absences, total, nil
}

// FindByID loads one absence.
func (r *AbsenceRepository) FindByID(ctx context.Context, id string) (*models.FacultyAbsence, error) {
	const query = `SELECT id, faculty_id, absence_date::text AS absence_date, reason, substitute_faculty_id, is_processed, created_at FROM faculty_absences WHERE id = $1`
	var absence models.FacultyAbsence
	if err := r.db.GetContext(ctx, &absence, query, id); err != nil {
		return nil, err
	}
	return &absence, nil
}

// Create inserts a pending absence.
func (r *AbsenceRepository) Create(ctx context.Context, absence *models.FacultyAbsence) error {
	if absence.ID == "" {
		absence.ID = uuid.NewString()
	}
	absence.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO faculty_absences (id, faculty_id, absence_date, reason, substitute_faculty_id, is_processed, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.db.ExecContext(ctx, query, absence.ID, absence.FacultyID, absence.AbsenceDate, absence.Reason, absence.SubstituteFacultyID, absence.IsProcessed, absence.CreatedAt); err != nil {
		return fmt.Errorf("create absence: %w", err)
	}
	return nil
}

// MarkProcessed records the substitute and flips the processed flag. Runs
// through the caller's executor so it can share the reallocation transaction.
func (r *AbsenceRepository) MarkProcessed(ctx context.Context, exec sqlx.ExtContext, id, substituteFacultyID string) error {
	const query = `UPDATE faculty_absences SET substitute_faculty_id = $2, is_processed = TRUE WHERE id = $1`
	if _, err := exec.ExecContext(ctx, query, id, substituteFacultyID); err != nil {
		return fmt.Errorf("mark absence processed: %w", err)
	}
	return nil
}
