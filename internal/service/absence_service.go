package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/campusgrid/campusgrid-api/internal/models"
	"github.com/campusgrid/campusgrid-api/internal/scheduling"
	appErrors "github.com/campusgrid/campusgrid-api/pkg/errors"
)

const absenceDateLayout = "2006-01-02"

type absenceRepository interface {
	List(ctx context.Context, filter models.AbsenceFilter) ([]models.FacultyAbsenceDetail, int, error)
	FindByID(ctx context.Context, id string) (*models.FacultyAbsence, error)
	Create(ctx context.Context, absence *models.FacultyAbsence) error
	MarkProcessed(ctx context.Context, exec sqlx.ExtContext, id, substituteFacultyID string) error
}

type reallocationWriter interface {
	InsertBatch(ctx context.Context, exec sqlx.ExtContext, logs []models.ReallocationLog) error
}

type facultyRoster interface {
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
	ListRoster(ctx context.Context) ([]models.Faculty, error)
}

type activeEntryLister interface {
	ListActive(ctx context.Context) ([]models.TimetableEntryDetail, error)
}

// ReportAbsenceRequest is a faculty self-report of an upcoming absence.
type ReportAbsenceRequest struct {
	FacultyID   string  `json:"faculty_id" validate:"required"`
	AbsenceDate string  `json:"absence_date" validate:"required"`
	Reason      *string `json:"reason,omitempty"`
}

// ProcessAbsenceRequest assigns the chosen substitute to a pending absence.
type ProcessAbsenceRequest struct {
	SubstituteFacultyID string `json:"substitute_faculty_id" validate:"required"`
}

// AbsenceService runs the absence lifecycle: report, resolve substitutes,
// process.
type AbsenceService struct {
	absences      absenceRepository
	reallocations reallocationWriter
	faculty       facultyRoster
	entries       activeEntryLister
	tx            txProvider
	metrics       *MetricsService
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewAbsenceService wires absence dependencies.
func NewAbsenceService(
	absences absenceRepository,
	reallocations reallocationWriter,
	faculty facultyRoster,
	entries activeEntryLister,
	tx txProvider,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *AbsenceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AbsenceService{
		absences:      absences,
		reallocations: reallocations,
		faculty:       faculty,
		entries:       entries,
		tx:            tx,
		metrics:       metrics,
		validator:     validate,
		logger:        logger,
	}
}

// List returns absences with pagination metadata.
func (s *AbsenceService) List(ctx context.Context, filter models.AbsenceFilter) ([]models.FacultyAbsenceDetail, *models.Pagination, error) {
	absences, total, err := s.absences.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list absences")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return absences, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Report records a pending absence.
func (s *AbsenceService) Report(ctx context.Context, req ReportAbsenceRequest) (*models.FacultyAbsence, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid absence payload")
	}
	if _, err := time.Parse(absenceDateLayout, req.AbsenceDate); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "absence_date must be YYYY-MM-DD")
	}
	if _, err := s.faculty.FindByID(ctx, req.FacultyID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}

	absence := &models.FacultyAbsence{
		FacultyID:   req.FacultyID,
		AbsenceDate: req.AbsenceDate,
		Reason:      req.Reason,
	}
	if err := s.absences.Create(ctx, absence); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to report absence")
	}
	return absence, nil
}

// ResolveImpact computes the affected classes and free substitutes for a
// pending absence. Empty results are valid outcomes.
func (s *AbsenceService) ResolveImpact(ctx context.Context, absenceID string) (*scheduling.AbsenceImpact, error) {
	absence, err := s.loadAbsence(ctx, absenceID)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(absenceDateLayout, absence.AbsenceDate)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "stored absence date is malformed")
	}

	entries, err := s.entries.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable snapshot")
	}
	roster, err := s.faculty.ListRoster(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty roster")
	}

	impact := scheduling.ResolveSubstitutes(absence.FacultyID, date, scheduling.Snapshot{Entries: entries}, roster)
	return &impact, nil
}

// Process assigns the substitute: one reallocation-log row per affected
// class plus the absence update, in a single transaction. Processed
// absences are immutable.
func (s *AbsenceService) Process(ctx context.Context, absenceID string, req ProcessAbsenceRequest) (*scheduling.AbsenceImpact, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid process payload")
	}

	absence, err := s.loadAbsence(ctx, absenceID)
	if err != nil {
		return nil, err
	}
	if absence.IsProcessed {
		return nil, appErrors.Clone(appErrors.ErrConflict, "absence already processed")
	}
	if req.SubstituteFacultyID == absence.FacultyID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "substitute cannot be the absent faculty")
	}

	impact, err := s.ResolveImpact(ctx, absenceID)
	if err != nil {
		return nil, err
	}
	if !substituteAvailable(impact.AvailableSubstitutes, req.SubstituteFacultyID) {
		return nil, appErrors.Clone(appErrors.ErrConflict, "substitute is not free at the affected times")
	}

	reason := "Faculty absence"
	if absence.Reason != nil && *absence.Reason != "" {
		reason = *absence.Reason
	}
	logs := make([]models.ReallocationLog, 0, len(impact.AffectedClasses))
	for _, class := range impact.AffectedClasses {
		entryID := class.ID
		originalFaculty := absence.FacultyID
		substitute := req.SubstituteFacultyID
		logReason := reason
		logs = append(logs, models.ReallocationLog{
			OriginalEntryID:     &entryID,
			OriginalFacultyID:   &originalFaculty,
			SubstituteFacultyID: &substitute,
			ReallocationDate:    absence.AbsenceDate,
			Reason:              &logReason,
		})
	}

	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	if len(logs) > 0 {
		if err := s.reallocations.InsertBatch(ctx, tx, logs); err != nil {
			_ = tx.Rollback()
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record reallocations")
		}
	}
	if err := s.absences.MarkProcessed(ctx, tx, absenceID, req.SubstituteFacultyID); err != nil {
		_ = tx.Rollback()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update absence")
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit absence processing")
	}

	if s.metrics != nil {
		s.metrics.RecordAbsenceProcessed()
	}
	s.logger.Info("absence processed",
		zap.String("absence_id", absenceID),
		zap.String("substitute_id", req.SubstituteFacultyID),
		zap.Int("affected_classes", len(impact.AffectedClasses)),
	)
	return impact, nil
}

func (s *AbsenceService) loadAbsence(ctx context.Context, id string) (*models.FacultyAbsence, error) {
	absence, err := s.absences.FindByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "absence not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load absence")
	}
	return absence, nil
}

func substituteAvailable(pool []models.FacultyRef, id string) bool {
	for _, f := range pool {
		if f.ID == id {
			return true
		}
	}
	return false
}
