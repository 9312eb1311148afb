package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/campusgrid/campusgrid-api/internal/models"
	"github.com/campusgrid/campusgrid-api/internal/scheduling"
	appErrors "github.com/campusgrid/campusgrid-api/pkg/errors"
)

type timetableRepository interface {
	ListActive(ctx context.Context) ([]models.TimetableEntryDetail, error)
	List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableEntryDetail, int, error)
	ListByFaculty(ctx context.Context, facultyID string) ([]models.TimetableEntryDetail, error)
	ListBySection(ctx context.Context, sectionID string) ([]models.TimetableEntryDetail, error)
	FindByID(ctx context.Context, id string) (*models.TimetableEntry, error)
	CreateBatch(ctx context.Context, exec sqlx.ExtContext, entries []models.TimetableEntry) error
	Deactivate(ctx context.Context, id string) error
}

type timeSlotLister interface {
	List(ctx context.Context) ([]models.TimeSlot, error)
}

type sectionReader interface {
	FindByID(ctx context.Context, id string) (*models.Section, error)
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type facultyReader interface {
	FindByID(ctx context.Context, id string) (*models.Faculty, error)
}

type classroomReader interface {
	FindByID(ctx context.Context, id string) (*models.Classroom, error)
}

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// CreateEntryRequest proposes a new timetable placement.
type CreateEntryRequest struct {
	SectionID     string  `json:"section_id" validate:"required"`
	CourseID      *string `json:"course_id,omitempty"`
	FacultyID     *string `json:"faculty_id,omitempty"`
	ClassroomID   *string `json:"classroom_id,omitempty"`
	DayOfWeek     int     `json:"day_of_week" validate:"min=0,max=6"`
	StartSlotID   string  `json:"start_slot_id" validate:"required"`
	DurationHours int     `json:"duration_hours,omitempty" validate:"min=0"`
}

// GridRow is one time slot across the week.
type GridRow struct {
	Slot    models.TimeSlot                 `json:"slot"`
	Entries [7][]models.TimetableEntryDetail `json:"entries"`
}

// TimetableGrid is the weekly view: one row per slot, one column per weekday.
type TimetableGrid struct {
	Rows []GridRow `json:"rows"`
}

// TimetableService coordinates placements and the timetable read paths.
type TimetableService struct {
	entries    timetableRepository
	slots      timeSlotLister
	sections   sectionReader
	courses    courseReader
	faculty    facultyReader
	classrooms classroomReader
	allocator  *scheduling.Allocator
	tx         txProvider
	cache      *CacheService
	metrics    *MetricsService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewTimetableService wires timetable dependencies.
func NewTimetableService(
	entries timetableRepository,
	slots timeSlotLister,
	sections sectionReader,
	courses courseReader,
	faculty facultyReader,
	classrooms classroomReader,
	allocator *scheduling.Allocator,
	tx txProvider,
	cache *CacheService,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if allocator == nil {
		allocator = scheduling.NewAllocator(scheduling.DefaultSessions())
	}
	return &TimetableService{
		entries:    entries,
		slots:      slots,
		sections:   sections,
		courses:    courses,
		faculty:    faculty,
		classrooms: classrooms,
		allocator:  allocator,
		tx:         tx,
		cache:      cache,
		metrics:    metrics,
		validator:  validate,
		logger:     logger,
	}
}

// List returns active entries with pagination metadata.
func (s *TimetableService) List(ctx context.Context, filter models.TimetableFilter) ([]models.TimetableEntryDetail, *models.Pagination, error) {
	entries, total, err := s.entries.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list entries")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 50
	}
	return entries, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// ListSlots returns the ordered slot configuration.
func (s *TimetableService) ListSlots(ctx context.Context) ([]models.TimeSlot, error) {
	slots, err := s.slots.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list time slots")
	}
	return slots, nil
}

// ListByFaculty returns one faculty member's weekly schedule.
func (s *TimetableService) ListByFaculty(ctx context.Context, facultyID string) ([]models.TimetableEntryDetail, error) {
	if _, err := s.faculty.FindByID(ctx, facultyID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "faculty not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load faculty")
	}
	entries, err := s.entries.ListByFaculty(ctx, facultyID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list faculty schedule")
	}
	return entries, nil
}

// Grid assembles the weekly day-by-slot view, optionally scoped to one
// section. Reads go through the cache; every write invalidates it.
func (s *TimetableService) Grid(ctx context.Context, sectionID string) (*TimetableGrid, error) {
	key := gridCacheKey(sectionID)
	var cached TimetableGrid
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, nil
	}

	slots, err := s.slots.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list time slots")
	}

	var entries []models.TimetableEntryDetail
	if sectionID != "" {
		entries, err = s.entries.ListBySection(ctx, sectionID)
	} else {
		entries, err = s.entries.ListActive(ctx)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list entries")
	}

	grid := &TimetableGrid{Rows: make([]GridRow, 0, len(slots))}
	bySlot := make(map[string]*GridRow, len(slots))
	for _, slot := range slots {
		grid.Rows = append(grid.Rows, GridRow{Slot: slot})
		bySlot[slot.ID] = &grid.Rows[len(grid.Rows)-1]
	}
	for _, entry := range entries {
		row, ok := bySlot[entry.TimeSlotID]
		if !ok || entry.DayOfWeek < 0 || entry.DayOfWeek > 6 {
			continue
		}
		row.Entries[entry.DayOfWeek] = append(row.Entries[entry.DayOfWeek], entry)
	}

	_ = s.cache.Set(ctx, key, grid, 0)
	return grid, nil
}

// CreateEntry validates the proposal against a fresh snapshot, then commits
// the accepted batch atomically. A unique-constraint rejection during the
// commit surfaces as CONFLICT_AT_COMMIT so the caller can tell a lost race
// from a stale form.
func (s *TimetableService) CreateEntry(ctx context.Context, req CreateEntryRequest) ([]models.TimetableEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid placement payload")
	}

	course, err := s.resolveReferences(ctx, req)
	if err != nil {
		return nil, err
	}

	slots, err := s.slots.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list time slots")
	}
	active, err := s.entries.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable snapshot")
	}

	batch, err := s.allocator.Place(scheduling.PlacementRequest{
		SectionID:     req.SectionID,
		CourseID:      req.CourseID,
		FacultyID:     req.FacultyID,
		ClassroomID:   req.ClassroomID,
		DayOfWeek:     req.DayOfWeek,
		StartSlotID:   req.StartSlotID,
		DurationHours: req.DurationHours,
	}, course, scheduling.Snapshot{Slots: slots, Entries: active})
	if err != nil {
		s.recordPlacement(appErrors.FromError(err).Code)
		return nil, err
	}

	if err := s.commitBatch(ctx, batch); err != nil {
		s.recordPlacement(appErrors.FromError(err).Code)
		return nil, err
	}

	s.recordPlacement("ACCEPTED")
	s.invalidateGrid(ctx)
	s.logger.Info("placement committed",
		zap.String("section_id", req.SectionID),
		zap.Int("day_of_week", req.DayOfWeek),
		zap.Int("slots", len(batch)),
	)
	return batch, nil
}

// DeactivateEntry soft-deletes a placement slot.
func (s *TimetableService) DeactivateEntry(ctx context.Context, id string) error {
	if _, err := s.entries.FindByID(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load entry")
	}
	if err := s.entries.Deactivate(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to deactivate entry")
	}
	s.invalidateGrid(ctx)
	return nil
}

// resolveReferences rejects unknown ids before any conflict logic runs.
func (s *TimetableService) resolveReferences(ctx context.Context, req CreateEntryRequest) (*models.Course, error) {
	if _, err := s.sections.FindByID(ctx, req.SectionID); err != nil {
		return nil, notFoundOr(err, "section not found")
	}
	if req.FacultyID != nil {
		if _, err := s.faculty.FindByID(ctx, *req.FacultyID); err != nil {
			return nil, notFoundOr(err, "faculty not found")
		}
	}
	if req.ClassroomID != nil {
		if _, err := s.classrooms.FindByID(ctx, *req.ClassroomID); err != nil {
			return nil, notFoundOr(err, "classroom not found")
		}
	}
	var course *models.Course
	if req.CourseID != nil {
		found, err := s.courses.FindByID(ctx, *req.CourseID)
		if err != nil {
			return nil, notFoundOr(err, "course not found")
		}
		course = found
	}
	return course, nil
}

func (s *TimetableService) commitBatch(ctx context.Context, batch []models.TimetableEntry) error {
	tx, err := s.tx.BeginTxx(ctx, nil)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	if err := s.entries.CreateBatch(ctx, tx, batch); err != nil {
		_ = tx.Rollback()
		if appErrors.FromError(err).Code == appErrors.ErrConflictAtCommit.Code {
			return err
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to write placement")
	}
	if err := tx.Commit(); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit placement")
	}
	return nil
}

func (s *TimetableService) recordPlacement(outcome string) {
	if s.metrics != nil {
		s.metrics.RecordPlacement(outcome)
	}
}

func (s *TimetableService) invalidateGrid(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, "timetable:grid:*"); err != nil {
		s.logger.Warn("grid cache invalidation failed", zap.Error(err))
	}
}

func gridCacheKey(sectionID string) string {
	if sectionID == "" {
		return "timetable:grid:all"
	}
	return fmt.Sprintf("timetable:grid:%s", sectionID)
}

func notFoundOr(err error, message string) error {
	if err == sql.ErrNoRows {
		return appErrors.Clone(appErrors.ErrNotFound, message)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve reference")
}
