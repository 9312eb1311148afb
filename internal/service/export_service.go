package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/campusgrid/campusgrid-api/internal/models"
	appErrors "github.com/campusgrid/campusgrid-api/pkg/errors"
	"github.com/campusgrid/campusgrid-api/pkg/export"
)

var dayNames = [7]string{"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"}

type sectionEntryLister interface {
	ListBySection(ctx context.Context, sectionID string) ([]models.TimetableEntryDetail, error)
}

// ExportService renders a section's weekly timetable as CSV or PDF.
type ExportService struct {
	sections sectionReader
	entries  sectionEntryLister
	slots    timeSlotLister
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	logger   *zap.Logger
}

// NewExportService instantiates ExportService.
func NewExportService(sections sectionReader, entries sectionEntryLister, slots timeSlotLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		sections: sections,
		entries:  entries,
		slots:    slots,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
	}
}

// ExportResult carries a rendered document with its transport metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// SectionTimetableCSV renders the weekly grid for a section as CSV.
func (s *ExportService) SectionTimetableCSV(ctx context.Context, sectionID string) (*ExportResult, error) {
	section, data, err := s.buildDataset(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	content, err := s.csv.Render(*data)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render CSV export")
	}
	return &ExportResult{
		Content:     content,
		ContentType: "text/csv",
		Filename:    exportFilename(section, "csv"),
	}, nil
}

// SectionTimetablePDF renders the weekly grid for a section as PDF.
func (s *ExportService) SectionTimetablePDF(ctx context.Context, sectionID string) (*ExportResult, error) {
	section, data, err := s.buildDataset(ctx, sectionID)
	if err != nil {
		return nil, err
	}
	content, err := s.pdf.Render(*data, fmt.Sprintf("Weekly Timetable - %s", section.Name))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render PDF export")
	}
	return &ExportResult{
		Content:     content,
		ContentType: "application/pdf",
		Filename:    exportFilename(section, "pdf"),
	}, nil
}

// buildDataset lays the section's active entries onto a slot-by-day grid.
// Rows are ordered by slot number, columns Sunday through Saturday.
func (s *ExportService) buildDataset(ctx context.Context, sectionID string) (*models.Section, *export.Dataset, error) {
	section, err := s.sections.FindByID(ctx, sectionID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "section not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load section")
	}

	slots, err := s.slots.List(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load time slots")
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].SlotNumber < slots[j].SlotNumber })

	entries, err := s.entries.ListBySection(ctx, sectionID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entries")
	}

	type cellKey struct {
		slotID string
		day    int
	}
	cells := make(map[cellKey][]string, len(entries))
	for _, entry := range entries {
		key := cellKey{slotID: entry.TimeSlotID, day: entry.DayOfWeek}
		cells[key] = append(cells[key], formatCell(entry))
	}

	headers := make([]string, 0, 8)
	headers = append(headers, "Time")
	headers = append(headers, dayNames[:]...)

	rows := make([]map[string]string, 0, len(slots))
	for _, slot := range slots {
		row := make(map[string]string, 8)
		row["Time"] = fmt.Sprintf("%s - %s", slot.StartTime, slot.EndTime)
		for day := 0; day < 7; day++ {
			row[dayNames[day]] = strings.Join(cells[cellKey{slotID: slot.ID, day: day}], "; ")
		}
		rows = append(rows, row)
	}

	return section, &export.Dataset{Headers: headers, Rows: rows}, nil
}

func formatCell(entry models.TimetableEntryDetail) string {
	parts := make([]string, 0, 3)
	if entry.CourseCode != nil && *entry.CourseCode != "" {
		parts = append(parts, *entry.CourseCode)
	} else if entry.CourseName != nil && *entry.CourseName != "" {
		parts = append(parts, *entry.CourseName)
	}
	if entry.FacultyName != nil && *entry.FacultyName != "" {
		parts = append(parts, *entry.FacultyName)
	}
	if entry.ClassroomName != nil && *entry.ClassroomName != "" {
		parts = append(parts, *entry.ClassroomName)
	}
	if len(parts) == 0 {
		return "Reserved"
	}
	return strings.Join(parts, " / ")
}

func exportFilename(section *models.Section, ext string) string {
	name := strings.ToLower(strings.ReplaceAll(section.Name, " ", "-"))
	return fmt.Sprintf("timetable-%s.%s", name, ext) // e.g. timetable-cs-3a.csv
}
