package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/campusgrid/campusgrid-api/internal/models"
)

// DashboardRepository aggregates the landing-page counters.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs a DashboardRepository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Stats collects the counters in one round trip per aggregate. today is an
// ISO date, weekday its 0-6 day number.
func (r *DashboardRepository) Stats(ctx context.Context, today string, weekday int) (*models.DashboardStats, error) {
	stats := &models.DashboardStats{}

	counts := []struct {
		dest  *int
		query string
		args  []interface{}
	}{
		{&stats.TotalFaculty, "SELECT COUNT(*) FROM faculty", nil},
		{&stats.TotalClassrooms, "SELECT COUNT(*) FROM classrooms", nil},
		{&stats.TotalCourses, "SELECT COUNT(*) FROM courses", nil},
		{&stats.AvailableClassrooms, "SELECT COUNT(*) FROM classrooms WHERE is_available = TRUE", nil},
		{&stats.PendingAbsences, "SELECT COUNT(*) FROM faculty_absences WHERE is_processed = FALSE", nil},
		{&stats.TodayAbsences, "SELECT COUNT(*) FROM faculty_absences WHERE absence_date = $1", []interface{}{today}},
		{&stats.TodayClasses, "SELECT COUNT(*) FROM timetable_entries WHERE is_active = TRUE AND day_of_week = $1", []interface{}{weekday}},
	}

	for _, c := range counts {
		if err := r.db.GetContext(ctx, c.dest, c.query, c.args...); err != nil {
			return nil, fmt.Errorf("dashboard count: %w", err)
		}
	}

	return stats, nil
}
