package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/campusgrid/campusgrid-api/internal/models"
	appErrors "github.com/campusgrid/campusgrid-api/pkg/errors"
)

const dashboardStatsCacheKey = "dashboard:stats"

type dashboardRepository interface {
	Stats(ctx context.Context, today string, weekday int) (*models.DashboardStats, error)
}

// DashboardService aggregates the landing-page counters.
type DashboardService struct {
	repo     dashboardRepository
	cache    *CacheService
	cacheTTL time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewDashboardService instantiates DashboardService.
func NewDashboardService(repo dashboardRepository, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{repo: repo, cache: cache, cacheTTL: cacheTTL, now: time.Now, logger: logger}
}

// Stats returns the dashboard counters for today, serving from cache when
// possible. "Today" is the server's local date; absences are stored as
// plain dates so no timezone conversion applies.
func (s *DashboardService) Stats(ctx context.Context) (*models.DashboardStats, error) {
	var cached models.DashboardStats
	if hit, _ := s.cache.Get(ctx, dashboardStatsCacheKey, &cached); hit {
		return &cached, nil
	}

	today := s.now()
	stats, err := s.repo.Stats(ctx, today.Format("2006-01-02"), int(today.Weekday()))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to compute dashboard stats")
	}

	if err := s.cache.Set(ctx, dashboardStatsCacheKey, stats, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache dashboard stats", zap.Error(err))
	}
	return stats, nil
}
