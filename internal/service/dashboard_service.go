package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bomino/newgrader/internal/models"
	appErrors "github.com/bomino/newgrader/pkg/errors"
)

const dashboardCountsKey = "dashboard:counts"

type dashboardCountsReader interface {
	TotalCounts(ctx context.Context) (*models.DashboardCounts, error)
}

// DashboardService serves the landing-page totals, cached for a short TTL
// since they only drift when rosters change.
type DashboardService struct {
	counts   dashboardCountsReader
	cache    *CacheService
	cacheTTL time.Duration
	logger   *zap.Logger
}

// NewDashboardService constructs DashboardService.
func NewDashboardService(counts dashboardCountsReader, cache *CacheService, cacheTTL time.Duration, logger *zap.Logger) *DashboardService {
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{counts: counts, cache: cache, cacheTTL: cacheTTL, logger: logger}
}

// Counts returns entity totals across the whole gradebook.
func (s *DashboardService) Counts(ctx context.Context) (*models.DashboardCounts, error) {
	var cached models.DashboardCounts
	if hit, err := s.cache.Get(ctx, dashboardCountsKey, &cached); err == nil && hit {
		return &cached, nil
	}

	counts, err := s.counts.TotalCounts(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load dashboard counts")
	}
	if err := s.cache.Set(ctx, dashboardCountsKey, counts, s.cacheTTL); err != nil {
		s.logger.Warn("dashboard counts cache write failed", zap.Error(err))
	}
	return counts, nil
}
