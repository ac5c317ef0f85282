package service

import (
	"context"
	"time"

	"fleet-admin/internal/core/logger"
	"fleet-admin/internal/features/dashboard/domain"
	"fleet-admin/internal/features/dashboard/ports"

	"go.uber.org/zap"
)

// DashboardService implements ports.DashboardService.
type DashboardService struct {
	source ports.KPISource
	cache  ports.SnapshotCache
	ttl    time.Duration
	now    func() time.Time
}

// NewDashboardService creates a new DashboardService. A nil cache or zero
// ttl always fetches live figures.
func NewDashboardService(source ports.KPISource, cache ports.SnapshotCache, ttl time.Duration) *DashboardService {
	return &DashboardService{source: source, cache: cache, ttl: ttl, now: time.Now}
}

func (s *DashboardService) Snapshot(ctx context.Context, refresh bool) (*domain.Snapshot, error) {
	if s.cached() && !refresh {
		snap, err := s.cache.Get(ctx)
		if err != nil {
			logger.Get().Warn("Dashboard cache read failed", zap.Error(err))
		} else if snap != nil {
			return snap, nil
		}
	}

	kpis, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	snap := domain.NewSnapshot(*kpis, s.now())
	if s.cached() {
		if err := s.cache.Save(ctx, snap, s.ttl); err != nil {
			logger.Get().Warn("Dashboard cache write failed", zap.Error(err))
		}
	}
	return snap, nil
}

func (s *DashboardService) cached() bool {
	return s.cache != nil && s.ttl > 0
}
