package ports

import (
	"context"
	"time"

	"fleet-admin/internal/features/dashboard/domain"
)

// DashboardService defines the primary port for the dashboard.
type DashboardService interface {
	// Snapshot returns the KPIs, from the shared cache unless refresh is set.
	Snapshot(ctx context.Context, refresh bool) (*domain.Snapshot, error)
}

// KPISource fetches live KPIs from the backend.
type KPISource interface {
	Fetch(ctx context.Context) (*domain.KPIs, error)
}

// SnapshotCache stores the last snapshot shared by all sessions.
type SnapshotCache interface {
	Save(ctx context.Context, s *domain.Snapshot, ttl time.Duration) error
	// Get returns nil, nil when no snapshot is stored.
	Get(ctx context.Context) (*domain.Snapshot, error)
	Delete(ctx context.Context) error
}
