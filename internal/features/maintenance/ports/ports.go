package ports

import (
	"context"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/features/maintenance/domain"
)

// MaintenanceService defines the primary port for maintenance records.
type MaintenanceService interface {
	List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Record], error)
	Get(ctx context.Context, id int64) (*domain.Record, error)
	Create(ctx context.Context, in domain.Input) (*domain.Record, error)
	Update(ctx context.Context, id int64, in domain.Input) (*domain.Record, error)
	Delete(ctx context.Context, id int64) error
	Complete(ctx context.Context, id int64) (*domain.Record, error)
}

// MaintenanceRepository defines the secondary port for maintenance storage.
type MaintenanceRepository interface {
	List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Record], error)
	Get(ctx context.Context, id int64) (*domain.Record, error)
	Create(ctx context.Context, in domain.Input) (*domain.Record, error)
	Update(ctx context.Context, id int64, in domain.Input) (*domain.Record, error)
	Delete(ctx context.Context, id int64) error
	Complete(ctx context.Context, id int64) error
}
