package ports

import (
	"context"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/features/drivers/domain"
)

// DriverService defines the primary port for driver operations.
type DriverService interface {
	List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Driver], error)
	Available(ctx context.Context) ([]domain.Driver, error)
	Get(ctx context.Context, id int64) (*domain.Driver, error)
	Create(ctx context.Context, in domain.Input) (*domain.Driver, error)
	Update(ctx context.Context, id int64, in domain.Input) (*domain.Driver, error)
	Delete(ctx context.Context, id int64) error
	ComplianceAlerts(ctx context.Context) (*domain.ComplianceAlerts, error)
	Suspend(ctx context.Context, id int64) (*domain.Driver, error)
	Reinstate(ctx context.Context, id int64) (*domain.Driver, error)
}

// DriverRepository defines the secondary port for driver storage.
type DriverRepository interface {
	List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Driver], error)
	Available(ctx context.Context) ([]domain.Driver, error)
	Get(ctx context.Context, id int64) (*domain.Driver, error)
	Create(ctx context.Context, in domain.Input) (*domain.Driver, error)
	Update(ctx context.Context, id int64, in domain.Input) (*domain.Driver, error)
	Delete(ctx context.Context, id int64) error
	ComplianceAlerts(ctx context.Context) (*domain.ComplianceAlerts, error)
	Suspend(ctx context.Context, id int64) error
	Reinstate(ctx context.Context, id int64) error
}
