package ports

import (
	"context"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/features/vehicles/domain"
)

// VehicleService defines the primary port for vehicle operations.
type VehicleService interface {
	List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Vehicle], error)
	Available(ctx context.Context) ([]domain.Vehicle, error)
	Get(ctx context.Context, id int64) (*domain.Vehicle, error)
	Create(ctx context.Context, in domain.Input) (*domain.Vehicle, error)
	Update(ctx context.Context, id int64, in domain.Input) (*domain.Vehicle, error)
	Delete(ctx context.Context, id int64) error
	Retire(ctx context.Context, id int64) (*domain.Vehicle, error)
	ROI(ctx context.Context, id int64) (*domain.ROIReport, error)
}

// VehicleRepository defines the secondary port for vehicle storage.
type VehicleRepository interface {
	List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Vehicle], error)
	Available(ctx context.Context) ([]domain.Vehicle, error)
	Get(ctx context.Context, id int64) (*domain.Vehicle, error)
	Create(ctx context.Context, in domain.Input) (*domain.Vehicle, error)
	Update(ctx context.Context, id int64, in domain.Input) (*domain.Vehicle, error)
	Delete(ctx context.Context, id int64) error
	Retire(ctx context.Context, id int64) error
	ROI(ctx context.Context, id int64) (*domain.ROIReport, error)
}
