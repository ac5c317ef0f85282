package ports

import (
	"context"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/features/fuel/domain"
)

// FuelService defines the primary port for fuel logs.
type FuelService interface {
	List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Log], error)
	Get(ctx context.Context, id int64) (*domain.Log, error)
	Create(ctx context.Context, in domain.Input) (*domain.Log, error)
	Update(ctx context.Context, id int64, in domain.Input) (*domain.Log, error)
	Delete(ctx context.Context, id int64) error
	Efficiency(ctx context.Context) ([]domain.Efficiency, error)
	Estimate(in domain.Input) (*domain.Estimate, error)
}

// FuelRepository defines the secondary port for fuel log storage.
type FuelRepository interface {
	List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Log], error)
	Get(ctx context.Context, id int64) (*domain.Log, error)
	Create(ctx context.Context, in domain.Input) (*domain.Log, error)
	Update(ctx context.Context, id int64, in domain.Input) (*domain.Log, error)
	Delete(ctx context.Context, id int64) error
	Efficiency(ctx context.Context) ([]domain.Efficiency, error)
}
