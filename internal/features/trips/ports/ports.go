package ports

import (
	"context"

	"fleet-admin/internal/core/apiclient"
	drivers "fleet-admin/internal/features/drivers/domain"
	"fleet-admin/internal/features/trips/domain"
	vehicles "fleet-admin/internal/features/vehicles/domain"
)

// TripService defines the primary port: the trip lifecycle controller.
type TripService interface {
	List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Trip], error)
	Get(ctx context.Context, id int64) (*domain.Trip, error)
	Create(ctx context.Context, n domain.NewTrip) (*domain.Trip, error)
	Update(ctx context.Context, id int64, u domain.Update) (*domain.Trip, error)
	Delete(ctx context.Context, id int64) error

	// Dispatch, Complete and Cancel act on a trip the caller holds. On
	// success *trip is replaced with the backend's record; on failure it is
	// left untouched.
	Dispatch(ctx context.Context, trip *domain.Trip) error
	Complete(ctx context.Context, trip *domain.Trip, in domain.CompleteInput) error
	Cancel(ctx context.Context, trip *domain.Trip) error

	DispatchByID(ctx context.Context, id int64) (*domain.Trip, error)
	CompleteByID(ctx context.Context, id int64, in domain.CompleteInput) (*domain.Trip, error)
	CancelByID(ctx context.Context, id int64) (*domain.Trip, error)
}

// TripRepository defines the secondary port for trip storage.
type TripRepository interface {
	List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Trip], error)
	Get(ctx context.Context, id int64) (*domain.Trip, error)
	Create(ctx context.Context, n domain.NewTrip) (*domain.Trip, error)
	Update(ctx context.Context, id int64, u domain.Update) (*domain.Trip, error)
	Delete(ctx context.Context, id int64) error
	Dispatch(ctx context.Context, id int64) (*domain.DispatchResult, error)
	Complete(ctx context.Context, id int64, in domain.CompleteInput) error
	Cancel(ctx context.Context, id int64) error
}

// VehicleLookup resolves the vehicle picked for a new trip.
type VehicleLookup interface {
	Get(ctx context.Context, id int64) (*vehicles.Vehicle, error)
}

// DriverLookup resolves the driver picked for a new trip.
type DriverLookup interface {
	Get(ctx context.Context, id int64) (*drivers.Driver, error)
}
