package adapters

import (
	"context"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/features/trips/domain"
)

const resource = "trips"

// RESTRepository implements ports.TripRepository against /trips/.
type RESTRepository struct {
	api apiclient.Requester
}

// NewRESTRepository creates a new RESTRepository.
func NewRESTRepository(api apiclient.Requester) *RESTRepository {
	return &RESTRepository{api: api}
}

func (r *RESTRepository) List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Trip], error) {
	return apiclient.List[domain.Trip](ctx, r.api, apiclient.Path(resource), q)
}

func (r *RESTRepository) Get(ctx context.Context, id int64) (*domain.Trip, error) {
	return apiclient.Get[domain.Trip](ctx, r.api, apiclient.Path(resource, id))
}

func (r *RESTRepository) Create(ctx context.Context, n domain.NewTrip) (*domain.Trip, error) {
	return apiclient.Create[domain.Trip](ctx, r.api, apiclient.Path(resource), n)
}

func (r *RESTRepository) Update(ctx context.Context, id int64, u domain.Update) (*domain.Trip, error) {
	return apiclient.Patch[domain.Trip](ctx, r.api, apiclient.Path(resource, id), u)
}

func (r *RESTRepository) Delete(ctx context.Context, id int64) error {
	return apiclient.Delete(ctx, r.api, apiclient.Path(resource, id))
}

func (r *RESTRepository) Dispatch(ctx context.Context, id int64) (*domain.DispatchResult, error) {
	var res domain.DispatchResult
	if err := apiclient.Post(ctx, r.api, apiclient.Path(resource, id, string(domain.ActionDispatch)), nil, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Complete sends only the figures that were provided.
func (r *RESTRepository) Complete(ctx context.Context, id int64, in domain.CompleteInput) error {
	return apiclient.Post(ctx, r.api, apiclient.Path(resource, id, string(domain.ActionComplete)), in, nil)
}

func (r *RESTRepository) Cancel(ctx context.Context, id int64) error {
	return apiclient.Post(ctx, r.api, apiclient.Path(resource, id, string(domain.ActionCancel)), nil, nil)
}
