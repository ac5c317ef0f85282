package adapters

import (
	"context"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/features/maintenance/domain"
)

const resource = "maintenance"

// RESTRepository implements ports.MaintenanceRepository against /maintenance/.
type RESTRepository struct {
	api apiclient.Requester
}

// NewRESTRepository creates a new RESTRepository.
func NewRESTRepository(api apiclient.Requester) *RESTRepository {
	return &RESTRepository{api: api}
}

func (r *RESTRepository) List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Record], error) {
	return apiclient.List[domain.Record](ctx, r.api, apiclient.Path(resource), q)
}

func (r *RESTRepository) Get(ctx context.Context, id int64) (*domain.Record, error) {
	return apiclient.Get[domain.Record](ctx, r.api, apiclient.Path(resource, id))
}

func (r *RESTRepository) Create(ctx context.Context, in domain.Input) (*domain.Record, error) {
	return apiclient.Create[domain.Record](ctx, r.api, apiclient.Path(resource), in)
}

func (r *RESTRepository) Update(ctx context.Context, id int64, in domain.Input) (*domain.Record, error) {
	return apiclient.Patch[domain.Record](ctx, r.api, apiclient.Path(resource, id), in)
}

func (r *RESTRepository) Delete(ctx context.Context, id int64) error {
	return apiclient.Delete(ctx, r.api, apiclient.Path(resource, id))
}

func (r *RESTRepository) Complete(ctx context.Context, id int64) error {
	return apiclient.Post(ctx, r.api, apiclient.Path(resource, id, "complete"), nil, nil)
}
