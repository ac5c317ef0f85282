package adapters

import (
	"context"

	"fleet-admin/internal/core/apiclient"
	"fleet-admin/internal/features/vehicles/domain"
)

const resource = "vehicles"

// RESTRepository implements ports.VehicleRepository against /vehicles/.
type RESTRepository struct {
	api apiclient.Requester
}

// NewRESTRepository creates a new RESTRepository.
func NewRESTRepository(api apiclient.Requester) *RESTRepository {
	return &RESTRepository{api: api}
}

func (r *RESTRepository) List(ctx context.Context, q apiclient.ListQuery) (*apiclient.Page[domain.Vehicle], error) {
	return apiclient.List[domain.Vehicle](ctx, r.api, apiclient.Path(resource), q)
}

func (r *RESTRepository) Available(ctx context.Context) ([]domain.Vehicle, error) {
	return apiclient.GetList[domain.Vehicle](ctx, r.api, apiclient.Path(resource, "available"), nil)
}

func (r *RESTRepository) Get(ctx context.Context, id int64) (*domain.Vehicle, error) {
	return apiclient.Get[domain.Vehicle](ctx, r.api, apiclient.Path(resource, id))
}

func (r *RESTRepository) Create(ctx context.Context, in domain.Input) (*domain.Vehicle, error) {
	return apiclient.Create[domain.Vehicle](ctx, r.api, apiclient.Path(resource), in)
}

func (r *RESTRepository) Update(ctx context.Context, id int64, in domain.Input) (*domain.Vehicle, error) {
	return apiclient.Patch[domain.Vehicle](ctx, r.api, apiclient.Path(resource, id), in)
}

func (r *RESTRepository) Delete(ctx context.Context, id int64) error {
	return apiclient.Delete(ctx, r.api, apiclient.Path(resource, id))
}

// Retire calls the retire action. The backend answers with a message only.
func (r *RESTRepository) Retire(ctx context.Context, id int64) error {
	return apiclient.Post(ctx, r.api, apiclient.Path(resource, id, "retire"), nil, nil)
}

func (r *RESTRepository) ROI(ctx context.Context, id int64) (*domain.ROIReport, error) {
	return apiclient.Get[domain.ROIReport](ctx, r.api, apiclient.Path(resource, id, "roi"))
}
